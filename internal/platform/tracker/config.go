package tracker

import "time"

// Config holds configuration for transfer tracking
type Config struct {
	// ConfirmationTimeout bounds one wait for a receipt
	ConfirmationTimeout time.Duration
}

// DefaultConfig returns the default tracking configuration
func DefaultConfig() *Config {
	return &Config{
		ConfirmationTimeout: 3 * time.Minute,
	}
}

// applyDefaults fills in defaults for unset values
func (c *Config) applyDefaults() {
	if c.ConfirmationTimeout <= 0 {
		c.ConfirmationTimeout = DefaultConfig().ConfirmationTimeout
	}
}
