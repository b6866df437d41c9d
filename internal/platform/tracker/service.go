package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/kislikjeka/swapwallet/pkg/logger"
)

// Service owns one Tracker per swap and runs confirmation waits in the background
type Service struct {
	deps     Dependencies
	config   *Config
	logger   *logger.Logger
	observer Observer

	mu       sync.Mutex
	trackers map[string]*Tracker

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates a new tracker service. observer may be nil.
func NewService(config *Config, deps Dependencies, log *logger.Logger, observer Observer) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	config.applyDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		deps:     deps,
		config:   config,
		logger:   log.WithField("service", "tracker"),
		observer: observer,
		trackers: make(map[string]*Tracker),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Tracker returns the tracker for swapID, creating and initializing it on
// first use. A resumed attempt starts waiting for its receipt immediately.
// Until the attempt cache can be read every call fails with ErrStateUnavailable.
func (s *Service) Tracker(ctx context.Context, swapID string) (*Tracker, error) {
	s.mu.Lock()
	tr, ok := s.trackers[swapID]
	if !ok {
		tr = NewTracker(swapID, s.deps, s.config, s.logger, s.observer)
		s.trackers[swapID] = tr
	}
	s.mu.Unlock()

	ctx = context.WithValue(ctx, logger.SwapIDKey, swapID)
	resumed, err := tr.Init(ctx)
	if err != nil {
		return nil, err
	}
	if resumed {
		s.logger.Info("resuming transfer from cached hash", "swap_id", swapID)
		s.watch(tr)
	}
	return tr, nil
}

// Attempt returns the current attempt of a swap
func (s *Service) Attempt(ctx context.Context, swapID string) (Attempt, error) {
	tr, err := s.Tracker(ctx, swapID)
	if err != nil {
		return Attempt{}, err
	}
	return tr.Snapshot(), nil
}

// Prepare prices a new transfer for a swap
func (s *Service) Prepare(ctx context.Context, swapID string, intent TransferIntent) (Attempt, error) {
	tr, err := s.Tracker(ctx, swapID)
	if err != nil {
		return Attempt{}, err
	}
	return tr.Prepare(context.WithValue(ctx, logger.SwapIDKey, swapID), intent)
}

// Submit broadcasts the prepared transfer and returns once its hash is known.
// Confirmation continues in the background.
func (s *Service) Submit(ctx context.Context, swapID string) (Attempt, error) {
	tr, err := s.Tracker(ctx, swapID)
	if err != nil {
		return Attempt{}, err
	}

	// the broadcast must not be abandoned when the caller goes away
	attempt, err := tr.Broadcast(context.WithoutCancel(context.WithValue(ctx, logger.SwapIDKey, swapID)))
	if err != nil {
		return attempt, err
	}
	if attempt.Phase == PhaseConfirming {
		s.watch(tr)
	}
	return attempt, nil
}

// Resume restarts the confirmation wait of an attempt whose previous wait timed out
func (s *Service) Resume(ctx context.Context, swapID string) (Attempt, error) {
	tr, err := s.Tracker(ctx, swapID)
	if err != nil {
		return Attempt{}, err
	}
	snap := tr.Snapshot()
	if snap.Phase != PhaseConfirming {
		return snap, ErrNothingToConfirm
	}
	if snap.StillPending {
		s.watch(tr)
	}
	return snap, nil
}

// Close stops background waits and blocks until they return
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Service) watch(tr *Tracker) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		swapID := tr.Snapshot().SwapID
		ctx := context.WithValue(s.ctx, logger.SwapIDKey, swapID)
		if _, err := tr.AwaitConfirmation(ctx); err != nil && !errors.Is(err, ErrAttemptInFlight) {
			s.logger.Warn("confirmation wait ended", "swap_id", swapID, "error", err)
		}
	}()
}
