// Package evmrpc is the JSON-RPC gateway to the configured EVM networks.
package evmrpc

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"

	"github.com/kislikjeka/swapwallet/internal/platform/network"
	"github.com/kislikjeka/swapwallet/pkg/logger"
)

const (
	requestTimeout      = 30 * time.Second
	defaultPollInterval = 2 * time.Second
	maxPollInterval     = 15 * time.Second
)

// NetworkCatalog resolves network ids to their configuration
type NetworkCatalog interface {
	Network(id string) (*network.Network, error)
}

// Options tune the gateway
type Options struct {
	// RateLimit is the per-network request budget in requests per second
	RateLimit int
	// PollInterval is the first receipt poll delay
	PollInterval time.Duration
	HTTPClient   *http.Client
}

// chainClient is a lazily dialled connection to one network
type chainClient struct {
	network *network.Network
	rpc     *rpc.Client
	eth     *ethclient.Client
	limiter *rate.Limiter
}

// Client talks to every configured network over JSON-RPC
type Client struct {
	catalog NetworkCatalog
	opts    Options
	logger  *logger.Logger

	mu      sync.Mutex
	clients map[string]*chainClient
}

// NewClient creates a new gateway client. Connections are dialled on first use.
func NewClient(catalog NetworkCatalog, opts Options, log *logger.Logger) *Client {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 20
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		catalog: catalog,
		opts:    opts,
		logger:  log.WithField("component", "evmrpc"),
		clients: make(map[string]*chainClient),
	}
}

// client returns the connection for a network after waiting for its rate limiter
func (c *Client) client(ctx context.Context, networkID string) (*chainClient, error) {
	cc, err := c.connect(ctx, networkID)
	if err != nil {
		return nil, err
	}
	if err := cc.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return cc, nil
}

func (c *Client) connect(ctx context.Context, networkID string) (*chainClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cc, ok := c.clients[networkID]; ok {
		return cc, nil
	}

	n, err := c.catalog.Network(networkID)
	if err != nil {
		return nil, err
	}

	rpcClient, err := rpc.DialOptions(ctx, n.RPCURL, rpc.WithHTTPClient(c.opts.HTTPClient))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s RPC: %w", networkID, err)
	}

	cc := &chainClient{
		network: n,
		rpc:     rpcClient,
		eth:     ethclient.NewClient(rpcClient),
		limiter: rate.NewLimiter(rate.Limit(c.opts.RateLimit), c.opts.RateLimit),
	}
	c.clients[networkID] = cc

	c.logger.Info("connected to network RPC", "network", networkID, "chain_id", n.ChainID)
	return cc, nil
}

// Close closes every open connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, cc := range c.clients {
		cc.eth.Close()
		delete(c.clients, id)
	}
}
