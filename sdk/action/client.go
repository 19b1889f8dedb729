package action

import (
	"context"
	"net/http"
	"time"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
	"github.com/LumeraProtocol/pastadrop/sdk/adapters/aleph"
	"github.com/LumeraProtocol/pastadrop/sdk/config"
	"github.com/LumeraProtocol/pastadrop/sdk/event"
	"github.com/LumeraProtocol/pastadrop/sdk/log"
	"github.com/LumeraProtocol/pastadrop/sdk/preflight"
)

// PasteResult identifies a stored paste.
type PasteResult struct {
	FileHash string
	ItemHash string
	Sender   string
	Chain    storekit.Chain
}

type Client interface {
	// CreatePaste hashes text, has wallet sign a STORE message for it and
	// submits both to Aleph.
	CreatePaste(ctx context.Context, wallet Wallet, text string) (PasteResult, error)

	// FetchPaste returns the bytes stored under a content address.
	FetchPaste(ctx context.Context, address string) ([]byte, error)

	SubscribeToEvents(eventType event.EventType, handler event.Handler)

	SubscribeToAllEvents(handler event.Handler)
}

type ClientImpl struct {
	config    config.Config
	aleph     aleph.Client
	preflight *preflight.Checker
	bus       *event.Bus
	logger    log.Logger
	now       func() time.Time
}

var _ Client = (*ClientImpl)(nil)

// Option configures NewClient.
type Option func(*options)

type options struct {
	aleph      aleph.Client
	httpClient *http.Client
	cache      aleph.CacheConfig
	now        func() time.Time
}

// WithAlephClient replaces the HTTP Aleph adapter.
func WithAlephClient(c aleph.Client) Option {
	return func(o *options) { o.aleph = c }
}

// WithHTTPClient sets the HTTP client of the default Aleph adapter.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithRetrievalCache enables the retrieval cache of the default adapter.
func WithRetrievalCache(c aleph.CacheConfig) Option {
	return func(o *options) { o.cache = c }
}

// WithClock sets the clock used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func NewClient(cfg config.Config, logger log.Logger, opts ...Option) (Client, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	cfg, err := config.NewConfig(cfg)
	if err != nil {
		return nil, errors.Errorf("invalid config: %w", err)
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	alephClient := o.aleph
	if alephClient == nil {
		adapter, err := aleph.NewAdapter(aleph.ConfigParams{
			APIServer:   cfg.Aleph.APIServer,
			Gateway:     cfg.Aleph.Gateway,
			ExplorerURL: cfg.Aleph.ExplorerURL,
			Cache:       o.cache,
		}, o.httpClient, logger)
		if err != nil {
			return nil, errors.Errorf("failed to create aleph adapter: %w", err)
		}
		alephClient = adapter
	}

	return &ClientImpl{
		config:    cfg,
		aleph:     alephClient,
		preflight: preflight.NewChecker(cfg.Ethereum, logger),
		bus:       event.NewBus(logger),
		logger:    logger,
		now:       o.now,
	}, nil
}

// SubscribeToEvents registers a handler for specific event types
func (c *ClientImpl) SubscribeToEvents(eventType event.EventType, handler event.Handler) {
	c.bus.Subscribe(eventType, handler)
}

// SubscribeToAllEvents registers a handler for all events
func (c *ClientImpl) SubscribeToAllEvents(handler event.Handler) {
	c.bus.SubscribeAll(handler)
}

func (c *ClientImpl) emit(ctx context.Context, t event.EventType, correlationID string, chain storekit.Chain, data map[event.EventDataKey]interface{}) {
	c.bus.Publish(ctx, event.NewEvent(t, correlationID, string(chain), data))
}
