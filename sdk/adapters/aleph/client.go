package aleph

import (
	"context"
	"net/http"
	"strings"
	"time"

	ristretto "github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/storekit"
	"github.com/LumeraProtocol/pastadrop/sdk/log"
)

//go:generate mockgen -destination=mocks/client_mock.go -package=mocks . Client

// Client submits STORE messages and reads stored content back.
type Client interface {
	Submit(ctx context.Context, env storekit.Envelope, raw []byte) (*SubmitResult, error)
	Fetch(ctx context.Context, address string) ([]byte, error)
}

// ConfigParams holds configuration parameters from global config
type ConfigParams struct {
	APIServer   string
	Gateway     string
	ExplorerURL string
	Cache       CacheConfig
}

type Adapter struct {
	apiServer   string
	gateway     string
	explorerURL string
	httpClient  *http.Client
	logger      log.Logger

	cache    *ristretto.Cache[string, []byte]
	cacheTTL time.Duration
	sf       singleflight.Group
}

var _ Client = (*Adapter)(nil)

// NewAdapter creates an Adapter. A nil httpClient uses http.DefaultClient
// and sets no timeout of its own.
func NewAdapter(config ConfigParams, httpClient *http.Client, logger log.Logger) (*Adapter, error) {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if config.APIServer == "" || config.Gateway == "" {
		return nil, errors.New("aleph api server and gateway are required")
	}

	a := &Adapter{
		apiServer:   strings.TrimRight(config.APIServer, "/"),
		gateway:     strings.TrimRight(config.Gateway, "/"),
		explorerURL: strings.TrimRight(config.ExplorerURL, "/"),
		httpClient:  httpClient,
		logger:      logger,
	}
	if config.Cache.Enabled {
		c, err := newContentCache(config.Cache)
		if err != nil {
			return nil, err
		}
		a.cache = c
		a.cacheTTL = config.Cache.TTL
	}

	logger.Debug(context.Background(), "Aleph adapter created",
		"apiServer", a.apiServer,
		"gateway", a.gateway,
		"cache", config.Cache.Enabled)
	return a, nil
}

// Close releases the retrieval cache.
func (a *Adapter) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
}
