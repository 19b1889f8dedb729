package config

import (
	"net/url"
	"strings"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
)

const (
	DefaultAPIServer        = "https://api2.aleph.im"
	DefaultGateway          = "https://api2.aleph.im/api/v0"
	DefaultChannel          = "PASTA_DROP"
	DefaultExplorerURL      = "https://explorer.aleph.im"
	DefaultChainID          = "0x1"
	DefaultEntitlementToken = "0x27702a26126e0B3702af63Ee09aC4d1A084EF628"
)

// AlephConfig locates the Aleph network.
type AlephConfig struct {
	APIServer   string
	Gateway     string
	Channel     string
	ExplorerURL string
}

// EthereumConfig holds the EVM preconditions. ChainID is the single
// accepted network, in hex.
type EthereumConfig struct {
	ChainID          string
	EntitlementToken string
}

type Config struct {
	Aleph    AlephConfig
	Ethereum EthereumConfig
}

// DefaultConfig returns the production Aleph and Ethereum mainnet settings.
func DefaultConfig() Config {
	return Config{
		Aleph: AlephConfig{
			APIServer:   DefaultAPIServer,
			Gateway:     DefaultGateway,
			Channel:     DefaultChannel,
			ExplorerURL: DefaultExplorerURL,
		},
		Ethereum: EthereumConfig{
			ChainID:          DefaultChainID,
			EntitlementToken: DefaultEntitlementToken,
		},
	}
}

// NewConfig fills empty fields of c from DefaultConfig, trims trailing
// slashes from URLs and validates the result.
func NewConfig(c Config) (Config, error) {
	d := DefaultConfig()
	if c.Aleph.APIServer == "" {
		c.Aleph.APIServer = d.Aleph.APIServer
	}
	if c.Aleph.Gateway == "" {
		c.Aleph.Gateway = d.Aleph.Gateway
	}
	if c.Aleph.Channel == "" {
		c.Aleph.Channel = d.Aleph.Channel
	}
	if c.Aleph.ExplorerURL == "" {
		c.Aleph.ExplorerURL = d.Aleph.ExplorerURL
	}
	if c.Ethereum.ChainID == "" {
		c.Ethereum.ChainID = d.Ethereum.ChainID
	}
	if c.Ethereum.EntitlementToken == "" {
		c.Ethereum.EntitlementToken = d.Ethereum.EntitlementToken
	}
	c.Aleph.APIServer = strings.TrimRight(c.Aleph.APIServer, "/")
	c.Aleph.Gateway = strings.TrimRight(c.Aleph.Gateway, "/")
	c.Aleph.ExplorerURL = strings.TrimRight(c.Aleph.ExplorerURL, "/")

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	for name, raw := range map[string]string{
		"aleph api server": c.Aleph.APIServer,
		"aleph gateway":    c.Aleph.Gateway,
		"explorer url":     c.Aleph.ExplorerURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Errorf("invalid %s %q", name, raw)
		}
	}
	if strings.TrimSpace(c.Aleph.Channel) == "" {
		return errors.New("aleph channel is required")
	}
	if !strings.HasPrefix(c.Ethereum.ChainID, "0x") || len(c.Ethereum.ChainID) < 3 {
		return errors.Errorf("chain id %q must be 0x-prefixed hex", c.Ethereum.ChainID)
	}
	if len(c.Ethereum.EntitlementToken) != 42 || !strings.HasPrefix(c.Ethereum.EntitlementToken, "0x") {
		return errors.Errorf("invalid entitlement token address %q", c.Ethereum.EntitlementToken)
	}
	return nil
}
