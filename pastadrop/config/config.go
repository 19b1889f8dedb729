// Package config holds the pastadrop CLI configuration file.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/LumeraProtocol/pastadrop/pkg/errors"
	"github.com/LumeraProtocol/pastadrop/pkg/keyring"
	"github.com/LumeraProtocol/pastadrop/pkg/logtrace"
	sdkconfig "github.com/LumeraProtocol/pastadrop/sdk/config"
)

const (
	DefaultBaseDir    = ".pastadrop"
	DefaultConfigFile = "config.yml"
	DefaultRPCURL     = "https://ethereum-rpc.publicnode.com"
	DefaultKeyringDir = "keys"
	DefaultHistoryDB  = "history.db"
	DefaultMaxEntries = 50
	DefaultLogLevel   = "info"

	DefaultKeyringBackend = keyring.BackendFile

	// EnvPrefix prefixes environment overrides, e.g. PASTADROP_ALEPH_CHANNEL.
	EnvPrefix = "PASTADROP"
)

type AlephConfig struct {
	APIServer   string `yaml:"api_server" mapstructure:"api_server"`
	Gateway     string `yaml:"gateway" mapstructure:"gateway"`
	Channel     string `yaml:"channel" mapstructure:"channel"`
	ExplorerURL string `yaml:"explorer_url" mapstructure:"explorer_url"`
}

type EthereumConfig struct {
	RPCURL           string `yaml:"rpc_url" mapstructure:"rpc_url"`
	ChainID          string `yaml:"chain_id" mapstructure:"chain_id"`
	EntitlementToken string `yaml:"entitlement_token" mapstructure:"entitlement_token"`
}

type KeyringConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
	// Password unlocks the file backend without a prompt. Usually set
	// through PASTADROP_KEYRING_PASSWORD rather than the file.
	Password string `yaml:"password,omitempty" mapstructure:"password"`
}

type HistoryConfig struct {
	DBPath     string `yaml:"db_path" mapstructure:"db_path"`
	MaxEntries int    `yaml:"max_entries" mapstructure:"max_entries"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Config represents the YAML configuration structure
type Config struct {
	Aleph    AlephConfig    `yaml:"aleph" mapstructure:"aleph"`
	Ethereum EthereumConfig `yaml:"ethereum" mapstructure:"ethereum"`
	Keyring  KeyringConfig  `yaml:"keyring" mapstructure:"keyring"`
	History  HistoryConfig  `yaml:"history" mapstructure:"history"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`

	// BaseDir anchors relative paths. It is the directory of the loaded file.
	BaseDir string `yaml:"-" mapstructure:"-"`
}

// DefaultConfig returns a configuration rooted at baseDir.
func DefaultConfig(baseDir string) *Config {
	return &Config{
		Aleph: AlephConfig{
			APIServer:   sdkconfig.DefaultAPIServer,
			Gateway:     sdkconfig.DefaultGateway,
			Channel:     sdkconfig.DefaultChannel,
			ExplorerURL: sdkconfig.DefaultExplorerURL,
		},
		Ethereum: EthereumConfig{
			RPCURL:           DefaultRPCURL,
			ChainID:          sdkconfig.DefaultChainID,
			EntitlementToken: sdkconfig.DefaultEntitlementToken,
		},
		Keyring: KeyringConfig{Backend: DefaultKeyringBackend, Dir: DefaultKeyringDir},
		History: HistoryConfig{DBPath: DefaultHistoryDB, MaxEntries: DefaultMaxEntries},
		Log:     LogConfig{Level: DefaultLogLevel},
		BaseDir: baseDir,
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("aleph.api_server", d.Aleph.APIServer)
	v.SetDefault("aleph.gateway", d.Aleph.Gateway)
	v.SetDefault("aleph.channel", d.Aleph.Channel)
	v.SetDefault("aleph.explorer_url", d.Aleph.ExplorerURL)
	v.SetDefault("ethereum.rpc_url", d.Ethereum.RPCURL)
	v.SetDefault("ethereum.chain_id", d.Ethereum.ChainID)
	v.SetDefault("ethereum.entitlement_token", d.Ethereum.EntitlementToken)
	v.SetDefault("keyring.backend", d.Keyring.Backend)
	v.SetDefault("keyring.dir", d.Keyring.Dir)
	v.SetDefault("keyring.password", d.Keyring.Password)
	v.SetDefault("history.db_path", d.History.DBPath)
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("log.level", d.Log.Level)
}

// Load reads the YAML file at path, applies PASTADROP_* environment
// overrides and fills defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("error getting absolute path for config file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(absPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig(""))

	if _, err := os.Stat(absPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Errorf("failed to read config file %s: %w", absPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Errorf("failed to stat config file %s: %w", absPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.BaseDir = filepath.Dir(absPath)

	if cfg.History.MaxEntries <= 0 {
		cfg.History.MaxEntries = DefaultMaxEntries
	}
	switch cfg.Keyring.Backend {
	case keyring.BackendFile, keyring.BackendTest, keyring.BackendMemory:
	default:
		return nil, errors.Errorf("invalid keyring backend %q", cfg.Keyring.Backend)
	}
	if _, err := cfg.SDKConfig(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes c as YAML to path, creating parent directories.
func Save(c *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SDKConfig converts c to a validated SDK configuration.
func (c *Config) SDKConfig() (sdkconfig.Config, error) {
	cfg, err := sdkconfig.NewConfig(sdkconfig.Config{
		Aleph: sdkconfig.AlephConfig{
			APIServer:   c.Aleph.APIServer,
			Gateway:     c.Aleph.Gateway,
			Channel:     c.Aleph.Channel,
			ExplorerURL: c.Aleph.ExplorerURL,
		},
		Ethereum: sdkconfig.EthereumConfig{
			ChainID:          c.Ethereum.ChainID,
			EntitlementToken: c.Ethereum.EntitlementToken,
		},
	})
	if err != nil {
		return sdkconfig.Config{}, errors.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// KeyringDir returns the absolute keyring directory.
func (c *Config) KeyringDir() string { return c.resolve(c.Keyring.Dir) }

// HistoryPath returns the absolute sqlite path.
func (c *Config) HistoryPath() string { return c.resolve(c.History.DBPath) }

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// LogLevel parses Log.Level, defaulting to info.
func (c *Config) LogLevel() slog.Level { return logtrace.ParseLevel(c.Log.Level) }
