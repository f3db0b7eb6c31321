// Package config resolves runtime settings from flags, PAIRS_* environment
// variables, an optional pairs.yaml and a .env file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "PAIRS"
	configName = "pairs"
	configType = "yaml"

	// DevSecret signs session cookies when no secret is configured.
	DevSecret = "pairs-dev-secret"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config is the resolved runtime configuration.
type Config struct {
	Addr string `mapstructure:"addr"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Store struct {
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"`
	} `mapstructure:"store"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		Lock     bool   `mapstructure:"lock"`
	} `mapstructure:"redis"`

	Session struct {
		TTL    time.Duration `mapstructure:"ttl"`
		Secret string        `mapstructure:"secret"`
	} `mapstructure:"session"`

	Catalog struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"catalog"`

	NATS struct {
		URL    string `mapstructure:"url"`
		Prefix string `mapstructure:"prefix"`
	} `mapstructure:"nats"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`

	OpenAPI struct {
		Validate bool `mapstructure:"validate"`
	} `mapstructure:"openapi"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.path", ".pairs/sessions")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock", false)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.secret", DevSecret)
	v.SetDefault("catalog.path", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.prefix", "pairs.events")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("openapi.validate", true)
}

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an explicit config path. When empty, pairs.yaml is searched in
	// SearchPaths and its absence is not an error.
	ConfigFile  string
	SearchPaths []string

	// DotEnv lists .env files to load into the process environment. Missing files are ignored.
	DotEnv []string

	// Flags are bound by their name with dashes mapped to dots ("log-level" → "log.level").
	// Flags that do not name a known key are ignored. A flag only wins when set explicitly.
	Flags *pflag.FlagSet
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	for _, f := range opts.DotEnv {
		// godotenv never overrides variables already present.
		_ = godotenv.Load(f)
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		paths := opts.SearchPaths
		if len(paths) == 0 {
			paths = []string{"."}
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if opts.Flags != nil {
		known := make(map[string]bool)
		for _, k := range v.AllKeys() {
			known[k] = true
		}
		var bindErr error
		opts.Flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", ".")
			if !known[key] {
				return
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		return fmt.Errorf("unknown store driver %q (want memory, file or redis)", c.Store.Driver)
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl must not be negative")
	}
	if c.Redis.Lock && c.Store.Driver != DriverRedis {
		return fmt.Errorf("redis.lock requires store.driver=redis")
	}
	return nil
}
