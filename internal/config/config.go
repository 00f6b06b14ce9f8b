// Package config loads the duel configuration from a YAML file and DUEL_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. DUEL_MATCH_LIFE_POINTS.
const EnvPrefix = "DUEL"

// Catalog sources.
const (
	CatalogBuiltin  = "builtin"
	CatalogYAML     = "yaml"
	CatalogPostgres = "postgres"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full configuration of the duel binary.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Match     MatchConfig     `mapstructure:"match"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
}

// LoggingConfig selects the zap level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MatchConfig configures the duel itself.
type MatchConfig struct {
	PlayerIDs  []string `mapstructure:"player_ids"`
	LifePoints int      `mapstructure:"life_points"`
	// MaxTurns ends the match as a draw after that many turns; 0 disables the cap.
	MaxTurns int `mapstructure:"max_turns"`
	// Seed fixes deck shuffling; 0 picks a random seed.
	Seed int64 `mapstructure:"seed"`
}

// CatalogConfig says where card definitions come from.
type CatalogConfig struct {
	Source      string `mapstructure:"source"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
}

// BroadcastConfig configures the websocket board broadcaster.
type BroadcastConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Address    string `mapstructure:"address"`
	Path       string `mapstructure:"path"`
	SendBuffer int    `mapstructure:"send_buffer"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("match.player_ids", []string{"player_1", "player_2"})
	v.SetDefault("match.life_points", 10)
	v.SetDefault("match.max_turns", 0)
	v.SetDefault("match.seed", 0)

	v.SetDefault("catalog.source", CatalogBuiltin)
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.database_url", "")

	v.SetDefault("broadcast.enabled", false)
	v.SetDefault("broadcast.address", ":8000")
	v.SetDefault("broadcast.path", "/ws")
	v.SetDefault("broadcast.send_buffer", 64)
}

// Load reads the configuration at path, or only defaults and environment
// overrides when path is empty, and validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
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

// Validate checks the configuration for values the duel cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format %q is not json or console", c.Logging.Format))
	}

	if len(c.Match.PlayerIDs) != 2 {
		errs = append(errs, fmt.Errorf("match.player_ids needs two players, got %d", len(c.Match.PlayerIDs)))
	} else {
		for i := range c.Match.PlayerIDs {
			c.Match.PlayerIDs[i] = strings.TrimSpace(c.Match.PlayerIDs[i])
		}
		if c.Match.PlayerIDs[0] == "" || c.Match.PlayerIDs[1] == "" {
			errs = append(errs, errors.New("match.player_ids must not be empty"))
		} else if c.Match.PlayerIDs[0] == c.Match.PlayerIDs[1] {
			errs = append(errs, fmt.Errorf("match.player_ids must differ, both are %q", c.Match.PlayerIDs[0]))
		}
	}
	if c.Match.LifePoints <= 0 {
		errs = append(errs, fmt.Errorf("match.life_points must be positive, got %d", c.Match.LifePoints))
	}
	if c.Match.MaxTurns < 0 {
		errs = append(errs, fmt.Errorf("match.max_turns must not be negative, got %d", c.Match.MaxTurns))
	}

	switch c.Catalog.Source {
	case CatalogBuiltin:
	case CatalogYAML:
		if c.Catalog.Path == "" {
			errs = append(errs, errors.New("catalog.path is required for the yaml source"))
		}
	case CatalogPostgres:
		if c.Catalog.DatabaseURL == "" {
			errs = append(errs, errors.New("catalog.database_url is required for the postgres source"))
		}
	default:
		errs = append(errs, fmt.Errorf("catalog.source %q is not one of builtin, yaml, postgres", c.Catalog.Source))
	}

	if c.Broadcast.Enabled {
		if c.Broadcast.Address == "" {
			errs = append(errs, errors.New("broadcast.address is required when broadcast is enabled"))
		}
		if !strings.HasPrefix(c.Broadcast.Path, "/") {
			errs = append(errs, fmt.Errorf("broadcast.path %q must start with /", c.Broadcast.Path))
		}
		if c.Broadcast.SendBuffer <= 0 {
			errs = append(errs, fmt.Errorf("broadcast.send_buffer must be positive, got %d", c.Broadcast.SendBuffer))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
