package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/example/talent-matching/internal/logging"
	"github.com/example/talent-matching/internal/matching"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MATCHING"

// Config captures the settings of the matching service and CLI.
type Config struct {
	HTTPPort               int           `mapstructure:"http_port"`
	SQLiteDSN              string        `mapstructure:"sqlite_dsn"`
	LogFormat              string        `mapstructure:"log_format"`
	LogLevel               string        `mapstructure:"log_level"`
	DefaultRecommendations int           `mapstructure:"default_recommendations"`
	ShutdownTimeout        time.Duration `mapstructure:"shutdown_timeout"`

	Scoring matching.ScoringConfig `mapstructure:"scoring"`
}

// Load reads configuration from the optional file at path and from MATCHING_*
// environment variables, which take precedence. Keys nest with "_" in the
// environment, so scoring.weights.field is MATCHING_SCORING_WEIGHTS_FIELD.
//
// Missing required values and malformed values are reported together.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 4)

	// Bucket lists replace the defaults wholesale instead of merging element-wise.
	cfg := Config{Scoring: matching.DefaultScoringConfig()}
	cfg.Scoring.RecencyBuckets = nil
	cfg.Scoring.PopularityBuckets = nil
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	defaults := matching.DefaultScoringConfig()
	if cfg.Scoring.RecencyBuckets == nil {
		cfg.Scoring.RecencyBuckets = defaults.RecencyBuckets
	}
	if cfg.Scoring.PopularityBuckets == nil {
		cfg.Scoring.PopularityBuckets = defaults.PopularityBuckets
	}

	if err := cfg.Scoring.Validate(); err != nil {
		var vErr *matching.ValidationError
		if errors.As(err, &vErr) {
			for _, field := range vErr.Fields() {
				invalid = append(invalid, envName("scoring."+field))
			}
		} else {
			invalid = append(invalid, envName("scoring"))
		}
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		invalid = append(invalid, envName("http_port"))
	}
	cfg.SQLiteDSN = strings.TrimSpace(cfg.SQLiteDSN)
	if cfg.SQLiteDSN == "" {
		missing = append(missing, envName("sqlite_dsn"))
	}
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if cfg.LogFormat != logging.FormatJSON && cfg.LogFormat != logging.FormatText {
		invalid = append(invalid, envName("log_format"))
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		invalid = append(invalid, envName("log_level"))
	}
	if cfg.DefaultRecommendations <= 0 {
		invalid = append(invalid, envName("default_recommendations"))
	}
	if cfg.ShutdownTimeout <= 0 {
		invalid = append(invalid, envName("shutdown_timeout"))
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required configuration values are missing: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("configuration values are invalid: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// LoadDefault loads configuration without a file, honouring MATCHING_CONFIG when set.
func LoadDefault() (Config, error) {
	return Load(strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG")))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_port", 8080)
	v.SetDefault("sqlite_dsn", "matching.db")
	v.SetDefault("log_format", logging.FormatJSON)
	v.SetDefault("log_level", "info")
	v.SetDefault("default_recommendations", 5)
	v.SetDefault("shutdown_timeout", 10*time.Second)

	// Registered so that AutomaticEnv can override them individually.
	scoring := matching.DefaultScoringConfig()
	v.SetDefault("scoring.weights.field", scoring.Weights.Field)
	v.SetDefault("scoring.weights.level", scoring.Weights.Level)
	v.SetDefault("scoring.weights.recency", scoring.Weights.Recency)
	v.SetDefault("scoring.weights.popularity", scoring.Weights.Popularity)
	v.SetDefault("scoring.weights.sector", scoring.Weights.Sector)
	v.SetDefault("scoring.keyword_saturation", scoring.KeywordSaturation)
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}
