package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Ranking  RankingConfig  `yaml:"ranking"`
	Rescore  RescoreConfig  `yaml:"rescore"`
	Export   ExportConfig   `yaml:"export"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
	// Migrate applies the embedded schema migrations on start.
	Migrate bool `yaml:"migrate"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type ScoringConfig struct {
	RatingScale scoring.RatingScale `yaml:"rating_scale"`
}

type RankingConfig struct {
	Locale           string `yaml:"locale"`
	DefaultStrategy  string `yaml:"default_strategy"`
	DefaultDirection string `yaml:"default_direction"`
}

type RescoreConfig struct {
	Enabled    bool `yaml:"enabled"`
	IntervalMs int  `yaml:"interval_ms"`
	QueueSize  int  `yaml:"queue_size"`
}

type ExportConfig struct {
	S3Bucket   string `yaml:"s3_bucket"`
	S3Prefix   string `yaml:"s3_prefix"`
	S3Region   string `yaml:"s3_region"`
	S3Endpoint string `yaml:"s3_endpoint"`
	IntervalMs int    `yaml:"interval_ms"`
}

// Enabled reports whether an export destination is configured.
func (e ExportConfig) Enabled() bool { return e.S3Bucket != "" }

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) RescoreInterval() time.Duration {
	return time.Duration(c.Rescore.IntervalMs) * time.Millisecond
}

func (c *Config) ExportInterval() time.Duration {
	return time.Duration(c.Export.IntervalMs) * time.Millisecond
}

// Locale returns the collation locale for name sorting. An unparseable
// tag falls back to language.Und, which sorts by the root collation.
func (c *Config) Locale() language.Tag {
	tag, err := language.Parse(c.Ranking.Locale)
	if err != nil {
		return language.Und
	}
	return tag
}

// RankingStrategy resolves ranking.default_strategy, accepting the same
// aliases as request parameters. An invalid value falls back to metric.
func (c *Config) RankingStrategy() scoring.Strategy {
	s, err := scoring.ParseStrategy(c.Ranking.DefaultStrategy)
	if err != nil {
		return scoring.StrategyMetric
	}
	return s
}

// RankingDirection resolves ranking.default_direction. An invalid value
// falls back to descending.
func (c *Config) RankingDirection() scoring.Direction {
	d, err := scoring.ParseDirection(c.Ranking.DefaultDirection)
	if err != nil {
		return scoring.Descending
	}
	return d
}

// Validate checks values that would otherwise fail at request time.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Scoring.RatingScale.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := scoring.ParseStrategy(c.Ranking.DefaultStrategy); err != nil {
		errs = append(errs, fmt.Errorf("ranking.default_strategy: %w", err))
	}
	if _, err := scoring.ParseDirection(c.Ranking.DefaultDirection); err != nil {
		errs = append(errs, fmt.Errorf("ranking.default_direction: %w", err))
	}
	if c.Ranking.Locale != "" {
		if _, err := language.Parse(c.Ranking.Locale); err != nil {
			errs = append(errs, fmt.Errorf("ranking.locale: %w", err))
		}
	}
	if c.Rescore.Enabled && c.Rescore.IntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("rescore.interval_ms must be positive"))
	}
	if c.Export.Enabled() && c.Export.IntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("export.interval_ms must be positive"))
	}
	return errors.Join(errs...)
}

// LoadDotEnv loads a .env file into the process environment when it
// exists. Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		Scoring: ScoringConfig{
			RatingScale: scoring.DefaultRatingScale(),
		},
		Ranking: RankingConfig{
			Locale:           "en",
			DefaultStrategy:  string(scoring.StrategyMetric),
			DefaultDirection: string(scoring.Descending),
		},
		Rescore: RescoreConfig{
			Enabled:    true,
			IntervalMs: 60000,
			QueueSize:  64,
		},
		Export: ExportConfig{
			S3Prefix:   "seeds/",
			IntervalMs: 3600000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SEEDS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("SEEDS_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("SEEDS_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("SEEDS_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("SEEDS_DATABASE_MIGRATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Database.Migrate = b
		}
	}
	if v := os.Getenv("SEEDS_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("SEEDS_RANKING_LOCALE"); v != "" {
		cfg.Ranking.Locale = v
	}
	if v := os.Getenv("SEEDS_RANKING_STRATEGY"); v != "" {
		cfg.Ranking.DefaultStrategy = v
	}
	if v := os.Getenv("SEEDS_RANKING_DIRECTION"); v != "" {
		cfg.Ranking.DefaultDirection = v
	}
	if v := os.Getenv("SEEDS_RESCORE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Rescore.Enabled = b
		}
	}
	if v := os.Getenv("SEEDS_RESCORE_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Rescore.IntervalMs = n
		}
	}
	if v := os.Getenv("SEEDS_EXPORT_S3_BUCKET"); v != "" {
		cfg.Export.S3Bucket = v
	}
	if v := os.Getenv("SEEDS_EXPORT_S3_PREFIX"); v != "" {
		cfg.Export.S3Prefix = v
	}
	if v := os.Getenv("SEEDS_EXPORT_S3_REGION"); v != "" {
		cfg.Export.S3Region = v
	}
	if v := os.Getenv("SEEDS_EXPORT_S3_ENDPOINT"); v != "" {
		cfg.Export.S3Endpoint = v
	}
	if v := os.Getenv("SEEDS_EXPORT_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Export.IntervalMs = n
		}
	}
	if v := os.Getenv("SEEDS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SEEDS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
