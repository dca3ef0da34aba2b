package config

import (
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	StrategyRoundRobin = "round-robin"
	StrategyRandom     = "random"
)

type SimulationConfig struct {
	ServerCount      int    `mapstructure:"server_count"`
	NumPlayers       int    `mapstructure:"num_players"`
	ConcurrencyLimit int    `mapstructure:"concurrency_limit"`
	RequestInterval  string `mapstructure:"request_interval"`
	Timeout          string `mapstructure:"timeout"`
	Seed             int64  `mapstructure:"seed"`
}

type StrategyConfig struct {
	Type string `mapstructure:"type"`
}

type ProcessingTimeConfig struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
	File        string `mapstructure:"file"`
}

type OutputConfig struct {
	MetricsCSV string `mapstructure:"metrics_csv"`
}

type Config struct {
	Simulation     SimulationConfig     `mapstructure:"simulation"`
	Strategy       StrategyConfig       `mapstructure:"strategy"`
	ProcessingTime ProcessingTimeConfig `mapstructure:"processing_time"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Output         OutputConfig         `mapstructure:"output"`
}

func Load() (*Config, error) {
	viper.SetDefault("simulation.server_count", 3)
	viper.SetDefault("simulation.num_players", 20)
	viper.SetDefault("simulation.concurrency_limit", 0)
	viper.SetDefault("simulation.request_interval", "0s")
	viper.SetDefault("simulation.timeout", "0s")
	viper.SetDefault("simulation.seed", time.Now().UnixNano())
	viper.SetDefault("strategy.type", StrategyRoundRobin)
	viper.SetDefault("processing_time.min", 1.0)
	viper.SetDefault("processing_time.max", 3.0)
	viper.SetDefault("logging.level", LogLevelInfo)
	viper.SetDefault("logging.environment", EnvDev)
	viper.SetDefault("output.metrics_csv", "output/logs/metrics.csv")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Info("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Simulation,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(SimulationConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a SimulationConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.ServerCount,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&sc.NumPlayers,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&sc.ConcurrencyLimit,
						validation.Min(0),
						validation.Max(sc.NumPlayers),
					),
					validation.Field(&sc.RequestInterval,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&sc.Timeout,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Strategy,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(StrategyConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a StrategyConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Type,
						validation.Required,
						validation.In(StrategyRoundRobin, StrategyRandom),
					),
				)
			}),
		),
		validation.Field(&c.ProcessingTime,
			validation.Required,
			validation.By(validateProcessingTime),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
					validation.Field(&lc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
				)
			}),
		),
		validation.Field(&c.Output,
			validation.Required,
			validation.By(func(value interface{}) error {
				oc, ok := value.(OutputConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an OutputConfig")
				}
				return validation.ValidateStruct(&oc,
					validation.Field(&oc.MetricsCSV,
						validation.Required,
					),
				)
			}),
		),
	)
}

// RequestIntervalDuration returns the parsed request interval. Call only
// after Validate.
func (c *Config) RequestIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.Simulation.RequestInterval)
	return d
}

// TimeoutDuration returns the parsed overall timeout. Call only after
// Validate.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Simulation.Timeout)
	return d
}

// ProcessingTimeBounds returns the delay bounds as durations.
func (c *Config) ProcessingTimeBounds() (min, max time.Duration) {
	return time.Duration(c.ProcessingTime.Min * float64(time.Second)),
		time.Duration(c.ProcessingTime.Max * float64(time.Second))
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 500ms, 2s, 5m)")
	}

	return nil
}

func validateProcessingTime(value interface{}) error {
	pt, ok := value.(ProcessingTimeConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a ProcessingTimeConfig")
	}

	if pt.Min < 0 {
		return validation.NewError("validation_negative_delay", "processing time minimum must not be negative")
	}

	if pt.Max < pt.Min {
		return validation.NewError("validation_inverted_range", "processing time maximum must not be below minimum")
	}

	return nil
}
