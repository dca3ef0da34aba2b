package config_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/game-loadsim/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

func validConfig() *config.Config {
	return &config.Config{
		Simulation: config.SimulationConfig{
			ServerCount:      3,
			NumPlayers:       20,
			ConcurrencyLimit: 5,
			RequestInterval:  "0s",
			Timeout:          "0s",
			Seed:             42,
		},
		Strategy: config.StrategyConfig{
			Type: config.StrategyRoundRobin,
		},
		ProcessingTime: config.ProcessingTimeConfig{
			Min: 1.0,
			Max: 3.0,
		},
		Logging: config.LoggingConfig{
			Level:       config.LogLevelInfo,
			Environment: config.EnvDev,
		},
		Output: config.OutputConfig{
			MetricsCSV: "output/logs/metrics.csv",
		},
	}
}

var _ = Describe("Config", func() {
	Describe("Validate", func() {
		It("should accept a valid configuration", func() {
			Expect(validConfig().Validate()).To(Succeed())
		})

		It("should reject a zero server count", func() {
			cfg := validConfig()
			cfg.Simulation.ServerCount = 0
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a non-positive player count", func() {
			cfg := validConfig()
			cfg.Simulation.NumPlayers = 0
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a concurrency limit above the player count", func() {
			cfg := validConfig()
			cfg.Simulation.ConcurrencyLimit = 21
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should accept a zero concurrency limit as the default", func() {
			cfg := validConfig()
			cfg.Simulation.ConcurrencyLimit = 0
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should reject an invalid request interval", func() {
			cfg := validConfig()
			cfg.Simulation.RequestInterval = "soon"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a negative processing time minimum", func() {
			cfg := validConfig()
			cfg.ProcessingTime.Min = -1.0
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an inverted processing time range", func() {
			cfg := validConfig()
			cfg.ProcessingTime.Min = 3.0
			cfg.ProcessingTime.Max = 1.0
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an unknown strategy", func() {
			cfg := validConfig()
			cfg.Strategy.Type = "fastest-first"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an unknown log level", func() {
			cfg := validConfig()
			cfg.Logging.Level = "verbose"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an unknown environment", func() {
			cfg := validConfig()
			cfg.Logging.Environment = "test"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an empty metrics path", func() {
			cfg := validConfig()
			cfg.Output.MetricsCSV = ""
			Expect(cfg.Validate()).NotTo(Succeed())
		})
	})

	Describe("derived values", func() {
		It("should parse durations after validation", func() {
			cfg := validConfig()
			cfg.Simulation.RequestInterval = "500ms"
			cfg.Simulation.Timeout = "2m"
			Expect(cfg.Validate()).To(Succeed())

			Expect(cfg.RequestIntervalDuration()).To(Equal(500 * time.Millisecond))
			Expect(cfg.TimeoutDuration()).To(Equal(2 * time.Minute))
		})

		It("should convert processing time bounds to durations", func() {
			cfg := validConfig()
			min, max := cfg.ProcessingTimeBounds()
			Expect(min).To(Equal(time.Second))
			Expect(max).To(Equal(3 * time.Second))
		})
	})
})
