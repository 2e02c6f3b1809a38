package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/codingisforpros/wealthtracker/internal/domain"
	"github.com/codingisforpros/wealthtracker/internal/usecase/projection"
	"github.com/codingisforpros/wealthtracker/internal/usecase/tax"
)

// Config is the full service configuration, loaded from an optional YAML
// file with environment-variable overrides on top
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Engine EngineConfig `yaml:"engine"`
	Tax    TaxConfig    `yaml:"tax"`
	Health HealthConfig `yaml:"health"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AuthConfig holds the static API token the HTTP adapter checks
type AuthConfig struct {
	Token string `yaml:"token"`
}

// EngineConfig tunes the analytics engine
type EngineConfig struct {
	MonteCarloWorkers int `yaml:"monte_carlo_workers"`
	AttributionTopK   int `yaml:"attribution_top_k"`
	// Per-category growth assumptions for snapshot-driven projections,
	// keyed by category name, value is annual growth rate percent
	GrowthRatesPct map[string]float64 `yaml:"growth_rates_pct"`
}

// TaxConfig is the YAML shape of the tax model parameters
type TaxConfig struct {
	HoldingPeriodDays map[string]int `yaml:"holding_period_days"`
	LongTermRatePct   float64        `yaml:"long_term_rate_pct"`
	ShortTermRatePct  float64        `yaml:"short_term_rate_pct"`
	LongTermExemption float64        `yaml:"long_term_exemption"`
}

// HealthConfig holds the health-score rubric cutoffs
type HealthConfig struct {
	NeedsImprovementCutoff int `yaml:"needs_improvement_cutoff"`
	StrongCutoff           int `yaml:"strong_cutoff"`
}

// Default returns the built-in configuration used when no file is present
func Default() *Config {
	days := make(map[string]int, len(domain.Categories()))
	for _, c := range domain.Categories() {
		days[string(c)] = 365
	}
	days[string(domain.CategoryRealEstate)] = 730

	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Auth:   AuthConfig{Token: "dev-token"},
		Engine: EngineConfig{
			MonteCarloWorkers: 4,
			AttributionTopK:   5,
			GrowthRatesPct: map[string]float64{
				string(domain.CategoryEquities):       12,
				string(domain.CategoryPooledFunds):    10,
				string(domain.CategoryCryptoAssets):   15,
				string(domain.CategoryRealEstate):     8,
				string(domain.CategoryFixedIncome):    6,
				string(domain.CategoryPreciousMetals): 7,
				string(domain.CategoryOther):          5,
			},
		},
		Tax: TaxConfig{
			HoldingPeriodDays: days,
			LongTermRatePct:   12.5,
			ShortTermRatePct:  30,
			LongTermExemption: 1000,
		},
		Health: HealthConfig{
			NeedsImprovementCutoff: 100,
			StrongCutoff:           160,
		},
	}
}

// Load reads the YAML file at path (skipped when empty or missing) over
// the defaults, then applies environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if token := os.Getenv("API_TOKEN"); token != "" {
		c.Auth.Token = token
	}
	if host := os.Getenv("HTTP_HOST"); host != "" {
		c.Server.Host = host
	}
	if portStr := os.Getenv("HTTP_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			c.Server.Port = port
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return domain.NewConfigurationError("server", "port %d is out of range", c.Server.Port)
	}
	if c.Tax.ShortTermRatePct < 0 || c.Tax.LongTermRatePct < 0 {
		return domain.NewConfigurationError("tax", "tax rates cannot be negative")
	}
	for name := range c.Tax.HoldingPeriodDays {
		if !domain.Category(name).IsValid() {
			return domain.NewConfigurationError("tax", "unknown category %q in holding_period_days", name)
		}
	}
	for name := range c.Engine.GrowthRatesPct {
		if !domain.Category(name).IsValid() {
			return domain.NewConfigurationError("engine", "unknown category %q in growth_rates_pct", name)
		}
	}
	return nil
}

// TaxEstimatorConfig converts the YAML tax section into the estimator's
// typed configuration
func (c *Config) TaxEstimatorConfig() tax.Config {
	days := make(map[domain.Category]int, len(c.Tax.HoldingPeriodDays))
	for name, d := range c.Tax.HoldingPeriodDays {
		days[domain.Category(name)] = d
	}
	return tax.Config{
		HoldingPeriodDays: days,
		LongTermRatePct:   decimal.NewFromFloat(c.Tax.LongTermRatePct),
		ShortTermRatePct:  decimal.NewFromFloat(c.Tax.ShortTermRatePct),
		LongTermExemption: decimal.NewFromFloat(c.Tax.LongTermExemption),
	}
}

// GrowthAssumptions converts the configured per-category growth rates
// into the projection builder's typed map
func (c *Config) GrowthAssumptions() map[domain.Category]projection.GrowthAssumption {
	assumptions := make(map[domain.Category]projection.GrowthAssumption, len(c.Engine.GrowthRatesPct))
	for name, rate := range c.Engine.GrowthRatesPct {
		assumptions[domain.Category(name)] = projection.GrowthAssumption{AnnualGrowthRatePct: rate}
	}
	return assumptions
}
