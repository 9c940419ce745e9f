package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Paystack  PaystackConfig  `yaml:"paystack" mapstructure:"paystack"`
	Captcha   CaptchaConfig   `yaml:"captcha" mapstructure:"captcha"`
	Quota     QuotaConfig     `yaml:"quota" mapstructure:"quota"`
	Alerts    AlertsConfig    `yaml:"alerts" mapstructure:"alerts"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RateRPS     float64  `yaml:"rate_rps" mapstructure:"rate_rps"`
	RateBurst   int      `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// AnthropicConfig holds Anthropic API settings for Pro suggestions.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PaystackConfig holds payment webhook settings.
type PaystackConfig struct {
	Secret  string `yaml:"secret" mapstructure:"secret"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// CaptchaConfig holds captcha verification settings. An empty Secret
// disables verification.
type CaptchaConfig struct {
	Secret    string `yaml:"secret" mapstructure:"secret"`
	VerifyURL string `yaml:"verify_url" mapstructure:"verify_url"`
}

// QuotaConfig holds the free-tier limits. Pro accounts are unlimited.
type QuotaConfig struct {
	FreeMaxPortfolios      int `yaml:"free_max_portfolios" mapstructure:"free_max_portfolios"`
	FreeMonthlyGenerations int `yaml:"free_monthly_generations" mapstructure:"free_monthly_generations"`
}

// AlertsConfig configures the rebalancing drift sweep.
type AlertsConfig struct {
	Cron              string  `yaml:"cron" mapstructure:"cron"`
	DriftThresholdPct float64 `yaml:"drift_threshold_pct" mapstructure:"drift_threshold_pct"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PORTFOLIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "portfolix.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_rps", 10)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("paystack.base_url", "https://api.paystack.co")
	v.SetDefault("captcha.verify_url", "https://challenges.cloudflare.com/turnstile/v0/siteverify")
	v.SetDefault("quota.free_max_portfolios", 5)
	v.SetDefault("quota.free_monthly_generations", 10)
	v.SetDefault("alerts.cron", "0 0 13 * * *")
	v.SetDefault("alerts.drift_threshold_pct", 5.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
