package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is loaded once at
// startup and passed by value into constructors; nothing mutates it after
// Load returns.
type Config struct {
	Phone    PhoneConfig    `yaml:"phone" mapstructure:"phone"`
	Send     SendConfig     `yaml:"send" mapstructure:"send"`
	Bridge   BridgeConfig   `yaml:"bridge" mapstructure:"bridge"`
	History  HistoryConfig  `yaml:"history" mapstructure:"history"`
	Progress ProgressConfig `yaml:"progress" mapstructure:"progress"`
	Template TemplateConfig `yaml:"template" mapstructure:"template"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// PhoneConfig controls phone-number acceptance.
type PhoneConfig struct {
	AllowForeign bool `yaml:"allow_foreign" mapstructure:"allow_foreign"`
}

// SendConfig controls the send loop and contact filtering.
type SendConfig struct {
	Consolidate      bool     `yaml:"consolidate" mapstructure:"consolidate"`
	DelayMinSecs     int      `yaml:"delay_min_secs" mapstructure:"delay_min_secs"`
	DelayMaxSecs     int      `yaml:"delay_max_secs" mapstructure:"delay_max_secs"`
	ExcludedLotTypes []string `yaml:"excluded_lot_types" mapstructure:"excluded_lot_types"`
}

// BridgeConfig holds the WhatsApp Web bridge endpoint settings.
type BridgeConfig struct {
	BaseURL            string `yaml:"base_url" mapstructure:"base_url"`
	ConnectTimeoutSecs int    `yaml:"connect_timeout_secs" mapstructure:"connect_timeout_secs"`
	RequestTimeoutSecs int    `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
}

// ConnectTimeout returns the bridge connection-readiness timeout.
func (c BridgeConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSecs) * time.Second
}

// RequestTimeout returns the per-request bridge timeout.
func (c BridgeConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// HistoryConfig configures the batch-history audit store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Driver  string `yaml:"driver" mapstructure:"driver"`
	DSN     string `yaml:"dsn" mapstructure:"dsn"`
}

// ProgressConfig configures checkpoint persistence.
type ProgressConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// TemplateConfig configures the message-template store.
type TemplateConfig struct {
	File    string `yaml:"file" mapstructure:"file"`
	Default string `yaml:"default" mapstructure:"default"`
}

// ServerConfig configures the status server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("phone.allow_foreign", true)
	v.SetDefault("send.consolidate", true)
	v.SetDefault("send.delay_min_secs", 3)
	v.SetDefault("send.delay_max_secs", 5)
	v.SetDefault("send.excluded_lot_types", []string{"PREMIUM", "SUPERIOR"})
	v.SetDefault("bridge.base_url", "http://localhost:3333")
	v.SetDefault("bridge.connect_timeout_secs", 30)
	v.SetDefault("bridge.request_timeout_secs", 15)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.driver", "sqlite")
	v.SetDefault("history.dsn", "outreach_history.db")
	v.SetDefault("progress.file", "progreso.json")
	v.SetDefault("template.file", "templates.yaml")
	v.SetDefault("template.default", "RecordatorioCita")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
