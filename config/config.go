// Package config loads application settings from jobquote.yaml and
// JOBQUOTE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const EnvPrefix = "JOBQUOTE"

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Export ExportConfig `mapstructure:"export"`
	Photos PhotoConfig  `mapstructure:"photos"`
	Mail   MailConfig   `mapstructure:"mail"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type PhotoConfig struct {
	ThumbSize     int `mapstructure:"thumb_size"`
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Enabled reports whether enough is configured to send mail.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.From != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("export.dir", "exports")
	v.SetDefault("photos.thumb_size", 600)
	v.SetDefault("photos.max_concurrent", 4)
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")
}

// Load reads the config file at path, or jobquote.yaml from the working
// directory when path is empty. A missing default file is not an error; a
// missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("jobquote")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// NewLogger builds a production logger, or a development one when
// cfg.Development is set, at the configured level.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}
