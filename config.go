package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config хранит настройки приложения из переменных окружения
type Config struct {
	BotToken        string        `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	DatabaseURL     string        `envconfig:"DATABASE_URL" required:"true"`
	AllowedUsers    string        `envconfig:"ALLOWED_USERNAMES" default:""`
	AdminID         int64         `envconfig:"ADMIN_ID" default:"0"`
	DefaultLanguage string        `envconfig:"DEFAULT_LANGUAGE" default:"ru"`
	SweepInterval   time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
