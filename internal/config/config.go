package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken  string `envconfig:"BOT_TOKEN" required:"true"`
	DataPath  string `envconfig:"DATA_PATH" default:"./data/bot-data.json"`
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":3000"`
	WebAppURL string `envconfig:"WEBAPP_URL" default:"https://igray-umney.ru"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
