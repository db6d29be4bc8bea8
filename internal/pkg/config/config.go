package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Regions          []string      `env:"NEM_REGIONS" envSeparator:"," envDefault:"nsw,qld,vic,sa,tas"`
	AemoURL          string        `env:"AEMO_URL"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	MigrationsFolder string        `env:"MIGRATIONS_FOLDER"`
	ListenAddress    string        `env:"LISTEN_ADDR" envDefault:"0.0.0.0:8000"`
	PollInterval     time.Duration `env:"POLL_INTERVAL" envDefault:"5m"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"INFO"`
	// Cumulative price percentage at which the price watcher starts alerting.
	AlertPercent float64 `env:"ALERT_PERCENT" envDefault:"80"`
	AuthSecret   string  `env:"AUTH_SECRET"`
	ApiKeyHash   string  `env:"API_KEY_HASH"`

	MqttCfg *MqttConfig
}

type MqttConfig struct {
	Host     string `env:"MQTT_HOST"`
	Username string `env:"MQTT_USER"`
	Password string `env:"MQTT_PASS"`
}

// FromEnv builds a Config purely from the environment. CLI flags layered on
// top of this take precedence.
func FromEnv() (*Config, error) {
	cfg := &Config{MqttCfg: &MqttConfig{}}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg.MqttCfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
