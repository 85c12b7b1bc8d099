package config

import (
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Source    SourceConfig    `envPrefix:"SOURCE_"`
	Scheduler SchedulerConfig `envPrefix:"SCHEDULER_"`
	History   HistoryConfig   `envPrefix:"HISTORY_"`
	Telegram  TelegramConfig  `envPrefix:"TELEGRAM_"`
	Kafka     KafkaConfig     `envPrefix:"KAFKA_"`
	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	Log       LogConfig       `envPrefix:"LOG_"`
}

type ServerConfig struct {
	Port              string   `env:"PORT" envDefault:"8080" validate:"required,numeric"`
	Host              string   `env:"HOST" envDefault:"0.0.0.0"`
	CORSOriginPattern string   `env:"CORS_ORIGIN_PATTERN" envDefault:".*"`
	CORSAllowMethods  []string `env:"CORS_ALLOW_METHODS" envDefault:"GET,POST,OPTIONS" validate:"min=1"`
}

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

type SourceConfig struct {
	URL          string        `env:"URL,required" validate:"required,url"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"25s" validate:"gt=0"`
	MaxBodyBytes int64         `env:"MAX_BODY_BYTES" envDefault:"10485760" validate:"gt=0"`
	MaxPrice     int64         `env:"MAX_PRICE" envDefault:"10000000" validate:"gt=0"`
	UserAgent    string        `env:"USER_AGENT" envDefault:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"`
}

type SchedulerConfig struct {
	Enabled    bool          `env:"ENABLED" envDefault:"true"`
	Interval   time.Duration `env:"INTERVAL" envDefault:"1m" validate:"gte=5s"`
	RunOnStart bool          `env:"RUN_ON_START" envDefault:"true"`
}

type HistoryConfig struct {
	Capacity     int           `env:"CAPACITY" envDefault:"100" validate:"gt=0"`
	RecentWindow time.Duration `env:"RECENT_WINDOW" envDefault:"24h" validate:"gt=0"`
}

type TelegramConfig struct {
	Enabled    bool   `env:"ENABLED" envDefault:"false"`
	BotToken   string `env:"BOT_TOKEN" validate:"required_if=Enabled true"`
	ChatID     string `env:"CHAT_ID" validate:"required_if=Enabled true"`
	BaseURL    string `env:"BASE_URL" envDefault:"https://api.telegram.org" validate:"url"`
	MaxChanges int    `env:"MAX_CHANGES" envDefault:"10" validate:"gt=0"`
}

type KafkaConfig struct {
	Enabled      bool     `env:"ENABLED" envDefault:"false"`
	Brokers      []string `env:"BROKERS" envDefault:"localhost:9092" validate:"required_if=Enabled true"`
	ChangesTopic string   `env:"CHANGES_TOPIC" envDefault:"price-tracker.changes"`
	RefreshTopic string   `env:"REFRESH_TOPIC" envDefault:"price-tracker.refresh"`
	GroupID      string   `env:"GROUP_ID" envDefault:"price-tracker"`
}

type DatabaseConfig struct {
	Enabled  bool          `env:"ENABLED" envDefault:"false"`
	URI      string        `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string        `env:"DATABASE" envDefault:"price_tracker"`
	TTL      time.Duration `env:"TTL" envDefault:"720h"`
}

type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

func Load() (*Config, error) {
	return LoadWith(env.Options{})
}

// LoadWith parses the config with custom env options, mostly to inject
// variables in tests.
func LoadWith(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
