package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port           string `env:"PORT,            default=8080"`
	Env            string `env:"ENV,             default=development"`
	LogLevel       string `env:"LOG_LEVEL,       default=info"`
	JWTSecret      string `env:"JWT_SECRET"`
	InternalSecret string `env:"INTERNAL_SECRET_TOKEN"`

	// BeginDate is the start of the program window. Work logged before it
	// never earns placement time.
	BeginDate time.Time `env:"BEGIN_DATE, default=2025-10-25T23:59:59Z"`

	SQLite    SQLiteConfig
	Redis     RedisConfig
	Hackatime HackatimeConfig
	Slack     SlackConfig
	Tracker   TrackerConfig
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=iplace.db"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type HackatimeConfig struct {
	BaseURL  string `env:"HACKATIME_BASE_URL, default=https://hackatime.hackclub.com"`
	AdminKey string `env:"HACKATIME_ADMIN_KEY"`
}

type SlackConfig struct {
	ClientID     string `env:"SLACK_CLIENT_ID"`
	ClientSecret string `env:"SLACK_CLIENT_SECRET"`
}

type TrackerConfig struct {
	BaseURL string `env:"AIRTABLE_BASE_URL, default=https://api.airtable.com"`
	APIKey  string `env:"AIRTABLE_API_KEY"`
	BaseID  string `env:"AIRTABLE_BASE_ID"`
	TableID string `env:"AIRTABLE_TABLE_ID"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
