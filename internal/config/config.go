package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default values used when a variable is unset or invalid
const (
	DefaultDBType                = "sqlite"
	DefaultSQLitePath            = "data/flashdeck.db"
	DefaultHTTPAddr              = ":8080"
	DefaultLogMode               = "dev"
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
	DefaultCacheTTL              = 10 * time.Minute
)

// Config is the process configuration read from the environment
type Config struct {
	DBType      string // sqlite | postgres
	DatabaseURL string
	SQLitePath  string

	HTTPAddr    string
	CORSOrigins []string
	LogMode     string

	TelegramBotToken      string
	EnableScheduler       bool
	NotificationStartHour int
	NotificationEndHour   int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

// Load reads envFile (if it exists) into the environment and then builds the
// config. Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}
	return FromEnv(), nil
}

// FromEnv builds the config from the current environment
func FromEnv() *Config {
	cfg := &Config{
		DBType:                strings.ToLower(envString("DB_TYPE", DefaultDBType)),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		SQLitePath:            envString("SQLITE_PATH", DefaultSQLitePath),
		HTTPAddr:              envString("HTTP_ADDR", DefaultHTTPAddr),
		CORSOrigins:           envList("CORS_ORIGINS"),
		LogMode:               envString("LOG_MODE", DefaultLogMode),
		TelegramBotToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		EnableScheduler:       envBool("ENABLE_SCHEDULER", false),
		NotificationStartHour: envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour),
		NotificationEndHour:   envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               envInt("REDIS_DB", 0),
		CacheTTL:              envDuration("CACHE_TTL", DefaultCacheTTL),
	}
	if cfg.DBType == "postgresql" {
		cfg.DBType = "postgres"
	}
	return cfg
}

// Driver returns the database/sql driver name and DSN for the configured store
func (c *Config) Driver() (string, string, error) {
	switch c.DBType {
	case "sqlite", "sqlite3":
		return "sqlite3", c.SQLitePath, nil
	case "postgres":
		if c.DatabaseURL == "" {
			return "", "", errors.New("DATABASE_URL is required when DB_TYPE=postgres")
		}
		return "postgres", c.DatabaseURL, nil
	default:
		return "", "", fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
}

// InNotificationWindow reports whether hour lies in [start, end]
func (c *Config) InNotificationWindow(hour int) bool {
	return hour >= c.NotificationStartHour && hour <= c.NotificationEndHour
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envHour(key string, def int) int {
	h := envInt(key, def)
	if h < 0 || h > 23 {
		return def
	}
	return h
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
