package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/oggyb/skebby-gateway/internal/sms"
	"github.com/sirupsen/logrus"
)

type Config struct {
	App struct {
		Name string
		Env  string
	}

	Log struct {
		Level  logrus.Level
		Format string
	}

	API struct {
		Host string
		Port string
	}

	DB struct {
		Host            string
		Port            int
		User            string
		Password        string
		Name            string
		SSLMode         string
		AutoMigrate     bool
		MaxOpenConns    int
		ConnMaxLifetime time.Duration
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Skebby struct {
		User     string
		Password string
		Alias    string
		Quality  sms.Quality
		BaseURL  string
		Timeout  time.Duration
		// LowCreditThreshold enables a warning once a send reports fewer
		// remaining credits. Zero disables it.
		LowCreditThreshold int
	}

	Scheduler struct {
		Interval     time.Duration
		BatchTimeout time.Duration
		AutoStart    bool
	}

	Worker struct {
		BatchSize         int
		MaxWorkers        int
		PerMessageTimeout time.Duration
	}
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	// App
	cfg.App.Name = getEnv("APP_NAME", "skebby-gateway")
	cfg.App.Env = getEnv("APP_ENV", "development")

	// Logging
	cfg.Log.Level = getLevel("LOG_LEVEL", logrus.InfoLevel)
	cfg.Log.Format = getEnv("LOG_FORMAT", "text")

	// API
	cfg.API.Host = getEnv("API_HOST", "0.0.0.0")
	cfg.API.Port = getEnv("API_PORT", "8080")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "db")
	cfg.DB.Port = getInt("DB_PORT", 5432)
	cfg.DB.User = getEnv("DB_USER", "root")
	cfg.DB.Password = getEnv("DB_PASSWORD", "123456")
	cfg.DB.Name = getEnv("DB_NAME", "db_skebby")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.DB.AutoMigrate = isTruthy(os.Getenv("DB_AUTO_MIGRATE"))
	cfg.DB.MaxOpenConns = getInt("DB_MAX_OPEN_CONNS", 10)
	cfg.DB.ConnMaxLifetime = getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute)

	// Redis
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "redis:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0)

	// Skebby
	cfg.Skebby.User = getEnv("SKEBBY_USER", "")
	cfg.Skebby.Password = getEnv("SKEBBY_PWD", "")
	cfg.Skebby.Alias = getEnv("SKEBBY_ALIAS", "")
	cfg.Skebby.Quality = sms.Quality(getEnv("SKEBBY_QUALITY", string(sms.DefaultQuality)))
	cfg.Skebby.BaseURL = getEnv("SKEBBY_BASE_URL", sms.DefaultBaseURL)
	cfg.Skebby.Timeout = getDuration("SKEBBY_TIMEOUT", sms.DefaultTimeout)
	cfg.Skebby.LowCreditThreshold = getInt("SKEBBY_LOW_CREDIT_THRESHOLD", 0)

	// Scheduler
	cfg.Scheduler.Interval = getDuration("SCHEDULER_INTERVAL", 5*time.Second)
	cfg.Scheduler.BatchTimeout = getDuration("SCHEDULER_BATCH_TIMEOUT", 90*time.Second)
	cfg.Scheduler.AutoStart = getBool("SCHEDULER_AUTO_START", true)

	// Worker / message processing
	cfg.Worker.BatchSize = getInt("MESSAGE_BATCH_SIZE", 100)
	cfg.Worker.MaxWorkers = getInt("MESSAGE_MAX_WORKERS", 4)
	cfg.Worker.PerMessageTimeout = getDuration("MESSAGE_PER_MESSAGE_TIMEOUT", 2*sms.DefaultTimeout)

	return cfg
}

// SkebbyConfig turns the Skebby settings into client options.
func (c *Config) SkebbyConfig(log *logrus.Entry) sms.SkebbyConfig {
	return sms.SkebbyConfig{
		Username: c.Skebby.User,
		Password: c.Skebby.Password,
		Alias:    c.Skebby.Alias,
		Quality:  c.Skebby.Quality,
		BaseURL:  c.Skebby.BaseURL,
		Timeout:  c.Skebby.Timeout,
		Logger:   log,
	}
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return isTruthy(v)
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getLevel(key string, def logrus.Level) logrus.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	lvl, err := logrus.ParseLevel(v)
	if err != nil {
		return def
	}
	return lvl
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}
