package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"task_frontend/internal/logger"

	"github.com/joho/godotenv"
)

const DefaultTaskAPIBaseURL = "https://task-backend-one-brown.vercel.app"

type Config struct {
	AppPort string

	// Remote task backend
	TaskAPIBaseURL string
	TaskAPIAuth    string

	// View sessions
	SessionSecret string
	SessionTTL    time.Duration

	LogLevel string
	LogJSON  bool

	// Rate limiting; Redis is optional and the limiters fail open without it
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	APIRateLimit     int
	APIRateWindow    time.Duration
	ActionRateLimit  int
	ActionRateWindow time.Duration

	MockAPIPort string
}

// Load reads .env (when present) and the environment. Missing required
// values stop the process.
func Load() *Config {
	return mustLoad(FromEnv)
}

// LoadClient is Load for binaries that only call the task API and hold no
// sessions, so SESSION_SECRET may be absent.
func LoadClient() *Config {
	return mustLoad(ClientFromEnv)
}

func mustLoad(from func() (*Config, error)) *Config {
	_ = godotenv.Load()

	cfg, err := from()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds the web server config from the current environment without
// touching .env files.
func FromEnv() (*Config, error) {
	cfg, err := ClientFromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is not set")
	}
	return cfg, nil
}

// ClientFromEnv is FromEnv without the session requirements.
func ClientFromEnv() (*Config, error) {
	auth := os.Getenv("TASK_API_AUTH")
	if auth == "" {
		// legacy variable name, still used by existing deployments
		auth = os.Getenv("auth")
	}
	if auth == "" {
		return nil, errors.New("TASK_API_AUTH is not set")
	}

	baseURL := strings.TrimRight(os.Getenv("TASK_API_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = DefaultTaskAPIBaseURL
	}

	return &Config{
		AppPort:          envString("APP_PORT", "8080"),
		TaskAPIBaseURL:   baseURL,
		TaskAPIAuth:      auth,
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		SessionTTL:       time.Duration(envPositiveInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		LogLevel:         envString("LOG_LEVEL", "info"),
		LogJSON:          os.Getenv("LOG_JSON") == "true",
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          envNonNegativeInt("REDIS_DB", 0),
		APIRateLimit:     envPositiveInt("API_RATE_LIMIT", 120),
		APIRateWindow:    time.Duration(envPositiveInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		ActionRateLimit:  envPositiveInt("ACTION_RATE_LIMIT", 30),
		ActionRateWindow: time.Duration(envPositiveInt("ACTION_RATE_WINDOW_SECONDS", 60)) * time.Second,
		MockAPIPort:      envString("MOCKAPI_PORT", "8081"),
	}, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// invalid or non-positive values fall back to def
func envPositiveInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envNonNegativeInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
