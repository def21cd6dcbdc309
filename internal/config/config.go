package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StateBackendCouchDB = "couchdb"
	StateBackendSQLite  = "sqlite"
	StateBackendMemory  = "memory"
)

type Config struct {
	Server    ServerConfig
	API       APIConfig
	Session   SessionConfig
	State     StateConfig
	Database  DatabaseConfig
	History   HistoryConfig
	WebSocket WebSocketConfig
	CORS      CORSConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

type StateConfig struct {
	Backend    string
	SQLitePath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("http://%s:%s@%s:%s", d.User, d.Password, d.Host, d.Port)
}

type HistoryConfig struct {
	PageSize       int
	RestoreTimeout time.Duration
}

type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	MaxMessageSize  int64
	WriteWait       time.Duration
	PongWait        time.Duration
	PingPeriod      time.Duration
	MaxConnPerUser  int
}

type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

type LoggingConfig struct {
	Level string
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	godotenv.Load()

	apiTimeout, err := time.ParseDuration(getEnv("API_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	restoreTimeout, err := time.ParseDuration(getEnv("HISTORY_RESTORE_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_RESTORE_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:9000"), "/"),
			Timeout: apiTimeout,
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "dev-secret-change-in-production"),
			TTL:        sessionTTL,
			CookieName: getEnv("SESSION_COOKIE", "notesync_session"),
			Secure:     getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		State: StateConfig{
			Backend:    strings.ToLower(getEnv("STATE_BACKEND", StateBackendMemory)),
			SQLitePath: getEnv("SQLITE_PATH", "notesync-web.db"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5984"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "notesync_web"),
		},
		History: HistoryConfig{
			PageSize:       getEnvAsInt("HISTORY_PAGE_SIZE", 10),
			RestoreTimeout: restoreTimeout,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  getEnvAsInt("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getEnvAsInt("WS_WRITE_BUFFER_SIZE", 1024),
			MaxMessageSize:  int64(getEnvAsInt("WS_MAX_MESSAGE_SIZE", 4096)),
			WriteWait:       10 * time.Second,
			PongWait:        60 * time.Second,
			PingPeriod:      54 * time.Second,
			MaxConnPerUser:  getEnvAsInt("WS_MAX_CONN_PER_USER", 8),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization,HX-Request,HX-Target"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.State.Backend {
	case StateBackendCouchDB, StateBackendSQLite, StateBackendMemory:
	default:
		return fmt.Errorf("invalid STATE_BACKEND %q", c.State.Backend)
	}
	if c.History.PageSize <= 0 {
		return fmt.Errorf("invalid HISTORY_PAGE_SIZE %d", c.History.PageSize)
	}
	if c.History.RestoreTimeout <= 0 {
		return fmt.Errorf("invalid HISTORY_RESTORE_TIMEOUT %s", c.History.RestoreTimeout)
	}
	if c.Server.Env == "production" && c.Session.Secret == "dev-secret-change-in-production" {
		return fmt.Errorf("SESSION_SECRET must be set in production")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
