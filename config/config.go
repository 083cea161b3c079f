package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	FrontendURL string
	Environment string
	LogLevel    string
	// Credential store (argon2id)
	HashSecret      string
	Argon2Time      int
	Argon2MemoryKiB int
	Argon2Threads   int
	Argon2KeyLen    int
	// Signed access tokens layered on top of the permanent identifier
	TokenSigningSecret    string
	AccessTokenTTLMinutes int
	// Bound on every store call
	StoreTimeoutSeconds int
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int
	FailedLoginWindowMinutes int
	FailedLoginBlockMinutes  int
	FailedLoginMaxAttempts   int
	// Domain events (RabbitMQ)
	AMQPUrl     string
	EventsQueue string
	// Serve /swagger docs
	SwaggerEnabled bool
	// Accept account_type=administrator on /register
	AllowAdminRegistration bool
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		Environment: getEnv("SERVICE_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		// Credential store
		HashSecret:      getEnv("HASH_SECRET", ""),
		Argon2Time:      getEnvInt("ARGON2_TIME", 3),
		Argon2MemoryKiB: getEnvInt("ARGON2_MEMORY_KIB", 64*1024),
		Argon2Threads:   getEnvInt("ARGON2_THREADS", 2),
		Argon2KeyLen:    getEnvInt("ARGON2_KEY_LEN", 32),
		// Tokens
		TokenSigningSecret:    getEnv("TOKEN_SIGNING_SECRET", ""),
		AccessTokenTTLMinutes: getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 60),
		StoreTimeoutSeconds:   getEnvInt("STORE_TIMEOUT_SECONDS", 5),
		// Redis
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate limiting
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		FailedLoginWindowMinutes: getEnvInt("FAILED_LOGIN_WINDOW_MINUTES", 15),
		FailedLoginBlockMinutes:  getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
		FailedLoginMaxAttempts:   getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),
		// Events
		AMQPUrl:     getEnv("AMQP_URL", ""),
		EventsQueue: getEnv("EVENTS_QUEUE", "jobboard.events"),
		// Docs
		SwaggerEnabled: getEnvBool("SWAGGER_ENABLED", true),
	}
	cfg.AllowAdminRegistration = getEnvBool("ALLOW_ADMIN_REGISTRATION", !cfg.IsProduction())

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.HashSecret == "" {
		log.Println("WARNING: HASH_SECRET is missing. Registration and login will fail.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting and login tracking are disabled.")
	}

	return cfg, nil
}

// StoreTimeout is the bound applied to each database call.
func (c *Config) StoreTimeout() time.Duration {
	if c.StoreTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.StoreTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the lifetime of signed access tokens.
func (c *Config) AccessTokenTTL() time.Duration {
	if c.AccessTokenTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

// FailedLoginWindow is how long failed logins are counted before the counter resets.
func (c *Config) FailedLoginWindow() time.Duration {
	return time.Duration(c.FailedLoginWindowMinutes) * time.Minute
}

// FailedLoginBlock is how long an email stays blocked once the limit is hit.
func (c *Config) FailedLoginBlock() time.Duration {
	return time.Duration(c.FailedLoginBlockMinutes) * time.Minute
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
