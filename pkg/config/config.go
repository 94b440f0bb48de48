package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendModeRPC    = "rpc"
	BackendModeMemory = "memory"

	CacheStoreMemory = "memory"
	CacheStoreRedis  = "redis"
)

type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type BackendConfig struct {
	Mode            string
	URL             string
	RequestTimeout  time.Duration
	ReadRetryWindow time.Duration
	// AdminPrincipals seeds the admin role of the in-process actor.
	AdminPrincipals []string
	SeedDemo        bool
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheConfig struct {
	Store string
	// TTL bounds every cached query result; invalidation removes entries earlier.
	TTL time.Duration
	// LookupTTL applies to the public projection used by customer lookups.
	LookupTTL time.Duration
	// RoleTTL bounds how long an admin decision may be served after revocation.
	RoleTTL time.Duration
	// ReadyWait is how long a read waits for the actor session before
	// answering "not ready yet".
	ReadyWait time.Duration
}

// LongestTTL is the longest lifetime any cached entry can have.
func (c CacheConfig) LongestTTL() time.Duration {
	return max(c.TTL, c.LookupTTL, c.RoleTTL)
}

type JWTConfig struct {
	SecretKey string
	Issuer    string
	TokenTTL  time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Redis   RedisConfig
	Cache   CacheConfig
	JWT     JWTConfig
	Log     LogConfig
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found or could not be loaded")
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			AllowedOrigins:  getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Backend: BackendConfig{
			Mode:            getEnv("BACKEND_MODE", BackendModeMemory),
			URL:             getEnv("BACKEND_URL", "http://localhost:4943"),
			RequestTimeout:  getEnvDuration("BACKEND_TIMEOUT", 20*time.Second),
			ReadRetryWindow: getEnvDuration("BACKEND_READ_RETRY_WINDOW", 10*time.Second),
			AdminPrincipals: getEnvList("ADMIN_PRINCIPALS", nil),
			SeedDemo:        getEnvBool("SEED_DEMO", false),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Store:     getEnv("CACHE_STORE", CacheStoreMemory),
			TTL:       getEnvDuration("CACHE_TTL", 5*time.Minute),
			LookupTTL: getEnvDuration("CACHE_LOOKUP_TTL", 30*time.Second),
			RoleTTL:   getEnvDuration("CACHE_ROLE_TTL", time.Minute),
			ReadyWait: getEnvDuration("CACHE_READY_WAIT", 5*time.Second),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", "dev-only-identity-secret"),
			Issuer:    getEnv("JWT_ISSUER", "repair-desk-identity"),
			TokenTTL:  getEnvDuration("JWT_TOKEN_TTL", 24*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "debug"),
			File:  getEnv("LOG_FILE", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("warning: %s=%q is not an integer, using %d", key, raw, fallback)
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("warning: %s=%q is not a duration, using %s", key, raw, fallback)
		return fallback
	}
	return v
}

func getEnvList(key string, fallback []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
