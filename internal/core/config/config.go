package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseCfg struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type InvalidationCfg struct {
	Enabled bool
	Brokers string
	Topic   string
	GroupID string
}

type Config struct {
	Addr           string
	LogLevel       string
	Database       DatabaseCfg
	QueryTimeout   time.Duration
	CacheDriver    string
	RedisAddr      string
	CacheTTL       time.Duration
	CacheOpTimeout time.Duration
	MemCacheSize   int
	Invalidation   InvalidationCfg
}

func FromEnv() Config {
	return Config{
		Addr:     getenv("ADDR", ":8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		Database: DatabaseCfg{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getint("DB_PORT", 5432),
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", ""),
			Name:     getenv("DB_NAME", "geoportal"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		QueryTimeout:   getduration("QUERY_TIMEOUT", 15*time.Second),
		CacheDriver:    strings.ToLower(getenv("CACHE_DRIVER", "none")),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:       getduration("CACHE_TTL", 5*time.Minute),
		CacheOpTimeout: getduration("CACHE_OP_TIMEOUT", 250*time.Millisecond),
		MemCacheSize:   getint("MEM_CACHE_SIZE", 64),
		Invalidation: InvalidationCfg{
			Enabled: getbool("INVALIDATION_ENABLED", false),
			Brokers: getenv("KAFKA_BROKERS", "localhost:9092"),
			Topic:   getenv("KAFKA_TOPIC", "layer-invalidation"),
			GroupID: getenv("KAFKA_GROUP_ID", "geolayers-invalidator"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
