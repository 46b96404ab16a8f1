package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDSN        string
	TemplatesDir string
	LogFile      string
	LogMode      string

	RedisAddr       string
	CatalogCacheTTL time.Duration

	SessionIdle       time.Duration
	SessionSweepEvery time.Duration

	BodyLimitMB  int
	ImageWorkers int
}

func Load() Config {
	// .env is optional; real environment wins
	_ = godotenv.Load()

	cfg := Config{
		Port:              env("PORT", "8080"),
		DBDSN:             env("DB_DSN", "jamaahmart.db"),
		TemplatesDir:      env("TEMPLATES_DIR", "./web/templates"),
		LogFile:           env("LOG_FILE", "./jamaahmart.log"),
		LogMode:           env("LOG_MODE", "development"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		CatalogCacheTTL:   envDuration("CATALOG_CACHE_TTL", 10*time.Minute),
		SessionIdle:       envDuration("SESSION_IDLE", 2*time.Hour),
		SessionSweepEvery: envDuration("SESSION_SWEEP_EVERY", 10*time.Minute),
		BodyLimitMB:       envInt("BODY_LIMIT_MB", 16),
		ImageWorkers:      envInt("IMAGE_WORKERS", 2),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s REDIS_ADDR=%q", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.RedisAddr)
	return cfg
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
