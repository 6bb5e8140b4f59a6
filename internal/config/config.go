package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort      string
	Debug           bool
	ShutdownTimeout time.Duration

	// Database，为空时使用内存目录
	DatabaseURL string

	// 内存目录的种子文件
	CatalogSeedFile string

	// WebSocket 允许的 Origin，"*" 表示不限制
	WSAllowedOrigin string
}

// UseDatabase 是否从 PostgreSQL 读取车型目录
func (c *Config) UseDatabase() bool {
	return c.DatabaseURL != ""
}

func Load() (*Config, error) {
	// 尝试加载 .env 文件（可选）
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:      getEnv("PORT", "4000"),
		Debug:           getEnvBool("DEBUG", false),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		CatalogSeedFile: getEnv("CATALOG_SEED_FILE", "data/catalog.yaml"),
		WSAllowedOrigin: getEnv("WS_ALLOWED_ORIGIN", "*"),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
