package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"

	NotifyLog     = "log"
	NotifyWebhook = "webhook"
	NotifyKafka   = "kafka"
)

type Config struct {
	AppPort string
	AppEnv  string

	StoreDriver string
	DBHost      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPort      string
	RedisAddr   string

	JWTSecret string

	AdminWANumber    string
	NotifyDriver     string
	NotifyWebhookURL string
	KafkaBrokers     []string
	KafkaTopic       string

	GeminiAPIKey string
	GeminiModel  string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:          getenv("APP_PORT", "8080"),
		AppEnv:           os.Getenv("APP_ENV"),
		StoreDriver:      getenv("STORE_DRIVER", StoreMemory),
		DBHost:           os.Getenv("DB_HOST"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		DBPort:           getenv("DB_PORT", "5432"),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		AdminWANumber:    getenv("ADMIN_WA_NUMBER", "6285282863008"),
		NotifyDriver:     getenv("NOTIFY_DRIVER", NotifyLog),
		NotifyWebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		KafkaBrokers:     splitCSV(getenv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:       getenv("KAFKA_TOPIC", "rni.notifications"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getenv("GEMINI_MODEL", "gemini-3-flash-preview"),
	}

	if cfg.StoreDriver == StorePostgres && cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly: DB_HOST is required for the postgres store")
	}

	if cfg.JWTSecret == "" {
		log.Fatal("Environment variables not loaded properly: JWT_SECRET is required")
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
