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
	ServiceName string
	LogLevel    string

	// storefront client
	APIURL         string
	RequestTimeout time.Duration
	TokenFile      string

	// development API server
	ServerPort       int
	DatabaseURL      string
	JWTAccessSecret  []byte
	JWTRefreshSecret []byte
	KafkaBrokers     []string
	KafkaTopic       string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		APIURL:         EnvDefault("STOREFRONT_API_URL", "http://localhost:8080/"),
		RequestTimeout: EnvDurationDefault("STOREFRONT_TIMEOUT", 5*time.Second),
		TokenFile:      EnvDefault("STOREFRONT_TOKEN_FILE", ".storefront-session.json"),

		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		DatabaseURL: EnvDefault("DATABASE_URL", "file:storefront.db?_pragma=foreign_keys(1)"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "storefront_events"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
