package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL         = "http://localhost:8080/api/v1"
	DefaultRequestTimeout = 30 * time.Second
)

type Config struct {
	APIURL         string
	RequestTimeout time.Duration

	ServerPort  int
	DatabaseURL string
	JWTSecret   []byte

	StateFile string
	LogLevel  string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found, using system environment variables")
	}

	return Config{
		APIURL:         envDefault("POS_API_URL", DefaultAPIURL),
		RequestTimeout: time.Duration(envIntDefault("POS_REQUEST_TIMEOUT", 30)) * time.Second,

		ServerPort:  envIntDefault("SERVER_PORT", 8080),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   []byte(envDefault("JWT_SECRET", "dev-only-secret")),

		StateFile: os.Getenv("POS_STATE_FILE"),
		LogLevel:  envDefault("LOG_LEVEL", "info"),
	}
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
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
