package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Port        string
	LogLevel    zapcore.Level
	PostgresDSN string // empty disables GET /forecast
	MaxUploadMB int
	PreviewRows int
	SchemaFile  string
}

// Load reads a local .env file when present, then the environment.
func Load() (Config, bool) {
	envLoaded := godotenv.Load() == nil
	return FromEnv(), envLoaded
}

func FromEnv() Config {
	lvl := zapcore.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if parsed, err := zapcore.ParseLevel(v); err == nil {
			lvl = parsed
		}
	}
	return Config{
		Port:        envOr("PORT", "8080"),
		LogLevel:    lvl,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		MaxUploadMB: atoiOr("MAX_UPLOAD_MB", 10),
		PreviewRows: atoiOr("PREVIEW_ROWS", 5),
		SchemaFile:  os.Getenv("SCHEMA_FILE"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
