package config

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Mode         string
	DatabasePath string
	LogLevel     string
	SkipSeed     bool
}

func Load() *Config {
	// Optional .env, ignored when absent
	godotenv.Load()

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".chatterbox")

	cfg := &Config{}

	flag.StringVar(&cfg.Mode, "mode", getEnv("CHATTERBOX_MODE", "interactive"), "Run mode: interactive or headless")
	flag.StringVar(&cfg.DatabasePath, "db", getEnv("CHATTERBOX_DB_PATH", filepath.Join(dataDir, "chatterbox.db")), "Database file path")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("CHATTERBOX_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.BoolVar(&cfg.SkipSeed, "no-seed", false, "Skip demo data seeding")

	flag.Parse()

	os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
