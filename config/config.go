package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

type AppConfig struct {
	PostgresURL          string
	JWTSecret            string
	CronSecret           string
	SMTPHost             string
	SMTPPort             string
	SMTPFrom             string
	SMTPPassword         string
	FirebaseCredentials  string // raw service-account JSON, empty disables push
	AppBaseURL           string
	Port                 string
	SweepIntervalMinutes int
	EnableExpirySweep    bool
	AppEnv               string // EnvDevelopment or EnvProduction
	LogLevel             slog.Level
}

var Config AppConfig

func LoadConfig() {
	cfg := AppConfig{}

	cfg.AppEnv = os.Getenv("APP_ENV")
	cfg.PostgresURL = loadRequired("POSTGRES_URL")
	cfg.JWTSecret = loadRequired("JWT_SECRET")
	cfg.CronSecret = loadRequired("CRON_SECRET")
	cfg.SMTPHost = loadRequired("SMTP_HOST")
	cfg.SMTPPort = loadRequired("SMTP_PORT")
	cfg.SMTPFrom = loadRequired("SMTP_FROM")
	cfg.SMTPPassword = loadRequired("SMTP_PASSWORD")

	cfg.FirebaseCredentials = loadOptional("FIREBASE_CREDENTIALS", "")
	cfg.AppBaseURL = loadOptional("APP_BASE_URL", "")
	cfg.Port = loadOptional("PORT", "8080")
	cfg.EnableExpirySweep = loadOptional("ENABLE_EXPIRY_SWEEP", "true") == "true"

	sweepStr := loadOptional("SWEEP_INTERVAL_MINUTES", "15")
	sweep, err := strconv.Atoi(sweepStr)
	if err != nil || sweep < 1 {
		slog.Error("Invalid SWEEP_INTERVAL_MINUTES, using default", "value", sweepStr)
		sweep = 15
	}
	cfg.SweepIntervalMinutes = sweep

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	Config = cfg
}

func (c AppConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Required env var not set", "key", key)
		os.Exit(1)
	}
	return value
}

func loadOptional(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (c AppConfig) IsProduction() bool {
	return Config.AppEnv == EnvProduction
}
