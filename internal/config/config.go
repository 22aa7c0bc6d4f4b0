package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTAccessTTL  = "24h"
	defaultOTPTTL        = "10m"
	defaultNotifyTimeout = "5s"
)

type Config struct {
	AppEnv   string
	Port     string
	GinMode  string
	LogLevel string
	LogFmt   string

	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	OTPTTL         time.Duration
	OTPMaxAttempts int

	RabbitMQURL   string
	NotifyQueue   string
	NotifyTimeout time.Duration
	NotifyWorkers int

	SMSProvider      string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	ElasticsearchURL   string
	ElasticsearchIndex string

	ImageStorage     string
	UploadsDir       string
	UploadsURLBase   string
	CloudinaryURL    string
	CloudinaryFolder string

	CORSOrigins       []string
	MetricsToken      string
	MetricsAllowedIPs []string

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", "8080")
	cfg.GinMode = getEnv("GIN_MODE", "debug")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFmt = getEnv("LOG_FORMAT", "json")
	cfg.DatabaseURL = getEnv("DATABASE_URL", "functionhall.db")
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RabbitMQURL = strings.TrimSpace(os.Getenv("RABBITMQ_URL"))
	cfg.NotifyQueue = getEnv("NOTIFY_QUEUE", "notifications")

	cfg.SMSProvider = strings.ToLower(getEnv("SMS_PROVIDER", "console"))
	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.TwilioFromNumber = os.Getenv("TWILIO_FROM_NUMBER")

	cfg.ElasticsearchURL = strings.TrimSpace(os.Getenv("ELASTICSEARCH_URL"))
	cfg.ElasticsearchIndex = getEnv("ELASTICSEARCH_INDEX", "halls")

	cfg.ImageStorage = strings.ToLower(getEnv("IMAGE_STORAGE", "local"))
	cfg.UploadsDir = getEnv("UPLOADS_DIR", "./uploads")
	cfg.UploadsURLBase = getEnv("UPLOADS_URL_BASE", "/static/uploads")
	cfg.CloudinaryURL = strings.TrimSpace(os.Getenv("CLOUDINARY_URL"))
	cfg.CloudinaryFolder = getEnv("CLOUDINARY_FOLDER", "halls")

	cfg.CORSOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	cfg.MetricsToken = strings.TrimSpace(os.Getenv("METRICS_TOKEN"))
	cfg.MetricsAllowedIPs = splitList(os.Getenv("METRICS_ALLOWED_IPS"))

	cfg.SeedAdminEmail = getEnv("SEED_ADMIN_EMAIL", "admin@functionhall.local")
	cfg.SeedAdminPassword = getEnv("SEED_ADMIN_PASSWORD", "admin12345")

	var err error
	if cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL); err != nil {
		return nil, err
	}
	if cfg.OTPTTL, err = parseDurationEnv("OTP_TTL", defaultOTPTTL); err != nil {
		return nil, err
	}
	if cfg.NotifyTimeout, err = parseDurationEnv("NOTIFY_TIMEOUT", defaultNotifyTimeout); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}
	if cfg.OTPMaxAttempts, err = parseIntEnv("OTP_MAX_ATTEMPTS", "3"); err != nil {
		return nil, err
	}
	if cfg.NotifyWorkers, err = parseIntEnv("NOTIFY_WORKERS", "4"); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be > 0")
	}
	if cfg.NotifyTimeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT must be > 0")
	}
	if cfg.OTPMaxAttempts <= 0 {
		return fmt.Errorf("OTP_MAX_ATTEMPTS must be > 0")
	}
	if cfg.NotifyWorkers <= 0 {
		return fmt.Errorf("NOTIFY_WORKERS must be > 0")
	}
	switch cfg.SMSProvider {
	case "console":
	case "twilio":
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
			return fmt.Errorf("SMS_PROVIDER=twilio requires TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM_NUMBER")
		}
	default:
		return fmt.Errorf("SMS_PROVIDER must be one of: console, twilio")
	}
	switch cfg.ImageStorage {
	case "local":
	case "cloudinary":
		if cfg.CloudinaryURL == "" {
			return fmt.Errorf("IMAGE_STORAGE=cloudinary requires CLOUDINARY_URL")
		}
	default:
		return fmt.Errorf("IMAGE_STORAGE must be one of: local, cloudinary")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	if isProdLike(cfg.AppEnv) && cfg.SeedAdminPassword == "admin12345" {
		return fmt.Errorf("in prod/release SEED_ADMIN_PASSWORD must not be default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

// splitList parses a comma separated env value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
