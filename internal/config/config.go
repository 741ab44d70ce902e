package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"
	defaultDSN       = "inkbook.db"
)

// App is the runtime configuration of the API and the background jobs.
type App struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:"inkbook.db"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"change-me-jwt-secret"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	StorageType        string `envconfig:"STORAGE_TYPE" default:"local"`
	StorageLocalPath   string `envconfig:"STORAGE_LOCAL_PATH" default:"./storage/media"`
	MediaPublicBaseURL string `envconfig:"MEDIA_PUBLIC_BASE_URL" default:"/static/media"`
	MediaMaxUpload     int64  `envconfig:"MEDIA_MAX_UPLOAD_BYTES" default:"52428800"`
	S3Bucket           string `envconfig:"AWS_S3_BUCKET"`
	S3Region           string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSAccessKey       string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey       string `envconfig:"AWS_SECRET_ACCESS_KEY"`

	RabbitURL      string `envconfig:"RABBIT_URL"`
	EventsExchange string `envconfig:"EVENTS_EXCHANGE" default:"inkbook.events"`

	OmisePublicKey     string `envconfig:"OMISE_PUBLIC_KEY"`
	OmiseSecretKey     string `envconfig:"OMISE_SECRET_KEY"`
	CheckoutSourceType string `envconfig:"CHECKOUT_SOURCE_TYPE" default:"mobile_banking_scb"`
	CheckoutReturnURI  string `envconfig:"CHECKOUT_RETURN_URI" default:"inkbook://subscription/return"`
	CheckoutCurrency   string `envconfig:"CHECKOUT_CURRENCY" default:"thb"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	InvitationTTL         time.Duration `envconfig:"INVITATION_TTL" default:"336h"`
	NotificationRetention time.Duration `envconfig:"NOTIFICATION_RETENTION" default:"720h"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*App, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded (%v)", err)
	}

	cfg := &App{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))

	if err := validate(cfg); err != nil {
		return nil, err
	}

	log.Printf("config: env=%s addr=%s storage=%s events=%t payments=%t tracing=%t",
		cfg.AppEnv, cfg.HTTPAddr, cfg.StorageType, cfg.RabbitURL != "", cfg.PaymentsEnabled(), cfg.OTLPEndpoint != "")
	return cfg, nil
}

// PaymentsEnabled reports whether checkout keys are configured.
func (c *App) PaymentsEnabled() bool {
	return c.OmisePublicKey != "" && c.OmiseSecretKey != ""
}

func (c *App) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validate(cfg *App) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.InvitationTTL <= 0 {
		return fmt.Errorf("INVITATION_TTL must be > 0")
	}
	if cfg.NotificationRetention <= 0 {
		return fmt.Errorf("NOTIFICATION_RETENTION must be > 0")
	}
	if cfg.MediaMaxUpload <= 0 {
		return fmt.Errorf("MEDIA_MAX_UPLOAD_BYTES must be > 0")
	}

	switch cfg.StorageType {
	case "local":
		if strings.TrimSpace(cfg.StorageLocalPath) == "" {
			return fmt.Errorf("STORAGE_LOCAL_PATH must not be empty")
		}
	case "s3":
		if cfg.S3Bucket == "" {
			return fmt.Errorf("AWS_S3_BUCKET is required when STORAGE_TYPE=s3")
		}
	default:
		return fmt.Errorf("STORAGE_TYPE must be one of: local, s3")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.DatabaseURL, defaultDSN) {
			return fmt.Errorf("in prod/release DATABASE_URL must point at postgres")
		}
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
