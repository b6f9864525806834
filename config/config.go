package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/studio-api/logging"
)

// Config holds the project config values
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"production"`
	Port    string `env:"PORT" envDefault:"8080"`
	BaseURL string `env:"BASE_URL"`

	URL          string `env:"DB_URI"`
	DatabaseName string `env:"DB_NAME" envDefault:"studio"`

	SessionPublicKey string        `env:"SESSION_JWT_PUBLIC_KEY"`
	SessionSecret    string        `env:"SESSION_JWT_SECRET"`
	SessionCacheTTL  time.Duration `env:"SESSION_CACHE_TTL" envDefault:"1m"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	RedisURL string `env:"REDIS_URL"`
	NatsURL  string `env:"NATS_URL"`

	SendgridAPIKey string `env:"SENDGRID_API_KEY"`
	MailFrom       string `env:"MAIL_FROM" envDefault:"no-reply@studio.local"`
	MailFromName   string `env:"MAIL_FROM_NAME" envDefault:"Studio"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER" envDefault:"studio"`

	OnboardingBaseURL string `env:"ONBOARDING_BASE_URL" envDefault:"http://localhost:3000"`
	JobConcurrency    int    `env:"JOB_CONCURRENCY" envDefault:"4"`

	LogLevel      string `env:"LOG_LEVEL"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"14"`
	LogCompress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// Load reads an optional .env file, then the environment, into a Config
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Defaults returns a Config holding only the envDefault values, ignoring the environment
func Defaults() *Config {
	c := &Config{}
	// the envDefault tags are constants, so parsing them cannot fail
	_ = env.Parse(c, env.Options{Environment: map[string]string{}})
	return c
}

// New sets up all config related services. A config that fails to load falls back to Defaults.
func New() *Config {
	c, err := Load()
	if err != nil {
		c = Defaults()
	}

	//setup zap logger and replace default logger
	logger := setLogger(c)
	_ = zap.ReplaceGlobals(logger)
	if err != nil {
		zap.S().Errorw("failed to load config, using defaults", "error", err)
	}
	return c
}

// setLogger picks the logger flavour for the environment
func setLogger(c *Config) *zap.Logger {
	opts := logging.Options{
		File:       c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
	switch c.Env {
	case "local":
		opts.Development = true
		opts.Level = zap.DebugLevel
	case "development":
		opts.Development = true
		opts.Level = zap.InfoLevel
	default:
		opts.Level = zap.InfoLevel
	}
	if c.LogLevel != "" {
		opts.Level = logging.ParseLevel(c.LogLevel)
	}
	return logging.New(opts)
}
