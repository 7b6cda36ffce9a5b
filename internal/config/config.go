// Package config loads runtime settings from the environment and optional .env files.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "STUDIO_"

var (
	ErrCSRFKeyRequired = errors.New("STUDIO_CSRF_KEY is required in production")
	ErrCSRFKeyInvalid  = errors.New("STUDIO_CSRF_KEY must be 64 hex characters")
)

// Config holds every runtime setting.
type Config struct {
	Env    string `env:"ENV" envDefault:"development"`
	Addr   string `env:"ADDR" envDefault:":8080"`
	DBPath string `env:"DB_PATH" envDefault:"studio.db"`

	AdminEmails   []string `env:"ADMIN_EMAILS" envSeparator:","`
	AdminPassword string   `env:"ADMIN_PASSWORD"`

	SessionIdle  time.Duration `env:"SESSION_IDLE" envDefault:"4h"`
	SessionSweep time.Duration `env:"SESSION_SWEEP" envDefault:"1m"`
	CSRFKeyHex   string        `env:"CSRF_KEY"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	ResendKey       string        `env:"RESEND_KEY"`
	MailFrom        string        `env:"MAIL_FROM" envDefault:"Studio <noreply@studio.local>"`
	ReplyTo         string        `env:"REPLY_TO"`
	StudioName      string        `env:"NAME" envDefault:"Studio"`
	ReceiptsEnabled bool          `env:"RECEIPTS_ENABLED" envDefault:"false"`
	OutboxInterval  time.Duration `env:"OUTBOX_INTERVAL" envDefault:"1m"`

	MetricsPath   string `env:"METRICS_PATH" envDefault:"/metrics"`
	SlowQueryMs   int    `env:"SLOW_QUERY_MS" envDefault:"50"`
	SlowRequestMs int    `env:"SLOW_REQUEST_MS" envDefault:"200"`
	RateLimit     int    `env:"RATE_LIMIT" envDefault:"10"`

	// CSRFKey is decoded from CSRFKeyHex, or random outside production.
	CSRFKey []byte
}

// IsProduction reports whether secure cookies and a fixed CSRF key are required.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// GoogleEnabled reports whether federated sign-in is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// Load reads .env and .env.local when present, then parses the environment.
// Variables already set in the process environment win over file values.
func Load() (Config, error) {
	for _, file := range []string{".env.local", ".env"} {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}
	return Parse(env.Options{Prefix: EnvPrefix})
}

// Parse builds a Config from opts without touching .env files.
func Parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	emails := cfg.AdminEmails[:0]
	for _, e := range cfg.AdminEmails {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}
	cfg.AdminEmails = emails

	key, err := csrfKey(cfg.CSRFKeyHex, cfg.IsProduction())
	if err != nil {
		return Config{}, err
	}
	cfg.CSRFKey = key
	return cfg, nil
}

func csrfKey(hexKey string, production bool) ([]byte, error) {
	if hexKey == "" {
		if production {
			return nil, ErrCSRFKeyRequired
		}
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
		return key, nil
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != 32 {
		return nil, ErrCSRFKeyInvalid
	}
	return key, nil
}
