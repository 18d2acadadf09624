// Package config reads the server settings from the environment. A .env
// file in the working directory is loaded first by the main package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dhikaaapr/portfolio/internal/contact"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

type Config struct {
	Port         string
	Debug        bool
	LogLevel     zerolog.Level
	DatabasePath string
	ContentPath  string
	WatchContent bool
	TemplatesDir string
	Track        string
	SessionTTL   time.Duration
	SecureCookie bool

	Contact contact.Config

	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
}

// UsingDefaultAdmin reports whether the admin login still uses the
// development credentials.
func (c Config) UsingDefaultAdmin() bool {
	return c.AdminPasswordHash == "" && c.AdminPassword == defaultAdminPassword
}

// Load reads Config from the environment, applying development defaults,
// and validates it for serving.
func Load() (Config, error) {
	return load(os.Getenv)
}

// Read parses the environment like Load but skips Validate. Tools that only
// need the track and content paths use it so server-only settings, such as
// the admin password, cannot stop them.
func Read() (Config, error) {
	return read(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg, err := read(getenv)
	if verr := cfg.Validate(); verr != nil {
		err = errors.Join(err, verr)
	}
	return cfg, err
}

func read(getenv func(string) string) (Config, error) {
	var errs []error
	str := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	dur := func(key string, def time.Duration) time.Duration {
		v := getenv(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
			return def
		}
		return d
	}
	boolean := func(key string, def bool) bool {
		v := getenv(key)
		if v == "" {
			return def
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
			return def
		}
		return b
	}

	debug := str("GIN_MODE", "debug") == "debug"
	cfg := Config{
		Port:         str("PORT", "8080"),
		Debug:        debug,
		DatabasePath: str("DATABASE_PATH", "portfolio.db"),
		ContentPath:  getenv("CONTENT_PATH"),
		TemplatesDir: str("TEMPLATES_DIR", "templates"),
		Track:        str("BACKGROUND_TRACK", "audio/background.mp3"),
		SessionTTL:   dur("SESSION_TTL", 30*time.Minute),
		SecureCookie: boolean("SECURE_COOKIES", !debug),
		Contact: contact.Config{
			Relay: strings.ToLower(getenv("CONTACT_RELAY")),
			EmailJS: contact.EmailJSConfig{
				ServiceID:  getenv("EMAILJS_SERVICE_ID"),
				TemplateID: getenv("EMAILJS_TEMPLATE_ID"),
				PublicKey:  getenv("EMAILJS_PUBLIC_KEY"),
				PrivateKey: getenv("EMAILJS_PRIVATE_KEY"),
			},
			SMTP: contact.SMTPConfig{
				Host:     getenv("SMTP_HOST"),
				Port:     getenv("SMTP_PORT"),
				User:     getenv("SMTP_USER"),
				Password: getenv("SMTP_PASS"),
				To:       getenv("TO_EMAIL"),
			},
			DemoDelay: dur("DEMO_DELAY", contact.DefaultDemoDelay),
		},
		AdminUsername:     str("ADMIN_USERNAME", defaultAdminUsername),
		AdminPassword:     str("ADMIN_PASSWORD", defaultAdminPassword),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH"),
	}
	cfg.WatchContent = boolean("WATCH_CONTENT", debug && cfg.ContentPath != "")

	level, err := zerolog.ParseLevel(str("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, fmt.Errorf("config: LOG_LEVEL: %w", err))
		level = zerolog.InfoLevel
	}
	cfg.LogLevel = level

	return cfg, errors.Join(errs...)
}

func (c Config) Validate() error {
	var errs []error
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("config: PORT %q is not a valid port", c.Port))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("config: SESSION_TTL must be positive"))
	}
	if c.Contact.DemoDelay < 0 {
		errs = append(errs, errors.New("config: DEMO_DELAY must not be negative"))
	}
	switch c.Contact.Relay {
	case "", contact.RelayEmailJS:
	case contact.RelaySMTP:
		if !c.Contact.SMTP.Configured() {
			errs = append(errs, errors.New("config: CONTACT_RELAY=smtp needs SMTP_USER and SMTP_PASS"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: CONTACT_RELAY %q is not emailjs or smtp", c.Contact.Relay))
	}
	if c.WatchContent && c.ContentPath == "" {
		errs = append(errs, errors.New("config: WATCH_CONTENT needs CONTENT_PATH"))
	}
	if !c.Debug && c.UsingDefaultAdmin() {
		errs = append(errs, errors.New("config: set ADMIN_PASSWORD or ADMIN_PASSWORD_HASH in release mode"))
	}
	return errors.Join(errs...)
}
