// Package contact delivers messages submitted through the portfolio's
// contact form.
package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var ErrNotConfigured = errors.New("contact: relay not configured")

// Form is a contact form submission. The binding tags are enforced by gin
// when the form is bound from a request.
type Form struct {
	Name    string `form:"name" json:"name" binding:"required,notblank,max=200"`
	Email   string `form:"email" json:"email" binding:"required,email,max=320"`
	Subject string `form:"subject" json:"subject" binding:"required,notblank,max=300"`
	Message string `form:"message" json:"message" binding:"required,notblank,max=5000"`
}

// RegisterValidators adds the rules Form relies on beyond the built-in set
// to v, which is normally gin's validator engine.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("notblank", validators.NotBlank)
}

func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Subject: strings.TrimSpace(f.Subject),
		Message: strings.TrimSpace(f.Message),
	}
}

// Relay sends one message to the site owner.
type Relay interface {
	Name() string
	Send(ctx context.Context, f Form) error
}

// EmailJSConfig identifies an EmailJS service, template and account.
type EmailJSConfig struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
}

// Placeholder reports whether the tokens were left at their template
// defaults, in which case no real delivery is attempted.
func (c EmailJSConfig) Placeholder() bool {
	for _, v := range []string{c.ServiceID, c.TemplateID, c.PublicKey} {
		if v == "" || strings.Contains(v, "YOUR_") {
			return true
		}
	}
	return false
}

// SMTPConfig holds the mail server settings of the SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	To       string
}

func (c SMTPConfig) Configured() bool { return c.User != "" && c.Password != "" }

// Relay names accepted in Config.Relay.
const (
	RelayEmailJS = "emailjs"
	RelaySMTP    = "smtp"
)

type Config struct {
	// Relay selects the live relay. Empty means EmailJS.
	Relay     string
	EmailJS   EmailJSConfig
	SMTP      SMTPConfig
	DemoDelay time.Duration
}

// NewRelay picks the relay for cfg. SMTP is used only when asked for by
// name and its credentials are set. Otherwise EmailJS is used when its
// tokens are real. Anything else runs the demo relay, which never touches
// the network.
func NewRelay(cfg Config) Relay {
	switch {
	case cfg.Relay == RelaySMTP && cfg.SMTP.Configured():
		return NewSMTP(cfg.SMTP)
	case cfg.Relay != RelaySMTP && !cfg.EmailJS.Placeholder():
		return NewEmailJS(cfg.EmailJS, nil)
	default:
		return NewDemo(cfg.DemoDelay)
	}
}
