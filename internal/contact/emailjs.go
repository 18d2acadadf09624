package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const emailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJS delivers through the EmailJS REST API.
type EmailJS struct {
	cfg      EmailJSConfig
	client   *http.Client
	endpoint string
}

func NewEmailJS(cfg EmailJSConfig, client *http.Client) *EmailJS {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &EmailJS{cfg: cfg, client: client, endpoint: emailJSEndpoint}
}

func (e *EmailJS) Name() string { return "emailjs" }

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

func (e *EmailJS) Send(ctx context.Context, f Form) error {
	body, err := json.Marshal(emailJSRequest{
		ServiceID:   e.cfg.ServiceID,
		TemplateID:  e.cfg.TemplateID,
		UserID:      e.cfg.PublicKey,
		AccessToken: e.cfg.PrivateKey,
		TemplateParams: map[string]string{
			"name":    f.Name,
			"email":   f.Email,
			"subject": f.Subject,
			"message": f.Message,
		},
	})
	if err != nil {
		return fmt.Errorf("emailjs: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("emailjs: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
