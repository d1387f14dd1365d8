package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

// DefaultFromEmail is Resend's shared sandbox sender
const DefaultFromEmail = "onboarding@resend.dev"

// ResendConfig configures the Resend email API
type ResendConfig struct {
	APIKey    string
	FromEmail string
	BaseURL   string
}

// ResendProvider sends email through the Resend HTTP API
type ResendProvider struct {
	config ResendConfig
	client *http.Client
}

// NewResendProvider creates a Resend email provider
func NewResendProvider(config ResendConfig, client *http.Client) *ResendProvider {
	if config.FromEmail == "" {
		config.FromEmail = DefaultFromEmail
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.resend.com"
	}
	return &ResendProvider{config: config, client: client}
}

type resendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send posts one email
func (p *ResendProvider) Send(ctx context.Context, _ Channel, recipient, message string) (json.RawMessage, error) {
	if p.config.APIKey == "" {
		return nil, apperrors.NewConfigurationError("Missing RESEND_API_KEY")
	}

	req, err := newJSONRequest(strings.TrimRight(p.config.BaseURL, "/")+"/emails", resendRequest{
		From:    p.config.FromEmail,
		To:      recipient,
		Subject: emailSubject,
		HTML:    emailHTML(message),
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	return do(ctx, p.client, "Resend", req)
}
