package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

const whatsAppPrefix = "whatsapp:"

// TwilioConfig configures the Twilio messages API used for SMS and WhatsApp
type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
	BaseURL     string
}

// TwilioProvider sends SMS and WhatsApp messages
type TwilioProvider struct {
	config TwilioConfig
	client *http.Client
}

// NewTwilioProvider creates a Twilio provider
func NewTwilioProvider(config TwilioConfig, client *http.Client) *TwilioProvider {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.twilio.com"
	}
	return &TwilioProvider{config: config, client: client}
}

// WhatsAppAddress adds the whatsapp: scheme unless already present
func WhatsAppAddress(number string) string {
	if strings.HasPrefix(number, whatsAppPrefix) {
		return number
	}
	return whatsAppPrefix + number
}

// Send posts one message. For WhatsApp both addresses carry the whatsapp: scheme.
func (p *TwilioProvider) Send(ctx context.Context, channel Channel, recipient, message string) (json.RawMessage, error) {
	if p.config.AccountSID == "" || p.config.AuthToken == "" || p.config.PhoneNumber == "" {
		return nil, apperrors.NewConfigurationError("Missing Twilio credentials")
	}

	to, from := recipient, p.config.PhoneNumber
	if channel == ChannelWhatsApp {
		to, from = WhatsAppAddress(to), WhatsAppAddress(from)
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(p.config.BaseURL, "/"), url.PathEscape(p.config.AccountSID))
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.config.AccountSID, p.config.AuthToken)

	return do(ctx, p.client, "Twilio", req)
}
