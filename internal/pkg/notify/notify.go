// Package notify sends one-off messages to students over email, SMS,
// WhatsApp and Telegram. Failures never escape as Go errors from the
// Dispatcher; they are reported in Result so callers can show them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

// Channel names a delivery channel
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelTelegram Channel = "telegram"
	ChannelSMS      Channel = "sms"
)

// Channels lists the supported channels in display order
var Channels = []Channel{ChannelEmail, ChannelWhatsApp, ChannelTelegram, ChannelSMS}

// ParseChannel validates a channel name
func ParseChannel(name string) (Channel, error) {
	for _, c := range Channels {
		if string(c) == name {
			return c, nil
		}
	}
	return "", apperrors.NewCustomError(apperrors.ErrUnsupportedChannel, fmt.Sprintf("Unsupported channel: %s", name))
}

// Result is the uniform outcome of a dispatch
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Provider delivers a message on the channels it serves and returns the
// provider's response payload
type Provider interface {
	Send(ctx context.Context, channel Channel, recipient, message string) (json.RawMessage, error)
}

// ProviderError carries a non-2xx response body from a provider
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s Error: %s", e.Provider, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return apperrors.ErrTransport
}

// emailSubject and emailHTML shape every outgoing email
const emailSubject = "Notification from AgentCommand"

func emailHTML(message string) string {
	var b strings.Builder
	b.WriteString("<p>")
	b.WriteString(escapeHTML(message))
	b.WriteString("</p>")
	return b.String()
}
