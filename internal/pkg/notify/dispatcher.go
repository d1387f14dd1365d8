package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// Config selects and configures every provider
type Config struct {
	EmailProvider string // "resend" or "smtp"
	Resend        ResendConfig
	SMTP          SMTPConfig
	Twilio        TwilioConfig
	Telegram      TelegramConfig
	Timeout       time.Duration
}

// Dispatcher routes a message to the provider serving its channel
type Dispatcher struct {
	providers map[Channel]Provider
	logger    zerolog.Logger
}

// NewDispatcher wires the configured providers. Missing credentials are not
// an error here; each provider reports them when used.
func NewDispatcher(cfg Config, logger zerolog.Logger) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	var email Provider
	if cfg.EmailProvider == "smtp" {
		email = NewSMTPProvider(cfg.SMTP, logger)
	} else {
		email = NewResendProvider(cfg.Resend, client)
	}
	twilio := NewTwilioProvider(cfg.Twilio, client)

	return NewDispatcherWithProviders(map[Channel]Provider{
		ChannelEmail:    email,
		ChannelSMS:      twilio,
		ChannelWhatsApp: twilio,
		ChannelTelegram: NewTelegramProvider(cfg.Telegram, client),
	}, logger)
}

// NewDispatcherWithProviders builds a dispatcher over explicit providers
func NewDispatcherWithProviders(providers map[Channel]Provider, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{providers: providers, logger: logger}
}

// Send delivers message to recipient on channel. It never returns an error:
// validation, configuration and provider failures all come back as
// Result{Success: false} with a readable message.
func (d *Dispatcher) Send(ctx context.Context, channel Channel, recipient, message string) Result {
	log := d.logger.With().Str("channel", string(channel)).Logger()

	if channel == "" || recipient == "" || message == "" {
		return Result{Message: "Missing required fields: channel, recipient, message"}
	}

	ch, err := ParseChannel(string(channel))
	if err != nil {
		log.Warn().Msg("Unsupported notification channel")
		return Result{Message: err.Error()}
	}
	provider, ok := d.providers[ch]
	if !ok {
		return Result{Message: fmt.Sprintf("Unsupported channel: %s", ch)}
	}

	data, err := provider.Send(ctx, ch, recipient, message)
	if err != nil {
		event := log.Error()
		if errors.Is(err, apperrors.ErrConfiguration) {
			event = log.Warn()
		}
		event.Err(err).Msg("Notification failed")
		return Result{Message: err.Error()}
	}

	log.Info().Msg("Notification sent")
	return Result{Success: true, Message: fmt.Sprintf("Sent to %s", ch), Data: data}
}
