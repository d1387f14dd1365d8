package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

// TelegramConfig configures the Telegram bot API
type TelegramConfig struct {
	BotToken string
	BaseURL  string
}

// TelegramProvider sends bot messages to a chat id
type TelegramProvider struct {
	config TelegramConfig
	client *http.Client
}

// NewTelegramProvider creates a Telegram provider
func NewTelegramProvider(config TelegramConfig, client *http.Client) *TelegramProvider {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.telegram.org"
	}
	return &TelegramProvider{config: config, client: client}
}

type telegramRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Send posts one message to the chat
func (p *TelegramProvider) Send(ctx context.Context, _ Channel, chatID, message string) (json.RawMessage, error) {
	if p.config.BotToken == "" {
		return nil, apperrors.NewConfigurationError("Missing TELEGRAM_BOT_TOKEN")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(p.config.BaseURL, "/"), p.config.BotToken)
	req, err := newJSONRequest(endpoint, telegramRequest{ChatID: chatID, Text: message})
	if err != nil {
		return nil, err
	}

	return do(ctx, p.client, "Telegram", req)
}
