package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
}

// SMTPProvider sends email through a plain SMTP relay. Port 465 uses implicit TLS.
type SMTPProvider struct {
	config SMTPConfig
	logger zerolog.Logger
	// sendMail is swapped in tests
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPProvider creates an SMTP email provider
func NewSMTPProvider(config SMTPConfig, logger zerolog.Logger) *SMTPProvider {
	if config.FromEmail == "" {
		config.FromEmail = DefaultFromEmail
	}
	p := &SMTPProvider{config: config, logger: logger}
	if config.Port == 465 {
		p.sendMail = p.sendMailTLS
	} else {
		p.sendMail = smtp.SendMail
	}
	return p
}

// buildMessage renders headers in a stable order followed by the HTML body
func buildMessage(from, to, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         from,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// Send delivers one email
func (p *SMTPProvider) Send(ctx context.Context, _ Channel, recipient, message string) (json.RawMessage, error) {
	if p.config.Host == "" {
		return nil, apperrors.NewConfigurationError("Missing SMTP_HOST")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.ContainsAny(recipient, "\r\n") {
		return nil, apperrors.NewValidationError("invalid email recipient")
	}

	var auth smtp.Auth
	if p.config.Username != "" {
		auth = smtp.PlainAuth("", p.config.Username, p.config.Password, p.config.Host)
	}

	addr := net.JoinHostPort(p.config.Host, strconv.Itoa(p.config.Port))
	msg := buildMessage(p.config.FromEmail, recipient, emailSubject, emailHTML(message))
	if err := p.sendMail(addr, auth, p.config.FromEmail, []string{recipient}, msg); err != nil {
		p.logger.Error().Err(err).Str("server", addr).Msg("Failed to send email")
		return nil, fmt.Errorf("%w: failed to send email: %v", apperrors.ErrTransport, err)
	}

	return json.Marshal(map[string]string{"to": recipient})
}

func (p *SMTPProvider) sendMailTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: p.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, p.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	return w.Close()
}
