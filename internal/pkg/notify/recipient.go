package notify

import (
	"fmt"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

// DefaultMessage is sent when the agent leaves the message blank
const DefaultMessage = "Update on your application"

// ResolveRecipient picks the student's address for channel. It fails before any
// provider call when the student has no address for that channel.
func ResolveRecipient(student *models.Student, channel Channel) (string, error) {
	switch channel {
	case ChannelEmail:
		if student.Email == "" {
			return "", apperrors.NewCustomError(apperrors.ErrRecipientRequired, "Email address required for email")
		}
		return student.Email, nil
	case ChannelSMS, ChannelWhatsApp:
		if student.Phone == "" {
			return "", apperrors.NewCustomError(apperrors.ErrRecipientRequired, fmt.Sprintf("Phone number required for %s", channel))
		}
		return student.Phone, nil
	case ChannelTelegram:
		if student.TelegramChatID == "" {
			return "", apperrors.NewCustomError(apperrors.ErrRecipientRequired, "Telegram Chat ID required")
		}
		return student.TelegramChatID, nil
	}
	return "", apperrors.NewCustomError(apperrors.ErrUnsupportedChannel, fmt.Sprintf("Unsupported channel: %s", channel))
}
