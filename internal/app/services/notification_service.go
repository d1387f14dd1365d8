package services

import (
	"context"
	"strings"

	"github.com/agentcommand/tracker/internal/app/repositories"
	"github.com/agentcommand/tracker/internal/pkg/notify"
	"github.com/rs/zerolog"
)

// Sender delivers one message; *notify.Dispatcher implements it
type Sender interface {
	Send(ctx context.Context, channel notify.Channel, recipient, message string) notify.Result
}

// NotificationService sends notifications directly or to a stored student
type NotificationService interface {
	Send(ctx context.Context, channel notify.Channel, recipient, message string) notify.Result
	NotifyStudent(ctx context.Context, studentID string, channel notify.Channel, message string) (notify.Result, error)
}

type notificationServiceImpl struct {
	studentRepo *repositories.StudentRepository
	sender      Sender
	logger      zerolog.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(studentRepo *repositories.StudentRepository, sender Sender, logger zerolog.Logger) NotificationService {
	return &notificationServiceImpl{
		studentRepo: studentRepo,
		sender:      sender,
		logger:      logger,
	}
}

// Send dispatches to an explicit recipient
func (s *notificationServiceImpl) Send(ctx context.Context, channel notify.Channel, recipient, message string) notify.Result {
	return s.sender.Send(ctx, channel, strings.TrimSpace(recipient), message)
}

// NotifyStudent resolves the student's address for channel and dispatches.
// A student without an address for the channel fails here and the provider is never called.
func (s *notificationServiceImpl) NotifyStudent(ctx context.Context, studentID string, channel notify.Channel, message string) (notify.Result, error) {
	ch, err := notify.ParseChannel(string(channel))
	if err != nil {
		return notify.Result{}, err
	}
	if strings.TrimSpace(message) == "" {
		message = notify.DefaultMessage
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return notify.Result{}, err
	}

	recipient, err := notify.ResolveRecipient(student, ch)
	if err != nil {
		s.logger.Warn().Err(err).Str("studentId", studentID).Str("channel", string(ch)).Msg("No recipient for channel")
		return notify.Result{}, err
	}

	result := s.sender.Send(ctx, ch, recipient, message)
	s.logger.Info().
		Str("studentId", studentID).
		Str("channel", string(ch)).
		Bool("success", result.Success).
		Str("result", result.Message).
		Msg("Student notification dispatched")
	return result, nil
}
