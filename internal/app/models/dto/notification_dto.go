package dto

import "encoding/json"

// SendNotificationRequest sends one message to an explicit recipient
type SendNotificationRequest struct {
	Channel   string `json:"channel" binding:"required"`
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
}

// NotifyStudentRequest sends to the student's own address for the channel
type NotifyStudentRequest struct {
	Channel string `json:"channel" binding:"required"`
	Message string `json:"message"`
}

// NotificationResponse is the body of a successful dispatch
type NotificationResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}
