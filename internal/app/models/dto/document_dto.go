package dto

import "time"

// DocumentURLResponse is a time-limited download link
type DocumentURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
