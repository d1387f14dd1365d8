package dto

import "github.com/agentcommand/tracker/internal/app/models"

// CreateApplicationRequest adds an application from the catalog or a custom entry.
// UniversityID "custom" (or empty) requires UniversityName.
type CreateApplicationRequest struct {
	UniversityID   string       `json:"university_id"`
	UniversityName string       `json:"university_name" binding:"max=200"`
	Program        string       `json:"program" binding:"max=200"`
	Deadline       *models.Date `json:"deadline"`
	Notes          string       `json:"notes"`
}

// UpdateApplicationRequest replaces the editable fields of an application
type UpdateApplicationRequest struct {
	UniversityName string                   `json:"university_name" binding:"required,max=200"`
	Program        string                   `json:"program" binding:"max=200"`
	Deadline       *models.Date             `json:"deadline"`
	Notes          string                   `json:"notes"`
	Status         models.ApplicationStatus `json:"status" binding:"omitempty,appstatus"`
}

// SetStatusRequest sets an application's status
type SetStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required,appstatus"`
}

// ToggleDocumentRequest optionally carries the status the caller last saw.
// When empty the stored status is used.
type ToggleDocumentRequest struct {
	Current models.DocumentStatus `json:"current" binding:"omitempty,docstatus"`
}

// ApplicationResponse adds checklist progress to an application
type ApplicationResponse struct {
	*models.Application
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// NewApplicationResponse builds the response for app
func NewApplicationResponse(app *models.Application) ApplicationResponse {
	done, total := app.Progress()
	return ApplicationResponse{Application: app, Completed: done, Total: total}
}

// NewApplicationListResponse builds responses for every application
func NewApplicationListResponse(apps []*models.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, NewApplicationResponse(app))
	}
	return out
}
