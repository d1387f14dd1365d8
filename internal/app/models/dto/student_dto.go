package dto

import "github.com/agentcommand/tracker/internal/app/models"

// StudentRequest is the create and update body for a student
type StudentRequest struct {
	Name           string                        `json:"name" binding:"required,max=200"`
	Email          string                        `json:"email" binding:"omitempty,email"`
	Phone          string                        `json:"phone" binding:"omitempty,phone"`
	TelegramChatID string                        `json:"telegram_chat_id"`
	SATScore       string                        `json:"sat_score"`
	IELTSScore     string                        `json:"ielts_score"`
	GPA            string                        `json:"gpa"`
	Major          string                        `json:"major"`
	Interests      string                        `json:"interests"`
	Background     string                        `json:"background"`
	Universities   string                        `json:"universities"`
	Portal         string                        `json:"portal"`
	PAL            string                        `json:"pal"`
	Deadline       *models.Date                  `json:"deadline"`
	Status         models.StudentStatus          `json:"status" binding:"omitempty,studentstatus"`
	Docs           models.DocsStatus             `json:"docs" binding:"omitempty,docsstatus"`
	Checklist      []models.StudentChecklistItem `json:"checklist"`
}

// ToModel copies the request into a student with the given id
func (r *StudentRequest) ToModel(id string) *models.Student {
	return &models.Student{
		ID:             id,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		TelegramChatID: r.TelegramChatID,
		SATScore:       r.SATScore,
		IELTSScore:     r.IELTSScore,
		GPA:            r.GPA,
		Major:          r.Major,
		Interests:      r.Interests,
		Background:     r.Background,
		Universities:   r.Universities,
		Portal:         r.Portal,
		PAL:            r.PAL,
		Deadline:       r.Deadline,
		Status:         r.Status,
		Docs:           r.Docs,
		Checklist:      r.Checklist,
	}
}
