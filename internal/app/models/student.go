package models

import (
	"fmt"
	"time"
)

// StudentStatus is the pipeline stage of a student
type StudentStatus string

const (
	StudentStatusDrafting    StudentStatus = "Drafting"
	StudentStatusReviewing   StudentStatus = "Reviewing"
	StudentStatusSubmitted   StudentStatus = "Submitted"
	StudentStatusAccepted    StudentStatus = "Accepted"
	StudentStatusVisaPending StudentStatus = "Visa Pending"
	StudentStatusComplete    StudentStatus = "Complete"
)

// StudentStatuses lists every pipeline stage in display order
var StudentStatuses = []StudentStatus{
	StudentStatusDrafting,
	StudentStatusReviewing,
	StudentStatusSubmitted,
	StudentStatusAccepted,
	StudentStatusVisaPending,
	StudentStatusComplete,
}

// Valid reports whether s is a known pipeline stage
func (s StudentStatus) Valid() bool {
	for _, known := range StudentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DocsStatus is the aggregate document collection state of a student
type DocsStatus string

const (
	DocsMissing   DocsStatus = "Missing"
	DocsPartial   DocsStatus = "Partial"
	DocsCollected DocsStatus = "Collected"
	DocsVerified  DocsStatus = "Verified"
)

// DocsStatuses lists every aggregate document state
var DocsStatuses = []DocsStatus{DocsMissing, DocsPartial, DocsCollected, DocsVerified}

// Valid reports whether d is a known aggregate document state
func (d DocsStatus) Valid() bool {
	for _, known := range DocsStatuses {
		if d == known {
			return true
		}
	}
	return false
}

// StudentChecklistItem is the legacy boolean checklist entry kept on the student record.
// It deliberately differs from DocumentChecklistItem used by applications.
type StudentChecklistItem struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// studentChecklistTemplate is seeded onto every new student
var studentChecklistTemplate = []StudentChecklistItem{
	{ID: "wassce", Label: "WASSCE/SSCE Results"},
	{ID: "transcripts", Label: "High School Transcripts"},
	{ID: "passport", Label: "Passport Data Page"},
	{ID: "personal_statement", Label: "Personal Statement"},
	{ID: "recommendations", Label: "Recommendation Letters"},
	{ID: "english", Label: "English Proficiency (IELTS/TOEFL)"},
	{ID: "cv", Label: "CV/Resume"},
	{ID: "financial", Label: "Financial Documents"},
}

// NewStudentChecklist returns a fresh copy of the student template, all unchecked
func NewStudentChecklist() []StudentChecklistItem {
	checklist := make([]StudentChecklistItem, len(studentChecklistTemplate))
	copy(checklist, studentChecklistTemplate)
	return checklist
}

// Student is the aggregate root: applications and documents are owned by a student id
type Student struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Email          string                 `json:"email"`
	Phone          string                 `json:"phone"`
	TelegramChatID string                 `json:"telegram_chat_id"`
	SATScore       string                 `json:"sat_score"`
	IELTSScore     string                 `json:"ielts_score"`
	GPA            string                 `json:"gpa"`
	Major          string                 `json:"major"`
	Interests      string                 `json:"interests"`
	Background     string                 `json:"background"`
	Universities   string                 `json:"universities"`
	Portal         string                 `json:"portal"`
	PAL            string                 `json:"pal"`
	Deadline       *Date                  `json:"deadline"`
	Status         StudentStatus          `json:"status"`
	Docs           DocsStatus             `json:"docs"`
	Checklist      []StudentChecklistItem `json:"checklist"`
	CreatedAt      time.Time              `json:"created_at"`
}

// ValidateChecklist enforces unique item ids within the student checklist
func (s *Student) ValidateChecklist() error {
	seen := make(map[string]struct{}, len(s.Checklist))
	for _, item := range s.Checklist {
		if item.ID == "" {
			return fmt.Errorf("checklist item id cannot be empty")
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate checklist item id %q", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// ToggleChecklistItem returns a copy of the checklist with the item's checked flag flipped
func (s *Student) ToggleChecklistItem(itemID string) ([]StudentChecklistItem, bool) {
	updated := make([]StudentChecklistItem, len(s.Checklist))
	found := false
	for i, item := range s.Checklist {
		if item.ID == itemID {
			item.Checked = !item.Checked
			found = true
		}
		updated[i] = item
	}
	return updated, found
}
