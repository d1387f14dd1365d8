package models

import (
	"time"
)

// CustomUniversityID marks applications to universities outside the catalog
const CustomUniversityID = "custom"

// ApplicationStatus is a flat tag: any status may follow any other.
type ApplicationStatus string

const (
	ApplicationPlanning    ApplicationStatus = "Planning"
	ApplicationApplying    ApplicationStatus = "Applying"
	ApplicationApplied     ApplicationStatus = "Applied"
	ApplicationAccepted    ApplicationStatus = "Accepted"
	ApplicationWaitlisted  ApplicationStatus = "Waitlisted"
	ApplicationRejected    ApplicationStatus = "Rejected"
	ApplicationEnrolled    ApplicationStatus = "Enrolled"
	ApplicationVisaPending ApplicationStatus = "Visa Pending"
)

// ApplicationStatuses lists every application status
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPlanning,
	ApplicationApplying,
	ApplicationApplied,
	ApplicationAccepted,
	ApplicationWaitlisted,
	ApplicationRejected,
	ApplicationEnrolled,
	ApplicationVisaPending,
}

// Valid reports whether s is one of the known statuses
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// DocumentStatus is the state of one checklist document on an application
type DocumentStatus string

const (
	DocumentPending   DocumentStatus = "Pending"
	DocumentSubmitted DocumentStatus = "Submitted"
	DocumentReceived  DocumentStatus = "Received"
)

// Valid reports whether s is a known document status
func (s DocumentStatus) Valid() bool {
	return s == DocumentPending || s == DocumentSubmitted || s == DocumentReceived
}

// Next returns the following state in the Pending -> Submitted -> Received -> Pending cycle.
// Anything unrecognised is treated as Received, so it wraps back to Pending.
func (s DocumentStatus) Next() DocumentStatus {
	switch s {
	case DocumentPending, "":
		return DocumentSubmitted
	case DocumentSubmitted:
		return DocumentReceived
	default:
		return DocumentPending
	}
}

// DocumentChecklistItem is one entry of an application's document checklist
type DocumentChecklistItem struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Required bool           `json:"required"`
	Note     *string        `json:"note,omitempty"`
	Status   DocumentStatus `json:"status"`
	Date     *time.Time     `json:"date"`
}

func strPtr(s string) *string { return &s }

// standardDocuments is the template seeded onto every new application
var standardDocuments = []DocumentChecklistItem{
	{ID: "passport", Label: "Passport Data Page", Required: true},
	{ID: "transcript", Label: "High School Transcript", Required: true},
	{ID: "wassce", Label: "WASSCE/SSCE/NECO Result", Required: true},
	{ID: "cv", Label: "CV / Resume", Required: true},
	{ID: "sop", Label: "Statement of Purpose / Personal Statement", Required: true},
	{ID: "recommendations", Label: "Recommendation Letters (2)", Required: true},
	{ID: "english", Label: "English Proficiency (IELTS/TOEFL)", Required: false, Note: strPtr("Check university waiver policy")},
	{ID: "financial", Label: "Bank Statement / Financial Support", Required: false, Note: strPtr("For visa mainly, sometimes admission")},
}

// NewStandardChecklist returns the standard-documents template with every item Pending and no date
func NewStandardChecklist() []DocumentChecklistItem {
	checklist := make([]DocumentChecklistItem, len(standardDocuments))
	for i, doc := range standardDocuments {
		doc.Status = DocumentPending
		doc.Date = nil
		if doc.Note != nil {
			doc.Note = strPtr(*doc.Note)
		}
		checklist[i] = doc
	}
	return checklist
}

// Application is a student's tracked submission to one university
type Application struct {
	ID             string                  `json:"id"`
	StudentID      string                  `json:"student_id"`
	UniversityID   string                  `json:"university_id"`
	UniversityName string                  `json:"university_name"`
	Program        string                  `json:"program"`
	Status         ApplicationStatus       `json:"status"`
	Deadline       *Date                   `json:"deadline"`
	Notes          string                  `json:"notes"`
	Checklist      []DocumentChecklistItem `json:"checklist"`
	Version        int64                   `json:"version"`
	CreatedAt      time.Time               `json:"created_at"`
}

// Clone returns a deep copy so committed snapshots never share checklist memory
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	c := *a
	if a.Deadline != nil {
		d := *a.Deadline
		c.Deadline = &d
	}
	if a.Checklist != nil {
		c.Checklist = make([]DocumentChecklistItem, len(a.Checklist))
		for i, item := range a.Checklist {
			if item.Note != nil {
				item.Note = strPtr(*item.Note)
			}
			if item.Date != nil {
				t := *item.Date
				item.Date = &t
			}
			c.Checklist[i] = item
		}
	}
	return &c
}

// Progress counts documents that are Submitted or Received
func (a *Application) Progress() (done, total int) {
	for _, item := range a.Checklist {
		if item.Status == DocumentSubmitted || item.Status == DocumentReceived {
			done++
		}
	}
	return done, len(a.Checklist)
}

// WithDocumentStatus returns a new checklist where the matching item carries
// status and date set to now. The receiver is not modified.
func WithDocumentStatus(checklist []DocumentChecklistItem, documentID string, status DocumentStatus, now time.Time) ([]DocumentChecklistItem, bool) {
	updated := make([]DocumentChecklistItem, len(checklist))
	found := false
	for i, item := range checklist {
		if item.ID == documentID {
			item.Status = status
			stamp := now
			item.Date = &stamp
			found = true
		}
		updated[i] = item
	}
	return updated, found
}
