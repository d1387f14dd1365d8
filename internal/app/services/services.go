package services

import (
	"time"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/google/uuid"
)

// Services defined in this package:
// - StudentService: student records and the legacy boolean checklist
// - LifecycleService: applications, their status and document checklist
// - DocumentService: uploaded files (blob plus metadata record)
// - UniversityService: the static catalog merged with custom entries
// - NotificationService: per-student recipient resolution and dispatch
// - StatsService: dashboard counters
// - AdvisorService: AI report and brainstorm for one student

// Clock returns the current time; services take one so tests can pin it
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

func newID() string {
	return uuid.New().String()
}

// UniversityCatalog is the read-only university lookup table
type UniversityCatalog interface {
	All() []models.University
	Get(id string) (models.University, bool)
}
