package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/app/repositories"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// AddApplicationInput describes a new application. UniversityID selects a
// catalog or custom university; leave it empty (or "custom") and set
// UniversityName for a manual entry.
type AddApplicationInput struct {
	UniversityID   string
	UniversityName string
	Program        string
	Deadline       *models.Date
	Notes          string
}

// UpdateApplicationInput is a full edit of the application's editable fields
type UpdateApplicationInput struct {
	UniversityName string
	Program        string
	Deadline       *models.Date
	Notes          string
	Status         models.ApplicationStatus
}

// LifecycleService owns application status and the per-document checklist
type LifecycleService interface {
	AddApplication(ctx context.Context, studentID string, in AddApplicationInput) (*models.Application, error)
	GetApplication(ctx context.Context, id string) (*models.Application, error)
	ListApplications(ctx context.Context, studentID string) ([]*models.Application, error)
	UpdateApplication(ctx context.Context, id string, in UpdateApplicationInput) (*models.Application, error)
	DeleteApplication(ctx context.Context, id string) error
	SetApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error)
	ToggleDocumentStatus(ctx context.Context, id, documentID string, current models.DocumentStatus) (*models.Application, error)
	InitializeChecklist(ctx context.Context, id string) (*models.Application, error)
}

// lifecycleServiceImpl holds no application state between calls. Each mutation
// loads the committed record from the store, builds the change on a private
// copy and returns it only once the store accepted the write, so a failed write
// leaves nothing behind. Checklist writes are guarded by the record version.
type lifecycleServiceImpl struct {
	appRepo        *repositories.ApplicationRepository
	studentRepo    *repositories.StudentRepository
	universityRepo *repositories.UniversityRepository
	catalog        UniversityCatalog
	logger         zerolog.Logger
	now            Clock
}

// NewLifecycleService creates a new lifecycle service instance
func NewLifecycleService(
	appRepo *repositories.ApplicationRepository,
	studentRepo *repositories.StudentRepository,
	universityRepo *repositories.UniversityRepository,
	catalog UniversityCatalog,
	logger zerolog.Logger,
) LifecycleService {
	return &lifecycleServiceImpl{
		appRepo:        appRepo,
		studentRepo:    studentRepo,
		universityRepo: universityRepo,
		catalog:        catalog,
		logger:         logger,
		now:            systemClock,
	}
}

// snapshot reads the committed state of one application from the store
func (s *lifecycleServiceImpl) snapshot(ctx context.Context, id string) (*models.Application, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("application id is required")
	}
	return s.appRepo.GetByID(ctx, id)
}

// resolveUniversity finds the catalog or custom university for id
func (s *lifecycleServiceImpl) resolveUniversity(ctx context.Context, id string) (*models.University, error) {
	if u, ok := s.catalog.Get(id); ok {
		return &u, nil
	}
	u, err := s.universityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown university %q", id))
		}
		return nil, err
	}
	return u, nil
}

// AddApplication creates a Planning application seeded with the standard documents
func (s *lifecycleServiceImpl) AddApplication(ctx context.Context, studentID string, in AddApplicationInput) (*models.Application, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, apperrors.NewValidationError("student id is required")
	}
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	app := &models.Application{
		ID:        newID(),
		StudentID: studentID,
		Program:   strings.TrimSpace(in.Program),
		Status:    models.ApplicationPlanning,
		Deadline:  in.Deadline,
		Notes:     in.Notes,
		Checklist: models.NewStandardChecklist(),
		CreatedAt: s.now(),
	}

	universityID := strings.TrimSpace(in.UniversityID)
	if universityID == "" || universityID == models.CustomUniversityID {
		name := strings.TrimSpace(in.UniversityName)
		if name == "" {
			return nil, apperrors.NewValidationError("university name is required for a custom university")
		}
		app.UniversityID = models.CustomUniversityID
		app.UniversityName = name
	} else {
		uni, err := s.resolveUniversity(ctx, universityID)
		if err != nil {
			return nil, err
		}
		app.UniversityID = uni.ID
		app.UniversityName = uni.Name
		if app.Deadline == nil {
			if d, ok := models.ParseCatalogDeadline(uni.Deadline); ok {
				app.Deadline = d
			} else if uni.Deadline != "" {
				s.logger.Debug().Str("deadline", uni.Deadline).Msg("Could not parse catalog deadline")
			}
		}
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		s.logger.Error().Err(err).Str("studentId", studentID).Msg("Failed to add application")
		return nil, err
	}

	s.logger.Info().Str("applicationId", app.ID).Str("university", app.UniversityName).Msg("Application added")
	return app, nil
}

// GetApplication reads the application from the store
func (s *lifecycleServiceImpl) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	return s.snapshot(ctx, id)
}

// ListApplications returns the student's applications, newest first
func (s *lifecycleServiceImpl) ListApplications(ctx context.Context, studentID string) ([]*models.Application, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, apperrors.NewValidationError("student id is required")
	}
	return s.appRepo.ListByStudent(ctx, studentID)
}

// UpdateApplication persists a full edit. The checklist is not touched.
func (s *lifecycleServiceImpl) UpdateApplication(ctx context.Context, id string, in UpdateApplicationInput) (*models.Application, error) {
	app, err := s.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.UniversityName)
	if name == "" {
		name = app.UniversityName
	}
	status := in.Status
	if status == "" {
		status = app.Status
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid application status %q", status))
	}

	changes, err := repositories.ToRecord(struct {
		UniversityName string                   `json:"university_name"`
		Program        string                   `json:"program"`
		Deadline       *models.Date             `json:"deadline"`
		Notes          string                   `json:"notes"`
		Status         models.ApplicationStatus `json:"status"`
	}{name, strings.TrimSpace(in.Program), in.Deadline, in.Notes, status})
	if err != nil {
		return nil, err
	}

	if err := s.appRepo.UpdateFields(ctx, id, changes); err != nil {
		s.logger.Error().Err(err).Str("applicationId", id).Msg("Failed to update application")
		return nil, err
	}

	app.UniversityName = name
	app.Program = strings.TrimSpace(in.Program)
	app.Deadline = in.Deadline
	app.Notes = in.Notes
	app.Status = status
	return app, nil
}

// DeleteApplication removes the application
func (s *lifecycleServiceImpl) DeleteApplication(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidationError("application id is required")
	}
	if err := s.appRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("applicationId", id).Msg("Application deleted")
	return nil
}

// SetApplicationStatus persists {status} alone. Any status may follow any other.
func (s *lifecycleServiceImpl) SetApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid application status %q", status))
	}
	app, err := s.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.appRepo.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Error().Err(err).Str("applicationId", id).Str("status", string(status)).Msg("Failed to update application status")
		return nil, err
	}

	app.Status = status
	return app, nil
}

// ToggleDocumentStatus moves one checklist document to the next status in its
// cycle and stamps it with the current time. An empty current status means the
// document's committed status. The whole checklist is written with a version
// check; a concurrent writer makes this call fail with a conflict.
func (s *lifecycleServiceImpl) ToggleDocumentStatus(ctx context.Context, id, documentID string, current models.DocumentStatus) (*models.Application, error) {
	if current != "" && !current.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid document status %q", current))
	}
	app, err := s.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}

	base := app.Checklist
	if len(base) == 0 {
		base = models.NewStandardChecklist()
	}

	if current == "" {
		for _, item := range base {
			if item.ID == documentID {
				current = item.Status
				break
			}
		}
	}
	next := current.Next()

	updated, ok := models.WithDocumentStatus(base, documentID, next, s.now())
	if !ok {
		return nil, apperrors.ErrChecklistItemAbsent
	}

	version, err := s.appRepo.UpdateChecklist(ctx, id, app.Version, updated)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("applicationId", id).
			Str("documentId", documentID).
			Msg("Document status not saved, keeping last committed checklist")
		return nil, err
	}

	app.Checklist = updated
	app.Version = version

	s.logger.Info().Str("applicationId", id).Str("documentId", documentID).Str("status", string(next)).Msg("Document status updated")
	return app, nil
}

// InitializeChecklist seeds the standard documents onto an application that has none
func (s *lifecycleServiceImpl) InitializeChecklist(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(app.Checklist) > 0 {
		return app, nil
	}

	checklist := models.NewStandardChecklist()
	version, err := s.appRepo.UpdateChecklist(ctx, id, app.Version, checklist)
	if err != nil {
		return nil, err
	}

	app.Checklist = checklist
	app.Version = version
	return app, nil
}
