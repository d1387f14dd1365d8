package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/app/repositories"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// StudentService defines the interface for student operations
type StudentService interface {
	CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
	ToggleChecklistItem(ctx context.Context, studentID, itemID string) (*models.Student, error)
}

type studentServiceImpl struct {
	studentRepo *repositories.StudentRepository
	logger      zerolog.Logger
	now         Clock
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo *repositories.StudentRepository, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		logger:      logger,
		now:         systemClock,
	}
}

// validateStudent fills defaults and checks enum and checklist values
func validateStudent(student *models.Student) error {
	if student == nil {
		return fmt.Errorf("%w: student is nil", apperrors.ErrValidationFailed)
	}
	student.Name = strings.TrimSpace(student.Name)
	if student.Name == "" {
		return apperrors.NewValidationError("name cannot be empty")
	}

	if student.Status == "" {
		student.Status = models.StudentStatusDrafting
	}
	if !student.Status.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid student status %q", student.Status))
	}

	if student.Docs == "" {
		student.Docs = models.DocsMissing
	}
	if !student.Docs.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("invalid docs status %q", student.Docs))
	}

	if err := student.ValidateChecklist(); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	return nil
}

// CreateStudent stores a new student. Without a caller-supplied checklist the
// fixed template is seeded, every item unchecked.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if student != nil && student.Checklist == nil {
		student.Checklist = models.NewStudentChecklist()
	}
	if err := validateStudent(student); err != nil {
		return nil, err
	}

	student.ID = newID()
	student.CreatedAt = s.now()

	if err := s.studentRepo.Create(ctx, student); err != nil {
		s.logger.Error().Err(err).Str("name", student.Name).Msg("Failed to create student")
		return nil, err
	}

	s.logger.Info().Str("studentId", student.ID).Msg("Student created")
	return student, nil
}

// GetStudent retrieves a student by id
func (s *studentServiceImpl) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("student id is required")
	}
	return s.studentRepo.GetByID(ctx, id)
}

// ListStudents returns every student, newest first
func (s *studentServiceImpl) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.studentRepo.List(ctx)
}

// UpdateStudent replaces the editable fields. A nil checklist keeps the stored one.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if student == nil {
		return nil, fmt.Errorf("%w: student is nil", apperrors.ErrValidationFailed)
	}
	existing, err := s.GetStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	if student.Checklist == nil {
		student.Checklist = existing.Checklist
	}
	if student.Status == "" {
		student.Status = existing.Status
	}
	if student.Docs == "" {
		student.Docs = existing.Docs
	}
	if err := validateStudent(student); err != nil {
		return nil, err
	}
	student.CreatedAt = existing.CreatedAt

	if err := s.studentRepo.Update(ctx, student); err != nil {
		s.logger.Error().Err(err).Str("studentId", student.ID).Msg("Failed to update student")
		return nil, err
	}
	return student, nil
}

// DeleteStudent removes the student record. Applications and documents are left in place.
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidationError("student id is required")
	}
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("studentId", id).Msg("Student deleted")
	return nil
}

// ToggleChecklistItem flips one item's checked flag and persists the whole checklist
func (s *studentServiceImpl) ToggleChecklistItem(ctx context.Context, studentID, itemID string) (*models.Student, error) {
	student, err := s.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	updated, ok := student.ToggleChecklistItem(itemID)
	if !ok {
		return nil, apperrors.ErrChecklistItemAbsent
	}

	if err := s.studentRepo.UpdateChecklist(ctx, student.ID, updated); err != nil {
		s.logger.Error().Err(err).Str("studentId", studentID).Str("itemId", itemID).Msg("Failed to update checklist")
		return nil, err
	}
	student.Checklist = updated
	return student, nil
}
