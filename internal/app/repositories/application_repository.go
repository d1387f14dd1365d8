package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

// ApplicationRepository handles application records
type ApplicationRepository struct {
	store RecordStore
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(store RecordStore) *ApplicationRepository {
	return &ApplicationRepository{store: store}
}

// Create inserts a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	rec, err := ToRecord(app)
	if err != nil {
		return err
	}
	if err := r.store.Insert(ctx, CollectionApplications, rec); err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			return apperrors.NewConflictError("application already exists")
		}
		return fmt.Errorf("error creating application: %w", err)
	}
	return nil
}

// GetByID retrieves an application by id
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	rec, err := r.store.FindOne(ctx, CollectionApplications, Filter{"id": id})
	return decodeOne[models.Application](rec, err, apperrors.ErrApplicationNotFound)
}

// ListByStudent returns the student's applications, newest first
func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Application, error) {
	records, err := r.store.Find(ctx, CollectionApplications, Query{
		Filter:  Filter{"student_id": studentID},
		OrderBy: []string{"created_at DESC"},
	})
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	return decodeAll[models.Application](records)
}

// UpdateFields merges the given fields into the application
func (r *ApplicationRepository) UpdateFields(ctx context.Context, id string, changes Record) error {
	n, err := r.store.Update(ctx, CollectionApplications, Filter{"id": id}, changes)
	if err != nil {
		return fmt.Errorf("error updating application: %w", err)
	}
	if n == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

// UpdateStatus persists only the status field
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	return r.UpdateFields(ctx, id, Record{"status": string(status)})
}

// UpdateChecklist writes the whole checklist if the stored version still equals
// expectedVersion, and returns the new version. A lost race yields ErrConflict.
func (r *ApplicationRepository) UpdateChecklist(ctx context.Context, id string, expectedVersion int64, checklist []models.DocumentChecklistItem) (int64, error) {
	rec, err := ToRecord(struct {
		Checklist []models.DocumentChecklistItem `json:"checklist"`
		Version   int64                          `json:"version"`
	}{checklist, expectedVersion + 1})
	if err != nil {
		return 0, err
	}

	n, err := r.store.Update(ctx, CollectionApplications, Filter{"id": id, "version": expectedVersion}, rec)
	if err != nil {
		return 0, fmt.Errorf("error updating application checklist: %w", err)
	}
	if n > 0 {
		return expectedVersion + 1, nil
	}

	current, err := r.store.FindOne(ctx, CollectionApplications, Filter{"id": id})
	if errors.Is(err, ErrRecordNotFound) {
		return 0, apperrors.ErrApplicationNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("error fetching application: %w", err)
	}

	// rows written before versioning have no version field at all
	if _, versioned := current["version"]; !versioned && expectedVersion == 0 {
		if _, err := r.store.Update(ctx, CollectionApplications, Filter{"id": id}, rec); err != nil {
			return 0, fmt.Errorf("error updating application checklist: %w", err)
		}
		return 1, nil
	}
	return 0, apperrors.NewConflictError("application checklist was modified concurrently")
}

// Delete removes an application
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	n, err := r.store.Delete(ctx, CollectionApplications, Filter{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting application: %w", err)
	}
	if n == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}
