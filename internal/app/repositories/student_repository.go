package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

// StudentRepository handles student records
type StudentRepository struct {
	store RecordStore
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(store RecordStore) *StudentRepository {
	return &StudentRepository{store: store}
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	rec, err := ToRecord(student)
	if err != nil {
		return err
	}
	if err := r.store.Insert(ctx, CollectionStudents, rec); err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			return apperrors.NewConflictError("student already exists")
		}
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// GetByID retrieves a student by id
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	rec, err := r.store.FindOne(ctx, CollectionStudents, Filter{"id": id})
	return decodeOne[models.Student](rec, err, apperrors.ErrStudentNotFound)
}

// List returns every student, newest first
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	records, err := r.store.Find(ctx, CollectionStudents, Query{OrderBy: []string{"created_at DESC"}})
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return decodeAll[models.Student](records)
}

// Update replaces every stored field of the student except id and created_at
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	rec, err := ToRecord(student)
	if err != nil {
		return err
	}
	return r.update(ctx, student.ID, withoutKeys(rec, "id", "created_at"))
}

// UpdateChecklist persists the whole student checklist
func (r *StudentRepository) UpdateChecklist(ctx context.Context, id string, checklist []models.StudentChecklistItem) error {
	rec, err := ToRecord(struct {
		Checklist []models.StudentChecklistItem `json:"checklist"`
	}{checklist})
	if err != nil {
		return err
	}
	return r.update(ctx, id, rec)
}

func (r *StudentRepository) update(ctx context.Context, id string, changes Record) error {
	n, err := r.store.Update(ctx, CollectionStudents, Filter{"id": id}, changes)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}
	if n == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes the student record only; owned applications and documents are not cascaded
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	n, err := r.store.Delete(ctx, CollectionStudents, Filter{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if n == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
