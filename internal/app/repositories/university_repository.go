package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

// UniversityRepository stores custom universities added by agents.
// Catalog entries are not persisted; see seed.Catalog.
type UniversityRepository struct {
	store RecordStore
}

// NewUniversityRepository creates a new UniversityRepository
func NewUniversityRepository(store RecordStore) *UniversityRepository {
	return &UniversityRepository{store: store}
}

// Create inserts a custom university
func (r *UniversityRepository) Create(ctx context.Context, u *models.University) error {
	rec, err := ToRecord(u)
	if err != nil {
		return err
	}
	if err := r.store.Insert(ctx, CollectionUniversities, rec); err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			return apperrors.NewConflictError("university already exists")
		}
		return fmt.Errorf("error creating university: %w", err)
	}
	return nil
}

// GetByID retrieves a custom university
func (r *UniversityRepository) GetByID(ctx context.Context, id string) (*models.University, error) {
	rec, err := r.store.FindOne(ctx, CollectionUniversities, Filter{"id": id})
	return decodeOne[models.University](rec, err, apperrors.ErrUniversityNotFound)
}

// List returns every custom university in insertion order
func (r *UniversityRepository) List(ctx context.Context) ([]*models.University, error) {
	records, err := r.store.Find(ctx, CollectionUniversities, Query{OrderBy: []string{"created_at ASC"}})
	if err != nil {
		return nil, fmt.Errorf("error listing universities: %w", err)
	}
	return decodeAll[models.University](records)
}
