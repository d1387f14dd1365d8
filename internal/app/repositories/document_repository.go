package repositories

import (
	"context"
	"fmt"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
)

// DocumentRepository handles uploaded-document metadata
type DocumentRepository struct {
	store RecordStore
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(store RecordStore) *DocumentRepository {
	return &DocumentRepository{store: store}
}

// Create inserts document metadata
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	rec, err := ToRecord(doc)
	if err != nil {
		return err
	}
	if err := r.store.Insert(ctx, CollectionDocuments, rec); err != nil {
		return fmt.Errorf("error creating document: %w", err)
	}
	return nil
}

// GetByID retrieves document metadata by id
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	rec, err := r.store.FindOne(ctx, CollectionDocuments, Filter{"id": id})
	return decodeOne[models.Document](rec, err, apperrors.ErrDocumentNotFound)
}

// ListByStudent returns the student's documents, newest first
func (r *DocumentRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Document, error) {
	records, err := r.store.Find(ctx, CollectionDocuments, Query{
		Filter:  Filter{"student_id": studentID},
		OrderBy: []string{"created_at DESC"},
	})
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return decodeAll[models.Document](records)
}

// Delete removes document metadata
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	n, err := r.store.Delete(ctx, CollectionDocuments, Filter{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	if n == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}
