package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/app/repositories"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/agentcommand/tracker/internal/pkg/filestorage"
	"github.com/rs/zerolog"
)

// DefaultMaxUploadBytes caps a single document upload
const DefaultMaxUploadBytes = 10 << 20

// UploadInput is one file upload for a student
type UploadInput struct {
	StudentID   string
	Filename    string
	ContentType string
	Content     io.Reader
}

// SignedURL is a time-limited download link for a document
type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DocumentService defines the interface for uploaded-document operations
type DocumentService interface {
	UploadDocument(ctx context.Context, in UploadInput) (*models.Document, error)
	ListDocuments(ctx context.Context, studentID string) ([]*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	DocumentURL(ctx context.Context, id string) (*SignedURL, error)
	OpenFile(ctx context.Context, key, token string) (io.ReadCloser, error)
}

// documentServiceImpl writes blob and metadata as one logical operation:
// a failed metadata insert removes the blob again, and the metadata record is
// only deleted once its blob is gone.
type documentServiceImpl struct {
	docRepo     *repositories.DocumentRepository
	studentRepo *repositories.StudentRepository
	blobs       filestorage.BlobStore
	signer      *filestorage.URLSigner
	maxBytes    int64
	logger      zerolog.Logger
	now         Clock
}

// NewDocumentService creates a new document service instance
func NewDocumentService(
	docRepo *repositories.DocumentRepository,
	studentRepo *repositories.StudentRepository,
	blobs filestorage.BlobStore,
	signer *filestorage.URLSigner,
	maxBytes int64,
	logger zerolog.Logger,
) DocumentService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &documentServiceImpl{
		docRepo:     docRepo,
		studentRepo: studentRepo,
		blobs:       blobs,
		signer:      signer,
		maxBytes:    maxBytes,
		logger:      logger,
		now:         systemClock,
	}
}

// detectContentType trusts a specific declared type, then the extension, then sniffs the content
func detectContentType(filename, declared string, content *bufio.Reader) string {
	if declared != "" && declared != "application/octet-stream" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			return mediaType
		}
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	head, _ := content.Peek(512)
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(head))
	return mediaType
}

// UploadDocument stores the bytes, then the metadata record
func (s *documentServiceImpl) UploadDocument(ctx context.Context, in UploadInput) (*models.Document, error) {
	name := filepath.Base(strings.TrimSpace(in.Filename))
	if name == "." || name == "/" || name == "" {
		return nil, apperrors.NewValidationError("file name is required")
	}
	if in.Content == nil {
		return nil, apperrors.NewValidationError("file content is required")
	}
	if _, err := s.studentRepo.GetByID(ctx, in.StudentID); err != nil {
		return nil, err
	}

	content := bufio.NewReader(in.Content)
	contentType := detectContentType(name, in.ContentType, content)
	key := filestorage.ObjectKey(in.StudentID, name)

	size, err := s.blobs.Put(ctx, key, io.LimitReader(content, s.maxBytes+1))
	if err != nil {
		s.logger.Error().Err(err).Str("studentId", in.StudentID).Msg("Failed to store uploaded file")
		return nil, fmt.Errorf("error storing file: %w", err)
	}
	if size > s.maxBytes {
		s.removeOrphan(key)
		return nil, apperrors.NewValidationError(fmt.Sprintf("file exceeds the %d byte upload limit", s.maxBytes))
	}

	doc := &models.Document{
		ID:          newID(),
		StudentID:   in.StudentID,
		Name:        name,
		StoragePath: key,
		MimeType:    contentType,
		Size:        size,
		CreatedAt:   s.now(),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to save document metadata, removing stored file")
		s.removeOrphan(key)
		return nil, err
	}

	s.logger.Info().Str("documentId", doc.ID).Str("studentId", doc.StudentID).Int64("size", size).Msg("Document uploaded")
	return doc, nil
}

// removeOrphan deletes a blob whose metadata was never written. It runs on a
// fresh context so a cancelled request still cleans up.
func (s *documentServiceImpl) removeOrphan(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to remove orphaned file")
	}
}

// ListDocuments returns the student's documents, newest first
func (s *documentServiceImpl) ListDocuments(ctx context.Context, studentID string) ([]*models.Document, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, apperrors.NewValidationError("student id is required")
	}
	return s.docRepo.ListByStudent(ctx, studentID)
}

// DeleteDocument removes the blob first; if that fails the record is kept so the delete can be retried
func (s *documentServiceImpl) DeleteDocument(ctx context.Context, id string) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, doc.StoragePath); err != nil && !errors.Is(err, filestorage.ErrObjectNotFound) {
		s.logger.Error().Err(err).Str("documentId", id).Msg("Failed to delete stored file, keeping metadata")
		return fmt.Errorf("error deleting file: %w", err)
	}

	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("documentId", id).Msg("Document deleted")
	return nil
}

// DocumentURL issues a signed, expiring download link
func (s *documentServiceImpl) DocumentURL(ctx context.Context, id string) (*SignedURL, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	link, expires, err := s.signer.SignedURL(doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("error signing document url: %w", err)
	}
	return &SignedURL{URL: link, ExpiresAt: expires}, nil
}

// OpenFile serves a blob for a signed link
func (s *documentServiceImpl) OpenFile(ctx context.Context, key, token string) (io.ReadCloser, error) {
	if token == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	if err := s.signer.Verify(key, token); err != nil {
		return nil, err
	}
	rc, err := s.blobs.Open(ctx, key)
	if err != nil {
		if errors.Is(err, filestorage.ErrObjectNotFound) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, err
	}
	return rc, nil
}
