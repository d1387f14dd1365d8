package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/app/repositories"
	"github.com/agentcommand/tracker/internal/pkg/agent"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// UniversityService merges the static catalog with agent-added universities
type UniversityService interface {
	ListUniversities(ctx context.Context) ([]models.University, error)
	GetUniversity(ctx context.Context, id string) (*models.University, error)
	AddCustomUniversity(ctx context.Context, u *models.University) (*models.University, error)
	ExtractUniversityInfo(ctx context.Context, url string) (*models.University, error)
}

type universityServiceImpl struct {
	universityRepo *repositories.UniversityRepository
	catalog        UniversityCatalog
	agent          *agent.Client
	logger         zerolog.Logger
}

// NewUniversityService creates a new university service instance
func NewUniversityService(
	universityRepo *repositories.UniversityRepository,
	catalog UniversityCatalog,
	agentClient *agent.Client,
	logger zerolog.Logger,
) UniversityService {
	return &universityServiceImpl{
		universityRepo: universityRepo,
		catalog:        catalog,
		agent:          agentClient,
		logger:         logger,
	}
}

// ListUniversities returns catalog entries followed by custom entries
func (s *universityServiceImpl) ListUniversities(ctx context.Context) ([]models.University, error) {
	custom, err := s.universityRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	all := s.catalog.All()
	for _, u := range custom {
		u.Custom = true
		all = append(all, *u)
	}
	return all, nil
}

// GetUniversity looks in the catalog first, then among custom entries
func (s *universityServiceImpl) GetUniversity(ctx context.Context, id string) (*models.University, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("university id is required")
	}
	if u, ok := s.catalog.Get(id); ok {
		return &u, nil
	}
	u, err := s.universityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Custom = true
	return u, nil
}

// AddCustomUniversity stores a new custom entry with every supplied field
func (s *universityServiceImpl) AddCustomUniversity(ctx context.Context, u *models.University) (*models.University, error) {
	if u == nil {
		return nil, fmt.Errorf("%w: university is nil", apperrors.ErrValidationFailed)
	}
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return nil, apperrors.NewValidationError("university name cannot be empty")
	}
	if u.Scholarships == nil {
		u.Scholarships = []models.Scholarship{}
	}
	u.ID = newID()
	u.Custom = true

	if err := s.universityRepo.Create(ctx, u); err != nil {
		s.logger.Error().Err(err).Str("name", u.Name).Msg("Failed to add custom university")
		return nil, err
	}

	s.logger.Info().Str("universityId", u.ID).Str("name", u.Name).Msg("Custom university added")
	return u, nil
}

// ExtractUniversityInfo asks the agent to read an admissions page. The result
// is a draft for the agent to review; nothing is stored.
func (s *universityServiceImpl) ExtractUniversityInfo(ctx context.Context, url string) (*models.University, error) {
	if strings.TrimSpace(url) == "" {
		return nil, apperrors.NewValidationError("url is required")
	}
	u, err := s.agent.ExtractUniversityInfo(ctx, url)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("University extraction failed")
		return nil, err
	}
	u.ID = ""
	u.Custom = true
	u.WebsiteURL = url
	if u.Scholarships == nil {
		u.Scholarships = []models.Scholarship{}
	}
	return u, nil
}
