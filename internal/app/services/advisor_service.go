package services

import (
	"context"

	"github.com/agentcommand/tracker/internal/app/repositories"
	"github.com/agentcommand/tracker/internal/pkg/agent"
	"github.com/rs/zerolog"
)

// AdvisorService runs the student-centred AI actions
type AdvisorService interface {
	GenerateReport(ctx context.Context, studentID string) (string, error)
	Brainstorm(ctx context.Context, studentID string, mode agent.BrainstormMode, userNotes string) (*agent.BrainstormResult, error)
}

type advisorServiceImpl struct {
	studentRepo *repositories.StudentRepository
	agent       *agent.Client
	logger      zerolog.Logger
}

// NewAdvisorService creates a new advisor service instance
func NewAdvisorService(studentRepo *repositories.StudentRepository, agentClient *agent.Client, logger zerolog.Logger) AdvisorService {
	return &advisorServiceImpl{
		studentRepo: studentRepo,
		agent:       agentClient,
		logger:      logger,
	}
}

// GenerateReport returns a markdown status report for the student
func (s *advisorServiceImpl) GenerateReport(ctx context.Context, studentID string) (string, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return "", err
	}
	report, err := s.agent.GenerateReport(ctx, student)
	if err != nil {
		s.logger.Warn().Err(err).Str("studentId", studentID).Msg("Report generation failed")
		return "", err
	}
	return report, nil
}

// Brainstorm validates the mode before loading the student
func (s *advisorServiceImpl) Brainstorm(ctx context.Context, studentID string, mode agent.BrainstormMode, userNotes string) (*agent.BrainstormResult, error) {
	if _, err := agent.ParseBrainstormMode(string(mode)); err != nil {
		return nil, err
	}
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	result, err := s.agent.Brainstorm(ctx, mode, student, userNotes)
	if err != nil {
		s.logger.Warn().Err(err).Str("studentId", studentID).Str("mode", string(mode)).Msg("Brainstorm failed")
		return nil, err
	}
	if mode == agent.BrainstormUniversities && result.Suggestions == nil {
		s.logger.Debug().Str("studentId", studentID).Msg("Suggestions were not JSON, returning raw text")
	}
	return result, nil
}
