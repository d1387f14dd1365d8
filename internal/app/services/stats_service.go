package services

import (
	"context"

	"github.com/agentcommand/tracker/internal/app/repositories"
	"github.com/agentcommand/tracker/internal/pkg/stats"
)

// StatsService computes the dashboard counters over stored students
type StatsService interface {
	GetStats(ctx context.Context) (stats.Stats, error)
}

type statsServiceImpl struct {
	studentRepo *repositories.StudentRepository
	now         Clock
}

// NewStatsService creates a new stats service instance
func NewStatsService(studentRepo *repositories.StudentRepository) StatsService {
	return &statsServiceImpl{studentRepo: studentRepo, now: systemClock}
}

// GetStats loads every student and aggregates them
func (s *statsServiceImpl) GetStats(ctx context.Context) (stats.Stats, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return stats.Stats{}, err
	}
	return stats.Compute(students, s.now()), nil
}
