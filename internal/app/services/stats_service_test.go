package services

import (
	"context"
	"testing"
	"time"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewStatsService(env.repos.StudentRepository)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.(*statsServiceImpl).now = func() time.Time { return now }

	empty, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Stats{}, empty)

	soon := models.NewDate(now.AddDate(0, 0, 10))
	later := models.NewDate(now.AddDate(0, 0, 45))
	for _, s := range []*models.Student{
		{Name: "A", Status: models.StudentStatusSubmitted, Deadline: &soon},
		{Name: "B", Status: models.StudentStatusReviewing, Docs: models.DocsPartial, Deadline: &later},
		{Name: "C", Status: models.StudentStatusAccepted, Docs: models.DocsVerified},
	} {
		_, err := env.students.CreateStudent(ctx, s)
		require.NoError(t, err)
	}

	got, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Stats{Total: 3, Submitted: 2, MissingDocs: 2, UpcomingDeadlines: 1}, got)
}
