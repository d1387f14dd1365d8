package stats

import (
	"testing"
	"time"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/stretchr/testify/assert"
)

func deadlineIn(now time.Time, d time.Duration) *models.Date {
	return &models.Date{Time: now.Add(d)}
}

func TestComputeEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, Compute(nil, time.Now()))
}

func TestComputeCounts(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)
	day := 24 * time.Hour

	students := []*models.Student{
		{Status: models.StudentStatusSubmitted, Docs: models.DocsMissing, Deadline: deadlineIn(now, 30*day)},
		{Status: models.StudentStatusAccepted, Docs: models.DocsPartial, Deadline: deadlineIn(now, 31*day)},
		{Status: models.StudentStatusVisaPending, Docs: models.DocsCollected, Deadline: deadlineIn(now, -2*day)},
		{Status: models.StudentStatusDrafting, Docs: models.DocsVerified, Deadline: deadlineIn(now, time.Hour)},
		{Status: models.StudentStatusComplete, Docs: models.DocsVerified},
		nil,
	}

	assert.Equal(t, Stats{
		Total:             5,
		Submitted:         3,
		MissingDocs:       2,
		UpcomingDeadlines: 2,
	}, Compute(students, now))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, DaysUntil(now.Add(30*24*time.Hour), now))
	assert.Equal(t, 31, DaysUntil(now.Add(30*24*time.Hour+time.Minute), now))
	assert.Equal(t, 1, DaysUntil(now.Add(time.Hour), now))
	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, -1, DaysUntil(now.Add(-25*time.Hour), now))
}
