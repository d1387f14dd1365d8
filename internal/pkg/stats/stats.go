// Package stats derives the dashboard counters from already loaded students.
package stats

import (
	"math"
	"time"

	"github.com/agentcommand/tracker/internal/app/models"
)

// UpcomingWindowDays is the inclusive upper bound of the upcoming-deadline window
const UpcomingWindowDays = 30

// Stats holds the dashboard counters
type Stats struct {
	Total             int `json:"total"`
	Submitted         int `json:"submitted"`
	MissingDocs       int `json:"missing_docs"`
	UpcomingDeadlines int `json:"upcoming_deadlines"`
}

// Compute counts students by stage, document state and deadline proximity.
// It has no side effects and depends only on its arguments.
func Compute(students []*models.Student, now time.Time) Stats {
	var s Stats
	for _, st := range students {
		if st == nil {
			continue
		}
		s.Total++

		switch st.Status {
		case models.StudentStatusSubmitted, models.StudentStatusAccepted, models.StudentStatusVisaPending:
			s.Submitted++
		}

		switch st.Docs {
		case models.DocsMissing, models.DocsPartial:
			s.MissingDocs++
		}

		if st.Deadline != nil {
			if days := DaysUntil(st.Deadline.Time, now); days > 0 && days <= UpcomingWindowDays {
				s.UpcomingDeadlines++
			}
		}
	}
	return s
}

// DaysUntil is the ceiling of (deadline - now) in whole days
func DaysUntil(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}
