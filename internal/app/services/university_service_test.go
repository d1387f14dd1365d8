package services

import (
	"context"
	"testing"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/pkg/agent"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedInvoker struct {
	result  string
	err     error
	actions []string
}

func (c *cannedInvoker) Invoke(_ context.Context, action string, _ any) (string, error) {
	c.actions = append(c.actions, action)
	return c.result, c.err
}

func newUniversityService(env *testEnv, inv agent.Invoker) UniversityService {
	return NewUniversityService(env.repos.UniversityRepository, env.catalog, agent.NewClient(inv), zerolog.Nop())
}

func TestCustomUniversityRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newUniversityService(env, &cannedInvoker{})

	added, err := svc.AddCustomUniversity(ctx, &models.University{
		Name:       "Lakehead University",
		Location:   "Thunder Bay, Ontario",
		Deadline:   "Feb 1, 2026",
		AppFee:     "$150 CAD",
		Tuition:    "~$28,000 CAD",
		RoomBoard:  "~$11,000 CAD",
		Insights:   "Northern campus with strong co-op.",
		WebsiteURL: "https://www.lakeheadu.ca/admissions",
		Scholarships: []models.Scholarship{
			{Name: "Entrance Award", Value: "$2,000", Notes: "Automatic"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)
	assert.True(t, added.Custom)

	got, err := svc.GetUniversity(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got, "no field is dropped on the way through the store")

	all, err := svc.ListUniversities(ctx)
	require.NoError(t, err)
	require.Len(t, all, env.catalog.Len()+1)
	assert.Equal(t, "uoft", all[0].ID)
	assert.False(t, all[0].Custom)
	assert.Equal(t, *added, all[len(all)-1])
}

func TestGetUniversity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newUniversityService(env, &cannedInvoker{})

	ubc, err := svc.GetUniversity(ctx, "ubc")
	require.NoError(t, err)
	assert.Equal(t, "Univ. of British Columbia", ubc.Name)

	_, err = svc.GetUniversity(ctx, "nowhere")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = svc.AddCustomUniversity(ctx, &models.University{Name: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestExtractUniversityInfo(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	inv := &cannedInvoker{result: "```json\n{\"name\":\"Trent University\",\"location\":\"Peterborough, ON\",\"deadline\":\"TBD\"}\n```"}
	svc := newUniversityService(env, inv)

	draft, err := svc.ExtractUniversityInfo(ctx, "https://www.trentu.ca/admissions")
	require.NoError(t, err)
	assert.Equal(t, "Trent University", draft.Name)
	assert.Equal(t, "https://www.trentu.ca/admissions", draft.WebsiteURL)
	assert.Empty(t, draft.ID)
	assert.NotNil(t, draft.Scholarships)
	assert.Equal(t, []string{agent.ActionExtractUniversityInfo}, inv.actions)

	all, err := svc.ListUniversities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, env.catalog.Len(), "extraction stores nothing")

	bad := newUniversityService(env, &cannedInvoker{result: "I could not find admissions data."})
	_, err = bad.ExtractUniversityInfo(ctx, "https://example.com")
	assert.ErrorIs(t, err, apperrors.ErrParse)

	_, err = bad.ExtractUniversityInfo(ctx, " ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
