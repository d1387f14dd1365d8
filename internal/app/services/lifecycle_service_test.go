package services

import (
	"context"
	"testing"
	"time"

	"github.com/agentcommand/tracker/internal/app/models"
	"github.com/agentcommand/tracker/internal/app/repositories"
	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createStudent(t *testing.T, env *testEnv, name string) *models.Student {
	t.Helper()
	s, err := env.students.CreateStudent(context.Background(), &models.Student{Name: name})
	require.NoError(t, err)
	return s
}

func TestAmaUniversityOfTorontoScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	ama := createStudent(t, env, "Ama")
	require.Len(t, ama.Checklist, 8)
	for _, item := range ama.Checklist {
		assert.False(t, item.Checked, item.ID)
	}

	app, err := env.lifecycle.AddApplication(ctx, ama.ID, AddApplicationInput{UniversityName: "University of Toronto"})
	require.NoError(t, err)
	assert.Equal(t, models.CustomUniversityID, app.UniversityID)
	assert.Equal(t, models.ApplicationPlanning, app.Status)
	require.Len(t, app.Checklist, 8)
	for _, item := range app.Checklist {
		assert.Equal(t, models.DocumentPending, item.Status, item.ID)
		assert.Nil(t, item.Date, item.ID)
	}
	before := app.Clone()

	toggled, err := env.lifecycle.ToggleDocumentStatus(ctx, app.ID, app.Checklist[0].ID, app.Checklist[0].Status)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentSubmitted, toggled.Checklist[0].Status)
	require.NotNil(t, toggled.Checklist[0].Date)
	for i := 1; i < len(toggled.Checklist); i++ {
		assert.Equal(t, before.Checklist[i], toggled.Checklist[i])
	}

	accepted, err := env.lifecycle.SetApplicationStatus(ctx, app.ID, models.ApplicationAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, accepted.Status)
	assert.Equal(t, toggled.Checklist, accepted.Checklist)

	stored, err := env.repos.ApplicationRepository.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, stored.Status)
	assert.Equal(t, models.DocumentSubmitted, stored.Checklist[0].Status)
	assert.True(t, stored.Checklist[0].Date.Equal(*toggled.Checklist[0].Date))
	assert.Equal(t, models.DocumentPending, stored.Checklist[1].Status)
}

func TestAddApplicationFromCatalog(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := createStudent(t, env, "Kofi")

	york, err := env.lifecycle.AddApplication(ctx, student.ID, AddApplicationInput{UniversityID: "york", Program: " Computer Science "})
	require.NoError(t, err)
	assert.Equal(t, "york", york.UniversityID)
	assert.Equal(t, "York University", york.UniversityName)
	assert.Equal(t, "Computer Science", york.Program)
	require.NotNil(t, york.Deadline)
	assert.Equal(t, "2026-01-26", york.Deadline.String())

	vcc, err := env.lifecycle.AddApplication(ctx, student.ID, AddApplicationInput{UniversityID: "vcc"})
	require.NoError(t, err)
	assert.Nil(t, vcc.Deadline)

	own, err := models.ParseDate("2026-03-01")
	require.NoError(t, err)
	uoft, err := env.lifecycle.AddApplication(ctx, student.ID, AddApplicationInput{UniversityID: "uoft", Deadline: &own})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", uoft.Deadline.String(), "explicit deadline wins over the catalog")

	_, err = env.lifecycle.AddApplication(ctx, student.ID, AddApplicationInput{UniversityID: "atlantis"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = env.lifecycle.AddApplication(ctx, student.ID, AddApplicationInput{UniversityID: models.CustomUniversityID})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = env.lifecycle.AddApplication(ctx, "missing", AddApplicationInput{UniversityName: "X"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	apps, err := env.lifecycle.ListApplications(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, []string{uoft.ID, vcc.ID, york.ID}, []string{apps[0].ID, apps[1].ID, apps[2].ID})
}

func TestAddApplicationForCustomUniversityEntry(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := createStudent(t, env, "Esi")

	require.NoError(t, env.repos.UniversityRepository.Create(ctx, &models.University{
		ID: "u-1", Name: "Lakehead University", Deadline: "Feb 1, 2026",
	}))

	app, err := env.lifecycle.AddApplication(ctx, student.ID, AddApplicationInput{UniversityID: "u-1"})
	require.NoError(t, err)
	assert.Equal(t, "Lakehead University", app.UniversityName)
	assert.Equal(t, "2026-02-01", app.Deadline.String())
}

func TestSetApplicationStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := createStudent(t, env, "Yaw")
	app, err := env.lifecycle.AddApplication(ctx, student.ID, AddApplicationInput{UniversityName: "UBC"})
	require.NoError(t, err)

	// flat set: any status may follow any other
	for _, status := range []models.ApplicationStatus{models.ApplicationRejected, models.ApplicationPlanning, models.ApplicationEnrolled} {
		updated, err := env.lifecycle.SetApplicationStatus(ctx, app.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	updatesBefore := env.store.updates
	_, err = env.lifecycle.SetApplicationStatus(ctx, app.ID, "Submitted")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, updatesBefore, env.store.updates, "invalid status never reaches the store")

	env.store.setFailUpdates(true)
	_, err = env.lifecycle.SetApplicationStatus(ctx, app.ID, models.ApplicationAccepted)
	assert.ErrorIs(t, err, errStoreDown)
	env.store.setFailUpdates(false)

	current, err := env.lifecycle.(*lifecycleServiceImpl).snapshot(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationEnrolled, current.Status, "failed write leaves the committed state")

	_, err = env.lifecycle.SetApplicationStatus(ctx, "missing", models.ApplicationApplied)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestToggleDocumentStatusCycles(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := createStudent(t, env, "Abena")
	app, err := env.lifecycle.AddApplication(ctx, student.ID, AddApplicationInput{UniversityName: "SFU"})
	require.NoError(t, err)

	want := []models.DocumentStatus{models.DocumentSubmitted, models.DocumentReceived, models.DocumentPending}
	var lastDate time.Time
	for _, status := range want {
		updated, err := env.lifecycle.ToggleDocumentStatus(ctx, app.ID, "sop", "")
		require.NoError(t, err)
		assert.Equal(t, status, updated.Checklist[4].Status)
		require.NotNil(t, updated.Checklist[4].Date)
		assert.True(t, updated.Checklist[4].Date.After(lastDate))
		lastDate = *updated.Checklist[4].Date
	}

	stored, err := env.repos.ApplicationRepository.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stored.Version)

	_, err = env.lifecycle.ToggleDocumentStatus(ctx, app.ID, "visa", "")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = env.lifecycle.ToggleDocumentStatus(ctx, app.ID, "sop", "Lost")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestToggleDocumentStatusKeepsSnapshotOnFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := createStudent(t, env, "Kwame")
	app, err := env.lifecycle.AddApplication(ctx, student.ID, AddApplicationInput{UniversityName: "McGill"})
	require.NoError(t, err)

	env.store.setFailUpdates(true)
	_, err = env.lifecycle.ToggleDocumentStatus(ctx, app.ID, "passport", models.DocumentPending)
	require.ErrorIs(t, err, errStoreDown)
	env.store.setFailUpdates(false)

	snap, err := env.lifecycle.(*lifecycleServiceImpl).snapshot(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentPending, snap.Checklist[0].Status)
	assert.Nil(t, snap.Checklist[0].Date)

	// the retry starts from the committed state, not from the failed attempt
	updated, err := env.lifecycle.ToggleDocumentStatus(ctx, app.ID, "passport", "")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentSubmitted, updated.Checklist[0].Status)
}

func TestToggleDocumentStatusDetectsConcurrentWriter(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := createStudent(t, env, "Akosua")
	app, err := env.lifecycle.AddApplication(ctx, student.ID, AddApplicationInput{UniversityName: "Queen's"})
	require.NoError(t, err)

	// another writer commits between our read and our write
	env.store.onNextUpdate(func() {
		checklist, ok := models.WithDocumentStatus(app.Checklist, "passport", models.DocumentSubmitted, testStart)
		require.True(t, ok)
		_, err := repositories.NewApplicationRepository(env.store.MemoryStore).UpdateChecklist(ctx, app.ID, 0, checklist)
		require.NoError(t, err)
	})

	_, err = env.lifecycle.ToggleDocumentStatus(ctx, app.ID, "cv", "")
	require.ErrorIs(t, err, apperrors.ErrConflict)

	// the next attempt starts from the other writer's change
	merged, err := env.lifecycle.ToggleDocumentStatus(ctx, app.ID, "cv", "")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentSubmitted, merged.Checklist[0].Status)
	assert.Equal(t, models.DocumentSubmitted, merged.Checklist[3].Status)
	assert.Equal(t, int64(2), merged.Version)
}

func TestLifecycleInstancesShareTheStore(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := createStudent(t, env, "Adwoa")
	app, err := env.lifecycle.AddApplication(ctx, student.ID, AddApplicationInput{UniversityName: "Dalhousie"})
	require.NoError(t, err)

	replicaA := env.lifecycle
	replicaB := NewLifecycleService(env.repos.ApplicationRepository, env.repos.StudentRepository, env.repos.UniversityRepository, env.catalog, zerolog.Nop())

	_, err = replicaA.GetApplication(ctx, app.ID)
	require.NoError(t, err)

	_, err = replicaB.SetApplicationStatus(ctx, app.ID, models.ApplicationAccepted)
	require.NoError(t, err)
	_, err = replicaB.ToggleDocumentStatus(ctx, app.ID, "passport", "")
	require.NoError(t, err)

	edited, err := replicaA.UpdateApplication(ctx, app.ID, UpdateApplicationInput{UniversityName: "Dalhousie University"})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, edited.Status, "blank status keeps the stored one")

	stored, err := env.repos.ApplicationRepository.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, stored.Status)

	enrolled, err := replicaA.SetApplicationStatus(ctx, app.ID, models.ApplicationEnrolled)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentSubmitted, enrolled.Checklist[0].Status)

	toggled, err := replicaA.ToggleDocumentStatus(ctx, app.ID, "cv", "")
	require.NoError(t, err, "sequential writes from another instance never conflict")
	assert.Equal(t, models.DocumentSubmitted, toggled.Checklist[0].Status)
	assert.Equal(t, models.DocumentSubmitted, toggled.Checklist[3].Status)
}

func TestLegacyApplicationWithoutChecklist(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := createStudent(t, env, "Efua")

	legacy := &models.Application{ID: "legacy-1", StudentID: student.ID, UniversityID: "custom", UniversityName: "Old U", Status: models.ApplicationApplying}
	require.NoError(t, env.repos.ApplicationRepository.Create(ctx, legacy))

	toggled, err := env.lifecycle.ToggleDocumentStatus(ctx, legacy.ID, "cv", "")
	require.NoError(t, err)
	require.Len(t, toggled.Checklist, 8)
	assert.Equal(t, models.DocumentSubmitted, toggled.Checklist[3].Status)
	assert.Equal(t, models.DocumentPending, toggled.Checklist[0].Status)

	empty := &models.Application{ID: "legacy-2", StudentID: student.ID, UniversityID: "custom", UniversityName: "Older U", Status: models.ApplicationPlanning}
	require.NoError(t, env.repos.ApplicationRepository.Create(ctx, empty))

	initialized, err := env.lifecycle.InitializeChecklist(ctx, empty.ID)
	require.NoError(t, err)
	require.Len(t, initialized.Checklist, 8)
	for _, item := range initialized.Checklist {
		assert.Equal(t, models.DocumentPending, item.Status)
	}
	assert.Equal(t, int64(1), initialized.Version)

	again, err := env.lifecycle.InitializeChecklist(ctx, toggled.ID)
	require.NoError(t, err)
	assert.Equal(t, toggled.Checklist, again.Checklist, "existing checklists are left alone")
	assert.Equal(t, toggled.Version, again.Version)
}

func TestUpdateAndDeleteApplication(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	student := createStudent(t, env, "Nana")
	app, err := env.lifecycle.AddApplication(ctx, student.ID, AddApplicationInput{UniversityID: "ubc", Notes: "first pick"})
	require.NoError(t, err)
	require.NotNil(t, app.Deadline)

	updated, err := env.lifecycle.UpdateApplication(ctx, app.ID, UpdateApplicationInput{
		UniversityName: "UBC Okanagan",
		Program:        "Engineering",
		Status:         models.ApplicationApplied,
	})
	require.NoError(t, err)
	assert.Equal(t, "UBC Okanagan", updated.UniversityName)
	assert.Equal(t, "Engineering", updated.Program)
	assert.Equal(t, models.ApplicationApplied, updated.Status)
	assert.Nil(t, updated.Deadline)
	assert.Empty(t, updated.Notes)
	assert.Len(t, updated.Checklist, 8)

	stored, err := env.lifecycle.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Deadline, "clearing the deadline is persisted")
	assert.Empty(t, stored.Notes)
	assert.Equal(t, "ubc", stored.UniversityID)

	_, err = env.lifecycle.UpdateApplication(ctx, app.ID, UpdateApplicationInput{Status: "Done"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	require.NoError(t, env.lifecycle.DeleteApplication(ctx, app.ID))
	_, err = env.lifecycle.GetApplication(ctx, app.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.ErrorIs(t, env.lifecycle.DeleteApplication(ctx, app.ID), apperrors.ErrResourceNotFound)
}
