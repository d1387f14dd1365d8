package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/agentcommand/tracker/internal/app/repositories"
	"github.com/agentcommand/tracker/internal/seed"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

// flakyStore wraps MemoryStore and fails selected writes on demand
type flakyStore struct {
	*repositories.MemoryStore

	mu          sync.Mutex
	failUpdates bool
	failInserts map[string]bool
	updates     int
	// beforeUpdate runs once, ahead of the next Update, to simulate another writer
	beforeUpdate func()
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: repositories.NewMemoryStore(), failInserts: map[string]bool{}}
}

func (f *flakyStore) setFailUpdates(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failUpdates = v
}

func (f *flakyStore) onNextUpdate(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beforeUpdate = fn
}

func (f *flakyStore) Update(ctx context.Context, collection string, filter repositories.Filter, changes repositories.Record) (int64, error) {
	f.mu.Lock()
	f.updates++
	fail := f.failUpdates
	hook := f.beforeUpdate
	f.beforeUpdate = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if fail {
		return 0, errStoreDown
	}
	return f.MemoryStore.Update(ctx, collection, filter, changes)
}

func (f *flakyStore) Insert(ctx context.Context, collection string, record repositories.Record) error {
	f.mu.Lock()
	fail := f.failInserts[collection]
	f.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return f.MemoryStore.Insert(ctx, collection, record)
}

// stepClock returns start, then advances by one second per call
func stepClock(start time.Time) Clock {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}

var testStart = time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	store     *flakyStore
	repos     *repositories.Repositories
	catalog   *seed.Catalog
	students  StudentService
	lifecycle LifecycleService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newFlakyStore()
	return newTestEnvWithStore(t, store)
}

func newTestEnvWithStore(t *testing.T, store *flakyStore) *testEnv {
	t.Helper()
	catalog, err := seed.LoadCatalog()
	require.NoError(t, err)

	repos := repositories.NewRepositories(store)
	clock := stepClock(testStart)

	students := NewStudentService(repos.StudentRepository, zerolog.Nop())
	students.(*studentServiceImpl).now = clock

	lifecycle := NewLifecycleService(repos.ApplicationRepository, repos.StudentRepository, repos.UniversityRepository, catalog, zerolog.Nop())
	lifecycle.(*lifecycleServiceImpl).now = clock

	return &testEnv{
		store:     store,
		repos:     repos,
		catalog:   catalog,
		students:  students,
		lifecycle: lifecycle,
	}
}
