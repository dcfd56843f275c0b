package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(at time.Time) *Run {
	return &Run{
		StartedAt:          at,
		ModuleFolder:       "/work/src",
		TestsFolder:        "/work/tests",
		ModulesMissingFile: 1,
		MissingTests:       2,
		TotalFunctions:     3,
		Modules: []ModuleRecord{
			{Module: "lonely.py", MissingFile: 1, MissingTests: 1, FunctionCount: 1, Missing: []string{"only_one"}},
			{Module: "math_ops.py", MissingTests: 1, FunctionCount: 2, Missing: []string{"sub"}},
		},
	}
}

func TestMigrate_AllTablesExist(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, table := range []string{"runs", "module_results", "missing_cases"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestRecordRun_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	run := sampleRun(at)
	id, err := s.RecordRun(run)
	require.NoError(t, err)
	require.Positive(t, id)
	assert.Equal(t, id, run.ID)

	got, err := s.RunByID(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, at.Equal(got.StartedAt))
	assert.Equal(t, "/work/src", got.ModuleFolder)
	assert.Equal(t, 1, got.ModulesMissingFile)
	assert.Equal(t, 2, got.MissingTests)
	assert.Equal(t, 3, got.TotalFunctions)
	assert.Equal(t, run.Modules, got.Modules)
}

func TestRunByID_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	got, err := s.RunByID(42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRuns_NewestFirstWithLimit(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		_, err := s.RecordRun(sampleRun(base.Add(time.Duration(i) * time.Hour)))
		require.NoError(t, err)
	}

	all, err := s.Runs(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].StartedAt.After(all[1].StartedAt))
	assert.True(t, all[1].StartedAt.After(all[2].StartedAt))
	assert.Empty(t, all[0].Modules)

	limited, err := s.Runs(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, all[0].ID, limited[0].ID)
}
