package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pantry/pkg/memstore"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// setupMemService installs a memory backend as the command service and
// resets the scope flag. Command tests share package globals, so none of
// them run in parallel.
func setupMemService(t *testing.T, userID string) *memstore.Store {
	t.Helper()
	s := memstore.New(userID)
	svc = s
	flagScope = string(types.ScopePrivate)
	t.Cleanup(func() {
		svc = nil
		flagScope = string(types.ScopePrivate)
	})
	return s
}

func testCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

// captureStdout runs fn with stdout redirected and returns what it
// printed alongside fn's error.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	runErr := fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

func parseRecord(t *testing.T, out string) *types.Record {
	t.Helper()
	var rec types.Record
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	return &rec
}

func TestCreateGetDeleteFlow(t *testing.T) {
	setupMemService(t, "user-1")
	cmd := testCommand(t)

	out, err := captureStdout(t, func() error {
		return runCreate(cmd, []string{"todo", `{"title": {"kind": "string", "value": "Buy milk"}}`})
	})
	require.NoError(t, err)
	created := parseRecord(t, out)
	require.NotEmpty(t, created.ID())
	assert.Equal(t, "todo", created.Type())
	assert.Equal(t, "user-1", created.CreatorID())

	out, err = captureStdout(t, func() error {
		return runGet(cmd, []string{created.ID()})
	})
	require.NoError(t, err)
	fetched := parseRecord(t, out)
	assert.Equal(t, created.ID(), fetched.ID())
	title, ok := fetched.Field("title")
	require.True(t, ok)
	got, ok := title.AsString()
	require.True(t, ok)
	assert.Equal(t, "Buy milk", got)

	_, err = captureStdout(t, func() error {
		return runDelete(cmd, []string{created.ID()})
	})
	require.NoError(t, err)

	err = runGet(cmd, []string{created.ID()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no record")
}

func TestCreateRejectsReservedField(t *testing.T) {
	setupMemService(t, "user-1")
	cmd := testCommand(t)

	err := runCreate(cmd, []string{"todo", `{"creator_id": {"kind": "string", "value": "mallory"}}`})
	require.ErrorIs(t, err, types.ErrReservedField)
}

func TestUpdatePreservesCreator(t *testing.T) {
	s := setupMemService(t, "user-1")
	cmd := testCommand(t)

	out, err := captureStdout(t, func() error {
		return runCreate(cmd, []string{"todo", `{"title": {"kind": "string", "value": "Buy milk"}}`})
	})
	require.NoError(t, err)
	created := parseRecord(t, out)

	// A different identity updates the record.
	s.SetUserID("user-2")
	out, err = captureStdout(t, func() error {
		return runUpdate(cmd, []string{"todo", created.ID(), `{"title": {"kind": "string", "value": "Buy oat milk"}}`})
	})
	require.NoError(t, err)
	updated := parseRecord(t, out)

	assert.Equal(t, created.ID(), updated.ID())
	assert.Equal(t, "user-1", updated.CreatorID())
	title, ok := updated.Field("title")
	require.True(t, ok)
	got, _ := title.AsString()
	assert.Equal(t, "Buy oat milk", got)
}

func TestDeleteMissingRecord(t *testing.T) {
	setupMemService(t, "user-1")
	cmd := testCommand(t)

	err := runDelete(cmd, []string{"no-such-id"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no record")
}

func TestListMine(t *testing.T) {
	s := setupMemService(t, "user-1")
	cmd := testCommand(t)
	listMine = true
	t.Cleanup(func() { listMine = false })

	_, err := captureStdout(t, func() error {
		return runCreate(cmd, []string{"todo", `{"title": {"kind": "string", "value": "mine"}}`})
	})
	require.NoError(t, err)
	s.SetUserID("user-2")
	_, err = captureStdout(t, func() error {
		return runCreate(cmd, []string{"todo", `{"title": {"kind": "string", "value": "theirs"}}`})
	})
	require.NoError(t, err)

	s.SetUserID("user-1")
	out, err := captureStdout(t, func() error {
		return runList(cmd, []string{"todo"})
	})
	require.NoError(t, err)
	var recs []*types.Record
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "user-1", recs[0].CreatorID())
}

func TestListMineWithoutIdentity(t *testing.T) {
	setupMemService(t, "")
	cmd := testCommand(t)
	listMine = true
	t.Cleanup(func() { listMine = false })

	err := runList(cmd, []string{"todo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no identity configured")
}

func TestExportImportRoundTrip(t *testing.T) {
	setupMemService(t, "user-1")
	cmd := testCommand(t)
	path := filepath.Join(t.TempDir(), "backup.jsonl")

	out, err := captureStdout(t, func() error {
		return runCreate(cmd, []string{"todo", `{"title": {"kind": "string", "value": "Buy milk"}}`})
	})
	require.NoError(t, err)
	todo := parseRecord(t, out)
	out, err = captureStdout(t, func() error {
		return runCreate(cmd, []string{"note", `{"body": {"kind": "string", "value": "remember"}}`})
	})
	require.NoError(t, err)
	note := parseRecord(t, out)

	exportTypes = []string{"todo", "note"}
	t.Cleanup(func() { exportTypes = nil })
	_, err = captureStdout(t, func() error {
		return runExport(cmd, []string{path})
	})
	require.NoError(t, err)

	// Import into a fresh backend; identifiers survive the round trip.
	fresh := setupMemService(t, "user-1")
	_, err = captureStdout(t, func() error {
		return runImport(cmd, []string{path})
	})
	require.NoError(t, err)

	ctx := context.Background()
	gotTodo, err := fresh.Fetch(ctx, types.ScopePrivate, todo.ID())
	require.NoError(t, err)
	require.NotNil(t, gotTodo)
	gotNote, err := fresh.Fetch(ctx, types.ScopePrivate, note.ID())
	require.NoError(t, err)
	require.NotNil(t, gotNote)
	assert.Equal(t, "note", gotNote.Type())
}

func TestInit(t *testing.T) {
	restoreConfigDir, restoreBackend := flagConfigDir, flagBackend
	t.Cleanup(func() { flagConfigDir, flagBackend = restoreConfigDir, restoreBackend })

	flagConfigDir = filepath.Join(t.TempDir(), "pantry")
	flagBackend = types.BackendMemory
	cmd := testCommand(t)

	out, err := captureStdout(t, func() error {
		return runInit(cmd, nil)
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized pantry")
	assert.FileExists(t, filepath.Join(flagConfigDir, configFileExt))
}

func TestWhoami(t *testing.T) {
	setupMemService(t, "user-1")
	cmd := testCommand(t)

	out, err := captureStdout(t, func() error {
		return runWhoami(cmd, nil)
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1\n", out)
}

func TestWhoamiWithoutIdentity(t *testing.T) {
	setupMemService(t, "")
	cmd := testCommand(t)

	err := runWhoami(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no identity configured")
}

func TestStatus(t *testing.T) {
	setupMemService(t, "user-1")
	cmd := testCommand(t)
	svcConfig = types.Config{Backend: types.BackendMemory, UserID: "user-1"}
	t.Cleanup(func() { svcConfig = types.Config{} })

	out, err := captureStdout(t, func() error {
		return runStatus(cmd, nil)
	})
	require.NoError(t, err)
	assert.Contains(t, out, types.BackendMemory)
	assert.Contains(t, out, "user-1")
	assert.Contains(t, out, string(types.ScopePrivate))
	assert.Contains(t, out, string(types.ScopePublic))
}
