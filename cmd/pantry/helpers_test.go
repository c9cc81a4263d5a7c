package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

func TestParseFields(t *testing.T) {
	fields, err := parseFields(`{"title": {"kind": "string", "value": "Buy milk"}, "count": {"kind": "int", "value": 3}}`)
	require.NoError(t, err)
	require.Len(t, fields, 2)

	title, ok := fields["title"].AsString()
	require.True(t, ok)
	assert.Equal(t, "Buy milk", title)

	count, ok := fields["count"].AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(3), count)
}

func TestParseFieldsRejectsMalformedJSON(t *testing.T) {
	_, err := parseFields(`{"title": `)
	require.Error(t, err)
}

func TestParseFieldsRejectsUnknownKind(t *testing.T) {
	_, err := parseFields(`{"title": {"kind": "uuid", "value": "x"}}`)
	require.ErrorIs(t, err, types.ErrUnknownKind)
}

func TestBuildRecord(t *testing.T) {
	fields := map[string]types.Value{"title": types.StringValue("Buy milk")}

	rec, err := buildRecord("todo", "", fields)
	require.NoError(t, err)
	assert.Empty(t, rec.ID())
	assert.Equal(t, "todo", rec.Type())

	rec, err = buildRecord("todo", "todo-1", fields)
	require.NoError(t, err)
	assert.Equal(t, "todo-1", rec.ID())
}

func TestBuildRecordRejectsReservedField(t *testing.T) {
	fields := map[string]types.Value{"record_type": types.StringValue("sneaky")}
	_, err := buildRecord("todo", "", fields)
	require.ErrorIs(t, err, types.ErrReservedField)
}

func TestResolveScope(t *testing.T) {
	restore := flagScope
	defer func() { flagScope = restore }()

	for _, scope := range types.Scopes {
		flagScope = string(scope)
		got, err := resolveScope()
		require.NoError(t, err)
		assert.Equal(t, scope, got)
	}

	flagScope = "shared"
	_, err := resolveScope()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shared")
}

func TestLoadConfigDefaults(t *testing.T) {
	v, err := loadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, types.DefaultBackend, v.GetString(cfgKeyBackend))
	assert.Equal(t, types.DefaultPrivateContainer, v.GetString(cfgKeyAzurePrivate))
	assert.Equal(t, types.DefaultPublicContainer, v.GetString(cfgKeyAzurePublic))
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "backend: memory\nuser_id: ana\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(content), 0o644))

	v, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, types.BackendMemory, v.GetString(cfgKeyBackend))
	assert.Equal(t, "ana", v.GetString(cfgKeyUserID))

	// Environment variables win over file values.
	t.Setenv("PANTRY_USER_ID", "bob")
	v, err = loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "bob", v.GetString(cfgKeyUserID))
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("backend: [unclosed"), 0o644))

	_, err := loadConfig(dir)
	require.Error(t, err)
}

func TestLoadServiceConfig(t *testing.T) {
	restoreConfigDir, restoreBackend := flagConfigDir, flagBackend
	defer func() { flagConfigDir, flagBackend = restoreConfigDir, restoreBackend }()

	dir := t.TempDir()
	content := "backend: memory\nuser_id: ana\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(content), 0o644))

	flagConfigDir = dir
	flagBackend = ""
	cfg, err := loadServiceConfig()
	require.NoError(t, err)
	assert.Equal(t, types.BackendMemory, cfg.Backend)
	assert.Equal(t, "ana", cfg.UserID)

	// The --backend flag overrides the file value.
	flagBackend = "bolt"
	_, err = loadServiceConfig()
	require.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestEnsureDefaultConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileExt)

	require.NoError(t, ensureDefaultConfigFile(dir))
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfigYAML, string(first))

	// An existing file is left untouched.
	require.NoError(t, os.WriteFile(path, []byte("backend: memory\n"), 0o644))
	require.NoError(t, ensureDefaultConfigFile(dir))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "backend: memory\n", string(second))
}
