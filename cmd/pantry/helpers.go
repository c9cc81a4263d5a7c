// Shared helpers for pantry CLI commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/pantry/internal/paths"
	"github.com/mesh-intelligence/pantry/pkg/azure"
	"github.com/mesh-intelligence/pantry/pkg/memstore"
	"github.com/mesh-intelligence/pantry/pkg/sqlite"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// backendService couples the Service contract with the lifecycle every
// local backend carries.
type backendService interface {
	types.Service
	Close() error
}

// loadServiceConfig resolves the config directory, reads config.yaml, and
// builds the backend configuration from flags, environment, and file
// values.
func loadServiceConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}

	backend := v.GetString(cfgKeyBackend)
	if flagBackend != "" {
		backend = flagBackend
	}

	cfg := types.Config{
		Backend: backend,
		UserID:  v.GetString(cfgKeyUserID),
		Azure: types.AzureConfig{
			AccountURL:       v.GetString(cfgKeyAzureAccountURL),
			ConnectionString: v.GetString(cfgKeyAzureConnString),
			PrivateContainer: v.GetString(cfgKeyAzurePrivate),
			PublicContainer:  v.GetString(cfgKeyAzurePublic),
		},
	}

	if cfg.Backend == types.BackendSQLite {
		dataDir, err := paths.ResolveDataDir(flagDataDir, v.GetString(cfgKeyDataDir))
		if err != nil {
			return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openService opens the backend selected by cfg.
func openService(ctx context.Context, cfg types.Config) (backendService, error) {
	switch cfg.Backend {
	case types.BackendSQLite:
		return sqlite.Open(cfg)
	case types.BackendAzure:
		return azure.Open(ctx, cfg, logger)
	case types.BackendMemory:
		return memstore.New(cfg.UserID), nil
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrBackendUnknown, cfg.Backend)
	}
}

// resolveScope validates the --scope flag.
func resolveScope() (types.Scope, error) {
	scope := types.Scope(flagScope)
	if !scope.Valid() {
		return "", fmt.Errorf("unknown scope %q (valid: %s, %s)", flagScope, types.ScopePrivate, types.ScopePublic)
	}
	return scope, nil
}

// parseFields decodes a {"name": {"kind": ..., "value": ...}} JSON object
// into a field map.
func parseFields(data string) (map[string]types.Value, error) {
	var fields map[string]types.Value
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("parse fields: %w", err)
	}
	return fields, nil
}

// buildRecord assembles a record from a type tag, an optional identifier,
// and parsed fields. A reserved field name surfaces as the user's error.
func buildRecord(recordType, id string, fields map[string]types.Value) (*types.Record, error) {
	var rec *types.Record
	if id == "" {
		rec = types.New(recordType)
	} else {
		rec = types.NewWithID(recordType, id)
	}
	for name, value := range fields {
		if err := rec.Set(name, value); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
	}
	return rec, nil
}

// printJSON renders v with indentation on stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
