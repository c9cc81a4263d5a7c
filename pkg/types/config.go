package types

import "errors"

// Config holds backend selection and parameters for opening a Service.
type Config struct {
	Backend string      `json:"backend" yaml:"backend"`
	UserID  string      `json:"user_id" yaml:"user_id"`
	DataDir string      `json:"data_dir" yaml:"data_dir"`
	Azure   AzureConfig `json:"azure" yaml:"azure"`
}

// AzureConfig holds Azure Blob Storage parameters. Either ConnectionString
// or AccountURL must be set; with only AccountURL the default Azure
// credential chain authenticates the client.
type AzureConfig struct {
	AccountURL       string `json:"account_url" yaml:"account_url"`
	ConnectionString string `json:"connection_string" yaml:"connection_string"`
	PrivateContainer string `json:"private_container" yaml:"private_container"`
	PublicContainer  string `json:"public_container" yaml:"public_container"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendAzure  = "azure"
	BackendMemory = "memory"
)

// Default configuration values.
const (
	DefaultBackend          = BackendSQLite
	DefaultPrivateContainer = "pantry-private"
	DefaultPublicContainer  = "pantry-public"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDataDirEmpty   = errors.New("data dir must not be empty")
	ErrAccountEmpty   = errors.New("azure account URL or connection string required")
	ErrContainerEmpty = errors.New("azure container names must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendAzure:  true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed for its selected backend.
// It returns a sentinel error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.Backend {
	case BackendSQLite:
		if c.DataDir == "" {
			return ErrDataDirEmpty
		}
	case BackendAzure:
		if c.Azure.AccountURL == "" && c.Azure.ConnectionString == "" {
			return ErrAccountEmpty
		}
		if c.Azure.PrivateContainer == "" || c.Azure.PublicContainer == "" {
			return ErrContainerEmpty
		}
	}
	return nil
}
