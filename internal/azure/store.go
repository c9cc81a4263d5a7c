// Package azure implements the Azure Blob Storage record Service backing
// the "azure" backend. Each record is one JSON blob named <id>.json; each
// scope maps to its own container. Blob metadata carries the record type
// and creator so queries can filter before downloading.
package azure

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Blob metadata keys. Azure returns metadata keys with unpredictable
// casing, so lookups must compare case-insensitively.
const (
	metaRecordType = "recordtype"
	metaCreatorID  = "creatorid"
)

// downloadConcurrency bounds parallel blob downloads during a query.
const downloadConcurrency = 8

// Store is an Azure-blob-backed types.Service.
type Store struct {
	mu         sync.RWMutex
	client     *azblob.Client
	userID     string
	containers map[types.Scope]string
	logger     *slog.Logger
	closed     bool
}

var _ types.Service = (*Store)(nil)

// Open creates the blob client, ensures both scope containers exist, and
// returns a Store resolving cfg.UserID as the caller identity. A nil
// logger falls back to slog.Default.
func Open(ctx context.Context, cfg types.Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("system", "azure")

	if cfg.Azure.PrivateContainer == "" || cfg.Azure.PublicContainer == "" {
		return nil, types.ErrContainerEmpty
	}

	client, err := newClient(cfg.Azure)
	if err != nil {
		return nil, err
	}

	s := &Store{
		client: client,
		userID: cfg.UserID,
		containers: map[types.Scope]string{
			types.ScopePrivate: cfg.Azure.PrivateContainer,
			types.ScopePublic:  cfg.Azure.PublicContainer,
		},
		logger: logger,
	}
	for _, scope := range types.Scopes {
		name := s.containers[scope]
		if _, err := client.CreateContainer(ctx, name, nil); err != nil {
			if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
				return nil, fmt.Errorf("creating container %s: %w", name, err)
			}
		}
		logger.Info("container ready", "container", name)
	}
	return s, nil
}

// newClient builds a blob client from a connection string when one is
// configured, otherwise from the account URL with ambient credentials.
func newClient(cfg types.AzureConfig) (*azblob.Client, error) {
	if cfg.ConnectionString != "" {
		client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("creating storage client: %w", err)
		}
		return client, nil
	}
	if cfg.AccountURL == "" {
		return nil, types.ErrAccountEmpty
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving credentials: %w", err)
	}
	client, err := azblob.NewClient(cfg.AccountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return client, nil
}

// SetUserID changes the identity the store resolves. Intended for tests
// that exercise multi-user or missing-identity behavior.
func (s *Store) SetUserID(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

// Close marks the store closed. Idempotent; operations after Close return
// ErrStoreClosed. The blob client holds no connection that needs closing.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// CurrentUserID implements types.Service.
func (s *Store) CurrentUserID(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", types.ErrStoreClosed
	}
	return s.userID, nil
}

// container returns the container name for scope. The caller must hold mu.
func (s *Store) container(scope types.Scope) (string, error) {
	if s.closed {
		return "", types.ErrStoreClosed
	}
	name, ok := s.containers[scope]
	if !ok {
		return "", types.ErrUnknownScope
	}
	return name, nil
}

// blobName is the blob key for a record identifier.
func blobName(id string) string {
	return id + ".json"
}

// metadataValue looks up a blob metadata key case-insensitively.
func metadataValue(md map[string]*string, key string) string {
	for k, v := range md {
		if strings.EqualFold(k, key) && v != nil {
			return *v
		}
	}
	return ""
}

// newID returns a time-ordered UUID v7 string.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
