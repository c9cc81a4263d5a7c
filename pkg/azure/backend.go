// Package azure provides the public constructor for the Azure Blob
// Storage record Service while keeping the implementation internal.
package azure

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/pantry/internal/azure"
	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Store is an Azure-blob-backed types.Service.
type Store = azure.Store

// Open creates the blob client, ensures both scope containers exist, and
// returns a ready Store. A nil logger falls back to slog.Default.
//
// Example:
//
//	svc, err := azure.Open(ctx, types.Config{
//	    Backend: types.BackendAzure,
//	    UserID:  "ana",
//	    Azure: types.AzureConfig{
//	        AccountURL:       "https://myaccount.blob.core.windows.net",
//	        PrivateContainer: types.DefaultPrivateContainer,
//	        PublicContainer:  types.DefaultPublicContainer,
//	    },
//	}, nil)
//	defer svc.Close()
func Open(ctx context.Context, cfg types.Config, logger *slog.Logger) (*Store, error) {
	return azure.Open(ctx, cfg, logger)
}
