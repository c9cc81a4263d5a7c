package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Query implements types.Service. The blob listing carries metadata, so
// type and creator filtering happens before any record body is
// downloaded; matching blobs download in parallel.
func (s *Store) Query(ctx context.Context, scope types.Scope, recordType string, q types.Query) ([]*types.Record, error) {
	if recordType == "" {
		return nil, types.ErrEmptyType
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	container, err := s.container(scope)
	if err != nil {
		return nil, err
	}

	pager := s.client.NewListBlobsFlatPager(container, &azblob.ListBlobsFlatOptions{
		Include: azblob.ListBlobsInclude{Metadata: true},
	})
	var names []string
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing records: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			if metadataValue(item.Metadata, metaRecordType) != recordType {
				continue
			}
			if q.CreatorID != "" && metadataValue(item.Metadata, metaCreatorID) != q.CreatorID {
				continue
			}
			names = append(names, *item.Name)
		}
	}

	fetched := make([]*types.Record, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadConcurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			rec, err := s.download(gctx, container, name)
			if err != nil {
				return err
			}
			fetched[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Blobs deleted between listing and download leave nil slots.
	results := []*types.Record{}
	for _, rec := range fetched {
		if rec != nil {
			results = append(results, rec)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt().Equal(results[j].CreatedAt()) {
			return results[i].CreatedAt().Before(results[j].CreatedAt())
		}
		return results[i].ID() < results[j].ID()
	})
	return results, nil
}

// Fetch implements types.Service.
func (s *Store) Fetch(ctx context.Context, scope types.Scope, id string) (*types.Record, error) {
	if id == "" {
		return nil, types.ErrEmptyID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	container, err := s.container(scope)
	if err != nil {
		return nil, err
	}
	return s.download(ctx, container, blobName(id))
}

// Save implements types.Service. A record without an identifier is
// inserted under a new UUID v7; a record carrying one is upserted,
// preserving the stored creator and creation time.
func (s *Store) Save(ctx context.Context, scope types.Scope, rec *types.Record) (*types.Record, error) {
	if rec == nil {
		return nil, types.ErrNilRecord
	}
	if rec.Type() == "" {
		return nil, types.ErrEmptyType
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	container, err := s.container(scope)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := rec.ID()
	creator := s.userID
	createdAt := now
	if id == "" {
		id = newID()
	} else {
		existing, err := s.download(ctx, container, blobName(id))
		if err != nil {
			return nil, err
		}
		if existing != nil {
			creator = existing.CreatorID()
			createdAt = existing.CreatedAt()
		}
	}

	stored := types.Restore(id, rec.Type(), creator, createdAt, now, rec.Fields())
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encoding record %s: %w", id, err)
	}

	md := map[string]*string{metaRecordType: to.Ptr(stored.Type())}
	if creator != "" {
		md[metaCreatorID] = to.Ptr(creator)
	}
	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr("application/json")},
		Metadata:    md,
	}
	if _, err := s.client.UploadStream(ctx, container, blobName(id), bytes.NewReader(data), opts); err != nil {
		return nil, fmt.Errorf("uploading record %s: %w", id, err)
	}
	s.logger.Debug("record saved", "scope", scope, "type", stored.Type(), "id", id)
	return stored, nil
}

// Delete implements types.Service.
func (s *Store) Delete(ctx context.Context, scope types.Scope, id string) (string, error) {
	if id == "" {
		return "", types.ErrEmptyID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	container, err := s.container(scope)
	if err != nil {
		return "", err
	}

	if _, err := s.client.DeleteBlob(ctx, container, blobName(id), nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("deleting record %s: %w", id, err)
	}
	s.logger.Debug("record deleted", "scope", scope, "id", id)
	return id, nil
}

// download reads and decodes one record blob. Returns nil without error
// when the blob no longer exists.
func (s *Store) download(ctx context.Context, container, name string) (*types.Record, error) {
	resp, err := s.client.DownloadStream(ctx, container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("downloading record %s: %w", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", name, err)
	}
	var rec types.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing record %s: %w", name, err)
	}
	return &rec, nil
}
