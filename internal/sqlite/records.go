package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// recordColumns is the column list every record SELECT uses, in the order
// scanRecord expects.
const recordColumns = "record_id, record_type, creator_id, created_at, updated_at, fields"

// timeLayout is RFC 3339 with fixed nanosecond width. Fixed width keeps
// lexicographic order on the created_at column chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
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

// Query implements types.Service.
func (s *Store) Query(ctx context.Context, scope types.Scope, recordType string, q types.Query) ([]*types.Record, error) {
	if recordType == "" {
		return nil, types.ErrEmptyType
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn(scope)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + recordColumns + " FROM records WHERE scope = ? AND record_type = ?"
	args := []any{string(scope), recordType}
	if q.CreatorID != "" {
		query += " AND creator_id = ?"
		args = append(args, q.CreatorID)
	}
	query += " ORDER BY created_at, record_id"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	results := []*types.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	return results, nil
}

// Fetch implements types.Service.
func (s *Store) Fetch(ctx context.Context, scope types.Scope, id string) (*types.Record, error) {
	if id == "" {
		return nil, types.ErrEmptyID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn(scope)
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE scope = ? AND record_id = ?",
		string(scope), id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
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
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn(scope)
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
		var storedCreator, storedCreated string
		err := db.QueryRowContext(ctx,
			"SELECT creator_id, created_at FROM records WHERE scope = ? AND record_id = ?",
			string(scope), id).Scan(&storedCreator, &storedCreated)
		switch {
		case err == nil:
			creator = storedCreator
			createdAt, err = time.Parse(time.RFC3339Nano, storedCreated)
			if err != nil {
				return nil, fmt.Errorf("parsing record created_at: %w", err)
			}
		case errors.Is(err, sql.ErrNoRows):
			// Insert under the caller-supplied identifier.
		default:
			return nil, fmt.Errorf("checking record: %w", err)
		}
	}

	fieldsJSON, err := json.Marshal(rec.Fields())
	if err != nil {
		return nil, fmt.Errorf("marshaling record fields: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO records (scope, record_id, record_type, creator_id, created_at, updated_at, fields)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(scope, record_id) DO UPDATE SET
			record_type = excluded.record_type,
			updated_at = excluded.updated_at,
			fields = excluded.fields`,
		string(scope), id, rec.Type(), creator,
		createdAt.Format(timeLayout),
		now.Format(timeLayout),
		string(fieldsJSON))
	if err != nil {
		return nil, fmt.Errorf("upserting record: %w", err)
	}

	return types.Restore(id, rec.Type(), creator, createdAt, now, rec.Fields()), nil
}

// Delete implements types.Service.
func (s *Store) Delete(ctx context.Context, scope types.Scope, id string) (string, error) {
	if id == "" {
		return "", types.ErrEmptyID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn(scope)
	if err != nil {
		return "", err
	}

	res, err := db.ExecContext(ctx,
		"DELETE FROM records WHERE scope = ? AND record_id = ?", string(scope), id)
	if err != nil {
		return "", fmt.Errorf("deleting record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("deleting record: %w", err)
	}
	if n == 0 {
		return "", nil
	}
	return id, nil
}

// scanRecord builds a Record from a row holding recordColumns.
func scanRecord(row scanner) (*types.Record, error) {
	var id, recordType, creatorID, createdAt, updatedAt, fieldsJSON string
	if err := row.Scan(&id, &recordType, &creatorID, &createdAt, &updatedAt, &fieldsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing record created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing record updated_at: %w", err)
	}
	var fields map[string]types.Value
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return nil, fmt.Errorf("parsing record fields: %w", err)
	}
	return types.Restore(id, recordType, creatorID, created, updated, fields), nil
}
