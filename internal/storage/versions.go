package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/VoxDroid/hotcmd/internal/command"
)

// Operations recorded in the version history.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpRollback = "rollback"
)

// Version is a saved snapshot of a command.
type Version struct {
	CommandID uuid.UUID
	Version   int
	CreatedAt string
	Operation string
	Record    command.Record
}

// recordVersionTx appends a snapshot of rec using the provided transaction.
func recordVersionTx(ctx context.Context, trx *sql.Tx, rec command.Record, op string) error {
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var maxVersion sql.NullInt64
	row := trx.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM command_versions WHERE command_id = ?", rec.ID.String())
	if err := row.Scan(&maxVersion); err != nil {
		return err
	}
	_, err = trx.ExecContext(ctx, `INSERT INTO command_versions (command_id, version, created_at, operation, record)
		VALUES (?, ?, datetime('now'), ?, ?)`, rec.ID.String(), int(maxVersion.Int64)+1, op, string(recJSON))
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}

// Versions returns the history of id, newest first.
func (s *SQLStore) Versions(ctx context.Context, id uuid.UUID) ([]Version, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version, created_at, operation, record
		FROM command_versions WHERE command_id = ? ORDER BY version DESC`, id.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Version
	for rows.Next() {
		v, err := scanVersion(rows, id)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Version returns one snapshot of id.
func (s *SQLStore) Version(ctx context.Context, id uuid.UUID, version int) (Version, error) {
	row := s.db.QueryRowContext(ctx, `SELECT version, created_at, operation, record
		FROM command_versions WHERE command_id = ? AND version = ?`, id.String(), version)
	v, err := scanVersion(row, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Version{}, Fail(fmt.Sprintf("version %d of %s", version, id), ErrNotFound)
	}
	return v, err
}

// Rollback stores the snapshot at version as the current record and
// records the write as a rollback. Rolling back a deleted command restores it.
func (s *SQLStore) Rollback(ctx context.Context, id uuid.UUID, version int) (command.Record, error) {
	v, err := s.Version(ctx, id, version)
	if err != nil {
		return command.Record{}, err
	}
	if err := s.save(ctx, v.Record, OpRollback); err != nil {
		return command.Record{}, Fail("rollback "+id.String(), err)
	}
	return v.Record, nil
}

func scanVersion(row interface{ Scan(...any) error }, id uuid.UUID) (Version, error) {
	v := Version{CommandID: id}
	var recJSON string
	if err := row.Scan(&v.Version, &v.CreatedAt, &v.Operation, &recJSON); err != nil {
		return Version{}, err
	}
	if err := json.Unmarshal([]byte(recJSON), &v.Record); err != nil {
		return Version{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return v, nil
}
