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

// SQLStore keeps records in the SQLite database opened by package db. The
// kind specific configuration is stored as a JSON object.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a store over db. The schema must already be applied.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Close closes the underlying DB connection.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const selectRecord = `SELECT id, kind, name, description, enabled, config FROM commands`

func scanRecord(row interface{ Scan(...any) error }) (command.Record, error) {
	var (
		r       command.Record
		id      string
		kind    string
		enabled int
		cfgJSON string
	)
	if err := row.Scan(&id, &kind, &r.Name, &r.Description, &enabled, &cfgJSON); err != nil {
		return command.Record{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return command.Record{}, fmt.Errorf("bad id %q: %w", id, err)
	}
	r.ID = parsed
	r.Kind = command.Kind(kind)
	r.Enabled = enabled != 0
	if err := json.Unmarshal([]byte(cfgJSON), &r.Config); err != nil {
		return command.Record{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return r, nil
}

func (s *SQLStore) Load(ctx context.Context, id uuid.UUID) (command.Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+" WHERE id = ?", id.String())
	r, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return command.Record{}, Fail("load "+id.String(), ErrNotFound)
		}
		return command.Record{}, Fail("load "+id.String(), err)
	}
	return r, nil
}

func (s *SQLStore) Save(ctx context.Context, rec command.Record) error {
	if err := s.save(ctx, rec, ""); err != nil {
		return Fail("save "+rec.Name, err)
	}
	return nil
}

// save upserts rec and snapshots it in the same transaction. An empty op is
// derived from whether the row already existed.
func (s *SQLStore) save(ctx context.Context, rec command.Record, op string) error {
	if rec.ID == uuid.Nil {
		return fmt.Errorf("record has no id")
	}
	cfg := rec.Config
	if cfg == nil {
		cfg = command.Config{}
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	trx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = trx.Rollback() }()

	if op == "" {
		op = OpCreate
		var n int
		if err := trx.QueryRowContext(ctx, "SELECT count(*) FROM commands WHERE id = ?", rec.ID.String()).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			op = OpUpdate
		}
	}
	_, err = trx.ExecContext(ctx, `INSERT INTO commands (id, kind, name, description, enabled, config, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))
		ON CONFLICT(id) DO UPDATE SET kind = excluded.kind, name = excluded.name, description = excluded.description,
			enabled = excluded.enabled, config = excluded.config, updated_at = datetime('now')`,
		rec.ID.String(), string(rec.Kind), rec.Name, rec.Description, boolInt(rec.Enabled), string(cfgJSON))
	if err != nil {
		return fmt.Errorf("upsert command: %w", err)
	}
	if err := recordVersionTx(ctx, trx, rec, op); err != nil {
		return err
	}
	return trx.Commit()
}

func (s *SQLStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.delete(ctx, id); err != nil {
		return Fail("delete "+id.String(), err)
	}
	return nil
}

func (s *SQLStore) delete(ctx context.Context, id uuid.UUID) error {
	trx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = trx.Rollback() }()
	r, err := scanRecord(trx.QueryRowContext(ctx, selectRecord+" WHERE id = ?", id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := trx.ExecContext(ctx, "DELETE FROM commands WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("delete command: %w", err)
	}
	if err := recordVersionTx(ctx, trx, r, OpDelete); err != nil {
		return err
	}
	return trx.Commit()
}

// Keys returns the IDs of every stored command ordered by name.
func (s *SQLStore) Keys(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM commands ORDER BY name COLLATE NOCASE, id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *SQLStore) LoadAll(ctx context.Context) ([]command.Record, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, Fail("list commands", err)
	}
	return loadKeys(ctx, keys, s.Load), nil
}

func (s *SQLStore) SaveMany(ctx context.Context, recs []command.Record) error {
	be := &BatchError{}
	for _, r := range recs {
		if err := s.Save(ctx, r); err != nil {
			be.Add(r.ID, err)
		}
	}
	return be.OrNil()
}

func (s *SQLStore) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	be := &BatchError{}
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			be.Add(id, err)
		}
	}
	return be.OrNil()
}

func (s *SQLStore) DeleteAll(ctx context.Context) error {
	keys, err := s.Keys(ctx)
	if err != nil {
		return Fail("list commands", err)
	}
	return s.DeleteMany(ctx, keys)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
