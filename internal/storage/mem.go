package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/VoxDroid/hotcmd/internal/command"
)

// MemStore keeps records in memory. Individual keys can be made to fail,
// which is how tests exercise partial failures.
type MemStore struct {
	mu     sync.Mutex
	recs   map[uuid.UUID]command.Record
	fail   map[uuid.UUID]error
	noBulk bool
	// Calls counts per-key store operations.
	Calls int
}

// NewMemStore returns an empty store.
func NewMemStore(recs ...command.Record) *MemStore {
	m := &MemStore{recs: map[uuid.UUID]command.Record{}, fail: map[uuid.UUID]error{}}
	for _, r := range recs {
		m.recs[r.ID] = r
	}
	return m
}

// FailOn makes every operation touching id fail with err. A nil err clears it.
func (m *MemStore) FailOn(id uuid.UUID, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, id)
		return
	}
	m.fail[id] = err
}

// DisableBulk makes SaveMany, DeleteMany and DeleteAll report ErrUnsupported.
func (m *MemStore) DisableBulk() {
	m.mu.Lock()
	m.noBulk = true
	m.mu.Unlock()
}

// Has reports whether a record for id is stored.
func (m *MemStore) Has(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.recs[id]
	return ok
}

// Len returns the number of stored records.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

func (m *MemStore) check(id uuid.UUID) error {
	m.Calls++
	if err := m.fail[id]; err != nil {
		return Fail("injected failure", err)
	}
	return nil
}

func (m *MemStore) Load(_ context.Context, id uuid.UUID) (command.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(id); err != nil {
		return command.Record{}, err
	}
	r, ok := m.recs[id]
	if !ok {
		return command.Record{}, Fail("load "+id.String(), ErrNotFound)
	}
	r.Config = r.Config.Clone()
	return r, nil
}

func (m *MemStore) Save(_ context.Context, rec command.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(rec.ID); err != nil {
		return err
	}
	rec.Config = rec.Config.Clone()
	m.recs[rec.ID] = rec
	return nil
}

func (m *MemStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(id); err != nil {
		return err
	}
	delete(m.recs, id)
	return nil
}

func (m *MemStore) keys() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]uuid.UUID, 0, len(m.recs))
	for id := range m.recs {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

func (m *MemStore) LoadAll(ctx context.Context) ([]command.Record, error) {
	return loadKeys(ctx, m.keys(), m.Load), nil
}

func (m *MemStore) SaveMany(ctx context.Context, recs []command.Record) error {
	if m.bulkDisabled() {
		return Fail("save many", ErrUnsupported)
	}
	be := &BatchError{}
	for _, r := range recs {
		if err := m.Save(ctx, r); err != nil {
			be.Add(r.ID, err)
		}
	}
	return be.OrNil()
}

func (m *MemStore) DeleteMany(ctx context.Context, ids []uuid.UUID) error {
	if m.bulkDisabled() {
		return Fail("delete many", ErrUnsupported)
	}
	be := &BatchError{}
	for _, id := range ids {
		if err := m.Delete(ctx, id); err != nil {
			be.Add(id, err)
		}
	}
	return be.OrNil()
}

func (m *MemStore) DeleteAll(ctx context.Context) error {
	return m.DeleteMany(ctx, m.keys())
}

func (m *MemStore) bulkDisabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.noBulk
}
