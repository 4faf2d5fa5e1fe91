package registry

import (
	"context"

	"github.com/google/uuid"

	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/storage"
)

// Versioned is implemented by stores that keep a history of every write.
type Versioned interface {
	Versions(ctx context.Context, id uuid.UUID) ([]storage.Version, error)
	Rollback(ctx context.Context, id uuid.UUID, version int) (command.Record, error)
}

// History returns the stored versions of id, newest first.
func (m *Manager) History(ctx context.Context, id uuid.UUID) ([]storage.Version, error) {
	v, ok := m.store.(Versioned)
	if !ok {
		return nil, storage.Fail("history", storage.ErrUnsupported)
	}
	return v.Versions(ctx, id)
}

// Rollback restores version of id in the store and reloads it into the
// index. A deleted command can be brought back this way.
func (m *Manager) Rollback(ctx context.Context, id uuid.UUID, version int) error {
	v, ok := m.store.(Versioned)
	if !ok {
		return storage.Fail("rollback", storage.ErrUnsupported)
	}
	if c, ok := m.Get(id); ok && c.Internal() {
		return internalFailure(c)
	}
	unlock := m.keys.lock(id)
	_, err := v.Rollback(ctx, id, version)
	unlock()
	if err != nil {
		return err
	}
	return m.ReloadOne(ctx, id)
}
