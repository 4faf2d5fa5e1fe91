// Package registry keeps the in-memory index of commands consistent with the
// store and announces every change to subscribers.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/VoxDroid/hotcmd/internal/command"
	"github.com/VoxDroid/hotcmd/internal/nameutil"
	"github.com/VoxDroid/hotcmd/internal/search"
	"github.com/VoxDroid/hotcmd/internal/storage"
)

// Manager owns the command index. Index reads and writes are guarded by a
// mutex; store calls for one ID are serialised so overlapping Create, Save,
// Delete and ReloadOne on the same command cannot interleave.
type Manager struct {
	store    storage.Store
	strategy search.Strategy
	log      *slog.Logger
	deps     command.Deps

	mu       sync.Mutex
	index    map[uuid.UUID]command.Command
	order    []uuid.UUID
	observed map[*command.Descriptor]bool
	subs     []subscriber
	nextSub  int

	keys keyLocks
}

// Option configures a Manager.
type Option func(*Manager)

// WithStrategy sets the matcher used by Search.
func WithStrategy(s search.Strategy) Option {
	return func(m *Manager) {
		if s != nil {
			m.strategy = s
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithDeps sets the collaborators handed to commands rebuilt from the store.
// A nil Resolver is replaced by the Manager itself.
func WithDeps(d command.Deps) Option {
	return func(m *Manager) { m.deps = d }
}

// New creates a Manager over store.
func New(store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		strategy: search.Default,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		index:    map[uuid.UUID]command.Command{},
		observed: map[*command.Descriptor]bool{},
	}
	for _, o := range opts {
		o(m)
	}
	if m.deps.Resolver == nil {
		m.deps.Resolver = m
	}
	return m
}

// Deps returns the collaborators used to build commands, for callers that
// construct commands before Create.
func (m *Manager) Deps() command.Deps { return m.deps }

// Strategy returns the matcher used by Search.
func (m *Manager) Strategy() search.Strategy { return m.strategy }

// Register adds cmd to the index. Registering the same command twice is a
// no-op; a different command with an already indexed ID replaces it.
func (m *Manager) Register(cmd command.Command) {
	if cmd == nil {
		return
	}
	m.mu.Lock()
	changed := m.add(cmd)
	m.mu.Unlock()
	if changed {
		m.emit(event(Registered, cmd))
	}
}

// add indexes cmd and reports whether the index changed. Caller holds m.mu.
func (m *Manager) add(cmd command.Command) bool {
	d := cmd.Descriptor()
	if !m.observed[d] {
		m.observed[d] = true
		d.Observe(func(ch command.Change) { m.descriptorChanged(cmd, ch.Field) })
	}
	id := d.ID()
	if cur, ok := m.index[id]; ok {
		if cur == cmd {
			return false
		}
		m.index[id] = cmd
		return true
	}
	m.index[id] = cmd
	m.order = append(m.order, id)
	return true
}

// descriptorChanged fires Changed while cmd is still indexed under its ID.
// ID changes are left to the operation that made them.
func (m *Manager) descriptorChanged(cmd command.Command, field string) {
	if field == command.FieldID {
		return
	}
	id := cmd.Descriptor().ID()
	m.mu.Lock()
	cur, ok := m.index[id]
	m.mu.Unlock()
	if ok && cur == cmd {
		m.emit(Event{Type: Changed, ID: id, Command: cmd, Field: field})
	}
}

// remove drops id from the index. Caller holds m.mu.
func (m *Manager) remove(id uuid.UUID) (command.Command, bool) {
	cmd, ok := m.index[id]
	if !ok {
		return nil, false
	}
	delete(m.index, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return cmd, true
}

// Get returns the command with id.
func (m *Manager) Get(id uuid.UUID) (command.Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.index[id]
	return c, ok
}

// All returns the commands passing f in registration order.
func (m *Manager) All(f search.Filter) []command.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]command.Command, 0, len(m.order))
	for _, id := range m.order {
		if c := m.index[id]; f.Allows(c) {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of indexed commands.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// Search matches term with the configured strategy.
func (m *Manager) Search(term string, f search.Filter) []search.Result {
	return m.SearchWith(nil, term, f)
}

// SearchWith matches term with s, or the configured strategy when s is nil.
func (m *Manager) SearchWith(s search.Strategy, term string, f search.Filter) []search.Result {
	if s == nil {
		s = m.strategy
	}
	return s.Search(m.All(search.Filter{IncludeDisabled: true}), term, f)
}

// Find resolves ref as an ID, or else as a case-insensitive exact name.
func (m *Manager) Find(ref string) (command.Command, bool) {
	if id, err := uuid.Parse(strings.TrimSpace(ref)); err == nil {
		return m.Get(id)
	}
	for _, c := range m.All(search.Filter{IncludeDisabled: true}) {
		if strings.EqualFold(c.Descriptor().Name(), strings.TrimSpace(ref)) {
			return c, true
		}
	}
	return nil, false
}

func internalFailure(cmd command.Command) error {
	return storage.Fail(fmt.Sprintf("%q is an internal command", cmd.Descriptor().Name()), storage.ErrInternalCommand)
}

// Create assigns cmd a fresh ID, persists it and registers it. On failure
// the index is untouched and the descriptor keeps its previous ID.
func (m *Manager) Create(ctx context.Context, cmd command.Command) error {
	if cmd.Internal() {
		return internalFailure(cmd)
	}
	d := cmd.Descriptor()
	if err := nameutil.ValidateName(d.Name()); err != nil {
		return storage.Fail("create", err)
	}
	prev := d.ID()
	id := uuid.New()
	unlock := m.keys.lock(id)
	defer unlock()

	d.SetID(id)
	rec, err := command.ToRecord(cmd)
	if err == nil {
		err = m.store.Save(ctx, rec)
	}
	if err != nil {
		d.SetID(prev)
		m.log.Warn("create failed", "name", d.Name(), "err", err)
		return err
	}
	m.mu.Lock()
	if cur, ok := m.index[prev]; ok && cur == cmd {
		m.remove(prev)
	}
	m.add(cmd)
	m.mu.Unlock()
	m.emit(event(Created, cmd))
	return nil
}

// Save persists the command with id.
func (m *Manager) Save(ctx context.Context, id uuid.UUID) error {
	cmd, ok := m.Get(id)
	if !ok {
		return storage.Fail("save "+id.String(), storage.ErrNotFound)
	}
	if cmd.Internal() {
		return internalFailure(cmd)
	}
	unlock := m.keys.lock(id)
	defer unlock()
	rec, err := command.ToRecord(cmd)
	if err != nil {
		return storage.Fail("save", err)
	}
	if err := m.store.Save(ctx, rec); err != nil {
		m.log.Warn("save failed", "id", id, "err", err)
		return err
	}
	m.emit(event(Saved, cmd))
	return nil
}

// SaveAll persists every non-internal command. Saved fires for each command
// only when the whole batch succeeds.
func (m *Manager) SaveAll(ctx context.Context) error {
	cmds := m.All(search.Filter{ExcludeInternal: true, IncludeDisabled: true})
	recs := make([]command.Record, 0, len(cmds))
	for _, c := range cmds {
		rec, err := command.ToRecord(c)
		if err != nil {
			return storage.Fail("save all", err)
		}
		recs = append(recs, rec)
	}
	if err := m.store.SaveMany(ctx, recs); err != nil {
		m.log.Warn("save all failed", "err", err)
		return err
	}
	events := make([]Event, 0, len(cmds))
	for _, c := range cmds {
		events = append(events, event(Saved, c))
	}
	m.emit(events...)
	return nil
}

// Delete removes the command with id from the store and the index. Deleting
// an ID that is not registered succeeds and fires nothing.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, ok := m.Get(id)
	if !ok {
		return nil
	}
	if cmd.Internal() {
		return internalFailure(cmd)
	}
	unlock := m.keys.lock(id)
	defer unlock()
	if err := m.store.Delete(ctx, id); err != nil {
		m.log.Warn("delete failed", "id", id, "err", err)
		return err
	}
	m.mu.Lock()
	_, removed := m.remove(id)
	m.mu.Unlock()
	if removed {
		m.emit(Event{Type: Deleted, ID: id})
	}
	return nil
}

// DeleteAll deletes every stored command. When the store fails for some
// items, only those stay indexed and a *storage.BatchError is returned.
// Internal commands are never touched.
func (m *Manager) DeleteAll(ctx context.Context) error {
	err := m.store.DeleteAll(ctx)
	var be *storage.BatchError
	if err != nil && !errors.As(err, &be) {
		m.log.Warn("delete all failed", "err", err)
		return err
	}
	var events []Event
	m.mu.Lock()
	for _, id := range append([]uuid.UUID(nil), m.order...) {
		if c := m.index[id]; c.Internal() || be.Failed(id) {
			continue
		}
		m.remove(id)
		events = append(events, Event{Type: Deleted, ID: id})
	}
	m.mu.Unlock()
	m.emit(events...)
	if err != nil {
		m.log.Warn("delete all partially failed", "failed", len(be.Items))
	}
	return err
}

// Load registers every command the store can load and fires Loaded for each.
// Records that cannot be rebuilt are logged and skipped.
func (m *Manager) Load(ctx context.Context) error {
	recs, err := m.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	var events []Event
	for _, r := range recs {
		cmd, err := command.FromRecord(r, m.deps)
		if err != nil {
			m.log.Warn("skipping stored command", "id", r.ID, "err", err)
			continue
		}
		m.mu.Lock()
		m.add(cmd)
		m.mu.Unlock()
		events = append(events, event(Loaded, cmd))
	}
	m.emit(events...)
	m.log.Debug("loaded commands", "count", len(events))
	return nil
}

// Reload drops every non-internal command, disabled ones included, then
// loads again.
func (m *Manager) Reload(ctx context.Context) error {
	m.mu.Lock()
	for _, id := range append([]uuid.UUID(nil), m.order...) {
		if !m.index[id].Internal() {
			m.remove(id)
		}
	}
	m.mu.Unlock()
	return m.Load(ctx)
}

// ReloadOne drops the command with id and loads it again. Loaded fires only
// when the load succeeds; otherwise the command stays out of the index.
func (m *Manager) ReloadOne(ctx context.Context, id uuid.UUID) error {
	unlock := m.keys.lock(id)
	defer unlock()
	m.mu.Lock()
	if c, ok := m.index[id]; ok && c.Internal() {
		m.mu.Unlock()
		return internalFailure(c)
	}
	m.remove(id)
	m.mu.Unlock()

	rec, err := m.store.Load(ctx, id)
	if err != nil {
		return err
	}
	cmd, err := command.FromRecord(rec, m.deps)
	if err != nil {
		return storage.Fail("reload "+id.String(), err)
	}
	m.mu.Lock()
	m.add(cmd)
	m.mu.Unlock()
	m.emit(event(Loaded, cmd))
	return nil
}
