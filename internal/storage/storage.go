// Package storage persists command records and describes how persistence
// fails, so the registry can apply partial results.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/VoxDroid/hotcmd/internal/command"
)

var (
	// ErrNotFound reports a key with no stored record.
	ErrNotFound = errors.New("not found")
	// ErrInternalCommand reports an attempt to persist an internal command.
	ErrInternalCommand = errors.New("internal commands cannot be persisted")
	// ErrUnsupported is returned by stores that do not implement an operation.
	ErrUnsupported = errors.New("operation not supported")
)

// Store is the persistence collaborator of the registry. Records are keyed
// by command ID.
type Store interface {
	Load(ctx context.Context, id uuid.UUID) (command.Record, error)
	Save(ctx context.Context, rec command.Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	LoadAll(ctx context.Context) ([]command.Record, error)
	SaveMany(ctx context.Context, recs []command.Record) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) error
	DeleteAll(ctx context.Context) error
}

// Failure is a persistence failure: a readable reason and/or a cause.
type Failure struct {
	Reason string
	Err    error
}

// Fail builds a Failure.
func Fail(reason string, err error) *Failure {
	return &Failure{Reason: reason, Err: err}
}

func (f *Failure) Error() string {
	switch {
	case f.Reason != "" && f.Err != nil:
		return f.Reason + ": " + f.Err.Error()
	case f.Reason != "":
		return f.Reason
	case f.Err != nil:
		return f.Err.Error()
	}
	return "storage failure"
}

func (f *Failure) Unwrap() error { return f.Err }

// ItemFailure names the record a bulk operation failed on.
type ItemFailure struct {
	ID      uuid.UUID
	Failure *Failure
}

// BatchError is returned by bulk operations that failed for some items.
// Items not listed succeeded.
type BatchError struct {
	Items []ItemFailure
}

func (b *BatchError) Error() string {
	parts := make([]string, 0, len(b.Items))
	for _, it := range b.Items {
		parts = append(parts, fmt.Sprintf("%s: %v", it.ID, it.Failure))
	}
	return fmt.Sprintf("%d item(s) failed: %s", len(b.Items), strings.Join(parts, "; "))
}

// Unwrap exposes the item failures to errors.Is and errors.As.
func (b *BatchError) Unwrap() []error {
	out := make([]error, 0, len(b.Items))
	for _, it := range b.Items {
		out = append(out, it.Failure)
	}
	return out
}

// Failed reports whether id is one of the failed items.
func (b *BatchError) Failed(id uuid.UUID) bool {
	if b == nil {
		return false
	}
	for _, it := range b.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// Add records a failure for id.
func (b *BatchError) Add(id uuid.UUID, err error) {
	var f *Failure
	if !errors.As(err, &f) {
		f = Fail("", err)
	}
	b.Items = append(b.Items, ItemFailure{ID: id, Failure: f})
}

// OrNil returns b when it holds failures and nil otherwise.
func (b *BatchError) OrNil() error {
	if b == nil || len(b.Items) == 0 {
		return nil
	}
	return b
}

// loadKeys loads every key concurrently and keeps the successful loads in
// key order. A failed load is dropped without affecting the others.
func loadKeys(ctx context.Context, keys []uuid.UUID, load func(context.Context, uuid.UUID) (command.Record, error)) []command.Record {
	slots := make([]*command.Record, len(keys))
	var g errgroup.Group
	for i, id := range keys {
		g.Go(func() error {
			rec, err := load(ctx, id)
			if err == nil {
				slots[i] = &rec
			}
			return nil
		})
	}
	_ = g.Wait()
	out := make([]command.Record, 0, len(keys))
	for _, r := range slots {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
