package link_test

import (
	"context"
	"errors"

	"github.com/tatavachnadze/URL-Shortener/internal/link"
	"github.com/tatavachnadze/URL-Shortener/internal/store"
)

var errMock = errors.New("mock store error")

// failingStore delegates to an in-memory store but lets tests inject
// failures per operation.
type failingStore struct {
	*store.MemoryStore

	getErr        error
	createErr     error
	existsErr     error
	incrementErr  error
	appendErr     error
	deactivateErr map[string]error
}

func newFailingStore() *failingStore {
	return &failingStore{MemoryStore: store.NewMemoryStore()}
}

func (f *failingStore) Get(ctx context.Context, code string) (*link.ShortLink, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	return f.MemoryStore.Get(ctx, code)
}

func (f *failingStore) Create(ctx context.Context, l *link.ShortLink) error {
	if f.createErr != nil {
		return f.createErr
	}

	return f.MemoryStore.Create(ctx, l)
}

func (f *failingStore) Exists(ctx context.Context, code string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}

	return f.MemoryStore.Exists(ctx, code)
}

func (f *failingStore) IncrementClickCount(ctx context.Context, code string) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}

	return f.MemoryStore.IncrementClickCount(ctx, code)
}

func (f *failingStore) AppendClickEvent(ctx context.Context, event *link.ClickEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}

	return f.MemoryStore.AppendClickEvent(ctx, event)
}

func (f *failingStore) Deactivate(ctx context.Context, code string) error {
	if err, ok := f.deactivateErr[code]; ok {
		return err
	}

	return f.MemoryStore.Deactivate(ctx, code)
}
