package documents

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

// Serialized runs every call of the wrapped Store under one mutex. The
// memory and file stores do read-modify-write without locking, so they are
// wrapped with it before being shared between request goroutines.
type Serialized struct {
	mu    sync.Mutex
	inner Store
}

func NewSerialized(inner Store) *Serialized {
	return &Serialized{inner: inner}
}

func (s *Serialized) List(ctx context.Context, owner string) ([]*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.List(ctx, owner)
}

func (s *Serialized) Create(ctx context.Context, in models.DocumentInput) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Create(ctx, in)
}

func (s *Serialized) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.GetByID(ctx, id)
}

func (s *Serialized) Update(ctx context.Context, id int64, patch models.DocumentPatch) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Update(ctx, id, patch)
}

func (s *Serialized) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Delete(ctx, id)
}

func (s *Serialized) ListVersions(ctx context.Context, id int64) ([]*models.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListVersions(ctx, id)
}

func (s *Serialized) CreateNotebook(ctx context.Context, name string, owner *string) (*models.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.CreateNotebook(ctx, name, owner)
}

func (s *Serialized) ListNotebooks(ctx context.Context, owner string) ([]*models.Notebook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListNotebooks(ctx, owner)
}

func (s *Serialized) DeleteNotebook(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.DeleteNotebook(ctx, id)
}

func (s *Serialized) CreateSectionGroup(ctx context.Context, notebookID int64, name string) (*models.SectionGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.CreateSectionGroup(ctx, notebookID, name)
}

func (s *Serialized) ListSectionGroups(ctx context.Context, notebookID int64) ([]*models.SectionGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListSectionGroups(ctx, notebookID)
}

func (s *Serialized) DeleteSectionGroup(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.DeleteSectionGroup(ctx, id)
}

func (s *Serialized) CreateSection(ctx context.Context, notebookID int64, sectionGroupID *int64, name string) (*models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.CreateSection(ctx, notebookID, sectionGroupID, name)
}

func (s *Serialized) ListSections(ctx context.Context, notebookID int64) ([]*models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.ListSections(ctx, notebookID)
}

func (s *Serialized) DeleteSection(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.DeleteSection(ctx, id)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLStore)(nil)
	_ Store = (*Serialized)(nil)
)
