package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/snapshot"
)

// FileStore is a MemoryStore whose whole state is rewritten to a snapshot
// sink after every mutation. When the write fails the in-memory state is
// rolled back, so memory and disk never disagree.
type FileStore struct {
	mem  *MemoryStore
	sink snapshot.Sink
}

// OpenFileStore loads the snapshot from sink. A missing snapshot starts an
// empty store.
func OpenFileStore(ctx context.Context, sink snapshot.Sink) (*FileStore, error) {
	raw, err := sink.Load(ctx)
	if err != nil {
		return nil, common.NewPersistenceError("load snapshot", err)
	}

	st, err := decodeState(raw)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", sink.Location(), err)
	}

	mem := NewMemoryStore()
	mem.st = st
	return &FileStore{mem: mem, sink: sink}, nil
}

// mutate runs fn against the memory state and persists the result.
func (f *FileStore) mutate(ctx context.Context, op string, fn func() error) error {
	prev := f.mem.st.clone()

	if err := fn(); err != nil {
		f.mem.st = prev
		return err
	}

	data, err := json.MarshalIndent(f.mem.st, "", "  ")
	if err == nil {
		err = f.sink.Save(ctx, data)
	}
	if err != nil {
		f.mem.st = prev
		return common.NewPersistenceError(op, err)
	}
	return nil
}

func (f *FileStore) List(ctx context.Context, owner string) ([]*models.Document, error) {
	return f.mem.List(ctx, owner)
}

func (f *FileStore) Create(ctx context.Context, in models.DocumentInput) (doc *models.Document, err error) {
	err = f.mutate(ctx, "create document", func() error {
		doc, err = f.mem.Create(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (f *FileStore) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	return f.mem.GetByID(ctx, id)
}

func (f *FileStore) Update(ctx context.Context, id int64, patch models.DocumentPatch) (doc *models.Document, err error) {
	err = f.mutate(ctx, "update document", func() error {
		doc, err = f.mem.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (f *FileStore) Delete(ctx context.Context, id int64) (removed bool, err error) {
	err = f.mutate(ctx, "delete document", func() error {
		removed, err = f.mem.Delete(ctx, id)
		if err == nil && !removed {
			return errNothingChanged
		}
		return err
	})
	return removed, ignoreNothingChanged(err)
}

func (f *FileStore) ListVersions(ctx context.Context, id int64) ([]*models.Version, error) {
	return f.mem.ListVersions(ctx, id)
}

func (f *FileStore) CreateNotebook(ctx context.Context, name string, owner *string) (n *models.Notebook, err error) {
	err = f.mutate(ctx, "create notebook", func() error {
		n, err = f.mem.CreateNotebook(ctx, name, owner)
		return err
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (f *FileStore) ListNotebooks(ctx context.Context, owner string) ([]*models.Notebook, error) {
	return f.mem.ListNotebooks(ctx, owner)
}

func (f *FileStore) DeleteNotebook(ctx context.Context, id int64) (bool, error) {
	return f.deleteContainer(ctx, "delete notebook", func() (bool, error) { return f.mem.DeleteNotebook(ctx, id) })
}

func (f *FileStore) CreateSectionGroup(ctx context.Context, notebookID int64, name string) (g *models.SectionGroup, err error) {
	err = f.mutate(ctx, "create section group", func() error {
		g, err = f.mem.CreateSectionGroup(ctx, notebookID, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (f *FileStore) ListSectionGroups(ctx context.Context, notebookID int64) ([]*models.SectionGroup, error) {
	return f.mem.ListSectionGroups(ctx, notebookID)
}

func (f *FileStore) DeleteSectionGroup(ctx context.Context, id int64) (bool, error) {
	return f.deleteContainer(ctx, "delete section group", func() (bool, error) { return f.mem.DeleteSectionGroup(ctx, id) })
}

func (f *FileStore) CreateSection(ctx context.Context, notebookID int64, sectionGroupID *int64, name string) (s *models.Section, err error) {
	err = f.mutate(ctx, "create section", func() error {
		s, err = f.mem.CreateSection(ctx, notebookID, sectionGroupID, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (f *FileStore) ListSections(ctx context.Context, notebookID int64) ([]*models.Section, error) {
	return f.mem.ListSections(ctx, notebookID)
}

func (f *FileStore) DeleteSection(ctx context.Context, id int64) (bool, error) {
	return f.deleteContainer(ctx, "delete section", func() (bool, error) { return f.mem.DeleteSection(ctx, id) })
}

func (f *FileStore) deleteContainer(ctx context.Context, op string, del func() (bool, error)) (removed bool, err error) {
	err = f.mutate(ctx, op, func() error {
		removed, err = del()
		if err == nil && !removed {
			return errNothingChanged
		}
		return err
	})
	return removed, ignoreNothingChanged(err)
}
