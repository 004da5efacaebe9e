// Package documents implements the document store over three interchangeable
// backends: process memory, a JSON snapshot, and a relational database.
package documents

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
)

// Store is the contract every backend satisfies.
//
// Lookups of unknown ids return common.ErrorNotFound, Delete reports a miss
// as false. Backend I/O faults are *common.PersistenceError; the memory
// backend never produces one.
type Store interface {
	// List returns every document when owner is empty, otherwise the
	// documents owned by owner plus the ones without an owner.
	List(ctx context.Context, owner string) ([]*models.Document, error)
	Create(ctx context.Context, in models.DocumentInput) (*models.Document, error)
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	// Update records the current state in the version log, then applies patch.
	Update(ctx context.Context, id int64, patch models.DocumentPatch) (*models.Document, error)
	// Delete records the current state in the version log, then removes it.
	Delete(ctx context.Context, id int64) (bool, error)
	// ListVersions returns the version log of a document, oldest first. It
	// outlives the document itself.
	ListVersions(ctx context.Context, id int64) ([]*models.Version, error)

	CreateNotebook(ctx context.Context, name string, owner *string) (*models.Notebook, error)
	ListNotebooks(ctx context.Context, owner string) ([]*models.Notebook, error)
	DeleteNotebook(ctx context.Context, id int64) (bool, error)

	CreateSectionGroup(ctx context.Context, notebookID int64, name string) (*models.SectionGroup, error)
	ListSectionGroups(ctx context.Context, notebookID int64) ([]*models.SectionGroup, error)
	DeleteSectionGroup(ctx context.Context, id int64) (bool, error)

	CreateSection(ctx context.Context, notebookID int64, sectionGroupID *int64, name string) (*models.Section, error)
	ListSections(ctx context.Context, notebookID int64) ([]*models.Section, error)
	DeleteSection(ctx context.Context, id int64) (bool, error)
}
