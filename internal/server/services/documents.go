package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/documents"
)

// ListQuery narrows a document listing. Search matches title or content
// case-insensitively; Tag must be one of the document's tags exactly.
type ListQuery struct {
	Search string
	Tag    string
}

func (q ListQuery) matches(d *models.Document) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(d.Title), needle) && !strings.Contains(strings.ToLower(d.Content), needle) {
			return false
		}
	}
	if q.Tag != "" && !slices.Contains(d.Tags, q.Tag) {
		return false
	}
	return true
}

// DocumentService applies ownership rules on top of a documents.Store.
// Every method takes the caller's user id. Documents and notebooks without
// an owner are shared: any caller may read and modify them. Records owned by
// someone else yield common.ErrorForbidden.
type DocumentService struct {
	store  documents.Store
	logger logging.Logger
}

func NewDocumentService(store documents.Store, logger logging.Logger) *DocumentService {
	return &DocumentService{store: store, logger: logger.With("module", "documents")}
}

func (s *DocumentService) List(ctx context.Context, caller string, q ListQuery) ([]*models.Document, error) {
	docs, err := s.store.List(ctx, caller)
	if err != nil {
		return nil, err
	}

	out := docs[:0]
	for _, d := range docs {
		if q.matches(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *DocumentService) Create(ctx context.Context, caller string, in models.DocumentInput) (*models.Document, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", common.ErrorValidation)
	}
	in.UserID = &caller

	doc, err := s.store.Create(ctx, in)
	if err != nil {
		s.logger.Error(ctx, "create document failed", "error", err)
		return nil, err
	}
	s.logger.Info(ctx, "document created", "id", doc.ID, "user_id", caller)
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, caller string, id int64) (*models.Document, error) {
	doc, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.VisibleTo(caller) {
		return nil, common.ErrorForbidden
	}
	return doc, nil
}

func (s *DocumentService) Update(ctx context.Context, caller string, id int64, patch models.DocumentPatch) (*models.Document, error) {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return nil, err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
	}

	doc, err := s.store.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error(ctx, "update document failed", "id", id, "error", err)
		return nil, err
	}
	s.logger.Info(ctx, "document updated", "id", id, "user_id", caller)
	return doc, nil
}

func (s *DocumentService) Delete(ctx context.Context, caller string, id int64) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}

	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		s.logger.Error(ctx, "delete document failed", "id", id, "error", err)
		return err
	}
	if !removed {
		return common.ErrorNotFound
	}
	s.logger.Info(ctx, "document deleted", "id", id, "user_id", caller)
	return nil
}

// Versions returns the history of a document. Once the document is deleted
// the history is only available to the owner recorded in its last version.
func (s *DocumentService) Versions(ctx context.Context, caller string, id int64) ([]*models.Version, error) {
	versions, err := s.store.ListVersions(ctx, id)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.GetByID(ctx, id)
	switch {
	case err == nil:
		if !doc.VisibleTo(caller) {
			return nil, common.ErrorForbidden
		}
	case len(versions) == 0:
		return nil, err
	default:
		if last := versions[len(versions)-1]; !last.VisibleTo(caller) {
			return nil, common.ErrorForbidden
		}
	}
	return versions, nil
}

func (s *DocumentService) CreateNotebook(ctx context.Context, caller, name string) (*models.Notebook, error) {
	if err := requireName(name); err != nil {
		return nil, err
	}
	nb, err := s.store.CreateNotebook(ctx, strings.TrimSpace(name), &caller)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "notebook created", "id", nb.ID, "user_id", caller)
	return nb, nil
}

func (s *DocumentService) ListNotebooks(ctx context.Context, caller string) ([]*models.Notebook, error) {
	return s.store.ListNotebooks(ctx, caller)
}

func (s *DocumentService) DeleteNotebook(ctx context.Context, caller string, id int64) error {
	if _, err := s.notebook(ctx, caller, id); err != nil {
		return err
	}
	return s.deleted(ctx, "notebook", id, caller)(s.store.DeleteNotebook(ctx, id))
}

func (s *DocumentService) CreateSectionGroup(ctx context.Context, caller string, notebookID int64, name string) (*models.SectionGroup, error) {
	if err := requireName(name); err != nil {
		return nil, err
	}
	if _, err := s.notebook(ctx, caller, notebookID); err != nil {
		return nil, err
	}
	return s.store.CreateSectionGroup(ctx, notebookID, strings.TrimSpace(name))
}

func (s *DocumentService) ListSectionGroups(ctx context.Context, caller string, notebookID int64) ([]*models.SectionGroup, error) {
	if _, err := s.notebook(ctx, caller, notebookID); err != nil {
		return nil, err
	}
	return s.store.ListSectionGroups(ctx, notebookID)
}

func (s *DocumentService) DeleteSectionGroup(ctx context.Context, caller string, id int64) error {
	if err := s.checkChild(ctx, caller, func(nb *models.Notebook) (bool, error) {
		groups, err := s.store.ListSectionGroups(ctx, nb.ID)
		return slices.ContainsFunc(groups, func(g *models.SectionGroup) bool { return g.ID == id }), err
	}); err != nil {
		return err
	}
	return s.deleted(ctx, "section group", id, caller)(s.store.DeleteSectionGroup(ctx, id))
}

func (s *DocumentService) CreateSection(ctx context.Context, caller string, notebookID int64, sectionGroupID *int64, name string) (*models.Section, error) {
	if err := requireName(name); err != nil {
		return nil, err
	}
	if _, err := s.notebook(ctx, caller, notebookID); err != nil {
		return nil, err
	}
	return s.store.CreateSection(ctx, notebookID, sectionGroupID, strings.TrimSpace(name))
}

func (s *DocumentService) ListSections(ctx context.Context, caller string, notebookID int64) ([]*models.Section, error) {
	if _, err := s.notebook(ctx, caller, notebookID); err != nil {
		return nil, err
	}
	return s.store.ListSections(ctx, notebookID)
}

func (s *DocumentService) DeleteSection(ctx context.Context, caller string, id int64) error {
	if err := s.checkChild(ctx, caller, func(nb *models.Notebook) (bool, error) {
		sections, err := s.store.ListSections(ctx, nb.ID)
		return slices.ContainsFunc(sections, func(sec *models.Section) bool { return sec.ID == id }), err
	}); err != nil {
		return err
	}
	return s.deleted(ctx, "section", id, caller)(s.store.DeleteSection(ctx, id))
}

// notebook finds a notebook and checks the caller may use it.
func (s *DocumentService) notebook(ctx context.Context, caller string, id int64) (*models.Notebook, error) {
	all, err := s.store.ListNotebooks(ctx, "")
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(all, func(n *models.Notebook) bool { return n.ID == id })
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	if nb := all[i]; nb.UserID != nil && *nb.UserID != caller {
		return nil, common.ErrorForbidden
	}
	return all[i], nil
}

// checkChild rejects the call when the container found by contains lives in
// a notebook owned by someone else. Children of deleted notebooks are open
// to everyone.
func (s *DocumentService) checkChild(ctx context.Context, caller string, contains func(*models.Notebook) (bool, error)) error {
	all, err := s.store.ListNotebooks(ctx, "")
	if err != nil {
		return err
	}
	for _, nb := range all {
		if nb.UserID == nil || *nb.UserID == caller {
			continue
		}
		found, err := contains(nb)
		if err != nil {
			return err
		}
		if found {
			return common.ErrorForbidden
		}
	}
	return nil
}

func (s *DocumentService) deleted(ctx context.Context, kind string, id int64, caller string) func(bool, error) error {
	return func(removed bool, err error) error {
		if err != nil {
			return err
		}
		if !removed {
			return common.ErrorNotFound
		}
		s.logger.Info(ctx, kind+" deleted", "id", id, "user_id", caller)
		return nil
	}
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	return nil
}
