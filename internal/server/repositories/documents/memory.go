package documents

import (
	"context"
	"slices"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/timex"
)

type sequences struct {
	Document     int64 `json:"document"`
	Notebook     int64 `json:"notebook"`
	SectionGroup int64 `json:"sectionGroup"`
	Section      int64 `json:"section"`
}

// state is the whole data set of a memory or file store. Stored records are
// never modified in place: updates swap in a new pointer, so a shallow copy
// of the slices is a consistent snapshot.
type state struct {
	Notebooks     []*models.Notebook     `json:"notebooks"`
	SectionGroups []*models.SectionGroup `json:"sectionGroups"`
	Sections      []*models.Section      `json:"sections"`
	Documents     []*models.Document     `json:"documents"`
	Versions      []*models.Version      `json:"versions"`
	Sequences     sequences              `json:"sequences"`
}

func newState() state {
	return state{
		Notebooks:     []*models.Notebook{},
		SectionGroups: []*models.SectionGroup{},
		Sections:      []*models.Section{},
		Documents:     []*models.Document{},
		Versions:      []*models.Version{},
	}
}

func (s state) clone() state {
	return state{
		Notebooks:     slices.Clone(s.Notebooks),
		SectionGroups: slices.Clone(s.SectionGroups),
		Sections:      slices.Clone(s.Sections),
		Documents:     slices.Clone(s.Documents),
		Versions:      slices.Clone(s.Versions),
		Sequences:     s.Sequences,
	}
}

// MemoryStore keeps everything in process memory, in insertion order.
// It does no locking of its own; wrap it with Serialized when shared.
type MemoryStore struct {
	st  state
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: newState(), now: time.Now}
}

func (m *MemoryStore) stamp() time.Time {
	return timex.Truncate(m.now())
}

func (m *MemoryStore) List(ctx context.Context, owner string) ([]*models.Document, error) {
	out := make([]*models.Document, 0, len(m.st.Documents))
	for _, d := range m.st.Documents {
		if d.VisibleTo(owner) {
			out = append(out, d.Clone())
		}
	}
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, in models.DocumentInput) (*models.Document, error) {
	now := m.stamp()
	m.st.Sequences.Document++

	d := &models.Document{
		ID:             m.st.Sequences.Document,
		Title:          in.Title,
		Content:        in.Content,
		Tags:           models.NormalizeTags(in.Tags),
		UserID:         in.UserID,
		NotebookID:     in.NotebookID,
		SectionGroupID: in.SectionGroupID,
		SectionID:      in.SectionID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	d = d.Clone()
	m.st.Documents = append(m.st.Documents, d)
	return d.Clone(), nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	i := m.indexOf(id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	return m.st.Documents[i].Clone(), nil
}

func (m *MemoryStore) Update(ctx context.Context, id int64, patch models.DocumentPatch) (*models.Document, error) {
	i := m.indexOf(id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}

	now := m.stamp()
	current := m.st.Documents[i]
	m.appendVersion(current, now)

	next := current.Clone()
	patch.Apply(next)
	next.UpdatedAt = now
	m.st.Documents[i] = next

	return next.Clone(), nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) (bool, error) {
	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}

	m.appendVersion(m.st.Documents[i], m.stamp())
	m.st.Documents = slices.Delete(slices.Clone(m.st.Documents), i, i+1)
	return true, nil
}

func (m *MemoryStore) ListVersions(ctx context.Context, id int64) ([]*models.Version, error) {
	out := []*models.Version{}
	for _, v := range m.st.Versions {
		if v.ID == id {
			out = append(out, cloneVersion(v))
		}
	}
	return out, nil
}

func (m *MemoryStore) indexOf(id int64) int {
	return slices.IndexFunc(m.st.Documents, func(d *models.Document) bool { return d.ID == id })
}

func (m *MemoryStore) appendVersion(d *models.Document, at time.Time) {
	m.st.Versions = append(m.st.Versions, &models.Version{Document: *d.Clone(), VersionedAt: at})
}

func cloneVersion(v *models.Version) *models.Version {
	return &models.Version{Document: *v.Document.Clone(), VersionedAt: v.VersionedAt}
}

func (m *MemoryStore) CreateNotebook(ctx context.Context, name string, owner *string) (*models.Notebook, error) {
	now := m.stamp()
	m.st.Sequences.Notebook++
	n := &models.Notebook{ID: m.st.Sequences.Notebook, Name: name, UserID: clonePtr(owner), CreatedAt: now, UpdatedAt: now}
	m.st.Notebooks = append(m.st.Notebooks, n)
	c := *n
	c.UserID = clonePtr(n.UserID)
	return &c, nil
}

func (m *MemoryStore) ListNotebooks(ctx context.Context, owner string) ([]*models.Notebook, error) {
	out := []*models.Notebook{}
	for _, n := range m.st.Notebooks {
		if owner == "" || n.UserID == nil || *n.UserID == owner {
			c := *n
			c.UserID = clonePtr(n.UserID)
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *MemoryStore) DeleteNotebook(ctx context.Context, id int64) (bool, error) {
	var removed bool
	m.st.Notebooks, removed = deleteByID(m.st.Notebooks, func(n *models.Notebook) bool { return n.ID == id })
	return removed, nil
}

func (m *MemoryStore) CreateSectionGroup(ctx context.Context, notebookID int64, name string) (*models.SectionGroup, error) {
	now := m.stamp()
	m.st.Sequences.SectionGroup++
	g := &models.SectionGroup{ID: m.st.Sequences.SectionGroup, NotebookID: notebookID, Name: name, CreatedAt: now, UpdatedAt: now}
	m.st.SectionGroups = append(m.st.SectionGroups, g)
	c := *g
	return &c, nil
}

func (m *MemoryStore) ListSectionGroups(ctx context.Context, notebookID int64) ([]*models.SectionGroup, error) {
	out := []*models.SectionGroup{}
	for _, g := range m.st.SectionGroups {
		if g.NotebookID == notebookID {
			c := *g
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m *MemoryStore) DeleteSectionGroup(ctx context.Context, id int64) (bool, error) {
	var removed bool
	m.st.SectionGroups, removed = deleteByID(m.st.SectionGroups, func(g *models.SectionGroup) bool { return g.ID == id })
	return removed, nil
}

func (m *MemoryStore) CreateSection(ctx context.Context, notebookID int64, sectionGroupID *int64, name string) (*models.Section, error) {
	now := m.stamp()
	m.st.Sequences.Section++
	s := &models.Section{
		ID:             m.st.Sequences.Section,
		NotebookID:     notebookID,
		SectionGroupID: clonePtr(sectionGroupID),
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.st.Sections = append(m.st.Sections, s)
	return cloneSection(s), nil
}

func (m *MemoryStore) ListSections(ctx context.Context, notebookID int64) ([]*models.Section, error) {
	out := []*models.Section{}
	for _, s := range m.st.Sections {
		if s.NotebookID == notebookID {
			out = append(out, cloneSection(s))
		}
	}
	return out, nil
}

func (m *MemoryStore) DeleteSection(ctx context.Context, id int64) (bool, error) {
	var removed bool
	m.st.Sections, removed = deleteByID(m.st.Sections, func(s *models.Section) bool { return s.ID == id })
	return removed, nil
}

func cloneSection(s *models.Section) *models.Section {
	c := *s
	c.SectionGroupID = clonePtr(s.SectionGroupID)
	return &c
}

// deleteByID returns a fresh slice without the first match, leaving the
// input untouched.
func deleteByID[T any](items []T, match func(T) bool) ([]T, bool) {
	i := slices.IndexFunc(items, match)
	if i < 0 {
		return items, false
	}
	return slices.Delete(slices.Clone(items), i, i+1), true
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
