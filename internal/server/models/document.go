package models

import (
	"slices"
	"strings"
	"time"
)

type Document struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Tags           []string  `json:"tags"`
	UserID         *string   `json:"userId"`
	NotebookID     *int64    `json:"notebookId"`
	SectionGroupID *int64    `json:"sectionGroupId"`
	SectionID      *int64    `json:"sectionId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (d *Document) Clone() *Document {
	c := *d
	c.Tags = slices.Clone(d.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	c.UserID = clonePtr(d.UserID)
	c.NotebookID = clonePtr(d.NotebookID)
	c.SectionGroupID = clonePtr(d.SectionGroupID)
	c.SectionID = clonePtr(d.SectionID)
	return &c
}

// VisibleTo reports whether a list filtered by owner includes d. Documents
// without an owner are public.
func (d *Document) VisibleTo(owner string) bool {
	return owner == "" || d.UserID == nil || *d.UserID == owner
}

// DocumentInput carries the fields for a new document.
type DocumentInput struct {
	Title          string
	Content        string
	Tags           []string
	UserID         *string
	NotebookID     *int64
	SectionGroupID *int64
	SectionID      *int64
}

// DocumentPatch is a partial update. Nil fields are left unchanged; a nil
// Tags slice keeps the tags while an empty one clears them.
type DocumentPatch struct {
	Title          *string
	Content        *string
	Tags           []string
	NotebookID     *int64
	SectionGroupID *int64
	SectionID      *int64
}

// Apply overwrites the fields of d that p sets.
func (p DocumentPatch) Apply(d *Document) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Content != nil {
		d.Content = *p.Content
	}
	if p.Tags != nil {
		d.Tags = NormalizeTags(p.Tags)
	}
	if p.NotebookID != nil {
		d.NotebookID = clonePtr(p.NotebookID)
	}
	if p.SectionGroupID != nil {
		d.SectionGroupID = clonePtr(p.SectionGroupID)
	}
	if p.SectionID != nil {
		d.SectionID = clonePtr(p.SectionID)
	}
}

// Version is a snapshot of a document taken just before an update or delete.
type Version struct {
	Document
	VersionedAt time.Time `json:"versionedAt"`
}

// NormalizeTags trims, deduplicates and sorts tags. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
