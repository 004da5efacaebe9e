package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/documents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docIDs(docs []*models.Document) []int64 {
	out := []int64{}
	for _, d := range docs {
		out = append(out, d.ID)
	}
	return out
}

func TestDocumentService_ListFilters(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t).docs

	a, err := svc.Create(ctx, "alice", models.DocumentInput{Title: "Shopping List", Content: "milk", Tags: []string{"home"}})
	require.NoError(t, err)
	b, err := svc.Create(ctx, "alice", models.DocumentInput{Title: "Standup", Content: "Ship the LIST feature", Tags: []string{"work"}})
	require.NoError(t, err)
	c, err := svc.Create(ctx, "alice", models.DocumentInput{Title: "Ideas", Content: "none", Tags: []string{"home", "work"}})
	require.NoError(t, err)

	cases := []struct {
		name string
		q    ListQuery
		want []int64
	}{
		{"no filter", ListQuery{}, []int64{a.ID, b.ID, c.ID}},
		{"search title or content, any case", ListQuery{Search: "list"}, []int64{a.ID, b.ID}},
		{"tag exact", ListQuery{Tag: "work"}, []int64{b.ID, c.ID}},
		{"tag is case sensitive", ListQuery{Tag: "Work"}, []int64{}},
		{"both", ListQuery{Search: "list", Tag: "home"}, []int64{a.ID}},
		{"no match", ListQuery{Search: "zzz"}, []int64{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(ctx, "alice", tc.q)
			require.NoError(t, err)
			assert.Equal(t, tc.want, docIDs(got))
		})
	}
}

func TestDocumentService_CreateValidation(t *testing.T) {
	svc := newFixture(t).docs
	_, err := svc.Create(context.Background(), "alice", models.DocumentInput{Title: "T"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = svc.Create(context.Background(), "alice", models.DocumentInput{Content: "C"})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestDocumentService_CreateSetsOwner(t *testing.T) {
	svc := newFixture(t).docs
	doc, err := svc.Create(context.Background(), "alice", models.DocumentInput{Title: "T", Content: "C", UserID: strPtr("mallory")})
	require.NoError(t, err)
	assert.Equal(t, "alice", *doc.UserID)
}

func TestDocumentService_Ownership(t *testing.T) {
	ctx := context.Background()
	store := documents.NewMemoryStore()
	svc := NewDocumentService(store, logging.Discard())

	mine, err := svc.Create(ctx, "alice", models.DocumentInput{Title: "T", Content: "C"})
	require.NoError(t, err)
	shared, err := store.Create(ctx, models.DocumentInput{Title: "legacy", Content: "C"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "bob", mine.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)
	_, err = svc.Update(ctx, "bob", mine.ID, models.DocumentPatch{Title: strPtr("X")})
	assert.ErrorIs(t, err, common.ErrorForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, "bob", mine.ID), common.ErrorForbidden)
	_, err = svc.Versions(ctx, "bob", mine.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	updated, err := svc.Update(ctx, "bob", shared.ID, models.DocumentPatch{Title: strPtr("X")})
	require.NoError(t, err, "unowned documents are shared")
	assert.Equal(t, "X", updated.Title)
	assert.Nil(t, updated.UserID)

	_, err = svc.Update(ctx, "alice", 999, models.DocumentPatch{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "alice", 999), common.ErrorNotFound)
}

func TestDocumentService_UpdateRejectsEmptyTitle(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t).docs
	doc, err := svc.Create(ctx, "alice", models.DocumentInput{Title: "T", Content: "C"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "alice", doc.ID, models.DocumentPatch{Title: strPtr(" ")})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestDocumentService_VersionsAfterDelete(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t).docs
	doc, err := svc.Create(ctx, "alice", models.DocumentInput{Title: "T", Content: "C"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "alice", doc.ID))

	versions, err := svc.Versions(ctx, "alice", doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "C", versions[0].Content)

	_, err = svc.Versions(ctx, "bob", doc.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = svc.Versions(ctx, "alice", 999)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDocumentService_Containers(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t).docs

	nb, err := svc.CreateNotebook(ctx, "alice", " Work ")
	require.NoError(t, err)
	assert.Equal(t, "Work", nb.Name)
	assert.Equal(t, "alice", *nb.UserID)

	_, err = svc.CreateNotebook(ctx, "alice", "")
	assert.ErrorIs(t, err, common.ErrorValidation)

	group, err := svc.CreateSectionGroup(ctx, "alice", nb.ID, "Projects")
	require.NoError(t, err)
	sec, err := svc.CreateSection(ctx, "alice", nb.ID, &group.ID, "Alpha")
	require.NoError(t, err)

	_, err = svc.CreateSectionGroup(ctx, "bob", nb.ID, "Intrusion")
	assert.ErrorIs(t, err, common.ErrorForbidden)
	_, err = svc.ListSections(ctx, "bob", nb.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)
	assert.ErrorIs(t, svc.DeleteSection(ctx, "bob", sec.ID), common.ErrorForbidden)
	assert.ErrorIs(t, svc.DeleteSectionGroup(ctx, "bob", group.ID), common.ErrorForbidden)
	assert.ErrorIs(t, svc.DeleteNotebook(ctx, "bob", nb.ID), common.ErrorForbidden)

	_, err = svc.ListSectionGroups(ctx, "alice", 999)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	bobs, err := svc.ListNotebooks(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bobs)

	sections, err := svc.ListSections(ctx, "alice", nb.ID)
	require.NoError(t, err)
	assert.Equal(t, []*models.Section{sec}, sections)

	require.NoError(t, svc.DeleteSection(ctx, "alice", sec.ID))
	assert.ErrorIs(t, svc.DeleteSection(ctx, "alice", sec.ID), common.ErrorNotFound)
	require.NoError(t, svc.DeleteSectionGroup(ctx, "alice", group.ID))
	require.NoError(t, svc.DeleteNotebook(ctx, "alice", nb.ID))
	assert.ErrorIs(t, svc.DeleteNotebook(ctx, "alice", nb.ID), common.ErrorNotFound)
}
