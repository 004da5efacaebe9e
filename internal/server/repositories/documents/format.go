package documents

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/timex"
)

// errNothingChanged aborts a file mutation that found nothing to delete,
// skipping the snapshot write.
var errNothingChanged = errors.New("nothing changed")

func ignoreNothingChanged(err error) error {
	if errors.Is(err, errNothingChanged) {
		return nil
	}
	return err
}

// decodeState parses a snapshot. Besides the current object layout it
// accepts the older layout: a bare array of documents with string ids.
func decodeState(raw []byte) (state, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return newState(), nil
	}

	var st state
	if raw[0] == '[' {
		docs, err := decodeLegacy(raw)
		if err != nil {
			return state{}, err
		}
		st = newState()
		st.Documents = docs
	} else {
		st = newState()
		if err := json.Unmarshal(raw, &st); err != nil {
			return state{}, err
		}
		st.fillNils()
	}

	st.normalize()
	return st, nil
}

// fillNils replaces sections that were absent from the snapshot.
func (s *state) fillNils() {
	if s.Notebooks == nil {
		s.Notebooks = []*models.Notebook{}
	}
	if s.SectionGroups == nil {
		s.SectionGroups = []*models.SectionGroup{}
	}
	if s.Sections == nil {
		s.Sections = []*models.Section{}
	}
	if s.Documents == nil {
		s.Documents = []*models.Document{}
	}
	if s.Versions == nil {
		s.Versions = []*models.Version{}
	}
}

// normalize makes sequences at least as large as every stored id, so ids
// are never reused even for snapshots written without sequences.
func (s *state) normalize() {
	for _, d := range s.Documents {
		if d.Tags == nil {
			d.Tags = []string{}
		}
		s.Sequences.Document = max(s.Sequences.Document, d.ID)
	}
	for _, v := range s.Versions {
		if v.Tags == nil {
			v.Tags = []string{}
		}
		s.Sequences.Document = max(s.Sequences.Document, v.ID)
	}
	for _, n := range s.Notebooks {
		s.Sequences.Notebook = max(s.Sequences.Notebook, n.ID)
	}
	for _, g := range s.SectionGroups {
		s.Sequences.SectionGroup = max(s.Sequences.SectionGroup, g.ID)
	}
	for _, sec := range s.Sections {
		s.Sequences.Section = max(s.Sequences.Section, sec.ID)
	}
}

type legacyDocument struct {
	ID        json.RawMessage `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Tags      []string        `json:"tags"`
	UserID    *string         `json:"userId"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

func decodeLegacy(raw []byte) ([]*models.Document, error) {
	var items []legacyDocument
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	docs := make([]*models.Document, 0, len(items))
	used := make(map[int64]bool, len(items))
	var pending []*models.Document

	for _, it := range items {
		d := &models.Document{
			Title:     it.Title,
			Content:   it.Content,
			Tags:      models.NormalizeTags(it.Tags),
			UserID:    it.UserID,
			CreatedAt: parseLegacyTime(it.CreatedAt),
			UpdatedAt: parseLegacyTime(it.UpdatedAt),
		}
		if id, ok := parseLegacyID(it.ID); ok && !used[id] {
			d.ID = id
			used[id] = true
		} else {
			pending = append(pending, d)
		}
		docs = append(docs, d)
	}

	// documents whose id was not a usable number get fresh ids after the rest
	var next int64
	for id := range used {
		next = max(next, id)
	}
	for _, d := range pending {
		next++
		d.ID = next
	}
	return docs, nil
}

func parseLegacyID(raw json.RawMessage) (int64, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseLegacyTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return timex.Truncate(t)
}
