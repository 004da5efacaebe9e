package models

import "time"

// Notebook is the top of the optional document hierarchy.
type Notebook struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserID    *string   `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SectionGroup struct {
	ID         int64     `json:"id"`
	NotebookID int64     `json:"notebookId"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Section belongs to a notebook and optionally to one of its section groups.
type Section struct {
	ID             int64     `json:"id"`
	NotebookID     int64     `json:"notebookId"`
	SectionGroupID *int64    `json:"sectionGroupId"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
