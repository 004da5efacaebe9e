package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
	"github.com/labstack/echo/v4"
)

type documentRequest struct {
	Title          *string  `json:"title"`
	Content        *string  `json:"content"`
	Tags           []string `json:"tags"`
	NotebookID     *int64   `json:"notebookId"`
	SectionGroupID *int64   `json:"sectionGroupId"`
	SectionID      *int64   `json:"sectionId"`
}

func (r documentRequest) input() models.DocumentInput {
	in := models.DocumentInput{
		Tags:           r.Tags,
		NotebookID:     r.NotebookID,
		SectionGroupID: r.SectionGroupID,
		SectionID:      r.SectionID,
	}
	if r.Title != nil {
		in.Title = *r.Title
	}
	if r.Content != nil {
		in.Content = *r.Content
	}
	return in
}

func (r documentRequest) patch() models.DocumentPatch {
	return models.DocumentPatch{
		Title:          r.Title,
		Content:        r.Content,
		Tags:           r.Tags,
		NotebookID:     r.NotebookID,
		SectionGroupID: r.SectionGroupID,
		SectionID:      r.SectionID,
	}
}

// pathID parses :id. Anything that is not a positive integer cannot name a
// record, so it is reported as not found.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errNotFound
	}
	return id, nil
}

func (s *HTTPServer) listDocuments(c echo.Context) error {
	q := services.ListQuery{Search: c.QueryParam("search"), Tag: c.QueryParam("tag")}
	docs, err := s.docs.List(c.Request().Context(), currentUser(c).ID, q)
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []*models.Document{}
	}
	return c.JSON(http.StatusOK, map[string]any{"documents": docs})
}

func (s *HTTPServer) createDocument(c echo.Context) error {
	var req documentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	doc, err := s.docs.Create(c.Request().Context(), currentUser(c).ID, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doc)
}

func (s *HTTPServer) getDocument(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	doc, err := s.docs.Get(c.Request().Context(), currentUser(c).ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

func (s *HTTPServer) updateDocument(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req documentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	doc, err := s.docs.Update(c.Request().Context(), currentUser(c).ID, id, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

func (s *HTTPServer) deleteDocument(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.docs.Delete(c.Request().Context(), currentUser(c).ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) listVersions(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	versions, err := s.docs.Versions(c.Request().Context(), currentUser(c).ID, id)
	if err != nil {
		return err
	}
	if versions == nil {
		versions = []*models.Version{}
	}
	return c.JSON(http.StatusOK, map[string]any{"versions": versions})
}
