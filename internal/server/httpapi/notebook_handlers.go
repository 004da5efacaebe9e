package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/labstack/echo/v4"
)

type containerRequest struct {
	Name           string `json:"name"`
	SectionGroupID *int64 `json:"sectionGroupId"`
}

func (s *HTTPServer) listNotebooks(c echo.Context) error {
	nbs, err := s.docs.ListNotebooks(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return err
	}
	if nbs == nil {
		nbs = []*models.Notebook{}
	}
	return c.JSON(http.StatusOK, map[string]any{"notebooks": nbs})
}

func (s *HTTPServer) createNotebook(c echo.Context) error {
	var req containerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	nb, err := s.docs.CreateNotebook(c.Request().Context(), currentUser(c).ID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, nb)
}

func (s *HTTPServer) deleteNotebook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.docs.DeleteNotebook(c.Request().Context(), currentUser(c).ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) listSectionGroups(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	groups, err := s.docs.ListSectionGroups(c.Request().Context(), currentUser(c).ID, id)
	if err != nil {
		return err
	}
	if groups == nil {
		groups = []*models.SectionGroup{}
	}
	return c.JSON(http.StatusOK, map[string]any{"sectionGroups": groups})
}

func (s *HTTPServer) createSectionGroup(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req containerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	g, err := s.docs.CreateSectionGroup(c.Request().Context(), currentUser(c).ID, id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, g)
}

func (s *HTTPServer) deleteSectionGroup(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.docs.DeleteSectionGroup(c.Request().Context(), currentUser(c).ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) listSections(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	sections, err := s.docs.ListSections(c.Request().Context(), currentUser(c).ID, id)
	if err != nil {
		return err
	}
	if sections == nil {
		sections = []*models.Section{}
	}
	return c.JSON(http.StatusOK, map[string]any{"sections": sections})
}

func (s *HTTPServer) createSection(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req containerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	sec, err := s.docs.CreateSection(c.Request().Context(), currentUser(c).ID, id, req.SectionGroupID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sec)
}

func (s *HTTPServer) deleteSection(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.docs.DeleteSection(c.Request().Context(), currentUser(c).ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
