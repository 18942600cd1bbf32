package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackclub/iplace/internal/core/ports"
)

// ProjectHandler lists the reported projects a user can still claim.
type ProjectHandler struct {
	budget ports.BudgetService
}

func NewProjectHandler(budget ports.BudgetService) *ProjectHandler {
	return &ProjectHandler{budget: budget}
}

type apiProject struct {
	Name    string `json:"name"`
	Seconds int64  `json:"seconds"`
}

type projectsResponse struct {
	Projects []apiProject `json:"projects"`
}

// List handles POST /api/hackatime-projects.
func (h *ProjectHandler) List(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	eligible, err := h.budget.ListEligibleProjects(c.Request().Context(), user)
	if err != nil {
		return err
	}

	resp := projectsResponse{Projects: make([]apiProject, 0, len(eligible))}
	for _, p := range eligible {
		resp.Projects = append(resp.Projects, apiProject{Name: p.Name, Seconds: p.Seconds})
	}
	return c.JSON(http.StatusOK, resp)
}
