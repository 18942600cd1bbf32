package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hackclub/iplace/internal/core/ports"
)

// FrameHandler handles the owner-facing frame lifecycle.
type FrameHandler struct {
	frames ports.FrameService
}

func NewFrameHandler(frames ports.FrameService) *FrameHandler {
	return &FrameHandler{frames: frames}
}

type updateFrameTimeRequest struct {
	FrameID int64 `json:"frameId" validate:"required,gt=0"`
}

type updateFrameTimeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Frame   struct {
		ID        int64 `json:"id"`
		IsPending bool  `json:"isPending"`
	} `json:"frame"`
}

// UpdateTime handles POST /api/update-frame-time. The frame goes back to
// the reviewers; placement stays frozen until the next approval lands.
func (h *FrameHandler) UpdateTime(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req updateFrameTimeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	frame, err := h.frames.RequestReview(c.Request().Context(), user.ID, req.FrameID)
	if err != nil {
		return err
	}

	resp := updateFrameTimeResponse{
		Success: true,
		Message: "Frame has been sent back for review. You will be able to place tiles once it's approved with updated time.",
	}
	resp.Frame.ID = frame.ID
	resp.Frame.IsPending = frame.IsPending
	return c.JSON(http.StatusOK, resp)
}

type recentFrame struct {
	ID           int64  `json:"id"`
	URL          string `json:"url"`
	IsPending    bool   `json:"isPending"`
	ProjectNames string `json:"projectNames"`
}

type recentFramesResponse struct {
	Frames []recentFrame `json:"frames"`
}

// Recent handles GET /api/recent-frames.
func (h *FrameHandler) Recent(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	frames, err := h.frames.Recent(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	resp := recentFramesResponse{Frames: make([]recentFrame, 0, len(frames))}
	for _, f := range frames {
		resp.Frames = append(resp.Frames, recentFrame{
			ID:           f.ID,
			URL:          f.URL,
			IsPending:    f.IsPending,
			ProjectNames: f.ProjectNames,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
