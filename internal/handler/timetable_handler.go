package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatih-calik/dersdagitim-sub001/internal/service"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/response"
)

// TimetableHandler serves the rendered weekly views.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Grid godoc
// @Summary Get the weekly grid for one owner
// @Tags Timetable
// @Produce json
// @Param ownerType path string true "CLASS, TEACHER or ROOM"
// @Param id path int true "Owner ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/{ownerType}/{id} [get]
func (h *TimetableHandler) Grid(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	grid, err := h.service.Grid(c.Request.Context(), ownerTypeParam(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}
