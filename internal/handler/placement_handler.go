package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatih-calik/dersdagitim-sub001/internal/service"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/response"
)

// PlacementHandler drives the manual drag-and-drop endpoints.
type PlacementHandler struct {
	service *service.PlacementService
}

// NewPlacementHandler constructs handler.
func NewPlacementHandler(svc *service.PlacementService) *PlacementHandler {
	return &PlacementHandler{service: svc}
}

type slotRequest struct {
	Day  int `json:"day" binding:"required,min=1,max=7"`
	Hour int `json:"hour" binding:"required,min=1,max=12"`
}

// Pick godoc
// @Summary Start a drag session for a block
// @Tags Placement
// @Produce json
// @Param id path int true "Block ID"
// @Success 201 {object} response.Envelope
// @Router /blocks/{id}/pick [post]
func (h *PlacementHandler) Pick(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	session, err := h.service.Pick(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Preview godoc
// @Summary Check whether a slot is feasible for the dragged block
// @Tags Placement
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body slotRequest true "Target slot"
// @Success 200 {object} response.Envelope
// @Router /placements/{id}/preview [post]
func (h *PlacementHandler) Preview(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	valid, err := h.service.Preview(c.Param("id"), req.Day, req.Hour)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"valid": valid}, nil)
}

// Commit godoc
// @Summary Drop the dragged block onto a slot
// @Tags Placement
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body slotRequest true "Target slot"
// @Success 200 {object} response.Envelope
// @Router /placements/{id}/commit [post]
func (h *PlacementHandler) Commit(c *gin.Context) {
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	block, err := h.service.Commit(c.Request.Context(), c.Param("id"), req.Day, req.Hour)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, block, nil)
}

// Cancel godoc
// @Summary Cancel a drag session
// @Tags Placement
// @Param id path string true "Session ID"
// @Success 204
// @Router /placements/{id} [delete]
func (h *PlacementHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Unplace godoc
// @Summary Return a block to the unplaced pool
// @Tags Placement
// @Produce json
// @Param id path int true "Block ID"
// @Success 200 {object} response.Envelope
// @Router /blocks/{id}/unplace [post]
func (h *PlacementHandler) Unplace(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	block, err := h.service.Unplace(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, block, nil)
}
