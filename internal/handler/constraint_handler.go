package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fatih-calik/dersdagitim-sub001/internal/service"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/response"
)

// ConstraintHandler manages owner availability maps.
type ConstraintHandler struct {
	service *service.ConstraintService
}

// NewConstraintHandler constructs handler.
func NewConstraintHandler(svc *service.ConstraintService) *ConstraintHandler {
	return &ConstraintHandler{service: svc}
}

// List godoc
// @Summary List an owner's slot constraints
// @Tags Constraints
// @Produce json
// @Param ownerType path string true "CLASS, TEACHER or ROOM"
// @Param id path int true "Owner ID"
// @Success 200 {object} response.Envelope
// @Router /constraints/{ownerType}/{id} [get]
func (h *ConstraintHandler) List(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	constraints, err := h.service.List(c.Request.Context(), ownerTypeParam(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraints, nil)
}

// Set godoc
// @Summary Open or close one owner slot
// @Tags Constraints
// @Accept json
// @Produce json
// @Param ownerType path string true "CLASS, TEACHER or ROOM"
// @Param id path int true "Owner ID"
// @Param payload body service.SetConstraintRequest true "Slot state"
// @Success 200 {object} response.Envelope
// @Router /constraints/{ownerType}/{id} [put]
func (h *ConstraintHandler) Set(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.SetConstraintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	constraint, err := h.service.Set(c.Request.Context(), ownerTypeParam(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, constraint, nil)
}

func ownerTypeParam(c *gin.Context) string {
	return strings.ToUpper(c.Param("ownerType"))
}
