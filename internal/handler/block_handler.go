package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatih-calik/dersdagitim-sub001/internal/service"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/response"
)

// BlockHandler manages distribution block endpoints.
type BlockHandler struct {
	service *service.BlockService
}

// NewBlockHandler constructs handler.
func NewBlockHandler(svc *service.BlockService) *BlockHandler {
	return &BlockHandler{service: svc}
}

// List godoc
// @Summary List all distribution blocks
// @Tags Blocks
// @Produce json
// @Param unplaced query bool false "Only the unplaced pool"
// @Success 200 {object} response.Envelope
// @Router /blocks [get]
func (h *BlockHandler) List(c *gin.Context) {
	if c.Query("unplaced") == "true" {
		blocks, err := h.service.ListUnplaced(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, blocks, nil)
		return
	}
	blocks, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, nil)
}

// Get godoc
// @Summary Get a block
// @Tags Blocks
// @Produce json
// @Param id path int true "Block ID"
// @Success 200 {object} response.Envelope
// @Router /blocks/{id} [get]
func (h *BlockHandler) Get(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	block, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, block, nil)
}

// Regenerate godoc
// @Summary Rebuild an assignment's blocks from pattern and roster
// @Tags Blocks
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/blocks/regenerate [post]
func (h *BlockHandler) Regenerate(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	blocks, err := h.service.Regenerate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, nil)
}

// PairRoom godoc
// @Summary Pair a room with one teacher slot of a block
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path int true "Block ID"
// @Param payload body service.PairRoomRequest true "Pairing"
// @Success 200 {object} response.Envelope
// @Router /blocks/{id}/room [put]
func (h *BlockHandler) PairRoom(c *gin.Context) {
	id, err := paramInt64(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.PairRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	block, err := h.service.PairRoom(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, block, nil)
}
