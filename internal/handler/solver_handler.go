package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatih-calik/dersdagitim-sub001/internal/service"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/response"
)

// SolverHandler exposes the placement engines.
type SolverHandler struct {
	service *service.SolverService
}

// NewSolverHandler constructs handler.
func NewSolverHandler(svc *service.SolverService) *SolverHandler {
	return &SolverHandler{service: svc}
}

// Engines godoc
// @Summary List registered placement engines
// @Tags Solver
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /solver/engines [get]
func (h *SolverHandler) Engines(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Engines(), nil)
}

// GetParams godoc
// @Summary Get solver parameters for an engine
// @Tags Solver
// @Produce json
// @Param engine query string false "Engine name, defaults to the configured engine"
// @Success 200 {object} response.Envelope
// @Router /solver/params [get]
func (h *SolverHandler) GetParams(c *gin.Context) {
	params, err := h.service.Params(c.Request.Context(), c.Query("engine"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, params, nil)
}

// UpdateParams godoc
// @Summary Update solver parameters for an engine
// @Tags Solver
// @Accept json
// @Produce json
// @Param engine query string false "Engine name, defaults to the configured engine"
// @Param payload body service.UpdateSolverParamsRequest true "Parameters"
// @Success 200 {object} response.Envelope
// @Router /solver/params [put]
func (h *SolverHandler) UpdateParams(c *gin.Context) {
	var req service.UpdateSolverParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	params, err := h.service.UpdateParams(c.Request.Context(), c.Query("engine"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, params, nil)
}

// StartRun godoc
// @Summary Enqueue an asynchronous placement run
// @Tags Solver
// @Produce json
// @Param engine query string false "Engine name, defaults to the configured engine"
// @Success 202 {object} response.Envelope
// @Router /solver/runs [post]
func (h *SolverHandler) StartRun(c *gin.Context) {
	run, err := h.service.StartRun(c.Request.Context(), c.Query("engine"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, run, nil)
}

// GetRun godoc
// @Summary Get one solver run
// @Tags Solver
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /solver/runs/{id} [get]
func (h *SolverHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}
