package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fatih-calik/dersdagitim-sub001/internal/service"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/response"
)

// ValidatorHandler exposes the conflict validator.
type ValidatorHandler struct {
	service *service.ValidatorService
}

// NewValidatorHandler constructs handler.
func NewValidatorHandler(svc *service.ValidatorService) *ValidatorHandler {
	return &ValidatorHandler{service: svc}
}

// Run godoc
// @Summary Run the full validation and self-healing pass
// @Tags Validator
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /validator/run [post]
func (h *ValidatorHandler) Run(c *gin.Context) {
	report, err := h.service.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// ListReports godoc
// @Summary List recent validation reports
// @Tags Validator
// @Produce json
// @Param limit query int false "Max reports"
// @Success 200 {object} response.Envelope
// @Router /validator/reports [get]
func (h *ValidatorHandler) ListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	reports, err := h.service.ListReports(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// GetReport godoc
// @Summary Get one validation report
// @Tags Validator
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Router /validator/reports/{id} [get]
func (h *ValidatorHandler) GetReport(c *gin.Context) {
	report, err := h.service.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
