package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Proctora/internal/dto"
	"github.com/lshigami/Proctora/internal/service"
	"github.com/rs/zerolog/log"
)

type ProctoringController struct {
	proctoringService service.ProctoringService
}

func NewProctoringController(proctoringService service.ProctoringService) *ProctoringController {
	return &ProctoringController{proctoringService: proctoringService}
}

// StartCamera godoc
// @Summary Activate the proctoring session for an attempt
// @Description Idempotent: repeat calls leave the session active.
// @Tags Proctoring
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} dto.ErrorResponse "attempt_id_required"
// @Failure 404 {object} dto.ErrorResponse "attempt_not_found"
// @Router /proctoring/{attempt_id}/start_camera [post]
func (c *ProctoringController) StartCamera(ctx *gin.Context) {
	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "attempt_id_required"})
		return
	}

	resp, err := c.proctoringService.StartCamera(ctx.Request.Context(), uint(attemptID))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ReportIncident godoc
// @Summary Record an integrity event for an attempt
// @Description A focus_lost incident feeds the strike counter; three strikes cancel the attempt. Any other type becomes an append-only incident record.
// @Tags Proctoring
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param body body dto.IncidentRequest true "Incident type, severity and details"
// @Success 200 {object} dto.ViolationResponse
// @Failure 400 {object} dto.ErrorResponse "attempt_id_required, incident_type_required"
// @Failure 404 {object} dto.ErrorResponse "attempt_not_found"
// @Router /proctoring/{attempt_id}/incident [post]
func (c *ProctoringController) ReportIncident(ctx *gin.Context) {
	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "attempt_id_required"})
		return
	}

	var req dto.IncidentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "incident_type_required"})
		return
	}

	log.Info().Uint64("attemptID", attemptID).Str("incidentType", req.IncidentType).Msg("Received proctoring event")

	if req.IncidentType == "focus_lost" {
		resp, err := c.proctoringService.ReportFocusViolation(ctx.Request.Context(), uint(attemptID))
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, resp)
		return
	}

	resp, err := c.proctoringService.ReportIncident(ctx.Request.Context(), uint(attemptID), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
