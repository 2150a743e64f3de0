package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Proctora/internal/dto"
	"github.com/lshigami/Proctora/internal/service"
)

type AttemptController struct {
	examService service.ExamService
}

func NewAttemptController(examService service.ExamService) *AttemptController {
	return &AttemptController{examService: examService}
}

// GetAttempt godoc
// @Summary Get one attempt
// @Tags Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDTO
// @Failure 404 {object} dto.ErrorResponse "attempt_not_found"
// @Router /attempts/{attempt_id} [get]
func (c *AttemptController) GetAttempt(ctx *gin.Context) {
	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_attempt_id"})
		return
	}

	resp, err := c.examService.GetAttempt(uint(attemptID))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetUserAttempts godoc
// @Summary List all attempts of a user
// @Tags Attempts
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.AttemptDTO
// @Router /attempts/user/{user_id} [get]
func (c *AttemptController) GetUserAttempts(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("user_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_user_id"})
		return
	}

	resp, err := c.examService.GetAttemptsByUser(uint(userID))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetAttemptSkills godoc
// @Summary List per-skill scores of an attempt
// @Tags Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {array} dto.SkillScoreDTO
// @Failure 404 {object} dto.ErrorResponse "attempt_not_found"
// @Router /attempts/{attempt_id}/skills [get]
func (c *AttemptController) GetAttemptSkills(ctx *gin.Context) {
	attemptID, err := strconv.ParseUint(ctx.Param("attempt_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_attempt_id"})
		return
	}

	resp, err := c.examService.GetAttemptSkills(uint(attemptID))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
