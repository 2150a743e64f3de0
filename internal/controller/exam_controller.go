package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Proctora/internal/dto"
	"github.com/lshigami/Proctora/internal/service"
	"github.com/rs/zerolog/log"
)

type ExamController struct {
	examService service.ExamService
}

func NewExamController(examService service.ExamService) *ExamController {
	return &ExamController{examService: examService}
}

// CreateExam godoc
// @Summary Create an exam with its first attempt
// @Description Builds the question package and freezes the policy snapshot onto attempt #1.
// @Tags Exams
// @Accept json
// @Produce json
// @Param exam body dto.CreateExamRequest true "User, exam type and optional course"
// @Success 201 {object} dto.CreateExamResponse
// @Failure 400 {object} dto.ErrorResponse "invalid_exam_type, baseline_already_exists"
// @Failure 403 {object} dto.ErrorResponse "max_attempts_reached, retry_cooldown_active"
// @Router /exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	var req dto.CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "user_id_and_exam_type_required"})
		return
	}

	log.Info().Uint("userID", req.UserID).Str("examType", req.ExamType).Msg("Received create exam request")

	resp, err := c.examService.CreateExam(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// StartAttempt godoc
// @Summary Start an attempt
// @Description Sets started_at once (idempotent) and returns the learner-facing package with hints stripped.
// @Tags Exams
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param body body dto.StartAttemptRequest true "Attempt to start"
// @Success 200 {object} dto.LearnerPackageDTO
// @Failure 400 {object} dto.ErrorResponse "attempt_id_required, exam_mismatch"
// @Failure 403 {object} dto.ErrorResponse "exam_time_expired, attempt_canceled, max_attempts_reached"
// @Failure 404 {object} dto.ErrorResponse "attempt_not_found"
// @Router /exams/{exam_id}/start [post]
func (c *ExamController) StartAttempt(ctx *gin.Context) {
	examID, err := strconv.ParseUint(ctx.Param("exam_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_exam_id"})
		return
	}

	var req dto.StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "attempt_id_required"})
		return
	}

	resp, err := c.examService.StartAttempt(ctx.Request.Context(), uint(examID), req.AttemptID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAttempt godoc
// @Summary Submit answers for an attempt
// @Description Grades the attempt, writes the ledger rows and fires best-effort result pushes.
// @Tags Exams
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param body body dto.SubmitAttemptRequest true "Attempt id and answers"
// @Success 200 {object} dto.GradingSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "attempt_id_and_answers_required, exam_mismatch"
// @Failure 403 {object} dto.ErrorResponse "exam_time_expired, attempt_canceled"
// @Router /exams/{exam_id}/submit [post]
func (c *ExamController) SubmitAttempt(ctx *gin.Context) {
	examID, err := strconv.ParseUint(ctx.Param("exam_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_exam_id"})
		return
	}

	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || len(req.Answers) == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "attempt_id_and_answers_required"})
		return
	}

	log.Info().Uint64("examID", examID).Uint("attemptID", req.AttemptID).Int("answerCount", len(req.Answers)).Msg("Received submit request")

	resp, err := c.examService.SubmitAttempt(ctx.Request.Context(), uint(examID), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
