package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/Proctora/internal/dto"
	"github.com/lshigami/Proctora/internal/service"
	"github.com/rs/zerolog/log"
)

type errorMapping struct {
	status int
	code   string
}

// Validation and state-conflict errors map to 400/403/404 with stable
// error codes; anything unexpected becomes a 500 carrying a correlation
// id and never a stack trace.
var errorMappings = map[error]errorMapping{
	service.ErrInvalidExamType:           {http.StatusBadRequest, "invalid_exam_type"},
	service.ErrBaselineAlreadyExists:     {http.StatusBadRequest, "baseline_already_exists"},
	service.ErrCourseRequired:            {http.StatusBadRequest, "course_id_required"},
	service.ErrExamMismatch:              {http.StatusBadRequest, "exam_mismatch"},
	service.ErrAttemptAlreadySubmitted:   {http.StatusBadRequest, "attempt_already_submitted"},
	service.ErrAttemptNotFound:           {http.StatusNotFound, "attempt_not_found"},
	service.ErrPackageNotFound:           {http.StatusNotFound, "question_package_not_found"},
	service.ErrExamTimeExpired:           {http.StatusForbidden, "exam_time_expired"},
	service.ErrAttemptCanceled:           {http.StatusForbidden, "attempt_canceled"},
	service.ErrBaselineAttemptNotAllowed: {http.StatusForbidden, "baseline_attempt_not_allowed"},
	service.ErrMaxAttemptsReached:        {http.StatusForbidden, "max_attempts_reached"},
	service.ErrCooldownActive:            {http.StatusForbidden, "retry_cooldown_active"},
}

func respondError(ctx *gin.Context, err error) {
	for sentinel, mapping := range errorMappings {
		if errors.Is(err, sentinel) {
			ctx.JSON(mapping.status, dto.ErrorResponse{Error: mapping.code})
			return
		}
	}

	correlationID := uuid.NewString()
	log.Error().Err(err).Str("correlationID", correlationID).Str("path", ctx.FullPath()).Msg("Unexpected error")
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error", CorrelationID: correlationID})
}
