package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Proctora/internal/dto"
	"github.com/lshigami/Proctora/internal/gateway"
	"github.com/lshigami/Proctora/internal/model"
	"github.com/lshigami/Proctora/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProctoringService runs the per-attempt integrity state machine:
// no_session → active → (violation)* → canceled. Three focus-loss strikes
// cancel the attempt; cancellation is terminal.
type ProctoringService interface {
	StartCamera(ctx context.Context, attemptID uint) (*dto.SessionResponse, error)
	ReportFocusViolation(ctx context.Context, attemptID uint) (*dto.ViolationResponse, error)
	ReportIncident(ctx context.Context, attemptID uint, req dto.IncidentRequest) (*dto.IncidentResponse, error)
}

type proctoringService struct {
	attemptRepo  repository.ExamAttemptRepository
	proctorRepo  repository.ProctoringRepository
	incidentRepo repository.IncidentRepository
	packageRepo  repository.QuestionPackageRepository
	camera       gateway.CameraGateway
	incidents    gateway.IncidentGateway
}

func NewProctoringService(
	attemptRepo repository.ExamAttemptRepository,
	proctorRepo repository.ProctoringRepository,
	incidentRepo repository.IncidentRepository,
	packageRepo repository.QuestionPackageRepository,
	camera gateway.CameraGateway,
	incidents gateway.IncidentGateway,
) ProctoringService {
	return &proctoringService{
		attemptRepo:  attemptRepo,
		proctorRepo:  proctorRepo,
		incidentRepo: incidentRepo,
		packageRepo:  packageRepo,
		camera:       camera,
		incidents:    incidents,
	}
}

func (s *proctoringService) StartCamera(ctx context.Context, attemptID uint) (*dto.SessionResponse, error) {
	attempt, err := s.attemptRepo.FindByIDWithExam(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}

	session, err := s.proctorRepo.UpsertSession(attempt.ID, attempt.ExamID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert proctoring session for attempt %d: %w", attemptID, err)
	}

	activation := s.camera.Activate(ctx, attempt.ID, attempt.Exam.UserID)

	log.Info().Uint("attemptID", attempt.ID).Str("cameraStatus", session.CameraStatus).Msg("Proctoring session active")
	return &dto.SessionResponse{
		AttemptID:    attempt.ID,
		CameraStatus: session.CameraStatus,
		StartedAt:    session.StartedAt,
		SessionToken: activation.SessionToken,
	}, nil
}

func appendEvent(raw datatypes.JSON, event model.ViolationEvent) datatypes.JSON {
	var events []model.ViolationEvent
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &events); err != nil {
			log.Warn().Err(err).Msg("Violation event log was corrupt, starting a fresh log")
			events = nil
		}
	}
	events = append(events, event)
	out, err := json.Marshal(events)
	if err != nil {
		return raw
	}
	return datatypes.JSON(out)
}

func (s *proctoringService) ReportFocusViolation(ctx context.Context, attemptID uint) (*dto.ViolationResponse, error) {
	attempt, err := s.attemptRepo.FindByIDWithExam(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}

	// Violations on an already-canceled attempt are recorded nowhere;
	// the state machine is terminal. Checked before the lazy violation
	// create so the no-op path writes no row either.
	if attempt.Status == model.AttemptStatusCanceled {
		existing, err := s.proctorRepo.FindViolationByAttemptID(attempt.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load violation record for attempt %d: %w", attemptID, err)
		}
		strikes := 0
		if existing != nil {
			strikes = existing.Strikes
		}
		return &dto.ViolationResponse{
			AttemptID: attempt.ID,
			Strikes:   strikes,
			Canceled:  true,
			Message:   "attempt already canceled",
		}, nil
	}

	violation, err := s.proctorRepo.GetOrCreateViolation(attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load violation record for attempt %d: %w", attemptID, err)
	}

	now := time.Now()
	violation.Strikes++
	violation.Events = appendEvent(violation.Events, model.ViolationEvent{
		Type:       model.ViolationEventFocusLost,
		Strike:     violation.Strikes,
		OccurredAt: now,
	})

	canceled := false
	if violation.Strikes >= model.StrikeCancelThreshold {
		changed, err := s.attemptRepo.MarkCanceled(attempt.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to cancel attempt %d: %w", attemptID, err)
		}
		canceled = true
		if changed {
			violation.Events = appendEvent(violation.Events, model.ViolationEvent{
				Type:       model.ViolationEventExamCanceled,
				Strike:     violation.Strikes,
				OccurredAt: now,
			})
			if attempt.PackageRef != "" {
				if err := s.packageRepo.UpdateStatus(attempt.PackageRef, model.PackageStatusCancelled); err != nil {
					log.Error().Err(err).Str("packageRef", attempt.PackageRef).Msg("Failed to cancel question package")
				}
			}
			// Administrative alert is best-effort; the gateway absorbs
			// downstream failures.
			go func(userID, attemptID uint, examType string) {
				if err := s.incidents.AlertCancellation(context.Background(), userID, attemptID, examType); err != nil {
					log.Error().Err(err).Uint("attemptID", attemptID).Msg("Cancellation alert failed")
				}
			}(attempt.Exam.UserID, attempt.ID, attempt.Exam.ExamType)

			log.Warn().Uint("attemptID", attempt.ID).Int("strikes", violation.Strikes).Msg("Attempt canceled by strike threshold")
		}
	}

	if err := s.proctorRepo.SaveViolation(violation); err != nil {
		return nil, fmt.Errorf("failed to save violation record for attempt %d: %w", attemptID, err)
	}

	resp := &dto.ViolationResponse{AttemptID: attempt.ID, Strikes: violation.Strikes, Canceled: canceled}
	if canceled {
		resp.Message = "attempt canceled after repeated focus violations"
	}
	return resp, nil
}

func (s *proctoringService) ReportIncident(ctx context.Context, attemptID uint, req dto.IncidentRequest) (*dto.IncidentResponse, error) {
	if _, err := s.attemptRepo.FindByID(attemptID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}

	severity := req.Severity
	if severity == "" {
		severity = "medium"
	}

	incident := model.Incident{
		AttemptID:    attemptID,
		Source:       "client",
		IncidentType: req.IncidentType,
		Severity:     severity,
		Status:       model.IncidentStatusOpen,
	}
	if req.Details != nil {
		raw, err := json.Marshal(req.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal incident details: %w", err)
		}
		incident.Details = datatypes.JSON(raw)
	}

	if err := s.incidentRepo.Create(&incident); err != nil {
		return nil, fmt.Errorf("failed to record incident for attempt %d: %w", attemptID, err)
	}

	go func() {
		if err := s.incidents.RelayIncident(context.Background(), attemptID, req.IncidentType, severity, req.Details); err != nil {
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("Incident relay failed")
		}
	}()

	log.Info().Uint("attemptID", attemptID).Str("incidentType", req.IncidentType).Str("severity", severity).Msg("Incident recorded")
	return &dto.IncidentResponse{
		ID:           incident.ID,
		AttemptID:    attemptID,
		IncidentType: incident.IncidentType,
		Severity:     incident.Severity,
		Status:       incident.Status,
	}, nil
}
