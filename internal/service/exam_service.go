package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Proctora/internal/dto"
	"github.com/lshigami/Proctora/internal/gateway"
	"github.com/lshigami/Proctora/internal/model"
	"github.com/lshigami/Proctora/internal/repository"
	"github.com/lshigami/Proctora/internal/tracker"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// attemptValidity is the window between attempt creation and expires_at.
const attemptValidity = 72 * time.Hour

// ExamService is the attempt orchestrator: it owns the create → start →
// submit state machine, the dual-store writes and the outbound result
// pushes.
type ExamService interface {
	CreateExam(ctx context.Context, req dto.CreateExamRequest) (*dto.CreateExamResponse, error)
	StartAttempt(ctx context.Context, examID, attemptID uint) (*dto.LearnerPackageDTO, error)
	SubmitAttempt(ctx context.Context, examID uint, req dto.SubmitAttemptRequest) (*dto.GradingSummaryDTO, error)
	GetAttempt(attemptID uint) (*dto.AttemptDTO, error)
	GetAttemptsByUser(userID uint) ([]dto.AttemptDTO, error)
	GetAttemptSkills(attemptID uint) ([]dto.SkillScoreDTO, error)
}

type examService struct {
	examRepo    repository.ExamRepository
	attemptRepo repository.ExamAttemptRepository
	skillRepo   repository.AttemptSkillRepository
	packageRepo repository.QuestionPackageRepository
	proctorRepo repository.ProctoringRepository
	builder     PackageBuilderService
	grader      Grader
	tracker     tracker.Tracker
	directory   gateway.DirectoryGateway
	skills      gateway.SkillsGateway
	courses     gateway.CourseGateway
	devLab      gateway.DevLabGateway
	camera      gateway.CameraGateway
	db          *gorm.DB
}

func NewExamService(
	examRepo repository.ExamRepository,
	attemptRepo repository.ExamAttemptRepository,
	skillRepo repository.AttemptSkillRepository,
	packageRepo repository.QuestionPackageRepository,
	proctorRepo repository.ProctoringRepository,
	builder PackageBuilderService,
	grader Grader,
	attemptTracker tracker.Tracker,
	directory gateway.DirectoryGateway,
	skills gateway.SkillsGateway,
	courses gateway.CourseGateway,
	devLab gateway.DevLabGateway,
	camera gateway.CameraGateway,
	db *gorm.DB,
) ExamService {
	return &examService{
		examRepo:    examRepo,
		attemptRepo: attemptRepo,
		skillRepo:   skillRepo,
		packageRepo: packageRepo,
		proctorRepo: proctorRepo,
		builder:     builder,
		grader:      grader,
		tracker:     attemptTracker,
		directory:   directory,
		skills:      skills,
		courses:     courses,
		devLab:      devLab,
		camera:      camera,
		db:          db,
	}
}

// truncateScore truncates (never rounds) to the given number of decimal
// places. Applied exactly once, at the grading boundary.
func truncateScore(v float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	p := math.Pow(10, float64(precision))
	return math.Trunc(v*p) / p
}

func (s *examService) CreateExam(ctx context.Context, req dto.CreateExamRequest) (*dto.CreateExamResponse, error) {
	if !model.ValidExamType(req.ExamType) {
		return nil, ErrInvalidExamType
	}
	if req.ExamType == model.ExamTypePostcourse && req.CourseID == nil {
		return nil, ErrCourseRequired
	}

	if req.ExamType == model.ExamTypeBaseline {
		exists, err := s.examRepo.BaselineExistsForUser(req.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check baseline existence for user %d: %w", req.UserID, err)
		}
		if exists {
			return nil, ErrBaselineAlreadyExists
		}
	}

	policy := s.directory.FetchPolicy(ctx, req.UserID, req.ExamType)

	decision, until, err := s.tracker.CanAttempt(req.UserID, req.ExamType, policy.MaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("attempt tracker failed for user %d: %w", req.UserID, err)
	}
	switch decision {
	case tracker.DecisionBlockedLimit:
		return nil, ErrMaxAttemptsReached
	case tracker.DecisionBlockedCooldown:
		log.Info().Uint("userID", req.UserID).Time("until", *until).Msg("CreateExam blocked by cooldown")
		return nil, ErrCooldownActive
	}

	exam := model.Exam{UserID: req.UserID, ExamType: req.ExamType, CourseID: req.CourseID}
	attempt := model.ExamAttempt{
		AttemptNumber:  1,
		PassingGrade:   policy.PassingGrade,
		MaxAttempts:    policy.MaxAttempts,
		CooldownHours:  policy.CooldownHours,
		ScorePrecision: 2,
		Status:         model.AttemptStatusCreated,
		ExpiresAt:      time.Now().Add(attemptValidity),
	}

	// Exam and attempt rows share the relational store, so they commit
	// together. The package document does not; it is written in a
	// separate round-trip below and reconciled if that write is lost.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&exam).Error; err != nil {
			return fmt.Errorf("failed to insert exam: %w", err)
		}
		attempt.ExamID = exam.ID
		if err := tx.Create(&attempt).Error; err != nil {
			return fmt.Errorf("failed to insert attempt: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.tracker.RecordAttempt(req.UserID, req.ExamType); err != nil {
		// Tracker divergence is logged, not fatal: the relational ledger
		// still counts attempts on the primary path.
		log.Error().Err(err).Uint("userID", req.UserID).Msg("CreateExam: failed to record attempt in tracker")
	}

	var pkg *model.QuestionPackage
	if req.ExamType == model.ExamTypeBaseline {
		skills := s.skills.FetchSkills(ctx, req.UserID)
		pkg, err = s.builder.BuildBaselinePackage(attempt.ID, skills)
	} else {
		coverage := s.courses.FetchCoverage(ctx, *req.CourseID)
		pkg, err = s.builder.BuildCoursePackage(attempt.ID, coverage)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build question package for attempt %d: %w", attempt.ID, err)
	}
	if err := s.packageRepo.Create(pkg); err != nil {
		return nil, fmt.Errorf("failed to persist question package for attempt %d: %w", attempt.ID, err)
	}
	if err := s.attemptRepo.SetPackageRef(attempt.ID, pkg.PackageRef); err != nil {
		// The reconciler sweep repairs attempts left without a reference.
		log.Error().Err(err).Uint("attemptID", attempt.ID).Str("packageRef", pkg.PackageRef).
			Msg("CreateExam: package persisted but backfill of the reference failed")
		return nil, fmt.Errorf("failed to backfill package reference for attempt %d: %w", attempt.ID, err)
	}

	log.Info().Uint("examID", exam.ID).Uint("attemptID", attempt.ID).Str("examType", req.ExamType).Msg("Exam created")

	return &dto.CreateExamResponse{
		ExamID:    exam.ID,
		AttemptID: attempt.ID,
		PolicySnapshot: dto.PolicySnapshotDTO{
			PassingGrade:  policy.PassingGrade,
			MaxAttempts:   policy.MaxAttempts,
			CooldownHours: policy.CooldownHours,
		},
	}, nil
}

// loadGuardedAttempt fetches an attempt and applies the shared start/submit
// guards: existence, exam match, cancellation, expiry.
func (s *examService) loadGuardedAttempt(examID, attemptID uint) (*model.ExamAttempt, error) {
	attempt, err := s.attemptRepo.FindByIDWithExam(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}
	if examID != 0 && attempt.ExamID != examID {
		return nil, ErrExamMismatch
	}
	if attempt.Status == model.AttemptStatusCanceled {
		return nil, ErrAttemptCanceled
	}
	if time.Now().After(attempt.ExpiresAt) {
		return nil, ErrExamTimeExpired
	}
	return attempt, nil
}

func (s *examService) StartAttempt(ctx context.Context, examID, attemptID uint) (*dto.LearnerPackageDTO, error) {
	attempt, err := s.loadGuardedAttempt(examID, attemptID)
	if err != nil {
		return nil, err
	}
	// Submitted is terminal for the start path too: reopening would let a
	// second submit overwrite the recorded grade.
	if attempt.Status == model.AttemptStatusSubmitted {
		return nil, ErrAttemptAlreadySubmitted
	}

	count, err := s.attemptRepo.CountByExamID(attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts for exam %d: %w", attempt.ExamID, err)
	}
	switch attempt.Exam.ExamType {
	case model.ExamTypeBaseline:
		if count > 1 {
			return nil, ErrBaselineAttemptNotAllowed
		}
	case model.ExamTypePostcourse:
		// Both the attempt's own number and the per-exam count are
		// checked against the frozen snapshot, never live policy.
		if attempt.AttemptNumber > attempt.MaxAttempts || count > int64(attempt.MaxAttempts) {
			return nil, ErrMaxAttemptsReached
		}
	}

	if err := s.attemptRepo.MarkStarted(attempt.ID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to mark attempt %d started: %w", attempt.ID, err)
	}

	pkg, err := s.findPackage(attempt)
	if err != nil {
		return nil, err
	}
	packageStatus := pkg.Status
	if pkg.Status == model.PackageStatusDraft {
		if err := s.packageRepo.UpdateStatus(pkg.PackageRef, model.PackageStatusInProgress); err != nil {
			log.Error().Err(err).Str("packageRef", pkg.PackageRef).Msg("StartAttempt: failed to move package to in_progress")
		} else {
			packageStatus = model.PackageStatusInProgress
		}
	}

	questions, err := s.builder.LearnerView(pkg)
	if err != nil {
		return nil, err
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("examID", attempt.ExamID).Msg("Attempt started")
	return &dto.LearnerPackageDTO{
		PackageRef: pkg.PackageRef,
		Status:     packageStatus,
		ExpiresAt:  attempt.ExpiresAt,
		Questions:  questions,
	}, nil
}

func (s *examService) findPackage(attempt *model.ExamAttempt) (*model.QuestionPackage, error) {
	if attempt.PackageRef != "" {
		pkg, err := s.packageRepo.FindByRef(attempt.PackageRef)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load package %s: %w", attempt.PackageRef, err)
		}
		return pkg, nil
	}
	// The reference backfill may have been lost; the package itself can
	// still exist keyed by attempt id.
	pkg, err := s.packageRepo.FindByAttemptID(attempt.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load package for attempt %d: %w", attempt.ID, err)
	}
	return pkg, nil
}

func (s *examService) SubmitAttempt(ctx context.Context, examID uint, req dto.SubmitAttemptRequest) (*dto.GradingSummaryDTO, error) {
	attempt, err := s.loadGuardedAttempt(examID, req.AttemptID)
	if err != nil {
		return nil, err
	}
	if attempt.Status == model.AttemptStatusSubmitted {
		return nil, ErrAttemptAlreadySubmitted
	}

	pkg, err := s.findPackage(attempt)
	if err != nil {
		return nil, err
	}
	questions, err := s.builder.Questions(pkg)
	if err != nil {
		return nil, err
	}

	result, err := s.grader.Grade(ctx, questions, req.Answers, attempt.PassingGrade)
	if err != nil {
		return nil, fmt.Errorf("grading failed for attempt %d: %w", attempt.ID, err)
	}

	finalGrade := truncateScore(result.FinalGrade, attempt.ScorePrecision)
	passed := finalGrade >= attempt.PassingGrade

	submitted, err := s.attemptRepo.MarkSubmitted(attempt.ID, time.Now(), finalGrade, passed)
	if err != nil {
		return nil, fmt.Errorf("failed to mark attempt %d submitted: %w", attempt.ID, err)
	}
	if !submitted {
		// The guard rejected the write: another submit or a cancellation
		// won the race between our read and this update.
		current, readErr := s.attemptRepo.FindByID(attempt.ID)
		if readErr == nil && current.Status == model.AttemptStatusCanceled {
			return nil, ErrAttemptCanceled
		}
		return nil, ErrAttemptAlreadySubmitted
	}

	skillRows := make([]model.AttemptSkill, 0, len(result.PerSkill))
	skillDTOs := make([]dto.SkillScoreDTO, 0, len(result.PerSkill))
	var failedSkillIDs []string
	skillResults := make([]gateway.SkillResult, 0, len(result.PerSkill))
	for _, sk := range result.PerSkill {
		status := model.SkillStatusFailed
		if sk.Passed {
			status = model.SkillStatusAcquired
		} else {
			failedSkillIDs = append(failedSkillIDs, sk.SkillID)
		}
		skillRows = append(skillRows, model.AttemptSkill{
			AttemptID: attempt.ID,
			SkillID:   sk.SkillID,
			SkillName: sk.SkillName,
			Score:     sk.Score,
			Status:    status,
		})
		skillDTOs = append(skillDTOs, dto.SkillScoreDTO{SkillID: sk.SkillID, SkillName: sk.SkillName, Score: sk.Score, Status: status})
		skillResults = append(skillResults, gateway.SkillResult{SkillID: sk.SkillID, SkillName: sk.SkillName, Score: sk.Score, Acquired: sk.Passed})
	}
	if err := s.skillRepo.Upsert(skillRows); err != nil {
		return nil, fmt.Errorf("failed to upsert skill rows for attempt %d: %w", attempt.ID, err)
	}

	summary := dto.GradingSummaryDTO{AttemptID: attempt.ID, FinalGrade: finalGrade, Passed: passed, Skills: skillDTOs}
	rawSummary, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal grading summary: %w", err)
	}
	if err := s.packageRepo.Complete(pkg.PackageRef, datatypes.JSON(rawSummary)); err != nil {
		// The relational ledger already holds the grade; package-side
		// completion is repairable, so log and answer the caller.
		log.Error().Err(err).Str("packageRef", pkg.PackageRef).Msg("SubmitAttempt: failed to complete package document")
	}

	if !passed && attempt.CooldownHours > 0 {
		if err := s.tracker.SetCooldown(attempt.Exam.UserID, attempt.Exam.ExamType, attempt.CooldownHours); err != nil {
			log.Error().Err(err).Uint("userID", attempt.Exam.UserID).Msg("SubmitAttempt: failed to install cooldown")
		}
	}

	s.pushResults(attempt, finalGrade, passed, skillResults, failedSkillIDs)

	log.Info().Uint("attemptID", attempt.ID).Float64("finalGrade", finalGrade).Bool("passed", passed).Msg("Attempt submitted")
	return &summary, nil
}

// pushResults fires the post-submit integration pushes without awaiting
// them. The HTTP response reflects local-store success only; downstream
// propagation is at-most-once and best-effort, and a caller disconnect
// does not cancel these calls, so they run on a background context.
func (s *examService) pushResults(attempt *model.ExamAttempt, finalGrade float64, passed bool, skillResults []gateway.SkillResult, failedSkillIDs []string) {
	userID := attempt.Exam.UserID
	examType := attempt.Exam.ExamType
	courseID := attempt.Exam.CourseID
	attemptID := attempt.ID
	examID := attempt.ExamID

	go func() {
		ctx := context.Background()

		if err := s.directory.PushResult(ctx, userID, examID, examType, finalGrade, passed); err != nil {
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("Result push to directory failed")
		}
		if err := s.skills.PushResults(ctx, userID, skillResults); err != nil {
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("Result push to skills engine failed")
		}
		if examType == model.ExamTypePostcourse && courseID != nil {
			if err := s.courses.PushResult(ctx, userID, *courseID, finalGrade, passed); err != nil {
				log.Error().Err(err).Uint("attemptID", attemptID).Msg("Result push to course builder failed")
			}
		}
		if err := s.devLab.ProvisionRemediation(ctx, userID, failedSkillIDs); err != nil {
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("Remediation push to dev lab failed")
		}

		strikes := 0
		if violation, err := s.proctorRepo.FindViolationByAttemptID(attemptID); err == nil && violation != nil {
			strikes = violation.Strikes
		}
		if err := s.camera.PushSummary(ctx, attemptID, userID, strikes, false); err != nil {
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("Proctoring summary push failed")
		}
	}()
}

func (s *examService) GetAttempt(attemptID uint) (*dto.AttemptDTO, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}
	var resp dto.AttemptDTO
	if err := copier.Copy(&resp, attempt); err != nil {
		return nil, fmt.Errorf("failed to map attempt %d: %w", attemptID, err)
	}
	return &resp, nil
}

func (s *examService) GetAttemptsByUser(userID uint) ([]dto.AttemptDTO, error) {
	attempts, err := s.attemptRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts for user %d: %w", userID, err)
	}
	dtos := make([]dto.AttemptDTO, 0, len(attempts))
	for i := range attempts {
		var resp dto.AttemptDTO
		if err := copier.Copy(&resp, &attempts[i]); err != nil {
			log.Error().Err(err).Uint("attemptID", attempts[i].ID).Msg("GetAttemptsByUser: failed to map attempt")
			continue
		}
		dtos = append(dtos, resp)
	}
	return dtos, nil
}

func (s *examService) GetAttemptSkills(attemptID uint) ([]dto.SkillScoreDTO, error) {
	if _, err := s.attemptRepo.FindByID(attemptID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}

	skills, err := s.skillRepo.FindByAttemptID(attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills for attempt %d: %w", attemptID, err)
	}
	dtos := make([]dto.SkillScoreDTO, 0, len(skills))
	for _, sk := range skills {
		dtos = append(dtos, dto.SkillScoreDTO{SkillID: sk.SkillID, SkillName: sk.SkillName, Score: sk.Score, Status: sk.Status})
	}
	return dtos, nil
}
