package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/lshigami/Proctora/config"
	"github.com/lshigami/Proctora/internal/model"
	"github.com/lshigami/Proctora/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// reconcilerGracePeriod keeps the sweep away from attempts whose package
// write may simply still be in flight.
const reconcilerGracePeriod = 5 * time.Minute

// Reconciler repairs the gap the dual-store design leaves open: an
// attempt row committed without its package reference backfilled. When a
// package document exists for the attempt, the reference is re-linked;
// when none exists, the attempt is flagged with an incident for operator
// attention.
type Reconciler struct {
	scheduler    *gocron.Scheduler
	interval     time.Duration
	attemptRepo  repository.ExamAttemptRepository
	packageRepo  repository.QuestionPackageRepository
	incidentRepo repository.IncidentRepository
}

func NewReconciler(
	cfg *config.Config,
	attemptRepo repository.ExamAttemptRepository,
	packageRepo repository.QuestionPackageRepository,
	incidentRepo repository.IncidentRepository,
) *Reconciler {
	interval := time.Duration(cfg.Reconciler.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Reconciler{
		scheduler:    gocron.NewScheduler(time.UTC),
		interval:     interval,
		attemptRepo:  attemptRepo,
		packageRepo:  packageRepo,
		incidentRepo: incidentRepo,
	}
}

// Start schedules the sweep and returns immediately.
func (r *Reconciler) Start() {
	if _, err := r.scheduler.Every(r.interval).Do(r.Sweep); err != nil {
		log.Error().Err(err).Msg("Failed to schedule reconciliation sweep")
		return
	}
	r.scheduler.StartAsync()
	log.Info().Dur("interval", r.interval).Msg("Reconciliation sweep scheduled")
}

func (r *Reconciler) Stop() {
	r.scheduler.Stop()
}

// Sweep is one reconciliation pass. Exported so operators can trigger it
// out of schedule.
func (r *Reconciler) Sweep() {
	attempts, err := r.attemptRepo.FindMissingPackageRef(time.Now().Add(-reconcilerGracePeriod))
	if err != nil {
		log.Error().Err(err).Msg("Reconciliation sweep failed to list attempts")
		return
	}
	if len(attempts) == 0 {
		return
	}

	log.Warn().Int("count", len(attempts)).Msg("Reconciliation sweep found attempts without a package reference")
	for i := range attempts {
		if err := r.reconcileAttempt(&attempts[i]); err != nil {
			log.Error().Err(err).Uint("attemptID", attempts[i].ID).Msg("Failed to reconcile attempt")
		}
	}
}

func (r *Reconciler) reconcileAttempt(attempt *model.ExamAttempt) error {
	pkg, err := r.packageRepo.FindByAttemptID(attempt.ID)
	if err == nil {
		if err := r.attemptRepo.SetPackageRef(attempt.ID, pkg.PackageRef); err != nil {
			return fmt.Errorf("failed to re-link package %s: %w", pkg.PackageRef, err)
		}
		log.Info().Uint("attemptID", attempt.ID).Str("packageRef", pkg.PackageRef).Msg("Re-linked orphaned package reference")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up package: %w", err)
	}

	// No package at all. Raise one incident per attempt, not one per sweep.
	existing, err := r.incidentRepo.FindByAttemptID(attempt.ID)
	if err != nil {
		return fmt.Errorf("failed to check existing incidents: %w", err)
	}
	for _, inc := range existing {
		if inc.IncidentType == "missing_question_package" {
			return nil
		}
	}

	incident := model.Incident{
		AttemptID:    attempt.ID,
		Source:       "reconciler",
		IncidentType: "missing_question_package",
		Severity:     "high",
		Status:       model.IncidentStatusOpen,
	}
	if err := r.incidentRepo.Create(&incident); err != nil {
		return fmt.Errorf("failed to raise incident: %w", err)
	}
	log.Warn().Uint("attemptID", attempt.ID).Msg("Attempt has no question package document, incident raised")
	return nil
}
