package service

import (
	"testing"
	"time"

	"github.com/lshigami/Proctora/config"
	"github.com/lshigami/Proctora/internal/model"
)

func newReconcilerFixture() (*fakeAttemptRepo, *fakePackageRepo, *fakeIncidentRepo, *Reconciler) {
	attempts := newFakeAttemptRepo()
	packages := newFakePackageRepo()
	incidents := &fakeIncidentRepo{}
	cfg := &config.Config{Reconciler: config.Reconciler{IntervalMinutes: 10}}
	return attempts, packages, incidents, NewReconciler(cfg, attempts, packages, incidents)
}

func seedOrphanAttempt(t *testing.T, attempts *fakeAttemptRepo) uint {
	t.Helper()
	attempt := model.ExamAttempt{
		ExamID:    1,
		Status:    model.AttemptStatusCreated,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := attempts.Create(&attempt); err != nil {
		t.Fatalf("seed attempt: %v", err)
	}
	attempts.mu.Lock()
	attempts.attempts[attempt.ID].CreatedAt = time.Now().Add(-time.Hour)
	attempts.mu.Unlock()
	return attempt.ID
}

func TestSweepRelinksExistingPackage(t *testing.T) {
	attempts, packages, incidents, r := newReconcilerFixture()
	attemptID := seedOrphanAttempt(t, attempts)
	pkg := model.QuestionPackage{PackageRef: "pkg-orphan", AttemptID: attemptID, Status: model.PackageStatusDraft}
	if err := packages.Create(&pkg); err != nil {
		t.Fatalf("seed package: %v", err)
	}

	r.Sweep()

	stored, _ := attempts.FindByID(attemptID)
	if stored.PackageRef != "pkg-orphan" {
		t.Fatalf("package_ref = %q, want pkg-orphan re-linked", stored.PackageRef)
	}
	recorded, _ := incidents.FindByAttemptID(attemptID)
	if len(recorded) != 0 {
		t.Fatalf("incidents = %d, want none when the package exists", len(recorded))
	}
}

func TestSweepRaisesIncidentOncePerAttempt(t *testing.T) {
	attempts, _, incidents, r := newReconcilerFixture()
	attemptID := seedOrphanAttempt(t, attempts)

	r.Sweep()
	r.Sweep()

	recorded, _ := incidents.FindByAttemptID(attemptID)
	if len(recorded) != 1 {
		t.Fatalf("incidents = %d, want exactly 1 across repeated sweeps", len(recorded))
	}
	if recorded[0].IncidentType != "missing_question_package" || recorded[0].Source != "reconciler" {
		t.Fatalf("incident row = %+v", recorded[0])
	}
}

func TestSweepSkipsRecentAttempts(t *testing.T) {
	attempts, _, incidents, r := newReconcilerFixture()
	attempt := model.ExamAttempt{
		ExamID:    1,
		Status:    model.AttemptStatusCreated,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := attempts.Create(&attempt); err != nil {
		t.Fatalf("seed attempt: %v", err)
	}
	attempts.mu.Lock()
	attempts.attempts[attempt.ID].CreatedAt = time.Now()
	attempts.mu.Unlock()

	r.Sweep()

	recorded, _ := incidents.FindByAttemptID(attempt.ID)
	if len(recorded) != 0 {
		t.Fatalf("incidents = %d, want none inside the grace period", len(recorded))
	}
}
