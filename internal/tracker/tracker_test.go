package tracker

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lshigami/Proctora/config"
)

func newTestTracker(t *testing.T) Tracker {
	t.Helper()
	cfg := &config.Config{}
	cfg.Tracker.FilePath = filepath.Join(t.TempDir(), "tracker.json")
	return NewTracker(cfg)
}

func TestCanAttemptWithNoRecord(t *testing.T) {
	tr := newTestTracker(t)

	decision, until, err := tr.CanAttempt(1, "postcourse", 3)
	if err != nil {
		t.Fatalf("CanAttempt: %v", err)
	}
	if decision != DecisionOK || until != nil {
		t.Fatalf("decision = %v, until = %v", decision, until)
	}
}

func TestAttemptLimit(t *testing.T) {
	tr := newTestTracker(t)

	for i := 0; i < 3; i++ {
		if err := tr.RecordAttempt(2, "postcourse"); err != nil {
			t.Fatalf("RecordAttempt %d: %v", i, err)
		}
	}

	decision, _, err := tr.CanAttempt(2, "postcourse", 3)
	if err != nil {
		t.Fatalf("CanAttempt: %v", err)
	}
	if decision != DecisionBlockedLimit {
		t.Fatalf("decision = %v, want blocked:limit", decision)
	}

	// A higher cap admits the same history.
	decision, _, _ = tr.CanAttempt(2, "postcourse", 5)
	if decision != DecisionOK {
		t.Fatalf("decision with cap 5 = %v, want ok", decision)
	}
}

func TestCooldownGate(t *testing.T) {
	tr := newTestTracker(t)

	if err := tr.RecordAttempt(3, "postcourse"); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	if err := tr.SetCooldown(3, "postcourse", 24); err != nil {
		t.Fatalf("SetCooldown: %v", err)
	}

	decision, until, err := tr.CanAttempt(3, "postcourse", 3)
	if err != nil {
		t.Fatalf("CanAttempt: %v", err)
	}
	if decision != DecisionBlockedCooldown {
		t.Fatalf("decision = %v, want blocked:cooldown", decision)
	}
	if until == nil {
		t.Fatal("blocked:cooldown must carry the expiry timestamp")
	}
	wantUntil := time.Now().Add(24 * time.Hour)
	if until.Before(wantUntil.Add(-time.Minute)) || until.After(wantUntil.Add(time.Minute)) {
		t.Fatalf("cooldown until = %v, want ~%v", until, wantUntil)
	}

	// An already-expired cooldown no longer blocks.
	if err := tr.SetCooldown(3, "postcourse", -1); err != nil {
		t.Fatalf("SetCooldown: %v", err)
	}
	decision, _, _ = tr.CanAttempt(3, "postcourse", 3)
	if decision != DecisionOK {
		t.Fatalf("decision after expiry = %v, want ok", decision)
	}
}

func TestOverrideConsumesItself(t *testing.T) {
	tr := newTestTracker(t)

	for i := 0; i < 3; i++ {
		if err := tr.RecordAttempt(4, "postcourse"); err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}
	if err := tr.SetCooldown(4, "postcourse", 24); err != nil {
		t.Fatalf("SetCooldown: %v", err)
	}
	if err := tr.SetOverride(4, "postcourse"); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}

	decision, _, err := tr.CanAttempt(4, "postcourse", 3)
	if err != nil {
		t.Fatalf("CanAttempt: %v", err)
	}
	if decision != DecisionOK {
		t.Fatalf("override should admit the attempt, got %v", decision)
	}

	// Second call sees the override gone and the cooldown still active.
	decision, _, _ = tr.CanAttempt(4, "postcourse", 3)
	if decision != DecisionBlockedCooldown {
		t.Fatalf("decision after override consumed = %v, want blocked:cooldown", decision)
	}
}

func TestHistoryVersionsStrictlyIncrease(t *testing.T) {
	cfg := &config.Config{}
	cfg.Tracker.FilePath = filepath.Join(t.TempDir(), "tracker.json")
	tr := NewTracker(cfg).(*fileTracker)

	for i := 0; i < 4; i++ {
		if err := tr.RecordAttempt(5, "baseline"); err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}

	doc, err := tr.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	entry := doc.Entries["5:baseline"]
	if entry == nil {
		t.Fatal("expected a ledger entry for 5:baseline")
	}
	if entry.Attempts != 4 {
		t.Fatalf("attempts = %d, want 4", entry.Attempts)
	}
	for i, h := range entry.History {
		if h.Version != i+1 {
			t.Fatalf("history[%d].Version = %d, want %d", i, h.Version, i+1)
		}
	}
}

func TestRecordAttemptClearsOverride(t *testing.T) {
	cfg := &config.Config{}
	cfg.Tracker.FilePath = filepath.Join(t.TempDir(), "tracker.json")
	tr := NewTracker(cfg).(*fileTracker)

	if err := tr.SetOverride(6, "postcourse"); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}
	if err := tr.RecordAttempt(6, "postcourse"); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}

	doc, err := tr.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Entries["6:postcourse"].Override {
		t.Fatal("RecordAttempt must clear an active override")
	}
}
