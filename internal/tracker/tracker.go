// Package tracker is the file-backed ledger of attempt counts, cooldowns
// and overrides per (user, exam type). It is the retake-eligibility
// authority for flows that bypass the relational ledger. The whole
// document is read-modify-written per call; write concurrency per user is
// assumed to be low and last-writer-wins is accepted.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lshigami/Proctora/config"
	"github.com/rs/zerolog/log"
)

type Decision string

const (
	DecisionOK              Decision = "ok"
	DecisionBlockedCooldown Decision = "blocked:cooldown"
	DecisionBlockedLimit    Decision = "blocked:limit"
)

// HistoryEntry is one recorded attempt; versions are strictly increasing
// per (user, exam type).
type HistoryEntry struct {
	Version    int       `json:"version"`
	RecordedAt time.Time `json:"recorded_at"`
}

// LedgerEntry is the per-(user, examType) state.
type LedgerEntry struct {
	Attempts      int            `json:"attempts"`
	LastAttemptAt *time.Time     `json:"last_attempt_at,omitempty"`
	CooldownUntil *time.Time     `json:"cooldown_until,omitempty"`
	Override      bool           `json:"override"`
	History       []HistoryEntry `json:"history,omitempty"`
}

type ledgerDocument struct {
	Entries map[string]*LedgerEntry `json:"entries"`
}

type Tracker interface {
	// CanAttempt decides retake eligibility. An active override makes the
	// call succeed and consumes itself. The returned time is the cooldown
	// expiry when the decision is blocked:cooldown, nil otherwise.
	CanAttempt(userID uint, examType string, maxAttempts int) (Decision, *time.Time, error)
	RecordAttempt(userID uint, examType string) error
	SetCooldown(userID uint, examType string, hours int) error
	SetOverride(userID uint, examType string) error
}

type fileTracker struct {
	path string
	mu   sync.Mutex
}

func NewTracker(cfg *config.Config) Tracker {
	return &fileTracker{path: cfg.Tracker.FilePath}
}

func (t *fileTracker) load() (*ledgerDocument, error) {
	raw, err := os.ReadFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return &ledgerDocument{Entries: map[string]*LedgerEntry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tracker file: %w", err)
	}
	var doc ledgerDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("tracker file is corrupt: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]*LedgerEntry{}
	}
	return &doc, nil
}

func (t *fileTracker) save(doc *ledgerDocument) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tracker document: %w", err)
	}
	if err := os.WriteFile(t.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write tracker file: %w", err)
	}
	return nil
}

func key(userID uint, examType string) string {
	return fmt.Sprintf("%d:%s", userID, examType)
}

func (t *fileTracker) CanAttempt(userID uint, examType string, maxAttempts int) (Decision, *time.Time, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	doc, err := t.load()
	if err != nil {
		return "", nil, err
	}

	entry, ok := doc.Entries[key(userID, examType)]
	if !ok {
		return DecisionOK, nil, nil
	}

	if entry.Override {
		// The override is a single-use escape hatch: consuming it here
		// means the very next call is decided by limit/cooldown again.
		entry.Override = false
		if err := t.save(doc); err != nil {
			return "", nil, err
		}
		log.Info().Uint("userID", userID).Str("examType", examType).Msg("Attempt override consumed")
		return DecisionOK, nil, nil
	}

	if entry.CooldownUntil != nil && entry.CooldownUntil.After(time.Now()) {
		until := *entry.CooldownUntil
		return DecisionBlockedCooldown, &until, nil
	}

	if maxAttempts > 0 && entry.Attempts >= maxAttempts {
		return DecisionBlockedLimit, nil, nil
	}

	return DecisionOK, nil, nil
}

func (t *fileTracker) RecordAttempt(userID uint, examType string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	doc, err := t.load()
	if err != nil {
		return err
	}

	k := key(userID, examType)
	entry, ok := doc.Entries[k]
	if !ok {
		entry = &LedgerEntry{}
		doc.Entries[k] = entry
	}

	now := time.Now()
	entry.Attempts++
	entry.LastAttemptAt = &now
	entry.Override = false

	version := 0
	for _, h := range entry.History {
		if h.Version > version {
			version = h.Version
		}
	}
	entry.History = append(entry.History, HistoryEntry{Version: version + 1, RecordedAt: now})

	return t.save(doc)
}

func (t *fileTracker) SetCooldown(userID uint, examType string, hours int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	doc, err := t.load()
	if err != nil {
		return err
	}

	k := key(userID, examType)
	entry, ok := doc.Entries[k]
	if !ok {
		entry = &LedgerEntry{}
		doc.Entries[k] = entry
	}

	until := time.Now().Add(time.Duration(hours) * time.Hour)
	entry.CooldownUntil = &until

	log.Info().Uint("userID", userID).Str("examType", examType).Time("until", until).Msg("Cooldown installed")
	return t.save(doc)
}

func (t *fileTracker) SetOverride(userID uint, examType string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	doc, err := t.load()
	if err != nil {
		return err
	}

	k := key(userID, examType)
	entry, ok := doc.Entries[k]
	if !ok {
		entry = &LedgerEntry{}
		doc.Entries[k] = entry
	}
	entry.Override = true

	log.Info().Uint("userID", userID).Str("examType", examType).Msg("Attempt override installed")
	return t.save(doc)
}
