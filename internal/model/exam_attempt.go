package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	AttemptStatusCreated    = "created"
	AttemptStatusInProgress = "in_progress"
	AttemptStatusSubmitted  = "submitted"
	AttemptStatusCanceled   = "canceled"
)

// ExamAttempt is one timed instance of taking an Exam. The policy fields
// (PassingGrade, MaxAttempts, CooldownHours, ScorePrecision) are a snapshot
// frozen at creation time; eligibility decisions made later replay this
// snapshot, never live policy.
type ExamAttempt struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	ExamID        uint    `json:"exam_id" gorm:"not null;index"`
	Exam          Exam    `json:"-" gorm:"foreignKey:ExamID"`
	AttemptNumber int     `json:"attempt_number" gorm:"not null"`
	PassingGrade  float64 `json:"passing_grade" gorm:"not null"`
	MaxAttempts   int     `json:"max_attempts" gorm:"not null"`
	CooldownHours int     `json:"cooldown_hours" gorm:"not null"`
	// ScorePrecision is the number of decimal places the final grade is
	// truncated to. Truncation happens once, at the grading boundary.
	ScorePrecision int `json:"score_precision" gorm:"default:2"`

	Status      string     `json:"status" gorm:"default:'created';index"` // "created", "in_progress", "submitted", "canceled"
	StartedAt   *time.Time `json:"started_at,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at" gorm:"not null"`
	FinalGrade  *float64   `json:"final_grade,omitempty"`
	Passed      *bool      `json:"passed,omitempty"`

	// PackageRef points at the QuestionPackage document for this attempt.
	// It is backfilled after the package persists, in a separate round-trip;
	// the reconciler sweeps for attempts where it is still empty.
	PackageRef string `json:"package_ref" gorm:"size:64;index"`

	Skills    []AttemptSkill `json:"skills,omitempty" gorm:"foreignKey:AttemptID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
