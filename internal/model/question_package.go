package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PackageStatusDraft      = "draft"
	PackageStatusInProgress = "in_progress"
	PackageStatusCompleted  = "completed"
	PackageStatusCancelled  = "cancelled"
	PackageStatusArchived   = "archived"
)

// QuestionPackage is the document half of the dual store: one row per
// attempt, keyed by an opaque reference, holding the full question set with
// answer keys, the coverage map and the grading summary as JSONB. Answer
// keys and hints live only here; every learner-facing read goes through a
// recursive hint strip.
type QuestionPackage struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	PackageRef string `json:"package_ref" gorm:"not null;size:64;uniqueIndex"`
	AttemptID  uint   `json:"attempt_id" gorm:"not null;index"`

	Questions      datatypes.JSON `json:"questions" gorm:"type:jsonb"`
	CoverageMap    datatypes.JSON `json:"coverage_map,omitempty" gorm:"type:jsonb"`
	GradingSummary datatypes.JSON `json:"grading_summary,omitempty" gorm:"type:jsonb"`

	Status    string    `json:"status" gorm:"default:'draft';index"` // "draft", "in_progress", "completed", "cancelled", "archived"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
