package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	CameraStatusInactive = "inactive"
	CameraStatusActive   = "active"
)

// Proctoring violation event types appended to ProctoringViolation.Events.
const (
	ViolationEventFocusLost    = "focus_lost"
	ViolationEventExamCanceled = "exam_canceled"
)

// StrikeCancelThreshold is the strike count at which an attempt is
// automatically canceled.
const StrikeCancelThreshold = 3

// ProctoringSession tracks camera state for one attempt. Unique on attempt
// id; the start-camera operation upserts it idempotently.
type ProctoringSession struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	AttemptID    uint           `json:"attempt_id" gorm:"not null;uniqueIndex"`
	ExamID       uint           `json:"exam_id" gorm:"not null;index"`
	CameraStatus string         `json:"camera_status" gorm:"default:'inactive'"` // "inactive", "active"
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	Events       datatypes.JSON `json:"events,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ProctoringViolation carries the strike counter and append-only event log
// for one attempt. Created lazily on the first violation.
type ProctoringViolation struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	AttemptID uint           `json:"attempt_id" gorm:"not null;uniqueIndex"`
	Strikes   int            `json:"strikes" gorm:"not null;default:0"`
	Events    datatypes.JSON `json:"events,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ViolationEvent is one entry of ProctoringViolation.Events.
type ViolationEvent struct {
	Type       string    `json:"type"`
	Strike     int       `json:"strike,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
