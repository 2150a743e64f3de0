package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	IncidentStatusOpen     = "open"
	IncidentStatusResolved = "resolved"
)

// Incident is an append-only record of an out-of-band integrity event,
// independent of the strike counter (e.g. a second device detected in
// frame). Only the status field ever changes after creation.
type Incident struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	AttemptID    uint           `json:"attempt_id" gorm:"not null;index"`
	Source       string         `json:"source" gorm:"not null"` // "client", "reconciler", ...
	IncidentType string         `json:"incident_type" gorm:"not null"`
	Severity     string         `json:"severity" gorm:"not null"` // "low", "medium", "high"
	Status       string         `json:"status" gorm:"default:'open'"`
	Details      datatypes.JSON `json:"details,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
