package model

import "time"

const (
	SkillStatusAcquired = "acquired"
	SkillStatusFailed   = "failed"
	SkillStatusPending  = "pending"
)

// AttemptSkill is one graded skill within an attempt. Upserted on submit,
// never deleted.
type AttemptSkill struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	AttemptID uint      `json:"attempt_id" gorm:"not null;uniqueIndex:idx_attempt_skill"`
	SkillID   string    `json:"skill_id" gorm:"not null;size:64;uniqueIndex:idx_attempt_skill"`
	SkillName string    `json:"skill_name" gorm:"not null"`
	Score     float64   `json:"score"`
	Status    string    `json:"status" gorm:"default:'pending'"` // "acquired", "failed", "pending"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
