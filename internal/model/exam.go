package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	ExamTypeBaseline   = "baseline"
	ExamTypePostcourse = "postcourse"
)

// Exam is the root record of the relational ledger. At most one baseline
// exam ever exists per user; the orchestrator checks before insert.
type Exam struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	ExamType  string         `json:"exam_type" gorm:"not null;index"` // "baseline", "postcourse"
	CourseID  *uint          `json:"course_id,omitempty" gorm:"index"`
	Attempts  []ExamAttempt  `json:"attempts,omitempty" gorm:"foreignKey:ExamID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func ValidExamType(t string) bool {
	return t == ExamTypeBaseline || t == ExamTypePostcourse
}
