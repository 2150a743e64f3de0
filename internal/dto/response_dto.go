package dto

import "time"

type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// PolicySnapshotDTO echoes the policy frozen onto the attempt.
type PolicySnapshotDTO struct {
	PassingGrade  float64 `json:"passing_grade"`
	MaxAttempts   int     `json:"max_attempts"`
	CooldownHours int     `json:"cooldown_hours"`
}

type CreateExamResponse struct {
	ExamID         uint              `json:"exam_id"`
	AttemptID      uint              `json:"attempt_id"`
	PolicySnapshot PolicySnapshotDTO `json:"policy_snapshot"`
}

// LearnerPackageDTO is the learner-facing view of a question package.
// Questions are generic maps because hints and answer keys have already
// been stripped out of the stored document shape.
type LearnerPackageDTO struct {
	PackageRef string                   `json:"package_ref"`
	Status     string                   `json:"status"`
	ExpiresAt  time.Time                `json:"expires_at"`
	Questions  []map[string]interface{} `json:"questions"`
}

type SkillScoreDTO struct {
	SkillID   string  `json:"skill_id"`
	SkillName string  `json:"skill_name"`
	Score     float64 `json:"score"`
	Status    string  `json:"status"`
}

// GradingSummaryDTO is the submit response.
type GradingSummaryDTO struct {
	AttemptID  uint            `json:"attempt_id"`
	FinalGrade float64         `json:"final_grade"`
	Passed     bool            `json:"passed"`
	Skills     []SkillScoreDTO `json:"skills"`
}

// AttemptDTO is the read projection of an attempt row.
type AttemptDTO struct {
	ID            uint       `json:"id"`
	ExamID        uint       `json:"exam_id"`
	AttemptNumber int        `json:"attempt_number"`
	Status        string     `json:"status"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	ExpiresAt     time.Time  `json:"expires_at"`
	FinalGrade    *float64   `json:"final_grade,omitempty"`
	Passed        *bool      `json:"passed,omitempty"`
	PackageRef    string     `json:"package_ref,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ViolationResponse reports the strike state after a focus violation.
type ViolationResponse struct {
	AttemptID uint   `json:"attempt_id"`
	Strikes   int    `json:"strikes"`
	Canceled  bool   `json:"canceled"`
	Message   string `json:"message,omitempty"`
}

type SessionResponse struct {
	AttemptID    uint       `json:"attempt_id"`
	CameraStatus string     `json:"camera_status"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	SessionToken string     `json:"session_token,omitempty"`
}

type IncidentResponse struct {
	ID           uint   `json:"id"`
	AttemptID    uint   `json:"attempt_id"`
	IncidentType string `json:"incident_type"`
	Severity     string `json:"severity"`
	Status       string `json:"status"`
}
