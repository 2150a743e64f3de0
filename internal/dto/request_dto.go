package dto

// CreateExamRequest opens an exam plus its first attempt.
type CreateExamRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	ExamType string `json:"exam_type" binding:"required"`
	CourseID *uint  `json:"course_id"` // required for postcourse, checked in the service
}

type StartAttemptRequest struct {
	AttemptID uint `json:"attempt_id" binding:"required"`
}

// AnswerSubmission is one answered question.
type AnswerSubmission struct {
	QuestionID string `json:"question_id" binding:"required"`
	Response   string `json:"response"`
}

type SubmitAttemptRequest struct {
	AttemptID uint               `json:"attempt_id" binding:"required"`
	Answers   []AnswerSubmission `json:"answers" binding:"required,dive"`
}

// IncidentRequest records an integrity event for an attempt. A
// "focus_lost" incident type is routed to the strike counter; anything
// else becomes an append-only Incident record.
type IncidentRequest struct {
	IncidentType string                 `json:"incident_type" binding:"required"`
	Severity     string                 `json:"severity"`
	Details      map[string]interface{} `json:"details"`
}
