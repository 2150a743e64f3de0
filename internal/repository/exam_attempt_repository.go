package repository

import (
	"time"

	"github.com/lshigami/Proctora/internal/model"
	"gorm.io/gorm"
)

type ExamAttemptRepository interface {
	Create(attempt *model.ExamAttempt) error
	FindByID(id uint) (*model.ExamAttempt, error)
	FindByIDWithExam(id uint) (*model.ExamAttempt, error)
	FindAllByUser(userID uint) ([]model.ExamAttempt, error)
	CountByExamID(examID uint) (int64, error)
	SetPackageRef(attemptID uint, ref string) error
	// MarkStarted sets started_at exactly once; a repeat call is a no-op.
	MarkStarted(attemptID uint, at time.Time) error
	// MarkSubmitted writes the grading outcome guarded on a non-terminal
	// status. Returns false when the guard rejected the write (already
	// submitted or canceled).
	MarkSubmitted(attemptID uint, at time.Time, finalGrade float64, passed bool) (bool, error)
	// MarkCanceled flips the attempt to canceled with a
	// status <> 'canceled' guard. Returns false when it was already
	// canceled.
	MarkCanceled(attemptID uint) (bool, error)
	// FindMissingPackageRef lists attempts whose package backfill never
	// happened; consumed by the reconciliation sweep.
	FindMissingPackageRef(olderThan time.Time) ([]model.ExamAttempt, error)
}

type examAttemptRepository struct {
	db *gorm.DB
}

func NewExamAttemptRepository(db *gorm.DB) ExamAttemptRepository {
	return &examAttemptRepository{db: db}
}

func (r *examAttemptRepository) Create(attempt *model.ExamAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *examAttemptRepository) FindByID(id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *examAttemptRepository) FindByIDWithExam(id uint) (*model.ExamAttempt, error) {
	var attempt model.ExamAttempt
	if err := r.db.Preload("Exam").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *examAttemptRepository) FindAllByUser(userID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.db.
		Joins("JOIN exams ON exams.id = exam_attempts.exam_id").
		Where("exams.user_id = ?", userID).
		Order("exam_attempts.created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *examAttemptRepository) CountByExamID(examID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ExamAttempt{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

func (r *examAttemptRepository) SetPackageRef(attemptID uint, ref string) error {
	return r.db.Model(&model.ExamAttempt{}).
		Where("id = ?", attemptID).
		Update("package_ref", ref).Error
}

func (r *examAttemptRepository) MarkStarted(attemptID uint, at time.Time) error {
	// started_at IS NULL makes repeat starts a no-op at the row level.
	// The status guard keeps a submitted attempt (legal without a prior
	// start, so started_at can still be NULL) from regressing to
	// in_progress.
	return r.db.Model(&model.ExamAttempt{}).
		Where("id = ? AND started_at IS NULL AND status = ?", attemptID, model.AttemptStatusCreated).
		Updates(map[string]interface{}{
			"started_at": at,
			"status":     model.AttemptStatusInProgress,
		}).Error
}

func (r *examAttemptRepository) MarkSubmitted(attemptID uint, at time.Time, finalGrade float64, passed bool) (bool, error) {
	res := r.db.Model(&model.ExamAttempt{}).
		Where("id = ? AND status IN ?", attemptID, []string{model.AttemptStatusCreated, model.AttemptStatusInProgress}).
		Updates(map[string]interface{}{
			"submitted_at": at,
			"final_grade":  finalGrade,
			"passed":       passed,
			"status":       model.AttemptStatusSubmitted,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *examAttemptRepository) MarkCanceled(attemptID uint) (bool, error) {
	res := r.db.Model(&model.ExamAttempt{}).
		Where("id = ? AND status <> ?", attemptID, model.AttemptStatusCanceled).
		Update("status", model.AttemptStatusCanceled)
	return res.RowsAffected > 0, res.Error
}

func (r *examAttemptRepository) FindMissingPackageRef(olderThan time.Time) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.db.
		Where("package_ref = '' AND created_at < ?", olderThan).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}
