package repository

import (
	"errors"
	"time"

	"github.com/lshigami/Proctora/internal/model"
	"gorm.io/gorm"
)

type ProctoringRepository interface {
	// UpsertSession activates the camera session for an attempt; repeat
	// calls leave the existing session active and keep its original
	// start time.
	UpsertSession(attemptID, examID uint, at time.Time) (*model.ProctoringSession, error)
	FindSessionByAttemptID(attemptID uint) (*model.ProctoringSession, error)
	// GetOrCreateViolation lazily creates the violation record on the
	// first reported violation.
	GetOrCreateViolation(attemptID uint) (*model.ProctoringViolation, error)
	// FindViolationByAttemptID returns nil without error when no
	// violation was ever recorded.
	FindViolationByAttemptID(attemptID uint) (*model.ProctoringViolation, error)
	SaveViolation(violation *model.ProctoringViolation) error
}

type proctoringRepository struct {
	db *gorm.DB
}

func NewProctoringRepository(db *gorm.DB) ProctoringRepository {
	return &proctoringRepository{db: db}
}

func (r *proctoringRepository) UpsertSession(attemptID, examID uint, at time.Time) (*model.ProctoringSession, error) {
	var session model.ProctoringSession
	err := r.db.Where("attempt_id = ?", attemptID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session = model.ProctoringSession{
			AttemptID:    attemptID,
			ExamID:       examID,
			CameraStatus: model.CameraStatusActive,
			StartedAt:    &at,
		}
		if err := r.db.Create(&session).Error; err != nil {
			return nil, err
		}
		return &session, nil
	}
	if err != nil {
		return nil, err
	}

	if session.CameraStatus != model.CameraStatusActive {
		session.CameraStatus = model.CameraStatusActive
		if session.StartedAt == nil {
			session.StartedAt = &at
		}
		if err := r.db.Save(&session).Error; err != nil {
			return nil, err
		}
	}
	return &session, nil
}

func (r *proctoringRepository) FindSessionByAttemptID(attemptID uint) (*model.ProctoringSession, error) {
	var session model.ProctoringSession
	if err := r.db.Where("attempt_id = ?", attemptID).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *proctoringRepository) GetOrCreateViolation(attemptID uint) (*model.ProctoringViolation, error) {
	var violation model.ProctoringViolation
	err := r.db.Where("attempt_id = ?", attemptID).First(&violation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		violation = model.ProctoringViolation{AttemptID: attemptID}
		if err := r.db.Create(&violation).Error; err != nil {
			return nil, err
		}
		return &violation, nil
	}
	if err != nil {
		return nil, err
	}
	return &violation, nil
}

func (r *proctoringRepository) FindViolationByAttemptID(attemptID uint) (*model.ProctoringViolation, error) {
	var violation model.ProctoringViolation
	err := r.db.Where("attempt_id = ?", attemptID).First(&violation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &violation, nil
}

func (r *proctoringRepository) SaveViolation(violation *model.ProctoringViolation) error {
	return r.db.Save(violation).Error
}
