package repository

import (
	"github.com/lshigami/Proctora/internal/model"
	"gorm.io/gorm"
)

type ExamRepository interface {
	Create(exam *model.Exam) error
	FindByID(id uint) (*model.Exam, error)
	// BaselineExistsForUser backs the single-baseline invariant; the
	// orchestrator calls it before every baseline insert.
	BaselineExistsForUser(userID uint) (bool, error)
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) Create(exam *model.Exam) error {
	return r.db.Create(exam).Error
}

func (r *examRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) BaselineExistsForUser(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Exam{}).
		Where("user_id = ? AND exam_type = ?", userID, model.ExamTypeBaseline).
		Count(&count).Error
	return count > 0, err
}
