package repository

import (
	"github.com/lshigami/Proctora/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionPackageRepository interface {
	Create(pkg *model.QuestionPackage) error
	FindByRef(ref string) (*model.QuestionPackage, error)
	FindByAttemptID(attemptID uint) (*model.QuestionPackage, error)
	UpdateStatus(ref, status string) error
	// Complete writes the grading summary and moves the package to its
	// terminal completed status in one update.
	Complete(ref string, summary datatypes.JSON) error
}

type questionPackageRepository struct {
	db *gorm.DB
}

func NewQuestionPackageRepository(db *gorm.DB) QuestionPackageRepository {
	return &questionPackageRepository{db: db}
}

func (r *questionPackageRepository) Create(pkg *model.QuestionPackage) error {
	return r.db.Create(pkg).Error
}

func (r *questionPackageRepository) FindByRef(ref string) (*model.QuestionPackage, error) {
	var pkg model.QuestionPackage
	if err := r.db.Where("package_ref = ?", ref).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *questionPackageRepository) FindByAttemptID(attemptID uint) (*model.QuestionPackage, error) {
	var pkg model.QuestionPackage
	if err := r.db.Where("attempt_id = ?", attemptID).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *questionPackageRepository) UpdateStatus(ref, status string) error {
	return r.db.Model(&model.QuestionPackage{}).
		Where("package_ref = ?", ref).
		Update("status", status).Error
}

func (r *questionPackageRepository) Complete(ref string, summary datatypes.JSON) error {
	return r.db.Model(&model.QuestionPackage{}).
		Where("package_ref = ?", ref).
		Updates(map[string]interface{}{
			"grading_summary": summary,
			"status":          model.PackageStatusCompleted,
		}).Error
}
