package repository

import (
	"github.com/lshigami/Proctora/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptSkillRepository interface {
	// Upsert writes one row per (attempt, skill); a resubmitted skill
	// updates score and status in place. Rows are never deleted.
	Upsert(skills []model.AttemptSkill) error
	FindByAttemptID(attemptID uint) ([]model.AttemptSkill, error)
}

type attemptSkillRepository struct {
	db *gorm.DB
}

func NewAttemptSkillRepository(db *gorm.DB) AttemptSkillRepository {
	return &attemptSkillRepository{db: db}
}

func (r *attemptSkillRepository) Upsert(skills []model.AttemptSkill) error {
	if len(skills) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "skill_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"skill_name", "score", "status", "updated_at"}),
	}).Create(&skills).Error
}

func (r *attemptSkillRepository) FindByAttemptID(attemptID uint) ([]model.AttemptSkill, error) {
	var skills []model.AttemptSkill
	err := r.db.Where("attempt_id = ?", attemptID).Order("skill_id ASC").Find(&skills).Error
	return skills, err
}
