package repository

import (
	"github.com/lshigami/Proctora/internal/model"
	"gorm.io/gorm"
)

type IncidentRepository interface {
	Create(incident *model.Incident) error
	FindByAttemptID(attemptID uint) ([]model.Incident, error)
}

type incidentRepository struct {
	db *gorm.DB
}

func NewIncidentRepository(db *gorm.DB) IncidentRepository {
	return &incidentRepository{db: db}
}

func (r *incidentRepository) Create(incident *model.Incident) error {
	return r.db.Create(incident).Error
}

func (r *incidentRepository) FindByAttemptID(attemptID uint) ([]model.Incident, error) {
	var incidents []model.Incident
	err := r.db.Where("attempt_id = ?", attemptID).Order("created_at ASC").Find(&incidents).Error
	return incidents, err
}
