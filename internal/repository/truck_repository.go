package repository

import (
	"errors"

	"movers_crm/internal/models"

	"gorm.io/gorm"
)

type TruckRepository interface {
	Create(truck *models.Truck) error
	GetByID(id uint) (*models.Truck, error)
	GetAll(includeInactive bool) ([]models.Truck, error)
	Update(truck *models.Truck) error
}

type truckRepository struct {
	db *gorm.DB
}

func NewTruckRepository(db *gorm.DB) TruckRepository {
	return &truckRepository{db: db}
}

func (r *truckRepository) Create(truck *models.Truck) error {
	return r.db.Create(truck).Error
}

func (r *truckRepository) GetByID(id uint) (*models.Truck, error) {
	var truck models.Truck
	err := r.db.First(&truck, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &truck, nil
}

func (r *truckRepository) GetAll(includeInactive bool) ([]models.Truck, error) {
	query := r.db.Order("name ASC")
	if !includeInactive {
		query = query.Where("status = ?", models.TruckActive)
	}
	var trucks []models.Truck
	err := query.Find(&trucks).Error
	return trucks, err
}

func (r *truckRepository) Update(truck *models.Truck) error {
	return r.db.Save(truck).Error
}
