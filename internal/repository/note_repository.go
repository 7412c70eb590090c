package repository

import (
	"errors"

	"movers_crm/internal/models"

	"gorm.io/gorm"
)

type NoteRepository interface {
	Create(note *models.Note) error
	GetByID(id uint) (*models.Note, error)
	GetByEnquiryID(enquiryID uint) ([]models.Note, error)
	Delete(id uint) error
}

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(note *models.Note) error {
	return r.db.Create(note).Error
}

func (r *noteRepository) GetByID(id uint) (*models.Note, error) {
	var note models.Note
	err := r.db.First(&note, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) GetByEnquiryID(enquiryID uint) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.Where("enquiry_id = ?", enquiryID).Order("created_at DESC").Find(&notes).Error
	return notes, err
}

func (r *noteRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Note{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
