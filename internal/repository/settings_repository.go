package repository

import (
	"errors"

	"movers_crm/internal/models"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	Get(settingName string) (*models.ScheduleSettings, error)
	Upsert(settingName string, value float64) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(settingName string) (*models.ScheduleSettings, error) {
	var settings models.ScheduleSettings
	err := r.db.Where("setting_name = ? AND is_active = ?", settingName, true).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) Upsert(settingName string, value float64) error {
	var settings models.ScheduleSettings
	err := r.db.Where("setting_name = ?", settingName).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&models.ScheduleSettings{
			SettingName:  settingName,
			NumericValue: value,
			IsActive:     true,
		}).Error
	}
	if err != nil {
		return err
	}
	settings.NumericValue = value
	settings.IsActive = true
	return r.db.Save(&settings).Error
}
