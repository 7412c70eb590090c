package migrations

import (
	"log"

	"movers_crm/internal/models"
	"movers_crm/internal/repository"

	"gorm.io/gorm"
)

// RunMigrations creates the schema and seeds default data.
func RunMigrations(db *gorm.DB, defaultDurationHours float64) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.Truck{},
		&models.Enquiry{},
		&models.Note{},
		&models.Booking{},
		&models.ScheduleSettings{},
	)
	if err != nil {
		return err
	}

	if err := createDefaultData(db, defaultDurationHours); err != nil {
		log.Printf("Warning: Failed to create default data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// createDefaultData seeds the booking duration setting and a first truck.
func createDefaultData(db *gorm.DB, defaultDurationHours float64) error {
	settingsRepo := repository.NewSettingsRepository(db)
	truckRepo := repository.NewTruckRepository(db)

	if _, err := settingsRepo.Get(models.SettingBookingDurationHours); err == repository.ErrNotFound {
		log.Printf("Seeding default booking duration: %.1f hours", defaultDurationHours)
		if err := settingsRepo.Upsert(models.SettingBookingDurationHours, defaultDurationHours); err != nil {
			return err
		}
	}

	trucks, err := truckRepo.GetAll(true)
	if err != nil {
		return err
	}
	if len(trucks) == 0 {
		log.Println("Seeding first truck...")
		return truckRepo.Create(&models.Truck{
			Name:     "Truck 1",
			Capacity: "4.5 tonne",
			Status:   models.TruckActive,
		})
	}
	return nil
}
