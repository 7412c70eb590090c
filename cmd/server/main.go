package main

import (
	"log"
	"net/http"
	"time"

	"movers_crm/internal/config"
	"movers_crm/internal/database"
	"movers_crm/internal/handlers"
	"movers_crm/internal/migrations"
	"movers_crm/internal/redis"
	"movers_crm/internal/repository"
	"movers_crm/internal/services"
	"movers_crm/pkg/mailer"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db, cfg.DefaultDurationHours); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize mail client
	mailClient := mailer.NewClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom, cfg.MailEnabled)

	// Initialize repositories
	enquiryRepo := repository.NewEnquiryRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	truckRepo := repository.NewTruckRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	enquiryService := services.NewEnquiryService(enquiryRepo, noteRepo, truckRepo)
	archiveService := services.NewArchiveService(enquiryRepo, redisClient, time.Duration(cfg.ArchiveCooldownMinutes)*time.Minute)
	schedulerService := services.NewSchedulerService(truckRepo, bookingRepo, settingsRepo, redisClient)
	emailService := services.NewEmailService(enquiryRepo, noteRepo, mailClient)

	// Initialize handlers
	enquiryHandler := handlers.NewEnquiryHandler(enquiryService, archiveService)
	schedulerHandler := handlers.NewSchedulerHandler(schedulerService)
	emailHandler := handlers.NewEmailHandler(emailService)
	webhookHandler := handlers.NewWebhookHandler(enquiryService)

	// Setup routes
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Movers CRM is running"})
	})

	// External form integration webhook
	router.POST("/api/webhook/form", webhookHandler.HandleFormSubmission)

	api := router.Group("/api")
	{
		api.POST("/enquiries", enquiryHandler.CreateEnquiry)
		api.GET("/enquiries", enquiryHandler.ListEnquiries)
		api.GET("/enquiries/counts", enquiryHandler.StatusCounts)
		api.GET("/enquiries/:id", enquiryHandler.GetEnquiry)
		api.PATCH("/enquiries/:id", enquiryHandler.UpdateEnquiry)
		api.PUT("/enquiries/:id/status", enquiryHandler.ChangeStatus)
		api.PUT("/enquiries/:id/admin-notes", enquiryHandler.UpdateAdminNotes)
		api.PUT("/enquiries/:id/truck", enquiryHandler.AssignTruck)
		api.POST("/enquiries/:id/notes", enquiryHandler.AddNote)
		api.GET("/enquiries/:id/notes", enquiryHandler.ListNotes)
		api.POST("/enquiries/:id/email", emailHandler.SendEmail)
		api.DELETE("/notes/:id", enquiryHandler.DeleteNote)

		api.POST("/quotes/totals", emailHandler.QuoteTotals)

		api.GET("/trucks", schedulerHandler.ListTrucks)
		api.POST("/trucks", schedulerHandler.CreateTruck)
		api.PUT("/trucks/:id", schedulerHandler.UpdateTruck)
		api.DELETE("/trucks/:id", schedulerHandler.DeactivateTruck)

		api.GET("/bookings", schedulerHandler.ListBookings)
		api.POST("/bookings", schedulerHandler.CreateBooking)
		api.PUT("/bookings/:id", schedulerHandler.UpdateBooking)
		api.DELETE("/bookings/:id", schedulerHandler.DeleteBooking)
		api.GET("/calendar", schedulerHandler.GetCalendar)

		api.GET("/settings/booking-duration", schedulerHandler.GetBookingDuration)
		api.PUT("/settings/booking-duration", schedulerHandler.SetBookingDuration)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
