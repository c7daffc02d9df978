package routes

import (
	"github.com/gin-gonic/gin"

	"patient-portal-server/internal/config"
	"patient-portal-server/internal/handlers"
	"patient-portal-server/internal/middleware"
	"patient-portal-server/internal/services"
)

// Services are the application services the HTTP layer is built on.
type Services struct {
	Doctors        *services.DoctorService
	Appointments   *services.AppointmentService
	Auth           *services.AuthService
	MedicalRecords *services.MedicalRecordService
	HealthInfo     *services.HealthInfoService
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, svc Services, cfg *config.Config) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc.Auth)
	userHandler := handlers.NewUserHandler(svc.Auth)
	appointmentHandler := handlers.NewAppointmentHandler(svc.Doctors, svc.Appointments)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(svc.MedicalRecords, svc.HealthInfo, cfg.MaxUploadMB)

	auth := middleware.AuthMiddleware(cfg)
	api := router.Group("/api/v1")

	userRoutes := api.Group("/users")
	{
		userRoutes.POST("/signup", authHandler.Signup)
		userRoutes.POST("/login", authHandler.Login)
		userRoutes.POST("/refresh-token", authHandler.RefreshToken)
		userRoutes.POST("/logout", auth, authHandler.Logout)
		userRoutes.GET("/profile", auth, userHandler.GetProfile)
		userRoutes.PUT("/profile", auth, userHandler.UpdateProfile)
		userRoutes.PUT("/change-password", auth, userHandler.ChangePassword)
	}

	// Doctor directory and availability are public
	api.GET("/doctors", appointmentHandler.GetDoctors)
	api.GET("/doctors/:id", appointmentHandler.GetDoctor)
	api.GET("/available-slots", appointmentHandler.GetAvailableSlots)

	appointmentRoutes := api.Group("/appointments")
	appointmentRoutes.Use(auth)
	{
		appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
		appointmentRoutes.GET("", appointmentHandler.GetAppointments)
		appointmentRoutes.GET("/upcoming", appointmentHandler.GetUpcomingAppointment)
		appointmentRoutes.GET("/:id", appointmentHandler.GetAppointment)
		appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)
		appointmentRoutes.DELETE("/:id", appointmentHandler.CancelAppointment)
	}

	medicalRecordRoutes := api.Group("/medical-records")
	medicalRecordRoutes.Use(auth)
	{
		medicalRecordRoutes.POST("/upload", medicalRecordHandler.UploadMedicalRecord)
		medicalRecordRoutes.GET("/records", medicalRecordHandler.GetMedicalRecords)
		medicalRecordRoutes.GET("/records/:id", medicalRecordHandler.GetMedicalRecordByID)
		medicalRecordRoutes.GET("/records/:id/download", medicalRecordHandler.DownloadMedicalRecord)
		medicalRecordRoutes.DELETE("/records/:id", medicalRecordHandler.DeleteMedicalRecord)
		medicalRecordRoutes.GET("/health-info", medicalRecordHandler.GetHealthInfo)
		medicalRecordRoutes.PUT("/health-info", medicalRecordHandler.UpdateHealthInfo)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
