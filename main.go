package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"patient-portal-server/internal/config"
	"patient-portal-server/internal/jobs"
	"patient-portal-server/internal/logging"
	"patient-portal-server/internal/middleware"
	"patient-portal-server/internal/models"
	"patient-portal-server/internal/notify"
	"patient-portal-server/internal/repository"
	"patient-portal-server/internal/routes"
	"patient-portal-server/internal/services"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "patient-portal",
		Short:         "Patient portal API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads .env and the configuration and builds the root logger.
func bootstrap() (*config.Config, zerolog.Logger, error) {
	// A missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	return cfg, logging.New(cfg.Environment, cfg.LogLevel), nil
}

func openDB(cfg *config.Config, migrate bool) (*gorm.DB, error) {
	dbConfig := models.DatabaseConfig{DSN: cfg.Database.DSN}
	if migrate {
		return models.InitDB(dbConfig)
	}
	return models.OpenDB(dbConfig)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			if _, err := openDB(cfg, true); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info().Msg("schema migrated")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the doctor directory with the default doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := openDB(cfg, true)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			doctors := services.NewDoctorService(repository.NewDoctorRepository(db), logger)
			return doctors.Seed(cmd.Context(), services.DefaultDoctors())
		},
	}
}

func runServer() error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	db, err := openDB(cfg, true)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	doctorRepo := repository.NewDoctorRepository(db)
	userRepo := repository.NewUserRepository(db)

	var (
		notifier   services.Notifier
		dispatcher *notify.Dispatcher
	)
	if mailer := notify.NewMailer(cfg.Mailer); mailer != nil {
		dispatcher = notify.NewDispatcher(mailer, notify.DefaultSendTimeout, logger)
		notifier = dispatcher
	} else {
		logger.Warn().Msg("SMTP_HOST not set, appointment emails disabled")
	}

	appointments := services.NewAppointmentService(doctorRepo, repository.NewAppointmentRepository(db), userRepo, notifier, logger)
	svc := routes.Services{
		Doctors:        services.NewDoctorService(doctorRepo, logger),
		Appointments:   appointments,
		Auth:           services.NewAuthService(userRepo, repository.NewRefreshTokenRepository(db), cfg, logger),
		MedicalRecords: services.NewMedicalRecordService(repository.NewMedicalRecordRepository(db), logger),
		HealthInfo:     services.NewHealthInfoService(repository.NewHealthInfoRepository(db), logger),
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(logger), middleware.Recovery(logger))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, svc, cfg)

	scheduler, err := jobs.StartScheduler(cfg.CompletionSchedule, appointments, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if dispatcher != nil {
		if err := dispatcher.Close(ctx); err != nil {
			logger.Warn().Err(err).Msg("pending notifications dropped")
		}
	}
	logger.Info().Msg("server stopped")
	return nil
}
