package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"reserva-backend/config"
	"reserva-backend/controllers"
	"reserva-backend/metrics"
	"reserva-backend/routes"
	"reserva-backend/services"
	"reserva-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Info(".env not found or couldn't load it; continuing with environment variables")
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	metrics.Register()

	if err := config.ConnectDatabase(); err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	db := config.DB
	log.Info("database connection established, migrations applied")

	// Initialize services
	settingsService, err := services.NewSettingsService(db)
	if err != nil {
		log.WithError(err).Fatal("failed to load settings")
	}
	reservationService := services.NewReservationService(db, settingsService)
	reservationService.AutoCompleteElapsed = utils.EnvBool("AUTO_COMPLETE_ELAPSED")
	inventoryService := services.NewInventoryService(db)
	haccpService := services.NewHACCPService(db)
	dashboardService := services.NewDashboardService(db, settingsService, haccpService)

	// Initialize controllers
	reservationController := controllers.NewReservationController(reservationService)
	inventoryController := controllers.NewInventoryController(inventoryService)
	settingsController := controllers.NewSettingsController(settingsService)
	haccpController := controllers.NewHACCPController(haccpService)
	dashboardController := controllers.NewDashboardController(dashboardService)

	// Build router
	router := routes.SetupRouter(
		reservationController,
		inventoryController,
		settingsController,
		haccpController,
		dashboardController,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("ListenAndServe()")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server stopped gracefully")
}
