// File: apexbooking/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apexbooking/config"
	"apexbooking/cron"
	"apexbooking/database"
	appointmentRepoPkg "apexbooking/database/repository/appointment"
	automationRepoPkg "apexbooking/database/repository/automation"
	sessionRepoPkg "apexbooking/database/repository/session"
	"apexbooking/handlers"
	"apexbooking/middleware"
	"apexbooking/routes"
	"apexbooking/services/automation"
	"apexbooking/services/hold"
	"apexbooking/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	sessionRepo := sessionRepoPkg.NewMongoSessionRepo()
	appointmentRepo := appointmentRepoPkg.NewMongoAppointmentRepo()
	automationRepo := automationRepoPkg.NewMongoAutomationRepo()

	// services.
	expiryScheduler := cron.NewAsynqExpiryScheduler()
	defer expiryScheduler.Close()

	holdService := &hold.DefaultHoldService{
		SessionRepo:         sessionRepo,
		AppointmentRepo:     appointmentRepo,
		Clock:               utils.NewSystemClock(),
		Cache:               utils.GetCacheClient(),
		Scheduler:           expiryScheduler,
		DefaultHoldMinutes:  config.AppConfig.DefaultHoldMinutes,
		DefaultDepositCents: config.AppConfig.DefaultDepositAmountCents,
		DefaultTimezone:     config.AppConfig.DefaultTimezone,
	}

	automationService := &automation.DefaultAutomationService{
		Repo:  automationRepo,
		Clock: utils.NewSystemClock(),
	}

	// Background worker that sweeps holds at their expiry instant.
	cron.InitHoldExpiryWorker(holdService)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Booking:    handlers.NewBookingHandler(holdService, appointmentRepo, logger),
		Automation: handlers.NewAutomationHandler(automationService, logger),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
