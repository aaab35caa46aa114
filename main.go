// File: sonrisa/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"sonrisa/config"
	"sonrisa/cron"
	"sonrisa/database"
	appointmentRepo "sonrisa/database/repository/appointment"
	"sonrisa/handlers"
	"sonrisa/routes"
	"sonrisa/services/booking"
	"sonrisa/services/conversation"
	"sonrisa/services/notification"
	syncbridge "sonrisa/services/sync"
	"sonrisa/utils"
)

func main() {
	godotenv.Load()
	config.LoadConfig()
	logger := utils.GetLogger()

	logger.Sugar().Infof("main: starting in %s mode (%s)", config.AppConfig.SyncMode, config.GetEnv())

	database.InitDB()

	// Repository. Works in degraded no-op mode when the database is down.
	repo := appointmentRepo.NewPostgresAppointmentRepo()
	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repo.EnsureSchema(schemaCtx); err != nil {
		logger.Sugar().Errorf("main: failed to ensure appointments schema: %v", err)
	}
	cancelSchema()

	// Sync bridge, role selected by configuration.
	var bridge syncbridge.Bridge
	var hub *syncbridge.Hub
	switch config.Mode() {
	case config.ModeHub:
		hub = syncbridge.NewHub(repo, logger)
		bridge = hub
	case config.ModeRelay:
		bridge = syncbridge.NewRelay(config.AppConfig.HubURL, syncbridge.ReconnectPolicy{
			MaxAttempts:  config.AppConfig.ReconnectMaxAttempts,
			InitialDelay: config.AppConfig.ReconnectInitialDelay,
			MaxDelay:     config.AppConfig.ReconnectMaxDelay,
		}, logger)
	}

	// The real messaging transport registers itself here; until then
	// outbound notifications go to the log.
	sender := &notification.LogMessageSender{Logger: logger}

	confirmationService := &booking.DefaultConfirmationService{
		Repo:     repo,
		Notifier: sender,
		Bridge:   bridge,
		Logger:   logger,
	}
	if hub != nil {
		hub.SetConfirmFunc(confirmationService.ConfirmAppointment)
	}

	sessions := conversation.NewSessionStore()
	engine := conversation.NewEngine(sessions, repo, bridge, logger)
	sweeper := cron.StartSessionSweeper(sessions, config.AppConfig.SessionIdleTTL, logger)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	handlerBundle := &routes.HandlerBundle{
		Messages:     handlers.NewMessageHandler(engine),
		Appointments: handlers.NewAppointmentHandler(repo, confirmationService),
		Health:       handlers.NewHealthHandler(bridge),
	}
	if hub != nil {
		handlerBundle.WS = handlers.NewWSHandler(hub)
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "3002"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("main: listening on %s", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	if sweeper != nil {
		sweeper.Stop()
	}
	bridge.Close()
	database.CloseDB()

	logger.Sugar().Info("main: stopped gracefully")
}
