package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"camp-onboarding/internal/application/onboarding"
	"camp-onboarding/internal/common/configs"
	"camp-onboarding/internal/common/health"
	"camp-onboarding/internal/common/logger"
	"camp-onboarding/internal/infrastructure/eventbus"
	"camp-onboarding/internal/infrastructure/gateway"
	httphandler "camp-onboarding/internal/infrastructure/http"
	"camp-onboarding/internal/infrastructure/sessionstore"

	"github.com/gin-gonic/gin"
)

func main() {
	l := logger.NewStdLogger()

	cfg, err := configs.Load()
	if err != nil {
		l.Error("Failed to load configuration", logger.Field{Key: "error", Value: err})
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		l.Error("Failed to initialize session store", logger.Field{Key: "error", Value: err})
		os.Exit(1)
	}
	defer store.Close()

	var bus eventbus.Publisher = eventbus.NewNopPublisher()
	if cfg.EventsOn {
		bus = eventbus.NewKafkaPublisher(cfg.KafkaBroker, configs.TopicOnboarding)
	}
	defer bus.Close()

	provider := gateway.NewMockProvider(cfg.GatewayURL)

	service := onboarding.NewService(store, provider, bus, l)
	handler := httphandler.NewOnboardingHandler(service)

	router := setupRouter(handler)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	l.Info("Starting onboarding service",
		logger.Field{Key: "port", Value: cfg.Port},
		logger.Field{Key: "store", Value: cfg.StoreDriver})

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Error("Server failed", logger.Field{Key: "error", Value: err})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		l.Error("Server forced to shutdown", logger.Field{Key: "error", Value: err})
	}
}

func openStore(cfg configs.Config) (sessionstore.SessionStore, error) {
	switch cfg.StoreDriver {
	case configs.StoreDriverPostgres:
		return sessionstore.NewPostgresStore(cfg.DatabaseURL)
	case configs.StoreDriverSQLite:
		return sessionstore.NewSQLiteStore(cfg.SQLitePath)
	default:
		return sessionstore.NewMemoryStore(), nil
	}
}

func setupRouter(handler *httphandler.OnboardingHandler) *gin.Engine {
	router := gin.Default()

	checker := health.NewPingChecker(nil)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, checker.Check(c.Request.Context()))
	})

	sessions := router.Group("/api/onboarding/sessions")
	{
		sessions.POST("", handler.StartSession)
		sessions.GET("/:id", handler.GetSession)
		sessions.POST("/:id/steps/:step", handler.SaveStep)
		sessions.POST("/:id/navigate", handler.Navigate)
		sessions.POST("/:id/resume", handler.Resume)
		sessions.POST("/:id/gateway/connect", handler.ConnectGateway)
		sessions.GET("/:id/gateway/status", handler.GatewayStatus)
	}

	return router
}
