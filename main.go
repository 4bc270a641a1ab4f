package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/zukapustikova/ai-governance-transparency-ledger/auditlog"
	"github.com/zukapustikova/ai-governance-transparency-ledger/auth"
	"github.com/zukapustikova/ai-governance-transparency-ledger/config"
	"github.com/zukapustikova/ai-governance-transparency-ledger/controller"
	logger "github.com/zukapustikova/ai-governance-transparency-ledger/logging"
	"github.com/zukapustikova/ai-governance-transparency-ledger/merkle"
	"github.com/zukapustikova/ai-governance-transparency-ledger/mirror"
	"github.com/zukapustikova/ai-governance-transparency-ledger/router"
	"github.com/zukapustikova/ai-governance-transparency-ledger/transparency"
	"github.com/zukapustikova/ai-governance-transparency-ledger/util"
	"github.com/zukapustikova/ai-governance-transparency-ledger/zk"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.level"))
	defer logger.Sync()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	notificationService := util.NewNotificationService()
	notificationService.SubscribeAll(eventBus)

	// Initialize services over the shared data directory
	fs := afero.NewOsFs()
	dataDir := config.GetString("storage.dir")

	auditLog := auditlog.NewService(fs, dataDir)
	proofService := merkle.NewService(auditLog)
	transparencyService := transparency.NewService(fs, dataDir, auditLog, eventBus)
	zkService := zk.NewService(fs, dataDir)
	mirrorService := mirror.NewService(fs, dataDir, transparencyService)

	authStore := auth.NewStore(fs, dataDir)
	registerLimit := config.GetInt("ratelimit.registrations")
	registerWindow := config.GetDuration("ratelimit.window")
	registerLimiter := auth.NewRateLimiter(registerLimit, registerWindow)

	// Initialize controllers
	controllers := &controller.Controllers{
		Ledger:       controller.NewLedgerController(auditLog, proofService, eventBus),
		Transparency: controller.NewTransparencyController(transparencyService),
		Compliance:   controller.NewComplianceController(transparencyService),
		ZK:           controller.NewZKController(zkService),
		Auth:         controller.NewAuthController(authStore, registerLimiter, eventBus),
		Mirror:       controller.NewMirrorController(mirrorService),
	}

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(controllers, authStore, registerLimiter, registerLimit, registerWindow)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
