package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"receipt-rewards/internal/api"
	"receipt-rewards/internal/api/handlers"
	"receipt-rewards/internal/dedup"
	"receipt-rewards/internal/metrics"
	"receipt-rewards/internal/receipt"
	"receipt-rewards/internal/repository"
	"receipt-rewards/internal/service"
	"receipt-rewards/pkg/auth"
	"receipt-rewards/pkg/config"
	"receipt-rewards/pkg/logger"
	"receipt-rewards/pkg/ocr"
	"receipt-rewards/pkg/postgres"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title Receipt Rewards API
// @version 1.0
// @description Receipt verification and loyalty points service for the Bloedlemoen campaign
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@receipt-rewards.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting receipt rewards service")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	receiptRepo := repository.NewReceiptRepository(db, appLogger)
	rewardRepo := repository.NewRewardRepository(db, appLogger)
	orderRepo := repository.NewOrderRepository(db, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)
	appMetrics := metrics.New()

	rdb := newRedisClient(ctx, &cfg.Redis, appLogger)
	if rdb != nil {
		defer rdb.Close()
	}
	claimer := dedup.NewClaimer(rdb, cfg.Redis.ClaimTTL)

	recognizer := newRecognizer(cfg, appLogger)
	pdfReader := ocr.NewPDF(cfg.Extraction.RenderDPI, cfg.Extraction.MaxPages)
	extractor := service.NewExtractionService(recognizer, pdfReader, &cfg.Extraction, appMetrics, appLogger)
	engine := receipt.NewEngine(cfg.Campaign.ToPolicy())

	authService := service.NewAuthService(userRepo, jwtManager, appLogger)
	receiptService := service.NewReceiptService(
		receiptRepo,
		extractor,
		claimer,
		engine,
		appMetrics,
		cfg.Extraction.UploadDir,
		cfg.Extraction.MaxUploadBytes,
		appLogger,
	)
	userService := service.NewUserService(userRepo, receiptRepo, appLogger)
	rewardService := service.NewRewardService(rewardRepo, appLogger)
	orderService := service.NewOrderService(orderRepo, rewardRepo, appMetrics, appLogger)

	h := api.Handlers{
		Auth:    handlers.NewAuthHandler(authService, appLogger),
		Receipt: handlers.NewReceiptHandler(receiptService, appLogger),
		User:    handlers.NewUserHandler(userService, appLogger),
		Reward:  handlers.NewRewardHandler(rewardService, appLogger),
		Order:   handlers.NewOrderHandler(orderService, appLogger),
	}

	app := api.SetupRouter(&cfg.Server, h, jwtManager, appMetrics.Handler(), appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

func newRecognizer(cfg *config.Config, logger *zap.Logger) ocr.Recognizer {
	if strings.EqualFold(cfg.Extraction.Provider, "gigachat") {
		if cfg.GigaChat.APIKey == "" {
			logger.Fatal("OCR_PROVIDER=gigachat requires GIGACHAT_API_KEY")
		}
		logger.Info("Using GigaChat vision for image recognition")
		return ocr.NewVision(&cfg.GigaChat, logger)
	}
	logger.Info("Using tesseract for image recognition", zap.String("language", cfg.Extraction.Language))
	return ocr.NewTesseract(cfg.Extraction.Language)
}

// newRedisClient returns nil when no address is configured. An unreachable
// server is only logged; claims fail open.
func newRedisClient(ctx context.Context, cfg *config.RedisConfig, logger *zap.Logger) *redis.Client {
	if cfg.Addr == "" {
		logger.Info("Redis not configured, in-flight duplicate claims disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis ping failed", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("Connected to Redis", zap.String("addr", cfg.Addr))
	}
	return rdb
}
