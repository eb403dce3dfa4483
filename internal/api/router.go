package api

import (
	"net/http"

	"receipt-rewards/docs"
	"receipt-rewards/internal/api/handlers"
	"receipt-rewards/pkg/auth"
	"receipt-rewards/pkg/config"
	"receipt-rewards/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Receipt *handlers.ReceiptHandler
	User    *handlers.UserHandler
	Reward  *handlers.RewardHandler
	Order   *handlers.OrderHandler
}

func SetupRouter(
	cfg *config.ServerConfig,
	h Handlers,
	jwtManager *auth.JWTManager,
	metricsHandler http.Handler,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				appLogger.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/metrics", adaptor.HTTPHandler(metricsHandler))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authRoutes := app.Group("/user/auth")
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/refresh", h.Auth.RefreshToken)

	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	receipts := protected.Group("/receipts")
	receipts.Post("", h.Receipt.SubmitReceipt)
	receipts.Get("", h.Receipt.ListReceipts)
	receipts.Post("/analyze", h.Receipt.AnalyzeReceipt)

	protected.Get("/user/data", h.User.GetUserData)
	protected.Get("/rewards", h.Reward.ListRewards)
	protected.Post("/orders", h.Order.PlaceOrder)

	return app
}
