package api

import (
	"voxpense/docs"
	"voxpense/internal/api/handlers"
	"voxpense/pkg/auth"
	"voxpense/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Expense *handlers.ExpenseHandler
	Voice   *handlers.VoiceHandler
	Receipt *handlers.ReceiptHandler
	Export  *handlers.ExportHandler
	Events  *handlers.EventsHandler
}

func SetupRouter(h Handlers, jwtManager *auth.JWTManager, uploadDir string, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// Swagger - importing the docs package registers the definition via init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Receipt images are served at their public URLs
	app.Static("/uploads", uploadDir)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)
	authGroup.Get("/google", h.Auth.GoogleAuthURL)
	authGroup.Post("/google", h.Auth.GoogleSignIn)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	expenses := protected.Group("/expenses")
	expenses.Get("", h.Expense.List)
	expenses.Post("", h.Expense.Create)
	expenses.Get("/monthly", h.Expense.ListMonthly)
	expenses.Get("/export/csv", h.Export.ExportCSV)
	expenses.Get("/export/xlsx", h.Export.ExportXLSX)
	expenses.Get("/:id", h.Expense.Get)
	expenses.Put("/:id", h.Expense.Update)
	expenses.Delete("/:id", h.Expense.Delete)

	voice := protected.Group("/voice")
	voice.Post("/transcribe", h.Voice.Transcribe)
	voice.Post("/expense", h.Voice.ParseExpense)

	receipts := protected.Group("/receipts")
	receipts.Post("/upload", h.Receipt.Upload)

	protected.Get("/events", h.Events.Stream)

	return app
}
