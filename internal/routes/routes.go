package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/ironthroneruler/lostandfound/internal/config"
	"github.com/ironthroneruler/lostandfound/internal/handlers"
	"github.com/ironthroneruler/lostandfound/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	itemHandler *handlers.ItemHandler,
	claimHandler *handlers.ClaimHandler,
	sweepHandler *handlers.SweepHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register/student", authHandler.RegisterStudent)
	auth.Post("/register/teacher", authHandler.RegisterTeacher)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Items, authenticated
	items := api.Group("/items", middleware.JWTProtected(cfg))
	items.Post("/", itemHandler.Report)
	items.Get("/", itemHandler.ListOpen)
	items.Get("/mine", itemHandler.ListMine)
	items.Get("/:id", itemHandler.Get)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Post("/:id/claims", claimHandler.Submit)

	// Claims, authenticated
	api.Get("/claims/mine", middleware.JWTProtected(cfg), claimHandler.ListMine)

	// Staff workflow
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.StaffRequired())
	admin.Get("/items", itemHandler.List)
	admin.Post("/items/:id/review", itemHandler.ReviewReport)
	admin.Post("/items/:id/discard", itemHandler.Discard)
	admin.Get("/items/:id/audit", itemHandler.AuditTrail)
	admin.Get("/claims", claimHandler.List)
	admin.Post("/claims/:id/review", claimHandler.Review)
	admin.Post("/claims/:id/undo", claimHandler.Undo)
	admin.Post("/discard-sweep", sweepHandler.Trigger)
}
