package userRoutes

import (
	"github.com/gofiber/fiber/v2"

	"peerlearn/controllers/userControllers"
	"peerlearn/middleware"
)

// SetupUserRoutes sets up user profile routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/list", middleware.JWTMiddleware, userControllers.GetUsers)
	userGroup.Get("/:id", middleware.JWTMiddleware, userControllers.GetUserByID)
	userGroup.Put("/profile", middleware.JWTMiddleware, userControllers.UpdateProfile)
}
