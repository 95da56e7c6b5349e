package authRoutes

import (
	"github.com/gofiber/fiber/v2"

	authController "peerlearn/controllers/auth"
	"peerlearn/middleware"
	authValidators "peerlearn/validators/auth"
)

// SetupAuthRoutes sets up authentication routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authController.Signup)
	authGroup.Post("/login", authValidators.Login(), authController.Login)
	authGroup.Post("/verify-otp", authController.VerifyOTP)
	authGroup.Get("/profile", middleware.JWTMiddleware, authController.Profile)
}
