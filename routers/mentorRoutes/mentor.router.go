package mentorRoutes

import (
	"github.com/gofiber/fiber/v2"

	mentorController "peerlearn/controllers/mentor"
	"peerlearn/middleware"
)

// SetupMentorRoutes sets up mentor request and session routes
func SetupMentorRoutes(app *fiber.App) {
	mentorGroup := app.Group("/mentor")

	mentorGroup.Post("/request", middleware.JWTMiddleware, mentorController.CreateMentorRequest)
	mentorGroup.Get("/request", middleware.JWTMiddleware, mentorController.GetMentorRequests)
	mentorGroup.Put("/request/:id/review", middleware.JWTMiddleware, mentorController.ReviewMentorRequest)

	mentorGroup.Post("/session", middleware.JWTMiddleware, mentorController.BookSession)
	mentorGroup.Get("/sessions", middleware.JWTMiddleware, mentorController.GetMySessions)
	mentorGroup.Post("/session/:id/complete", middleware.JWTMiddleware, mentorController.CompleteSession)
	mentorGroup.Get("/earnings", middleware.JWTMiddleware, mentorController.GetEarnings)
}
