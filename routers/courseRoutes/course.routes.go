package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "peerlearn/controllers/course"
	"peerlearn/middleware"
	validators "peerlearn/validators/course"
)

// SetupCourseRoutes sets up all course, enrollment and certificate routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Course listing and details
	courseGroup.Post("/", middleware.JWTMiddleware, validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, controllers.GetCourseDetails)
	courseGroup.Put("/:id", middleware.JWTMiddleware, controllers.UpdateCourse)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, controllers.EnrollInCourse)
	courseGroup.Get("/:id/enrollments", middleware.JWTMiddleware, controllers.GetCourseEnrollments)

	// Reviews
	courseGroup.Post("/:id/review", middleware.JWTMiddleware, controllers.SubmitReview)
	courseGroup.Get("/:id/reviews", controllers.GetCourseReviews)

	// Completion (progression pipeline)
	app.Post("/enrollment/:id/complete", middleware.JWTMiddleware, controllers.CompleteEnrollment)

	// User enrollments and certificates
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollments)
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
}
