package projectRoutes

import (
	"github.com/gofiber/fiber/v2"

	projectController "peerlearn/controllers/project"
	"peerlearn/middleware"
)

// SetupProjectRoutes sets up user project portfolio routes
func SetupProjectRoutes(app *fiber.App) {
	projectGroup := app.Group("/project")

	projectGroup.Post("/", middleware.JWTMiddleware, projectController.CreateProject)
	projectGroup.Get("/user/:userId", projectController.GetProjects)
	projectGroup.Put("/:id", middleware.JWTMiddleware, projectController.UpdateProject)
	projectGroup.Delete("/:id", middleware.JWTMiddleware, projectController.DeleteProject)
}
