package badgeRoutes

import (
	"github.com/gofiber/fiber/v2"

	badgeController "peerlearn/controllers/badge"
)

// SetupBadgeRoutes sets up badge catalog routes
func SetupBadgeRoutes(app *fiber.App) {
	badgeGroup := app.Group("/badge")

	badgeGroup.Get("/list", badgeController.GetBadges)
	badgeGroup.Get("/user/:id", badgeController.GetUserBadges)
}
