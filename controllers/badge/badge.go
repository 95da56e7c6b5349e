package badgeController

import (
	"github.com/gofiber/fiber/v2"

	"peerlearn/database"
	"peerlearn/middleware"
	"peerlearn/models"
)

// GetBadges returns the badge catalog (public).
func GetBadges(c *fiber.Ctx) error {
	var badges []models.Badge
	if err := database.Database.Db.Order("badge_type, name").Find(&badges).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch badges!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Badges fetched successfully!", badges)
}

// GetUserBadges returns badges earned by one user (public).
func GetUserBadges(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	var earned []models.UserBadge
	if err := database.Database.Db.Where("user_id = ?", id).Preload("Badge").
		Order("earned_at desc").Find(&earned).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch badges!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User badges fetched successfully!", fiber.Map{
		"badges": earned,
		"total":  len(earned),
	})
}
