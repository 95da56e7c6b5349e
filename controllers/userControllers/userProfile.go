package userControllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"peerlearn/database"
	"peerlearn/middleware"
	"peerlearn/models"
	"peerlearn/policy"
)

// GetUsers lists public profiles with pagination.
func GetUsers(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var self models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&self).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)

	role := c.Query("role")
	if role != "" {
		db = db.Where("role = ?", role)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Offset(offset).Limit(limit).Order("xp_points desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	visible, err := policy.FilterReadable(database.Database.Db, policy.PrincipalFromUser(self), users)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": visible,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetUserByID returns one public profile with badges and projects.
func GetUserByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var badges []models.UserBadge
	db.Where("user_id = ?", user.ID).Preload("Badge").Find(&badges)

	var projects []models.UserProject
	db.Where("user_id = ?", user.ID).Find(&projects)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", fiber.Map{
		"user":     user,
		"badges":   badges,
		"projects": projects,
	})
}

// UpdateProfile lets a user edit their own profile fields.
func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Name         *string `json:"name"`
		Bio          *string `json:"bio"`
		Skills       *string `json:"skills"`
		ProfileImage *string `json:"profile_image"`
		YearOfStudy  *int    `json:"year_of_study"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Name != nil && strings.TrimSpace(*reqData.Name) == "" {
		return middleware.ValidationErrorResponse(c, map[string]string{"name": "Name cannot be empty!"})
	}
	if reqData.YearOfStudy != nil && (*reqData.YearOfStudy < 1 || *reqData.YearOfStudy > 6) {
		return middleware.ValidationErrorResponse(c, map[string]string{"year_of_study": "Year of study must be between 1 and 6!"})
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if reqData.Name != nil {
		user.Name = *reqData.Name
	}
	if reqData.Bio != nil {
		user.Bio = *reqData.Bio
	}
	if reqData.Skills != nil {
		user.Skills = *reqData.Skills
	}
	if reqData.ProfileImage != nil {
		user.ProfileImage = *reqData.ProfileImage
	}
	if reqData.YearOfStudy != nil {
		user.YearOfStudy = *reqData.YearOfStudy
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return policy.Update(tx, policy.PrincipalFromUser(user), &user)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to update this profile!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}
