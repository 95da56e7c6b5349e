package communityController

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"peerlearn/database"
	"peerlearn/middleware"
	"peerlearn/models"
	"peerlearn/models/community"
	"peerlearn/policy"
	communityValidators "peerlearn/validators/community"
)

// AddResource uploads a shared resource to a community.
func AddResource(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid community id!", nil)
	}

	reqData, ok := c.Locals("validatedResource").(*communityValidators.AddResourceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var lc community.LearningCommunity
	if err := db.Where("id = ? AND is_active = ?", id, true).First(&lc).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Community not found!", nil)
	}

	resource := community.CommunityResource{
		CommunityID:  lc.ID,
		UploadedBy:   userID,
		Title:        reqData.Title,
		ResourceType: reqData.ResourceType,
		URL:          reqData.URL,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return policy.Create(tx, policy.PrincipalFromUser(user), &resource)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only members in their second year or later can upload resources!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add resource!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Resource added successfully!", resource)
}

// GetResources lists a community's resources. Non-members get zero rows.
func GetResources(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid community id!", nil)
	}

	db := database.Database.Db

	var resources []community.CommunityResource
	if err := db.Where("community_id = ?", id).Order("created_at desc").Find(&resources).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch resources!", nil)
	}

	visible, err := policy.FilterReadable(db, policy.PrincipalFromUser(user), resources)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch resources!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Resources fetched successfully!", fiber.Map{
		"resources": visible,
		"total":     len(visible),
	})
}

// CreateCommunitySession schedules a study session hosted by the caller.
func CreateCommunitySession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid community id!", nil)
	}

	reqData, ok := c.Locals("validatedSession").(*communityValidators.CreateSessionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	scheduledAt, err := time.Parse(time.RFC3339, reqData.ScheduledAt)
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"scheduled_at": "Must be an RFC3339 timestamp!"})
	}

	db := database.Database.Db

	var lc community.LearningCommunity
	if err := db.Where("id = ? AND is_active = ?", id, true).First(&lc).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Community not found!", nil)
	}

	session := community.CommunitySession{
		CommunityID: lc.ID,
		HostID:      userID,
		Title:       reqData.Title,
		MeetLink:    reqData.MeetLink,
		ScheduledAt: scheduledAt,
		IsActive:    true,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return policy.Create(tx, policy.PrincipalFromUser(user), &session)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only members in their second year or later can host sessions!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Community session created successfully!", session)
}

// GetCommunitySessions lists a community's sessions for members.
func GetCommunitySessions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid community id!", nil)
	}

	db := database.Database.Db

	var sessions []community.CommunitySession
	if err := db.Where("community_id = ?", id).Order("scheduled_at desc").Find(&sessions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch sessions!", nil)
	}

	visible, err := policy.FilterReadable(db, policy.PrincipalFromUser(user), sessions)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch sessions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sessions fetched successfully!", fiber.Map{
		"sessions": visible,
		"total":    len(visible),
	})
}
