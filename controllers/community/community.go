package communityController

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"peerlearn/database"
	"peerlearn/middleware"
	"peerlearn/models"
	"peerlearn/models/community"
	"peerlearn/policy"
	communityValidators "peerlearn/validators/community"
)

// CreateCommunity creates a learning community; the creator becomes its
// admin member in the same transaction.
func CreateCommunity(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedCommunity").(*communityValidators.CreateCommunityRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	lc := community.LearningCommunity{
		CreatedBy:   user.ID,
		Name:        reqData.Name,
		Description: reqData.Description,
		Category:    reqData.Category,
		IsActive:    true,
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		p := policy.PrincipalFromUser(user)
		if err := policy.Create(tx, p, &lc); err != nil {
			return err
		}
		member := community.CommunityMember{
			CommunityID: lc.ID,
			UserID:      user.ID,
			Role:        community.MemberRoleAdmin,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only students in their second year or later can create communities!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create community!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Community created successfully!", lc)
}

// GetCommunities lists communities visible to the caller (active ones).
func GetCommunities(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	db := database.Database.Db.Model(&community.LearningCommunity{})

	category := c.Query("category")
	if category != "" {
		db = db.Where("category = ?", category)
	}

	var communities []community.LearningCommunity
	if err := db.Order("created_at desc").Find(&communities).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch communities!", nil)
	}

	visible, err := policy.FilterReadable(database.Database.Db, policy.PrincipalFromUser(user), communities)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch communities!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Communities fetched successfully!", fiber.Map{
		"communities": visible,
		"total":       len(visible),
	})
}

// UpdateCommunity lets the creator edit or deactivate their community.
func UpdateCommunity(c *fiber.Ctx) error {
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

	reqData := new(struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		IsActive    *bool   `json:"is_active"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var lc community.LearningCommunity
	if err := db.First(&lc, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Community not found!", nil)
	}

	if reqData.Name != nil {
		lc.Name = *reqData.Name
	}
	if reqData.Description != nil {
		lc.Description = *reqData.Description
	}
	if reqData.Category != nil {
		lc.Category = *reqData.Category
	}
	if reqData.IsActive != nil {
		lc.IsActive = *reqData.IsActive
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return policy.Update(tx, policy.PrincipalFromUser(user), &lc)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only the creator can update this community!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update community!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Community updated successfully!", lc)
}

// JoinCommunity adds the caller as a member of an active community.
func JoinCommunity(c *fiber.Ctx) error {
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

	var lc community.LearningCommunity
	if err := db.Where("id = ? AND is_active = ?", id, true).First(&lc).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Community not found!", nil)
	}

	var existing community.CommunityMember
	if err := db.Where("community_id = ? AND user_id = ?", lc.ID, userID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already a member of this community!", nil)
	}

	role := community.MemberRoleMember
	if user.YearOfStudy >= 3 {
		role = community.MemberRoleSenior
	}

	member := community.CommunityMember{
		CommunityID: lc.ID,
		UserID:      userID,
		Role:        role,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return policy.Create(tx, policy.PrincipalFromUser(user), &member)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only join as yourself!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to join community!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Joined community successfully!", member)
}

// GetMembers lists the roster. Non-members see nothing.
func GetMembers(c *fiber.Ctx) error {
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

	var members []community.CommunityMember
	if err := db.Where("community_id = ?", id).Order("created_at").Find(&members).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch members!", nil)
	}

	visible, err := policy.FilterReadable(db, policy.PrincipalFromUser(user), members)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch members!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Members fetched successfully!", fiber.Map{
		"members": visible,
		"total":   len(visible),
	})
}
