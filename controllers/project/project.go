package projectController

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"peerlearn/database"
	"peerlearn/middleware"
	"peerlearn/models"
	"peerlearn/policy"
)

// CreateProject adds a portfolio project to the caller's profile.
func CreateProject(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData := new(struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		RepoURL      string   `json:"repo_url"`
		Technologies []string `json:"technologies"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if strings.TrimSpace(reqData.Title) == "" {
		return middleware.ValidationErrorResponse(c, map[string]string{"title": "Title is required!"})
	}

	techJSON, err := json.Marshal(reqData.Technologies)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid technologies list!", nil)
	}

	project := models.UserProject{
		UserID:       userID,
		Title:        reqData.Title,
		Description:  reqData.Description,
		RepoURL:      reqData.RepoURL,
		Technologies: datatypes.JSON(techJSON),
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		return policy.Create(tx, policy.PrincipalFromUser(user), &project)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only add projects to your own profile!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create project!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Project created successfully!", project)
}

// GetProjects lists a user's projects (public).
func GetProjects(c *fiber.Ctx) error {
	id, err := c.ParamsInt("userId")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	var projects []models.UserProject
	if err := database.Database.Db.Where("user_id = ?", id).Order("created_at desc").Find(&projects).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch projects!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Projects fetched successfully!", fiber.Map{
		"projects": projects,
		"total":    len(projects),
	})
}

// UpdateProject edits one of the caller's projects.
func UpdateProject(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid project id!", nil)
	}

	reqData := new(struct {
		Title        *string   `json:"title"`
		Description  *string   `json:"description"`
		RepoURL      *string   `json:"repo_url"`
		Technologies *[]string `json:"technologies"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var project models.UserProject
	if err := db.First(&project, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Project not found!", nil)
	}

	if reqData.Title != nil {
		project.Title = *reqData.Title
	}
	if reqData.Description != nil {
		project.Description = *reqData.Description
	}
	if reqData.RepoURL != nil {
		project.RepoURL = *reqData.RepoURL
	}
	if reqData.Technologies != nil {
		techJSON, err := json.Marshal(*reqData.Technologies)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid technologies list!", nil)
		}
		project.Technologies = datatypes.JSON(techJSON)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return policy.Update(tx, policy.PrincipalFromUser(user), &project)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only update your own projects!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update project!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Project updated successfully!", project)
}

// DeleteProject removes one of the caller's projects. Projects are the only
// entity with a delete grant.
func DeleteProject(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid project id!", nil)
	}

	db := database.Database.Db

	var project models.UserProject
	if err := db.First(&project, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Project not found!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return policy.Delete(tx, policy.PrincipalFromUser(user), &project)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only delete your own projects!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete project!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Project deleted successfully!", nil)
}
