package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"peerlearn/database"
	"peerlearn/middleware"
	"peerlearn/models"
	"peerlearn/policy"
)

// CreateCourse lets a mentor publish a new course.
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		Category      string `json:"category"`
		Price         uint   `json:"price"`
		DurationHours int    `json:"duration_hours"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	course := models.Course{
		MentorID:      user.ID,
		Title:         reqData.Title,
		Description:   reqData.Description,
		Category:      reqData.Category,
		Price:         reqData.Price,
		DurationHours: reqData.DurationHours,
		IsActive:      true,
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		return policy.Create(tx, policy.PrincipalFromUser(user), &course)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only mentors can create courses!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// GetAllCourses lists courses visible to the caller. Inactive courses are
// filtered out by the read predicate, not reported as errors.
func GetAllCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Course{}).Where("is_deleted = ?", false)

	category := c.Query("category")
	if category != "" {
		db = db.Where("category = ?", category)
	}

	var courses []models.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	visible, err := policy.FilterReadable(database.Database.Db, policy.PrincipalFromUser(user), courses)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": visible,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails returns one course. A course the caller may not read
// looks exactly like a course that does not exist.
func GetCourseDetails(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Owners see their own inactive courses.
	if course.MentorID != user.ID {
		readable, err := policy.CanRead(db, policy.PrincipalFromUser(user), &course)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
		}
		if !readable {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
	}

	var reviews []models.Review
	db.Where("course_id = ?", course.ID).Order("created_at desc").Limit(10).Find(&reviews)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":  course,
		"reviews": reviews,
	})
}

// UpdateCourse lets the owning mentor edit or deactivate a course.
func UpdateCourse(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	reqData := new(struct {
		Title         *string `json:"title"`
		Description   *string `json:"description"`
		Category      *string `json:"category"`
		Price         *uint   `json:"price"`
		DurationHours *int    `json:"duration_hours"`
		IsActive      *bool   `json:"is_active"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Category != nil {
		course.Category = *reqData.Category
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}
	if reqData.DurationHours != nil {
		course.DurationHours = *reqData.DurationHours
	}
	if reqData.IsActive != nil {
		course.IsActive = *reqData.IsActive
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return policy.Update(tx, policy.PrincipalFromUser(user), &course)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to update this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}
