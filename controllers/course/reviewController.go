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

// SubmitReview allows a student to review a course they completed.
func SubmitReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	reqData := new(struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Rating < 1 || reqData.Rating > 5 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rating must be between 1 and 5!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// One review per student per course
	var existingReview models.Review
	if err := db.Where("course_id = ? AND student_id = ?", courseID, userID).First(&existingReview).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this course!", nil)
	}

	review := models.Review{
		StudentID: userID,
		CourseID:  course.ID,
		MentorID:  course.MentorID,
		Rating:    reqData.Rating,
		Comment:   reqData.Comment,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return policy.Create(tx, policy.PrincipalFromUser(user), &review)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only review courses you have completed!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review submitted successfully!", review)
}

// GetCourseReviews returns reviews for a course (public).
func GetCourseReviews(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("id")
	if err != nil || courseID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
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

	db := database.Database.Db

	var total int64
	db.Model(&models.Review{}).Where("course_id = ?", courseID).Count(&total)

	var reviews []models.Review
	if err := db.Where("course_id = ?", courseID).
		Preload("Student", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", fiber.Map{
		"reviews": reviews,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
