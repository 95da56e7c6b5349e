package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"peerlearn/database"
	"peerlearn/middleware"
	"peerlearn/models"
	"peerlearn/policy"
	"peerlearn/services"
	"peerlearn/utils"
)

// EnrollInCourse enrolls the calling student into an active course.
func EnrollInCourse(c *fiber.Ctx) error {
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

	db := database.Database.Db

	// Check if course exists and is active
	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_active = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	// Check if user is already enrolled
	var existingEnrollment models.Enrollment
	if err := db.Where("student_id = ? AND course_id = ?", userID, courseID).First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	}

	enrollment := models.Enrollment{
		StudentID: userID,
		CourseID:  uint(courseID),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return policy.Create(tx, policy.PrincipalFromUser(user), &enrollment)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only enroll yourself!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetUserEnrollments lists the caller's own enrollments with course info.
func GetUserEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var enrollments []models.Enrollment
	if err := database.Database.Db.Where("student_id = ?", userID).Preload("Course").Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}

// GetCourseEnrollments lists enrollments for one course. The read predicate
// leaves students seeing only their own row; the mentor sees all.
func GetCourseEnrollments(c *fiber.Ctx) error {
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

	db := database.Database.Db

	var enrollments []models.Enrollment
	if err := db.Where("course_id = ?", courseID).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	visible, err := policy.FilterReadable(db, policy.PrincipalFromUser(user), enrollments)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": visible,
		"total":       len(visible),
	})
}

// CompleteEnrollment runs the progression pipeline: only the course's
// mentor may flip the completion flag, and only the first flip awards.
func CompleteEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	enrollmentID, err := c.ParamsInt("id")
	if err != nil || enrollmentID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment id!", nil)
	}

	cert, err := services.CompleteEnrollment(database.Database.Db, policy.PrincipalFromUser(user), uint(enrollmentID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEnrollmentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		case errors.Is(err, services.ErrCourseGone):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "The course for this enrollment no longer exists!", nil)
		case errors.Is(err, policy.ErrPermissionDenied):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only the course mentor can mark completion!", nil)
		case errors.Is(err, services.ErrAlreadyCompleted):
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment was already completed.", nil)
		default:
			log.Printf("Error completing enrollment %d: %v", enrollmentID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete enrollment!", nil)
		}
	}

	// Post-commit notifications, best-effort.
	go func(cert models.Certificate) {
		db := database.Database.Db

		var student models.User
		if err := db.First(&student, cert.StudentID).Error; err != nil {
			log.Printf("Error loading student %d for certificate mail: %v", cert.StudentID, err)
			return
		}
		var course models.Course
		if err := db.First(&course, cert.CourseID).Error; err != nil {
			log.Printf("Error loading course %d for certificate mail: %v", cert.CourseID, err)
			return
		}

		if err := utils.SendCertificateEmail(student.Name, student.Email, course.Title, cert.CertificateNumber); err != nil {
			log.Printf("Error sending certificate email: %v", err)
		}

		utils.NotifyCompletion(utils.CompletionEvent{
			StudentID:         cert.StudentID,
			CourseID:          cert.CourseID,
			CertificateNumber: cert.CertificateNumber,
			XPAwarded:         services.CompletionXP,
		})
	}(*cert)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment completed successfully!", fiber.Map{
		"certificate": cert,
	})
}
