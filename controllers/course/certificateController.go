package controllers

import (
	"github.com/gofiber/fiber/v2"

	"peerlearn/database"
	"peerlearn/middleware"
	"peerlearn/models"
	"peerlearn/policy"
)

// GetUserCertificates lists certificates the caller may see: their own as a
// student, plus certificates issued for their courses as a mentor.
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	db := database.Database.Db

	type CertificateWithCourse struct {
		models.Certificate
		CourseTitle string `json:"course_title"`
	}

	var certificates []models.Certificate
	if err := db.Where("student_id = ? OR mentor_id = ?", userID, userID).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	visible, err := policy.FilterReadable(db, policy.PrincipalFromUser(user), certificates)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(visible))
	for i, cert := range visible {
		var course models.Course
		db.Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{
			Certificate: cert,
			CourseTitle: course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}
