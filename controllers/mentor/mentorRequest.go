package mentorController

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"peerlearn/database"
	"peerlearn/middleware"
	"peerlearn/models"
	"peerlearn/policy"
	"peerlearn/utils"
)

// CreateMentorRequest files a mentor application for the calling student.
func CreateMentorRequest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You are already a mentor!", nil)
	}

	reqData := new(struct {
		Motivation string `json:"motivation"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// One open application at a time
	var pending models.MentorRequest
	if err := db.Where("student_id = ? AND status = ?", userID, models.MentorRequestPending).First(&pending).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already have a pending mentor request!", nil)
	}

	request := models.MentorRequest{
		StudentID:  userID,
		Motivation: reqData.Motivation,
		Status:     models.MentorRequestPending,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return policy.Create(tx, policy.PrincipalFromUser(user), &request)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only file your own request!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit mentor request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Mentor request submitted successfully!", request)
}

// GetMentorRequests lists the caller's own requests; admins see all.
func GetMentorRequests(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	db := database.Database.Db

	var requests []models.MentorRequest
	if err := db.Order("created_at desc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch mentor requests!", nil)
	}

	visible, err := policy.FilterReadable(db, policy.PrincipalFromUser(user), requests)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch mentor requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Mentor requests fetched successfully!", fiber.Map{
		"requests": visible,
		"total":    len(visible),
	})
}

// ReviewMentorRequest lets an admin approve or reject a pending request.
// Approval promotes the student to mentor in the same transaction.
func ReviewMentorRequest(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	requestID, err := c.ParamsInt("id")
	if err != nil || requestID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request id!", nil)
	}

	reqData := new(struct {
		Status string `json:"status"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Status != models.MentorRequestApproved && reqData.Status != models.MentorRequestRejected {
		return middleware.ValidationErrorResponse(c, map[string]string{"status": "Status must be approved or rejected!"})
	}

	db := database.Database.Db

	var request models.MentorRequest
	if err := db.First(&request, requestID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Mentor request not found!", nil)
	}

	if request.Status != models.MentorRequestPending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Mentor request already reviewed!", nil)
	}

	now := time.Now()
	request.Status = reqData.Status
	request.ReviewedBy = &user.ID
	request.ReviewedAt = &now

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := policy.Update(tx, policy.PrincipalFromUser(user), &request); err != nil {
			return err
		}
		if request.Status == models.MentorRequestApproved {
			return tx.Model(&models.User{}).
				Where("id = ?", request.StudentID).
				Update("role", models.RoleMentor).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only admins can review mentor requests!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to review mentor request!", nil)
	}

	go func(studentID uint, status string) {
		var student models.User
		if err := database.Database.Db.First(&student, studentID).Error; err != nil {
			log.Printf("Error loading student %d for decision mail: %v", studentID, err)
			return
		}
		if err := utils.SendMentorRequestEmail(student.Name, student.Email, status); err != nil {
			log.Printf("Error sending mentor request email: %v", err)
		}
	}(request.StudentID, request.Status)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Mentor request reviewed successfully!", request)
}
