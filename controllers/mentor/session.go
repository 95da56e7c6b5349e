package mentorController

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"peerlearn/database"
	"peerlearn/middleware"
	"peerlearn/models"
	"peerlearn/policy"
	"peerlearn/services"
)

// BookSession books a one-to-one session with a mentor.
func BookSession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData := new(struct {
		MentorID    uint      `json:"mentor_id"`
		Topic       string    `json:"topic"`
		ScheduledAt time.Time `json:"scheduled_at"`
		Price       uint      `json:"price"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	errs := make(map[string]string)
	if reqData.MentorID == 0 {
		errs["mentor_id"] = "Mentor is required!"
	}
	if reqData.ScheduledAt.Before(time.Now()) {
		errs["scheduled_at"] = "Session must be scheduled in the future!"
	}
	if len(errs) > 0 {
		return middleware.ValidationErrorResponse(c, errs)
	}

	db := database.Database.Db

	var mentor models.User
	if err := db.Where("id = ? AND is_deleted = ? AND role IN ?",
		reqData.MentorID, false, []string{models.RoleMentor, models.RoleAdmin}).First(&mentor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Mentor not found!", nil)
	}

	session := models.Session{
		MentorID:    mentor.ID,
		StudentID:   user.ID,
		Topic:       reqData.Topic,
		ScheduledAt: reqData.ScheduledAt,
		Price:       reqData.Price,
		Status:      models.SessionBooked,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return policy.Create(tx, policy.PrincipalFromUser(user), &session)
	})
	if err != nil {
		if errors.Is(err, policy.ErrPermissionDenied) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only book sessions for yourself!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to book session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Session booked successfully!", session)
}

// GetMySessions lists sessions where the caller is student or mentor.
func GetMySessions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	db := database.Database.Db

	var sessions []models.Session
	if err := db.Where("student_id = ? OR mentor_id = ?", userID, userID).
		Order("scheduled_at desc").Find(&sessions).Error; err != nil {
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

// CompleteSession marks a session done and credits the mentor's earnings.
func CompleteSession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	sessionID, err := c.ParamsInt("id")
	if err != nil || sessionID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid session id!", nil)
	}

	err = services.CompleteSession(database.Database.Db, policy.PrincipalFromUser(user), uint(sessionID))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
		case errors.Is(err, policy.ErrPermissionDenied):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only the mentor can complete a session!", nil)
		case errors.Is(err, services.ErrSessionClosed):
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Session was already closed.", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete session!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session completed successfully!", nil)
}

// GetEarnings returns the caller's earnings ledger and running total.
func GetEarnings(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	db := database.Database.Db

	var entries []models.EarningsTransaction
	if err := db.Where("mentor_id = ?", userID).Order("created_at desc").Find(&entries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch earnings!", nil)
	}

	visible, err := policy.FilterReadable(db, policy.PrincipalFromUser(user), entries)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch earnings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Earnings fetched successfully!", fiber.Map{
		"transactions":   visible,
		"total_earnings": user.TotalEarnings,
	})
}
