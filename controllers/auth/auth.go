package authController

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"peerlearn/config"
	"peerlearn/database"
	"peerlearn/middleware"
	"peerlearn/models"
	"peerlearn/utils"
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		YearOfStudy int    `json:"year_of_study"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.NewUser(reqData.Name, reqData.Email, string(hashedPassword), reqData.YearOfStudy)

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	// Email verification code
	code := utils.GenerateOTP()
	otp := models.OTP{
		UserID:    newUser.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	if err := db.Create(&otp).Error; err != nil {
		log.Printf("Error saving OTP: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	go func(name, email, code string) {
		if err := utils.SendOTPEmail(name, email, code); err != nil {
			log.Printf("Error sending OTP email to %s: %v", email, err)
		}
	}(newUser.Name, newUser.Email, code)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully. Check your email for the verification code.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, user.YearOfStudy)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to login!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// VerifyOTP marks the account verified when the emailed code matches.
func VerifyOTP(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var otp models.OTP
	if err := db.Where("user_id = ? AND code = ? AND is_used = ? AND expires_at > ?",
		user.ID, reqData.Code, false, time.Now()).First(&otp).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired code!", nil)
	}

	if err := db.Model(&otp).Update("is_used", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify!", nil)
	}
	if err := db.Model(&user).Update("is_verified", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Email verified successfully!", nil)
}

// Profile returns the authenticated user's own profile.
func Profile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}
