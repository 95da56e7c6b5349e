package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"peerlearn/config"
	"peerlearn/database"
	"peerlearn/middleware"
	"peerlearn/models"
	courseRoutes "peerlearn/routers/courseRoutes"
)

func setupApp(t *testing.T, name string) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:      "0",
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedBadges(db))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	return app
}

func registerUser(t *testing.T, name, email, role string, year int) (models.User, string) {
	t.Helper()

	user := models.NewUser(name, email, "hash", year)
	user.Role = role
	user.IsVerified = true
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, user.YearOfStudy)
	require.NoError(t, err)
	return user, token
}

func request(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func dataMap(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response data should be an object, got %T", body["data"])
	return data
}

func TestCourseLifecycle(t *testing.T) {
	app := setupApp(t, "http_course_lifecycle")

	_, mentorToken := registerUser(t, "Mentor", "mentor@test.dev", models.RoleMentor, 4)
	_, studentToken := registerUser(t, "Student", "student@test.dev", models.RoleStudent, 2)

	// Mentor publishes a course.
	status, body := request(t, app, http.MethodPost, "/course/", mentorToken, fiber.Map{
		"title":          "Intro to Go",
		"description":    "Concurrency, interfaces and tooling.",
		"category":       "programming",
		"price":          100,
		"duration_hours": 12,
	})
	require.Equal(t, http.StatusCreated, status)
	courseID := uint(dataMap(t, body)["ID"].(float64))
	require.NotZero(t, courseID)

	// A student cannot publish.
	status, _ = request(t, app, http.MethodPost, "/course/", studentToken, fiber.Map{
		"title":       "Not allowed",
		"description": "Students cannot publish courses.",
	})
	assert.Equal(t, http.StatusForbidden, status)

	// The student sees the active course.
	status, body = request(t, app, http.MethodGet, "/course/list", studentToken, nil)
	require.Equal(t, http.StatusOK, status)
	courses := dataMap(t, body)["courses"].([]interface{})
	assert.Len(t, courses, 1)

	// The student cannot edit it.
	path := fmt.Sprintf("/course/%d", courseID)
	status, _ = request(t, app, http.MethodPut, path, studentToken, fiber.Map{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, status)

	// The mentor deactivates it; the student's listing goes empty.
	status, _ = request(t, app, http.MethodPut, path, mentorToken, fiber.Map{"is_active": false})
	require.Equal(t, http.StatusOK, status)

	status, body = request(t, app, http.MethodGet, "/course/list", studentToken, nil)
	require.Equal(t, http.StatusOK, status)
	courses = dataMap(t, body)["courses"].([]interface{})
	assert.Empty(t, courses)

	// Details behave the same way: not found for the student, visible to the owner.
	status, _ = request(t, app, http.MethodGet, path, studentToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = request(t, app, http.MethodGet, path, mentorToken, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestEnrollmentAndCompletionFlow(t *testing.T) {
	app := setupApp(t, "http_enrollment_flow")

	mentor, mentorToken := registerUser(t, "Mentor", "mentor@test.dev", models.RoleMentor, 4)
	student, studentToken := registerUser(t, "Student", "student@test.dev", models.RoleStudent, 2)

	course := models.Course{MentorID: mentor.ID, Title: "Databases", Description: "Indexes and transactions.", IsActive: true}
	require.NoError(t, database.Database.Db.Create(&course).Error)

	// Enroll, then enrolling twice conflicts.
	enrollPath := fmt.Sprintf("/course/%d/enroll", course.ID)
	status, body := request(t, app, http.MethodPost, enrollPath, studentToken, nil)
	require.Equal(t, http.StatusOK, status)
	enrollmentID := uint(dataMap(t, body)["ID"].(float64))

	status, _ = request(t, app, http.MethodPost, enrollPath, studentToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Reviews are gated on completion.
	reviewPath := fmt.Sprintf("/course/%d/review", course.ID)
	status, _ = request(t, app, http.MethodPost, reviewPath, studentToken, fiber.Map{"rating": 5, "comment": "Great"})
	assert.Equal(t, http.StatusForbidden, status)

	// The student cannot self-complete; the mentor can.
	completePath := fmt.Sprintf("/enrollment/%d/complete", enrollmentID)
	status, _ = request(t, app, http.MethodPost, completePath, studentToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = request(t, app, http.MethodPost, completePath, mentorToken, nil)
	require.Equal(t, http.StatusOK, status)
	cert := dataMap(t, body)["certificate"].(map[string]interface{})
	assert.NotEmpty(t, cert["certificate_number"])

	// Repeat completion is a no-op, reported as success.
	status, body = request(t, app, http.MethodPost, completePath, mentorToken, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Enrollment was already completed.", body["message"])

	var updated models.User
	require.NoError(t, database.Database.Db.First(&updated, student.ID).Error)
	assert.Equal(t, uint(50), updated.XPPoints)

	// Now the review goes through, exactly once.
	status, _ = request(t, app, http.MethodPost, reviewPath, studentToken, fiber.Map{"rating": 5, "comment": "Great"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = request(t, app, http.MethodPost, reviewPath, studentToken, fiber.Map{"rating": 4})
	assert.Equal(t, http.StatusConflict, status)

	// Both parties see the certificate.
	status, body = request(t, app, http.MethodGet, "/user/certificates", studentToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), dataMap(t, body)["total"])

	status, body = request(t, app, http.MethodGet, "/user/certificates", mentorToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), dataMap(t, body)["total"])
}

func TestRequestsWithoutToken(t *testing.T) {
	app := setupApp(t, "http_no_token")

	status, _ := request(t, app, http.MethodGet, "/course/list", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = request(t, app, http.MethodPost, "/course/", "", fiber.Map{"title": "Nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
}
