package services_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"peerlearn/database"
	"peerlearn/models"
	"peerlearn/policy"
	"peerlearn/services"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type completionFixture struct {
	mentor     models.User
	student    models.User
	course     models.Course
	enrollment models.Enrollment
}

func setupCompletion(t *testing.T, db *gorm.DB, startingXP uint) completionFixture {
	t.Helper()

	mentor := models.NewUser("Mentor", "mentor@test.dev", "hash", 4)
	mentor.Role = models.RoleMentor
	require.NoError(t, db.Create(&mentor).Error)

	student := models.NewUser("Student", "student@test.dev", "hash", 2)
	student.XPPoints = startingXP
	student.LevelNumber = services.LevelForXP(startingXP)
	require.NoError(t, db.Create(&student).Error)

	course := models.Course{MentorID: mentor.ID, Title: "Distributed Systems", IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	enrollment := models.Enrollment{StudentID: student.ID, CourseID: course.ID}
	require.NoError(t, db.Create(&enrollment).Error)

	return completionFixture{mentor: mentor, student: student, course: course, enrollment: enrollment}
}

func TestCompleteEnrollmentAwards(t *testing.T) {
	db := setupTestDB(t, "progression_awards")
	fx := setupCompletion(t, db, 80)

	cert, err := services.CompleteEnrollment(db, policy.PrincipalFromUser(fx.mentor), fx.enrollment.ID)
	require.NoError(t, err)
	require.NotNil(t, cert)

	assert.Equal(t, fx.student.ID, cert.StudentID)
	assert.Equal(t, fx.course.ID, cert.CourseID)
	assert.Equal(t, fx.mentor.ID, cert.MentorID)
	assert.True(t, strings.HasPrefix(cert.CertificateNumber, "CERT-"))
	assert.Len(t, cert.CertificateNumber, len("CERT-")+12)
	assert.False(t, cert.IssuedAt.IsZero())

	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, fx.enrollment.ID).Error)
	assert.True(t, enrollment.IsCompleted)
	require.NotNil(t, enrollment.CompletedAt)

	// 80 + 50 = 130 XP crosses the level 2 threshold.
	var student models.User
	require.NoError(t, db.First(&student, fx.student.ID).Error)
	assert.Equal(t, uint(130), student.XPPoints)
	assert.Equal(t, uint(2), student.LevelNumber)
	assert.Equal(t, services.LevelForXP(student.XPPoints), student.LevelNumber)
}

func TestCompleteEnrollmentIdempotent(t *testing.T) {
	db := setupTestDB(t, "progression_idempotent")
	fx := setupCompletion(t, db, 0)

	p := policy.PrincipalFromUser(fx.mentor)

	_, err := services.CompleteEnrollment(db, p, fx.enrollment.ID)
	require.NoError(t, err)

	// The second call is a no-op: no extra XP, no second certificate.
	_, err = services.CompleteEnrollment(db, p, fx.enrollment.ID)
	assert.ErrorIs(t, err, services.ErrAlreadyCompleted)

	var student models.User
	require.NoError(t, db.First(&student, fx.student.ID).Error)
	assert.Equal(t, uint(services.CompletionXP), student.XPPoints)

	var certCount int64
	require.NoError(t, db.Model(&models.Certificate{}).
		Where("student_id = ? AND course_id = ?", fx.student.ID, fx.course.ID).
		Count(&certCount).Error)
	assert.Equal(t, int64(1), certCount)
}

func TestCompleteEnrollmentDeniedForNonMentor(t *testing.T) {
	db := setupTestDB(t, "progression_denied")
	fx := setupCompletion(t, db, 0)

	// The student cannot complete their own enrollment.
	_, err := services.CompleteEnrollment(db, policy.PrincipalFromUser(fx.student), fx.enrollment.ID)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	// Neither can an unrelated mentor.
	other := models.NewUser("Other Mentor", "other@test.dev", "hash", 4)
	other.Role = models.RoleMentor
	require.NoError(t, db.Create(&other).Error)

	_, err = services.CompleteEnrollment(db, policy.PrincipalFromUser(other), fx.enrollment.ID)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, fx.enrollment.ID).Error)
	assert.False(t, enrollment.IsCompleted)

	var student models.User
	require.NoError(t, db.First(&student, fx.student.ID).Error)
	assert.Zero(t, student.XPPoints)
}

func TestCompleteEnrollmentCourseGone(t *testing.T) {
	db := setupTestDB(t, "progression_course_gone")
	fx := setupCompletion(t, db, 0)

	require.NoError(t, db.Delete(&models.Course{}, fx.course.ID).Error)

	_, err := services.CompleteEnrollment(db, policy.PrincipalFromUser(fx.mentor), fx.enrollment.ID)
	assert.ErrorIs(t, err, services.ErrCourseGone)

	// Everything rolled back, the flag included.
	var enrollment models.Enrollment
	require.NoError(t, db.First(&enrollment, fx.enrollment.ID).Error)
	assert.False(t, enrollment.IsCompleted)
	assert.Nil(t, enrollment.CompletedAt)

	var student models.User
	require.NoError(t, db.First(&student, fx.student.ID).Error)
	assert.Zero(t, student.XPPoints)

	var certCount int64
	require.NoError(t, db.Model(&models.Certificate{}).Count(&certCount).Error)
	assert.Zero(t, certCount)
}

func TestCompleteEnrollmentNotFound(t *testing.T) {
	db := setupTestDB(t, "progression_not_found")
	fx := setupCompletion(t, db, 0)

	_, err := services.CompleteEnrollment(db, policy.PrincipalFromUser(fx.mentor), fx.enrollment.ID+999)
	assert.ErrorIs(t, err, services.ErrEnrollmentNotFound)
}

func TestCompleteEnrollmentConcurrent(t *testing.T) {
	db := setupTestDB(t, "progression_concurrent")
	fx := setupCompletion(t, db, 0)

	p := policy.PrincipalFromUser(fx.mentor)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = services.CompleteEnrollment(db, p, fx.enrollment.ID)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one racer should observe the completion edge")

	// Whatever the losers saw, the awards landed exactly once.
	var student models.User
	require.NoError(t, db.First(&student, fx.student.ID).Error)
	assert.Equal(t, uint(services.CompletionXP), student.XPPoints)
	assert.Equal(t, uint(1), student.LevelNumber)

	var certCount int64
	require.NoError(t, db.Model(&models.Certificate{}).
		Where("student_id = ?", fx.student.ID).
		Count(&certCount).Error)
	assert.Equal(t, int64(1), certCount)
}

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp    uint
		level uint
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{149, 2},
		{250, 3},
		{1000, 11},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, services.LevelForXP(c.xp), "xp=%d", c.xp)
	}
}

func TestNewCertificateNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		num := services.NewCertificateNumber()
		assert.True(t, strings.HasPrefix(num, "CERT-"))
		assert.Len(t, num, len("CERT-")+12)
		assert.Equal(t, strings.ToUpper(num), num)
		assert.False(t, seen[num], "duplicate certificate number %s", num)
		seen[num] = true
	}
}
