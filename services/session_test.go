package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerlearn/models"
	"peerlearn/policy"
	"peerlearn/services"
)

func TestCompleteSessionCreditsMentor(t *testing.T) {
	db := setupTestDB(t, "session_credit")

	mentor := models.NewUser("Mentor", "mentor@test.dev", "hash", 4)
	mentor.Role = models.RoleMentor
	require.NoError(t, db.Create(&mentor).Error)

	student := models.NewUser("Student", "student@test.dev", "hash", 2)
	require.NoError(t, db.Create(&student).Error)

	session := models.Session{
		MentorID:    mentor.ID,
		StudentID:   student.ID,
		Topic:       "Mock interview",
		ScheduledAt: time.Now().Add(time.Hour),
		Price:       200,
	}
	require.NoError(t, db.Create(&session).Error)

	require.NoError(t, services.CompleteSession(db, policy.PrincipalFromUser(mentor), session.ID))

	var updated models.Session
	require.NoError(t, db.First(&updated, session.ID).Error)
	assert.Equal(t, models.SessionCompleted, updated.Status)

	var credited models.User
	require.NoError(t, db.First(&credited, mentor.ID).Error)
	assert.Equal(t, uint(200), credited.TotalEarnings)

	var entries []models.EarningsTransaction
	require.NoError(t, db.Where("mentor_id = ?", mentor.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, session.ID, entries[0].SessionID)
	assert.Equal(t, uint(200), entries[0].Amount)

	// Repeat completion is a no-op and credits nothing more.
	err := services.CompleteSession(db, policy.PrincipalFromUser(mentor), session.ID)
	assert.ErrorIs(t, err, services.ErrSessionClosed)

	require.NoError(t, db.First(&credited, mentor.ID).Error)
	assert.Equal(t, uint(200), credited.TotalEarnings)
}

func TestCompleteSessionFreeSession(t *testing.T) {
	db := setupTestDB(t, "session_free")

	mentor := models.NewUser("Mentor", "mentor@test.dev", "hash", 4)
	mentor.Role = models.RoleMentor
	require.NoError(t, db.Create(&mentor).Error)

	student := models.NewUser("Student", "student@test.dev", "hash", 2)
	require.NoError(t, db.Create(&student).Error)

	session := models.Session{MentorID: mentor.ID, StudentID: student.ID, Topic: "Office hours"}
	require.NoError(t, db.Create(&session).Error)

	require.NoError(t, services.CompleteSession(db, policy.PrincipalFromUser(mentor), session.ID))

	// Price 0: the session closes but no ledger row is written.
	var entryCount int64
	require.NoError(t, db.Model(&models.EarningsTransaction{}).Count(&entryCount).Error)
	assert.Zero(t, entryCount)
}

func TestCompleteSessionOnlyMentor(t *testing.T) {
	db := setupTestDB(t, "session_only_mentor")

	mentor := models.NewUser("Mentor", "mentor@test.dev", "hash", 4)
	mentor.Role = models.RoleMentor
	require.NoError(t, db.Create(&mentor).Error)

	student := models.NewUser("Student", "student@test.dev", "hash", 2)
	require.NoError(t, db.Create(&student).Error)

	session := models.Session{MentorID: mentor.ID, StudentID: student.ID, Price: 100}
	require.NoError(t, db.Create(&session).Error)

	err := services.CompleteSession(db, policy.PrincipalFromUser(student), session.ID)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	var unchanged models.Session
	require.NoError(t, db.First(&unchanged, session.ID).Error)
	assert.Equal(t, models.SessionBooked, unchanged.Status)
}

func TestCompleteSessionNotFound(t *testing.T) {
	db := setupTestDB(t, "session_not_found")

	mentor := models.NewUser("Mentor", "mentor@test.dev", "hash", 4)
	mentor.Role = models.RoleMentor
	require.NoError(t, db.Create(&mentor).Error)

	err := services.CompleteSession(db, policy.PrincipalFromUser(mentor), 42)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}
