package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"peerlearn/models"
	"peerlearn/policy"
)

var (
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionClosed marks a session that is no longer in the booked
	// state; completing it again is a no-op.
	ErrSessionClosed = errors.New("session is not open")
)

// CompleteSession marks a booked session completed and credits the mentor:
// one ledger row plus the running total on the user, in one transaction.
// Same edge-gated shape as enrollment completion.
func CompleteSession(db *gorm.DB, p policy.Principal, sessionID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var session models.Session
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		allowed, err := policy.Can(tx, p, policy.ActionUpdate, &session)
		if err != nil {
			return err
		}
		if !allowed {
			return policy.ErrPermissionDenied
		}

		res := tx.Model(&models.Session{}).
			Where("id = ? AND status = ?", session.ID, models.SessionBooked).
			Update("status", models.SessionCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessionClosed
		}

		if session.Price > 0 {
			entry := models.EarningsTransaction{
				MentorID:  session.MentorID,
				SessionID: session.ID,
				Amount:    session.Price,
				Note:      fmt.Sprintf("session #%d fee", session.ID),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.User{}).
				Where("id = ?", session.MentorID).
				UpdateColumn("total_earnings", gorm.Expr("total_earnings + ?", session.Price)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
