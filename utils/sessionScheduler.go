package utils

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"peerlearn/database"
	"peerlearn/models"
	"peerlearn/models/community"
)

// InitializeSessionScheduler sets up the daily maintenance job
func InitializeSessionScheduler() {
	log.Println("[SESSION-SCHEDULER] Initializing session scheduler...")

	c := cron.New()

	// Run daily at 3 AM
	c.AddFunc("0 3 * * *", func() {
		log.Println("[SESSION-SCHEDULER] Running daily maintenance...")
		ClosePastCommunitySessions()
		PurgeExpiredOTPs()
	})

	c.Start()
	log.Println("[SESSION-SCHEDULER] Session scheduler started - runs daily at 3 AM")
}

// ClosePastCommunitySessions deactivates community sessions whose scheduled
// time has passed.
func ClosePastCommunitySessions() {
	db := database.Database.Db

	res := db.Model(&community.CommunitySession{}).
		Where("is_active = ? AND scheduled_at < ?", true, time.Now()).
		Update("is_active", false)
	if res.Error != nil {
		log.Printf("[SESSION-SCHEDULER] Error closing past sessions: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("[SESSION-SCHEDULER] Closed %d past community sessions", res.RowsAffected)
	}
}

// PurgeExpiredOTPs deletes verification codes past their expiry.
func PurgeExpiredOTPs() {
	db := database.Database.Db

	res := db.Unscoped().
		Where("expires_at < ?", time.Now().Add(-24*time.Hour)).
		Delete(&models.OTP{})
	if res.Error != nil {
		log.Printf("[SESSION-SCHEDULER] Error purging OTPs: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("[SESSION-SCHEDULER] Purged %d expired OTPs", res.RowsAffected)
	}
}
