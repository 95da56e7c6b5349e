package database

import (
	"gorm.io/gorm"

	"peerlearn/models"
)

// defaultBadges is the static badge catalog. Criteria strings are
// descriptive only; nothing evaluates them yet.
var defaultBadges = []models.Badge{
	{Name: "First Steps", BadgeType: models.BadgeTypeLearner, Criteria: "complete 1 course", Icon: "footprints"},
	{Name: "Quick Learner", BadgeType: models.BadgeTypeLearner, Criteria: "complete 5 courses", Icon: "zap"},
	{Name: "Knowledge Seeker", BadgeType: models.BadgeTypeLearner, Criteria: "reach level 5", Icon: "book-open"},
	{Name: "Community Builder", BadgeType: models.BadgeTypeLearner, Criteria: "create a learning community", Icon: "users"},
	{Name: "First Session", BadgeType: models.BadgeTypeMentor, Criteria: "complete 1 mentoring session", Icon: "presentation"},
	{Name: "Trusted Mentor", BadgeType: models.BadgeTypeMentor, Criteria: "complete 5 mentoring sessions", Icon: "award"},
	{Name: "Earning Mentor", BadgeType: models.BadgeTypeMentor, Criteria: "earn 500 in session fees", Icon: "coins"},
}

// SeedBadges inserts missing catalog badges. Existing rows are left alone so
// re-running at startup is safe.
func SeedBadges(db *gorm.DB) error {
	for _, b := range defaultBadges {
		var existing models.Badge
		if err := db.Where("name = ?", b.Name).First(&existing).Error; err == nil {
			continue
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&b).Error; err != nil {
			return err
		}
	}
	return nil
}
