// Package services holds the transactional state transitions that span more
// than one table: enrollment completion (XP, level, certificate) and mentor
// session completion (earnings ledger).
package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"peerlearn/models"
	"peerlearn/policy"
)

// CompletionXP is added to a student's xp_points on each completion event.
const CompletionXP = 50

var (
	// ErrAlreadyCompleted marks a no-op: the enrollment was completed
	// before this request. Nothing was awarded.
	ErrAlreadyCompleted = errors.New("enrollment already completed")

	// ErrCourseGone marks a referential failure: the enrollment's course no
	// longer exists. The transition rolls back entirely.
	ErrCourseGone = errors.New("course no longer exists")

	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// LevelForXP computes the level implied by an XP total: floor(xp/100)+1,
// never below 1.
func LevelForXP(xp uint) uint {
	return xp/100 + 1
}

// NewCertificateNumber derives a certificate identifier from a fresh UUID.
// Not guessable from student or course ids.
func NewCertificateNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "CERT-" + raw[:12]
}

// CompleteEnrollment runs the progression pipeline for one enrollment, in
// one transaction: flip is_completed on its false→true edge, award XP,
// recompute the level, issue the certificate. Only the course's mentor may
// trigger it. A lost race or a repeat call returns ErrAlreadyCompleted and
// awards nothing; any failed step rolls the whole transition back,
// including the flag flip.
func CompleteEnrollment(db *gorm.DB, p policy.Principal, enrollmentID uint) (*models.Certificate, error) {
	var cert models.Certificate

	err := db.Transaction(func(tx *gorm.DB) error {
		var enrollment models.Enrollment
		if err := tx.First(&enrollment, enrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}

		var course models.Course
		if err := tx.First(&course, enrollment.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseGone
			}
			return err
		}

		allowed, err := policy.Can(tx, p, policy.ActionUpdate, &enrollment)
		if err != nil {
			return err
		}
		if !allowed {
			return policy.ErrPermissionDenied
		}

		// Edge gate: only the request that observes the false→true edge
		// awards anything. Concurrent completions lose here, not later.
		now := time.Now()
		res := tx.Model(&models.Enrollment{}).
			Where("id = ? AND is_completed = ?", enrollment.ID, false).
			Updates(map[string]interface{}{"is_completed": true, "completed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyCompleted
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", enrollment.StudentID).
			UpdateColumn("xp_points", gorm.Expr("xp_points + ?", CompletionXP)).Error; err != nil {
			return err
		}

		// Integer division floors; xp_points is unsigned, so the level
		// never drops below 1.
		if err := tx.Model(&models.User{}).
			Where("id = ?", enrollment.StudentID).
			UpdateColumn("level_number", gorm.Expr("xp_points / 100 + 1")).Error; err != nil {
			return err
		}

		cert = models.Certificate{
			StudentID:         enrollment.StudentID,
			CourseID:          enrollment.CourseID,
			MentorID:          course.MentorID,
			CertificateNumber: NewCertificateNumber(),
			IssuedAt:          now,
		}
		if err := tx.Create(&cert).Error; err != nil {
			return err
		}

		return awardBadges(tx, enrollment.StudentID)
	})
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// awardBadges is the badge-criteria extension point, called inside the
// completion transaction. Criteria matching is pending product definition;
// the catalog exists but nothing is evaluated here yet. UserBadge's unique
// (user_id, badge_id) index keeps any future implementation from
// double-awarding.
func awardBadges(tx *gorm.DB, userID uint) error {
	return nil
}
