package policy

import (
	"gorm.io/gorm"

	"peerlearn/models"
	"peerlearn/models/community"
)

func allowAll(tx *gorm.DB, p Principal, row any) (bool, error) {
	return true, nil
}

// isCommunityMember checks membership inside the caller's transaction.
func isCommunityMember(tx *gorm.DB, userID, communityID uint) (bool, error) {
	var count int64
	err := tx.Model(&community.CommunityMember{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

// hasCompletedEnrollment checks for a completed enrollment of (student, course).
func hasCompletedEnrollment(tx *gorm.DB, studentID, courseID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ? AND is_completed = ?", studentID, courseID, true).
		Count(&count).Error
	return count > 0, err
}

func init() {
	// Users: profiles are public, writable only by their owner.
	register("user", ActionCreate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		u := row.(*models.User)
		return p.ID == u.ID, nil
	})
	register("user", ActionRead, allowAll)
	register("user", ActionUpdate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		u := row.(*models.User)
		return p.ID == u.ID, nil
	})

	// Courses: anyone sees active ones, mentors create, the owning mentor updates.
	register("course", ActionRead, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		c := row.(*models.Course)
		return c.IsActive && !c.IsDeleted, nil
	})
	register("course", ActionCreate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		return p.Role == models.RoleMentor || p.Role == models.RoleAdmin, nil
	})
	register("course", ActionUpdate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		c := row.(*models.Course)
		return p.ID == c.MentorID, nil
	})

	// Enrollments: students enroll themselves; the course's mentor may also
	// read and is the only one who may update (completion).
	register("enrollment", ActionCreate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		e := row.(*models.Enrollment)
		return p.ID == e.StudentID, nil
	})
	register("enrollment", ActionRead, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		e := row.(*models.Enrollment)
		if p.ID == e.StudentID {
			return true, nil
		}
		var course models.Course
		if err := tx.First(&course, e.CourseID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return false, nil
			}
			return false, err
		}
		return p.ID == course.MentorID, nil
	})
	register("enrollment", ActionUpdate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		e := row.(*models.Enrollment)
		var course models.Course
		if err := tx.First(&course, e.CourseID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return false, nil
			}
			return false, err
		}
		return p.ID == course.MentorID, nil
	})

	// Reviews: public to read, insertable only by the student after completion.
	register("review", ActionRead, allowAll)
	register("review", ActionCreate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		r := row.(*models.Review)
		if p.ID != r.StudentID {
			return false, nil
		}
		return hasCompletedEnrollment(tx, p.ID, r.CourseID)
	})

	// Certificates: visible to the student and the course's mentor. Creation
	// happens only inside the progression pipeline, never through here.
	register("certificate", ActionRead, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		cert := row.(*models.Certificate)
		return p.ID == cert.StudentID || p.ID == cert.MentorID, nil
	})

	// Badge catalog and earned badges are public.
	register("badge", ActionRead, allowAll)
	register("user_badge", ActionRead, allowAll)

	// Mentor requests: students file and see their own; admins review.
	register("mentor_request", ActionCreate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		r := row.(*models.MentorRequest)
		return p.ID == r.StudentID, nil
	})
	register("mentor_request", ActionRead, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		r := row.(*models.MentorRequest)
		return p.ID == r.StudentID || p.Role == models.RoleAdmin, nil
	})
	register("mentor_request", ActionUpdate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		return p.Role == models.RoleAdmin, nil
	})

	// Mentor sessions: the student books, both parties read, the mentor
	// updates (completion, cancellation).
	register("session", ActionCreate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		s := row.(*models.Session)
		return p.ID == s.StudentID, nil
	})
	register("session", ActionRead, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		s := row.(*models.Session)
		return p.ID == s.StudentID || p.ID == s.MentorID, nil
	})
	register("session", ActionUpdate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		s := row.(*models.Session)
		return p.ID == s.MentorID, nil
	})

	// Earnings ledger: only the earning mentor sees it. Rows are appended by
	// the session completion transaction, not through guarded creates.
	register("earnings_transaction", ActionRead, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		t := row.(*models.EarningsTransaction)
		return p.ID == t.MentorID, nil
	})

	// Communities: active ones are public, creation needs year_of_study >= 2,
	// only the creator updates.
	register("learning_community", ActionRead, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		lc := row.(*community.LearningCommunity)
		return lc.IsActive, nil
	})
	register("learning_community", ActionCreate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		return p.YearOfStudy >= 2, nil
	})
	register("learning_community", ActionUpdate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		lc := row.(*community.LearningCommunity)
		return p.ID == lc.CreatedBy, nil
	})

	// Memberships: users join themselves; members see the roster.
	register("community_member", ActionCreate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		m := row.(*community.CommunityMember)
		return p.ID == m.UserID, nil
	})
	register("community_member", ActionRead, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		m := row.(*community.CommunityMember)
		if p.ID == m.UserID {
			return true, nil
		}
		return isCommunityMember(tx, p.ID, m.CommunityID)
	})

	// Resources: member-only reads, uploads by second-year-or-later members.
	register("community_resource", ActionRead, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		r := row.(*community.CommunityResource)
		return isCommunityMember(tx, p.ID, r.CommunityID)
	})
	register("community_resource", ActionCreate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		r := row.(*community.CommunityResource)
		if p.ID != r.UploadedBy || p.YearOfStudy < 2 {
			return false, nil
		}
		return isCommunityMember(tx, p.ID, r.CommunityID)
	})

	// Community sessions: same shape as resources, hosted by the creator.
	register("community_session", ActionRead, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		s := row.(*community.CommunitySession)
		return isCommunityMember(tx, p.ID, s.CommunityID)
	})
	register("community_session", ActionCreate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		s := row.(*community.CommunitySession)
		if p.ID != s.HostID || p.YearOfStudy < 2 {
			return false, nil
		}
		return isCommunityMember(tx, p.ID, s.CommunityID)
	})

	// Projects: public portfolio, owner-only writes. The one entity with an
	// explicit delete grant.
	register("user_project", ActionRead, allowAll)
	register("user_project", ActionCreate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		pr := row.(*models.UserProject)
		return p.ID == pr.UserID, nil
	})
	register("user_project", ActionUpdate, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		pr := row.(*models.UserProject)
		return p.ID == pr.UserID, nil
	})
	register("user_project", ActionDelete, func(tx *gorm.DB, p Principal, row any) (bool, error) {
		pr := row.(*models.UserProject)
		return p.ID == pr.UserID, nil
	})
}
