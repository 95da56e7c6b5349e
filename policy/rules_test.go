package policy_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"peerlearn/database"
	"peerlearn/models"
	"peerlearn/models/community"
	"peerlearn/policy"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role string, year int) models.User {
	t.Helper()

	user := models.NewUser("Test User", fmt.Sprintf("u%d-%s@test.dev", year, role), "hash", year)
	user.Role = role
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestCourseVisibility(t *testing.T) {
	db := setupTestDB(t, "policy_course_visibility")

	mentor := createUser(t, db, models.RoleMentor, 3)
	student := createUser(t, db, models.RoleStudent, 1)

	course := models.Course{MentorID: mentor.ID, Title: "Go Basics", IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	var courses []models.Course
	require.NoError(t, db.Find(&courses).Error)

	visible, err := policy.FilterReadable(db, policy.PrincipalFromUser(student), courses)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	// Mentor deactivates; course disappears from the student's reads.
	require.NoError(t, db.Model(&course).Update("is_active", false).Error)
	require.NoError(t, db.Find(&courses).Error)

	visible, err = policy.FilterReadable(db, policy.PrincipalFromUser(student), courses)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestCourseCreateRequiresMentorRole(t *testing.T) {
	db := setupTestDB(t, "policy_course_create")

	student := createUser(t, db, models.RoleStudent, 2)
	mentor := createUser(t, db, models.RoleMentor, 4)
	admin := createUser(t, db, models.RoleAdmin, 4)

	course := models.Course{MentorID: student.ID, Title: "Nope", IsActive: true}
	err := policy.Create(db, policy.PrincipalFromUser(student), &course)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	course = models.Course{MentorID: mentor.ID, Title: "Yes", IsActive: true}
	assert.NoError(t, policy.Create(db, policy.PrincipalFromUser(mentor), &course))

	course = models.Course{MentorID: admin.ID, Title: "Also yes", IsActive: true}
	assert.NoError(t, policy.Create(db, policy.PrincipalFromUser(admin), &course))
}

func TestReviewGating(t *testing.T) {
	db := setupTestDB(t, "policy_review_gating")

	mentor := createUser(t, db, models.RoleMentor, 3)
	student := createUser(t, db, models.RoleStudent, 1)

	course := models.Course{MentorID: mentor.ID, Title: "Algorithms", IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	review := models.Review{StudentID: student.ID, CourseID: course.ID, MentorID: mentor.ID, Rating: 5}

	// No enrollment at all: denied.
	err := policy.Create(db, policy.PrincipalFromUser(student), &review)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	// Enrolled but not completed: still denied.
	enrollment := models.Enrollment{StudentID: student.ID, CourseID: course.ID}
	require.NoError(t, db.Create(&enrollment).Error)

	err = policy.Create(db, policy.PrincipalFromUser(student), &review)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	// Completed: allowed.
	require.NoError(t, db.Model(&enrollment).Update("is_completed", true).Error)

	assert.NoError(t, policy.Create(db, policy.PrincipalFromUser(student), &review))

	// And never on someone else's behalf.
	other := createUser(t, db, models.RoleStudent, 2)
	forged := models.Review{StudentID: student.ID, CourseID: course.ID, MentorID: mentor.ID, Rating: 1}
	err = policy.Create(db, policy.PrincipalFromUser(other), &forged)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)
}

func TestCommunityCreationYearGate(t *testing.T) {
	db := setupTestDB(t, "policy_community_year")

	fresher := createUser(t, db, models.RoleStudent, 1)
	senior := createUser(t, db, models.RoleStudent, 2)

	lc := community.LearningCommunity{CreatedBy: fresher.ID, Name: "DS Club", IsActive: true}
	err := policy.Create(db, policy.PrincipalFromUser(fresher), &lc)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	lc = community.LearningCommunity{CreatedBy: senior.ID, Name: "DS Club", IsActive: true}
	assert.NoError(t, policy.Create(db, policy.PrincipalFromUser(senior), &lc))
}

func TestCommunityResourceRules(t *testing.T) {
	db := setupTestDB(t, "policy_community_resource")

	creator := createUser(t, db, models.RoleStudent, 3)
	juniorMember := createUser(t, db, models.RoleStudent, 1)
	outsider := createUser(t, db, models.RoleStudent, 4)

	lc := community.LearningCommunity{CreatedBy: creator.ID, Name: "Systems Group", IsActive: true}
	require.NoError(t, db.Create(&lc).Error)
	require.NoError(t, db.Create(&community.CommunityMember{CommunityID: lc.ID, UserID: creator.ID, Role: community.MemberRoleAdmin}).Error)
	require.NoError(t, db.Create(&community.CommunityMember{CommunityID: lc.ID, UserID: juniorMember.ID, Role: community.MemberRoleMember}).Error)

	resource := community.CommunityResource{CommunityID: lc.ID, UploadedBy: creator.ID, Title: "Paxos notes", ResourceType: community.ResourceDocument}
	require.NoError(t, policy.Create(db, policy.PrincipalFromUser(creator), &resource))

	// First-year member cannot upload.
	junior := community.CommunityResource{CommunityID: lc.ID, UploadedBy: juniorMember.ID, Title: "Link", ResourceType: community.ResourceLink}
	err := policy.Create(db, policy.PrincipalFromUser(juniorMember), &junior)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	// Non-member reads filter to zero rows, silently.
	var resources []community.CommunityResource
	require.NoError(t, db.Find(&resources).Error)
	require.NotEmpty(t, resources)

	visible, err := policy.FilterReadable(db, policy.PrincipalFromUser(outsider), resources)
	require.NoError(t, err)
	assert.Empty(t, visible)

	// Members see them.
	visible, err = policy.FilterReadable(db, policy.PrincipalFromUser(juniorMember), resources)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestDenialAsymmetry(t *testing.T) {
	db := setupTestDB(t, "policy_denial_asymmetry")

	mentor := createUser(t, db, models.RoleMentor, 4)
	student := createUser(t, db, models.RoleStudent, 2)
	stranger := createUser(t, db, models.RoleStudent, 2)

	course := models.Course{MentorID: mentor.ID, Title: "Networking", IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	cert := models.Certificate{StudentID: student.ID, CourseID: course.ID, MentorID: mentor.ID, CertificateNumber: "CERT-TEST00000001"}
	require.NoError(t, db.Create(&cert).Error)

	// Read side: a stranger gets an empty result, not an error.
	var certs []models.Certificate
	require.NoError(t, db.Find(&certs).Error)

	visible, err := policy.FilterReadable(db, policy.PrincipalFromUser(stranger), certs)
	require.NoError(t, err)
	assert.Empty(t, visible)

	// Both parties see it.
	visible, err = policy.FilterReadable(db, policy.PrincipalFromUser(student), certs)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	visible, err = policy.FilterReadable(db, policy.PrincipalFromUser(mentor), certs)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	// Write side: a stranger's update fails loudly.
	course.Title = "Hijacked"
	err = policy.Update(db, policy.PrincipalFromUser(stranger), &course)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	var unchanged models.Course
	require.NoError(t, db.First(&unchanged, course.ID).Error)
	assert.Equal(t, "Networking", unchanged.Title)
}

func TestDeleteDeniedByDefault(t *testing.T) {
	db := setupTestDB(t, "policy_delete_default")

	mentor := createUser(t, db, models.RoleMentor, 4)
	student := createUser(t, db, models.RoleStudent, 2)

	course := models.Course{MentorID: mentor.ID, Title: "Databases", IsActive: true}
	require.NoError(t, db.Create(&course).Error)

	// Even the owner has no delete grant on courses.
	err := policy.Delete(db, policy.PrincipalFromUser(mentor), &course)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	// Projects carry the one explicit delete grant, owner only.
	project := models.UserProject{UserID: student.ID, Title: "Side project"}
	require.NoError(t, db.Create(&project).Error)

	err = policy.Delete(db, policy.PrincipalFromUser(mentor), &project)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	assert.NoError(t, policy.Delete(db, policy.PrincipalFromUser(student), &project))
}

func TestUserProfileRules(t *testing.T) {
	db := setupTestDB(t, "policy_user_profile")

	alice := createUser(t, db, models.RoleStudent, 2)
	bob := createUser(t, db, models.RoleStudent, 2)

	// Profiles are public.
	var users []models.User
	require.NoError(t, db.Find(&users).Error)

	visible, err := policy.FilterReadable(db, policy.PrincipalFromUser(bob), users)
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	// Only the owner writes.
	alice.Bio = "Updated by someone else"
	err = policy.Update(db, policy.PrincipalFromUser(bob), &alice)
	assert.ErrorIs(t, err, policy.ErrPermissionDenied)

	alice.Bio = "Updated by me"
	assert.NoError(t, policy.Update(db, policy.PrincipalFromUser(alice), &alice))
}
