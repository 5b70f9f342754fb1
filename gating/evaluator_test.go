package gating_test

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"lms/database"
	"lms/gating"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory database per test. cache=shared keeps
// the schema visible across gorm's pooled connections.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()

	user := models.User{
		Name:     name,
		Email:    name + "@example.com",
		Role:     role,
		Password: "irrelevant",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// createCourse builds a course offering the given tracks. Track prices
// follow the platform defaults: audit is free, everything else costs.
func createCourse(t *testing.T, db *gorm.DB, title string, modes []string) *courseModels.Course {
	t.Helper()

	course := courseModels.Course{
		Title:       title,
		Org:         "DemoX",
		Run:         "2026_T1",
		Status:      "ACTIVE",
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)

	for _, slug := range modes {
		price := 99.0
		if slug == courseModels.ModeAudit {
			price = 0
		}
		mode := courseModels.CourseMode{
			CourseID: course.ID,
			ModeSlug: slug,
			MinPrice: price,
		}
		require.NoError(t, db.Create(&mode).Error)
	}

	return &course
}

func enroll(t *testing.T, db *gorm.DB, user *models.User, course *courseModels.Course, mode string) {
	t.Helper()

	enrollment := courseModels.Enrollment{
		UserID:   user.ID,
		CourseID: course.ID,
		Mode:     mode,
	}
	require.NoError(t, db.Create(&enrollment).Error)
}

func createBlock(t *testing.T, db *gorm.DB, course *courseModels.Course, blockType string, graded, hasScore bool, weight float64) *courseModels.ContentBlock {
	t.Helper()

	block := courseModels.ContentBlock{
		CourseID:    course.ID,
		BlockType:   blockType,
		DisplayName: blockType,
		Body:        "<p>block body</p>",
		Graded:      graded,
		HasScore:    hasScore,
		Weight:      weight,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&block).Error)
	return &block
}

// enableGating turns content gating on globally, effective well before any
// course the tests create.
func enableGating(t *testing.T, db *gorm.DB) {
	t.Helper()

	asOf := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := courseModels.ContentGatingConfig{
		Enabled:     true,
		EnabledAsOf: &asOf,
	}
	require.NoError(t, db.Create(&cfg).Error)
}

func setHoldback(t *testing.T, db *gorm.DB, percentage int) {
	t.Helper()

	kv := models.ExperimentKeyValue{
		ExperimentID: 1,
		Key:          models.HoldbackKey,
		Value:        strconv.Itoa(percentage),
	}
	require.NoError(t, db.Create(&kv).Error)
}

func TestDecidePrecedence(t *testing.T) {
	gateable := gating.Input{
		ConfigActive:      true,
		Graded:            true,
		HasScore:          true,
		Weight:            1,
		CourseHasPaidMode: true,
	}

	tests := []struct {
		name   string
		mutate func(*gating.Input)
		gated  bool
	}{
		{"audit user on gateable block", func(in *gating.Input) {}, true},
		{"elevated role wins over everything", func(in *gating.Input) { in.ElevatedRole = true }, false},
		{"holdback disables gating", func(in *gating.Input) { in.InHoldback = true }, false},
		{"inactive config", func(in *gating.Input) { in.ConfigActive = false }, false},
		{"partition override", func(in *gating.Input) { in.OverrideGroups = []int{1, 2} }, false},
		{"not graded", func(in *gating.Input) { in.Graded = false }, false},
		{"no score", func(in *gating.Input) { in.HasScore = false }, false},
		{"zero weight", func(in *gating.Input) { in.Weight = 0 }, false},
		{"no paid track offered", func(in *gating.Input) { in.CourseHasPaidMode = false }, false},
		{"paid track enrollment", func(in *gating.Input) { in.PaidTrack = true }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := gateable
			tc.mutate(&in)
			assert.Equal(t, tc.gated, gating.Gated(in))
		})
	}
}

func TestGradedScoreWeightValues(t *testing.T) {
	db := setupTestDB(t)
	enableGating(t, db)

	course := createCourse(t, db, "Default Course", []string{courseModels.ModeAudit, courseModels.ModeVerified})
	auditUser := createUser(t, db, "audit-user", "STUDENT")
	enroll(t, db, auditUser, course, courseModels.ModeAudit)

	// graded, has_score and weight must all hold for a block to be gated
	tests := []struct {
		graded   bool
		hasScore bool
		weight   float64
		gated    bool
	}{
		{false, false, 0, false},
		{false, true, 0, false},
		{false, false, 1, false},
		{false, true, 1, false},
		{true, false, 0, false},
		{true, true, 0, false},
		{true, false, 1, false},
		{true, true, 1, true},
	}

	for _, tc := range tests {
		name := fmt.Sprintf("graded=%v has_score=%v weight=%v", tc.graded, tc.hasScore, tc.weight)
		t.Run(name, func(t *testing.T) {
			blockType := courseModels.BlockTypeHTML
			if tc.hasScore {
				blockType = courseModels.BlockTypeProblem
			}
			block := createBlock(t, db, course, blockType, tc.graded, tc.hasScore, tc.weight)
			assert.Equal(t, tc.gated, gating.Check(db, auditUser, course, block))
		})
	}
}

func TestAccessToProblemTypes(t *testing.T) {
	db := setupTestDB(t)
	enableGating(t, db)

	course := createCourse(t, db, "Default Course", []string{courseModels.ModeAudit, courseModels.ModeVerified})

	auditUser := createUser(t, db, "audit-user", "STUDENT")
	enroll(t, db, auditUser, course, courseModels.ModeAudit)
	verifiedUser := createUser(t, db, "verified-user", "STUDENT")
	enroll(t, db, verifiedUser, course, courseModels.ModeVerified)

	problemTypes := []string{
		courseModels.BlockTypeProblem,
		courseModels.BlockTypeOpenAssessment,
		courseModels.BlockTypeDragAndDrop,
		courseModels.BlockTypeDone,
		courseModels.BlockTypeSGA,
		courseModels.BlockTypeLTI,
	}

	for _, blockType := range problemTypes {
		t.Run(blockType, func(t *testing.T) {
			block := createBlock(t, db, course, blockType, true, true, 1)
			assert.True(t, gating.Check(db, auditUser, course, block), "audit user should be gated")
			assert.False(t, gating.Check(db, verifiedUser, course, block), "verified user should not be gated")
		})
	}

	t.Run("ungraded problem", func(t *testing.T) {
		block := createBlock(t, db, course, courseModels.BlockTypeProblem, false, true, 1)
		assert.False(t, gating.Check(db, auditUser, course, block))
		assert.False(t, gating.Check(db, verifiedUser, course, block))
	})

	t.Run("unscored lti", func(t *testing.T) {
		block := createBlock(t, db, course, courseModels.BlockTypeLTI, true, false, 1)
		assert.False(t, gating.Check(db, auditUser, course, block))
	})
}

func TestAccessBasedOnTrack(t *testing.T) {
	db := setupTestDB(t)
	enableGating(t, db)

	allModes := []string{
		courseModels.ModeAudit,
		courseModels.ModeVerified,
		courseModels.ModeCredit,
		courseModels.ModeHonor,
		courseModels.ModeProfessional,
		courseModels.ModeNoIDProfessional,
	}

	courses := map[string]*courseModels.Course{
		"default":         createCourse(t, db, "Default Course", []string{courseModels.ModeAudit, courseModels.ModeVerified}),
		"audit_only":      createCourse(t, db, "Audit Only Course", []string{courseModels.ModeAudit}),
		"all_track_types": createCourse(t, db, "All Tracks Course", allModes),
	}

	// one user per track, enrolled everywhere the track is offered
	users := make(map[string]*models.User)
	for _, mode := range allModes {
		users[mode] = createUser(t, db, "user-"+mode, "STUDENT")
		enroll(t, db, users[mode], courses["all_track_types"], mode)
	}
	enroll(t, db, users[courseModels.ModeAudit], courses["default"], courseModels.ModeAudit)
	enroll(t, db, users[courseModels.ModeVerified], courses["default"], courseModels.ModeVerified)
	enroll(t, db, users[courseModels.ModeAudit], courses["audit_only"], courseModels.ModeAudit)

	blocks := make(map[string]map[string]*courseModels.ContentBlock)
	for name, course := range courses {
		blocks[name] = map[string]*courseModels.ContentBlock{
			courseModels.BlockTypeProblem: createBlock(t, db, course, courseModels.BlockTypeProblem, true, true, 1),
			courseModels.BlockTypeHTML:    createBlock(t, db, course, courseModels.BlockTypeHTML, true, false, 0),
		}
	}

	tests := []struct {
		track     string
		blockType string
		course    string
		gated     bool
	}{
		{courseModels.ModeAudit, courseModels.BlockTypeProblem, "default", true},
		{courseModels.ModeVerified, courseModels.BlockTypeProblem, "default", false},
		{courseModels.ModeAudit, courseModels.BlockTypeHTML, "default", false},
		{courseModels.ModeVerified, courseModels.BlockTypeHTML, "default", false},
		{courseModels.ModeAudit, courseModels.BlockTypeProblem, "audit_only", false},
		{courseModels.ModeAudit, courseModels.BlockTypeHTML, "audit_only", false},
		{courseModels.ModeCredit, courseModels.BlockTypeProblem, "all_track_types", false},
		{courseModels.ModeCredit, courseModels.BlockTypeHTML, "all_track_types", false},
		{courseModels.ModeHonor, courseModels.BlockTypeProblem, "all_track_types", false},
		{courseModels.ModeHonor, courseModels.BlockTypeHTML, "all_track_types", false},
		{courseModels.ModeAudit, courseModels.BlockTypeProblem, "all_track_types", true},
		{courseModels.ModeAudit, courseModels.BlockTypeHTML, "all_track_types", false},
		{courseModels.ModeVerified, courseModels.BlockTypeProblem, "all_track_types", false},
		{courseModels.ModeVerified, courseModels.BlockTypeHTML, "all_track_types", false},
		{courseModels.ModeProfessional, courseModels.BlockTypeProblem, "all_track_types", false},
		{courseModels.ModeProfessional, courseModels.BlockTypeHTML, "all_track_types", false},
		{courseModels.ModeNoIDProfessional, courseModels.BlockTypeProblem, "all_track_types", false},
		{courseModels.ModeNoIDProfessional, courseModels.BlockTypeHTML, "all_track_types", false},
	}

	for _, tc := range tests {
		name := fmt.Sprintf("%s/%s/%s", tc.track, tc.blockType, tc.course)
		t.Run(name, func(t *testing.T) {
			gated := gating.Check(db, users[tc.track], courses[tc.course], blocks[tc.course][tc.blockType])
			assert.Equal(t, tc.gated, gated)
		})
	}
}

func TestCourseTeamRolesNeverGated(t *testing.T) {
	db := setupTestDB(t)
	enableGating(t, db)

	course := createCourse(t, db, "Default Course", []string{courseModels.ModeAudit, courseModels.ModeVerified})
	block := createBlock(t, db, course, courseModels.BlockTypeProblem, true, true, 1)

	roles := []struct {
		name     string
		role     string
		orgWide  bool
	}{
		{"course staff", courseModels.RoleStaff, false},
		{"course instructor", courseModels.RoleInstructor, false},
		{"beta tester", courseModels.RoleBetaTesters, false},
		{"org staff", courseModels.RoleStaff, true},
		{"org instructor", courseModels.RoleInstructor, true},
	}

	for _, tc := range roles {
		t.Run(tc.name, func(t *testing.T) {
			user := createUser(t, db, "team-"+tc.name, "STUDENT")
			enroll(t, db, user, course, courseModels.ModeAudit)

			role := courseModels.CourseAccessRole{
				UserID: user.ID,
				Role:   tc.role,
			}
			if tc.orgWide {
				role.Org = course.Org
			} else {
				role.CourseID = course.ID
			}
			require.NoError(t, db.Create(&role).Error)

			assert.False(t, gating.Check(db, user, course, block))
		})
	}

	t.Run("global staff", func(t *testing.T) {
		user := createUser(t, db, "global-staff", models.RoleGlobalStaff)
		enroll(t, db, user, course, courseModels.ModeAudit)
		assert.False(t, gating.Check(db, user, course, block))
	})
}

func TestHoldbackDisablesGating(t *testing.T) {
	tests := []struct {
		name       string
		percentage int
		setValue   bool
		gated      bool
	}{
		{"no holdback value", 0, false, true},
		{"zero percent holdback", 0, true, true},
		{"full holdback", 100, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := setupTestDB(t)
			enableGating(t, db)

			if tc.setValue {
				setHoldback(t, db, tc.percentage)
			}

			course := createCourse(t, db, "Default Course", []string{courseModels.ModeAudit, courseModels.ModeVerified})
			user := createUser(t, db, "audit-user", "STUDENT")
			enroll(t, db, user, course, courseModels.ModeAudit)
			block := createBlock(t, db, course, courseModels.BlockTypeProblem, true, true, 1)

			assert.Equal(t, tc.gated, gating.Check(db, user, course, block))
		})
	}
}

func TestPartitionOverrideExemptsBlock(t *testing.T) {
	db := setupTestDB(t)
	enableGating(t, db)

	course := createCourse(t, db, "Default Course", []string{courseModels.ModeAudit, courseModels.ModeVerified})
	user := createUser(t, db, "audit-user", "STUDENT")
	enroll(t, db, user, course, courseModels.ModeAudit)

	block := createBlock(t, db, course, courseModels.BlockTypeProblem, true, true, 1)
	block.GroupAccess = []byte(fmt.Sprintf(`{"%d": [%d, %d]}`,
		courseModels.GatingPartitionID,
		courseModels.GroupIDLimitedAccess,
		courseModels.GroupIDFullAccess,
	))
	require.NoError(t, db.Save(block).Error)

	assert.False(t, gating.Check(db, user, course, block), "override on the gating partition should exempt the block")

	// An override on some other partition does not exempt the block
	other := createBlock(t, db, course, courseModels.BlockTypeProblem, true, true, 1)
	other.GroupAccess = []byte(`{"99": [1]}`)
	require.NoError(t, db.Save(other).Error)

	assert.True(t, gating.Check(db, user, course, other))
}

func TestGatingConfigLifecycle(t *testing.T) {
	t.Run("no config", func(t *testing.T) {
		db := setupTestDB(t)
		course := createCourse(t, db, "Default Course", []string{courseModels.ModeAudit, courseModels.ModeVerified})
		user := createUser(t, db, "audit-user", "STUDENT")
		enroll(t, db, user, course, courseModels.ModeAudit)
		block := createBlock(t, db, course, courseModels.BlockTypeProblem, true, true, 1)

		assert.False(t, gating.Check(db, user, course, block))
	})

	t.Run("course created before effective date", func(t *testing.T) {
		db := setupTestDB(t)

		course := createCourse(t, db, "Legacy Course", []string{courseModels.ModeAudit, courseModels.ModeVerified})
		course.CreatedAt = time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, db.Save(course).Error)

		asOf := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
		cfg := courseModels.ContentGatingConfig{Enabled: true, EnabledAsOf: &asOf}
		require.NoError(t, db.Create(&cfg).Error)

		user := createUser(t, db, "audit-user", "STUDENT")
		enroll(t, db, user, course, courseModels.ModeAudit)
		block := createBlock(t, db, course, courseModels.BlockTypeProblem, true, true, 1)

		assert.False(t, gating.Check(db, user, course, block), "courses created before the effective date stay ungated")
	})

	t.Run("future effective date", func(t *testing.T) {
		db := setupTestDB(t)
		asOf := time.Now().Add(24 * time.Hour)
		cfg := courseModels.ContentGatingConfig{Enabled: true, EnabledAsOf: &asOf}
		require.NoError(t, db.Create(&cfg).Error)

		course := createCourse(t, db, "Default Course", []string{courseModels.ModeAudit, courseModels.ModeVerified})
		user := createUser(t, db, "audit-user", "STUDENT")
		enroll(t, db, user, course, courseModels.ModeAudit)
		block := createBlock(t, db, course, courseModels.BlockTypeProblem, true, true, 1)

		assert.False(t, gating.Check(db, user, course, block))
	})

	t.Run("course config overrides global", func(t *testing.T) {
		db := setupTestDB(t)
		enableGating(t, db)

		course := createCourse(t, db, "Default Course", []string{courseModels.ModeAudit, courseModels.ModeVerified})

		// disabled course-specific config wins over the enabled global one
		cfg := courseModels.ContentGatingConfig{CourseID: course.ID, Enabled: false}
		require.NoError(t, db.Create(&cfg).Error)

		user := createUser(t, db, "audit-user", "STUDENT")
		enroll(t, db, user, course, courseModels.ModeAudit)
		block := createBlock(t, db, course, courseModels.BlockTypeProblem, true, true, 1)

		assert.False(t, gating.Check(db, user, course, block))
	})
}

func TestConditionalContentVariants(t *testing.T) {
	db := setupTestDB(t)
	enableGating(t, db)

	course := createCourse(t, db, "Split Test Course", []string{courseModels.ModeAudit, courseModels.ModeVerified})

	variantA := createBlock(t, db, course, courseModels.BlockTypeProblem, true, true, 1)
	variantA.Variant = "group_a"
	require.NoError(t, db.Save(variantA).Error)

	variantB := createBlock(t, db, course, courseModels.BlockTypeProblem, true, true, 1)
	variantB.Variant = "group_b"
	require.NoError(t, db.Save(variantB).Error)

	auditA := createUser(t, db, "audit-a", "STUDENT")
	enroll(t, db, auditA, course, courseModels.ModeAudit)
	auditB := createUser(t, db, "audit-b", "STUDENT")
	enroll(t, db, auditB, course, courseModels.ModeAudit)
	verifiedA := createUser(t, db, "verified-a", "STUDENT")
	enroll(t, db, verifiedA, course, courseModels.ModeVerified)
	verifiedB := createUser(t, db, "verified-b", "STUDENT")
	enroll(t, db, verifiedB, course, courseModels.ModeVerified)

	// Audit users are gated on either variant
	assert.True(t, gating.Check(db, auditA, course, variantA))
	assert.True(t, gating.Check(db, auditB, course, variantB))

	// Verified users are gated on neither
	assert.False(t, gating.Check(db, verifiedA, course, variantA))
	assert.False(t, gating.Check(db, verifiedB, course, variantB))
}

func TestUnenrolledUserOnGateableBlock(t *testing.T) {
	db := setupTestDB(t)
	enableGating(t, db)

	course := createCourse(t, db, "Default Course", []string{courseModels.ModeAudit, courseModels.ModeVerified})
	user := createUser(t, db, "drive-by", "STUDENT")
	block := createBlock(t, db, course, courseModels.BlockTypeProblem, true, true, 1)

	// No enrollment means no paid track, so the block is gated
	assert.True(t, gating.Check(db, user, course, block))
}
