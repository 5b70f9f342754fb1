package gating

import (
	"strconv"

	"lms/config"
	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// Check prefetches the gating inputs for a user/course/block triple and
// evaluates them. Each call computes fresh; there is no caching.
func Check(db *gorm.DB, user *models.User, course *courseModels.Course, block *courseModels.ContentBlock) bool {
	in := Input{
		ElevatedRole:   hasElevatedRole(db, user, course),
		InHoldback:     inHoldback(db, user.ID),
		ConfigActive:   configActive(db, course),
		OverrideGroups: block.GatingOverrideGroups(),
		Graded:         block.Graded,
		HasScore:       block.HasScore,
		Weight:         block.Weight,
	}

	var modes []courseModels.CourseMode
	db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Find(&modes)
	for i := range modes {
		if modes[i].IsPaid() {
			in.CourseHasPaidMode = true
			break
		}
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).
		First(&enrollment).Error; err == nil {
		for i := range modes {
			if modes[i].ModeSlug == enrollment.Mode {
				in.PaidTrack = modes[i].IsPaid()
				break
			}
		}
	}

	return Gated(in)
}

// hasElevatedRole checks global staff plus course-team and org-team rows.
func hasElevatedRole(db *gorm.DB, user *models.User, course *courseModels.Course) bool {
	if user.IsGlobalStaff() {
		return true
	}

	var count int64
	db.Model(&courseModels.CourseAccessRole{}).
		Where("user_id = ? AND is_deleted = ? AND (course_id = ? OR (course_id = 0 AND org = ?))",
			user.ID, false, course.ID, course.Org).
		Count(&count)
	return count > 0
}

// inHoldback reports whether the user falls inside the holdback percentage
// of the gating experiment. Users are bucketed by id modulo 100, so a
// percentage of 100 holds back everyone and 0 nobody.
func inHoldback(db *gorm.DB, userID uint) bool {
	var kv models.ExperimentKeyValue
	err := db.Where("experiment_id = ? AND key = ? AND is_deleted = ?",
		holdbackExperimentID(), models.HoldbackKey, false).
		Order("id desc").First(&kv).Error
	if err != nil {
		return false
	}

	pct, err := strconv.Atoi(kv.Value)
	if err != nil || pct <= 0 {
		return false
	}
	return int(userID%100) < pct
}

// configActive resolves the gating config for a course: a course-specific
// row wins over the global row. A config only applies to courses created
// on or after its enabled_as_of date.
func configActive(db *gorm.DB, course *courseModels.Course) bool {
	var cfg courseModels.ContentGatingConfig
	err := db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("id desc").First(&cfg).Error
	if err != nil {
		if err = db.Where("course_id = 0 AND is_deleted = ?", false).
			Order("id desc").First(&cfg).Error; err != nil {
			return false
		}
	}
	return cfg.ActiveFor(course)
}

func holdbackExperimentID() int {
	if config.AppConfig != nil {
		return config.AppConfig.HoldbackExperimentID
	}
	return 1
}
