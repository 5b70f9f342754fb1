package course

import (
	"time"

	"gorm.io/gorm"
)

// ContentGatingConfig switches content gating on for the platform or for a
// single course. A config applies to courses created on or after its
// enabled_as_of date; courses created before that date stay ungated. A
// course-specific row wins over the global row.
type ContentGatingConfig struct {
	gorm.Model
	CourseID    uint       `json:"course_id" gorm:"index"` // zero for the global config
	Enabled     bool       `json:"enabled" gorm:"default:false"`
	EnabledAsOf *time.Time `json:"enabled_as_of"`
	IsDeleted   bool       `gorm:"default:false"`
}

// ActiveFor reports whether this config is in effect for the given course.
func (c *ContentGatingConfig) ActiveFor(course *Course) bool {
	if !c.Enabled || c.EnabledAsOf == nil {
		return false
	}
	return !c.EnabledAsOf.After(course.CreatedAt)
}
