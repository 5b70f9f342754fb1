package course

import "gorm.io/gorm"

// Course team roles. Org-scoped rows leave CourseID at zero and apply to
// every course under the org.
const (
	RoleStaff       = "staff"
	RoleInstructor  = "instructor"
	RoleBetaTesters = "beta_testers"
)

// CourseAccessRole grants a user an elevated role on a course or an org
type CourseAccessRole struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	CourseID  uint   `json:"course_id" gorm:"index"` // zero for org-wide roles
	Org       string `json:"org" gorm:"index"`
	Role      string `json:"role" gorm:"not null"`
	IsDeleted bool   `gorm:"default:false"`
}
