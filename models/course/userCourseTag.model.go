package course

import (
	"fmt"

	"gorm.io/gorm"
)

// SplitTestPartitionID is the user partition used for conditional (A/B)
// content group assignment.
const SplitTestPartitionID = 50

// VariantTagKey is the user-course-tag key holding the user's
// conditional-content group.
func VariantTagKey() string {
	return fmt.Sprintf("xblock.partition_service.partition_%d", SplitTestPartitionID)
}

// UserCourseTag stores per-user per-course key/value pairs. Conditional
// content (A/B) group assignment is kept here under a partition key.
type UserCourseTag struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	Key       string `json:"key" gorm:"index;not null"`
	Value     string `json:"value"`
	IsDeleted bool   `gorm:"default:false"`
}
