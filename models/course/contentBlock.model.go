package course

import (
	"encoding/json"
	"strconv"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Block types. PROBLEM-like types carry a score; HTML/VIDEO types never do.
const (
	BlockTypeProblem        = "problem"
	BlockTypeOpenAssessment = "openassessment"
	BlockTypeDragAndDrop    = "drag-and-drop-v2"
	BlockTypeDone           = "done"
	BlockTypeSGA            = "edx_sga"
	BlockTypeLTI            = "lti_consumer"
	BlockTypeHTML           = "html"
	BlockTypeVideo          = "video"
)

// Content gating user partition and its access groups. A block whose
// group_access lists either group under the gating partition is exempt
// from gating for everyone.
const (
	GatingPartitionID    = 51
	GroupIDLimitedAccess = 1
	GroupIDFullAccess    = 2
)

// ContentBlock is a renderable content unit inside a course
type ContentBlock struct {
	gorm.Model
	CourseID    uint           `json:"course_id" gorm:"index;not null"`
	BlockType   string         `json:"block_type" gorm:"default:'html'"`
	DisplayName string         `json:"display_name"`
	Body        string         `json:"body" gorm:"type:text"` // rendered student-view markup
	Graded      bool           `json:"graded" gorm:"default:false"`
	HasScore    bool           `json:"has_score" gorm:"default:false"`
	Weight      float64        `json:"weight" gorm:"default:0"`
	GroupAccess datatypes.JSON `json:"group_access"`                 // partition id -> allowed group ids
	Variant     string         `json:"variant" gorm:"default:''"`    // conditional-content group tag, empty = visible to all
	OrderIndex  int            `json:"order_index" gorm:"default:0"` // Order within course
	IsPublished bool           `json:"is_published" gorm:"default:false"`
	IsDeleted   bool           `gorm:"default:false"`
}

// GateEligible reports whether the block is the kind of content gating
// applies to. All three conditions are required jointly.
func (b *ContentBlock) GateEligible() bool {
	return b.Graded && b.HasScore && b.Weight > 0
}

// GatingOverrideGroups returns the group ids granted on the gating
// partition via the block's group_access field, if any.
func (b *ContentBlock) GatingOverrideGroups() []int {
	if len(b.GroupAccess) == 0 {
		return nil
	}

	var access map[string][]int
	if err := json.Unmarshal(b.GroupAccess, &access); err != nil {
		return nil
	}
	return access[strconv.Itoa(GatingPartitionID)]
}
