package course

import "gorm.io/gorm"

// Track slugs a course can offer. Audit is the free track; whether any
// other track is paid is decided by its MinPrice, not by the slug.
const (
	ModeAudit            = "audit"
	ModeVerified         = "verified"
	ModeCredit           = "credit"
	ModeHonor            = "honor"
	ModeProfessional     = "professional"
	ModeNoIDProfessional = "no-id-professional"
)

// CourseMode is an enrollment track offered by a course
type CourseMode struct {
	gorm.Model
	CourseID    uint    `json:"course_id" gorm:"index;not null"`
	ModeSlug    string  `json:"mode_slug" gorm:"index;not null"`
	DisplayName string  `json:"display_name"`
	MinPrice    float64 `json:"min_price" gorm:"default:0"`
	Currency    string  `json:"currency" gorm:"default:'usd'"`
	IsDeleted   bool    `gorm:"default:false"`
}

// IsPaid reports whether enrolling in this track costs money.
func (m *CourseMode) IsPaid() bool {
	return m.MinPrice > 0
}
