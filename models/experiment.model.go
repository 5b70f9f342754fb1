package models

import (
	"gorm.io/gorm"
)

// HoldbackKey is the experiment key storing the percentage of users held
// back from content gating for comparison purposes.
const HoldbackKey = "content_type_gating_holdback_percentage"

// ExperimentKeyValue mirrors the experiments service's key-value store.
// Rows are refreshed from the external service by the scheduler; the local
// copy is authoritative for gating decisions so no request blocks on I/O.
type ExperimentKeyValue struct {
	gorm.Model
	ExperimentID int    `json:"experiment_id" gorm:"index;not null"`
	Key          string `json:"key" gorm:"index;not null"`
	Value        string `json:"value" gorm:"type:varchar(255)"`
	IsDeleted    bool   `gorm:"default:false"`
}
