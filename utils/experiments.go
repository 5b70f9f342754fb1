package utils

import (
	"fmt"
	"log"

	"lms/config"
	"lms/database"
	"lms/models"

	"github.com/go-resty/resty/v2"
)

// experimentKV is a single key-value pair returned by the experiments service
type experimentKV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type experimentKVResponse struct {
	Status bool           `json:"status"`
	Data   []experimentKV `json:"data"`
}

// SyncHoldbackValues pulls the key-value pairs of the gating experiment from
// the external experiments service and upserts them locally. The local table
// stays authoritative for gating decisions, so a failed sync only logs.
func SyncHoldbackValues() error {
	cfg := config.AppConfig

	client := resty.New().SetBaseURL(cfg.ExperimentsApiURL)

	var result experimentKVResponse
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+cfg.ExperimentsApiKey).
		SetResult(&result).
		Get(fmt.Sprintf("/experiments/%d/kv", cfg.HoldbackExperimentID))
	if err != nil {
		return fmt.Errorf("failed to fetch experiment values: %v", err)
	}
	if resp.IsError() {
		return fmt.Errorf("experiments API error: %s", resp.Status())
	}

	db := database.Database.Db
	for _, kv := range result.Data {
		var existing models.ExperimentKeyValue
		err := db.Where("experiment_id = ? AND key = ? AND is_deleted = ?",
			cfg.HoldbackExperimentID, kv.Key, false).
			Order("id desc").First(&existing).Error
		if err == nil {
			if existing.Value == kv.Value {
				continue
			}
			existing.Value = kv.Value
			if err := db.Save(&existing).Error; err != nil {
				log.Printf("Error updating experiment value %s: %v", kv.Key, err)
			}
			continue
		}

		record := models.ExperimentKeyValue{
			ExperimentID: cfg.HoldbackExperimentID,
			Key:          kv.Key,
			Value:        kv.Value,
		}
		if err := db.Create(&record).Error; err != nil {
			log.Printf("Error saving experiment value %s: %v", kv.Key, err)
		}
	}

	return nil
}
