package utils

import (
	"fmt"
	"log"
	"time"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[GATING-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// sweepGatingConfigs reports configs that came into effect since the last
// sweep. Activation itself is date-driven, so this is bookkeeping only.
func sweepGatingConfigs() {
	db := database.Database.Db
	now := time.Now()

	var configs []courseModels.ContentGatingConfig
	if err := db.Where("enabled = ? AND is_deleted = ? AND enabled_as_of <= ?", true, false, now).
		Find(&configs).Error; err != nil {
		logScheduler("Error fetching gating configs: " + err.Error())
		return
	}

	for _, cfg := range configs {
		if cfg.CourseID == 0 {
			logScheduler("Global content gating active since " + cfg.EnabledAsOf.Format(time.RFC3339))
		} else {
			logScheduler(fmt.Sprintf("Content gating active for course %d since %s", cfg.CourseID, cfg.EnabledAsOf.Format(time.RFC3339)))
		}
	}
}

// refreshHoldback re-syncs holdback values from the experiments service
func refreshHoldback() {
	if err := SyncHoldbackValues(); err != nil {
		logScheduler("Holdback sync failed: " + err.Error())
		return
	}
	logScheduler("Holdback values synced")
}

// StartGatingScheduler runs the gating config sweep and the experiment sync
// on fixed schedules.
func StartGatingScheduler() *cron.Cron {
	c := cron.New()

	// Hourly config sweep
	if _, err := c.AddFunc("0 * * * *", sweepGatingConfigs); err != nil {
		log.Fatalf("Failed to schedule gating config sweep: %v", err)
	}

	// Holdback refresh every 15 minutes
	if _, err := c.AddFunc("*/15 * * * *", refreshHoldback); err != nil {
		log.Fatalf("Failed to schedule holdback refresh: %v", err)
	}

	c.Start()
	logScheduler("Gating scheduler started")
	return c
}
