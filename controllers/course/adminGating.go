package controllers

import (
	"strconv"
	"time"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminSetGatingConfig creates or replaces a gating config row. CourseID
// zero targets the global config.
func AdminSetGatingConfig(c *fiber.Ctx) error {
	if _, errResp := requireGlobalStaff(c); errResp != nil {
		return errResp
	}

	reqData, ok := c.Locals("validatedGatingConfig").(*struct {
		CourseID    uint       `json:"course_id"`
		Enabled     bool       `json:"enabled"`
		EnabledAsOf *time.Time `json:"enabled_as_of"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.CourseID != 0 {
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
	}

	cfg := courseModels.ContentGatingConfig{
		CourseID:    reqData.CourseID,
		Enabled:     reqData.Enabled,
		EnabledAsOf: reqData.EnabledAsOf,
	}

	if err := database.Database.Db.Create(&cfg).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save gating config!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Gating config saved successfully!", cfg)
}

// AdminSetHoldback sets the gating holdback percentage in the local
// experiment key-value store.
func AdminSetHoldback(c *fiber.Ctx) error {
	if _, errResp := requireGlobalStaff(c); errResp != nil {
		return errResp
	}

	reqData, ok := c.Locals("validatedHoldback").(*struct {
		Percentage int `json:"percentage"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	kv := models.ExperimentKeyValue{
		ExperimentID: config.AppConfig.HoldbackExperimentID,
		Key:          models.HoldbackKey,
		Value:        strconv.Itoa(reqData.Percentage),
	}

	if err := database.Database.Db.Create(&kv).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save holdback value!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Holdback percentage saved successfully!", kv)
}
