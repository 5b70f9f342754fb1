package controllers

import (
	"encoding/json"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	contentValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// AdminCreateBlock adds a content block to a course
func AdminCreateBlock(c *fiber.Ctx) error {
	if _, errResp := requireGlobalStaff(c); errResp != nil {
		return errResp
	}

	courseID, _ := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedBlock").(*contentValidator.BlockPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	block := courseModels.ContentBlock{
		CourseID:    uint(courseID),
		BlockType:   reqData.BlockType,
		DisplayName: reqData.DisplayName,
		Body:        reqData.Body,
		Graded:      reqData.Graded,
		HasScore:    reqData.HasScore,
		Weight:      reqData.Weight,
		Variant:     reqData.Variant,
		OrderIndex:  reqData.OrderIndex,
	}

	if len(reqData.GroupAccess) > 0 {
		raw, err := json.Marshal(reqData.GroupAccess)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid group access data!", nil)
		}
		block.GroupAccess = datatypes.JSON(raw)
	}

	if err := database.Database.Db.Create(&block).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create content block!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content block created successfully!", block)
}

// AdminUpdateBlock updates a content block
func AdminUpdateBlock(c *fiber.Ctx) error {
	if _, errResp := requireGlobalStaff(c); errResp != nil {
		return errResp
	}

	blockID, _ := c.Locals("blockID").(int)

	var block courseModels.ContentBlock
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", blockID, false).First(&block).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content block not found!", nil)
	}

	reqData, ok := c.Locals("validatedBlock").(*contentValidator.BlockPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	block.BlockType = reqData.BlockType
	block.DisplayName = reqData.DisplayName
	block.Body = reqData.Body
	block.Graded = reqData.Graded
	block.HasScore = reqData.HasScore
	block.Weight = reqData.Weight
	block.Variant = reqData.Variant
	block.OrderIndex = reqData.OrderIndex

	if len(reqData.GroupAccess) > 0 {
		raw, err := json.Marshal(reqData.GroupAccess)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid group access data!", nil)
		}
		block.GroupAccess = datatypes.JSON(raw)
	} else {
		block.GroupAccess = nil
	}

	if err := database.Database.Db.Save(&block).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update content block!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content block updated successfully!", block)
}

// AdminDeleteBlock soft-deletes a content block
func AdminDeleteBlock(c *fiber.Ctx) error {
	if _, errResp := requireGlobalStaff(c); errResp != nil {
		return errResp
	}

	blockID, _ := c.Locals("blockID").(int)

	var block courseModels.ContentBlock
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", blockID, false).First(&block).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content block not found!", nil)
	}

	block.IsDeleted = true
	if err := database.Database.Db.Save(&block).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete content block!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content block deleted successfully!", nil)
}

// AdminPublishBlock publishes a content block
func AdminPublishBlock(c *fiber.Ctx) error {
	if _, errResp := requireGlobalStaff(c); errResp != nil {
		return errResp
	}

	blockID, _ := c.Locals("blockID").(int)

	var block courseModels.ContentBlock
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", blockID, false).First(&block).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content block not found!", nil)
	}

	block.IsPublished = true
	if err := database.Database.Db.Save(&block).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish content block!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content block published successfully!", block)
}
