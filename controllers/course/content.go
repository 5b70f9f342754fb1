package controllers

import (
	"fmt"

	"lms/database"
	"lms/gating"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// BlockFragment is the rendered student view of a single block
type BlockFragment struct {
	BlockID   uint   `json:"block_id"`
	BlockType string `json:"block_type"`
	Content   string `json:"content"`
	Gated     bool   `json:"gated"`
}

// paywallFragment is substituted for the real content when a block is
// gated. The content-paywall marker is what clients key off.
func paywallFragment(course *courseModels.Course) string {
	return fmt.Sprintf(
		`<div class="content-paywall"><h3>Graded assessments are locked</h3>`+
			`<p>Upgrade to the verified track of %s to unlock graded content.</p></div>`,
		course.Title,
	)
}

// studentViewFragment wraps the block body for rendering.
func studentViewFragment(block *courseModels.ContentBlock) string {
	return fmt.Sprintf(`<div class="xblock" data-block-type="%s">%s</div>`, block.BlockType, block.Body)
}

// loadRenderContext resolves the user, course and block for render and
// handler endpoints. Returns a non-nil error response if anything is off.
func loadRenderContext(c *fiber.Ctx) (*models.User, *courseModels.Course, *courseModels.ContentBlock, error) {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, nil, nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return nil, nil, nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID, _ := c.Locals("courseID").(int)
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	blockID, _ := c.Locals("blockID").(int)
	var block courseModels.ContentBlock
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", blockID, courseID, false).First(&block).Error; err != nil {
		return nil, nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content block not found!", nil)
	}

	return &user, &course, &block, nil
}

// RenderBlock returns the student-view fragment for a block. Gated blocks
// render the paywall placeholder instead of the real content; the request
// itself still succeeds.
func RenderBlock(c *fiber.Ctx) error {
	user, course, block, errResp := loadRenderContext(c)
	if errResp != nil {
		return errResp
	}

	fragment := BlockFragment{
		BlockID:   block.ID,
		BlockType: block.BlockType,
	}

	if gating.Check(database.Database.Db, user, course, block) {
		fragment.Gated = true
		fragment.Content = paywallFragment(course)
	} else {
		fragment.Content = studentViewFragment(block)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Block rendered successfully!", fragment)
}

// BlockHandler dispatches a direct handler call (e.g. problem_show) on a
// block. Gated blocks answer not-found and the handler never runs.
func BlockHandler(c *fiber.Ctx) error {
	user, course, block, errResp := loadRenderContext(c)
	if errResp != nil {
		return errResp
	}

	if gating.Check(database.Database.Db, user, course, block) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content block not found!", nil)
	}

	handler := c.Params("handler")
	switch handler {
	case "problem_show":
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Handler executed successfully!", fiber.Map{
			"block_id": block.ID,
			"handler":  handler,
			"content":  block.Body,
		})
	case "problem_check":
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Handler executed successfully!", fiber.Map{
			"block_id": block.ID,
			"handler":  handler,
			"graded":   block.Graded,
			"weight":   block.Weight,
		})
	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown handler!", nil)
	}
}

// GetCourseContent lists the published blocks of a course with their gated
// status. Conditional-content variants the user is not assigned to are
// filtered out.
func GetCourseContent(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID, _ := c.Locals("courseID").(int)
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var blocks []courseModels.ContentBlock
	if err := database.Database.Db.
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("order_index asc").Find(&blocks).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}

	// Resolve the user's conditional-content group, if any
	variant := ""
	var tag courseModels.UserCourseTag
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND key = ? AND is_deleted = ?",
			userId, courseID, courseModels.VariantTagKey(), false).
		First(&tag).Error; err == nil {
		variant = tag.Value
	}

	result := make([]BlockFragment, 0, len(blocks))
	for i := range blocks {
		block := &blocks[i]

		// Skip variants assigned to other users
		if block.Variant != "" && block.Variant != variant {
			continue
		}

		fragment := BlockFragment{
			BlockID:   block.ID,
			BlockType: block.BlockType,
		}
		if gating.Check(database.Database.Db, &user, &course, block) {
			fragment.Gated = true
			fragment.Content = paywallFragment(&course)
		} else {
			fragment.Content = studentViewFragment(block)
		}
		result = append(result, fragment)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", fiber.Map{
		"blocks": result,
	})
}
