package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// requireGlobalStaff resolves the calling user and rejects non-staff.
func requireGlobalStaff(c *fiber.Ctx) (*models.User, error) {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if !user.IsGlobalStaff() {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Staff only.", nil)
	}

	return &user, nil
}

// AdminCreateCourse creates a new course
func AdminCreateCourse(c *fiber.Ctx) error {
	if _, errResp := requireGlobalStaff(c); errResp != nil {
		return errResp
	}

	// Get validated request data
	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Org         string `json:"org"`
		Author      string `json:"author"`
		Run         string `json:"run"`
		Duration    int64  `json:"duration"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		Org:         reqData.Org,
		Author:      reqData.Author,
		Run:         reqData.Run,
		Duration:    reqData.Duration,
		Status:      "DRAFT",
		IsPublished: false,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse updates an existing course
func AdminUpdateCourse(c *fiber.Ctx) error {
	if _, errResp := requireGlobalStaff(c); errResp != nil {
		return errResp
	}

	courseID, _ := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Org         string `json:"org"`
		Author      string `json:"author"`
		Run         string `json:"run"`
		Duration    int64  `json:"duration"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course.Title = reqData.Title
	course.Description = reqData.Description
	course.Org = reqData.Org
	course.Author = reqData.Author
	course.Run = reqData.Run
	course.Duration = reqData.Duration

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AdminDeleteCourse soft-deletes a course
func AdminDeleteCourse(c *fiber.Ctx) error {
	if _, errResp := requireGlobalStaff(c); errResp != nil {
		return errResp
	}

	courseID, _ := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.IsDeleted = true
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminPublishCourse activates and publishes a course
func AdminPublishCourse(c *fiber.Ctx) error {
	if _, errResp := requireGlobalStaff(c); errResp != nil {
		return errResp
	}

	courseID, _ := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.Status = "ACTIVE"
	course.IsPublished = true
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", course)
}

// AdminAddCourseMode adds an enrollment track to a course
func AdminAddCourseMode(c *fiber.Ctx) error {
	if _, errResp := requireGlobalStaff(c); errResp != nil {
		return errResp
	}

	courseID, _ := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourseMode").(*struct {
		ModeSlug    string  `json:"mode_slug"`
		DisplayName string  `json:"display_name"`
		MinPrice    float64 `json:"min_price"`
		Currency    string  `json:"currency"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// One row per track per course
	var existing courseModels.CourseMode
	if err := database.Database.Db.Where("course_id = ? AND mode_slug = ? AND is_deleted = ?", courseID, reqData.ModeSlug, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course already offers this track!", nil)
	}

	mode := courseModels.CourseMode{
		CourseID:    uint(courseID),
		ModeSlug:    reqData.ModeSlug,
		DisplayName: reqData.DisplayName,
		MinPrice:    reqData.MinPrice,
		Currency:    reqData.Currency,
	}

	if err := database.Database.Db.Create(&mode).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add course mode!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course mode added successfully!", mode)
}

// AdminGrantCourseRole grants a course-team or org-team role to a user
func AdminGrantCourseRole(c *fiber.Ctx) error {
	if _, errResp := requireGlobalStaff(c); errResp != nil {
		return errResp
	}

	reqData, ok := c.Locals("validatedCourseRole").(*struct {
		UserID   uint   `json:"user_id"`
		CourseID uint   `json:"course_id"`
		Org      string `json:"org"`
		Role     string `json:"role"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var target models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&target).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	role := courseModels.CourseAccessRole{
		UserID:   reqData.UserID,
		CourseID: reqData.CourseID,
		Org:      reqData.Org,
		Role:     reqData.Role,
	}

	if err := database.Database.Db.Create(&role).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grant role!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Role granted successfully!", role)
}
