package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// parseID validates a positive integer route parameter.
func parseID(c *fiber.Ctx, param string) (int, bool) {
	raw := strings.TrimSpace(c.Params(param))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// CourseList validates pagination query parameters
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		// Pagination is optional; defaults are applied by the controller
		if reqData.Page != nil || reqData.Limit != nil {
			errors := make(map[string]string)
			if reqData.Page != nil && *reqData.Page < 1 {
				errors["page"] = "Page must be greater than 0!"
			}
			if reqData.Limit != nil && *reqData.Limit < 1 {
				errors["limit"] = "Limit must be greater than 0!"
			}
			if len(errors) > 0 {
				return middleware.ValidationErrorResponse(c, errors)
			}
			c.Locals("validatedList", reqData)
		}

		return c.Next()
	}
}

// GetCourseDetail validates the course ID parameter
func GetCourseDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// EnrollCourse validates the course ID and the optional track slug
func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Mode string `json:"mode"`
		})
		// Body is optional; an empty body means the audit track
		_ = c.BodyParser(reqData)

		mode := strings.TrimSpace(reqData.Mode)
		if mode != "" {
			switch mode {
			case courseModels.ModeAudit, courseModels.ModeVerified, courseModels.ModeCredit,
				courseModels.ModeHonor, courseModels.ModeProfessional, courseModels.ModeNoIDProfessional:
			default:
				return middleware.ValidationErrorResponse(c, map[string]string{
					"mode": "Unknown enrollment track!",
				})
			}
		}

		c.Locals("courseID", courseID)
		c.Locals("enrollMode", mode)
		return c.Next()
	}
}

// ContentList validates the course ID for content listing
func ContentList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// BlockRequest validates course and block ID parameters for render and
// handler endpoints
func BlockRequest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseID(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		blockID, ok := parseID(c, "block_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Block ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("blockID", blockID)
		return c.Next()
	}
}
