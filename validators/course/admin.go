package courseValidator

import (
	"strings"
	"time"

	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// BlockPayload is the admin create/update payload for a content block
type BlockPayload struct {
	BlockType   string           `json:"block_type" validate:"required,oneof=problem openassessment drag-and-drop-v2 done edx_sga lti_consumer html video"`
	DisplayName string           `json:"display_name" validate:"required,min=3"`
	Body        string           `json:"body"`
	Graded      bool             `json:"graded"`
	HasScore    bool             `json:"has_score"`
	Weight      float64          `json:"weight" validate:"gte=0"`
	GroupAccess map[string][]int `json:"group_access"`
	Variant     string           `json:"variant"`
	OrderIndex  int              `json:"order_index" validate:"gte=0"`
}

// validationErrors converts validator.v10 errors into the field->message map
// the response envelope expects.
func validationErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[strings.ToLower(fe.Field())] = "Failed validation: " + fe.Tag()
		}
	} else {
		errors["body"] = "Invalid request body!"
	}
	return errors
}

// CreateCourseAdmin validates admin course creation request
func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Org         string `json:"org"`
			Author      string `json:"author"`
			Run         string `json:"run"`
			Duration    int64  `json:"duration"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Org = strings.TrimSpace(reqData.Org)
		reqData.Author = strings.TrimSpace(reqData.Author)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.Org == "" {
			errors["org"] = "Org is required!"
		}

		if reqData.Duration < 0 {
			errors["duration"] = "Duration must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourseAdmin validates admin course update request
func UpdateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("courseID", courseID)

		return CreateCourseAdmin()(c)
	}
}

// CourseIDParam validates just the course ID parameter
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// AddCourseMode validates a new enrollment track payload
func AddCourseMode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			ModeSlug    string  `json:"mode_slug"`
			DisplayName string  `json:"display_name"`
			MinPrice    float64 `json:"min_price"`
			Currency    string  `json:"currency"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		switch strings.TrimSpace(reqData.ModeSlug) {
		case courseModels.ModeAudit, courseModels.ModeVerified, courseModels.ModeCredit,
			courseModels.ModeHonor, courseModels.ModeProfessional, courseModels.ModeNoIDProfessional:
		default:
			errors["mode_slug"] = "Unknown enrollment track!"
		}

		if reqData.MinPrice < 0 {
			errors["min_price"] = "Min price must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedCourseMode", reqData)
		return c.Next()
	}
}

// GrantCourseRole validates a course/org role grant payload
func GrantCourseRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID   uint   `json:"user_id"`
			CourseID uint   `json:"course_id"`
			Org      string `json:"org"`
			Role     string `json:"role"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["user_id"] = "User ID is required!"
		}

		switch reqData.Role {
		case courseModels.RoleStaff, courseModels.RoleInstructor, courseModels.RoleBetaTesters:
		default:
			errors["role"] = "Unknown role!"
		}

		// A role row is either course scoped or org scoped
		if reqData.CourseID == 0 && reqData.Org == "" {
			errors["scope"] = "Either course_id or org is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseRole", reqData)
		return c.Next()
	}
}

// CreateBlockAdmin validates a new content block payload
func CreateBlockAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(BlockPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedBlock", reqData)
		return c.Next()
	}
}

// UpdateBlockAdmin validates a content block update payload
func UpdateBlockAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		blockID, ok := parseID(c, "block_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Block ID!", nil)
		}

		reqData := new(BlockPayload)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("blockID", blockID)
		c.Locals("validatedBlock", reqData)
		return c.Next()
	}
}

// BlockIDParam validates just the block ID parameter
func BlockIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		blockID, ok := parseID(c, "block_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Block ID!", nil)
		}

		c.Locals("blockID", blockID)
		return c.Next()
	}
}

// GatingConfig validates a gating config payload
func GatingConfig() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID    uint       `json:"course_id"`
			Enabled     bool       `json:"enabled"`
			EnabledAsOf *time.Time `json:"enabled_as_of"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Enabled && reqData.EnabledAsOf == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"enabled_as_of": "An enabled config requires an effective date!",
			})
		}

		c.Locals("validatedGatingConfig", reqData)
		return c.Next()
	}
}

// Holdback validates a holdback percentage payload
func Holdback() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Percentage int `json:"percentage"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Percentage < 0 || reqData.Percentage > 100 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"percentage": "Percentage must be between 0 and 100!",
			})
		}

		c.Locals("validatedHoldback", reqData)
		return c.Next()
	}
}
