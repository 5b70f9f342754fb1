package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.GetCourseDetail(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)

	// Content listing
	userGroup.Get("/:id/content", middleware.JWTMiddleware, validators.ContentList(), controllers.GetCourseContent)

	// Block rendering and direct handler dispatch
	userGroup.Get("/:course_id/block/:block_id/render", middleware.JWTMiddleware, validators.BlockRequest(), controllers.RenderBlock)
	userGroup.Post("/:course_id/block/:block_id/handler/:handler", middleware.JWTMiddleware, validators.BlockRequest(), controllers.BlockHandler)

	// User enrollments
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetEnrollments)
}
