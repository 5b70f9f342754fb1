package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	// Course CRUD
	adminGroup.Post("/create", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-courses"), validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Put("/:id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-courses"), validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-courses"), validators.CourseIDParam(), controllers.AdminDeleteCourse)
	adminGroup.Post("/:id/publish", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-courses"), validators.CourseIDParam(), controllers.AdminPublishCourse)

	// Enrollment tracks
	adminGroup.Post("/:id/mode", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-courses"), validators.AddCourseMode(), controllers.AdminAddCourseMode)

	// Content blocks
	adminGroup.Post("/:id/block", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-content"), validators.CreateBlockAdmin(), controllers.AdminCreateBlock)

	contentGroup := app.Group("/admin/content")
	contentGroup.Put("/:block_id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-content"), validators.UpdateBlockAdmin(), controllers.AdminUpdateBlock)
	contentGroup.Delete("/:block_id", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-content"), validators.BlockIDParam(), controllers.AdminDeleteBlock)
	contentGroup.Post("/:block_id/publish", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-content"), validators.BlockIDParam(), controllers.AdminPublishBlock)

	// Course team roles
	roleGroup := app.Group("/admin/role")
	roleGroup.Post("/grant", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-roles"), validators.GrantCourseRole(), controllers.AdminGrantCourseRole)

	// Gating configuration and experiment holdback
	gatingGroup := app.Group("/admin/gating")
	gatingGroup.Post("/config", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-gating"), validators.GatingConfig(), controllers.AdminSetGatingConfig)

	experimentGroup := app.Group("/admin/experiment")
	experimentGroup.Put("/holdback", middleware.JWTMiddleware, middleware.CheckPermissionMiddleware("manage-experiments"), validators.Holdback(), controllers.AdminSetHoldback)
}
