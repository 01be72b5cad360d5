package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"coe_backend/internals/features/exam/internal_marks/controller"
	"coe_backend/internals/middlewares"
)

// InternalMarkAdminRoutes mounts the marks endpoints under the
// authenticated admin group. The bulk upload route carries its own,
// much stricter rate limit.
func InternalMarkAdminRoutes(admin fiber.Router, db *gorm.DB, logger *log.Logger) {
	ctrl := controller.NewInternalMarkController(db, logger)

	marks := admin.Group("/internal-marks")
	marks.Post("/bulk-upload", middlewares.BulkUploadRateLimiter(), ctrl.BulkUpload)
	marks.Post("/", ctrl.Create)
	marks.Get("/", ctrl.List)
	marks.Delete("/bulk", ctrl.BulkDelete)
	marks.Delete("/:id", ctrl.Delete)
}
