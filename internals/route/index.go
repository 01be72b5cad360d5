package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"coe_backend/internals/configs"
	markroute "coe_backend/internals/features/exam/internal_marks/route"
	"coe_backend/internals/middlewares/auth"
)

// SetupRoutes wires every feature group onto the app. Everything under
// /api/a requires a valid JWT.
func SetupRoutes(app *fiber.App, db *gorm.DB, logger *log.Logger) {
	api := app.Group("/api")

	admin := api.Group("/a", auth.AuthJWT(auth.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	}))

	markroute.InternalMarkAdminRoutes(admin, db, logger)
}
