package routes

import (
	"jukusite.app/builder/controllers"
	"jukusite.app/builder/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterSystemRoutes(g fiber.Router) {
	// Public
	g.Get("/csrf", controllers.GetCsrf).Name("api.system.csrf")

	// Private
	g.Use(middlewares.AuthProtected(), middlewares.ValidateJWT(), middlewares.CheckPermissions())
	g.Post("/cache/purge", controllers.PurgeCache).Name("api.system.cache.purge")
}
