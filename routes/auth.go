package routes

import (
	"jukusite.app/builder/controllers"
	"jukusite.app/builder/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterAuthRoutes(g fiber.Router) {
	// Auth
	g.Use(middlewares.AuthLimiter())

	// Public
	g.Post("/login", middlewares.CaptchaProtected(), controllers.AuthLogin)
	g.Post("/register", middlewares.CaptchaProtected(), controllers.AuthRegister)
	g.Post("/recover", middlewares.CaptchaProtected(), controllers.AuthRecover)
	g.Post("/recover/validate", controllers.AuthRecoverValidate) // Without captcha protection
	g.Patch("/recover/update", middlewares.CaptchaProtected(), controllers.AuthRecoverUpdate)
	g.Post("/refresh", controllers.AuthRefresh) // Authenticated by the refresh cookie itself

	// Private
	g.Use(middlewares.AuthProtected(), middlewares.ValidateJWT(), middlewares.CheckPermissions())
	g.Post("/check", controllers.AuthCheck)
	g.Post("/logout", controllers.RevokeAccessToken)
}
