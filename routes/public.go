package routes

import (
	"jukusite.app/builder/controllers"
	"jukusite.app/builder/middlewares"
	"github.com/gofiber/fiber/v2"
)

// RegisterPublicRoutes mounts the rendered site surface at the root. It
// must come after the API groups so /api never resolves as a site slug.
func RegisterPublicRoutes(app *fiber.App) {
	app.Get("/", controllers.GetPublicSiteByDomain).Name("public.domain")
	app.Get("/:siteSlug", controllers.GetPublicSite).Name("public.site")
	app.Get("/:siteSlug/blog", controllers.GetPublicBlog).Name("public.blog")
	app.Get("/:siteSlug/blog/:postSlug", controllers.GetPublicBlogPost).Name("public.blog.post")
	app.Post("/:siteSlug/contact", middlewares.LeadLimiter(), controllers.CreateLead).Name("public.contact")
}
