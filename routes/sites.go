package routes

import (
	"jukusite.app/builder/controllers"
	"jukusite.app/builder/middlewares"
	"github.com/gofiber/fiber/v2"
)

func RegisterSiteRoutes(g fiber.Router) {
	// Private
	g.Use(middlewares.AuthProtected(), middlewares.ValidateJWT(), middlewares.CheckPermissions())

	// Sites
	g.Get("/all", controllers.GetAllSites).Name("api.sites.index")
	g.Post("/create", controllers.CreateSite).Name("api.sites.create")
	g.Get("/:id<guid>", controllers.GetSite).Name("api.sites.show")
	g.Patch("/:id<guid>", controllers.UpdateSite).Name("api.sites.update")
	g.Get("/:id<guid>/pending", controllers.GetSitePending).Name("api.sites.pending")
	g.Post("/:id<guid>/save", controllers.SaveSite).Name("api.sites.save")
	g.Post("/:id<guid>/publish", controllers.ToggleSitePublish).Name("api.sites.publish")
	g.Delete("/:id<guid>/editor", controllers.CloseSiteEditor).Name("api.sites.editor.close")

	// Sections
	g.Get("/:id<guid>/sections", controllers.GetAllSections).Name("api.sections.index")
	g.Post("/:id<guid>/sections", controllers.AddSection).Name("api.sections.create")
	g.Patch("/:id<guid>/sections/reorder", controllers.ReorderSections).Name("api.sections.reorder")
	g.Patch("/:id<guid>/sections/:sectionId<guid>", controllers.StageSectionContent).Name("api.sections.update")
	g.Patch("/:id<guid>/sections/:sectionId<guid>/visibility", controllers.ToggleSectionVisibility).Name("api.sections.visibility")
	g.Delete("/:id<guid>/sections/:sectionId<guid>", controllers.DeleteSection).Name("api.sections.delete")

	// Blog posts
	g.Get("/:id<guid>/posts/all", controllers.GetAllPosts).Name("api.posts.index")
	g.Post("/:id<guid>/posts", controllers.CreatePost).Name("api.posts.create")
	g.Get("/:id<guid>/posts/:postId<guid>", controllers.GetPost).Name("api.posts.show")
	g.Patch("/:id<guid>/posts/:postId<guid>", controllers.UpdatePost).Name("api.posts.update")
	g.Delete("/:id<guid>/posts/:postId<guid>", controllers.DeletePost).Name("api.posts.delete")
	g.Post("/:id<guid>/posts/:postId<guid>/publish", controllers.TogglePostPublish).Name("api.posts.publish")

	// Leads
	g.Get("/:id<guid>/leads/all", controllers.GetAllLeads).Name("api.leads.index")
}

func RegisterCatalogRoutes(g fiber.Router) {
	// Private
	g.Use(middlewares.AuthProtected(), middlewares.ValidateJWT(), middlewares.CheckPermissions())
	g.Get("/templates", controllers.GetAllTemplates).Name("api.catalog.templates")
	g.Get("/themes", controllers.GetAllThemes).Name("api.catalog.themes")
}

func RegisterUploadRoutes(g fiber.Router) {
	// Private
	g.Use(middlewares.AuthProtected(), middlewares.ValidateJWT(), middlewares.CheckPermissions())
	g.Post("/image", controllers.UploadImage).Name("api.uploads.create")
}
