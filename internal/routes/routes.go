package routes

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/domain"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/handler"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/middleware"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every API handler
type Handlers struct {
	Languages      *handler.LanguageHandler
	Waypoints      *handler.WaypointHandler
	Media          *handler.MediaHandler
	Tags           *handler.TagHandler
	StaticContents *handler.StaticContentHandler
	Reports        *handler.ReportHandler
	Users          *handler.UserHandler
}

// contentRoutes is the route set every content kind shares
type contentRoutes interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	GetBySlug(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Patch(c *gin.Context)
	Delete(c *gin.Context)
	History(c *gin.Context)
	Unverified(c *gin.Context)
	Verify(c *gin.Context)
	Changes(c *gin.Context)
}

type searchRoutes interface {
	Search(c *gin.Context)
	Suggest(c *gin.Context)
}

type tagRoutes interface {
	Tags(c *gin.Context)
	AttachTag(c *gin.Context)
	VerifyTag(c *gin.Context)
	DetachTag(c *gin.Context)
}

// Setup configures all API routes. extra runs on every API route after
// authentication and language negotiation.
func Setup(router *gin.Engine, h Handlers, jwtManager *jwt.Manager, languages middleware.LanguageCodes, extra ...gin.HandlerFunc) {
	api := router.Group("/api/v1", middleware.JWTAuth(jwtManager), middleware.I18n(languages))
	api.Use(extra...)

	auth := middleware.RequireAuth()
	moderator := middleware.RequireRole(domain.RoleModerator)
	admin := middleware.RequireRole(domain.RoleAdmin)

	langs := api.Group("/languages")
	langs.GET("", h.Languages.Active)
	langs.GET("/all", admin, h.Languages.List)
	langs.POST("", admin, h.Languages.Create)
	langs.PUT("/priorities", admin, h.Languages.Reorder)
	langs.PUT("/:code/activate", admin, h.Languages.Activate)
	langs.PUT("/:code/deactivate", admin, h.Languages.Deactivate)

	waypoints := content(api, "/waypoints", h.Waypoints, auth, moderator, auth)
	searchable(waypoints, h.Waypoints)
	taggable(waypoints, h.Waypoints, auth, moderator)
	waypoints.POST("/:id/verify-location/:revisionId", moderator, h.Waypoints.VerifyLocation)
	waypoints.GET("/:id/location-changes", moderator, h.Waypoints.LocationChanges)
	waypoints.POST("/:id/reports", auth, h.Reports.Create(domain.KindWaypoint))

	media := content(api, "/media", h.Media, auth, moderator, auth)
	searchable(media, h.Media)
	taggable(media, h.Media, auth, moderator)
	media.PUT("/:id/file", auth, h.Media.UpdateFile)
	media.POST("/:id/verify-file/:revisionId", moderator, h.Media.VerifyFile)
	media.GET("/:id/file-changes", moderator, h.Media.FileChanges)
	media.POST("/:id/reports", auth, h.Reports.Create(domain.KindMedia))

	tags := content(api, "/tags", h.Tags, auth, moderator, auth)
	searchable(tags, h.Tags)
	tags.POST("/:id/reports", auth, h.Reports.Create(domain.KindTag))

	static := content(api, "/static-contents", h.StaticContents, auth, moderator, admin)
	static.POST("/:id/reports", auth, h.Reports.Create(domain.KindStaticContent))

	reports := api.Group("/reports", moderator)
	reports.GET("", h.Reports.List)
	reports.POST("/:id/verify", h.Reports.Verify)

	api.DELETE("/users/:id", auth, h.Users.Delete)
}

func content(api *gin.RouterGroup, path string, h contentRoutes, auth, moderator, create gin.HandlerFunc) *gin.RouterGroup {
	g := api.Group(path)
	g.GET("", h.List)
	g.GET("/unverified", moderator, h.Unverified)
	g.GET("/find/:slug", h.GetBySlug)
	g.GET("/:id", h.Get)
	g.POST("", create, h.Create)
	g.PUT("/:id", auth, h.Update)
	g.PATCH("/:id", auth, h.Patch)
	g.DELETE("/:id", moderator, h.Delete)
	g.GET("/:id/history", moderator, h.History)
	g.GET("/:id/changes", moderator, h.Changes)
	g.POST("/:id/verify/:revisionId", moderator, h.Verify)
	return g
}

func searchable(g *gin.RouterGroup, h searchRoutes) {
	g.GET("/search", h.Search)
	g.GET("/suggest", h.Suggest)
}

func taggable(g *gin.RouterGroup, h tagRoutes, auth, moderator gin.HandlerFunc) {
	g.GET("/:id/tags", h.Tags)
	g.POST("/:id/tags/:tagId", auth, h.AttachTag)
	g.POST("/:id/tags/:tagId/verify", moderator, h.VerifyTag)
	g.DELETE("/:id/tags/:tagId", moderator, h.DetachTag)
}
