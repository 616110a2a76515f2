package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/the-connection/app-connection-api/internal/api/handlers"
	"github.com/the-connection/app-connection-api/internal/auth"
	"github.com/the-connection/app-connection-api/internal/cache"
	"github.com/the-connection/app-connection-api/internal/events"
	middlewares "github.com/the-connection/app-connection-api/internal/middleware"
	"github.com/the-connection/app-connection-api/internal/moderation"
	"github.com/the-connection/app-connection-api/internal/notify"
	"github.com/the-connection/app-connection-api/internal/realtime"
	"github.com/the-connection/app-connection-api/internal/recommend"
	"github.com/the-connection/app-connection-api/internal/search"
	"github.com/the-connection/app-connection-api/internal/storage"
	"github.com/the-connection/app-connection-api/internal/utils"
)

// Dependencies carries everything the router wires together. Search,
// Publisher, Timelines, Hub and Screener may be nil when the backing
// service is not configured.
type Dependencies struct {
	Store     storage.Store
	Sessions  *auth.SessionProvider
	Hasher    *auth.PasswordHasher
	Feed      *recommend.Service
	Notifier  notify.Notifier
	Search    *search.Client
	Publisher *events.Publisher
	Timelines *cache.TimelineStore
	Hub       *realtime.Hub
	Screener  *moderation.Screener
}

func SetupRouter(deps Dependencies) *gin.Engine {
	registerValidators()

	r := gin.Default()
	r.Use(corsMiddleware())
	r.Use(middlewares.RequestTracing())
	r.Use(middlewares.SessionAuth(deps.Sessions))

	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Search)
	r.GET("/liveness", healthHandler.Liveness)
	r.GET("/readiness", healthHandler.Readiness)
	r.GET("/health", healthHandler.Health)

	authHandler := handlers.NewAuthHandler(deps.Store, deps.Hasher, deps.Sessions, deps.Notifier)
	userHandler := handlers.NewUserHandler(deps.Store)
	communityHandler := handlers.NewCommunityHandler(deps.Store, deps.Search)
	microblogHandler := handlers.NewMicroblogHandler(deps.Store, deps.Publisher, deps.Search, deps.Timelines)
	prayerHandler := handlers.NewPrayerHandler(deps.Store, deps.Notifier)
	eventHandler := handlers.NewEventHandler(deps.Store)
	messageHandler := handlers.NewMessageHandler(deps.Store, deps.Hub)
	moderationHandler := handlers.NewModerationHandler(deps.Store, deps.Screener, deps.Notifier)
	searchHandler := handlers.NewSearchHandler(deps.Search)
	recommendationHandler := handlers.NewRecommendationHandler(deps.Feed, deps.Store)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		api.GET("/users/:username", userHandler.Get)
		api.GET("/communities", communityHandler.List)
		api.GET("/communities/:id", communityHandler.Get)
		api.GET("/microblogs", microblogHandler.List)
		api.GET("/microblogs/:id", microblogHandler.Get)
		api.GET("/events", eventHandler.List)
		api.GET("/events/:id", eventHandler.Get)
		api.GET("/prayers", prayerHandler.List)
		api.GET("/prayers/:id", prayerHandler.Get)
		api.GET("/search", searchHandler.Search)

		authed := api.Group("")
		authed.Use(middlewares.RequireAuthentication())
		{
			authed.GET("/auth/me", authHandler.Me)

			authed.POST("/users/:username/follow", userHandler.Follow)
			authed.DELETE("/users/:username/follow", userHandler.Unfollow)

			authed.POST("/communities", communityHandler.Create)
			authed.POST("/communities/:id/join", communityHandler.Join)
			authed.POST("/communities/:id/leave", communityHandler.Leave)

			authed.GET("/microblogs/timeline", microblogHandler.Timeline)
			authed.POST("/microblogs", microblogHandler.Create)
			authed.POST("/microblogs/:id/like", microblogHandler.Like)

			authed.POST("/prayers", prayerHandler.Create)
			authed.POST("/prayers/:id/pray", prayerHandler.Pray)

			authed.POST("/events", eventHandler.Create)
			authed.POST("/events/:id/rsvp", eventHandler.RSVP)

			authed.POST("/messages", messageHandler.Send)
			authed.GET("/messages/ws", messageHandler.Connect)
			authed.GET("/messages/:user_id", messageHandler.Conversation)

			authed.GET("/recommendations/feed", recommendationHandler.Feed)
			authed.POST("/recommendations/interaction", recommendationHandler.RecordInteraction)

			authed.POST("/moderation/reports", moderationHandler.CreateReport)

			admin := authed.Group("/moderation")
			admin.Use(middlewares.RequireAdmin())
			{
				admin.GET("/reports", moderationHandler.ListReports)
				admin.POST("/reports/:id/resolve", moderationHandler.ResolveReport)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// registerValidators installs the topictag rule used by request bindings:
// lowercase letters, digits and hyphens, at most 30 characters.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("topictag", func(fl validator.FieldLevel) bool {
		tag := fl.Field().String()
		if tag == "" || len(tag) > 30 {
			return false
		}
		normalized := utils.NormalizeText(tag)
		for _, r := range normalized {
			switch {
			case r >= 'a' && r <= 'z':
			case r >= '0' && r <= '9':
			case r == '-':
			default:
				return false
			}
		}
		return true
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
