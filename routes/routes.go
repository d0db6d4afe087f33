package routes

import (
	"strings"
	"time"

	"blog/handlers"
	"blog/middleware"
	"blog/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Options struct {
	Auth        middleware.Authenticator
	RateLimiter *middleware.IPRateLimiter
	CORSOrigins []string

	// Hub enables GET /ws when set.
	Hub *websocket.Manager
}

var defaultOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"}

func SetupRouter(h *handlers.Handler, opts Options) *gin.Engine {
	router := gin.Default()

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RateLimitMiddleware(opts.RateLimiter))

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	authn := middleware.JWTAuthMiddleware(opts.Auth)
	admin := middleware.AdminOnly()
	validID := middleware.ValidateObjectID("id")

	api := router.Group("/api")

	// Auth & users
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/users/profile/:id", validID, h.GetUserProfile)

	// Categories
	api.POST("/categories", authn, admin, h.CreateCategory)
	api.GET("/categories", h.GetCategories)
	api.DELETE("/categories/:id", validID, authn, admin, h.DeleteCategory)

	// Posts
	api.POST("/posts", authn, h.CreatePost)
	api.GET("/posts", h.GetPosts)
	api.GET("/posts/count", h.GetPostCount)
	api.GET("/posts/:id", validID, h.GetPost)
	api.DELETE("/posts/:id", validID, authn, h.DeletePost)
	api.PUT("/posts/:id", validID, authn, h.UpdatePost)
	api.PUT("/posts/update-image/:id", validID, authn, h.UpdatePostImage)
	api.PUT("/posts/like/:id", validID, authn, h.ToggleLike)

	// Comments
	api.POST("/comments", authn, h.CreateComment)
	api.GET("/comments", authn, admin, h.GetComments)
	api.DELETE("/comments/:id", validID, authn, h.DeleteComment)
	api.PUT("/comments/:id", validID, authn, h.UpdateComment)

	// Push subscriptions
	api.GET("/vapid-public-key", h.GetVapidPublicKey)
	api.POST("/subscribe", authn, h.SubscribePush)

	if opts.Hub != nil {
		router.GET("/ws", gin.WrapF(websocket.WebSocketHandler(opts.Hub, opts.Auth)))
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{
				"message": "endpoint not found",
				"path":    c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
