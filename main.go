package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog/assets"
	"blog/auth"
	"blog/config"
	"blog/database"
	"blog/database/memory"
	"blog/handlers"
	"blog/middleware"
	"blog/push"
	"blog/routes"
	"blog/services"
	"blog/websocket"

	"github.com/gin-gonic/gin"
)

type stores struct {
	posts         database.PostStore
	comments      database.CommentStore
	categories    database.CategoryStore
	users         database.UserStore
	subscriptions database.SubscriptionStore
}

func main() {
	log.Println("🚀 Starting Blog Backend Server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Configuration error: ", err)
	}

	// ===== STORES =====
	var st stores
	var mongoConn *database.Mongo

	if cfg.Database == "memory" {
		log.Println("⚠️ Using in-memory stores, data is lost on restart")
		st = stores{
			posts:         memory.NewPostStore(),
			comments:      memory.NewCommentStore(),
			categories:    memory.NewCategoryStore(),
			users:         memory.NewUserStore(),
			subscriptions: memory.NewSubscriptionStore(),
		}
	} else {
		log.Println("🔌 Connecting to MongoDB...")

		var dbErr error
		for i := 1; i <= 3; i++ {
			mongoConn, dbErr = database.Connect(cfg.MongoURI, cfg.MongoDatabase)
			if dbErr == nil {
				break
			}
			log.Printf("❌ MongoDB connection attempt %d failed: %v", i, dbErr)
			time.Sleep(2 * time.Second)
		}
		if dbErr != nil {
			log.Fatal("❌ Failed to connect to MongoDB: ", dbErr)
		}
		log.Println("✅ MongoDB connected successfully")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := database.EnsureIndexes(ctx, mongoConn.DB); err != nil {
			log.Printf("⚠️ Index creation failed: %v", err)
		}
		cancel()

		st = stores{
			posts:         database.NewPostStore(mongoConn.DB),
			comments:      database.NewCommentStore(mongoConn.DB),
			categories:    database.NewCategoryStore(mongoConn.DB),
			users:         database.NewUserStore(mongoConn.DB),
			subscriptions: database.NewSubscriptionStore(mongoConn.DB),
		}
	}

	// ===== ASSET STORE =====
	var gateway assets.Gateway
	if cfg.CloudinaryURL != "" {
		cld, err := assets.NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder)
		if err != nil {
			log.Fatal("❌ ", err)
		}
		gateway = cld
		log.Println("✅ Cloudinary asset store configured")
	} else {
		log.Println("⚠️ CLOUDINARY_URL not set, images are kept in memory")
		gateway = assets.NewMemory()
	}

	// ===== EVENTS =====
	log.Println("🔌 Initializing WebSocket manager...")
	hub := websocket.NewManager()
	go hub.Start()

	publishers := services.Publishers{hub}
	if cfg.PushEnabled() {
		publishers = append(publishers, push.NewNotifier(st.subscriptions, st.posts, push.Config{
			PublicKey:  cfg.VAPIDPublicKey,
			PrivateKey: cfg.VAPIDPrivateKey,
			Subject:    cfg.VAPIDSubject,
		}))
		log.Println("✅ Web push notifications enabled")
	}

	// ===== SERVICES =====
	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTokenTTL)
	authService := services.NewAuthService(st.users, tokens)
	commentService := services.NewCommentService(st.comments, st.users, publishers)

	h := &handlers.Handler{
		Posts:          services.NewPostService(st.posts, st.users, commentService, gateway, publishers),
		Comments:       commentService,
		Categories:     services.NewCategoryService(st.categories),
		Auth:           authService,
		Subscriptions:  st.subscriptions,
		Stager:         assets.NewStager(cfg.UploadDir),
		VAPIDPublicKey: cfg.VAPIDPublicKey,
	}

	// ===== GIN MODE =====
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
		log.Println("⚙️ Running in RELEASE mode")
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("⚙️ Running in DEBUG mode")
	}

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = middleware.NewIPRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	}

	router := routes.SetupRouter(h, routes.Options{
		Auth:        authService,
		RateLimiter: limiter,
		CORSOrigins: cfg.CORSOrigins,
		Hub:         hub,
	})

	// ===== SERVER CONFIG =====
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server error: ", err)
		}
	}()

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}
	hub.Stop()
	if err := mongoConn.Disconnect(); err != nil {
		log.Println("❌ MongoDB disconnect failed:", err)
	}

	log.Println("👋 Server stopped gracefully")
}
