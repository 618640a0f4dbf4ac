package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/skilly-social/backend/internal/handlers"
	"github.com/skilly-social/backend/internal/middleware"
	"github.com/skilly-social/backend/internal/oauth"
	"github.com/skilly-social/backend/internal/realtime"
	"github.com/skilly-social/backend/internal/repositories"
	"github.com/skilly-social/backend/pkg/cloudinary"
	"github.com/skilly-social/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// It returns the realtime notifier so the websocket hub can push initial
// state on join.
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *mongo.Database, mediaStore cloudinary.MediaStore, hub *realtime.Hub) *realtime.Notifier {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)
	planRepo := repositories.NewMongoLearningPlanRepository(db)

	notifier := realtime.NewNotifier(notificationRepo, userRepo, hub)

	// --- OAuth providers ---
	providers := map[string]oauth.Provider{}
	if cfg.GoogleClientID != "" {
		providers["google"] = oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleSecret, cfg.GoogleRedirect)
	}
	if cfg.GithubClientID != "" {
		providers["github"] = oauth.NewGithubProvider(cfg.GithubClientID, cfg.GithubSecret, cfg.GithubRedirect)
	}

	// --- Unprotected routes ---
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(userRepo, providers, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	userHandler := handlers.NewUserHandler(userRepo, mediaStore)
	publicUsers := e.Group("/api/users")
	userHandler.RegisterPublicUserRoutes(publicUsers)

	searchGroup := e.Group("/search")
	searchHandler := handlers.NewSearchHandler(userRepo, postRepo)
	searchHandler.RegisterSearchRoutes(searchGroup)
	log.Println("Search routes configured.")

	// --- Protected routes (require JWT authentication) ---
	jwtGuard := middleware.JWTAuthMiddleware(cfg.JWTSecret)

	users := e.Group("/api/users", jwtGuard)
	userHandler.RegisterUserRoutes(users)

	followHandler := handlers.NewFollowHandler(userRepo)
	followHandler.RegisterFollowRoutes(users)
	log.Println("User routes configured.")

	posts := e.Group("/api/posts", jwtGuard)
	postHandler := handlers.NewPostHandler(postRepo, userRepo, notificationRepo, mediaStore)
	postHandler.RegisterPostRoutes(posts)

	likeHandler := handlers.NewLikeHandler(postRepo, notifier)
	likeHandler.RegisterLikeRoutes(posts)

	commentHandler := handlers.NewCommentHandler(postRepo, notifier)
	commentHandler.RegisterCommentRoutes(posts)

	feedHandler := handlers.NewFeedHandler(postRepo)
	feedHandler.RegisterFeedRoutes(posts)
	log.Println("Post routes configured.")

	notifications := e.Group("/api/notifications", jwtGuard)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, notifier)
	notificationHandler.RegisterNotificationRoutes(notifications)
	log.Println("Notification routes configured.")

	plans := e.Group("/api/learning-plans", jwtGuard)
	planHandler := handlers.NewLearningPlanHandler(planRepo, userRepo)
	planHandler.RegisterLearningPlanRoutes(plans)
	log.Println("Learning plan routes configured.")

	return notifier
}
