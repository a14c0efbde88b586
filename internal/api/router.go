package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/pressbox/blog-api/docs"
	"github.com/pressbox/blog-api/internal/api/handler"
	"github.com/pressbox/blog-api/internal/api/middleware"
	"github.com/pressbox/blog-api/internal/core/domain"
	"github.com/pressbox/blog-api/internal/core/ports"
	"github.com/pressbox/blog-api/internal/core/service"
	"github.com/pressbox/blog-api/internal/infrastructure/config"
	mongodb "github.com/pressbox/blog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/pressbox/blog-api/internal/infrastructure/db/redis"
	"github.com/pressbox/blog-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuditRecorder, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("blog"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	profileRepo := mongodb.NewProfileRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)
	tagRepo := mongodb.NewTagRepository(db)
	grantRepo := mongodb.NewGrantRepository(db)
	groupRepo := mongodb.NewGroupRepository(db)
	blacklist := redisdb.NewTokenBlacklist(rdb)

	// --- Services ---
	authorizer := service.NewAuthorizer(groupRepo, grantRepo, audit, log)
	postGranter, err := service.NewOwnerGrants(domain.ResourcePost, grantRepo, audit)
	if err != nil {
		return nil, err
	}
	commentGranter, err := service.NewOwnerGrants(domain.ResourceComment, grantRepo, audit)
	if err != nil {
		return nil, err
	}

	authService := service.NewAuthService(userRepo, blacklist, cfg.JWTSecret, cfg.DefaultGroup, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	profileService := service.NewProfileService(profileRepo, authorizer, log)
	postService := service.NewPostService(postRepo, profileRepo, categoryRepo, tagRepo, grantRepo, authorizer, postGranter, log)
	commentService := service.NewCommentService(commentRepo, postRepo, profileRepo, grantRepo, authorizer, commentGranter, log)
	taxonomyService := service.NewTaxonomyService(categoryRepo, tagRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomyService)

	authMW := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes (no bearer token required) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/token", authHandler.Token)
	e.POST("/auth/token/refresh", authHandler.Refresh)
	e.POST("/auth/token/verify", authHandler.Verify)

	// --- Authenticated account routes ---
	account := e.Group("/auth", authMW)
	account.POST("/token/blacklist", authHandler.BlacklistToken)
	account.GET("/me", authHandler.Me)
	account.PUT("/me", authHandler.UpdateMe)
	account.PUT("/me/password", authHandler.ChangePassword)

	// --- Blog routes ---
	v1 := e.Group("/v1", authMW)

	v1.GET("/profile", profileHandler.Get)
	v1.PUT("/profile", profileHandler.Update)

	v1.POST("/posts", postHandler.Create)
	v1.GET("/posts", postHandler.List)
	v1.GET("/posts/:id", postHandler.Get)
	v1.PUT("/posts/:id", postHandler.Update)
	v1.DELETE("/posts/:id", postHandler.Delete)

	v1.POST("/comments", commentHandler.Create)
	v1.GET("/comments", commentHandler.List)
	v1.GET("/comments/:id", commentHandler.Get)
	v1.DELETE("/comments/:id", commentHandler.Delete)

	v1.GET("/categories", taxonomyHandler.ListCategories)
	v1.GET("/categories/:id", taxonomyHandler.GetCategory)
	v1.POST("/categories", taxonomyHandler.CreateCategory, adminOnly)
	v1.PUT("/categories/:id", taxonomyHandler.UpdateCategory, adminOnly)

	v1.GET("/tags", taxonomyHandler.ListTags)
	v1.GET("/tags/:id", taxonomyHandler.GetTag)
	v1.POST("/tags", taxonomyHandler.CreateTag, adminOnly)
	v1.PUT("/tags/:id", taxonomyHandler.UpdateTag, adminOnly)

	// --- Operational endpoints ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
