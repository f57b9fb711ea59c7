package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/daijiahui66/ADDoc/internal/config"
	"github.com/daijiahui66/ADDoc/internal/handlers"
	"github.com/daijiahui66/ADDoc/internal/middleware"
	"github.com/daijiahui66/ADDoc/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup 组装服务、处理器和路由。ctx 结束时后台任务（限流器清理）退出。
func Setup(ctx context.Context, db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	router := gin.New()

	metrics := middleware.NewMetrics("addoc")
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit)
	go limiter.Cleanup(ctx)

	router.Use(middleware.LoggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(metrics.Middleware())
	router.Use(limiter.Middleware())

	router.Static("/uploads", cfg.File.UploadPath)

	activityService := services.NewActivityService(db, loc)
	authService := services.NewAuthService(db, activityService)
	userService := services.NewUserService(db, activityService)
	categoryService := services.NewCategoryService(db, activityService)
	documentService := services.NewDocumentService(db, activityService)
	searchService := services.NewSearchService(db)
	statsService := services.NewStatsService(db)
	fileService := services.NewFileService(db, cfg.File, activityService)
	backupService := services.NewBackupService(db, cfg.File, cfg.Backup, activityService)

	authHandler := handlers.NewAuthHandler(authService, cfg)
	adminHandler := handlers.NewAdminHandler(userService, backupService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	searchHandler := handlers.NewSearchHandler(searchService, statsService)
	activityHandler := handlers.NewActivityHandler(activityService)
	fileHandler := handlers.NewFileHandler(fileService, cfg)

	resolver := middleware.NewIdentityResolver(authService, cfg.JWT.Secret)
	strict := middleware.AuthMiddleware(resolver)
	optional := middleware.OptionalAuthMiddleware(resolver)
	admin := middleware.AdminMiddleware()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")

	api.POST("/token", authHandler.Login)

	users := api.Group("/users")
	{
		users.GET("/me", strict, authHandler.GetMe)
		users.PUT("/me/password", strict, authHandler.ChangePassword)
		users.PUT("/me/avatar", strict, authHandler.UpdateAvatar)

		users.GET("", strict, admin, adminHandler.ListUsers)
		users.POST("", strict, admin, adminHandler.CreateUser)
		users.PUT("/:id/password", strict, admin, adminHandler.ResetPassword)
		users.PUT("/:id/role", strict, admin, adminHandler.UpdateRole)
		users.DELETE("/:id", strict, admin, adminHandler.DeleteUser)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.POST("", strict, categoryHandler.CreateCategory)
		categories.PUT("/reorder", strict, categoryHandler.ReorderCategories)
		categories.PUT("/:id", strict, categoryHandler.UpdateCategory)
		categories.DELETE("/:id", strict, categoryHandler.DeleteCategory)
	}

	subcategories := api.Group("/subcategories")
	subcategories.Use(strict)
	{
		subcategories.POST("", categoryHandler.CreateSubCategory)
		subcategories.PUT("/reorder", categoryHandler.ReorderSubCategories)
		subcategories.PUT("/:id", categoryHandler.UpdateSubCategory)
		subcategories.DELETE("/:id", categoryHandler.DeleteSubCategory)
	}

	api.GET("/structure/tree", optional, categoryHandler.GetTree)

	docs := api.Group("/docs")
	{
		docs.GET("/recent", optional, documentHandler.RecentDocuments)
		docs.POST("", strict, documentHandler.CreateDocument)
		docs.PUT("/reorder", strict, documentHandler.ReorderDocuments)
		docs.GET("/:id", optional, documentHandler.GetDocument)
		docs.PUT("/:id", strict, documentHandler.UpdateDocument)
		docs.DELETE("/:id", strict, documentHandler.DeleteDocument)
	}

	api.GET("/search", optional, searchHandler.Search)
	api.GET("/stats", searchHandler.GetStats)

	activity := api.Group("/activity")
	{
		activity.GET("/latest", activityHandler.Latest)
		activity.GET("/heatmap", strict, activityHandler.Heatmap)
	}

	api.POST("/upload", strict, fileHandler.UploadFile)
	api.GET("/backup", strict, admin, adminHandler.Backup)

	return router, nil
}
