package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/inkwell-labs/inkwell/internal/config"
	"github.com/inkwell-labs/inkwell/internal/handler"
	"github.com/inkwell-labs/inkwell/internal/middleware"
	"github.com/inkwell-labs/inkwell/internal/repository"
	"github.com/inkwell-labs/inkwell/internal/service"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, meiliClient meilisearch.ServiceManager) *Server {
	userRepo := repository.NewUserRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	searchSvc := service.NewSearchService(meiliClient)

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	blogSvc := service.NewBlogService(blogRepo, userRepo, searchSvc)
	blogHandler := handler.NewBlogHandler(blogSvc)

	commentSvc := service.NewCommentService(commentRepo, blogRepo, notificationRepo, notificationSvc, redisClient, cfg.RateLimitComment)
	commentHandler := handler.NewCommentHandler(commentSvc)

	likeSvc := service.NewLikeService(blogRepo, notificationRepo, notificationSvc)
	likeHandler := handler.NewLikeHandler(likeSvc)

	userSvc := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware()

	// Public routes
	router.POST("/get-blog", blogHandler.GetBlog)
	router.POST("/latest-blogs", blogHandler.LatestBlogs)
	router.POST("/all-latest-blogs-count", blogHandler.CountLatestBlogs)
	router.GET("/trending-blogs", blogHandler.TrendingBlogs)
	router.POST("/search-blogs", blogHandler.SearchBlogs)
	router.POST("/search-blogs-count", blogHandler.CountSearchBlogs)
	router.POST("/search-users", userHandler.SearchUsers)
	router.POST("/get-profile", userHandler.GetProfile)
	router.POST("/get-blog-comments", commentHandler.GetBlogComments)
	router.POST("/get-replies", commentHandler.GetReplies)

	// Protected routes
	protected := router.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/create-blog", blogHandler.CreateBlog)
		protected.POST("/user-written-blogs", blogHandler.UserWrittenBlogs)
		protected.POST("/user-written-blogs-count", blogHandler.CountUserWrittenBlogs)
		protected.POST("/delete-blog", blogHandler.DeleteBlog)

		protected.POST("/like-blog", likeHandler.LikeBlog)
		protected.POST("/isliked-by-user", likeHandler.IsLikedByUser)

		protected.POST("/add-comment", commentHandler.AddComment)
		protected.POST("/delete-comment", commentHandler.DeleteComment)

		protected.GET("/new-notification", notificationHandler.NewNotification)
		protected.POST("/notifications", notificationHandler.GetNotifications)
		protected.POST("/all-notifications-count", notificationHandler.CountNotifications)
		protected.PATCH("/notifications/seen", notificationHandler.MarkAllSeen)
		protected.GET("/notifications/stream", notificationHandler.Stream)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
