package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"library-management-service/internal/adapter/gin/handler"
	"library-management-service/internal/adapter/gin/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	bookHandler *handler.BookHandler,
	authHandler *handler.AuthHandler,
	authenticator middleware.Authenticator,
	redisClient *redis.Client,
	rateLimit middleware.RateLimiterConfig,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.RateLimiter(redisClient, rateLimit, log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "library-management-service",
		})
	})

	authRequired := middleware.Auth(authenticator, log)

	books := router.Group("/books")
	{
		// Public reads
		books.GET("", bookHandler.List)
		books.GET("/search", bookHandler.Search)
		books.GET("/most-borrowed", bookHandler.MostBorrowed)

		// Ownership-sensitive operations
		books.GET("/user", authRequired, bookHandler.ListOwn)
		books.POST("", authRequired, bookHandler.Create)
		books.PUT("/:id", authRequired, bookHandler.Update)
		books.DELETE("/:id", authRequired, bookHandler.Delete)

		// Shared-pool circulation: any authenticated user
		books.POST("/borrow/:id", authRequired, bookHandler.Borrow)
		books.POST("/return/:id", authRequired, bookHandler.Return)
	}

	users := router.Group("/users")
	{
		users.POST("", authHandler.Register)
		users.POST("/login", authHandler.Login)
		users.POST("/logout", authHandler.Logout)
	}

	return router
}
