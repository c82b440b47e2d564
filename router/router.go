package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skylark-app/feedback-backend/config"
	"github.com/skylark-app/feedback-backend/handlers"
	"github.com/skylark-app/feedback-backend/middleware"
	"github.com/skylark-app/feedback-backend/services"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config          *config.Config
	FeedbackHandler *handlers.FeedbackHandler
	IconHandler     *handlers.IconHandler
	HealthHandler   *handlers.HealthHandler
	RateLimiter     services.SubmissionLimiter
	Logger          *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Global middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and metrics routes
	r.GET("/health", deps.HealthHandler.Health)
	r.GET("/health/liveness", deps.HealthHandler.Liveness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// Feedback submission is the only write-heavy public route, so it
		// carries the per-client rate limit. The limiter is optional: with
		// no Redis configured the route runs unthrottled.
		feedbackPost := []gin.HandlerFunc{}
		if deps.RateLimiter != nil {
			window := time.Duration(deps.Config.RateLimit.WindowSeconds) * time.Second
			feedbackPost = append(feedbackPost, middleware.SubmissionRateLimiter(
				deps.RateLimiter, deps.Config.RateLimit.SubmissionsPerMinute, window))
		}
		feedbackPost = append(feedbackPost, deps.FeedbackHandler.SubmitFeedback)
		api.POST("/feedback", feedbackPost...)
		api.GET("/feedback", deps.FeedbackHandler.ListFeedback)

		// Client apps poll this to decide which icon to display.
		api.GET("/app/current-icon", deps.IconHandler.GetCurrentIcon)

		// Admin routes for managing the icon registry
		admin := api.Group("/admin")
		admin.Use(middleware.AdminKeyMiddleware(deps.Config.Server.AdminAPIKey))
		{
			admin.GET("/icons", deps.IconHandler.ListIcons)
			admin.POST("/icons/activate", deps.IconHandler.ActivateIcon)
			admin.POST("/icons/add", deps.IconHandler.AddIcon)
		}
	}

	return r
}
