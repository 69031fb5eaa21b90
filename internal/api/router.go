package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/leaguehq/draftsim/internal/api/handlers"
	"github.com/leaguehq/draftsim/internal/api/middleware"
	"github.com/leaguehq/draftsim/internal/predictor"
	"github.com/leaguehq/draftsim/internal/services"
	"github.com/leaguehq/draftsim/pkg/config"
	"github.com/leaguehq/draftsim/pkg/database"
)

// Deps bundles the shared services the routes need.
type Deps struct {
	DB          *database.DB
	RedisClient *redis.Client
	Registry    *services.SessionRegistry
	Profiles    *services.ProfileService
	Refresher   *services.ADPRefresher
	Autopick    *services.AutopickDriver
	Predictor   *predictor.Predictor
	WSHub       *services.WebSocketHub
	Config      *config.Config
	Logger      *logrus.Logger
}

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, deps Deps) {
	profileHandler := handlers.NewProfileHandler(deps.Profiles)
	adpHandler := handlers.NewADPHandler(deps.Refresher)
	draftHandler := handlers.NewDraftHandler(
		deps.Registry,
		deps.Profiles,
		deps.Refresher,
		deps.Autopick,
		deps.Predictor,
		deps.WSHub,
		deps.Config,
		deps.Logger,
	)

	// Member profile endpoints
	group.GET("/members", profileHandler.ListMembers)
	group.GET("/members/:id/profile", profileHandler.GetProfile)
	group.GET("/members/:id/model", profileHandler.GetModel)

	// ADP pool endpoints
	group.GET("/adp/pool", adpHandler.GetPool)
	group.POST("/adp/refresh", adpHandler.RefreshPool)

	// Draft session endpoints (optional auth attributes manual picks)
	draftGroup := group.Group("/drafts")
	draftGroup.Use(middleware.OptionalAuth(deps.Config.JWTSecret))
	{
		draftGroup.POST("", draftHandler.CreateDraft)
		draftGroup.GET("/:id", draftHandler.GetDraft)
		draftGroup.POST("/:id/picks", draftHandler.ApplyPick)
		draftGroup.POST("/:id/autopick", draftHandler.AutopickStep)
		draftGroup.GET("/:id/prediction", draftHandler.Predict)
		draftGroup.GET("/:id/grid", draftHandler.GetGrid)
		draftGroup.GET("/:id/export", draftHandler.ExportGridCSV)
		draftGroup.DELETE("/:id", draftHandler.DeleteDraft)
	}
}
