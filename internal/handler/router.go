package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kidfocus/kidfocus-api/internal/middleware"
	"github.com/kidfocus/kidfocus-api/internal/service"
)

// Handlers bundles every HTTP handler mounted by the API.
type Handlers struct {
	Auth        *AuthHandler
	Children    *ChildHandler
	Sessions    *SessionHandler
	Dashboard   *DashboardHandler
	Suggestions *SuggestionHandler
	Reports     *ReportHandler
	Videos      *VideoHandler
	Metrics     *MetricsHandler
}

// RegisterRoutes mounts all endpoints under the given prefix. Everything
// except registration, login and the health/metrics endpoints requires a
// valid access token.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(auth))

	protected.GET("/auth/me", h.Auth.Me)
	protected.POST("/auth/refresh", h.Auth.Refresh)
	protected.PUT("/auth/profile", h.Auth.UpdateProfile)
	protected.DELETE("/auth/account", h.Auth.DeleteAccount)

	protected.POST("/children", h.Children.Create)
	protected.GET("/children", h.Children.List)

	// every child-scoped endpoint shares the :childId wildcard
	child := protected.Group("/children/:childId")
	child.GET("", h.Children.Get)
	child.PUT("", h.Children.Update)
	child.DELETE("", h.Children.Delete)
	child.GET("/dashboard", h.Dashboard.Overview)
	child.GET("/analysis", h.Dashboard.Analysis)
	child.GET("/calendar", h.Dashboard.Calendar)
	child.GET("/suggestions", h.Suggestions.Get)
	child.POST("/suggestions/advice", h.Suggestions.GenerateAdvice)
	child.GET("/report", h.Reports.Download)
	child.DELETE("/sessions", h.Sessions.ResetHistory)
	child.GET("/sessions/export", h.Sessions.ExportCSV)

	protected.POST("/sessions", h.Sessions.Start)
	protected.GET("/sessions", h.Sessions.List)
	protected.GET("/sessions/active", h.Sessions.Active)
	protected.POST("/sessions/:id/emotions", h.Sessions.RecordEmotion)
	protected.POST("/sessions/:id/end", h.Sessions.End)
	protected.DELETE("/sessions/:id", h.Sessions.Delete)

	protected.GET("/videos/:subject", h.Videos.Catalog)
	protected.GET("/videos/:subject/:filename", h.Videos.Stream)
	protected.POST("/watches", h.Videos.StartWatch)
	protected.POST("/watches/end", h.Videos.EndWatch)
	protected.GET("/watches", h.Videos.SessionWatches)

	protected.GET("/system/metrics", h.Metrics.Snapshot)
}
