package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/workbook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/workbook-backend/internal/http/middleware"
	"github.com/yungbote/workbook-backend/internal/observability"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	Metrics     *observability.Metrics
	CORSOrigins []string
	// RequestTimeout bounds every request context. Zero disables the bound.
	RequestTimeout time.Duration

	SessionMiddleware *httpMW.SessionMiddleware

	SessionHandler  *httpH.SessionHandler
	WorkbookHandler *httpH.WorkbookHandler
	ActivityHandler *httpH.ActivityHandler
	CatalogHandler  *httpH.CatalogHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(gin.Recovery())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	if cfg.RequestTimeout > 0 {
		r.Use(httpMW.RequestTimeout(cfg.RequestTimeout))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Session (public)
		if cfg.SessionHandler != nil {
			api.POST("/session/:username", cfg.SessionHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.SessionMiddleware != nil {
			protected.Use(cfg.SessionMiddleware.RequireSession())
		}

		// Session (protected)
		if cfg.SessionHandler != nil {
			protected.GET("/session", cfg.SessionHandler.Get)
			protected.DELETE("/session", cfg.SessionHandler.Delete)
		}

		// Workbooks and weeks
		if h := cfg.WorkbookHandler; h != nil {
			protected.POST("/workbook", h.Create)
			protected.GET("/workbook", h.List)
			protected.GET("/workbook/search", h.Search)
			protected.GET("/workbook/:id", h.Get)
			protected.PATCH("/workbook/:id", h.Patch)
			protected.DELETE("/workbook/:id", h.Delete)
			protected.GET("/workbook/:id/details", h.Details)
			protected.POST("/workbook/:id/duplicate", h.Duplicate)
			protected.POST("/workbook/:id/week", h.CreateWeek)
			protected.DELETE("/workbook/:id/week/:number", h.DeleteWeek)
			protected.GET("/week", h.ListWeeks)

			protected.POST("/workbook-contributor", h.AddContributor)
			protected.DELETE("/workbook-contributor", h.RemoveContributor)
			protected.GET("/workbook-contributor", h.ListContributors)

			protected.POST("/week-graduate-attribute", h.AddWeekGraduateAttribute)
			protected.DELETE("/week-graduate-attribute", h.RemoveWeekGraduateAttribute)
			protected.GET("/week-graduate-attribute", h.ListWeekGraduateAttributes)
		}

		// Activities
		if h := cfg.ActivityHandler; h != nil {
			protected.POST("/activity", h.Create)
			protected.GET("/activity", h.List)
			protected.PATCH("/activity/:id", h.Patch)
			protected.DELETE("/activity/:id", h.Delete)

			protected.POST("/activity-staff", h.AddStaff)
			protected.DELETE("/activity-staff", h.RemoveStaff)
			protected.GET("/activity-staff", h.ListStaff)
		}

		// Reference data
		if h := cfg.CatalogHandler; h != nil {
			protected.GET("/user", h.Users)
			protected.GET("/permissions-group", h.PermissionsGroups)
			protected.GET("/learning-platform", h.LearningPlatforms)
			protected.GET("/learning-activity", h.LearningActivities)
			protected.GET("/learning-type", h.LearningTypes)
			protected.GET("/task-status", h.TaskStatuses)
			protected.GET("/location", h.Locations)
			protected.GET("/graduate-attribute", h.GraduateAttributes)
			protected.GET("/area", h.Areas)
			protected.GET("/school", h.Schools)
		}
	}

	return r
}
