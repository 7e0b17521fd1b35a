package app

import (
	httpserver "github.com/yungbote/workbook-backend/internal/http"
	"github.com/yungbote/workbook-backend/internal/observability"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

func wireRouterConfig(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) httpserver.RouterConfig {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpserver.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		Metrics:           metrics,
		CORSOrigins:       cfg.CORSOrigins,
		RequestTimeout:    cfg.RequestTimeout,
		SessionMiddleware: middleware.Session,
		SessionHandler:    handlers.Session,
		WorkbookHandler:   handlers.Workbook,
		ActivityHandler:   handlers.Activity,
		CatalogHandler:    handlers.Catalog,
		HealthHandler:     handlers.Health,
	}
}
