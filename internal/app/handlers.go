package app

import (
	"fmt"

	"gorm.io/gorm"

	httpH "github.com/yungbote/workbook-backend/internal/http/handlers"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Session  *httpH.SessionHandler
	Workbook *httpH.WorkbookHandler
	Activity *httpH.ActivityHandler
	Catalog  *httpH.CatalogHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, aggs Aggregates, svc Services) (Handlers, error) {
	log.Info("Wiring handlers...")
	sqlDB, err := db.DB()
	if err != nil {
		return Handlers{}, fmt.Errorf("health handler: %w", err)
	}
	return Handlers{
		Health:  httpH.NewHealthHandler(sqlDB),
		Session: httpH.NewSessionHandler(svc.Sessions),
		Workbook: httpH.NewWorkbookHandlerWithDeps(httpH.WorkbookHandlerDeps{
			Workbooks: aggs.Workbooks,
			Weeks:     aggs.Weeks,
			Reads:     svc.Workbooks,
			Hierarchy: svc.Hierarchy,
		}),
		Activity: httpH.NewActivityHandler(aggs.Activities, svc.Hierarchy),
		Catalog:  httpH.NewCatalogHandler(svc.Catalog),
	}, nil
}
