package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/workbook-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
	"github.com/yungbote/workbook-backend/internal/observability"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

type Aggregates struct {
	Workbooks  domainagg.WorkbookAggregate
	Weeks      domainagg.WeekAggregate
	Activities domainagg.ActivityAggregate
}

func wireAggregates(db *gorm.DB, log *logger.Logger, r Repos, metrics *observability.Metrics) Aggregates {
	log.Info("Wiring aggregates...")
	deps := aggregates.HierarchyDeps{
		Base: aggregates.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: aggregates.NewObservabilityHooks(metrics),
		},
		Repos: r,
	}
	return Aggregates{
		Workbooks:  aggregates.NewWorkbookAggregate(deps),
		Weeks:      aggregates.NewWeekAggregate(deps),
		Activities: aggregates.NewActivityAggregate(deps),
	}
}
