package app

import (
	"fmt"

	"github.com/yungbote/workbook-backend/internal/observability"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
	"github.com/yungbote/workbook-backend/internal/services"
	"github.com/yungbote/workbook-backend/internal/session"
)

type Services struct {
	Workbooks services.WorkbookService
	Hierarchy services.HierarchyService
	Catalog   services.CatalogService
	Sessions  services.SessionService
}

func wireServices(log *logger.Logger, cfg Config, r Repos, store session.Store, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	codec, err := session.NewCookieCodec(cfg.Session.SigningKey, cfg.Session.CookieSecure)
	if err != nil {
		return Services{}, fmt.Errorf("init session codec: %w", err)
	}
	var events services.SessionEvents
	if metrics != nil {
		events = metrics
	}
	return Services{
		Workbooks: services.NewWorkbookService(log, r),
		Hierarchy: services.NewHierarchyService(log, r),
		Catalog:   services.NewCatalogService(log, r),
		Sessions:  services.NewSessionService(log, r.Users, store, codec, events),
	}, nil
}
