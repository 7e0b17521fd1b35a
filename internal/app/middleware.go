package app

import (
	httpMW "github.com/yungbote/workbook-backend/internal/http/middleware"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

type Middleware struct {
	Session *httpMW.SessionMiddleware
}

func wireMiddleware(log *logger.Logger, svc Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Session: httpMW.NewSessionMiddleware(log, svc.Sessions),
	}
}
