package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/workbook-backend/internal/data/repos"
	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

// HierarchyDeps is what every workbook-hierarchy aggregate is built from.
type HierarchyDeps struct {
	Base  BaseDeps
	Repos repos.Set
}

func (d HierarchyDeps) missingRepos() bool {
	r := d.Repos
	return r.Users == nil || r.Catalog == nil || r.Workbooks == nil || r.Weeks == nil ||
		r.Activities == nil || r.Contributors == nil || r.ActivityStaff == nil || r.WeekAttributes == nil
}

// executeWrite runs fn as one transaction and maps its error. A dry-run mutation
// runs the same body through NewDryRunRunner so nothing it wrote is kept.
func executeWrite(ctx context.Context, deps BaseDeps, op string, m domainagg.Mutation, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	runner := deps.Runner
	if m.DryRun {
		runner = NewDryRunRunner(runner)
	}
	err := runner.InTx(ctx, fn)
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeInternal) {
			deps.Log.Error("aggregate write failed", "op", op, "actor_id", m.ActorID.String(), "error", err)
		}
	} else if m.DryRun {
		status = "dry_run"
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
