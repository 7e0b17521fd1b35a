package aggregates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/workbook-backend/internal/data/repos"
	repotest "github.com/yungbote/workbook-backend/internal/data/repos/testutil"
	types "github.com/yungbote/workbook-backend/internal/domain"
	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
	"github.com/yungbote/workbook-backend/internal/ordinal"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
)

// hierarchyEnv is a migrated sqlite database with one user per role and the
// three hierarchy aggregates wired over it.
type hierarchyEnv struct {
	ctx   context.Context
	db    *gorm.DB
	repos repos.Set
	cat   repotest.Catalog

	admin       *types.User
	lead        *types.User
	contributor *types.User
	outsider    *types.User

	workbooks  domainagg.WorkbookAggregate
	weeks      domainagg.WeekAggregate
	activities domainagg.ActivityAggregate
}

func newHierarchyEnv(t *testing.T) *hierarchyEnv {
	t.Helper()
	db := repotest.DB(t)
	ctx := context.Background()
	log := repotest.Logger(t)
	set := repos.NewSet(db, log)
	deps := HierarchyDeps{Base: BaseDeps{DB: db, Log: log}, Repos: set}
	return &hierarchyEnv{
		ctx:         ctx,
		db:          db,
		repos:       set,
		cat:         repotest.SeedCatalog(t, ctx, db),
		admin:       repotest.SeedAdmin(t, ctx, db, "admin"),
		lead:        repotest.SeedUser(t, ctx, db, "lead"),
		contributor: repotest.SeedUser(t, ctx, db, "contributor"),
		outsider:    repotest.SeedUser(t, ctx, db, "outsider"),
		workbooks:   NewWorkbookAggregate(deps),
		weeks:       NewWeekAggregate(deps),
		activities:  NewActivityAggregate(deps),
	}
}

// seedWorkbook creates a workbook led by env.lead with env.contributor attached
// and the named activities placed week by week.
func (e *hierarchyEnv) seedWorkbook(t *testing.T, weeks [][]string) (*types.Workbook, map[string]*types.Activity) {
	t.Helper()
	wb := repotest.SeedWorkbook(t, e.ctx, e.db, e.lead.ID, e.cat, len(weeks))
	repotest.SeedContributor(t, e.ctx, e.db, wb.ID, e.contributor.ID)
	acts := map[string]*types.Activity{}
	for i, names := range weeks {
		for j, name := range names {
			acts[name] = repotest.SeedActivity(t, e.ctx, e.db, wb.ID, i+1, j+1, name, e.cat)
		}
	}
	return wb, acts
}

func (e *hierarchyEnv) as(u *types.User) domainagg.Mutation {
	return domainagg.Mutation{ActorID: u.ID}
}

func (e *hierarchyEnv) dbc() dbctx.Context { return dbctx.Context{Ctx: e.ctx} }

// layout returns activity names per week, ordered by number.
func (e *hierarchyEnv) layout(t *testing.T, workbookID uuid.UUID) [][]string {
	t.Helper()
	weeks, err := e.repos.Weeks.ListByWorkbook(e.dbc(), workbookID)
	if err != nil {
		t.Fatalf("list weeks: %v", err)
	}
	out := make([][]string, len(weeks))
	for i, w := range weeks {
		acts, err := e.repos.Activities.ListByWeek(e.dbc(), workbookID, w.Number)
		if err != nil {
			t.Fatalf("list activities: %v", err)
		}
		names := make([]string, 0, len(acts))
		for _, a := range acts {
			names = append(names, a.Name)
		}
		out[i] = names
	}
	return out
}

// assertDense fails unless numberOfWeeks matches the week count and every
// ordinal sequence under the workbook is 1..n.
func (e *hierarchyEnv) assertDense(t *testing.T, workbookID uuid.UUID) {
	t.Helper()
	wb, err := e.repos.Workbooks.GetByID(e.dbc(), workbookID)
	if err != nil || wb == nil {
		t.Fatalf("get workbook: %v %v", wb, err)
	}
	weeks, err := e.repos.Weeks.ListByWorkbook(e.dbc(), workbookID)
	if err != nil {
		t.Fatalf("list weeks: %v", err)
	}
	if len(weeks) != wb.NumberOfWeeks {
		t.Fatalf("number_of_weeks=%d but %d weeks exist", wb.NumberOfWeeks, len(weeks))
	}
	if err := ordinal.Validate(weekEntries(weeks)); err != nil {
		t.Fatalf("weeks: %v", err)
	}
	acts, err := e.repos.Activities.ListByWorkbook(e.dbc(), workbookID)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	for week, group := range groupByWeek(acts) {
		if week < 1 || week > len(weeks) {
			t.Fatalf("activity references missing week %d", week)
		}
		if err := ordinal.Validate(activityEntries(group)); err != nil {
			t.Fatalf("week %d activities: %v", week, err)
		}
	}
	attrs, err := e.repos.WeekAttributes.List(e.dbc(), repos.WeekGraduateAttributeFilter{WorkbookID: &workbookID})
	if err != nil {
		t.Fatalf("list week attributes: %v", err)
	}
	for _, ga := range attrs {
		if ga.WeekNumber < 1 || ga.WeekNumber > len(weeks) {
			t.Fatalf("graduate attribute references missing week %d", ga.WeekNumber)
		}
	}
}

// snapshot is a comparable dump of everything under a workbook.
type snapshot struct {
	NumberOfWeeks int
	Layout        [][]string
	Attributes    []string
	Staff         []string
	Contributors  []string
}

func (e *hierarchyEnv) snapshot(t *testing.T, workbookID uuid.UUID) snapshot {
	t.Helper()
	wb, err := e.repos.Workbooks.GetByID(e.dbc(), workbookID)
	if err != nil || wb == nil {
		t.Fatalf("get workbook: %v %v", wb, err)
	}
	s := snapshot{NumberOfWeeks: wb.NumberOfWeeks, Layout: e.layout(t, workbookID)}

	attrs, err := e.repos.WeekAttributes.List(e.dbc(), repos.WeekGraduateAttributeFilter{WorkbookID: &workbookID})
	if err != nil {
		t.Fatalf("list week attributes: %v", err)
	}
	for _, ga := range attrs {
		s.Attributes = append(s.Attributes, weekKey(ga.WeekNumber, ga.GraduateAttributeID.String()))
	}
	acts, err := e.repos.Activities.ListByWorkbook(e.dbc(), workbookID)
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	names := map[uuid.UUID]string{}
	for _, a := range acts {
		names[a.ID] = a.Name
	}
	staff, err := e.repos.ActivityStaff.ListByActivityIDs(e.dbc(), activityIDs(acts))
	if err != nil {
		t.Fatalf("list staff: %v", err)
	}
	for _, st := range staff {
		s.Staff = append(s.Staff, names[st.ActivityID]+"/"+st.StaffID.String())
	}
	contributors, err := e.repos.Contributors.ContributorIDs(e.dbc(), workbookID)
	if err != nil {
		t.Fatalf("list contributors: %v", err)
	}
	for _, c := range contributors {
		s.Contributors = append(s.Contributors, c.String())
	}
	sort.Strings(s.Attributes)
	sort.Strings(s.Staff)
	sort.Strings(s.Contributors)
	return s
}

func weekKey(week int, id string) string {
	return fmt.Sprintf("%d:%s", week, id)
}

func requireCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	if !domainagg.IsCode(err, code) {
		t.Fatalf("expected %s, got %q (%v)", code, domainagg.CodeOf(err), err)
	}
}

func errorMessage(err error) string {
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return aggErr.Message
	}
	return ""
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
