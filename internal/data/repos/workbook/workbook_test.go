package workbook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/workbook-backend/internal/data/repos/testutil"
	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
)

type repoEnv struct {
	ctx  context.Context
	db   *gorm.DB
	cat  testutil.Catalog
	lead *types.User
}

func newRepoEnv(t *testing.T) *repoEnv {
	t.Helper()
	db := testutil.DB(t)
	ctx := context.Background()
	return &repoEnv{
		ctx:  ctx,
		db:   db,
		cat:  testutil.SeedCatalog(t, ctx, db),
		lead: testutil.SeedUser(t, ctx, db, "lead"),
	}
}

func (e *repoEnv) dbc() dbctx.Context { return dbctx.Context{Ctx: e.ctx} }

func TestWeekRenumberAndDelete(t *testing.T) {
	env := newRepoEnv(t)
	wb := testutil.SeedWorkbook(t, env.ctx, env.db, env.lead.ID, env.cat, 3)
	repo := NewWeekRepo(env.db, testutil.Logger(t))

	if err := repo.Delete(env.dbc(), wb.ID, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Renumber(env.dbc(), wb.ID, 3, 2); err != nil {
		t.Fatalf("Renumber: %v", err)
	}
	err := repo.Renumber(env.dbc(), wb.ID, 3, 2)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Renumber of a missing week: want ErrRecordNotFound, got %v", err)
	}

	weeks, err := repo.ListByWorkbook(env.dbc(), wb.ID)
	if err != nil || len(weeks) != 2 || weeks[0].Number != 1 || weeks[1].Number != 2 {
		t.Fatalf("weeks: %+v %v", weeks, err)
	}
	if w, err := repo.Get(env.dbc(), wb.ID, 3); err != nil || w != nil {
		t.Fatalf("Get (missing): %+v %v", w, err)
	}
	n, err := repo.DeleteByWorkbook(env.dbc(), wb.ID)
	if err != nil || n != 2 {
		t.Fatalf("DeleteByWorkbook: %d %v", n, err)
	}
}

func TestActivityOrderingAndMoves(t *testing.T) {
	env := newRepoEnv(t)
	wb := testutil.SeedWorkbook(t, env.ctx, env.db, env.lead.ID, env.cat, 2)
	b := testutil.SeedActivity(t, env.ctx, env.db, wb.ID, 1, 2, "B", env.cat)
	a := testutil.SeedActivity(t, env.ctx, env.db, wb.ID, 1, 1, "A", env.cat)
	testutil.SeedActivity(t, env.ctx, env.db, wb.ID, 2, 1, "C", env.cat)
	repo := NewActivityRepo(env.db, testutil.Logger(t))

	week1, err := repo.ListByWeek(env.dbc(), wb.ID, 1)
	if err != nil || len(week1) != 2 || week1[0].ID != a.ID || week1[1].ID != b.ID {
		t.Fatalf("ListByWeek should order by number: %+v %v", week1, err)
	}

	moved, err := repo.MoveToWeekNumber(env.dbc(), wb.ID, 2, 5)
	if err != nil || moved != 1 {
		t.Fatalf("MoveToWeekNumber: %d %v", moved, err)
	}
	week := 5
	got, err := repo.List(env.dbc(), ActivityFilter{WorkbookID: &wb.ID, WeekNumber: &week})
	if err != nil || len(got) != 1 || got[0].Name != "C" {
		t.Fatalf("List by week: %+v %v", got, err)
	}

	if err := repo.SetNumber(env.dbc(), uuid.New(), 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("SetNumber (missing): want ErrRecordNotFound, got %v", err)
	}
	if err := repo.UpdateFields(env.dbc(), a.ID, map[string]interface{}{"name": "A2"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if row, err := repo.GetByID(env.dbc(), a.ID); err != nil || row == nil || row.Name != "A2" {
		t.Fatalf("GetByID after update: %+v %v", row, err)
	}
}

func TestWorkbookSearchFilters(t *testing.T) {
	env := newRepoEnv(t)
	other := testutil.SeedUser(t, env.ctx, env.db, "other")
	mech := testutil.SeedWorkbook(t, env.ctx, env.db, env.lead.ID, env.cat, 0)
	late := testutil.SeedWorkbook(t, env.ctx, env.db, other.ID, env.cat, 0)
	if err := env.db.Model(late).Updates(map[string]interface{}{
		"course_name": "Optics",
		"start_date":  testutil.Date(2025, time.February, 24),
		"end_date":    testutil.Date(2025, time.May, 30),
		"area_id":     nil,
	}).Error; err != nil {
		t.Fatalf("update: %v", err)
	}
	repo := NewWorkbookRepo(env.db, testutil.Logger(t))

	afterT := time.Time(testutil.Date(2025, time.January, 1))
	cases := []struct {
		name string
		f    WorkbookFilter
		want []uuid.UUID
	}{
		{name: "all", f: WorkbookFilter{}, want: []uuid.UUID{mech.ID, late.ID}},
		{name: "starts after", f: WorkbookFilter{StartsAfter: &afterT}, want: []uuid.UUID{late.ID}},
		{name: "ends before", f: WorkbookFilter{EndsBefore: &afterT}, want: []uuid.UUID{mech.ID}},
		{name: "area", f: WorkbookFilter{AreaID: &env.cat.Area.ID}, want: []uuid.UUID{mech.ID}},
		{name: "lead", f: WorkbookFilter{CourseLeadIDs: []uuid.UUID{other.ID}}, want: []uuid.UUID{late.ID}},
		{name: "no leads matched", f: WorkbookFilter{CourseLeadIDs: []uuid.UUID{}}, want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.Search(env.dbc(), tc.f)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("want=%d got=%d", len(tc.want), len(got))
			}
			for i := range got {
				if got[i].ID != tc.want[i] {
					t.Fatalf("row %d: want=%s got=%s", i, tc.want[i], got[i].ID)
				}
			}
		})
	}
}

func TestLinkRows(t *testing.T) {
	env := newRepoEnv(t)
	helper := testutil.SeedUser(t, env.ctx, env.db, "helper")
	wb := testutil.SeedWorkbook(t, env.ctx, env.db, env.lead.ID, env.cat, 2)
	act := testutil.SeedActivity(t, env.ctx, env.db, wb.ID, 1, 1, "A", env.cat)
	log := testutil.Logger(t)

	contributors := NewWorkbookContributorRepo(env.db, log)
	if _, err := contributors.Create(env.dbc(), []*types.WorkbookContributor{{WorkbookID: wb.ID, ContributorID: helper.ID}}); err != nil {
		t.Fatalf("contributor Create: %v", err)
	}
	ids, err := contributors.ContributorIDs(env.dbc(), wb.ID)
	if err != nil || len(ids) != 1 || ids[0] != helper.ID {
		t.Fatalf("ContributorIDs: %v %v", ids, err)
	}

	staff := NewActivityStaffRepo(env.db, log)
	if _, err := staff.Create(env.dbc(), []*types.ActivityStaff{{ActivityID: act.ID, StaffID: helper.ID}}); err != nil {
		t.Fatalf("staff Create: %v", err)
	}
	n, err := staff.DeleteByActivityIDs(env.dbc(), []uuid.UUID{act.ID})
	if err != nil || n != 1 {
		t.Fatalf("DeleteByActivityIDs: %d %v", n, err)
	}

	attrs := NewWeekGraduateAttributeRepo(env.db, log)
	testutil.SeedWeekGraduateAttribute(t, env.ctx, env.db, wb.ID, 2, env.cat.GraduateAttribute.ID)
	moved, err := attrs.Renumber(env.dbc(), wb.ID, 2, 1)
	if err != nil || moved != 1 {
		t.Fatalf("Renumber: %d %v", moved, err)
	}
	row, err := attrs.Get(env.dbc(), wb.ID, 1, env.cat.GraduateAttribute.ID)
	if err != nil || row == nil {
		t.Fatalf("Get after renumber: %+v %v", row, err)
	}
}
