package aggregates

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/workbook-backend/internal/data/repos"
	repotest "github.com/yungbote/workbook-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
)

func TestWeekCreateAppendsAndCountsWeeks(t *testing.T) {
	env := newHierarchyEnv(t)
	wb, _ := env.seedWorkbook(t, nil)

	for want := 1; want <= 3; want++ {
		res, err := env.weeks.Create(env.ctx, domainagg.CreateWeekInput{Mutation: env.as(env.lead), WorkbookID: wb.ID})
		if err != nil {
			t.Fatalf("Create week %d: %v", want, err)
		}
		if res.Week.Number != want || res.NumberOfWeeks != want {
			t.Fatalf("week %d: got number=%d count=%d", want, res.Week.Number, res.NumberOfWeeks)
		}
	}
	env.assertDense(t, wb.ID)
}

func TestWeekCreateMissingWorkbook(t *testing.T) {
	env := newHierarchyEnv(t)
	_, err := env.weeks.Create(env.ctx, domainagg.CreateWeekInput{Mutation: env.as(env.admin), WorkbookID: uuid.New()})
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestWeekDeleteCascadesAndClosesGap(t *testing.T) {
	env := newHierarchyEnv(t)
	wb, acts := env.seedWorkbook(t, [][]string{{"A1"}, {"B1", "B2"}, {"C1"}, {"D1", "D2"}})
	ga2 := repotest.SeedGraduateAttribute(t, env.ctx, env.db, "Ethical")
	repotest.SeedWeekGraduateAttribute(t, env.ctx, env.db, wb.ID, 2, env.cat.GraduateAttribute.ID)
	repotest.SeedWeekGraduateAttribute(t, env.ctx, env.db, wb.ID, 3, env.cat.GraduateAttribute.ID)
	repotest.SeedWeekGraduateAttribute(t, env.ctx, env.db, wb.ID, 4, ga2.ID)
	repotest.SeedStaff(t, env.ctx, env.db, acts["B1"].ID, env.outsider.ID)
	repotest.SeedStaff(t, env.ctx, env.db, acts["C1"].ID, env.outsider.ID)

	res, err := env.weeks.Delete(env.ctx, domainagg.DeleteWeekInput{Mutation: env.as(env.contributor), WorkbookID: wb.ID, Number: 2})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if res.NumberOfWeeks != 3 || res.DeletedActivities != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	wantRenumbered := []domainagg.Renumbered{{From: 3, To: 2}, {From: 4, To: 3}}
	if !reflect.DeepEqual(res.Renumbered, wantRenumbered) {
		t.Fatalf("renumbered: want=%+v got=%+v", wantRenumbered, res.Renumbered)
	}

	if got, want := env.layout(t, wb.ID), [][]string{{"A1"}, {"C1"}, {"D1", "D2"}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("layout: want=%v got=%v", want, got)
	}
	snap := env.snapshot(t, wb.ID)
	wantAttrs := []string{weekKey(2, env.cat.GraduateAttribute.ID.String()), weekKey(3, ga2.ID.String())}
	if !reflect.DeepEqual(snap.Attributes, sorted(wantAttrs)) {
		t.Fatalf("attributes: want=%v got=%v", wantAttrs, snap.Attributes)
	}
	if want := []string{"C1/" + env.outsider.ID.String()}; !reflect.DeepEqual(snap.Staff, want) {
		t.Fatalf("staff: want=%v got=%v", want, snap.Staff)
	}
	staff, err := env.repos.ActivityStaff.List(env.dbc(), repos.StaffFilter{ActivityID: &acts["B1"].ID})
	if err != nil || len(staff) != 0 {
		t.Fatalf("staff of deleted activity should be gone: %v %v", staff, err)
	}
	env.assertDense(t, wb.ID)
}

func TestWeekDeleteLastWeekRenumbersNothing(t *testing.T) {
	env := newHierarchyEnv(t)
	wb, _ := env.seedWorkbook(t, [][]string{{"A1"}, {"B1"}})

	res, err := env.weeks.Delete(env.ctx, domainagg.DeleteWeekInput{Mutation: env.as(env.lead), WorkbookID: wb.ID, Number: 2})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(res.Renumbered) != 0 || res.NumberOfWeeks != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	env.assertDense(t, wb.ID)
}

func TestWeekDeleteMissingWeek(t *testing.T) {
	env := newHierarchyEnv(t)
	wb, _ := env.seedWorkbook(t, [][]string{{"A1"}})

	_, err := env.weeks.Delete(env.ctx, domainagg.DeleteWeekInput{Mutation: env.as(env.lead), WorkbookID: wb.ID, Number: 5})
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestWeekGraduateAttributeLinks(t *testing.T) {
	env := newHierarchyEnv(t)
	wb, _ := env.seedWorkbook(t, [][]string{{}, {}})
	in := domainagg.WeekGraduateAttributeInput{
		Mutation:            env.as(env.contributor),
		WorkbookID:          wb.ID,
		WeekNumber:          2,
		GraduateAttributeID: env.cat.GraduateAttribute.ID,
	}

	if _, err := env.weeks.AddGraduateAttribute(env.ctx, in); err != nil {
		t.Fatalf("AddGraduateAttribute: %v", err)
	}
	_, err := env.weeks.AddGraduateAttribute(env.ctx, in)
	requireCode(t, err, domainagg.CodeConflict)

	missingWeek := in
	missingWeek.WeekNumber = 3
	_, err = env.weeks.AddGraduateAttribute(env.ctx, missingWeek)
	requireCode(t, err, domainagg.CodeValidation)

	missingAttr := in
	missingAttr.GraduateAttributeID = uuid.New()
	_, err = env.weeks.AddGraduateAttribute(env.ctx, missingAttr)
	requireCode(t, err, domainagg.CodeValidation)

	if _, err := env.weeks.RemoveGraduateAttribute(env.ctx, in); err != nil {
		t.Fatalf("RemoveGraduateAttribute: %v", err)
	}
	_, err = env.weeks.RemoveGraduateAttribute(env.ctx, in)
	requireCode(t, err, domainagg.CodeNotFound)
}
