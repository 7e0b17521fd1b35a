package aggregates

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	repotest "github.com/yungbote/workbook-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
)

func (e *hierarchyEnv) fields(name string) domainagg.ActivityFields {
	return domainagg.ActivityFields{
		Name:                name,
		TimeEstimateMinutes: 45,
		LocationID:          e.cat.Location.ID,
		LearningActivityID:  e.cat.LearningActivity.ID,
		LearningTypeID:      e.cat.LearningType.ID,
		TaskStatusID:        e.cat.TaskStatus.ID,
	}
}

func TestActivityCreateAppends(t *testing.T) {
	env := newHierarchyEnv(t)
	wb, _ := env.seedWorkbook(t, [][]string{{"A", "B"}, {}})

	res, err := env.activities.Create(env.ctx, domainagg.CreateActivityInput{
		Mutation:   env.as(env.lead),
		WorkbookID: wb.ID,
		WeekNumber: 1,
		Fields:     env.fields("C"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Activity.Number != 3 {
		t.Fatalf("number: want=3 got=%d", res.Activity.Number)
	}
	res, err = env.activities.Create(env.ctx, domainagg.CreateActivityInput{
		Mutation:   env.as(env.contributor),
		WorkbookID: wb.ID,
		WeekNumber: 2,
		Fields:     env.fields("X"),
	})
	if err != nil {
		t.Fatalf("Create in empty week: %v", err)
	}
	if res.Activity.Number != 1 {
		t.Fatalf("number in empty week: want=1 got=%d", res.Activity.Number)
	}
	env.assertDense(t, wb.ID)
}

func TestActivityCreateValidation(t *testing.T) {
	env := newHierarchyEnv(t)
	wb, _ := env.seedWorkbook(t, [][]string{{}})

	cases := map[string]func(*domainagg.CreateActivityInput){
		"missing week":       func(in *domainagg.CreateActivityInput) { in.WeekNumber = 4 },
		"unknown location":   func(in *domainagg.CreateActivityInput) { in.Fields.LocationID = uuid.New() },
		"unknown task state": func(in *domainagg.CreateActivityInput) { in.Fields.TaskStatusID = uuid.New() },
		"blank name":         func(in *domainagg.CreateActivityInput) { in.Fields.Name = "  " },
		"negative estimate":  func(in *domainagg.CreateActivityInput) { in.Fields.TimeEstimateMinutes = -5 },
		"unknown workbook":   func(in *domainagg.CreateActivityInput) { in.WorkbookID = uuid.New() },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := domainagg.CreateActivityInput{
				Mutation:   env.as(env.lead),
				WorkbookID: wb.ID,
				WeekNumber: 1,
				Fields:     env.fields("A"),
			}
			mutate(&in)
			_, err := env.activities.Create(env.ctx, in)
			requireCode(t, err, domainagg.CodeValidation)
		})
	}

	_, err := env.activities.Create(env.ctx, domainagg.CreateActivityInput{
		Mutation:   env.as(env.lead),
		WorkbookID: wb.ID,
		WeekNumber: 3,
		Fields:     env.fields("A"),
	})
	if msg := errorMessage(err); !strings.Contains(msg, "Week 3 does not exist") {
		t.Fatalf("message should name the missing week, got %q", msg)
	}
}

func TestActivityMoveWithShift(t *testing.T) {
	cases := []struct {
		name    string
		mover   string
		to      int
		want    []string
		shifted int
	}{
		{name: "up", mover: "D", to: 2, want: []string{"A", "D", "B", "C"}, shifted: 2},
		{name: "down", mover: "A", to: 4, want: []string{"B", "C", "D", "A"}, shifted: 3},
		{name: "adjacent", mover: "B", to: 3, want: []string{"A", "C", "B", "D"}, shifted: 1},
		{name: "to front", mover: "C", to: 1, want: []string{"C", "A", "B", "D"}, shifted: 2},
		{name: "same slot", mover: "B", to: 2, want: []string{"A", "B", "C", "D"}, shifted: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newHierarchyEnv(t)
			wb, acts := env.seedWorkbook(t, [][]string{{"A", "B", "C", "D"}, {"Z"}})

			res, err := env.activities.Update(env.ctx, domainagg.UpdateActivityInput{
				Mutation:   env.as(env.lead),
				ActivityID: acts[tc.mover].ID,
				Number:     repotest.PtrInt(tc.to),
			})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if res.Activity.Number != tc.to {
				t.Fatalf("mover number: want=%d got=%d", tc.to, res.Activity.Number)
			}
			if len(res.Shifted) != tc.shifted {
				t.Fatalf("shifted: want=%d got=%+v", tc.shifted, res.Shifted)
			}
			if got := env.layout(t, wb.ID); !reflect.DeepEqual(got, [][]string{tc.want, {"Z"}}) {
				t.Fatalf("layout: want=%v got=%v", tc.want, got)
			}
			env.assertDense(t, wb.ID)
		})
	}
}

func TestActivityMoveOutOfRange(t *testing.T) {
	env := newHierarchyEnv(t)
	wb, acts := env.seedWorkbook(t, [][]string{{"A", "B", "C", "D"}})

	for _, to := range []int{0, 5, -1} {
		_, err := env.activities.Update(env.ctx, domainagg.UpdateActivityInput{
			Mutation:   env.as(env.lead),
			ActivityID: acts["B"].ID,
			Number:     repotest.PtrInt(to),
			Name:       repotest.PtrString("renamed"),
		})
		requireCode(t, err, domainagg.CodeValidation)
		if msg := errorMessage(err); !strings.Contains(msg, "[1, 4]") {
			t.Fatalf("message should cite the range, got %q", msg)
		}
	}
	if got := env.layout(t, wb.ID); !reflect.DeepEqual(got, [][]string{{"A", "B", "C", "D"}}) {
		t.Fatalf("rejected move must not write: %v", got)
	}
}

func TestActivityUpdateFieldsAndNumberTogether(t *testing.T) {
	env := newHierarchyEnv(t)
	wb, acts := env.seedWorkbook(t, [][]string{{"A", "B", "C"}})

	res, err := env.activities.Update(env.ctx, domainagg.UpdateActivityInput{
		Mutation:            env.as(env.contributor),
		ActivityID:          acts["C"].ID,
		Number:              repotest.PtrInt(1),
		Name:                repotest.PtrString("C2"),
		TimeEstimateMinutes: repotest.PtrInt(90),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.Activity.Name != "C2" || res.Activity.TimeEstimateMinutes != 90 || res.Activity.Number != 1 {
		t.Fatalf("unexpected activity: %+v", res.Activity)
	}
	if got := env.layout(t, wb.ID); !reflect.DeepEqual(got, [][]string{{"C2", "A", "B"}}) {
		t.Fatalf("layout: %v", got)
	}

	_, err = env.activities.Update(env.ctx, domainagg.UpdateActivityInput{
		Mutation:       env.as(env.lead),
		ActivityID:     acts["A"].ID,
		LearningTypeID: repotest.PtrUUID(uuid.New()),
	})
	requireCode(t, err, domainagg.CodeValidation)
}

func TestActivityDeleteClosesGap(t *testing.T) {
	env := newHierarchyEnv(t)
	wb, acts := env.seedWorkbook(t, [][]string{{"A", "B", "C", "D"}})
	repotest.SeedStaff(t, env.ctx, env.db, acts["B"].ID, env.outsider.ID)

	res, err := env.activities.Delete(env.ctx, domainagg.DeleteActivityInput{Mutation: env.as(env.lead), ActivityID: acts["B"].ID})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	want := []domainagg.Shift{
		{ActivityID: acts["C"].ID, From: 3, To: 2},
		{ActivityID: acts["D"].ID, From: 4, To: 3},
	}
	if !reflect.DeepEqual(res.Shifted, want) {
		t.Fatalf("shifted: want=%+v got=%+v", want, res.Shifted)
	}
	if got := env.layout(t, wb.ID); !reflect.DeepEqual(got, [][]string{{"A", "C", "D"}}) {
		t.Fatalf("layout: %v", got)
	}
	if snap := env.snapshot(t, wb.ID); len(snap.Staff) != 0 {
		t.Fatalf("staff should be deleted with the activity: %v", snap.Staff)
	}

	_, err = env.activities.Delete(env.ctx, domainagg.DeleteActivityInput{Mutation: env.as(env.lead), ActivityID: acts["B"].ID})
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestActivityStaffLinks(t *testing.T) {
	env := newHierarchyEnv(t)
	_, acts := env.seedWorkbook(t, [][]string{{"A"}})
	in := domainagg.ActivityStaffInput{Mutation: env.as(env.lead), ActivityID: acts["A"].ID, StaffID: env.outsider.ID}

	if _, err := env.activities.AddStaff(env.ctx, in); err != nil {
		t.Fatalf("AddStaff: %v", err)
	}
	_, err := env.activities.AddStaff(env.ctx, in)
	requireCode(t, err, domainagg.CodeConflict)

	unknown := in
	unknown.StaffID = uuid.New()
	_, err = env.activities.AddStaff(env.ctx, unknown)
	requireCode(t, err, domainagg.CodeValidation)

	missingActivity := in
	missingActivity.ActivityID = uuid.New()
	_, err = env.activities.AddStaff(env.ctx, missingActivity)
	requireCode(t, err, domainagg.CodeValidation)

	// The staff member may remove their own assignment.
	self := in
	self.Mutation = env.as(env.outsider)
	if _, err := env.activities.RemoveStaff(env.ctx, self); err != nil {
		t.Fatalf("RemoveStaff by subject: %v", err)
	}
	_, err = env.activities.RemoveStaff(env.ctx, in)
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestActivityUpdateKeepsItsWeek(t *testing.T) {
	env := newHierarchyEnv(t)
	wb, acts := env.seedWorkbook(t, [][]string{{"A"}, {"B"}})
	other, _ := env.seedWorkbook(t, [][]string{{"X"}})

	res, err := env.activities.Update(env.ctx, domainagg.UpdateActivityInput{
		Mutation:   env.as(env.lead),
		ActivityID: acts["B"].ID,
		WeekNumber: repotest.PtrInt(2),
		WorkbookID: repotest.PtrUUID(wb.ID),
		Name:       repotest.PtrString("B2"),
	})
	if err != nil {
		t.Fatalf("echoing the current week: %v", err)
	}
	if res.Activity.Name != "B2" || res.Activity.WeekNumber != 2 {
		t.Fatalf("unexpected activity: %+v", res.Activity)
	}

	moves := map[string]domainagg.UpdateActivityInput{
		"other week":     {WeekNumber: repotest.PtrInt(1)},
		"other workbook": {WorkbookID: repotest.PtrUUID(other.ID)},
	}
	for name, in := range moves {
		t.Run(name, func(t *testing.T) {
			in.Mutation = env.as(env.lead)
			in.ActivityID = acts["B"].ID
			in.Name = repotest.PtrString("moved")
			_, err := env.activities.Update(env.ctx, in)
			requireCode(t, err, domainagg.CodeValidation)
			if got := env.layout(t, wb.ID); !reflect.DeepEqual(got, [][]string{{"A"}, {"B2"}}) {
				t.Fatalf("rejected move must not write: %v", got)
			}
		})
	}
}
