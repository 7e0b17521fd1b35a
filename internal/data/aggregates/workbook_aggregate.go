package aggregates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/workbook-backend/internal/authz"
	"github.com/yungbote/workbook-backend/internal/data/repos"
	types "github.com/yungbote/workbook-backend/internal/domain"
	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
	"github.com/yungbote/workbook-backend/internal/ordinal"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
)

type workbookAggregate struct {
	deps HierarchyDeps
}

func NewWorkbookAggregate(deps HierarchyDeps) domainagg.WorkbookAggregate {
	deps.Base = deps.Base.withDefaults()
	return &workbookAggregate{deps: deps}
}

func (a *workbookAggregate) Contract() domainagg.Contract {
	return domainagg.WorkbookAggregateContract
}

func (a *workbookAggregate) Create(ctx context.Context, in domainagg.CreateWorkbookInput) (domainagg.WorkbookResult, error) {
	const op = "Workbook.Agg.Create"
	var out domainagg.WorkbookResult
	name := strings.TrimSpace(in.CourseName)
	switch {
	case name == "":
		return out, domainagg.NewError(domainagg.CodeValidation, op, "course name is required", nil)
	case in.LearningPlatformID == uuid.Nil:
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing learning_platform_id", nil)
	case in.StartDate.IsZero() || in.EndDate.IsZero():
		return out, domainagg.NewError(domainagg.CodeValidation, op, "start and end dates are required", nil)
	}
	if err := checkDates(in.StartDate, in.EndDate); err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), nil)
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "workbook aggregate repos not configured", nil)
	}
	g := guard{op: op, repos: a.deps.Repos}

	err := executeWrite(ctx, a.deps.Base, op, in.Mutation, func(dbc dbctx.Context) error {
		p, err := g.principal(dbc, in.ActorID)
		if err != nil {
			return err
		}
		if err := authz.Authorize(p, authz.ActionWorkbookCreate, authz.Resource{}); err != nil {
			return domainagg.PermissionDenied(op)
		}

		leadID := in.CourseLeadID
		if leadID == uuid.Nil {
			leadID = p.UserID
		}
		if _, err := g.requireUser(dbc, "Course lead", leadID); err != nil {
			return err
		}
		if err := g.requireWorkbookRefs(dbc, &in.LearningPlatformID, in.AreaID, in.SchoolID); err != nil {
			return err
		}

		wb := &types.Workbook{
			StartDate:          datatypes.Date(in.StartDate),
			EndDate:            datatypes.Date(in.EndDate),
			CourseName:         name,
			CourseLeadID:       leadID,
			LearningPlatformID: in.LearningPlatformID,
			AreaID:             nonNil(in.AreaID),
			SchoolID:           nonNil(in.SchoolID),
		}
		if _, err := a.deps.Repos.Workbooks.Create(dbc, []*types.Workbook{wb}); err != nil {
			return err
		}
		out.Workbook = *wb
		return nil
	})
	return out, err
}

func (a *workbookAggregate) Update(ctx context.Context, in domainagg.UpdateWorkbookInput) (domainagg.WorkbookResult, error) {
	const op = "Workbook.Agg.Update"
	var out domainagg.WorkbookResult
	if in.WorkbookID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing workbook_id", nil)
	}
	if in.CourseName != nil && strings.TrimSpace(*in.CourseName) == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "course name must not be empty", nil)
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "workbook aggregate repos not configured", nil)
	}
	g := guard{op: op, repos: a.deps.Repos}
	r := a.deps.Repos

	err := executeWrite(ctx, a.deps.Base, op, in.Mutation, func(dbc dbctx.Context) error {
		p, err := g.principal(dbc, in.ActorID)
		if err != nil {
			return err
		}
		scope, err := g.lockWorkbook(dbc, in.WorkbookID)
		if err != nil {
			return err
		}
		if err := g.authorize(p, authz.ActionWorkbookEdit, scope, uuid.Nil); err != nil {
			return err
		}

		wb := scope.Workbook
		start, end := time.Time(wb.StartDate), time.Time(wb.EndDate)
		if in.StartDate != nil {
			start = *in.StartDate
		}
		if in.EndDate != nil {
			end = *in.EndDate
		}
		if err := checkDates(start, end); err != nil {
			return ValidationError(err.Error())
		}
		if in.CourseLeadID != nil {
			if _, err := g.requireUser(dbc, "Course lead", *in.CourseLeadID); err != nil {
				return err
			}
		}
		if err := g.requireWorkbookRefs(dbc, in.LearningPlatformID, in.AreaID, in.SchoolID); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.StartDate != nil {
			updates["start_date"] = datatypes.Date(*in.StartDate)
		}
		if in.EndDate != nil {
			updates["end_date"] = datatypes.Date(*in.EndDate)
		}
		if in.CourseName != nil {
			updates["course_name"] = strings.TrimSpace(*in.CourseName)
		}
		if in.CourseLeadID != nil {
			updates["course_lead_id"] = *in.CourseLeadID
		}
		if in.LearningPlatformID != nil {
			updates["learning_platform_id"] = *in.LearningPlatformID
		}
		if in.AreaID != nil {
			updates["area_id"] = nullableID(in.AreaID)
		}
		if in.SchoolID != nil {
			updates["school_id"] = nullableID(in.SchoolID)
		}
		if err := r.Workbooks.UpdateFields(dbc, wb.ID, updates); err != nil {
			return err
		}

		row, err := r.Workbooks.GetByID(dbc, wb.ID)
		fresh, err := requireFound(op, fmt.Sprintf("Workbook %s", wb.ID), row, err)
		if err != nil {
			return err
		}
		out.Workbook = *fresh
		return nil
	})
	return out, err
}

// Delete is admin only; the role check runs before the workbook is read so a
// non-admin learns nothing about which workbooks exist.
func (a *workbookAggregate) Delete(ctx context.Context, in domainagg.DeleteWorkbookInput) (domainagg.DeleteWorkbookResult, error) {
	const op = "Workbook.Agg.Delete"
	var out domainagg.DeleteWorkbookResult
	if in.WorkbookID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing workbook_id", nil)
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "workbook aggregate repos not configured", nil)
	}
	g := guard{op: op, repos: a.deps.Repos}
	r := a.deps.Repos

	err := executeWrite(ctx, a.deps.Base, op, in.Mutation, func(dbc dbctx.Context) error {
		p, err := g.principal(dbc, in.ActorID)
		if err != nil {
			return err
		}
		if err := authz.Authorize(p, authz.ActionWorkbookDelete, authz.Resource{}); err != nil {
			return domainagg.PermissionDenied(op)
		}
		scope, err := g.lockWorkbook(dbc, in.WorkbookID)
		if err != nil {
			return err
		}
		id := scope.Workbook.ID

		acts, err := r.Activities.ListByWorkbook(dbc, id)
		if err != nil {
			return err
		}
		if _, err := r.ActivityStaff.DeleteByActivityIDs(dbc, activityIDs(acts)); err != nil {
			return err
		}
		if _, err := r.Activities.DeleteByWorkbook(dbc, id); err != nil {
			return err
		}
		if _, err := r.WeekAttributes.DeleteByWorkbook(dbc, id); err != nil {
			return err
		}
		weeks, err := r.Weeks.DeleteByWorkbook(dbc, id)
		if err != nil {
			return err
		}
		if _, err := r.Contributors.DeleteByWorkbook(dbc, id); err != nil {
			return err
		}
		if err := r.Workbooks.DeleteByID(dbc, id); err != nil {
			return err
		}
		out = domainagg.DeleteWorkbookResult{
			WorkbookID:        id,
			DeletedWeeks:      int(weeks),
			DeletedActivities: len(acts),
		}
		return nil
	})
	return out, err
}

// Duplicate copies the source tree under the acting user. Week and activity
// numbers are copied verbatim, so the source must satisfy the density rules.
func (a *workbookAggregate) Duplicate(ctx context.Context, in domainagg.DuplicateWorkbookInput) (domainagg.WorkbookResult, error) {
	const op = "Workbook.Agg.Duplicate"
	var out domainagg.WorkbookResult
	if in.SourceID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing source workbook id", nil)
	}
	suffix := domainagg.DefaultDuplicateSuffix
	if in.NameSuffix != nil {
		suffix = *in.NameSuffix
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "workbook aggregate repos not configured", nil)
	}
	g := guard{op: op, repos: a.deps.Repos}
	r := a.deps.Repos

	err := executeWrite(ctx, a.deps.Base, op, in.Mutation, func(dbc dbctx.Context) error {
		p, err := g.principal(dbc, in.ActorID)
		if err != nil {
			return err
		}
		if err := authz.Authorize(p, authz.ActionWorkbookDuplicate, authz.Resource{}); err != nil {
			return domainagg.PermissionDenied(op)
		}
		scope, err := g.lockWorkbook(dbc, in.SourceID)
		if err != nil {
			return err
		}
		src := scope.Workbook

		weeks, err := r.Weeks.ListByWorkbook(dbc, src.ID)
		if err != nil {
			return err
		}
		if err := ordinal.Validate(weekEntries(weeks)); err != nil {
			return err
		}
		if len(weeks) != src.NumberOfWeeks {
			return InvariantError(fmt.Sprintf("workbook %s records %d weeks but has %d", src.ID, src.NumberOfWeeks, len(weeks)))
		}
		attrs, err := r.WeekAttributes.List(dbc, repos.WeekGraduateAttributeFilter{WorkbookID: &src.ID})
		if err != nil {
			return err
		}
		acts, err := r.Activities.ListByWorkbook(dbc, src.ID)
		if err != nil {
			return err
		}
		for _, group := range groupByWeek(acts) {
			if err := ordinal.Validate(activityEntries(group)); err != nil {
				return err
			}
		}
		staff, err := r.ActivityStaff.ListByActivityIDs(dbc, activityIDs(acts))
		if err != nil {
			return err
		}

		cp := &types.Workbook{
			StartDate:          src.StartDate,
			EndDate:            src.EndDate,
			CourseName:         src.CourseName + suffix,
			CourseLeadID:       p.UserID,
			LearningPlatformID: src.LearningPlatformID,
			AreaID:             src.AreaID,
			SchoolID:           src.SchoolID,
			NumberOfWeeks:      src.NumberOfWeeks,
		}
		if _, err := r.Workbooks.Create(dbc, []*types.Workbook{cp}); err != nil {
			return err
		}

		if len(weeks) > 0 {
			rows := make([]*types.Week, 0, len(weeks))
			for _, w := range weeks {
				rows = append(rows, &types.Week{WorkbookID: cp.ID, Number: w.Number})
			}
			if _, err := r.Weeks.Create(dbc, rows); err != nil {
				return err
			}
		}
		if len(attrs) > 0 {
			rows := make([]*types.WeekGraduateAttribute, 0, len(attrs))
			for _, ga := range attrs {
				rows = append(rows, &types.WeekGraduateAttribute{
					WeekWorkbookID:      cp.ID,
					WeekNumber:          ga.WeekNumber,
					GraduateAttributeID: ga.GraduateAttributeID,
				})
			}
			if _, err := r.WeekAttributes.Create(dbc, rows); err != nil {
				return err
			}
		}

		newIDs := make(map[uuid.UUID]uuid.UUID, len(acts))
		if len(acts) > 0 {
			rows := make([]*types.Activity, 0, len(acts))
			for _, act := range acts {
				id := uuid.New()
				newIDs[act.ID] = id
				rows = append(rows, &types.Activity{
					ID:                  id,
					WorkbookID:          cp.ID,
					WeekNumber:          act.WeekNumber,
					Number:              act.Number,
					Name:                act.Name,
					TimeEstimateMinutes: act.TimeEstimateMinutes,
					LocationID:          act.LocationID,
					LearningActivityID:  act.LearningActivityID,
					LearningTypeID:      act.LearningTypeID,
					TaskStatusID:        act.TaskStatusID,
				})
			}
			if _, err := r.Activities.Create(dbc, rows); err != nil {
				return err
			}
		}
		if len(staff) > 0 {
			rows := make([]*types.ActivityStaff, 0, len(staff))
			for _, s := range staff {
				rows = append(rows, &types.ActivityStaff{ActivityID: newIDs[s.ActivityID], StaffID: s.StaffID})
			}
			if _, err := r.ActivityStaff.Create(dbc, rows); err != nil {
				return err
			}
		}
		if len(scope.Contributors) > 0 {
			rows := make([]*types.WorkbookContributor, 0, len(scope.Contributors))
			for _, c := range scope.Contributors {
				rows = append(rows, &types.WorkbookContributor{WorkbookID: cp.ID, ContributorID: c})
			}
			if _, err := r.Contributors.Create(dbc, rows); err != nil {
				return err
			}
		}
		out.Workbook = *cp
		return nil
	})
	return out, err
}

func (a *workbookAggregate) AddContributor(ctx context.Context, in domainagg.ContributorInput) (domainagg.ContributorResult, error) {
	const op = "Workbook.Agg.AddContributor"
	var out domainagg.ContributorResult
	if err := validateContributorLink(op, in); err != nil {
		return out, err
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "workbook aggregate repos not configured", nil)
	}
	g := guard{op: op, repos: a.deps.Repos}
	r := a.deps.Repos

	err := executeWrite(ctx, a.deps.Base, op, in.Mutation, func(dbc dbctx.Context) error {
		p, err := g.principal(dbc, in.ActorID)
		if err != nil {
			return err
		}
		scope, err := g.lockReferencedWorkbook(dbc, in.WorkbookID)
		if err != nil {
			return err
		}
		if err := g.authorize(p, authz.ActionLinkCreate, scope, in.ContributorID); err != nil {
			return err
		}
		if _, err := g.requireUser(dbc, "Contributor", in.ContributorID); err != nil {
			return err
		}
		existing, err := r.Contributors.Get(dbc, in.WorkbookID, in.ContributorID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ConflictError(fmt.Sprintf("user %s is already a contributor to workbook %s", in.ContributorID, in.WorkbookID))
		}
		row := &types.WorkbookContributor{WorkbookID: in.WorkbookID, ContributorID: in.ContributorID}
		if _, err := r.Contributors.Create(dbc, []*types.WorkbookContributor{row}); err != nil {
			return err
		}
		out.Contributor = *row
		return nil
	})
	return out, err
}

func (a *workbookAggregate) RemoveContributor(ctx context.Context, in domainagg.ContributorInput) (domainagg.ContributorResult, error) {
	const op = "Workbook.Agg.RemoveContributor"
	var out domainagg.ContributorResult
	if err := validateContributorLink(op, in); err != nil {
		return out, err
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "workbook aggregate repos not configured", nil)
	}
	g := guard{op: op, repos: a.deps.Repos}
	r := a.deps.Repos

	err := executeWrite(ctx, a.deps.Base, op, in.Mutation, func(dbc dbctx.Context) error {
		p, err := g.principal(dbc, in.ActorID)
		if err != nil {
			return err
		}
		scope, err := g.lockWorkbook(dbc, in.WorkbookID)
		if err != nil {
			return err
		}
		if err := g.authorize(p, authz.ActionLinkDelete, scope, in.ContributorID); err != nil {
			return err
		}
		row, err := r.Contributors.Get(dbc, in.WorkbookID, in.ContributorID)
		found, err := requireFound(op, fmt.Sprintf("Contributor %s on workbook %s", in.ContributorID, in.WorkbookID), row, err)
		if err != nil {
			return err
		}
		if err := r.Contributors.Delete(dbc, in.WorkbookID, in.ContributorID); err != nil {
			return err
		}
		out.Contributor = *found
		return nil
	})
	return out, err
}

func (g guard) requireWorkbookRefs(dbc dbctx.Context, platformID, areaID, schoolID *uuid.UUID) error {
	if platformID != nil {
		if err := g.requireReference(dbc, types.KindLearningPlatform, *platformID); err != nil {
			return err
		}
	}
	if areaID != nil && *areaID != uuid.Nil {
		if err := g.requireReference(dbc, types.KindArea, *areaID); err != nil {
			return err
		}
	}
	if schoolID != nil && *schoolID != uuid.Nil {
		if err := g.requireReference(dbc, types.KindSchool, *schoolID); err != nil {
			return err
		}
	}
	return nil
}

func checkDates(start, end time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("start date %s must be before end date %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return nil
}

func nonNil(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	v := *id
	return &v
}

// nullableID maps an explicit zero id to SQL NULL so a patch can clear an
// optional reference.
func nullableID(id *uuid.UUID) interface{} {
	if v := nonNil(id); v != nil {
		return *v
	}
	return nil
}

func validateContributorLink(op string, in domainagg.ContributorInput) error {
	switch {
	case in.WorkbookID == uuid.Nil:
		return domainagg.NewError(domainagg.CodeValidation, op, "missing workbook_id", nil)
	case in.ContributorID == uuid.Nil:
		return domainagg.NewError(domainagg.CodeValidation, op, "missing contributor_id", nil)
	}
	return nil
}
