package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/workbook-backend/internal/authz"
	types "github.com/yungbote/workbook-backend/internal/domain"
	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
	"github.com/yungbote/workbook-backend/internal/ordinal"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
)

// parkedNumber is the slot a moving activity waits in while its siblings shift.
// Live activities are always numbered from 1.
const parkedNumber = 0

type activityAggregate struct {
	deps HierarchyDeps
}

func NewActivityAggregate(deps HierarchyDeps) domainagg.ActivityAggregate {
	deps.Base = deps.Base.withDefaults()
	return &activityAggregate{deps: deps}
}

func (a *activityAggregate) Contract() domainagg.Contract {
	return domainagg.ActivityAggregateContract
}

func (a *activityAggregate) Create(ctx context.Context, in domainagg.CreateActivityInput) (domainagg.ActivityResult, error) {
	const op = "Workbook.Activity.Create"
	var out domainagg.ActivityResult
	f := in.Fields
	f.Name = strings.TrimSpace(f.Name)
	switch {
	case in.WorkbookID == uuid.Nil:
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing workbook_id", nil)
	case in.WeekNumber < 1:
		return out, domainagg.NewError(domainagg.CodeValidation, op, "week number must be at least 1", nil)
	case f.Name == "":
		return out, domainagg.NewError(domainagg.CodeValidation, op, "activity name is required", nil)
	case f.TimeEstimateMinutes < 0:
		return out, domainagg.NewError(domainagg.CodeValidation, op, "time estimate must not be negative", nil)
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "activity aggregate repos not configured", nil)
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
		if err := g.authorize(p, authz.ActionActivityCreate, scope, uuid.Nil); err != nil {
			return err
		}
		if _, err := g.requireWeek(dbc, in.WorkbookID, in.WeekNumber); err != nil {
			return err
		}
		if err := g.requireActivityRefs(dbc, refPatch{
			location:         &f.LocationID,
			learningActivity: &f.LearningActivityID,
			learningType:     &f.LearningTypeID,
			taskStatus:       &f.TaskStatusID,
		}); err != nil {
			return err
		}

		siblings, err := r.Activities.ListByWeek(dbc, in.WorkbookID, in.WeekNumber)
		if err != nil {
			return err
		}
		if err := ordinal.Validate(activityEntries(siblings)); err != nil {
			return err
		}

		act := &types.Activity{
			WorkbookID:          in.WorkbookID,
			WeekNumber:          in.WeekNumber,
			Number:              ordinal.Append(len(siblings)),
			Name:                f.Name,
			TimeEstimateMinutes: f.TimeEstimateMinutes,
			LocationID:          f.LocationID,
			LearningActivityID:  f.LearningActivityID,
			LearningTypeID:      f.LearningTypeID,
			TaskStatusID:        f.TaskStatusID,
		}
		if _, err := r.Activities.Create(dbc, []*types.Activity{act}); err != nil {
			return err
		}
		out.Activity = *act
		return nil
	})
	return out, err
}

// Update computes the renumber plan once, validates everything, then writes:
// the mover is parked, siblings shift in plan order, the mover lands.
func (a *activityAggregate) Update(ctx context.Context, in domainagg.UpdateActivityInput) (domainagg.ActivityResult, error) {
	const op = "Workbook.Activity.Update"
	var out domainagg.ActivityResult
	if in.ActivityID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing activity_id", nil)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "activity name must not be empty", nil)
	}
	if in.TimeEstimateMinutes != nil && *in.TimeEstimateMinutes < 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "time estimate must not be negative", nil)
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "activity aggregate repos not configured", nil)
	}
	g := guard{op: op, repos: a.deps.Repos}
	r := a.deps.Repos

	err := executeWrite(ctx, a.deps.Base, op, in.Mutation, func(dbc dbctx.Context) error {
		p, err := g.principal(dbc, in.ActorID)
		if err != nil {
			return err
		}
		act, scope, err := a.lockActivity(dbc, g, in.ActivityID)
		if err != nil {
			return err
		}
		if err := g.authorize(p, authz.ActionActivityEdit, scope, uuid.Nil); err != nil {
			return err
		}
		if (in.WeekNumber != nil && *in.WeekNumber != act.WeekNumber) ||
			(in.WorkbookID != nil && *in.WorkbookID != act.WorkbookID) {
			return ValidationError("activities cannot be moved between weeks")
		}

		var plan []ordinal.Change[uuid.UUID]
		if in.Number != nil {
			siblings, err := r.Activities.ListByWeek(dbc, act.WorkbookID, act.WeekNumber)
			if err != nil {
				return err
			}
			plan, err = ordinal.MoveWithShift(activityEntries(siblings), act.Number, *in.Number)
			if errors.Is(err, ordinal.ErrOutOfRange) {
				return ValidationError("activity " + err.Error())
			}
			if err != nil {
				return err
			}
		}
		if err := g.requireActivityRefs(dbc, refPatch{
			location:         in.LocationID,
			learningActivity: in.LearningActivityID,
			learningType:     in.LearningTypeID,
			taskStatus:       in.TaskStatusID,
		}); err != nil {
			return err
		}

		if len(plan) > 0 {
			mover := plan[0]
			if err := r.Activities.SetNumber(dbc, mover.Key, parkedNumber); err != nil {
				return err
			}
			for _, c := range plan[1:] {
				if err := r.Activities.SetNumber(dbc, c.Key, c.To); err != nil {
					return err
				}
			}
			if err := r.Activities.SetNumber(dbc, mover.Key, mover.To); err != nil {
				return err
			}
			out.Shifted = toShifts(plan[1:])
		}

		updates := activityUpdates(in)
		if len(updates) > 0 {
			if err := r.Activities.UpdateFields(dbc, act.ID, updates); err != nil {
				return err
			}
		}

		fresh, err := r.Activities.GetByID(dbc, act.ID)
		fresh, err = requireFound(op, fmt.Sprintf("Activity %s", act.ID), fresh, err)
		if err != nil {
			return err
		}
		out.Activity = *fresh
		return nil
	})
	return out, err
}

func (a *activityAggregate) Delete(ctx context.Context, in domainagg.DeleteActivityInput) (domainagg.DeleteActivityResult, error) {
	const op = "Workbook.Activity.Delete"
	var out domainagg.DeleteActivityResult
	if in.ActivityID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing activity_id", nil)
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "activity aggregate repos not configured", nil)
	}
	g := guard{op: op, repos: a.deps.Repos}
	r := a.deps.Repos

	err := executeWrite(ctx, a.deps.Base, op, in.Mutation, func(dbc dbctx.Context) error {
		p, err := g.principal(dbc, in.ActorID)
		if err != nil {
			return err
		}
		act, scope, err := a.lockActivity(dbc, g, in.ActivityID)
		if err != nil {
			return err
		}
		if err := g.authorize(p, authz.ActionActivityDelete, scope, uuid.Nil); err != nil {
			return err
		}

		siblings, err := r.Activities.ListByWeek(dbc, act.WorkbookID, act.WeekNumber)
		if err != nil {
			return err
		}
		plan, err := ordinal.RemoveAndClose(activityEntries(siblings), act.Number)
		if err != nil {
			return err
		}

		if _, err := r.ActivityStaff.DeleteByActivityIDs(dbc, []uuid.UUID{act.ID}); err != nil {
			return err
		}
		if err := r.Activities.DeleteByIDs(dbc, []uuid.UUID{act.ID}); err != nil {
			return err
		}
		for _, c := range plan {
			if err := r.Activities.SetNumber(dbc, c.Key, c.To); err != nil {
				return err
			}
		}
		out = domainagg.DeleteActivityResult{
			ActivityID: act.ID,
			WorkbookID: act.WorkbookID,
			WeekNumber: act.WeekNumber,
			Shifted:    toShifts(plan),
		}
		return nil
	})
	return out, err
}

func (a *activityAggregate) AddStaff(ctx context.Context, in domainagg.ActivityStaffInput) (domainagg.ActivityStaffResult, error) {
	const op = "Workbook.Activity.AddStaff"
	var out domainagg.ActivityStaffResult
	if err := validateStaffLink(op, in); err != nil {
		return out, err
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "activity aggregate repos not configured", nil)
	}
	g := guard{op: op, repos: a.deps.Repos}
	r := a.deps.Repos

	err := executeWrite(ctx, a.deps.Base, op, in.Mutation, func(dbc dbctx.Context) error {
		p, err := g.principal(dbc, in.ActorID)
		if err != nil {
			return err
		}
		_, scope, err := a.lockActivity(dbc, g, in.ActivityID)
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			return ValidationError(fmt.Sprintf("Activity with id %s does not exist", in.ActivityID))
		}
		if err != nil {
			return err
		}
		if err := g.authorize(p, authz.ActionLinkCreate, scope, in.StaffID); err != nil {
			return err
		}
		if _, err := g.requireUser(dbc, "Staff member", in.StaffID); err != nil {
			return err
		}
		existing, err := r.ActivityStaff.Get(dbc, in.ActivityID, in.StaffID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ConflictError(fmt.Sprintf("staff member %s is already assigned to activity %s", in.StaffID, in.ActivityID))
		}
		row := &types.ActivityStaff{ActivityID: in.ActivityID, StaffID: in.StaffID}
		if _, err := r.ActivityStaff.Create(dbc, []*types.ActivityStaff{row}); err != nil {
			return err
		}
		out.Row = *row
		return nil
	})
	return out, err
}

func (a *activityAggregate) RemoveStaff(ctx context.Context, in domainagg.ActivityStaffInput) (domainagg.ActivityStaffResult, error) {
	const op = "Workbook.Activity.RemoveStaff"
	var out domainagg.ActivityStaffResult
	if err := validateStaffLink(op, in); err != nil {
		return out, err
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "activity aggregate repos not configured", nil)
	}
	g := guard{op: op, repos: a.deps.Repos}
	r := a.deps.Repos

	err := executeWrite(ctx, a.deps.Base, op, in.Mutation, func(dbc dbctx.Context) error {
		p, err := g.principal(dbc, in.ActorID)
		if err != nil {
			return err
		}
		_, scope, err := a.lockActivity(dbc, g, in.ActivityID)
		if err != nil {
			return err
		}
		if err := g.authorize(p, authz.ActionLinkDelete, scope, in.StaffID); err != nil {
			return err
		}
		row, err := r.ActivityStaff.Get(dbc, in.ActivityID, in.StaffID)
		found, err := requireFound(op, fmt.Sprintf("Staff member %s on activity %s", in.StaffID, in.ActivityID), row, err)
		if err != nil {
			return err
		}
		if err := r.ActivityStaff.Delete(dbc, in.ActivityID, in.StaffID); err != nil {
			return err
		}
		out.Row = *found
		return nil
	})
	return out, err
}

// lockActivity finds the activity's workbook, takes the workbook lock and then
// re-reads the activity, since a concurrent mutation may have renumbered or
// removed it before the lock was granted.
func (a *activityAggregate) lockActivity(dbc dbctx.Context, g guard, id uuid.UUID) (*types.Activity, workbookScope, error) {
	what := fmt.Sprintf("Activity %s", id)
	row, err := g.repos.Activities.GetByID(dbc, id)
	act, err := requireFound(g.op, what, row, err)
	if err != nil {
		return nil, workbookScope{}, err
	}
	scope, err := g.lockWorkbook(dbc, act.WorkbookID)
	if err != nil {
		return nil, workbookScope{}, err
	}
	row, err = g.repos.Activities.GetByID(dbc, id)
	act, err = requireFound(g.op, what, row, err)
	if err != nil {
		return nil, workbookScope{}, err
	}
	return act, scope, nil
}

// refPatch holds the catalog references an activity write touches; nil entries
// are left alone.
type refPatch struct {
	location         *uuid.UUID
	learningActivity *uuid.UUID
	learningType     *uuid.UUID
	taskStatus       *uuid.UUID
}

func (g guard) requireActivityRefs(dbc dbctx.Context, p refPatch) error {
	checks := []struct {
		kind types.CatalogKind
		id   *uuid.UUID
	}{
		{types.KindLocation, p.location},
		{types.KindLearningActivity, p.learningActivity},
		{types.KindLearningType, p.learningType},
		{types.KindTaskStatus, p.taskStatus},
	}
	for _, c := range checks {
		if c.id == nil {
			continue
		}
		if *c.id == uuid.Nil {
			return ValidationError(fmt.Sprintf("%s is required", c.kind.Label()))
		}
		if err := g.requireReference(dbc, c.kind, *c.id); err != nil {
			return err
		}
	}
	return nil
}

func activityUpdates(in domainagg.UpdateActivityInput) map[string]interface{} {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.TimeEstimateMinutes != nil {
		updates["time_estimate_minutes"] = *in.TimeEstimateMinutes
	}
	if in.LocationID != nil {
		updates["location_id"] = *in.LocationID
	}
	if in.LearningActivityID != nil {
		updates["learning_activity_id"] = *in.LearningActivityID
	}
	if in.LearningTypeID != nil {
		updates["learning_type_id"] = *in.LearningTypeID
	}
	if in.TaskStatusID != nil {
		updates["task_status_id"] = *in.TaskStatusID
	}
	return updates
}

func validateStaffLink(op string, in domainagg.ActivityStaffInput) error {
	switch {
	case in.ActivityID == uuid.Nil:
		return domainagg.NewError(domainagg.CodeValidation, op, "missing activity_id", nil)
	case in.StaffID == uuid.Nil:
		return domainagg.NewError(domainagg.CodeValidation, op, "missing staff_id", nil)
	}
	return nil
}
