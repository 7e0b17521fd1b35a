package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/workbook-backend/internal/authz"
	types "github.com/yungbote/workbook-backend/internal/domain"
	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
	"github.com/yungbote/workbook-backend/internal/ordinal"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
)

type weekAggregate struct {
	deps HierarchyDeps
}

func NewWeekAggregate(deps HierarchyDeps) domainagg.WeekAggregate {
	deps.Base = deps.Base.withDefaults()
	return &weekAggregate{deps: deps}
}

func (a *weekAggregate) Contract() domainagg.Contract {
	return domainagg.WeekAggregateContract
}

func (a *weekAggregate) Create(ctx context.Context, in domainagg.CreateWeekInput) (domainagg.WeekResult, error) {
	const op = "Workbook.Week.Create"
	var out domainagg.WeekResult
	if in.WorkbookID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing workbook_id", nil)
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "week aggregate repos not configured", nil)
	}
	g := guard{op: op, repos: a.deps.Repos}

	err := executeWrite(ctx, a.deps.Base, op, in.Mutation, func(dbc dbctx.Context) error {
		p, err := g.principal(dbc, in.ActorID)
		if err != nil {
			return err
		}
		scope, err := g.lockWorkbook(dbc, in.WorkbookID)
		if err != nil {
			return err
		}
		if err := g.authorize(p, authz.ActionWeekCreate, scope, uuid.Nil); err != nil {
			return err
		}

		weeks, err := a.deps.Repos.Weeks.ListByWorkbook(dbc, in.WorkbookID)
		if err != nil {
			return err
		}
		if err := ordinal.Validate(weekEntries(weeks)); err != nil {
			return err
		}
		if len(weeks) != scope.Workbook.NumberOfWeeks {
			return InvariantError(fmt.Sprintf("workbook %s records %d weeks but has %d", in.WorkbookID, scope.Workbook.NumberOfWeeks, len(weeks)))
		}

		week := &types.Week{WorkbookID: in.WorkbookID, Number: ordinal.Append(len(weeks))}
		if _, err := a.deps.Repos.Weeks.Create(dbc, []*types.Week{week}); err != nil {
			return err
		}
		if err := a.deps.Repos.Workbooks.UpdateFields(dbc, in.WorkbookID, map[string]interface{}{
			"number_of_weeks": week.Number,
		}); err != nil {
			return err
		}
		out = domainagg.WeekResult{Week: *week, NumberOfWeeks: week.Number}
		return nil
	})
	return out, err
}

// Delete partitions the week's activities by (workbook, number) before any
// renumbering so activities shifting into the freed number are never touched.
func (a *weekAggregate) Delete(ctx context.Context, in domainagg.DeleteWeekInput) (domainagg.DeleteWeekResult, error) {
	const op = "Workbook.Week.Delete"
	var out domainagg.DeleteWeekResult
	if in.WorkbookID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing workbook_id", nil)
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "week aggregate repos not configured", nil)
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
		if err := g.authorize(p, authz.ActionWeekDelete, scope, uuid.Nil); err != nil {
			return err
		}

		row, err := r.Weeks.Get(dbc, in.WorkbookID, in.Number)
		if _, err := requireFound(op, fmt.Sprintf("Week %d of workbook %s", in.Number, in.WorkbookID), row, err); err != nil {
			return err
		}
		weeks, err := r.Weeks.ListByWorkbook(dbc, in.WorkbookID)
		if err != nil {
			return err
		}
		changes, err := ordinal.RemoveAndClose(weekEntries(weeks), in.Number)
		if err != nil {
			return err
		}
		doomed, err := r.Activities.ListByWeek(dbc, in.WorkbookID, in.Number)
		if err != nil {
			return err
		}

		ids := activityIDs(doomed)
		if _, err := r.ActivityStaff.DeleteByActivityIDs(dbc, ids); err != nil {
			return err
		}
		if err := r.Activities.DeleteByIDs(dbc, ids); err != nil {
			return err
		}
		if _, err := r.WeekAttributes.DeleteByWeek(dbc, in.WorkbookID, in.Number); err != nil {
			return err
		}
		if err := r.Weeks.Delete(dbc, in.WorkbookID, in.Number); err != nil {
			return err
		}

		renumbered := make([]domainagg.Renumbered, 0, len(changes))
		for _, c := range changes {
			if err := r.Weeks.Renumber(dbc, in.WorkbookID, c.From, c.To); err != nil {
				return err
			}
			if _, err := r.WeekAttributes.Renumber(dbc, in.WorkbookID, c.From, c.To); err != nil {
				return err
			}
			if _, err := r.Activities.MoveToWeekNumber(dbc, in.WorkbookID, c.From, c.To); err != nil {
				return err
			}
			renumbered = append(renumbered, domainagg.Renumbered{From: c.From, To: c.To})
		}

		remaining := len(weeks) - 1
		if err := r.Workbooks.UpdateFields(dbc, in.WorkbookID, map[string]interface{}{
			"number_of_weeks": remaining,
		}); err != nil {
			return err
		}
		out = domainagg.DeleteWeekResult{
			WorkbookID:        in.WorkbookID,
			Number:            in.Number,
			NumberOfWeeks:     remaining,
			DeletedActivities: len(doomed),
			Renumbered:        renumbered,
		}
		return nil
	})
	return out, err
}

func (a *weekAggregate) AddGraduateAttribute(ctx context.Context, in domainagg.WeekGraduateAttributeInput) (domainagg.WeekGraduateAttributeResult, error) {
	const op = "Workbook.Week.AddGraduateAttribute"
	var out domainagg.WeekGraduateAttributeResult
	if err := validateWeekLink(op, in); err != nil {
		return out, err
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "week aggregate repos not configured", nil)
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
		if err := g.authorize(p, authz.ActionLinkCreate, scope, uuid.Nil); err != nil {
			return err
		}
		if _, err := g.requireWeek(dbc, in.WorkbookID, in.WeekNumber); err != nil {
			return err
		}
		if err := g.requireReference(dbc, types.KindGraduateAttribute, in.GraduateAttributeID); err != nil {
			return err
		}
		existing, err := r.WeekAttributes.Get(dbc, in.WorkbookID, in.WeekNumber, in.GraduateAttributeID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ConflictError(fmt.Sprintf("graduate attribute %s is already linked to week %d", in.GraduateAttributeID, in.WeekNumber))
		}
		row := &types.WeekGraduateAttribute{
			WeekWorkbookID:      in.WorkbookID,
			WeekNumber:          in.WeekNumber,
			GraduateAttributeID: in.GraduateAttributeID,
		}
		if _, err := r.WeekAttributes.Create(dbc, []*types.WeekGraduateAttribute{row}); err != nil {
			return err
		}
		out.Row = *row
		return nil
	})
	return out, err
}

func (a *weekAggregate) RemoveGraduateAttribute(ctx context.Context, in domainagg.WeekGraduateAttributeInput) (domainagg.WeekGraduateAttributeResult, error) {
	const op = "Workbook.Week.RemoveGraduateAttribute"
	var out domainagg.WeekGraduateAttributeResult
	if err := validateWeekLink(op, in); err != nil {
		return out, err
	}
	if a.deps.missingRepos() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "week aggregate repos not configured", nil)
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
		if err := g.authorize(p, authz.ActionLinkDelete, scope, uuid.Nil); err != nil {
			return err
		}
		row, err := r.WeekAttributes.Get(dbc, in.WorkbookID, in.WeekNumber, in.GraduateAttributeID)
		found, err := requireFound(op, fmt.Sprintf("Graduate attribute %s on week %d", in.GraduateAttributeID, in.WeekNumber), row, err)
		if err != nil {
			return err
		}
		if err := r.WeekAttributes.Delete(dbc, in.WorkbookID, in.WeekNumber, in.GraduateAttributeID); err != nil {
			return err
		}
		out.Row = *found
		return nil
	})
	return out, err
}

func validateWeekLink(op string, in domainagg.WeekGraduateAttributeInput) error {
	switch {
	case in.WorkbookID == uuid.Nil:
		return domainagg.NewError(domainagg.CodeValidation, op, "missing workbook_id", nil)
	case in.WeekNumber < 1:
		return domainagg.NewError(domainagg.CodeValidation, op, "week number must be at least 1", nil)
	case in.GraduateAttributeID == uuid.Nil:
		return domainagg.NewError(domainagg.CodeValidation, op, "missing graduate_attribute_id", nil)
	}
	return nil
}
