package aggregates

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/workbook-backend/internal/authz"
	"github.com/yungbote/workbook-backend/internal/data/repos"
	types "github.com/yungbote/workbook-backend/internal/domain"
	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
)

// workbookScope is the locked workbook plus the ownership snapshot the
// authorization gate decides on.
type workbookScope struct {
	Workbook     *types.Workbook
	Contributors []uuid.UUID
}

func (s workbookScope) resource(subject uuid.UUID) authz.Resource {
	return authz.Resource{
		LeadID:         s.Workbook.CourseLeadID,
		ContributorIDs: s.Contributors,
		SubjectID:      subject,
	}
}

// guard bundles the reads every mutation starts with. All of them run on the
// mutation's own transaction.
type guard struct {
	op    string
	repos repos.Set
}

// requireFound is the one place a missing row turns into CodeNotFound.
func requireFound[T any](op, what string, row *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, what+" not found", nil)
	}
	return row, nil
}

// principal resolves the acting user and role. An unknown actor resolves to the
// zero principal, which the gate always denies.
func (g guard) principal(dbc dbctx.Context, actorID uuid.UUID) (authz.Principal, error) {
	u, err := g.repos.Users.GetWithGroup(dbc, actorID)
	if err != nil {
		return authz.Principal{}, err
	}
	if u == nil {
		return authz.Principal{}, nil
	}
	role := authz.RoleUser
	if u.PermissionsGroup != nil {
		role = authz.RoleFromGroup(u.PermissionsGroup.Name)
	}
	return authz.Principal{UserID: u.ID, Role: role}, nil
}

// lockWorkbook takes the per-workbook mutation lock and loads its contributor set.
func (g guard) lockWorkbook(dbc dbctx.Context, id uuid.UUID) (workbookScope, error) {
	row, err := g.repos.Workbooks.LockByID(dbc, id)
	wb, err := requireFound(g.op, fmt.Sprintf("Workbook %s", id), row, err)
	if err != nil {
		return workbookScope{}, err
	}
	contributors, err := g.repos.Contributors.ContributorIDs(dbc, wb.ID)
	if err != nil {
		return workbookScope{}, err
	}
	return workbookScope{Workbook: wb, Contributors: contributors}, nil
}

// lockReferencedWorkbook is lockWorkbook for writes that take the workbook as a
// foreign key: a missing workbook is a validation failure, not a lookup miss.
func (g guard) lockReferencedWorkbook(dbc dbctx.Context, id uuid.UUID) (workbookScope, error) {
	scope, err := g.lockWorkbook(dbc, id)
	if domainagg.IsCode(err, domainagg.CodeNotFound) {
		return workbookScope{}, ValidationError(fmt.Sprintf("Workbook with id %s does not exist", id))
	}
	return scope, err
}

func (g guard) authorize(p authz.Principal, action authz.Action, scope workbookScope, subject uuid.UUID) error {
	if err := authz.Authorize(p, action, scope.resource(subject)); err != nil {
		return domainagg.PermissionDenied(g.op)
	}
	return nil
}

// requireReference fails with a validation error naming the missing reference.
func (g guard) requireReference(dbc dbctx.Context, kind types.CatalogKind, id uuid.UUID) error {
	ok, err := g.repos.Catalog.Exists(dbc, kind, id)
	if err != nil {
		return err
	}
	if !ok {
		return ValidationError(fmt.Sprintf("%s with id %s does not exist", kind.Label(), id))
	}
	return nil
}

func (g guard) requireUser(dbc dbctx.Context, role string, id uuid.UUID) (*types.User, error) {
	u, err := g.repos.Users.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ValidationError(fmt.Sprintf("%s with id %s does not exist", role, id))
	}
	return u, nil
}

// requireWeek fails with a validation error when the week is not part of the workbook.
func (g guard) requireWeek(dbc dbctx.Context, workbookID uuid.UUID, number int) (*types.Week, error) {
	w, err := g.repos.Weeks.Get(dbc, workbookID, number)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ValidationError(fmt.Sprintf("Week %d does not exist in workbook %s", number, workbookID))
	}
	return w, nil
}
