// Package authz decides whether an actor may perform a workbook mutation.
//
// Decisions are pure: the caller loads the actor's role, the workbook lead and the
// contributor set inside the same transaction as the mutation and passes them in.
package authz

import (
	"errors"

	"github.com/google/uuid"
)

// ErrDenied is the single denial signal. It intentionally carries no detail.
var ErrDenied = errors.New("permission denied")

type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// RoleFromGroup maps a permissions group name to a role. Unknown groups get the
// least privileged role.
func RoleFromGroup(name string) Role {
	if name == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

type Action string

const (
	ActionWorkbookCreate    Action = "workbook:create"
	ActionWorkbookDuplicate Action = "workbook:duplicate"
	ActionWorkbookEdit      Action = "workbook:edit"
	ActionWorkbookDelete    Action = "workbook:delete"
	ActionWeekCreate        Action = "week:create"
	ActionWeekDelete        Action = "week:delete"
	ActionActivityCreate    Action = "activity:create"
	ActionActivityEdit      Action = "activity:edit"
	ActionActivityDelete    Action = "activity:delete"
	ActionLinkCreate        Action = "link:create"
	ActionLinkDelete        Action = "link:delete"
)

type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// Resource is the ownership snapshot of the workbook being mutated. SubjectID is
// the user a link row points at (contributor or staff member), when there is one.
type Resource struct {
	LeadID         uuid.UUID
	ContributorIDs []uuid.UUID
	SubjectID      uuid.UUID
}

func (r Resource) isMember(id uuid.UUID) bool {
	if id == r.LeadID {
		return true
	}
	for _, c := range r.ContributorIDs {
		if c == id {
			return true
		}
	}
	return false
}

// Authorize returns nil when p may perform a on r, ErrDenied otherwise.
func Authorize(p Principal, a Action, r Resource) error {
	if p.UserID == uuid.Nil {
		return ErrDenied
	}
	switch a {
	case ActionWorkbookCreate, ActionWorkbookDuplicate:
		return nil
	case ActionWorkbookDelete:
		if p.Role == RoleAdmin {
			return nil
		}
		return ErrDenied
	case ActionWorkbookEdit,
		ActionWeekCreate, ActionWeekDelete,
		ActionActivityCreate, ActionActivityEdit, ActionActivityDelete,
		ActionLinkCreate:
		if p.Role == RoleAdmin || r.isMember(p.UserID) {
			return nil
		}
		return ErrDenied
	case ActionLinkDelete:
		if p.Role == RoleAdmin || r.isMember(p.UserID) {
			return nil
		}
		if r.SubjectID != uuid.Nil && r.SubjectID == p.UserID {
			return nil
		}
		return ErrDenied
	default:
		return ErrDenied
	}
}
