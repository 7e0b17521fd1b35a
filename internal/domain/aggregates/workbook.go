package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/workbook-backend/internal/domain/workbook"
)

var WorkbookAggregateContract = Contract{
	Name:             "Workbook.WorkbookAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns workbook lifecycle, whole-tree cascade delete, deep duplication and contributor links.",
}

// WorkbookAggregate owns workbook-level writes.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodePermissionDenied, CodeConflict, CodeInternal.
type WorkbookAggregate interface {
	Aggregate

	// Create inserts a workbook with zero weeks. Any authenticated actor may create;
	// the lead defaults to the actor.
	Create(ctx context.Context, in CreateWorkbookInput) (WorkbookResult, error)

	// Update patches editable fields. numberOfWeeks is never editable.
	Update(ctx context.Context, in UpdateWorkbookInput) (WorkbookResult, error)

	// Delete removes the workbook and everything under it. Admin only.
	Delete(ctx context.Context, in DeleteWorkbookInput) (DeleteWorkbookResult, error)

	// Duplicate deep-copies a workbook under the acting user, preserving ordinals.
	Duplicate(ctx context.Context, in DuplicateWorkbookInput) (WorkbookResult, error)

	AddContributor(ctx context.Context, in ContributorInput) (ContributorResult, error)
	RemoveContributor(ctx context.Context, in ContributorInput) (ContributorResult, error)
}

type CreateWorkbookInput struct {
	Mutation

	StartDate          time.Time
	EndDate            time.Time
	CourseName         string
	CourseLeadID       uuid.UUID
	LearningPlatformID uuid.UUID
	AreaID             *uuid.UUID
	SchoolID           *uuid.UUID
}

type UpdateWorkbookInput struct {
	Mutation

	WorkbookID         uuid.UUID
	StartDate          *time.Time
	EndDate            *time.Time
	CourseName         *string
	CourseLeadID       *uuid.UUID
	LearningPlatformID *uuid.UUID
	AreaID             *uuid.UUID
	SchoolID           *uuid.UUID
}

type WorkbookResult struct {
	Workbook workbook.Workbook `json:"workbook"`
}

type DeleteWorkbookInput struct {
	Mutation
	WorkbookID uuid.UUID
}

type DeleteWorkbookResult struct {
	WorkbookID        uuid.UUID `json:"workbook_id"`
	DeletedWeeks      int       `json:"deleted_weeks"`
	DeletedActivities int       `json:"deleted_activities"`
}

// DefaultDuplicateSuffix is appended to the copied course name when the caller
// does not pick one.
const DefaultDuplicateSuffix = " - COPY"

type DuplicateWorkbookInput struct {
	Mutation

	SourceID   uuid.UUID
	NameSuffix *string
}

type ContributorInput struct {
	Mutation

	WorkbookID    uuid.UUID
	ContributorID uuid.UUID
}

type ContributorResult struct {
	Contributor workbook.WorkbookContributor `json:"workbook_contributor"`
}
