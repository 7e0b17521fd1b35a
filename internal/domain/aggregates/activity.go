package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/workbook-backend/internal/domain/workbook"
)

var ActivityAggregateContract = Contract{
	Name:             "Workbook.ActivityAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns the dense activity ordinal space of each week and activity staff links.",
}

// ActivityAggregate keeps activity numbers dense within each week.
type ActivityAggregate interface {
	Aggregate

	// Create appends the activity at count+1 in its week.
	Create(ctx context.Context, in CreateActivityInput) (ActivityResult, error)

	// Update applies an optional renumber (move-with-shift) and field edits as a
	// single operation.
	Update(ctx context.Context, in UpdateActivityInput) (ActivityResult, error)

	// Delete removes the activity and its staff rows and closes the gap.
	Delete(ctx context.Context, in DeleteActivityInput) (DeleteActivityResult, error)

	AddStaff(ctx context.Context, in ActivityStaffInput) (ActivityStaffResult, error)
	RemoveStaff(ctx context.Context, in ActivityStaffInput) (ActivityStaffResult, error)
}

type ActivityFields struct {
	Name                string
	TimeEstimateMinutes int
	LocationID          uuid.UUID
	LearningActivityID  uuid.UUID
	LearningTypeID      uuid.UUID
	TaskStatusID        uuid.UUID
}

type CreateActivityInput struct {
	Mutation

	WorkbookID uuid.UUID
	WeekNumber int
	Fields     ActivityFields
}

type UpdateActivityInput struct {
	Mutation

	ActivityID          uuid.UUID
	Number              *int
	Name                *string
	TimeEstimateMinutes *int
	LocationID          *uuid.UUID
	LearningActivityID  *uuid.UUID
	LearningTypeID      *uuid.UUID
	TaskStatusID        *uuid.UUID

	// WeekNumber and WorkbookID may echo the activity's current placement;
	// any other value is rejected since activities never change weeks.
	WeekNumber *int
	WorkbookID *uuid.UUID
}

// Shift is a sibling activity whose number moved as a side effect.
type Shift struct {
	ActivityID uuid.UUID `json:"activity_id"`
	From       int       `json:"from"`
	To         int       `json:"to"`
}

type ActivityResult struct {
	Activity workbook.Activity `json:"activity"`
	Shifted  []Shift           `json:"shifted"`
}

type DeleteActivityInput struct {
	Mutation
	ActivityID uuid.UUID
}

type DeleteActivityResult struct {
	ActivityID uuid.UUID `json:"activity_id"`
	WorkbookID uuid.UUID `json:"workbook_id"`
	WeekNumber int       `json:"week_number"`
	Shifted    []Shift   `json:"shifted"`
}

type ActivityStaffInput struct {
	Mutation

	ActivityID uuid.UUID
	StaffID    uuid.UUID
}

type ActivityStaffResult struct {
	Row workbook.ActivityStaff `json:"activity_staff"`
}
