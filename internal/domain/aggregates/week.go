package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/workbook-backend/internal/domain/workbook"
)

var WeekAggregateContract = Contract{
	Name:             "Workbook.WeekAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns the dense week ordinal space of a workbook and its graduate-attribute links.",
}

// WeekAggregate keeps week numbers dense (1..numberOfWeeks) and propagates
// renumbering to activities and graduate-attribute rows keyed by week number.
type WeekAggregate interface {
	Aggregate

	// Create appends week numberOfWeeks+1.
	Create(ctx context.Context, in CreateWeekInput) (WeekResult, error)

	// Delete cascades the week's activities, staff and graduate attributes, then
	// closes the gap by shifting later weeks down by one.
	Delete(ctx context.Context, in DeleteWeekInput) (DeleteWeekResult, error)

	AddGraduateAttribute(ctx context.Context, in WeekGraduateAttributeInput) (WeekGraduateAttributeResult, error)
	RemoveGraduateAttribute(ctx context.Context, in WeekGraduateAttributeInput) (WeekGraduateAttributeResult, error)
}

type CreateWeekInput struct {
	Mutation
	WorkbookID uuid.UUID
}

type WeekResult struct {
	Week          workbook.Week `json:"week"`
	NumberOfWeeks int           `json:"number_of_weeks"`
}

type DeleteWeekInput struct {
	Mutation
	WorkbookID uuid.UUID
	Number     int
}

// Renumbered records one ordinal that moved as a side effect of a mutation.
type Renumbered struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type DeleteWeekResult struct {
	WorkbookID        uuid.UUID    `json:"workbook_id"`
	Number            int          `json:"number"`
	NumberOfWeeks     int          `json:"number_of_weeks"`
	DeletedActivities int          `json:"deleted_activities"`
	Renumbered        []Renumbered `json:"renumbered"`
}

type WeekGraduateAttributeInput struct {
	Mutation

	WorkbookID          uuid.UUID
	WeekNumber          int
	GraduateAttributeID uuid.UUID
}

type WeekGraduateAttributeResult struct {
	Row workbook.WeekGraduateAttribute `json:"week_graduate_attribute"`
}
