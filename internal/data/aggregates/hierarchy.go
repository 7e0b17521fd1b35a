package aggregates

import (
	"github.com/google/uuid"

	types "github.com/yungbote/workbook-backend/internal/domain"
	domainagg "github.com/yungbote/workbook-backend/internal/domain/aggregates"
	"github.com/yungbote/workbook-backend/internal/ordinal"
)

func weekEntries(weeks []*types.Week) []ordinal.Entry[int] {
	out := make([]ordinal.Entry[int], 0, len(weeks))
	for _, w := range weeks {
		out = append(out, ordinal.Entry[int]{Key: w.Number, Number: w.Number})
	}
	return out
}

func activityEntries(acts []*types.Activity) []ordinal.Entry[uuid.UUID] {
	out := make([]ordinal.Entry[uuid.UUID], 0, len(acts))
	for _, a := range acts {
		out = append(out, ordinal.Entry[uuid.UUID]{Key: a.ID, Number: a.Number})
	}
	return out
}

func toShifts(changes []ordinal.Change[uuid.UUID]) []domainagg.Shift {
	if len(changes) == 0 {
		return nil
	}
	out := make([]domainagg.Shift, 0, len(changes))
	for _, c := range changes {
		out = append(out, domainagg.Shift{ActivityID: c.Key, From: c.From, To: c.To})
	}
	return out
}

func activityIDs(acts []*types.Activity) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(acts))
	for _, a := range acts {
		out = append(out, a.ID)
	}
	return out
}

// groupByWeek partitions activities by week number.
func groupByWeek(acts []*types.Activity) map[int][]*types.Activity {
	out := map[int][]*types.Activity{}
	for _, a := range acts {
		out[a.WeekNumber] = append(out[a.WeekNumber], a)
	}
	return out
}
