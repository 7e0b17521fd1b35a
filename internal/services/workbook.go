package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/workbook-backend/internal/data/repos"
	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

type NamedRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// WorkbookSummary is a workbook row with the two names every listing shows.
type WorkbookSummary struct {
	types.Workbook
	CourseLead       string `json:"course_lead"`
	LearningPlatform string `json:"learning_platform"`
}

type WeekDetails struct {
	Number             int        `json:"number"`
	GraduateAttributes []NamedRef `json:"graduate_attributes"`
}

type ActivityDetails struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	TimeEstimateMinutes int        `json:"time_estimate_minutes"`
	WeekNumber          int        `json:"week_number"`
	Number              int        `json:"number"`
	Location            string     `json:"location"`
	LearningActivity    string     `json:"learning_activity"`
	LearningType        string     `json:"learning_type"`
	TaskStatus          string     `json:"task_status"`
	Staff               []NamedRef `json:"staff"`
}

// WorkbookDetails is everything the workbook page renders, in one read.
type WorkbookDetails struct {
	Workbook         types.Workbook    `json:"workbook"`
	CourseLead       *NamedRef         `json:"course_lead"`
	LearningPlatform *NamedRef         `json:"learning_platform"`
	Area             *NamedRef         `json:"area,omitempty"`
	School           *NamedRef         `json:"school,omitempty"`
	Contributors     []NamedRef        `json:"contributors"`
	Weeks            []WeekDetails     `json:"weeks"`
	Activities       []ActivityDetails `json:"activities"`
}

// WorkbookSearch filters are ANDed. Text fields are case-insensitive regular
// expressions matched anywhere in the name.
type WorkbookSearch struct {
	Name               string
	LedBy              string
	ContributedBy      string
	LearningPlatform   string
	StartsAfter        *time.Time
	EndsBefore         *time.Time
	AreaID             *uuid.UUID
	SchoolID           *uuid.UUID
	LearningPlatformID *uuid.UUID
}

type WorkbookService interface {
	List(dbc dbctx.Context) ([]WorkbookSummary, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Workbook, error)
	Details(dbc dbctx.Context, id uuid.UUID) (*WorkbookDetails, error)
	Search(dbc dbctx.Context, q WorkbookSearch) ([]WorkbookSummary, error)
}

type workbookService struct {
	log   *logger.Logger
	repos repos.Set
}

func NewWorkbookService(log *logger.Logger, set repos.Set) WorkbookService {
	return &workbookService{log: log.With("service", "WorkbookService"), repos: set}
}

func (s *workbookService) List(dbc dbctx.Context) ([]WorkbookSummary, error) {
	rows, err := s.repos.Workbooks.List(dbc)
	if err != nil {
		return nil, internal("Workbook.List", err)
	}
	return s.summarize(dbc, "Workbook.List", rows)
}

func (s *workbookService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Workbook, error) {
	row, err := s.repos.Workbooks.GetByID(dbc, id)
	if err != nil {
		return nil, internal("Workbook.Get", err)
	}
	if row == nil {
		return nil, notFound("Workbook.Get", "Workbook not found")
	}
	return row, nil
}

func (s *workbookService) Search(dbc dbctx.Context, q WorkbookSearch) ([]WorkbookSummary, error) {
	const op = "Workbook.Search"
	nameRe, err := compilePattern(op, "name", q.Name)
	if err != nil {
		return nil, err
	}
	leadRe, err := compilePattern(op, "led_by", q.LedBy)
	if err != nil {
		return nil, err
	}
	contribRe, err := compilePattern(op, "contributed_by", q.ContributedBy)
	if err != nil {
		return nil, err
	}
	platformRe, err := compilePattern(op, "learning_platform", q.LearningPlatform)
	if err != nil {
		return nil, err
	}

	f := repos.WorkbookFilter{
		StartsAfter:        q.StartsAfter,
		EndsBefore:         q.EndsBefore,
		AreaID:             q.AreaID,
		SchoolID:           q.SchoolID,
		LearningPlatformID: q.LearningPlatformID,
	}
	if leadRe != nil {
		users, err := s.repos.Users.List(dbc)
		if err != nil {
			return nil, internal(op, err)
		}
		f.CourseLeadIDs = []uuid.UUID{}
		for _, u := range users {
			if leadRe.MatchString(u.Name) {
				f.CourseLeadIDs = append(f.CourseLeadIDs, u.ID)
			}
		}
	}
	rows, err := s.repos.Workbooks.Search(dbc, f)
	if err != nil {
		return nil, internal(op, err)
	}

	kept := rows[:0]
	for _, wb := range rows {
		if nameRe != nil && !nameRe.MatchString(wb.CourseName) {
			continue
		}
		if contribRe != nil {
			ok, err := s.hasContributorMatching(dbc, wb.ID, contribRe.MatchString)
			if err != nil {
				return nil, internal(op, err)
			}
			if !ok {
				continue
			}
		}
		kept = append(kept, wb)
	}

	out, err := s.summarize(dbc, op, kept)
	if err != nil || platformRe == nil {
		return out, err
	}
	filtered := out[:0]
	for _, row := range out {
		if platformRe.MatchString(row.LearningPlatform) {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

func (s *workbookService) hasContributorMatching(dbc dbctx.Context, workbookID uuid.UUID, match func(string) bool) (bool, error) {
	ids, err := s.repos.Contributors.ContributorIDs(dbc, workbookID)
	if err != nil || len(ids) == 0 {
		return false, err
	}
	users, err := s.repos.Users.GetByIDs(dbc, ids)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if match(u.Name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *workbookService) summarize(dbc dbctx.Context, op string, rows []*types.Workbook) ([]WorkbookSummary, error) {
	leadIDs := make([]uuid.UUID, 0, len(rows))
	platformIDs := make([]uuid.UUID, 0, len(rows))
	for _, wb := range rows {
		leadIDs = append(leadIDs, wb.CourseLeadID)
		platformIDs = append(platformIDs, wb.LearningPlatformID)
	}
	leads, err := s.userNames(dbc, leadIDs)
	if err != nil {
		return nil, internal(op, err)
	}
	platforms, err := s.repos.Catalog.Names(dbc, types.KindLearningPlatform, platformIDs)
	if err != nil {
		return nil, internal(op, err)
	}
	out := make([]WorkbookSummary, 0, len(rows))
	for _, wb := range rows {
		out = append(out, WorkbookSummary{
			Workbook:         *wb,
			CourseLead:       leads[wb.CourseLeadID],
			LearningPlatform: platforms[wb.LearningPlatformID],
		})
	}
	return out, nil
}

func (s *workbookService) userNames(dbc dbctx.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := map[uuid.UUID]string{}
	if len(ids) == 0 {
		return out, nil
	}
	users, err := s.repos.Users.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u.Name
	}
	return out, nil
}

func (s *workbookService) Details(dbc dbctx.Context, id uuid.UUID) (*WorkbookDetails, error) {
	const op = "Workbook.Details"
	wb, err := s.Get(dbc, id)
	if err != nil {
		return nil, err
	}
	weeks, err := s.repos.Weeks.ListByWorkbook(dbc, id)
	if err != nil {
		return nil, internal(op, err)
	}
	attrs, err := s.repos.WeekAttributes.List(dbc, repos.WeekGraduateAttributeFilter{WorkbookID: &id})
	if err != nil {
		return nil, internal(op, err)
	}
	activities, err := s.repos.Activities.ListByWorkbook(dbc, id)
	if err != nil {
		return nil, internal(op, err)
	}
	contributorIDs, err := s.repos.Contributors.ContributorIDs(dbc, id)
	if err != nil {
		return nil, internal(op, err)
	}
	activityIDs := make([]uuid.UUID, 0, len(activities))
	for _, a := range activities {
		activityIDs = append(activityIDs, a.ID)
	}
	staff, err := s.repos.ActivityStaff.ListByActivityIDs(dbc, activityIDs)
	if err != nil {
		return nil, internal(op, err)
	}

	userIDs := append([]uuid.UUID{wb.CourseLeadID}, contributorIDs...)
	for _, row := range staff {
		userIDs = append(userIDs, row.StaffID)
	}
	users, err := s.userNames(dbc, userIDs)
	if err != nil {
		return nil, internal(op, err)
	}
	names := refNames{}
	if err := names.load(dbc, s.repos.Catalog, wb, activities, attrs); err != nil {
		return nil, internal(op, err)
	}

	out := &WorkbookDetails{
		Workbook:         *wb,
		CourseLead:       ref(wb.CourseLeadID, users),
		LearningPlatform: ref(wb.LearningPlatformID, names[types.KindLearningPlatform]),
		Contributors:     refs(contributorIDs, users),
		Weeks:            make([]WeekDetails, 0, len(weeks)),
		Activities:       make([]ActivityDetails, 0, len(activities)),
	}
	if wb.AreaID != nil {
		out.Area = ref(*wb.AreaID, names[types.KindArea])
	}
	if wb.SchoolID != nil {
		out.School = ref(*wb.SchoolID, names[types.KindSchool])
	}

	byWeek := map[int][]uuid.UUID{}
	for _, row := range attrs {
		byWeek[row.WeekNumber] = append(byWeek[row.WeekNumber], row.GraduateAttributeID)
	}
	for _, w := range weeks {
		out.Weeks = append(out.Weeks, WeekDetails{
			Number:             w.Number,
			GraduateAttributes: refs(byWeek[w.Number], names[types.KindGraduateAttribute]),
		})
	}

	staffByActivity := map[uuid.UUID][]uuid.UUID{}
	for _, row := range staff {
		staffByActivity[row.ActivityID] = append(staffByActivity[row.ActivityID], row.StaffID)
	}
	for _, a := range activities {
		out.Activities = append(out.Activities, ActivityDetails{
			ID:                  a.ID,
			Name:                a.Name,
			TimeEstimateMinutes: a.TimeEstimateMinutes,
			WeekNumber:          a.WeekNumber,
			Number:              a.Number,
			Location:            names[types.KindLocation][a.LocationID],
			LearningActivity:    names[types.KindLearningActivity][a.LearningActivityID],
			LearningType:        names[types.KindLearningType][a.LearningTypeID],
			TaskStatus:          names[types.KindTaskStatus][a.TaskStatusID],
			Staff:               refs(staffByActivity[a.ID], users),
		})
	}
	sort.SliceStable(out.Activities, func(i, j int) bool {
		if out.Activities[i].WeekNumber != out.Activities[j].WeekNumber {
			return out.Activities[i].WeekNumber < out.Activities[j].WeekNumber
		}
		return out.Activities[i].Number < out.Activities[j].Number
	})
	return out, nil
}

// refNames holds id -> name lookups per reference kind.
type refNames map[types.CatalogKind]map[uuid.UUID]string

func (n refNames) load(dbc dbctx.Context, cat repos.CatalogRepo, wb *types.Workbook, activities []*types.Activity, attrs []*types.WeekGraduateAttribute) error {
	ids := map[types.CatalogKind][]uuid.UUID{
		types.KindLearningPlatform: {wb.LearningPlatformID},
	}
	if wb.AreaID != nil {
		ids[types.KindArea] = append(ids[types.KindArea], *wb.AreaID)
	}
	if wb.SchoolID != nil {
		ids[types.KindSchool] = append(ids[types.KindSchool], *wb.SchoolID)
	}
	for _, a := range activities {
		ids[types.KindLocation] = append(ids[types.KindLocation], a.LocationID)
		ids[types.KindLearningActivity] = append(ids[types.KindLearningActivity], a.LearningActivityID)
		ids[types.KindLearningType] = append(ids[types.KindLearningType], a.LearningTypeID)
		ids[types.KindTaskStatus] = append(ids[types.KindTaskStatus], a.TaskStatusID)
	}
	for _, row := range attrs {
		ids[types.KindGraduateAttribute] = append(ids[types.KindGraduateAttribute], row.GraduateAttributeID)
	}
	for kind, list := range ids {
		m, err := cat.Names(dbc, kind, list)
		if err != nil {
			return err
		}
		n[kind] = m
	}
	return nil
}

func ref(id uuid.UUID, names map[uuid.UUID]string) *NamedRef {
	name, ok := names[id]
	if !ok {
		return nil
	}
	return &NamedRef{ID: id, Name: name}
}

func refs(ids []uuid.UUID, names map[uuid.UUID]string) []NamedRef {
	out := make([]NamedRef, 0, len(ids))
	for _, id := range ids {
		if r := ref(id, names); r != nil {
			out = append(out, *r)
		}
	}
	return out
}
