package services

import (
	"github.com/yungbote/workbook-backend/internal/data/repos"
	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

// HierarchyService lists weeks, activities and link rows. Filters are optional
// and combine with AND.
type HierarchyService interface {
	Weeks(dbc dbctx.Context, f repos.WeekFilter) ([]*types.Week, error)
	Activities(dbc dbctx.Context, f repos.ActivityFilter) ([]*types.Activity, error)
	ActivityStaff(dbc dbctx.Context, f repos.StaffFilter) ([]*types.ActivityStaff, error)
	Contributors(dbc dbctx.Context, f repos.ContributorFilter) ([]*types.WorkbookContributor, error)
	WeekGraduateAttributes(dbc dbctx.Context, f repos.WeekGraduateAttributeFilter) ([]*types.WeekGraduateAttribute, error)
}

type hierarchyService struct {
	log   *logger.Logger
	repos repos.Set
}

func NewHierarchyService(log *logger.Logger, set repos.Set) HierarchyService {
	return &hierarchyService{log: log.With("service", "HierarchyService"), repos: set}
}

func (s *hierarchyService) Weeks(dbc dbctx.Context, f repos.WeekFilter) ([]*types.Week, error) {
	out, err := s.repos.Weeks.List(dbc, f)
	return out, internal("Week.List", err)
}

func (s *hierarchyService) Activities(dbc dbctx.Context, f repos.ActivityFilter) ([]*types.Activity, error) {
	out, err := s.repos.Activities.List(dbc, f)
	return out, internal("Activity.List", err)
}

func (s *hierarchyService) ActivityStaff(dbc dbctx.Context, f repos.StaffFilter) ([]*types.ActivityStaff, error) {
	out, err := s.repos.ActivityStaff.List(dbc, f)
	return out, internal("ActivityStaff.List", err)
}

func (s *hierarchyService) Contributors(dbc dbctx.Context, f repos.ContributorFilter) ([]*types.WorkbookContributor, error) {
	out, err := s.repos.Contributors.List(dbc, f)
	return out, internal("WorkbookContributor.List", err)
}

func (s *hierarchyService) WeekGraduateAttributes(dbc dbctx.Context, f repos.WeekGraduateAttributeFilter) ([]*types.WeekGraduateAttribute, error) {
	out, err := s.repos.WeekAttributes.List(dbc, f)
	return out, internal("WeekGraduateAttribute.List", err)
}
