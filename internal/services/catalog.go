package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/workbook-backend/internal/data/repos"
	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

// CatalogService serves users, permission groups and reference rows. None of
// these are written through the API.
type CatalogService interface {
	Users(dbc dbctx.Context, id *uuid.UUID) ([]*types.User, error)
	PermissionsGroups(dbc dbctx.Context) ([]*types.PermissionsGroup, error)
	LearningPlatforms(dbc dbctx.Context) ([]*types.LearningPlatform, error)
	LearningActivities(dbc dbctx.Context, platformID *uuid.UUID) ([]*types.LearningActivity, error)
	LearningTypes(dbc dbctx.Context) ([]*types.LearningType, error)
	TaskStatuses(dbc dbctx.Context) ([]*types.TaskStatus, error)
	Locations(dbc dbctx.Context) ([]*types.Location, error)
	GraduateAttributes(dbc dbctx.Context) ([]*types.GraduateAttribute, error)
	Areas(dbc dbctx.Context) ([]*types.Area, error)
	Schools(dbc dbctx.Context, areaID *uuid.UUID) ([]*types.School, error)
}

type catalogService struct {
	log   *logger.Logger
	repos repos.Set
}

func NewCatalogService(log *logger.Logger, set repos.Set) CatalogService {
	return &catalogService{log: log.With("service", "CatalogService"), repos: set}
}

// Users returns every user, or just the one named by id.
func (s *catalogService) Users(dbc dbctx.Context, id *uuid.UUID) ([]*types.User, error) {
	if id == nil {
		out, err := s.repos.Users.List(dbc)
		return out, internal("User.List", err)
	}
	u, err := s.repos.Users.GetByID(dbc, *id)
	if err != nil {
		return nil, internal("User.List", err)
	}
	if u == nil {
		return []*types.User{}, nil
	}
	return []*types.User{u}, nil
}

func (s *catalogService) PermissionsGroups(dbc dbctx.Context) ([]*types.PermissionsGroup, error) {
	out, err := s.repos.PermissionsGroups.List(dbc)
	return out, internal("PermissionsGroup.List", err)
}

func (s *catalogService) LearningPlatforms(dbc dbctx.Context) ([]*types.LearningPlatform, error) {
	out, err := s.repos.Catalog.ListLearningPlatforms(dbc)
	return out, internal("LearningPlatform.List", err)
}

func (s *catalogService) LearningActivities(dbc dbctx.Context, platformID *uuid.UUID) ([]*types.LearningActivity, error) {
	out, err := s.repos.Catalog.ListLearningActivities(dbc, platformID)
	return out, internal("LearningActivity.List", err)
}

func (s *catalogService) LearningTypes(dbc dbctx.Context) ([]*types.LearningType, error) {
	out, err := s.repos.Catalog.ListLearningTypes(dbc)
	return out, internal("LearningType.List", err)
}

func (s *catalogService) TaskStatuses(dbc dbctx.Context) ([]*types.TaskStatus, error) {
	out, err := s.repos.Catalog.ListTaskStatuses(dbc)
	return out, internal("TaskStatus.List", err)
}

func (s *catalogService) Locations(dbc dbctx.Context) ([]*types.Location, error) {
	out, err := s.repos.Catalog.ListLocations(dbc)
	return out, internal("Location.List", err)
}

func (s *catalogService) GraduateAttributes(dbc dbctx.Context) ([]*types.GraduateAttribute, error) {
	out, err := s.repos.Catalog.ListGraduateAttributes(dbc)
	return out, internal("GraduateAttribute.List", err)
}

func (s *catalogService) Areas(dbc dbctx.Context) ([]*types.Area, error) {
	out, err := s.repos.Catalog.ListAreas(dbc)
	return out, internal("Area.List", err)
}

func (s *catalogService) Schools(dbc dbctx.Context, areaID *uuid.UUID) ([]*types.School, error) {
	out, err := s.repos.Catalog.ListSchools(dbc, areaID)
	return out, internal("School.List", err)
}
