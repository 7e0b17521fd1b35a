package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

// CatalogRepo reads the reference tables (platforms, locations, statuses ...).
type CatalogRepo interface {
	Exists(dbc dbctx.Context, kind types.CatalogKind, id uuid.UUID) (bool, error)
	// Names resolves display names for ids of one kind. Unknown ids are absent.
	Names(dbc dbctx.Context, kind types.CatalogKind, ids []uuid.UUID) (map[uuid.UUID]string, error)

	ListLearningPlatforms(dbc dbctx.Context) ([]*types.LearningPlatform, error)
	ListLearningActivities(dbc dbctx.Context, platformID *uuid.UUID) ([]*types.LearningActivity, error)
	ListLearningTypes(dbc dbctx.Context) ([]*types.LearningType, error)
	ListTaskStatuses(dbc dbctx.Context) ([]*types.TaskStatus, error)
	ListLocations(dbc dbctx.Context) ([]*types.Location, error)
	ListGraduateAttributes(dbc dbctx.Context) ([]*types.GraduateAttribute, error)
	ListAreas(dbc dbctx.Context) ([]*types.Area, error)
	ListSchools(dbc dbctx.Context, areaID *uuid.UUID) ([]*types.School, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

func (r *catalogRepo) conn(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx)
}

func (r *catalogRepo) Exists(dbc dbctx.Context, kind types.CatalogKind, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := r.conn(dbc).Table(kind.Table()).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *catalogRepo) Names(dbc dbctx.Context, kind types.CatalogKind, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := map[uuid.UUID]string{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ID   uuid.UUID
		Name string
	}
	if err := r.conn(dbc).Table(kind.Table()).Select("id, name").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Name
	}
	return out, nil
}

func listOrdered[T any](q *gorm.DB) ([]*T, error) {
	var out []*T
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogRepo) ListLearningPlatforms(dbc dbctx.Context) ([]*types.LearningPlatform, error) {
	return listOrdered[types.LearningPlatform](r.conn(dbc))
}

func (r *catalogRepo) ListLearningActivities(dbc dbctx.Context, platformID *uuid.UUID) ([]*types.LearningActivity, error) {
	q := r.conn(dbc)
	if platformID != nil {
		q = q.Where("learning_platform_id = ?", *platformID)
	}
	return listOrdered[types.LearningActivity](q)
}

func (r *catalogRepo) ListLearningTypes(dbc dbctx.Context) ([]*types.LearningType, error) {
	return listOrdered[types.LearningType](r.conn(dbc))
}

func (r *catalogRepo) ListTaskStatuses(dbc dbctx.Context) ([]*types.TaskStatus, error) {
	return listOrdered[types.TaskStatus](r.conn(dbc))
}

func (r *catalogRepo) ListLocations(dbc dbctx.Context) ([]*types.Location, error) {
	return listOrdered[types.Location](r.conn(dbc))
}

func (r *catalogRepo) ListGraduateAttributes(dbc dbctx.Context) ([]*types.GraduateAttribute, error) {
	return listOrdered[types.GraduateAttribute](r.conn(dbc))
}

func (r *catalogRepo) ListAreas(dbc dbctx.Context) ([]*types.Area, error) {
	return listOrdered[types.Area](r.conn(dbc))
}

func (r *catalogRepo) ListSchools(dbc dbctx.Context, areaID *uuid.UUID) ([]*types.School, error) {
	q := r.conn(dbc)
	if areaID != nil {
		q = q.Where("area_id = ?", *areaID)
	}
	return listOrdered[types.School](q)
}
