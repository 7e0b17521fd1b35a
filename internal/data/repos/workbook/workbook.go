package workbook

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

// WorkbookFilter narrows Search. Zero values mean "no constraint".
type WorkbookFilter struct {
	StartsAfter        *time.Time
	EndsBefore         *time.Time
	AreaID             *uuid.UUID
	SchoolID           *uuid.UUID
	LearningPlatformID *uuid.UUID
	CourseLeadIDs      []uuid.UUID
}

type WorkbookRepo interface {
	Create(dbc dbctx.Context, rows []*types.Workbook) ([]*types.Workbook, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Workbook, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Workbook, error)
	// LockByID reads the workbook with a row lock held until the transaction ends.
	// Every ordinal mutation inside the workbook takes this lock first.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Workbook, error)
	List(dbc dbctx.Context) ([]*types.Workbook, error)
	Search(dbc dbctx.Context, f WorkbookFilter) ([]*types.Workbook, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
}

type workbookRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkbookRepo(db *gorm.DB, baseLog *logger.Logger) WorkbookRepo {
	return &workbookRepo{db: db, log: baseLog.With("repo", "WorkbookRepo")}
}

func (r *workbookRepo) Create(dbc dbctx.Context, rows []*types.Workbook) ([]*types.Workbook, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Workbook{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *workbookRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Workbook, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Workbook
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *workbookRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Workbook, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Workbook
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Order("course_name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workbookRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Workbook, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Workbook
	err := t.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *workbookRepo) List(dbc dbctx.Context) ([]*types.Workbook, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Workbook
	if err := t.WithContext(dbc.Ctx).Order("course_name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workbookRepo) Search(dbc dbctx.Context, f WorkbookFilter) ([]*types.Workbook, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Model(&types.Workbook{})
	if f.StartsAfter != nil {
		q = q.Where("start_date >= ?", *f.StartsAfter)
	}
	if f.EndsBefore != nil {
		q = q.Where("end_date <= ?", *f.EndsBefore)
	}
	if f.AreaID != nil {
		q = q.Where("area_id = ?", *f.AreaID)
	}
	if f.SchoolID != nil {
		q = q.Where("school_id = ?", *f.SchoolID)
	}
	if f.LearningPlatformID != nil {
		q = q.Where("learning_platform_id = ?", *f.LearningPlatformID)
	}
	if f.CourseLeadIDs != nil {
		if len(f.CourseLeadIDs) == 0 {
			return []*types.Workbook{}, nil
		}
		q = q.Where("course_lead_id IN ?", f.CourseLeadIDs)
	}
	var out []*types.Workbook
	if err := q.Order("course_name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workbookRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Workbook{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *workbookRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("id = ?", id).Delete(&types.Workbook{}).Error
}
