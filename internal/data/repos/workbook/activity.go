package workbook

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

type ActivityFilter struct {
	WorkbookID *uuid.UUID
	WeekNumber *int
}

type ActivityRepo interface {
	Create(dbc dbctx.Context, rows []*types.Activity) ([]*types.Activity, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Activity, error)
	// ListByWeek returns the week's activities ordered by number.
	ListByWeek(dbc dbctx.Context, workbookID uuid.UUID, weekNumber int) ([]*types.Activity, error)
	ListByWorkbook(dbc dbctx.Context, workbookID uuid.UUID) ([]*types.Activity, error)
	List(dbc dbctx.Context, f ActivityFilter) ([]*types.Activity, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SetNumber(dbc dbctx.Context, id uuid.UUID, number int) error
	// MoveToWeekNumber rewrites week_number for every activity of one week. It is
	// only used while renumbering weeks; activities never change week otherwise.
	MoveToWeekNumber(dbc dbctx.Context, workbookID uuid.UUID, from, to int) (int64, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	DeleteByWorkbook(dbc dbctx.Context, workbookID uuid.UUID) (int64, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Create(dbc dbctx.Context, rows []*types.Activity) ([]*types.Activity, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Activity{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *activityRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Activity, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Activity
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *activityRepo) ListByWeek(dbc dbctx.Context, workbookID uuid.UUID, weekNumber int) ([]*types.Activity, error) {
	return r.List(dbc, ActivityFilter{WorkbookID: &workbookID, WeekNumber: &weekNumber})
}

func (r *activityRepo) ListByWorkbook(dbc dbctx.Context, workbookID uuid.UUID) ([]*types.Activity, error) {
	return r.List(dbc, ActivityFilter{WorkbookID: &workbookID})
}

func (r *activityRepo) List(dbc dbctx.Context, f ActivityFilter) ([]*types.Activity, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Model(&types.Activity{})
	if f.WorkbookID != nil {
		q = q.Where("workbook_id = ?", *f.WorkbookID)
	}
	if f.WeekNumber != nil {
		q = q.Where("week_number = ?", *f.WeekNumber)
	}
	var out []*types.Activity
	if err := q.Order("workbook_id ASC, week_number ASC, number ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.Activity{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *activityRepo) SetNumber(dbc dbctx.Context, id uuid.UUID, number int) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.Activity{}).
		Where("id = ?", id).
		Update("number", number)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *activityRepo) MoveToWeekNumber(dbc dbctx.Context, workbookID uuid.UUID, from, to int) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if from == to {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.Activity{}).
		Where("workbook_id = ? AND week_number = ?", workbookID, from).
		Update("week_number", to)
	return res.RowsAffected, res.Error
}

func (r *activityRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.Activity{}).Error
}

func (r *activityRepo) DeleteByWorkbook(dbc dbctx.Context, workbookID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).Where("workbook_id = ?", workbookID).Delete(&types.Activity{})
	return res.RowsAffected, res.Error
}
