package workbook

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

type WeekFilter struct {
	WorkbookID *uuid.UUID
	Number     *int
}

type WeekRepo interface {
	Create(dbc dbctx.Context, rows []*types.Week) ([]*types.Week, error)
	Get(dbc dbctx.Context, workbookID uuid.UUID, number int) (*types.Week, error)
	ListByWorkbook(dbc dbctx.Context, workbookID uuid.UUID) ([]*types.Week, error)
	List(dbc dbctx.Context, f WeekFilter) ([]*types.Week, error)
	// Renumber moves one week from one number to another. The caller guarantees the
	// target number is free.
	Renumber(dbc dbctx.Context, workbookID uuid.UUID, from, to int) error
	Delete(dbc dbctx.Context, workbookID uuid.UUID, number int) error
	DeleteByWorkbook(dbc dbctx.Context, workbookID uuid.UUID) (int64, error)
}

type weekRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeekRepo(db *gorm.DB, baseLog *logger.Logger) WeekRepo {
	return &weekRepo{db: db, log: baseLog.With("repo", "WeekRepo")}
}

func (r *weekRepo) Create(dbc dbctx.Context, rows []*types.Week) ([]*types.Week, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Week{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *weekRepo) Get(dbc dbctx.Context, workbookID uuid.UUID, number int) (*types.Week, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if workbookID == uuid.Nil || number < 1 {
		return nil, nil
	}
	var rows []*types.Week
	if err := t.WithContext(dbc.Ctx).
		Where("workbook_id = ? AND number = ?", workbookID, number).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *weekRepo) ListByWorkbook(dbc dbctx.Context, workbookID uuid.UUID) ([]*types.Week, error) {
	return r.List(dbc, WeekFilter{WorkbookID: &workbookID})
}

func (r *weekRepo) List(dbc dbctx.Context, f WeekFilter) ([]*types.Week, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Model(&types.Week{})
	if f.WorkbookID != nil {
		q = q.Where("workbook_id = ?", *f.WorkbookID)
	}
	if f.Number != nil {
		q = q.Where("number = ?", *f.Number)
	}
	var out []*types.Week
	if err := q.Order("workbook_id ASC, number ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *weekRepo) Renumber(dbc dbctx.Context, workbookID uuid.UUID, from, to int) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if from == to {
		return nil
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.Week{}).
		Where("workbook_id = ? AND number = ?", workbookID, from).
		Update("number", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *weekRepo) Delete(dbc dbctx.Context, workbookID uuid.UUID, number int) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Where("workbook_id = ? AND number = ?", workbookID, number).
		Delete(&types.Week{}).Error
}

func (r *weekRepo) DeleteByWorkbook(dbc dbctx.Context, workbookID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).Where("workbook_id = ?", workbookID).Delete(&types.Week{})
	return res.RowsAffected, res.Error
}
