package workbook

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

type WeekGraduateAttributeFilter struct {
	WorkbookID *uuid.UUID
	WeekNumber *int
}

type WeekGraduateAttributeRepo interface {
	Create(dbc dbctx.Context, rows []*types.WeekGraduateAttribute) ([]*types.WeekGraduateAttribute, error)
	Get(dbc dbctx.Context, workbookID uuid.UUID, weekNumber int, graduateAttributeID uuid.UUID) (*types.WeekGraduateAttribute, error)
	List(dbc dbctx.Context, f WeekGraduateAttributeFilter) ([]*types.WeekGraduateAttribute, error)
	// Renumber rewrites week_number for all rows of one week.
	Renumber(dbc dbctx.Context, workbookID uuid.UUID, from, to int) (int64, error)
	Delete(dbc dbctx.Context, workbookID uuid.UUID, weekNumber int, graduateAttributeID uuid.UUID) error
	DeleteByWeek(dbc dbctx.Context, workbookID uuid.UUID, weekNumber int) (int64, error)
	DeleteByWorkbook(dbc dbctx.Context, workbookID uuid.UUID) (int64, error)
}

type weekGraduateAttributeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeekGraduateAttributeRepo(db *gorm.DB, baseLog *logger.Logger) WeekGraduateAttributeRepo {
	return &weekGraduateAttributeRepo{db: db, log: baseLog.With("repo", "WeekGraduateAttributeRepo")}
}

func (r *weekGraduateAttributeRepo) Create(dbc dbctx.Context, rows []*types.WeekGraduateAttribute) ([]*types.WeekGraduateAttribute, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.WeekGraduateAttribute{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *weekGraduateAttributeRepo) Get(dbc dbctx.Context, workbookID uuid.UUID, weekNumber int, graduateAttributeID uuid.UUID) (*types.WeekGraduateAttribute, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.WeekGraduateAttribute
	if err := t.WithContext(dbc.Ctx).
		Where("week_workbook_id = ? AND week_number = ? AND graduate_attribute_id = ?", workbookID, weekNumber, graduateAttributeID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *weekGraduateAttributeRepo) List(dbc dbctx.Context, f WeekGraduateAttributeFilter) ([]*types.WeekGraduateAttribute, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Model(&types.WeekGraduateAttribute{})
	if f.WorkbookID != nil {
		q = q.Where("week_workbook_id = ?", *f.WorkbookID)
	}
	if f.WeekNumber != nil {
		q = q.Where("week_number = ?", *f.WeekNumber)
	}
	var out []*types.WeekGraduateAttribute
	if err := q.Order("week_workbook_id ASC, week_number ASC, created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *weekGraduateAttributeRepo) Renumber(dbc dbctx.Context, workbookID uuid.UUID, from, to int) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if from == to {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.WeekGraduateAttribute{}).
		Where("week_workbook_id = ? AND week_number = ?", workbookID, from).
		Update("week_number", to)
	return res.RowsAffected, res.Error
}

func (r *weekGraduateAttributeRepo) Delete(dbc dbctx.Context, workbookID uuid.UUID, weekNumber int, graduateAttributeID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Where("week_workbook_id = ? AND week_number = ? AND graduate_attribute_id = ?", workbookID, weekNumber, graduateAttributeID).
		Delete(&types.WeekGraduateAttribute{}).Error
}

func (r *weekGraduateAttributeRepo) DeleteByWeek(dbc dbctx.Context, workbookID uuid.UUID, weekNumber int) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Where("week_workbook_id = ? AND week_number = ?", workbookID, weekNumber).
		Delete(&types.WeekGraduateAttribute{})
	return res.RowsAffected, res.Error
}

func (r *weekGraduateAttributeRepo) DeleteByWorkbook(dbc dbctx.Context, workbookID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).Where("week_workbook_id = ?", workbookID).Delete(&types.WeekGraduateAttribute{})
	return res.RowsAffected, res.Error
}
