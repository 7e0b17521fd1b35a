package workbook

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

type StaffFilter struct {
	ActivityID *uuid.UUID
	StaffID    *uuid.UUID
}

type ActivityStaffRepo interface {
	Create(dbc dbctx.Context, rows []*types.ActivityStaff) ([]*types.ActivityStaff, error)
	Get(dbc dbctx.Context, activityID, staffID uuid.UUID) (*types.ActivityStaff, error)
	List(dbc dbctx.Context, f StaffFilter) ([]*types.ActivityStaff, error)
	ListByActivityIDs(dbc dbctx.Context, activityIDs []uuid.UUID) ([]*types.ActivityStaff, error)
	Delete(dbc dbctx.Context, activityID, staffID uuid.UUID) error
	DeleteByActivityIDs(dbc dbctx.Context, activityIDs []uuid.UUID) (int64, error)
}

type activityStaffRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityStaffRepo(db *gorm.DB, baseLog *logger.Logger) ActivityStaffRepo {
	return &activityStaffRepo{db: db, log: baseLog.With("repo", "ActivityStaffRepo")}
}

func (r *activityStaffRepo) Create(dbc dbctx.Context, rows []*types.ActivityStaff) ([]*types.ActivityStaff, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.ActivityStaff{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *activityStaffRepo) Get(dbc dbctx.Context, activityID, staffID uuid.UUID) (*types.ActivityStaff, error) {
	rows, err := r.List(dbc, StaffFilter{ActivityID: &activityID, StaffID: &staffID})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *activityStaffRepo) List(dbc dbctx.Context, f StaffFilter) ([]*types.ActivityStaff, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Model(&types.ActivityStaff{})
	if f.ActivityID != nil {
		q = q.Where("activity_id = ?", *f.ActivityID)
	}
	if f.StaffID != nil {
		q = q.Where("staff_id = ?", *f.StaffID)
	}
	var out []*types.ActivityStaff
	if err := q.Order("activity_id ASC, created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityStaffRepo) ListByActivityIDs(dbc dbctx.Context, activityIDs []uuid.UUID) ([]*types.ActivityStaff, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.ActivityStaff
	if len(activityIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("activity_id IN ?", activityIDs).
		Order("activity_id ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityStaffRepo) Delete(dbc dbctx.Context, activityID, staffID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Where("activity_id = ? AND staff_id = ?", activityID, staffID).
		Delete(&types.ActivityStaff{}).Error
}

func (r *activityStaffRepo) DeleteByActivityIDs(dbc dbctx.Context, activityIDs []uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(activityIDs) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).Where("activity_id IN ?", activityIDs).Delete(&types.ActivityStaff{})
	return res.RowsAffected, res.Error
}
