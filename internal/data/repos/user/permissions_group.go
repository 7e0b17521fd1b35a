package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

type PermissionsGroupRepo interface {
	Create(dbc dbctx.Context, rows []*types.PermissionsGroup) ([]*types.PermissionsGroup, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PermissionsGroup, error)
	GetByName(dbc dbctx.Context, name string) (*types.PermissionsGroup, error)
	List(dbc dbctx.Context) ([]*types.PermissionsGroup, error)
}

type permissionsGroupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPermissionsGroupRepo(db *gorm.DB, baseLog *logger.Logger) PermissionsGroupRepo {
	return &permissionsGroupRepo{db: db, log: baseLog.With("repo", "PermissionsGroupRepo")}
}

func (r *permissionsGroupRepo) Create(dbc dbctx.Context, rows []*types.PermissionsGroup) ([]*types.PermissionsGroup, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.PermissionsGroup{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *permissionsGroupRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PermissionsGroup, error) {
	return r.first(dbc, "id = ?", id)
}

func (r *permissionsGroupRepo) GetByName(dbc dbctx.Context, name string) (*types.PermissionsGroup, error) {
	return r.first(dbc, "name = ?", name)
}

func (r *permissionsGroupRepo) first(dbc dbctx.Context, cond string, arg interface{}) (*types.PermissionsGroup, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.PermissionsGroup
	if err := t.WithContext(dbc.Ctx).Where(cond, arg).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *permissionsGroupRepo) List(dbc dbctx.Context) ([]*types.PermissionsGroup, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.PermissionsGroup
	if err := t.WithContext(dbc.Ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
