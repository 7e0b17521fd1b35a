package workbook

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/workbook-backend/internal/domain"
	"github.com/yungbote/workbook-backend/internal/platform/dbctx"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

type ContributorFilter struct {
	WorkbookID    *uuid.UUID
	ContributorID *uuid.UUID
}

type WorkbookContributorRepo interface {
	Create(dbc dbctx.Context, rows []*types.WorkbookContributor) ([]*types.WorkbookContributor, error)
	Get(dbc dbctx.Context, workbookID, contributorID uuid.UUID) (*types.WorkbookContributor, error)
	List(dbc dbctx.Context, f ContributorFilter) ([]*types.WorkbookContributor, error)
	// ContributorIDs returns the contributor set of a workbook.
	ContributorIDs(dbc dbctx.Context, workbookID uuid.UUID) ([]uuid.UUID, error)
	Delete(dbc dbctx.Context, workbookID, contributorID uuid.UUID) error
	DeleteByWorkbook(dbc dbctx.Context, workbookID uuid.UUID) (int64, error)
}

type workbookContributorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkbookContributorRepo(db *gorm.DB, baseLog *logger.Logger) WorkbookContributorRepo {
	return &workbookContributorRepo{db: db, log: baseLog.With("repo", "WorkbookContributorRepo")}
}

func (r *workbookContributorRepo) Create(dbc dbctx.Context, rows []*types.WorkbookContributor) ([]*types.WorkbookContributor, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.WorkbookContributor{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *workbookContributorRepo) Get(dbc dbctx.Context, workbookID, contributorID uuid.UUID) (*types.WorkbookContributor, error) {
	rows, err := r.List(dbc, ContributorFilter{WorkbookID: &workbookID, ContributorID: &contributorID})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *workbookContributorRepo) List(dbc dbctx.Context, f ContributorFilter) ([]*types.WorkbookContributor, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Model(&types.WorkbookContributor{})
	if f.WorkbookID != nil {
		q = q.Where("workbook_id = ?", *f.WorkbookID)
	}
	if f.ContributorID != nil {
		q = q.Where("contributor_id = ?", *f.ContributorID)
	}
	var out []*types.WorkbookContributor
	if err := q.Order("workbook_id ASC, created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workbookContributorRepo) ContributorIDs(dbc dbctx.Context, workbookID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.List(dbc, ContributorFilter{WorkbookID: &workbookID})
	if err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ContributorID)
	}
	return out, nil
}

func (r *workbookContributorRepo) Delete(dbc dbctx.Context, workbookID, contributorID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Where("workbook_id = ? AND contributor_id = ?", workbookID, contributorID).
		Delete(&types.WorkbookContributor{}).Error
}

func (r *workbookContributorRepo) DeleteByWorkbook(dbc dbctx.Context, workbookID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).Where("workbook_id = ?", workbookID).Delete(&types.WorkbookContributor{})
	return res.RowsAffected, res.Error
}
