package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/workbook-backend/internal/data/repos/catalog"
	"github.com/yungbote/workbook-backend/internal/data/repos/user"
	"github.com/yungbote/workbook-backend/internal/data/repos/workbook"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type PermissionsGroupRepo = user.PermissionsGroupRepo

type CatalogRepo = catalog.CatalogRepo

type WorkbookRepo = workbook.WorkbookRepo
type WeekRepo = workbook.WeekRepo
type ActivityRepo = workbook.ActivityRepo
type WorkbookContributorRepo = workbook.WorkbookContributorRepo
type ActivityStaffRepo = workbook.ActivityStaffRepo
type WeekGraduateAttributeRepo = workbook.WeekGraduateAttributeRepo

type WorkbookFilter = workbook.WorkbookFilter
type WeekFilter = workbook.WeekFilter
type ActivityFilter = workbook.ActivityFilter
type ContributorFilter = workbook.ContributorFilter
type StaffFilter = workbook.StaffFilter
type WeekGraduateAttributeFilter = workbook.WeekGraduateAttributeFilter

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewPermissionsGroupRepo(db *gorm.DB, log *logger.Logger) PermissionsGroupRepo {
	return user.NewPermissionsGroupRepo(db, log)
}
func NewCatalogRepo(db *gorm.DB, log *logger.Logger) CatalogRepo {
	return catalog.NewCatalogRepo(db, log)
}
func NewWorkbookRepo(db *gorm.DB, log *logger.Logger) WorkbookRepo {
	return workbook.NewWorkbookRepo(db, log)
}
func NewWeekRepo(db *gorm.DB, log *logger.Logger) WeekRepo { return workbook.NewWeekRepo(db, log) }
func NewActivityRepo(db *gorm.DB, log *logger.Logger) ActivityRepo {
	return workbook.NewActivityRepo(db, log)
}
func NewWorkbookContributorRepo(db *gorm.DB, log *logger.Logger) WorkbookContributorRepo {
	return workbook.NewWorkbookContributorRepo(db, log)
}
func NewActivityStaffRepo(db *gorm.DB, log *logger.Logger) ActivityStaffRepo {
	return workbook.NewActivityStaffRepo(db, log)
}
func NewWeekGraduateAttributeRepo(db *gorm.DB, log *logger.Logger) WeekGraduateAttributeRepo {
	return workbook.NewWeekGraduateAttributeRepo(db, log)
}

// Set bundles every table repo over one connection.
type Set struct {
	Users             UserRepo
	PermissionsGroups PermissionsGroupRepo
	Catalog           CatalogRepo
	Workbooks         WorkbookRepo
	Weeks             WeekRepo
	Activities        ActivityRepo
	Contributors      WorkbookContributorRepo
	ActivityStaff     ActivityStaffRepo
	WeekAttributes    WeekGraduateAttributeRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Users:             NewUserRepo(db, log),
		PermissionsGroups: NewPermissionsGroupRepo(db, log),
		Catalog:           NewCatalogRepo(db, log),
		Workbooks:         NewWorkbookRepo(db, log),
		Weeks:             NewWeekRepo(db, log),
		Activities:        NewActivityRepo(db, log),
		Contributors:      NewWorkbookContributorRepo(db, log),
		ActivityStaff:     NewActivityStaffRepo(db, log),
		WeekAttributes:    NewWeekGraduateAttributeRepo(db, log),
	}
}
