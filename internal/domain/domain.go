package domain

import (
	"github.com/yungbote/workbook-backend/internal/domain/catalog"
	"github.com/yungbote/workbook-backend/internal/domain/user"
	"github.com/yungbote/workbook-backend/internal/domain/workbook"
)

type User = user.User
type PermissionsGroup = user.PermissionsGroup

const (
	GroupAdmin = user.GroupAdmin
	GroupUser  = user.GroupUser
)

type Workbook = workbook.Workbook
type Week = workbook.Week
type Activity = workbook.Activity
type WorkbookContributor = workbook.WorkbookContributor
type ActivityStaff = workbook.ActivityStaff
type WeekGraduateAttribute = workbook.WeekGraduateAttribute

type CatalogKind = catalog.Kind

const (
	KindLearningPlatform  = catalog.KindLearningPlatform
	KindLearningActivity  = catalog.KindLearningActivity
	KindLearningType      = catalog.KindLearningType
	KindTaskStatus        = catalog.KindTaskStatus
	KindLocation          = catalog.KindLocation
	KindGraduateAttribute = catalog.KindGraduateAttribute
	KindArea              = catalog.KindArea
	KindSchool            = catalog.KindSchool
)

type LearningPlatform = catalog.LearningPlatform
type LearningActivity = catalog.LearningActivity
type LearningType = catalog.LearningType
type TaskStatus = catalog.TaskStatus
type Location = catalog.Location
type GraduateAttribute = catalog.GraduateAttribute
type Area = catalog.Area
type School = catalog.School

// AllModels lists every persisted table in dependency order.
func AllModels() []any {
	return []any{
		&PermissionsGroup{},
		&User{},
		&LearningPlatform{},
		&LearningActivity{},
		&LearningType{},
		&TaskStatus{},
		&Location{},
		&GraduateAttribute{},
		&Area{},
		&School{},
		&Workbook{},
		&Week{},
		&Activity{},
		&WorkbookContributor{},
		&ActivityStaff{},
		&WeekGraduateAttribute{},
	}
}
