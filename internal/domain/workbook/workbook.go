package workbook

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Workbook is the root of the Workbook -> Week -> Activity hierarchy. NumberOfWeeks
// is maintained by the mutation engine and always equals the live week count.
type Workbook struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StartDate          datatypes.Date `gorm:"column:start_date;not null" json:"start_date"`
	EndDate            datatypes.Date `gorm:"column:end_date;not null" json:"end_date"`
	CourseName         string         `gorm:"column:course_name;not null;index" json:"course_name"`
	CourseLeadID       uuid.UUID      `gorm:"type:uuid;column:course_lead_id;not null;index" json:"course_lead_id"`
	LearningPlatformID uuid.UUID      `gorm:"type:uuid;column:learning_platform_id;not null;index" json:"learning_platform_id"`
	AreaID             *uuid.UUID     `gorm:"type:uuid;column:area_id;index" json:"area_id,omitempty"`
	SchoolID           *uuid.UUID     `gorm:"type:uuid;column:school_id;index" json:"school_id,omitempty"`
	NumberOfWeeks      int            `gorm:"column:number_of_weeks;not null;default:0" json:"number_of_weeks"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
}

func (Workbook) TableName() string { return "workbook" }

func (w *Workbook) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Week is identified by (WorkbookID, Number); numbers are dense 1..NumberOfWeeks.
type Week struct {
	WorkbookID uuid.UUID `gorm:"type:uuid;column:workbook_id;primaryKey" json:"workbook_id"`
	Number     int       `gorm:"column:number;primaryKey;autoIncrement:false" json:"number"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (Week) TableName() string { return "week" }

// Activity belongs to exactly one (WorkbookID, WeekNumber). Number is dense within
// that week.
type Activity struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkbookID          uuid.UUID `gorm:"type:uuid;column:workbook_id;not null;uniqueIndex:idx_activity_slot,priority:1" json:"workbook_id"`
	WeekNumber          int       `gorm:"column:week_number;not null;uniqueIndex:idx_activity_slot,priority:2" json:"week_number"`
	Number              int       `gorm:"column:number;not null;uniqueIndex:idx_activity_slot,priority:3" json:"number"`
	Name                string    `gorm:"column:name;not null" json:"name"`
	TimeEstimateMinutes int       `gorm:"column:time_estimate_minutes;not null;default:0" json:"time_estimate_minutes"`
	LocationID          uuid.UUID `gorm:"type:uuid;column:location_id;not null;index" json:"location_id"`
	LearningActivityID  uuid.UUID `gorm:"type:uuid;column:learning_activity_id;not null;index" json:"learning_activity_id"`
	LearningTypeID      uuid.UUID `gorm:"type:uuid;column:learning_type_id;not null;index" json:"learning_type_id"`
	TaskStatusID        uuid.UUID `gorm:"type:uuid;column:task_status_id;not null;index" json:"task_status_id"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null" json:"updated_at"`
}

func (Activity) TableName() string { return "activity" }

func (a *Activity) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type WorkbookContributor struct {
	WorkbookID    uuid.UUID `gorm:"type:uuid;column:workbook_id;primaryKey" json:"workbook_id"`
	ContributorID uuid.UUID `gorm:"type:uuid;column:contributor_id;primaryKey;index" json:"contributor_id"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}

func (WorkbookContributor) TableName() string { return "workbook_contributor" }

type ActivityStaff struct {
	ActivityID uuid.UUID `gorm:"type:uuid;column:activity_id;primaryKey" json:"activity_id"`
	StaffID    uuid.UUID `gorm:"type:uuid;column:staff_id;primaryKey;index" json:"staff_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (ActivityStaff) TableName() string { return "activity_staff" }

// WeekGraduateAttribute is keyed by the week's composite identity, so week
// renumbering has to rewrite WeekNumber here too.
type WeekGraduateAttribute struct {
	WeekWorkbookID      uuid.UUID `gorm:"type:uuid;column:week_workbook_id;primaryKey" json:"week_workbook_id"`
	WeekNumber          int       `gorm:"column:week_number;primaryKey;autoIncrement:false" json:"week_number"`
	GraduateAttributeID uuid.UUID `gorm:"type:uuid;column:graduate_attribute_id;primaryKey" json:"graduate_attribute_id"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
}

func (WeekGraduateAttribute) TableName() string { return "week_graduate_attribute" }
