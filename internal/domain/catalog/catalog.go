// Package catalog holds the reference rows workbooks and activities classify
// themselves with. The core never mutates them.
package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Kind string

const (
	KindLearningPlatform  Kind = "learning_platform"
	KindLearningActivity  Kind = "learning_activity"
	KindLearningType      Kind = "learning_type"
	KindTaskStatus        Kind = "task_status"
	KindLocation          Kind = "location"
	KindGraduateAttribute Kind = "graduate_attribute"
	KindArea              Kind = "area"
	KindSchool            Kind = "school"
)

// Table is the storage table backing a reference kind.
func (k Kind) Table() string { return string(k) }

// Label is the human name used in validation messages.
func (k Kind) Label() string {
	switch k {
	case KindLearningPlatform:
		return "Learning platform"
	case KindLearningActivity:
		return "Learning activity"
	case KindLearningType:
		return "Learning type"
	case KindTaskStatus:
		return "Task status"
	case KindLocation:
		return "Location"
	case KindGraduateAttribute:
		return "Graduate attribute"
	case KindArea:
		return "Area"
	case KindSchool:
		return "School"
	default:
		return string(k)
	}
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

type LearningPlatform struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null" json:"name"`
}

func (LearningPlatform) TableName() string { return KindLearningPlatform.Table() }

func (r *LearningPlatform) BeforeCreate(*gorm.DB) error { newID(&r.ID); return nil }

type LearningActivity struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string    `gorm:"column:name;not null" json:"name"`
	LearningPlatformID uuid.UUID `gorm:"type:uuid;not null;index" json:"learning_platform_id"`
}

func (LearningActivity) TableName() string { return KindLearningActivity.Table() }

func (r *LearningActivity) BeforeCreate(*gorm.DB) error { newID(&r.ID); return nil }

type LearningType struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null" json:"name"`
}

func (LearningType) TableName() string { return KindLearningType.Table() }

func (r *LearningType) BeforeCreate(*gorm.DB) error { newID(&r.ID); return nil }

type TaskStatus struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null" json:"name"`
}

func (TaskStatus) TableName() string { return KindTaskStatus.Table() }

func (r *TaskStatus) BeforeCreate(*gorm.DB) error { newID(&r.ID); return nil }

type Location struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null" json:"name"`
}

func (Location) TableName() string { return KindLocation.Table() }

func (r *Location) BeforeCreate(*gorm.DB) error { newID(&r.ID); return nil }

type GraduateAttribute struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null" json:"name"`
}

func (GraduateAttribute) TableName() string { return KindGraduateAttribute.Table() }

func (r *GraduateAttribute) BeforeCreate(*gorm.DB) error { newID(&r.ID); return nil }

type Area struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null" json:"name"`
}

func (Area) TableName() string { return KindArea.Table() }

func (r *Area) BeforeCreate(*gorm.DB) error { newID(&r.ID); return nil }

type School struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name   string     `gorm:"column:name;not null" json:"name"`
	AreaID *uuid.UUID `gorm:"type:uuid;index" json:"area_id,omitempty"`
}

func (School) TableName() string { return KindSchool.Table() }

func (r *School) BeforeCreate(*gorm.DB) error { newID(&r.ID); return nil }
