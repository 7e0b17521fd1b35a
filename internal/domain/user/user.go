package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GroupAdmin = "Admin"
	GroupUser  = "User"
)

type PermissionsGroup struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PermissionsGroup) TableName() string { return "permissions_group" }

func (g *PermissionsGroup) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// User is a person who can lead or contribute to workbooks and staff activities.
// Login is by unique name.
type User struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string            `gorm:"column:name;not null;uniqueIndex" json:"name"`
	PermissionsGroupID uuid.UUID         `gorm:"type:uuid;not null;index" json:"permissions_group_id"`
	PermissionsGroup   *PermissionsGroup `gorm:"foreignKey:PermissionsGroupID;references:ID" json:"permissions_group,omitempty"`
	CreatedAt          time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
