package policy

import (
	"time"

	"github.com/google/uuid"
)

// EndUserException pins one cylinder to an end user regardless of any default
// rule. CylinderNo is stored trimmed and is unique per cylinder.
type EndUserException struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CylinderNo string    `gorm:"column:cylinder_no;not null;uniqueIndex" json:"cylinder_no"`
	EndUser    string    `gorm:"column:end_user;not null" json:"end_user"`
	Reason     string    `gorm:"column:reason" json:"reason"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (EndUserException) TableName() string { return "end_user_exception" }
