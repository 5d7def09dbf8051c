package policy

import (
	"time"

	"github.com/google/uuid"
)

// EndUserDefault is a wildcard-capable end-user rule. GasName must match
// exactly; the nullable fields act as wildcards when unset. Staff create and
// edit these through the policy UI; the sync engine only reads active rows.
type EndUserDefault struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GasName          string    `gorm:"column:gas_name;not null;index" json:"gas_name"`
	Capacity         *float64  `gorm:"column:capacity" json:"capacity,omitempty"`
	ValveSpecCode    *string   `gorm:"column:valve_spec_code" json:"valve_spec_code,omitempty"`
	CylinderSpecCode *string   `gorm:"column:cylinder_spec_code" json:"cylinder_spec_code,omitempty"`
	EndUser          string    `gorm:"column:end_user;not null" json:"end_user"`
	IsActive         bool      `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (EndUserDefault) TableName() string { return "end_user_default" }

// Specificity is the count of populated wildcard fields; a higher value wins
// when several active rules match the same cylinder.
func (r EndUserDefault) Specificity() int {
	n := 0
	if r.Capacity != nil {
		n++
	}
	if r.ValveSpecCode != nil {
		n++
	}
	if r.CylinderSpecCode != nil {
		n++
	}
	return n
}
