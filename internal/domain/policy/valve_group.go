package policy

import (
	"time"

	"github.com/google/uuid"
)

// ValveGroup names a set of physically different but equivalent valve specs
// that should render as one group on the dashboard. Grouping only; valve
// groups never participate in end-user resolution.
type ValveGroup struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ValveGroup) TableName() string { return "valve_group" }

// ValveGroupMapping assigns one valve spec code to a group. Exactly one
// mapping per group carries IsPrimary.
type ValveGroupMapping struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ValveGroupID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"valve_group_id"`
	ValveGroup    *ValveGroup `gorm:"constraint:OnDelete:CASCADE;foreignKey:ValveGroupID;references:ID" json:"valve_group,omitempty"`
	ValveSpecCode string      `gorm:"column:valve_spec_code;not null;uniqueIndex" json:"valve_spec_code"`
	IsPrimary     bool        `gorm:"column:is_primary;not null;default:false" json:"is_primary"`
	CreatedAt     time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (ValveGroupMapping) TableName() string { return "valve_group_mapping" }
