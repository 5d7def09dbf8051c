package fleet

import (
	"time"

	"github.com/google/uuid"
)

// CylinderSnapshot is the denormalized current state of one physical
// cylinder: the raw source fields kept for audit next to the resolved
// dashboard fields. Exactly one row per trimmed cylinder number; only the
// synchronizer writes here.
type CylinderSnapshot struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CylinderNo string    `gorm:"column:cylinder_no;not null;uniqueIndex" json:"cylinder_no"`

	RawGasItemCode      string     `gorm:"column:raw_gas_item_code" json:"raw_gas_item_code"`
	RawCapacity         float64    `gorm:"column:raw_capacity" json:"raw_capacity"`
	RawValveSpecCode    string     `gorm:"column:raw_valve_spec_code" json:"raw_valve_spec_code"`
	RawValveSpecName    string     `gorm:"column:raw_valve_spec_name" json:"raw_valve_spec_name"`
	RawCylinderSpecCode string     `gorm:"column:raw_cylinder_spec_code" json:"raw_cylinder_spec_code"`
	RawCylinderSpecName string     `gorm:"column:raw_cylinder_spec_name" json:"raw_cylinder_spec_name"`
	RawUsageDept        string     `gorm:"column:raw_usage_dept" json:"raw_usage_dept"`
	RawConditionCode    string     `gorm:"column:raw_condition_code" json:"raw_condition_code"`
	RawLocation         string     `gorm:"column:raw_location" json:"raw_location"`
	RawMovedAt          *time.Time `gorm:"column:raw_moved_at" json:"raw_moved_at,omitempty"`
	PressureTestDue     *time.Time `gorm:"column:pressure_test_due" json:"pressure_test_due,omitempty"`

	GasName          string    `gorm:"column:gas_name;not null;index" json:"gas_name"`
	Capacity         float64   `gorm:"column:capacity" json:"capacity"`
	ValveDisplayName string    `gorm:"column:valve_display_name" json:"valve_display_name"`
	CylinderSpecName string    `gorm:"column:cylinder_spec_name" json:"cylinder_spec_name"`
	EndUser          *string   `gorm:"column:end_user" json:"end_user,omitempty"`
	Status           Status    `gorm:"column:status;not null;index" json:"status"`
	Available        bool      `gorm:"column:available;not null" json:"available"`
	RiskLevel        RiskLevel `gorm:"column:risk_level;not null" json:"risk_level"`
	CylinderTypeKey  string    `gorm:"column:cylinder_type_key;not null;index" json:"cylinder_type_key"`

	SourceUpdatedAt   *time.Time `gorm:"column:source_updated_at" json:"source_updated_at,omitempty"`
	SnapshotUpdatedAt time.Time  `gorm:"column:snapshot_updated_at;not null" json:"snapshot_updated_at"`
	CreatedAt         time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (CylinderSnapshot) TableName() string { return "cylinder_current_snapshot" }
