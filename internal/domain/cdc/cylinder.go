package cdc

import (
	"time"
)

// Cylinder is the replicated FCMS cylinder master row. The CDC feed owns this
// table; we never write it. cylinder_no is CHAR(20) in the source and arrives
// space padded, so every join against it has to trim.
type Cylinder struct {
	CylinderNo          string     `gorm:"column:cylinder_no;type:char(20);primaryKey" json:"cylinder_no"`
	ItemCode            string     `gorm:"column:item_code;index" json:"item_code"`
	Capacity            float64    `gorm:"column:capacity" json:"capacity"`
	ValveSpecCode       string     `gorm:"column:valve_spec_code" json:"valve_spec_code"`
	CylinderSpecCode    string     `gorm:"column:cylinder_spec_code" json:"cylinder_spec_code"`
	UsageDept           string     `gorm:"column:usage_dept" json:"usage_dept"`
	PressureTestDueDate *time.Time `gorm:"column:pressure_test_due_date" json:"pressure_test_due_date,omitempty"`
	RegisteredAt        *time.Time `gorm:"column:registered_at" json:"registered_at,omitempty"`
	UpdatedAt           *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (Cylinder) TableName() string { return "fcms_cylinder" }
