package cdc

import (
	"time"
)

// CylinderRecord is the fully joined source view of one cylinder: master row,
// gas/spec name lookups, and the latest status event. CylinderNo is always the
// trimmed form here; padding never leaves the repo layer.
type CylinderRecord struct {
	CylinderNo       string     `json:"cylinder_no"`
	GasItemCode      string     `json:"gas_item_code"`
	GasName          string     `json:"gas_name"`
	Capacity         float64    `json:"capacity"`
	ValveSpecCode    string     `json:"valve_spec_code"`
	ValveSpecName    string     `json:"valve_spec_name"`
	CylinderSpecCode string     `json:"cylinder_spec_code"`
	CylinderSpecName string     `json:"cylinder_spec_name"`
	UsageDept        string     `json:"usage_dept"`
	ConditionCode    string     `json:"condition_code"`
	Location         string     `json:"location"`
	MovedAt          *time.Time `json:"moved_at,omitempty"`
	PressureTestDue  *time.Time `json:"pressure_test_due,omitempty"`
	SourceUpdatedAt  *time.Time `json:"source_updated_at,omitempty"`
}
