package cdc

import (
	"time"
)

// StatusEvent is one row of the replicated FCMS cylinder movement log. The
// latest event per (trimmed) cylinder number carries the current condition
// code and location.
type StatusEvent struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CylinderNo    string    `gorm:"column:cylinder_no;type:char(20);index" json:"cylinder_no"`
	ConditionCode string    `gorm:"column:condition_code" json:"condition_code"`
	Location      string    `gorm:"column:location" json:"location"`
	MovedAt       time.Time `gorm:"column:moved_at;index" json:"moved_at"`
}

func (StatusEvent) TableName() string { return "fcms_cylinder_status" }
