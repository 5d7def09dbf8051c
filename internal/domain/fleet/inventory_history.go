package fleet

import (
	"time"

	"github.com/google/uuid"
)

// InventoryHistorySnapshot is one aggregated bucket of the current view,
// frozen at a point in time for trend charts. Rows are immutable once
// written; the unique index is what turns a re-run into duplicate skips.
type InventoryHistorySnapshot struct {
	ID               uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SnapshotDatetime time.Time    `gorm:"column:snapshot_datetime;not null;uniqueIndex:uidx_history_bucket,priority:1;index" json:"snapshot_datetime"`
	SnapshotType     SnapshotType `gorm:"column:snapshot_type;not null;uniqueIndex:uidx_history_bucket,priority:2;index" json:"snapshot_type"`
	CylinderTypeKey  string       `gorm:"column:cylinder_type_key;not null;uniqueIndex:uidx_history_bucket,priority:3" json:"cylinder_type_key"`
	Status           Status       `gorm:"column:status;not null;uniqueIndex:uidx_history_bucket,priority:4" json:"status"`
	Location         string       `gorm:"column:location;uniqueIndex:uidx_history_bucket,priority:5" json:"location"`

	GasName          string  `gorm:"column:gas_name;not null" json:"gas_name"`
	Capacity         float64 `gorm:"column:capacity" json:"capacity"`
	ValveDisplayName string  `gorm:"column:valve_display_name" json:"valve_display_name"`
	CylinderSpecName string  `gorm:"column:cylinder_spec_name" json:"cylinder_spec_name"`
	EndUser          *string `gorm:"column:end_user" json:"end_user,omitempty"`
	UsagePlace       string  `gorm:"column:usage_place" json:"usage_place"`
	Qty              int64   `gorm:"column:qty;not null" json:"qty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (InventoryHistorySnapshot) TableName() string { return "inventory_history_snapshot" }
