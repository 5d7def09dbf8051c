package fleet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RequestStatusSuccess = "success"
	RequestStatusFailure = "failure"
)

// SnapshotRequest is the append-only audit record written once per history
// snapshot or backfill run, success or not.
type SnapshotRequest struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RequestedBy   string         `gorm:"column:requested_by;not null" json:"requested_by"`
	Reason        string         `gorm:"column:reason" json:"reason"`
	SnapshotType  SnapshotType   `gorm:"column:snapshot_type;not null" json:"snapshot_type"`
	Status        string         `gorm:"column:status;not null" json:"status"`
	ResultMessage string         `gorm:"column:result_message" json:"result_message"`
	Params        datatypes.JSON `gorm:"column:params;type:jsonb" json:"params,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (SnapshotRequest) TableName() string { return "snapshot_request" }
