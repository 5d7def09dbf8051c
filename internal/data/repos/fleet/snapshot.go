package fleet

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/fleetsight/gasdash-backend/internal/domain"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

// AggregateRow is one dashboard card bucket: counts of snapshot rows grouped
// by type key, status and location.
type AggregateRow struct {
	CylinderTypeKey  string  `json:"cylinder_type_key"`
	GasName          string  `json:"gas_name"`
	Capacity         float64 `json:"capacity"`
	ValveDisplayName string  `json:"valve_display_name"`
	CylinderSpecName string  `json:"cylinder_spec_name"`
	EndUser          *string `json:"end_user,omitempty"`
	UsagePlace       string  `json:"usage_place"`
	Status           string  `json:"status"`
	Location         string  `json:"location"`
	Qty              int64   `json:"qty"`
}

type SnapshotRepo interface {
	UpsertByCylinderNo(dbc dbctx.Context, row *types.CylinderSnapshot) error
	GetByCylinderNo(dbc dbctx.Context, cylinderNo string) (*types.CylinderSnapshot, error)
	ListCylinderNos(dbc dbctx.Context) ([]string, error)
	Count(dbc dbctx.Context) (int64, error)
	GroupedCounts(dbc dbctx.Context) ([]AggregateRow, error)
	ListOrphans(dbc dbctx.Context) ([]string, error)
	DeleteByCylinderNos(dbc dbctx.Context, cylinderNos []string) (int64, error)
}

type snapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRepo {
	return &snapshotRepo{
		db:  db,
		log: baseLog.With("repo", "SnapshotRepo"),
	}
}

// UpsertByCylinderNo is the single write path for snapshot rows. Conflict
// resolution rides on the unique index over the trimmed cylinder number, so
// concurrent resyncs of the same cylinder degrade to last-write-wins instead
// of duplicate rows.
func (r *snapshotRepo) UpsertByCylinderNo(dbc dbctx.Context, row *types.CylinderSnapshot) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	row.CylinderNo = strings.TrimSpace(row.CylinderNo)
	if row.CylinderNo == "" {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.SnapshotUpdatedAt = time.Now().UTC()
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cylinder_no"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"raw_gas_item_code",
				"raw_capacity",
				"raw_valve_spec_code",
				"raw_valve_spec_name",
				"raw_cylinder_spec_code",
				"raw_cylinder_spec_name",
				"raw_usage_dept",
				"raw_condition_code",
				"raw_location",
				"raw_moved_at",
				"pressure_test_due",
				"gas_name",
				"capacity",
				"valve_display_name",
				"cylinder_spec_name",
				"end_user",
				"status",
				"available",
				"risk_level",
				"cylinder_type_key",
				"source_updated_at",
				"snapshot_updated_at",
			}),
		}).
		Create(row).Error
}

func (r *snapshotRepo) GetByCylinderNo(dbc dbctx.Context, cylinderNo string) (*types.CylinderSnapshot, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	trimmed := strings.TrimSpace(cylinderNo)
	if trimmed == "" {
		return nil, nil
	}
	var out types.CylinderSnapshot
	err := t.WithContext(dbc.Ctx).
		Where("cylinder_no = ?", trimmed).
		First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *snapshotRepo) ListCylinderNos(dbc dbctx.Context) ([]string, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var nos []string
	if err := t.WithContext(dbc.Ctx).
		Model(&types.CylinderSnapshot{}).
		Order("cylinder_no").
		Pluck("cylinder_no", &nos).Error; err != nil {
		return nil, err
	}
	return nos, nil
}

func (r *snapshotRepo) Count(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.CylinderSnapshot{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GroupedCounts is the aggregation view the dashboard cards read. Disposed
// cylinders stay in the snapshot table for audit but are not on the board.
func (r *snapshotRepo) GroupedCounts(dbc dbctx.Context) ([]AggregateRow, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []AggregateRow
	if err := t.WithContext(dbc.Ctx).
		Model(&types.CylinderSnapshot{}).
		Select(`cylinder_type_key, gas_name, capacity, valve_display_name,
			cylinder_spec_name, end_user, raw_usage_dept AS usage_place,
			status, raw_location AS location, COUNT(*) AS qty`).
		Where("status <> ?", types.StatusDisposed).
		Group(`cylinder_type_key, gas_name, capacity, valve_display_name,
			cylinder_spec_name, end_user, raw_usage_dept, status, raw_location`).
		Order("gas_name, capacity, status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOrphans reports snapshot rows whose cylinder no longer exists in the
// CDC source. Detection only; deleting them is a separate explicit call.
func (r *snapshotRepo) ListOrphans(dbc dbctx.Context) ([]string, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var nos []string
	if err := t.WithContext(dbc.Ctx).Raw(`
SELECT s.cylinder_no
FROM cylinder_current_snapshot s
WHERE NOT EXISTS (
  SELECT 1 FROM fcms_cylinder c WHERE TRIM(c.cylinder_no) = s.cylinder_no
)
ORDER BY s.cylinder_no
`).Scan(&nos).Error; err != nil {
		return nil, err
	}
	return nos, nil
}

func (r *snapshotRepo) DeleteByCylinderNos(dbc dbctx.Context, cylinderNos []string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	trimmed := make([]string, 0, len(cylinderNos))
	for _, no := range cylinderNos {
		if v := strings.TrimSpace(no); v != "" {
			trimmed = append(trimmed, v)
		}
	}
	if len(trimmed) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Where("cylinder_no IN ?", trimmed).
		Delete(&types.CylinderSnapshot{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
