package fleet

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/fleetsight/gasdash-backend/internal/domain"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

type HistoryRepo interface {
	// Insert writes one history row. Returns false with a nil error when the
	// row already exists in its bucket; any other failure is a real error.
	Insert(dbc dbctx.Context, row *types.InventoryHistorySnapshot) (bool, error)
	DeleteBucket(dbc dbctx.Context, at time.Time, snapshotType types.SnapshotType) (int64, error)
	BucketExists(dbc dbctx.Context, at time.Time, snapshotType types.SnapshotType) (bool, error)
	ListRange(dbc dbctx.Context, from, to time.Time, snapshotType types.SnapshotType) ([]*types.InventoryHistorySnapshot, error)
}

type historyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
	return &historyRepo{
		db:  db,
		log: baseLog.With("repo", "HistoryRepo"),
	}
}

func (r *historyRepo) Insert(dbc dbctx.Context, row *types.InventoryHistorySnapshot) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "snapshot_datetime"},
				{Name: "snapshot_type"},
				{Name: "cylinder_type_key"},
				{Name: "status"},
				{Name: "location"},
			},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	// RowsAffected zero means the unique index swallowed the insert.
	return res.RowsAffected > 0, nil
}

func (r *historyRepo) DeleteBucket(dbc dbctx.Context, at time.Time, snapshotType types.SnapshotType) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Where("snapshot_datetime = ? AND snapshot_type = ?", at, snapshotType).
		Delete(&types.InventoryHistorySnapshot{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *historyRepo) BucketExists(dbc dbctx.Context, at time.Time, snapshotType types.SnapshotType) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.InventoryHistorySnapshot{}).
		Where("snapshot_datetime = ? AND snapshot_type = ?", at, snapshotType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *historyRepo) ListRange(dbc dbctx.Context, from, to time.Time, snapshotType types.SnapshotType) ([]*types.InventoryHistorySnapshot, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.InventoryHistorySnapshot
	q := t.WithContext(dbc.Ctx).
		Where("snapshot_datetime >= ? AND snapshot_datetime <= ?", from, to)
	if snapshotType != "" {
		q = q.Where("snapshot_type = ?", snapshotType)
	}
	if err := q.Order("snapshot_datetime, gas_name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
