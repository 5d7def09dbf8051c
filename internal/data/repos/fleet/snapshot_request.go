package fleet

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fleetsight/gasdash-backend/internal/domain"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

type SnapshotRequestRepo interface {
	Create(dbc dbctx.Context, row *types.SnapshotRequest) (*types.SnapshotRequest, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*types.SnapshotRequest, error)
}

type snapshotRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSnapshotRequestRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRequestRepo {
	return &snapshotRequestRepo{
		db:  db,
		log: baseLog.With("repo", "SnapshotRequestRepo"),
	}
}

func (r *snapshotRequestRepo) Create(dbc dbctx.Context, row *types.SnapshotRequest) (*types.SnapshotRequest, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *snapshotRequestRepo) ListRecent(dbc dbctx.Context, limit int) ([]*types.SnapshotRequest, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var out []*types.SnapshotRequest
	if err := t.WithContext(dbc.Ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
