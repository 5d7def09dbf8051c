package policy

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

type EndUserExceptionRepo interface {
	GetActiveByCylinderNo(dbc dbctx.Context, cylinderNo string) (*types.EndUserException, error)
	ListActive(dbc dbctx.Context) ([]*types.EndUserException, error)
	List(dbc dbctx.Context) ([]*types.EndUserException, error)
	UpsertByCylinderNo(dbc dbctx.Context, row *types.EndUserException) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type endUserExceptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEndUserExceptionRepo(db *gorm.DB, baseLog *logger.Logger) EndUserExceptionRepo {
	return &endUserExceptionRepo{
		db:  db,
		log: baseLog.With("repo", "EndUserExceptionRepo"),
	}
}

func (r *endUserExceptionRepo) GetActiveByCylinderNo(dbc dbctx.Context, cylinderNo string) (*types.EndUserException, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	trimmed := strings.TrimSpace(cylinderNo)
	if trimmed == "" {
		return nil, nil
	}
	var out types.EndUserException
	err := t.WithContext(dbc.Ctx).
		Where("cylinder_no = ? AND is_active = ?", trimmed, true).
		First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *endUserExceptionRepo) ListActive(dbc dbctx.Context) ([]*types.EndUserException, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.EndUserException
	if err := t.WithContext(dbc.Ctx).
		Where("is_active = ?", true).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *endUserExceptionRepo) List(dbc dbctx.Context) ([]*types.EndUserException, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.EndUserException
	if err := t.WithContext(dbc.Ctx).
		Order("cylinder_no").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertByCylinderNo inserts or replaces the exception for one cylinder. The
// CSV bulk upload goes through here row by row, so the cylinder number is
// trimmed before it can reach the unique index.
func (r *endUserExceptionRepo) UpsertByCylinderNo(dbc dbctx.Context, row *types.EndUserException) error {
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
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cylinder_no"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"end_user",
				"reason",
				"is_active",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *endUserExceptionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.EndUserException{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *endUserExceptionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.EndUserException{}).Error
}
