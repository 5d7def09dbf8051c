package policy

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fleetsight/gasdash-backend/internal/domain"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

type EndUserDefaultRepo interface {
	Create(dbc dbctx.Context, rule *types.EndUserDefault) (*types.EndUserDefault, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.EndUserDefault, error)
	List(dbc dbctx.Context) ([]*types.EndUserDefault, error)
	ListActive(dbc dbctx.Context) ([]*types.EndUserDefault, error)
	ListActiveByGas(dbc dbctx.Context, gasName string) ([]*types.EndUserDefault, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SetActive(dbc dbctx.Context, id uuid.UUID, active bool) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type endUserDefaultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEndUserDefaultRepo(db *gorm.DB, baseLog *logger.Logger) EndUserDefaultRepo {
	return &endUserDefaultRepo{
		db:  db,
		log: baseLog.With("repo", "EndUserDefaultRepo"),
	}
}

func (r *endUserDefaultRepo) Create(dbc dbctx.Context, rule *types.EndUserDefault) (*types.EndUserDefault, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if rule == nil {
		return nil, nil
	}
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	if err := t.WithContext(dbc.Ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *endUserDefaultRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.EndUserDefault, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.EndUserDefault
	err := t.WithContext(dbc.Ctx).Where("id = ?", id).First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *endUserDefaultRepo) List(dbc dbctx.Context) ([]*types.EndUserDefault, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.EndUserDefault
	if err := t.WithContext(dbc.Ctx).
		Order("gas_name, capacity NULLS LAST").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *endUserDefaultRepo) ListActive(dbc dbctx.Context) ([]*types.EndUserDefault, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.EndUserDefault
	if err := t.WithContext(dbc.Ctx).
		Where("is_active = ?", true).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *endUserDefaultRepo) ListActiveByGas(dbc dbctx.Context, gasName string) ([]*types.EndUserDefault, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.EndUserDefault
	if gasName == "" {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("is_active = ? AND gas_name = ?", true, gasName).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *endUserDefaultRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.EndUserDefault{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *endUserDefaultRepo) SetActive(dbc dbctx.Context, id uuid.UUID, active bool) error {
	return r.UpdateFields(dbc, id, map[string]interface{}{"is_active": active})
}

func (r *endUserDefaultRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.EndUserDefault{}).Error
}
