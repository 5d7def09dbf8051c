package policy

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fleetsight/gasdash-backend/internal/domain"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

type ValveGroupRepo interface {
	CreateGroup(dbc dbctx.Context, group *types.ValveGroup) (*types.ValveGroup, error)
	AddMapping(dbc dbctx.Context, mapping *types.ValveGroupMapping) (*types.ValveGroupMapping, error)
	ListGroups(dbc dbctx.Context) ([]*types.ValveGroup, error)
	ActiveMappings(dbc dbctx.Context) (map[string]string, error)
	DeleteGroup(dbc dbctx.Context, id uuid.UUID) error
}

type valveGroupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewValveGroupRepo(db *gorm.DB, baseLog *logger.Logger) ValveGroupRepo {
	return &valveGroupRepo{
		db:  db,
		log: baseLog.With("repo", "ValveGroupRepo"),
	}
}

func (r *valveGroupRepo) CreateGroup(dbc dbctx.Context, group *types.ValveGroup) (*types.ValveGroup, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if group == nil {
		return nil, nil
	}
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	if err := t.WithContext(dbc.Ctx).Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

func (r *valveGroupRepo) AddMapping(dbc dbctx.Context, mapping *types.ValveGroupMapping) (*types.ValveGroupMapping, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if mapping == nil || mapping.ValveGroupID == uuid.Nil {
		return nil, nil
	}
	if mapping.ID == uuid.Nil {
		mapping.ID = uuid.New()
	}
	if err := t.WithContext(dbc.Ctx).Create(mapping).Error; err != nil {
		return nil, err
	}
	return mapping, nil
}

func (r *valveGroupRepo) ListGroups(dbc dbctx.Context) ([]*types.ValveGroup, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.ValveGroup
	if err := t.WithContext(dbc.Ctx).
		Order("name").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveMappings returns valve_spec_code -> group name for every mapping
// whose group is active. This is the only shape the resolver consumes.
func (r *valveGroupRepo) ActiveMappings(dbc dbctx.Context) (map[string]string, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	type pair struct {
		ValveSpecCode string
		Name          string
	}
	var pairs []pair
	if err := t.WithContext(dbc.Ctx).
		Table("valve_group_mapping AS m").
		Select("m.valve_spec_code, g.name").
		Joins("JOIN valve_group g ON g.id = m.valve_group_id").
		Where("g.is_active = ?", true).
		Scan(&pairs).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		out[p.ValveSpecCode] = p.Name
	}
	return out, nil
}

func (r *valveGroupRepo) DeleteGroup(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("valve_group_id = ?", id).
		Delete(&types.ValveGroupMapping{}).Error; err != nil {
		return err
	}
	return t.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.ValveGroup{}).Error
}
