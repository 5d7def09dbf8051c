package cdc

import (
	"strings"
	"time"

	"gorm.io/gorm"

	types "github.com/fleetsight/gasdash-backend/internal/domain"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

// CylinderSourceRepo is the read-only view over the CDC-replicated FCMS
// tables. Every query keys by TRIM(cylinder_no); the padded form never
// escapes this package.
type CylinderSourceRepo interface {
	GetRecord(dbc dbctx.Context, cylinderNo string) (*types.CylinderRecord, error)
	ListCylinderNos(dbc dbctx.Context) ([]string, error)
	ListChangedSince(dbc dbctx.Context, since time.Time) ([]string, error)
	Count(dbc dbctx.Context) (int64, error)
}

type cylinderSourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCylinderSourceRepo(db *gorm.DB, baseLog *logger.Logger) CylinderSourceRepo {
	return &cylinderSourceRepo{
		db:  db,
		log: baseLog.With("repo", "CylinderSourceRepo"),
	}
}

const recordQuery = `
SELECT
  TRIM(c.cylinder_no)          AS cylinder_no,
  c.item_code                  AS gas_item_code,
  COALESCE(i.item_name, '')    AS gas_name,
  c.capacity                   AS capacity,
  c.valve_spec_code            AS valve_spec_code,
  COALESCE(v.spec_name, '')    AS valve_spec_name,
  c.cylinder_spec_code         AS cylinder_spec_code,
  COALESCE(cs.spec_name, '')   AS cylinder_spec_name,
  c.usage_dept                 AS usage_dept,
  COALESCE(st.condition_code, '') AS condition_code,
  COALESCE(st.location, '')    AS location,
  st.moved_at                  AS moved_at,
  c.pressure_test_due_date     AS pressure_test_due,
  c.updated_at                 AS source_updated_at
FROM fcms_cylinder c
LEFT JOIN fcms_item i           ON i.item_code = c.item_code
LEFT JOIN fcms_valve_spec v     ON v.spec_code = c.valve_spec_code
LEFT JOIN fcms_cylinder_spec cs ON cs.spec_code = c.cylinder_spec_code
LEFT JOIN LATERAL (
  SELECT s.condition_code, s.location, s.moved_at
  FROM fcms_cylinder_status s
  WHERE TRIM(s.cylinder_no) = TRIM(c.cylinder_no)
  ORDER BY s.moved_at DESC
  LIMIT 1
) st ON TRUE
WHERE TRIM(c.cylinder_no) = ?
`

// GetRecord returns nil, nil when the cylinder does not exist in the source.
// Callers treat that as a lookup miss, not an error.
func (r *cylinderSourceRepo) GetRecord(dbc dbctx.Context, cylinderNo string) (*types.CylinderRecord, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	trimmed := strings.TrimSpace(cylinderNo)
	if trimmed == "" {
		return nil, nil
	}
	var recs []types.CylinderRecord
	if err := t.WithContext(dbc.Ctx).Raw(recordQuery, trimmed).Scan(&recs).Error; err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

func (r *cylinderSourceRepo) ListCylinderNos(dbc dbctx.Context) ([]string, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var nos []string
	if err := t.WithContext(dbc.Ctx).
		Raw(`SELECT DISTINCT TRIM(cylinder_no) FROM fcms_cylinder ORDER BY 1`).
		Scan(&nos).Error; err != nil {
		return nil, err
	}
	return nos, nil
}

// ListChangedSince returns trimmed cylinder numbers whose master row or
// latest movement changed at or after the given instant.
func (r *cylinderSourceRepo) ListChangedSince(dbc dbctx.Context, since time.Time) ([]string, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var nos []string
	if err := t.WithContext(dbc.Ctx).Raw(`
SELECT DISTINCT TRIM(cylinder_no) FROM fcms_cylinder
WHERE updated_at >= ? OR registered_at >= ?
UNION
SELECT DISTINCT TRIM(cylinder_no) FROM fcms_cylinder_status
WHERE moved_at >= ?
`, since, since, since).Scan(&nos).Error; err != nil {
		return nil, err
	}
	return nos, nil
}

func (r *cylinderSourceRepo) Count(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).Model(&types.Cylinder{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
