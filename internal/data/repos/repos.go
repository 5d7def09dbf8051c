package repos

import (
	"gorm.io/gorm"

	"github.com/fleetsight/gasdash-backend/internal/data/repos/cdc"
	"github.com/fleetsight/gasdash-backend/internal/data/repos/fleet"
	"github.com/fleetsight/gasdash-backend/internal/data/repos/policy"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

type CylinderSourceRepo = cdc.CylinderSourceRepo

type EndUserDefaultRepo = policy.EndUserDefaultRepo
type EndUserExceptionRepo = policy.EndUserExceptionRepo
type ValveGroupRepo = policy.ValveGroupRepo

type SnapshotRepo = fleet.SnapshotRepo
type HistoryRepo = fleet.HistoryRepo
type SnapshotRequestRepo = fleet.SnapshotRequestRepo

type AggregateRow = fleet.AggregateRow

func NewCylinderSourceRepo(db *gorm.DB, baseLog *logger.Logger) CylinderSourceRepo {
	return cdc.NewCylinderSourceRepo(db, baseLog)
}

func NewEndUserDefaultRepo(db *gorm.DB, baseLog *logger.Logger) EndUserDefaultRepo {
	return policy.NewEndUserDefaultRepo(db, baseLog)
}
func NewEndUserExceptionRepo(db *gorm.DB, baseLog *logger.Logger) EndUserExceptionRepo {
	return policy.NewEndUserExceptionRepo(db, baseLog)
}
func NewValveGroupRepo(db *gorm.DB, baseLog *logger.Logger) ValveGroupRepo {
	return policy.NewValveGroupRepo(db, baseLog)
}

func NewSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRepo {
	return fleet.NewSnapshotRepo(db, baseLog)
}
func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
	return fleet.NewHistoryRepo(db, baseLog)
}
func NewSnapshotRequestRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRequestRepo {
	return fleet.NewSnapshotRequestRepo(db, baseLog)
}
