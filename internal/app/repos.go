package app

import (
	"gorm.io/gorm"

	"github.com/fleetsight/gasdash-backend/internal/data/repos"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

type Repos struct {
	CylinderSource  repos.CylinderSourceRepo
	EndUserDefault  repos.EndUserDefaultRepo
	EndUserExc      repos.EndUserExceptionRepo
	ValveGroup      repos.ValveGroupRepo
	Snapshot        repos.SnapshotRepo
	History         repos.HistoryRepo
	SnapshotRequest repos.SnapshotRequestRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		CylinderSource:  repos.NewCylinderSourceRepo(db, log),
		EndUserDefault:  repos.NewEndUserDefaultRepo(db, log),
		EndUserExc:      repos.NewEndUserExceptionRepo(db, log),
		ValveGroup:      repos.NewValveGroupRepo(db, log),
		Snapshot:        repos.NewSnapshotRepo(db, log),
		History:         repos.NewHistoryRepo(db, log),
		SnapshotRequest: repos.NewSnapshotRequestRepo(db, log),
	}
}
