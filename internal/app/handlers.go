package app

import (
	"github.com/fleetsight/gasdash-backend/internal/handlers"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

type Handlers struct {
	Dashboard *handlers.DashboardHandler
	Sync      *handlers.SyncHandler
	Policy    *handlers.PolicyHandler
}

func wireHandlers(log *logger.Logger, reposet Repos, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Dashboard: handlers.NewDashboardHandler(serviceset.Aggregation, serviceset.History, log),
		Sync:      handlers.NewSyncHandler(serviceset.Sync, log),
		Policy: handlers.NewPolicyHandler(
			reposet.EndUserDefault,
			reposet.EndUserExc,
			reposet.ValveGroup,
			serviceset.Policy,
			log,
		),
	}
}
