package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/fleetsight/gasdash-backend/internal/domain"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
	"github.com/fleetsight/gasdash-backend/internal/services"
)

type DashboardHandler struct {
	aggregation services.AggregationService
	history     services.HistoryService
	log         *logger.Logger
}

func NewDashboardHandler(aggregation services.AggregationService, history services.HistoryService, baseLog *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		aggregation: aggregation,
		history:     history,
		log:         baseLog.With("handler", "DashboardHandler"),
	}
}

// Cards serves the aggregation view the dashboard groups its cards from.
func (h *DashboardHandler) Cards(c *gin.Context) {
	rows, err := h.aggregation.CardCounts(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "cards_failed", err)
		return
	}
	RespondOK(c, gin.H{"cards": rows})
}

// History serves inventory history rows: ?from=2024-01-01&to=2024-06-30&type=MANUAL
func (h *DashboardHandler) History(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_from", fmt.Errorf("from: expected YYYY-MM-DD"))
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_to", fmt.Errorf("to: expected YYYY-MM-DD"))
		return
	}
	snapshotType := types.SnapshotType(c.Query("type"))
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	rows, err := h.history.ListRange(dbc, from, to.Add(24*time.Hour-time.Second), snapshotType)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "history_failed", err)
		return
	}
	RespondOK(c, gin.H{"rows": rows})
}
