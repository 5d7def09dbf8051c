package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
	"github.com/fleetsight/gasdash-backend/internal/services"
)

type SyncHandler struct {
	sync services.SyncService
	log  *logger.Logger
}

func NewSyncHandler(sync services.SyncService, baseLog *logger.Logger) *SyncHandler {
	return &SyncHandler{
		sync: sync,
		log:  baseLog.With("handler", "SyncHandler"),
	}
}

type syncRequest struct {
	Incremental bool   `json:"incremental"`
	Hours       int    `json:"hours"`
	CylinderNo  string `json:"cylinder_no"`
}

// Trigger runs a sync inline and reports its counts. Single cylinder beats
// incremental beats full.
func (h *SyncHandler) Trigger(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}

	if req.CylinderNo != "" {
		found, err := h.sync.ResyncCylinder(dbc, req.CylinderNo)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "resync_failed", err)
			return
		}
		if !found {
			RespondError(c, http.StatusNotFound, "not_in_source",
				fmt.Errorf("cylinder %q not found in source", req.CylinderNo))
			return
		}
		RespondOK(c, gin.H{"resynced": req.CylinderNo})
		return
	}

	if req.Incremental {
		hours := req.Hours
		if hours <= 0 {
			hours = 1
		}
		result, err := h.sync.IncrementalResync(dbc, time.Duration(hours)*time.Hour)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "sync_failed", err)
			return
		}
		RespondOK(c, result)
		return
	}

	result, err := h.sync.FullResync(dbc)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "sync_failed", err)
		return
	}
	RespondOK(c, result)
}

// Orphans reports snapshot rows with no source cylinder. Read only; cleanup
// stays behind the CLI where an operator has to confirm.
func (h *SyncHandler) Orphans(c *gin.Context) {
	nos, err := h.sync.DetectOrphans(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "orphan_check_failed", err)
		return
	}
	RespondOK(c, gin.H{"orphans": nos, "count": len(nos)})
}
