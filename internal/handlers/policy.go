package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/fleetsight/gasdash-backend/internal/domain"

	"github.com/fleetsight/gasdash-backend/internal/data/repos"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
	"github.com/fleetsight/gasdash-backend/internal/services"
)

// PolicyHandler is the admin CRUD surface over the policy store. Edits only
// touch the rule tables; snapshots keep their previous resolution until an
// explicit resync is triggered.
type PolicyHandler struct {
	defaults   repos.EndUserDefaultRepo
	exceptions repos.EndUserExceptionRepo
	valves     repos.ValveGroupRepo
	policy     services.PolicyService
	log        *logger.Logger
}

func NewPolicyHandler(
	defaults repos.EndUserDefaultRepo,
	exceptions repos.EndUserExceptionRepo,
	valves repos.ValveGroupRepo,
	policy services.PolicyService,
	baseLog *logger.Logger,
) *PolicyHandler {
	return &PolicyHandler{
		defaults:   defaults,
		exceptions: exceptions,
		valves:     valves,
		policy:     policy,
		log:        baseLog.With("handler", "PolicyHandler"),
	}
}

const resyncHint = "policy changed; run a resync to apply it to existing snapshots"

func (h *PolicyHandler) ListDefaults(c *gin.Context) {
	rules, err := h.defaults.List(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"rules": rules})
}

func (h *PolicyHandler) CreateDefault(c *gin.Context) {
	var rule types.EndUserDefault
	if err := c.ShouldBindJSON(&rule); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	created, err := h.defaults.Create(dbctx.Context{Ctx: c.Request.Context()}, &rule)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "create_failed", err)
		return
	}
	RespondOK(c, gin.H{"rule": created, "hint": resyncHint})
}

func (h *PolicyHandler) DeleteDefault(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", err)
		return
	}
	if err := h.defaults.Delete(dbctx.Context{Ctx: c.Request.Context()}, id); err != nil {
		RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": id, "hint": resyncHint})
}

func (h *PolicyHandler) ListExceptions(c *gin.Context) {
	rows, err := h.exceptions.List(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"exceptions": rows})
}

func (h *PolicyHandler) UpsertException(c *gin.Context) {
	var row types.EndUserException
	if err := c.ShouldBindJSON(&row); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.exceptions.UpsertByCylinderNo(dbctx.Context{Ctx: c.Request.Context()}, &row); err != nil {
		RespondError(c, http.StatusInternalServerError, "upsert_failed", err)
		return
	}
	RespondOK(c, gin.H{"exception": row, "hint": resyncHint})
}

// UploadExceptionsCSV ingests the bulk format {cylinder_no, end_user, reason}.
func (h *PolicyHandler) UploadExceptionsCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_file", err)
		return
	}
	defer file.Close()
	result, err := h.policy.ImportExceptionsCSV(dbctx.Context{Ctx: c.Request.Context()}, file)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "import_failed", err)
		return
	}
	RespondOK(c, gin.H{"result": result, "hint": resyncHint})
}

func (h *PolicyHandler) ListValveGroups(c *gin.Context) {
	groups, err := h.valves.ListGroups(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"groups": groups})
}
