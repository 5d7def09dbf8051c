package services

import (
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/fleetsight/gasdash-backend/internal/domain"

	"github.com/fleetsight/gasdash-backend/internal/data/repos"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

// SyncResult summarizes one synchronizer run. Failed rows are skipped, never
// fatal; Failures carries the identifiers for the log trail.
type SyncResult struct {
	Total     int      `json:"total"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Missing   int      `json:"missing"`
	Failures  []string `json:"failures,omitempty"`
}

// SyncService keeps cylinder_current_snapshot consistent with the CDC source.
// All writes key on the trimmed cylinder number and go through the upsert, so
// concurrent full and incremental runs cannot duplicate rows.
type SyncService interface {
	FullResync(dbc dbctx.Context) (SyncResult, error)
	IncrementalResync(dbc dbctx.Context, lookback time.Duration) (SyncResult, error)
	// ResyncCylinder returns false when the cylinder is absent from the
	// source; that is a no-op, not an error.
	ResyncCylinder(dbc dbctx.Context, cylinderNo string) (bool, error)
	DetectOrphans(dbc dbctx.Context) ([]string, error)
	// CleanupOrphans deletes the given snapshot rows. Callers are expected to
	// have run DetectOrphans and confirmed the list; nothing calls this
	// during a normal sync.
	CleanupOrphans(dbc dbctx.Context, cylinderNos []string) (int64, error)
}

type syncService struct {
	source    repos.CylinderSourceRepo
	snapshots repos.SnapshotRepo
	policies  PolicyService
	cache     AggregationCache
	batchSize int
	log       *logger.Logger
}

func NewSyncService(
	source repos.CylinderSourceRepo,
	snapshots repos.SnapshotRepo,
	policies PolicyService,
	cache AggregationCache,
	progressBatchSize int,
	baseLog *logger.Logger,
) SyncService {
	if progressBatchSize <= 0 {
		progressBatchSize = 500
	}
	return &syncService{
		source:    source,
		snapshots: snapshots,
		policies:  policies,
		cache:     cache,
		batchSize: progressBatchSize,
		log:       baseLog.With("service", "SyncService"),
	}
}

func (s *syncService) FullResync(dbc dbctx.Context) (SyncResult, error) {
	ctx, span := otel.Tracer("sync").Start(dbc.Ctx, "FullResync")
	defer span.End()
	dbc.Ctx = ctx

	// Both loads must succeed before any snapshot row is touched; a dead
	// policy store or source aborts the run with nothing written.
	pol, err := s.policies.LoadSnapshot(dbc)
	if err != nil {
		return SyncResult{}, fmt.Errorf("full resync aborted: %w", err)
	}
	nos, err := s.source.ListCylinderNos(dbc)
	if err != nil {
		return SyncResult{}, fmt.Errorf("full resync aborted: enumerate source: %w", err)
	}

	s.log.Info("full resync starting", "cylinders", len(nos))
	result := s.resyncAll(dbc, nos, pol)
	span.SetAttributes(
		attribute.Int("sync.total", result.Total),
		attribute.Int("sync.failed", result.Failed),
	)
	s.invalidateCache(dbc)
	s.log.Info("full resync finished",
		"total", result.Total, "succeeded", result.Succeeded,
		"failed", result.Failed, "missing", result.Missing)
	return result, nil
}

func (s *syncService) IncrementalResync(dbc dbctx.Context, lookback time.Duration) (SyncResult, error) {
	ctx, span := otel.Tracer("sync").Start(dbc.Ctx, "IncrementalResync")
	defer span.End()
	dbc.Ctx = ctx

	if lookback <= 0 {
		lookback = time.Hour
	}
	since := time.Now().UTC().Add(-lookback)

	pol, err := s.policies.LoadSnapshot(dbc)
	if err != nil {
		return SyncResult{}, fmt.Errorf("incremental resync aborted: %w", err)
	}
	nos, err := s.source.ListChangedSince(dbc, since)
	if err != nil {
		return SyncResult{}, fmt.Errorf("incremental resync aborted: list changes: %w", err)
	}

	s.log.Info("incremental resync starting", "since", since, "cylinders", len(nos))
	result := s.resyncAll(dbc, nos, pol)
	span.SetAttributes(
		attribute.Int("sync.total", result.Total),
		attribute.Int("sync.failed", result.Failed),
	)
	if result.Succeeded > 0 {
		s.invalidateCache(dbc)
	}
	s.log.Info("incremental resync finished",
		"total", result.Total, "succeeded", result.Succeeded,
		"failed", result.Failed, "missing", result.Missing)
	return result, nil
}

func (s *syncService) resyncAll(dbc dbctx.Context, cylinderNos []string, pol PolicySnapshot) SyncResult {
	result := SyncResult{Total: len(cylinderNos)}
	now := time.Now().UTC()
	for i, no := range cylinderNos {
		ok, err := s.resyncOne(dbc, no, pol, now)
		switch {
		case err != nil:
			result.Failed++
			result.Failures = append(result.Failures, no)
			s.log.Error("cylinder resync failed", "cylinder_no", no, "error", err)
		case !ok:
			result.Missing++
		default:
			result.Succeeded++
		}
		if (i+1)%s.batchSize == 0 {
			s.log.Info("resync progress", "done", i+1, "total", result.Total, "failed", result.Failed)
		}
	}
	return result
}

func (s *syncService) ResyncCylinder(dbc dbctx.Context, cylinderNo string) (bool, error) {
	pol, err := s.policies.LoadSnapshot(dbc)
	if err != nil {
		return false, fmt.Errorf("resync %s: %w", cylinderNo, err)
	}
	ok, err := s.resyncOne(dbc, cylinderNo, pol, time.Now().UTC())
	if err == nil && ok {
		s.invalidateCache(dbc)
	}
	return ok, err
}

// resyncOne resolves and upserts a single cylinder. A source lookup miss
// returns false, nil.
func (s *syncService) resyncOne(dbc dbctx.Context, cylinderNo string, pol PolicySnapshot, now time.Time) (bool, error) {
	raw, err := s.source.GetRecord(dbc, cylinderNo)
	if err != nil {
		return false, fmt.Errorf("load source record: %w", err)
	}
	if raw == nil {
		return false, nil
	}
	resolved := ResolveAttributes(raw, pol, now)
	row := snapshotRow(raw, resolved)
	if err := s.snapshots.UpsertByCylinderNo(dbc, row); err != nil {
		return false, fmt.Errorf("upsert snapshot: %w", err)
	}
	return true, nil
}

func snapshotRow(raw *types.CylinderRecord, resolved ResolvedAttributes) *types.CylinderSnapshot {
	return &types.CylinderSnapshot{
		CylinderNo: strings.TrimSpace(raw.CylinderNo),

		RawGasItemCode:      raw.GasItemCode,
		RawCapacity:         raw.Capacity,
		RawValveSpecCode:    raw.ValveSpecCode,
		RawValveSpecName:    raw.ValveSpecName,
		RawCylinderSpecCode: raw.CylinderSpecCode,
		RawCylinderSpecName: raw.CylinderSpecName,
		RawUsageDept:        raw.UsageDept,
		RawConditionCode:    raw.ConditionCode,
		RawLocation:         raw.Location,
		RawMovedAt:          raw.MovedAt,
		PressureTestDue:     raw.PressureTestDue,

		GasName:          resolved.GasName,
		Capacity:         resolved.Capacity,
		ValveDisplayName: resolved.ValveDisplayName,
		CylinderSpecName: resolved.CylinderSpecName,
		EndUser:          resolved.EndUser,
		Status:           resolved.Status,
		Available:        resolved.Available,
		RiskLevel:        resolved.RiskLevel,
		CylinderTypeKey:  resolved.CylinderTypeKey,

		SourceUpdatedAt: raw.SourceUpdatedAt,
	}
}

func (s *syncService) DetectOrphans(dbc dbctx.Context) ([]string, error) {
	return s.snapshots.ListOrphans(dbc)
}

func (s *syncService) CleanupOrphans(dbc dbctx.Context, cylinderNos []string) (int64, error) {
	if len(cylinderNos) == 0 {
		return 0, nil
	}
	deleted, err := s.snapshots.DeleteByCylinderNos(dbc, cylinderNos)
	if err != nil {
		return 0, err
	}
	s.log.Warn("orphan snapshot rows deleted", "count", deleted)
	s.invalidateCache(dbc)
	return deleted, nil
}

func (s *syncService) invalidateCache(dbc dbctx.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(dbc.Ctx); err != nil {
		s.log.Warn("aggregation cache invalidation failed", "error", err)
	}
}
