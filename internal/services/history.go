package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	types "github.com/fleetsight/gasdash-backend/internal/domain"

	"github.com/fleetsight/gasdash-backend/internal/data/repos"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

// MonthEndOptions drives the routine month-end snapshot. Without Force or an
// explicit TargetDate the job only fires on the first day of a month and
// snapshots the month that just ended.
type MonthEndOptions struct {
	TargetDate  *time.Time
	Force       bool
	DryRun      bool
	RequestedBy string
	Reason      string
}

// BackfillOptions drives the retroactive range backfill. Every month-end
// between Start and End inclusive of the partial end month gets a bucket,
// tagged MANUAL because it estimates the past with present-day values.
type BackfillOptions struct {
	Start       time.Time
	End         time.Time
	Overwrite   bool
	DryRun      bool
	RequestedBy string
	Reason      string
}

// BucketResult separates duplicate skips from real failures so a re-run that
// quietly skips everything is visible for what it is.
type BucketResult struct {
	Timestamp        time.Time `json:"timestamp"`
	Inserted         int       `json:"inserted"`
	SkippedDuplicate int       `json:"skipped_duplicate"`
	Failed           int       `json:"failed"`
	Deleted          int64     `json:"deleted"`
}

type HistoryService interface {
	MonthEndSnapshot(dbc dbctx.Context, opts MonthEndOptions) (*BucketResult, error)
	BackfillRange(dbc dbctx.Context, opts BackfillOptions) ([]BucketResult, error)
	ListRange(dbc dbctx.Context, from, to time.Time, snapshotType types.SnapshotType) ([]*types.InventoryHistorySnapshot, error)
}

type historyService struct {
	snapshots repos.SnapshotRepo
	history   repos.HistoryRepo
	requests  repos.SnapshotRequestRepo
	log       *logger.Logger
}

func NewHistoryService(
	snapshots repos.SnapshotRepo,
	history repos.HistoryRepo,
	requests repos.SnapshotRequestRepo,
	baseLog *logger.Logger,
) HistoryService {
	return &historyService{
		snapshots: snapshots,
		history:   history,
		requests:  requests,
		log:       baseLog.With("service", "HistoryService"),
	}
}

// ErrNotMonthStart is returned when the scheduled month-end job runs on any
// day but the first without Force. The scheduler treats it as a quiet pass.
var ErrNotMonthStart = fmt.Errorf("not the first day of the month; use force or a target date")

func (s *historyService) MonthEndSnapshot(dbc dbctx.Context, opts MonthEndOptions) (*BucketResult, error) {
	ctx, span := otel.Tracer("history").Start(dbc.Ctx, "MonthEndSnapshot")
	defer span.End()
	dbc.Ctx = ctx

	now := time.Now().UTC()
	var target time.Time
	switch {
	case opts.TargetDate != nil:
		target = monthEnd(*opts.TargetDate)
	case now.Day() == 1 || opts.Force:
		// On the 1st the month that just closed is the one to freeze.
		target = monthEnd(now.AddDate(0, 0, -1))
	default:
		return nil, ErrNotMonthStart
	}

	result, err := s.writeBucket(dbc, target, types.SnapshotDaily, false, opts.DryRun)
	s.audit(dbc, types.SnapshotDaily, opts.RequestedBy, opts.Reason, mapParams(map[string]interface{}{
		"target":  target,
		"force":   opts.Force,
		"dry_run": opts.DryRun,
	}), []BucketResult{result}, err)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *historyService) BackfillRange(dbc dbctx.Context, opts BackfillOptions) ([]BucketResult, error) {
	ctx, span := otel.Tracer("history").Start(dbc.Ctx, "BackfillRange")
	defer span.End()
	dbc.Ctx = ctx

	if opts.End.Before(opts.Start) {
		return nil, fmt.Errorf("backfill range: end %s before start %s",
			opts.End.Format("2006-01-02"), opts.Start.Format("2006-01-02"))
	}
	ends := monthEndsBetween(opts.Start, opts.End)
	s.log.Info("history backfill starting",
		"start", opts.Start.Format("2006-01-02"),
		"end", opts.End.Format("2006-01-02"),
		"buckets", len(ends), "overwrite", opts.Overwrite, "dry_run", opts.DryRun)

	// Buckets are independent rows in an append-only table and can be
	// written in parallel without coordination. A supplied transaction is
	// single-connection, so buckets serialize when one is present.
	results := make([]BucketResult, len(ends))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if dbc.Tx != nil {
		g.SetLimit(1)
	} else {
		g.SetLimit(4)
	}
	for i, ts := range ends {
		g.Go(func() error {
			res, err := s.writeBucket(dbctx.Context{Ctx: gctx, Tx: dbc.Tx}, ts, types.SnapshotManual, opts.Overwrite, opts.DryRun)
			if err != nil {
				return fmt.Errorf("bucket %s: %w", ts.Format("2006-01-02"), err)
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	s.audit(dbc, types.SnapshotManual, opts.RequestedBy, opts.Reason, mapParams(map[string]interface{}{
		"start":     opts.Start,
		"end":       opts.End,
		"overwrite": opts.Overwrite,
		"dry_run":   opts.DryRun,
	}), results, err)
	if err != nil {
		return results, err
	}
	return results, nil
}

// writeBucket freezes the current aggregation view at the given timestamp.
func (s *historyService) writeBucket(dbc dbctx.Context, at time.Time, snapshotType types.SnapshotType, overwrite, dryRun bool) (BucketResult, error) {
	result := BucketResult{Timestamp: at}

	rows, err := s.snapshots.GroupedCounts(dbc)
	if err != nil {
		return result, fmt.Errorf("aggregate current view: %w", err)
	}
	if dryRun {
		s.log.Info("dry run: bucket not written", "at", at, "rows", len(rows))
		return result, nil
	}
	if overwrite {
		deleted, err := s.history.DeleteBucket(dbc, at, snapshotType)
		if err != nil {
			return result, fmt.Errorf("clear bucket: %w", err)
		}
		result.Deleted = deleted
	}
	for _, agg := range rows {
		row := historyRow(at, snapshotType, agg)
		inserted, err := s.history.Insert(dbc, row)
		switch {
		case err != nil:
			result.Failed++
			s.log.Error("history insert failed", "at", at, "type_key", agg.CylinderTypeKey, "error", err)
		case !inserted:
			result.SkippedDuplicate++
		default:
			result.Inserted++
		}
	}
	if result.Failed > 0 {
		return result, fmt.Errorf("bucket had %d failed inserts", result.Failed)
	}
	if result.SkippedDuplicate > 0 {
		s.log.Warn("bucket had duplicate rows skipped",
			"at", at, "skipped", result.SkippedDuplicate)
	}
	return result, nil
}

func historyRow(at time.Time, snapshotType types.SnapshotType, agg repos.AggregateRow) *types.InventoryHistorySnapshot {
	return &types.InventoryHistorySnapshot{
		SnapshotDatetime: at,
		SnapshotType:     snapshotType,
		CylinderTypeKey:  agg.CylinderTypeKey,
		Status:           types.Status(agg.Status),
		Location:         agg.Location,
		GasName:          agg.GasName,
		Capacity:         agg.Capacity,
		ValveDisplayName: agg.ValveDisplayName,
		CylinderSpecName: agg.CylinderSpecName,
		EndUser:          agg.EndUser,
		UsagePlace:       agg.UsagePlace,
		Qty:              agg.Qty,
	}
}

func (s *historyService) ListRange(dbc dbctx.Context, from, to time.Time, snapshotType types.SnapshotType) ([]*types.InventoryHistorySnapshot, error) {
	return s.history.ListRange(dbc, from, to, snapshotType)
}

// audit writes exactly one SnapshotRequest per run, failure included.
func (s *historyService) audit(dbc dbctx.Context, snapshotType types.SnapshotType, requestedBy, reason string, params datatypes.JSON, results []BucketResult, runErr error) {
	status := types.RequestStatusSuccess
	message := summarize(results)
	if runErr != nil {
		status = types.RequestStatusFailure
		message = fmt.Sprintf("%s; error: %v", message, runErr)
	}
	if requestedBy == "" {
		requestedBy = "scheduler"
	}
	_, err := s.requests.Create(dbc, &types.SnapshotRequest{
		RequestedBy:   requestedBy,
		Reason:        reason,
		SnapshotType:  snapshotType,
		Status:        status,
		ResultMessage: message,
		Params:        params,
	})
	if err != nil {
		s.log.Error("failed to write snapshot audit record", "error", err)
	}
}

func summarize(results []BucketResult) string {
	var inserted, skipped, failed int
	for _, r := range results {
		inserted += r.Inserted
		skipped += r.SkippedDuplicate
		failed += r.Failed
	}
	return fmt.Sprintf("buckets=%d inserted=%d skipped_duplicate=%d failed=%d",
		len(results), inserted, skipped, failed)
}

func mapParams(m map[string]interface{}) datatypes.JSON {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// monthEnd is 23:59:59 UTC on the last day of t's month.
func monthEnd(t time.Time) time.Time {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, 0).Add(-time.Second)
}

// monthEndsBetween lists the month-end instant of every month from start's
// month through end's month. The end month counts even when end falls before
// its last day; a partial month still gets an estimate bucket.
func monthEndsBetween(start, end time.Time) []time.Time {
	var out []time.Time
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		out = append(out, monthEnd(cur))
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}
