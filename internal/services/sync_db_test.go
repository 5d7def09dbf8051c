package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/fleetsight/gasdash-backend/internal/domain"

	"github.com/fleetsight/gasdash-backend/internal/data/repos"
	"github.com/fleetsight/gasdash-backend/internal/data/repos/testutil"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
)

type syncFixture struct {
	dbc       dbctx.Context
	tx        *gorm.DB
	sync      SyncService
	snapshots repos.SnapshotRepo
}

func newSyncFixture(t *testing.T) syncFixture {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	source := repos.NewCylinderSourceRepo(db, log)
	snapshots := repos.NewSnapshotRepo(db, log)
	policies := NewPolicyService(
		repos.NewEndUserDefaultRepo(db, log),
		repos.NewEndUserExceptionRepo(db, log),
		repos.NewValveGroupRepo(db, log),
		log,
	)
	return syncFixture{
		dbc:       dbctx.Context{Ctx: context.Background(), Tx: tx},
		tx:        tx,
		sync:      NewSyncService(source, snapshots, policies, nil, 500, log),
		snapshots: snapshots,
	}
}

func TestFullResync_ResolvesAndUpserts(t *testing.T) {
	f := newSyncFixture(t)
	ctx := f.dbc.Ctx

	now := time.Now().UTC().Truncate(time.Second)
	testutil.SeedSourceCylinder(t, ctx, f.tx, "S-100", "CF4", 440, "V01", "C06")
	testutil.SeedStatusEvent(t, ctx, f.tx, "S-100", "01", "YARD-A", now)
	testutil.SeedSourceCylinder(t, ctx, f.tx, "S-101", "COS", 47, "V02", "C01")
	testutil.SeedStatusEvent(t, ctx, f.tx, "S-101", "05", "CUSTOMER", now)

	testutil.SeedDefaultRule(t, ctx, f.tx, "CF4", testutil.Float(440), nil, nil, "LGD")
	testutil.SeedException(t, ctx, f.tx, "S-101", "PINNED")
	testutil.SeedValveGroup(t, ctx, f.tx, "CGA-716", "V01")

	result, err := f.sync.FullResync(f.dbc)
	if err != nil {
		t.Fatalf("FullResync: %v", err)
	}
	if result.Total != 2 || result.Succeeded != 2 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	row, err := f.snapshots.GetByCylinderNo(f.dbc, "S-100")
	if err != nil || row == nil {
		t.Fatalf("snapshot for S-100: %v %+v", err, row)
	}
	if row.GasName != "CF4" || row.Status != types.StatusStored || !row.Available {
		t.Fatalf("resolution wrong for S-100: %+v", row)
	}
	if row.ValveDisplayName != "CGA-716" {
		t.Fatalf("valve group not applied: %q", row.ValveDisplayName)
	}
	if row.EndUser == nil || *row.EndUser != "LGD" {
		t.Fatalf("default rule not applied: %v", row.EndUser)
	}
	if row.CylinderTypeKey == "" {
		t.Fatalf("missing type key")
	}

	row, err = f.snapshots.GetByCylinderNo(f.dbc, "S-101")
	if err != nil || row == nil {
		t.Fatalf("snapshot for S-101: %v %+v", err, row)
	}
	if row.EndUser == nil || *row.EndUser != "PINNED" {
		t.Fatalf("exception not applied: %v", row.EndUser)
	}
	if row.Status != types.StatusShipped || row.Available {
		t.Fatalf("shipped cylinder resolved wrong: %+v", row)
	}
}

func TestFullResync_IsIdempotent(t *testing.T) {
	f := newSyncFixture(t)
	ctx := f.dbc.Ctx

	testutil.SeedSourceCylinder(t, ctx, f.tx, "S-200", "N2", 47, "V01", "C01")
	testutil.SeedStatusEvent(t, ctx, f.tx, "S-200", "01", "YARD", time.Now().UTC())

	if _, err := f.sync.FullResync(f.dbc); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := f.sync.FullResync(f.dbc); err != nil {
		t.Fatalf("second run: %v", err)
	}
	count, err := f.snapshots.Count(f.dbc)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one snapshot row after two full runs, got %d", count)
	}
}

func TestFullResync_LeavesOrphansForExplicitCleanup(t *testing.T) {
	f := newSyncFixture(t)
	ctx := f.dbc.Ctx

	testutil.SeedSourceCylinder(t, ctx, f.tx, "S-300", "Ar", 47, "V01", "C01")
	// A row whose cylinder vanished from the replica.
	ghost := &types.CylinderSnapshot{
		CylinderNo: "GONE-1", GasName: "Xe", Status: types.StatusStored,
		RiskLevel: types.RiskOK, CylinderTypeKey: "ghost-key",
	}
	if err := f.snapshots.UpsertByCylinderNo(f.dbc, ghost); err != nil {
		t.Fatalf("seed ghost: %v", err)
	}

	if _, err := f.sync.FullResync(f.dbc); err != nil {
		t.Fatalf("FullResync: %v", err)
	}
	row, err := f.snapshots.GetByCylinderNo(f.dbc, "GONE-1")
	if err != nil || row == nil {
		t.Fatalf("full resync must not delete orphans: %v %+v", err, row)
	}

	orphans, err := f.sync.DetectOrphans(f.dbc)
	if err != nil {
		t.Fatalf("DetectOrphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0] != "GONE-1" {
		t.Fatalf("expected GONE-1 flagged, got %v", orphans)
	}

	deleted, err := f.sync.CleanupOrphans(f.dbc, orphans)
	if err != nil || deleted != 1 {
		t.Fatalf("CleanupOrphans: deleted=%d err=%v", deleted, err)
	}
	row, err = f.snapshots.GetByCylinderNo(f.dbc, "S-300")
	if err != nil || row == nil {
		t.Fatalf("live row must survive cleanup: %v %+v", err, row)
	}
}

func TestResyncCylinder_MissingSourceIsNotAnError(t *testing.T) {
	f := newSyncFixture(t)

	found, err := f.sync.ResyncCylinder(f.dbc, "NEVER-EXISTED")
	if err != nil {
		t.Fatalf("expected nil error for a source miss, got %v", err)
	}
	if found {
		t.Fatalf("expected found=false")
	}
}

func TestIncrementalResync_ProcessesRecentChanges(t *testing.T) {
	f := newSyncFixture(t)
	ctx := f.dbc.Ctx

	testutil.SeedSourceCylinder(t, ctx, f.tx, "S-400", "He", 47, "V01", "C01")
	testutil.SeedStatusEvent(t, ctx, f.tx, "S-400", "02", "FILL", time.Now().UTC())

	result, err := f.sync.IncrementalResync(f.dbc, time.Hour)
	if err != nil {
		t.Fatalf("IncrementalResync: %v", err)
	}
	if result.Total != 1 || result.Succeeded != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	row, err := f.snapshots.GetByCylinderNo(f.dbc, "S-400")
	if err != nil || row == nil {
		t.Fatalf("snapshot missing after incremental run: %v", err)
	}
	if row.Status != types.StatusFilling {
		t.Fatalf("expected filling, got %q", row.Status)
	}
}
