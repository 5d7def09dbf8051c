package fleet

import (
	"context"
	"testing"

	types "github.com/fleetsight/gasdash-backend/internal/domain"

	"github.com/fleetsight/gasdash-backend/internal/data/repos/testutil"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
)

func snapshotFixture(cylinderNo, typeKey string, status types.Status, location string) *types.CylinderSnapshot {
	return &types.CylinderSnapshot{
		CylinderNo:       cylinderNo,
		GasName:          "CF4",
		Capacity:         440,
		ValveDisplayName: "CGA-716",
		CylinderSpecName: "47L Steel",
		Status:           status,
		Available:        status == types.StatusStored,
		RiskLevel:        types.RiskOK,
		CylinderTypeKey:  typeKey,
		RawUsageDept:     "PLANT1",
		RawConditionCode: "01",
		RawLocation:      location,
	}
}

func TestUpsertByCylinderNo_SecondWriteUpdatesInPlace(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewSnapshotRepo(db, testutil.Logger(t))

	if err := repo.UpsertByCylinderNo(dbc, snapshotFixture("U-100", "k1", types.StatusStored, "YARD")); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.UpsertByCylinderNo(dbc, snapshotFixture("U-100", "k1", types.StatusShipped, "CUSTOMER")); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	count, err := repo.Count(dbc)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row after two upserts, got %d", count)
	}
	row, err := repo.GetByCylinderNo(dbc, "U-100")
	if err != nil {
		t.Fatalf("GetByCylinderNo: %v", err)
	}
	if row == nil || row.Status != types.StatusShipped || row.RawLocation != "CUSTOMER" {
		t.Fatalf("second write did not land: %+v", row)
	}
}

func TestUpsertByCylinderNo_TrimsKey(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewSnapshotRepo(db, testutil.Logger(t))

	if err := repo.UpsertByCylinderNo(dbc, snapshotFixture("U-200   ", "k1", types.StatusStored, "YARD")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpsertByCylinderNo(dbc, snapshotFixture("U-200", "k1", types.StatusFilling, "FILL")); err != nil {
		t.Fatalf("upsert trimmed: %v", err)
	}
	count, err := repo.Count(dbc)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("padded and trimmed forms must hit the same row, got %d rows", count)
	}
}

func TestGroupedCounts_GroupsAndExcludesDisposed(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewSnapshotRepo(db, testutil.Logger(t))

	for _, no := range []string{"G-1", "G-2"} {
		if err := repo.UpsertByCylinderNo(dbc, snapshotFixture(no, "k1", types.StatusStored, "YARD")); err != nil {
			t.Fatalf("seed %s: %v", no, err)
		}
	}
	if err := repo.UpsertByCylinderNo(dbc, snapshotFixture("G-3", "k1", types.StatusDisposed, "SCRAP")); err != nil {
		t.Fatalf("seed disposed: %v", err)
	}

	rows, err := repo.GroupedCounts(dbc)
	if err != nil {
		t.Fatalf("GroupedCounts: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one bucket, got %d: %+v", len(rows), rows)
	}
	got := rows[0]
	if got.Qty != 2 || got.Status != string(types.StatusStored) || got.Location != "YARD" {
		t.Fatalf("unexpected bucket: %+v", got)
	}
	if got.CylinderTypeKey != "k1" || got.GasName != "CF4" || got.UsagePlace != "PLANT1" {
		t.Fatalf("bucket identity fields wrong: %+v", got)
	}
}

func TestListOrphans_FlagsRowsMissingFromSource(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSnapshotRepo(db, testutil.Logger(t))

	testutil.SeedSourceCylinder(t, ctx, tx, "O-1", "N2", 47, "V01", "C01")
	if err := repo.UpsertByCylinderNo(dbc, snapshotFixture("O-1", "k1", types.StatusStored, "YARD")); err != nil {
		t.Fatalf("seed live row: %v", err)
	}
	if err := repo.UpsertByCylinderNo(dbc, snapshotFixture("GHOST-1", "k1", types.StatusStored, "YARD")); err != nil {
		t.Fatalf("seed ghost row: %v", err)
	}

	orphans, err := repo.ListOrphans(dbc)
	if err != nil {
		t.Fatalf("ListOrphans: %v", err)
	}
	if len(orphans) != 1 || orphans[0] != "GHOST-1" {
		t.Fatalf("expected only GHOST-1, got %v", orphans)
	}

	deleted, err := repo.DeleteByCylinderNos(dbc, orphans)
	if err != nil {
		t.Fatalf("DeleteByCylinderNos: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected one deletion, got %d", deleted)
	}
	row, err := repo.GetByCylinderNo(dbc, "O-1")
	if err != nil || row == nil {
		t.Fatalf("live row must survive orphan cleanup: %v %+v", err, row)
	}
}
