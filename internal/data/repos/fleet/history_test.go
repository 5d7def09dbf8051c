package fleet

import (
	"context"
	"testing"
	"time"

	types "github.com/fleetsight/gasdash-backend/internal/domain"

	"github.com/fleetsight/gasdash-backend/internal/data/repos/testutil"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
)

func historyFixture(at time.Time, snapshotType types.SnapshotType, typeKey string, status types.Status, location string) *types.InventoryHistorySnapshot {
	return &types.InventoryHistorySnapshot{
		SnapshotDatetime: at,
		SnapshotType:     snapshotType,
		CylinderTypeKey:  typeKey,
		Status:           status,
		Location:         location,
		GasName:          "CF4",
		Capacity:         440,
		ValveDisplayName: "CGA-716",
		CylinderSpecName: "47L Steel",
		UsagePlace:       "PLANT1",
		Qty:              12,
	}
}

func TestHistoryInsert_DuplicateIsSkippedNotFailed(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewHistoryRepo(db, testutil.Logger(t))

	at := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)

	inserted, err := repo.Insert(dbc, historyFixture(at, types.SnapshotDaily, "k1", types.StatusStored, "YARD"))
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if !inserted {
		t.Fatalf("first insert must report true")
	}

	inserted, err = repo.Insert(dbc, historyFixture(at, types.SnapshotDaily, "k1", types.StatusStored, "YARD"))
	if err != nil {
		t.Fatalf("duplicate insert must not error: %v", err)
	}
	if inserted {
		t.Fatalf("duplicate insert must report false")
	}

	// A different snapshot type is a different bucket.
	inserted, err = repo.Insert(dbc, historyFixture(at, types.SnapshotManual, "k1", types.StatusStored, "YARD"))
	if err != nil || !inserted {
		t.Fatalf("manual bucket insert: inserted=%v err=%v", inserted, err)
	}
}

func TestDeleteBucket_OnlyTouchesItsBucket(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewHistoryRepo(db, testutil.Logger(t))

	jan := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	feb := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	for _, at := range []time.Time{jan, feb} {
		if _, err := repo.Insert(dbc, historyFixture(at, types.SnapshotManual, "k1", types.StatusStored, "YARD")); err != nil {
			t.Fatalf("seed %s: %v", at, err)
		}
	}

	deleted, err := repo.DeleteBucket(dbc, jan, types.SnapshotManual)
	if err != nil {
		t.Fatalf("DeleteBucket: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected one deleted row, got %d", deleted)
	}
	exists, err := repo.BucketExists(dbc, feb, types.SnapshotManual)
	if err != nil || !exists {
		t.Fatalf("february bucket must survive: exists=%v err=%v", exists, err)
	}
	exists, err = repo.BucketExists(dbc, jan, types.SnapshotManual)
	if err != nil || exists {
		t.Fatalf("january bucket must be gone: exists=%v err=%v", exists, err)
	}
}

func TestListRange_FiltersByTypeAndWindow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewHistoryRepo(db, testutil.Logger(t))

	jan := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	feb := time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)
	mar := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	if _, err := repo.Insert(dbc, historyFixture(jan, types.SnapshotManual, "k1", types.StatusStored, "YARD")); err != nil {
		t.Fatalf("seed jan: %v", err)
	}
	if _, err := repo.Insert(dbc, historyFixture(feb, types.SnapshotDaily, "k1", types.StatusStored, "YARD")); err != nil {
		t.Fatalf("seed feb: %v", err)
	}
	if _, err := repo.Insert(dbc, historyFixture(mar, types.SnapshotManual, "k1", types.StatusStored, "YARD")); err != nil {
		t.Fatalf("seed mar: %v", err)
	}

	rows, err := repo.ListRange(dbc, jan, feb, "")
	if err != nil {
		t.Fatalf("ListRange all types: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected jan+feb, got %d rows", len(rows))
	}

	rows, err = repo.ListRange(dbc, jan, mar, types.SnapshotManual)
	if err != nil {
		t.Fatalf("ListRange manual: %v", err)
	}
	if len(rows) != 2 || !rows[0].SnapshotDatetime.Equal(jan) || !rows[1].SnapshotDatetime.Equal(mar) {
		t.Fatalf("expected manual jan+mar in order, got %+v", rows)
	}
}
