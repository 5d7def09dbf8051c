package cdc

import (
	"context"
	"testing"
	"time"

	"github.com/fleetsight/gasdash-backend/internal/data/repos/testutil"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
)

func TestGetRecord_JoinsLookupsAndLatestStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCylinderSourceRepo(db, testutil.Logger(t))

	testutil.SeedSourceCylinder(t, ctx, tx, "A-100", "CF4", 440, "V01", "C06")
	now := time.Now().UTC().Truncate(time.Second)
	testutil.SeedStatusEvent(t, ctx, tx, "A-100", "02", "FILL-LINE", now.Add(-2*time.Hour))
	testutil.SeedStatusEvent(t, ctx, tx, "A-100", "01", "YARD-A", now)

	rec, err := repo.GetRecord(dbc, "A-100")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected a record")
	}
	if rec.CylinderNo != "A-100" {
		t.Fatalf("expected trimmed cylinder_no, got %q", rec.CylinderNo)
	}
	if rec.GasName != "CF4" || rec.Capacity != 440 {
		t.Fatalf("lookup join broken: gas=%q capacity=%v", rec.GasName, rec.Capacity)
	}
	if rec.ValveSpecName != "VALVE-V01" || rec.CylinderSpecName != "CYL-C06" {
		t.Fatalf("spec name joins broken: %q / %q", rec.ValveSpecName, rec.CylinderSpecName)
	}
	if rec.ConditionCode != "01" || rec.Location != "YARD-A" {
		t.Fatalf("expected the latest status event, got code=%q location=%q", rec.ConditionCode, rec.Location)
	}
}

func TestGetRecord_AcceptsPaddedInput(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCylinderSourceRepo(db, testutil.Logger(t))

	testutil.SeedSourceCylinder(t, ctx, tx, "B-200", "N2", 47, "V02", "C01")

	rec, err := repo.GetRecord(dbc, "B-200            ")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if rec == nil || rec.CylinderNo != "B-200" {
		t.Fatalf("padded lookup failed: %+v", rec)
	}
}

func TestGetRecord_MissIsNilNil(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewCylinderSourceRepo(db, testutil.Logger(t))

	rec, err := repo.GetRecord(dbc, "NO-SUCH-CYLINDER")
	if err != nil {
		t.Fatalf("expected nil error on miss, got %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record on miss, got %+v", rec)
	}
}

func TestListChangedSince_PicksUpMovements(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCylinderSourceRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	testutil.SeedSourceCylinder(t, ctx, tx, "C-300", "Ar", 47, "V03", "C01")
	testutil.SeedSourceCylinder(t, ctx, tx, "C-301", "Ar", 47, "V03", "C01")
	// Only C-301 moves after the cutoff.
	testutil.SeedStatusEvent(t, ctx, tx, "C-301", "05", "CUSTOMER", now.Add(2*time.Hour))

	nos, err := repo.ListChangedSince(dbc, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListChangedSince: %v", err)
	}
	if len(nos) != 1 || nos[0] != "C-301" {
		t.Fatalf("expected only C-301, got %v", nos)
	}

	// Both master rows were written just now, so a cutoff in the past
	// catches both.
	nos, err = repo.ListChangedSince(dbc, now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("ListChangedSince: %v", err)
	}
	if len(nos) != 2 {
		t.Fatalf("expected both cylinders, got %v", nos)
	}
}

func TestListCylinderNos_TrimmedAndDistinct(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCylinderSourceRepo(db, testutil.Logger(t))

	testutil.SeedSourceCylinder(t, ctx, tx, "D-400", "He", 47, "V04", "C01")
	testutil.SeedSourceCylinder(t, ctx, tx, "D-401", "He", 47, "V04", "C01")

	nos, err := repo.ListCylinderNos(dbc)
	if err != nil {
		t.Fatalf("ListCylinderNos: %v", err)
	}
	if len(nos) != 2 || nos[0] != "D-400" || nos[1] != "D-401" {
		t.Fatalf("unexpected enumeration: %v", nos)
	}
	count, err := repo.Count(dbc)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}
