package services

import (
	"context"
	"strings"
	"testing"

	"github.com/fleetsight/gasdash-backend/internal/data/repos"
	"github.com/fleetsight/gasdash-backend/internal/data/repos/testutil"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
)

func newPolicyFixture(t *testing.T) (dbctx.Context, PolicyService, repos.EndUserExceptionRepo) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	exceptions := repos.NewEndUserExceptionRepo(db, log)
	svc := NewPolicyService(
		repos.NewEndUserDefaultRepo(db, log),
		exceptions,
		repos.NewValveGroupRepo(db, log),
		log,
	)
	return dbctx.Context{Ctx: context.Background(), Tx: tx}, svc, exceptions
}

func TestImportExceptionsCSV_HeaderAndBadRowsTolerated(t *testing.T) {
	dbc, svc, exceptions := newPolicyFixture(t)

	csvBody := strings.Join([]string{
		"cylinder_no,end_user,reason",
		"C-1,LGD,long term loan",
		"C-2,SEC,",
		",MISSING-NO,bad row",
		"C-3",
	}, "\n")

	result, err := svc.ImportExceptionsCSV(dbc, strings.NewReader(csvBody))
	if err != nil {
		t.Fatalf("ImportExceptionsCSV: %v", err)
	}
	if result.Imported != 2 {
		t.Fatalf("expected 2 imported, got %+v", result)
	}
	if result.Skipped != 2 || len(result.Errors) != 2 {
		t.Fatalf("expected 2 skipped with errors, got %+v", result)
	}

	got, err := exceptions.GetActiveByCylinderNo(dbc, "C-1")
	if err != nil || got == nil {
		t.Fatalf("C-1 missing after import: %v", err)
	}
	if got.EndUser != "LGD" || got.Reason != "long term loan" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestImportExceptionsCSV_ReimportUpdatesInPlace(t *testing.T) {
	dbc, svc, exceptions := newPolicyFixture(t)

	if _, err := svc.ImportExceptionsCSV(dbc, strings.NewReader("C-10,OLD,\n")); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if _, err := svc.ImportExceptionsCSV(dbc, strings.NewReader("C-10,NEW,updated\n")); err != nil {
		t.Fatalf("second import: %v", err)
	}

	all, err := exceptions.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one row, got %d", len(all))
	}
	if all[0].EndUser != "NEW" {
		t.Fatalf("reimport did not update: %+v", all[0])
	}
}

func TestLoadSnapshot_ShapesPolicyForResolution(t *testing.T) {
	dbc, svc, _ := newPolicyFixture(t)
	ctx := dbc.Ctx

	testutil.SeedException(t, ctx, dbc.Tx, "P-1", "PINNED")
	testutil.SeedDefaultRule(t, ctx, dbc.Tx, "CF4", nil, nil, nil, "LGD")
	testutil.SeedValveGroup(t, ctx, dbc.Tx, "CGA-716", "V01")

	pol, err := svc.LoadSnapshot(dbc)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if pol.Exceptions["P-1"] != "PINNED" {
		t.Fatalf("exception map wrong: %v", pol.Exceptions)
	}
	if len(pol.Defaults) != 1 || pol.Defaults[0].EndUser != "LGD" {
		t.Fatalf("defaults wrong: %+v", pol.Defaults)
	}
	if pol.ValveGroups["V01"] != "CGA-716" {
		t.Fatalf("valve groups wrong: %v", pol.ValveGroups)
	}
}
