package policy

import (
	"context"
	"testing"

	types "github.com/fleetsight/gasdash-backend/internal/domain"

	"github.com/fleetsight/gasdash-backend/internal/data/repos/testutil"
	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
)

func TestExceptionUpsert_ReplacesExistingRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewEndUserExceptionRepo(db, testutil.Logger(t))

	if err := repo.UpsertByCylinderNo(dbc, &types.EndUserException{
		CylinderNo: "E-100", EndUser: "LGD", Reason: "first", IsActive: true,
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	// Padded input must collapse onto the same row.
	if err := repo.UpsertByCylinderNo(dbc, &types.EndUserException{
		CylinderNo: "E-100   ", EndUser: "SEC", Reason: "reassigned", IsActive: true,
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	all, err := repo.List(dbc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one exception row, got %d", len(all))
	}
	got, err := repo.GetActiveByCylinderNo(dbc, "E-100")
	if err != nil {
		t.Fatalf("GetActiveByCylinderNo: %v", err)
	}
	if got == nil || got.EndUser != "SEC" || got.Reason != "reassigned" {
		t.Fatalf("upsert did not replace: %+v", got)
	}
}

func TestExceptionGetActive_IgnoresInactive(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewEndUserExceptionRepo(db, testutil.Logger(t))

	if err := repo.UpsertByCylinderNo(dbc, &types.EndUserException{
		CylinderNo: "E-200", EndUser: "LGD", IsActive: false,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := repo.GetActiveByCylinderNo(dbc, "E-200")
	if err != nil {
		t.Fatalf("GetActiveByCylinderNo: %v", err)
	}
	if got != nil {
		t.Fatalf("inactive exception must not resolve, got %+v", got)
	}
	active, err := repo.ListActive(dbc)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active rows, got %d", len(active))
	}
}

func TestDefaultRepo_ListActiveByGas(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewEndUserDefaultRepo(db, testutil.Logger(t))

	testutil.SeedDefaultRule(t, ctx, tx, "CF4", nil, nil, nil, "LGD")
	testutil.SeedDefaultRule(t, ctx, tx, "CF4", testutil.Float(440), nil, nil, "LGD-440")
	testutil.SeedDefaultRule(t, ctx, tx, "N2", nil, nil, nil, "BULK")
	off := testutil.SeedDefaultRule(t, ctx, tx, "CF4", nil, nil, nil, "RETIRED")
	if err := repo.SetActive(dbc, off.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	rules, err := repo.ListActiveByGas(dbc, "CF4")
	if err != nil {
		t.Fatalf("ListActiveByGas: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected two active CF4 rules, got %d", len(rules))
	}
	for _, r := range rules {
		if r.GasName != "CF4" || !r.IsActive {
			t.Fatalf("filter leaked: %+v", r)
		}
	}
}

func TestValveGroupActiveMappings(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewValveGroupRepo(db, testutil.Logger(t))

	testutil.SeedValveGroup(t, ctx, tx, "CGA-716", "V01", "V02")
	inactive := testutil.SeedValveGroup(t, ctx, tx, "OLD-GROUP", "V09")
	if err := tx.Model(&types.ValveGroup{}).
		Where("id = ?", inactive.ID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate group: %v", err)
	}

	mappings, err := repo.ActiveMappings(dbc)
	if err != nil {
		t.Fatalf("ActiveMappings: %v", err)
	}
	if len(mappings) != 2 {
		t.Fatalf("expected two active mappings, got %v", mappings)
	}
	if mappings["V01"] != "CGA-716" || mappings["V02"] != "CGA-716" {
		t.Fatalf("unexpected mapping shape: %v", mappings)
	}
	if _, ok := mappings["V09"]; ok {
		t.Fatalf("inactive group mapping leaked: %v", mappings)
	}
}
