package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fleetsight/gasdash-backend/internal/domain"
)

// SeedSourceCylinder writes an FCMS master row plus its lookups. The
// cylinder number is stored padded, like the replica delivers it.
func SeedSourceCylinder(tb testing.TB, ctx context.Context, tx *gorm.DB, cylinderNo, gasName string, capacity float64, valveCode, cylCode string) *types.Cylinder {
	tb.Helper()
	now := time.Now().UTC()
	itemCode := "ITM-" + gasName
	seedLookup(tb, ctx, tx, itemCode, gasName, valveCode, cylCode)
	padded := pad20(cylinderNo)
	c := &types.Cylinder{
		CylinderNo:       padded,
		ItemCode:         itemCode,
		Capacity:         capacity,
		ValveSpecCode:    valveCode,
		CylinderSpecCode: cylCode,
		UsageDept:        "PLANT1",
		RegisteredAt:     &now,
		UpdatedAt:        &now,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed source cylinder: %v", err)
	}
	return c
}

func seedLookup(tb testing.TB, ctx context.Context, tx *gorm.DB, itemCode, gasName, valveCode, cylCode string) {
	tb.Helper()
	tx.WithContext(ctx).Where("item_code = ?", itemCode).
		FirstOrCreate(&types.Item{ItemCode: itemCode, ItemName: gasName})
	tx.WithContext(ctx).Where("spec_code = ?", valveCode).
		FirstOrCreate(&types.ValveSpec{SpecCode: valveCode, SpecName: "VALVE-" + valveCode})
	tx.WithContext(ctx).Where("spec_code = ?", cylCode).
		FirstOrCreate(&types.CylinderSpec{SpecCode: cylCode, SpecName: "CYL-" + cylCode})
}

func SeedStatusEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, cylinderNo, conditionCode, location string, movedAt time.Time) *types.StatusEvent {
	tb.Helper()
	ev := &types.StatusEvent{
		CylinderNo:    pad20(cylinderNo),
		ConditionCode: conditionCode,
		Location:      location,
		MovedAt:       movedAt,
	}
	if err := tx.WithContext(ctx).Create(ev).Error; err != nil {
		tb.Fatalf("seed status event: %v", err)
	}
	return ev
}

func SeedDefaultRule(tb testing.TB, ctx context.Context, tx *gorm.DB, gasName string, capacity *float64, valveCode, cylCode *string, endUser string) *types.EndUserDefault {
	tb.Helper()
	r := &types.EndUserDefault{
		ID:               uuid.New(),
		GasName:          gasName,
		Capacity:         capacity,
		ValveSpecCode:    valveCode,
		CylinderSpecCode: cylCode,
		EndUser:          endUser,
		IsActive:         true,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed default rule: %v", err)
	}
	return r
}

func SeedException(tb testing.TB, ctx context.Context, tx *gorm.DB, cylinderNo, endUser string) *types.EndUserException {
	tb.Helper()
	e := &types.EndUserException{
		ID:         uuid.New(),
		CylinderNo: cylinderNo,
		EndUser:    endUser,
		Reason:     "test",
		IsActive:   true,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed exception: %v", err)
	}
	return e
}

func SeedValveGroup(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, primaryCode string, codes ...string) *types.ValveGroup {
	tb.Helper()
	g := &types.ValveGroup{ID: uuid.New(), Name: name, IsActive: true}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed valve group: %v", err)
	}
	all := append([]string{primaryCode}, codes...)
	for i, code := range all {
		m := &types.ValveGroupMapping{
			ID:            uuid.New(),
			ValveGroupID:  g.ID,
			ValveSpecCode: code,
			IsPrimary:     i == 0,
		}
		if err := tx.WithContext(ctx).Create(m).Error; err != nil {
			tb.Fatalf("seed valve group mapping: %v", err)
		}
	}
	return g
}

func Float(v float64) *float64 { return &v }
func Str(v string) *string     { return &v }

func pad20(s string) string {
	for len(s) < 20 {
		s += " "
	}
	return s
}
