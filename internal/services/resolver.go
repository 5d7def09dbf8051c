package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/fleetsight/gasdash-backend/internal/domain"
)

// PolicySnapshot is an in-memory copy of the active policy rules, loaded once
// per sync run so resolution itself never touches the database.
type PolicySnapshot struct {
	// Exceptions maps trimmed cylinder_no to its pinned end user.
	Exceptions map[string]string
	// Defaults holds every active wildcard rule.
	Defaults []*types.EndUserDefault
	// ValveGroups maps valve_spec_code to the group display name.
	ValveGroups map[string]string
}

// ResolvedAttributes is the complete set of dashboard fields derived from one
// raw cylinder record.
type ResolvedAttributes struct {
	GasName          string
	Capacity         float64
	ValveDisplayName string
	CylinderSpecName string
	EndUser          *string
	Status           types.Status
	Available        bool
	RiskLevel        types.RiskLevel
	CylinderTypeKey  string
}

// typeKeyNamespace fixes the v5 UUID namespace for cylinder type keys.
// Changing it invalidates every stored key and forces a full resync.
var typeKeyNamespace = uuid.MustParse("8f6f3b16-44cd-56a7-9d0a-6dbacb71d1c4")

// typeKeyDelim joins the key tuple. ASCII unit separator cannot appear in any
// trimmed ERP text column, so distinct tuples can never collide.
const typeKeyDelim = "\x1f"

// ResolveAttributes derives the dashboard fields for one cylinder. Pure:
// same record, policy and clock always produce the same output.
func ResolveAttributes(raw *types.CylinderRecord, pol PolicySnapshot, now time.Time) ResolvedAttributes {
	status := types.StatusFromCondition(raw.ConditionCode)

	valveDisplay := raw.ValveSpecName
	if name, ok := pol.ValveGroups[raw.ValveSpecCode]; ok {
		valveDisplay = name
	}

	endUser := resolveEndUser(raw, pol)

	risk := pressureRisk(raw.PressureTestDue, now)
	available := status == types.StatusStored && risk != types.RiskExpired

	return ResolvedAttributes{
		GasName:          raw.GasName,
		Capacity:         raw.Capacity,
		ValveDisplayName: valveDisplay,
		CylinderSpecName: raw.CylinderSpecName,
		EndUser:          endUser,
		Status:           status,
		Available:        available,
		RiskLevel:        risk,
		CylinderTypeKey:  TypeKey(raw.GasName, raw.Capacity, valveDisplay, raw.CylinderSpecName, endUser),
	}
}

// resolveEndUser applies the precedence policy: an active per-cylinder
// exception wins unconditionally, then the most specific matching default
// rule, then nothing. Absence stays nil; there is no placeholder value.
func resolveEndUser(raw *types.CylinderRecord, pol PolicySnapshot) *string {
	if eu, ok := pol.Exceptions[strings.TrimSpace(raw.CylinderNo)]; ok {
		return &eu
	}
	if best := BestMatchingDefault(pol.Defaults, raw.GasName, raw.Capacity, raw.ValveSpecCode, raw.CylinderSpecCode); best != nil {
		eu := best.EndUser
		return &eu
	}
	return nil
}

// BestMatchingDefault picks the winning rule among those that match: the rule
// with the most populated fields wins, ties broken by capacity, then valve
// spec, then cylinder spec being populated.
func BestMatchingDefault(rules []*types.EndUserDefault, gasName string, capacity float64, valveCode, cylCode string) *types.EndUserDefault {
	var matched []*types.EndUserDefault
	for _, r := range rules {
		if r == nil || !r.IsActive {
			continue
		}
		if r.GasName != gasName {
			continue
		}
		if r.Capacity != nil && *r.Capacity != capacity {
			continue
		}
		if r.ValveSpecCode != nil && *r.ValveSpecCode != valveCode {
			continue
		}
		if r.CylinderSpecCode != nil && *r.CylinderSpecCode != cylCode {
			continue
		}
		matched = append(matched, r)
	}
	if len(matched) == 0 {
		return nil
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Specificity() != b.Specificity() {
			return a.Specificity() > b.Specificity()
		}
		if (a.Capacity != nil) != (b.Capacity != nil) {
			return a.Capacity != nil
		}
		if (a.ValveSpecCode != nil) != (b.ValveSpecCode != nil) {
			return a.ValveSpecCode != nil
		}
		return a.CylinderSpecCode != nil && b.CylinderSpecCode == nil
	})
	return matched[0]
}

// TypeKey hashes the resolved display tuple into the card-grouping identity.
// A v5 UUID over the delimited tuple: 128 bits, deterministic, and cheap.
func TypeKey(gasName string, capacity float64, valveDisplay, cylinderSpecName string, endUser *string) string {
	eu := ""
	if endUser != nil {
		eu = *endUser
	}
	joined := strings.Join([]string{
		gasName,
		strconv.FormatFloat(capacity, 'f', -1, 64),
		valveDisplay,
		cylinderSpecName,
		eu,
	}, typeKeyDelim)
	return uuid.NewSHA1(typeKeyNamespace, []byte(joined)).String()
}

// pressureDueSoonWindow is how close a pressure-test due date may be before a
// stored cylinder is flagged for forecasting.
const pressureDueSoonWindow = 90 * 24 * time.Hour

func pressureRisk(due *time.Time, now time.Time) types.RiskLevel {
	if due == nil {
		return types.RiskOK
	}
	if due.Before(now) {
		return types.RiskExpired
	}
	if due.Sub(now) <= pressureDueSoonWindow {
		return types.RiskDueSoon
	}
	return types.RiskOK
}
