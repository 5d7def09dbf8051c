package fleet

// Status is the dashboard-facing cylinder state derived from the FCMS
// condition code.
type Status string

const (
	StatusStored      Status = "stored"
	StatusFilling     Status = "filling"
	StatusAnalysis    Status = "analysis"
	StatusWarehoused  Status = "warehoused"
	StatusShipped     Status = "shipped"
	StatusAbnormal    Status = "abnormal"
	StatusMaintenance Status = "maintenance"
	StatusDisposed    Status = "disposed"
	StatusOther       Status = "other"
)

var conditionStatus = map[string]Status{
	"01": StatusStored,
	"02": StatusFilling,
	"03": StatusAnalysis,
	"04": StatusWarehoused,
	"05": StatusShipped,
	"06": StatusAbnormal,
	"07": StatusMaintenance,
	"09": StatusDisposed,
}

// StatusFromCondition maps a raw FCMS condition code. Unknown codes map to
// StatusOther so new upstream codes surface on the dashboard instead of
// disappearing.
func StatusFromCondition(code string) Status {
	if s, ok := conditionStatus[code]; ok {
		return s
	}
	return StatusOther
}

// RiskLevel grades pressure-test urgency for the forecasting views.
type RiskLevel string

const (
	RiskExpired RiskLevel = "expired"
	RiskDueSoon RiskLevel = "due_soon"
	RiskOK      RiskLevel = "ok"
)

// SnapshotType tags history rows: Daily rows are real month-end snapshots,
// Manual rows are retroactive estimates built from present-day resolved
// values.
type SnapshotType string

const (
	SnapshotDaily  SnapshotType = "DAILY"
	SnapshotManual SnapshotType = "MANUAL"
)
