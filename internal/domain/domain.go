package domain

import (
	"github.com/fleetsight/gasdash-backend/internal/domain/cdc"
	"github.com/fleetsight/gasdash-backend/internal/domain/fleet"
	"github.com/fleetsight/gasdash-backend/internal/domain/policy"
)

type Cylinder = cdc.Cylinder
type Item = cdc.Item
type ValveSpec = cdc.ValveSpec
type CylinderSpec = cdc.CylinderSpec
type StatusEvent = cdc.StatusEvent
type CylinderRecord = cdc.CylinderRecord

type EndUserDefault = policy.EndUserDefault
type EndUserException = policy.EndUserException
type ValveGroup = policy.ValveGroup
type ValveGroupMapping = policy.ValveGroupMapping

type CylinderSnapshot = fleet.CylinderSnapshot
type InventoryHistorySnapshot = fleet.InventoryHistorySnapshot
type SnapshotRequest = fleet.SnapshotRequest

type Status = fleet.Status
type RiskLevel = fleet.RiskLevel
type SnapshotType = fleet.SnapshotType

const (
	StatusStored      = fleet.StatusStored
	StatusFilling     = fleet.StatusFilling
	StatusAnalysis    = fleet.StatusAnalysis
	StatusWarehoused  = fleet.StatusWarehoused
	StatusShipped     = fleet.StatusShipped
	StatusAbnormal    = fleet.StatusAbnormal
	StatusMaintenance = fleet.StatusMaintenance
	StatusDisposed    = fleet.StatusDisposed
	StatusOther       = fleet.StatusOther

	RiskExpired = fleet.RiskExpired
	RiskDueSoon = fleet.RiskDueSoon
	RiskOK      = fleet.RiskOK

	SnapshotDaily  = fleet.SnapshotDaily
	SnapshotManual = fleet.SnapshotManual

	RequestStatusSuccess = fleet.RequestStatusSuccess
	RequestStatusFailure = fleet.RequestStatusFailure
)

// StatusFromCondition maps a raw FCMS condition code to a dashboard status.
func StatusFromCondition(code string) Status { return fleet.StatusFromCondition(code) }
