package model

import "time"

// Purpose tags the reason a trip exists, carried through for reporting
// only; the manager never branches on it.
type Purpose int

const (
	PurposeWork Purpose = iota
	PurposeShopping
	PurposeSchool
	PurposeHome
	PurposeOther
)

// TripInfo is the descriptive part of a Trip, fixed at creation time
// except for Capped (set when the cap modifies a path) and
// CancellationReason (set on cancellation).
type TripInfo struct {
	Departure time.Time
	Mode      TripMode
	Start     TripEndpoint
	End       TripEndpoint
	Purpose   Purpose

	// Modified records whether a collaborator (e.g. the cap) altered the
	// trip's path or spec from what the scenario originally requested.
	Modified bool
	// Capped records whether the congestion cap reduced the path.
	Capped bool

	CancellationReason string
}

// Trip is the mutable progress record for one person's one trip: the
// immutable TripInfo plus the shrinking queue of remaining legs and the
// bookkeeping the manager needs to answer queries and compute reports.
type Trip struct {
	ID     TripID
	Person PersonID
	Info   TripInfo

	Started    bool
	FinishedAt *time.Time

	TotalBlockedTime time.Duration

	// Legs is the ordered queue of remaining TripLeg steps; it shrinks
	// monotonically from the front (invariant 3) and is empty iff either
	// the trip hasn't been created (impossible — constructors reject
	// that) or it has finished successfully.
	Legs []TripLeg
}

// IsCancelled reports whether CancellationReason has been set.
func (t *Trip) IsCancelled() bool { return t.Info.CancellationReason != "" }

// IsFinished reports whether FinishedAt has been set.
func (t *Trip) IsFinished() bool { return t.FinishedAt != nil }

// IsActive is the complement used by unfinished-trip counting (spec §3
// invariant 7): neither finished nor cancelled.
func (t *Trip) IsActive() bool { return !t.IsFinished() && !t.IsCancelled() }

// HeadLeg returns the leg at the front of the queue, used by every
// completion handler to assert the expected variant before popping.
func (t *Trip) HeadLeg() (TripLeg, bool) {
	if len(t.Legs) == 0 {
		return TripLeg{}, false
	}
	return t.Legs[0], true
}

// PopLeg removes and returns the head leg.
func (t *Trip) PopLeg() TripLeg {
	l := t.Legs[0]
	t.Legs = t.Legs[1:]
	return l
}

// SpecKind tags the variant of TripSpec.
type SpecKind int

const (
	SpecVehicleAppearing SpecKind = iota
	SpecNoRoomToSpawn
	SpecUsingParkedCar
	SpecJustWalking
	SpecUsingBike
	SpecUsingTransit
	SpecRemote
)

// TripSpec carries the mode-specific parameters start_trip needs to
// dispatch the first leg's agent (spec §4.3's dispatch table).
type TripSpec struct {
	Kind SpecKind

	Car CarID // VehicleAppearing, UsingParkedCar, UsingBike (bike id)

	NoRoomReason string // NoRoomToSpawn

	TripTime time.Duration // Remote
	Remote   OffMapLocation
}

func VehicleAppearingSpec(car CarID) TripSpec { return TripSpec{Kind: SpecVehicleAppearing, Car: car} }
func NoRoomToSpawnSpec(reason string) TripSpec {
	return TripSpec{Kind: SpecNoRoomToSpawn, NoRoomReason: reason}
}
func UsingParkedCarSpec(car CarID) TripSpec { return TripSpec{Kind: SpecUsingParkedCar, Car: car} }
func JustWalkingSpec() TripSpec             { return TripSpec{Kind: SpecJustWalking} }
func UsingBikeSpec(bike CarID) TripSpec     { return TripSpec{Kind: SpecUsingBike, Car: bike} }
func UsingTransitSpec() TripSpec            { return TripSpec{Kind: SpecUsingTransit} }
func RemoteSpec(tripTime time.Duration, loc OffMapLocation) TripSpec {
	return TripSpec{Kind: SpecRemote, TripTime: tripTime, Remote: loc}
}

// OffMapLocation is an abstract address outside the simulated region,
// carried opaquely by Remote trips and border endpoints.
type OffMapLocation struct {
	Name string
}

// ResultKind tags the variant of TripResult, mirroring trips.rs's
// TripResult<T>.
type ResultKind int

const (
	ResultOk ResultKind = iota
	ResultModeChange
	ResultTripDone
	ResultTripDoesntExist
	ResultTripNotStarted
	ResultTripCancelled
	ResultRemoteTrip
)

// TripResult is the result variant returned by trip_to_agent and similar
// queries (spec §4.7). T is carried as `any` since Go generics would
// otherwise force a type parameter through every query signature; callers
// that expect AgentID on ResultOk type-assert it.
type TripResult struct {
	Kind  ResultKind
	Value any
}

func OkResult(v any) TripResult             { return TripResult{Kind: ResultOk, Value: v} }
func ModeChangeResult() TripResult          { return TripResult{Kind: ResultModeChange} }
func TripDoneResult() TripResult            { return TripResult{Kind: ResultTripDone} }
func TripDoesntExistResult() TripResult     { return TripResult{Kind: ResultTripDoesntExist} }
func TripNotStartedResult() TripResult      { return TripResult{Kind: ResultTripNotStarted} }
func TripCancelledResult() TripResult       { return TripResult{Kind: ResultTripCancelled} }
func RemoteTripResult() TripResult          { return TripResult{Kind: ResultRemoteTrip} }

// Ok mirrors trips.rs's TripResult::ok(): returns the wrapped value only
// for the Ok variant.
func (r TripResult) Ok() (any, bool) {
	if r.Kind == ResultOk {
		return r.Value, true
	}
	return nil, false
}

// IsError mirrors trips.rs's TripResult::propagate_error: true for any
// variant that represents an abnormal (non-Ok, non-ModeChange) state a
// caller should surface rather than silently ignore.
func (r TripResult) IsError() bool {
	switch r.Kind {
	case ResultOk, ResultModeChange:
		return false
	default:
		return true
	}
}
