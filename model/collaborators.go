package model

import "time"

// PathFinder is the out-of-scope map/pathfinder collaborator (spec §1):
// `pathfind(req) -> path?`. Implemented by collab.PathFinder.
type PathFinder interface {
	Pathfind(req PathRequest) (*Path, bool)
}

// Parking is the out-of-scope parking manager (spec §1 / §6): spot
// lookup, reservation and free-spot search. Implemented by collab.Parking.
type Parking interface {
	// FreeSpotNearBuilding looks for a free on/off-street spot near the
	// building's driving lane, the first warp attempt of spec §4.5 step 4.
	FreeSpotNearBuilding(b BuildingID) (ParkingSpot, bool)
	// FreeSpotReachableFrom searches more broadly (spec §4.5 step 4's
	// fallback): any reachable free spot from the given position.
	FreeSpotReachableFrom(from IntersectionID) (ParkingSpot, bool)
	ReserveSpot(spot ParkingSpot, car CarID)
	AddParkedCar(spot ParkingSpot, car CarID, at time.Time)
	RemoveParkedCar(car CarID)
	// SpotOf reports where a car is currently parked, if anywhere.
	SpotOf(car CarID) (ParkingSpot, bool)
	// DrivingPosition returns where a car sitting in this spot enters
	// traffic (spec §4.4 ped_reached_parking_spot): for on-street it's the
	// spot's lane, for off-street the intersection the owning building's
	// driveway exits onto. Positions are whole intersections, so no
	// vehicle-length offset is applied.
	DrivingPosition(spot ParkingSpot) IntersectionID
}

// Transit is the out-of-scope transit subsystem (spec §1 / §6): bus
// boarding/waiting. Implemented by collab.Transit.
type Transit interface {
	// BusAtStopNow reports a bus of the given route currently boarding at
	// stop, used by ped_reached_bus_stop (spec §4.4).
	BusAtStopNow(route BusRouteID, stop BusStopID) (CarID, bool)
	// RegisterWaiter records a pedestrian waiting for route at stop, so a
	// later-arriving bus knows to pick them up.
	RegisterWaiter(route BusRouteID, stop BusStopID, person PersonID)
	// IncomingBorders lists the intersections a route enters the map
	// through. The Trip Manager does not call it: the `end` endpoint of a
	// RideBus(_, None) leg is always intersection index 0 (sim's
	// deriveEndpoint; spec §9 open question 2, documented limitation).
	IncomingBorders(route BusRouteID) []IntersectionID
}

// Cap is the out-of-scope congestion cap (spec §1 / glossary): a policy
// object that rejects or rewrites paths to enforce corridor throughput
// limits. Implemented by collab.Cap.
type Cap interface {
	// ValidatePath may return the path unchanged, a reduced path (modified
	// = true), or nil (rejection, treated identically to a pathfinding
	// failure per spec §9 open question 3).
	ValidatePath(p *Path) (reduced *Path, modified bool)
}

// CommandKind tags the variant of the scheduler commands the manager can
// issue via a Context (spec §6 Outputs).
type CommandKind int

const (
	CmdSpawnPed CommandKind = iota
	CmdSpawnCar
	CmdFinishRemoteTrip
)

// Command is a scheduler instruction emitted by a handler. The scheduler
// (collab.Scheduler) owns turning these into future completion-handler
// calls; the Trip Manager never calls a collaborator's movement code
// directly, matching spec §5's single-threaded, no-suspension-points
// design — "waiting" is always expressed as a command scheduled for later.
type Command struct {
	Kind CommandKind
	At   time.Time

	Person PersonID
	Ped    PedestrianID
	Car    CarID
	Trip   TripID

	From SidewalkSpot
	Goal ParkingGoal
	Req  *PathRequest
	Path *Path

	// Spec is only meaningful for a driver-internal "start trip" command
	// (see driver.Runner); the Trip Manager itself never reads it, since
	// StartTrip always receives its TripSpec as a direct argument.
	Spec TripSpec

	// RetryIfNoRoom mirrors trips.rs's CreateCar { retry_if_no_room }:
	// VehicleAppearing retries spawning if the border is momentarily full.
	RetryIfNoRoom bool
}

// Context bundles the collaborators and scheduler a single handler
// invocation is allowed to touch, passed in by the caller and never
// retained past the call (spec §5's "Shared resources" paragraph — this
// is how Go expresses "passed by mutable borrow through the handler's
// context" without needing the borrow checker).
type Context struct {
	Now       time.Time
	PathFind  PathFinder
	Parking   Parking
	Transit   Transit
	Cap       Cap
	Scheduler Scheduler
}

// Scheduler is the out-of-scope time-ordered command queue (spec §1 /
// glossary). Implemented by collab.Scheduler.
type Scheduler interface {
	Schedule(cmd Command)
}
