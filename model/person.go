package model

// StateKind tags the variant of PersonState.
type StateKind int

const (
	StateInside StateKind = iota
	StateOffMap
	StateTrip
)

// PersonState mirrors the source's Inside/OffMap/Trip(TripID) enum. It is
// the single source of truth for "what is this person doing right now";
// invariant 5 (spec §3) ties the Trip variant to registry occupancy.
type PersonState struct {
	Kind     StateKind
	Building BuildingID
	Trip     TripID
}

func StateInsideBuilding(b BuildingID) PersonState { return PersonState{Kind: StateInside, Building: b} }
func StateOffMapState() PersonState                { return PersonState{Kind: StateOffMap} }
func StateOnTrip(t TripID) PersonState             { return PersonState{Kind: StateTrip, Trip: t} }

func (s PersonState) IsInside() (BuildingID, bool) { return s.Building, s.Kind == StateInside }
func (s PersonState) IsOffMap() bool               { return s.Kind == StateOffMap }
func (s PersonState) IsOnTrip() (TripID, bool)     { return s.Trip, s.Kind == StateTrip }

// Vehicle is an owned car or bike, parked somewhere until driven.
type Vehicle struct {
	ID   CarID
	Kind VehicleType
}

// DelayedTrip is one entry of a person's serialized start-trip queue: a
// trip whose departure fired while a prior trip of the same person was
// still running (spec §4.3, §4.6).
type DelayedTrip struct {
	Trip    TripID
	Spec    TripSpec
	Request *PathRequest
	Path    *Path
}

// Person is a per-agent record: identity, owned vehicles, ordered trip
// list, current state, and the FIFO of trips deferred behind a running one.
type Person struct {
	ID       PersonID
	Orig     *OrigPersonID
	PedSpeed float64

	Ped PedestrianID

	Vehicles []Vehicle
	Trips    []TripID

	State PersonState

	DelayedTrips []DelayedTrip

	// OnBus is set iff the person's active agent is a BusPassenger; it
	// mirrors invariant 6 and exists so queries don't need to unpack the
	// registry's AgentID to answer "is this person on a bus, and which".
	OnBus *CarID
}

// FindVehicle returns the vehicle with the given id from the person's
// owned vehicles. The dispatch code does not call it.
func (p *Person) FindVehicle(id CarID) (Vehicle, bool) {
	for _, v := range p.Vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return Vehicle{}, false
}

// PushDelayedTrip appends to the FIFO; PopDelayedTrip removes and returns
// the oldest entry. Both are plain slice operations — spec §9 explicitly
// forbids coroutines or locks here, a synchronous queue is the whole point.
func (p *Person) PushDelayedTrip(d DelayedTrip) {
	p.DelayedTrips = append(p.DelayedTrips, d)
}

func (p *Person) PopDelayedTrip() (DelayedTrip, bool) {
	if len(p.DelayedTrips) == 0 {
		return DelayedTrip{}, false
	}
	d := p.DelayedTrips[0]
	p.DelayedTrips = p.DelayedTrips[1:]
	return d, true
}

// Path is an opaque result from the out-of-scope pathfinder collaborator;
// the Trip Manager never interprets its contents, only checks presence.
type Path struct {
	Steps []IntersectionID
}
