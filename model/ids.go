// Package model holds the Trip Manager's data model: identifiers, the
// person and trip records, trip legs, endpoints, and the interfaces the
// manager uses to talk to its external collaborators.
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// PersonID is a dense index identifying a person. Index equals identity:
// people[i].id.Index() == i always holds.
type PersonID struct{ idx int }

func NewPersonID(idx int) PersonID { return PersonID{idx} }
func (id PersonID) Index() int     { return id.idx }
func (id PersonID) String() string { return fmt.Sprintf("Person #%d", id.idx) }

// TripID is a dense index identifying a trip. Index equals identity.
type TripID struct{ idx int }

func NewTripID(idx int) TripID    { return TripID{idx} }
func (id TripID) Index() int      { return id.idx }
func (id TripID) String() string  { return fmt.Sprintf("Trip #%d", id.idx) }

// PedestrianID identifies a walking agent. It is always numerically equal
// to the owning person's id (1:1 relationship, see model.Person.Ped).
type PedestrianID struct{ idx int }

func NewPedestrianID(idx int) PedestrianID { return PedestrianID{idx} }
func (id PedestrianID) Index() int         { return id.idx }
func (id PedestrianID) String() string     { return fmt.Sprintf("Pedestrian #%d", id.idx) }

// VehicleType tags a CarID with the kind of vehicle it names.
type VehicleType int

const (
	VehicleCar VehicleType = iota
	VehicleBike
	VehicleBus
	VehicleTrain
)

func (t VehicleType) String() string {
	switch t {
	case VehicleCar:
		return "car"
	case VehicleBike:
		return "bike"
	case VehicleBus:
		return "bus"
	case VehicleTrain:
		return "train"
	default:
		return "unknown"
	}
}

// CarID identifies a vehicle (car, bike, bus or train), tagged with its kind.
type CarID struct {
	idx  int
	kind VehicleType
}

func NewCarID(idx int, kind VehicleType) CarID { return CarID{idx, kind} }
func (id CarID) Index() int                    { return id.idx }
func (id CarID) Kind() VehicleType             { return id.kind }
func (id CarID) String() string                { return fmt.Sprintf("%s #%d", id.kind, id.idx) }

// BuildingID, IntersectionID, BusRouteID and BusStopID identify static map
// entities. The map itself is an out-of-scope collaborator (see
// model.PathFinder); the Trip Manager only ever stores and compares these
// opaque integers.
type BuildingID struct{ idx int }

func NewBuildingID(idx int) BuildingID { return BuildingID{idx} }
func (id BuildingID) Index() int       { return id.idx }
func (id BuildingID) String() string   { return fmt.Sprintf("Building #%d", id.idx) }

type IntersectionID struct{ idx int }

func NewIntersectionID(idx int) IntersectionID { return IntersectionID{idx} }
func (id IntersectionID) Index() int           { return id.idx }
func (id IntersectionID) String() string       { return fmt.Sprintf("Intersection #%d", id.idx) }

type BusRouteID struct{ idx int }

func NewBusRouteID(idx int) BusRouteID { return BusRouteID{idx} }
func (id BusRouteID) Index() int       { return id.idx }
func (id BusRouteID) String() string   { return fmt.Sprintf("Route #%d", id.idx) }

type BusStopID struct{ idx int }

func NewBusStopID(idx int) BusStopID { return BusStopID{idx} }
func (id BusStopID) Index() int      { return id.idx }
func (id BusStopID) String() string  { return fmt.Sprintf("Stop #%d", id.idx) }

// OrigPersonID is the optional external identity a scenario loader may
// attach to a synthesized person, e.g. a row id from a travel-demand
// survey. Modeled as a UUID so scenario tooling can stamp a stable,
// collision-free external key without coordinating with this package.
type OrigPersonID struct {
	UUID uuid.UUID
}

func NewOrigPersonID() OrigPersonID { return OrigPersonID{UUID: uuid.New()} }
func (o OrigPersonID) String() string { return o.UUID.String() }

// AgentKind distinguishes the variants of AgentID.
type AgentKind int

const (
	AgentPedestrian AgentKind = iota
	AgentCar
	AgentBusPassenger
)

// AgentID is a tagged union over the three kinds of agent a collaborator
// simulator can report completion events for: a pedestrian, a car/bike,
// or a person currently riding as a bus passenger.
type AgentID struct {
	kind   AgentKind
	ped    PedestrianID
	car    CarID
	person PersonID
	bus    CarID
}

func PedestrianAgent(ped PedestrianID) AgentID {
	return AgentID{kind: AgentPedestrian, ped: ped}
}

func CarAgent(car CarID) AgentID {
	return AgentID{kind: AgentCar, car: car}
}

func BusPassengerAgent(person PersonID, bus CarID) AgentID {
	return AgentID{kind: AgentBusPassenger, person: person, bus: bus}
}

func (a AgentID) Kind() AgentKind { return a.kind }

// Pedestrian returns the pedestrian id and true if a is the Pedestrian variant.
func (a AgentID) Pedestrian() (PedestrianID, bool) {
	return a.ped, a.kind == AgentPedestrian
}

// Car returns the vehicle id and true if a is the Car variant.
func (a AgentID) Car() (CarID, bool) {
	return a.car, a.kind == AgentCar
}

// BusPassenger returns the (person, bus) pair and true if a is that variant.
func (a AgentID) BusPassenger() (PersonID, CarID, bool) {
	return a.person, a.bus, a.kind == AgentBusPassenger
}

// AgentType classifies an AgentID the way occupancy counters report it.
type AgentType int

const (
	AgentTypePedestrian AgentType = iota
	AgentTypeCar
	AgentTypeBike
	AgentTypeBus
)

func (t AgentType) String() string {
	switch t {
	case AgentTypePedestrian:
		return "pedestrian"
	case AgentTypeCar:
		return "car"
	case AgentTypeBike:
		return "bike"
	case AgentTypeBus:
		return "bus"
	default:
		return "unknown"
	}
}

// Type reports the coarse agent-type bucket for counting purposes.
func (a AgentID) Type() AgentType {
	switch a.kind {
	case AgentPedestrian:
		return AgentTypePedestrian
	case AgentBusPassenger:
		return AgentTypePedestrian
	case AgentCar:
		if a.car.Kind() == VehicleBike {
			return AgentTypeBike
		}
		return AgentTypeCar
	default:
		return AgentTypePedestrian
	}
}

func (a AgentID) String() string {
	switch a.kind {
	case AgentPedestrian:
		return a.ped.String()
	case AgentCar:
		return a.car.String()
	case AgentBusPassenger:
		return fmt.Sprintf("%s riding %s", a.person, a.bus)
	default:
		return "unknown agent"
	}
}

// Equal reports whether two AgentIDs name the same agent. AgentID is used
// as a map key via this comparable struct, so Go's == already works; Equal
// exists for readability at call sites.
func (a AgentID) Equal(b AgentID) bool { return a == b }
