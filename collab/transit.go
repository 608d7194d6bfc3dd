// Package collab provides the concrete, deliberately simple stand-ins for
// the external collaborators spec.md places out of scope: the map and
// pathfinder, the parking manager, the transit subsystem, the congestion
// cap, and the time-ordered command scheduler. The Trip Manager only ever
// talks to these through the model.PathFinder/Parking/Transit/Cap/
// Scheduler interfaces.
package collab

import (
	"sort"
	"sync"

	"citytrips/backend/model"
)

// busType mirrors the teacher's BusType: a named capacity/speed class
// shared by every vehicle running a route.
type busType struct {
	Name     string
	Capacity int
}

// vehicle is a bus currently serving a route, adapted from the teacher's
// Bus struct: dropped the passenger-list/onboard bookkeeping (ridership
// state lives on model.Person.OnBus instead) and kept the route/stop
// position and capacity fields the Trip Manager's Transit interface needs.
type vehicle struct {
	id      model.CarID
	routeID model.BusRouteID
	stopID  model.BusStopID
	kind    *busType
	onboard int
}

func (v *vehicle) hasRoom() bool { return v.kind == nil || v.onboard < v.kind.Capacity }

// stop is one stop of a route, adapted from the teacher's BusStop: kept
// the waiting-passenger queue concept, dropped the inbound/outbound
// direction split since routes here are modeled as a single ordered
// sequence of stops (spec's RideBus leg only cares about stop identity).
type stop struct {
	id      model.BusStopID
	waiters []model.PersonID
}

// route is an ordered sequence of stops, adapted from the teacher's
// Route/GetStop/IndexOf.
type route struct {
	id    model.BusRouteID
	stops []model.BusStopID
}

func (r *route) indexOf(s model.BusStopID) (int, bool) {
	for i, st := range r.stops {
		if st == s {
			return i, true
		}
	}
	return 0, false
}

// Transit implements model.Transit: bus presence at stops and waiter
// registration, grounded on the teacher's Bus/BusStop/Route trio
// (jwmdev-brt08/backend/model/{bus,stop,route}.go) generalized from a
// fixed outbound/inbound BRT corridor to arbitrary scenario-defined
// routes, and from passenger-count simulation to the Trip Manager's
// binary "is a bus here right now" query.
type Transit struct {
	mu sync.Mutex

	routes  map[model.BusRouteID]*route
	stops   map[model.BusStopID]*stop
	buses   map[model.CarID]*vehicle
	borders map[model.BusRouteID][]model.IntersectionID
}

func NewTransit() *Transit {
	return &Transit{
		routes:  make(map[model.BusRouteID]*route),
		stops:   make(map[model.BusStopID]*stop),
		buses:   make(map[model.CarID]*vehicle),
		borders: make(map[model.BusRouteID][]model.IntersectionID),
	}
}

// AddRoute registers a route's stop sequence and incoming borders.
func (t *Transit) AddRoute(id model.BusRouteID, stops []model.BusStopID, incomingBorders []model.IntersectionID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[id] = &route{id: id, stops: stops}
	t.borders[id] = incomingBorders
	for _, s := range stops {
		if _, ok := t.stops[s]; !ok {
			t.stops[s] = &stop{id: s}
		}
	}
}

// PlaceBus puts a bus of the given capacity at a stop on a route.
func (t *Transit) PlaceBus(id model.CarID, routeID model.BusRouteID, stopID model.BusStopID, capacity int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buses[id] = &vehicle{id: id, routeID: routeID, stopID: stopID, kind: &busType{Capacity: capacity}}
}

// AdvanceBus moves a bus to its next stop. It is the only mutation of a
// bus's position; neither the Trip Manager nor driver.Runner calls it.
func (t *Transit) AdvanceBus(id model.CarID) (model.BusStopID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.buses[id]
	if !ok {
		return model.BusStopID{}, false
	}
	r, ok := t.routes[b.routeID]
	if !ok {
		return model.BusStopID{}, false
	}
	idx, ok := r.indexOf(b.stopID)
	if !ok || idx+1 >= len(r.stops) {
		return model.BusStopID{}, false
	}
	b.stopID = r.stops[idx+1]
	return b.stopID, true
}

// BusAtStopNow implements model.Transit. Candidate buses are visited in
// id order rather than Go's randomized map order, so a stop served by two
// buses at once always picks the same one across runs (spec §5
// determinism).
func (t *Transit) BusAtStopNow(routeID model.BusRouteID, stopID model.BusStopID) (model.CarID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]model.CarID, 0, len(t.buses))
	for id := range t.buses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Index() < ids[j].Index() })

	for _, id := range ids {
		b := t.buses[id]
		if b.routeID == routeID && b.stopID == stopID && b.hasRoom() {
			b.onboard++
			return b.id, true
		}
	}
	return model.CarID{}, false
}

// RegisterWaiter implements model.Transit.
func (t *Transit) RegisterWaiter(routeID model.BusRouteID, stopID model.BusStopID, person model.PersonID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.stops[stopID]
	if !ok {
		s = &stop{id: stopID}
		t.stops[stopID] = s
	}
	s.waiters = append(s.waiters, person)
}

// IncomingBorders implements model.Transit.
func (t *Transit) IncomingBorders(routeID model.BusRouteID) []model.IntersectionID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.borders[routeID]
}

// BusPositions snapshots every bus's current route/stop, used by
// server/gtfsrt.go to build a GTFS-realtime VehiclePosition feed.
type BusPosition struct {
	Bus   model.CarID
	Route model.BusRouteID
	Stop  model.BusStopID
}

func (t *Transit) BusPositions() []BusPosition {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]BusPosition, 0, len(t.buses))
	for _, b := range t.buses {
		out = append(out, BusPosition{Bus: b.id, Route: b.routeID, Stop: b.stopID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bus.Index() < out[j].Bus.Index() })
	return out
}
