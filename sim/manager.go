package sim

import (
	"citytrips/backend/logging"
	"citytrips/backend/model"
)

// Manager is the Trip Manager: the full in-memory graph of persons,
// trips, and the active-agent registry, mutated only from inside the
// handler methods on this type (spec §5 — single-threaded, cooperative,
// no locks).
type Manager struct {
	people []model.Person
	trips  []model.Trip

	registry *registry

	events []model.Event

	unfinishedTrips int

	// pathfindingUpfront mirrors spec §4.3: when true, start_trip does not
	// pathfind lazily — a VehicleAppearing dispatch with no path in its
	// arguments is cancelled as a pathfinding failure. Leg handlers that
	// need a path later in the trip still call the pathfinder either way.
	pathfindingUpfront bool

	log *logging.Logger
}

// NewManager returns an empty Trip Manager ready to accept new_person and
// new_trip calls.
func NewManager(log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{
		registry: newRegistry(),
		log:      log.WithComponent("trip_manager"),
	}
}

// SetPathfindingUpfront switches the starter into "paths come
// precomputed" mode (spec §4.3); called once at wiring time, before any
// trip starts.
func (m *Manager) SetPathfindingUpfront(upfront bool) { m.pathfindingUpfront = upfront }

// emit appends an event to the internal buffer; nothing observes events
// synchronously, they are drained by CollectEvents (spec §9's buffered
// event stream design).
func (m *Manager) emit(e model.Event) {
	m.events = append(m.events, e)
}

// CollectEvents drains and returns every event accumulated since the last
// call, mirroring the source's collect_events / std::mem::replace idiom.
func (m *Manager) CollectEvents() []model.Event {
	drained := m.events
	m.events = nil
	return drained
}

// UnfinishedTrips answers the quantified invariant of spec §8: the count
// of trips with neither finished_at nor a cancellation reason.
func (m *Manager) UnfinishedTrips() int { return m.unfinishedTrips }

// Person and Trip give handlers and queries read/write access by index;
// index equals identity (spec §3 invariant 1), so these never fail for a
// valid ID minted by this Manager.
func (m *Manager) person(id model.PersonID) *model.Person { return &m.people[id.Index()] }
func (m *Manager) trip(id model.TripID) *model.Trip        { return &m.trips[id.Index()] }

// PersonByID and TripByID are the read-only counterparts exposed to
// queries and the server package.
func (m *Manager) PersonByID(id model.PersonID) *model.Person { return m.person(id) }
func (m *Manager) TripByID(id model.TripID) *model.Trip       { return m.trip(id) }

func (m *Manager) NumPeople() int { return len(m.people) }
func (m *Manager) NumTrips() int  { return len(m.trips) }
