package sim

import (
	"time"

	"citytrips/backend/model"
)

// fakePathFinder is a scripted stand-in for model.PathFinder: tests
// register exactly the (start,end) pairs they want to resolve, mirroring
// collab.PathFinder's ForceUnreachable but without any graph-search
// machinery, matching the teacher's habit of writing small in-package
// mocks per test (trip-service's MockTripRepository) rather than reusing
// the production collaborator inside unit tests.
type fakePathFinder struct {
	fail bool
}

func (f *fakePathFinder) Pathfind(req model.PathRequest) (*model.Path, bool) {
	if f.fail {
		return nil, false
	}
	return &model.Path{Steps: []model.IntersectionID{model.NewIntersectionID(0), model.NewIntersectionID(1)}}, true
}

// fakeCap always approves without modification unless rejectNext is set.
type fakeCap struct {
	rejectNext bool
}

func (c *fakeCap) ValidatePath(p *model.Path) (*model.Path, bool) {
	if c.rejectNext {
		c.rejectNext = false
		return nil, false
	}
	return p, false
}

type parkedEntry struct {
	spot model.ParkingSpot
	at   time.Time
}

// fakeParking is a minimal in-memory stand-in for model.Parking, enough
// to exercise warp/park-inside-destination/no-free-spot paths without
// collab.Parking's mutex/free-pool bookkeeping.
type fakeParking struct {
	occupied     map[model.CarID]parkedEntry
	nearBuilding map[model.BuildingID]model.ParkingSpot
	reachable    []model.ParkingSpot
	driveLane    map[model.BuildingID]model.IntersectionID
}

func newFakeParking() *fakeParking {
	return &fakeParking{
		occupied:     make(map[model.CarID]parkedEntry),
		nearBuilding: make(map[model.BuildingID]model.ParkingSpot),
		driveLane:    make(map[model.BuildingID]model.IntersectionID),
	}
}

func (p *fakeParking) FreeSpotNearBuilding(b model.BuildingID) (model.ParkingSpot, bool) {
	spot, ok := p.nearBuilding[b]
	if ok {
		delete(p.nearBuilding, b)
	}
	return spot, ok
}

func (p *fakeParking) FreeSpotReachableFrom(from model.IntersectionID) (model.ParkingSpot, bool) {
	if len(p.reachable) == 0 {
		return model.ParkingSpot{}, false
	}
	spot := p.reachable[0]
	p.reachable = p.reachable[1:]
	return spot, true
}

func (p *fakeParking) ReserveSpot(spot model.ParkingSpot, car model.CarID) {}

func (p *fakeParking) AddParkedCar(spot model.ParkingSpot, car model.CarID, at time.Time) {
	p.occupied[car] = parkedEntry{spot: spot, at: at}
}

func (p *fakeParking) RemoveParkedCar(car model.CarID) { delete(p.occupied, car) }

func (p *fakeParking) SpotOf(car model.CarID) (model.ParkingSpot, bool) {
	e, ok := p.occupied[car]
	return e.spot, ok
}

func (p *fakeParking) DrivingPosition(spot model.ParkingSpot) model.IntersectionID {
	if spot.Kind == model.ParkingOffstreet {
		return p.driveLane[spot.Building]
	}
	return spot.Lane
}

// fakeTransit is a scripted stand-in for model.Transit.
type fakeTransit struct {
	busAtStop map[model.BusStopID]model.CarID
	borders   map[model.BusRouteID][]model.IntersectionID
	waiters   []model.PersonID
}

func newFakeTransit() *fakeTransit {
	return &fakeTransit{
		busAtStop: make(map[model.BusStopID]model.CarID),
		borders:   make(map[model.BusRouteID][]model.IntersectionID),
	}
}

func (t *fakeTransit) BusAtStopNow(route model.BusRouteID, stop model.BusStopID) (model.CarID, bool) {
	bus, ok := t.busAtStop[stop]
	return bus, ok
}

func (t *fakeTransit) RegisterWaiter(route model.BusRouteID, stop model.BusStopID, person model.PersonID) {
	t.waiters = append(t.waiters, person)
}

func (t *fakeTransit) IncomingBorders(route model.BusRouteID) []model.IntersectionID {
	return t.borders[route]
}

// fakeScheduler records every scheduled command instead of driving them,
// so tests can assert on exactly what the manager asked for without
// needing a real event loop (the role collab.Scheduler plays in
// driver.Runner).
type fakeScheduler struct {
	commands []model.Command
}

func (s *fakeScheduler) Schedule(cmd model.Command) {
	s.commands = append(s.commands, cmd)
}

func (s *fakeScheduler) last() model.Command {
	return s.commands[len(s.commands)-1]
}

// testHarness bundles a Manager with fresh fakes and a fixed clock,
// reducing per-test boilerplate the way the teacher's service tests
// construct one mock repository and one service per test.
type testHarness struct {
	mgr   *Manager
	sched *fakeScheduler
	pf    *fakePathFinder
	park  *fakeParking
	trn   *fakeTransit
	cap   *fakeCap
	now   time.Time
}

func newHarness() *testHarness {
	h := &testHarness{
		mgr:   NewManager(nil),
		sched: &fakeScheduler{},
		pf:    &fakePathFinder{},
		park:  newFakeParking(),
		trn:   newFakeTransit(),
		cap:   &fakeCap{},
		now:   time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	return h
}

func (h *testHarness) ctx() model.Context {
	return model.Context{
		Now:       h.now,
		PathFind:  h.pf,
		Parking:   h.park,
		Transit:   h.trn,
		Cap:       h.cap,
		Scheduler: h.sched,
	}
}

func (h *testHarness) advance(d time.Duration) {
	h.now = h.now.Add(d)
}
