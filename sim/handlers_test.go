package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citytrips/backend/model"
)

// TestScenario_WalkOnly mirrors spec §8 scenario 1.
func TestScenario_WalkOnly(t *testing.T) {
	h := newHarness()
	h.now = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	b1, b2 := model.NewBuildingID(1), model.NewBuildingID(2)
	p := h.mgr.NewPerson(nil, 1.4, nil)
	tripID := h.mgr.NewTrip(p, h.now, model.AtBuilding(b1), model.ModeWalking, model.PurposeWork,
		false, []model.TripLeg{model.WalkLeg(model.BuildingDoor(b2))})
	h.mgr.CollectEvents()

	h.mgr.StartTrip(h.ctx(), tripID, model.JustWalkingSpec(), nil, nil)
	h.mgr.CollectEvents()

	ped := h.mgr.PersonByID(p).Ped
	h.advance(10 * time.Minute)
	h.mgr.PedReachedBuilding(h.ctx(), ped, b2, 0)

	trip := h.mgr.TripByID(tripID)
	require.True(t, trip.IsFinished())
	assert.Equal(t, 10*time.Minute, trip.FinishedAt.Sub(trip.Info.Departure))
	assert.Equal(t, time.Duration(0), trip.TotalBlockedTime)
	assert.Empty(t, trip.Legs)

	events := h.mgr.CollectEvents()
	var finished model.TripFinished
	var entered model.PersonEntersBuilding
	for _, e := range events {
		switch ev := e.(type) {
		case model.TripFinished:
			finished = ev
		case model.PersonEntersBuilding:
			entered = ev
		}
	}
	assert.Equal(t, 10*time.Minute, finished.TotalTime)
	assert.Equal(t, time.Duration(0), finished.BlockedTime)
	assert.Equal(t, b2, entered.Building)

	person := h.mgr.PersonByID(p)
	b, inside := person.State.IsInside()
	assert.True(t, inside)
	assert.Equal(t, b2, b)
}

// TestScenario_DriveParkInsideDestination mirrors spec §8 scenario 2: the
// trip finishes in one step with no pedestrian leg spawned.
func TestScenario_DriveParkInsideDestination(t *testing.T) {
	h := newHarness()
	b3 := model.NewBuildingID(3)
	car := model.NewCarID(0, model.VehicleCar)

	p := h.mgr.NewPerson(nil, 1.4, []model.Vehicle{{ID: car, Kind: model.VehicleCar}})
	tripID := h.mgr.NewTrip(p, h.now, model.AtBorder(model.NewIntersectionID(0)), model.ModeDriving, model.PurposeWork,
		false, []model.TripLeg{
			model.DriveLeg(car, model.ParkNearBuilding(b3)),
			model.WalkLeg(model.BuildingDoor(b3)),
		})
	h.mgr.CollectEvents()

	h.mgr.StartTrip(h.ctx(), tripID, model.VehicleAppearingSpec(car), nil, nil)
	h.mgr.CollectEvents()

	spot := model.OffstreetSpot(b3, 0)
	h.mgr.CarReachedParkingSpot(h.ctx(), car, spot, 0)

	trip := h.mgr.TripByID(tripID)
	assert.True(t, trip.IsFinished())
	assert.Empty(t, trip.Legs)

	// No pedestrian leg should have been spawned: the only scheduled
	// commands are the initial SpawnCar.
	for _, cmd := range h.sched.commands {
		assert.NotEqual(t, model.CmdSpawnPed, cmd.Kind)
	}

	found := false
	for _, e := range h.mgr.CollectEvents() {
		if enter, ok := e.(model.PersonEntersBuilding); ok {
			found = true
			assert.Equal(t, b3, enter.Building)
		}
	}
	assert.True(t, found, "expected PersonEntersBuilding")

	person := h.mgr.PersonByID(p)
	b, inside := person.State.IsInside()
	assert.True(t, inside)
	assert.Equal(t, b3, b)
}

// TestScenario_BusRideWithWait mirrors spec §8 scenario 3.
func TestScenario_BusRideWithWait(t *testing.T) {
	h := newHarness()
	s1 := model.NewBusStopID(1)
	s2 := model.NewBusStopID(2)
	route := model.NewBusRouteID(7)
	b4 := model.NewBuildingID(4)

	p := h.mgr.NewPerson(nil, 1.4, nil)
	tripID := h.mgr.NewTrip(p, h.now, model.AtBuilding(model.NewBuildingID(0)), model.ModeTransit, model.PurposeWork,
		false, []model.TripLeg{
			model.WalkLeg(model.BusStopSpot(s1)),
			model.RideBusLeg(route, &s2),
			model.WalkLeg(model.BuildingDoor(b4)),
		})
	h.mgr.CollectEvents()

	h.mgr.StartTrip(h.ctx(), tripID, model.UsingTransitSpec(), nil, nil)
	h.mgr.CollectEvents()

	ped := h.mgr.PersonByID(p).Ped
	// No bus present yet: transit registers the waiter.
	returnedRoute := h.mgr.PedReachedBusStop(h.ctx(), ped, s1, 0)
	require.NotNil(t, returnedRoute)
	assert.Equal(t, route, *returnedRoute)
	assert.Contains(t, h.trn.waiters, p)

	trip := h.mgr.TripByID(tripID)
	head, ok := trip.HeadLeg()
	require.True(t, ok)
	assert.Equal(t, model.LegWalk, head.Kind, "walk leg remains head until boarding")

	busX := model.NewCarID(3, model.VehicleBus)
	h.mgr.PedBoardedBus(h.ctx(), ped, busX)

	person := h.mgr.PersonByID(p)
	require.NotNil(t, person.OnBus)
	assert.Equal(t, busX, *person.OnBus)

	trip = h.mgr.TripByID(tripID)
	head, ok = trip.HeadLeg()
	require.True(t, ok)
	assert.Equal(t, model.LegRideBus, head.Kind)

	h.mgr.PersonLeftBus(h.ctx(), p, busX, 0)

	person = h.mgr.PersonByID(p)
	assert.Nil(t, person.OnBus)

	trip = h.mgr.TripByID(tripID)
	head, ok = trip.HeadLeg()
	require.True(t, ok)
	assert.Equal(t, model.LegWalk, head.Kind)
	assert.Equal(t, b4, head.WalkTo.Building)

	last := h.sched.last()
	assert.Equal(t, model.CmdSpawnPed, last.Kind)
	assert.Equal(t, model.SpotBusStop, last.From.Kind)
	assert.Equal(t, s2, last.From.Stop)
}

// TestScenario_DelayedTrip mirrors spec §8 scenario 4.
func TestScenario_DelayedTrip(t *testing.T) {
	h := newHarness()
	b1, b2, b3 := model.NewBuildingID(1), model.NewBuildingID(2), model.NewBuildingID(3)

	p := h.mgr.NewPerson(nil, 1.4, nil)
	t1 := h.mgr.NewTrip(p, h.now, model.AtBuilding(b1), model.ModeWalking, model.PurposeWork,
		false, []model.TripLeg{model.WalkLeg(model.BuildingDoor(b2))})
	t2 := h.mgr.NewTrip(p, h.now.Add(time.Hour), model.AtBuilding(b2), model.ModeWalking, model.PurposeHome,
		false, []model.TripLeg{model.WalkLeg(model.BuildingDoor(b3))})
	h.mgr.CollectEvents()

	h.mgr.StartTrip(h.ctx(), t1, model.JustWalkingSpec(), nil, nil)
	h.mgr.CollectEvents()

	h.advance(time.Hour)
	h.mgr.StartTrip(h.ctx(), t2, model.JustWalkingSpec(), nil, nil)

	trip2 := h.mgr.TripByID(t2)
	assert.False(t, trip2.Started)
	person := h.mgr.PersonByID(p)
	assert.Len(t, person.DelayedTrips, 1)

	events := h.mgr.CollectEvents()
	require.Len(t, events, 1)
	phase, ok := events[0].(model.TripPhaseStarting)
	require.True(t, ok)
	assert.Equal(t, model.PhaseDelayedStart, phase.Phase)
	assert.Equal(t, t2, phase.Trip)

	// Finishing T1 should drain the delayed queue and start T2.
	ped := h.mgr.PersonByID(p).Ped
	h.mgr.PedReachedBuilding(h.ctx(), ped, b2, 0)

	trip2 = h.mgr.TripByID(t2)
	assert.True(t, trip2.Started)
	person = h.mgr.PersonByID(p)
	assert.Empty(t, person.DelayedTrips)
}

// TestScenario_CancelWithWarp mirrors spec §8 scenario 5.
func TestScenario_CancelWithWarp(t *testing.T) {
	h := newHarness()
	h.pf.fail = true // no path found for the driving leg
	b5 := model.NewBuildingID(5)
	car := model.NewCarID(0, model.VehicleCar)
	warpSpot := model.OffstreetSpot(b5, 2)
	h.park.nearBuilding[b5] = warpSpot

	p := h.mgr.NewPerson(nil, 1.4, []model.Vehicle{{ID: car, Kind: model.VehicleCar}})
	tripID := h.mgr.NewTrip(p, h.now, model.AtBorder(model.NewIntersectionID(0)), model.ModeDriving, model.PurposeWork,
		false, []model.TripLeg{model.DriveLeg(car, model.ParkNearBuilding(b5))})
	h.mgr.CollectEvents()

	h.mgr.StartTrip(h.ctx(), tripID, model.VehicleAppearingSpec(car), nil, nil)

	trip := h.mgr.TripByID(tripID)
	assert.True(t, trip.IsCancelled())

	person := h.mgr.PersonByID(p)
	b, inside := person.State.IsInside()
	assert.True(t, inside)
	assert.Equal(t, b5, b)

	spot, parked := h.park.SpotOf(car)
	assert.True(t, parked)
	assert.Equal(t, warpSpot, spot)

	var sawCancel, sawEnter, sawWarpAlert bool
	for _, e := range h.mgr.CollectEvents() {
		switch ev := e.(type) {
		case model.TripCancelled:
			sawCancel = true
		case model.PersonEntersBuilding:
			sawEnter = true
		case model.Alert:
			sawWarpAlert = true
			assert.Equal(t, b5, ev.Location)
		}
	}
	assert.True(t, sawCancel)
	assert.True(t, sawEnter)
	assert.True(t, sawWarpAlert, "a successful warp still notes itself with an Alert")
}

// TestScenario_CancelWithWarp_NoFreeSpotAlerts covers the fallback-exhausted
// branch of spec §4.5 step 4: emits an Alert instead of parking.
func TestScenario_CancelWithWarp_NoFreeSpotAlerts(t *testing.T) {
	h := newHarness()
	h.pf.fail = true
	b5 := model.NewBuildingID(5)
	car := model.NewCarID(0, model.VehicleCar)

	p := h.mgr.NewPerson(nil, 1.4, []model.Vehicle{{ID: car, Kind: model.VehicleCar}})
	tripID := h.mgr.NewTrip(p, h.now, model.AtBorder(model.NewIntersectionID(0)), model.ModeDriving, model.PurposeWork,
		false, []model.TripLeg{model.DriveLeg(car, model.ParkNearBuilding(b5))})
	h.mgr.CollectEvents()

	h.mgr.StartTrip(h.ctx(), tripID, model.VehicleAppearingSpec(car), nil, nil)

	_, parked := h.park.SpotOf(car)
	assert.False(t, parked)

	var sawAlert bool
	for _, e := range h.mgr.CollectEvents() {
		if _, ok := e.(model.Alert); ok {
			sawAlert = true
		}
	}
	assert.True(t, sawAlert)
}

// TestScenario_RemoteTrip mirrors spec §8 scenario 6.
func TestScenario_RemoteTrip(t *testing.T) {
	h := newHarness()
	h.now = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	loc := model.OffMapLocation{Name: "Elsewhere"}

	p := h.mgr.NewPerson(nil, 1.4, nil)
	tripID := h.mgr.NewTrip(p, h.now, model.AtBorder(model.NewIntersectionID(0)), model.ModeDriving, model.PurposeOther,
		false, []model.TripLeg{model.RemoteLeg(loc)})
	h.mgr.CollectEvents()

	h.mgr.StartTrip(h.ctx(), tripID, model.RemoteSpec(20*time.Minute, loc), nil, nil)

	events := h.mgr.CollectEvents()
	var sawLeaveRemote bool
	for _, e := range events {
		if _, ok := e.(model.PersonLeavesRemoteBuilding); ok {
			sawLeaveRemote = true
		}
	}
	assert.True(t, sawLeaveRemote)

	last := h.sched.last()
	assert.Equal(t, model.CmdFinishRemoteTrip, last.Kind)
	assert.Equal(t, h.now.Add(20*time.Minute), last.At)

	h.advance(20 * time.Minute)
	h.mgr.RemoteTripFinished(h.ctx(), tripID)

	trip := h.mgr.TripByID(tripID)
	assert.True(t, trip.IsFinished())
	assert.Equal(t, 20*time.Minute, trip.FinishedAt.Sub(trip.Info.Departure))

	var finished model.TripFinished
	var enteredRemote model.PersonEntersRemoteBuilding
	for _, e := range h.mgr.CollectEvents() {
		switch ev := e.(type) {
		case model.TripFinished:
			finished = ev
		case model.PersonEntersRemoteBuilding:
			enteredRemote = ev
		}
	}
	assert.Equal(t, 20*time.Minute, finished.TotalTime)
	assert.Equal(t, loc, enteredRemote.Loc)

	assert.True(t, h.mgr.PersonByID(p).State.IsOffMap())
}

// TestStartTrip_PathfindingUpfrontRequiresPrecomputedPath covers the
// pathfinding_upfront mode of spec §4.3: with it set, a VehicleAppearing
// dispatch without a precomputed path cancels instead of pathfinding
// lazily.
func TestStartTrip_PathfindingUpfrontRequiresPrecomputedPath(t *testing.T) {
	h := newHarness()
	h.mgr.SetPathfindingUpfront(true)
	b5 := model.NewBuildingID(5)
	car := model.NewCarID(0, model.VehicleCar)

	p := h.mgr.NewPerson(nil, 1.4, []model.Vehicle{{ID: car, Kind: model.VehicleCar}})
	tripID := h.mgr.NewTrip(p, h.now, model.AtBorder(model.NewIntersectionID(0)), model.ModeDriving, model.PurposeWork,
		false, []model.TripLeg{model.DriveLeg(car, model.ParkNearBuilding(b5))})
	h.mgr.CollectEvents()

	h.mgr.StartTrip(h.ctx(), tripID, model.VehicleAppearingSpec(car), nil, nil)

	trip := h.mgr.TripByID(tripID)
	require.True(t, trip.IsCancelled())
	assert.Equal(t, "VehicleAppearing couldn't find the first path", trip.Info.CancellationReason)

	// The same dispatch with a precomputed path succeeds.
	h2 := newHarness()
	h2.mgr.SetPathfindingUpfront(true)
	p2 := h2.mgr.NewPerson(nil, 1.4, []model.Vehicle{{ID: car, Kind: model.VehicleCar}})
	trip2 := h2.mgr.NewTrip(p2, h2.now, model.AtBorder(model.NewIntersectionID(0)), model.ModeDriving, model.PurposeWork,
		false, []model.TripLeg{model.DriveLeg(car, model.ParkNearBuilding(b5))})
	h2.mgr.CollectEvents()

	path := &model.Path{Steps: []model.IntersectionID{model.NewIntersectionID(0)}}
	h2.mgr.StartTrip(h2.ctx(), trip2, model.VehicleAppearingSpec(car), nil, path)
	assert.False(t, h2.mgr.TripByID(trip2).IsCancelled())
}

func TestRegistry_DuplicateBindPanics(t *testing.T) {
	h := newHarness()
	b1, b2 := model.NewBuildingID(1), model.NewBuildingID(2)
	p := h.mgr.NewPerson(nil, 1.4, nil)
	tripID := h.mgr.NewTrip(p, h.now, model.AtBuilding(b1), model.ModeWalking, model.PurposeWork,
		false, []model.TripLeg{model.WalkLeg(model.BuildingDoor(b2))})
	h.mgr.CollectEvents()
	h.mgr.StartTrip(h.ctx(), tripID, model.JustWalkingSpec(), nil, nil)

	ped := h.mgr.PersonByID(p).Ped
	assert.Panics(t, func() {
		h.mgr.registry.bind(model.PedestrianAgent(ped), tripID)
	})
}

func TestTripToAgent_ReportsModeChangeWhenRiderNotYetBoarded(t *testing.T) {
	// Exercises the defensive branch of spec §4.7's ModeChange result: a
	// RideBus head leg whose rider isn't (yet) marked on_bus. This isn't
	// reachable through the handlers (PedBoardedBus sets OnBus and pops
	// the walk leg atomically), so the trip is wired up directly.
	h := newHarness()
	s2 := model.NewBusStopID(2)
	route := model.NewBusRouteID(7)

	p := h.mgr.NewPerson(nil, 1.4, nil)
	tripID := h.mgr.NewTrip(p, h.now, model.AtBuilding(model.NewBuildingID(0)), model.ModeTransit, model.PurposeWork,
		false, []model.TripLeg{model.RideBusLeg(route, &s2)})
	h.mgr.CollectEvents()
	h.mgr.trip(tripID).Started = true

	result := h.mgr.TripToAgent(tripID)
	assert.Equal(t, model.ResultModeChange, result.Kind)
}
