package sim

import (
	"fmt"
	"time"

	"citytrips/backend/logging"
	"citytrips/backend/model"
)

// lookupAndUnbind is the shared first two steps of every completion
// handler (spec §4.4): find the trip owning the completing agent, unbind
// it, and accumulate blocked time.
func (m *Manager) lookupAndUnbind(agent model.AgentID, blocked time.Duration) *model.Trip {
	tripID, ok := m.registry.lookup(agent)
	if !ok {
		panic(fmt.Sprintf("leg completion: no trip bound to %s", agent))
	}
	m.registry.unbind(agent)
	t := m.trip(tripID)
	t.TotalBlockedTime += blocked
	return t
}

func expectHead(t *model.Trip, kind model.LegKind, handler string) model.TripLeg {
	head, ok := t.HeadLeg()
	if !ok || head.Kind != kind {
		panic(fmt.Sprintf("%s: %s's head leg is not %v", handler, t.ID, kind))
	}
	return head
}

// CarReachedParkingSpot handles a driving agent's arrival at its parking
// spot (spec §4.4). The park-inside-destination special case finishes the
// trip in one step with no pedestrian spawned.
func (m *Manager) CarReachedParkingSpot(ctx model.Context, car model.CarID, spot model.ParkingSpot, blocked time.Duration) {
	t := m.lookupAndUnbind(model.CarAgent(car), blocked)
	expectHead(t, model.LegDrive, "car_reached_parking_spot")
	t.PopLeg()

	if b, owned := spot.OwnedBy(); owned {
		if next, ok := t.HeadLeg(); ok && next.Kind == model.LegWalk && next.WalkTo.Kind == model.SpotBuildingDoor && next.WalkTo.Building == b {
			t.PopLeg()
			m.finishTrip(ctx, t)
			p := m.person(t.Person)
			m.emit(model.PersonEntersBuilding{Person: p.ID, Building: b})
			p.State = model.StateInsideBuilding(b)
			m.personFinishedTrip(ctx, p)
			return
		}
	}

	p := m.person(t.Person)
	ctx.Scheduler.Schedule(model.Command{
		Kind:   model.CmdSpawnPed,
		At:     ctx.Now,
		Person: p.ID,
		Ped:    p.Ped,
		Trip:   t.ID,
	})
	m.registry.bind(model.PedestrianAgent(p.Ped), t.ID)
}

// PedReachedParkingSpot handles a pedestrian arriving at the spot their
// car ended up parked in (the "deferred parking" sentinel leg, spec §4.4).
func (m *Manager) PedReachedParkingSpot(ctx model.Context, ped model.PedestrianID, spot model.ParkingSpot, blocked time.Duration) {
	t := m.lookupAndUnbind(model.PedestrianAgent(ped), blocked)
	head := expectHead(t, model.LegWalk, "ped_reached_parking_spot")
	if head.WalkTo.Kind != model.SpotDeferredParking {
		panic("ped_reached_parking_spot: head leg is not a deferred-parking walk")
	}
	t.PopLeg()

	next := expectHead(t, model.LegDrive, "ped_reached_parking_spot")
	car := head.WalkTo.DeferredCar

	m.emit(model.PedReachedParkingSpot{Ped: ped, Spot: spot})

	startPos := ctx.Parking.DrivingPosition(spot)
	req := model.PathRequest{
		Start: model.AtBorder(startPos),
		End:   endpointForGoal(next.DriveGoal),
		Mode:  model.ModeDriving,
	}

	resolved, ok := m.resolvePath(ctx, t, req, nil)
	if !ok {
		ctx.Parking.RemoveParkedCar(car)
		m.CancelTrip(ctx, t.ID, fmt.Sprintf("no path to drive from %s to %v", startPos, next.DriveGoal), &car)
		return
	}

	p := m.person(t.Person)
	ctx.Scheduler.Schedule(model.Command{
		Kind:   model.CmdSpawnCar,
		At:     ctx.Now,
		Person: p.ID,
		Car:    car,
		Trip:   t.ID,
		Path:   resolved,
	})
	m.registry.bind(model.CarAgent(car), t.ID)
}

func endpointForGoal(goal model.ParkingGoal) model.TripEndpoint {
	switch goal.Kind {
	case model.GoalBorder:
		return model.AtBorder(goal.Intersection)
	default:
		return model.AtBuilding(goal.Building)
	}
}

// PedReadyToBike mirrors PedReachedParkingSpot for bikes: no parking
// manager involvement, and failure cancels without warping a vehicle —
// bikes simply disappear (spec §4.4).
func (m *Manager) PedReadyToBike(ctx model.Context, ped model.PedestrianID, rack model.BuildingID, blocked time.Duration) {
	t := m.lookupAndUnbind(model.PedestrianAgent(ped), blocked)
	head := expectHead(t, model.LegWalk, "ped_ready_to_bike")
	if head.WalkTo.Kind != model.SpotBikeRack {
		panic("ped_ready_to_bike: head leg is not a walk to a bike rack")
	}
	t.PopLeg()
	next := expectHead(t, model.LegDrive, "ped_ready_to_bike")

	req := model.PathRequest{Start: model.AtBuilding(rack), End: endpointForGoal(next.DriveGoal), Mode: model.ModeBiking}
	resolved, ok := m.resolvePath(ctx, t, req, nil)
	if !ok {
		m.CancelTrip(ctx, t.ID, fmt.Sprintf("no bike connection at %v", next.DriveGoal), nil)
		return
	}

	p := m.person(t.Person)
	ctx.Scheduler.Schedule(model.Command{
		Kind:   model.CmdSpawnCar,
		At:     ctx.Now,
		Person: p.ID,
		Car:    next.DriveCar,
		Trip:   t.ID,
		Path:   resolved,
	})
	m.registry.bind(model.CarAgent(next.DriveCar), t.ID)
}

// BikeReachedEnd pops the bike's Drive leg and spawns the walking leg from
// the bike rack (spec §4.4).
func (m *Manager) BikeReachedEnd(ctx model.Context, bike model.CarID, rack model.BuildingID, blocked time.Duration) {
	t := m.lookupAndUnbind(model.CarAgent(bike), blocked)
	expectHead(t, model.LegDrive, "bike_reached_end")
	t.PopLeg()

	m.emit(model.BikeStoppedAtSidewalk{Bike: bike, Rack: rack})

	p := m.person(t.Person)
	ctx.Scheduler.Schedule(model.Command{
		Kind:   model.CmdSpawnPed,
		At:     ctx.Now,
		Person: p.ID,
		Ped:    p.Ped,
		Trip:   t.ID,
	})
	m.registry.bind(model.PedestrianAgent(p.Ped), t.ID)
}

// PedReachedBuilding finishes a trip whose final leg was a walk to a
// building door (spec §4.4).
func (m *Manager) PedReachedBuilding(ctx model.Context, ped model.PedestrianID, bldg model.BuildingID, blocked time.Duration) {
	t := m.lookupAndUnbind(model.PedestrianAgent(ped), blocked)
	head := expectHead(t, model.LegWalk, "ped_reached_building")
	if head.WalkTo.Kind != model.SpotBuildingDoor || head.WalkTo.Building != bldg {
		panic("ped_reached_building: head leg does not walk to this building")
	}
	t.PopLeg()
	if len(t.Legs) != 0 {
		panic("ped_reached_building: legs must be empty after the final walk leg")
	}

	m.finishTrip(ctx, t)
	p := m.person(t.Person)
	m.emit(model.PersonEntersBuilding{Person: p.ID, Building: bldg})
	p.State = model.StateInsideBuilding(bldg)
	m.personFinishedTrip(ctx, p)
}

// PedReachedBorder finishes a trip whose final leg was a walk off the map
// (spec §4.4).
func (m *Manager) PedReachedBorder(ctx model.Context, ped model.PedestrianID, i model.IntersectionID, blocked time.Duration) {
	t := m.lookupAndUnbind(model.PedestrianAgent(ped), blocked)
	head := expectHead(t, model.LegWalk, "ped_reached_border")
	if head.WalkTo.Kind != model.SpotBorder || head.WalkTo.Border != i {
		panic("ped_reached_border: head leg does not walk to this border")
	}
	t.PopLeg()
	if len(t.Legs) != 0 {
		panic("ped_reached_border: legs must be empty after the final walk leg")
	}

	m.finishTrip(ctx, t)
	p := m.person(t.Person)
	p.State = model.StateOffMapState()
	m.emit(model.PersonLeavesMap{Person: p.ID, Trip: t.ID})
	m.personFinishedTrip(ctx, p)
}

// PedReachedBusStop does not pop the walk leg: it inspects leg[1] (the
// ride) and either boards immediately (bus present) or registers the
// waiter with transit (spec §4.4).
func (m *Manager) PedReachedBusStop(ctx model.Context, ped model.PedestrianID, stop model.BusStopID, blocked time.Duration) *model.BusRouteID {
	tripID, ok := m.registry.lookup(model.PedestrianAgent(ped))
	if !ok {
		panic(fmt.Sprintf("ped_reached_bus_stop: no trip bound to %s", ped))
	}
	t := m.trip(tripID)
	t.TotalBlockedTime += blocked

	head := expectHead(t, model.LegWalk, "ped_reached_bus_stop")
	if head.WalkTo.Kind != model.SpotBusStop || head.WalkTo.Stop != stop {
		panic("ped_reached_bus_stop: head leg does not walk to this stop")
	}
	if len(t.Legs) < 2 || t.Legs[1].Kind != model.LegRideBus {
		panic("ped_reached_bus_stop: leg[1] is not RideBus")
	}
	route := t.Legs[1].RideRoute

	p := m.person(t.Person)
	m.emit(model.WaitingForBus{Person: p.ID, Stop: stop, Route: route})

	if bus, present := ctx.Transit.BusAtStopNow(route, stop); present {
		t.PopLeg()
		m.registry.rebind(model.PedestrianAgent(ped), model.BusPassengerAgent(p.ID, bus), t.ID)
		p.OnBus = &bus
		return nil
	}

	ctx.Transit.RegisterWaiter(route, stop, p.ID)
	return &route
}

// PedBoardedBus completes a board that was previously registered as a
// wait (spec §4.4).
func (m *Manager) PedBoardedBus(ctx model.Context, ped model.PedestrianID, bus model.CarID) {
	tripID, ok := m.registry.lookup(model.PedestrianAgent(ped))
	if !ok {
		panic(fmt.Sprintf("ped_boarded_bus: no trip bound to %s", ped))
	}
	t := m.trip(tripID)
	expectHead(t, model.LegWalk, "ped_boarded_bus")
	t.PopLeg()

	p := m.person(t.Person)
	m.registry.rebind(model.PedestrianAgent(ped), model.BusPassengerAgent(p.ID, bus), t.ID)
	p.OnBus = &bus
}

// PersonLeftBus pops the ride leg and spawns the walk to the second stop
// (spec §4.4). A nil second stop here is a bug — riders that should ride
// off-map never call this handler, they call TransitRiderReachedBorder.
func (m *Manager) PersonLeftBus(ctx model.Context, person model.PersonID, bus model.CarID, blocked time.Duration) {
	t := m.lookupAndUnbind(model.BusPassengerAgent(person, bus), blocked)
	head := expectHead(t, model.LegRideBus, "person_left_bus")
	if head.RideStop2 == nil {
		panic("person_left_bus: rider should have ridden off-map, not disembarked")
	}
	t.PopLeg()

	p := m.person(person)
	p.OnBus = nil
	ctx.Scheduler.Schedule(model.Command{
		Kind:   model.CmdSpawnPed,
		At:     ctx.Now,
		Person: p.ID,
		Ped:    p.Ped,
		Trip:   t.ID,
		From:   model.BusStopSpot(*head.RideStop2),
	})
	m.registry.bind(model.PedestrianAgent(p.Ped), t.ID)
}

// TransitRiderReachedBorder finishes a trip whose rider stayed on the bus
// until it left the map (spec §4.4).
func (m *Manager) TransitRiderReachedBorder(ctx model.Context, person model.PersonID, bus model.CarID, blocked time.Duration) {
	t := m.lookupAndUnbind(model.BusPassengerAgent(person, bus), blocked)
	head := expectHead(t, model.LegRideBus, "transit_rider_reached_border")
	if head.RideStop2 != nil {
		panic("transit_rider_reached_border: rider had a second stop, should have disembarked instead")
	}
	t.PopLeg()
	if len(t.Legs) != 0 {
		panic("transit_rider_reached_border: legs must be empty")
	}

	m.finishTrip(ctx, t)
	p := m.person(person)
	p.OnBus = nil
	p.State = model.StateOffMapState()
	m.emit(model.PersonLeavesMap{Person: p.ID, Trip: t.ID})
	m.personFinishedTrip(ctx, p)
}

// CarOrBikeReachedBorder finishes a trip whose driving leg ended by
// leaving the map (spec §4.4).
func (m *Manager) CarOrBikeReachedBorder(ctx model.Context, car model.CarID, i model.IntersectionID, blocked time.Duration) {
	t := m.lookupAndUnbind(model.CarAgent(car), blocked)
	head := expectHead(t, model.LegDrive, "car_or_bike_reached_border")
	if head.DriveGoal.Kind != model.GoalBorder || head.DriveGoal.Intersection != i {
		panic("car_or_bike_reached_border: head leg does not drive to this border")
	}
	t.PopLeg()
	if len(t.Legs) != 0 {
		panic("car_or_bike_reached_border: legs must be empty")
	}

	m.finishTrip(ctx, t)
	p := m.person(t.Person)
	p.State = model.StateOffMapState()
	m.emit(model.PersonLeavesMap{Person: p.ID, Trip: t.ID})
	m.personFinishedTrip(ctx, p)
}

// RemoteTripFinished fires when a scheduled FinishRemoteTrip command
// matures (spec §4.4); remote trips have no agent, so this is keyed
// directly by TripID rather than going through the registry.
func (m *Manager) RemoteTripFinished(ctx model.Context, trip model.TripID) {
	t := m.trip(trip)
	head := expectHead(t, model.LegRemote, "remote_trip_finished")
	t.PopLeg()
	if len(t.Legs) != 0 {
		panic("remote_trip_finished: legs must be empty")
	}

	m.finishTrip(ctx, t)
	p := m.person(t.Person)
	m.emit(model.PersonEntersRemoteBuilding{Person: p.ID, Loc: head.RemoteLoc})
	p.State = model.StateOffMapState()
	m.personFinishedTrip(ctx, p)
}

// finishTrip marks t as successfully completed: decrements the unfinished
// counter and emits TripFinished with the accumulated timing (spec §4.4).
func (m *Manager) finishTrip(ctx model.Context, t *model.Trip) {
	now := ctx.Now
	t.FinishedAt = &now
	m.unfinishedTrips--
	m.emit(model.TripFinished{
		Trip:        t.ID,
		Mode:        t.Info.Mode,
		TotalTime:   now.Sub(t.Info.Departure),
		BlockedTime: t.TotalBlockedTime,
	})
	m.log.LogBusinessEvent("trip_finished", t.ID.Index(), logging.Fields{
		"person_id":    t.Person.Index(),
		"mode":         t.Info.Mode.Noun(),
		"total_time":   now.Sub(t.Info.Departure).String(),
		"blocked_time": t.TotalBlockedTime.String(),
	})
}
