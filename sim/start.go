package sim

import (
	"fmt"

	"citytrips/backend/model"
)

// StartTrip is invoked by the outer scheduler at a trip's departure time
// (spec §4.3). If the person is mid-trip, dispatch is deferred onto their
// delayed_trips FIFO instead of running immediately.
func (m *Manager) StartTrip(ctx model.Context, trip model.TripID, spec model.TripSpec, req *model.PathRequest, path *model.Path) {
	t := m.trip(trip)
	if t.IsCancelled() {
		panic(fmt.Sprintf("start_trip: %s was already cancelled", trip))
	}

	// When paths aren't computed upfront by the scenario pipeline, the
	// starter resolves the missing one here; with pathfindingUpfront set,
	// a nil path stays nil and the dispatch table cancels on it.
	if !m.pathfindingUpfront && path == nil && req != nil {
		path, _ = ctx.PathFind.Pathfind(*req)
	}

	p := m.person(t.Person)
	if _, onTrip := p.State.IsOnTrip(); onTrip {
		p.PushDelayedTrip(model.DelayedTrip{Trip: trip, Spec: spec, Request: req, Path: path})
		m.emit(model.TripPhaseStarting{Trip: trip, Person: p.ID, Request: req, Phase: model.PhaseDelayedStart})
		m.log.WithTrip(trip.Index(), p.ID.Index()).Debug("person is mid-trip, deferring start")
		return
	}

	m.dispatch(ctx, p, t, spec, req, path)
}

// dispatch runs the spec §4.3 dispatch table for a person known to be
// free to start a trip right now.
func (m *Manager) dispatch(ctx model.Context, p *model.Person, t *model.Trip, spec model.TripSpec, req *model.PathRequest, path *model.Path) {
	t.Started = true
	m.emit(model.TripPhaseStarting{Trip: t.ID, Person: p.ID, Request: req, Phase: model.PhaseDispatched})

	switch spec.Kind {
	case model.SpecVehicleAppearing:
		m.dispatchVehicleAppearing(ctx, p, t, spec, req, path)
	case model.SpecNoRoomToSpawn:
		m.CancelTrip(ctx, t.ID, spec.NoRoomReason, nil)
		return
	case model.SpecUsingParkedCar:
		m.dispatchUsingParkedCar(ctx, p, t, spec)
	case model.SpecJustWalking:
		m.dispatchJustWalking(ctx, p, t)
	case model.SpecUsingBike:
		m.dispatchUsingBike(ctx, p, t, spec)
	case model.SpecUsingTransit:
		m.dispatchUsingTransit(ctx, p, t)
	case model.SpecRemote:
		m.dispatchRemote(ctx, p, t, spec)
		return
	default:
		panic("start_trip: unknown TripSpec kind")
	}

	// dispatchVehicleAppearing/dispatchUsingParkedCar may have cancelled
	// the trip internally (no path, no parked car); state := Trip(trip)
	// only follows a successful dispatch (spec §4.3), so a cancelled trip
	// must keep whatever CancelTrip already set it to.
	if !t.IsCancelled() {
		p.State = model.StateOnTrip(t.ID)
	}
}

// resolvePath looks up a path (using precomputed if given) and runs it
// through the congestion cap, recording on t.Info.Capped whether the cap
// modified it (spec §4.3: "Path presence is checked after cap
// validation"). A cap rejection is treated identically to a pathfinding
// failure (spec §9 open question 3).
func (m *Manager) resolvePath(ctx model.Context, t *model.Trip, req model.PathRequest, precomputed *model.Path) (*model.Path, bool) {
	path := precomputed
	if path == nil {
		path, _ = ctx.PathFind.Pathfind(req)
	}
	if path == nil {
		return nil, false
	}
	reduced, modified := ctx.Cap.ValidatePath(path)
	if reduced == nil {
		return nil, false
	}
	if modified {
		t.Info.Capped = true
	}
	return reduced, true
}

func (m *Manager) dispatchVehicleAppearing(ctx model.Context, p *model.Person, t *model.Trip, spec model.TripSpec, req *model.PathRequest, path *model.Path) {
	if !p.State.IsOffMap() {
		panic("start_trip: VehicleAppearing requires the person to be OffMap")
	}
	if _, parked := ctx.Parking.SpotOf(spec.Car); parked {
		panic("start_trip: VehicleAppearing vehicle is already parked")
	}

	if m.pathfindingUpfront && path == nil {
		m.CancelTrip(ctx, t.ID, "VehicleAppearing couldn't find the first path", &spec.Car)
		return
	}

	var r model.PathRequest
	if req != nil {
		r = *req
	} else {
		r = t.Info.Start.PathReq(t.Info.End, model.ModeDriving)
	}

	resolved, ok := m.resolvePath(ctx, t, r, path)
	if !ok {
		m.CancelTrip(ctx, t.ID, "VehicleAppearing couldn't find the first path", &spec.Car)
		return
	}

	m.emit(model.PersonEntersMap{Person: p.ID, Trip: t.ID})
	ctx.Scheduler.Schedule(model.Command{
		Kind:          model.CmdSpawnCar,
		At:            ctx.Now,
		Person:        p.ID,
		Car:           spec.Car,
		Trip:          t.ID,
		Path:          resolved,
		RetryIfNoRoom: true,
	})
	m.registry.bind(model.CarAgent(spec.Car), t.ID)
}

func (m *Manager) dispatchUsingParkedCar(ctx model.Context, p *model.Person, t *model.Trip, spec model.TripSpec) {
	if _, parked := ctx.Parking.SpotOf(spec.Car); !parked {
		m.CancelTrip(ctx, t.ID, "should have car parked, but it's unavailable", &spec.Car)
		return
	}
	ctx.Scheduler.Schedule(model.Command{
		Kind:   model.CmdSpawnPed,
		At:     ctx.Now,
		Person: p.ID,
		Ped:    p.Ped,
		Trip:   t.ID,
		From:   model.DeferredParkingSpot(spec.Car),
	})
	m.registry.bind(model.PedestrianAgent(p.Ped), t.ID)
}

func (m *Manager) dispatchJustWalking(ctx model.Context, p *model.Person, t *model.Trip) {
	ctx.Scheduler.Schedule(model.Command{
		Kind:   model.CmdSpawnPed,
		At:     ctx.Now,
		Person: p.ID,
		Ped:    p.Ped,
		Trip:   t.ID,
	})
	m.registry.bind(model.PedestrianAgent(p.Ped), t.ID)
}

func (m *Manager) dispatchUsingBike(ctx model.Context, p *model.Person, t *model.Trip, spec model.TripSpec) {
	ctx.Scheduler.Schedule(model.Command{
		Kind:   model.CmdSpawnPed,
		At:     ctx.Now,
		Person: p.ID,
		Ped:    p.Ped,
		Trip:   t.ID,
		Car:    spec.Car,
	})
	m.registry.bind(model.PedestrianAgent(p.Ped), t.ID)
}

func (m *Manager) dispatchUsingTransit(ctx model.Context, p *model.Person, t *model.Trip) {
	ctx.Scheduler.Schedule(model.Command{
		Kind:   model.CmdSpawnPed,
		At:     ctx.Now,
		Person: p.ID,
		Ped:    p.Ped,
		Trip:   t.ID,
	})
	m.registry.bind(model.PedestrianAgent(p.Ped), t.ID)
}

func (m *Manager) dispatchRemote(ctx model.Context, p *model.Person, t *model.Trip, spec model.TripSpec) {
	if !p.State.IsOffMap() {
		panic("start_trip: Remote requires the person to be OffMap")
	}
	m.emit(model.PersonLeavesRemoteBuilding{Person: p.ID, Loc: spec.Remote})
	ctx.Scheduler.Schedule(model.Command{
		Kind: model.CmdFinishRemoteTrip,
		At:   ctx.Now.Add(spec.TripTime),
		Trip: t.ID,
	})
	p.State = model.StateOnTrip(t.ID)
}
