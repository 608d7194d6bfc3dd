package sim

import (
	"fmt"

	"citytrips/backend/logging"
	"citytrips/backend/model"
)

// CancelTrip terminates a started trip, warping the person (and
// optionally an abandoned vehicle) to the trip's destination (spec §4.5).
func (m *Manager) CancelTrip(ctx model.Context, id model.TripID, reason string, abandonedVehicle *model.CarID) {
	t := m.trip(id)

	m.unfinishedTrips--
	t.Info.CancellationReason = reason
	m.emit(model.TripCancelled{Trip: id, Reason: reason})
	m.log.LogBusinessEvent("trip_cancelled", id.Index(), logging.Fields{"person_id": t.Person.Index(), "reason": reason})

	p := m.person(t.Person)

	if b, inside := p.State.IsInside(); inside {
		m.emit(model.PersonLeavesBuilding{Person: p.ID, Building: b})
	}

	switch t.Info.End.Kind {
	case model.EndpointBuilding:
		m.emit(model.PersonEntersBuilding{Person: p.ID, Building: t.Info.End.Building})
		p.State = model.StateInsideBuilding(t.Info.End.Building)
	case model.EndpointBorder:
		m.emit(model.PersonLeavesMap{Person: p.ID, Trip: id})
		p.State = model.StateOffMapState()
	}

	if abandonedVehicle != nil {
		m.warpVehicle(ctx, t, *abandonedVehicle)
	} else if head, ok := t.HeadLeg(); ok && head.Kind == model.LegDrive {
		car := head.DriveCar
		if bound, ok := m.registry.lookup(model.CarAgent(car)); ok {
			if bound != id {
				panic(fmt.Sprintf("cancel_trip: stale active_trip_mode entry for %s points to %s, not %s", car, bound, id))
			}
			m.registry.unbind(model.CarAgent(car))
		}
	}

	m.personFinishedTrip(ctx, p)
}

// warpVehicle implements spec §4.5 step 4: try a free spot near the
// destination building's driving lane first, fall back to any reachable
// free spot, and park the car there. An Alert is emitted either way:
// naming the spot on success, or reporting that no spot was found. Bikes
// are never warped — they simply disappear, matching PedReadyToBike's
// failure path.
func (m *Manager) warpVehicle(ctx model.Context, t *model.Trip, car model.CarID) {
	if car.Kind() == model.VehicleBike {
		return
	}
	if t.Info.End.Kind != model.EndpointBuilding {
		return
	}
	b := t.Info.End.Building

	spot, found := ctx.Parking.FreeSpotNearBuilding(b)
	if !found {
		from := ctx.Parking.DrivingPosition(model.OffstreetSpot(b, 0))
		spot, found = ctx.Parking.FreeSpotReachableFrom(from)
	}
	if !found {
		m.emit(model.Alert{Location: b, Message: fmt.Sprintf("nowhere to warp %s after cancelling %s", car, t.ID)})
		m.log.LogAlert("no free spot to warp abandoned vehicle", logging.Fields{"trip_id": t.ID.Index(), "car": car.String()})
		return
	}

	m.emit(model.Alert{Location: b, Message: fmt.Sprintf("%s had a trip cancelled, %s was warped to %v", t.Person, car, spot)})
	ctx.Parking.ReserveSpot(spot, car)
	ctx.Parking.AddParkedCar(spot, car, ctx.Now)
}
