package sim

import (
	"fmt"
	"time"

	"citytrips/backend/model"
)

// NewPerson registers a person record, assigning the next dense PersonID.
// The pedestrian id always numerically mirrors the person id (spec §3,
// "ped is always equal to person id, 1:1").
func (m *Manager) NewPerson(orig *model.OrigPersonID, pedSpeed float64, vehicles []model.Vehicle) model.PersonID {
	id := model.NewPersonID(len(m.people))
	m.people = append(m.people, model.Person{
		ID:       id,
		Orig:     orig,
		PedSpeed: pedSpeed,
		Ped:      model.NewPedestrianID(id.Index()),
		Vehicles: vehicles,
	})
	return id
}

// NewTrip registers a trip for person, validating and deriving its `end`
// endpoint from the last leg the caller supplies (spec §4.2).
func (m *Manager) NewTrip(person model.PersonID, departure time.Time, start model.TripEndpoint, mode model.TripMode, purpose model.Purpose, modified bool, legs []model.TripLeg) model.TripID {
	if len(legs) == 0 {
		panic("new_trip: legs must be non-empty")
	}

	p := m.person(person)
	if len(p.Trips) > 0 {
		last := m.trip(p.Trips[len(p.Trips)-1])
		if departure.Before(last.Info.Departure) {
			panic(fmt.Sprintf("new_trip: departure %s is before person %s's last trip departure %s", departure, person, last.Info.Departure))
		}
	}

	end := deriveEndpoint(legs[len(legs)-1])

	id := model.NewTripID(len(m.trips))
	m.trips = append(m.trips, model.Trip{
		ID:     id,
		Person: person,
		Info: model.TripInfo{
			Departure: departure,
			Mode:      mode,
			Start:     start,
			End:       end,
			Purpose:   purpose,
			Modified:  modified,
		},
		Legs: legs,
	})

	if len(p.Trips) == 0 {
		m.syncInitialState(p, start)
	}

	p.Trips = append(p.Trips, id)
	m.unfinishedTrips++

	return id
}

// deriveEndpoint mirrors trips.rs's end-endpoint derivation from the last
// leg of a trip (spec §4.2): Walk ends wherever its sidewalk spot points,
// Drive ends per its goal, RideBus with no second stop ends at a
// placeholder border (documented limitation, spec §9 open question 2),
// Remote ends at border index 0 carrying the off-map location.
func deriveEndpoint(last model.TripLeg) model.TripEndpoint {
	switch last.Kind {
	case model.LegWalk:
		switch last.WalkTo.Kind {
		case model.SpotBuildingDoor:
			return model.AtBuilding(last.WalkTo.Building)
		case model.SpotBorder:
			return model.AtBorder(last.WalkTo.Border)
		default:
			panic("new_trip: trip cannot end on a non-terminal sidewalk spot (bike rack / bus stop / deferred parking)")
		}
	case model.LegDrive:
		switch last.DriveGoal.Kind {
		case model.GoalEndAtBuilding, model.GoalParkNear:
			return model.AtBuilding(last.DriveGoal.Building)
		case model.GoalBorder:
			return model.AtBorder(last.DriveGoal.Intersection)
		default:
			panic("new_trip: unknown driving goal kind")
		}
	case model.LegRideBus:
		if last.RideStop2 != nil {
			return model.AtBuilding(model.BuildingID{}) // unreachable: a RideBus mid-trip must be followed by a Walk leg
		}
		return model.AtBorder(model.IntersectionID{}) // placeholder border index 0, see spec §9 open question 2
	case model.LegRemote:
		return model.AtBorderRemote(model.IntersectionID{}, last.RemoteLoc)
	default:
		panic("new_trip: unknown leg kind")
	}
}

// syncInitialState sets a just-created person's state from their first
// trip's start endpoint, emitting the matching entry event (spec §4.2).
func (m *Manager) syncInitialState(p *model.Person, start model.TripEndpoint) {
	switch start.Kind {
	case model.EndpointBuilding:
		p.State = model.StateInsideBuilding(start.Building)
		m.emit(model.PersonEntersBuilding{Person: p.ID, Building: start.Building})
	case model.EndpointBorder:
		p.State = model.StateOffMapState()
		if start.Loc != nil {
			m.emit(model.PersonEntersRemoteBuilding{Person: p.ID, Loc: *start.Loc})
		}
	}
}

// CancelUnstartedTrip cancels a trip before its scheduled start_trip has
// fired; the person stays exactly where they are (spec §4.5).
func (m *Manager) CancelUnstartedTrip(id model.TripID, reason string) {
	t := m.trip(id)
	if t.Started {
		panic(fmt.Sprintf("cancel_unstarted_trip: %s has already started", id))
	}
	m.unfinishedTrips--
	t.Info.CancellationReason = reason
	m.emit(model.TripCancelled{Trip: id, Reason: reason})
}
