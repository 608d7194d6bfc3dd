package sim

import (
	"time"

	"citytrips/backend/model"
)

// TripToAgent answers spec §4.7's primary query: which agent is currently
// dispatched for a trip, or why not. ModeChange denotes the transient
// window between leg handlers where the expected agent isn't bound yet.
func (m *Manager) TripToAgent(id model.TripID) model.TripResult {
	if id.Index() < 0 || id.Index() >= len(m.trips) {
		return model.TripDoesntExistResult()
	}
	t := m.trip(id)

	if t.IsCancelled() {
		return model.TripCancelledResult()
	}
	if t.IsFinished() {
		return model.TripDoneResult()
	}
	if !t.Started {
		return model.TripNotStartedResult()
	}

	head, ok := t.HeadLeg()
	if !ok {
		return model.TripDoneResult()
	}

	p := m.person(t.Person)
	var want model.AgentID
	switch head.Kind {
	case model.LegWalk:
		want = model.PedestrianAgent(p.Ped)
	case model.LegDrive:
		want = model.CarAgent(head.DriveCar)
	case model.LegRideBus:
		if p.OnBus == nil {
			return model.ModeChangeResult()
		}
		want = model.BusPassengerAgent(p.ID, *p.OnBus)
	case model.LegRemote:
		return model.RemoteTripResult()
	}

	if bound, ok := m.registry.lookup(want); ok && bound == id {
		return model.OkResult(want)
	}
	return model.ModeChangeResult()
}

// CountsByAgentType answers spec §4.7's "counts by agent type" query.
func (m *Manager) CountsByAgentType() map[model.AgentType]int {
	return m.registry.countByType()
}

// TotalDelayedTrips sums the length of every person's delayed-trip FIFO
// (spec §4.6), reported by driver.Runner as a gauge.
func (m *Manager) TotalDelayedTrips() int {
	total := 0
	for i := range m.people {
		total += len(m.people[i].DelayedTrips)
	}
	return total
}

// BuildingOccupancy answers spec §4.7's per-building occupancy query:
// how many people are currently Inside each building.
func (m *Manager) BuildingOccupancy() map[model.BuildingID]int {
	occ := make(map[model.BuildingID]int)
	for i := range m.people {
		if b, inside := m.people[i].State.IsInside(); inside {
			occ[b]++
		}
	}
	return occ
}

// ScenarioTrip is one lossy-reconstructed trip record produced by
// GenerateScenario: only start/end endpoints, mode, departure and purpose
// survive, matching spec §9's "Scenario regeneration fidelity" note —
// intermediate legs must never be reconstructed.
type ScenarioTrip struct {
	Person    model.PersonID
	Departure time.Time
	Mode      model.TripMode
	Start     model.TripEndpoint
	End       model.TripEndpoint
	Purpose   model.Purpose
}

// GenerateScenario reconstructs a replay scenario from completed trip
// history. It is intentionally lossy per spec §9.
func (m *Manager) GenerateScenario() []ScenarioTrip {
	out := make([]ScenarioTrip, 0, len(m.trips))
	for i := range m.trips {
		t := &m.trips[i]
		out = append(out, ScenarioTrip{
			Person:    t.Person,
			Departure: t.Info.Departure,
			Mode:      t.Info.Mode,
			Start:     t.Info.Start,
			End:       t.Info.End,
			Purpose:   t.Info.Purpose,
		})
	}
	return out
}

// AllArrivalsAtBorder reports, for each border intersection, how many
// trips arrived there (by walking off-map, riding off-map, or driving off
// the map) — supplemented from trips.rs's all_arrivals_at_border, used by
// driver.BuildReport to record border-crossing load.
func (m *Manager) AllArrivalsAtBorder() map[model.IntersectionID]int {
	counts := make(map[model.IntersectionID]int)
	for i := range m.trips {
		t := &m.trips[i]
		if !t.IsFinished() || t.Info.End.Kind != model.EndpointBorder {
			continue
		}
		counts[t.Info.End.Intersection]++
	}
	return counts
}
