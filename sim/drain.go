package sim

import "citytrips/backend/model"

// personFinishedTrip drains the next delayed trip (if any) for a person
// who just finished or was cancelled out of their current trip, ensuring
// trips run strictly serially per person even when a scenario schedules
// overlapping departures (spec §4.6).
func (m *Manager) personFinishedTrip(ctx model.Context, p *model.Person) {
	next, ok := p.PopDelayedTrip()
	if !ok {
		return
	}
	t := m.trip(next.Trip)
	m.dispatch(ctx, p, t, next.Spec, next.Request, next.Path)
}
