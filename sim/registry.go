// Package sim implements the Trip Manager: person and trip lifecycle, the
// leg-by-leg completion handlers that drive a trip from origin to
// destination, and the active-agent registry other simulators rely on for
// dispatch.
package sim

import (
	"fmt"

	"citytrips/backend/model"
)

// registry is the bidirectional AgentID<->TripID binding of spec §4.1.
// Bind-once is enforced by panicking rather than returning an error: a
// duplicate bind or an unbind of an absent agent is a bug in the calling
// simulator, not a recoverable runtime condition (spec §7 class 1).
type registry struct {
	agentToTrip map[model.AgentID]model.TripID
}

func newRegistry() *registry {
	return &registry{agentToTrip: make(map[model.AgentID]model.TripID)}
}

func (r *registry) bind(agent model.AgentID, trip model.TripID) {
	if existing, ok := r.agentToTrip[agent]; ok {
		panic(fmt.Sprintf("active-agent registry: %s already bound to %s, cannot rebind to %s", agent, existing, trip))
	}
	r.agentToTrip[agent] = trip
}

func (r *registry) unbind(agent model.AgentID) model.TripID {
	trip, ok := r.agentToTrip[agent]
	if !ok {
		panic(fmt.Sprintf("active-agent registry: %s is not bound to any trip", agent))
	}
	delete(r.agentToTrip, agent)
	return trip
}

func (r *registry) lookup(agent model.AgentID) (model.TripID, bool) {
	trip, ok := r.agentToTrip[agent]
	return trip, ok
}

// rebind is the common "unbind then bind" pattern every leg transition
// uses: exactly one unbind of the completing agent paired with at most
// one bind of the next agent (spec §4.1).
func (r *registry) rebind(oldAgent, newAgent model.AgentID, trip model.TripID) {
	r.unbind(oldAgent)
	r.bind(newAgent, trip)
}

// countByType answers spec §4.7's "counts by agent type" query.
func (r *registry) countByType() map[model.AgentType]int {
	counts := make(map[model.AgentType]int)
	for agent := range r.agentToTrip {
		counts[agent.Type()]++
	}
	return counts
}
