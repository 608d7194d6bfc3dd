package sim

import (
	"encoding/json"
	"sort"

	"citytrips/backend/model"
)

// snapshot is the stable, structural encoding of a Manager's state (spec
// §6 Persistence): dense arrays for people/trips (index already encodes
// identity) and a sorted slice of registry bindings so the encoding is
// deterministic across runs despite Go map iteration order.
type snapshot struct {
	People          []model.Person     `json:"people"`
	Trips           []model.Trip       `json:"trips"`
	Bindings        []bindingEntry     `json:"bindings"`
	UnfinishedTrips int                `json:"unfinished_trips"`
}

type bindingEntry struct {
	Agent model.AgentID `json:"agent"`
	Trip  model.TripID  `json:"trip"`
}

// MarshalJSON implements the stable structural encoding spec §6 requires:
// persons and trips serialize as plain dense arrays (index = identity, no
// extra bookkeeping needed to round-trip them), and the registry's
// AgentID-keyed map — otherwise unordered — is flattened into a
// deterministically sorted slice of bindings.
func (m *Manager) MarshalJSON() ([]byte, error) {
	bindings := make([]bindingEntry, 0, len(m.registry.agentToTrip))
	for agent, trip := range m.registry.agentToTrip {
		bindings = append(bindings, bindingEntry{Agent: agent, Trip: trip})
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].Trip.Index() < bindings[j].Trip.Index() })

	return json.Marshal(snapshot{
		People:          m.people,
		Trips:           m.trips,
		Bindings:        bindings,
		UnfinishedTrips: m.unfinishedTrips,
	})
}

// UnmarshalJSON restores a Manager from a snapshot written by
// MarshalJSON, rebuilding the registry from the flattened bindings list.
// The event buffer is never persisted — it exists only to be drained
// between scheduler steps, never across a save/load boundary.
func (m *Manager) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	m.people = s.People
	m.trips = s.Trips
	m.unfinishedTrips = s.UnfinishedTrips
	m.events = nil
	m.registry = newRegistry()
	for _, b := range s.Bindings {
		m.registry.bind(b.Agent, b.Trip)
	}
	return nil
}
