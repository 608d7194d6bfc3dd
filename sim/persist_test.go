package sim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citytrips/backend/model"
)

// TestPersist_RoundTrip exercises spec §8's round-trip law: serialize,
// deserialize into a fresh Manager, and confirm the restored state
// matches field for field (people, trips, registry bindings, and the
// unfinished-trip count all survive the trip through JSON).
func TestPersist_RoundTrip(t *testing.T) {
	h := newHarness()
	b1, b2 := model.NewBuildingID(1), model.NewBuildingID(2)

	p := h.mgr.NewPerson(nil, 1.4, nil)
	h.mgr.NewTrip(p, h.now, model.AtBuilding(b1), model.ModeWalking, model.PurposeWork,
		false, []model.TripLeg{model.WalkLeg(model.BuildingDoor(b2))})
	h.mgr.CollectEvents()

	h.mgr.StartTrip(h.ctx(), model.NewTripID(0), model.JustWalkingSpec(), nil, nil)
	h.mgr.CollectEvents()

	data, err := json.Marshal(h.mgr)
	require.NoError(t, err)

	restored := NewManager(nil)
	require.NoError(t, json.Unmarshal(data, restored))

	assert.Equal(t, h.mgr.unfinishedTrips, restored.unfinishedTrips)
	assert.Equal(t, h.mgr.people, restored.people)
	assert.Equal(t, h.mgr.trips, restored.trips)
	assert.Equal(t, h.mgr.registry.agentToTrip, restored.registry.agentToTrip)

	// Finishing the walk on the restored manager must produce the same
	// event as it would have on the original — the round trip must not
	// lose the binding that PedReachedBuilding depends on.
	ped := restored.PersonByID(p).Ped
	restored.PedReachedBuilding(h.ctx(), ped, b2, 0)
	events := restored.CollectEvents()
	require.NotEmpty(t, events)
	_, ok := events[len(events)-1].(model.PersonEntersBuilding)
	assert.True(t, ok)
}

func TestPersist_EventsAreNotPersisted(t *testing.T) {
	h := newHarness()
	p := h.mgr.NewPerson(nil, 1.4, nil)
	b1, b2 := model.NewBuildingID(1), model.NewBuildingID(2)
	h.mgr.NewTrip(p, h.now, model.AtBuilding(b1), model.ModeWalking, model.PurposeWork,
		false, []model.TripLeg{model.WalkLeg(model.BuildingDoor(b2))})
	// Deliberately do NOT collect events before marshaling.

	data, err := json.Marshal(h.mgr)
	require.NoError(t, err)

	restored := NewManager(nil)
	require.NoError(t, json.Unmarshal(data, restored))
	assert.Empty(t, restored.CollectEvents(), "the event buffer is drain-only state, never snapshotted")
}
