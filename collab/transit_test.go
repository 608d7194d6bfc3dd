package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citytrips/backend/model"
)

func TestTransit_AdvanceBus_WalksRouteSequence(t *testing.T) {
	tr := NewTransit()
	route := model.NewBusRouteID(0)
	s1, s2, s3 := model.NewBusStopID(1), model.NewBusStopID(2), model.NewBusStopID(3)
	tr.AddRoute(route, []model.BusStopID{s1, s2, s3}, nil)

	bus := model.NewCarID(0, model.VehicleBus)
	tr.PlaceBus(bus, route, s1, 10)

	next, ok := tr.AdvanceBus(bus)
	require.True(t, ok)
	assert.Equal(t, s2, next)

	next, ok = tr.AdvanceBus(bus)
	require.True(t, ok)
	assert.Equal(t, s3, next)

	_, ok = tr.AdvanceBus(bus)
	assert.False(t, ok, "bus at the last stop has nowhere further to advance")
}

func TestTransit_BusAtStopNow_RespectsCapacity(t *testing.T) {
	tr := NewTransit()
	route := model.NewBusRouteID(0)
	stop := model.NewBusStopID(1)
	tr.AddRoute(route, []model.BusStopID{stop}, nil)

	bus := model.NewCarID(0, model.VehicleBus)
	tr.PlaceBus(bus, route, stop, 1)

	got, ok := tr.BusAtStopNow(route, stop)
	require.True(t, ok)
	assert.Equal(t, bus, got)

	_, ok = tr.BusAtStopNow(route, stop)
	assert.False(t, ok, "bus is now full")
}

func TestTransit_BusAtStopNow_PicksLowestIndexDeterministically(t *testing.T) {
	tr := NewTransit()
	route := model.NewBusRouteID(0)
	stop := model.NewBusStopID(1)
	tr.AddRoute(route, []model.BusStopID{stop}, nil)

	busHi := model.NewCarID(5, model.VehicleBus)
	busLo := model.NewCarID(2, model.VehicleBus)
	tr.PlaceBus(busHi, route, stop, 10)
	tr.PlaceBus(busLo, route, stop, 10)

	got, ok := tr.BusAtStopNow(route, stop)
	require.True(t, ok)
	assert.Equal(t, busLo, got)
}

func TestTransit_RegisterWaiter_CreatesStopIfAbsent(t *testing.T) {
	tr := NewTransit()
	stop := model.NewBusStopID(9)
	assert.NotPanics(t, func() {
		tr.RegisterWaiter(model.NewBusRouteID(0), stop, model.NewPersonID(0))
	})
}

func TestTransit_IncomingBorders(t *testing.T) {
	tr := NewTransit()
	route := model.NewBusRouteID(0)
	borders := []model.IntersectionID{model.NewIntersectionID(4), model.NewIntersectionID(7)}
	tr.AddRoute(route, nil, borders)
	assert.Equal(t, borders, tr.IncomingBorders(route))
}

func TestTransit_BusPositions_SortedByIndex(t *testing.T) {
	tr := NewTransit()
	route := model.NewBusRouteID(0)
	stop := model.NewBusStopID(1)
	tr.AddRoute(route, []model.BusStopID{stop}, nil)

	tr.PlaceBus(model.NewCarID(3, model.VehicleBus), route, stop, 10)
	tr.PlaceBus(model.NewCarID(1, model.VehicleBus), route, stop, 10)

	positions := tr.BusPositions()
	require.Len(t, positions, 2)
	assert.True(t, positions[0].Bus.Index() < positions[1].Bus.Index())
}
