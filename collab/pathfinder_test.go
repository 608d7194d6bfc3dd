package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citytrips/backend/model"
)

func TestPathFinder_FindsShortestRoute(t *testing.T) {
	f := NewPathFinder(1)
	i0, i1, i2 := model.NewIntersectionID(0), model.NewIntersectionID(1), model.NewIntersectionID(2)
	f.AddEdge(i0, i1)
	f.AddEdge(i1, i2)

	req := model.PathRequest{Start: model.AtBorder(i0), End: model.AtBorder(i2)}
	path, ok := f.Pathfind(req)
	require.True(t, ok)
	assert.Equal(t, []model.IntersectionID{i0, i1, i2}, path.Steps)
}

func TestPathFinder_SameAnchorIsTrivialPath(t *testing.T) {
	f := NewPathFinder(1)
	i0 := model.NewIntersectionID(0)
	req := model.PathRequest{Start: model.AtBorder(i0), End: model.AtBorder(i0)}
	path, ok := f.Pathfind(req)
	require.True(t, ok)
	assert.Equal(t, []model.IntersectionID{i0}, path.Steps)
}

func TestPathFinder_NoEdgeMeansUnreachable(t *testing.T) {
	f := NewPathFinder(1)
	i0, i1 := model.NewIntersectionID(0), model.NewIntersectionID(1)
	req := model.PathRequest{Start: model.AtBorder(i0), End: model.AtBorder(i1)}
	_, ok := f.Pathfind(req)
	assert.False(t, ok)
}

func TestPathFinder_ForceUnreachable_OverridesExistingEdge(t *testing.T) {
	f := NewPathFinder(1)
	i0, i1 := model.NewIntersectionID(0), model.NewIntersectionID(1)
	f.AddEdge(i0, i1)
	f.ForceUnreachable(i0, i1)

	req := model.PathRequest{Start: model.AtBorder(i0), End: model.AtBorder(i1)}
	_, ok := f.Pathfind(req)
	assert.False(t, ok)
}

func TestPathFinder_BuildingAnchorsByIndex(t *testing.T) {
	f := NewPathFinder(1)
	b0, b1 := model.NewBuildingID(0), model.NewBuildingID(1)
	f.AddEdge(model.NewIntersectionID(0), model.NewIntersectionID(1))

	req := model.PathRequest{Start: model.AtBuilding(b0), End: model.AtBuilding(b1)}
	path, ok := f.Pathfind(req)
	require.True(t, ok)
	assert.Equal(t, []model.IntersectionID{model.NewIntersectionID(0), model.NewIntersectionID(1)}, path.Steps)
}
