package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citytrips/backend/model"
)

func TestCap_ValidatePath_PassesUnlimitedIntersections(t *testing.T) {
	c := NewCap()
	path := &model.Path{Steps: []model.IntersectionID{model.NewIntersectionID(1), model.NewIntersectionID(2)}}

	got, modified := c.ValidatePath(path)
	require.NotNil(t, got)
	assert.False(t, modified)
	assert.Equal(t, path, got)
}

func TestCap_ValidatePath_RejectsOnceLimitReached(t *testing.T) {
	c := NewCap()
	choke := model.NewIntersectionID(5)
	c.SetLimit(choke, 1)

	path := &model.Path{Steps: []model.IntersectionID{choke}}

	got, _ := c.ValidatePath(path)
	require.NotNil(t, got, "first crossing is within the limit")

	got, _ = c.ValidatePath(path)
	assert.Nil(t, got, "second concurrent crossing exceeds the limit")
}

func TestCap_ValidatePath_TracksEachChokeIndependently(t *testing.T) {
	c := NewCap()
	a, b := model.NewIntersectionID(1), model.NewIntersectionID(2)
	c.SetLimit(a, 1)
	c.SetLimit(b, 1)

	pathA := &model.Path{Steps: []model.IntersectionID{a}}
	pathB := &model.Path{Steps: []model.IntersectionID{b}}

	_, _ = c.ValidatePath(pathA)
	got, _ := c.ValidatePath(pathB)
	require.NotNil(t, got, "crossing a different chokepoint is unaffected by a's count")
}
