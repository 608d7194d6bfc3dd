package collab

import (
	"math/rand"

	"citytrips/backend/model"
)

// PathFinder implements model.PathFinder with a deterministic
// reachability graph rather than a real road network — spec.md places
// actual path planning out of scope. Grounded on the teacher's Simulator
// (jwmdev-brt08/backend/sim/simulator.go), whose rand.New(rand.NewSource(seed))
// pattern is exactly what spec §5's determinism requirement needs: given
// the same seed, the same (start,end,mode) always resolves to the same
// path-or-failure.
type PathFinder struct {
	// edges lists the intersections reachable from each endpoint's anchor
	// intersection; a path exists iff end's anchor is reachable from
	// start's anchor by a sequence of edges.
	edges map[model.IntersectionID][]model.IntersectionID

	// unreachable lets a scenario force specific (start,end) pairs to
	// fail, used by tests to exercise the cancellation paths of spec §8
	// scenario 5.
	unreachable map[[2]model.IntersectionID]bool

	rng *rand.Rand
}

func NewPathFinder(seed int64) *PathFinder {
	return &PathFinder{
		edges:       make(map[model.IntersectionID][]model.IntersectionID),
		unreachable: make(map[[2]model.IntersectionID]bool),
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// AddEdge registers a directed reachability edge between two
// intersections, building up the fixture map.
func (f *PathFinder) AddEdge(from, to model.IntersectionID) {
	f.edges[from] = append(f.edges[from], to)
}

// ForceUnreachable marks a (start,end) anchor pair as having no path,
// used to deterministically exercise cancellation.
func (f *PathFinder) ForceUnreachable(from, to model.IntersectionID) {
	f.unreachable[[2]model.IntersectionID{from, to}] = true
}

func anchor(e model.TripEndpoint) model.IntersectionID {
	if e.Kind == model.EndpointBorder {
		return e.Intersection
	}
	// A building's anchor intersection is modeled as intersection index
	// equal to the building index, matching the teacher fixture's 1:1
	// stop-to-intersection numbering.
	return model.NewIntersectionID(e.Building.Index())
}

// Pathfind implements model.PathFinder: breadth-first search over the
// registered edges from start's anchor to end's anchor.
func (f *PathFinder) Pathfind(req model.PathRequest) (*model.Path, bool) {
	from := anchor(req.Start)
	to := anchor(req.End)

	if f.unreachable[[2]model.IntersectionID{from, to}] {
		return nil, false
	}
	if from == to {
		return &model.Path{Steps: []model.IntersectionID{from}}, true
	}

	visited := map[model.IntersectionID]bool{from: true}
	parent := map[model.IntersectionID]model.IntersectionID{}
	queue := []model.IntersectionID{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range f.edges[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = cur
			if next == to {
				return &model.Path{Steps: reconstruct(parent, from, to)}, true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

func reconstruct(parent map[model.IntersectionID]model.IntersectionID, from, to model.IntersectionID) []model.IntersectionID {
	steps := []model.IntersectionID{to}
	cur := to
	for cur != from {
		cur = parent[cur]
		steps = append([]model.IntersectionID{cur}, steps...)
	}
	return steps
}
