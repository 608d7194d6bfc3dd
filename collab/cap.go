package collab

import "citytrips/backend/model"

// Cap implements model.Cap: a per-intersection throughput ceiling on
// paths that cross it. Grounded on spec §9's description of the
// congestion cap and the source's validate_path — "reduce or reject", so
// a cap chokepoint rejects a path outright rather than fabricating a
// detour the map never modeled (detours are the pathfinder's job, which
// is out of scope).
type Cap struct {
	limit     map[model.IntersectionID]int
	crossings map[model.IntersectionID]int
}

func NewCap() *Cap {
	return &Cap{
		limit:     make(map[model.IntersectionID]int),
		crossings: make(map[model.IntersectionID]int),
	}
}

// SetLimit bounds how many validated paths may cross i in total: each
// accepted path counts against the limit and the count is never released.
func (c *Cap) SetLimit(i model.IntersectionID, n int) { c.limit[i] = n }

// ValidatePath implements model.Cap. Per spec §9 open question 3, a
// rejection (nil) must be treated identically to a pathfinding failure
// everywhere it's checked; Manager.resolvePath already does that.
func (c *Cap) ValidatePath(p *model.Path) (*model.Path, bool) {
	for _, step := range p.Steps {
		limit, capped := c.limit[step]
		if !capped {
			continue
		}
		if c.crossings[step] >= limit {
			return nil, false
		}
	}
	for _, step := range p.Steps {
		if _, capped := c.limit[step]; capped {
			c.crossings[step]++
		}
	}
	return p, false
}
