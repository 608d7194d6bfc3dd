package collab

import (
	"sort"
	"sync"
	"time"

	"citytrips/backend/model"
)

// parkedCar records where a vehicle currently sits.
type parkedCar struct {
	spot model.ParkingSpot
	at   time.Time
}

// Parking implements model.Parking: free/occupied parking-spot
// bookkeeping per building, grounded on the teacher's BusStop queue
// bookkeeping (jwmdev-brt08/backend/model/stop.go EnqueuePassenger/
// BoardAtStop) generalized from a FIFO passenger queue to a FIFO
// available-spot pool per building, since both are "a bounded resource
// with enqueue/claim operations guarded by a mutex".
type Parking struct {
	mu sync.Mutex

	// free holds, per building, the spots not currently occupied.
	free map[model.BuildingID][]model.ParkingSpot

	occupied map[model.CarID]parkedCar

	// driveLane maps a building to the intersection its driveway exits
	// onto, used to compute DrivingPosition for off-street spots.
	driveLane map[model.BuildingID]model.IntersectionID
}

func NewParking() *Parking {
	return &Parking{
		free:      make(map[model.BuildingID][]model.ParkingSpot),
		occupied:  make(map[model.CarID]parkedCar),
		driveLane: make(map[model.BuildingID]model.IntersectionID),
	}
}

// Seed registers a building's available off-street spots and driveway
// lane.
func (p *Parking) Seed(b model.BuildingID, driveLane model.IntersectionID, spots int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.driveLane[b] = driveLane
	for i := 0; i < spots; i++ {
		p.free[b] = append(p.free[b], model.OffstreetSpot(b, i))
	}
}

// FreeSpotNearBuilding implements model.Parking.
func (p *Parking) FreeSpotNearBuilding(b model.BuildingID) (model.ParkingSpot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	spots := p.free[b]
	if len(spots) == 0 {
		return model.ParkingSpot{}, false
	}
	spot := spots[0]
	p.free[b] = spots[1:]
	return spot, true
}

// FreeSpotReachableFrom implements model.Parking: a broader fallback
// search across every building with a spot left, used by cancel_trip's
// second warp attempt (spec §4.5 step 4). Buildings are visited in index
// order rather than Go's randomized map order so two runs over the same
// scenario warp to the same spot (spec §5 determinism).
func (p *Parking) FreeSpotReachableFrom(from model.IntersectionID) (model.ParkingSpot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	buildings := make([]model.BuildingID, 0, len(p.free))
	for b := range p.free {
		buildings = append(buildings, b)
	}
	sort.Slice(buildings, func(i, j int) bool { return buildings[i].Index() < buildings[j].Index() })

	for _, b := range buildings {
		spots := p.free[b]
		if len(spots) == 0 {
			continue
		}
		spot := spots[0]
		p.free[b] = spots[1:]
		return spot, true
	}
	return model.ParkingSpot{}, false
}

// ReserveSpot implements model.Parking: removes the spot from the free
// pool without yet recording an occupant (AddParkedCar does that); kept
// as a separate step so a caller can reserve ahead of a car's arrival.
func (p *Parking) ReserveSpot(spot model.ParkingSpot, car model.CarID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if spot.Kind != model.ParkingOffstreet {
		return
	}
	spots := p.free[spot.Building]
	for i, s := range spots {
		if s == spot {
			p.free[spot.Building] = append(spots[:i], spots[i+1:]...)
			return
		}
	}
}

// AddParkedCar implements model.Parking.
func (p *Parking) AddParkedCar(spot model.ParkingSpot, car model.CarID, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.occupied[car] = parkedCar{spot: spot, at: at}
}

// RemoveParkedCar implements model.Parking: frees the spot back to its
// building's pool.
func (p *Parking) RemoveParkedCar(car model.CarID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pc, ok := p.occupied[car]
	if !ok {
		return
	}
	delete(p.occupied, car)
	if pc.spot.Kind == model.ParkingOffstreet {
		p.free[pc.spot.Building] = append(p.free[pc.spot.Building], pc.spot)
	}
}

// SpotOf implements model.Parking.
func (p *Parking) SpotOf(car model.CarID) (model.ParkingSpot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pc, ok := p.occupied[car]
	return pc.spot, ok
}

// DrivingPosition implements model.Parking: off-street spots unpark onto
// their building's registered drive lane; on-street spots are already
// curbside.
func (p *Parking) DrivingPosition(spot model.ParkingSpot) model.IntersectionID {
	p.mu.Lock()
	defer p.mu.Unlock()
	if spot.Kind == model.ParkingOffstreet {
		return p.driveLane[spot.Building]
	}
	return spot.Lane
}
