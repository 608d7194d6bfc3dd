package model

// SpotKind tags the variant of SidewalkSpot.
type SpotKind int

const (
	SpotBuildingDoor SpotKind = iota
	SpotBorder
	SpotBikeRack
	SpotBusStop
	SpotDeferredParking
)

// SidewalkSpot mirrors the source's semantic tag attached to a sidewalk
// position (glossary: "Sidewalk POI"). A Walk leg's destination is always
// one of these, never a bare coordinate — the kind is what tells a
// completion handler which of the five ped_reached_* handlers applies.
type SidewalkSpot struct {
	Kind     SpotKind
	Building BuildingID
	Border   IntersectionID
	Stop     BusStopID

	// DeferredCar names the vehicle a DeferredParking spot is waiting on;
	// ped_reached_parking_spot resolves the actual ParkingSpot only once
	// the car has actually parked (spec §4.4).
	DeferredCar CarID
}

func BuildingDoor(b BuildingID) SidewalkSpot { return SidewalkSpot{Kind: SpotBuildingDoor, Building: b} }
func BorderSpot(i IntersectionID) SidewalkSpot { return SidewalkSpot{Kind: SpotBorder, Border: i} }
func BikeRackSpot(b BuildingID) SidewalkSpot   { return SidewalkSpot{Kind: SpotBikeRack, Building: b} }
func BusStopSpot(s BusStopID) SidewalkSpot     { return SidewalkSpot{Kind: SpotBusStop, Stop: s} }
func DeferredParkingSpot(car CarID) SidewalkSpot {
	return SidewalkSpot{Kind: SpotDeferredParking, DeferredCar: car}
}

// SpotKindParking tags the variant of ParkingSpot.
type SpotKindParking int

const (
	ParkingOnStreet SpotKindParking = iota
	ParkingOffstreet
)

// ParkingSpot mirrors the source's ParkingSpot::Onstreet/Offstreet: a spot
// is either curbside (identified by lane+index) or inside an off-street
// lot/garage owned by a building.
type ParkingSpot struct {
	Kind     SpotKindParking
	Lane     IntersectionID
	Index    int
	Building BuildingID
}

func OnStreetSpot(lane IntersectionID, idx int) ParkingSpot {
	return ParkingSpot{Kind: ParkingOnStreet, Lane: lane, Index: idx}
}

func OffstreetSpot(b BuildingID, idx int) ParkingSpot {
	return ParkingSpot{Kind: ParkingOffstreet, Building: b, Index: idx}
}

// OwnedBy reports the building id and true when the spot is an off-street
// spot belonging to that building — used by car_reached_parking_spot's
// park-inside-destination special case (spec §4.4).
func (s ParkingSpot) OwnedBy() (BuildingID, bool) {
	return s.Building, s.Kind == ParkingOffstreet
}
