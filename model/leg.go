package model

import "fmt"

// TripMode classifies a trip by its primary means of travel, used for
// reporting and for choosing which collaborator drives a leg.
type TripMode int

const (
	ModeWalking TripMode = iota
	ModeBiking
	ModeDriving
	ModeTransit
)

// Verb, OngoingVerb and Noun mirror trips.rs's TripMode::verb/ongoing_verb/
// noun: short human-readable strings used by logging and the read-only
// HTTP views, kept separate from String() so callers can pick register.
func (m TripMode) Verb() string {
	switch m {
	case ModeWalking:
		return "walk"
	case ModeBiking:
		return "bike"
	case ModeDriving:
		return "drive"
	case ModeTransit:
		return "ride transit"
	default:
		return "travel"
	}
}

func (m TripMode) OngoingVerb() string {
	switch m {
	case ModeWalking:
		return "walking"
	case ModeBiking:
		return "biking"
	case ModeDriving:
		return "driving"
	case ModeTransit:
		return "riding transit"
	default:
		return "traveling"
	}
}

func (m TripMode) Noun() string {
	switch m {
	case ModeWalking:
		return "pedestrian"
	case ModeBiking:
		return "cyclist"
	case ModeDriving:
		return "driver"
	case ModeTransit:
		return "passenger"
	default:
		return "traveler"
	}
}

func (m TripMode) String() string { return m.Noun() }

// LegKind tags the variant of TripLeg.
type LegKind int

const (
	LegWalk LegKind = iota
	LegDrive
	LegRideBus
	LegRemote
)

// TripLeg is a closed-set tagged variant (Go has no sum types) mirroring
// trips.rs's TripLeg enum: exactly one of the embedded payload fields is
// meaningful, selected by Kind. Handlers must exhaustively switch on Kind;
// the zero value is never a valid TripLeg, it must come from a constructor.
type TripLeg struct {
	Kind LegKind

	// LegWalk
	WalkTo SidewalkSpot

	// LegDrive
	DriveCar  CarID
	DriveGoal ParkingGoal

	// LegRideBus: Stop2 nil means "ride until the route leaves the map".
	RideRoute BusRouteID
	RideStop2 *BusStopID

	// LegRemote
	RemoteLoc OffMapLocation
}

func WalkLeg(to SidewalkSpot) TripLeg {
	return TripLeg{Kind: LegWalk, WalkTo: to}
}

func DriveLeg(car CarID, goal ParkingGoal) TripLeg {
	return TripLeg{Kind: LegDrive, DriveCar: car, DriveGoal: goal}
}

func RideBusLeg(route BusRouteID, stop2 *BusStopID) TripLeg {
	return TripLeg{Kind: LegRideBus, RideRoute: route, RideStop2: stop2}
}

func RemoteLeg(loc OffMapLocation) TripLeg {
	return TripLeg{Kind: LegRemote, RemoteLoc: loc}
}

func (l TripLeg) String() string {
	switch l.Kind {
	case LegWalk:
		return fmt.Sprintf("walk to %v", l.WalkTo)
	case LegDrive:
		return fmt.Sprintf("drive %s", l.DriveCar)
	case LegRideBus:
		if l.RideStop2 == nil {
			return fmt.Sprintf("ride %s to the end of the line", l.RideRoute)
		}
		return fmt.Sprintf("ride %s to %s", l.RideRoute, *l.RideStop2)
	case LegRemote:
		return fmt.Sprintf("go to %s", l.RemoteLoc.Name)
	default:
		return "unknown leg"
	}
}

// GoalKind tags the variant of ParkingGoal.
type GoalKind int

const (
	GoalEndAtBuilding GoalKind = iota
	GoalParkNear
	GoalBorder
)

// ParkingGoal mirrors trips.rs's DrivingGoal: either the car's final stop
// is a building with its own private parking, a free spot must be found
// near a building, or the car is leaving the map at a border.
type ParkingGoal struct {
	Kind         GoalKind
	Building     BuildingID
	Intersection IntersectionID
}

func EndAtBuilding(b BuildingID) ParkingGoal { return ParkingGoal{Kind: GoalEndAtBuilding, Building: b} }
func ParkNearBuilding(b BuildingID) ParkingGoal {
	return ParkingGoal{Kind: GoalParkNear, Building: b}
}
func DriveToBorder(i IntersectionID) ParkingGoal {
	return ParkingGoal{Kind: GoalBorder, Intersection: i}
}
