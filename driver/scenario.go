// Package driver loads a JSON scenario into a sim.Manager, drives it to
// completion against a collab.Scheduler, and produces an end-of-run
// report — the role the teacher's main.go and sim/report.go play for the
// BRT demo, generalized from "one bus route" to "an arbitrary population
// of people and trips".
package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"citytrips/backend/metrics"
	"citytrips/backend/model"
	"citytrips/backend/sim"
)

// ScenarioPerson is the JSON shape of one person in a scenario file.
type ScenarioPerson struct {
	PedSpeed float64           `json:"ped_speed"`
	Vehicles []ScenarioVehicle `json:"vehicles"`
	Trips    []ScenarioTrip    `json:"trips"`
}

type ScenarioVehicle struct {
	Kind string `json:"kind"` // "car" | "bike"
}

// ScenarioTrip is the JSON shape of one trip: a departure time, the start
// endpoint, mode, purpose, and a leg list expressed in terms of building/
// border ids so the loader can build model.TripLeg values directly.
type ScenarioTrip struct {
	Departure string          `json:"departure"` // RFC3339
	Mode      string          `json:"mode"`       // walk|bike|drive|transit
	Purpose   string          `json:"purpose"`
	Start     ScenarioEndpoint `json:"start"`
	Legs      []ScenarioLeg    `json:"legs"`
}

type ScenarioEndpoint struct {
	Building *int `json:"building,omitempty"`
	Border   *int `json:"border,omitempty"`
}

func (e ScenarioEndpoint) toModel() model.TripEndpoint {
	if e.Building != nil {
		return model.AtBuilding(model.NewBuildingID(*e.Building))
	}
	return model.AtBorder(model.NewIntersectionID(*e.Border))
}

// ScenarioLeg is a JSON tagged variant mirroring model.TripLeg.
type ScenarioLeg struct {
	Kind string `json:"kind"` // walk|drive|ride_bus|remote

	WalkBuilding *int `json:"walk_building,omitempty"`
	WalkBorder   *int `json:"walk_border,omitempty"`
	WalkBikeRack *int `json:"walk_bike_rack,omitempty"`
	WalkBusStop  *int `json:"walk_bus_stop,omitempty"`

	DriveCar      int  `json:"drive_car,omitempty"`
	DriveGoalKind string `json:"drive_goal_kind,omitempty"` // building|border
	DriveGoal     int  `json:"drive_goal,omitempty"`

	RideRoute int  `json:"ride_route,omitempty"`
	RideStop2 *int `json:"ride_stop2,omitempty"`

	RemoteName string        `json:"remote_name,omitempty"`
	RemoteTime time.Duration `json:"remote_trip_time,omitempty"`
}

func (l ScenarioLeg) toModel() model.TripLeg {
	switch l.Kind {
	case "walk":
		switch {
		case l.WalkBuilding != nil:
			return model.WalkLeg(model.BuildingDoor(model.NewBuildingID(*l.WalkBuilding)))
		case l.WalkBorder != nil:
			return model.WalkLeg(model.BorderSpot(model.NewIntersectionID(*l.WalkBorder)))
		case l.WalkBikeRack != nil:
			return model.WalkLeg(model.BikeRackSpot(model.NewBuildingID(*l.WalkBikeRack)))
		case l.WalkBusStop != nil:
			return model.WalkLeg(model.BusStopSpot(model.NewBusStopID(*l.WalkBusStop)))
		default:
			panic("scenario: walk leg needs exactly one destination field")
		}
	case "drive":
		car := model.NewCarID(l.DriveCar, model.VehicleCar)
		var goal model.ParkingGoal
		if l.DriveGoalKind == "border" {
			goal = model.DriveToBorder(model.NewIntersectionID(l.DriveGoal))
		} else {
			goal = model.ParkNearBuilding(model.NewBuildingID(l.DriveGoal))
		}
		return model.DriveLeg(car, goal)
	case "ride_bus":
		var stop2 *model.BusStopID
		if l.RideStop2 != nil {
			s := model.NewBusStopID(*l.RideStop2)
			stop2 = &s
		}
		return model.RideBusLeg(model.NewBusRouteID(l.RideRoute), stop2)
	case "remote":
		return model.RemoteLeg(model.OffMapLocation{Name: l.RemoteName})
	default:
		panic(fmt.Sprintf("scenario: unknown leg kind %q", l.Kind))
	}
}

func parseMode(s string) model.TripMode {
	switch s {
	case "walk":
		return model.ModeWalking
	case "bike":
		return model.ModeBiking
	case "drive":
		return model.ModeDriving
	case "transit":
		return model.ModeTransit
	default:
		return model.ModeWalking
	}
}

func parsePurpose(s string) model.Purpose {
	switch s {
	case "work":
		return model.PurposeWork
	case "shopping":
		return model.PurposeShopping
	case "school":
		return model.PurposeSchool
	case "home":
		return model.PurposeHome
	default:
		return model.PurposeOther
	}
}

// LoadScenario reads a JSON scenario and populates m via NewPerson/
// NewTrip, mirroring the teacher's LoadRouteFromReader/LoadFleetFromReader
// pattern of a plain io.Reader-based JSON loader
// (jwmdev-brt08/backend/model/route_loader.go).
func LoadScenario(r io.Reader, m *sim.Manager) error {
	var people []ScenarioPerson
	if err := json.NewDecoder(r).Decode(&people); err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}

	for _, sp := range people {
		vehicles := make([]model.Vehicle, 0, len(sp.Vehicles))
		for i, v := range sp.Vehicles {
			kind := model.VehicleCar
			if v.Kind == "bike" {
				kind = model.VehicleBike
			}
			vehicles = append(vehicles, model.Vehicle{ID: model.NewCarID(i, kind), Kind: kind})
		}
		personID := m.NewPerson(nil, sp.PedSpeed, vehicles)

		for _, st := range sp.Trips {
			departure, err := time.Parse(time.RFC3339, st.Departure)
			if err != nil {
				return fmt.Errorf("load scenario: bad departure %q: %w", st.Departure, err)
			}
			legs := make([]model.TripLeg, 0, len(st.Legs))
			for _, l := range st.Legs {
				legs = append(legs, l.toModel())
			}
			mode := parseMode(st.Mode)
			m.NewTrip(personID, departure, st.Start.toModel(), mode, parsePurpose(st.Purpose), false, legs)
			metrics.TripsCreated.WithLabelValues(mode.Noun()).Inc()
		}
	}
	return nil
}
