package model

import "encoding/json"

// The dense-index ID types carry their index in an unexported field so
// construction stays routed through their New* functions; these
// MarshalJSON/UnmarshalJSON pairs give them the stable structural
// encoding spec §6 Persistence requires without exposing the field to
// arbitrary mutation.

func (id PersonID) MarshalJSON() ([]byte, error)  { return json.Marshal(id.idx) }
func (id *PersonID) UnmarshalJSON(b []byte) error  { return json.Unmarshal(b, &id.idx) }

func (id TripID) MarshalJSON() ([]byte, error) { return json.Marshal(id.idx) }
func (id *TripID) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &id.idx) }

func (id PedestrianID) MarshalJSON() ([]byte, error) { return json.Marshal(id.idx) }
func (id *PedestrianID) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &id.idx) }

func (id BuildingID) MarshalJSON() ([]byte, error) { return json.Marshal(id.idx) }
func (id *BuildingID) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &id.idx) }

func (id IntersectionID) MarshalJSON() ([]byte, error) { return json.Marshal(id.idx) }
func (id *IntersectionID) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &id.idx) }

func (id BusRouteID) MarshalJSON() ([]byte, error) { return json.Marshal(id.idx) }
func (id *BusRouteID) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &id.idx) }

func (id BusStopID) MarshalJSON() ([]byte, error) { return json.Marshal(id.idx) }
func (id *BusStopID) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, &id.idx) }

type carIDWire struct {
	Idx  int         `json:"idx"`
	Kind VehicleType `json:"kind"`
}

func (id CarID) MarshalJSON() ([]byte, error) {
	return json.Marshal(carIDWire{Idx: id.idx, Kind: id.kind})
}

func (id *CarID) UnmarshalJSON(b []byte) error {
	var w carIDWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	id.idx, id.kind = w.Idx, w.Kind
	return nil
}

// agentIDWire is AgentID's flattened wire form: a kind tag plus the
// payload fields. MarshalJSON fills only the fields the variant uses, but
// the fields are struct-typed, so omitempty does not drop the others: all
// four are always present, zero-valued where unused.
type agentIDWire struct {
	Kind   AgentKind    `json:"kind"`
	Ped    PedestrianID `json:"ped,omitempty"`
	Car    CarID        `json:"car,omitempty"`
	Person PersonID     `json:"person,omitempty"`
	Bus    CarID        `json:"bus,omitempty"`
}

func (a AgentID) MarshalJSON() ([]byte, error) {
	w := agentIDWire{Kind: a.kind}
	switch a.kind {
	case AgentPedestrian:
		w.Ped = a.ped
	case AgentCar:
		w.Car = a.car
	case AgentBusPassenger:
		w.Person = a.person
		w.Bus = a.bus
	}
	return json.Marshal(w)
}

func (a *AgentID) UnmarshalJSON(b []byte) error {
	var w agentIDWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	a.kind, a.ped, a.car, a.person, a.bus = w.Kind, w.Ped, w.Car, w.Person, w.Bus
	return nil
}
