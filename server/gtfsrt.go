package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"citytrips/backend/collab"
)

// asGTFS converts a snapshot of bus positions into a GTFS-realtime
// FeedMessage, mirroring PolishTrainsGTFS's Container.AsGTFS() pattern:
// a FeedHeader stamped with the current time, one FeedEntity per vehicle.
func asGTFS(positions []collab.BusPosition, now time.Time) *gtfs.FeedMessage {
	msg := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(uint64(now.Unix())),
		},
	}

	msg.Entity = make([]*gtfs.FeedEntity, 0, len(positions))
	for _, pos := range positions {
		routeID := strconv.Itoa(pos.Route.Index())
		stopID := strconv.Itoa(pos.Stop.Index())
		vehicleID := strconv.Itoa(pos.Bus.Index())

		msg.Entity = append(msg.Entity, &gtfs.FeedEntity{
			Id: proto.String(vehicleID),
			Vehicle: &gtfs.VehiclePosition{
				Trip: &gtfs.TripDescriptor{
					RouteId: proto.String(routeID),
				},
				Vehicle: &gtfs.VehicleDescriptor{
					Id: proto.String(vehicleID),
				},
				StopId:        proto.String(stopID),
				CurrentStatus: gtfs.VehiclePosition_STOPPED_AT.Enum(),
				Timestamp:     proto.Uint64(uint64(now.Unix())),
			},
		})
	}
	return msg
}

// asTripUpdatesGTFS converts the same bus-position snapshot into a
// GTFS-realtime FeedMessage of TripUpdates rather than VehiclePositions:
// one StopTimeUpdate per vehicle reporting its current stop as its next
// scheduled arrival, the minimum a consumer needs to know a bus is there.
func asTripUpdatesGTFS(positions []collab.BusPosition, now time.Time) *gtfs.FeedMessage {
	msg := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Timestamp:           proto.Uint64(uint64(now.Unix())),
		},
	}

	msg.Entity = make([]*gtfs.FeedEntity, 0, len(positions))
	for _, pos := range positions {
		routeID := strconv.Itoa(pos.Route.Index())
		stopID := strconv.Itoa(pos.Stop.Index())
		vehicleID := strconv.Itoa(pos.Bus.Index())

		msg.Entity = append(msg.Entity, &gtfs.FeedEntity{
			Id: proto.String(vehicleID),
			TripUpdate: &gtfs.TripUpdate{
				Trip: &gtfs.TripDescriptor{
					RouteId: proto.String(routeID),
				},
				Vehicle: &gtfs.VehicleDescriptor{
					Id: proto.String(vehicleID),
				},
				StopTimeUpdate: []*gtfs.TripUpdate_StopTimeUpdate{
					{
						StopId: proto.String(stopID),
						Arrival: &gtfs.TripUpdate_StopTimeEvent{
							Time: proto.Int64(now.Unix()),
						},
					},
				},
				Timestamp: proto.Uint64(uint64(now.Unix())),
			},
		})
	}
	return msg
}

// handleGTFSVehiclePositions serves the current bus fleet as a binary
// GTFS-realtime FeedMessage (application/x-protobuf), the same encoding
// PolishTrainsGTFS's DumpGTFS(w, Binary) produces via proto.Marshal.
func (s *Server) handleGTFSVehiclePositions(w http.ResponseWriter, r *http.Request) {
	positions := s.Transit.BusPositions()
	msg := asGTFS(positions, time.Now())

	data, err := proto.Marshal(msg)
	if err != nil {
		s.log.WithError(err).Error("failed to encode vehicle-positions feed")
		http.Error(w, "failed to encode feed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	_, _ = w.Write(data)
}

// handleGTFSTripUpdates serves the same bus fleet as GTFS-realtime
// TripUpdates rather than VehiclePositions.
func (s *Server) handleGTFSTripUpdates(w http.ResponseWriter, r *http.Request) {
	positions := s.Transit.BusPositions()
	msg := asTripUpdatesGTFS(positions, time.Now())

	data, err := proto.Marshal(msg)
	if err != nil {
		s.log.WithError(err).Error("failed to encode trip-updates feed")
		http.Error(w, "failed to encode feed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	_, _ = w.Write(data)
}
