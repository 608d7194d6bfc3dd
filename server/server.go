// Package server exposes read-only HTTP introspection over a running
// sim.Manager: a health check, trip/person lookups, building and
// agent-type occupancy, Prometheus metrics, and a GTFS-realtime export of
// the transit collaborator's live bus positions. There is no events
// endpoint. Grounded on the teacher's server/server.go route
// registration and the transit-app backend's chi+cors+middleware main.go
// wiring, adapted from a single hardcoded BRT route's SSE stream to a
// small read-only JSON API over an arbitrary scenario.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"citytrips/backend/collab"
	"citytrips/backend/logging"
	"citytrips/backend/model"
	"citytrips/backend/sim"
)

// Server bundles a Manager with the collaborators needed to answer
// introspection requests (currently just Transit, for the GTFS-realtime
// export).
type Server struct {
	Manager *sim.Manager
	Transit *collab.Transit
	log     *logging.Logger

	router chi.Router
}

func New(m *sim.Manager, transit *collab.Transit, log *logging.Logger) *Server {
	s := &Server{Manager: m, Transit: transit, log: log.WithComponent("server")}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
	r.Use(c.Handler)

	r.Get("/health", s.handleHealth)
	r.Get("/api/trips/{id}", s.handleTrip)
	r.Get("/api/people/{id}", s.handlePerson)
	r.Get("/api/occupancy", s.handleOccupancy)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/gtfs-rt/vehicle-positions", s.handleGTFSVehiclePositions)
	r.Get("/gtfs-rt/trip-updates", s.handleGTFSTripUpdates)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"unfinished_trips": s.Manager.UnfinishedTrips(),
	})
}

func (s *Server) handleTrip(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || idx < 0 || idx >= s.Manager.NumTrips() {
		http.Error(w, "trip not found", http.StatusNotFound)
		return
	}
	id := model.NewTripID(idx)
	t := s.Manager.TripByID(id)
	result := s.Manager.TripToAgent(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"trip":   t,
		"status": result.Kind,
	})
}

func (s *Server) handlePerson(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || idx < 0 || idx >= s.Manager.NumPeople() {
		http.Error(w, "person not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.Manager.PersonByID(model.NewPersonID(idx)))
}

func (s *Server) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"by_building":   s.Manager.BuildingOccupancy(),
		"by_agent_type": s.Manager.CountsByAgentType(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
