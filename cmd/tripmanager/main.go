// Command tripmanager loads a scenario, runs it to completion against an
// in-memory set of collaborators, writes a CSV report, and optionally
// keeps serving read-only HTTP introspection afterward. Flag-parsed in
// the style of the teacher's main.go.
package main

import (
	"fmt"
	"net/http"
	"os"

	"citytrips/backend/collab"
	"citytrips/backend/config"
	"citytrips/backend/driver"
	"citytrips/backend/logging"
	"citytrips/backend/server"
	"citytrips/backend/sim"
)

func main() {
	cfg := config.Parse(os.Args[1:])
	log := logging.New(cfg.LogLevel, cfg.Environment)

	if cfg.ScenarioPath == "" {
		log.Fatal("no -scenario provided")
	}

	manager := sim.NewManager(log)
	manager.SetPathfindingUpfront(cfg.PathfindingUpfront)

	f, err := os.Open(cfg.ScenarioPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open scenario")
	}
	defer f.Close()

	if err := driver.LoadScenario(f, manager); err != nil {
		log.WithError(err).Fatal("failed to load scenario")
	}

	transit := collab.NewTransit()
	parking := collab.NewParking()
	pathfinder := collab.NewPathFinder(cfg.Seed)
	capPolicy := collab.NewCap()
	scheduler := collab.NewScheduler()

	runner := driver.NewRunner(manager, scheduler, pathfinder, parking, transit, capPolicy)
	runner.Seed()
	runner.Run()

	report := driver.BuildReport(manager)
	if err := report.WriteCSV(os.Stdout); err != nil {
		log.WithError(err).Error("failed to write report")
	}
	fmt.Fprintf(os.Stderr, "finished: %d/%d trips completed, %d cancelled\n",
		report.FinishedTrips, report.TotalTrips, report.CancelledTrips)

	if cfg.HTTPPort > 0 {
		srv := server.New(manager, transit, log)
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		log.WithFields(logging.Fields{"addr": addr}).Info("serving introspection API")
		if err := http.ListenAndServe(addr, srv); err != nil {
			log.WithError(err).Fatal("http server failed")
		}
	}
}
