package driver

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"citytrips/backend/model"
	"citytrips/backend/sim"
)

// Report summarizes a finished run, grounded on the teacher's
// ReportSummary/WriteCSVReport/PrintConsoleReport trio
// (jwmdev-brt08/backend/sim/report.go), adapted from per-bus
// distance/cost accounting to per-mode trip accounting and from
// fmt.Fprintf CSV rows to encoding/csv.
type Report struct {
	TotalTrips     int
	FinishedTrips  int
	CancelledTrips int

	ByMode map[model.TripMode]modeStats

	CancellationReasons map[string]int

	ArrivalsAtBorder map[model.IntersectionID]int
}

type modeStats struct {
	Finished    int
	Cancelled   int
	TotalTime   time.Duration
	BlockedTime time.Duration
}

// BuildReport walks every trip the manager knows about and tallies it.
func BuildReport(m *sim.Manager) Report {
	rep := Report{
		ByMode:              make(map[model.TripMode]modeStats),
		CancellationReasons: make(map[string]int),
		ArrivalsAtBorder:    m.AllArrivalsAtBorder(),
	}
	rep.TotalTrips = m.NumTrips()
	for i := 0; i < m.NumTrips(); i++ {
		t := m.TripByID(model.NewTripID(i))
		stats := rep.ByMode[t.Info.Mode]
		if t.IsFinished() {
			rep.FinishedTrips++
			stats.Finished++
			stats.TotalTime += t.FinishedAt.Sub(t.Info.Departure)
			stats.BlockedTime += t.TotalBlockedTime
		}
		if t.IsCancelled() {
			rep.CancelledTrips++
			stats.Cancelled++
			rep.CancellationReasons[t.Info.CancellationReason]++
		}
		rep.ByMode[t.Info.Mode] = stats
	}
	return rep
}

// WriteCSV writes a per-mode summary row plus a totals row, mirroring the
// teacher's "section,...,summary" CSV shape.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"section", "mode", "finished", "cancelled", "avg_total_time_s", "avg_blocked_time_s"}); err != nil {
		return err
	}
	modes := []model.TripMode{model.ModeWalking, model.ModeBiking, model.ModeDriving, model.ModeTransit}
	for _, mode := range modes {
		s, ok := r.ByMode[mode]
		if !ok {
			continue
		}
		avgTotal, avgBlocked := 0.0, 0.0
		if s.Finished > 0 {
			avgTotal = s.TotalTime.Seconds() / float64(s.Finished)
			avgBlocked = s.BlockedTime.Seconds() / float64(s.Finished)
		}
		if err := cw.Write([]string{
			"mode", mode.Noun(),
			fmt.Sprint(s.Finished), fmt.Sprint(s.Cancelled),
			fmt.Sprintf("%.1f", avgTotal), fmt.Sprintf("%.1f", avgBlocked),
		}); err != nil {
			return err
		}
	}
	return cw.Write([]string{"summary", "", fmt.Sprint(r.FinishedTrips), fmt.Sprint(r.CancelledTrips), "", ""})
}
