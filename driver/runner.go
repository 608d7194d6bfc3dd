package driver

import (
	"time"

	"citytrips/backend/collab"
	"citytrips/backend/metrics"
	"citytrips/backend/model"
	"citytrips/backend/sim"
)

// stepDuration is the fixed per-intersection travel time the Runner's
// stand-in movement model charges for each hop of a resolved path —
// deterministic and scenario-independent, since actual travel-time
// simulation is out of scope (spec §1).
const stepDuration = 2 * time.Minute

// Runner drives a sim.Manager to completion against a collab.Scheduler,
// playing the role spec §5 assigns to "the outer discrete-event
// scheduler": it pops commands in time order and calls exactly one
// handler per command, advancing logical time monotonically. Grounded on
// the teacher's StartRunner engine loop concept
// (jwmdev-brt08/backend/sim/runner.go) but reworked from a goroutine/
// channel/real-time design into the single-threaded synchronous loop
// spec §5 requires (see DESIGN.md).
type Runner struct {
	Manager   *sim.Manager
	Scheduler *collab.Scheduler
	Ctx       model.Context
}

func NewRunner(m *sim.Manager, sch *collab.Scheduler, pf model.PathFinder, parking model.Parking, transit model.Transit, capPolicy model.Cap) *Runner {
	return &Runner{
		Manager:   m,
		Scheduler: sch,
		Ctx: model.Context{
			PathFind:  pf,
			Parking:   parking,
			Transit:   transit,
			Cap:       capPolicy,
			Scheduler: sch,
		},
	}
}

// Seed schedules the departure dispatch for every trip currently known to
// the manager, using the TripSpec inferSpec derives from each trip's mode,
// legs and start endpoint. This is the scenario driver's job,
// not the Trip Manager's — start_trip always takes an externally supplied
// TripSpec (spec §4.3).
func (r *Runner) Seed() {
	for i := 0; i < r.Manager.NumTrips(); i++ {
		t := r.Manager.TripByID(model.NewTripID(i))
		spec := inferSpec(t)
		r.Scheduler.Schedule(model.Command{Kind: startTripMarker, At: t.Info.Departure, Trip: t.ID, Spec: spec})
	}
}

// startTripMarker is a Runner-private command kind layered on top of
// model.CommandKind's closed set, used only as an internal queue entry to
// re-enter StartTrip at the right logical time; it never reaches the Trip
// Manager itself.
const startTripMarker model.CommandKind = 100

// Run drains the scheduler until the manager reports no unfinished
// trips or the queue runs dry, whichever comes first.
func (r *Runner) Run() {
	for r.Manager.UnfinishedTrips() > 0 {
		cmd, ok := r.Scheduler.Pop()
		if !ok {
			return
		}
		r.Ctx.Now = cmd.At
		r.handle(cmd)
		r.drainMetrics()
	}
}

func (r *Runner) drainMetrics() {
	metrics.UnfinishedTrips.Set(float64(r.Manager.UnfinishedTrips()))
	metrics.DelayedTripsQueued.Set(float64(r.Manager.TotalDelayedTrips()))
	counts := r.Manager.CountsByAgentType()
	for _, agentType := range []model.AgentType{model.AgentTypePedestrian, model.AgentTypeCar, model.AgentTypeBike, model.AgentTypeBus} {
		metrics.ActiveAgents.WithLabelValues(agentType.String()).Set(float64(counts[agentType]))
	}
	for _, e := range r.Manager.CollectEvents() {
		switch ev := e.(type) {
		case model.TripFinished:
			metrics.TripsFinished.WithLabelValues(ev.Mode.Noun()).Inc()
		case model.TripCancelled:
			metrics.TripsCancelled.WithLabelValues(ev.Reason).Inc()
		case model.Alert:
			metrics.Alerts.Inc()
		}
	}
}

func (r *Runner) handle(cmd model.Command) {
	switch cmd.Kind {
	case startTripMarker:
		r.Manager.StartTrip(r.Ctx, cmd.Trip, cmd.Spec, nil, nil)
	case model.CmdSpawnPed:
		r.runPedestrian(cmd)
	case model.CmdSpawnCar:
		r.runVehicle(cmd)
	case model.CmdFinishRemoteTrip:
		r.Manager.RemoteTripFinished(r.Ctx, cmd.Trip)
	}
}

// runPedestrian stands in for the walking simulator: it inspects the
// trip's head Walk leg to know where the pedestrian is headed, computes a
// deterministic travel time, and fires the matching completion handler.
func (r *Runner) runPedestrian(cmd model.Command) {
	t := r.Manager.TripByID(cmd.Trip)
	head, ok := t.HeadLeg()
	if !ok || head.Kind != model.LegWalk {
		return
	}
	arriveAt := r.Ctx.Now.Add(stepDuration)

	switch head.WalkTo.Kind {
	case model.SpotBuildingDoor:
		r.Ctx.Now = arriveAt
		r.Manager.PedReachedBuilding(r.Ctx, cmd.Ped, head.WalkTo.Building, stepDuration)
	case model.SpotBorder:
		r.Ctx.Now = arriveAt
		r.Manager.PedReachedBorder(r.Ctx, cmd.Ped, head.WalkTo.Border, stepDuration)
	case model.SpotBusStop:
		r.Ctx.Now = arriveAt
		route := r.Manager.PedReachedBusStop(r.Ctx, cmd.Ped, head.WalkTo.Stop, stepDuration)
		if route != nil {
			// No bus was present. The Runner neither moves buses nor
			// calls PedBoardedBus, so the rider stays waiting here.
			return
		}
	case model.SpotBikeRack:
		r.Ctx.Now = arriveAt
		r.Manager.PedReadyToBike(r.Ctx, cmd.Ped, head.WalkTo.Building, stepDuration)
	case model.SpotDeferredParking:
		spot, ok := r.Ctx.Parking.SpotOf(head.WalkTo.DeferredCar)
		if !ok {
			return
		}
		r.Ctx.Now = arriveAt
		r.Manager.PedReachedParkingSpot(r.Ctx, cmd.Ped, spot, stepDuration)
	}
}

// runVehicle stands in for the driving/biking simulator: resolves the
// head Drive leg's goal and fires the matching completion handler once
// the deterministic travel time elapses.
func (r *Runner) runVehicle(cmd model.Command) {
	t := r.Manager.TripByID(cmd.Trip)
	head, ok := t.HeadLeg()
	if !ok || head.Kind != model.LegDrive {
		return
	}
	hops := 1
	if cmd.Path != nil && len(cmd.Path.Steps) > 1 {
		hops = len(cmd.Path.Steps) - 1
	}
	arriveAt := r.Ctx.Now.Add(time.Duration(hops) * stepDuration)
	r.Ctx.Now = arriveAt

	switch head.DriveGoal.Kind {
	case model.GoalBorder:
		r.Manager.CarOrBikeReachedBorder(r.Ctx, cmd.Car, head.DriveGoal.Intersection, stepDuration)
	case model.GoalEndAtBuilding, model.GoalParkNear:
		if cmd.Car.Kind() == model.VehicleBike {
			r.Manager.BikeReachedEnd(r.Ctx, cmd.Car, head.DriveGoal.Building, stepDuration)
			return
		}
		spot, ok := r.Ctx.Parking.FreeSpotNearBuilding(head.DriveGoal.Building)
		if !ok {
			return
		}
		r.Ctx.Parking.ReserveSpot(spot, cmd.Car)
		r.Ctx.Parking.AddParkedCar(spot, cmd.Car, r.Ctx.Now)
		r.Manager.CarReachedParkingSpot(r.Ctx, cmd.Car, spot, stepDuration)
	}
}

// inferSpec derives the TripSpec a scenario departure should dispatch
// with, based only on the trip's declared mode, its first two legs and its
// start endpoint — a
// simplified stand-in for whatever upstream logic decided how this trip's
// agent enters the simulation (vehicle appearing at a border, already
// parked, on foot, or remote).
func inferSpec(t *model.Trip) model.TripSpec {
	if t.Info.Mode == model.ModeTransit {
		return model.UsingTransitSpec()
	}
	head, ok := t.HeadLeg()
	if !ok {
		return model.JustWalkingSpec()
	}
	if head.Kind == model.LegRemote {
		return model.RemoteSpec(20*time.Minute, head.RemoteLoc)
	}
	if head.Kind == model.LegDrive {
		// The trip opens with a drive, so the vehicle enters at a border.
		return model.VehicleAppearingSpec(head.DriveCar)
	}
	if head.Kind == model.LegWalk && len(t.Legs) > 1 && t.Legs[1].Kind == model.LegDrive {
		drive := t.Legs[1]
		if drive.DriveCar.Kind() == model.VehicleBike {
			return model.UsingBikeSpec(drive.DriveCar)
		}
		if t.Info.Start.Kind == model.EndpointBorder {
			return model.VehicleAppearingSpec(drive.DriveCar)
		}
		return model.UsingParkedCarSpec(drive.DriveCar)
	}
	return model.JustWalkingSpec()
}
