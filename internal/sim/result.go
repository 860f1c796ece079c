package sim

import (
	"fmt"

	"solar-race-sim/internal/model"
)

// Row is one entry of the trajectory log: the state after a powered tick
// plus the instantaneous array power and vehicle speed for that tick.
type Row struct {
	Index        int
	State        model.State
	ArrayPower   float64 // W
	VehicleSpeed float64 // m/s
}

// ReasonKind discriminates why a run was infeasible.
type ReasonKind string

const (
	MissedStageDeadline   ReasonKind = "missed stage deadline"
	MissedControlDeadline ReasonKind = "missed control stop deadline"
)

// Reason explains an infeasible verdict.
type Reason struct {
	Kind      ReasonKind
	EventName string
}

func (r Reason) String() string {
	return fmt.Sprintf("%s at %q", string(r.Kind), r.EventName)
}

// Result is the outcome of a single simulation run. Verdict reports
// whether the race could be completed; an infeasible run is a normal
// outcome with Verdict false and a non-nil Reason, not an error.
type Result struct {
	Verdict    bool
	Reason     *Reason
	FinalState model.State
	Trajectory []Row
	GridEnergy float64 // J drawn from the grid over the run
}

// MinSOC returns the lowest state of charge seen over the run.
func (r *Result) MinSOC() float64 {
	min := r.Trajectory[0].State.SOC
	for _, row := range r.Trajectory[1:] {
		if row.State.SOC < min {
			min = row.State.SOC
		}
	}
	return min
}

// MaxDistance returns the furthest distance reached over the run.
func (r *Result) MaxDistance() float64 {
	max := r.Trajectory[0].State.Distance
	for _, row := range r.Trajectory[1:] {
		if row.State.Distance > max {
			max = row.State.Distance
		}
	}
	return max
}
