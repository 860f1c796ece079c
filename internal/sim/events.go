package sim

import (
	"fmt"

	"solar-race-sim/internal/model"
)

// eventCursor tracks how far a run has consumed the race's event lists.
// The lists themselves are shared and immutable; each run owns its cursor,
// so concurrent runs never alias mutable state.
type eventCursor struct {
	distance int
	time     int
}

// processEvents fires every distance event at or behind the car and then
// every time event at or behind the clock, updating the race actions.
// Distance events are always fully drained before time events, each event
// fires exactly once, and a consumed event is never re-examined.
//
// A missed deadline returns a non-nil Reason; the run is infeasible.
// An unrecognized event variant is a malformed race definition and panics.
func processEvents(race *model.Race, cur *eventCursor, state model.State,
	actions model.RaceActions, checkpointRemaining float64) (model.RaceActions, float64, *Reason) {

	for cur.distance < len(race.DistanceEvents) &&
		state.Distance >= race.DistanceEvents[cur.distance].EventDistance() {
		event := race.DistanceEvents[cur.distance]
		cur.distance++

		switch e := event.(type) {
		case model.StageStop:
			// Arriving after the target but before the hard deadline still
			// stops the stage; only the hard deadline fails the run.
			if state.Time > e.LatestArrival {
				return actions, checkpointRemaining, &Reason{Kind: MissedStageDeadline, EventName: e.Name}
			}
			actions = model.OvernightActions()
		case model.ControlStop:
			if state.Time > e.LatestArrival {
				return actions, checkpointRemaining, &Reason{Kind: MissedControlDeadline, EventName: e.Name}
			}
			checkpointRemaining = e.Duration
			actions = model.CheckpointActions()
		default:
			panic(fmt.Sprintf("unknown distance event %T", event))
		}
	}

	for cur.time < len(race.TimeEvents) &&
		state.Time >= race.TimeEvents[cur.time].EventTime() {
		event := race.TimeEvents[cur.time]
		cur.time++

		switch event.(type) {
		case model.StartOfDay:
			actions = model.RacingActions()
		case model.EndOfDay:
			actions = model.OvernightActions()
		case model.StartGridCharge:
			actions = actions.WithGridCharging(true)
		case model.EndGridCharge:
			actions = actions.WithGridCharging(false)
		default:
			panic(fmt.Sprintf("unknown time event %T", event))
		}
	}

	return actions, checkpointRemaining, nil
}
