package model

// State is the mutable simulation state: where the car is, how much energy
// it has, and what time it is. The integrator is the single owner; everyone
// else sees copies. SOC is derived as Energy / battery size and must never
// be mutated independently.
type State struct {
	Distance float64 // m along the route, non-decreasing while driving
	Energy   float64 // J
	SOC      float64 // fraction, == Energy / battery size
	Time     float64 // s since unix epoch, non-decreasing
}

// RaceActions describes what the car and the race clock are currently doing.
// It is an immutable value: transitions replace the whole struct, never a
// single field. Only the configurations produced by the named constructors
// and transformers below are valid; do not assemble one field by field.
type RaceActions struct {
	ClockRunning bool
	Charging     bool
	Driving      bool
	Normalized   bool // array tilted to track the sun rather than flat
	GridCharging bool
	RaceHours    bool // checkpoint-serving rules in effect
}

// PreRaceActions is the configuration before the first start-of-day fires.
func PreRaceActions() RaceActions {
	return RaceActions{}
}

// RacingActions is normal daytime driving under race hours.
func RacingActions() RaceActions {
	return RaceActions{
		ClockRunning: true,
		Charging:     true,
		Driving:      true,
		Normalized:   false,
		GridCharging: false,
		RaceHours:    true,
	}
}

// CheckpointActions is stopped at a control stop, still on the race clock.
func CheckpointActions() RaceActions {
	return RaceActions{
		ClockRunning: false,
		Charging:     true,
		Driving:      false,
		Normalized:   true,
		GridCharging: false,
		RaceHours:    true,
	}
}

// OvernightActions is stopped for the night or at a stage stop, off the
// race clock, array normalized toward the sun.
func OvernightActions() RaceActions {
	return RaceActions{
		ClockRunning: false,
		Charging:     true,
		Driving:      false,
		Normalized:   true,
		GridCharging: false,
		RaceHours:    false,
	}
}

// WithGridCharging returns the same configuration with the grid-charge flag
// set as given.
func (a RaceActions) WithGridCharging(on bool) RaceActions {
	a.GridCharging = on
	return a
}

// HoldAtCheckpoint returns the configuration for serving remaining
// checkpoint time: not driving, clock stopped, charging and array
// orientation carried over from the current configuration.
func (a RaceActions) HoldAtCheckpoint() RaceActions {
	return RaceActions{
		ClockRunning: false,
		Charging:     a.Charging,
		Driving:      false,
		Normalized:   a.Normalized,
		GridCharging: false,
		RaceHours:    true,
	}
}
