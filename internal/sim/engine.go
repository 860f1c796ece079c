// Package sim implements the race simulation engine: a deterministic
// fixed-timestep integrator that advances vehicle position, energy, and
// state of charge while reacting to distance- and time-based race events.
package sim

import (
	"fmt"
	"math"

	"solar-race-sim/internal/model"
	"solar-race-sim/internal/physics"
	"solar-race-sim/internal/sun"
)

// WindFunc returns wind speed in m/s in the direction of travel given
// distance along the route and time.
type WindFunc func(distance, time float64) float64

// ArrayModelFunc returns array power in watts given surface irradiance,
// solar altitude in radians, and whether the array is normalized toward
// the sun.
type ArrayModelFunc func(irradiance, sunAltitude float64, normalized bool) float64

// EndFunc decides whether to end the simulation given the current state:
// nil means keep going, otherwise the value is the verdict.
type EndFunc func(state model.State) *bool

// SunPositionFunc returns solar altitude and azimuth in radians for a time
// and a position in degrees.
type SunPositionFunc func(time, longitude, latitude float64) (altitude, azimuth float64)

// Config collects the simulation constants. Zero values fall back to the
// defaults from DefaultConfig, so callers can override selectively. The
// convention means a literal 0 C ambient or 0.0 humidity cannot be
// expressed; callers needing those conditions must pass a value just off
// zero (e.g. Temperature: 0.01).
type Config struct {
	Dt              float64 // s per tick
	RegenFactor     float64 // fraction of kinetic energy recovered on braking
	ACChargeCurrent float64 // A available from the grid connection
	ACChargeVoltage float64 // V of the grid connection
	PassengerMass   float64 // kg added to the car for occupants
	Temperature     float64 // ambient C
	Humidity        float64 // relative, 0..1
	MaxTicks        int     // hard ceiling on ticks per run
}

// DefaultConfig returns the standard simulation constants: 1 s ticks, 60%
// regenerative recovery, a 30 A / 230 V grid connection, two 80 kg
// occupants, and a tick ceiling of about five weeks of simulated time.
func DefaultConfig() Config {
	return Config{
		Dt:              1.0,
		RegenFactor:     0.6,
		ACChargeCurrent: 30.0,
		ACChargeVoltage: 230.0,
		PassengerMass:   160.0,
		Temperature:     30.0,
		Humidity:        0.3,
		MaxTicks:        3_000_000,
	}
}

// Inputs is the per-run configuration of a simulation. Every field is a
// value or an immutable shared reference; a run never mutates its inputs,
// so independent runs can execute concurrently.
type Inputs struct {
	Race           *model.Race
	Car            model.Car
	BatterySize    float64 // J
	InitialState   model.State
	InitialActions model.RaceActions
	TargetSpeeds   model.SpeedSchedule
	// CheckpointTimeRemaining seeds the run mid-checkpoint; normally zero.
	CheckpointTimeRemaining float64
	// InitialSpeed is the vehicle speed entering the first tick; normally zero.
	InitialSpeed float64
}

// Engine runs simulations. The injected collaborators are pure functions;
// an Engine is safe to reuse across runs.
type Engine struct {
	cfg   Config
	wind  WindFunc
	array ArrayModelFunc
	end   EndFunc

	// SunPosition and SunPower default to the sun package and exist as
	// fields so tests can substitute fixed skies.
	SunPosition SunPositionFunc
	SunPower    func(altitude float64) float64
}

// New builds an Engine. Zero-valued Config fields take their defaults.
func New(cfg Config, wind WindFunc, array ArrayModelFunc, end EndFunc) *Engine {
	def := DefaultConfig()
	if cfg.Dt <= 0 {
		cfg.Dt = def.Dt
	}
	if cfg.RegenFactor == 0 {
		cfg.RegenFactor = def.RegenFactor
	}
	if cfg.ACChargeCurrent == 0 {
		cfg.ACChargeCurrent = def.ACChargeCurrent
	}
	if cfg.ACChargeVoltage == 0 {
		cfg.ACChargeVoltage = def.ACChargeVoltage
	}
	if cfg.PassengerMass == 0 {
		cfg.PassengerMass = def.PassengerMass
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.Humidity == 0 {
		cfg.Humidity = def.Humidity
	}
	if cfg.MaxTicks <= 0 {
		cfg.MaxTicks = def.MaxTicks
	}
	return &Engine{
		cfg:         cfg,
		wind:        wind,
		array:       array,
		end:         end,
		SunPosition: sun.Position,
		SunPower:    sun.Irradiance,
	}
}

// Run simulates a race to a terminal verdict.
//
// Each tick: process due events, check the termination predicate, resolve
// position and sun, derive the target speed, integrate power flows into
// energy and distance, and append to the trajectory. An infeasible run
// (missed deadline) is a normal Result with Verdict false; errors are
// reserved for invalid inputs and the tick ceiling.
func (e *Engine) Run(in Inputs) (*Result, error) {
	if err := in.Race.Validate(); err != nil {
		return nil, fmt.Errorf("race: %w", err)
	}
	if err := in.Car.Validate(); err != nil {
		return nil, fmt.Errorf("car: %w", err)
	}
	if in.BatterySize <= 0 {
		return nil, fmt.Errorf("battery size must be > 0")
	}
	if len(in.TargetSpeeds) == 0 {
		return nil, fmt.Errorf("target speed schedule is empty")
	}
	if e.wind == nil || e.array == nil || e.end == nil {
		return nil, fmt.Errorf("wind, array, and end functions are all required")
	}

	car := in.Car.WithMass(in.Car.Mass + e.cfg.PassengerMass)
	packESR := car.Battery.PackESR()

	st := in.InitialState
	actions := in.InitialActions
	checkpointRemaining := in.CheckpointTimeRemaining
	vehicleSpeed := in.InitialSpeed
	gridEnergy := 0.0

	trajectory := []Row{{Index: 0, State: st}}
	var cursor eventCursor

	finish := func(verdict bool, reason *Reason) *Result {
		return &Result{
			Verdict:    verdict,
			Reason:     reason,
			FinalState: st,
			Trajectory: trajectory,
			GridEnergy: gridEnergy,
		}
	}

	for tick := 0; tick < e.cfg.MaxTicks; tick++ {
		var reason *Reason
		actions, checkpointRemaining, reason = processEvents(in.Race, &cursor, st, actions, checkpointRemaining)
		if reason != nil {
			return finish(false, reason), nil
		}

		// Grid charging never overfills the pack.
		gridCharging := actions.GridCharging && st.SOC < 1.0

		if verdict := e.end(st); verdict != nil {
			return finish(*verdict, nil), nil
		}

		lat, lon := in.Race.Locator.LocationAt(st.Distance)
		sunAltitude, _ := e.SunPosition(st.Time, lon, lat)

		carIsOn := sunAltitude > 0.0 || gridCharging

		if checkpointRemaining > 0.0 && actions.RaceHours {
			// Serve out the checkpoint before driving again.
			actions = actions.HoldAtCheckpoint()
			checkpointRemaining -= e.cfg.Dt
		} else if actions.RaceHours {
			actions = model.RacingActions()
		}

		speedLimit := in.Race.SpeedLimitAt(st.Distance)
		targetSpeed := math.Min(speedLimit, in.TargetSpeeds.TargetAt(st.Distance))

		prevSpeed := vehicleSpeed
		if actions.Driving {
			vehicleSpeed = targetSpeed
		} else {
			vehicleSpeed = 0.0
		}

		if !carIsOn {
			// Only the clock advances while the car is off.
			st.Time += e.cfg.Dt
			continue
		}

		// TODO: derive road angle and altitude from a route elevation profile.
		const roadAngle, altitude = 0.0, 0.0

		irradiance := e.SunPower(sunAltitude)
		wind := e.wind(st.Distance, st.Time)
		rho := physics.AirDensity(e.cfg.Temperature, altitude, e.cfg.Humidity)

		drivePower := physics.PowerToDrive(car, vehicleSpeed, roadAngle, wind, 0.0, rho, st.SOC)

		cellVoltage := car.Battery.CellVoltageFromSOC(st.SOC)
		packVoltage := cellVoltage * float64(car.Battery.CellsInSeries)

		maxGridCurrent := model.MaxChargeCurrent(cellVoltage)
		gridCurrent := math.Min(
			e.cfg.ACChargeCurrent*e.cfg.ACChargeVoltage*car.ChargerEfficiency/packVoltage,
			maxGridCurrent)
		gridPower := 0.0
		if gridCharging {
			gridPower = gridCurrent * packVoltage
		}

		arrayPower := 0.0
		if sunAltitude > 0.0 {
			arrayPower = e.array(irradiance, sunAltitude, actions.Normalized)
		}

		// Net power into the battery (negative = draining).
		batteryPower := gridPower + arrayPower - drivePower - car.IdlePowerLoss
		batteryCurrent := batteryPower / packVoltage
		packLoss := batteryCurrent * batteryCurrent * packESR

		kinetic := kineticDelta(car.Mass, prevSpeed, vehicleSpeed, e.cfg.RegenFactor)

		netPower := batteryPower - packLoss

		st.Distance += vehicleSpeed * e.cfg.Dt
		st.Energy += netPower*e.cfg.Dt - kinetic
		st.SOC = st.Energy / in.BatterySize
		gridEnergy += gridPower * e.cfg.Dt
		st.Time += e.cfg.Dt

		trajectory = append(trajectory, Row{
			Index:        len(trajectory),
			State:        st,
			ArrayPower:   arrayPower,
			VehicleSpeed: vehicleSpeed,
		})
	}

	return nil, fmt.Errorf("no verdict after %d ticks", e.cfg.MaxTicks)
}

// kineticDelta is the battery energy spent changing speed. Accelerating
// costs the full kinetic-energy delta; decelerating recovers only the
// regen fraction of it, so the correction is deliberately asymmetric.
func kineticDelta(mass, prevSpeed, speed, regenFactor float64) float64 {
	delta := 0.5 * mass * (speed*speed - prevSpeed*prevSpeed)
	if delta < 0.0 {
		delta *= regenFactor
	}
	return delta
}
