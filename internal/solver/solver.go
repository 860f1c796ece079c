// Package solver drives parameter sweeps over the simulation engine:
// which speed/wind/array conditions let a configuration finish, and how
// small the battery can get before it cannot.
package solver

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/google/uuid"

	"solar-race-sim/internal/model"
	"solar-race-sim/internal/sim"
)

// ArrayParams sizes the solar array for the sweep's built-in array model.
type ArrayParams struct {
	Area       float64 // m^2
	Efficiency float64 // 0..1
}

// SweepPoint is one cell of the configuration sweep.
type SweepPoint struct {
	VehicleSpeed     float64 // m/s
	WindSpeed        float64 // m/s
	ArrayPowerFactor float64
}

// SweepResult is the outcome of simulating one sweep point.
type SweepResult struct {
	RunID       uuid.UUID
	Point       SweepPoint
	Verdict     bool
	Reason      *sim.Reason
	MinSOC      float64
	MaxDistance float64 // m
}

// raceEnd builds the standard termination predicate: success on reaching
// the final distance event, failure on an empty pack or running past the
// last time event.
func raceEnd(race *model.Race) sim.EndFunc {
	verdict := func(v bool) *bool { return &v }
	return func(st model.State) *bool {
		if st.SOC <= 0.0 {
			return verdict(false)
		}
		if st.Time > race.FinalTime() {
			return verdict(false)
		}
		if st.Distance >= race.TotalDistance() {
			return verdict(true)
		}
		return nil
	}
}

// arrayModel builds the sweep's array power model: irradiance scaled by
// array area, efficiency, the sweep's power factor, and the incidence
// penalty when the array lies flat instead of tracking the sun.
func arrayModel(factor float64, p ArrayParams) sim.ArrayModelFunc {
	return func(irradiance, sunAltitude float64, normalized bool) float64 {
		scalar := 1.0
		if !normalized {
			scalar = math.Sin(sunAltitude)
		}
		return factor * irradiance * scalar * p.Area * p.Efficiency
	}
}

// fullPackInputs builds the standard starting inputs for a run: full
// battery, clock at the first time event, all race actions off.
func fullPackInputs(race *model.Race, car model.Car, targetSpeed float64) sim.Inputs {
	energy := car.Battery.PackEnergy()
	return sim.Inputs{
		Race:        race,
		Car:         car,
		BatterySize: energy,
		InitialState: model.State{
			Distance: 0.0,
			Energy:   energy,
			SOC:      1.0,
			Time:     race.StartTime(),
		},
		InitialActions: model.PreRaceActions(),
		TargetSpeeds:   model.SpeedSchedule{{From: 0.0, Speed: targetSpeed}},
	}
}

// Simulate runs a single sweep point to a verdict and returns the full
// result, trajectory included.
func Simulate(race *model.Race, car model.Car, cfg sim.Config,
	array ArrayParams, pt SweepPoint) (*sim.Result, error) {

	wind := func(distance, time float64) float64 { return pt.WindSpeed }
	engine := sim.New(cfg, wind, arrayModel(pt.ArrayPowerFactor, array), raceEnd(race))
	return engine.Run(fullPackInputs(race, car, pt.VehicleSpeed))
}

// CheckConfigurations simulates the cross product of vehicle speeds, wind
// speeds, and array power factors and reports each cell's outcome. Runs
// share only the immutable race and car values, so they execute on a
// bounded worker pool; results are returned in cross-product order
// regardless of scheduling.
func CheckConfigurations(race *model.Race, car model.Car, cfg sim.Config,
	vehicleSpeeds, windSpeeds, arrayPowerFactors []float64,
	array ArrayParams, workers int) ([]SweepResult, error) {

	if err := race.Validate(); err != nil {
		return nil, fmt.Errorf("race: %w", err)
	}
	if len(vehicleSpeeds) == 0 || len(windSpeeds) == 0 || len(arrayPowerFactors) == 0 {
		return nil, fmt.Errorf("sweep axes must all be non-empty")
	}
	if workers <= 0 {
		workers = 1
	}

	points := make([]SweepPoint, 0, len(vehicleSpeeds)*len(windSpeeds)*len(arrayPowerFactors))
	for _, vs := range vehicleSpeeds {
		for _, ws := range windSpeeds {
			for _, af := range arrayPowerFactors {
				points = append(points, SweepPoint{VehicleSpeed: vs, WindSpeed: ws, ArrayPowerFactor: af})
			}
		}
	}

	results := make([]SweepResult, len(points))
	errs := make([]error, len(points))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each run captures its point by value; nothing mutable is
				// shared between workers.
				pt := points[i]
				res, err := Simulate(race, car, cfg, array, pt)
				if err != nil {
					errs[i] = err
					continue
				}
				results[i] = SweepResult{
					RunID:       uuid.New(),
					Point:       pt,
					Verdict:     res.Verdict,
					Reason:      res.Reason,
					MinSOC:      res.MinSOC(),
					MaxDistance: res.MaxDistance(),
				}
			}
		}()
	}
	for i := range points {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("sweep point %v: %w", points[i], err)
		}
	}
	return results, nil
}

// BatterySearchParams configures FindSmallestBattery.
type BatterySearchParams struct {
	VehicleSpeed     float64 // m/s
	WindSpeed        float64 // m/s
	ArrayPowerFactor float64
	MinParallelCells int
	CellIncrement    int
	// MassPerCell is the extra mass per parallel cell string in kg.
	MassPerCell float64
	Verbose     bool
}

// FindSmallestBattery grows the pack by CellIncrement parallel cells until
// the race can be finished, and returns the first sufficient cell count.
// Each candidate pack adds MassPerCell kg per parallel cell to the car.
func FindSmallestBattery(race *model.Race, car model.Car, cfg sim.Config,
	array ArrayParams, p BatterySearchParams) (int, error) {

	if p.MinParallelCells <= 0 {
		return 0, fmt.Errorf("MinParallelCells must be > 0")
	}
	if p.CellIncrement <= 0 {
		return 0, fmt.Errorf("CellIncrement must be > 0")
	}
	if p.MassPerCell == 0 {
		p.MassPerCell = 2.0
	}

	wind := func(distance, time float64) float64 { return p.WindSpeed }
	engine := sim.New(cfg, wind, arrayModel(p.ArrayPowerFactor, array), raceEnd(race))

	for parallel := p.MinParallelCells; ; parallel += p.CellIncrement {
		battery := car.Battery
		battery.CellsInParallel = parallel

		candidate := car.
			WithMass(car.Mass + float64(parallel)*p.MassPerCell).
			WithBattery(battery)

		res, err := engine.Run(fullPackInputs(race, candidate, p.VehicleSpeed))
		if err != nil {
			return 0, fmt.Errorf("parallel=%d: %w", parallel, err)
		}
		if p.Verbose {
			log.Printf("parallel=%d mass=%.1f minSOC=%.3f maxDistance=%.0f",
				parallel, candidate.Mass, res.MinSOC(), res.MaxDistance())
		}
		if res.Verdict {
			return parallel, nil
		}
	}
}

// CdAStudyPoint pairs a drag area with the smallest sufficient pack.
type CdAStudyPoint struct {
	CdA           float64 // m^2
	ParallelCells int
}

// FindSmallestBatteryOverCdA repeats the smallest-battery search across a
// range of drag areas. The previous answer seeds each search, since a
// slipperier car never needs a bigger pack.
func FindSmallestBatteryOverCdA(race *model.Race, car model.Car, cfg sim.Config,
	array ArrayParams, p BatterySearchParams, cdaMin, cdaMax, cdaStep float64) ([]CdAStudyPoint, error) {

	if cdaStep <= 0 {
		return nil, fmt.Errorf("cdaStep must be > 0")
	}

	var study []CdAStudyPoint
	search := p
	for cda := cdaMin; cda < cdaMax; cda += cdaStep {
		parallel, err := FindSmallestBattery(race, car.WithCdA(cda), cfg, array, search)
		if err != nil {
			return nil, fmt.Errorf("cda=%.3f: %w", cda, err)
		}
		study = append(study, CdAStudyPoint{CdA: cda, ParallelCells: parallel})
		search.MinParallelCells = parallel
	}
	return study, nil
}
