package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-race-sim/internal/model"
	"solar-race-sim/internal/sim"
)

// darwinMorning is 2021-10-13 09:00 in Darwin (UTC+9:30): the sun is well
// up, so runs starting here drive immediately.
const darwinMorning = 1634081400.0

// darwinRace is a single-stage race starting at darwinMorning with the
// finish the given distance away and a six-hour driving day.
func darwinRace(finish float64) *model.Race {
	return &model.Race{
		DistanceEvents: []model.DistanceEvent{
			model.StageStop{
				Name:          "finish",
				Distance:      finish,
				TargetArrival: darwinMorning + 5.0*3600.0,
				LatestArrival: darwinMorning + 6.0*3600.0,
			},
		},
		TimeEvents: []model.TimeEvent{
			model.StartOfDay{Name: "day 1", Time: darwinMorning},
			model.EndOfDay{Name: "day 1", Time: darwinMorning + 6.0*3600.0},
		},
		SpeedLimits: []model.SpeedLimit{{Distance: 0.0, Limit: 30.0}},
		Locator:     model.FixedLocator{Lat: -12.46, Lon: 130.84},
	}
}

func solverTestCar() model.Car {
	return model.Car{
		Mass:                 245.0,
		CdA:                  0.17,
		Crr:                  0.004,
		IdlePowerLoss:        20.0,
		PowertrainEfficiency: 0.97,
		MotorEfficiency:      0.97,
		ChargerEfficiency:    0.93,
		Battery: model.Battery{
			CellESR:         0.025,
			CellsInSeries:   36,
			CellsInParallel: 11,
			EnergyPerCell:   46800.0,
		},
	}
}

func testArray() ArrayParams {
	return ArrayParams{Area: 5.0, Efficiency: 0.25}
}

func TestSimulateFinishesShortRace(t *testing.T) {
	race := darwinRace(10_000.0)

	res, err := Simulate(race, solverTestCar(), sim.Config{}, testArray(),
		SweepPoint{VehicleSpeed: 20.0, ArrayPowerFactor: 1.0})
	require.NoError(t, err)

	assert.True(t, res.Verdict)
	assert.Nil(t, res.Reason)
	assert.GreaterOrEqual(t, res.MaxDistance(), 10_000.0)
	assert.Greater(t, res.MinSOC(), 0.5)
}

func TestSimulateRunsOutOfTime(t *testing.T) {
	// 10 km at 0.2 m/s cannot beat the six-hour day.
	race := darwinRace(10_000.0)

	res, err := Simulate(race, solverTestCar(), sim.Config{}, testArray(),
		SweepPoint{VehicleSpeed: 0.2, ArrayPowerFactor: 1.0})
	require.NoError(t, err)

	assert.False(t, res.Verdict)
	assert.Less(t, res.MaxDistance(), 10_000.0)
}

func TestCheckConfigurationsOrderAndIDs(t *testing.T) {
	race := darwinRace(5_000.0)

	results, err := CheckConfigurations(race, solverTestCar(), sim.Config{},
		[]float64{20.0, 15.0}, []float64{0.0}, []float64{1.0, 0.5},
		testArray(), 2)
	require.NoError(t, err)
	require.Len(t, results, 4)

	// Results come back in cross-product order regardless of scheduling.
	expected := []SweepPoint{
		{VehicleSpeed: 20.0, WindSpeed: 0.0, ArrayPowerFactor: 1.0},
		{VehicleSpeed: 20.0, WindSpeed: 0.0, ArrayPowerFactor: 0.5},
		{VehicleSpeed: 15.0, WindSpeed: 0.0, ArrayPowerFactor: 1.0},
		{VehicleSpeed: 15.0, WindSpeed: 0.0, ArrayPowerFactor: 0.5},
	}
	seen := make(map[string]bool)
	for i, r := range results {
		assert.Equal(t, expected[i], r.Point, "result %d", i)
		assert.True(t, r.Verdict, "result %d", i)
		assert.False(t, seen[r.RunID.String()], "duplicate run id")
		seen[r.RunID.String()] = true
	}
}

func TestCheckConfigurationsValidation(t *testing.T) {
	race := darwinRace(5_000.0)

	_, err := CheckConfigurations(race, solverTestCar(), sim.Config{},
		nil, []float64{0.0}, []float64{1.0}, testArray(), 1)
	assert.Error(t, err)

	_, err = CheckConfigurations(&model.Race{}, solverTestCar(), sim.Config{},
		[]float64{20.0}, []float64{0.0}, []float64{1.0}, testArray(), 1)
	assert.Error(t, err)
}

func TestFindSmallestBatteryParamErrors(t *testing.T) {
	race := darwinRace(5_000.0)

	_, err := FindSmallestBattery(race, solverTestCar(), sim.Config{}, testArray(),
		BatterySearchParams{VehicleSpeed: 20.0, MinParallelCells: 0, CellIncrement: 1})
	assert.Error(t, err)

	_, err = FindSmallestBattery(race, solverTestCar(), sim.Config{}, testArray(),
		BatterySearchParams{VehicleSpeed: 20.0, MinParallelCells: 1, CellIncrement: 0})
	assert.Error(t, err)
}

func TestFindSmallestBatteryImmediateSuccess(t *testing.T) {
	race := darwinRace(5_000.0)

	parallel, err := FindSmallestBattery(race, solverTestCar(), sim.Config{}, testArray(),
		BatterySearchParams{
			VehicleSpeed:     20.0,
			ArrayPowerFactor: 1.0,
			MinParallelCells: 11,
			CellIncrement:    1,
		})
	require.NoError(t, err)
	assert.Equal(t, 11, parallel)
}

func TestFindSmallestBatteryGrowsThePack(t *testing.T) {
	// 200 km with no array power: the single-string pack cannot carry it,
	// so the search has to grow.
	race := darwinRace(200_000.0)
	car := solverTestCar()

	parallel, err := FindSmallestBattery(race, car, sim.Config{}, testArray(),
		BatterySearchParams{
			VehicleSpeed:     20.0,
			ArrayPowerFactor: 0.0,
			MinParallelCells: 1,
			CellIncrement:    1,
			MassPerCell:      2.0,
		})
	require.NoError(t, err)
	require.Greater(t, parallel, 1)

	// The found pack finishes; one string fewer does not.
	point := SweepPoint{VehicleSpeed: 20.0, ArrayPowerFactor: 0.0}

	battery := car.Battery
	battery.CellsInParallel = parallel
	found := car.WithMass(car.Mass + float64(parallel)*2.0).WithBattery(battery)
	res, err := Simulate(race, found, sim.Config{}, testArray(), point)
	require.NoError(t, err)
	assert.True(t, res.Verdict)

	battery.CellsInParallel = parallel - 1
	smaller := car.WithMass(car.Mass + float64(parallel-1)*2.0).WithBattery(battery)
	res, err = Simulate(race, smaller, sim.Config{}, testArray(), point)
	require.NoError(t, err)
	assert.False(t, res.Verdict)
}

func TestFindSmallestBatteryOverCdA(t *testing.T) {
	race := darwinRace(5_000.0)

	study, err := FindSmallestBatteryOverCdA(race, solverTestCar(), sim.Config{},
		testArray(), BatterySearchParams{
			VehicleSpeed:     20.0,
			ArrayPowerFactor: 1.0,
			MinParallelCells: 1,
			CellIncrement:    1,
		}, 0.15, 0.25, 0.05)
	require.NoError(t, err)
	require.Len(t, study, 2)

	assert.Equal(t, 0.15, study[0].CdA)
	assert.InDelta(t, 0.20, study[1].CdA, 1e-9)
	// A draggier car never needs a smaller pack than the one before it.
	assert.GreaterOrEqual(t, study[1].ParallelCells, study[0].ParallelCells)
}
