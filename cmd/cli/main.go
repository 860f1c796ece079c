package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"solar-race-sim/internal/config"
	"solar-race-sim/internal/model"
	"solar-race-sim/internal/sim"
	"solar-race-sim/internal/solver"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	case "battery":
		cmdBattery(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/config.yaml --speed 22 --out results/trajectory.csv")
	fmt.Println("  cli sweep --config examples/config.yaml")
	fmt.Println("  cli battery --config examples/config.yaml --speed 22 --wind 0 --array-factor 1")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate runs one race and writes the per-second trajectory CSV")
	fmt.Println("  - sweep checks which speed/wind/array combinations can finish")
	fmt.Println("  - battery finds the smallest pack (parallel cells) that can finish")
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	speed := fs.Float64("speed", 22.0, "Target speed in m/s")
	windSpeed := fs.Float64("wind", 0.0, "Wind speed in m/s (headwind negative)")
	arrayFactor := fs.Float64("array-factor", 1.0, "Array power derating factor")
	outPath := fs.String("out", "results/trajectory.csv", "Output CSV path")
	_ = fs.Parse(args)

	cfg, race := loadAll(*cfgPath)

	res, err := solver.Simulate(race, cfg.ToCar(), cfg.ToSimConfig(), cfg.ToArrayParams(),
		solver.SweepPoint{VehicleSpeed: *speed, WindSpeed: *windSpeed, ArrayPowerFactor: *arrayFactor})
	if err != nil {
		fatal(err)
	}

	fmt.Printf("verdict=%v", res.Verdict)
	if res.Reason != nil {
		fmt.Printf(" (%s)", res.Reason)
	}
	fmt.Printf(" minSOC=%.3f maxDistance=%.1fkm gridEnergy=%.1fkWh\n",
		res.MinSOC(), res.MaxDistance()/1000.0, res.GridEnergy/3.6e6)

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fatal(err)
	}
	if err := sim.WriteTrajectoryCSV(*outPath, res.Trajectory); err != nil {
		fatal(err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(res.Trajectory), *outPath)
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	workers := fs.Int("workers", 0, "Worker count (default from config)")
	_ = fs.Parse(args)

	cfg, race := loadAll(*cfgPath)

	w := cfg.Sweep.Workers
	if *workers > 0 {
		w = *workers
	}

	results, err := solver.CheckConfigurations(race, cfg.ToCar(), cfg.ToSimConfig(),
		cfg.Sweep.VehicleSpeedsMps, cfg.Sweep.WindSpeedsMps, cfg.Sweep.ArrayPowerFactors,
		cfg.ToArrayParams(), w)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("%-8s %-8s %-8s %-9s %-8s %-12s %s\n",
		"speed", "wind", "array", "finished", "minSOC", "maxDist(km)", "reason")
	for _, r := range results {
		reason := ""
		if r.Reason != nil {
			reason = r.Reason.String()
		}
		fmt.Printf("%-8.1f %-8.1f %-8.2f %-9v %-8.3f %-12.1f %s\n",
			r.Point.VehicleSpeed, r.Point.WindSpeed, r.Point.ArrayPowerFactor,
			r.Verdict, r.MinSOC, r.MaxDistance/1000.0, reason)
	}
}

func cmdBattery(args []string) {
	fs := flag.NewFlagSet("battery", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	speed := fs.Float64("speed", 22.0, "Target speed in m/s")
	windSpeed := fs.Float64("wind", 0.0, "Wind speed in m/s")
	arrayFactor := fs.Float64("array-factor", 1.0, "Array power derating factor")
	minParallel := fs.Int("min-parallel", 1, "Starting parallel cell count")
	increment := fs.Int("increment", 1, "Parallel cells added per attempt")
	verbose := fs.Bool("v", false, "Log each attempt")
	_ = fs.Parse(args)

	cfg, race := loadAll(*cfgPath)

	parallel, err := solver.FindSmallestBattery(race, cfg.ToCar(), cfg.ToSimConfig(),
		cfg.ToArrayParams(), solver.BatterySearchParams{
			VehicleSpeed:     *speed,
			WindSpeed:        *windSpeed,
			ArrayPowerFactor: *arrayFactor,
			MinParallelCells: *minParallel,
			CellIncrement:    *increment,
			Verbose:          *verbose,
		})
	if err != nil {
		fatal(err)
	}

	battery := cfg.ToCar().Battery
	battery.CellsInParallel = parallel
	fmt.Printf("smallest pack: %d parallel cells (%.1f kWh)\n",
		parallel, battery.PackEnergy()/3.6e6)
}

func loadAll(cfgPath string) (*config.Config, *model.Race) {
	if cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal(err)
	}
	if cfg.RaceFile == "" {
		fatal(fmt.Errorf("config has no race_file"))
	}
	race, err := config.LoadRace(cfg.RaceFile)
	if err != nil {
		fatal(err)
	}
	return cfg, race
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
