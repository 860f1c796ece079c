package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"solar-race-sim/internal/model"
	"solar-race-sim/internal/sim"
	"solar-race-sim/internal/solver"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load car/battery parameters from separate YAML files.
	// Explicit car/battery sections override fields from the files.
	CarFile     string        `yaml:"car_file"`
	BatteryFile string        `yaml:"battery_file"`
	RaceFile    string        `yaml:"race_file"`
	Car         CarConfig     `yaml:"car"`
	Battery     BatteryConfig `yaml:"battery"`
	Sim         SimConfig     `yaml:"sim"`
	Sweep       SweepConfig   `yaml:"sweep"`
}

type CarConfig struct {
	Name                 string  `yaml:"name"`
	MassKg               float64 `yaml:"mass_kg"`
	CdAM2                float64 `yaml:"cda_m2"`
	Crr                  float64 `yaml:"crr"`
	IdlePowerLossW       float64 `yaml:"idle_power_loss_w"`
	PowertrainEfficiency float64 `yaml:"powertrain_efficiency"`
	MotorEfficiency      float64 `yaml:"motor_efficiency"`
	ChargerEfficiency    float64 `yaml:"charger_efficiency"`
}

type BatteryConfig struct {
	Name            string  `yaml:"name"`
	CellESROhm      float64 `yaml:"cell_esr_ohm"`
	CellsInSeries   int     `yaml:"cells_in_series"`
	CellsInParallel int     `yaml:"cells_in_parallel"`
	EnergyPerCellJ  float64 `yaml:"energy_per_cell_j"`
}

type SimConfig struct {
	DtS             float64 `yaml:"dt_s"`
	RegenFactor     float64 `yaml:"regen_factor"`
	ACChargeCurrent float64 `yaml:"ac_charge_current_a"`
	ACChargeVoltage float64 `yaml:"ac_charge_voltage_v"`
	PassengerMassKg float64 `yaml:"passenger_mass_kg"`
	TemperatureC    float64 `yaml:"temperature_c"`
	Humidity        float64 `yaml:"humidity"`
	MaxTicks        int     `yaml:"max_ticks"`
}

type SweepConfig struct {
	VehicleSpeedsMps  []float64 `yaml:"vehicle_speeds_mps"`
	WindSpeedsMps     []float64 `yaml:"wind_speeds_mps"`
	ArrayPowerFactors []float64 `yaml:"array_power_factors"`
	ArrayAreaM2       float64   `yaml:"array_area_m2"`
	ArrayEfficiency   float64   `yaml:"array_efficiency"`
	Workers           int       `yaml:"workers"`
}

// Load reads, merges, and validates a config file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if c.CarFile != "" {
		loaded, err := loadCarFile(resolvePath(dir, c.CarFile))
		if err != nil {
			return nil, err
		}
		c.Car = MergeCar(loaded, c.Car)
	}
	if c.BatteryFile != "" {
		loaded, err := loadBatteryFile(resolvePath(dir, c.BatteryFile))
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, c.Battery)
	}
	if c.RaceFile != "" {
		c.RaceFile = resolvePath(dir, c.RaceFile)
	}
	return &c, nil
}

// resolvePath prefers interpreting relative paths as relative to the config
// file directory, falling back to the path as given (relative to cwd).
func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	cand := filepath.Join(dir, path)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return path
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.ToCar().Validate(); err != nil {
		return fmt.Errorf("car config invalid: %w", err)
	}
	return nil
}

// ToCar converts the merged car+battery configuration to a model.Car.
func (c *Config) ToCar() model.Car {
	return model.Car{
		Mass:                 c.Car.MassKg,
		CdA:                  c.Car.CdAM2,
		Crr:                  c.Car.Crr,
		IdlePowerLoss:        c.Car.IdlePowerLossW,
		PowertrainEfficiency: c.Car.PowertrainEfficiency,
		MotorEfficiency:      c.Car.MotorEfficiency,
		ChargerEfficiency:    c.Car.ChargerEfficiency,
		Battery: model.Battery{
			CellESR:         c.Battery.CellESROhm,
			CellsInSeries:   c.Battery.CellsInSeries,
			CellsInParallel: c.Battery.CellsInParallel,
			EnergyPerCell:   c.Battery.EnergyPerCellJ,
		},
	}
}

// ToSimConfig converts the sim section; zero fields keep engine defaults.
func (c *Config) ToSimConfig() sim.Config {
	return sim.Config{
		Dt:              c.Sim.DtS,
		RegenFactor:     c.Sim.RegenFactor,
		ACChargeCurrent: c.Sim.ACChargeCurrent,
		ACChargeVoltage: c.Sim.ACChargeVoltage,
		PassengerMass:   c.Sim.PassengerMassKg,
		Temperature:     c.Sim.TemperatureC,
		Humidity:        c.Sim.Humidity,
		MaxTicks:        c.Sim.MaxTicks,
	}
}

// ToArrayParams converts the sweep's array sizing, defaulting to a 5 m^2
// array at 25% efficiency.
func (c *Config) ToArrayParams() solver.ArrayParams {
	p := solver.ArrayParams{Area: c.Sweep.ArrayAreaM2, Efficiency: c.Sweep.ArrayEfficiency}
	if p.Area == 0 {
		p.Area = 5.0
	}
	if p.Efficiency == 0 {
		p.Efficiency = 0.25
	}
	return p
}

type carFileWrapper struct {
	Car CarConfig `yaml:"car"`
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

func loadCarFile(path string) (CarConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return CarConfig{}, err
	}
	var w carFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return CarConfig{}, err
	}
	return w.Car, nil
}

func loadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, err
	}
	return w.Battery, nil
}

// MergeCar overlays non-zero fields from override onto base.
func MergeCar(base, override CarConfig) CarConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.MassKg != 0 {
		out.MassKg = override.MassKg
	}
	if override.CdAM2 != 0 {
		out.CdAM2 = override.CdAM2
	}
	if override.Crr != 0 {
		out.Crr = override.Crr
	}
	if override.IdlePowerLossW != 0 {
		out.IdlePowerLossW = override.IdlePowerLossW
	}
	if override.PowertrainEfficiency != 0 {
		out.PowertrainEfficiency = override.PowertrainEfficiency
	}
	if override.MotorEfficiency != 0 {
		out.MotorEfficiency = override.MotorEfficiency
	}
	if override.ChargerEfficiency != 0 {
		out.ChargerEfficiency = override.ChargerEfficiency
	}
	return out
}

// MergeBattery overlays non-zero fields from override onto base.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CellESROhm != 0 {
		out.CellESROhm = override.CellESROhm
	}
	if override.CellsInSeries != 0 {
		out.CellsInSeries = override.CellsInSeries
	}
	if override.CellsInParallel != 0 {
		out.CellsInParallel = override.CellsInParallel
	}
	if override.EnergyPerCellJ != 0 {
		out.EnergyPerCellJ = override.EnergyPerCellJ
	}
	return out
}
