package model

import (
	"errors"
	"fmt"
)

// Car bundles the vehicle parameters the simulation needs.
// Units:
// - Mass: kg
// - CdA: m^2 (drag coefficient x frontal area)
// - IdlePowerLoss: W
// - Efficiencies: 0..1
type Car struct {
	Mass                 float64
	CdA                  float64
	Crr                  float64
	IdlePowerLoss        float64
	PowertrainEfficiency float64
	MotorEfficiency      float64
	ChargerEfficiency    float64
	Battery              Battery
}

func (c Car) Validate() error {
	if c.Mass <= 0 {
		return errors.New("Mass must be > 0")
	}
	if c.CdA <= 0 {
		return errors.New("CdA must be > 0")
	}
	if c.Crr < 0 {
		return errors.New("Crr must be >= 0")
	}
	if c.IdlePowerLoss < 0 {
		return errors.New("IdlePowerLoss must be >= 0")
	}
	if c.PowertrainEfficiency <= 0 || c.PowertrainEfficiency > 1 {
		return errors.New("PowertrainEfficiency must be in (0, 1]")
	}
	if c.MotorEfficiency <= 0 || c.MotorEfficiency > 1 {
		return errors.New("MotorEfficiency must be in (0, 1]")
	}
	if c.ChargerEfficiency <= 0 || c.ChargerEfficiency > 1 {
		return errors.New("ChargerEfficiency must be in (0, 1]")
	}
	if err := c.Battery.Validate(); err != nil {
		return fmt.Errorf("battery: %w", err)
	}
	return nil
}

// WithMass returns a copy of the car with the given mass.
func (c Car) WithMass(mass float64) Car {
	c.Mass = mass
	return c
}

// WithCdA returns a copy of the car with the given drag area.
func (c Car) WithCdA(cda float64) Car {
	c.CdA = cda
	return c
}

// WithBattery returns a copy of the car with the given battery.
func (c Car) WithBattery(b Battery) Car {
	c.Battery = b
	return c
}
