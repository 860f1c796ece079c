// Package earth holds physical constants for Earth used by the physics
// and solar models.
package earth

const (
	// EquatorialRadius is Earth's equatorial radius in meters.
	EquatorialRadius = 6378137.0

	// PolarRadius is Earth's polar radius in meters.
	PolarRadius = 6356752.3

	// MeanRadius is Earth's mean radius in meters.
	MeanRadius = (EquatorialRadius*2.0 + PolarRadius) / 3.0

	// AtmosphereThickness is the effective thickness of the atmosphere in
	// meters, used by the air-mass model.
	AtmosphereThickness = 9000.0

	// Gravity is standard acceleration due to gravity in m/s^2.
	Gravity = 9.807
)
