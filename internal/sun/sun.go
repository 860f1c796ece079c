// Package sun computes the sun's position and clear-sky irradiance.
//
// The position chain follows the sunrise-equation formulation: mean
// anomaly, equation of center, ecliptic longitude, declination, right
// ascension, and sidereal time. Irradiance uses the air-mass model with a
// 10% diffuse uplift.
package sun

import (
	"math"

	"solar-race-sim/internal/earth"
)

const (
	// j1970 is the Julian day of the unix epoch.
	j1970 = 2440588.0

	// j2000 is the Julian day of 2000-01-01 12:00.
	j2000 = 2451545.0

	secondsInDay = 60 * 60 * 24

	// solarIntensity is the solar intensity outside the atmosphere in W/m^2.
	solarIntensity = 1353.0
)

// Solar mean anomaly coefficients.
var (
	m0 = radians(357.5291)
	m1 = radians(0.98560028)
)

// Equation of center coefficients for Earth.
var (
	c1 = radians(1.9148)
	c2 = radians(0.0200)
	c3 = radians(0.0003)
)

// argumentOfPerihelion for Earth's orbit.
var argumentOfPerihelion = radians(102.9372)

// axialTilt is Earth's maximum axial tilt toward the sun.
var axialTilt = radians(23.45)

// Sidereal time coefficients.
var (
	th0 = radians(280.1600)
	th1 = radians(360.9856235)
)

// rx is the ratio of Earth's mean radius to its atmospheric thickness.
const rx = earth.MeanRadius / earth.AtmosphereThickness

func radians(deg float64) float64 { return deg * math.Pi / 180.0 }

// julianDate converts seconds since the unix epoch to a Julian date.
func julianDate(date float64) float64 {
	return date/secondsInDay - 0.5 + j1970
}

func solarMeanAnomaly(j float64) float64 {
	return m0 + m1*(j-j2000)
}

func equationOfCenter(m float64) float64 {
	return c1*math.Sin(m) + c2*math.Sin(2.0*m) + c3*math.Sin(3.0*m)
}

// TODO: is this missing a reduction mod 2*pi?
func eclipticLongitude(m, c float64) float64 {
	return m + argumentOfPerihelion + c + math.Pi
}

func declination(lsun float64) float64 {
	return math.Asin(math.Sin(lsun) * math.Sin(axialTilt))
}

func rightAscension(lsun float64) float64 {
	return math.Atan2(math.Sin(lsun)*math.Cos(axialTilt), math.Cos(lsun))
}

// siderealTime takes the Julian day and the west longitude in radians.
func siderealTime(j, lw float64) float64 {
	return th0 + th1*(j-j2000) - lw
}

func hourAngle(th, a float64) float64 {
	return th - a
}

func altitude(th, a, phi, delta float64) float64 {
	h := hourAngle(th, a)
	return math.Asin(math.Sin(phi)*math.Sin(delta) +
		math.Cos(phi)*math.Cos(delta)*math.Cos(h))
}

func azimuth(th, a, phi, delta float64) float64 {
	h := hourAngle(th, a)
	return math.Atan2(math.Sin(h), math.Cos(h)*math.Sin(phi)-math.Tan(delta)*math.Cos(phi))
}

// Position returns the sun's altitude and azimuth in radians given seconds
// since the unix epoch and the observer's longitude and latitude in degrees.
func Position(date, longitude, latitude float64) (alt, az float64) {
	j := julianDate(date)
	lw := -radians(longitude)
	phi := radians(latitude)

	m := solarMeanAnomaly(j)
	c := equationOfCenter(m)
	lsun := eclipticLongitude(m, c)
	d := declination(lsun)
	a := rightAscension(lsun)
	th := siderealTime(j, lw)

	return altitude(th, a, phi, d), azimuth(th, a, phi, d)
}

// Irradiance returns the shortwave radiation in W/m^2 reaching the surface
// for the given solar altitude in radians.
func Irradiance(alt float64) float64 {
	zenith := math.Pi/2.0 - alt

	// Air mass along the slant path through the atmosphere.
	am := math.Sqrt(math.Pow(rx*math.Cos(zenith), 2.0)+2.0*rx+1.0) - rx*math.Cos(zenith)

	return 1.1 * solarIntensity * math.Pow(0.7, math.Pow(am, 0.678))
}
