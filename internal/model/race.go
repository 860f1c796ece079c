package model

import (
	"errors"
	"fmt"
)

// Locator maps distance along the route to a geographic position.
// Latitude and longitude are in degrees.
type Locator interface {
	LocationAt(distance float64) (lat, lon float64)
}

// Race is the immutable definition of a race: ordered event lists, speed
// limits, and route geometry. Simulation runs share one Race and never
// mutate it, so sweeps can run concurrently against the same value.
type Race struct {
	DistanceEvents []DistanceEvent // strictly ordered by distance
	TimeEvents     []TimeEvent     // strictly ordered by time
	SpeedLimits    []SpeedLimit    // ordered by distance, first entry at 0
	Locator        Locator
}

func (r *Race) Validate() error {
	if r == nil {
		return errors.New("race is nil")
	}
	if len(r.DistanceEvents) == 0 {
		return errors.New("race has no distance events")
	}
	if len(r.TimeEvents) == 0 {
		return errors.New("race has no time events")
	}
	if len(r.SpeedLimits) == 0 {
		return errors.New("race has no speed limits")
	}
	if r.Locator == nil {
		return errors.New("race has no locator")
	}
	for i := 1; i < len(r.DistanceEvents); i++ {
		if r.DistanceEvents[i].EventDistance() < r.DistanceEvents[i-1].EventDistance() {
			return fmt.Errorf("distance events out of order at %q", r.DistanceEvents[i].EventName())
		}
	}
	for i := 1; i < len(r.TimeEvents); i++ {
		if r.TimeEvents[i].EventTime() < r.TimeEvents[i-1].EventTime() {
			return fmt.Errorf("time events out of order at index %d", i)
		}
	}
	for i := 1; i < len(r.SpeedLimits); i++ {
		if r.SpeedLimits[i].Distance < r.SpeedLimits[i-1].Distance {
			return fmt.Errorf("speed limits out of order at index %d", i)
		}
	}
	return nil
}

// SpeedLimitAt returns the speed limit in force at the given distance.
func (r *Race) SpeedLimitAt(distance float64) float64 {
	limit := r.SpeedLimits[0].Limit
	for _, sl := range r.SpeedLimits {
		if distance < sl.Distance {
			break
		}
		limit = sl.Limit
	}
	return limit
}

// TotalDistance is the distance of the last distance event, i.e. the finish.
func (r *Race) TotalDistance() float64 {
	return r.DistanceEvents[len(r.DistanceEvents)-1].EventDistance()
}

// FinalTime is the time of the last time event, i.e. the end of the last
// driving day.
func (r *Race) FinalTime() float64 {
	return r.TimeEvents[len(r.TimeEvents)-1].EventTime()
}

// StartTime is the time of the first time event.
func (r *Race) StartTime() float64 {
	return r.TimeEvents[0].EventTime()
}

// SpeedPoint sets the scheduled target speed from a given distance onward.
type SpeedPoint struct {
	From  float64 // m
	Speed float64 // m/s
}

// SpeedSchedule is an ordered list of target speeds by distance.
type SpeedSchedule []SpeedPoint

// TargetAt returns the scheduled target speed at the given distance: the
// speed of the last point whose From is at or before the distance.
func (s SpeedSchedule) TargetAt(distance float64) float64 {
	speed := s[0].Speed
	for _, p := range s {
		if distance < p.From {
			break
		}
		speed = p.Speed
	}
	return speed
}

// Waypoint anchors a geographic position for all distances up to UpTo.
type Waypoint struct {
	UpTo float64 // m
	Lat  float64 // degrees
	Lon  float64 // degrees
}

// WaypointLocator is a coarse Locator built from a handful of fixed
// waypoints, for races without full route geometry.
type WaypointLocator []Waypoint

func (w WaypointLocator) LocationAt(distance float64) (lat, lon float64) {
	for _, p := range w {
		if distance < p.UpTo {
			return p.Lat, p.Lon
		}
	}
	last := w[len(w)-1]
	return last.Lat, last.Lon
}

// FixedLocator pins every distance to a single position. Useful in tests.
type FixedLocator struct {
	Lat float64 // degrees
	Lon float64 // degrees
}

func (f FixedLocator) LocationAt(distance float64) (lat, lon float64) {
	return f.Lat, f.Lon
}
