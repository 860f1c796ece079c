package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"solar-race-sim/internal/model"
	"solar-race-sim/internal/route"
	"solar-race-sim/internal/units"
)

// RaceConfig is the on-disk race definition (YAML). Quantities carry
// explicit units in their field names; timestamps are RFC 3339 with offset.
type RaceConfig struct {
	Name string `yaml:"name"`

	// RouteKML points at a KML route file; if empty, Waypoints provide a
	// coarse locator instead.
	RouteKML  string           `yaml:"route_kml"`
	Waypoints []WaypointConfig `yaml:"waypoints"`

	DistanceEvents []DistanceEventConfig `yaml:"distance_events"`
	TimeEvents     []TimeEventConfig     `yaml:"time_events"`
	SpeedLimits    []SpeedLimitConfig    `yaml:"speed_limits"`
}

type WaypointConfig struct {
	UpToKm float64 `yaml:"up_to_km"`
	Lat    float64 `yaml:"lat"`
	Lon    float64 `yaml:"lon"`
}

type DistanceEventConfig struct {
	Type          string  `yaml:"type"` // control_stop | stage_stop
	Name          string  `yaml:"name"`
	DistanceKm    float64 `yaml:"distance_km"`
	DurationMin   float64 `yaml:"duration_min"`
	TargetArrival string  `yaml:"target_arrival"`
	LatestArrival string  `yaml:"latest_arrival"`
}

type TimeEventConfig struct {
	Type string `yaml:"type"` // start_of_day | end_of_day | start_grid_charge | end_grid_charge
	Name string `yaml:"name"`
	Time string `yaml:"time"`
}

type SpeedLimitConfig struct {
	DistanceKm float64 `yaml:"distance_km"`
	LimitKmh   float64 `yaml:"limit_kmh"`
}

// LoadRace reads a race definition file and builds the immutable Race.
func LoadRace(path string) (*model.Race, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rc RaceConfig
	if err := yaml.Unmarshal(raw, &rc); err != nil {
		return nil, err
	}
	return rc.ToRace(filepath.Dir(path))
}

// ToRace converts the config to a model.Race, resolving RouteKML relative
// to dir and converting all quantities to SI units.
func (rc *RaceConfig) ToRace(dir string) (*model.Race, error) {
	race := &model.Race{}

	for _, ec := range rc.DistanceEvents {
		distance, err := units.Distance(ec.DistanceKm, "km")
		if err != nil {
			return nil, err
		}
		latest, err := units.ParseDate(ec.LatestArrival)
		if err != nil {
			return nil, fmt.Errorf("distance event %q: %w", ec.Name, err)
		}
		switch ec.Type {
		case "control_stop":
			duration, err := units.Duration(ec.DurationMin, "min")
			if err != nil {
				return nil, err
			}
			race.DistanceEvents = append(race.DistanceEvents, model.ControlStop{
				Name:          ec.Name,
				Distance:      distance,
				Duration:      duration,
				LatestArrival: latest,
			})
		case "stage_stop":
			target := latest
			if ec.TargetArrival != "" {
				target, err = units.ParseDate(ec.TargetArrival)
				if err != nil {
					return nil, fmt.Errorf("distance event %q: %w", ec.Name, err)
				}
			}
			race.DistanceEvents = append(race.DistanceEvents, model.StageStop{
				Name:          ec.Name,
				Distance:      distance,
				TargetArrival: target,
				LatestArrival: latest,
			})
		default:
			return nil, fmt.Errorf("distance event %q: unknown type %q", ec.Name, ec.Type)
		}
	}

	for i, ec := range rc.TimeEvents {
		t, err := units.ParseDate(ec.Time)
		if err != nil {
			return nil, fmt.Errorf("time event %d: %w", i, err)
		}
		switch ec.Type {
		case "start_of_day":
			race.TimeEvents = append(race.TimeEvents, model.StartOfDay{Name: ec.Name, Time: t})
		case "end_of_day":
			race.TimeEvents = append(race.TimeEvents, model.EndOfDay{Name: ec.Name, Time: t})
		case "start_grid_charge":
			race.TimeEvents = append(race.TimeEvents, model.StartGridCharge{Time: t})
		case "end_grid_charge":
			race.TimeEvents = append(race.TimeEvents, model.EndGridCharge{Time: t})
		default:
			return nil, fmt.Errorf("time event %d: unknown type %q", i, ec.Type)
		}
	}

	for _, sc := range rc.SpeedLimits {
		distance, err := units.Distance(sc.DistanceKm, "km")
		if err != nil {
			return nil, err
		}
		limit, err := units.Speed(sc.LimitKmh, "km/h")
		if err != nil {
			return nil, err
		}
		race.SpeedLimits = append(race.SpeedLimits, model.SpeedLimit{Distance: distance, Limit: limit})
	}

	locator, err := rc.buildLocator(dir)
	if err != nil {
		return nil, err
	}
	race.Locator = locator

	if err := race.Validate(); err != nil {
		return nil, err
	}
	return race, nil
}

func (rc *RaceConfig) buildLocator(dir string) (model.Locator, error) {
	if rc.RouteKML != "" {
		path, err := route.LoadKML(resolvePath(dir, rc.RouteKML))
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", rc.RouteKML, err)
		}
		return path, nil
	}
	if len(rc.Waypoints) == 0 {
		return nil, errors.New("race needs either route_kml or waypoints")
	}
	wl := make(model.WaypointLocator, len(rc.Waypoints))
	for i, w := range rc.Waypoints {
		upTo, err := units.Distance(w.UpToKm, "km")
		if err != nil {
			return nil, err
		}
		wl[i] = model.Waypoint{UpTo: upTo, Lat: w.Lat, Lon: w.Lon}
	}
	return wl, nil
}
