package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-race-sim/internal/model"
)

const raceYAML = `name: test race
waypoints:
  - up_to_km: 500
    lat: -12.46
    lon: 130.84
  - up_to_km: 1000
    lat: -16.26
    lon: 133.37
distance_events:
  - type: control_stop
    name: katherine
    distance_km: 322
    duration_min: 30
    latest_arrival: "2023-10-22T15:00:00+09:30"
  - type: stage_stop
    name: finish
    distance_km: 1000
    target_arrival: "2023-10-23T11:00:00+09:30"
    latest_arrival: "2023-10-23T14:00:00+09:30"
time_events:
  - type: start_of_day
    name: day 1
    time: "2023-10-22T08:30:00+09:30"
  - type: start_grid_charge
    time: "2023-10-22T17:00:00+09:30"
  - type: end_grid_charge
    time: "2023-10-22T23:00:00+09:30"
  - type: end_of_day
    time: "2023-10-23T17:00:00+09:30"
speed_limits:
  - distance_km: 0
    limit_kmh: 100
`

func TestLoadRace(t *testing.T) {
	path := writeFile(t, t.TempDir(), "race.yaml", raceYAML)

	race, err := LoadRace(path)
	require.NoError(t, err)
	require.NoError(t, race.Validate())

	require.Len(t, race.DistanceEvents, 2)
	cs, ok := race.DistanceEvents[0].(model.ControlStop)
	require.True(t, ok)
	assert.Equal(t, "katherine", cs.Name)
	assert.Equal(t, 322_000.0, cs.Distance)
	assert.Equal(t, 1800.0, cs.Duration)

	ss, ok := race.DistanceEvents[1].(model.StageStop)
	require.True(t, ok)
	assert.Equal(t, 1_000_000.0, ss.Distance)
	assert.Less(t, ss.TargetArrival, ss.LatestArrival)

	require.Len(t, race.TimeEvents, 4)
	sod, ok := race.TimeEvents[0].(model.StartOfDay)
	require.True(t, ok)
	assert.Equal(t, 1697929200.0, sod.Time)
	_, ok = race.TimeEvents[1].(model.StartGridCharge)
	assert.True(t, ok)
	_, ok = race.TimeEvents[2].(model.EndGridCharge)
	assert.True(t, ok)
	_, ok = race.TimeEvents[3].(model.EndOfDay)
	assert.True(t, ok)

	require.Len(t, race.SpeedLimits, 1)
	assert.InDelta(t, 100.0/3.6, race.SpeedLimits[0].Limit, 1e-9)

	// Waypoint locator snaps to the nearest anchor by distance.
	lat, _ := race.Locator.LocationAt(0.0)
	assert.Equal(t, -12.46, lat)
	lat, _ = race.Locator.LocationAt(900_000.0)
	assert.Equal(t, -16.26, lat)
}

func TestStageStopTargetDefaultsToLatest(t *testing.T) {
	rc := RaceConfig{
		Waypoints: []WaypointConfig{{UpToKm: 10.0, Lat: -12.46, Lon: 130.84}},
		DistanceEvents: []DistanceEventConfig{{
			Type:          "stage_stop",
			Name:          "finish",
			DistanceKm:    10.0,
			LatestArrival: "2023-10-22T17:00:00+09:30",
		}},
		TimeEvents: []TimeEventConfig{{
			Type: "start_of_day",
			Time: "2023-10-22T08:30:00+09:30",
		}},
		SpeedLimits: []SpeedLimitConfig{{DistanceKm: 0.0, LimitKmh: 100.0}},
	}

	race, err := rc.ToRace(t.TempDir())
	require.NoError(t, err)

	ss := race.DistanceEvents[0].(model.StageStop)
	assert.Equal(t, ss.LatestArrival, ss.TargetArrival)
}

func TestToRaceRejectsUnknownTypes(t *testing.T) {
	rc := RaceConfig{
		Waypoints: []WaypointConfig{{UpToKm: 10.0, Lat: -12.46, Lon: 130.84}},
		DistanceEvents: []DistanceEventConfig{{
			Type:          "lunch_break",
			Name:          "nope",
			DistanceKm:    5.0,
			LatestArrival: "2023-10-22T17:00:00+09:30",
		}},
	}
	_, err := rc.ToRace(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")

	rc = RaceConfig{
		Waypoints:  []WaypointConfig{{UpToKm: 10.0, Lat: -12.46, Lon: 130.84}},
		TimeEvents: []TimeEventConfig{{Type: "siesta", Time: "2023-10-22T12:00:00+09:30"}},
	}
	_, err = rc.ToRace(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestToRaceRejectsBadTimestamp(t *testing.T) {
	rc := RaceConfig{
		Waypoints: []WaypointConfig{{UpToKm: 10.0, Lat: -12.46, Lon: 130.84}},
		TimeEvents: []TimeEventConfig{{
			Type: "start_of_day",
			Time: "yesterday",
		}},
	}
	_, err := rc.ToRace(t.TempDir())
	assert.Error(t, err)
}

func TestToRaceNeedsLocator(t *testing.T) {
	rc := RaceConfig{
		DistanceEvents: []DistanceEventConfig{{
			Type:          "stage_stop",
			Name:          "finish",
			DistanceKm:    10.0,
			LatestArrival: "2023-10-22T17:00:00+09:30",
		}},
		TimeEvents: []TimeEventConfig{{
			Type: "start_of_day",
			Time: "2023-10-22T08:30:00+09:30",
		}},
		SpeedLimits: []SpeedLimitConfig{{DistanceKm: 0.0, LimitKmh: 100.0}},
	}
	_, err := rc.ToRace(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "waypoints")
}

func TestLoadRaceWithKMLRoute(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "route.kml", `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>short route</name>
    <Folder>
      <Placemark>
        <LineString>
          <coordinates>130.84,-12.46,0 130.85,-12.47,0 130.86,-12.48,0</coordinates>
        </LineString>
      </Placemark>
    </Folder>
  </Document>
</kml>`)
	path := writeFile(t, dir, "race.yaml", `name: kml race
route_kml: route.kml
distance_events:
  - type: stage_stop
    name: finish
    distance_km: 2
    latest_arrival: "2023-10-22T17:00:00+09:30"
time_events:
  - type: start_of_day
    time: "2023-10-22T08:30:00+09:30"
speed_limits:
  - distance_km: 0
    limit_kmh: 100
`)

	race, err := LoadRace(path)
	require.NoError(t, err)

	lat, lon := race.Locator.LocationAt(0.0)
	assert.InDelta(t, -12.46, lat, 1e-6)
	assert.InDelta(t, 130.84, lon, 1e-6)
}
