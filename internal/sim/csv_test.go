package sim

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-race-sim/internal/model"
)

func TestWriteTrajectoryCSV(t *testing.T) {
	rows := []Row{
		{Index: 0, State: model.State{Time: 0.0}},
		{
			Index:        1,
			State:        model.State{Distance: 20.0, Energy: 18_000_000.0, SOC: 0.971, Time: 1.0},
			ArrayPower:   800.0,
			VehicleSpeed: 20.0,
		},
	}

	path := filepath.Join(t.TempDir(), "trajectory.csv")
	require.NoError(t, WriteTrajectoryCSV(path, rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"index", "time_s", "distance_m", "energy_j", "soc",
		"array_power_w", "vehicle_speed_mps",
	}, records[0])
	assert.Equal(t, []string{"1", "1", "20", "18000000", "0.971", "800", "20"}, records[2])
}

func TestWriteTrajectoryCSVBadPath(t *testing.T) {
	err := WriteTrajectoryCSV(filepath.Join(t.TempDir(), "missing", "out.csv"), nil)
	assert.Error(t, err)
}
