package sim

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteTrajectoryCSV writes the trajectory log to a CSV file, one row per
// powered tick.
func WriteTrajectoryCSV(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"time_s",
		"distance_m",
		"energy_j",
		"soc",
		"array_power_w",
		"vehicle_speed_mps",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.Index),
			fmtFloat(r.State.Time),
			fmtFloat(r.State.Distance),
			fmtFloat(r.State.Energy),
			fmtFloat(r.State.SOC),
			fmtFloat(r.ArrayPower),
			fmtFloat(r.VehicleSpeed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
