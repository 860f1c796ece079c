package model

import "errors"

// cellSOCTable maps state of charge to a voltage bucket. The table is
// descending, sampled at 1% capacity increments; index i corresponds to a
// cell voltage of lookupMinVoltage + (len-1-i)*lookupStepVolts. The
// quantized steps reflect the measured discharge curve of the cell, so
// lookups deliberately do not interpolate between buckets.
var cellSOCTable = []float64{
	1.0,
	0.999,
	0.997,
	0.9941,
	0.9903,
	0.9857,
	0.9801,
	0.9732,
	0.9646,
	0.9539,
	0.939,
	0.9287,
	0.9184,
	0.9048,
	0.8912,
	0.8771,
	0.863,
	0.8524,
	0.8418,
	0.8279,
	0.8169,
	0.8072,
	0.7981,
	0.7897,
	0.7815,
	0.7735,
	0.7657,
	0.7576,
	0.7494,
	0.7409,
	0.7319,
	0.7221,
	0.7118,
	0.7004,
	0.6878,
	0.674,
	0.6596,
	0.6523,
	0.6451,
	0.631,
	0.6178,
	0.6053,
	0.593,
	0.5814,
	0.5702,
	0.559,
	0.5478,
	0.5371,
	0.5263,
	0.5156,
	0.5052,
	0.4949,
	0.4844,
	0.4742,
	0.4639,
	0.4533,
	0.4425,
	0.4316,
	0.4199,
	0.4081,
	0.3958,
	0.3832,
	0.3697,
	0.3565,
	0.3431,
	0.3296,
	0.3163,
	0.3036,
	0.2912,
	0.2796,
	0.2688,
	0.259,
	0.2496,
	0.2411,
	0.2326,
	0.223,
	0.2124,
	0.2019,
	0.1915,
	0.1813,
	0.1716,
	0.1621,
	0.1533,
	0.1458,
	0.1398,
	0.1347,
	0.1301,
	0.1259,
	0.1217,
	0.1176,
	0.1139,
	0.1103,
	0.1066,
	0.1032,
	0.1,
	0.0968,
	0.0936,
	0.0906,
	0.0877,
	0.0848,
	0.082,
	0.0793,
	0.0764,
	0.0737,
	0.071,
	0.0682,
	0.0653,
	0.0624,
	0.0594,
	0.0563,
	0.0534,
	0.0505,
	0.0477,
	0.0452,
	0.0428,
	0.0406,
	0.0384,
	0.0363,
	0.0342,
	0.0321,
	0.03,
	0.0281,
	0.0261,
	0.0243,
	0.0225,
	0.0207,
	0.0191,
	0.0175,
	0.0159,
	0.0144,
	0.0129,
	0.0115,
	0.0101,
	0.0088,
	0.0075,
	0.0063,
	0.005,
	0.0039,
	0.0027,
	0.0016,
	0.0,
}

const (
	lookupMinVoltage = 2.799 // V
	lookupStepVolts  = 0.01  // V per table index
)

// Battery defines the physical parameters of the pack.
// Units:
// - CellESR: ohm
// - EnergyPerCell: J
// SOC is a fraction 0..1 throughout.
type Battery struct {
	CellESR         float64
	CellsInSeries   int
	CellsInParallel int
	EnergyPerCell   float64
}

func (b Battery) Validate() error {
	if b.CellESR < 0 {
		return errors.New("CellESR must be >= 0")
	}
	if b.CellsInSeries <= 0 {
		return errors.New("CellsInSeries must be > 0")
	}
	if b.CellsInParallel <= 0 {
		return errors.New("CellsInParallel must be > 0")
	}
	if b.EnergyPerCell <= 0 {
		return errors.New("EnergyPerCell must be > 0")
	}
	return nil
}

// CellVoltageFromSOC estimates cell voltage from state of charge by
// scanning the table from the full-charge end. The first entry at or below
// the query SOC selects the voltage bucket; SOC below the lowest tabulated
// value clamps to the lowest voltage.
func (b Battery) CellVoltageFromSOC(soc float64) float64 {
	index := 0
	if soc < cellSOCTable[len(cellSOCTable)-1] {
		index = len(cellSOCTable) - 1
	} else {
		for index < len(cellSOCTable) && soc < cellSOCTable[index] {
			index++
		}
	}
	return lookupMinVoltage + float64(len(cellSOCTable)-1-index)*lookupStepVolts
}

// PackVoltageFromSOC estimates pack voltage from state of charge.
func (b Battery) PackVoltageFromSOC(soc float64) float64 {
	return b.CellVoltageFromSOC(soc) * float64(b.CellsInSeries)
}

// PackESR returns the equivalent series resistance of the pack in ohms.
func (b Battery) PackESR() float64 {
	return b.CellESR * float64(b.CellsInSeries) / float64(b.CellsInParallel)
}

// PackEnergy returns the energy capacity of the pack in joules.
func (b Battery) PackEnergy() float64 {
	return b.EnergyPerCell * float64(b.CellsInSeries*b.CellsInParallel)
}

// MaxChargeCurrent returns the maximum charge current in amps for a given
// cell voltage. Cells de-rate charge current as they approach full charge.
func MaxChargeCurrent(cellVoltage float64) float64 {
	if cellVoltage < 4.0 {
		return 65.0
	}
	if cellVoltage < 4.1 {
		return 40.0
	}
	return 20.0
}
