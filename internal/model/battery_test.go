package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBattery() Battery {
	return Battery{
		CellESR:         0.025,
		CellsInSeries:   36,
		CellsInParallel: 11,
		EnergyPerCell:   46800.0,
	}
}

func TestCellVoltageTableEndpoints(t *testing.T) {
	b := testBattery()

	assert.Equal(t, 4.199, b.CellVoltageFromSOC(1.0))
	assert.Equal(t, 2.799, b.CellVoltageFromSOC(0.0))
}

func TestCellVoltageTableResolution(t *testing.T) {
	// 141 samples at 0.01 V per step put the full-charge bucket at
	// 2.799 + 140*0.01 = 4.199 V.
	require.Len(t, cellSOCTable, 141)
	assert.Equal(t, lookupMinVoltage+140.0*lookupStepVolts, testBattery().CellVoltageFromSOC(1.0))
}

func TestCellVoltageClampsBelowTable(t *testing.T) {
	b := testBattery()

	assert.Equal(t, 2.799, b.CellVoltageFromSOC(-0.5))
}

func TestCellVoltageBucketQuantization(t *testing.T) {
	b := testBattery()

	// 0.95 falls between the 0.9539 and 0.939 table entries; the first
	// entry at or below the query picks the bucket, ten steps down from
	// the top of the table.
	assert.InDelta(t, 4.099, b.CellVoltageFromSOC(0.95), 1e-12)

	// Queries inside the same bucket share a voltage.
	assert.Equal(t, b.CellVoltageFromSOC(0.945), b.CellVoltageFromSOC(0.95))
}

func TestCellVoltageMonotonic(t *testing.T) {
	b := testBattery()

	prev := b.CellVoltageFromSOC(0.0)
	for soc := 0.01; soc <= 1.0; soc += 0.01 {
		v := b.CellVoltageFromSOC(soc)
		assert.GreaterOrEqual(t, v, prev, "soc %.2f", soc)
		prev = v
	}
}

func TestPackVoltage(t *testing.T) {
	b := testBattery()

	assert.InDelta(t, 4.199*36.0, b.PackVoltageFromSOC(1.0), 1e-9)
}

func TestPackESR(t *testing.T) {
	b := testBattery()

	assert.InDelta(t, 0.025*36.0/11.0, b.PackESR(), 1e-12)
}

func TestPackEnergy(t *testing.T) {
	b := testBattery()

	assert.Equal(t, 46800.0*36.0*11.0, b.PackEnergy())
}

func TestMaxChargeCurrent(t *testing.T) {
	assert.Equal(t, 65.0, MaxChargeCurrent(3.9))
	assert.Equal(t, 40.0, MaxChargeCurrent(4.05))
	assert.Equal(t, 20.0, MaxChargeCurrent(4.2))

	// Boundaries belong to the higher-voltage bucket.
	assert.Equal(t, 40.0, MaxChargeCurrent(4.0))
	assert.Equal(t, 20.0, MaxChargeCurrent(4.1))
}

func TestBatteryValidate(t *testing.T) {
	require.NoError(t, testBattery().Validate())

	b := testBattery()
	b.CellsInSeries = 0
	assert.Error(t, b.Validate())

	b = testBattery()
	b.CellsInParallel = -1
	assert.Error(t, b.Validate())

	b = testBattery()
	b.EnergyPerCell = 0
	assert.Error(t, b.Validate())
}
