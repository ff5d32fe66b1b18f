package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clientdomain "github.com/tubigan/waterworks/internal/client/domain"
	rateconfigdomain "github.com/tubigan/waterworks/internal/rateconfig/domain"
)

func residentialSnapshot(minimum, perCubic float64) rateconfigdomain.Snapshot {
	return rateconfigdomain.Snapshot{
		Found: true,
		Rates: map[clientdomain.Classification]rateconfigdomain.Rate{
			clientdomain.ClassificationResidential: {Minimum: minimum, PerCubic: perCubic},
			clientdomain.ClassificationCommercial:  {Minimum: 100, PerCubic: 20},
		},
	}
}

func TestCalculate(t *testing.T) {
	rates := residentialSnapshot(50, 10)

	tests := []struct {
		name    string
		in      CalcInput
		billing float64
	}{
		{
			name: "within free allowance bills minimum only",
			in: CalcInput{
				Classification:  clientdomain.ClassificationResidential,
				PreviousReading: 100,
				CurrentReading:  108,
				FreeCubic:       10,
			},
			billing: 50,
		},
		{
			name: "consumption above allowance is charged per cubic",
			in: CalcInput{
				Classification:  clientdomain.ClassificationResidential,
				PreviousReading: 100,
				CurrentReading:  115,
				FreeCubic:       10,
			},
			billing: 100,
		},
		{
			name: "zero consumption bills minimum",
			in: CalcInput{
				Classification:  clientdomain.ClassificationResidential,
				PreviousReading: 200,
				CurrentReading:  200,
				FreeCubic:       10,
			},
			billing: 50,
		},
		{
			name: "replaced meter reading lower than previous clamps to zero",
			in: CalcInput{
				Classification:  clientdomain.ClassificationResidential,
				PreviousReading: 500,
				CurrentReading:  3,
				FreeCubic:       10,
			},
			billing: 50,
		},
		{
			name: "commercial rate is picked by classification",
			in: CalcInput{
				Classification:  clientdomain.ClassificationCommercial,
				PreviousReading: 0,
				CurrentReading:  15,
				FreeCubic:       10,
			},
			billing: 200,
		},
		{
			name: "unknown classification falls back to residential",
			in: CalcInput{
				Classification:  clientdomain.Classification("warehouse"),
				PreviousReading: 100,
				CurrentReading:  115,
				FreeCubic:       10,
			},
			billing: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Calculate(tt.in, rates, false)
			require.NoError(t, err)
			assert.Equal(t, tt.billing, result.CurrentBilling)
		})
	}
}

func TestCalculateDiscountThenLessAmount(t *testing.T) {
	rates := residentialSnapshot(50, 10)

	in := CalcInput{
		Classification:  clientdomain.ClassificationResidential,
		PreviousReading: 100,
		CurrentReading:  115,
		FreeCubic:       10,
		Discount:        20,
	}
	result, err := Calculate(in, rates, false)
	require.NoError(t, err)
	assert.Equal(t, 80.0, result.CurrentBilling)

	in.LessAmount = 90
	result, err = Calculate(in, rates, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.CurrentBilling, "bill never goes negative")
}

func TestCalculateOverrides(t *testing.T) {
	rates := residentialSnapshot(50, 10)

	result, err := Calculate(CalcInput{
		Classification:  clientdomain.ClassificationResidential,
		PreviousReading: 0,
		CurrentReading:  15,
		FreeCubic:       10,
		Minimum:         75,
		PerCubic:        12,
	}, rates, false)
	require.NoError(t, err)
	assert.Equal(t, 75.0, result.Minimum)
	assert.Equal(t, 12.0, result.PerCubic)
	assert.Equal(t, 135.0, result.CurrentBilling)

	// Zero override means "use the configured rate", not "free water".
	result, err = Calculate(CalcInput{
		Classification:  clientdomain.ClassificationResidential,
		PreviousReading: 0,
		CurrentReading:  15,
		FreeCubic:       10,
	}, rates, false)
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Minimum)
	assert.Equal(t, 100.0, result.CurrentBilling)
}

func TestCalculateMissingRate(t *testing.T) {
	empty := rateconfigdomain.Snapshot{}

	result, err := Calculate(CalcInput{
		Classification:  clientdomain.ClassificationResidential,
		PreviousReading: 0,
		CurrentReading:  30,
		FreeCubic:       10,
	}, empty, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.CurrentBilling, "lenient mode degrades to zero rates")

	_, err = Calculate(CalcInput{
		Classification:  clientdomain.ClassificationResidential,
		PreviousReading: 0,
		CurrentReading:  30,
		FreeCubic:       10,
	}, empty, true)
	assert.ErrorIs(t, err, ErrMissingRate)
}

func TestCalculateRemainingBalance(t *testing.T) {
	rates := residentialSnapshot(50, 10)

	result, err := Calculate(CalcInput{
		Classification:  clientdomain.ClassificationResidential,
		PreviousReading: 100,
		CurrentReading:  115,
		FreeCubic:       10,
		PaidAmount:      40,
	}, rates, false)
	require.NoError(t, err)
	assert.Equal(t, 60.0, result.RemainingBalance)

	result, err = Calculate(CalcInput{
		Classification:  clientdomain.ClassificationResidential,
		PreviousReading: 100,
		CurrentReading:  115,
		FreeCubic:       10,
		PaidAmount:      500,
	}, rates, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.RemainingBalance, "overpayment clamps at zero")
}

func TestCalculateNonFiniteInputs(t *testing.T) {
	rates := residentialSnapshot(50, 10)

	result, err := Calculate(CalcInput{
		Classification:  clientdomain.ClassificationResidential,
		PreviousReading: math.NaN(),
		CurrentReading:  math.Inf(1),
		FreeCubic:       10,
	}, rates, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Consumption)
	assert.Equal(t, 50.0, result.CurrentBilling)
}

func TestCalculateRounding(t *testing.T) {
	rates := residentialSnapshot(50, 3.333)

	result, err := Calculate(CalcInput{
		Classification:  clientdomain.ClassificationResidential,
		PreviousReading: 0,
		CurrentReading:  13,
		FreeCubic:       10,
	}, rates, false)
	require.NoError(t, err)
	assert.Equal(t, 60.0, result.CurrentBilling)
}

func TestRecomputeBalance(t *testing.T) {
	assert.Equal(t, 25.5, RecomputeBalance(100.5, 75))
	assert.Equal(t, 0.0, RecomputeBalance(100, 150))
	assert.Equal(t, 0.0, RecomputeBalance(math.NaN(), 10))
}

func TestValidPeriod(t *testing.T) {
	assert.True(t, ValidPeriod("2025-01"))
	assert.True(t, ValidPeriod("1999-12"))
	assert.False(t, ValidPeriod("2025-13"))
	assert.False(t, ValidPeriod("2025-00"))
	assert.False(t, ValidPeriod("2025-1"))
	assert.False(t, ValidPeriod("2025-01-05"))
	assert.False(t, ValidPeriod(""))
}
