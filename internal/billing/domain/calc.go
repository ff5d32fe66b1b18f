package domain

import (
	"math"

	clientdomain "github.com/tubigan/waterworks/internal/client/domain"
	rateconfigdomain "github.com/tubigan/waterworks/internal/rateconfig/domain"
)

// CalcInput carries everything the calculator needs for one bill. Zero or
// non-finite numeric fields are treated as 0; Minimum and PerCubic act as
// per-record overrides only when positive.
type CalcInput struct {
	Classification  clientdomain.Classification
	PreviousReading float64
	CurrentReading  float64
	FreeCubic       float64
	Minimum         float64
	PerCubic        float64
	Discount        float64
	LessAmount      float64
	PaidAmount      float64
}

// CalcResult holds the derived monetary fields. No field is ever negative.
type CalcResult struct {
	Consumption      float64
	ChargeableCubic  float64
	Minimum          float64
	PerCubic         float64
	CurrentBilling   float64
	RemainingBalance float64
}

// Calculate prices one bill from a reading pair and the rate snapshot. It is
// pure: no I/O, deterministic, and it never raises on missing configuration
// unless strict is set. The lenient fallback bills at zero rates, matching
// the long-standing treasury behavior.
//
// The order of operations is contractual: rate resolution, consumption,
// free-allowance deduction, base charge, discount, then less-amount, each
// clamped at zero before the next step.
func Calculate(in CalcInput, rates rateconfigdomain.Snapshot, strict bool) (CalcResult, error) {
	classification := in.Classification
	switch classification {
	case clientdomain.ClassificationResidential,
		clientdomain.ClassificationCommercial,
		clientdomain.ClassificationInstitutional,
		clientdomain.ClassificationIndustrial:
	default:
		classification = clientdomain.ClassificationResidential
	}

	rate, haveRate := rates.RateFor(classification)

	minimum := finite(in.Minimum)
	if !(minimum > 0) {
		if haveRate {
			minimum = finite(rate.Minimum)
		} else if strict {
			return CalcResult{}, ErrMissingRate
		} else {
			minimum = 0
		}
	}

	perCubic := finite(in.PerCubic)
	if !(perCubic > 0) {
		if haveRate {
			perCubic = finite(rate.PerCubic)
		} else if strict {
			return CalcResult{}, ErrMissingRate
		} else {
			perCubic = 0
		}
	}

	consumption := math.Max(0, finite(in.CurrentReading)-finite(in.PreviousReading))
	chargeable := math.Max(0, consumption-finite(in.FreeCubic))

	billing := perCubic*chargeable + minimum
	if discount := finite(in.Discount); discount > 0 {
		billing = math.Max(0, billing-discount)
	}
	if less := finite(in.LessAmount); less > 0 {
		billing = math.Max(0, billing-less)
	}
	billing = round2(billing)

	remaining := round2(math.Max(0, billing-finite(in.PaidAmount)))

	return CalcResult{
		Consumption:      consumption,
		ChargeableCubic:  chargeable,
		Minimum:          minimum,
		PerCubic:         perCubic,
		CurrentBilling:   billing,
		RemainingBalance: remaining,
	}, nil
}

// RecomputeBalance reapplies a payment total to a computed bill.
func RecomputeBalance(currentBilling, paidAmount float64) float64 {
	return round2(math.Max(0, finite(currentBilling)-finite(paidAmount)))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
