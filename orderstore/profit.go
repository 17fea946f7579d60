package orderstore

import (
	"math"
)

// ProfitBreakdown holds the four derived financial fields of an order,
// each rounded to 2 decimal places.
type ProfitBreakdown struct {
	GrossProfit            float64
	NetProfit              float64
	ProfitPercent          float64
	ProfitPercentAfterCost float64
}

// DeriveProfit computes the profit breakdown from the four monetary inputs.
//
// Derivation law:
//
//	grossProfit            = poValue - costs
//	netProfit              = poValue - (costs + freightCost + customsDuty)
//	profitPercent          = poValue == 0 ? 0 : grossProfit / poValue * 100
//	profitPercentAfterCost = poValue == 0 ? 0 : netProfit / poValue * 100
//
// A nil customsDuty or freightCost counts as 0. It is a pure function: it must
// be re-run on every create and on every update that changes any of the four
// inputs, overwriting all prior derived values.
func DeriveProfit(poValue float64, costs float64, customsDuty *float64, freightCost *float64) ProfitBreakdown {
	duty := 0.0
	if customsDuty != nil {
		duty = *customsDuty
	}

	freight := 0.0
	if freightCost != nil {
		freight = *freightCost
	}

	grossProfit := poValue - costs
	netProfit := poValue - (costs + freight + duty)

	profitPercent := 0.0
	profitPercentAfterCost := 0.0

	if poValue != 0 {
		profitPercent = grossProfit / poValue * 100
		profitPercentAfterCost = netProfit / poValue * 100
	}

	return ProfitBreakdown{
		GrossProfit:            round2(grossProfit),
		NetProfit:              round2(netProfit),
		ProfitPercent:          round2(profitPercent),
		ProfitPercentAfterCost: round2(profitPercentAfterCost),
	}
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
