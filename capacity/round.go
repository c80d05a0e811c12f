package capacity

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Percentage returns part / whole * 100, or 0 when whole is 0.
func Percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// Cost prices hours at a rate.
func Cost(hours float64, rate decimal.Decimal) decimal.Decimal {
	return decimalOf(hours).Mul(rate)
}

// RoundHours rounds to one decimal place.
func RoundHours(v float64) float64 { return roundTo(v, 1) }

// RoundPercent rounds to two decimal places.
func RoundPercent(v float64) float64 { return roundTo(v, 2) }

// RoundCost rounds money to cents.
func RoundCost(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func roundTo(v float64, places int32) float64 {
	return decimalOf(v).Round(places).InexactFloat64()
}

// decimalOf panics on NaN and Inf: they only arise from a bug upstream.
func decimalOf(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("capacity: non-finite value %v", v))
	}
	return decimal.NewFromFloat(v)
}
