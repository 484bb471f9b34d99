package risk

import "math"

// OrderQty sizes an entry: whole units of capital at the current price,
// scaled by leverage. Returns 0 when the price is not usable.
func OrderQty(capital, price, leverage float64) float64 {
	if price <= 0 {
		return 0
	}
	return math.Floor(capital/price) * leverage
}

// BandBreached reports whether price has moved outside the asymmetric
// percentage band around the entry fill: up by more than upPct or down by
// more than downPct (both fractions of entry).
func BandBreached(entry, price, upPct, downPct float64) bool {
	if entry <= 0 {
		return false
	}
	return price-entry >= entry*upPct || entry-price >= entry*downPct
}
