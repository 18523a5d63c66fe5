package service

import "strings"

// Report insight strings. The exact wording is part of the API contract,
// dashboards match on these.
const (
	insightNoSales        = "No sales in this period."
	insightDepletedDamage = "Stock depleted due to damaged items."
	insightOutOfStock     = "Out of stock. Reorder needed."
	insightLowStock       = "Low stock. Reorder soon."
	insightUnprofitable   = "Unprofitable."
	insightLowMargin      = "Low margin."
	insightPerformingWell = "Performing well."
	insightModerate       = "Moderate performance."

	insightHighProfitability   = "High profitability"
	insightMediumProfitability = "Medium profitability"
	insightLowProfitability    = "Low profitability"
	insightRestockSuffix       = " Low stock, prioritize restocking."
	insightDamagedSuffix       = " Review damaged stock handling."
)

// lowStockRunwayDays is the sell-through runway below which a product is
// flagged for reorder.
const lowStockRunwayDays = 3.0

// ProductMetrics carries the aggregated monthly figures an insight is
// derived from. TotalSales and MarginPct are in currency units and percent.
type ProductMetrics struct {
	TotalSales     float64
	MarginPct      float64
	UnitSold       int
	RemainingStock int
	DamagedStock   int
	DaysActive     int
}

// ProductInsight renders the advisory text for one product row. The stock
// situation is judged first, then profitability. Both parts can appear in
// the same insight.
func ProductInsight(m ProductMetrics) string {
	var parts []string

	switch {
	case m.RemainingStock == 0 && m.DamagedStock > 0 && m.UnitSold == 0:
		parts = append(parts, insightDepletedDamage)
	case m.RemainingStock == 0 && m.UnitSold > 0:
		parts = append(parts, insightOutOfStock)
	case dailyRate(m.UnitSold, m.DaysActive) > 0 &&
		float64(m.RemainingStock)/dailyRate(m.UnitSold, m.DaysActive) < lowStockRunwayDays:
		parts = append(parts, insightLowStock)
	case m.UnitSold == 0:
		parts = append(parts, insightNoSales)
	}

	if m.TotalSales > 0 || m.UnitSold > 0 {
		switch {
		case m.MarginPct == 0:
			parts = append(parts, insightUnprofitable)
		case m.MarginPct < 10:
			parts = append(parts, insightLowMargin)
		case m.MarginPct >= 20:
			parts = append(parts, insightPerformingWell)
		default:
			parts = append(parts, insightModerate)
		}
	}

	return strings.Join(parts, " ")
}

// CategoryMetrics carries the aggregated monthly figures for one category.
type CategoryMetrics struct {
	TotalSales     float64
	MarginPct      float64
	UnitSold       int
	RemainingStock int
	DamagedStock   int
}

// CategoryInsight renders the advisory text for one category row. A
// category without any sales lines in the window reports no sales instead
// of a profitability grade.
func CategoryInsight(m CategoryMetrics) string {
	if m.UnitSold == 0 && m.TotalSales == 0 {
		return insightNoSales
	}

	var grade string
	switch {
	case m.MarginPct > 35:
		grade = insightHighProfitability
	case m.MarginPct > 25:
		grade = insightMediumProfitability
	default:
		grade = insightLowProfitability
	}

	insight := grade
	if m.RemainingStock < 5 {
		insight += insightRestockSuffix
	}
	if m.DamagedStock > 0 {
		insight += insightDamagedSuffix
	}
	return insight
}

func dailyRate(unitSold, daysActive int) float64 {
	if daysActive == 0 {
		return 0
	}
	return float64(unitSold) / float64(daysActive)
}
