package stockview

import "stockdash/models"

// Summarize computes the dashboard counters.
func Summarize(items []models.InventoryItem) models.SummaryMetrics {
	var m models.SummaryMetrics
	categories := make(map[string]struct{}, len(items))
	for _, it := range items {
		m.TotalUnits += it.Quantity
		if it.LowStock() {
			m.CriticalStock++
		}
		categories[it.Category] = struct{}{}
	}
	m.ItemGroups = len(categories)
	return m
}

// Alerts lists every low-stock item in load order.
func Alerts(items []models.InventoryItem) []models.AlertRecord {
	out := make([]models.AlertRecord, 0)
	for _, it := range items {
		if it.LowStock() {
			out = append(out, models.AlertRecord{ID: it.ID, Name: it.Name})
		}
	}
	return out
}

// Aggregate returns Summarize and Alerts in one pass over the caller's view.
func Aggregate(items []models.InventoryItem) (models.SummaryMetrics, []models.AlertRecord) {
	return Summarize(items), Alerts(items)
}

// SafeUnits is the "safe" bar of the stock-status pair: total units minus
// the critical count, exactly as the dashboard has always charted it.
func SafeUnits(m models.SummaryMetrics) int {
	return m.TotalUnits - m.CriticalStock
}
