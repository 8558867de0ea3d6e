package reorder

import (
	"time"

	"stockdash/models"
)

// Line is one row on the reorder sheet.
type Line struct {
	ID        int64
	Name      string
	Category  string
	Location  string
	Quantity  int
	Threshold int
	// Known is false when the alert names an item missing from the item list.
	Known bool
}

// Shortfall is the number of units needed to reach the threshold.
func (l Line) Shortfall() int {
	return max(0, l.Threshold-l.Quantity)
}

type Sheet struct {
	PrintedAt time.Time
	Lines     []Line
}

// BuildSheet joins alerts with their items, keeping alert order.
func BuildSheet(alerts []models.AlertRecord, items []models.InventoryItem, printedAt time.Time) Sheet {
	byID := make(map[int64]models.InventoryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	sheet := Sheet{PrintedAt: printedAt, Lines: make([]Line, 0, len(alerts))}
	for _, a := range alerts {
		line := Line{ID: a.ID, Name: a.Name}
		if it, ok := byID[a.ID]; ok {
			line.Category = it.Category
			line.Location = it.Location
			line.Quantity = it.Quantity
			line.Threshold = it.Threshold
			line.Known = true
		}
		sheet.Lines = append(sheet.Lines, line)
	}
	return sheet
}
