// Package stockview derives the dashboard's views from an item snapshot:
// search filtering, pagination, summary metrics and low-stock alerts.
// Every function here is pure; callers pass the snapshot in and get fresh
// slices back.
package stockview

import (
	"strings"

	"golang.org/x/text/cases"

	"stockdash/models"
)

// DefaultPageSize is the number of rows per page when none is configured.
const DefaultPageSize = 5

// Matches reports whether term is a case-insensitive substring of the item's
// name or category. An empty term matches everything.
func Matches(item models.InventoryItem, term string) bool {
	if term == "" {
		return true
	}
	fold := cases.Fold() // Casers carry state; one per call.
	needle := fold.String(term)
	return strings.Contains(fold.String(item.Name), needle) ||
		strings.Contains(fold.String(item.Category), needle)
}

// Filter returns the items matching term in their original order.
func Filter(items []models.InventoryItem, term string) []models.InventoryItem {
	if term == "" {
		return append([]models.InventoryItem(nil), items...)
	}
	out := make([]models.InventoryItem, 0, len(items))
	for _, it := range items {
		if Matches(it, term) {
			out = append(out, it)
		}
	}
	return out
}

// Paginate returns the 1-based page of items. Pages past the end, and pages
// below 1, are empty rather than errors.
func Paginate(items []models.InventoryItem, page, size int) []models.InventoryItem {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		return []models.InventoryItem{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []models.InventoryItem{}
	}
	end := min(start+size, len(items))
	return append([]models.InventoryItem(nil), items[start:end]...)
}

// Page is one screenful of filtered items.
type Page struct {
	Items   []models.InventoryItem
	Number  int
	Size    int
	Matches int
	HasPrev bool
	HasNext bool
}

// Query filters items by the view's search term and cuts out the view's page.
func Query(items []models.InventoryItem, vs ViewState, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	filtered := Filter(items, vs.Search)
	return Page{
		Items:   Paginate(filtered, vs.Page, size),
		Number:  vs.Page,
		Size:    size,
		Matches: len(filtered),
		HasPrev: vs.Page > 1,
		HasNext: vs.Page*size < len(filtered),
	}
}
