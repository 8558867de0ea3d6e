package models

import (
	"time"

	"github.com/uptrace/bun"
)

// InventoryItem is one stock-keeping record. The id is assigned by the API store.
type InventoryItem struct {
	bun.BaseModel `bun:"table:inventory_items,alias:ii" json:"-"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	Name      string `bun:"name,notnull" json:"name"`
	Category  string `bun:"category,notnull" json:"category"`
	Quantity  int    `bun:"quantity,notnull" json:"quantity"`
	Threshold int    `bun:"threshold,notnull" json:"threshold"`
	Location  string `bun:"location,notnull" json:"location"`
}

// LowStock reports whether the item sits strictly below its reorder point.
func (i InventoryItem) LowStock() bool {
	return i.Quantity < i.Threshold
}

// Draft returns the mutable fields of the item.
func (i InventoryItem) Draft() Draft {
	return Draft{
		Name:      i.Name,
		Category:  i.Category,
		Quantity:  i.Quantity,
		Threshold: i.Threshold,
		Location:  i.Location,
	}
}

// Draft is an item payload without a server-assigned id. It is the body of
// both create and full-replacement update requests.
type Draft struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
	Location  string `json:"location"`
}

// Item attaches an id to the draft.
func (d Draft) Item(id int64) InventoryItem {
	return InventoryItem{
		ID:        id,
		Name:      d.Name,
		Category:  d.Category,
		Quantity:  d.Quantity,
		Threshold: d.Threshold,
		Location:  d.Location,
	}
}

// AlertRecord names an item that is currently below threshold.
type AlertRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SummaryMetrics are the dashboard counters derived from the item collection.
type SummaryMetrics struct {
	TotalUnits    int `json:"total_units"`
	CriticalStock int `json:"critical_stock"`
	ItemGroups    int `json:"item_groups"`
}

// AuditLog captures immutable change history for inventory mutations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Actor      string    `bun:"actor,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
