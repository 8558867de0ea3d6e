package cache

import (
	"slices"
	"sync"
	"time"

	"stockdash/models"
)

// Snapshot is the authoritative view of the remote inventory, replaced as a
// whole after every successful load.
type Snapshot struct {
	Items    []models.InventoryItem
	Alerts   []models.AlertRecord
	Summary  models.SummaryMetrics
	LoadedAt time.Time
	Loaded   bool
}

func (s Snapshot) clone() Snapshot {
	s.Items = slices.Clone(s.Items)
	s.Alerts = slices.Clone(s.Alerts)
	if s.Items == nil {
		s.Items = []models.InventoryItem{}
	}
	if s.Alerts == nil {
		s.Alerts = []models.AlertRecord{}
	}
	return s
}

// SnapshotCache stores the current snapshot. Readers always get a copy.
type SnapshotCache struct {
	mu      sync.RWMutex
	current Snapshot
	swaps   uint64
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{current: Snapshot{}.clone()}
}

// Replace swaps in s wholesale.
func (c *SnapshotCache) Replace(s Snapshot) {
	s = s.clone()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = s
	c.swaps++
}

func (c *SnapshotCache) Get() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.clone()
}

// Swaps counts how many times the snapshot has been replaced.
func (c *SnapshotCache) Swaps() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.swaps
}

// FindItem looks an item up by id in the current snapshot.
func (c *SnapshotCache) FindItem(id int64) (models.InventoryItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.current.Items {
		if it.ID == id {
			return it, true
		}
	}
	return models.InventoryItem{}, false
}
