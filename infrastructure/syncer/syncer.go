// Package syncer keeps the dashboard's local copy of the inventory in step
// with the remote API.
//
// The remote store is the source of truth. Every mutation goes to the API
// first and is followed by a full reload; the local snapshot is never patched
// in place and never shows a change the API has not acknowledged. Failures
// are logged and leave the last good snapshot in place.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"stockdash/infrastructure/cache"
	"stockdash/infrastructure/stockview"
	"stockdash/models"
)

// Remote is the inventory API as seen by the controller.
type Remote interface {
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	ListAlerts(ctx context.Context) ([]models.AlertRecord, error)
	Metrics(ctx context.Context) (models.SummaryMetrics, error)
	CreateItem(ctx context.Context, d models.Draft) error
	UpdateItem(ctx context.Context, id int64, d models.Draft) error
	DeleteItem(ctx context.Context, id int64) error
}

// Snapshot is the state the controller serves to the presentation layer.
type Snapshot = cache.Snapshot

// Option configures a Controller.
type Option func(*Controller)

// WithLocalMetrics derives alerts and summary from the fetched items instead
// of calling the alerts and metrics endpoints.
func WithLocalMetrics() Option {
	return func(c *Controller) { c.localMetrics = true }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClock overrides time.Now for LoadedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller is the only writer of its snapshot.
type Controller struct {
	remote       Remote
	snap         *cache.SnapshotCache
	localMetrics bool
	log          *slog.Logger
	now          func() time.Time
}

func New(remote Remote, opts ...Option) *Controller {
	c := &Controller{
		remote: remote,
		snap:   cache.NewSnapshotCache(),
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	return c.snap.Get()
}

// Item looks up id in the current snapshot.
func (c *Controller) Item(id int64) (models.InventoryItem, bool) {
	return c.snap.FindItem(id)
}

// Refresh loads items, alerts and metrics concurrently and swaps them in
// together. On any failure the previous snapshot stays and the error is
// returned. Concurrent refreshes are not serialized: whichever finishes last
// overwrites the others.
func (c *Controller) Refresh(ctx context.Context) error {
	var (
		items   []models.InventoryItem
		alerts  []models.AlertRecord
		summary models.SummaryMetrics
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = c.remote.ListItems(gctx)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		return nil
	})
	if !c.localMetrics {
		g.Go(func() error {
			var err error
			alerts, err = c.remote.ListAlerts(gctx)
			if err != nil {
				return fmt.Errorf("list alerts: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			summary, err = c.remote.Metrics(gctx)
			if err != nil {
				return fmt.Errorf("load metrics: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.Error("inventory load failed; keeping previous snapshot", slog.Any("err", err))
		return err
	}

	items = c.dedupe(items)
	if c.localMetrics {
		summary, alerts = stockview.Aggregate(items)
	}

	c.snap.Replace(Snapshot{
		Items:    items,
		Alerts:   alerts,
		Summary:  summary,
		LoadedAt: c.now(),
		Loaded:   true,
	})
	c.log.Debug("inventory snapshot replaced",
		slog.Int("items", len(items)),
		slog.Int("alerts", len(alerts)),
	)
	return nil
}

// dedupe keeps the first record for each id.
func (c *Controller) dedupe(items []models.InventoryItem) []models.InventoryItem {
	seen := make(map[int64]struct{}, len(items))
	out := make([]models.InventoryItem, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			c.log.Warn("dropping duplicate inventory id", slog.Int64("id", it.ID), slog.String("name", it.Name))
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Create submits a draft and reloads. Nothing is inserted locally: the id
// only exists once the API has assigned it.
func (c *Controller) Create(ctx context.Context, d models.Draft) error {
	err := c.remote.CreateItem(ctx, d)
	if err != nil {
		c.log.Error("create item failed", slog.String("name", d.Name), slog.Any("err", err))
		err = fmt.Errorf("create item: %w", err)
	}
	c.reload(ctx)
	return err
}

// Update replaces the fields of id and reloads. The returned view has the
// edit marker for id cleared.
func (c *Controller) Update(ctx context.Context, vs stockview.ViewState, id int64, d models.Draft) (stockview.ViewState, error) {
	err := c.remote.UpdateItem(ctx, id, d)
	if err != nil {
		c.log.Error("update item failed", slog.Int64("id", id), slog.Any("err", err))
		err = fmt.Errorf("update item %d: %w", id, err)
	}
	c.reload(ctx)
	return vs.ClearEdit(id), err
}

// Remove deletes id and reloads.
func (c *Controller) Remove(ctx context.Context, id int64) error {
	err := c.remote.DeleteItem(ctx, id)
	if err != nil {
		c.log.Error("delete item failed", slog.Int64("id", id), slog.Any("err", err))
		err = fmt.Errorf("delete item %d: %w", id, err)
	}
	c.reload(ctx)
	return err
}

// reload refreshes after a mutation; its failure is already logged.
func (c *Controller) reload(ctx context.Context) {
	_ = c.Refresh(ctx)
}
