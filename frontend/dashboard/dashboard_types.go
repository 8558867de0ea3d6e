package dashboard

import (
	"context"

	"stockdash/infrastructure/stockview"
	"stockdash/infrastructure/syncer"
	"stockdash/models"
)

// Controller is the part of *syncer.Controller the dashboard drives.
type Controller interface {
	Snapshot() syncer.Snapshot
	Item(id int64) (models.InventoryItem, bool)
	Refresh(ctx context.Context) error
	Create(ctx context.Context, d models.Draft) error
	Update(ctx context.Context, vs stockview.ViewState, id int64, d models.Draft) (stockview.ViewState, error)
	Remove(ctx context.Context, id int64) error
	BulkImport(ctx context.Context, text string) syncer.ImportReport
}

// PageData is everything the dashboard page renders. It is derived from one
// snapshot so that counters, alerts and the table always agree.
type PageData struct {
	View      stockview.ViewState
	Page      stockview.Page
	Summary   models.SummaryMetrics
	SafeUnits int
	Alerts    []models.AlertRecord
	Loaded    bool
	Message   string
	// Editing is the row shown as an edit form, if any.
	Editing *models.InventoryItem
}

func buildPageData(snap syncer.Snapshot, vs stockview.ViewState, pageSize int, message string) PageData {
	data := PageData{
		View:      vs,
		Page:      stockview.Query(snap.Items, vs, pageSize),
		Summary:   snap.Summary,
		SafeUnits: stockview.SafeUnits(snap.Summary),
		Alerts:    snap.Alerts,
		Loaded:    snap.Loaded,
		Message:   message,
	}
	if vs.EditID != 0 {
		for _, it := range snap.Items {
			if it.ID == vs.EditID {
				item := it
				data.Editing = &item
				break
			}
		}
	}
	return data
}
