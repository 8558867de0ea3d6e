package reorder

import (
	"log/slog"
	"net/http"
	"time"

	"stockdash/infrastructure/logging"
	"stockdash/infrastructure/syncer"
)

// SnapshotSource is satisfied by *syncer.Controller.
type SnapshotSource interface {
	Snapshot() syncer.Snapshot
}

// ReorderSheetQueryHandler streams the reorder sheet for the current snapshot.
func ReorderSheetQueryHandler(src SnapshotSource, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		snap := src.Snapshot()
		pdf, err := RenderPDF(BuildSheet(snap.Alerts, snap.Items, now()))
		if err != nil {
			logging.FromContext(r.Context()).Error("render reorder sheet failed", slog.Any("err", err))
			http.Error(w, "failed to render reorder sheet", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="reorder.pdf"`)
		_, _ = w.Write(pdf)
	}
}
