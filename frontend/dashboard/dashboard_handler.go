package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"stockdash/infrastructure/csvcodec"
	"stockdash/infrastructure/logging"
	"stockdash/infrastructure/stockview"
	"stockdash/models"
)

// maxImportBytes caps an uploaded CSV file. Larger files are refused whole.
var maxImportBytes int64 = 10 << 20

func DashboardPageQueryHandler(ctrl Controller, pageSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		data := buildPageData(ctrl.Snapshot(), ViewStateFromQuery(q), pageSize, q.Get("status"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := DashboardPage(data).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render dashboard failed", slog.Any("err", err))
			http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
			return
		}
	}
}

func CreateItemCommandHandler(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vs, d, ok := parseItemForm(w, r)
		if !ok {
			return
		}
		status := "Added " + d.Name
		if err := ctrl.Create(r.Context(), d); err != nil {
			status = "Error: could not add " + d.Name
		}
		http.Redirect(w, r, URL(vs, status), http.StatusSeeOther)
	}
}

func UpdateItemCommandHandler(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemID(w, r)
		if !ok {
			return
		}
		vs, d, ok := parseItemForm(w, r)
		if !ok {
			return
		}
		vs, err := ctrl.Update(r.Context(), vs.Editing(id), id, d)
		status := "Saved " + d.Name
		if err != nil {
			status = "Error: could not save " + d.Name
		}
		http.Redirect(w, r, URL(vs, status), http.StatusSeeOther)
	}
}

func DeleteItemCommandHandler(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := itemID(w, r)
		if !ok {
			return
		}
		_ = r.ParseForm()
		vs := ViewStateFromQuery(r.PostForm)

		label := "item #" + strconv.FormatInt(id, 10)
		if it, found := ctrl.Item(id); found {
			label = it.Name
		}
		status := "Deleted " + label
		if err := ctrl.Remove(r.Context(), id); err != nil {
			status = "Error: could not delete " + label
		}
		http.Redirect(w, r, URL(vs.ClearEdit(id), status), http.StatusSeeOther)
	}
}

func RefreshCommandHandler(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		vs := ViewStateFromQuery(r.PostForm)
		status := "Inventory refreshed"
		if err := ctrl.Refresh(r.Context()); err != nil {
			status = "Error: refresh failed, showing the last loaded inventory"
		}
		http.Redirect(w, r, URL(vs, status), http.StatusSeeOther)
	}
}

func ExportCSVHandler(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", csvcodec.Filename))
		_, _ = io.WriteString(w, csvcodec.Encode(ctrl.Snapshot().Items))
	}
}

func ImportCSVCommandHandler(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			http.Redirect(w, r, URL(stockview.NewViewState(), "Error: invalid upload"), http.StatusSeeOther)
			return
		}
		vs := ViewStateFromQuery(r.PostForm)
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Redirect(w, r, URL(vs, "Error: file is required"), http.StatusSeeOther)
			return
		}
		defer file.Close()

		body, err := io.ReadAll(io.LimitReader(file, maxImportBytes+1))
		if err != nil {
			logging.FromContext(r.Context()).Error("read import upload failed", slog.Any("err", err))
			http.Redirect(w, r, URL(vs, "Error: could not read file"), http.StatusSeeOther)
			return
		}
		if int64(len(body)) > maxImportBytes {
			http.Redirect(w, r, URL(vs, fmt.Sprintf("Error: file is larger than %d bytes", maxImportBytes)), http.StatusSeeOther)
			return
		}

		report := ctrl.BulkImport(r.Context(), string(body))
		status := fmt.Sprintf("Imported: %d created, %d failed, %d rows skipped", report.Created, report.Failed, len(report.Rejected))
		http.Redirect(w, r, URL(vs.WithSearch(""), status), http.StatusSeeOther)
	}
}

type snapshotResponse struct {
	Items    []models.InventoryItem `json:"items"`
	Alerts   []models.AlertRecord   `json:"alerts"`
	Summary  models.SummaryMetrics  `json:"summary"`
	Loaded   bool                   `json:"loaded"`
	LoadedAt *time.Time             `json:"loaded_at,omitempty"`
}

func SnapshotQueryHandler(ctrl Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := ctrl.Snapshot()
		resp := snapshotResponse{
			Items:   snap.Items,
			Alerts:  snap.Alerts,
			Summary: snap.Summary,
			Loaded:  snap.Loaded,
		}
		if snap.Loaded {
			resp.LoadedAt = &snap.LoadedAt
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logging.FromContext(r.Context()).Error("encode snapshot failed", slog.Any("err", err))
		}
	}
}

// parseItemForm redirects with a status message and returns ok=false when the
// form cannot become a draft. Nothing is sent to the API in that case.
func parseItemForm(w http.ResponseWriter, r *http.Request) (stockview.ViewState, models.Draft, bool) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, URL(stockview.NewViewState(), "Error: invalid form"), http.StatusSeeOther)
		return stockview.ViewState{}, models.Draft{}, false
	}
	vs := ViewStateFromQuery(r.PostForm)
	d, err := DraftFromForm(r.PostForm)
	if err != nil {
		msg := "Error: quantity and threshold must be whole numbers"
		if errors.Is(err, errNameRequired) {
			msg = "Error: name is required"
		}
		http.Redirect(w, r, URL(vs, msg), http.StatusSeeOther)
		return vs, d, false
	}
	return vs, d, true
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Redirect(w, r, URL(stockview.NewViewState(), "Error: invalid item id"), http.StatusSeeOther)
		return 0, false
	}
	return id, true
}
