package inventory

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"stockdash/infrastructure/audit"
	"stockdash/infrastructure/logging"
	"stockdash/infrastructure/sqlite"
	"stockdash/infrastructure/stockview"
	"stockdash/models"
)

func ListItemsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := ListItems(r.Context(), db)
		if err != nil {
			internalError(w, r, "list inventory failed", err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func AlertsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := ListItems(r.Context(), db)
		if err != nil {
			internalError(w, r, "list alerts failed", err)
			return
		}
		writeJSON(w, http.StatusOK, stockview.Alerts(items))
	}
}

func MetricsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := ListItems(r.Context(), db)
		if err != nil {
			internalError(w, r, "build metrics failed", err)
			return
		}
		writeJSON(w, http.StatusOK, stockview.Summarize(items))
	}
}

func CreateItemCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := decodeDraft(w, r)
		if !ok {
			return
		}
		item, err := CreateItem(r.Context(), db, auditSvc, r.Header.Get(ActorHeader), d)
		if err != nil {
			mutationError(w, r, "create item failed", err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func UpdateItemCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		d, ok := decodeDraft(w, r)
		if !ok {
			return
		}
		item, err := UpdateItem(r.Context(), db, auditSvc, r.Header.Get(ActorHeader), id, d)
		if err != nil {
			mutationError(w, r, "update item failed", err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func DeleteItemCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := DeleteItem(r.Context(), db, auditSvc, r.Header.Get(ActorHeader), id); err != nil {
			mutationError(w, r, "delete item failed", err)
			return
		}
		writeJSON(w, http.StatusOK, statusBody{Status: "deleted"})
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: "id must be an integer"})
		return 0, false
	}
	return id, true
}

func decodeDraft(w http.ResponseWriter, r *http.Request) (models.Draft, bool) {
	var d models.Draft
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&d); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: "invalid item body: " + err.Error()})
		return d, false
	}
	return d, true
}

func mutationError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Item not found"})
	case errors.Is(err, ErrInvalidDraft):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
	default:
		internalError(w, r, msg, err)
	}
}

func internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logging.FromContext(r.Context()).Error(msg, slog.Any("err", err))
	writeJSON(w, http.StatusInternalServerError, errorBody{Detail: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
