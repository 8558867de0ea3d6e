package dashboard

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"stockdash/infrastructure/csvcodec"
	"stockdash/infrastructure/stockview"
	"stockdash/models"
)

var errNameRequired = errors.New("name is required")

// ViewStateFromQuery reads q, page and edit. Bad numbers fall back to the
// defaults rather than failing the request.
func ViewStateFromQuery(q url.Values) stockview.ViewState {
	vs := stockview.NewViewState().WithSearch(q.Get("q"))
	if p, err := strconv.Atoi(strings.TrimSpace(q.Get("page"))); err == nil {
		vs = vs.WithPage(p)
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(q.Get("edit")), 10, 64); err == nil && id > 0 {
		vs = vs.Editing(id)
	}
	return vs
}

// Query encodes vs and an optional status message as dashboard query
// parameters. Defaults are omitted.
func Query(vs stockview.ViewState, status string) url.Values {
	q := url.Values{}
	if vs.Search != "" {
		q.Set("q", vs.Search)
	}
	if vs.Page > 1 {
		q.Set("page", strconv.Itoa(vs.Page))
	}
	if vs.EditID != 0 {
		q.Set("edit", strconv.FormatInt(vs.EditID, 10))
	}
	if status != "" {
		q.Set("status", status)
	}
	return q
}

// URL is the dashboard address for vs.
func URL(vs stockview.ViewState, status string) string {
	if q := Query(vs, status).Encode(); q != "" {
		return "/?" + q
	}
	return "/"
}

// DraftFromForm converts submitted text fields into a draft. Quantities go
// through the same coercion as CSV import, so "" is 0 and "abc" is an error.
func DraftFromForm(form url.Values) (models.Draft, error) {
	d := models.Draft{
		Name:     strings.TrimSpace(form.Get("name")),
		Category: strings.TrimSpace(form.Get("category")),
		Location: strings.TrimSpace(form.Get("location")),
	}
	if d.Name == "" {
		return d, errNameRequired
	}
	var err error
	if d.Quantity, err = csvcodec.Coerce(form.Get("quantity")); err != nil {
		return d, fmt.Errorf("quantity: %w", err)
	}
	if d.Threshold, err = csvcodec.Coerce(form.Get("threshold")); err != nil {
		return d, fmt.Errorf("threshold: %w", err)
	}
	return d, nil
}
