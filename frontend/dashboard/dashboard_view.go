package dashboard

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"stockdash/frontend/shared/html"
	"stockdash/infrastructure/stockview"
	"stockdash/models"
)

var esc = templ.EscapeString[string]

// DashboardPage renders the full dashboard inside the shared layout.
func DashboardPage(data PageData) templ.Component {
	return html.Layout("Inventory", templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		writeBody(&b, data)
		_, err := io.WriteString(w, b.String())
		return err
	}))
}

func writeBody(b *strings.Builder, data PageData) {
	b.WriteString(`<main><h1>Inventory</h1>`)
	if data.Message != "" {
		fmt.Fprintf(b, `<p class="status" role="status">%s</p>`, esc(data.Message))
	}
	if !data.Loaded {
		b.WriteString(`<p class="status">Inventory has not loaded yet.</p>`)
	}

	fmt.Fprintf(b, `<section id="summary"><dl>`+
		`<dt>Total units</dt><dd id="total-units">%d</dd>`+
		`<dt>Critical stock</dt><dd id="critical-stock">%d</dd>`+
		`<dt>Item groups</dt><dd id="item-groups">%d</dd>`+
		`</dl><p id="stock-status">Safe: %d &middot; Low: %d</p></section>`,
		data.Summary.TotalUnits, data.Summary.CriticalStock, data.Summary.ItemGroups,
		data.SafeUnits, data.Summary.CriticalStock)

	writeAlerts(b, data.Alerts)
	writeToolbar(b, data.View)
	writeTable(b, data)
	writePager(b, data)
	writeItemForm(b, "/items", "Add item", models.Draft{}, data.View)
	b.WriteString(`</main>`)
}

func writeAlerts(b *strings.Builder, alerts []models.AlertRecord) {
	b.WriteString(`<section id="alerts"><h2>Low stock</h2>`)
	if len(alerts) == 0 {
		b.WriteString(`<p>No alerts.</p></section>`)
		return
	}
	b.WriteString(`<ul>`)
	for _, a := range alerts {
		fmt.Fprintf(b, `<li data-id="%d">%s</li>`, a.ID, esc(a.Name))
	}
	b.WriteString(`</ul><p><a href="/reorder.pdf">Reorder sheet (PDF)</a></p></section>`)
}

func writeToolbar(b *strings.Builder, vs stockview.ViewState) {
	fmt.Fprintf(b, `<section id="toolbar">`+
		`<form method="get" action="/"><input type="search" name="q" value="%s" placeholder="Search name or category"><button type="submit">Search</button></form>`+
		`<form method="post" action="/refresh">%s<button type="submit">Refresh</button></form>`+
		`<a href="/export/inventory.csv">Export CSV</a>`+
		`<form method="post" action="/import" enctype="multipart/form-data">%s<input type="file" name="file" accept=".csv,text/csv,text/plain" required><button type="submit">Import CSV</button></form>`+
		`</section>`,
		esc(vs.Search), viewFields(vs), viewFields(vs))
}

func writeTable(b *strings.Builder, data PageData) {
	b.WriteString(`<table id="items"><thead><tr><th>Name</th><th>Category</th><th>Qty</th><th>Threshold</th><th>Location</th><th>Status</th><th></th></tr></thead><tbody>`)
	if len(data.Page.Items) == 0 {
		b.WriteString(`<tr><td colspan="7">No items.</td></tr>`)
	}
	for _, it := range data.Page.Items {
		if data.Editing != nil && data.Editing.ID == it.ID {
			writeEditRow(b, *data.Editing, data.View)
			continue
		}
		status := "OK"
		if it.LowStock() {
			status = "Low"
		}
		fmt.Fprintf(b, `<tr data-id="%d"><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%s</td><td>%s</td><td>`+
			`<a href="%s">Edit</a>`+
			`<form method="post" action="/items/%d/delete">%s<button type="submit">Delete</button></form>`+
			`</td></tr>`,
			it.ID, esc(it.Name), esc(it.Category), it.Quantity, it.Threshold, esc(it.Location), status,
			esc(URL(data.View.Editing(it.ID), "")), it.ID, viewFields(data.View))
	}
	b.WriteString(`</tbody></table>`)
}

func writeEditRow(b *strings.Builder, it models.InventoryItem, vs stockview.ViewState) {
	b.WriteString(`<tr class="editing"><td colspan="7">`)
	writeItemForm(b, "/items/"+strconv.FormatInt(it.ID, 10), "Save", it.Draft(), vs)
	fmt.Fprintf(b, `<a href="%s">Cancel</a></td></tr>`, esc(URL(vs.ClearEdit(it.ID), "")))
}

func writePager(b *strings.Builder, data PageData) {
	p := data.Page
	b.WriteString(`<nav id="pager">`)
	if p.HasPrev {
		fmt.Fprintf(b, `<a rel="prev" href="%s">Previous</a>`, esc(URL(data.View.Prev(), "")))
	}
	fmt.Fprintf(b, ` <span>Page %d &middot; %d matching</span> `, p.Number, p.Matches)
	if p.HasNext {
		fmt.Fprintf(b, `<a rel="next" href="%s">Next</a>`, esc(URL(data.View.Next(), "")))
	}
	b.WriteString(`</nav>`)
}

func writeItemForm(b *strings.Builder, action, submit string, d models.Draft, vs stockview.ViewState) {
	qty, threshold := "", ""
	if d.Name != "" {
		qty, threshold = strconv.Itoa(d.Quantity), strconv.Itoa(d.Threshold)
	}
	fmt.Fprintf(b, `<form method="post" action="%s" class="item-form">%s`+
		`<input name="name" placeholder="Name" value="%s" required>`+
		`<input name="category" placeholder="Category" value="%s">`+
		`<input name="quantity" placeholder="Qty" inputmode="numeric" value="%s">`+
		`<input name="threshold" placeholder="Threshold" inputmode="numeric" value="%s">`+
		`<input name="location" placeholder="Location" value="%s">`+
		`<button type="submit">%s</button></form>`,
		esc(action), viewFields(vs), esc(d.Name), esc(d.Category), qty, threshold, esc(d.Location), esc(submit))
}

// viewFields carries the search and page through POST forms so the redirect
// lands on the same view.
func viewFields(vs stockview.ViewState) string {
	return fmt.Sprintf(`<input type="hidden" name="q" value="%s"><input type="hidden" name="page" value="%d">`, esc(vs.Search), vs.Page)
}
