package http

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"stockdash/infrastructure/audit"
	"stockdash/infrastructure/inventoryapi"
	"stockdash/infrastructure/sqlite"
	"stockdash/infrastructure/syncer"
)

type integrationEnv struct {
	dashboard *httptest.Server
	api       *httptest.Server
	db        *sqlite.DB
	ctrl      *syncer.Controller
}

func setupIntegrationServer(t *testing.T) (*integrationEnv, *http.Client) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "server-integration.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := sqlite.Migrate(context.Background(), db, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	api := httptest.NewServer(NewAPIServer("127.0.0.1:0", db, audit.NewService()).Handler())
	ctrl := syncer.New(inventoryapi.NewClient(api.URL, 0))
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}

	s := NewServer("127.0.0.1:0", ctrl, 5)
	env := &integrationEnv{
		dashboard: httptest.NewServer(s.Handler()),
		api:       api,
		db:        db,
		ctrl:      ctrl,
	}
	t.Cleanup(func() {
		env.dashboard.Close()
		env.api.Close()
		_ = env.db.Close()
	})
	return env, newHTTPClient(t)
}

func newHTTPClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, client *http.Client, baseURL, path string) *http.Response {
	t.Helper()
	resp, err := client.Get(baseURL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func csrfToken(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()
	u, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("parse base url: %v", err)
	}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "X-CSRF-Token" {
			return c.Value
		}
	}
	return ""
}

// primeCSRF loads the dashboard once so the jar holds a token.
func primeCSRF(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()
	resp := get(t, client, baseURL, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected dashboard 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func postForm(t *testing.T, client *http.Client, baseURL, path string, data url.Values) *http.Response {
	t.Helper()
	if data == nil {
		data = url.Values{}
	}
	if token := csrfToken(t, client, baseURL); token != "" {
		data.Set("_csrf", token)
	}
	resp, err := client.PostForm(baseURL+path, data)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

func postMultipartFile(t *testing.T, client *http.Client, baseURL, path, fieldName, fileName string, fileContents []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if token := csrfToken(t, client, baseURL); token != "" {
		if err := writer.WriteField("_csrf", token); err != nil {
			t.Fatalf("write csrf multipart field: %v", err)
		}
	}
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("create multipart file field: %v", err)
	}
	if _, err := part.Write(fileContents); err != nil {
		t.Fatalf("write multipart file content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, &body)
	if err != nil {
		t.Fatalf("build multipart request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST multipart %s failed: %v", path, err)
	}
	return resp
}

func itemCount(t *testing.T, db *sqlite.DB) int64 {
	t.Helper()
	var count int64
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM inventory_items`).Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count items: %v", err)
	}
	return count
}

func auditCount(t *testing.T, db *sqlite.DB, action string) int64 {
	t.Helper()
	var count int64
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM audit_logs WHERE action = ?`, action).Scan(ctx, &count)
	})
	if err != nil {
		t.Fatalf("count audit logs: %v", err)
	}
	return count
}

func TestHealth(t *testing.T) {
	env, client := setupIntegrationServer(t)

	for _, base := range []string{env.dashboard.URL, env.api.URL} {
		resp := get(t, client, base, "/health")
		if body := readBody(t, resp); resp.StatusCode != http.StatusOK || body != "ok" {
			t.Fatalf("%s/health = %d %q", base, resp.StatusCode, body)
		}
	}
}

func TestDashboardSetsSecureHeaders(t *testing.T) {
	env, client := setupIntegrationServer(t)

	resp := get(t, client, env.dashboard.URL, "/")
	_ = resp.Body.Close()
	if resp.Header.Get("X-Frame-Options") != "DENY" || resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing secure headers: %v", resp.Header)
	}
}

func TestCSRFPostWithoutTokenRejected(t *testing.T) {
	env, client := setupIntegrationServer(t)

	// No GET first: no CSRF token available in cookie or form.
	resp, err := client.PostForm(env.dashboard.URL+"/items", url.Values{"name": {"Bolt"}})
	if err != nil {
		t.Fatalf("post item: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for missing csrf, got %d", resp.StatusCode)
	}
	if n := itemCount(t, env.db); n != 0 {
		t.Fatalf("expected no items created, got %d", n)
	}
}

func TestCSRFPostWithWrongTokenRejected(t *testing.T) {
	env, client := setupIntegrationServer(t)
	primeCSRF(t, client, env.dashboard.URL)

	resp, err := client.PostForm(env.dashboard.URL+"/refresh", url.Values{"_csrf": {"not-the-token"}})
	if err != nil {
		t.Fatalf("post refresh: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong csrf token, got %d", resp.StatusCode)
	}
}

func TestCSRFPostWithoutToken_SameOriginRefererAccepted(t *testing.T) {
	env, client := setupIntegrationServer(t)

	req, err := http.NewRequest(http.MethodPost, env.dashboard.URL+"/refresh", strings.NewReader(""))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", env.dashboard.URL+"/?page=2")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("post refresh: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected same-origin csrf fallback 303, got %d", resp.StatusCode)
	}
}

func TestCSRFPostWithoutToken_CrossOriginRejected(t *testing.T) {
	env, client := setupIntegrationServer(t)

	req, err := http.NewRequest(http.MethodPost, env.dashboard.URL+"/refresh", strings.NewReader(""))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://evil.example")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("post cross-origin request: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-origin missing csrf token, got %d", resp.StatusCode)
	}
}

func TestCreateEditDeleteThroughDashboard(t *testing.T) {
	env, client := setupIntegrationServer(t)
	primeCSRF(t, client, env.dashboard.URL)
	base := env.dashboard.URL

	resp := postForm(t, client, base, "/items", url.Values{
		"name": {"Bolt"}, "category": {"Hardware"}, "quantity": {"3"}, "threshold": {"10"}, "location": {"A1"},
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected create 303, got %d", resp.StatusCode)
	}
	if n := itemCount(t, env.db); n != 1 {
		t.Fatalf("expected 1 item in store, got %d", n)
	}

	page := readBody(t, get(t, client, base, "/"))
	if !strings.Contains(page, `<dd id="total-units">3</dd>`) || !strings.Contains(page, `<li data-id="1">Bolt</li>`) {
		t.Fatalf("dashboard did not pick up the new item:\n%s", page)
	}

	page = readBody(t, get(t, client, base, "/?edit=1"))
	if !strings.Contains(page, `action="/items/1"`) {
		t.Fatalf("expected edit form for item 1")
	}

	resp = postForm(t, client, base, "/items/1", url.Values{
		"name": {"Bolt"}, "category": {"Hardware"}, "quantity": {"30"}, "threshold": {"10"}, "location": {"A1"},
	})
	_ = resp.Body.Close()
	if loc := resp.Header.Get("Location"); strings.Contains(loc, "edit=") {
		t.Fatalf("edit marker should be cleared after save: %s", loc)
	}
	if snap := env.ctrl.Snapshot(); len(snap.Alerts) != 0 || snap.Summary.TotalUnits != 30 {
		t.Fatalf("unexpected snapshot after update: %+v", snap)
	}

	resp = postForm(t, client, base, "/items/1/delete", nil)
	_ = resp.Body.Close()
	if n := itemCount(t, env.db); n != 0 {
		t.Fatalf("expected empty store after delete, got %d", n)
	}
	if n := auditCount(t, env.db, audit.ActionDelete); n != 1 {
		t.Fatalf("expected one delete audit row, got %d", n)
	}
}

func TestCreateWithNonNumericQuantityNotSubmitted(t *testing.T) {
	env, client := setupIntegrationServer(t)
	primeCSRF(t, client, env.dashboard.URL)

	resp := postForm(t, client, env.dashboard.URL, "/items", url.Values{"name": {"Bolt"}, "quantity": {"three"}})
	_ = resp.Body.Close()
	if n := itemCount(t, env.db); n != 0 {
		t.Fatalf("expected nothing submitted, got %d items", n)
	}
	if !strings.Contains(resp.Header.Get("Location"), "status=Error") {
		t.Fatalf("expected error status in redirect: %s", resp.Header.Get("Location"))
	}
}

func TestImportThenExportCSV(t *testing.T) {
	env, client := setupIntegrationServer(t)
	primeCSRF(t, client, env.dashboard.URL)
	base := env.dashboard.URL

	csv := "Name,Category,Qty,Threshold,Location\nBolt,Hardware,3,10,A1\n,BadRow,x,y,A2\nNut,Hardware,50,5,A2\n"
	resp := postMultipartFile(t, client, base, "/import", "file", "inventory.csv", []byte(csv))
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected import 303, got %d", resp.StatusCode)
	}
	if n := itemCount(t, env.db); n != 2 {
		t.Fatalf("expected 2 imported items, got %d", n)
	}
	loc, _ := url.Parse(resp.Header.Get("Location"))
	if status := loc.Query().Get("status"); !strings.Contains(status, "2 created") || !strings.Contains(status, "1 rows skipped") {
		t.Fatalf("unexpected import status: %q", status)
	}

	resp = get(t, client, base, "/export/inventory.csv")
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "inventory.csv") {
		t.Fatalf("unexpected Content-Disposition: %q", cd)
	}
	body := readBody(t, resp)
	want := "Name,Category,Qty,Threshold,Location\nBolt,Hardware,3,10,A1\nNut,Hardware,50,5,A2"
	if body != want {
		t.Fatalf("export = %q, want %q", body, want)
	}
}

func TestReorderSheetPDF(t *testing.T) {
	env, client := setupIntegrationServer(t)
	primeCSRF(t, client, env.dashboard.URL)

	resp := postForm(t, client, env.dashboard.URL, "/items", url.Values{"name": {"Bolt"}, "quantity": {"1"}, "threshold": {"5"}})
	_ = resp.Body.Close()

	resp = get(t, client, env.dashboard.URL, "/reorder.pdf")
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(body, "%PDF") {
		t.Fatalf("expected pdf, got %d", resp.StatusCode)
	}
}

func TestDashboardSurvivesAPIOutage(t *testing.T) {
	env, client := setupIntegrationServer(t)
	primeCSRF(t, client, env.dashboard.URL)

	resp := postForm(t, client, env.dashboard.URL, "/items", url.Values{"name": {"Bolt"}, "quantity": {"3"}})
	_ = resp.Body.Close()
	env.api.Close()

	resp = postForm(t, client, env.dashboard.URL, "/refresh", nil)
	_ = resp.Body.Close()
	if !strings.Contains(resp.Header.Get("Location"), "status=Error") {
		t.Fatalf("expected refresh error status: %s", resp.Header.Get("Location"))
	}

	page := readBody(t, get(t, client, env.dashboard.URL, "/"))
	if !strings.Contains(page, `<tr data-id="1">`) {
		t.Fatalf("expected the last loaded item to remain visible")
	}
}
