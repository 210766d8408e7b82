package app

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsflow/internal/config"
	"whatsflow/internal/infrastructure"
	"whatsflow/internal/services"
)

const (
	testAdminEmail    = "admin@whatsflow.io"
	testAdminPassword = "s3cret-pass"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Paths = config.PathsConfig{
		DataDir:      dir,
		ExportsDir:   filepath.Join(dir, "exports"),
		LogsDir:      filepath.Join(dir, "logs"),
		DatabaseFile: filepath.Join(dir, "whatsflow.db"),
	}
	cfg.Server.ShutdownTimeout = 5 * time.Second
	return cfg
}

func newTestApp(t *testing.T) *Application {
	t.Helper()
	ctx := context.Background()

	a, err := New(ctx, testConfig(t), infrastructure.NewLogger(io.Discard, "error"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Store.Close() })

	_, err = a.Services.Auth.CreateAdmin(ctx, testAdminEmail, testAdminPassword)
	require.NoError(t, err)
	return a
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func login(t *testing.T, srv *httptest.Server, cookieName string) *http.Cookie {
	t.Helper()
	resp := doJSON(t, srv, http.MethodPost, "/api/admin/login",
		`{"email":"`+testAdminEmail+`","password":"`+testAdminPassword+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

func TestApplication_PublicRoutes(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.Router)
	defer srv.Close()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/api/health", expectedStatus: http.StatusOK},
		{name: "readiness", method: http.MethodGet, path: "/api/health/ready", expectedStatus: http.StatusOK},
		{name: "version", method: http.MethodGet, path: "/api/version", expectedStatus: http.StatusOK},
		{name: "pricing", method: http.MethodGet, path: "/api/pricing", expectedStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, path: "/api/nope", expectedStatus: http.StatusNotFound},
		{name: "admin without session", method: http.MethodGet, path: "/api/admin/dashboard", expectedStatus: http.StatusUnauthorized},
		{name: "invalid contact", method: http.MethodPost, path: "/api/contact", body: `{"full_name":"x"}`, expectedStatus: http.StatusBadRequest},
		{name: "client log", method: http.MethodPost, path: "/api/client-log", body: `{"level":"info","message":"hello"}`, expectedStatus: http.StatusNoContent},
		{name: "posted table without body", method: http.MethodPost, path: "/api/table/export", body: `null`, expectedStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestApplication_BodySizeLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.MaxBodyBytes = 512
	a, err := New(context.Background(), cfg, infrastructure.NewLogger(io.Discard, "error"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Store.Close() })

	srv := httptest.NewServer(a.Router)
	defer srv.Close()

	row := "<tr><td>Ali</td><td>7</td></tr>"
	page := func(rows int) string {
		return `<table class="admin-table"><thead><tr><th>Name</th><th>Score</th></tr></thead><tbody>` +
			strings.Repeat(row, rows) + `</tbody></table>`
	}

	tests := []struct {
		name           string
		body           io.Reader
		expectedStatus int
	}{
		{name: "page within limit", body: strings.NewReader(page(2)), expectedStatus: http.StatusOK},
		{name: "declared length over limit", body: strings.NewReader(page(100)), expectedStatus: http.StatusRequestEntityTooLarge},
		// MultiReader hides the length, so the client streams the body chunked.
		{name: "chunked body over limit", body: io.MultiReader(strings.NewReader(page(100))), expectedStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/table/export", tt.body)
			require.NoError(t, err)
			req.Header.Set("Content-Type", "text/html")

			resp, err := srv.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus == http.StatusRequestEntityTooLarge {
				assert.Contains(t, resp.Header.Get("Content-Type"), "json")
			}
		})
	}
}

func TestApplication_PricingIsSeeded(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.Router)
	defer srv.Close()

	resp := doJSON(t, srv, http.MethodGet, "/api/pricing", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Plans []struct {
			PlanName string `json:"plan_name"`
		} `json:"plans"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Plans)
}

func TestApplication_SubmissionFlow(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.Router)
	defer srv.Close()

	for _, name := range []string{"Zainab", "Ali"} {
		resp := doJSON(t, srv, http.MethodPost, "/api/contact", `{
			"full_name":"`+name+`",
			"business_name":"`+name+` Store",
			"email":"`+strings.ToLower(name)+`@example.com",
			"whatsapp_number":"+9647700000000",
			"country":"Iraq",
			"plan_selected":"Pro"
		}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	cookie := login(t, srv, a.Config.Admin.CookieName)

	resp := doJSON(t, srv, http.MethodGet, "/api/admin/dashboard", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dash struct {
		Stats struct {
			Total   int `json:"total"`
			Pending int `json:"pending"`
		} `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dash))
	assert.Equal(t, 2, dash.Stats.Total)
	assert.Equal(t, 2, dash.Stats.Pending)

	resp = doJSON(t, srv, http.MethodPost, "/api/admin/table/sort/"+services.ColumnName, "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sorted struct {
		Sorted    bool   `json:"sorted"`
		Direction string `json:"direction"`
		Table     struct {
			Rows [][]string `json:"rows"`
		} `json:"table"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sorted))
	assert.True(t, sorted.Sorted)
	assert.Equal(t, "asc", sorted.Direction)
	require.Len(t, sorted.Table.Rows, 2)
	assert.Equal(t, "Ali", sorted.Table.Rows[0][1])

	resp = doJSON(t, srv, http.MethodGet, "/api/admin/table/export.csv", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="whatsflow_submissions.csv"`, resp.Header.Get("Content-Disposition"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Name,Business,Email,WhatsApp,Country,Plan,Message,Status", lines[0])
	assert.Contains(t, lines[1], `"Ali"`)

	resp = doJSON(t, srv, http.MethodGet, "/api/admin/export/pdf", "", cookie)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodPost, "/api/admin/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, srv, http.MethodGet, "/api/admin/dashboard", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestApplication_ServeAndShutdown(t *testing.T) {
	a := newTestApp(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("application did not shut down")
	}
}
