package frontend

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func apiStub(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range routes {
		body := body
		mux.HandleFunc("GET "+path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func renderDashboard(t *testing.T, baseURL string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(newTestClient(t, baseURL, time.Second), nil)
	h.hostname = func() (string, error) { return "frontend-1", nil }
	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestDashboard_UsersOnly(t *testing.T) {
	srv := apiStub(t, map[string]string{
		"/users": `{"status":"success","data":[{"id":1,"name":"John Doe","email":"john@example.com"}],"count":1}`,
	})

	rec := renderDashboard(t, srv.URL)
	body := rec.Body.String()

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "Container: frontend-1")
	assert.Contains(t, body, "Go Version: "+runtime.Version())
	assert.Contains(t, body, "<h3>Users</h3>")
	assert.Contains(t, body, "<td>John Doe</td>")
	assert.NotContains(t, body, "<h3>Products</h3>")
	assert.NotContains(t, body, "Error connecting to API service")
	assert.Contains(t, body, "API URL: "+srv.URL)
}

func TestDashboard_UsersAndProducts(t *testing.T) {
	srv := apiStub(t, map[string]string{
		"/users":    `{"status":"success","data":[],"count":0}`,
		"/products": `[{"id":3,"name":"Desk","price":120.5,"stock":4}]`,
	})

	body := renderDashboard(t, srv.URL).Body.String()

	assert.Contains(t, body, "<h3>Users</h3>")
	assert.Contains(t, body, "<h3>Products</h3>")
	assert.Contains(t, body, "<td>Desk</td><td>$120.5</td><td>4</td>")
}

func TestDashboard_APIUnreachable(t *testing.T) {
	srv := apiStub(t, nil)
	url := srv.URL
	srv.Close()

	rec := renderDashboard(t, url)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error connecting to API service")
	assert.NotContains(t, rec.Body.String(), "<h3>Users</h3>")
}

func TestDashboard_UndecodableUsersRendersNothing(t *testing.T) {
	srv := apiStub(t, map[string]string{"/users": `not json`})

	body := renderDashboard(t, srv.URL).Body.String()

	assert.NotContains(t, body, "<h3>Users</h3>")
	assert.NotContains(t, body, "Error connecting to API service")
}

func TestDashboard_EscapesRecordFields(t *testing.T) {
	srv := apiStub(t, map[string]string{
		"/users": `[{"id":1,"name":"<script>alert(1)</script>","email":"x@example.com"}]`,
	})

	body := renderDashboard(t, srv.URL).Body.String()

	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}
