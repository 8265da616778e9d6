package frontend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/user/entity"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()
	c := NewClient(baseURL, timeout, nil, nil)
	t.Cleanup(c.Close)
	return c
}

func TestFetchList_Envelope(t *testing.T) {
	srv := serve(t, http.StatusOK, `{
    "status": "success",
    "data": [
        {"id": 1, "name": "John Doe", "email": "john@example.com", "created_at": "2024-01-01T00:00:00Z"},
        {"id": 2, "name": "Jane Smith", "email": "jane@example.com", "created_at": "2024-01-01T00:00:00Z"}
    ],
    "count": 2
}`)
	c := newTestClient(t, srv.URL, time.Second)

	res := FetchList[entity.User](context.Background(), c, "/users")

	require.True(t, res.Present())
	require.Len(t, res.Records, 2)
	assert.Equal(t, int64(1), res.Records[0].ID)
	assert.Equal(t, "jane@example.com", res.Records[1].Email)
}

func TestFetchList_BareArray(t *testing.T) {
	srv := serve(t, http.StatusOK, `[{"id": 7, "name": "Lamp", "price": 19.5, "stock": 3}]`)
	c := newTestClient(t, srv.URL, time.Second)

	res := FetchList[Product](context.Background(), c, "/products")

	require.True(t, res.Present())
	assert.Equal(t, []Product{{ID: 7, Name: "Lamp", Price: 19.5, Stock: 3}}, res.Records)
}

func TestFetchList_EmptyList(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"status":"success","data":[],"count":0}`)
	c := newTestClient(t, srv.URL, time.Second)

	res := FetchList[entity.User](context.Background(), c, "/users")

	require.True(t, res.Present())
	assert.NotNil(t, res.Records)
	assert.Empty(t, res.Records)
}

func TestFetchList_ServerErrorIsAbsent(t *testing.T) {
	srv := serve(t, http.StatusInternalServerError, `{"status":"error","message":"boom"}`)
	c := newTestClient(t, srv.URL, time.Second)

	res := FetchList[entity.User](context.Background(), c, "/users")

	assert.False(t, res.Present())
	assert.Nil(t, res.Records)
	assert.True(t, errors.Is(res.Err, ErrTransport))
}

func TestFetchList_NotJSONIsAbsent(t *testing.T) {
	for _, body := range []string{`not json`, `"not json"`} {
		t.Run(body, func(t *testing.T) {
			srv := serve(t, http.StatusOK, body)
			c := newTestClient(t, srv.URL, time.Second)

			res := FetchList[entity.User](context.Background(), c, "/users")

			assert.False(t, res.Present())
			assert.True(t, errors.Is(res.Err, ErrDecode))
		})
	}
}

func TestFetchList_ErrorEnvelopeIsAbsent(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"status":"error","message":"Access denied"}`)
	c := newTestClient(t, srv.URL, time.Second)

	res := FetchList[entity.User](context.Background(), c, "/users")

	assert.False(t, res.Present())
	assert.True(t, errors.Is(res.Err, ErrDecode))
}

func TestFetchList_WrongRecordShapeIsAbsent(t *testing.T) {
	srv := serve(t, http.StatusOK, `[{"id": "one"}]`)
	c := newTestClient(t, srv.URL, time.Second)

	res := FetchList[entity.User](context.Background(), c, "/users")

	assert.True(t, errors.Is(res.Err, ErrDecode))
}

func TestFetchList_Unreachable(t *testing.T) {
	srv := serve(t, http.StatusOK, `[]`)
	url := srv.URL
	srv.Close()
	c := newTestClient(t, url, time.Second)

	res := FetchList[entity.User](context.Background(), c, "/users")

	assert.False(t, res.Present())
	assert.True(t, errors.Is(res.Err, ErrTransport))
}

func TestFetchList_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv.URL, 50*time.Millisecond)

	start := time.Now()
	res := FetchList[entity.User](context.Background(), c, "/users")

	assert.True(t, errors.Is(res.Err, ErrTransport))
	assert.Less(t, time.Since(start), time.Second)
}

func TestFetchList_RecordsOutcomeMetric(t *testing.T) {
	srv := serve(t, http.StatusNotFound, `not found`)
	m := metrics.New("frontend")
	c := NewClient(srv.URL, time.Second, nil, m)
	defer c.Close()

	FetchList[Product](context.Background(), c, "/products")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `frontend_fetch_total{outcome="transport",path="/products",service="frontend"} 1`)
}
