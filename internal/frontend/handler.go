package frontend

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/user/entity"
)

// Product is the record shape the dashboard expects from GET /products.
// The API does not serve it yet; a missing endpoint just hides the section.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type pageData struct {
	Hostname         string
	GoVersion        string
	APIURL           string
	Users            Result[entity.User]
	Products         Result[Product]
	UsersUnreachable bool
}

// Handler renders the dashboard page.
type Handler struct {
	client   *Client
	hostname func() (string, error)
	logger   *zap.SugaredLogger
}

func NewHandler(client *Client, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{client: client, hostname: os.Hostname, logger: logger}
}

// Dashboard serves GET /. It renders even when every fetch fails.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	host, err := h.hostname()
	if err != nil {
		host = "unknown"
	}
	data := pageData{
		Hostname:  host,
		GoVersion: runtime.Version(),
		APIURL:    h.client.BaseURL(),
		Users:     FetchList[entity.User](r.Context(), h.client, "/users"),
		Products:  FetchList[Product](r.Context(), h.client, "/products"),
	}
	data.UsersUnreachable = errors.Is(data.Users.Err, ErrTransport)

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		h.logger.Errorw("render dashboard", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Microservices Dashboard</title>
    <style>
        body { font-family: Arial; margin: 40px; }
        .container { max-width: 800px; margin: 0 auto; }
        .service { padding: 20px; margin: 10px 0; border-radius: 5px; }
        .frontend { background: #e3f2fd; }
        .api { background: #f3e5f5; }
        .database { background: #e8f5e8; }
        table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Microservices Dashboard</h1>

        <div class="service frontend">
            <h2>Frontend Service</h2>
            <p>Container: {{.Hostname}}</p>
            <p>Go Version: {{.GoVersion}}</p>
        </div>

        <div class="service api">
            <h2>API Service Data</h2>
            {{- if .Users.Present}}
            <h3>Users</h3>
            <table>
                <tr><th>ID</th><th>Name</th><th>Email</th></tr>
                {{- range .Users.Records}}
                <tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Email}}</td></tr>
                {{- end}}
            </table>
            {{- else if .UsersUnreachable}}
            <p>Error connecting to API service</p>
            {{- end}}
            {{- if .Products.Present}}
            <h3>Products</h3>
            <table>
                <tr><th>ID</th><th>Name</th><th>Price</th><th>Stock</th></tr>
                {{- range .Products.Records}}
                <tr><td>{{.ID}}</td><td>{{.Name}}</td><td>${{.Price}}</td><td>{{.Stock}}</td></tr>
                {{- end}}
            </table>
            {{- end}}
        </div>

        <div class="service database">
            <h2>Database Connection</h2>
            <p>MySQL via API Service</p>
            <p>API URL: {{.APIURL}}</p>
        </div>
    </div>
</body>
</html>
`))
