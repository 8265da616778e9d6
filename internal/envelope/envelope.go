// Package envelope holds the JSON wrappers every API endpoint responds with.
package envelope

import (
	"encoding/json"
	"net/http"
	"time"
)

const (
	StatusSuccess = "success"
	StatusHealthy = "healthy"
	StatusError   = "error"
)

// TimestampLayout is the wall-clock format used in status responses.
const TimestampLayout = "2006-01-02 15:04:05"

// StatusEnvelope describes the service itself rather than a resource.
type StatusEnvelope struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Database  *string           `json:"database,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Endpoints map[string]string `json:"endpoints,omitempty"`
}

// NewStatus builds a StatusEnvelope stamped with now at second precision.
func NewStatus(status, service string, now time.Time) StatusEnvelope {
	return StatusEnvelope{
		Status:    status,
		Service:   service,
		Timestamp: now.Format(TimestampLayout),
	}
}

// SetDatabase records the store connectivity outcome.
func (s *StatusEnvelope) SetDatabase(v string) {
	s.Database = &v
}

// ResponseEnvelope wraps list results. A success always carries data and count.
type ResponseEnvelope[T any] struct {
	Status  string `json:"status"`
	Data    []T    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

// MarshalJSON keeps an empty success list as [] instead of dropping the field.
func (e ResponseEnvelope[T]) MarshalJSON() ([]byte, error) {
	if e.Status != StatusSuccess {
		return json.Marshal(struct {
			Status  string `json:"status"`
			Message string `json:"message,omitempty"`
		}{e.Status, e.Message})
	}
	data := e.Data
	if data == nil {
		data = []T{}
	}
	count := len(data)
	if e.Count != nil {
		count = *e.Count
	}
	return json.Marshal(struct {
		Status string `json:"status"`
		Data   []T    `json:"data"`
		Count  int    `json:"count"`
	}{e.Status, data, count})
}

// Success wraps rows into a success envelope.
func Success[T any](rows []T) ResponseEnvelope[T] {
	if rows == nil {
		rows = []T{}
	}
	n := len(rows)
	return ResponseEnvelope[T]{Status: StatusSuccess, Data: rows, Count: &n}
}

// Failure wraps an error message.
func Failure[T any](msg string) ResponseEnvelope[T] {
	return ResponseEnvelope[T]{Status: StatusError, Message: msg}
}

// WriteJSON writes v indented with four spaces.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	_ = enc.Encode(v)
}

// WriteError writes {status: error, message: msg}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Failure[struct{}](msg))
}
