package fakes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/openkraft/bhce2gw/internal/domain"
)

// Ghostwriter is a fake Hasura endpoint served at URL + "/v1/graphql".
type Ghostwriter struct {
	*httptest.Server

	Token string

	// Status forces an HTTP status for an operation ("whoami", "fetch",
	// "update").
	Status map[string]int
	// Errors forces a GraphQL error message for an operation.
	Errors map[string]string
	// Delay is slept before answering an operation.
	Delay map[string]time.Duration

	mu      sync.Mutex
	reports map[int64]json.RawMessage
	ops     []string
}

// NewGhostwriter starts a fake with the given reports' extraFields. Callers
// must Close it.
func NewGhostwriter(reports map[int64]domain.ExtraFields) *Ghostwriter {
	g := &Ghostwriter{
		Token:   "gw-api-token",
		Status:  map[string]int{},
		Errors:  map[string]string{},
		Delay:   map[string]time.Duration{},
		reports: map[int64]json.RawMessage{},
	}
	for id, fields := range reports {
		data, _ := json.Marshal(fields)
		g.reports[id] = data
	}
	g.Server = httptest.NewServer(http.HandlerFunc(g.serve))
	return g
}

// ExtraFields returns the stored extraFields of a report. Numbers are
// json.Number.
func (g *Ghostwriter) ExtraFields(id int64) domain.ExtraFields {
	var fields domain.ExtraFields
	dec := json.NewDecoder(bytes.NewReader(g.RawExtraFields(id)))
	dec.UseNumber()
	_ = dec.Decode(&fields)
	return fields
}

// RawExtraFields returns the stored extraFields of a report as received.
func (g *Ghostwriter) RawExtraFields(id int64) json.RawMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append(json.RawMessage(nil), g.reports[id]...)
}

// Operations returns the operations received so far, in order.
func (g *Ghostwriter) Operations() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.ops...)
}

type gqlRequest struct {
	Query     string                     `json:"query"`
	Variables map[string]json.RawMessage `json:"variables"`
}

func (g *Ghostwriter) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/graphql" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	op := operation(req.Query)
	g.mu.Lock()
	g.ops = append(g.ops, op)
	g.mu.Unlock()

	if d := g.Delay[op]; d > 0 {
		select {
		case <-time.After(d):
		case <-r.Context().Done():
			return
		}
	}
	if status := g.Status[op]; status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+g.Token {
		writeGQLError(w, "Could not verify JWT: JWSError JWSInvalidSignature")
		return
	}
	if msg := g.Errors[op]; msg != "" {
		writeGQLError(w, msg)
		return
	}

	switch op {
	case "whoami":
		writeGQLData(w, map[string]any{
			"whoami": map[string]any{"username": "benny", "role": "manager", "expires": "2099-01-01T00:00:00+00:00"},
		})
	case "fetch":
		g.fetch(w, req)
	case "update":
		g.update(w, req)
	default:
		writeGQLError(w, "unknown operation")
	}
}

func (g *Ghostwriter) fetch(w http.ResponseWriter, req gqlRequest) {
	var id int64
	_ = json.Unmarshal(req.Variables["reportId"], &id)

	g.mu.Lock()
	fields, ok := g.reports[id]
	g.mu.Unlock()
	if !ok {
		writeGQLData(w, map[string]any{"report_by_pk": nil})
		return
	}
	writeGQLData(w, map[string]any{"report_by_pk": map[string]any{"extraFields": fields}})
}

func (g *Ghostwriter) update(w http.ResponseWriter, req gqlRequest) {
	var id int64
	_ = json.Unmarshal(req.Variables["reportId"], &id)
	content := req.Variables["extraFieldsContent"]

	g.mu.Lock()
	_, ok := g.reports[id]
	if ok {
		g.reports[id] = content
	}
	g.mu.Unlock()
	if !ok {
		writeGQLData(w, map[string]any{"update_report_by_pk": nil})
		return
	}
	writeGQLData(w, map[string]any{"update_report_by_pk": map[string]any{"extraFields": content}})
}

func operation(query string) string {
	switch {
	case strings.Contains(query, "update_report_by_pk"):
		return "update"
	case strings.Contains(query, "report_by_pk"):
		return "fetch"
	case strings.Contains(query, "whoami"):
		return "whoami"
	}
	return "unknown"
}

func writeGQLData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeGQLError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]any{{"message": msg}},
	})
}
