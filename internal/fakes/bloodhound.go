// Package fakes provides in-process BloodHound and Ghostwriter servers for
// tests.
package fakes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/openkraft/bhce2gw/internal/domain"
)

// BloodHoundDomain describes one domain served by the fake.
type BloodHoundDomain struct {
	Ref domain.DomainRef
	// Detail is returned verbatim as the data of GET /domains/{id}.
	Detail map[string]any
	// DetailStatus overrides the status of GET /domains/{id} when non-zero.
	DetailStatus int
	Inbound      []string
	Outbound     []string
	Computers    map[string]domain.GraphNode
	StaleUsers   map[string]domain.GraphNode
	// CypherStatus overrides the status of both cypher queries when non-zero.
	CypherStatus int
}

// BloodHound is a fake BloodHound CE API rooted at URL + "/api/v2/".
type BloodHound struct {
	*httptest.Server

	Username string
	Secret   string
	Token    string

	LoginStatus   int
	DomainsStatus int

	mu      sync.Mutex
	domains []BloodHoundDomain
	calls   []string
}

// NewBloodHound starts a fake serving domains. Callers must Close it.
func NewBloodHound(domains ...BloodHoundDomain) *BloodHound {
	b := &BloodHound{
		Username: "admin",
		Secret:   "hunter2",
		Token:    "bh-session-token",
		domains:  domains,
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	return b
}

// Calls returns "METHOD /path" for every request received so far.
func (b *BloodHound) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// Called reports whether a request for method and path was received.
func (b *BloodHound) Called(method, path string) bool {
	for _, c := range b.Calls() {
		if c == method+" "+path {
			return true
		}
	}
	return false
}

func (b *BloodHound) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
	b.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api/v2/")
	if path == r.URL.Path {
		writeStatus(w, http.StatusNotFound)
		return
	}

	if path == "login" {
		b.login(w, r)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+b.Token {
		writeStatus(w, http.StatusUnauthorized)
		return
	}

	switch {
	case path == "available-domains" && r.Method == http.MethodGet:
		if b.DomainsStatus != 0 {
			writeStatus(w, b.DomainsStatus)
			return
		}
		refs := make([]domain.DomainRef, 0, len(b.domains))
		for _, d := range b.domains {
			refs = append(refs, d.Ref)
		}
		writeData(w, refs)
	case path == "graphs/cypher" && r.Method == http.MethodPost:
		b.cypher(w, r)
	case strings.HasPrefix(path, "domains/") && r.Method == http.MethodGet:
		b.domain(w, strings.TrimPrefix(path, "domains/"))
	default:
		writeStatus(w, http.StatusNotFound)
	}
}

func (b *BloodHound) login(w http.ResponseWriter, r *http.Request) {
	if b.LoginStatus != 0 {
		writeStatus(w, b.LoginStatus)
		return
	}
	var req struct {
		LoginMethod string `json:"login_method"`
		Username    string `json:"username"`
		Secret      string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}
	if req.LoginMethod != "secret" || req.Username != b.Username || req.Secret != b.Secret {
		writeStatus(w, http.StatusUnauthorized)
		return
	}
	writeData(w, map[string]any{
		"user_id":       "00000000-0000-0000-0000-000000000001",
		"auth_expired":  false,
		"session_token": b.Token,
	})
}

func (b *BloodHound) domain(w http.ResponseWriter, rest string) {
	id, suffix, _ := strings.Cut(rest, "/")
	d, ok := b.find(id)
	if !ok {
		writeStatus(w, http.StatusNotFound)
		return
	}

	switch suffix {
	case "":
		if d.DetailStatus != 0 {
			writeStatus(w, d.DetailStatus)
			return
		}
		writeData(w, d.Detail)
	case "inbound-trusts":
		writeData(w, trusts(d.Inbound))
	case "outbound-trusts":
		writeData(w, trusts(d.Outbound))
	default:
		writeStatus(w, http.StatusNotFound)
	}
}

func (b *BloodHound) cypher(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query             string `json:"query"`
		IncludeProperties bool   `json:"include_properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatus(w, http.StatusBadRequest)
		return
	}

	for _, d := range b.domains {
		if !strings.Contains(req.Query, `domain = "`+d.Ref.Name+`"`) {
			continue
		}
		if d.CypherStatus != 0 {
			writeStatus(w, d.CypherStatus)
			return
		}
		nodes := d.Computers
		if strings.HasPrefix(req.Query, "MATCH (u:User)") {
			nodes = d.StaleUsers
		}
		if nodes == nil {
			nodes = map[string]domain.GraphNode{}
		}
		if !req.IncludeProperties {
			nodes = stripProperties(nodes)
		}
		writeData(w, domain.CypherResult{Nodes: nodes, Edges: []domain.GraphEdge{}})
		return
	}
	writeStatus(w, http.StatusNotFound)
}

func (b *BloodHound) find(id string) (BloodHoundDomain, bool) {
	for _, d := range b.domains {
		if d.Ref.ID == id {
			return d, true
		}
	}
	return BloodHoundDomain{}, false
}

func trusts(names []string) []domain.Trust {
	out := make([]domain.Trust, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Trust{Name: n})
	}
	return out
}

func stripProperties(nodes map[string]domain.GraphNode) map[string]domain.GraphNode {
	out := make(map[string]domain.GraphNode, len(nodes))
	for id, n := range nodes {
		n.Properties = nil
		out[id] = n
	}
	return out
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"http_status": status,
		"errors":      []map[string]string{{"message": http.StatusText(status)}},
	})
}

// Computer returns a computer node, omitting operatingsystem when os is "".
func Computer(name, os string) domain.GraphNode {
	props := map[string]any{"name": name}
	if os != "" {
		props["operatingsystem"] = os
	}
	return domain.GraphNode{Label: name, Kind: "Computer", ObjectID: name, Properties: props}
}

// User returns a user node.
func User(name string) domain.GraphNode {
	return domain.GraphNode{Label: name, Kind: "User", ObjectID: name, Properties: map[string]any{"name": name}}
}

// Detail builds a domain detail payload. Negative trust counts are omitted.
func Detail(name string, computers, users, inbound, outbound int) map[string]any {
	d := map[string]any{
		"props": map[string]any{
			"name":              name,
			"domain":            name,
			"distinguishedname": "DC=" + strings.ReplaceAll(name, ".", ",DC="),
			"functionallevel":   "2016",
		},
		"computers": computers,
		"users":     users,
	}
	if inbound >= 0 {
		d["inboundTrusts"] = inbound
	}
	if outbound >= 0 {
		d["outboundTrusts"] = outbound
	}
	return d
}
