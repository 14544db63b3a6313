package domain

import "fmt"

// AggregateReport is the document written to the local artifact and merged
// into the Ghostwriter report.
type AggregateReport struct {
	Domains   []Domain        `json:"domains"`
	Computers GlobalComputers `json:"computers"`
}

// GlobalComputers holds the cross-domain computer tally.
type GlobalComputers struct {
	OperatingSystems OSHistogram `json:"operatingSystems"`
}

// Domain summarizes a single BloodHound domain.
type Domain struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Domain            string        `json:"domain"`
	DistinguishedName string        `json:"distinguishedname"`
	FunctionalLevel   string        `json:"functionallevel"`
	Computers         ComputerStats `json:"computers"`
	Users             UserStats     `json:"users"`
	InboundTrusts     []string      `json:"inboundTrusts"`
	OutboundTrusts    []string      `json:"outboundTrusts"`
}

type ComputerStats struct {
	Count            int         `json:"count"`
	OperatingSystems OSHistogram `json:"operatingSystems"`
}

type UserStats struct {
	Count         int `json:"count"`
	OldPwdLastSet int `json:"oldPwdLastSet"`
}

// DomainRef is an entry of the available-domains listing.
type DomainRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Collected bool   `json:"collected,omitempty"`
}

// DomainDetail is the decoded payload of GET /domains/{id}. Trust counts are
// pointers because BloodHound omits them for some domains.
type DomainDetail struct {
	Props          map[string]any `json:"props"`
	Computers      int            `json:"computers"`
	Users          int            `json:"users"`
	InboundTrusts  *int           `json:"inboundTrusts,omitempty"`
	OutboundTrusts *int           `json:"outboundTrusts,omitempty"`
}

// StringProp returns props[key] formatted as text, "" when it is absent or null.
func (d *DomainDetail) StringProp(key string) string {
	if d == nil {
		return ""
	}
	switch v := d.Props[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// HasTrusts reports whether the detail announces at least one trust in the
// given direction. An absent count means zero.
func (d *DomainDetail) HasTrusts(dir TrustDirection) bool {
	if d == nil {
		return false
	}
	var n *int
	switch dir {
	case TrustInbound:
		n = d.InboundTrusts
	case TrustOutbound:
		n = d.OutboundTrusts
	}
	return n != nil && *n > 0
}

// TrustDirection selects the inbound or outbound trust listing of a domain.
type TrustDirection string

const (
	TrustInbound  TrustDirection = "inbound"
	TrustOutbound TrustDirection = "outbound"
)

// Trust is an entry of the inbound/outbound trust listings.
type Trust struct {
	Name string `json:"name"`
}

// CypherResult is the graph returned by POST /graphs/cypher.
type CypherResult struct {
	Nodes map[string]GraphNode `json:"nodes"`
	Edges []GraphEdge          `json:"edges"`
}

// NodeCount returns the number of distinct nodes in the result.
func (r *CypherResult) NodeCount() int {
	if r == nil {
		return 0
	}
	return len(r.Nodes)
}

type GraphNode struct {
	Label      string         `json:"label"`
	Kind       string         `json:"kind"`
	ObjectID   string         `json:"objectId"`
	Properties map[string]any `json:"properties,omitempty"`
}

type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
	Kind   string `json:"kind"`
}

// Identity is the Ghostwriter whoami result.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Expires  any    `json:"expires"`
}

// ExtraFields is the JSON container attached to a Ghostwriter report.
type ExtraFields map[string]any

// MergeExtraFields returns a copy of fields with name set to value. Every
// other key is kept as is.
func MergeExtraFields(fields ExtraFields, name string, value any) ExtraFields {
	merged := make(ExtraFields, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged[name] = value
	return merged
}
