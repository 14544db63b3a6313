// Package ghostwriter implements domain.ReportClient against Ghostwriter's
// Hasura GraphQL endpoint.
package ghostwriter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	graphql "github.com/hasura/go-graphql-client"

	"github.com/openkraft/bhce2gw/internal/domain"
)

const (
	whoamiQuery = `query Whoami {
  whoami {
    username role expires
  }
}`

	fetchReportQuery = `query FetchReport($reportId: bigint!) {
  report_by_pk(id: $reportId) {
    extraFields
  }
}`

	updateExtraFieldsMutation = `mutation UpdateReport($reportId: bigint!, $extraFieldsContent: jsonb!) {
  update_report_by_pk(pk_columns: {id: $reportId}, _set: {extraFields: $extraFieldsContent}) {
    extraFields
  }
}`
)

// Client is a Ghostwriter API session authenticated with a static token. It
// is meant for serial use.
type Client struct {
	gql     *graphql.Client
	doer    *recordingDoer
	timeout time.Duration
}

// New creates a Client for endpoint (see
// domain.GhostwriterConfig.GraphQLEndpoint).
func New(endpoint, token string, timeout time.Duration) *Client {
	return NewWithHTTPClient(endpoint, token, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient creates a Client sending requests through hc.
func NewWithHTTPClient(endpoint, token string, hc *http.Client) *Client {
	doer := &recordingDoer{hc: hc}
	gql := graphql.NewClient(endpoint, doer).
		WithRequestModifier(func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		})
	return &Client{gql: gql, doer: doer, timeout: hc.Timeout}
}

// Whoami verifies the token.
func (c *Client) Whoami(ctx context.Context) (*domain.Identity, error) {
	var out struct {
		Whoami *domain.Identity `json:"whoami"`
	}
	if err := c.exec(ctx, whoamiQuery, nil, &out); err != nil {
		return nil, err
	}
	if out.Whoami == nil {
		return nil, &domain.CategorizedError{Category: domain.CategoryProtocol, Err: errors.New("whoami returned no identity")}
	}
	return out.Whoami, nil
}

// FetchExtraFields returns the report's extraFields. A null container is
// returned as an empty map.
func (c *Client) FetchExtraFields(ctx context.Context, reportID int64) (domain.ExtraFields, error) {
	var out struct {
		Report *struct {
			ExtraFields domain.ExtraFields `json:"extraFields"`
		} `json:"report_by_pk"`
	}
	vars := map[string]any{"reportId": reportID}
	if err := c.exec(ctx, fetchReportQuery, vars, &out); err != nil {
		return nil, err
	}
	if out.Report == nil {
		return nil, &domain.CategorizedError{Category: domain.CategoryQuery, Err: fmt.Errorf("report %d not found", reportID)}
	}
	if out.Report.ExtraFields == nil {
		return domain.ExtraFields{}, nil
	}
	return out.Report.ExtraFields, nil
}

// UpdateExtraFields replaces the report's extraFields with fields and returns
// what the server stored.
func (c *Client) UpdateExtraFields(ctx context.Context, reportID int64, fields domain.ExtraFields) (domain.ExtraFields, error) {
	var out struct {
		Report *struct {
			ExtraFields domain.ExtraFields `json:"extraFields"`
		} `json:"update_report_by_pk"`
	}
	vars := map[string]any{
		"reportId":           reportID,
		"extraFieldsContent": fields,
	}
	if err := c.exec(ctx, updateExtraFieldsMutation, vars, &out); err != nil {
		return nil, err
	}
	if out.Report == nil {
		return nil, &domain.CategorizedError{Category: domain.CategoryQuery, Err: fmt.Errorf("report %d not found", reportID)}
	}
	return out.Report.ExtraFields, nil
}

func (c *Client) exec(ctx context.Context, query string, vars map[string]any, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.doer.reset()
	data, err := c.gql.ExecRaw(ctx, query, vars)
	if err != nil {
		return &domain.CategorizedError{Category: c.classify(ctx, err), Err: err}
	}
	if err := decode(data, out); err != nil {
		return &domain.CategorizedError{Category: domain.CategoryProtocol, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// decode keeps numbers as json.Number so keys owned by others survive a
// fetch-then-update round trip exactly.
func decode(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}

// classify maps a failed exchange onto a domain.FailureCategory using what
// the transport observed.
func (c *Client) classify(ctx context.Context, err error) domain.FailureCategory {
	status, transportErr := c.doer.status, c.doer.err

	var netErr net.Error
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded),
		errors.As(transportErr, &netErr) && netErr.Timeout():
		return domain.CategoryTimeout
	case transportErr != nil:
		return domain.CategoryTransport
	case status != 0 && (status < 200 || status > 299):
		return domain.CategoryServer
	}

	var gqlErrs graphql.Errors
	if errors.As(err, &gqlErrs) {
		return domain.CategoryQuery
	}
	return domain.CategoryProtocol
}

// recordingDoer remembers the status and transport error of the last
// request so failures can be classified without depending on how the
// GraphQL client wraps them.
type recordingDoer struct {
	hc     *http.Client
	status int
	err    error
}

func (d *recordingDoer) reset() {
	d.status, d.err = 0, nil
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.hc.Do(req)
	d.err = err
	if resp != nil {
		d.status = resp.StatusCode
	}
	return resp, err
}
