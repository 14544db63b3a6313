// Package bloodhound implements domain.GraphClient against the BloodHound CE
// v2 REST API.
package bloodhound

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openkraft/bhce2gw/internal/domain"
)

// maxErrorBody caps how much of an error response is kept in APIError.
const maxErrorBody = 4096

// Client is an authenticated BloodHound session. It is not safe to call
// Login concurrently with other methods.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a Client for the API rooted at baseURL (see
// domain.BloodHoundConfig.APIBase).
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient creates a Client using hc for all requests.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{baseURL: baseURL, httpClient: hc}
}

type envelope[T any] struct {
	Data T `json:"data"`
}

type loginRequest struct {
	LoginMethod string `json:"login_method"`
	Username    string `json:"username"`
	Secret      string `json:"secret"`
}

type loginResponse struct {
	UserID       string `json:"user_id"`
	AuthExpired  bool   `json:"auth_expired"`
	SessionToken string `json:"session_token"`
}

type cypherRequest struct {
	Query             string `json:"query"`
	IncludeProperties bool   `json:"include_properties"`
}

// Login exchanges username and secret for a session token and keeps it for
// subsequent requests.
func (c *Client) Login(ctx context.Context, username, secret string) (string, error) {
	var out envelope[loginResponse]
	body := loginRequest{LoginMethod: "secret", Username: username, Secret: secret}
	if err := c.do(ctx, "login", http.MethodPost, "login", body, &out); err != nil {
		return "", err
	}
	if out.Data.SessionToken == "" {
		return "", fmt.Errorf("login: response carried no session token")
	}
	c.token = out.Data.SessionToken
	return c.token, nil
}

func (c *Client) ListDomains(ctx context.Context) ([]domain.DomainRef, error) {
	var out envelope[[]domain.DomainRef]
	if err := c.do(ctx, "list domains", http.MethodGet, "available-domains", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) GetDomain(ctx context.Context, id string) (*domain.DomainDetail, error) {
	var out envelope[domain.DomainDetail]
	if err := c.do(ctx, "get domain", http.MethodGet, "domains/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GetTrusts returns the names of the trusted domains in the given direction.
func (c *Client) GetTrusts(ctx context.Context, id string, dir domain.TrustDirection) ([]string, error) {
	var out envelope[[]domain.Trust]
	path := fmt.Sprintf("domains/%s/%s-trusts", url.PathEscape(id), dir)
	if err := c.do(ctx, "get "+string(dir)+" trusts", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Data))
	for _, t := range out.Data {
		names = append(names, t.Name)
	}
	return names, nil
}

func (c *Client) RunCypher(ctx context.Context, query string, includeProperties bool) (*domain.CypherResult, error) {
	var out envelope[domain.CypherResult]
	body := cypherRequest{Query: query, IncludeProperties: includeProperties}
	if err := c.do(ctx, "cypher query", http.MethodPost, "graphs/cypher", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// do sends one request and decodes a 2xx body into out. Non-2xx answers come
// back as *domain.APIError.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.APIError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}
