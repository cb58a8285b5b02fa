package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/corevia/corevia/internal/models"
)

// HTTPClient implements DataSource by calling the Corevia REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale). The user
// ID arguments are ignored: the remote server scopes every request to
// the ambient tailnet identity.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func partParams(part models.Part) url.Values {
	v := url.Values{}
	v.Set("part", part.String())
	return v
}

func (c *HTTPClient) LatestSession(ctx context.Context, _ string, part models.Part) (*models.Session, error) {
	body, err := c.get(ctx, "/api/v1/sessions/latest", partParams(part))
	if err != nil {
		return nil, err
	}
	// The API returns JSON null when no prior session exists.
	var sess *models.Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("httpclient: decode session: %w", err)
	}
	return sess, nil
}

func (c *HTTPClient) SessionsByPart(ctx context.Context, _ string, part models.Part) ([]models.Session, error) {
	body, err := c.get(ctx, "/api/v1/sessions", partParams(part))
	if err != nil {
		return nil, err
	}
	var sessions []models.Session
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) FAQsByPart(ctx context.Context, part models.Part) ([]models.FAQ, error) {
	body, err := c.get(ctx, "/api/v1/faqs", partParams(part))
	if err != nil {
		return nil, err
	}
	var faqs []models.FAQ
	if err := json.Unmarshal(body, &faqs); err != nil {
		return nil, fmt.Errorf("httpclient: decode faqs: %w", err)
	}
	return faqs, nil
}
