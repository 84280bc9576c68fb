package kafgov

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "http://localhost:8090/api/v1"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "kafka-gov-go-sdk/1.0.0"
)

// Client is the API client for the kafka-gov governance backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	authToken  string
	userAgent  string

	// Service clients
	Topics    *TopicService
	Schemas   *SchemaService
	Connect   *ConnectService
	Policies  *PolicyService
	Consumers *ConsumerService
	Audit     *AuditService
	Live      *LiveFeed
}

// NewClient creates a new kafka-gov API client.
func NewClient(baseURL string, opts ...Option) *Client {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		parsedURL, _ = url.Parse(defaultBaseURL)
	}

	// Ensure base URL ends without trailing slash for path joining
	parsedURL.Path = strings.TrimSuffix(parsedURL.Path, "/")

	c := &Client{
		baseURL:    parsedURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Initialize service clients
	c.Topics = &TopicService{client: c}
	c.Schemas = &SchemaService{client: c}
	c.Connect = &ConnectService{client: c}
	c.Policies = &PolicyService{client: c}
	c.Consumers = &ConsumerService{client: c}
	c.Audit = &AuditService{client: c}
	c.Live = &LiveFeed{client: c}

	return c
}

// BaseURL returns the base URL the client talks to.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// doRequest performs an HTTP request with the given context, method, path,
// body, and query parameters.
func (c *Client) doRequest(ctx context.Context, method, requestPath string, body interface{}, queryParams map[string]string) (*http.Response, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + requestPath
	u.RawQuery = ""

	if len(queryParams) > 0 {
		q := u.Query()
		for k, v := range queryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	return resp, nil
}

// doJSON performs a request and decodes the JSON response into the result.
func (c *Client) doJSON(ctx context.Context, method, requestPath string, body, result interface{}, queryParams map[string]string) error {
	resp, err := c.doRequest(ctx, method, requestPath, body, queryParams)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return handleErrorResponse(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// doEmptyResponse performs a request and expects an empty response
// (for 204 No Content, etc.)
func (c *Client) doEmptyResponse(ctx context.Context, method, requestPath string, body interface{}, queryParams map[string]string) error {
	resp, err := c.doRequest(ctx, method, requestPath, body, queryParams)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return handleErrorResponse(resp)
	}

	return nil
}

// doText performs a request and returns the response body as text.
func (c *Client) doText(ctx context.Context, method, requestPath string, queryParams map[string]string) ([]byte, error) {
	resp, err := c.doRequest(ctx, method, requestPath, nil, queryParams)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, handleErrorResponse(resp)
	}

	return io.ReadAll(resp.Body)
}

// buildPath builds an API path from segments.
func (c *Client) buildPath(segments ...string) string {
	return path.Join(segments...)
}

// websocketURL builds the ws:// or wss:// URL for a streaming endpoint.
func (c *Client) websocketURL(requestPath string, queryParams map[string]string) string {
	u := *c.baseURL
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = c.baseURL.Path + "/" + requestPath
	u.RawQuery = ""
	if len(queryParams) > 0 {
		q := u.Query()
		for k, v := range queryParams {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}
