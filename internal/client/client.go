package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aneeqdev/employee-directory/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderRequestID tags every outgoing request for log correlation.
const HeaderRequestID = "X-Request-ID"

const employeesPath = "employees"

// Client talks to the employee REST resource behind the same-origin proxy.
// It never retries and enforces no deadline of its own; callers pass a context.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     zerolog.Logger
}

var _ domain.EmployeeAPI = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request; zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Transport: c.http.Transport, Timeout: d}
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New creates a Client rooted at baseURL, e.g. http://localhost:8080/api/proxy.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// List fetches one page. Empty filter fields are omitted from the query
// entirely; an out-of-range page is forwarded as is.
func (c *Client) List(ctx context.Context, params domain.ListParams) (*domain.EmployeePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("limit", strconv.Itoa(params.Limit))
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Department != "" {
		q.Set("department", params.Department)
	}
	if params.Location != "" {
		q.Set("location", params.Location)
	}

	var page domain.EmployeePage
	if err := c.do(ctx, http.MethodGet, c.endpoint(q), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches a single employee.
func (c *Client) Get(ctx context.Context, id string) (*domain.Employee, error) {
	var e domain.Employee
	if err := c.do(ctx, http.MethodGet, c.endpoint(nil, id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create posts a new employee and returns the stored record.
func (c *Client) Create(ctx context.Context, input domain.EmployeeInput) (*domain.Employee, error) {
	var e domain.Employee
	if err := c.do(ctx, http.MethodPost, c.endpoint(nil), input, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Update replaces an employee and returns the stored record.
func (c *Client) Update(ctx context.Context, id string, input domain.EmployeeInput) (*domain.Employee, error) {
	var e domain.Employee
	if err := c.do(ctx, http.MethodPut, c.endpoint(nil, id), input, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Remove deletes an employee. Any 2xx counts as success, whatever the body.
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint(nil, id), nil, nil)
}

func (c *Client) endpoint(q url.Values, id ...string) string {
	u := *c.baseURL
	segments := []string{u.Path, employeesPath}
	rawSegments := []string{u.EscapedPath(), employeesPath}
	for _, s := range id {
		segments = append(segments, s)
		rawSegments = append(rawSegments, url.PathEscape(s))
	}
	u.Path = strings.Join(segments, "/")
	u.RawPath = strings.Join(rawSegments, "/")
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, target string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, reqID)

	c.log.Debug().
		Str("method", method).
		Str("url", target).
		Str("request_id", reqID).
		Msg("Making API request")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fallback := msgFailed
		if method == http.MethodDelete {
			fallback = msgDeleteFailed
		}
		apiErr := newAPIError(resp.StatusCode, data, fallback)
		c.log.Debug().
			Str("request_id", reqID).
			Int("status", resp.StatusCode).
			Str("message", apiErr.Message).
			Msg("API request failed")
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
