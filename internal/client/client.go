// Package client is a typed Go client for the activity API together with a
// session-scoped state container for UIs and tools built on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-activity-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-activity-go/internal/handler/http/response"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx reply decoded from the response envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("activity api: %d %s", e.Status, e.Code)
	}
	return fmt.Sprintf("activity api: %d %s: %s", e.Status, e.Code, e.Message)
}

// sentinelByMessage lists domain errors whose message the server returns verbatim.
var sentinelByMessage = []error{
	activity.ErrNotLoggable,
	activity.ErrOutsideWorkWindow,
	activity.ErrActivityLocked,
	activity.ErrUnauthorized,
	activity.ErrOutsideReportingLine,
}

// Is lets callers match replies against the activity domain errors.
func (e *APIError) Is(target error) bool {
	switch e.Code {
	case response.CodeConflict:
		return target == activity.ErrTimeSlotConflict
	case response.CodeNotLoggable:
		return target == activity.ErrNotLoggable
	case response.CodeLocked:
		return target == activity.ErrActivityLocked
	case response.CodeNotFound:
		return target == activity.ErrActivityNotFound && e.Message == "Activity not found"
	}
	for _, s := range sentinelByMessage {
		if target == s && e.Message == s.Error() {
			return true
		}
	}
	return false
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a client for the API rooted at baseURL, e.g. "https://hris.example.com/api/v1".
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool                  `json:"success"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 300 || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (c *Client) Clock(ctx context.Context) (activity.ClockResponse, error) {
	var out activity.ClockResponse
	err := c.do(ctx, http.MethodGet, "/clock", nil, nil, &out)
	return out, err
}

// SlotTable fetches the server-side reconciliation for date; "" means today.
func (c *Client) SlotTable(ctx context.Context, date string) (activity.SlotTable, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	var out activity.SlotTable
	err := c.do(ctx, http.MethodGet, "/activities/slots", q, nil, &out)
	return out, err
}

func (c *Client) Stats(ctx context.Context) (activity.StatsResponse, error) {
	var out activity.StatsResponse
	err := c.do(ctx, http.MethodGet, "/activities/stats", nil, nil, &out)
	return out, err
}

func (c *Client) ListMyActivities(ctx context.Context, filter activity.ActivityFilter) (activity.ListActivityResponse, error) {
	var out activity.ListActivityResponse
	err := c.do(ctx, http.MethodGet, "/activities/my", filterQuery(filter), nil, &out)
	return out, err
}

func (c *Client) CreateActivity(ctx context.Context, req activity.CreateActivityRequest) (activity.ActivityResponse, error) {
	var out activity.ActivityResponse
	err := c.do(ctx, http.MethodPost, "/activities", nil, req, &out)
	return out, err
}

func (c *Client) UpdateActivity(ctx context.Context, req activity.UpdateActivityRequest) (activity.ActivityResponse, error) {
	var out activity.ActivityResponse
	err := c.do(ctx, http.MethodPut, "/activities/"+url.PathEscape(req.ID), nil, req, &out)
	return out, err
}

func (c *Client) DeleteActivity(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/activities/"+url.PathEscape(id), nil, nil, nil)
}

func filterQuery(f activity.ActivityFilter) url.Values {
	q := url.Values{}
	set := func(key string, v *string) {
		if v != nil && *v != "" {
			q.Set(key, *v)
		}
	}
	set("employee_id", f.EmployeeID)
	set("search", f.Search)
	set("date", f.Date)
	set("start_date", f.StartDate)
	set("end_date", f.EndDate)
	set("status", f.Status)
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.SortBy != "" {
		q.Set("sort_by", f.SortBy)
	}
	if f.SortOrder != "" {
		q.Set("sort_order", f.SortOrder)
	}
	return q
}

// IsAPIError reports whether err carries an API reply with the given status.
func IsAPIError(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
