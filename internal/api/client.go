package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskdeck/internal/logging"
	"taskdeck/internal/model"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName      = "taskdeck/internal/api"
	requestIDHeader = "X-Request-Id"
	defaultTimeout  = 30 * time.Second
)

// Client talks to the task API. All endpoints are relative to baseURL.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	log            *log.Logger
	lenientReorder bool
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithLenientReorder makes ReorderTasks accept any HTTP response as persisted;
// only transport failures are reported.
func WithLenientReorder(lenient bool) Option {
	return func(c *Client) { c.lenientReorder = lenient }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Error is returned for responses with a non-2xx status.
type Error struct {
	Method    string
	Path      string
	Status    int
	Message   string // the server's {"error": ...} field, if any
	RequestID string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Status)
}

func (e *Error) ServerMessage() string  { return e.Message }
func (e *Error) HTTPStatus() int        { return e.Status }
func (e *Error) RequestIDValue() string { return e.RequestID }

// ServerMessage returns the server-reported error text carried by err, if any.
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// IsHTTPError reports whether err is a non-2xx response (as opposed to a transport failure).
func IsHTTPError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr)
}

type errorBody struct {
	Error string `json:"error"`
}

type createdBody struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", "/tasks", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Task{}
	}
	return out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories", "/categories", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Category{}
	}
	return out, nil
}

func (c *Client) DashboardStats(ctx context.Context) (model.Stats, error) {
	var out model.Stats
	err := c.do(ctx, http.MethodGet, "/dashboard/stats", "/dashboard/stats", nil, &out)
	return out, err
}

// CreateTask returns the server-assigned id.
func (c *Client) CreateTask(ctx context.Context, f model.TaskFields) (int, error) {
	var out createdBody
	if err := c.do(ctx, http.MethodPost, "/tasks", "/tasks", f, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int, f model.TaskFields) error {
	return c.do(ctx, http.MethodPut, "/tasks/"+strconv.Itoa(id), "/tasks/{id}", f, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+strconv.Itoa(id), "/tasks/{id}", nil, nil)
}

// ReorderTasks persists task id -> zero-based position as one JSON object.
func (c *Client) ReorderTasks(ctx context.Context, positions map[int]int) error {
	body := make(map[string]int, len(positions))
	for id, pos := range positions {
		body[strconv.Itoa(id)] = pos
	}
	err := c.do(ctx, http.MethodPut, "/tasks/reorder", "/tasks/reorder", body, nil)
	if err != nil && c.lenientReorder && IsHTTPError(err) {
		c.log.WithError(err).Warn("reorder: ignoring HTTP error status (lenient reorder)")
		return nil
	}
	return err
}

// CreateCategory returns the server-assigned id.
func (c *Client) CreateCategory(ctx context.Context, name string) (int, error) {
	var out createdBody
	if err := c.do(ctx, http.MethodPost, "/categories", "/categories", map[string]string{"name": name}, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *Client) do(ctx context.Context, method, path, route string, in any, out any) (err error) {
	reqID := uuid.NewString()

	ctx, span := otel.Tracer(tracerName).Start(ctx, method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
			attribute.String("taskdeck.request_id", reqID),
		),
	)
	start := time.Now()
	status := 0
	defer func() {
		span.SetAttributes(attribute.Int("http.status_code", status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		fields := log.Fields{
			"method":     method,
			"path":       path,
			"status":     status,
			"request_id": reqID,
			"total_ms":   float64(time.Since(start)) / float64(time.Millisecond),
		}
		if err != nil {
			fields["error"] = err.Error()
		}
		c.log.WithFields(fields).Debug("api.request")
	}()

	var body io.Reader
	if in != nil {
		b, mErr := sonic.ConfigStd.Marshal(in)
		if mErr != nil {
			return fmt.Errorf("marshal request: %w", mErr)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, reqID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Method: method, Path: path, Status: resp.StatusCode, RequestID: reqID}
		var eb errorBody
		if len(bytes.TrimSpace(respBody)) > 0 && sonic.ConfigStd.Unmarshal(respBody, &eb) == nil {
			apiErr.Message = strings.TrimSpace(eb.Error)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := sonic.ConfigStd.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
