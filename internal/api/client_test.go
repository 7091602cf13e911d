package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"taskdeck/internal/apitest"
	"taskdeck/internal/model"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestClient(t *testing.T, opts ...Option) (*Client, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", append([]Option{WithTimeout(5 * time.Second)}, opts...)...), srv
}

func TestNew_DefaultLoggerDiscards(t *testing.T) {
	c := New("http://localhost:5000")
	require.NotNil(t, c.log)
	assert.Equal(t, io.Discard, c.log.Out)
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
}

func TestClient_TaskCRUD(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)

	id, err := c.CreateTask(ctx, model.TaskFields{Title: "Write report", Priority: model.PriorityHigh, Category: "Work", Status: model.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	f := model.TaskFields{Title: "Write final report", Priority: model.PriorityLow, Category: "Work", DueDate: "2025-03-01", Status: model.StatusCompleted}
	require.NoError(t, c.UpdateTask(ctx, id, f))

	tasks, err = c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, f, tasks[0].Fields())

	require.NoError(t, c.DeleteTask(ctx, id))
	tasks, err = c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	reqs := srv.Requests()
	require.NotEmpty(t, reqs)
	seen := map[string]bool{}
	for _, r := range reqs {
		assert.NotEmpty(t, r.RequestID, "request %s %s missing request id", r.Method, r.Path)
		assert.False(t, seen[r.RequestID], "request ids must be unique")
		seen[r.RequestID] = true
	}
}

func TestClient_CreateTask_SendsFixedShapePayload(t *testing.T) {
	c, srv := newTestClient(t)

	_, err := c.CreateTask(context.Background(), model.TaskFields{Title: "T", Priority: model.PriorityMedium, Status: model.StatusPending})
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.JSONEq(t, `{"title":"T","description":"","priority":"Medium","category":"","due_date":"","status":"pending"}`, string(reqs[0].Body))
}

func TestClient_ServerErrorMessage(t *testing.T) {
	c, srv := newTestClient(t)

	_, err := c.CreateTask(context.Background(), model.TaskFields{})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Title is required", ServerMessage(err))
	assert.True(t, IsHTTPError(err))
	assert.Contains(t, err.Error(), "POST /tasks: HTTP 400")

	srv.FailNext(http.MethodGet, "/tasks", http.StatusInternalServerError, "")
	_, err = c.ListTasks(context.Background())
	require.Error(t, err)
	assert.Equal(t, "", ServerMessage(err))
	assert.True(t, IsHTTPError(err))
}

func TestClient_TransportError_IsNotHTTPError(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Break(http.MethodGet, "/dashboard/stats")

	_, err := c.DashboardStats(context.Background())
	require.Error(t, err)
	assert.False(t, IsHTTPError(err))
	assert.Equal(t, "", ServerMessage(err))
}

func TestClient_ReorderTasks_PayloadIsIDToPosition(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedTasks(model.Task{ID: 1, Title: "a"}, model.Task{ID: 2, Title: "b"}, model.Task{ID: 3, Title: "c"})

	require.NoError(t, c.ReorderTasks(context.Background(), map[int]int{3: 0, 1: 1, 2: 2}))

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/tasks/reorder", reqs[0].Path)
	assert.JSONEq(t, `{"3":0,"1":1,"2":2}`, string(reqs[0].Body))

	var ids []int
	for _, tk := range srv.Tasks() {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []int{3, 1, 2}, ids)
}

func TestClient_ReorderTasks_StatusHandling(t *testing.T) {
	t.Run("strict reports HTTP errors", func(t *testing.T) {
		c, srv := newTestClient(t)
		srv.FailNext(http.MethodPut, "/tasks/reorder", http.StatusInternalServerError, "Failed to reorder tasks")
		err := c.ReorderTasks(context.Background(), map[int]int{1: 0})
		require.Error(t, err)
		assert.True(t, IsHTTPError(err))
	})

	t.Run("lenient ignores HTTP errors but not transport errors", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		c, srv := newTestClient(t, WithLenientReorder(true), WithLogger(logger))

		srv.FailNext(http.MethodPut, "/tasks/reorder", http.StatusInternalServerError, "Failed to reorder tasks")
		require.NoError(t, c.ReorderTasks(context.Background(), map[int]int{1: 0}))
		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, log.WarnLevel, entry.Level)

		srv.Break(http.MethodPut, "/tasks/reorder")
		require.Error(t, c.ReorderTasks(context.Background(), map[int]int{1: 0}))
	})
}

func TestClient_CategoriesAndStats(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Now = func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) }
	srv.SeedTasks(
		model.Task{Title: "due", DueDate: "2025-06-10"},
		model.Task{Title: "late", DueDate: "2025-06-01"},
		model.Task{Title: "done", DueDate: "2025-06-01", Status: model.StatusCompleted},
		model.Task{Title: "later", DueDate: "2025-07-01"},
	)
	ctx := context.Background()

	_, err := c.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	_, err = c.CreateCategory(ctx, "Home")
	require.NoError(t, err)

	cats, err := c.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{ID: 2, Name: "Home"}, {ID: 1, Name: "Work"}}, cats)

	st, err := c.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{DueToday: 1, Overdue: 1, Completed: 1, Pending: 3}, st)
}

func TestClient_RecordsSpanPerRequest(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	c, srv := newTestClient(t)
	srv.FailNext(http.MethodDelete, "/tasks/9", http.StatusInternalServerError, "Failed to delete task")
	require.Error(t, c.DeleteTask(context.Background(), 9))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "DELETE /tasks/{id}", span.Name)
	assert.Equal(t, codes.Error, span.Status.Code)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, int64(http.StatusInternalServerError), attrs["http.status_code"].AsInt64())
	assert.Equal(t, "/tasks/{id}", attrs["http.route"].AsString())
	assert.Equal(t, srv.Requests()[0].RequestID, attrs["taskdeck.request_id"].AsString())
}
