// Package apitest provides an in-memory fake of the task API for tests.
//
// It mirrors the reference backend: tasks are listed by order_index, then newest
// first; new tasks are appended at max(order_index)+1; reorder writes order_index
// for every id in the payload and ignores unknown ids.
package apitest

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskdeck/internal/model"

	"github.com/labstack/echo/v4"
)

// Request is one recorded request.
type Request struct {
	Method    string
	Path      string
	Body      []byte
	RequestID string
}

type fault struct {
	status    int
	message   string
	drop      bool
	remaining int // <0 means until Heal
}

type Server struct {
	URL string

	// Now is used for dashboard stats; defaults to time.Now.
	Now func() time.Time

	mu         sync.Mutex
	e          *echo.Echo
	ts         *httptest.Server
	tasks      []model.Task
	categories []model.Category
	nextTaskID int
	nextCatID  int
	seq        int
	requests   []Request
	faults     map[string]*fault
}

func NewServer() *Server {
	s := &Server{
		Now:        time.Now,
		nextTaskID: 1,
		nextCatID:  1,
		faults:     map[string]*fault{},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.recordAndInject)

	e.GET("/tasks", s.listTasks)
	e.POST("/tasks", s.createTask)
	e.PUT("/tasks/reorder", s.reorderTasks)
	e.PUT("/tasks/:id", s.updateTask)
	e.DELETE("/tasks/:id", s.deleteTask)
	e.GET("/dashboard/stats", s.stats)
	e.GET("/categories", s.listCategories)
	e.POST("/categories", s.createCategory)

	s.e = e
	s.ts = httptest.NewServer(e)
	s.URL = s.ts.URL
	return s
}

func (s *Server) Close() { s.ts.Close() }

// SeedTasks inserts tasks as-is. Zero ids are assigned; zero Order values are
// appended after the current maximum.
func (s *Server) SeedTasks(tasks ...model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		if t.ID == 0 {
			t.ID = s.nextTaskID
		}
		if t.ID >= s.nextTaskID {
			s.nextTaskID = t.ID + 1
		}
		if t.Order == 0 {
			t.Order = s.maxOrderLocked() + 1
		}
		if t.Priority == "" {
			t.Priority = model.PriorityMedium
		}
		if t.Status == "" {
			t.Status = model.StatusPending
		}
		if t.CreatedAt == "" {
			t.CreatedAt = s.stampLocked()
		}
		s.tasks = append(s.tasks, t)
	}
}

func (s *Server) SeedCategories(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		s.categories = append(s.categories, model.Category{ID: s.nextCatID, Name: n})
		s.nextCatID++
	}
}

// Tasks returns the tasks in list order.
func (s *Server) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedTasksLocked()
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// FailNext makes the next request matching method+path answer with status and
// an {"error": message} body (omitted when message is empty).
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = &fault{status: status, message: message, remaining: 1}
}

// Break makes every request matching method+path fail at the transport level
// (the connection is closed without a response) until Heal is called.
func (s *Server) Break(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = &fault{drop: true, remaining: -1}
}

func (s *Server) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = map[string]*fault{}
}

func (s *Server) recordAndInject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		key := req.Method + " " + req.URL.Path
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    req.Method,
			Path:      req.URL.Path,
			Body:      body,
			RequestID: req.Header.Get("X-Request-Id"),
		})
		var f *fault
		if ff, ok := s.faults[key]; ok {
			cp := *ff
			f = &cp
			if ff.remaining > 0 {
				ff.remaining--
				if ff.remaining == 0 {
					delete(s.faults, key)
				}
			}
		}
		s.mu.Unlock()

		if f == nil {
			return next(c)
		}
		if f.drop {
			hj, ok := c.Response().Writer.(http.Hijacker)
			if !ok {
				return c.NoContent(http.StatusInternalServerError)
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				return err
			}
			return conn.Close()
		}
		if f.message == "" {
			return c.NoContent(f.status)
		}
		return c.JSON(f.status, map[string]string{"error": f.message})
	}
}

func (s *Server) listTasks(c echo.Context) error {
	s.mu.Lock()
	out := s.sortedTasksLocked()
	s.mu.Unlock()
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createTask(c echo.Context) error {
	var f model.TaskFields
	if err := c.Bind(&f); err != nil || strings.TrimSpace(f.Title) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title is required"})
	}
	if f.Priority == "" {
		f.Priority = model.PriorityMedium
	}
	if f.Status == "" {
		f.Status = model.StatusPending
	}

	s.mu.Lock()
	t := model.Task{
		ID:          s.nextTaskID,
		Title:       f.Title,
		Description: f.Description,
		Priority:    f.Priority,
		Category:    f.Category,
		DueDate:     f.DueDate,
		Status:      f.Status,
		Order:       s.maxOrderLocked() + 1,
		CreatedAt:   s.stampLocked(),
	}
	s.nextTaskID++
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, map[string]any{"id": t.ID, "message": "Task created successfully"})
}

func (s *Server) updateTask(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Task not found"})
	}
	var f model.TaskFields
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
	}
	if f.Priority == "" {
		f.Priority = model.PriorityMedium
	}
	if f.Status == "" {
		f.Status = model.StatusPending
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		t := &s.tasks[i]
		t.Title = f.Title
		t.Description = f.Description
		t.Priority = f.Priority
		t.Category = f.Category
		t.DueDate = f.DueDate
		t.Status = f.Status
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Task updated successfully"})
}

func (s *Server) deleteTask(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Task not found"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.tasks = out
	return c.JSON(http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func (s *Server) reorderTasks(c echo.Context) error {
	var orders map[string]int
	if err := c.Bind(&orders); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to reorder tasks"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, pos := range orders {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		for i := range s.tasks {
			if s.tasks[i].ID == id {
				s.tasks[i].Order = pos
			}
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Tasks reordered successfully"})
}

func (s *Server) stats(c echo.Context) error {
	today := s.Now().Format(time.DateOnly)
	s.mu.Lock()
	defer s.mu.Unlock()
	var st model.Stats
	for _, t := range s.tasks {
		switch t.Status {
		case model.StatusCompleted:
			st.Completed++
		case model.StatusPending:
			st.Pending++
			if t.DueDate == today {
				st.DueToday++
			} else if t.DueDate != "" && t.DueDate < today {
				st.Overdue++
			}
		}
	}
	return c.JSON(http.StatusOK, st)
}

func (s *Server) listCategories(c echo.Context) error {
	s.mu.Lock()
	out := append([]model.Category(nil), s.categories...)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createCategory(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Category name is required"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cat := range s.categories {
		if cat.Name == body.Name {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create category"})
		}
	}
	cat := model.Category{ID: s.nextCatID, Name: body.Name}
	s.nextCatID++
	s.categories = append(s.categories, cat)
	return c.JSON(http.StatusCreated, map[string]any{"id": cat.ID, "message": "Category created successfully"})
}

func (s *Server) maxOrderLocked() int {
	max := 0
	for _, t := range s.tasks {
		if t.Order > max {
			max = t.Order
		}
	}
	return max
}

// stampLocked returns strictly increasing creation timestamps so "newest first"
// tie-breaking is deterministic.
func (s *Server) stampLocked() string {
	s.seq++
	return time.Date(2025, 1, 1, 0, 0, s.seq, 0, time.UTC).Format("2006-01-02 15:04:05")
}

func (s *Server) sortedTasksLocked() []model.Task {
	out := append([]model.Task(nil), s.tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}
