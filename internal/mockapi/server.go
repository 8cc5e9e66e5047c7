// Package mockapi is an in-memory stand-in for the remote task backend. It
// serves the same four routes and is used for local development and tests.
package mockapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Task is a backend record. Name is only ever set through Seed to mimic
// records written before the title field existed.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Name      string `json:"name,omitempty"`
	Desc      string `json:"desc"`
	DueDate   string `json:"due_date"`
	Status    *bool  `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
}

type taskBody struct {
	Title   string `json:"title"`
	Desc    string `json:"desc"`
	DueDate string `json:"due_date"`
	Status  *bool  `json:"status"`
}

type Server struct {
	mu       sync.Mutex
	auth     string
	tasks    []*Task
	failures map[string]int
	calls    map[string]int
	now      func() time.Time
}

// New returns an empty backend. When auth is non-empty every request must
// carry it in the auth header.
func New(auth string) *Server {
	return &Server{
		auth:     auth,
		failures: make(map[string]int),
		calls:    make(map[string]int),
		now:      time.Now,
	}
}

// Handler returns a gin engine serving the backend routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	s.Register(r)
	return r
}

func (s *Server) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.Use(s.requireAuth)

	api.GET("/tasks", s.count(OpList), s.list)
	api.POST("/addtask", s.count(OpCreate), s.create)
	api.PUT("/edittask/:id", s.count(OpUpdate), s.update)
	api.DELETE("/delete/:id", s.count(OpDelete), s.remove)
}

// Seed appends records as given. Nil entries are served as JSON null.
func (s *Server) Seed(tasks ...*Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		if t == nil {
			s.tasks = append(s.tasks, nil)
			continue
		}
		c := *t
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		s.tasks = append(s.tasks, &c)
	}
}

// Fail makes every following call of op answer with status until Recover.
func (s *Server) Fail(op string, status int) {
	s.mu.Lock()
	s.failures[op] = status
	s.mu.Unlock()
}

func (s *Server) Recover(op string) {
	s.mu.Lock()
	delete(s.failures, op)
	s.mu.Unlock()
}

// Calls reports how many requests for op reached the backend, failed or not.
func (s *Server) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Tasks returns a copy of the stored records.
func (s *Server) Tasks() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t == nil {
			out = append(out, nil)
			continue
		}
		c := *t
		out = append(out, &c)
	}
	return out
}

func (s *Server) requireAuth(c *gin.Context) {
	if s.auth != "" && c.GetHeader("auth") != s.auth {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) count(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.calls[op]++
		status, failing := s.failures[op]
		s.mu.Unlock()

		if failing {
			c.AbortWithStatusJSON(status, gin.H{"error": "injected failure"})
			return
		}
		c.Next()
	}
}

func (s *Server) list(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.Tasks()})
}

func (s *Server) create(c *gin.Context) {
	var req taskBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	t := &Task{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Desc:      req.Desc,
		DueDate:   req.DueDate,
		Status:    req.Status,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	c2 := *t
	s.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"message": "task created", "data": c2})
}

func (s *Server) update(c *gin.Context) {
	var req taskBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t == nil || t.ID != id {
			continue
		}
		t.Title = req.Title
		t.Desc = req.Desc
		t.DueDate = req.DueDate
		t.Status = req.Status
		c.JSON(http.StatusOK, gin.H{"message": "task updated", "data": *t})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
}

func (s *Server) remove(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t == nil || t.ID != id {
			continue
		}
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
}
