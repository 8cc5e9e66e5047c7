package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"task_frontend/internal/domain"
	"task_frontend/internal/page"
	"task_frontend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingRemote struct{ lists int }

func (r *countingRemote) List(context.Context) ([]*domain.Task, error) {
	r.lists++
	return []*domain.Task{{ID: "1"}}, nil
}
func (r *countingRemote) Create(context.Context, domain.Draft) (*domain.Task, error) {
	return nil, nil
}
func (r *countingRemote) Update(context.Context, domain.TaskID, domain.Draft) (*domain.Task, error) {
	return nil, nil
}
func (r *countingRemote) Delete(context.Context, domain.TaskID) error { return nil }

func TestMemoryCounterWindows(t *testing.T) {
	m := newMemoryCounter()
	t0 := time.Unix(1000, 0)

	assert.EqualValues(t, 1, m.incr("a", time.Second, t0))
	assert.EqualValues(t, 2, m.incr("a", time.Second, t0.Add(500*time.Millisecond)))
	assert.EqualValues(t, 1, m.incr("b", time.Second, t0))
	assert.EqualValues(t, 1, m.incr("a", time.Second, t0.Add(2*time.Second)))
}

func TestRateLimitInMemory(t *testing.T) {
	require.Nil(t, redisClient)

	r := gin.New()
	r.GET("/x", RateLimit(2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
		if i == 0 {
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func newSessionRouter(remote page.Remote, extra ...gin.HandlerFunc) (*gin.Engine, *session.Store) {
	store := session.NewStore(time.Hour, func() *page.Page { return page.New(remote) })
	tokens := session.NewManager("test-secret", time.Hour)

	r := gin.New()
	handlers := append([]gin.HandlerFunc{Session(store, tokens)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		if PageFrom(c) == nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, SessionID(c))
	})
	r.GET("/", handlers...)
	return r, store
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestSessionCreatesAndReuses(t *testing.T) {
	remote := &countingRemote{}
	r, store := newSessionRouter(remote)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	sid := w.Body.String()
	require.NotEmpty(t, sid)
	ck := sessionCookie(t, w)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, 1, remote.lists, "a new session loads the list once")

	p, ok := store.Get(sid)
	require.True(t, ok)
	assert.Len(t, p.Snapshot().Tasks, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, sid, w.Body.String())
	assert.Equal(t, 1, remote.lists)
	assert.Equal(t, 1, store.Len())
}

func TestSessionReplacesBadCookie(t *testing.T) {
	remote := &countingRemote{}
	r, store := newSessionRouter(remote)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
	assert.False(t, strings.Contains(sessionCookie(t, w).Value, "not-a-token"))
	assert.Equal(t, 1, store.Len())
}

func TestSessionRateLimit(t *testing.T) {
	r, _ := newSessionRouter(&countingRemote{}, SessionRateLimit(1, time.Minute))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	ck := sessionCookie(t, w)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// another session has its own budget
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionRateLimitNeedsSession(t *testing.T) {
	r := gin.New()
	r.GET("/", SessionRateLimit(1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/tasks/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	matched := HTTPRequests.WithLabelValues(http.MethodGet, "/tasks/:id", "204")
	unmatched := HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "404")
	beforeMatched, beforeUnmatched := testutil.ToFloat64(matched), testutil.ToFloat64(unmatched)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/42", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, beforeMatched+1, testutil.ToFloat64(matched))
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
}
