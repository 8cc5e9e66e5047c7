package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, h http.Handler, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if auth != "" {
		req.Header.Set("auth", auth)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRequiresCredential(t *testing.T) {
	s := New("cred")
	h := s.Handler()

	w := do(t, h, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodGet, "/api/tasks", "cred", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestCrudRoundTrip(t *testing.T) {
	s := New("cred")
	h := s.Handler()

	w := do(t, h, http.MethodPost, "/api/addtask", "cred", map[string]any{
		"title": "buy milk", "desc": "2l", "due_date": "2024-03-05", "status": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data Task `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	assert.Equal(t, "buy milk", created.Data.Title)
	assert.NotEmpty(t, created.Data.CreatedAt)

	w = do(t, h, http.MethodPut, "/api/edittask/"+created.Data.ID, "cred", map[string]any{
		"title": "buy oat milk", "desc": "2l", "due_date": "2024-03-06", "status": false,
	})
	require.Equal(t, http.StatusOK, w.Code)

	stored := s.Tasks()
	require.Len(t, stored, 1)
	assert.Equal(t, "buy oat milk", stored[0].Title)
	require.NotNil(t, stored[0].Status)
	assert.False(t, *stored[0].Status)

	w = do(t, h, http.MethodDelete, "/api/delete/"+created.Data.ID, "cred", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.Tasks())

	w = do(t, h, http.MethodDelete, "/api/delete/"+created.Data.ID, "cred", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 1, s.Calls(OpCreate))
	assert.Equal(t, 2, s.Calls(OpDelete))
}

func TestSeedServesNullEntries(t *testing.T) {
	s := New("")
	s.Seed(&Task{ID: "1", Name: "legacy"}, nil)

	w := do(t, s.Handler(), http.MethodGet, "/api/tasks", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"id":"1","name":"legacy","desc":"","due_date":"","status":null},null]}`, w.Body.String())
}

func TestFailureInjection(t *testing.T) {
	s := New("")
	h := s.Handler()

	s.Fail(OpList, http.StatusBadGateway)
	w := do(t, h, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	s.Recover(OpList)
	w = do(t, h, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, s.Calls(OpList))
}
