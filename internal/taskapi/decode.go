package taskapi

import (
	"bytes"
	"encoding/json"

	"task_frontend/internal/domain"
	"task_frontend/internal/logger"
)

type listResponse struct {
	Data []json.RawMessage `json:"data"`
}

type recordResponse struct {
	Data json.RawMessage `json:"data"`
}

// decodeTasks decodes each entry on its own so one bad record cannot hide
// the rest of the list.
func decodeTasks(raw []json.RawMessage) []*domain.Task {
	tasks := make([]*domain.Task, len(raw))
	for i, r := range raw {
		tasks[i] = decodeTask(r)
		if tasks[i] == nil && !isNull(r) {
			logger.Warn("task api list: entry is not a record", "index", i)
		}
	}
	return tasks
}

// decodeTask returns nil for null or non-object values. Fields whose JSON
// type does not match are left at their zero value.
func decodeTask(raw json.RawMessage) *domain.Task {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	var t domain.Task
	if err := json.Unmarshal(raw, &t); err == nil {
		return &t
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	t = domain.Task{}
	var dropped []string
	keep := func(key string, ok bool) {
		if !ok {
			dropped = append(dropped, key)
		}
	}
	keep("id", field(fields, "id", &t.ID))
	keep("title", field(fields, "title", &t.Title))
	keep("name", field(fields, "name", &t.Name))
	keep("desc", field(fields, "desc", &t.Desc))
	keep("due_date", field(fields, "due_date", &t.DueDate))
	keep("status", field(fields, "status", &t.Status))
	keep("created_at", field(fields, "created_at", &t.CreatedAt))
	if len(dropped) > 0 {
		logger.Warn("task api: dropped malformed fields", "id", t.ID.String(), "fields", dropped)
	}
	return &t
}

// field decodes fields[key] into dst. dst is only touched on success; a
// missing key counts as success.
func field[T any](fields map[string]json.RawMessage, key string, dst *T) bool {
	raw, ok := fields[key]
	if !ok {
		return true
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	*dst = v
	return true
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// decodeRecord accepts {"data": {...}} or a bare record.
func decodeRecord(body []byte) *domain.Task {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var wrapped recordResponse
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if t := decodeTask(wrapped.Data); t != nil {
			return t
		}
	}
	if t := decodeTask(body); t != nil && t.ID != "" {
		return t
	}
	return nil
}
