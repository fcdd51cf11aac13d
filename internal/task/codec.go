package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// wireTask is the storage shape of a task. CreatedAt travels as an RFC 3339
// string so the persisted form is readable and timezone-explicit.
type wireTask struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	CreatedAt   string `json:"createdAt"`
	IsCompleted bool   `json:"isCompleted"`
}

// Encode renders t as a single storable string. Encoding is deterministic:
// the same task always produces the same string.
func Encode(t Task) (string, error) {
	b, err := json.Marshal(wireTask{
		ID:          t.ID,
		Text:        t.Text,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339Nano),
		IsCompleted: t.IsCompleted,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode is the inverse of Encode. Any malformed entry, missing required
// field, or unparseable timestamp fails with an error wrapping
// ErrBadEncoding. Decode does not validate text content; that is the store's
// responsibility at creation and edit time.
func Decode(s string) (Task, error) {
	var w wireTask
	if err := json.Unmarshal([]byte(s), &w); err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrBadEncoding, err)
	}
	if strings.TrimSpace(w.ID) == "" {
		return Task{}, fmt.Errorf("%w: missing id", ErrBadEncoding)
	}
	if w.CreatedAt == "" {
		return Task{}, fmt.Errorf("%w: missing createdAt", ErrBadEncoding)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, w.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("%w: bad createdAt %q", ErrBadEncoding, w.CreatedAt)
	}

	return Task{
		ID:          w.ID,
		Text:        w.Text,
		CreatedAt:   createdAt,
		IsCompleted: w.IsCompleted,
	}, nil
}
