package task

import (
	"strconv"
	"sync/atomic"
	"time"
)

// lastStamp is the floor for the next issued id. Ids are epoch milliseconds,
// bumped forward when two tasks land on the same millisecond, so they stay
// unique and monotonically increasing within a process.
var lastStamp atomic.Int64

// Task is a single to-do entry. Tasks are value objects: mutation always
// produces a new value at the same list position, never an in-place edit.
type Task struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"createdAt"`
	IsCompleted bool      `json:"isCompleted"`
}

// Clock abstracts time.Now so stores can be tested with a fixed time source.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func nextStamp(now time.Time) int64 {
	ms := now.UnixMilli()
	for {
		last := lastStamp.Load()
		if ms <= last {
			ms = last + 1
		}
		if lastStamp.CompareAndSwap(last, ms) {
			return ms
		}
	}
}

// New builds a task for already-validated text. CreatedAt and ID come from
// the same millisecond instant, so the id doubles as a creation ordinal.
func New(text string, now time.Time) Task {
	ms := nextStamp(now)

	return Task{
		ID:          strconv.FormatInt(ms, 10),
		Text:        text,
		CreatedAt:   time.UnixMilli(ms).UTC(),
		IsCompleted: false,
	}
}
