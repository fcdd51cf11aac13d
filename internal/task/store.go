package task

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"todofast/internal/kv"
)

var (
	ErrEmptyText        = errors.New("task text is empty")
	ErrOutOfRange       = errors.New("task index out of range")
	ErrNothingToRestore = errors.New("no removed task to restore")
	ErrBadEncoding      = errors.New("malformed task entry")
)

// DefaultKey is the storage key for the whole task collection.
const DefaultKey = "tasks"

// removal is the single undo slot: the last removed task and where it sat.
type removal struct {
	task      Task
	index     int
	removedAt time.Time
}

// Store owns the authoritative in-memory task list for the running session
// and keeps the persisted copy synchronized. The list is ordered
// most-recent-first; every successful mutation rewrites the full persisted
// collection, so storage always holds a complete snapshot.
//
// One mutex guards the list together with its paired persistence write, so
// concurrent callers never observe memory and storage mid-divergence.
type Store struct {
	kv            kv.Store
	key           string
	clock         Clock
	logger        *log.Logger
	restoreWindow time.Duration

	mu        sync.Mutex
	tasks     []Task
	pending   *removal
	listeners []func()
}

func NewStore(kvs kv.Store, key string) *Store {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	return &Store{
		kv:    kvs,
		key:   key,
		clock: RealClock{},
	}
}

func (s *Store) SetClock(c Clock) {
	if c != nil {
		s.clock = c
	}
}

func (s *Store) SetLogger(logger *log.Logger) {
	s.logger = logger
}

// SetRestoreWindow bounds how long a removed task stays restorable.
// Zero (the default) keeps the slot until the next removal overwrites it.
func (s *Store) SetRestoreWindow(d time.Duration) {
	s.restoreWindow = d
}

// Subscribe registers fn to run after every change to the in-memory list.
// The store has no UI dependency; re-rendering is the subscriber's business.
func (s *Store) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := append([]func(){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// persistLocked rewrites the full encoded collection under the store key.
func (s *Store) persistLocked() error {
	values := make([]string, 0, len(s.tasks))
	for _, t := range s.tasks {
		v, err := Encode(t)
		if err != nil {
			return fmt.Errorf("encode task %s: %w", t.ID, err)
		}
		values = append(values, v)
	}
	if err := s.kv.SetList(s.key, values); err != nil {
		return fmt.Errorf("persist %d tasks: %w", len(values), err)
	}
	return nil
}

// Load replaces the in-memory list with the persisted one. An absent key is
// an empty list. Entries that fail to decode are skipped and logged, never
// fatal: one corrupt entry must not take the remaining tasks down with it.
// Load also clears the pending-restore slot.
func (s *Store) Load() error {
	s.mu.Lock()
	values, ok, err := s.kv.GetList(s.key)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("read %q: %w", s.key, err)
	}
	if !ok {
		values = nil
	}

	next := make([]Task, 0, len(values))
	for i, v := range values {
		t, err := Decode(v)
		if err != nil {
			s.logf("load: skipping entry %d under %q: %v", i, s.key, err)
			continue
		}
		next = append(next, t)
	}
	s.tasks = next
	s.pending = nil
	s.mu.Unlock()

	s.notify()
	return nil
}

// Add validates rawText, prepends a fresh task and persists. Empty-after-trim
// text fails with ErrEmptyText before any state change: empty tasks never
// enter the list, regardless of what the presentation layer allowed through.
//
// When persistence fails the in-memory change is kept and the storage error
// returned alongside the created task; the caller decides whether to retry.
func (s *Store) Add(rawText string) (Task, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return Task{}, ErrEmptyText
	}

	s.mu.Lock()
	t := New(text, s.clock.Now())
	s.tasks = append([]Task{t}, s.tasks...)
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return t, err
}

// Remove takes the task at index out of the list and retains it as the sole
// restorable removal, overwriting any previous one.
func (s *Store) Remove(index int) (Task, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.tasks) {
		s.mu.Unlock()
		return Task{}, ErrOutOfRange
	}

	t := s.tasks[index]
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	s.pending = &removal{task: t, index: index, removedAt: s.clock.Now()}
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return t, err
}

// Restore reinserts the last removed task at its original position, clamped
// to the current list length, and clears the slot. With no pending removal,
// or one outside the restore window, it fails with ErrNothingToRestore.
func (s *Store) Restore() (Task, error) {
	s.mu.Lock()
	p := s.pending
	if p == nil {
		s.mu.Unlock()
		return Task{}, ErrNothingToRestore
	}
	if s.restoreWindow > 0 && s.clock.Now().Sub(p.removedAt) > s.restoreWindow {
		s.pending = nil
		s.mu.Unlock()
		return Task{}, ErrNothingToRestore
	}

	i := p.index
	if i > len(s.tasks) {
		i = len(s.tasks)
	}
	s.tasks = append(s.tasks[:i], append([]Task{p.task}, s.tasks[i:]...)...)
	s.pending = nil
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return p.task, err
}

// ToggleCompletion flips the completion flag of the task at index. The task
// value is replaced, not mutated in place.
func (s *Store) ToggleCompletion(index int) (Task, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.tasks) {
		s.mu.Unlock()
		return Task{}, ErrOutOfRange
	}

	t := s.tasks[index]
	t.IsCompleted = !t.IsCompleted
	s.tasks[index] = t
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return t, err
}

// EditText replaces the text of the task at index. Id and creation time are
// preserved. Empty-after-trim text fails with ErrEmptyText, no state change.
func (s *Store) EditText(index int, newText string) (Task, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.tasks) {
		s.mu.Unlock()
		return Task{}, ErrOutOfRange
	}
	text := strings.TrimSpace(newText)
	if text == "" {
		s.mu.Unlock()
		return Task{}, ErrEmptyText
	}

	t := s.tasks[index]
	t.Text = text
	s.tasks[index] = t
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return t, err
}

// Snapshot returns a copy of the current list for display. Mutating the
// returned slice has no effect on store state.
func (s *Store) Snapshot() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.IsCompleted {
			st.Completed++
		}
	}
	st.Remaining = st.Total - st.Completed
	return st
}
