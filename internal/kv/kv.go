// Package kv is the persistence boundary for todofast: an ordered list of
// strings stored under a fixed key. Implementations must treat both keys and
// values as opaque.
package kv

// Store is the storage collaborator injected into the task store.
//
// GetList returns the list stored under key; ok is false when the key has
// never been written. SetList replaces the whole list under key. Writes are
// full replacements, never deltas.
type Store interface {
	GetList(key string) (values []string, ok bool, err error)
	SetList(key string, values []string) error
}
