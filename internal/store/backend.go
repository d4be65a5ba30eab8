// Package store provides durable CRUD for folders and templates over
// a single persisted state blob.
package store

// Backend is the persistence medium for the state blob. The store
// reads the whole blob, applies a change and writes the whole blob
// back; backends only need Load/Save round-trip fidelity.
type Backend interface {
	// Load returns the persisted blob, or nil when nothing has been
	// persisted yet.
	Load() ([]byte, error)

	// Save replaces the persisted blob.
	Save(data []byte) error

	// Close releases any resources held by the backend.
	Close() error
}
