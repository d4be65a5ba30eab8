// Package models defines the persisted entities for draftkit.
package models

import "time"

// SchemaVersion identifies the layout of the persisted state blob.
const SchemaVersion = 1

// Folder groups templates for display.
type Folder struct {
	// ID is the unique identifier, assigned at creation and immutable.
	ID string `json:"id"`

	// Name is the display name. Never empty; renames with an empty
	// name preserve the previous value.
	Name string `json:"name"`

	// CreatedAt is when the folder was created.
	CreatedAt time.Time `json:"created_at"`
}

// Template is a single email template. Subject and Content may contain
// {{placeholder}} tokens understood by the engine package.
type Template struct {
	// ID is the unique identifier, assigned at creation and immutable.
	ID string `json:"id"`

	// Name is the display name and the default sort key.
	Name string `json:"name"`

	// Subject is the optional email subject line.
	Subject string `json:"subject"`

	// Content is the email body. A template with empty content is not
	// usable; callers reject it before saving.
	Content string `json:"content"`

	// FolderID is a weak reference to the containing folder. Nil means
	// unfiled. A dangling reference is tolerated and resolves as
	// unfiled for display.
	FolderID *string `json:"folder_id"`

	// CreatedAt is when the template was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// Settings holds store-wide flags.
type Settings struct {
	// SampleSeeded records that the one-time sample template has been
	// injected. It never reverts to false, so a deliberately deleted
	// sample does not reappear.
	SampleSeeded bool `json:"sample_seeded"`
}

// State is the whole persisted blob.
type State struct {
	Version   int         `json:"version"`
	Folders   []*Folder   `json:"folders"`
	Templates []*Template `json:"templates"`
	Settings  Settings    `json:"settings"`
}

// NewState returns an empty state at the current schema version.
func NewState() *State {
	return &State{
		Version:   SchemaVersion,
		Folders:   []*Folder{},
		Templates: []*Template{},
	}
}

// FolderName resolves a folder reference for display. Nil and dangling
// references both report false.
func (s *State) FolderName(folderID *string) (string, bool) {
	if folderID == nil {
		return "", false
	}
	for _, folder := range s.Folders {
		if folder.ID == *folderID {
			return folder.Name, true
		}
	}
	return "", false
}

// CascadeMode controls what happens to a folder's templates when the
// folder is deleted.
type CascadeMode string

const (
	// CascadeKeep unfiles the folder's templates.
	CascadeKeep CascadeMode = "keep"

	// CascadeDeleteTemplates removes the folder's templates entirely.
	CascadeDeleteTemplates CascadeMode = "delete_templates"
)

// Valid reports whether m is a known cascade mode.
func (m CascadeMode) Valid() bool {
	return m == CascadeKeep || m == CascadeDeleteTemplates
}
