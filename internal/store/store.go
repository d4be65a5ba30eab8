package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/draftkit/draftkit/internal/models"
)

// Store errors.
var (
	ErrFolderNotFound   = errors.New("folder not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidCascade   = errors.New("invalid cascade mode")
)

// Default display names substituted when a trimmed name comes out empty.
const (
	DefaultFolderName   = "Untitled folder"
	DefaultTemplateName = "Untitled template"
)

// Store owns the persisted folder and template entities. Every
// operation is a full read-modify-write of the state blob held by the
// injected Backend, serialized by a mutex so calls from concurrent
// goroutines cannot lose updates. Not-found conditions surface as
// sentinel errors, never panics.
type Store struct {
	backend Backend
	logger  zerolog.Logger
	mu      sync.Mutex

	// Overridable in tests.
	now   func() time.Time
	newID func() string
}

// New creates a Store over the given backend.
func New(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// load reads and decodes the current state. An unreadable blob is not
// fatal: the store reinitializes to the empty default schema. The
// one-time sample template is injected here, on the first read that
// finds no templates.
func (s *Store) load() (*models.State, error) {
	data, err := s.backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	state := models.NewState()
	if len(data) > 0 {
		if err := json.Unmarshal(data, state); err != nil {
			s.logger.Warn().Err(err).Msg("state blob unreadable, reinitializing")
			state = models.NewState()
		}
	}
	if state.Folders == nil {
		state.Folders = []*models.Folder{}
	}
	if state.Templates == nil {
		state.Templates = []*models.Template{}
	}

	if s.ensureSample(state) {
		if err := s.save(state); err != nil {
			return nil, err
		}
	}

	return state, nil
}

func (s *Store) save(state *models.State) error {
	state.Version = models.SchemaVersion
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := s.backend.Save(data); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// ListFolders returns all folders in persisted order.
func (s *Store) ListFolders() ([]*models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	return state.Folders, nil
}

// CreateFolder creates a folder with the trimmed name, substituting a
// default name when the trim leaves nothing.
func (s *Store) CreateFolder(name string) (*models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultFolderName
	}

	folder := &models.Folder{
		ID:        s.newID(),
		Name:      name,
		CreatedAt: s.now(),
	}
	state.Folders = append(state.Folders, folder)

	if err := s.save(state); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("folder_id", folder.ID).Msg("folder created")
	return folder, nil
}

// RenameFolder sets the folder's name to the trimmed newName. An
// empty-after-trim name silently preserves the old one.
func (s *Store) RenameFolder(id, newName string) (*models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}

	folder := findFolder(state, id)
	if folder == nil {
		return nil, ErrFolderNotFound
	}

	if trimmed := strings.TrimSpace(newName); trimmed != "" {
		folder.Name = trimmed
	}

	if err := s.save(state); err != nil {
		return nil, err
	}
	return folder, nil
}

// DeleteFolder removes the folder. With CascadeKeep its templates
// survive as unfiled; with CascadeDeleteTemplates they are removed
// entirely. This is the one place cross-entity consistency is
// enforced.
func (s *Store) DeleteFolder(id string, mode models.CascadeMode) error {
	if mode == "" {
		mode = models.CascadeKeep
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCascade, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}

	if findFolder(state, id) == nil {
		return ErrFolderNotFound
	}

	kept := state.Templates[:0]
	for _, tmpl := range state.Templates {
		member := tmpl.FolderID != nil && *tmpl.FolderID == id
		if member && mode == models.CascadeDeleteTemplates {
			continue
		}
		if member {
			tmpl.FolderID = nil
		}
		kept = append(kept, tmpl)
	}
	state.Templates = kept

	folders := state.Folders[:0]
	for _, folder := range state.Folders {
		if folder.ID != id {
			folders = append(folders, folder)
		}
	}
	state.Folders = folders

	if err := s.save(state); err != nil {
		return err
	}
	s.logger.Debug().Str("folder_id", id).Str("mode", string(mode)).Msg("folder deleted")
	return nil
}

// MoveTemplatesToFolder refiles every listed template. An empty
// folderID unfiles them. Unknown template ids are no-ops; the folder
// id itself is not validated, matching the weak-reference model.
func (s *Store) MoveTemplatesToFolder(templateIDs []string, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}

	wanted := make(map[string]struct{}, len(templateIDs))
	for _, id := range templateIDs {
		wanted[id] = struct{}{}
	}

	for _, tmpl := range state.Templates {
		if _, ok := wanted[tmpl.ID]; !ok {
			continue
		}
		if folderID == "" {
			tmpl.FolderID = nil
		} else {
			target := folderID
			tmpl.FolderID = &target
		}
		tmpl.UpdatedAt = s.now()
	}

	return s.save(state)
}

// TemplateFilter narrows ListTemplates to one folder. A nil filter
// returns everything; a non-nil filter with nil FolderID returns the
// unfiled templates.
type TemplateFilter struct {
	FolderID *string
}

// ListTemplates returns templates sorted by name ascending,
// case-insensitively, optionally narrowed by filter.
func (s *Store) ListTemplates(filter *TemplateFilter) ([]*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]*models.Template, 0, len(state.Templates))
	for _, tmpl := range state.Templates {
		if filter != nil && !matchesFolder(tmpl, filter.FolderID) {
			continue
		}
		out = append(out, tmpl)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a == b {
			return out[i].Name < out[j].Name
		}
		return a < b
	})

	return out, nil
}

// GetTemplate returns one template by id.
func (s *Store) GetTemplate(id string) (*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}

	tmpl := findTemplate(state, id)
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}
	return tmpl, nil
}

// TemplateDraft carries the fields for a new template. Name and
// Content are required by the editing surface; the store itself only
// enforces trimming and the default name.
type TemplateDraft struct {
	Name     string
	Subject  string
	Content  string
	FolderID *string
}

// CreateTemplate persists a new template from the draft.
func (s *Store) CreateTemplate(draft TemplateDraft) (*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(draft.Name)
	if name == "" {
		name = DefaultTemplateName
	}

	now := s.now()
	tmpl := &models.Template{
		ID:        s.newID(),
		Name:      name,
		Subject:   strings.TrimSpace(draft.Subject),
		Content:   strings.TrimSpace(draft.Content),
		FolderID:  draft.FolderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	state.Templates = append(state.Templates, tmpl)

	if err := s.save(state); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("template_id", tmpl.ID).Msg("template created")
	return tmpl, nil
}

// TemplatePatch is a partial template update. Nil fields are left
// untouched. A present FolderID pointing at the empty string unfiles
// the template, mirroring the falsy-means-null rule of the original
// move semantics.
type TemplatePatch struct {
	Name     *string
	Subject  *string
	Content  *string
	FolderID *string
}

// UpdateTemplate applies the patch. An empty-after-trim Name preserves
// the previous name; Subject is trimmed and may become empty; Content
// is taken verbatim. UpdatedAt is refreshed on every successful patch,
// even when nothing changed value.
func (s *Store) UpdateTemplate(id string, patch TemplatePatch) (*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}

	tmpl := findTemplate(state, id)
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}

	if patch.Name != nil {
		if trimmed := strings.TrimSpace(*patch.Name); trimmed != "" {
			tmpl.Name = trimmed
		}
	}
	if patch.Subject != nil {
		tmpl.Subject = strings.TrimSpace(*patch.Subject)
	}
	if patch.Content != nil {
		tmpl.Content = *patch.Content
	}
	if patch.FolderID != nil {
		if *patch.FolderID == "" {
			tmpl.FolderID = nil
		} else {
			folderID := *patch.FolderID
			tmpl.FolderID = &folderID
		}
	}
	tmpl.UpdatedAt = s.now()

	if err := s.save(state); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// DeleteTemplate removes one template by id.
func (s *Store) DeleteTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}

	kept := state.Templates[:0]
	found := false
	for _, tmpl := range state.Templates {
		if tmpl.ID == id {
			found = true
			continue
		}
		kept = append(kept, tmpl)
	}
	if !found {
		return ErrTemplateNotFound
	}
	state.Templates = kept

	return s.save(state)
}

// FolderName resolves a template's folder reference for display. Nil
// and dangling references both report false, so callers can render
// them as unfiled.
func (s *Store) FolderName(folderID *string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return "", false
	}
	return state.FolderName(folderID)
}

func findFolder(state *models.State, id string) *models.Folder {
	for _, folder := range state.Folders {
		if folder.ID == id {
			return folder
		}
	}
	return nil
}

func findTemplate(state *models.State, id string) *models.Template {
	for _, tmpl := range state.Templates {
		if tmpl.ID == id {
			return tmpl
		}
	}
	return nil
}

func matchesFolder(tmpl *models.Template, folderID *string) bool {
	if folderID == nil {
		return tmpl.FolderID == nil
	}
	return tmpl.FolderID != nil && *tmpl.FolderID == *folderID
}
