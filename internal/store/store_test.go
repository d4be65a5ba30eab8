package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/draftkit/draftkit/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(NewMemoryBackend(), zerolog.Nop())

	// Deterministic ids and clock.
	var seq int
	s.newID = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		base = base.Add(time.Second)
		return base
	}
	return s
}

// drainSample removes the seeded sample template so CRUD tests start
// from an empty template set.
func drainSample(t *testing.T, s *Store) {
	t.Helper()
	templates, err := s.ListTemplates(nil)
	require.NoError(t, err)
	for _, tmpl := range templates {
		require.NoError(t, s.DeleteTemplate(tmpl.ID))
	}
}

func TestSampleSeededOnceOnly(t *testing.T) {
	s := newTestStore(t)

	templates, err := s.ListTemplates(nil)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, sampleName, templates[0].Name)
	require.Contains(t, templates[0].Content, "{{date_1|longdate}}")
	require.Contains(t, templates[0].Content, "{{date_2|shortdate}}")

	// Deleting the sample must not bring it back on the next read.
	require.NoError(t, s.DeleteTemplate(templates[0].ID))
	templates, err = s.ListTemplates(nil)
	require.NoError(t, err)
	require.Empty(t, templates)
}

func TestSampleNotSeededWhenTemplatesExist(t *testing.T) {
	s := New(NewMemoryBackend(), zerolog.Nop())

	state := models.NewState()
	state.Templates = append(state.Templates, &models.Template{ID: "t1", Name: "Existing"})
	require.NoError(t, s.save(state))

	templates, err := s.ListTemplates(nil)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, "Existing", templates[0].Name)
}

func TestCreateFolderDefaultsEmptyName(t *testing.T) {
	s := newTestStore(t)

	folder, err := s.CreateFolder("   ")
	require.NoError(t, err)
	require.Equal(t, DefaultFolderName, folder.Name)
	require.NotEmpty(t, folder.ID)
	require.False(t, folder.CreatedAt.IsZero())
}

func TestCreateFolderTrimsName(t *testing.T) {
	s := newTestStore(t)

	folder, err := s.CreateFolder("  Prospects  ")
	require.NoError(t, err)
	require.Equal(t, "Prospects", folder.Name)
}

func TestRenameFolder(t *testing.T) {
	s := newTestStore(t)

	folder, err := s.CreateFolder("Old")
	require.NoError(t, err)

	renamed, err := s.RenameFolder(folder.ID, "  New  ")
	require.NoError(t, err)
	require.Equal(t, "New", renamed.Name)

	// An empty new name preserves the old one instead of erroring.
	renamed, err = s.RenameFolder(folder.ID, "   ")
	require.NoError(t, err)
	require.Equal(t, "New", renamed.Name)

	_, err = s.RenameFolder("missing", "Whatever")
	require.ErrorIs(t, err, ErrFolderNotFound)
}

func TestDeleteFolderKeepUnfilesTemplates(t *testing.T) {
	s := newTestStore(t)
	drainSample(t, s)

	folder, err := s.CreateFolder("Outreach")
	require.NoError(t, err)

	for _, name := range []string{"One", "Two"} {
		_, err := s.CreateTemplate(TemplateDraft{Name: name, Content: "body", FolderID: &folder.ID})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteFolder(folder.ID, models.CascadeKeep))

	folders, err := s.ListFolders()
	require.NoError(t, err)
	require.Empty(t, folders)

	templates, err := s.ListTemplates(nil)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	for _, tmpl := range templates {
		require.Nil(t, tmpl.FolderID)
	}
}

func TestDeleteFolderCascadeRemovesTemplates(t *testing.T) {
	s := newTestStore(t)
	drainSample(t, s)

	folder, err := s.CreateFolder("Outreach")
	require.NoError(t, err)
	other, err := s.CreateTemplate(TemplateDraft{Name: "Elsewhere", Content: "body"})
	require.NoError(t, err)

	for _, name := range []string{"One", "Two"} {
		_, err := s.CreateTemplate(TemplateDraft{Name: name, Content: "body", FolderID: &folder.ID})
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteFolder(folder.ID, models.CascadeDeleteTemplates))

	templates, err := s.ListTemplates(nil)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, other.ID, templates[0].ID)
}

func TestDeleteFolderDefaultsToKeep(t *testing.T) {
	s := newTestStore(t)
	drainSample(t, s)

	folder, err := s.CreateFolder("Outreach")
	require.NoError(t, err)
	tmpl, err := s.CreateTemplate(TemplateDraft{Name: "One", Content: "body", FolderID: &folder.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteFolder(folder.ID, ""))

	got, err := s.GetTemplate(tmpl.ID)
	require.NoError(t, err)
	require.Nil(t, got.FolderID)
}

func TestDeleteFolderNotFound(t *testing.T) {
	s := newTestStore(t)
	require.ErrorIs(t, s.DeleteFolder("missing", models.CascadeKeep), ErrFolderNotFound)
}

func TestDeleteFolderInvalidMode(t *testing.T) {
	s := newTestStore(t)
	folder, err := s.CreateFolder("Outreach")
	require.NoError(t, err)
	require.ErrorIs(t, s.DeleteFolder(folder.ID, "purge"), ErrInvalidCascade)
}

func TestListTemplatesSortedByName(t *testing.T) {
	s := newTestStore(t)
	drainSample(t, s)

	for _, name := range []string{"Zeta", "alpha", "Beta"} {
		_, err := s.CreateTemplate(TemplateDraft{Name: name, Content: "body"})
		require.NoError(t, err)
	}

	templates, err := s.ListTemplates(nil)
	require.NoError(t, err)
	require.Len(t, templates, 3)
	require.Equal(t, "alpha", templates[0].Name)
	require.Equal(t, "Beta", templates[1].Name)
	require.Equal(t, "Zeta", templates[2].Name)
}

func TestListTemplatesFilterByFolder(t *testing.T) {
	s := newTestStore(t)
	drainSample(t, s)

	folder, err := s.CreateFolder("Outreach")
	require.NoError(t, err)

	filed, err := s.CreateTemplate(TemplateDraft{Name: "Filed", Content: "body", FolderID: &folder.ID})
	require.NoError(t, err)
	unfiled, err := s.CreateTemplate(TemplateDraft{Name: "Unfiled", Content: "body"})
	require.NoError(t, err)

	templates, err := s.ListTemplates(&TemplateFilter{FolderID: &folder.ID})
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, filed.ID, templates[0].ID)

	// Explicit nil FolderID selects the unfiled templates.
	templates, err = s.ListTemplates(&TemplateFilter{})
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, unfiled.ID, templates[0].ID)
}

func TestCreateTemplateTrimsFields(t *testing.T) {
	s := newTestStore(t)

	tmpl, err := s.CreateTemplate(TemplateDraft{
		Name:    "  Follow-up  ",
		Subject: "  Checking in  ",
		Content: "  Hello {{first_name}}  ",
	})
	require.NoError(t, err)
	require.Equal(t, "Follow-up", tmpl.Name)
	require.Equal(t, "Checking in", tmpl.Subject)
	require.Equal(t, "Hello {{first_name}}", tmpl.Content)
	require.Equal(t, tmpl.CreatedAt, tmpl.UpdatedAt)
}

func TestCreateTemplateDefaultsEmptyName(t *testing.T) {
	s := newTestStore(t)

	tmpl, err := s.CreateTemplate(TemplateDraft{Name: " ", Content: "body"})
	require.NoError(t, err)
	require.Equal(t, DefaultTemplateName, tmpl.Name)
}

func TestUpdateTemplatePatchSemantics(t *testing.T) {
	s := newTestStore(t)

	tmpl, err := s.CreateTemplate(TemplateDraft{Name: "Original", Subject: "Subj", Content: "body"})
	require.NoError(t, err)

	// Blank name is preserved, but updated_at still advances.
	blank := "   "
	updated, err := s.UpdateTemplate(tmpl.ID, TemplatePatch{Name: &blank})
	require.NoError(t, err)
	require.Equal(t, "Original", updated.Name)
	require.True(t, updated.UpdatedAt.After(tmpl.UpdatedAt))

	// Subject may become empty; content is verbatim.
	empty := ""
	content := "  spaced body  "
	updated, err = s.UpdateTemplate(tmpl.ID, TemplatePatch{Subject: &empty, Content: &content})
	require.NoError(t, err)
	require.Equal(t, "", updated.Subject)
	require.Equal(t, "  spaced body  ", updated.Content)

	// Untouched fields survive a partial patch.
	require.Equal(t, "Original", updated.Name)

	_, err = s.UpdateTemplate("missing", TemplatePatch{})
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestUpdateTemplateFolderPatch(t *testing.T) {
	s := newTestStore(t)

	folder, err := s.CreateFolder("Outreach")
	require.NoError(t, err)
	tmpl, err := s.CreateTemplate(TemplateDraft{Name: "T", Content: "body"})
	require.NoError(t, err)

	updated, err := s.UpdateTemplate(tmpl.ID, TemplatePatch{FolderID: &folder.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.FolderID)
	require.Equal(t, folder.ID, *updated.FolderID)

	// Empty folder id unfiles.
	empty := ""
	updated, err = s.UpdateTemplate(tmpl.ID, TemplatePatch{FolderID: &empty})
	require.NoError(t, err)
	require.Nil(t, updated.FolderID)
}

func TestMoveTemplatesToFolder(t *testing.T) {
	s := newTestStore(t)
	drainSample(t, s)

	folder, err := s.CreateFolder("Outreach")
	require.NoError(t, err)
	a, err := s.CreateTemplate(TemplateDraft{Name: "A", Content: "body"})
	require.NoError(t, err)
	b, err := s.CreateTemplate(TemplateDraft{Name: "B", Content: "body"})
	require.NoError(t, err)

	// Unknown ids are silent no-ops.
	require.NoError(t, s.MoveTemplatesToFolder([]string{a.ID, "missing"}, folder.ID))

	got, err := s.GetTemplate(a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FolderID)
	require.Equal(t, folder.ID, *got.FolderID)

	got, err = s.GetTemplate(b.ID)
	require.NoError(t, err)
	require.Nil(t, got.FolderID)

	// Empty folder id unfiles.
	require.NoError(t, s.MoveTemplatesToFolder([]string{a.ID}, ""))
	got, err = s.GetTemplate(a.ID)
	require.NoError(t, err)
	require.Nil(t, got.FolderID)
}

func TestDeleteTemplate(t *testing.T) {
	s := newTestStore(t)

	tmpl, err := s.CreateTemplate(TemplateDraft{Name: "T", Content: "body"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteTemplate(tmpl.ID))
	require.ErrorIs(t, s.DeleteTemplate(tmpl.ID), ErrTemplateNotFound)

	_, err = s.GetTemplate(tmpl.ID)
	require.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestFolderNameResolution(t *testing.T) {
	s := newTestStore(t)

	folder, err := s.CreateFolder("Outreach")
	require.NoError(t, err)

	name, ok := s.FolderName(&folder.ID)
	require.True(t, ok)
	require.Equal(t, "Outreach", name)

	// Dangling and nil references both resolve as unfiled.
	dangling := "no-such-folder"
	_, ok = s.FolderName(&dangling)
	require.False(t, ok)
	_, ok = s.FolderName(nil)
	require.False(t, ok)
}

func TestMalformedBlobReinitializes(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save([]byte("{not json")))

	s := New(backend, zerolog.Nop())
	templates, err := s.ListTemplates(nil)
	require.NoError(t, err)

	// Reset to defaults means the first-run seed applies.
	require.Len(t, templates, 1)
	require.Equal(t, sampleName, templates[0].Name)
}

func TestNotFoundErrorsAreSentinels(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTemplate("missing")
	require.True(t, errors.Is(err, ErrTemplateNotFound))
	_, err = s.RenameFolder("missing", "x")
	require.True(t, errors.Is(err, ErrFolderNotFound))
}
