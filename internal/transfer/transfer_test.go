package transfer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/draftkit/draftkit/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(store.NewMemoryBackend(), zerolog.Nop())

	// Clear the first-run sample so tests control the contents.
	templates, err := s.ListTemplates(nil)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	for _, tmpl := range templates {
		if err := s.DeleteTemplate(tmpl.ID); err != nil {
			t.Fatalf("DeleteTemplate: %v", err)
		}
	}
	return s
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newStore(t)

	folder, err := src.CreateFolder("Outreach")
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if _, err := src.CreateTemplate(store.TemplateDraft{
		Name:     "Follow-up",
		Subject:  "Re: {{company_name}}",
		Content:  "Hi {{first_name}}",
		FolderID: &folder.ID,
	}); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if _, err := src.CreateTemplate(store.TemplateDraft{
		Name:    "Unfiled note",
		Content: "Just checking in",
	}); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	path := filepath.Join(t.TempDir(), "export.yaml")
	exported, err := Export(src, path)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if exported != 2 {
		t.Fatalf("expected 2 exported, got %d", exported)
	}

	dst := newStore(t)
	imported, err := Import(dst, path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imported != 2 {
		t.Fatalf("expected 2 imported, got %d", imported)
	}

	templates, err := dst.ListTemplates(nil)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(templates))
	}

	// Sorted by name: "Follow-up" then "Unfiled note".
	if templates[0].Name != "Follow-up" || templates[0].Subject != "Re: {{company_name}}" {
		t.Fatalf("unexpected first template: %+v", templates[0])
	}
	if templates[0].FolderID == nil {
		t.Fatalf("expected folder to be recreated and assigned")
	}
	if name, ok := dst.FolderName(templates[0].FolderID); !ok || name != "Outreach" {
		t.Fatalf("expected folder Outreach, got %q ok=%v", name, ok)
	}
	if templates[1].FolderID != nil {
		t.Fatalf("expected second template unfiled")
	}
}

func TestImportSkipsEmptyContent(t *testing.T) {
	dst := newStore(t)

	path := filepath.Join(t.TempDir(), "export.yaml")
	doc := `version: 1
templates:
  - name: Empty
    content: "   "
  - name: Real
    content: Hello
`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	imported, err := Import(dst, path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if imported != 1 {
		t.Fatalf("expected 1 imported, got %d", imported)
	}

	templates, err := dst.ListTemplates(nil)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(templates) != 1 || templates[0].Name != "Real" {
		t.Fatalf("unexpected templates: %+v", templates)
	}
}

func TestImportReusesExistingFolders(t *testing.T) {
	dst := newStore(t)
	folder, err := dst.CreateFolder("Outreach")
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}

	path := filepath.Join(t.TempDir(), "export.yaml")
	doc := `version: 1
templates:
  - name: Filed
    content: Hello
    folder: Outreach
`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := Import(dst, path); err != nil {
		t.Fatalf("Import: %v", err)
	}

	folders, err := dst.ListFolders()
	if err != nil {
		t.Fatalf("ListFolders: %v", err)
	}
	if len(folders) != 1 {
		t.Fatalf("expected the existing folder to be reused, got %d folders", len(folders))
	}

	templates, err := dst.ListTemplates(&store.TemplateFilter{FolderID: &folder.ID})
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("expected 1 filed template, got %d", len(templates))
	}
}
