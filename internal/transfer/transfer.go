// Package transfer moves templates in and out of the store as YAML
// documents, the backup/restore affordance for a store that otherwise
// lives in one opaque blob.
package transfer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/draftkit/draftkit/internal/store"
)

// Document is the on-disk export format.
type Document struct {
	Version   int        `yaml:"version"`
	Templates []Template `yaml:"templates"`
}

// Template is one exported template. Folders travel by name, not id,
// so an export restores cleanly into a store with different ids.
type Template struct {
	Name    string `yaml:"name"`
	Subject string `yaml:"subject,omitempty"`
	Content string `yaml:"content"`
	Folder  string `yaml:"folder,omitempty"`
}

// Export writes every template in the store to a YAML file at path.
func Export(st *store.Store, path string) (int, error) {
	templates, err := st.ListTemplates(nil)
	if err != nil {
		return 0, err
	}

	doc := Document{Version: 1, Templates: make([]Template, 0, len(templates))}
	for _, tmpl := range templates {
		entry := Template{
			Name:    tmpl.Name,
			Subject: tmpl.Subject,
			Content: tmpl.Content,
		}
		if name, ok := st.FolderName(tmpl.FolderID); ok {
			entry.Folder = name
		}
		doc.Templates = append(doc.Templates, entry)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal export: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return 0, fmt.Errorf("failed to write export %s: %w", path, err)
	}
	return len(doc.Templates), nil
}

// Import reads a YAML export and creates its templates in the store,
// resolving folders by name and creating missing ones. Every imported
// template gets a fresh id. Entries with no content are skipped, the
// same rule the editing surface applies before saving. Returns the
// number of templates imported.
func Import(st *store.Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read import %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("failed to parse import %s: %w", path, err)
	}

	folderIDs, err := folderIDsByName(st)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, entry := range doc.Templates {
		if strings.TrimSpace(entry.Content) == "" {
			continue
		}

		draft := store.TemplateDraft{
			Name:    entry.Name,
			Subject: entry.Subject,
			Content: entry.Content,
		}
		if folder := strings.TrimSpace(entry.Folder); folder != "" {
			id, ok := folderIDs[folder]
			if !ok {
				created, err := st.CreateFolder(folder)
				if err != nil {
					return imported, err
				}
				id = created.ID
				folderIDs[folder] = id
			}
			draft.FolderID = &id
		}

		if _, err := st.CreateTemplate(draft); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func folderIDsByName(st *store.Store) (map[string]string, error) {
	folders, err := st.ListFolders()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(folders))
	for _, folder := range folders {
		ids[folder.Name] = folder.ID
	}
	return ids, nil
}
