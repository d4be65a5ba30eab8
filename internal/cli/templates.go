package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/draftkit/draftkit/internal/store"
)

var (
	tmplListFolder  string
	tmplListUnfiled bool

	tmplCreateName        string
	tmplCreateSubject     string
	tmplCreateContent     string
	tmplCreateContentFile string
	tmplCreateFolder      string

	tmplUpdateName    string
	tmplUpdateSubject string
	tmplUpdateContent string
	tmplUpdateFolder  string

	tmplMoveFolder string
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tmpl"},
	Short:   "Manage email templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates sorted by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		var filter *store.TemplateFilter
		if tmplListUnfiled {
			filter = &store.TemplateFilter{}
		} else if tmplListFolder != "" {
			filter = &store.TemplateFilter{FolderID: &tmplListFolder}
		}

		templates, err := st.ListTemplates(filter)
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			fmt.Println("No templates.")
			return nil
		}

		for _, tmpl := range templates {
			folder := "unfiled"
			if name, ok := st.FolderName(tmpl.FolderID); ok {
				folder = name
			}
			fmt.Printf("%s  %-30s  %s\n", tmpl.ID, tmpl.Name, folder)
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		tmpl, err := st.GetTemplate(args[0])
		if err != nil {
			return err
		}

		folder := "unfiled"
		if name, ok := st.FolderName(tmpl.FolderID); ok {
			folder = name
		}
		fmt.Printf("Name:    %s\n", tmpl.Name)
		fmt.Printf("Folder:  %s\n", folder)
		fmt.Printf("Subject: %s\n", tmpl.Subject)
		fmt.Printf("Updated: %s\n\n", tmpl.UpdatedAt.Format("2006-01-02 15:04"))
		fmt.Println(tmpl.Content)
		return nil
	},
}

var templateCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a template",
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := resolveContent(tmplCreateContent, tmplCreateContentFile)
		if err != nil {
			return err
		}
		// The store only trims; refusing an empty body is this
		// surface's job.
		if strings.TrimSpace(content) == "" {
			return fmt.Errorf("template content is required")
		}
		if strings.TrimSpace(tmplCreateName) == "" {
			return fmt.Errorf("template name is required")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		draft := store.TemplateDraft{
			Name:    tmplCreateName,
			Subject: tmplCreateSubject,
			Content: content,
		}
		if tmplCreateFolder != "" {
			draft.FolderID = &tmplCreateFolder
		}

		tmpl, err := st.CreateTemplate(draft)
		if err != nil {
			return err
		}
		fmt.Printf("Created template %s (%s)\n", tmpl.Name, tmpl.ID)
		return nil
	},
}

var templateUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		var patch store.TemplatePatch
		if cmd.Flags().Changed("name") {
			patch.Name = &tmplUpdateName
		}
		if cmd.Flags().Changed("subject") {
			patch.Subject = &tmplUpdateSubject
		}
		if cmd.Flags().Changed("content") {
			patch.Content = &tmplUpdateContent
		}
		if cmd.Flags().Changed("folder") {
			// --folder "" unfiles the template.
			patch.FolderID = &tmplUpdateFolder
		}

		tmpl, err := st.UpdateTemplate(args[0], patch)
		if err != nil {
			return err
		}
		fmt.Printf("Updated template %s\n", tmpl.Name)
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteTemplate(args[0]); err != nil {
			return err
		}
		fmt.Println("Template deleted.")
		return nil
	},
}

var templateMoveCmd = &cobra.Command{
	Use:   "move <id>...",
	Short: "Move templates into a folder (or unfile them)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.MoveTemplatesToFolder(args, tmplMoveFolder); err != nil {
			return err
		}
		fmt.Printf("Moved %d template(s).\n", len(args))
		return nil
	},
}

func resolveContent(inline, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read content file %s: %w", file, err)
		}
		return string(data), nil
	}
	return inline, nil
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateUpdateCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	templateCmd.AddCommand(templateMoveCmd)

	templateListCmd.Flags().StringVar(&tmplListFolder, "folder", "", "only templates in this folder id")
	templateListCmd.Flags().BoolVar(&tmplListUnfiled, "unfiled", false, "only templates without a folder")

	templateCreateCmd.Flags().StringVar(&tmplCreateName, "name", "", "template name (required)")
	templateCreateCmd.Flags().StringVar(&tmplCreateSubject, "subject", "", "subject line, may contain placeholders")
	templateCreateCmd.Flags().StringVar(&tmplCreateContent, "content", "", "template body")
	templateCreateCmd.Flags().StringVar(&tmplCreateContentFile, "content-file", "", "read the body from a file")
	templateCreateCmd.Flags().StringVar(&tmplCreateFolder, "folder", "", "folder id to file the template under")

	templateUpdateCmd.Flags().StringVar(&tmplUpdateName, "name", "", "new name (empty keeps the old one)")
	templateUpdateCmd.Flags().StringVar(&tmplUpdateSubject, "subject", "", "new subject")
	templateUpdateCmd.Flags().StringVar(&tmplUpdateContent, "content", "", "new body")
	templateUpdateCmd.Flags().StringVar(&tmplUpdateFolder, "folder", "", "new folder id, empty to unfile")

	templateMoveCmd.Flags().StringVar(&tmplMoveFolder, "folder", "", "target folder id, empty to unfile")
}
