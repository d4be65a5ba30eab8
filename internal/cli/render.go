package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/draftkit/draftkit/internal/engine"
)

var (
	renderFields []string
	renderText   string

	checkFields []string
)

var renderCmd = &cobra.Command{
	Use:   "render [template-id]",
	Short: "Render a template against field values",
	Long: `Render a stored template (by id) or raw text (--text) against
--field key=value pairs, printing the filled-in subject and body.
Missing fields render as empty; date_* fields accept the longdate and
shortdate filters.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseFields(renderFields)
		if err != nil {
			return err
		}

		if renderText != "" {
			fmt.Println(engine.Render(renderText, data))
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("a template id or --text is required")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		tmpl, err := st.GetTemplate(args[0])
		if err != nil {
			return err
		}

		if tmpl.Subject != "" {
			fmt.Printf("Subject: %s\n\n", engine.Render(tmpl.Subject, data))
		}
		fmt.Println(engine.Render(tmpl.Content, data))
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <template-id>",
	Short: "List placeholders still missing a value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseFields(checkFields)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		tmpl, err := st.GetTemplate(args[0])
		if err != nil {
			return err
		}

		// Subject and body are checked as one document, so a key used
		// in both counts once.
		missing := engine.MissingFields(tmpl.Subject+"\n"+tmpl.Content, data)
		if len(missing) == 0 {
			fmt.Println("All placeholders filled.")
			return nil
		}
		fmt.Printf("Missing: %s\n", strings.Join(missing, ", "))
		return nil
	},
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the placeholder keys the quick-test form offers",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, key := range engine.ReservedKeys {
			fmt.Println(key)
		}
		return nil
	},
}

// parseFields turns repeated key=value flags into the engine's data
// map. Keys are lowercased to match token normalization.
func parseFields(pairs []string) (map[string]string, error) {
	data := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", pair)
		}
		data[strings.ToLower(strings.TrimSpace(key))] = value
	}
	return data, nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fieldsCmd)

	renderCmd.Flags().StringArrayVar(&renderFields, "field", nil, "field value as key=value (repeatable)")
	renderCmd.Flags().StringVar(&renderText, "text", "", "render raw text instead of a stored template")

	checkCmd.Flags().StringArrayVar(&checkFields, "field", nil, "field value as key=value (repeatable)")
}
