package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/draftkit/draftkit/internal/transfer"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all templates to a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		count, err := transfer.Export(st, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d template(s) to %s\n", count, args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import templates from a YAML export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		count, err := transfer.Import(st, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d template(s) from %s\n", count, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
