package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/draftkit/draftkit/internal/models"
)

var folderDeleteTemplates bool

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage template folders",
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		folders, err := st.ListFolders()
		if err != nil {
			return err
		}
		if len(folders) == 0 {
			fmt.Println("No folders.")
			return nil
		}
		for _, folder := range folders {
			fmt.Printf("%s  %s\n", folder.ID, folder.Name)
		}
		return nil
	},
}

var folderCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		folder, err := st.CreateFolder(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created folder %s (%s)\n", folder.Name, folder.ID)
		return nil
	},
}

var folderRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		folder, err := st.RenameFolder(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Folder is now named %s\n", folder.Name)
		return nil
	},
}

var folderDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a folder, keeping its templates unless --delete-templates is given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		mode := models.CascadeKeep
		if folderDeleteTemplates {
			mode = models.CascadeDeleteTemplates
		}
		if err := st.DeleteFolder(args[0], mode); err != nil {
			return err
		}
		fmt.Println("Folder deleted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(folderCmd)
	folderCmd.AddCommand(folderListCmd)
	folderCmd.AddCommand(folderCreateCmd)
	folderCmd.AddCommand(folderRenameCmd)
	folderCmd.AddCommand(folderDeleteCmd)

	folderDeleteCmd.Flags().BoolVar(&folderDeleteTemplates, "delete-templates", false, "also delete the folder's templates")
}
