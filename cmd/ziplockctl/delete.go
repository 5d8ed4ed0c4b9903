package ziplockctl

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [credential-id]",
	Short: "Delete a credential from the repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveRepoPath()
		if err != nil {
			return err
		}
		m, err := openForSession(path)
		if err != nil {
			return err
		}
		defer m.CloseRepository(false)

		if err := m.DeleteCredential(args[0]); err != nil {
			return err
		}
		if err := m.SaveRepository(); err != nil {
			return err
		}

		fmt.Println(color.GreenString("Deleted %s", args[0]))
		return nil
	},
}
