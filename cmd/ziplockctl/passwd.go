package ziplockctl

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the repository's master password",
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

		newPassword, err := promptPassword("New master password")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm new master password")
		if err != nil {
			return err
		}
		if newPassword != confirm {
			return fmt.Errorf("passwords do not match")
		}

		if err := m.ChangeMasterPassword(newPassword); err != nil {
			return err
		}

		fmt.Println(color.GreenString("Master password changed."))
		return nil
	},
}
