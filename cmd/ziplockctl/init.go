package ziplockctl

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new, empty repository archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveRepoPath()
		if err != nil {
			return err
		}

		pw, err := promptPassword("Master password")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm master password")
		if err != nil {
			return err
		}
		if pw != confirm {
			return fmt.Errorf("passwords do not match")
		}

		m := newManager()
		if err := m.CreateRepository(path, pw); err != nil {
			return err
		}
		defer m.CloseRepository(false)

		fmt.Println(color.GreenString("Created repository at %s", path))
		return nil
	},
}
