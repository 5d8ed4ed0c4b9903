package ziplockctl

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getReveal bool

var getCmd = &cobra.Command{
	Use:   "get [credential-id]",
	Short: "Show a single credential",
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
		defer m.CloseRepository(true)

		rec, err := m.GetCredential(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Title:   %s\n", rec.Title)
		fmt.Printf("Type:    %s\n", rec.CredentialType)
		fmt.Printf("Tags:    %v\n", rec.Tags)
		for name, f := range rec.Fields {
			if getReveal {
				fmt.Printf("  %s: %s\n", name, f.Value)
			} else {
				fmt.Printf("  %s: %s\n", name, f.DisplayValue())
			}
		}
		return nil
	},
}

func init() {
	getCmd.Flags().BoolVar(&getReveal, "reveal", false, "show sensitive field values instead of redacting them")
}
