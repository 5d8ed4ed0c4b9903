package ziplockctl

import (
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every credential in the repository",
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

		summaries, err := m.ListCredentialSummaries()
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"ID", "Title", "Type", "Tags", "Favorite"})

		var rows [][]string
		for _, s := range summaries {
			fav := ""
			if s.Favorite {
				fav = "*"
			}
			rows = append(rows, []string{s.ID, s.Title, s.CredentialType, strings.Join(s.Tags, ","), fav})
		}
		_ = table.Bulk(rows)
		return table.Render()
	},
}
