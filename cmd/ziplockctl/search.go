package ziplockctl

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ejangi/ziplock-sub002/internal/search"
)

var (
	searchTags     []string
	searchType     string
	searchFavorite bool
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search credentials by title, tag, notes, and non-sensitive field values",
	Args:  cobra.MaximumNArgs(1),
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

		var text string
		if len(args) > 0 {
			text = args[0]
		}

		records, err := m.ListCredentials()
		if err != nil {
			return err
		}

		results := search.Search(records, search.Query{
			Text:         text,
			RequiredTags: searchTags,
			Type:         searchType,
			FavoriteOnly: searchFavorite,
		})

		if len(results) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, r := range results {
			fmt.Printf("%-36s  %-30s  %-5d  %s\n", r.Credential.ID, r.Credential.Title, r.Score, strings.Join(r.Credential.Tags, ","))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "require this tag (repeatable)")
	searchCmd.Flags().StringVar(&searchType, "type", "", "restrict to this credential type")
	searchCmd.Flags().BoolVar(&searchFavorite, "favorite", false, "restrict to favorites")
}
