package ziplockctl

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ejangi/ziplock-sub002/internal/model"
)

var (
	addTitle    string
	addUsername string
	addURL      string
	addTags     []string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a login credential to the repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addTitle == "" {
			return fmt.Errorf("--title is required")
		}
		path, err := resolveRepoPath()
		if err != nil {
			return err
		}

		m, err := openForSession(path)
		if err != nil {
			return err
		}
		defer m.CloseRepository(false)

		password, err := promptPassword("Credential password")
		if err != nil {
			return err
		}

		tmpl := model.CommonTemplates.Login()
		rec, err := tmpl.CreateCredential(addTitle, nowUnix())
		if err != nil {
			return err
		}
		if addUsername != "" {
			rec.SetField("username", model.NewCredentialField(model.Username, addUsername))
		}
		if addURL != "" {
			rec.SetField("url", model.NewCredentialField(model.URL, addURL))
		}
		rec.SetField("password", model.NewCredentialField(model.Password, password))
		for _, tag := range addTags {
			rec.AddTag(tag)
		}

		added, err := m.AddCredential(rec)
		if err != nil {
			return err
		}
		if err := m.SaveRepository(); err != nil {
			return err
		}

		fmt.Println(color.GreenString("Added %q (%s)", added.Title, added.ID))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "credential title")
	addCmd.Flags().StringVar(&addUsername, "username", "", "username field")
	addCmd.Flags().StringVar(&addURL, "url", "", "website URL field")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "tag (repeatable)")
}
