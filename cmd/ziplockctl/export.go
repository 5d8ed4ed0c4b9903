package ziplockctl

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ejangi/ziplock-sub002/internal/backup"
)

var (
	exportOut              string
	exportFormat           string
	exportIncludeSensitive bool
	exportTags             []string
	exportType             string
)

const exportVersion = "ziplockctl-dev"

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export credentials to json, yaml, csv, or an encrypted ziplock_backup file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOut == "" {
			return fmt.Errorf("--out is required")
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

		records, err := m.ListCredentials()
		if err != nil {
			return err
		}

		format := backup.Format(exportFormat)
		var password string
		if format == backup.FormatZiplockBackup {
			password, err = promptPassword("Export password")
			if err != nil {
				return err
			}
		}

		mgr := backup.NewManager()
		opts := backup.Options{
			IncludeSensitive: exportIncludeSensitive,
			RequiredTags:     exportTags,
			CredentialType:   exportType,
		}
		data, err := mgr.ExportRepository(records, exportVersion, format, opts, password)
		if err != nil {
			return err
		}
		selected, err := mgr.CreateBackup(records, exportVersion, opts)
		if err != nil {
			return err
		}

		if err := writeFile(exportOut, data); err != nil {
			return err
		}

		fmt.Println(color.GreenString("Exported %d credentials to %s", selected.Metadata.CredentialCount, exportOut))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path")
	exportCmd.Flags().StringVar(&exportFormat, "format", string(backup.FormatJSON), "json, yaml, csv, or ziplock_backup")
	exportCmd.Flags().BoolVar(&exportIncludeSensitive, "include-sensitive", false, "include unredacted sensitive field values")
	exportCmd.Flags().StringSliceVar(&exportTags, "tag", nil, "require this tag (repeatable)")
	exportCmd.Flags().StringVar(&exportType, "type", "", "restrict to this credential type")
}
