// Package ziplockctl implements a thin reference CLI over the
// repository core, demonstrating its public surface the way an external
// host application would use it. It is not part of the core: every
// import of internal/... here is the same kind of dependency any other
// caller would take.
package ziplockctl

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	repoPath string
	cfgFile  string
)

var rootCmd = &cobra.Command{
	Use:   "ziplockctl",
	Short: "A reference client for the ZipLock credential repository",
	Long: `ziplockctl demonstrates the repository core end to end: creating and
opening a repository archive, adding and querying credentials, and
saving changes back to disk.`,
	SilenceUsage: true,
}

// Execute runs the root command, printing any error to stderr.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.ziplockctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", "", "path to the repository archive")
	_ = viper.BindPFlag("repo", rootCmd.PersistentFlags().Lookup("repo"))

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(totpCmd)
	rootCmd.AddCommand(exportCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".ziplockctl")
		}
	}

	viper.SetEnvPrefix("ZIPLOCKCTL")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()

	if repoPath == "" {
		repoPath = viper.GetString("repo")
	}
}

func resolveRepoPath() (string, error) {
	if repoPath == "" {
		return "", fmt.Errorf("no repository path given: pass --repo or set it in the config file")
	}
	return repoPath, nil
}
