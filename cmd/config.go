package cmd

import (
	"errors"
	"fmt"

	"github.com/ghodss/yaml"
	"github.com/majormguarde-bit/megre-guard-db/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or clear the last used transfer settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the last used transfer settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := getSettingsFile()
		if f == nil {
			return errors.New("unable to find the settings file")
		}
		m, err := f.LoadLastTransfer()
		if errors.As(err, &config.FileNotFoundError{}) {
			fmt.Fprintln(cmd.OutOrStdout(), "No settings saved.")
			return nil
		} else if err != nil {
			return err
		}
		b, err := yaml.Marshal(m)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %v\n%s", f.FullPath, b)
		return nil
	},
}

var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the last used transfer settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := getSettingsFile()
		if f == nil {
			return errors.New("unable to find the settings file")
		}
		if err := f.ClearLastTransfer(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configClearCmd)
}
