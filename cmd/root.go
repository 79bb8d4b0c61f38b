package cmd

import (
	"os"
	"sync"

	"github.com/majormguarde-bit/megre-guard-db/config"
	"github.com/majormguarde-bit/megre-guard-db/helper"
	"github.com/spf13/cobra"
)

var (
	// Default values may be set at compile time.
	version          = "0.1.0"
	buildDate        = "2026-01-01T00:00+0000"
	stackDumpOnPanic bool
	envMode          = helper.EnvModeEnabled() // read flag defaults from MGDB_* environment variables.
	settingsOnce     sync.Once
	settingsFile     *config.File
	lastTransfer     map[string]string
)

var rootCmd = &cobra.Command{
	Use:   "mgdb",
	Short: "Copy new rows between databases without duplicating them",
	Long: `mgdb copies rows from a table in one database to the same table in another.
Rows are selected with a condition and skipped if the destination already holds a row
with the same values in the duplicate-check columns. All inserts happen in a single
transaction. Run a transfer from the command line or start an HTTP server that streams
progress as newline delimited JSON.`,
	SilenceUsage: true,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump if there is a panic")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Execute() prints the error.
		os.Exit(1)
	}
}

// getSettingsFile returns the settings file, or nil if the home directory can't be found.
func getSettingsFile() *config.File {
	settingsOnce.Do(func() {
		f, err := config.NewSettingsFile()
		if err != nil {
			return
		}
		settingsFile = f
		if m, err := f.LoadLastTransfer(); err == nil {
			lastTransfer = m
		}
	})
	return settingsFile
}

// getLastTransferSetting returns the saved value of a request field, or "" if none was saved.
func getLastTransferSetting(field string) string {
	getSettingsFile()
	return lastTransfer[field]
}
