package cmd

import (
	"net"
	"strconv"

	"github.com/majormguarde-bit/megre-guard-db/actions"
	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/transfer"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a web service that runs transfers and streams their progress",
	Long: `Start a web service that runs transfers and streams their progress.
POST a form or JSON request to /api/transfer to run a transfer; the response is a stream
of newline delimited JSON events. Live runs are listed at /transfers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if s := getSettingsFile(); s != nil {
			serveConfig.Settings = s
		}
		serveConfig.Engine = transfer.NewConfigFromEnv(nil)
		serveConfig.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunWebServer(&serveConfig)
	},
}

var serveConfig = actions.WebServerConfig{
	LogLevel:                  "info",
	Scheme:                    "http",
	Addr:                      net.IP{0, 0, 0, 0},
	Port:                      8080,
	StatsDumpFrequencySeconds: constants.StatsDumpFrequencySecondsDflt,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().SortFlags = false
	serveCmd.Flags().IPVarP(&serveConfig.Addr, "address", "a", net.IP{0, 0, 0, 0}, "Address to listen on")
	switches.addFlag(serveCmd, &serveConfig.Port, "port", "8080", false, "")
	switches.addFlag(serveCmd, &serveConfig.LogLevel, "log-level", "info", false, "")
	switches.addFlag(serveCmd, &serveConfig.StatsDumpFrequencySeconds, "stats", strconv.Itoa(constants.StatsDumpFrequencySecondsDflt), false, "")
}
