package cmd

import (
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/majormguarde-bit/megre-guard-db/actions"
	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/transfer"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var transferFields = map[string]*string{}

var transferConfig = actions.TransferConfig{
	LogLevel:                  "warn",
	StatsDumpFrequencySeconds: constants.StatsDumpFrequencySecondsDflt,
}

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Copy rows that match a condition, skipping rows already in the destination",
	Long: `Copy rows from the source table that match a condition into the same table in the
destination. A row is skipped if the destination already has a row with equal values in
all of the duplicate-check columns. Events are printed as newline delimited JSON when the
output is not a terminal.

Database credentials are read from ` + constants.EnvVarDbUser + ` and ` + constants.EnvVarDbPassword + `.`,
	Example: `  mgdb transfer --src-host 10.0.0.1 --src-path 'C:\DB\EVENTS.FDB' \
    --dst-host 10.0.0.2 --dst-path 'C:\DB\EVENTS.FDB' \
    -t EVENTS -c "EVENTSDATE >= '01.01.2026'" -k "READERID, EVENTSCODE, EVENTSDATE, CARDNUM"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := transfer.RequestFromForm(func(name string) string {
			if p, ok := transferFields[name]; ok {
				return *p
			}
			return ""
		})
		if err != nil {
			return err
		}
		transferConfig.Request = req
		transferConfig.Engine = transfer.NewConfigFromEnv(nil)
		transferConfig.Out = cmd.OutOrStdout()
		transferConfig.HumanReadable = isTerminal(transferConfig.Out)
		transferConfig.StackDumpOnPanic = stackDumpOnPanic
		if s := getSettingsFile(); s != nil {
			transferConfig.Settings = s
		}
		err = actions.RunTransfer(&transferConfig)
		if errors.Is(err, actions.ErrTransferFailed) {
			cmd.SilenceErrors = true // the error event has been printed already.
		}
		return err
	},
}

// isTerminal reports whether w is a terminal, in which case events are printed as text.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func init() {
	rootCmd.AddCommand(transferCmd)
	transferCmd.Flags().SortFlags = false
	defaults := transfer.DefaultFormValues()
	defaultPort := strconv.Itoa(constants.DefaultFirebirdPort)
	addField := func(flagName string, defaultValue string) {
		field := flagNameToField(flagName)
		p := new(string)
		transferFields[field] = p
		switches.addFlag(transferCmd, p, flagName, defaultValue, false, "")
	}
	addField("src-type", constants.ConnectionTypeDefault)
	addField("src-host", defaults[transfer.FieldSrcHost])
	addField("src-port", defaultPort)
	addField("src-path", "")
	addField("src-charset", constants.DefaultCharset)
	addField("src-dsn", "")
	addField("dst-type", constants.ConnectionTypeDefault)
	addField("dst-host", defaults[transfer.FieldDstHost])
	addField("dst-port", defaultPort)
	addField("dst-path", "")
	addField("dst-charset", constants.DefaultCharset)
	addField("dst-dsn", "")
	addField("table-name", defaults[transfer.FieldTableName])
	addField("src-condition", defaults[transfer.FieldSrcCondition])
	addField("check-columns", defaults[transfer.FieldCheckColumns])
	addField("row-filter", "")
	switches.addFlag(transferCmd, &transferConfig.RequestFile, "file", "", false, "")
	output := switches["output"]
	transferCmd.Flags().VarP(newEnumValue(&transferConfig.OutputFormat, "yaml", "json"), output.name, output.shortHand, output.desc)
	switches.addFlag(transferCmd, &transferConfig.Save, "save", "false", false, "")
	switches.addFlag(transferCmd, &transferConfig.LogLevel, "log-level", "warn", false, "")
	switches.addFlag(transferCmd, &transferConfig.StatsDumpFrequencySeconds, "stats", strconv.Itoa(constants.StatsDumpFrequencySecondsDflt), false, "")
}
