package cmd

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/helper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	"mock": cliFlag{name: "mock", shortHand: "m", desc: "mock switch for testing"},
	"src-type": cliFlag{name: "src-type",
		desc: "Source connection type: firebird | sqlite | postgres | sqlserver | netezza | snowflake"},
	"src-host": cliFlag{name: "src-host", desc: "Source database host name"},
	"src-port": cliFlag{name: "src-port", desc: "Source database port (Firebird default 3050)"},
	"src-path": cliFlag{name: "src-path",
		desc: "Source database file path or alias, as seen by the server (SQLite: local file)"},
	"src-charset": cliFlag{name: "src-charset", desc: "Source connection character set: " + strings.Join(constants.SupportedCharsets, " | ")},
	"src-dsn": cliFlag{name: "src-dsn",
		desc: "Source DSN for postgres, sqlserver, netezza or snowflake connections, e.g. postgres://host/db"},
	"dst-type": cliFlag{name: "dst-type",
		desc: "Destination connection type: firebird | sqlite | postgres | sqlserver | netezza | snowflake"},
	"dst-host":    cliFlag{name: "dst-host", desc: "Destination database host name"},
	"dst-port":    cliFlag{name: "dst-port", desc: "Destination database port (Firebird default 3050)"},
	"dst-path":    cliFlag{name: "dst-path", desc: "Destination database file path or alias, as seen by the server"},
	"dst-charset": cliFlag{name: "dst-charset", desc: "Destination connection character set"},
	"dst-dsn":     cliFlag{name: "dst-dsn", desc: "Destination DSN for postgres, sqlserver, netezza or snowflake connections"},
	"table-name": cliFlag{name: "table-name", shortHand: "t",
		desc: "The [<schema>.]<table> to copy; it must exist with the same name on both sides"},
	"src-condition": cliFlag{name: "src-condition", shortHand: "c",
		desc: "Condition selecting source rows, e.g. \"EVENTSDATE >= '01.01.2026' AND READERID IN (1, 2)\".\n" +
			"Supports AND, OR, NOT, comparisons, IS [NOT] NULL, [NOT] IN, [NOT] BETWEEN and [NOT] LIKE"},
	"check-columns": cliFlag{name: "check-columns", shortHand: "k",
		desc: "CSV of columns whose values identify a duplicate row in the destination"},
	"row-filter": cliFlag{name: "row-filter",
		desc: "Optional JSON Logic rule applied to each fetched row; rows are kept if it returns true"},
	"file": cliFlag{name: "file", shortHand: "f",
		desc: "File containing the transfer request (.yaml or .json); takes priority over other request flags"},
	"output": cliFlag{name: "output", shortHand: "o",
		desc: "Specify \"yaml\" or \"json\" to print the transfer request instead of running it"},
	"save": cliFlag{name: "save", shortHand: "s",
		desc: "Save the request as the last used settings (the default for these flags next time)"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: \"error | warn | info | debug\" where only run stats are \n" +
			"output at using \"warn\""},
	"port": cliFlag{name: "port", shortHand: "p",
		desc: "Port to listen on"},
	"stats": cliFlag{name: "stats", shortHand: "L",
		desc: "Number of seconds between dumping run statistics (use 0 to disable)"},
}

// addFlag add a flag to cobra.Command c, based on the type of targetVar (which must be a pointer).
// The name of the flag is looked up in map, cliFlags.
// The flag default is read from the environment variable for name when running in env mode, else from the
// last used settings, else the supplied defaultValue is used.
// The flag is marked as required in Cobra based on the value of required.
// Supply a value for desc2 to append to the existing description found in map cliFlags.
func (f *cliFlags) addFlag(c *cobra.Command, targetVar interface{}, name string, defaultValue string, required bool, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue, getLastTransferSetting)
	desc := sw.desc + desc2
	switch p := targetVar.(type) {
	case *string:
		c.Flags().StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
	case *bool:
		defaultBool, _ := strconv.ParseBool(sw.val)
		c.Flags().BoolVarP(p, sw.name, sw.shortHand, defaultBool, desc)
	case *int:
		defaultInt, err := strconv.Atoi(sw.val)
		if err != nil {
			fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
			os.Exit(1)
		}
		c.Flags().IntVarP(p, sw.name, sw.shortHand, defaultInt, desc)
	default:
		panic("Error: unhandled CLI flag target value type")
	}
	// Optionally mark the flag as mandatory.
	if required && sw.val == "" {
		_ = c.MarkFlagRequired(sw.name)
	}
}

// getCliFlag fetches the value of name from the environment, when running in env mode,
// else from the last used settings via fnGetSetting.
// If a value cannot be found then use the supplied defaultValue in its place.
func (f *cliFlags) getCliFlag(name string, defaultValue string, fnGetSetting func(field string) string) cliFlag {
	s, ok := (*f)[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	s.val = ""
	if envMode {
		_ = helper.ReadValueFromEnv(helper.FlagNameToEnvVar(name), &s.val)
	} else {
		s.val = fnGetSetting(flagNameToField(name))
	}
	if s.val == "" {
		s.val = defaultValue
	}
	return s
}

// flagNameToField returns the settings field saved for flag name, e.g. src-host is saved as src_host.
func flagNameToField(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// enumValue is a string flag that only accepts one of allowed, or empty.
type enumValue struct {
	target  *string
	allowed []string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(target *string, allowed ...string) *enumValue {
	return &enumValue{target: target, allowed: allowed}
}

func (e *enumValue) String() string {
	if e.target == nil {
		return ""
	}
	return *e.target
}

func (e *enumValue) Set(s string) error {
	for _, a := range e.allowed {
		if s == a || s == "" {
			*e.target = s
			return nil
		}
	}
	return fmt.Errorf("must be one of: %v", strings.Join(e.allowed, ", "))
}

func (e *enumValue) Type() string {
	return strings.Join(e.allowed, "|")
}
