package transfer

import (
	"github.com/majormguarde-bit/megre-guard-db/constants"
	h "github.com/majormguarde-bit/megre-guard-db/helper"
	"github.com/majormguarde-bit/megre-guard-db/logger"
	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
)

// Config is the fixed engine configuration shared by every run.
type Config struct {
	Log                       logger.Logger
	Credentials               shared.Credentials // applied to both connections.
	ExcludeColumns            []string           // never inserted, e.g. identity columns.
	ProgressEvery             int                // emit a progress event every n rows.
	StatsDumpFrequencySeconds int                // 0 disables periodic stats logging.
}

// NewConfigFromEnv returns the default Config with credentials and excluded columns
// overridden by MGDB_DB_USER, MGDB_DB_PASSWORD and MGDB_EXCLUDE_COLUMNS when set.
func NewConfigFromEnv(log logger.Logger) Config {
	return Config{
		Log: log,
		Credentials: shared.Credentials{
			User:     h.ReadValueFromEnvWithDefault(constants.EnvVarDbUser, constants.DefaultDbUser),
			Password: h.ReadValueFromEnvWithDefault(constants.EnvVarDbPassword, constants.DefaultDbPassword),
		},
		ExcludeColumns:            h.CsvToStringSliceTrimSpaces(h.ReadValueFromEnvWithDefault(constants.EnvVarExcludeColumns, constants.DefaultExcludeColumns)),
		ProgressEvery:             constants.ProgressEveryDefault,
		StatsDumpFrequencySeconds: constants.StatsDumpFrequencySecondsDflt,
	}
}

// withDefaults fills any unset values.
func (c Config) withDefaults() Config {
	if c.Log == nil {
		c.Log = logger.NewDiscardLogger()
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = constants.ProgressEveryDefault
	}
	if c.Credentials.User == "" {
		c.Credentials = shared.Credentials{User: constants.DefaultDbUser, Password: constants.DefaultDbPassword}
	}
	if c.ExcludeColumns == nil {
		c.ExcludeColumns = h.CsvToStringSliceTrimSpaces(constants.DefaultExcludeColumns)
	}
	c.ExcludeColumns = h.StringSliceToUpper(c.ExcludeColumns)
	return c
}
