package helper

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/majormguarde-bit/megre-guard-db/constants"
)

// ReadValueFromEnv reads the environment variable name into val.
// If the env var is not set then return an error and leave val untouched.
func ReadValueFromEnv(name string, val *string) error {
	v := os.Getenv(name)
	if v != "" { // if the environment variable was set...
		*val = v
		return nil
	}
	return fmt.Errorf("value for environment variable %v not found", name)
}

// ReadValueFromEnvWithDefault will read the value of name from the environment.
// If it's not set then the supplied defaultValue is returned.
func ReadValueFromEnvWithDefault(name string, defaultValue string) (v string) {
	_ = ReadValueFromEnv(name, &v)
	if v == "" {
		v = defaultValue
	}
	return
}

// EnvModeEnabled returns true when flags should be read from MGDB_* environment variables.
func EnvModeEnabled() bool {
	v, _ := strconv.ParseBool(os.Getenv(constants.EnvVarEnvMode))
	return v
}

// FlagNameToEnvVar forms an environment variable name using constants.EnvVarPrefix,
// e.g. "src-host" becomes MGDB_SRC_HOST.
func FlagNameToEnvVar(name string) string {
	return constants.EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
