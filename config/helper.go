package config

import (
	"fmt"
	"os"
	"path"

	"github.com/majormguarde-bit/megre-guard-db/helper"
	"github.com/mitchellh/go-homedir"
)

// EnvVarHomeDir overrides the directory used for config files.
const EnvVarHomeDir = "MGDB_HOME"

// getConfigHomeDir returns the full path to the directory that stores all config files.
func getConfigHomeDir() (string, error) {
	if d := helper.ReadValueFromEnvWithDefault(EnvVarHomeDir, ""); d != "" {
		return d, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("error finding home directory: %w", err)
	}
	return path.Join(home, MainDir), nil
}

// makeDir will make the given directory if it does not already exist.
// An error is returned if there is a problem creating the dir.
func makeDir(dir string) error {
	_, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory %v: %w", dir, err)
		}
	} else if err != nil {
		return err
	}
	return nil
}
