package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"reflect"
	"strings"
	"sync"

	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

const (
	MainDir                = ".mgdb"
	SettingsFileNamePrefix = "settings"
	SettingsFileNameExt    = "yaml"
	SettingsFileFullName   = SettingsFileNamePrefix + "." + SettingsFileNameExt
)

// FileNotFoundError denotes failing to find configuration file.
type FileNotFoundError struct {
	name string
}

// Error returns the formatted configuration error.
func (f FileNotFoundError) Error() string {
	return fmt.Sprintf("config file %q not found", f.name)
}

type KeyNotFoundError struct {
	configFile string
	key        string
}

func (k KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found in config file %q", k.key, k.configFile)
}

// File is a YAML key/value store held in one file.
// Data is loaded on first use; every change rewrites the whole file.
type File struct {
	Dirname      string
	FileName     string
	FilePrefix   string
	FileExt      string
	FullPath     string
	data         map[string]interface{}
	dataIsLoaded bool
	mu           sync.Mutex
}

func NewConfigFileWithDir(dirName string, filename string) *File {
	c := &File{Dirname: dirName, FileName: filename}
	c.FullPath = path.Join(dirName, filename)
	c.FileExt = strings.TrimLeft(path.Ext(filename), ".")
	c.FilePrefix = strings.TrimSuffix(c.FileName, "."+c.FileExt)
	c.data = make(map[string]interface{})
	return c
}

// NewSettingsFile returns the settings file in the user's home directory, ~/.mgdb/settings.yaml.
func NewSettingsFile() (*File, error) {
	dir, err := getConfigHomeDir()
	if err != nil {
		return nil, err
	}
	return NewConfigFileWithDir(dir, SettingsFileFullName), nil
}

// Get will fetch the key from the config File into variable, out.
// Return a KeyNotFoundError if we can't find the key.
func (c *File) Get(key string, out interface{}) error {
	if reflect.ValueOf(out).Kind() != reflect.Ptr {
		return errors.New("out must be a pointer")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadData(); err != nil {
		return err
	}
	d, ok := c.data[key]
	if !ok {
		return KeyNotFoundError{c.FullPath, key}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true, // YAML may give us numbers for values saved as strings.
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err = dec.Decode(d); err != nil {
		return fmt.Errorf("error decoding key %v from config file %v: %w", key, c.FullPath, err)
	}
	return nil
}

func (c *File) Set(key string, val interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadData(); err != nil {
		return err
	}
	c.data[key] = val
	return c.saveData()
}

func (c *File) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.loadData(); err != nil {
		return err
	}
	if _, keyExists := c.data[key]; !keyExists {
		return KeyNotFoundError{c.FullPath, key}
	}
	delete(c.data, key)
	return c.saveData()
}

// loadData reads the file once. A missing file is an empty store.
// Callers must hold c.mu.
func (c *File) loadData() error {
	if c.dataIsLoaded {
		return nil
	}
	b, err := ioutil.ReadFile(c.FullPath)
	if os.IsNotExist(err) {
		c.dataIsLoaded = true
		return nil
	} else if err != nil {
		return err
	}
	if err = yaml.Unmarshal(b, &c.data); err != nil {
		return fmt.Errorf("error reading config file %v: %w", c.FullPath, err)
	}
	if c.data == nil { // empty file.
		c.data = make(map[string]interface{})
	}
	c.dataIsLoaded = true
	return nil
}

// saveData writes all keys to the file via a temporary file and rename.
// Callers must hold c.mu.
func (c *File) saveData() error {
	b, err := yaml.Marshal(c.data)
	if err != nil {
		return fmt.Errorf("error marshalling data for config file %v: %w", c.FullPath, err)
	}
	if err = makeDir(c.Dirname); err != nil {
		return err
	}
	tmp := c.FullPath + ".tmp"
	if err = ioutil.WriteFile(tmp, b, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, c.FullPath)
}

// LoadLastTransfer returns the form fields of the last saved transfer request.
// A FileNotFoundError is returned if nothing has been saved yet.
func (c *File) LoadLastTransfer() (map[string]string, error) {
	m := make(map[string]string)
	err := c.Get(constants.SettingsKeyLastTransfer, &m)
	if errors.As(err, &KeyNotFoundError{}) {
		return nil, FileNotFoundError{c.FullPath}
	}
	return m, err
}

// SaveLastTransfer persists form fields as the last used transfer request.
func (c *File) SaveLastTransfer(fields map[string]string) error {
	return c.Set(constants.SettingsKeyLastTransfer, fields)
}

// ClearLastTransfer removes the last used transfer request. It is not an error if there is none.
func (c *File) ClearLastTransfer() error {
	err := c.Delete(constants.SettingsKeyLastTransfer)
	if errors.As(err, &KeyNotFoundError{}) {
		return nil
	}
	return err
}
