package actions

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"regexp"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/majormguarde-bit/megre-guard-db/transfer"
)

var reRequestFileExt = regexp.MustCompile(`.*\.(json|yaml|yml)$`)

// LoadRequestFromFile reads a transfer request from a .json or .yaml file.
func LoadRequestFromFile(fileName string) (transfer.Request, error) {
	r := transfer.Request{}
	raw, err := ioutil.ReadFile(fileName)
	if err != nil {
		return r, err
	}
	suffix := reRequestFileExt.ReplaceAllString(strings.ToLower(fileName), `$1`)
	switch suffix {
	case "json":
		if err = json.Unmarshal(raw, &r); err != nil {
			return r, fmt.Errorf("error reading request JSON: unmarshal errors: %v", err)
		}
	case "yaml", "yml":
		b, err := yaml.YAMLToJSON(raw)
		if err != nil {
			return r, err
		}
		if err = json.Unmarshal(b, &r); err != nil {
			return r, fmt.Errorf("error reading request YAML after conversion to JSON: unmarshal errors: %v", err)
		}
	default:
		return r, fmt.Errorf("unable to identify type of request file by its extension. Please use .yaml or .json")
	}
	return r, nil
}

// WriteRequest writes r to w as YAML or JSON.
func WriteRequest(w io.Writer, r transfer.Request, yamlOrJson string) error {
	var data []byte
	var err error
	switch yamlOrJson {
	case "yaml":
		data, err = yaml.Marshal(r)
	case "json":
		data, err = json.MarshalIndent(r, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("unsupported output format %q", yamlOrJson)
	}
	if err != nil {
		return fmt.Errorf("unable to marshal the request: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// writeHumanEvent writes e as one line of text for a terminal.
func writeHumanEvent(w io.Writer, e transfer.Event) error {
	var s string
	switch e.Status {
	case transfer.StatusProgress:
		s = fmt.Sprintf("Progress: %v/%v (inserted %v, skipped %v)", e.Current, e.Total, e.Inserted, e.Skipped)
	case transfer.StatusError:
		s = fmt.Sprintf("Error: %v", e.Message)
	default:
		s = e.Message
	}
	_, err := fmt.Fprintln(w, s)
	return err
}
