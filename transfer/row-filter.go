package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/diegoholiveira/jsonlogic"
	"github.com/majormguarde-bit/megre-guard-db/stream"
)

// rowFilter keeps the fetched rows for which a JSON Logic rule returns true.
type rowFilter struct {
	rule string
}

// newRowFilter returns nil if rule is blank.
func newRowFilter(rule string) (*rowFilter, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return nil, nil
	}
	if !jsonlogic.IsValid(strings.NewReader(rule)) {
		return nil, fmt.Errorf("invalid row filter rule: %v", rule)
	}
	return &rowFilter{rule: rule}, nil
}

func (f *rowFilter) apply(recs []stream.Record) ([]stream.Record, error) {
	if f == nil {
		return recs, nil
	}
	var result bytes.Buffer
	retval := make([]stream.Record, 0, len(recs))
	for _, r := range recs {
		result.Reset()
		if err := applyJsonLogic(r, f.rule, &result); err != nil {
			return nil, err
		}
		if strings.TrimSpace(result.String()) == "true" {
			retval = append(retval, r)
		}
	}
	return retval, nil
}

// applyJsonLogic will apply json logic supplied in rule to data.
// It assumes the caller has validated the logic already!
func applyJsonLogic(data stream.Record, rule string, result *bytes.Buffer) error {
	// Convert input data to json.
	jsonData, err := json.Marshal(data.GetDataMap())
	if err != nil {
		return fmt.Errorf("error marshalling data before applying JSON logic: %w", err)
	}
	// Apply logic, returned via reference.
	err = jsonlogic.Apply(strings.NewReader(rule), bytes.NewReader(jsonData), result)
	if err != nil {
		return fmt.Errorf("error applying JSON logic: %w", err)
	}
	return nil
}
