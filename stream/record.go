package stream

import (
	"encoding/json"
	"fmt"
	"strings"

	om "github.com/cevaris/ordered_map"
	h "github.com/majormguarde-bit/megre-guard-db/helper"
)

// Record is one fetched row: column name -> scalar value, in source result order.
// Database NULLs are held as nil interfaces.
type Record struct {
	data *om.OrderedMap
}

// NewRecord creates a new Record and returns it by value; the ordered map inside is shared by copies.
func NewRecord() Record {
	return Record{data: om.NewOrderedMap()}
}

// NewRecordFromRow builds a Record from parallel slices of column names and values.
// Column names are upper cased.
func NewRecordFromRow(cols []string, vals []interface{}) (Record, error) {
	if len(cols) != len(vals) {
		return Record{}, fmt.Errorf("row has %v values for %v columns", len(vals), len(cols))
	}
	r := NewRecord()
	for idx, c := range cols {
		r.SetData(strings.ToUpper(c), vals[idx])
	}
	return r, nil
}

// SetData saves value under name. A new name is appended to the field order.
func (sr Record) SetData(name string, value interface{}) {
	sr.data.Set(name, value)
}

// GetData returns the value for name and panics if the field does not exist.
func (sr Record) GetData(name string) interface{} {
	val, ok := sr.data.Get(name)
	if !ok {
		panic(fmt.Sprintf("invalid key name %q supplied while trying to fetch value from record", name))
	}
	return val
}

// LookupData returns the value for name and whether the field exists.
func (sr Record) LookupData(name string) (interface{}, bool) {
	if sr.data == nil {
		return nil, false
	}
	return sr.data.Get(name)
}

func (sr Record) GetDataLen() int {
	if sr.data == nil {
		return 0
	}
	return sr.data.Len()
}

// GetFieldNames returns the field names in insertion order.
func (sr Record) GetFieldNames() []string {
	retval := make([]string, 0, sr.GetDataLen())
	if sr.data == nil {
		return retval
	}
	iter := sr.data.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, kv.Key.(string))
	}
	return retval
}

// GetDataMap returns a plain map copy of the record data.
func (sr Record) GetDataMap() map[string]interface{} {
	retval := make(map[string]interface{}, sr.GetDataLen())
	if sr.data == nil {
		return retval
	}
	iter := sr.data.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval[kv.Key.(string)] = kv.Value
	}
	return retval
}

// GetDataByKeys returns the values for each of keys, in the order given.
// An error is returned if any key is missing from the record.
func (sr Record) GetDataByKeys(keys []string) ([]interface{}, error) {
	retval := make([]interface{}, len(keys))
	for idx, k := range keys {
		v, ok := sr.LookupData(k)
		if !ok {
			return nil, fmt.Errorf("field %q does not exist in record", k)
		}
		retval[idx] = v
	}
	return retval, nil
}

// GetJson returns the JSON representation of sr.data using the supplied keys to fetch the data.
func (sr Record) GetJson(keys []string) string {
	out := make([]string, len(keys))
	for idx, key := range keys { // for each key...
		v, ok := sr.LookupData(key)
		var s string
		if ok {
			s = h.GetStringFromInterface(v, false)
		}
		jsonValue, _ := json.Marshal(s) // marshalling a string cannot fail.
		out[idx] = fmt.Sprintf("%q: %s", key, string(jsonValue))
	}
	return fmt.Sprintf("{%v}", strings.Join(out, ", "))
}
