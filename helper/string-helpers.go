package helper

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	om "github.com/cevaris/ordered_map"
	"github.com/majormguarde-bit/megre-guard-db/constants"
)

// CsvToStringSliceTrimSpaces converts a string of the form 'f1, f2, ,f3' into a slice of values.
// Spaces are trimmed and blank values are dropped, so "" and " , " both give an empty slice.
func CsvToStringSliceTrimSpaces(s string) []string {
	retval := make([]string, 0)
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			retval = append(retval, t)
		}
	}
	return retval
}

// StringSliceToUpper returns a new slice holding the upper case version of each value in s.
func StringSliceToUpper(s []string) []string {
	retval := make([]string, len(s))
	for idx, v := range s {
		retval[idx] = strings.ToUpper(v)
	}
	return retval
}

// StringSliceToOrderedMap adds each value in s to an ordered map with key and value set to the value in s.
func StringSliceToOrderedMap(s []string) *om.OrderedMap {
	retval := om.NewOrderedMap()
	for _, v := range s {
		retval.Set(v, v)
	}
	return retval
}

// OrderedMapValuesToStringSlice returns the values found in ordered map m, in order.
// All values are expected to be of type string.
func OrderedMapValuesToStringSlice(m *om.OrderedMap) []string {
	retval := make([]string, 0, m.Len())
	iter := m.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		retval = append(retval, kv.Value.(string))
	}
	return retval
}

// GetStringFromInterface will convert interface{} value to a string.
// Optionally return Times in UTC.
func GetStringFromInterface(input interface{}, useUTC bool) (retval string) {
	switch v := input.(type) {
	case int, int16, int32, int64, int8, uint8, uint16, uint32, uint64:
		retval = fmt.Sprintf("%d", v)
	case string:
		retval = v
	case float32:
		retval = strconv.FormatFloat(float64(v), 'f', -1, 32) // use 'f' to preserve all decimal points.
	case float64:
		retval = strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if useUTC {
			retval = v.UTC().Format(constants.TimeFormatYearSecondsTZ)
		} else {
			retval = v.Format(constants.TimeFormatYearSecondsTZ)
		}
	case []uint8:
		retval = string(v)
	case bool:
		retval = strconv.FormatBool(v)
	case nil:
		retval = ""
	default:
		retval = fmt.Sprintf("%v (%v)", v, reflect.TypeOf(input))
	}
	return
}

// SplitRight splits s around the last instance of c.
// If c is not found, return s, "".
func SplitRight(s string, c string) (string, string) {
	i := strings.LastIndex(s, c)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+len(c):]
}
