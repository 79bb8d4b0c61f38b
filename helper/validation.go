package helper

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidateStructIsPopulated will check if any mandatory fields in cfg are missing.
// It uses struct tags to determine which fields are mandatory and the error text to fetch.
// The error text returned is just a list of the struct tags with key "errorTxt".
func ValidateStructIsPopulated(cfg interface{}) (err error) {
	errs := make([]string, 0)
	GetStructErrorTxt4UnsetFields(cfg, &errs)
	if len(errs) > 0 {
		err = fmt.Errorf("please supply values for %v", strings.Join(errs, ", "))
	}
	return
}

// GetStructErrorTxt4UnsetFields will reflect over interface i and build a slice containing error text strings for any
// struct fields that are unset i.e. are the zero value for the given field type, or empty slices.
// The error text strings are fetched from the errorTxt tags values found in the supplied interface (struct)
// where tag mandatory:"yes" is set.
func GetStructErrorTxt4UnsetFields(i interface{}, errTags *[]string) {
	val := reflect.ValueOf(i)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return
	}
	typ := val.Type()
	for idx := 0; idx < val.NumField(); idx++ { // for each field in the value/struct...
		f := val.Field(idx)
		field := typ.Field(idx)
		if field.PkgPath != "" { // if the field is not exported...
			continue
		}
		mandatory := field.Tag.Get("mandatory") == "yes"
		switch f.Kind() {
		case reflect.Struct: // descend another level.
			GetStructErrorTxt4UnsetFields(f.Interface(), errTags)
		case reflect.Slice, reflect.Map:
			if mandatory && f.Len() == 0 {
				*errTags = append(*errTags, field.Tag.Get("errorTxt"))
			}
		case reflect.Ptr, reflect.Interface, reflect.Func, reflect.Chan:
			if mandatory && f.IsNil() {
				*errTags = append(*errTags, field.Tag.Get("errorTxt"))
			}
		default:
			if mandatory && f.IsZero() {
				*errTags = append(*errTags, field.Tag.Get("errorTxt"))
			}
		}
	}
}
