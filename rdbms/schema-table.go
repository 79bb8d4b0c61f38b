package rdbms

import (
	"fmt"
	"regexp"
	"strings"
)

var reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// ValidateIdentifier returns an error unless s is a plain, unquoted SQL identifier.
func ValidateIdentifier(s string) error {
	if !reIdentifier.MatchString(s) {
		return fmt.Errorf("invalid identifier %q", s)
	}
	return nil
}

func toUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// SchemaTable is a table name with an optional schema prefix.
type SchemaTable struct {
	SchemaTable string `errorTxt:"[<schema>.]<object>" mandatory:"yes"`
}

// Validate checks the table and optional schema are plain identifiers so they are safe to use in SQL text.
func (st SchemaTable) Validate() error {
	if st.SchemaTable == "" {
		return fmt.Errorf("missing table name")
	}
	if strings.Contains(st.SchemaTable, ".") {
		if err := ValidateIdentifier(st.GetSchema()); err != nil {
			return fmt.Errorf("bad schema in table name %q: %w", st.SchemaTable, err)
		}
	}
	if err := ValidateIdentifier(st.GetTable()); err != nil {
		return fmt.Errorf("bad table name %q: %w", st.SchemaTable, err)
	}
	return nil
}

func (st SchemaTable) GetTable() string {
	sep := "."
	i := strings.Index(st.SchemaTable, sep)
	if i < 0 { // if we have just a table...
		return st.SchemaTable
	} // else we have schema.table...
	return st.SchemaTable[i+len(sep):] // return table
}

func (st SchemaTable) GetSchema() string {
	sep := "."
	i := strings.Index(st.SchemaTable, sep)
	if i < 0 { // if we have just a table...
		return ""
	} // else we have schema.table...
	return st.SchemaTable[:i] // return schema
}

func (st SchemaTable) String() string {
	return st.SchemaTable
}
