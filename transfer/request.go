package transfer

import (
	"strconv"
	"strings"

	"github.com/majormguarde-bit/megre-guard-db/constants"
	h "github.com/majormguarde-bit/megre-guard-db/helper"
	"github.com/majormguarde-bit/megre-guard-db/rdbms/shared"
)

// Form field names used by the HTTP form and the saved settings.
const (
	FieldSrcType      = "src_type"
	FieldSrcHost      = "src_host"
	FieldSrcPort      = "src_port"
	FieldSrcPath      = "src_path"
	FieldSrcCharset   = "src_charset"
	FieldSrcDsn       = "src_dsn"
	FieldDstType      = "dst_type"
	FieldDstHost      = "dst_host"
	FieldDstPort      = "dst_port"
	FieldDstPath      = "dst_path"
	FieldDstCharset   = "dst_charset"
	FieldDstDsn       = "dst_dsn"
	FieldTableName    = "table_name"
	FieldSrcCondition = "src_condition"
	FieldCheckColumns = "check_columns"
	FieldRowFilter    = "row_filter"
)

// ConnectionSpec describes one side of a transfer. Credentials are supplied by the engine Config.
type ConnectionSpec struct {
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Host    string `json:"host,omitempty" yaml:"host,omitempty"`
	Port    int    `json:"port,omitempty" yaml:"port,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Charset string `json:"charset,omitempty" yaml:"charset,omitempty"`
	Dsn     string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// GetType returns the connection type, defaulting to Firebird.
func (c ConnectionSpec) GetType() string {
	if c.Type == "" {
		return constants.ConnectionTypeDefault
	}
	return c.Type
}

func (c ConnectionSpec) details(logicalName string, creds shared.Credentials) shared.ConnectionDetails {
	d := shared.ConnectionDetails{
		Type:        c.GetType(),
		LogicalName: logicalName,
		Host:        c.Host,
		Port:        c.Port,
		Path:        c.Path,
		Charset:     c.Charset,
		Dsn:         c.Dsn,
		Credentials: creds,
	}
	if d.Type == constants.ConnectionTypeFirebird {
		if d.Port == 0 {
			d.Port = constants.DefaultFirebirdPort
		}
		if d.Charset == "" {
			d.Charset = constants.DefaultCharset
		}
	}
	return d
}

// Request is the input to one transfer run. It is read only for the life of the run.
type Request struct {
	Source       ConnectionSpec `json:"source" yaml:"source"`
	Destination  ConnectionSpec `json:"destination" yaml:"destination"`
	Table        string         `json:"table" yaml:"table"`
	Filter       string         `json:"filter,omitempty" yaml:"filter,omitempty"`
	CheckColumns []string       `json:"checkColumns" yaml:"checkColumns"`
	RowFilter    string         `json:"rowFilter,omitempty" yaml:"rowFilter,omitempty"`
}

// ParseCheckColumns splits a comma separated list of column names, trimming spaces and dropping blanks.
func ParseCheckColumns(csv string) []string {
	return h.CsvToStringSliceTrimSpaces(csv)
}

// RequestFromForm builds a Request from form fields, fetched by name using get.
// A blank port means the Firebird default; a port that is not a number is a ValidationError.
func RequestFromForm(get func(name string) string) (Request, error) {
	var err error
	r := Request{
		Source: ConnectionSpec{
			Type:    strings.TrimSpace(get(FieldSrcType)),
			Host:    strings.TrimSpace(get(FieldSrcHost)),
			Path:    strings.TrimSpace(get(FieldSrcPath)),
			Charset: strings.TrimSpace(get(FieldSrcCharset)),
			Dsn:     strings.TrimSpace(get(FieldSrcDsn)),
		},
		Destination: ConnectionSpec{
			Type:    strings.TrimSpace(get(FieldDstType)),
			Host:    strings.TrimSpace(get(FieldDstHost)),
			Path:    strings.TrimSpace(get(FieldDstPath)),
			Charset: strings.TrimSpace(get(FieldDstCharset)),
			Dsn:     strings.TrimSpace(get(FieldDstDsn)),
		},
		Table:        strings.TrimSpace(get(FieldTableName)),
		Filter:       strings.TrimSpace(get(FieldSrcCondition)),
		CheckColumns: ParseCheckColumns(get(FieldCheckColumns)),
		RowFilter:    strings.TrimSpace(get(FieldRowFilter)),
	}
	if r.Source.Port, err = parsePort(FieldSrcPort, get(FieldSrcPort)); err != nil {
		return r, err
	}
	if r.Destination.Port, err = parsePort(FieldDstPort, get(FieldDstPort)); err != nil {
		return r, err
	}
	return r, nil
}

func parsePort(name string, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	p, err := strconv.Atoi(s)
	if err != nil || p < 0 || p > 65535 {
		return 0, &ValidationError{Msg: "bad value for " + name + ": " + s}
	}
	return p, nil
}

// FormValues returns the request as form fields, the inverse of RequestFromForm.
func (r Request) FormValues() map[string]string {
	m := map[string]string{
		FieldSrcHost:      r.Source.Host,
		FieldSrcPath:      r.Source.Path,
		FieldSrcCharset:   r.Source.Charset,
		FieldDstHost:      r.Destination.Host,
		FieldDstPath:      r.Destination.Path,
		FieldDstCharset:   r.Destination.Charset,
		FieldTableName:    r.Table,
		FieldSrcCondition: r.Filter,
		FieldCheckColumns: strings.Join(r.CheckColumns, ", "),
	}
	if r.Source.Port != 0 {
		m[FieldSrcPort] = strconv.Itoa(r.Source.Port)
	}
	if r.Destination.Port != 0 {
		m[FieldDstPort] = strconv.Itoa(r.Destination.Port)
	}
	if r.Source.Type != "" {
		m[FieldSrcType] = r.Source.Type
	}
	if r.Destination.Type != "" {
		m[FieldDstType] = r.Destination.Type
	}
	if r.Source.Dsn != "" {
		m[FieldSrcDsn] = r.Source.Dsn
	}
	if r.Destination.Dsn != "" {
		m[FieldDstDsn] = r.Destination.Dsn
	}
	if r.RowFilter != "" {
		m[FieldRowFilter] = r.RowFilter
	}
	return m
}

// DefaultFormValues returns the form defaults used when no settings have been saved.
func DefaultFormValues() map[string]string {
	port := strconv.Itoa(constants.DefaultFirebirdPort)
	return map[string]string{
		FieldSrcHost:      "localhost",
		FieldSrcPort:      port,
		FieldSrcCharset:   constants.DefaultCharset,
		FieldDstHost:      "localhost",
		FieldDstPort:      port,
		FieldDstCharset:   constants.DefaultCharset,
		FieldTableName:    constants.DefaultTableName,
		FieldSrcCondition: constants.DefaultSourceCondition,
		FieldCheckColumns: constants.DefaultCheckColumns,
	}
}
