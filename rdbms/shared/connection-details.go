package shared

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/majormguarde-bit/megre-guard-db/constants"
)

// Credentials is the user/password pair applied to connections that are not given a full DSN.
type Credentials struct {
	User     string `json:"user" yaml:"user"`
	Password string `json:"-" yaml:"-"`
}

// ConnectionDetails holds everything needed to open one logical database connection.
// Either Dsn is supplied or the Host, Port, Path and Charset fields are used to build one.
type ConnectionDetails struct {
	Type        string `json:"type" errorTxt:"database type" mandatory:"yes" yaml:"type"`
	LogicalName string `json:"logicalName" yaml:"logicalName"`
	Host        string `json:"host,omitempty" yaml:"host,omitempty"`
	Port        int    `json:"port,omitempty" yaml:"port,omitempty"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	Charset     string `json:"charset,omitempty" yaml:"charset,omitempty"`
	Dsn         string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Credentials `json:"-" yaml:"-"`
}

// String redacts passwords and pretty-prints the contents of ConnectionDetails.
func (c ConnectionDetails) String() string {
	x := make([]string, 0, 3)
	x = append(x, fmt.Sprintf("type = %v", c.Type))
	if c.LogicalName != "" {
		x = append(x, fmt.Sprintf("logicalName = %v", c.LogicalName))
	}
	x = append(x, fmt.Sprintf("target = %v", c.Redacted()))
	return strings.Join(x, ", ")
}

// Redacted returns the connection target with any password masked.
func (c ConnectionDetails) Redacted() string {
	switch c.Type {
	case constants.ConnectionTypeFirebird:
		return c.getFirebirdConnectionDetails().String()
	case constants.ConnectionTypeSqlite:
		return c.getSqlitePath()
	case constants.ConnectionTypeNetezza:
		return NetezzaConnectionDetails{Dsn: c.Dsn}.String()
	default:
		dsn, err := c.GetDsn()
		if err != nil {
			return "<invalid dsn>"
		}
		return DsnConnectionDetails{Dsn: dsn}.String()
	}
}

// GetDsn returns the data source name for generic DSN connection types.
// If no Dsn was supplied one is built as <type>://user:password@host:port/path.
func (c ConnectionDetails) GetDsn() (string, error) {
	if c.Dsn != "" {
		return c.Dsn, nil
	}
	if c.Host == "" {
		return "", fmt.Errorf("connection %q of type %v needs a host or a DSN", c.LogicalName, c.Type)
	}
	u := url.URL{Scheme: c.Type, Host: c.Host, Path: "/" + strings.TrimLeft(c.Path, "/")}
	if c.Port > 0 {
		u.Host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String(), nil
}

func (c ConnectionDetails) getSqlitePath() string {
	if c.Path != "" {
		return c.Path
	}
	return c.Dsn
}

// GetSqliteDsn returns the database file name (or ":memory:") for SQLite connections.
func (c ConnectionDetails) GetSqliteDsn() (string, error) {
	p := c.getSqlitePath()
	if p == "" {
		return "", fmt.Errorf("connection %q of type sqlite needs a path", c.LogicalName)
	}
	return p, nil
}

func (c ConnectionDetails) getFirebirdConnectionDetails() FirebirdConnectionDetails {
	return FirebirdConnectionDetails{
		User:     c.User,
		Password: c.Password,
		Host:     c.Host,
		Port:     c.Port,
		Path:     c.Path,
		Charset:  c.Charset,
	}
}

// GetFirebirdDsn returns the DSN understood by the firebirdsql driver.
func (c ConnectionDetails) GetFirebirdDsn() (string, error) {
	if c.Dsn != "" {
		return c.Dsn, nil
	}
	return c.getFirebirdConnectionDetails().GetDsn()
}
