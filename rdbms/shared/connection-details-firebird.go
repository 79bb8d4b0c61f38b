package shared

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/majormguarde-bit/megre-guard-db/helper"
)

// FirebirdConnectionDetails describes a Firebird server and database file.
type FirebirdConnectionDetails struct {
	User     string `errorTxt:"user" mandatory:"yes"`
	Password string
	Host     string `errorTxt:"host" mandatory:"yes"`
	Port     int
	Path     string `errorTxt:"database path" mandatory:"yes"`
	Charset  string
}

// String returns the DSN with the password masked.
func (d FirebirdConnectionDetails) String() string {
	return fmt.Sprintf("%v:xxxxx@%v/%v?charset=%v", d.User, d.hostPort(), d.Path, d.charset())
}

func (d FirebirdConnectionDetails) hostPort() string {
	port := d.Port
	if port == 0 {
		port = constants.DefaultFirebirdPort
	}
	return net.JoinHostPort(d.Host, strconv.Itoa(port))
}

func (d FirebirdConnectionDetails) charset() string {
	if d.Charset == "" {
		return constants.DefaultCharset
	}
	return d.Charset
}

// GetDsn builds user:password@host:port/path?charset=X.
// User and password are escaped; a Windows path such as C:\DB\EVENTS.FDB is kept as is.
func (d FirebirdConnectionDetails) GetDsn() (string, error) {
	if err := helper.ValidateStructIsPopulated(d); err != nil {
		return "", fmt.Errorf("firebird connection: %w", err)
	}
	userInfo := url.UserPassword(d.User, d.Password).String()
	q := url.Values{}
	q.Set("charset", d.charset())
	return fmt.Sprintf("%v@%v/%v?%v", userInfo, d.hostPort(), d.Path, q.Encode()), nil
}
