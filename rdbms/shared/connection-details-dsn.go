package shared

import (
	"fmt"

	"github.com/majormguarde-bit/megre-guard-db/constants"
	"github.com/pkg/errors"
	"github.com/xo/dburl"
)

// dsnDrivers maps a DSN connection type to the Go driver names dburl may resolve it to.
var dsnDrivers = map[string]map[string]struct{}{
	constants.ConnectionTypeSqlServer: {"sqlserver": {}, "mssql": {}},
	constants.ConnectionTypePostgres:  {"postgres": {}},
	constants.ConnectionTypeSnowflake: {"snowflake": {}},
}

// DsnConnectionDetails is a simple struct to hold a DSN only.
type DsnConnectionDetails struct {
	Dsn string `errorTxt:"data source name i.e. connect string" mandatory:"yes"`
}

// String returns the DSN with redacted password.
func (d DsnConnectionDetails) String() string {
	u, err := dburl.Parse(d.Dsn)
	if err != nil {
		return "<invalid dsn>"
	}
	return u.Redacted()
}

// Parse returns the dburl form of the DSN, which carries the Go driver name and driver specific DSN.
func (d DsnConnectionDetails) Parse() (*dburl.URL, error) {
	if d.Dsn == "" { // if the Dsn is invalid...
		return nil, errors.New("DSN not found")
	}
	u, err := dburl.Parse(d.Dsn)
	if err != nil {
		return nil, errors.Wrap(err, "DSN could not be parsed")
	}
	return u, nil
}

// GetDsnConnectionDetails converts generic ConnectionDetails to DsnConnectionDetails
// and returns a pointer to the new struct.
func GetDsnConnectionDetails(c *ConnectionDetails) (*DsnConnectionDetails, error) {
	dsn, err := c.GetDsn()
	if err != nil {
		return nil, err
	}
	d := &DsnConnectionDetails{Dsn: dsn}
	u, err := d.Parse()
	if err != nil {
		return nil, err
	}
	if _, ok := dsnDrivers[c.Type][u.Driver]; !ok {
		return nil, fmt.Errorf("DSN for driver %q does not match connection type %q", u.Driver, c.Type)
	}
	return d, nil
}
