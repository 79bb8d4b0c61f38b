package transfer

import "fmt"

// ValidationError is a request that can not be run. No connection has been opened, or the
// request does not fit the tables it names.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConnectionError is a failure to open or use a database connection.
type ConnectionError struct {
	Side string // source or destination.
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("error connecting to %v database: %v", e.Side, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryError is a failure while reading or writing rows.
type QueryError struct {
	Msg string
	Err error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
