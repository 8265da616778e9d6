package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Kind separates failures to reach the store from failures of a statement.
type Kind int

const (
	KindQuery Kind = iota + 1
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

var (
	ErrConnection = errors.New("database connection error")
	ErrQuery      = errors.New("database query error")
)

// Error is the uniform error returned by Gateway and Conn. Error() is the
// store's own message so handlers can surface it unchanged.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String() + " error"
	}
	return e.Err.Error()
}

// Unwrap exposes both the kind sentinel and the driver error to errors.Is/As.
func (e *Error) Unwrap() []error {
	sentinel := ErrQuery
	if e.Kind == KindConnection {
		sentinel = ErrConnection
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

// KindOf returns the kind carried by err, or 0 when err did not come from this package.
func KindOf(err error) Kind {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Kind
	}
	return 0
}

func classify(op string, err error) error {
	if isConnectionError(err) {
		return &Error{Kind: KindConnection, Op: op, Err: err}
	}
	return &Error{Kind: KindQuery, Op: op, Err: err}
}

// mysql server error numbers that mean the session itself is unusable
var mysqlConnectionErrors = map[uint16]bool{
	1040: true, // too many connections
	1044: true, // access denied to database
	1045: true, // access denied for user
	1049: true, // unknown database
	1129: true, // host blocked
	1130: true, // host not allowed
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return mysqlConnectionErrors[myErr.Number]
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "28", "3D":
			return true
		}
	}
	return false
}
