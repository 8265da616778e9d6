package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

const (
	defaultHost     = "mysql"
	defaultDBName   = "microservices_db"
	defaultUser     = "app_user"
	defaultPassword = "userpass"
)

// Config holds the store connection settings. Populated by internal/config from
// DB_* environment variables; any empty field falls back to its default.
type Config struct {
	Driver   string        `env:"DRIVER"`
	Host     string        `env:"HOST"`
	Port     int           `env:"PORT"`
	DBName   string        `env:"NAME"`
	User     string        `env:"USER"`
	Password string        `env:"PASSWORD"`
	TimeZone string        `env:"TIMEZONE"`
	MaxConns int           `env:"MAX_CONNS"`
	Timeout  time.Duration `env:"TIMEOUT"`
}

// WithDefaults returns a copy of c where every unset option carries its default.
func (c Config) WithDefaults() Config {
	if c.Driver == "" {
		c.Driver = DriverMySQL
	}
	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.Port == 0 {
		if c.Driver == DriverPostgres {
			c.Port = 5432
		} else {
			c.Port = 3306
		}
	}
	if c.DBName == "" {
		c.DBName = defaultDBName
	}
	if c.User == "" {
		c.User = defaultUser
	}
	if c.Password == "" {
		c.Password = defaultPassword
	}
	if c.MaxConns <= 0 {
		c.MaxConns = 5
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	return c
}

// DSN renders the driver specific data source name.
func (c Config) DSN() (string, error) {
	c = c.WithDefaults()
	switch c.Driver {
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		mc.DBName = c.DBName
		mc.ParseTime = true
		mc.Timeout = c.Timeout
		if c.TimeZone != "" {
			// parsed DATETIME values must use the same zone as the session
			loc, err := time.LoadLocation(c.TimeZone)
			if err != nil {
				return "", fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err)
			}
			mc.Loc = loc
			mc.Params = map[string]string{"time_zone": "'" + c.TimeZone + "'"}
		}
		return mc.FormatDSN(), nil
	case DriverPostgres:
		// libpq reads 0 as "wait forever"
		secs := int(c.Timeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		parts := []string{
			"host=" + conninfoValue(c.Host),
			"port=" + strconv.Itoa(c.Port),
			"dbname=" + conninfoValue(c.DBName),
			"user=" + conninfoValue(c.User),
			"password=" + conninfoValue(c.Password),
			"sslmode=disable",
			"connect_timeout=" + strconv.Itoa(secs),
		}
		if c.TimeZone != "" {
			parts = append(parts, "timezone="+conninfoValue(c.TimeZone))
		}
		return strings.Join(parts, " "), nil
	default:
		return "", fmt.Errorf("unsupported driver %q", c.Driver)
	}
}

// conninfoValue quotes a libpq keyword value: backslashes and single quotes
// are escaped and the whole value wrapped in single quotes.
func conninfoValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// Gateway owns the pool to the relational store. Handlers take one Conn per
// request through Acquire and release it with Close.
type Gateway struct {
	db      *sqlx.DB
	driver  string
	timeout time.Duration
}

// Open builds a Gateway for cfg. The pool is opened lazily, so an unreachable
// store surfaces on the first Acquire rather than here.
func Open(cfg Config) (*Gateway, error) {
	cfg = cfg.WithDefaults()
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, &Error{Kind: KindConnection, Op: "open", Err: err}
	}
	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, &Error{Kind: KindConnection, Op: "open", Err: err}
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Gateway{db: db, driver: cfg.Driver, timeout: cfg.Timeout}, nil
}

// NewGateway wraps an existing *sql.DB.
func NewGateway(db *sql.DB, driver string) *Gateway {
	return &Gateway{db: sqlx.NewDb(db, driver), driver: driver, timeout: 5 * time.Second}
}

// Driver reports the dialect the gateway speaks.
func (g *Gateway) Driver() string { return g.driver }

// Ping verifies connectivity with a bounded timeout.
func (g *Gateway) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	if err := g.db.PingContext(ctx); err != nil {
		return &Error{Kind: KindConnection, Op: "ping", Err: err}
	}
	return nil
}

// Acquire takes a dedicated connection from the pool and checks it is alive.
// Every failure is a connection error. The caller must Close the result.
func (g *Gateway) Acquire(ctx context.Context) (*Conn, error) {
	pingCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	c, err := g.db.Connx(pingCtx)
	if err != nil {
		return nil, &Error{Kind: KindConnection, Op: "acquire", Err: err}
	}
	if err := c.PingContext(pingCtx); err != nil {
		_ = c.Close()
		return nil, &Error{Kind: KindConnection, Op: "acquire", Err: err}
	}
	return &Conn{conn: c, driver: g.driver}, nil
}

// Close releases the pool.
func (g *Gateway) Close() error { return g.db.Close() }

// Conn is one acquired store connection. Statements use ? placeholders and
// are rebound for the driver.
type Conn struct {
	conn   *sqlx.Conn
	driver string
}

// Driver reports the dialect of the underlying connection.
func (c *Conn) Driver() string { return c.driver }

// Query runs a select and scans all rows into dest, which must be a pointer to a slice.
func (c *Conn) Query(ctx context.Context, dest any, query string, args ...any) error {
	if err := c.conn.SelectContext(ctx, dest, c.conn.Rebind(query), args...); err != nil {
		return classify("query", err)
	}
	return nil
}

// Get runs a select expected to return exactly one row.
func (c *Conn) Get(ctx context.Context, dest any, query string, args ...any) error {
	if err := c.conn.GetContext(ctx, dest, c.conn.Rebind(query), args...); err != nil {
		return classify("get", err)
	}
	return nil
}

// Execute runs a statement and returns the number of affected rows.
func (c *Conn) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.conn.ExecContext(ctx, c.conn.Rebind(query), args...)
	if err != nil {
		return 0, classify("execute", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify("execute", err)
	}
	return n, nil
}

// Insert runs a single-row INSERT and returns the store-assigned id column.
// Postgres has no LastInsertId, so the statement gets a RETURNING clause there.
func (c *Conn) Insert(ctx context.Context, query string, args ...any) (int64, error) {
	if c.driver == DriverPostgres {
		var id int64
		if err := c.conn.GetContext(ctx, &id, c.conn.Rebind(query+" RETURNING id"), args...); err != nil {
			return 0, classify("insert", err)
		}
		return id, nil
	}
	res, err := c.conn.ExecContext(ctx, c.conn.Rebind(query), args...)
	if err != nil {
		return 0, classify("insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, classify("insert", err)
	}
	return id, nil
}

// Close returns the connection to the pool.
func (c *Conn) Close() error { return c.conn.Close() }
