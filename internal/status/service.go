package status

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/envelope"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/pkg/database"
)

// SchemaEnsurer prepares the store on first use.
type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context, conn *database.Conn) error
}

var errNoStore = errors.New("store not configured")

// Endpoints is the route listing published by the root status.
var Endpoints = map[string]string{
	"/api/health":   "Health check",
	"/api/users":    "Get users",
	"/api/products": "Get products",
}

// Aggregator composes the root and health status responses.
type Aggregator struct {
	service string
	health  string
	gw      *database.Gateway
	schema  SchemaEnsurer
	uptime  UptimeSource
	now     func() time.Time
	logger  *zap.SugaredLogger
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithUptime replaces the host uptime source; nil disables the field.
func WithUptime(src UptimeSource) Option {
	return func(a *Aggregator) { a.uptime = src }
}

// WithHealthName sets the service name reported by Health. Empty keeps the root name.
func WithHealthName(name string) Option {
	return func(a *Aggregator) {
		if name != "" {
			a.health = name
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

func NewAggregator(service string, gw *database.Gateway, schema SchemaEnsurer, logger *zap.SugaredLogger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	a := &Aggregator{
		service: service,
		health:  service,
		gw:      gw,
		schema:  schema,
		uptime:  HostUptime{},
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Root reports service identity and store connectivity. Reaching the store
// also creates and seeds the users table. A store failure is reported in the
// database field and never turns into an error.
func (a *Aggregator) Root(ctx context.Context) envelope.StatusEnvelope {
	st := envelope.NewStatus(envelope.StatusSuccess, a.service, a.now())
	st.Endpoints = Endpoints

	if err := a.checkStore(ctx); err != nil {
		a.logger.Warnw("store check failed", "err", err, "kind", database.KindOf(err))
		st.SetDatabase("error: " + err.Error())
	} else {
		st.SetDatabase("connected")
	}
	return st
}

func (a *Aggregator) checkStore(ctx context.Context) error {
	if a.gw == nil {
		return &database.Error{Kind: database.KindConnection, Op: "acquire", Err: errNoStore}
	}
	conn, err := a.gw.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if a.schema == nil {
		return nil
	}
	return a.schema.EnsureSchema(ctx, conn)
}

// Health is the lightweight liveness variant: no store access, no endpoints.
func (a *Aggregator) Health(ctx context.Context) envelope.StatusEnvelope {
	st := envelope.NewStatus(envelope.StatusHealthy, a.health, a.now())
	if a.uptime == nil {
		return st
	}
	d, err := a.uptime.Uptime(ctx)
	if err != nil {
		a.logger.Debugw("uptime unavailable", "err", err)
		return st
	}
	st.Uptime = FormatUptime(d)
	return st
}
