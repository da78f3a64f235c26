package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	dbMeterName = "reddwarf/database"

	metricDBCalls      = "db.client.calls"
	metricDBDuration   = "db.client.operation.duration"
	metricRowsAffected = "db.rows.affected"

	metricPoolActive = "db.connection.pool.active"
	metricPoolIdle   = "db.connection.pool.idle"
	metricPoolTotal  = "db.connection.pool.total"

	attrDBSystem    = "db.system"
	attrDBOperation = "db.operation.name"
	attrDBTable     = "db.sql.table"

	unknownTable = "unknown"
)

// instruments are created lazily from the global meter provider, so a provider
// installed before the first operation is picked up.
type instruments struct {
	meter        metric.Meter
	calls        metric.Int64Counter
	duration     metric.Float64Histogram
	rowsAffected metric.Int64Counter
}

var (
	dbInstruments instruments
	meterOnce     sync.Once
)

func logMetricError(name string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to initialize metric %s: %v\n", name, err)
	}
}

func getInstruments() *instruments {
	meterOnce.Do(func() {
		m := otel.Meter(dbMeterName)
		dbInstruments.meter = m

		var err error
		dbInstruments.calls, err = m.Int64Counter(metricDBCalls,
			metric.WithDescription("Total number of database client calls"))
		logMetricError(metricDBCalls, err)

		dbInstruments.duration, err = m.Float64Histogram(metricDBDuration,
			metric.WithDescription("Duration of database operations in milliseconds"),
			metric.WithUnit("ms"))
		logMetricError(metricDBDuration, err)

		dbInstruments.rowsAffected, err = m.Int64Counter(metricRowsAffected,
			metric.WithDescription("Number of rows affected by database operations"))
		logMetricError(metricRowsAffected, err)
	})
	return &dbInstruments
}

func recordDBMetrics(ctx context.Context, tc *Context, query string, duration time.Duration, rowsAffected int64, err error) {
	inst := getInstruments()

	isError := err != nil && !errors.Is(err, sql.ErrNoRows)
	attrs := []attribute.KeyValue{
		attribute.String(attrDBSystem, normalizeDBVendor(tc.Vendor)),
		attribute.String(attrDBOperation, extractDBOperation(query)),
		attribute.String(attrDBTable, extractTableName(query)),
	}

	if inst.calls != nil {
		inst.calls.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.Bool("error", isError))...))
	}
	if inst.duration != nil {
		inst.duration.Record(ctx, float64(duration.Nanoseconds())/1e6, metric.WithAttributes(attrs...))
	}
	if inst.rowsAffected != nil && rowsAffected > 0 && !isError {
		inst.rowsAffected.Add(ctx, rowsAffected, metric.WithAttributes(attrs...))
	}
}

// tablePattern finds the target of the statements the builder emits:
// SELECT ... FROM t, INSERT INTO t, UPDATE t, DELETE FROM t.
var tablePattern = regexp.MustCompile("(?i)^(?:" + regexp.QuoteMeta(prefixStmt) + ")?(?:SELECT\\b.*?\\bFROM|INSERT\\s+INTO|UPDATE|DELETE\\s+FROM)\\s+[`\"]?([\\w.]+)[`\"]?")

// extractTableName returns the lowercase target table, or "unknown".
func extractTableName(query string) string {
	m := tablePattern.FindStringSubmatch(strings.TrimSpace(query))
	if len(m) < 2 {
		return unknownTable
	}
	name := m[1]
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

func asInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint32:
		return int64(val), true
	case float64:
		return int64(val), true
	default:
		return 0, false
	}
}

// RegisterConnectionPoolMetrics reports the in_use, idle and max_open_connections
// entries of conn.Stats() as observable gauges. The returned function unregisters
// the callback.
func RegisterConnectionPoolMetrics(conn interface {
	Stats() (map[string]any, error)
}, vendor string) func() {
	meter := getInstruments().meter
	noop := func() {}
	if meter == nil {
		return noop
	}

	active, err := meter.Int64ObservableGauge(metricPoolActive, metric.WithDescription("Number of active database connections"))
	logMetricError(metricPoolActive, err)
	idle, err := meter.Int64ObservableGauge(metricPoolIdle, metric.WithDescription("Number of idle database connections"))
	logMetricError(metricPoolIdle, err)
	total, err := meter.Int64ObservableGauge(metricPoolTotal, metric.WithDescription("Maximum number of database connections configured"))
	logMetricError(metricPoolTotal, err)
	if active == nil || idle == nil || total == nil {
		return noop
	}

	attrs := metric.WithAttributes(attribute.String(attrDBSystem, normalizeDBVendor(vendor)))
	registration, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats, err := conn.Stats()
		if err != nil {
			return nil
		}
		if v, ok := asInt64(stats["in_use"]); ok {
			o.ObserveInt64(active, v, attrs)
		}
		if v, ok := asInt64(stats["idle"]); ok {
			o.ObserveInt64(idle, v, attrs)
		}
		if v, ok := asInt64(stats["max_open_connections"]); ok {
			o.ObserveInt64(total, v, attrs)
		}
		return nil
	}, active, idle, total)
	if err != nil {
		logMetricError("pool_metrics_callback", err)
		return noop
	}

	return func() {
		if err := registration.Unregister(); err != nil {
			logMetricError("pool_metrics_unregister", err)
		}
	}
}
