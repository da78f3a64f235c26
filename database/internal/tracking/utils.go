package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/reddwarf-io/reddwarf/logger"
)

const (
	defaultOperation = "query"

	dbTracerName      = "reddwarf/database"
	maxDBQueryAttrLen = 2000

	// Pseudo statements logged for operations that carry no SQL text.
	opBegin    = "BEGIN"
	opCommit   = "COMMIT"
	opRollback = "ROLLBACK"
	prefixPrep = "PREPARE: "
	prefixStmt = "STMT: "
)

// TrackDBOperation logs a finished database operation and records its span and metrics.
// It is a no-op when tc or its Logger is nil. Errors are logged at error level except
// sql.ErrNoRows, which is a normal empty result and logged at debug level. Successful
// operations slower than the configured threshold are logged as warnings.
//
// rowsAffected is 0 for reads.
func TrackDBOperation(ctx context.Context, tc *Context, query string, args []any, start time.Time, rowsAffected int64, err error) {
	if tc == nil || tc.Logger == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	elapsed := time.Since(start)

	logger.IncrementDBCounter(ctx)
	logger.AddDBElapsed(ctx, elapsed.Nanoseconds())
	createDBSpan(ctx, tc, query, start, err)
	recordDBMetrics(ctx, tc, query, elapsed, rowsAffected, err)

	fields := map[string]any{
		"vendor":      tc.Vendor,
		"duration_ms": elapsed.Milliseconds(),
		"query":       TruncateString(query, tc.Settings.MaxQueryLength()),
	}
	if tc.TxID != "" {
		fields["tx_id"] = tc.TxID
	}
	if rowsAffected > 0 {
		fields["rows_affected"] = rowsAffected
	}
	if tc.Settings.LogQueryParameters() && len(args) > 0 {
		fields["args"] = SanitizeArgs(args, tc.Settings.MaxQueryLength())
	}

	logEvent := tc.Logger.WithContext(ctx).WithFields(fields)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		logEvent.Debug().Msg("Database operation returned no rows")
	case err != nil:
		logEvent.Error().Err(err).Msg("Database operation error")
	case elapsed > tc.Settings.SlowQueryThreshold():
		logEvent.Warn().Msgf("Slow database operation detected (%s)", elapsed)
	default:
		logEvent.Debug().Msg("Database operation executed")
	}
}

func extractRowsAffected(result sql.Result, err error) int64 {
	if result == nil || err != nil {
		return 0
	}
	affected, affErr := result.RowsAffected()
	if affErr != nil {
		return 0
	}
	return affected
}

// TruncateString shortens value to at most maxLen runes, ending in "..." when there is
// room for it. maxLen <= 0 disables truncation.
func TruncateString(value string, maxLen int) string {
	if maxLen <= 0 {
		return value
	}
	r := []rune(value)
	if len(r) <= maxLen {
		return value
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// SanitizeArgs returns a log-safe copy of args: strings truncated, byte slices
// replaced by their length, everything else formatted with %v and truncated.
func SanitizeArgs(args []any, maxLen int) []any {
	if len(args) == 0 {
		return nil
	}
	sanitized := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
			sanitized[i] = nil
		case string:
			sanitized[i] = TruncateString(v, maxLen)
		case []byte:
			sanitized[i] = fmt.Sprintf("<bytes len=%d>", len(v))
		default:
			sanitized[i] = TruncateString(fmt.Sprintf("%v", v), maxLen)
		}
	}
	return sanitized
}

// createDBSpan records a client span that started at start and ends now.
func createDBSpan(ctx context.Context, tc *Context, query string, start time.Time, err error) {
	operation := extractDBOperation(query)

	_, span := otel.Tracer(dbTracerName).Start(ctx, "db."+operation,
		trace.WithTimestamp(start),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	attrs := []attribute.KeyValue{
		attribute.String("db.system", normalizeDBVendor(tc.Vendor)),
		semconv.DBQueryText(TruncateString(query, maxDBQueryAttrLen)),
	}
	if operation != defaultOperation {
		attrs = append(attrs, semconv.DBOperationName(operation))
	}
	if tc.Namespace != "" {
		attrs = append(attrs, semconv.DBNamespace(tc.Namespace))
	}
	if tc.ServerAddress != "" {
		attrs = append(attrs, semconv.ServerAddress(tc.ServerAddress))
	}
	if tc.ServerPort > 0 {
		attrs = append(attrs, semconv.ServerPort(tc.ServerPort))
	}
	if tc.TxID != "" {
		attrs = append(attrs, attribute.String("db.transaction.id", tc.TxID))
	}
	span.SetAttributes(attrs...)

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}

// extractDBOperation returns the lowercase statement verb, or a pseudo operation for
// transaction control and prepare.
func extractDBOperation(query string) string {
	query = strings.TrimSpace(query)
	switch {
	case query == "":
		return defaultOperation
	case strings.HasPrefix(query, prefixPrep):
		return "prepare"
	case query == opBegin:
		return "begin"
	case query == opCommit:
		return "commit"
	case query == opRollback:
		return "rollback"
	}

	query = strings.TrimPrefix(query, prefixStmt)
	parts := strings.Fields(query)
	if len(parts) == 0 {
		return defaultOperation
	}

	operation := strings.ToLower(parts[0])
	switch operation {
	case "select", "insert", "update", "delete", "create", "drop", "alter", "truncate":
		return operation
	default:
		return defaultOperation
	}
}

func normalizeDBVendor(vendor string) string {
	switch v := strings.ToLower(vendor); v {
	case "sqlite3":
		return "sqlite"
	case "ch":
		return "clickhouse"
	default:
		return v
	}
}
