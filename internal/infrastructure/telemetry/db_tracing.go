package telemetry

import (
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartKey = "telemetry:query_start"

// DBTracingConfig holds database tracing configuration.
type DBTracingConfig struct {
	Enabled bool
	// DBSystem is reported as db.system, "postgresql" or "sqlite".
	DBSystem string
	// IncludeVariables puts bound query values into spans. Development only.
	IncludeVariables bool
	SlowQueryThresh  time.Duration
	// TracerProvider overrides the global provider when set.
	TracerProvider trace.TracerProvider
}

// RegisterDBTracing installs the otelgorm plugin and flags statements slower
// than the threshold with db.slow_query on their span.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if !cfg.IncludeVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if cfg.SlowQueryThresh > 0 {
		if err := registerSlowQueryCallbacks(db, cfg.SlowQueryThresh); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh))
	return nil
}

func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok || time.Since(start) < threshold {
			return
		}
		span := trace.SpanFromContext(tx.Statement.Context)
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.duration_ms", time.Since(start).Milliseconds()),
		)
	}

	cb := db.Callback()
	steps := []struct {
		register func(name string, before bool, fn func(*gorm.DB)) error
		op       string
	}{
		{func(n string, b bool, fn func(*gorm.DB)) error {
			if b {
				return cb.Create().Before("gorm:create").Register(n, fn)
			}
			return cb.Create().After("gorm:create").Register(n, fn)
		}, "create"},
		{func(n string, b bool, fn func(*gorm.DB)) error {
			if b {
				return cb.Query().Before("gorm:query").Register(n, fn)
			}
			return cb.Query().After("gorm:query").Register(n, fn)
		}, "query"},
		{func(n string, b bool, fn func(*gorm.DB)) error {
			if b {
				return cb.Update().Before("gorm:update").Register(n, fn)
			}
			return cb.Update().After("gorm:update").Register(n, fn)
		}, "update"},
		{func(n string, b bool, fn func(*gorm.DB)) error {
			if b {
				return cb.Delete().Before("gorm:delete").Register(n, fn)
			}
			return cb.Delete().After("gorm:delete").Register(n, fn)
		}, "delete"},
	}
	for _, s := range steps {
		if err := s.register("telemetry:before_"+s.op, true, before); err != nil {
			return err
		}
		if err := s.register("telemetry:after_"+s.op, false, after); err != nil {
			return err
		}
	}
	return nil
}
