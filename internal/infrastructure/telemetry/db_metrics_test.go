package telemetry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSqlite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "telemetry.db")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRegisterDBPoolMetrics(t *testing.T) {
	reader, provider := newTestMeter(t)
	db := openSqlite(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(3)

	require.NoError(t, RegisterDBPoolMetrics(provider.Meter("test"), sqlDB))
	require.NoError(t, sqlDB.Ping())

	metrics := collect(t, reader)

	maxOpen := metrics["shop_db_pool_max_open"].Data.(metricdata.Gauge[int64])
	require.Len(t, maxOpen.DataPoints, 1)
	assert.Equal(t, int64(3), maxOpen.DataPoints[0].Value)

	conns := metrics["shop_db_pool_connections"].Data.(metricdata.Gauge[int64])
	assert.Len(t, conns.DataPoints, 2)
}

func TestRegisterDBTracing(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		db := openSqlite(t)
		require.NoError(t, RegisterDBTracing(db, DBTracingConfig{}, zap.NewNop()))
		assert.Nil(t, db.Callback().Query().Get("telemetry:before_query"))
	})

	t.Run("marks slow statements", func(t *testing.T) {
		sr := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
		defer func() { _ = tp.Shutdown(t.Context()) }()

		db := openSqlite(t)
		require.NoError(t, db.Exec("CREATE TABLE pings (id INTEGER PRIMARY KEY)").Error)
		require.NoError(t, RegisterDBTracing(db, DBTracingConfig{
			Enabled:         true,
			TracerProvider:  tp,
			DBSystem:        "sqlite",
			SlowQueryThresh: time.Nanosecond,
		}, zap.NewNop()))
		assert.NotNil(t, db.Callback().Query().Get("telemetry:before_query"))

		ctx, span := tp.Tracer("test").Start(t.Context(), "request")
		var ids []int
		require.NoError(t, db.WithContext(ctx).Table("pings").Pluck("id", &ids).Error)
		span.End()

		found := false
		for _, s := range sr.Ended() {
			for _, a := range s.Attributes() {
				if a.Key == "db.slow_query" && a.Value.AsBool() {
					found = true
				}
			}
		}
		assert.True(t, found)
	})
}
