package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics records order and stock activity.
type BusinessMetrics struct {
	logger *zap.Logger

	ordersPlaced     metric.Int64Counter
	orderAmount      metric.Float64Histogram
	orderTransitions metric.Int64Counter
	stockAdjustments metric.Int64Counter
	stockUnits       metric.Int64Counter
}

// BusinessMetricsConfig holds the dependencies of BusinessMetrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
	// InventoryProvider, when set, feeds the observable inventory gauges.
	InventoryProvider InventoryMetricsProvider
}

// NewBusinessMetrics creates the instruments on cfg.Meter.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, fmt.Errorf("meter is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger}
	var err error

	if bm.ordersPlaced, err = cfg.Meter.Int64Counter("shop_orders_placed_total",
		metric.WithDescription("Number of orders placed"),
		metric.WithUnit("{order}")); err != nil {
		return nil, fmt.Errorf("failed to create orders placed counter: %w", err)
	}
	if bm.orderAmount, err = cfg.Meter.Float64Histogram("shop_order_amount",
		metric.WithDescription("Total amount of placed orders"),
		metric.WithUnit("{currency}"),
		metric.WithExplicitBucketBoundaries(OrderAmountBuckets...)); err != nil {
		return nil, fmt.Errorf("failed to create order amount histogram: %w", err)
	}
	if bm.orderTransitions, err = cfg.Meter.Int64Counter("shop_order_transitions_total",
		metric.WithDescription("Order status changes by target status"),
		metric.WithUnit("{order}")); err != nil {
		return nil, fmt.Errorf("failed to create order transitions counter: %w", err)
	}
	if bm.stockAdjustments, err = cfg.Meter.Int64Counter("shop_stock_adjustments_total",
		metric.WithDescription("Inventory ledger adjustments by reason"),
		metric.WithUnit("{adjustment}")); err != nil {
		return nil, fmt.Errorf("failed to create stock adjustments counter: %w", err)
	}
	if bm.stockUnits, err = cfg.Meter.Int64Counter("shop_stock_units_moved_total",
		metric.WithDescription("Units moved through the inventory ledger by direction"),
		metric.WithUnit("{unit}")); err != nil {
		return nil, fmt.Errorf("failed to create stock units counter: %w", err)
	}

	if cfg.InventoryProvider != nil {
		if err := registerInventoryGauges(cfg.Meter, cfg.InventoryProvider, logger); err != nil {
			return nil, err
		}
	}

	return bm, nil
}

// RecordOrderPlaced counts a placed order and its total.
func (m *BusinessMetrics) RecordOrderPlaced(ctx context.Context, total decimal.Decimal) {
	if m == nil {
		return
	}
	m.ordersPlaced.Add(ctx, 1)
	m.orderAmount.Record(ctx, total.InexactFloat64())
}

// RecordOrderTransition counts a status change to status.
func (m *BusinessMetrics) RecordOrderTransition(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.orderTransitions.Add(ctx, 1, metric.WithAttributes(AttrOrderStatus.String(status)))
}

// RecordStockAdjustment counts one ledger adjustment and the units it moved.
func (m *BusinessMetrics) RecordStockAdjustment(ctx context.Context, delta int, reason string) {
	if m == nil || delta == 0 {
		return
	}
	direction, units := "in", int64(delta)
	if delta < 0 {
		direction, units = "out", int64(-delta)
	}
	m.stockAdjustments.Add(ctx, 1, metric.WithAttributes(AttrReason.String(reason)))
	m.stockUnits.Add(ctx, units, metric.WithAttributes(
		AttrReason.String(reason),
		AttrDirection.String(direction),
	))
}
