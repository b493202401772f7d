package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryMetricsProvider reports inventory state for the observable gauges.
type InventoryMetricsProvider interface {
	// CountLowStock returns the number of products at or below their threshold.
	CountLowStock(ctx context.Context) (int64, error)
	// TotalUnits returns the number of units on hand over all products.
	TotalUnits(ctx context.Context) (int64, error)
}

// GormInventoryMetricsProvider reads the inventories table directly.
type GormInventoryMetricsProvider struct {
	db *gorm.DB
}

func NewGormInventoryMetricsProvider(db *gorm.DB) *GormInventoryMetricsProvider {
	return &GormInventoryMetricsProvider{db: db}
}

func (p *GormInventoryMetricsProvider) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("inventories").
		Where("quantity <= low_stock").
		Count(&count).Error
	return count, err
}

func (p *GormInventoryMetricsProvider) TotalUnits(ctx context.Context) (int64, error) {
	var total int64
	err := p.db.WithContext(ctx).
		Table("inventories").
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// registerInventoryGauges reads the provider on every collection cycle.
// A failing query skips that gauge for the cycle.
func registerInventoryGauges(meter metric.Meter, provider InventoryMetricsProvider, logger *zap.Logger) error {
	lowStock, err := meter.Int64ObservableGauge("shop_inventory_low_stock_products",
		metric.WithDescription("Products at or below their low stock threshold"),
		metric.WithUnit("{product}"))
	if err != nil {
		return err
	}
	units, err := meter.Int64ObservableGauge("shop_inventory_units_on_hand",
		metric.WithDescription("Units on hand over all products"),
		metric.WithUnit("{unit}"))
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		if n, err := provider.CountLowStock(ctx); err != nil {
			logger.Warn("Failed to collect low stock count", zap.Error(err))
		} else {
			o.ObserveInt64(lowStock, n)
		}
		if n, err := provider.TotalUnits(ctx); err != nil {
			logger.Warn("Failed to collect units on hand", zap.Error(err))
		} else {
			o.ObserveInt64(units, n)
		}
		return nil
	}, lowStock, units)
	return err
}
