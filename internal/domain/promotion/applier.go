package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is the priced view of one order line handed to a DiscountApplier.
type Line struct {
	ProductID  uuid.UUID
	CategoryID uuid.UUID
	Quantity   int
	UnitPrice  decimal.Decimal
}

// Total returns quantity times unit price.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Applied describes the discount chosen for an order.
type Applied struct {
	PromotionID *uuid.UUID
	Amount      decimal.Decimal
}

// DiscountApplier decides which discount, if any, an order receives.
// Order placement calls it with the subtotal before building the order.
type DiscountApplier interface {
	Apply(ctx context.Context, subtotal decimal.Decimal, lines []Line, at time.Time) (Applied, error)
}

// NoDiscount is the default applier: promotions are informational only.
type NoDiscount struct{}

func (NoDiscount) Apply(context.Context, decimal.Decimal, []Line, time.Time) (Applied, error) {
	return Applied{Amount: decimal.Zero}, nil
}

// BestOfApplier picks the single largest discount among currently valid promotions.
// Each promotion is evaluated against the lines it targets and must meet its minimum order amount.
type BestOfApplier struct {
	repo Repository
}

// NewBestOfApplier creates an applier backed by the promotion repository.
func NewBestOfApplier(repo Repository) *BestOfApplier {
	return &BestOfApplier{repo: repo}
}

func (a *BestOfApplier) Apply(ctx context.Context, subtotal decimal.Decimal, lines []Line, at time.Time) (Applied, error) {
	promotions, err := a.repo.FindValidAt(ctx, at)
	if err != nil {
		return Applied{}, err
	}

	best := Applied{Amount: decimal.Zero}
	for i := range promotions {
		p := &promotions[i]
		if !p.MeetsMinimum(subtotal) {
			continue
		}
		eligible := decimal.Zero
		for _, line := range lines {
			if p.AppliesTo(line.ProductID, line.CategoryID) {
				eligible = eligible.Add(line.Total())
			}
		}
		if eligible.IsZero() {
			continue
		}
		discount := p.CalculateDiscount(eligible, at).Round(2)
		if discount.GreaterThan(best.Amount) {
			id := p.ID
			best = Applied{PromotionID: &id, Amount: discount}
		}
	}
	return best, nil
}
