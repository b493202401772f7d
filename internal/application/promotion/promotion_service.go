package promotion

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/promotion"
	"github.com/shopfront/backend/internal/domain/shared"
)

// PromotionService handles promotion management and evaluation
type PromotionService struct {
	repo promotion.Repository
	now  func() time.Time
}

// NewPromotionService creates a new PromotionService
func NewPromotionService(repo promotion.Repository) *PromotionService {
	return &PromotionService{repo: repo, now: time.Now}
}

// Create creates a promotion
func (s *PromotionService) Create(ctx context.Context, req PromotionRequest) (*PromotionResponse, error) {
	p, err := promotion.NewPromotion(req.Name, req.Description, promotion.DiscountType(req.DiscountType),
		req.DiscountValue, req.ValidFrom, req.ValidTo)
	if err != nil {
		return nil, err
	}
	if err := applyRequest(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return ToPromotionResponse(p, s.now()), nil
}

// Update replaces a promotion's definition
func (s *PromotionService) Update(ctx context.Context, id uuid.UUID, req PromotionRequest) (*PromotionResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.Name, req.Description, promotion.DiscountType(req.DiscountType),
		req.DiscountValue, req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}
	if err := applyRequest(p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return ToPromotionResponse(p, s.now()), nil
}

func applyRequest(p *promotion.Promotion, req PromotionRequest) error {
	if err := p.SetLimits(req.MaxDiscount, req.MinOrderAmount); err != nil {
		return err
	}
	p.SetScope(req.CategoryIDs, req.ProductIDs)
	if req.Active != nil && *req.Active != p.Active {
		if *req.Active {
			p.Activate()
		} else {
			p.Deactivate()
		}
	}
	return nil
}

// Delete removes a promotion
func (s *PromotionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Get returns a promotion. Visitors only see promotions that are currently valid.
func (s *PromotionService) Get(ctx context.Context, id uuid.UUID, staff bool) (*PromotionResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !staff && !p.IsValid(now) {
		return nil, shared.ErrNotFound
	}
	return ToPromotionResponse(p, now), nil
}

// List lists promotions. Only staff may list expired or inactive ones.
func (s *PromotionService) List(ctx context.Context, filter PromotionListFilter, staff bool) ([]PromotionResponse, int64, error) {
	now := s.now()
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "valid_to",
		OrderDir: "asc",
	}.Normalize()
	if !(staff && filter.All) {
		domainFilter.Filters[promotion.FilterValidAt] = now
	}

	promotions, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PromotionResponse, len(promotions))
	for i := range promotions {
		responses[i] = *ToPromotionResponse(&promotions[i], now)
	}
	return responses, total, nil
}

// Evaluate computes the discount a promotion grants on amount right now.
// Invalid or expired promotions evaluate to zero rather than failing.
func (s *PromotionService) Evaluate(ctx context.Context, id uuid.UUID, req EvaluateRequest) (*EvaluateResponse, error) {
	if req.Amount.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Amount cannot be negative")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Promotion not found")
		}
		return nil, err
	}

	now := s.now()
	return &EvaluateResponse{
		PromotionID:  p.ID,
		Amount:       req.Amount,
		Discount:     p.CalculateDiscount(req.Amount, now).Round(2),
		Valid:        p.IsValid(now),
		MeetsMinimum: p.MeetsMinimum(req.Amount),
	}, nil
}
