package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := s.checkParent(ctx, req.ParentID); err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(req.Name, req.Slug, req.Description, req.ParentID)
	if err != nil {
		return nil, err
	}
	if req.Image != nil {
		if err := category.Update(category.Name, category.Slug, category.Description, req.Image); err != nil {
			return nil, err
		}
	}

	if err := s.ensureSlugFree(ctx, category.Slug, nil); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category, 0), nil
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, req.ParentID); err != nil {
		return nil, err
	}

	if err := category.Update(req.Name, req.Slug, req.Description, req.Image); err != nil {
		return nil, err
	}
	if err := category.SetParent(req.ParentID); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if *req.IsActive {
			category.Activate()
		} else {
			category.Deactivate()
		}
	}

	if err := s.ensureSlugFree(ctx, category.Slug, &category.ID); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	counts, err := s.categoryRepo.CountProducts(ctx, []uuid.UUID{category.ID})
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category, counts[category.ID]), nil
}

// Delete deletes a category that has neither children nor products
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError(shared.CodeValidation, "Cannot delete a category that has sub-categories")
	}

	counts, err := s.categoryRepo.CountProducts(ctx, []uuid.UUID{id})
	if err != nil {
		return err
	}
	if counts[id] > 0 {
		return shared.NewDomainError(shared.CodeValidation, "Cannot delete a category that still has products")
	}

	return s.categoryRepo.Delete(ctx, id)
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	counts, err := s.categoryRepo.CountProducts(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category, counts[id]), nil
}

// List retrieves categories ordered by name, each with its product count
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "name",
		OrderDir: "asc",
	}.Normalize()

	categories, err := s.categoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.categoryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(categories))
	for i := range categories {
		ids[i] = categories[i].ID
	}
	counts, err := s.categoryRepo.CountProducts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = *ToCategoryResponse(&categories[i], counts[categories[i].ID])
	}
	return responses, total, nil
}

func (s *CategoryService) checkParent(ctx context.Context, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *parentID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError(shared.CodeValidation, "Parent category not found")
		}
		return err
	}
	return nil
}

func (s *CategoryService) ensureSlugFree(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Category with this slug already exists")
	}
	return nil
}
