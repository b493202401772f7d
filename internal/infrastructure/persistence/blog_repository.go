package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/blog"
	"github.com/shopfront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPostRepository implements blog.PostRepository using GORM
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// FindByID finds a post by ID, drafts included
func (r *GormPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	var post blog.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// FindBySlug finds a post by slug; with publishedOnly a draft is NOT_FOUND
func (r *GormPostRepository) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*blog.Post, error) {
	var post blog.Post
	query := r.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if err := query.First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// FindAll lists posts matching the filter
func (r *GormPostRepository) FindAll(ctx context.Context, filter shared.Filter, publishedOnly bool) ([]blog.Post, error) {
	var posts []blog.Post
	query := applyPaging(r.filtered(ctx, filter, publishedOnly), filter, PostSortFields, "created_at")
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Count counts posts matching the filter
func (r *GormPostRepository) Count(ctx context.Context, filter shared.Filter, publishedOnly bool) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter, publishedOnly).Count(&count).Error
	return count, err
}

func (r *GormPostRepository) filtered(ctx context.Context, filter shared.Filter, publishedOnly bool) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&blog.Post{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ?", like, like)
	}
	return query
}

// ExistsBySlug checks if a slug is used by a post other than excludeID
func (r *GormPostRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&blog.Post{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Save creates or updates a post
func (r *GormPostRepository) Save(ctx context.Context, post *blog.Post) error {
	return translate(r.db.WithContext(ctx).Save(post).Error)
}

// Delete deletes a post
func (r *GormPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&blog.Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ blog.PostRepository = (*GormPostRepository)(nil)
