package blog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/blog"
	"github.com/shopfront/backend/internal/domain/shared"
)

// BlogService manages blog posts. Visitors only ever see published posts.
type BlogService struct {
	repo blog.PostRepository
	now  func() time.Time
}

// NewBlogService creates a new BlogService
func NewBlogService(repo blog.PostRepository) *BlogService {
	return &BlogService{repo: repo, now: time.Now}
}

// Create writes a new draft authored by authorID
func (s *BlogService) Create(ctx context.Context, authorID uuid.UUID, req PostRequest) (*PostResponse, error) {
	post, err := blog.NewPost(authorID, req.Title, req.Slug, req.Content, req.Excerpt)
	if err != nil {
		return nil, err
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = req.FeaturedImage
	}
	if err := s.ensureSlugFree(ctx, post.Slug, nil); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, err
	}
	return ToPostResponse(post), nil
}

// Update edits a post
func (s *BlogService) Update(ctx context.Context, id uuid.UUID, req PostRequest) (*PostResponse, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := post.Update(req.Title, req.Slug, req.Content, req.Excerpt, req.FeaturedImage); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, post.Slug, &post.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, err
	}
	return ToPostResponse(post), nil
}

// Publish makes a post public. published_at is only set the first time.
func (s *BlogService) Publish(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Publish(s.now())
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, err
	}
	return ToPostResponse(post), nil
}

// Unpublish turns a post back into a draft
func (s *BlogService) Unpublish(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Unpublish()
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, err
	}
	return ToPostResponse(post), nil
}

// Delete removes a post
func (s *BlogService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// GetBySlug returns a post; drafts are NotFound unless staff asks
func (s *BlogService) GetBySlug(ctx context.Context, slug string, staff bool) (*PostResponse, error) {
	post, err := s.repo.FindBySlug(ctx, slug, !staff)
	if err != nil {
		return nil, err
	}
	return ToPostResponse(post), nil
}

// List lists posts, newest first; drafts are included for staff only
func (s *BlogService) List(ctx context.Context, filter PostListFilter, staff bool) ([]PostListItemResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
	}.Normalize()

	posts, err := s.repo.FindAll(ctx, domainFilter, !staff)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter, !staff)
	if err != nil {
		return nil, 0, err
	}
	return ToPostListItemResponses(posts), total, nil
}

func (s *BlogService) ensureSlugFree(ctx context.Context, slug string, excludeID *uuid.UUID) error {
	exists, err := s.repo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "A post with this slug already exists")
	}
	return nil
}
