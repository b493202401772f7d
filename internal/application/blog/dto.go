package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/blog"
)

// PostRequest creates or edits a blog post
type PostRequest struct {
	Title         string  `json:"title" binding:"required,min=1,max=200"`
	Slug          string  `json:"slug" binding:"omitempty,max=200"`
	Content       string  `json:"content" binding:"required"`
	Excerpt       string  `json:"excerpt" binding:"omitempty,max=500"`
	FeaturedImage *string `json:"featured_image" binding:"omitempty,url,max=500"`
}

// PostListFilter represents filter options for the post list
type PostListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PostResponse represents a full blog post
type PostResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	AuthorID      uuid.UUID  `json:"author_id"`
	FeaturedImage *string    `json:"featured_image"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PostListItemResponse is the list view of a post, without its body
type PostListItemResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage *string    `json:"featured_image"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at"`
}

// ToPostResponse converts a domain post to its response
func ToPostResponse(p *blog.Post) *PostResponse {
	return &PostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		AuthorID:      p.AuthorID,
		FeaturedImage: p.FeaturedImage,
		Published:     p.Published,
		PublishedAt:   p.PublishedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToPostListItemResponses converts posts to list items
func ToPostListItemResponses(posts []blog.Post) []PostListItemResponse {
	items := make([]PostListItemResponse, len(posts))
	for i := range posts {
		p := &posts[i]
		items[i] = PostListItemResponse{
			ID:            p.ID,
			Title:         p.Title,
			Slug:          p.Slug,
			Excerpt:       p.Excerpt,
			FeaturedImage: p.FeaturedImage,
			Published:     p.Published,
			PublishedAt:   p.PublishedAt,
		}
	}
	return items
}
