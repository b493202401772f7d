package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/backend/internal/domain/catalog"
	"github.com/shopfront/backend/internal/domain/shared"
)

// Post is an article of the shop's blog. Drafts are only visible to staff.
type Post struct {
	shared.BaseAggregateRoot
	Title         string     `gorm:"type:varchar(200);not null"`
	Slug          string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Content       string     `gorm:"type:text;not null"`
	Excerpt       string     `gorm:"type:varchar(500)"`
	AuthorID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	FeaturedImage *string    `gorm:"type:varchar(500)"`
	Published     bool       `gorm:"not null;default:false;index"`
	PublishedAt   *time.Time `gorm:"index"`
}

func (Post) TableName() string {
	return "blog_posts"
}

// NewPost creates an unpublished draft.
func NewPost(authorID uuid.UUID, title, slug, content, excerpt string) (*Post, error) {
	if err := validatePost(title, content); err != nil {
		return nil, err
	}
	if slug == "" {
		slug = catalog.Slugify(title)
	}
	if err := catalog.ValidateSlug(slug); err != nil {
		return nil, err
	}
	if len(excerpt) > 500 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Excerpt cannot exceed 500 characters")
	}

	return &Post{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Slug:              slug,
		Content:           content,
		Excerpt:           excerpt,
		AuthorID:          authorID,
	}, nil
}

// Update edits the post text.
func (p *Post) Update(title, slug, content, excerpt string, featuredImage *string) error {
	if err := validatePost(title, content); err != nil {
		return err
	}
	if slug == "" {
		slug = catalog.Slugify(title)
	}
	if err := catalog.ValidateSlug(slug); err != nil {
		return err
	}
	p.Title = title
	p.Slug = slug
	p.Content = content
	p.Excerpt = excerpt
	p.FeaturedImage = featuredImage
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Publish makes the post public. The first publication date is kept on re-publish.
func (p *Post) Publish(at time.Time) {
	p.Published = true
	if p.PublishedAt == nil {
		p.PublishedAt = &at
	}
	p.Touch()
	p.IncrementVersion()
}

// Unpublish hides the post again.
func (p *Post) Unpublish() {
	p.Published = false
	p.Touch()
	p.IncrementVersion()
}

func validatePost(title, content string) error {
	if title == "" || len(title) > 200 {
		return shared.NewDomainError(shared.CodeValidation, "Title must be 1 to 200 characters")
	}
	if content == "" {
		return shared.NewDomainError(shared.CodeValidation, "Content cannot be empty")
	}
	return nil
}
