package catalog

import (
	"strings"
	"unicode"

	"github.com/shopfront/backend/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 200

// Slugify turns a human readable name into a URL slug.
// Accents are folded ("Café crème" -> "cafe-creme").
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimSuffix(slug[:maxSlugLength], "-")
	}
	return slug
}

// ValidateSlug checks a caller supplied slug.
func ValidateSlug(slug string) error {
	if slug == "" {
		return shared.NewDomainError(shared.CodeValidation, "Slug cannot be empty")
	}
	if len(slug) > maxSlugLength {
		return shared.NewDomainError(shared.CodeValidation, "Slug cannot exceed 200 characters")
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return shared.NewDomainError(shared.CodeValidation, "Slug can only contain lowercase letters, digits, '-' and '_'")
		}
	}
	return nil
}

// resolveSlug returns the supplied slug or one derived from name.
func resolveSlug(slug, name string) (string, error) {
	if slug == "" {
		slug = Slugify(name)
	}
	if err := ValidateSlug(slug); err != nil {
		return "", err
	}
	return slug, nil
}
