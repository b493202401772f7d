package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/infrastructure/i18n"
	"golang.org/x/text/language"
)

// Locale resolves the response language from Accept-Language and stores it
// in the request context. Requests without the header get fallback.
func Locale(tr *i18n.Translator, fallback language.Tag) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := fallback
		if header := c.GetHeader("Accept-Language"); header != "" {
			locale = tr.Match(header)
		}
		c.Set(TranslatorKey, tr)
		c.Request = c.Request.WithContext(i18n.WithLocale(c.Request.Context(), locale))
		c.Header("Content-Language", locale.String())
		c.Next()
	}
}

// ParseLocale maps a configured locale name to a supported tag
func ParseLocale(name string) language.Tag {
	if name == "en" {
		return language.English
	}
	return i18n.DefaultLocale
}
