// Package i18n localizes error messages for API responses.
package i18n

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLocale is used when a request names no supported language.
var DefaultLocale = language.French

type localeKey struct{}

// Translator resolves error codes to messages in the supported locales.
type Translator struct {
	catalog *catalog.Builder
	matcher language.Matcher
	known   map[string]struct{}
}

// NewTranslator builds the English and French catalogs.
func NewTranslator() *Translator {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLocale))
	known := make(map[string]struct{}, len(messages))
	for code, m := range messages {
		_ = b.SetString(language.English, code, m.en)
		_ = b.SetString(language.French, code, m.fr)
		known[code] = struct{}{}
	}
	return &Translator{
		catalog: b,
		matcher: language.NewMatcher([]language.Tag{DefaultLocale, language.English}),
		known:   known,
	}
}

// Match picks the supported locale for an Accept-Language header value.
func (t *Translator) Match(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	if index == 1 {
		return language.English
	}
	return DefaultLocale
}

// Translate returns the message for code in locale. English keeps the
// detailed message the error was raised with; other locales use the catalog
// entry for the code. Unknown codes fall back to the original message.
func (t *Translator) Translate(locale language.Tag, code, original string) string {
	if _, ok := t.known[code]; !ok {
		if original != "" {
			return original
		}
		code = "INTERNAL_ERROR"
	}
	base, _ := locale.Base()
	if enBase, _ := language.English.Base(); base == enBase && original != "" {
		return original
	}
	return message.NewPrinter(locale, message.Catalog(t.catalog)).Sprintf(code)
}

// WithLocale stores the request locale in ctx.
func WithLocale(ctx context.Context, locale language.Tag) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFromContext returns the request locale, DefaultLocale when unset.
func LocaleFromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(localeKey{}).(language.Tag); ok {
		return tag
	}
	return DefaultLocale
}
