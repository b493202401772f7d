package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/infrastructure/i18n"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/interfaces/http/dto"
	"golang.org/x/text/language"
)

// TranslatorKey is the gin context key the Locale middleware stores the translator under
const TranslatorKey = "translator"

// MessageTranslator localizes an error message for a locale
type MessageTranslator interface {
	Translate(locale language.Tag, code, original string) string
}

// GetRequestID returns the request ID set by the RequestID middleware
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(logger.RequestIDContextKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}

// Localize translates message for the request locale. Without a translator in
// the context the message is returned unchanged.
func Localize(c *gin.Context, code, message string) string {
	v, ok := c.Get(TranslatorKey)
	if !ok {
		return message
	}
	tr, ok := v.(MessageTranslator)
	if !ok {
		return message
	}
	return tr.Translate(i18n.LocaleFromContext(c.Request.Context()), code, message)
}

// AbortWithError aborts the request with the standard error envelope. The
// status is derived from code.
func AbortWithError(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(
		code,
		Localize(c, code, message),
		GetRequestID(c),
	))
}
