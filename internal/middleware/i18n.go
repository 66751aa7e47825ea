package middleware

import (
	"context"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/i18n"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
)

const languageKey = "preferredLanguage"

// LanguageCodes lists the codes of the active content languages
type LanguageCodes func(ctx context.Context) ([]string, error)

// I18n detects the preferred content language from the Accept-Language header
// (matched against the active languages) and the locale for error messages.
// A ?lang= query parameter overrides the header.
func I18n(active LanguageCodes) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Accept-Language")
		locale := i18n.MessageLocale(header)
		c.Set(common.LocaleKey, string(locale))

		if code := c.Query("lang"); code != "" {
			c.Set(languageKey, code)
		} else if header != "" {
			codes, err := active(c.Request.Context())
			if err != nil {
				logger.GetLogger().Warn().Err(err).Msg("active languages unavailable")
			} else if code, ok := i18n.Match(header, codes); ok {
				c.Set(languageKey, code)
				c.Header("Content-Language", code)
			}
		}
		c.Next()
	}
}

// GetLanguage returns the preferred content language code, empty when none matched
func GetLanguage(c *gin.Context) string {
	return c.GetString(languageKey)
}

// GetLocale returns the message locale set by I18n
func GetLocale(c *gin.Context) i18n.Locale {
	if l := c.GetString(common.LocaleKey); l != "" {
		return i18n.Locale(l)
	}
	return i18n.LocaleEn
}
