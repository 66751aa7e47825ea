package i18n

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Locale represents a message locale
type Locale string

const (
	LocaleEn Locale = "en"
	LocaleDe Locale = "de"
)

var defaultLocale = LocaleEn

// Bundle holds all translations for all locales
type Bundle struct {
	mu           sync.RWMutex
	translations map[Locale]map[string]string
	fallback     Locale
}

// NewBundle creates a new i18n bundle with the given fallback locale
func NewBundle(fallback Locale) *Bundle {
	return &Bundle{
		translations: make(map[Locale]map[string]string),
		fallback:     fallback,
	}
}

var (
	defaultBundle     *Bundle
	defaultBundleOnce sync.Once
)

// Default returns a bundle loaded with DefaultMessages
func Default() *Bundle {
	defaultBundleOnce.Do(func() {
		defaultBundle = NewBundle(defaultLocale)
		for locale, msgs := range DefaultMessages() {
			defaultBundle.LoadMessages(locale, msgs)
		}
	})
	return defaultBundle
}

// LoadMessages loads translations for a specific locale from a map
func (b *Bundle) LoadMessages(locale Locale, messages map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.translations[locale]; ok {
		for k, v := range messages {
			existing[k] = v
		}
	} else {
		copied := make(map[string]string, len(messages))
		for k, v := range messages {
			copied[k] = v
		}
		b.translations[locale] = copied
	}
}

// T translates a message key for the given locale.
// Falls back to the bundle's fallback locale, then returns the key itself.
func (b *Bundle) T(locale Locale, key string, args ...interface{}) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, l := range []Locale{locale, b.fallback} {
		if msgs, ok := b.translations[l]; ok {
			if msg, ok := msgs[key]; ok {
				if len(args) > 0 {
					return fmt.Sprintf(msg, args...)
				}
				return msg
			}
		}
	}

	return key
}

// Locales returns the locales that have translations loaded
func (b *Bundle) Locales() []Locale {
	b.mu.RLock()
	defer b.mu.RUnlock()

	locales := make([]Locale, 0, len(b.translations))
	for l := range b.translations {
		locales = append(locales, l)
	}
	return locales
}

// ParseAcceptLanguage returns the base language codes of an Accept-Language header
// ordered by quality. Malformed headers yield nil.
func ParseAcceptLanguage(header string) []string {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}
	codes := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		base, conf := tag.Base()
		if conf == language.No {
			continue
		}
		code := base.String()
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

// Match picks the supported code that best serves the header. ok is false when
// nothing matches better than the matcher's default.
func Match(header string, supported []string) (code string, ok bool) {
	if len(supported) == 0 || strings.TrimSpace(header) == "" {
		return "", false
	}
	tags := make([]language.Tag, 0, len(supported))
	codes := make([]string, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, s)
	}
	if len(tags) == 0 {
		return "", false
	}
	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return "", false
	}
	_, index, conf := language.NewMatcher(tags).Match(desired...)
	if conf == language.No {
		return "", false
	}
	return codes[index], true
}

// MessageLocale maps an Accept-Language header to a message locale
func MessageLocale(header string) Locale {
	for _, code := range ParseAcceptLanguage(header) {
		switch Locale(code) {
		case LocaleEn, LocaleDe:
			return Locale(code)
		}
	}
	return defaultLocale
}
