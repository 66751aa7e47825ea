package i18n

// DefaultMessages returns built-in translations for all supported locales
func DefaultMessages() map[Locale]map[string]string {
	return map[Locale]map[string]string{
		LocaleEn: enMessages,
		LocaleDe: deMessages,
	}
}

var enMessages = map[string]string{
	"error.not_found":        "The requested resource was not found",
	"error.not_visible":      "The repository has no visible revision",
	"error.unauthorized":     "Authentication required",
	"error.forbidden":        "Access denied",
	"error.bad_request":      "Invalid request",
	"error.internal":         "Internal server error",
	"error.already_verified": "The item has already been verified",
	"error.stale_edit":       "The revision you edited is no longer the current one",
	"error.rate_limited":     "Too many edits, try again shortly",
}

var deMessages = map[string]string{
	"error.not_found":        "Die angeforderte Ressource wurde nicht gefunden",
	"error.not_visible":      "Das Repository hat keine sichtbare Revision",
	"error.unauthorized":     "Anmeldung erforderlich",
	"error.forbidden":        "Zugriff verweigert",
	"error.bad_request":      "Ungültige Anfrage",
	"error.internal":         "Interner Serverfehler",
	"error.already_verified": "Der Eintrag wurde bereits verifiziert",
	"error.stale_edit":       "Die bearbeitete Revision ist nicht mehr aktuell",
	"error.rate_limited":     "Zu viele Änderungen, bitte später erneut versuchen",
}
