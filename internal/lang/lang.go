package lang

// Language display names offered by the app.
const (
	English    = "English"
	Mandarin   = "Mandarin Chinese"
	Hindi      = "Hindi"
	Spanish    = "Spanish"
	French     = "French"
	Arabic     = "Arabic"
	Bengali    = "Bengali"
	Russian    = "Russian"
	Portuguese = "Portuguese"
	Urdu       = "Urdu"
)

// Defaults for a fresh session.
const (
	DefaultFrom = English
	DefaultTo   = Spanish
)

// DefaultVoiceLocale is used for languages without an explicit voice mapping.
const DefaultVoiceLocale = "en-US"

// Supported lists the selectable languages in presentation order.
var Supported = []string{
	English, Mandarin, Hindi, Spanish, French,
	Arabic, Bengali, Russian, Portuguese, Urdu,
}

// voiceLocales maps a language to its synthesis locale. The German entry is
// not selectable but is part of the synthesis contract.
var voiceLocales = map[string]string{
	Spanish:    "es-ES",
	French:     "fr-FR",
	"German":   "de-DE",
	Hindi:      "hi-IN",
	Mandarin:   "zh-CN",
	Arabic:     "ar-SA",
	Bengali:    "bn-BD",
	Russian:    "ru-RU",
	Portuguese: "pt-BR",
	Urdu:       "ur-PK",
}

// IsSupported reports whether name is one of the selectable languages.
func IsSupported(name string) bool {
	for _, l := range Supported {
		if l == name {
			return true
		}
	}
	return false
}

// VoiceLocale returns the synthesis locale for a language, falling back to
// DefaultVoiceLocale when no explicit mapping exists.
func VoiceLocale(name string) string {
	if locale, ok := voiceLocales[name]; ok {
		return locale
	}
	return DefaultVoiceLocale
}
