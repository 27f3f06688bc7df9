package transcriber

import (
	"path/filepath"
	"strings"
)

// LanguageOption is one entry of the language picker. Code is empty for Auto.
type LanguageOption struct {
	Label string
	Code  string
}

var LanguageOptions = []LanguageOption{
	{"Auto", ""},
	{"English", "en"},
	{"Русский", "ru"},
	{"Español", "es"},
	{"Français", "fr"},
}

// ParseLanguage accepts a picker label or a code, case-insensitively.
// Auto-detection is returned as "".
func ParseLanguage(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return "", true
	}
	for _, opt := range LanguageOptions {
		if strings.EqualFold(s, opt.Label) || strings.EqualFold(s, opt.Code) {
			return opt.Code, true
		}
	}
	return "", false
}

// LanguageLabel is the display name of a code; unknown codes are returned as is.
func LanguageLabel(code string) string {
	if code == "" || code == "auto" {
		return "Auto-detect"
	}
	for _, opt := range LanguageOptions {
		if opt.Code == code {
			return opt.Label
		}
	}
	return code
}

// LanguageFromFilename reads a language tag placed before the extension,
// as in "lecture.ru.mp4". It returns "" when there is no known tag.
func LanguageFromFilename(name string) string {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	tag := filepath.Ext(stem)
	if tag == "" {
		return ""
	}
	if code, ok := ParseLanguage(tag[1:]); ok && code != "" {
		return code
	}
	return ""
}
