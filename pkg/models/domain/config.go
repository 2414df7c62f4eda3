package domain

import "fmt"

type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleRussian Locale = "ru"
)

func ParseLocale(s string) (Locale, error) {
	switch Locale(s) {
	case "", LocaleEnglish:
		return LocaleEnglish, nil
	case LocaleRussian:
		return LocaleRussian, nil
	default:
		return "", fmt.Errorf("unsupported locale %q", s)
	}
}
