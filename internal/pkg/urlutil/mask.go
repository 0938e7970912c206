// Package urlutil содержит помощники для безопасного логирования адресов и секретов.
package urlutil

import "net/url"

// MaskURL оставляет от URL только схему и хост: path и query могут содержать токены.
// Пример: "https://mm.example.com/hooks/xyz" → "https://mm.example.com/***".
func MaskURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "***invalid-url***"
	}
	return u.Scheme + "://" + u.Host + "/***"
}

// MaskSecret показывает не больше четырёх первых символов секрета.
// Короткие секреты (до 8 символов) скрываются полностью.
func MaskSecret(secret string) string {
	switch r := []rune(secret); {
	case len(r) == 0:
		return ""
	case len(r) <= 8:
		return "***"
	default:
		return string(r[:4]) + "***"
	}
}
