package netease

import (
	"sort"
	"strings"
)

// defaultCookies identify the request as coming from the desktop client.
// User cookies are merged on top of these.
var defaultCookies = map[string]string{
	"os":       "pc",
	"appver":   "",
	"osver":    "",
	"deviceId": "pyncm!",
}

// ParseCookies parses a raw browser cookie string into a map. Pairs are
// separated by semicolons or newlines; malformed pairs are skipped.
func ParseCookies(raw string) map[string]string {
	cookies := make(map[string]string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return cookies
	}

	var pairs []string
	switch {
	case strings.Contains(raw, ";"):
		pairs = strings.Split(raw, ";")
	case strings.Contains(raw, "\n"):
		pairs = strings.Split(raw, "\n")
	default:
		pairs = []string{raw}
	}

	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" || !strings.Contains(pair, "=") {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			cookies[key] = value
		}
	}
	return cookies
}

// FormatCookies renders a cookie map as a semicolon-separated header value
// with stable key order.
func FormatCookies(cookies map[string]string) string {
	keys := make([]string, 0, len(cookies))
	for k, v := range cookies {
		if k != "" && v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+cookies[k])
	}
	return strings.Join(parts, "; ")
}

// HasSession reports whether the cookie map carries a usable login token.
func HasSession(cookies map[string]string) bool {
	return len(cookies["MUSIC_U"]) >= 10
}

// mergeCookies layers user cookies over the client defaults.
func mergeCookies(user map[string]string) map[string]string {
	merged := make(map[string]string, len(defaultCookies)+len(user))
	for k, v := range defaultCookies {
		merged[k] = v
	}
	for k, v := range user {
		merged[k] = v
	}
	return merged
}
