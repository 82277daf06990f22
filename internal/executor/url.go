package executor

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildURL substitutes {param} placeholders in a template and validates the
// result. It fails on unresolved placeholders, empty substitutions, literal
// "null"/"undefined" tokens, and syntactically malformed URLs — the whole
// class of broken request URLs that must never reach the network layer.
func BuildURL(template string, params map[string]string) (string, error) {
	u := template
	for k, v := range params {
		if v == "" {
			continue // leaves the placeholder unresolved, rejected below
		}
		u = strings.ReplaceAll(u, "{"+k+"}", v)
	}

	if i := strings.IndexByte(u, '{'); i >= 0 {
		end := strings.IndexByte(u[i:], '}')
		if end < 0 {
			end = len(u) - i - 1
		}
		return "", fmt.Errorf("unresolved placeholder %q in URL", u[i:i+end+1])
	}

	parsed, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("malformed URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL missing host")
	}

	if tok := placeholderToken(parsed); tok != "" {
		return "", fmt.Errorf("URL contains placeholder token %q", tok)
	}

	return u, nil
}

// placeholderToken reports a literal "null"/"undefined" path segment or query
// value, the signature of an unresolved value interpolated upstream.
func placeholderToken(u *url.URL) string {
	for _, seg := range strings.Split(u.Path, "/") {
		if isPlaceholder(seg) {
			return seg
		}
	}
	for _, vals := range u.Query() {
		for _, v := range vals {
			if isPlaceholder(v) {
				return v
			}
		}
	}
	return ""
}

func isPlaceholder(s string) bool {
	switch strings.ToLower(s) {
	case "null", "undefined", "nan":
		return true
	}
	return false
}
