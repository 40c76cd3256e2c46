package server

import (
	"net/url"
	"strings"
)

// ValidateExternalRedirectURL validates an absolute redirect URL against an allowlist.
// Returns the canonical URL and true when allowed; otherwise returns ("", false).
func ValidateExternalRedirectURL(rawURL string, allowedHosts []string) (string, bool) {
	return validateExternalRedirect(rawURL, normalizeRedirectAllowlist(allowedHosts))
}

func normalizeRedirectAllowlist(allowedHosts []string) map[string]struct{} {
	if len(allowedHosts) == 0 {
		return nil
	}
	allowlist := make(map[string]struct{}, len(allowedHosts))
	for _, host := range allowedHosts {
		h := strings.ToLower(strings.TrimSpace(host))
		if h == "" {
			continue
		}
		allowlist[h] = struct{}{}
	}
	return allowlist
}

func validateExternalRedirect(rawURL string, allowlist map[string]struct{}) (string, bool) {
	if len(allowlist) == 0 {
		return "", false
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", false
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", false
	}
	if u.User != nil {
		return "", false
	}
	if _, ok := allowlist[strings.ToLower(u.Hostname())]; !ok {
		return "", false
	}
	return u.String(), true
}

// validateLocation accepts local absolute paths and allowlisted external URLs.
func (p *Pages) validateLocation(rawURL string) (string, bool) {
	s := strings.TrimSpace(rawURL)
	if isLocalPath(s) {
		return s, true
	}
	return validateExternalRedirect(s, p.allowlist)
}

// isLocalPath reports whether s is a path on this origin. Protocol-relative
// ("//host") and backslash forms are rejected.
func isLocalPath(s string) bool {
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.Contains(s, `\`) {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host == "" && u.Scheme == ""
}
