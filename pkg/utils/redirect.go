package utils

import (
	"net/url"
	"strings"
)

// SafeRedirect returns target when it is a same-origin absolute path and ""
// otherwise, so user-supplied next parameters cannot send the browser offsite.
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") {
		return ""
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return ""
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return target
}
