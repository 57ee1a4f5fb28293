package websocket

import (
	"net/url"
	"strings"
)

// AllowList accepts origins from a fixed list. Loopback origins are always
// accepted; "*" accepts everything.
type AllowList struct {
	origins map[string]struct{}
	any     bool
}

// NewAllowList builds an allow list from scheme://host[:port] origins.
func NewAllowList(origins []string) *AllowList {
	a := &AllowList{origins: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		o = strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/")
		if o == "*" {
			a.any = true
			continue
		}
		if o != "" {
			a.origins[o] = struct{}{}
		}
	}
	return a
}

// IsAllowedOrigin implements OriginValidator.
func (a *AllowList) IsAllowedOrigin(origin string) bool {
	if a.any {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}

	_, ok := a.origins[strings.ToLower(u.Scheme+"://"+u.Host)]
	return ok
}
