package sensitive

import (
	"net/url"
	"strings"
)

// BuildURL renders the candidate URL for keyword on host.
func BuildURL(host, keyword string) string {
	return "http://" + strings.TrimRight(host, "/") + "/" + keyword
}

// Validate reports whether a response really serves the requested file.
// The final response must be a 200 on the same netloc, at the requested
// path or somewhere beneath it. Anything else is treated as a catch-all
// redirect (login pages, landing pages) and rejected.
func Validate(requested, final string, status int) bool {
	if status != 200 {
		return false
	}
	req, err := url.Parse(requested)
	if err != nil {
		return false
	}
	fin, err := url.Parse(final)
	if err != nil {
		return false
	}
	if req.Host != fin.Host {
		return false
	}

	// compare raw paths; %2F must not count as a separator
	want := strings.TrimRight(req.EscapedPath(), "/")
	got := strings.TrimRight(fin.EscapedPath(), "/")
	return got == want || strings.HasPrefix(got, want+"/")
}

// HostOf returns the hostname of a probe URL, without port.
func HostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
