package provider

import "strings"

// maxErrorBody bounds the response body quoted in an HTTPError.
const maxErrorBody = 2048

// NewHTTPError builds an HTTPError, truncating long bodies.
func NewHTTPError(kind string, status int, body string) *HTTPError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &HTTPError{Provider: kind, Status: status, Body: body}
}

// SplitAPIVersion splits a trailing version segment such as "v1" or
// "v1beta" off a base URL. Base URLs are configured with the version, as
// the vendor documentation quotes them; the SDKs want it separately.
func SplitAPIVersion(base string) (root, version string) {
	base = strings.TrimRight(base, "/")
	i := strings.LastIndex(base, "/")
	if i < 0 {
		return base, ""
	}
	seg := base[i+1:]
	if len(seg) < 2 || seg[0] != 'v' || seg[1] < '0' || seg[1] > '9' {
		return base, ""
	}
	return base[:i], seg
}
