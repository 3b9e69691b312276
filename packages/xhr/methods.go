package xhr

import (
	"regexp"
	"strings"
)

// Methods lists the HTTP methods Open accepts.
var Methods = []string{"OPTIONS", "GET", "HEAD", "POST", "PUT", "PATCH", "DELETE"}

// OutdatedMethods lists methods Open refuses with ErrSecurity.
var OutdatedMethods = []string{"CONNECT", "TRACE", "TRACK"}

// ForbiddenHeaders lists header names SetRequestHeader refuses, compared
// case-insensitively.
var ForbiddenHeaders = []string{
	"Accept-Charset",
	"Accept-Encoding",
	"Access-Control-Request-Headers",
	"Access-Control-Request-Method",
	"Connection",
	"Content-Length",
	"Cookie",
	"Cookie2",
	"Date",
	"DNT",
	"Expect",
	"Host",
	"Keep-Alive",
	"Origin",
	"Referer",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
	"Via",
}

var forbiddenPrefix = regexp.MustCompile(`(?i)^(Proxy-|Sec-)`)

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// IsForbiddenHeader reports whether a client may not set the header name.
func IsForbiddenHeader(name string) bool {
	return contains(ForbiddenHeaders, name) || forbiddenPrefix.MatchString(name)
}

// IsMethod reports whether method is one Open accepts.
func IsMethod(method string) bool {
	return contains(Methods, method)
}

// IsOutdatedMethod reports whether Open refuses method with ErrSecurity.
func IsOutdatedMethod(method string) bool {
	return contains(OutdatedMethods, method)
}
