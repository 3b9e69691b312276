package mock

import (
	"regexp"
)

// URLMatcher decides whether a request URL matches and returns any named
// values it captured.
type URLMatcher interface {
	MatchURL(url string) (params map[string]string, ok bool)
	String() string
}

// Exact matches a URL by string equality.
type Exact string

// MatchURL implements URLMatcher
func (e Exact) MatchURL(url string) (map[string]string, bool) {
	if string(e) != url {
		return nil, false
	}
	return map[string]string{}, true
}

func (e Exact) String() string {
	return string(e)
}

type patternMatcher struct {
	re *regexp.Regexp
}

// Pattern matches a URL when re finds a match anywhere in it. Named groups
// become request params.
func Pattern(re *regexp.Regexp) URLMatcher {
	return &patternMatcher{re: re}
}

// MustPattern compiles expr and wraps it with Pattern. It panics on an
// invalid expression.
func MustPattern(expr string) URLMatcher {
	return Pattern(regexp.MustCompile(expr))
}

func (p *patternMatcher) MatchURL(url string) (map[string]string, bool) {
	matches := p.re.FindStringSubmatch(url)
	if matches == nil {
		return nil, false
	}

	params := make(map[string]string)
	for i, name := range p.re.SubexpNames() {
		if i > 0 && name != "" && i < len(matches) {
			params[name] = matches[i]
		}
	}
	return params, true
}

func (p *patternMatcher) String() string {
	return p.re.String()
}

// Predicate reports whether a request should be answered.
type Predicate func(req *Request) bool

// Match builds a predicate comparing the request method case-sensitively
// against method and the request URL against url.
func Match(method string, url URLMatcher) Predicate {
	return func(req *Request) bool {
		_, ok := match(method, url, req)
		return ok
	}
}

func match(method string, url URLMatcher, req *Request) (map[string]string, bool) {
	if req.Method() != method {
		return nil, false
	}
	return url.MatchURL(req.URL())
}

// CreateHandler wraps fn so that it only answers requests matching method
// and url. A request that does not match gets an empty, non-nil result; a
// responder returning nil leaves the request unanswered.
func CreateHandler(method string, url URLMatcher, fn Responder) Handler {
	return func(req *Request, res *Response) *Result {
		params, ok := match(method, url, req)
		if !ok {
			return &Result{}
		}

		out := fn(req.withParams(params), res)
		if out == nil {
			return nil
		}
		built := out.Build()
		return &built
	}
}
