package fixture

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/xhrmock/packages/core/env"
	"github.com/abdul-hamid-achik/xhrmock/packages/mock"
	"github.com/xeipuuv/gojsonschema"
)

// Handler compiles the route into a registry handler. The handler answers
// requests matching the route's method and url whose body satisfies the
// request schema, if one is declared.
func (r *Route) Handler() (mock.Handler, error) {
	return r.handler(nil)
}

// handler builds the route handler reading env.NAME placeholders from vars.
func (r *Route) handler(vars *env.Vars) (mock.Handler, error) {
	matcher, err := r.Matcher()
	if err != nil {
		return nil, err
	}

	var schema *gojsonschema.Schema
	if r.RequestSchema != nil {
		doc, err := encodeJSON(r.RequestSchema)
		if err != nil {
			return nil, err
		}
		schema, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
		if err != nil {
			return nil, fmt.Errorf("%w: bad requestSchema: %v", ErrInvalidRoute, err)
		}
	}

	body := r.Body
	escape := func(s string) string { return s }
	if r.JSON != nil {
		if body, err = encodeJSON(r.JSON); err != nil {
			return nil, err
		}
		escape = jsonEscape
	}

	route := *r
	headerNames := make([]string, 0, len(route.Headers))
	for k := range route.Headers {
		headerNames = append(headerNames, k)
	}
	sort.Strings(headerNames)

	return mock.CreateHandler(route.Method, matcher, func(req *mock.Request, res *mock.Response) *mock.Response {
		if schema != nil && !bodyMatches(schema, req.Body()) {
			return nil
		}

		// Render errors leave the placeholder in place
		text, _ := render(body, req, vars, escape)
		res.Status(route.Status).Body(text)

		if route.JSON != nil {
			res.Header("Content-Type", "application/json")
		}
		for _, k := range headerNames {
			rendered, _ := render(route.Headers[k], req, vars, nil)
			res.Header(k, rendered)
		}
		if route.Timeout.Set {
			res.Timeout(route.Timeout.Duration)
		}
		return res
	}), nil
}

func bodyMatches(schema *gojsonschema.Schema, body string) bool {
	if strings.TrimSpace(body) == "" {
		return false
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return false
	}
	return result.Valid()
}
