package fixture

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/xhrmock/packages/builtin"
	"github.com/abdul-hamid-achik/xhrmock/packages/core/env"
	"github.com/abdul-hamid-achik/xhrmock/packages/mock"
)

var (
	placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

	builtins = builtin.NewRegistry()
)

// Render replaces the placeholders in tmpl with values drawn from req.
// Placeholders that resolve to nothing are kept verbatim. escape, when not
// nil, is applied to every substituted value.
func Render(tmpl string, req *mock.Request, escape func(string) string) (string, error) {
	return render(tmpl, req, nil, escape)
}

// render is Render with env.NAME placeholders read from vars.
func render(tmpl string, req *mock.Request, vars *env.Vars, escape func(string) string) (string, error) {
	var firstErr error

	out := placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])

		val, ok, err := resolve(name, req, vars)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		if !ok {
			return match
		}
		if escape != nil {
			return escape(val)
		}
		return val
	})

	return out, firstErr
}

func resolve(name string, req *mock.Request, vars *env.Vars) (string, bool, error) {
	if strings.HasPrefix(name, "$") {
		return builtins.Call(strings.TrimPrefix(name, "$"))
	}

	switch {
	case name == "method":
		return req.Method(), true, nil
	case name == "url":
		return req.URL(), true, nil
	case name == "path":
		return req.Path(), true, nil
	case name == "body":
		return req.Body(), true, nil
	case strings.HasPrefix(name, "query."):
		q := req.Query()
		key := strings.TrimPrefix(name, "query.")
		if !q.Has(key) {
			return "", false, nil
		}
		return q.Get(key), true, nil
	case strings.HasPrefix(name, "header."):
		key := strings.TrimPrefix(name, "header.")
		if _, ok := req.Headers()[strings.ToLower(key)]; !ok {
			return "", false, nil
		}
		return req.Header(key), true, nil
	case strings.HasPrefix(name, "body."):
		v := req.JSON(strings.TrimPrefix(name, "body."))
		if !v.Exists() {
			return "", false, nil
		}
		return v.String(), true, nil
	case strings.HasPrefix(name, "env."):
		v, ok := vars.Lookup(strings.TrimPrefix(name, "env."))
		return v, ok, nil
	}

	if v, ok := req.Params()[name]; ok {
		return v, true, nil
	}
	return "", false, nil
}

// jsonEscape makes s safe inside a JSON string literal.
func jsonEscape(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return string(b[1 : len(b)-1])
}

// encodeJSON turns a decoded YAML value into JSON text.
func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(normalizeYAML(v))
	if err != nil {
		return "", fmt.Errorf("failed to encode json body: %w", err)
	}
	return string(b), nil
}

// normalizeYAML converts map[any]any nodes, which encoding/json cannot
// marshal, into map[string]any.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}
