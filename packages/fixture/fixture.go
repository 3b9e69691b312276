package fixture

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/xhrmock/packages/core/env"
	"github.com/abdul-hamid-achik/xhrmock/packages/mock"
	"github.com/abdul-hamid-achik/xhrmock/packages/xhr"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRoute is wrapped by every route definition error.
var ErrInvalidRoute = errors.New("invalid route")

// File is a parsed fixture file.
type File struct {
	Path   string   `yaml:"-"`
	Routes []*Route `yaml:"routes"`
}

// Route describes one scripted answer.
type Route struct {
	Name          string            `yaml:"name"`
	Method        string            `yaml:"method"`
	URL           string            `yaml:"url"`
	Pattern       string            `yaml:"pattern"`
	Status        int               `yaml:"status"`
	Headers       map[string]string `yaml:"headers"`
	Body          string            `yaml:"body"`
	JSON          any               `yaml:"json"`
	Timeout       Timeout           `yaml:"timeout"`
	RequestSchema any               `yaml:"requestSchema"`
}

// Timeout is a route's declared timeout. Set is false when the route does
// not mention one.
type Timeout struct {
	Set      bool
	Duration time.Duration
}

// UnmarshalYAML accepts a bool, a duration string or integer milliseconds.
func (t *Timeout) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: timeout must be a scalar", node.Line)
	}

	switch node.Tag {
	case "!!bool":
		var on bool
		if err := node.Decode(&on); err != nil {
			return err
		}
		t.Set = true
		t.Duration = mock.NoTimeout
		if on {
			t.Duration = mock.DefaultTimeout
		}
	case "!!int":
		ms, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid timeout %q", node.Line, node.Value)
		}
		t.Set = true
		t.Duration = time.Duration(ms) * time.Millisecond
	case "!!null":
		*t = Timeout{}
	default:
		d, err := time.ParseDuration(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: invalid timeout %q", node.Line, node.Value)
		}
		t.Set = true
		t.Duration = d
	}

	if t.Duration < 0 {
		return fmt.Errorf("line %d: timeout must not be negative", node.Line)
	}
	return nil
}

// String returns the route name, or its method and url when unnamed.
func (r *Route) String() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Method + " " + r.Target()
}

// Target returns the url or pattern the route matches.
func (r *Route) Target() string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.URL
}

// Load reads and parses the fixture at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	file, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	file.Path = path
	return file, nil
}

// LoadFiles loads every path in order.
func LoadFiles(paths []string) ([]*File, error) {
	files := make([]*File, 0, len(paths))
	for _, path := range paths {
		file, err := Load(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// Parse decodes a fixture document and checks every route.
func Parse(data []byte) (*File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}

	for i, route := range file.Routes {
		if route == nil {
			return nil, fmt.Errorf("route %d: %w: empty entry", i+1, ErrInvalidRoute)
		}
		if err := route.normalize(); err != nil {
			return nil, fmt.Errorf("route %d (%s): %w", i+1, route, err)
		}
	}

	return &file, nil
}

func (r *Route) normalize() error {
	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))

	if !xhr.IsMethod(r.Method) {
		return fmt.Errorf("%w: unsupported method %q", ErrInvalidRoute, r.Method)
	}
	if (r.URL == "") == (r.Pattern == "") {
		return fmt.Errorf("%w: exactly one of url and pattern is required", ErrInvalidRoute)
	}
	if r.Body != "" && r.JSON != nil {
		return fmt.Errorf("%w: body and json are mutually exclusive", ErrInvalidRoute)
	}
	if r.Status == 0 {
		r.Status = 200
	}
	if r.Status < 100 || r.Status > 599 {
		return fmt.Errorf("%w: status %d out of range", ErrInvalidRoute, r.Status)
	}
	if _, err := r.Matcher(); err != nil {
		return err
	}
	return nil
}

var paramPattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// Matcher returns the URL matcher of the route.
func (r *Route) Matcher() (mock.URLMatcher, error) {
	if r.Pattern != "" {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern: %v", ErrInvalidRoute, err)
		}
		return mock.Pattern(re), nil
	}

	if !paramPattern.MatchString(r.URL) {
		return mock.Exact(r.URL), nil
	}

	// Quote the literal parts and turn each {{name}} into a segment capture
	var b strings.Builder
	b.WriteString("^")
	last := 0
	for _, loc := range paramPattern.FindAllStringSubmatchIndex(r.URL, -1) {
		b.WriteString(regexp.QuoteMeta(r.URL[last:loc[0]]))
		b.WriteString("(?P<" + r.URL[loc[2]:loc[3]] + ">[^/?#]+)")
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(r.URL[last:]))
	b.WriteString(`(?:\?.*)?$`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: bad url template: %v", ErrInvalidRoute, err)
	}
	return mock.Pattern(re), nil
}

// InstallOption configures File.Install
type InstallOption func(*installConfig)

type installConfig struct {
	vars *env.Vars
}

// WithEnv makes {{env.NAME}} placeholders read vars before the process
// environment.
func WithEnv(vars *env.Vars) InstallOption {
	return func(c *installConfig) {
		c.vars = vars
	}
}

// Install compiles every route and adds it to registry, returning the
// registration ids in route order.
func (f *File) Install(registry *mock.Registry, opts ...InstallOption) ([]string, error) {
	cfg := &installConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	handlers := make([]mock.Handler, 0, len(f.Routes))
	for _, route := range f.Routes {
		h, err := route.handler(cfg.vars)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", route, err)
		}
		handlers = append(handlers, h)
	}

	ids := make([]string, 0, len(handlers))
	for _, h := range handlers {
		ids = append(ids, registry.Add(h))
	}
	return ids, nil
}
