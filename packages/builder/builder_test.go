package builder

import (
	"regexp"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/xhrmock/packages/event"
	"github.com/abdul-hamid-achik/xhrmock/packages/loop"
	"github.com/abdul-hamid-achik/xhrmock/packages/mock"
	"github.com/abdul-hamid-achik/xhrmock/packages/xhr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type realRequest struct {
	xhr.Requester
}

func noop(req *mock.Request, res *mock.Response) *mock.Response {
	return res
}

func body(s string) mock.Responder {
	return func(req *mock.Request, res *mock.Response) *mock.Response {
		return res.Status(200).Body(s)
	}
}

// send performs one call through env and runs the loop to completion
func send(t *testing.T, b *Builder, env *Env, method, url string) xhr.Requester {
	t.Helper()
	x := env.XMLHttpRequest()
	require.NoError(t, x.Open(method, url))
	require.NoError(t, x.Send(""))
	b.Loop().Run()
	return x
}

func responseText(t *testing.T, x xhr.Requester) string {
	t.Helper()
	text, err := x.ResponseText()
	require.NoError(t, err)
	return text
}

func TestSetupTeardown(t *testing.T) {
	native := &realRequest{}
	env := &Env{XMLHttpRequest: func() xhr.Requester { return native }}
	b := New()

	require.NoError(t, b.Setup(env))
	assert.True(t, b.Installed())

	_, ok := env.XMLHttpRequest().(*xhr.Transport)
	assert.True(t, ok)

	require.NoError(t, b.Teardown())
	assert.False(t, b.Installed())
	assert.Same(t, native, env.XMLHttpRequest())
}

func TestSetupTwice(t *testing.T) {
	b := New()
	require.NoError(t, b.Setup(&Env{}))
	assert.ErrorIs(t, b.Setup(&Env{}), ErrAlreadyInstalled)
}

func TestSetupNilEnv(t *testing.T) {
	assert.Error(t, New().Setup(nil))
}

func TestTeardownWithoutSetup(t *testing.T) {
	b := New()
	assert.ErrorIs(t, b.Teardown(), ErrNotInstalled)
}

func TestSetupAndTeardownClearHandlers(t *testing.T) {
	b := New()
	b.Get(mock.Exact("http://www.example.com/"), noop)

	require.NoError(t, b.Setup(&Env{}))
	assert.Equal(t, 0, b.Registry().Len())

	b.Get(mock.Exact("http://www.example.com/"), noop)
	assert.Equal(t, 1, b.Registry().Len())

	require.NoError(t, b.Teardown())
	assert.Equal(t, 0, b.Registry().Len())
}

func TestMock(t *testing.T) {
	env := &Env{}
	b := New()
	require.NoError(t, b.Setup(env))
	defer b.Teardown()

	b.Mock(func(req *mock.Request, res *mock.Response) *mock.Result {
		r := res.Status(200).Body("OK").Build()
		return &r
	})

	x := send(t, b, env, "GET", "/")
	assert.Equal(t, "OK", responseText(t, x))
}

func TestRoutes(t *testing.T) {
	env := &Env{}
	b := New()
	require.NoError(t, b.Setup(env))
	defer b.Teardown()

	b.Route("GET", mock.Exact("/a"), body("A"))
	b.Get(mock.Exact("/b"), body("B"))
	require.Equal(t, 2, b.Registry().Len())

	assert.Equal(t, "A", responseText(t, send(t, b, env, "GET", "/a")))
	assert.Equal(t, "B", responseText(t, send(t, b, env, "GET", "/b")))
}

func TestMethodSugar(t *testing.T) {
	tests := []struct {
		method   string
		register func(b *Builder, url mock.URLMatcher, fn mock.Responder) string
	}{
		{method: "POST", register: (*Builder).Post},
		{method: "PUT", register: (*Builder).Put},
		{method: "PATCH", register: (*Builder).Patch},
		{method: "DELETE", register: (*Builder).Delete},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			env := &Env{}
			b := New()
			require.NoError(t, b.Setup(env))
			defer b.Teardown()

			tt.register(b, mock.Exact("/foo/123"), body("123"))

			assert.Equal(t, "123", responseText(t, send(t, b, env, tt.method, "/foo/123")))
		})
	}
}

func TestPatternRoute(t *testing.T) {
	env := &Env{}
	b := New()
	require.NoError(t, b.Setup(env))
	defer b.Teardown()

	b.Post(mock.Pattern(regexp.MustCompile(`/a/\d+`)), func(req *mock.Request, res *mock.Response) *mock.Response {
		return res.Body(req.Path()[len("/a/"):])
	})

	assert.Equal(t, "123", responseText(t, send(t, b, env, "POST", "/a/123")))
}

func TestRemove(t *testing.T) {
	env := &Env{}
	b := New()
	require.NoError(t, b.Setup(env))
	defer b.Teardown()

	id := b.Get(mock.Exact("/a"), body("A"))
	require.True(t, b.Remove(id))

	x := env.XMLHttpRequest()
	errored := false
	x.On(event.Error, func(ev event.Event) { errored = true })
	require.NoError(t, x.Open("GET", "/a"))
	require.NoError(t, x.Send(""))
	b.Loop().Run()

	assert.True(t, errored)
}

func TestNilResponderFiresError(t *testing.T) {
	env := &Env{}
	b := New()
	require.NoError(t, b.Setup(env))
	defer b.Teardown()

	b.Get(mock.Exact("/foo"), func(req *mock.Request, res *mock.Response) *mock.Response {
		return nil
	})

	x := env.XMLHttpRequest()
	var got event.Event
	x.AddEventListener(event.Error, func(ev event.Event) { got = ev })
	require.NoError(t, x.Open("GET", "/foo"))
	require.NoError(t, x.Send(""))
	b.Loop().Run()

	require.NotNil(t, got)
	_, ok := got.(*event.ProgressEvent)
	assert.True(t, ok)
}

func TestAbortCallback(t *testing.T) {
	env := &Env{}
	b := New()
	require.NoError(t, b.Setup(env))
	defer b.Teardown()

	b.Get(mock.Exact("/foo"), func(req *mock.Request, res *mock.Response) *mock.Response {
		return res.Timeout(100 * time.Millisecond)
	})

	x := env.XMLHttpRequest()
	var types []string
	for _, typ := range []string{event.Abort, event.Timeout, event.LoadEnd} {
		x.AddEventListener(typ, func(ev event.Event) { types = append(types, ev.Type()) })
	}
	require.NoError(t, x.Open("GET", "/foo"))
	require.NoError(t, x.Send(""))
	x.Abort()
	b.Loop().Run()

	assert.Equal(t, []string{event.Abort, event.LoadEnd}, types)
}

func TestOptions(t *testing.T) {
	l := loop.New()
	b := New(WithLoop(l), WithTimeout(5*time.Millisecond))
	assert.Same(t, l, b.Loop())

	x := b.NewRequest()
	assert.Same(t, l, x.Loop())
	assert.Same(t, b.Registry(), x.Registry())
	assert.Equal(t, 5*time.Millisecond, x.Timeout())
}
