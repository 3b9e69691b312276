package mock

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	req := NewRequest(newFakeCall("GET", "/foo"))

	assert.True(t, Match("GET", Exact("/foo"))(req))
	assert.True(t, Match("GET", MustPattern("foo"))(req))
	assert.False(t, Match("GET", MustPattern("bar"))(req))
	assert.False(t, Match("POST", Exact("foo"))(req))
	assert.False(t, Match("get", Exact("/foo"))(req))
}

func TestCreateHandler(t *testing.T) {
	handler := CreateHandler("GET", Exact("/foo"), func(req *Request, res *Response) *Response {
		return res
	})

	miss := handler(NewRequest(newFakeCall("GET", "/")), NewResponse())
	require.NotNil(t, miss)
	assert.True(t, miss.Empty())

	hit := handler(NewRequest(newFakeCall("GET", "/foo")), NewResponse())
	require.NotNil(t, hit)
	assert.Equal(t, NewResponse().Build(), *hit)
}

func TestCreateHandlerPattern(t *testing.T) {
	handler := CreateHandler("GET", Pattern(regexp.MustCompile("foo")), func(req *Request, res *Response) *Response {
		return res
	})

	hit := handler(NewRequest(newFakeCall("GET", "/foo/bar")), NewResponse())
	require.NotNil(t, hit)
	assert.Equal(t, 200, hit.StatusCode())
	assert.Equal(t, "", hit.BodyText())
	assert.Equal(t, NoTimeout, hit.TimeoutValue())
}

func TestCreateHandlerNilResponder(t *testing.T) {
	handler := CreateHandler("GET", Exact("/foo"), func(req *Request, res *Response) *Response {
		return nil
	})

	assert.Nil(t, handler(NewRequest(newFakeCall("GET", "/foo")), NewResponse()))
}

func TestCreateHandlerParams(t *testing.T) {
	handler := CreateHandler("POST", MustPattern(`^/a/(?P<id>\d+)$`), func(req *Request, res *Response) *Response {
		return res.Body(req.Param("id"))
	})

	hit := handler(NewRequest(newFakeCall("POST", "/a/123")), NewResponse())
	require.NotNil(t, hit)
	assert.Equal(t, "123", hit.BodyText())
}

func TestURLMatcherString(t *testing.T) {
	assert.Equal(t, "/a", Exact("/a").String())
	assert.Equal(t, `^/a$`, MustPattern(`^/a$`).String())
}
