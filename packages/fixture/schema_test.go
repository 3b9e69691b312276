package fixture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]byte(usersFixture)))
	assert.NoError(t, Validate([]byte(`{"routes":[{"method":"GET","url":"/a","timeout":true}]}`)))
}

func TestValidateProblems(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "empty", src: ""},
		{name: "no routes", src: "other: 1\n"},
		{name: "unknown field", src: "routes:\n  - method: GET\n    url: /a\n    colour: red\n"},
		{name: "missing method", src: "routes:\n  - url: /a\n"},
		{name: "url and pattern", src: "routes:\n  - method: GET\n    url: /a\n    pattern: /b\n"},
		{name: "bad timeout", src: "routes:\n  - method: GET\n    url: /a\n    timeout: soon\n"},
		{name: "status type", src: "routes:\n  - method: GET\n    url: /a\n    status: ok\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.src))
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.NotEmpty(t, verr.Problems)
			assert.Contains(t, verr.Error(), "fixture is invalid")
		})
	}
}

func TestValidateRunsRouteRules(t *testing.T) {
	err := Validate([]byte("routes:\n  - method: GET\n    pattern: '('\n"))
	assert.ErrorIs(t, err, ErrInvalidRoute)
}
