package errors

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarksSurviveWrapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing source", MissingSource(New("empty")), ErrMissingSource},
		{"subprocess", Subprocess(New("exit status 2")), ErrSubprocess},
		{"missing path", MissingPath(os.ErrNotExist, "build.toml"), ErrMissingRequiredPath},
		{"unsupported", UnsupportedTarget("wasm32-unknown-unknown"), ErrUnsupportedTarget},
		{"invalid config", InvalidConfig(New("bad profile")), ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, "pipeline")
			assert.True(t, Is(wrapped, tt.want))
			for _, other := range []error{ErrMissingSource, ErrSubprocess, ErrMissingRequiredPath, ErrUnsupportedTarget, ErrInvalidConfig} {
				if other == tt.want {
					continue
				}
				assert.False(t, Is(wrapped, other), "unexpected class %v", other)
			}
		})
	}
}

func TestMissingPathKeepsCause(t *testing.T) {
	err := MissingPath(os.ErrNotExist, "src/lib.h")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "src/lib.h")
	assert.True(t, Is(err, os.ErrNotExist))
}

func TestHints(t *testing.T) {
	err := WithHint(MissingSource(New("empty")), "run fetch")
	assert.Equal(t, []string{"run fetch"}, GetAllHints(err))
	assert.True(t, Is(err, ErrMissingSource))
}
