package dispatcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAsyncTimeoutIsAlwaysBounded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
		want time.Duration
	}{
		{name: "default", want: DefaultAsyncTimeout},
		{name: "zero", opts: []Option{WithAsyncTimeout(0)}, want: DefaultAsyncTimeout},
		{name: "negative", opts: []Option{WithAsyncTimeout(-time.Second)}, want: DefaultAsyncTimeout},
		{name: "zero config", opts: []Option{WithConfig(Config{})}, want: DefaultAsyncTimeout},
		{name: "explicit", opts: []Option{WithAsyncTimeout(time.Second)}, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, New(tt.opts...).asyncTimeout)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	d := New()
	assert.NotNil(t, d.logger)
	assert.NotNil(t, d.exceptions)
	assert.NotNil(t, d.renderer)
	assert.Equal(t, DefaultAsyncTimeout, d.asyncTimeout)
}
