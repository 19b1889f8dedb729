package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = New("sentinel")

func TestErrorfKeepsWrapChain(t *testing.T) {
	err := Errorf("outer: %w", errSentinel)

	assert.True(t, Is(err, errSentinel))
	assert.Equal(t, "outer: sentinel", err.Error())
	assert.NotEmpty(t, ErrorStack(err))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	err := Wrap(errSentinel, "context")
	require.Error(t, err)
	assert.Equal(t, "context: sentinel", err.Error())
	assert.True(t, Is(err, errSentinel))
}

func TestRecover(t *testing.T) {
	var got error
	func() {
		defer Recover(func(err error) { got = err })
		panic("boom")
	}()

	require.Error(t, got)
	assert.Contains(t, got.Error(), "boom")
}
