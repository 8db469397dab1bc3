package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "check the index path")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "check the index path", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.False(t, IsMalformedRecord(nil))
	assert.False(t, IsBackendUnavailable(nil))
	assert.False(t, IsDanglingReference(nil))
}

func TestMalformedRecord(t *testing.T) {
	t.Run("constructor keeps the kind", func(t *testing.T) {
		err := NewMalformedRecordError("line %d: missing relation", 7)
		assert.True(t, IsMalformedRecord(err))
		assert.Contains(t, err.Error(), "line 7: missing relation")
	})

	t.Run("wrapping keeps the kind", func(t *testing.T) {
		err := WrapMalformedRecord(New("unexpected end of JSON input"), "decode record")
		assert.True(t, IsMalformedRecord(err))
		assert.False(t, IsBackendUnavailable(err))
		assert.Contains(t, err.Error(), "decode record")
	})
}

func TestBackendUnavailable(t *testing.T) {
	cause := New("open mentions.tsv: no such file or directory")
	err := WrapBackendUnavailable(cause, "mention index")

	assert.True(t, IsBackendUnavailable(err))
	assert.Contains(t, err.Error(), "mention index")
	assert.Contains(t, err.Error(), "no such file")

	err = Wrap(err, "configure EntityLinking")
	assert.True(t, IsBackendUnavailable(err))
}

func TestDanglingReference(t *testing.T) {
	err := NewDanglingReferenceError("0:3/2")
	assert.True(t, IsDanglingReference(err))
	assert.Contains(t, err.Error(), `"0:3/2"`)
}

func TestErrorChaining(t *testing.T) {
	base := New("base error")

	err := Wrap(base, "layer 1")
	err = WithHint(err, "helpful hint")
	err = WithDetail(err, "detailed info")
	err = Wrap(err, "layer 2")

	assert.True(t, Is(err, base))
	assert.Contains(t, err.Error(), "layer 2: layer 1: base error")
	assert.Contains(t, GetAllHints(err), "helpful hint")
	assert.Contains(t, GetAllDetails(err), "detailed info")
}

func ExampleWrap() {
	baseErr := New("connection failed")
	err := Wrap(baseErr, "failed to open property index")
	fmt.Println(err)
	// Output: failed to open property index: connection failed
}
