package mcerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/McDic/MCDIL/internal/location"
)

func stackAt(source string, line, column int) *location.Stack {
	s := &location.Stack{}
	s.Push(location.Location{Source: source, Line: line, Column: column})
	return s
}

// TestCompilationError_Format tests message rendering with and without a
// captured location.
func TestCompilationError_Format(t *testing.T) {
	withLoc := NewKeywordIdentifier(stackAt("main.mcdil", 3, 7), "while")
	assert.Equal(t, `main.mcdil:3:7: [E100] "while" is a reserved keyword and cannot be an identifier`, withLoc.Error())

	withoutLoc := NewKeywordIdentifier(nil, "while")
	assert.Equal(t, `[E100] "while" is a reserved keyword and cannot be an identifier`, withoutLoc.Error())

	emptyStack := NewKeywordIdentifier(&location.Stack{}, "while")
	assert.Nil(t, emptyStack.Location(), "empty stack yields a location-less error")
}

// TestErrors_CaptureInnermostLocation tests that construction snapshots the
// top of the stack at the moment raised.
func TestErrors_CaptureInnermostLocation(t *testing.T) {
	s := stackAt("main.mcdil", 1, 1)
	release := s.Push(location.Location{Source: "lib.mcdil", Line: 9, Column: 2})

	err := NewIdentifierCollision(s, "foo")
	release()

	require.NotNil(t, err.Location())
	assert.Equal(t, "lib.mcdil", err.Location().Source)
	assert.Equal(t, 9, err.Location().Line)
}

// TestCodeOf tests stable code extraction across the taxonomy.
func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{NewKeywordIdentifier(nil, "if"), CodeKeywordIdentifier},
		{NewIdentifierNotFound(nil, []string{"a", "b"}), CodeIdentifierNotFound},
		{NewIdentifierCollision(nil, "foo"), CodeIdentifierCollision},
		{NewMalformedGeneric(nil, "tn"), CodeMalformedGeneric},
		{NewGraphError(CodeOwnerConflict, "owned twice"), CodeOwnerConflict},
		{NewUnexpectedNode(nil, "namespace"), CodeUnexpectedNode},
		{NewAuthorAlreadySet(nil, "a", "a@b.c"), CodeAuthorAlreadySet},
		{NewNotAuthorable(nil), CodeNotAuthorable},
		{NewDescriptionAlreadySet(nil), CodeDescriptionAlreadySet},
		{NewCacheMismatch("/tmp/x.mcdil"), CodeCacheMismatch},
		{NewSourceFetch("lib.mcdil", nil), CodeSourceFetchFailed},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, CodeOf(tc.err), "code of %T", tc.err)
	}

	assert.Equal(t, "", CodeOf(errors.New("plain")))
}

// TestCodeOf_Wrapped tests extraction through fmt.Errorf wrapping.
func TestCodeOf_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("while compiling: %w", NewIdentifierNotFound(nil, []string{"x"}))
	assert.Equal(t, CodeIdentifierNotFound, CodeOf(wrapped))
}

// TestIdentifierNotFound_Path tests dotted path rendering.
func TestIdentifierNotFound_Path(t *testing.T) {
	err := NewIdentifierNotFound(nil, []string{"pack", "util", "swap"})
	assert.Contains(t, err.Error(), `"pack.util.swap"`)
	assert.Equal(t, []string{"pack", "util", "swap"}, err.Path)
}

// TestIsIdentifierError tests the predicate across kinds.
func TestIsIdentifierError(t *testing.T) {
	assert.True(t, IsIdentifierError(NewKeywordIdentifier(nil, "raw")))
	assert.True(t, IsIdentifierError(NewIdentifierNotFound(nil, nil)))
	assert.True(t, IsIdentifierError(NewIdentifierCollision(nil, "x")))
	assert.True(t, IsIdentifierError(NewMalformedGeneric(nil, "tn")))
	assert.False(t, IsIdentifierError(NewGraphError(CodeDuplicateEdge, "dup")))
	assert.False(t, IsIdentifierError(errors.New("plain")))
}

// TestSourceFetchError_Unwrap tests cause propagation.
func TestSourceFetchError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewSourceFetch("https://example.com/lib.mcdil", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "https://example.com/lib.mcdil")
	assert.Contains(t, err.Error(), "connection refused")
}
