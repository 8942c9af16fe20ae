package model

import (
	"strings"
	"testing"

	"github.com/oneconcern/dirmanifest/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathElement(t *testing.T) {
	for _, name := range []string{"a.txt", "sub", "..hidden", " ", "ünïcode", strings.Repeat("x", MaxPathElementSize)} {
		p, err := NewPathElement(name)
		require.NoErrorf(t, err, "expected %q to be valid", name)
		assert.Equal(t, name, p.String())
		assert.Equal(t, []byte(name), p.Bytes())
		assert.False(t, p.IsZero())
	}

	for _, name := range []string{"", ".", "..", "a/b", "/", "nul\x00", strings.Repeat("x", MaxPathElementSize+1)} {
		_, err := NewPathElement(name)
		require.Errorf(t, err, "expected %q to be invalid", name)
		assert.True(t, errors.Is(err, ErrInvalidPathElement))
	}

	_, err := PathElementFromBytes([]byte("a/b"))
	require.Error(t, err)

	assert.Panics(t, func() { MustPathElement("..") })
	assert.True(t, PathElement{}.IsZero())
}

func TestPathElement_Compare(t *testing.T) {
	a, b := MustPathElement("a"), MustPathElement("b")
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(MustPathElement("a")))
}

func TestPathElement_Text(t *testing.T) {
	var p PathElement
	require.NoError(t, p.UnmarshalText([]byte("file")))
	assert.Equal(t, MustPathElement("file"), p)

	require.Error(t, p.UnmarshalText([]byte("..")))

	txt, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "file", string(txt))
}

func TestSplitPath(t *testing.T) {
	elems, err := SplitPath("a/b//c/")
	require.NoError(t, err)
	require.Len(t, elems, 3)
	assert.Equal(t, "c", elems[2].String())

	elems, err = SplitPath("/")
	require.NoError(t, err)
	assert.Empty(t, elems)

	_, err = SplitPath("a/../b")
	require.Error(t, err)

	assert.Equal(t, "a", JoinPath("", MustPathElement("a")))
	assert.Equal(t, "a/b", JoinPath("a", MustPathElement("b")))
}
