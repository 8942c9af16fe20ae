package model

import (
	"strings"
)

// MaxPathElementSize is the maximum length in bytes of a single path component
const MaxPathElementSize = 255

// PathElement is a single, validated component of a path: the name of one child of a directory.
//
// A valid path element is non-empty, holds at most MaxPathElementSize bytes,
// does not contain '/' or NUL and is neither "." nor "..".
type PathElement struct {
	name string
}

// NewPathElement validates a name as a path element
func NewPathElement(name string) (PathElement, error) {
	if err := validatePathElement(name); err != nil {
		return PathElement{}, err
	}
	return PathElement{name: name}, nil
}

// MustPathElement builds a path element, and panics if the name is invalid
func MustPathElement(name string) PathElement {
	p, err := NewPathElement(name)
	if err != nil {
		panic(err)
	}
	return p
}

// PathElementFromBytes decodes a raw map key into a path element
func PathElementFromBytes(b []byte) (PathElement, error) {
	return NewPathElement(string(b))
}

func validatePathElement(name string) error {
	switch {
	case name == "":
		return ErrInvalidPathElement.Wrapf("empty name")
	case len(name) > MaxPathElementSize:
		return ErrInvalidPathElement.Wrapf("name is %d bytes long, max is %d", len(name), MaxPathElementSize)
	case name == "." || name == "..":
		return ErrInvalidPathElement.Wrapf("reserved name %q", name)
	case strings.ContainsAny(name, "/\x00"):
		return ErrInvalidPathElement.Wrapf("name %q contains a separator or NUL", name)
	}
	return nil
}

func (p PathElement) String() string {
	return p.name
}

// Bytes yields the raw key for this path element
func (p PathElement) Bytes() []byte {
	return []byte(p.name)
}

// IsZero tells if this path element is the zero value
func (p PathElement) IsZero() bool {
	return p.name == ""
}

// Compare orders path elements byte-lexicographically
func (p PathElement) Compare(q PathElement) int {
	return strings.Compare(p.name, q.name)
}

// MarshalText renders this path element as text
func (p PathElement) MarshalText() ([]byte, error) {
	return []byte(p.name), nil
}

// UnmarshalText parses and validates a path element
func (p *PathElement) UnmarshalText(b []byte) error {
	q, err := PathElementFromBytes(b)
	if err != nil {
		return err
	}
	*p = q
	return nil
}

// SplitPath splits a slash-separated relative path into validated path
// elements. Leading, trailing and repeated slashes are ignored, so that "" and
// "/" yield no element.
func SplitPath(path string) ([]PathElement, error) {
	parts := strings.Split(path, "/")
	elems := make([]PathElement, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		p, err := NewPathElement(part)
		if err != nil {
			return nil, err
		}
		elems = append(elems, p)
	}
	return elems, nil
}

// JoinPath joins a parent path and a path element with a slash
func JoinPath(parent string, elem PathElement) string {
	if parent == "" {
		return elem.name
	}
	return parent + "/" + elem.name
}
