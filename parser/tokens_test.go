package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	a "golang.org/x/net/html/atom"
)

func TestAttributesDedupe(t *testing.T) {
	tests := []struct {
		name  string
		attrs Attributes
		out   Attributes
	}{
		{"empty", Attributes{}, Attributes{}},
		{"no duplicates", Attributes{{"a", "1"}, {"b", "2"}}, Attributes{{"a", "1"}, {"b", "2"}}},
		{"first wins", Attributes{{"a", "1"}, {"b", "2"}, {"a", "3"}}, Attributes{{"a", "1"}, {"b", "2"}}},
		{"case sensitive", Attributes{{"a", "1"}, {"A", "2"}}, Attributes{{"a", "1"}, {"A", "2"}}},
		{"empty values", Attributes{{"x", ""}, {"x", "y"}}, Attributes{{"x", ""}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.out, tt.attrs.dedupe())
		})
	}
}

func TestAttributesGet(t *testing.T) {
	attrs := Attributes{{"foo", "bar"}, {"baz", ""}, {"foo", "poo"}}

	v, ok := attrs.Get("foo")
	assert.True(t, ok)
	assert.Equal(t, "bar", v)

	v, ok = attrs.Get("baz")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = attrs.Get("FOO")
	assert.False(t, ok)
}

func TestTagNames(t *testing.T) {
	tests := []struct {
		name  string
		upper string
		atom  a.Atom
	}{
		{"div", "DIV", a.Div},
		{"DiV", "DIV", a.Div},
		{"SCRIPT", "SCRIPT", a.Script},
		{"a-tag", "A-TAG", 0},
		{"dİv", "DİV", 0},
		{"foreignObject", "FOREIGNOBJECT", a.Foreignobject},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tag := newTag(tt.name, nil)
			assert.Equal(t, tt.name, tag.Name)
			assert.Equal(t, tt.upper, tag.UpperName())
			assert.Equal(t, tt.atom, tag.Atom())

			open := newOpenElement(tag)
			assert.Equal(t, tt.upper, open.upper)

			tag.Name = "changed"
			end := open.endTag()
			assert.Equal(t, tt.name, end.Name)
			assert.Equal(t, tt.atom, end.Atom())
			assert.Nil(t, end.Attrs)
			assert.False(t, end.SelfClosing)
		})
	}
}

func TestASCIILower(t *testing.T) {
	assert.Equal(t, "script", asciiLower("ScRiPt"))
	assert.Equal(t, "already", asciiLower("already"))
	assert.Equal(t, "İ-x", asciiLower("İ-X"))
}

func TestPositionAdvance(t *testing.T) {
	p := startPosition()
	for _, r := range "ab\ncİ\r\n" {
		p.advance(r)
	}
	assert.Equal(t, position{line: 3, col: 0}, p)

	p = startPosition()
	for _, r := range "x\ry" {
		p.advance(r)
	}
	assert.Equal(t, position{line: 1, col: 3}, p)
}
