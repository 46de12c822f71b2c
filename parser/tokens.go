package parser

import (
	"strings"

	"golang.org/x/net/html/atom"
)

type tokenType uint

const (
	characterToken tokenType = iota
	rawTextToken
	rcDataToken
	startTagToken
	endTagToken
	commentToken
	docTypeToken
	endOfFileToken
)

var tokenTypeNames = [...]string{
	characterToken: "characterToken",
	rawTextToken:   "rawTextToken",
	rcDataToken:    "rcDataToken",
	startTagToken:  "startTagToken",
	endTagToken:    "endTagToken",
	commentToken:   "commentToken",
	docTypeToken:   "docTypeToken",
	endOfFileToken: "endOfFileToken",
}

func (t tokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "tokenType(?)"
}

type tagType uint

const (
	startTag tagType = iota
	endTag
)

// Attribute is a single name/value pair on a tag. Attributes written
// without a value have an empty Value.
type Attribute struct {
	Name  string
	Value string
}

// Attributes is the ordered attribute list of a tag.
type Attributes []Attribute

// Get returns the value of the first attribute called name.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// dedupe keeps the first attribute of every name. Names are compared as
// written.
func (a Attributes) dedupe() Attributes {
	seen := make(map[string]struct{}, len(a))
	out := make(Attributes, 0, len(a))
	for _, attr := range a {
		if _, ok := seen[attr.Name]; ok {
			continue
		}
		seen[attr.Name] = struct{}{}
		out = append(out, attr)
	}
	return out
}

// Tag is a start or end tag as it was written in the document. Name keeps
// its source case; use UpperName for comparisons.
type Tag struct {
	Name        string
	Attrs       Attributes
	SelfClosing bool

	atom atom.Atom
}

func newTag(name string, attrs Attributes) *Tag {
	return &Tag{
		Name:  name,
		Attrs: attrs,
		atom:  lookupAtom(name),
	}
}

// UpperName returns the upper-cased tag name.
func (t *Tag) UpperName() string {
	return strings.ToUpper(t.Name)
}

// Atom returns the atom of the lower-cased tag name, or 0 for names that
// are not known HTML elements.
func (t *Tag) Atom() atom.Atom {
	return t.atom
}

func lookupAtom(name string) atom.Atom {
	return atom.Lookup([]byte(asciiLower(name)))
}

// asciiLower folds only A-Z so that the result has the same length and
// code points as s.
func asciiLower(s string) string {
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if 'A' <= b[j] && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

// Token is a concrete token that is ready to be emitted.
type Token struct {
	TokenType tokenType
	Tag       *Tag
	Data      string
	Line, Col int
}

func (t *Token) position() position {
	return position{line: t.Line, col: t.Col}
}

// TokenBuilder builds various tokens up during the tokenization
// phase.
type TokenBuilder struct {
	attributes     Attributes
	attributeKey   strings.Builder
	attributeValue strings.Builder
	pendingAttr    bool
	name           strings.Builder
	data           strings.Builder
	tempBuffer     strings.Builder
	selfClosing    bool
	curTagType     tagType
	start          position
}

func newTokenBuilder() *TokenBuilder {
	return &TokenBuilder{}
}

// Reset clears all the builders and attributes and records where the next
// token starts.
func (t *TokenBuilder) Reset(start position) {
	t.attributes = nil
	t.attributeKey.Reset()
	t.attributeValue.Reset()
	t.pendingAttr = false
	t.name.Reset()
	t.data.Reset()
	t.selfClosing = false
	t.start = start
}

// NewTag resets the builder for a tag of the given type.
func (t *TokenBuilder) NewTag(tt tagType, start position) {
	t.Reset(start)
	t.curTagType = tt
}

// EnableSelfClosing changes to the self-closing flag to "set".
func (t *TokenBuilder) EnableSelfClosing() {
	t.selfClosing = true
}

// WriteName appends a character to the current name value.
func (t *TokenBuilder) WriteName(r rune) {
	t.name.WriteRune(r)
}

// WriteData appends a character to the current data section.
func (t *TokenBuilder) WriteData(r rune) {
	t.data.WriteRune(r)
}

// WriteDataString appends s to the current data section.
func (t *TokenBuilder) WriteDataString(s string) {
	t.data.WriteString(s)
}

// StartAttribute commits the attribute being built, if any, and starts a
// new one.
func (t *TokenBuilder) StartAttribute() {
	t.CommitAttribute()
	t.pendingAttr = true
}

// WriteAttributeName appends a character to the current
// attribute's name.
func (t *TokenBuilder) WriteAttributeName(r rune) {
	t.attributeKey.WriteRune(r)
}

// WriteAttributeValue appends a character to the current
// attribute's value.
func (t *TokenBuilder) WriteAttributeValue(r rune) {
	t.attributeValue.WriteRune(r)
}

// CommitAttribute ends the creation of a key/value pair by appending it to
// the attribute list and clearing the name and value fields. Duplicates are
// kept here and removed when the tag is built.
func (t *TokenBuilder) CommitAttribute() {
	if t.pendingAttr {
		t.attributes = append(t.attributes, Attribute{
			Name:  t.attributeKey.String(),
			Value: t.attributeValue.String(),
		})
	}
	t.attributeKey.Reset()
	t.attributeValue.Reset()
	t.pendingAttr = false
}

// WriteTempBuffer appends a character to the temporary buffer of the current
// state.
func (t *TokenBuilder) WriteTempBuffer(r rune) {
	t.tempBuffer.WriteRune(r)
}

// ResetTempBuffer clears the temporary buffer to be used by some other state.
func (t *TokenBuilder) ResetTempBuffer() {
	t.tempBuffer.Reset()
}

// TempBuffer just returns the string version of the current buffer contents.
func (t *TokenBuilder) TempBuffer() string {
	return t.tempBuffer.String()
}

// SetName replaces the current name.
func (t *TokenBuilder) SetName(name string) {
	t.name.Reset()
	t.name.WriteString(name)
}

func (t *TokenBuilder) token(tt tokenType) Token {
	return Token{TokenType: tt, Line: t.start.line, Col: t.start.col}
}

// StartTagToken creates a start tag token from the builder
// contents.
func (t *TokenBuilder) StartTagToken() Token {
	t.CommitAttribute()
	tok := t.token(startTagToken)
	tok.Tag = newTag(t.name.String(), t.attributes.dedupe())
	tok.Tag.SelfClosing = t.selfClosing
	return tok
}

// EndTagToken creates an end tag token from the builder contents. End tags
// never carry attributes or the self-closing flag.
func (t *TokenBuilder) EndTagToken() Token {
	tok := t.token(endTagToken)
	tok.Tag = newTag(t.name.String(), nil)
	return tok
}

// CommentToken creates a comment token from the builder contents.
func (t *TokenBuilder) CommentToken() Token {
	tok := t.token(commentToken)
	tok.Data = t.data.String()
	return tok
}

// DocTypeToken creates a doc type token from the builder contents.
func (t *TokenBuilder) DocTypeToken() Token {
	tok := t.token(docTypeToken)
	tok.Data = t.name.String()
	return tok
}

// textToken creates a character, raw text or RCDATA token.
func textToken(tt tokenType, data string, start position) Token {
	return Token{TokenType: tt, Data: data, Line: start.line, Col: start.col}
}

// eofToken creates an end of file token.
func eofToken(at position) Token {
	return Token{TokenType: endOfFileToken, Line: at.line, Col: at.col}
}
