package parser

import (
	a "golang.org/x/net/html/atom"
)

type atomSet map[a.Atom]bool

func newAtomSet(atoms ...a.Atom) atomSet {
	s := make(atomSet, len(atoms))
	for _, at := range atoms {
		s[at] = true
	}
	return s
}

var (
	// voidElements never have content, so their start tag is closed right
	// away.
	voidElements = newAtomSet(
		a.Area, a.Base, a.Br, a.Col, a.Embed, a.Hr, a.Img, a.Input,
		a.Keygen, a.Link, a.Meta, a.Param, a.Source, a.Track, a.Wbr,
	)

	// headContent may appear inside head without starting the body.
	headContent = newAtomSet(
		a.Base, a.Basefont, a.Bgsound, a.Link, a.Meta, a.Noframes,
		a.Noscript, a.Script, a.Style, a.Template, a.Title,
	)

	// rawTextElements hold text that is not lexed for tags.
	rawTextElements = map[a.Atom]tokenizerState{
		a.Script:   rawTextState,
		a.Style:    rawTextState,
		a.Title:    rcDataState,
		a.Textarea: rcDataState,
	}
)

// closeRule lists which open elements a start tag closes implicitly. The
// search walks down from the current node and gives up at the first element
// in scope; a nil scope only looks at the current node.
type closeRule struct {
	closes atomSet
	scope  atomSet
}

// implicitCloseRules is deliberately much smaller than the HTML5 list of
// optional end tags. Everything not named here, custom elements included,
// stays open until closed explicitly.
var implicitCloseRules = map[a.Atom]closeRule{
	a.P:  {closes: newAtomSet(a.P)},
	a.Li: {closes: newAtomSet(a.Li), scope: newAtomSet(a.Ul, a.Ol, a.Menu)},
	a.Dd: {closes: newAtomSet(a.Dd, a.Dt), scope: newAtomSet(a.Dl)},
	a.Dt: {closes: newAtomSet(a.Dd, a.Dt), scope: newAtomSet(a.Dl)},
}

// isSpace reports whether text is only ASCII whitespace. Such text never
// starts the body.
func isSpace(text string) bool {
	for _, r := range text {
		if !isTagSpace(r) {
			return false
		}
	}
	return true
}
