package parser

import (
	"github.com/sirupsen/logrus"
	a "golang.org/x/net/html/atom"
)

type insertionMode uint

const (
	initial insertionMode = iota
	beforeHTML
	beforeHead
	inHead
	afterHead
	inBody
	inSVG
)

var insertionModeNames = [...]string{
	initial:    "initial",
	beforeHTML: "beforeHTML",
	beforeHead: "beforeHead",
	inHead:     "inHead",
	afterHead:  "afterHead",
	inBody:     "inBody",
	inSVG:      "inSVG",
}

func (m insertionMode) String() string {
	if int(m) < len(insertionModeNames) {
		return insertionModeNames[m]
	}
	return "insertionMode(?)"
}

// treeConstructionModeHandler decides what a start tag does in one insertion
// mode. It returns false when the tag must not be reported at all.
type treeConstructionModeHandler func(t *Tag) bool

// openElement is what the tree constructor remembers about an element it
// has reported but not yet closed. It never shares memory with the Tag
// handed to the handler.
type openElement struct {
	name  string
	upper string
	atom  a.Atom
}

func newOpenElement(t *Tag) openElement {
	return openElement{name: t.Name, upper: t.UpperName(), atom: t.Atom()}
}

// endTag returns a fresh end tag closing e.
func (e openElement) endTag() *Tag {
	return &Tag{Name: e.name, atom: e.atom}
}

// HTMLTreeConstructor turns tokens into handler events. It never builds a
// tree: it keeps the names of the open elements, applies the implicit close
// rules and makes up html structure the document left out. One
// HTMLTreeConstructor serves exactly one document.
type HTMLTreeConstructor struct {
	handler             Handler
	locator             *docLocator
	mode                insertionMode
	stackOfOpenElements []openElement
	svgIndex            int
	bodyManufactured    bool
	bodySeen            bool
	effectiveBodyAttrs  Attributes
	mappings            map[insertionMode]treeConstructionModeHandler
	log                 logrus.FieldLogger
	debug               bool
}

// NewHTMLTreeConstructor creates an HTMLTreeConstructor reporting to handler.
func NewHTMLTreeConstructor(handler Handler, locator *docLocator, config Config) *HTMLTreeConstructor {
	tr := HTMLTreeConstructor{
		handler:            handler,
		locator:            locator,
		svgIndex:           -1,
		effectiveBodyAttrs: Attributes{},
		log:                config.logger(),
		debug:              config.Debug,
	}

	tr.createMappings()
	return &tr
}

func (c *HTMLTreeConstructor) createMappings() {
	c.mappings = map[insertionMode]treeConstructionModeHandler{
		initial:    c.beforeHTMLModeHandler,
		beforeHTML: c.beforeHTMLModeHandler,
		beforeHead: c.beforeHeadModeHandler,
		inHead:     c.inHeadModeHandler,
		afterHead:  c.afterHeadModeHandler,
		inBody:     c.inBodyModeHandler,
		inSVG:      c.inSVGModeHandler,
	}
}

// ProcessToken reports t to the handler. The returned Progress is non-nil
// when the tokenizer has to switch into a raw text state.
func (c *HTMLTreeConstructor) ProcessToken(t *Token) *Progress {
	c.locator.snapshot(t.position())
	if c.debug {
		fields := logrus.Fields{"mode": c.mode, "token": t.TokenType, "open": len(c.stackOfOpenElements)}
		if t.Tag != nil {
			fields["tag"] = t.Tag.Name
		}
		c.log.WithFields(fields).Debug("[TREE]")
	}

	switch t.TokenType {
	case characterToken:
		c.pcdata(t.Data)
	case rawTextToken:
		c.handler.CData(t.Data)
	case rcDataToken:
		c.handler.RCData(t.Data)
	case startTagToken:
		return c.startTag(t.Tag)
	case endTagToken:
		c.endTag(t.Tag)
	case docTypeToken:
		if c.mode == initial {
			c.mode = beforeHTML
		}
	case commentToken:
	case endOfFileToken:
		c.endDoc()
	}
	return nil
}

func (c *HTMLTreeConstructor) startTag(t *Tag) *Progress {
	if t.Atom() == a.Body {
		c.effectiveBodyAttrs = append(c.effectiveBodyAttrs, t.Attrs...)
		if c.bodySeen {
			return nil
		}
	}

	if !c.mappings[c.mode](t) {
		return nil
	}
	// The handler owns t once insert reports it.
	selfClosing, atom := t.SelfClosing, t.Atom()
	c.insert(t)

	if selfClosing {
		return nil
	}
	if state, ok := rawTextElements[atom]; ok {
		return &Progress{TokenizerState: &state}
	}
	return nil
}

// insert reports t and pushes it, unless it is closed on the spot.
func (c *HTMLTreeConstructor) insert(t *Tag) {
	e := newOpenElement(t)
	closed := t.SelfClosing || (c.mode != inSVG && voidElements[e.atom])
	c.handler.StartTag(t)
	if closed {
		c.handler.EndTag(e.endTag())
		return
	}
	c.stackOfOpenElements = append(c.stackOfOpenElements, e)
}

func (c *HTMLTreeConstructor) beforeHTMLModeHandler(t *Tag) bool {
	if t.Atom() == a.Html {
		c.mode = beforeHead
		return true
	}
	return c.beforeHeadModeHandler(t)
}

func (c *HTMLTreeConstructor) beforeHeadModeHandler(t *Tag) bool {
	switch t.Atom() {
	case a.Html:
		return false
	case a.Head:
		c.mode = inHead
		return true
	case a.Body:
		c.openBody()
		return true
	}

	if headContent[t.Atom()] {
		c.insert(newTag("HEAD", nil))
		c.mode = inHead
		return true
	}
	c.manufactureBody()
	return c.inBodyModeHandler(t)
}

func (c *HTMLTreeConstructor) inHeadModeHandler(t *Tag) bool {
	switch t.Atom() {
	case a.Html, a.Head:
		return false
	case a.Body:
		c.closeHead()
		c.openBody()
		return true
	}

	if headContent[t.Atom()] {
		return true
	}
	c.closeHead()
	c.manufactureBody()
	return c.inBodyModeHandler(t)
}

func (c *HTMLTreeConstructor) afterHeadModeHandler(t *Tag) bool {
	switch t.Atom() {
	case a.Html, a.Head:
		return false
	case a.Body:
		c.openBody()
		return true
	}

	c.manufactureBody()
	return c.inBodyModeHandler(t)
}

func (c *HTMLTreeConstructor) inBodyModeHandler(t *Tag) bool {
	switch t.Atom() {
	case a.Html, a.Head, a.Body:
		return false
	case a.Svg:
		if !t.SelfClosing {
			c.mode = inSVG
			c.svgIndex = len(c.stackOfOpenElements)
		}
		return true
	}

	c.closeImplied(t)
	return true
}

// inSVGModeHandler reports everything inside svg as written, except the
// document structure tags.
func (c *HTMLTreeConstructor) inSVGModeHandler(t *Tag) bool {
	switch t.Atom() {
	case a.Html, a.Head, a.Body:
		return false
	}
	return true
}

func (c *HTMLTreeConstructor) openBody() {
	c.mode = inBody
	c.bodySeen = true
}

func (c *HTMLTreeConstructor) manufactureBody() {
	c.bodyManufactured = true
	c.handler.MarkManufacturedBody()
	c.insert(newTag("BODY", nil))
	c.openBody()
}

// closeHead closes the head element, which may have been made up.
func (c *HTMLTreeConstructor) closeHead() {
	c.endTag(newTag("HEAD", nil))
	c.mode = afterHead
}

// closeImplied applies implicitCloseRules for the start tag t.
func (c *HTMLTreeConstructor) closeImplied(t *Tag) {
	rule, ok := implicitCloseRules[t.Atom()]
	if !ok {
		return
	}
	for i := len(c.stackOfOpenElements) - 1; i >= 0; i-- {
		open := c.stackOfOpenElements[i].atom
		if rule.closes[open] {
			c.popThrough(i)
			return
		}
		if rule.scope == nil || rule.scope[open] {
			return
		}
	}
}

// popThrough closes the element at index i and everything opened after it,
// innermost first.
func (c *HTMLTreeConstructor) popThrough(i int) {
	for j := len(c.stackOfOpenElements) - 1; j >= i; j-- {
		closed := c.stackOfOpenElements[j]
		c.handler.EndTag(closed.endTag())
		if closed.atom == a.Head && c.mode == inHead {
			c.mode = afterHead
		}
	}
	c.stackOfOpenElements = c.stackOfOpenElements[:i]
	if c.mode == inSVG && i <= c.svgIndex {
		c.mode = inBody
		c.svgIndex = -1
	}
}

// lastIndexOf finds the most recently opened element with t's name.
func (c *HTMLTreeConstructor) lastIndexOf(t *Tag) int {
	name := t.UpperName()
	for i := len(c.stackOfOpenElements) - 1; i >= 0; i-- {
		if c.stackOfOpenElements[i].upper == name {
			return i
		}
	}
	return -1
}

// endTag closes the matching open element and everything inside it. End
// tags without a matching open element are dropped, and so is </body>: the
// body closes with </html> or at the end of the document.
func (c *HTMLTreeConstructor) endTag(t *Tag) {
	if t.Atom() == a.Body {
		return
	}
	i := c.lastIndexOf(t)
	if i < 0 {
		return
	}
	c.popThrough(i)
}

func (c *HTMLTreeConstructor) pcdata(text string) {
	if !isSpace(text) {
		switch c.mode {
		case initial, beforeHTML, beforeHead, afterHead:
			c.manufactureBody()
		case inHead:
			c.closeHead()
			c.manufactureBody()
		}
	}
	c.handler.PCData(text)
}

func (c *HTMLTreeConstructor) endDoc() {
	if len(c.stackOfOpenElements) > 0 {
		c.popThrough(0)
	}
	c.handler.EffectiveBodyTag(c.effectiveBodyAttrs)
	c.handler.EndDoc()
}
