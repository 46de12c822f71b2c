package parser

// Handler receives the events of one document, in document order. StartDoc
// is always the first call and EndDoc the last.
type Handler interface {
	StartDoc()
	EndDoc()
	StartTag(tag *Tag)
	EndTag(tag *Tag)
	// PCData is called for text outside of raw text elements.
	PCData(text string)
	// RCData is called once with the content of a title or textarea.
	RCData(text string)
	// CData is called once with the verbatim content of a script or style.
	CData(text string)
	// MarkManufacturedBody is called right before the parser reports a
	// body start tag that the document never wrote.
	MarkManufacturedBody()
	// EffectiveBodyTag is called once, before EndDoc, with the attributes
	// of every body tag in the document in source order.
	EffectiveBodyTag(attrs Attributes)
}

// LocatorHandler is a Handler that wants to know where events come from.
// SetDocLocator is called once, before StartDoc. The locator is only valid
// until the parse call returns.
type LocatorHandler interface {
	Handler
	SetDocLocator(locator DocLocator)
}

// NopHandler implements Handler with methods that do nothing. Embed it to
// implement only the events you care about.
type NopHandler struct{}

func (NopHandler) StartDoc()                   {}
func (NopHandler) EndDoc()                     {}
func (NopHandler) StartTag(*Tag)               {}
func (NopHandler) EndTag(*Tag)                 {}
func (NopHandler) PCData(string)               {}
func (NopHandler) RCData(string)               {}
func (NopHandler) CData(string)                {}
func (NopHandler) MarkManufacturedBody()       {}
func (NopHandler) EffectiveBodyTag(Attributes) {}
