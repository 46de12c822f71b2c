package parser

import (
	"fmt"
	"strings"
)

// EventLog is a LocatorHandler that records every event as a string such as
// "startTag(DIV,[style,foo])". With Locations set each entry is prefixed
// with ":line:col: ".
type EventLog struct {
	Events    []string
	Locations bool

	locator DocLocator
}

func (l *EventLog) SetDocLocator(locator DocLocator) {
	l.locator = locator
}

func (l *EventLog) StartDoc() { l.add("startDoc()") }
func (l *EventLog) EndDoc()   { l.add("endDoc()") }

func (l *EventLog) StartTag(tag *Tag) {
	l.add(fmt.Sprintf("startTag(%s,%s)", tag.UpperName(), formatAttrs(tag.Attrs)))
}

func (l *EventLog) EndTag(tag *Tag) {
	l.add(fmt.Sprintf("endTag(%s)", tag.UpperName()))
}

func (l *EventLog) PCData(text string) { l.add("pcdata(" + text + ")") }
func (l *EventLog) RCData(text string) { l.add("rcdata(" + text + ")") }
func (l *EventLog) CData(text string)  { l.add("cdata(" + text + ")") }

func (l *EventLog) MarkManufacturedBody() { l.add("markManufacturedBody()") }

func (l *EventLog) EffectiveBodyTag(attrs Attributes) {
	l.add(fmt.Sprintf("effectiveBodyTag(%s)", formatAttrs(attrs)))
}

func (l *EventLog) add(event string) {
	if l.Locations && l.locator != nil {
		event = fmt.Sprintf(":%d:%d: %s", l.locator.Line(), l.locator.Col(), event)
	}
	l.Events = append(l.Events, event)
}

// formatAttrs renders attributes as a flat [name,value,...] list.
func formatAttrs(attrs Attributes) string {
	parts := make([]string, 0, 2*len(attrs))
	for _, attr := range attrs {
		parts = append(parts, attr.Name, attr.Value)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
