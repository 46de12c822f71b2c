package parser

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config holds the ambient settings of a Parser. The zero value is ready to
// use.
type Config struct {
	// Debug traces tokenizer transitions and tree construction steps at
	// debug level. It is very verbose.
	Debug bool
	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

// Parser reports the structure of HTML documents to a Handler. A Parser
// keeps no state between calls, so one Parser can parse any number of
// documents.
type Parser struct {
	config Config
}

func NewParser(config Config) *Parser {
	return &Parser{config: config}
}

// Progress carries what the tree constructor wants the tokenizer to do
// before it produces the next token.
type Progress struct {
	TokenizerState *tokenizerState
}

// Parse reports every event of html to handler. Malformed markup is never an
// error; the only error is a nil handler. Panics raised by the handler are
// not recovered.
func (p *Parser) Parse(handler Handler, html string) error {
	if handler == nil {
		return errors.New("parser: nil handler")
	}

	locator := newDocLocator()
	if lh, ok := handler.(LocatorHandler); ok {
		lh.SetDocLocator(locator)
	}
	tokenizer := NewHTMLTokenizer(html, p.config)
	treeConstructor := NewHTMLTreeConstructor(handler, locator, p.config)

	handler.StartDoc()
	var progress *Progress
	for tokenizer.Next() {
		progress = treeConstructor.ProcessToken(tokenizer.Token(progress))
	}
	return nil
}

// ParseReader reads the whole document from r and parses it.
func (p *Parser) ParseReader(handler Handler, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "reading document")
	}
	return p.Parse(handler, string(b))
}

// Parse parses html with a default Parser.
func Parse(handler Handler, html string) error {
	return NewParser(Config{}).Parse(handler, html)
}
