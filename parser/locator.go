package parser

// DocLocator reports where in the source the event currently being handed to
// a Handler came from. Lines start at 1, columns start at 0 and count code
// points.
type DocLocator interface {
	Line() int
	Col() int
}

// position is a line/column pair in the input.
type position struct {
	line, col int
}

func startPosition() position {
	return position{line: 1}
}

// advance moves past r.
func (p *position) advance(r rune) {
	if r == '\n' {
		p.line++
		p.col = 0
		return
	}
	p.col++
}

// docLocator is the DocLocator handed to handlers. It only moves when the
// tree constructor starts reporting a new token.
type docLocator struct {
	pos position
}

func newDocLocator() *docLocator {
	return &docLocator{pos: startPosition()}
}

func (l *docLocator) Line() int { return l.pos.line }
func (l *docLocator) Col() int  { return l.pos.col }

func (l *docLocator) snapshot(p position) {
	l.pos = p
}
