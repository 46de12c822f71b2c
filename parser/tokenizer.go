package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// HTMLTokenizer holds state for the various state of the tokenizer.
type HTMLTokenizer struct {
	done                    bool
	currentState            tokenizerState
	input                   string
	offset, runeOffset      int
	cursor, runePos         position
	tagOpenPos              position
	text                    strings.Builder
	textStart               position
	emittedTokens           []Token
	tokenBuilder            *TokenBuilder
	lastEmittedStartTagName string
	log                     logrus.FieldLogger
	debug                   bool
}

// NewHTMLTokenizer creates a tokenizer over one complete HTML document.
func NewHTMLTokenizer(html string, config Config) *HTMLTokenizer {
	return &HTMLTokenizer{
		input:         html,
		cursor:        startPosition(),
		emittedTokens: []Token{},
		tokenBuilder:  newTokenBuilder(),
		log:           config.logger(),
		debug:         config.Debug,
	}
}

func (p *HTMLTokenizer) stateToParser(state tokenizerState) parserStateHandler {
	switch state {
	case dataState:
		return p.dataStateParser
	case rcDataState:
		return p.rcDataStateParser
	case rawTextState:
		return p.rawTextStateParser
	case tagOpenState:
		return p.tagOpenStateParser
	case endTagOpenState:
		return p.endTagOpenStateParser
	case tagNameState:
		return p.tagNameStateParser
	case rcDataLessThanSignState:
		return p.rcDataLessThanSignStateParser
	case rcDataEndTagOpenState:
		return p.rcDataEndTagOpenStateParser
	case rcDataEndTagNameState:
		return p.rcDataEndTagNameStateParser
	case rawTextLessThanSignState:
		return p.rawTextLessThanSignStateParser
	case rawTextEndTagOpenState:
		return p.rawTextEndTagOpenStateParser
	case rawTextEndTagNameState:
		return p.rawTextEndTagNameStateParser
	case beforeAttributeNameState:
		return p.beforeAttributeNameStateParser
	case attributeNameState:
		return p.attributeNameStateParser
	case afterAttributeNameState:
		return p.afterAttributeNameStateParser
	case beforeAttributeValueState:
		return p.beforeAttributeValueStateParser
	case attributeValueDoubleQuotedState:
		return p.attributeValueDoubleQuotedStateParser
	case attributeValueSingleQuotedState:
		return p.attributeValueSingleQuotedStateParser
	case attributeValueUnquotedState:
		return p.attributeValueUnquotedStateParser
	case afterAttributeValueQuotedState:
		return p.afterAttributeValueQuotedStateParser
	case selfClosingStartTagState:
		return p.selfClosingStartTagStateParser
	case bogusCommentState:
		return p.bogusCommentStateParser
	case markupDeclarationOpenState:
		return p.markupDeclarationOpenStateParser
	case commentStartState:
		return p.commentStartStateParser
	case commentStartDashState:
		return p.commentStartDashStateParser
	case commentState:
		return p.commentStateParser
	case commentEndDashState:
		return p.commentEndDashStateParser
	case commentEndState:
		return p.commentEndStateParser
	case commentEndBangState:
		return p.commentEndBangStateParser
	case doctypeState:
		return p.doctypeStateParser
	case beforeDoctypeNameState:
		return p.beforeDoctypeNameStateParser
	case doctypeNameState:
		return p.doctypeNameStateParser
	case bogusDoctypeState:
		return p.bogusDoctypeStateParser
	}

	return nil
}

// isTagSpace also accepts vertical tab, which browsers treat as a separator
// inside tags.
func isTagSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ':
		return true
	default:
		return false
	}
}

func isASCIIAlpha(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

func (p *HTMLTokenizer) isApprEndTagToken() bool {
	return asciiLower(p.lastEmittedStartTagName) == asciiLower(p.tokenBuilder.TempBuffer())
}

func (p *HTMLTokenizer) emit(tokens ...Token) {
	for _, token := range tokens {
		if token.TokenType == startTagToken {
			p.lastEmittedStartTagName = token.Tag.Name
		}
		p.emittedTokens = append(p.emittedTokens, token)
	}
}

// appendText adds the rune being processed to the pending text run.
func (p *HTMLTokenizer) appendText() {
	p.appendTextAt(p.input[p.runeOffset:p.offset], p.runePos)
}

// appendTextAt adds s to the pending text run, starting the run at pos if
// it is empty.
func (p *HTMLTokenizer) appendTextAt(s string, pos position) {
	if p.text.Len() == 0 {
		p.textStart = pos
	}
	p.text.WriteString(s)
}

// flushText emits the pending text run as a character token.
func (p *HTMLTokenizer) flushText() {
	if p.text.Len() == 0 {
		return
	}
	p.emit(textToken(characterToken, p.text.String(), p.textStart))
	p.text.Reset()
}

// emitRawText emits everything collected since the tokenizer entered a raw
// text state as a single token, even when that is nothing at all.
func (p *HTMLTokenizer) emitRawText(tt tokenType) {
	p.emit(textToken(tt, p.text.String(), p.textStart))
	p.text.Reset()
}

func (p *HTMLTokenizer) emitEOF() {
	p.flushText()
	p.emit(eofToken(p.runePos))
}

// beginRawText switches into a raw text state right after the start tag
// that requested it.
func (p *HTMLTokenizer) beginRawText(state tokenizerState) {
	p.flushText()
	p.textStart = p.cursor
	p.currentState = state
}

func (p *HTMLTokenizer) dataStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emitEOF()
		return false, dataState
	}
	switch r {
	case '<':
		p.tagOpenPos = p.runePos
		return false, tagOpenState
	default:
		p.appendText()
		return false, dataState
	}
}

func (p *HTMLTokenizer) rcDataStateParser(r rune, eof bool) (bool, tokenizerState) {
	return p.rawTextRun(r, eof, rcDataToken, rcDataState, rcDataLessThanSignState)
}

func (p *HTMLTokenizer) rawTextStateParser(r rune, eof bool) (bool, tokenizerState) {
	return p.rawTextRun(r, eof, rawTextToken, rawTextState, rawTextLessThanSignState)
}

func (p *HTMLTokenizer) rawTextRun(r rune, eof bool, tt tokenType, self, lessThan tokenizerState) (bool, tokenizerState) {
	if eof {
		p.emitRawText(tt)
		p.emitEOF()
		return false, dataState
	}
	switch r {
	case '<':
		p.tagOpenPos = p.runePos
		return false, lessThan
	default:
		p.appendText()
		return false, self
	}
}

func (p *HTMLTokenizer) rcDataLessThanSignStateParser(r rune, eof bool) (bool, tokenizerState) {
	return p.rawTextLessThanSign(r, rcDataState, rcDataEndTagOpenState)
}

func (p *HTMLTokenizer) rawTextLessThanSignStateParser(r rune, eof bool) (bool, tokenizerState) {
	return p.rawTextLessThanSign(r, rawTextState, rawTextEndTagOpenState)
}

func (p *HTMLTokenizer) rawTextLessThanSign(r rune, text, endTagOpen tokenizerState) (bool, tokenizerState) {
	if r == '/' {
		p.tokenBuilder.ResetTempBuffer()
		return false, endTagOpen
	}
	p.appendTextAt("<", p.tagOpenPos)
	return true, text
}

func (p *HTMLTokenizer) rcDataEndTagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	return p.rawTextEndTagOpen(r, rcDataState, rcDataEndTagNameState)
}

func (p *HTMLTokenizer) rawTextEndTagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	return p.rawTextEndTagOpen(r, rawTextState, rawTextEndTagNameState)
}

func (p *HTMLTokenizer) rawTextEndTagOpen(r rune, text, endTagName tokenizerState) (bool, tokenizerState) {
	if isASCIIAlpha(r) {
		return true, endTagName
	}
	p.appendTextAt("</", p.tagOpenPos)
	return true, text
}

func (p *HTMLTokenizer) rcDataEndTagNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	return p.rawTextEndTagName(r, eof, rcDataToken, rcDataState, rcDataEndTagNameState)
}

func (p *HTMLTokenizer) rawTextEndTagNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	return p.rawTextEndTagName(r, eof, rawTextToken, rawTextState, rawTextEndTagNameState)
}

func (p *HTMLTokenizer) rawTextEndTagName(r rune, eof bool, tt tokenType, text, self tokenizerState) (bool, tokenizerState) {
	if !eof {
		if isASCIIAlpha(r) {
			p.tokenBuilder.WriteTempBuffer(r)
			return false, self
		}
		if (isTagSpace(r) || r == '/' || r == '>') && p.isApprEndTagToken() {
			p.emitRawText(tt)
			p.tokenBuilder.NewTag(endTag, p.tagOpenPos)
			p.tokenBuilder.SetName(p.tokenBuilder.TempBuffer())
			return true, tagNameState
		}
	}
	p.appendTextAt("</"+p.tokenBuilder.TempBuffer(), p.tagOpenPos)
	return true, text
}

func (p *HTMLTokenizer) tagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.appendTextAt("<", p.tagOpenPos)
		p.emitEOF()
		return false, dataState
	}
	switch {
	case r == '!':
		p.flushText()
		p.tokenBuilder.Reset(p.tagOpenPos)
		return false, markupDeclarationOpenState
	case r == '/':
		return false, endTagOpenState
	case isASCIIAlpha(r):
		p.flushText()
		p.tokenBuilder.NewTag(startTag, p.tagOpenPos)
		return true, tagNameState
	case r == '?':
		p.flushText()
		p.tokenBuilder.Reset(p.tagOpenPos)
		return true, bogusCommentState
	default:
		p.appendTextAt("<", p.tagOpenPos)
		return true, dataState
	}
}

func (p *HTMLTokenizer) endTagOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.appendTextAt("</", p.tagOpenPos)
		p.emitEOF()
		return false, dataState
	}
	switch {
	case isASCIIAlpha(r):
		p.flushText()
		p.tokenBuilder.NewTag(endTag, p.tagOpenPos)
		return true, tagNameState
	case r == '>':
		p.flushText()
		return false, dataState
	default:
		p.flushText()
		p.tokenBuilder.Reset(p.tagOpenPos)
		return true, bogusCommentState
	}
}

func (p *HTMLTokenizer) tagNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emitEOF()
		return false, dataState
	}
	switch {
	case isTagSpace(r):
		return false, beforeAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '>':
		return false, p.emitCurrentTag()
	default:
		p.tokenBuilder.WriteName(r)
		return false, tagNameState
	}
}

func (p *HTMLTokenizer) beforeAttributeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emitEOF()
		return false, dataState
	}
	switch {
	case isTagSpace(r):
		return false, beforeAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '>':
		return false, p.emitCurrentTag()
	case r == '=':
		p.tokenBuilder.StartAttribute()
		p.tokenBuilder.WriteAttributeName(r)
		return false, attributeNameState
	default:
		p.tokenBuilder.StartAttribute()
		return true, attributeNameState
	}
}

func (p *HTMLTokenizer) attributeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emitEOF()
		return false, dataState
	}
	switch {
	case isTagSpace(r):
		return false, afterAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '>':
		return false, p.emitCurrentTag()
	case r == '=':
		return false, beforeAttributeValueState
	default:
		p.tokenBuilder.WriteAttributeName(r)
		return false, attributeNameState
	}
}

func (p *HTMLTokenizer) afterAttributeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emitEOF()
		return false, dataState
	}
	switch {
	case isTagSpace(r):
		return false, afterAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '=':
		return false, beforeAttributeValueState
	case r == '>':
		return false, p.emitCurrentTag()
	default:
		p.tokenBuilder.StartAttribute()
		return true, attributeNameState
	}
}

func (p *HTMLTokenizer) beforeAttributeValueStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emitEOF()
		return false, dataState
	}
	switch {
	case isTagSpace(r):
		return false, beforeAttributeValueState
	case r == '"':
		return false, attributeValueDoubleQuotedState
	case r == '\'':
		return false, attributeValueSingleQuotedState
	case r == '>':
		return false, p.emitCurrentTag()
	default:
		return true, attributeValueUnquotedState
	}
}

func (p *HTMLTokenizer) attributeValueDoubleQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	return p.attributeValueQuoted(r, eof, '"', attributeValueDoubleQuotedState)
}

func (p *HTMLTokenizer) attributeValueSingleQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	return p.attributeValueQuoted(r, eof, '\'', attributeValueSingleQuotedState)
}

func (p *HTMLTokenizer) attributeValueQuoted(r rune, eof bool, quote rune, self tokenizerState) (bool, tokenizerState) {
	if eof {
		p.emitEOF()
		return false, dataState
	}
	if r == quote {
		return false, afterAttributeValueQuotedState
	}
	p.tokenBuilder.WriteAttributeValue(r)
	return false, self
}

func (p *HTMLTokenizer) attributeValueUnquotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emitEOF()
		return false, dataState
	}
	switch {
	case isTagSpace(r):
		return false, beforeAttributeNameState
	case r == '>':
		return false, p.emitCurrentTag()
	default:
		p.tokenBuilder.WriteAttributeValue(r)
		return false, attributeValueUnquotedState
	}
}

// afterAttributeValueQuotedStateParser treats anything glued to a closing
// quote as the start of the next attribute. That is how href="a"" ends up
// with a second attribute named `"`.
func (p *HTMLTokenizer) afterAttributeValueQuotedStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emitEOF()
		return false, dataState
	}
	switch {
	case isTagSpace(r):
		return false, beforeAttributeNameState
	case r == '/':
		return false, selfClosingStartTagState
	case r == '>':
		return false, p.emitCurrentTag()
	default:
		return true, beforeAttributeNameState
	}
}

func (p *HTMLTokenizer) selfClosingStartTagStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emitEOF()
		return false, dataState
	}
	if r == '>' {
		p.tokenBuilder.EnableSelfClosing()
		return false, p.emitCurrentTag()
	}
	return true, beforeAttributeNameState
}

// markupDeclarationOpenStateParser runs on the rune after "<!".
func (p *HTMLTokenizer) markupDeclarationOpenStateParser(r rune, eof bool) (bool, tokenizerState) {
	rest := p.input[p.runeOffset:]
	switch {
	case strings.HasPrefix(rest, "--"):
		p.skip(1)
		return false, commentStartState
	case len(rest) >= len("doctype") && strings.EqualFold(rest[:len("doctype")], "doctype"):
		p.skip(len("doctype") - 1)
		return false, doctypeState
	default:
		return true, bogusCommentState
	}
}

func (p *HTMLTokenizer) bogusCommentStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		p.emit(p.tokenBuilder.CommentToken())
		p.emitEOF()
		return false, dataState
	}
	if r == '>' {
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	}
	p.tokenBuilder.WriteData(r)
	return false, bogusCommentState
}

// emitCommentAtEOF is shared by every comment state.
func (p *HTMLTokenizer) emitCommentAtEOF() (bool, tokenizerState) {
	p.emit(p.tokenBuilder.CommentToken())
	p.emitEOF()
	return false, dataState
}

func (p *HTMLTokenizer) commentStartStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitCommentAtEOF()
	}
	switch r {
	case '-':
		return false, commentStartDashState
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	default:
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentStartDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitCommentAtEOF()
	}
	switch r {
	case '-':
		return false, commentEndState
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	default:
		p.tokenBuilder.WriteData('-')
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitCommentAtEOF()
	}
	if r == '-' {
		return false, commentEndDashState
	}
	p.tokenBuilder.WriteData(r)
	return false, commentState
}

func (p *HTMLTokenizer) commentEndDashStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitCommentAtEOF()
	}
	if r == '-' {
		return false, commentEndState
	}
	p.tokenBuilder.WriteData('-')
	return true, commentState
}

func (p *HTMLTokenizer) commentEndStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitCommentAtEOF()
	}
	switch r {
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	case '!':
		return false, commentEndBangState
	case '-':
		p.tokenBuilder.WriteData('-')
		return false, commentEndState
	default:
		p.tokenBuilder.WriteDataString("--")
		return true, commentState
	}
}

func (p *HTMLTokenizer) commentEndBangStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof {
		return p.emitCommentAtEOF()
	}
	switch r {
	case '-':
		p.tokenBuilder.WriteDataString("--!")
		return false, commentEndDashState
	case '>':
		p.emit(p.tokenBuilder.CommentToken())
		return false, dataState
	default:
		p.tokenBuilder.WriteDataString("--!")
		return true, commentState
	}
}

func (p *HTMLTokenizer) emitDoctype(eof bool) (bool, tokenizerState) {
	p.emit(p.tokenBuilder.DocTypeToken())
	if eof {
		p.emitEOF()
	}
	return false, dataState
}

func (p *HTMLTokenizer) doctypeStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof || r == '>' {
		return p.emitDoctype(eof)
	}
	if isTagSpace(r) {
		return false, beforeDoctypeNameState
	}
	return true, beforeDoctypeNameState
}

func (p *HTMLTokenizer) beforeDoctypeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof || r == '>' {
		return p.emitDoctype(eof)
	}
	if isTagSpace(r) {
		return false, beforeDoctypeNameState
	}
	p.tokenBuilder.WriteName(r)
	return false, doctypeNameState
}

func (p *HTMLTokenizer) doctypeNameStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof || r == '>' {
		return p.emitDoctype(eof)
	}
	if isTagSpace(r) {
		return false, bogusDoctypeState
	}
	p.tokenBuilder.WriteName(r)
	return false, doctypeNameState
}

// bogusDoctypeStateParser skips public and system identifiers; nothing
// downstream needs them.
func (p *HTMLTokenizer) bogusDoctypeStateParser(r rune, eof bool) (bool, tokenizerState) {
	if eof || r == '>' {
		return p.emitDoctype(eof)
	}
	return false, bogusDoctypeState
}

func (p *HTMLTokenizer) emitCurrentTag() tokenizerState {
	switch p.tokenBuilder.curTagType {
	case startTag:
		p.emit(p.tokenBuilder.StartTagToken())
	case endTag:
		p.emit(p.tokenBuilder.EndTagToken())
	}

	return dataState
}

// a stateHandler is a func that takes in a rune and a bool representing the endoffile
// and returns the next state to transition to.
type parserStateHandler func(in rune, eof bool) (bool, tokenizerState)

type tokenizerState uint

const (
	dataState tokenizerState = iota
	rcDataState
	rawTextState
	tagOpenState
	endTagOpenState
	tagNameState
	rcDataLessThanSignState
	rcDataEndTagOpenState
	rcDataEndTagNameState
	rawTextLessThanSignState
	rawTextEndTagOpenState
	rawTextEndTagNameState
	beforeAttributeNameState
	attributeNameState
	afterAttributeNameState
	beforeAttributeValueState
	attributeValueDoubleQuotedState
	attributeValueSingleQuotedState
	attributeValueUnquotedState
	afterAttributeValueQuotedState
	selfClosingStartTagState
	bogusCommentState
	markupDeclarationOpenState
	commentStartState
	commentStartDashState
	commentState
	commentEndDashState
	commentEndState
	commentEndBangState
	doctypeState
	beforeDoctypeNameState
	doctypeNameState
	bogusDoctypeState
)

var tokenizerStateNames = [...]string{
	dataState:                       "dataState",
	rcDataState:                     "rcDataState",
	rawTextState:                    "rawTextState",
	tagOpenState:                    "tagOpenState",
	endTagOpenState:                 "endTagOpenState",
	tagNameState:                    "tagNameState",
	rcDataLessThanSignState:         "rcDataLessThanSignState",
	rcDataEndTagOpenState:           "rcDataEndTagOpenState",
	rcDataEndTagNameState:           "rcDataEndTagNameState",
	rawTextLessThanSignState:        "rawTextLessThanSignState",
	rawTextEndTagOpenState:          "rawTextEndTagOpenState",
	rawTextEndTagNameState:          "rawTextEndTagNameState",
	beforeAttributeNameState:        "beforeAttributeNameState",
	attributeNameState:              "attributeNameState",
	afterAttributeNameState:         "afterAttributeNameState",
	beforeAttributeValueState:       "beforeAttributeValueState",
	attributeValueDoubleQuotedState: "attributeValueDoubleQuotedState",
	attributeValueSingleQuotedState: "attributeValueSingleQuotedState",
	attributeValueUnquotedState:     "attributeValueUnquotedState",
	afterAttributeValueQuotedState:  "afterAttributeValueQuotedState",
	selfClosingStartTagState:        "selfClosingStartTagState",
	bogusCommentState:               "bogusCommentState",
	markupDeclarationOpenState:      "markupDeclarationOpenState",
	commentStartState:               "commentStartState",
	commentStartDashState:           "commentStartDashState",
	commentState:                    "commentState",
	commentEndDashState:             "commentEndDashState",
	commentEndState:                 "commentEndState",
	commentEndBangState:             "commentEndBangState",
	doctypeState:                    "doctypeState",
	beforeDoctypeNameState:          "beforeDoctypeNameState",
	doctypeNameState:                "doctypeNameState",
	bogusDoctypeState:               "bogusDoctypeState",
}

func (s tokenizerState) String() string {
	if int(s) < len(tokenizerStateNames) {
		return tokenizerStateNames[s]
	}
	return "tokenizerState(?)"
}

// readRune consumes the next code point. Invalid UTF-8 bytes count as one
// code point each.
func (p *HTMLTokenizer) readRune() (rune, bool) {
	p.runeOffset = p.offset
	p.runePos = p.cursor
	if p.offset >= len(p.input) {
		return 0, true
	}
	r, size := utf8.DecodeRuneInString(p.input[p.offset:])
	p.offset += size
	p.cursor.advance(r)
	return r, false
}

// skip consumes n more code points without running them through a state.
func (p *HTMLTokenizer) skip(n int) {
	for i := 0; i < n; i++ {
		if _, eof := p.readRune(); eof {
			return
		}
	}
}

func (p *HTMLTokenizer) takeLastEmittedToken() *Token {
	if len(p.emittedTokens) > 0 {
		ret := p.emittedTokens[0]
		p.emittedTokens = p.emittedTokens[1:]
		if ret.TokenType == endOfFileToken {
			p.done = true
		}
		return &ret
	}
	return nil
}

// Next reports whether there are tokens left, the last one being the end of
// file token.
func (p *HTMLTokenizer) Next() bool {
	return !p.done
}

// Token returns the next token. The tree constructor can move the tokenizer
// into a raw text state through progress, which is how script, style,
// title and textarea contents escape tag lexing.
func (p *HTMLTokenizer) Token(progress *Progress) *Token {
	if progress != nil && progress.TokenizerState != nil {
		p.beginRawText(*progress.TokenizerState)
	}

	// some states emit more than 1 token at a time and sometimes no tokens.
	// loop until at least 1 token is emitted and then take them.
	for {
		token := p.takeLastEmittedToken()
		if token != nil {
			return token
		}

		r, eof := p.readRune()
		p.processRune(r, eof)
	}
}

func (p *HTMLTokenizer) processRune(r rune, eof bool) {
	reconsume := true
	for reconsume {
		reconsume, p.currentState = p.stateToParser(p.currentState)(r, eof)
		if p.debug {
			p.log.WithFields(logrus.Fields{
				"rune":  string(r),
				"eof":   eof,
				"state": p.currentState,
			}).Debug("[TOKEN]")
		}
	}
}
