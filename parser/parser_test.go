package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const locationDoc = "<html>\n  <body>\n    <div style=foo>Oh hi!</div>\n" +
	"    <div style=bar>Oh, you again!</div>\n  </body>\n</html>\n"

func TestParseReportsLocations(t *testing.T) {
	log := &EventLog{Locations: true}
	require.NoError(t, Parse(log, locationDoc))

	expected := []string{
		":1:0: startDoc()",
		":1:0: startTag(HTML,[])",
		":1:6: pcdata(\n  )",
		":2:2: startTag(BODY,[])",
		":2:8: pcdata(\n    )",
		":3:4: startTag(DIV,[style,foo])",
		":3:19: pcdata(Oh hi!)",
		":3:25: endTag(DIV)",
		":3:31: pcdata(\n    )",
		":4:4: startTag(DIV,[style,bar])",
		":4:19: pcdata(Oh, you again!)",
		":4:33: endTag(DIV)",
		":4:39: pcdata(\n  )",
		":5:9: pcdata(\n)",
		":6:0: endTag(BODY)",
		":6:0: endTag(HTML)",
		":6:7: pcdata(\n)",
		":7:0: effectiveBodyTag([])",
		":7:0: endDoc()",
	}
	if diff := cmp.Diff(expected, log.Events); diff != "" {
		t.Errorf("Wrong events (-want +got):\n%s", diff)
	}
}

// startTagPositions records where every start tag was reported.
type startTagPositions struct {
	NopHandler
	locator DocLocator
	got     []string
}

func (h *startTagPositions) SetDocLocator(locator DocLocator) { h.locator = locator }

func (h *startTagPositions) StartTag(tag *Tag) {
	h.got = append(h.got, fmt.Sprintf("%s@%d:%d", tag.UpperName(), h.locator.Line(), h.locator.Col()))
}

func TestParseLocationsSurviveMultiCodePointCharacters(t *testing.T) {
	h := &startTagPositions{}
	require.NoError(t, Parse(h, "<body>İİİ<div>x</div>\n<p>y</p><dİv>\n<b>"))
	assert.Equal(t, []string{
		"BODY@1:0",
		"DIV@1:9",
		"P@2:0",
		"DİV@2:8",
		"B@3:0",
	}, h.got)
}

func TestParseStartsAndEndsDocument(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"<",
		"<!--",
		"<script>",
		"<title>unterminated",
		"<a href='",
		"</html></body></head>",
		"<svg><svg></svg>",
		"\x00\xff<\xfe>",
	}
	for _, in := range inputs {
		in := in
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			log := &EventLog{}
			require.NoError(t, Parse(log, in))
			require.NotEmpty(t, log.Events)
			assert.Equal(t, "startDoc()", log.Events[0])
			assert.Equal(t, "endDoc()", log.Events[len(log.Events)-1])
			assert.Equal(t, 1, count(log.Events, func(e string) bool {
				return strings.HasPrefix(e, "effectiveBodyTag(")
			}))
		})
	}
}

func count(events []string, match func(string) bool) int {
	n := 0
	for _, e := range events {
		if match(e) {
			n++
		}
	}
	return n
}

func TestParseManufacturesBodyOnce(t *testing.T) {
	log := &EventLog{}
	require.NoError(t, Parse(log, "<title>x</title>text<div>more</div>text again<p>"))
	assert.Equal(t, 1, count(log.Events, func(e string) bool { return e == "markManufacturedBody()" }))
	assert.Equal(t, 1, count(log.Events, func(e string) bool { return e == "startTag(BODY,[])" }))

	i := indexOf(log.Events, "markManufacturedBody()")
	require.True(t, i >= 0 && i+1 < len(log.Events))
	assert.Equal(t, "startTag(BODY,[])", log.Events[i+1])
}

func indexOf(events []string, event string) int {
	for i, e := range events {
		if e == event {
			return i
		}
	}
	return -1
}

func TestParseIsReentrant(t *testing.T) {
	docs := []string{
		"<body foo=bar><body baz=bang><div><p>unclosed",
		locationDoc,
		"<head><script>var a = '<b>';",
		"<ul><li>a<li>b",
	}

	p := NewParser(Config{})
	fresh := make([][]string, len(docs))
	for i, doc := range docs {
		log := &EventLog{Locations: true}
		require.NoError(t, NewParser(Config{}).Parse(log, doc))
		fresh[i] = log.Events
	}

	for round := 0; round < 2; round++ {
		for i, doc := range docs {
			log := &EventLog{Locations: true}
			require.NoError(t, p.Parse(log, doc))
			if diff := cmp.Diff(fresh[i], log.Events); diff != "" {
				t.Errorf("round %d doc %d differs (-want +got):\n%s", round, i, diff)
			}
		}
	}
}

func TestParseSameHandlerTwice(t *testing.T) {
	log := &EventLog{}
	p := NewParser(Config{})
	require.NoError(t, p.Parse(log, "<p>one<p>two"))
	first := append([]string(nil), log.Events...)
	require.NoError(t, p.Parse(log, "<p>one<p>two"))
	require.Len(t, log.Events, 2*len(first))
	assert.Equal(t, first, log.Events[len(first):])
}

func TestParseNilHandler(t *testing.T) {
	err := Parse(nil, "<p>")
	require.Error(t, err)
}

type failingReader struct{}

var _ io.Reader = failingReader{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestParseReader(t *testing.T) {
	p := NewParser(Config{})

	log := &EventLog{}
	require.NoError(t, p.ParseReader(log, strings.NewReader("<b>x</b>")))
	assert.Contains(t, log.Events, "startTag(B,[])")

	err := p.ParseReader(&EventLog{}, failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading document")
	assert.Equal(t, "disk on fire", errors.Cause(err).Error())
}

func TestParseHandlerPanicsPropagate(t *testing.T) {
	h := &panickingHandler{}
	assert.PanicsWithValue(t, "boom", func() {
		_ = Parse(h, "<div>")
	})
}

type panickingHandler struct {
	NopHandler
}

func (panickingHandler) StartTag(*Tag) { panic("boom") }

func TestParseDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	p := NewParser(Config{Debug: true, Logger: logger})
	require.NoError(t, p.Parse(NopHandler{}, "<p>x"))
	assert.Contains(t, buf.String(), "[TOKEN]")
	assert.Contains(t, buf.String(), "[TREE]")

	buf.Reset()
	quiet := NewParser(Config{Logger: logger})
	require.NoError(t, quiet.Parse(NopHandler{}, "<p>x"))
	assert.Empty(t, buf.String())
}
