package lang

import (
	"errors"
	"strings"
)

// ErrEndOfLine is returned by Peek and Next once the cursor has moved
// past the last token of the current line.
var ErrEndOfLine = errors.New("unexpected end of line")

// Line is a peekable token cursor over one physical line of smali
// source. Tokens are delimited by single spaces; a trailing "#" comment
// is removed from the cleaned line before tokenizing and kept
// separately. One Line instance is meant to be reused across many
// physical lines via Reset.
type Line struct {
	raw        string
	cleaned    string
	comment    string
	hasComment bool
	tokens     []string
	pos        int
}

func NewLine(text string) *Line {
	l := &Line{}
	l.Reset(text)
	return l
}

// Reset reinitializes the cursor with a new physical line. All state
// from the previous line is discarded.
func (l *Line) Reset(text string) {
	l.raw = strings.TrimRight(text, " \t\r\n")
	l.cleaned = strings.TrimLeft(l.raw, " \t")
	l.comment = ""
	l.hasComment = false

	if idx := strings.IndexByte(l.cleaned, '#'); idx >= 0 {
		start := idx
		for start > 0 && (l.cleaned[start-1] == ' ' || l.cleaned[start-1] == '\t') {
			start--
		}
		l.comment = strings.TrimLeft(l.cleaned[idx:], "# ")
		l.hasComment = true
		l.cleaned = l.cleaned[:start]
	}

	if l.cleaned == "" {
		l.tokens = nil
	} else {
		l.tokens = strings.Split(l.cleaned, " ")
	}
	l.pos = 0
}

// ResetBytes decodes a raw byte line and resets the cursor with it.
func (l *Line) ResetBytes(text []byte) {
	l.Reset(string(text))
}

// Peek returns the current token without advancing the cursor.
func (l *Line) Peek() (string, error) {
	if !l.HasNext() {
		return "", ErrEndOfLine
	}
	return l.tokens[l.pos], nil
}

// PeekDefault returns the current token, or def once the line is
// exhausted. The exhausted state is distinct from an empty-string
// token: quoted empty strings tokenize as "" and are still returned.
func (l *Line) PeekDefault(def string) string {
	if !l.HasNext() {
		return def
	}
	return l.tokens[l.pos]
}

// Next returns the current token and advances the cursor.
func (l *Line) Next() (string, error) {
	if !l.HasNext() {
		return "", ErrEndOfLine
	}
	tok := l.tokens[l.pos]
	l.pos++
	return tok, nil
}

// Last returns the final token of the cleaned line, independent of the
// cursor position.
func (l *Line) Last() string {
	if len(l.tokens) == 0 {
		return ""
	}
	return l.tokens[len(l.tokens)-1]
}

func (l *Line) HasNext() bool {
	return l.pos < len(l.tokens)
}

// Len reports the length of the cleaned line. A zero length marks a
// blank (or comment-only) line.
func (l *Line) Len() int {
	return len(l.cleaned)
}

func (l *Line) Raw() string {
	return l.raw
}

func (l *Line) Cleaned() string {
	return l.cleaned
}

// Comment returns the EOL comment stripped from this line. The second
// result distinguishes "no comment" from an empty comment.
func (l *Line) Comment() (string, bool) {
	return l.comment, l.hasComment
}
