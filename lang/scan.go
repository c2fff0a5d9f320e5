package lang

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TokenKind identifies the kind of a [Token].
type TokenKind int

const (
	TokenLiteral       TokenKind = iota // literal
	TokenIfOpen                         // if
	TokenElse                           // else
	TokenEndIf                          // endif
	TokenInterpolation                  // interpolation
	TokenUnlessOpen                     // unless
	TokenEndUnless                      // endunless
)

// String returns the name of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenLiteral:
		return "literal"
	case TokenIfOpen:
		return "if"
	case TokenElse:
		return "else"
	case TokenEndIf:
		return "endif"
	case TokenInterpolation:
		return "interpolation"
	case TokenUnlessOpen:
		return "unless"
	case TokenEndUnless:
		return "endunless"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is a single lexical element of template text.
//
// For [TokenLiteral], Text is the literal span exactly as it appears in the
// source. For [TokenIfOpen], [TokenUnlessOpen], and [TokenInterpolation], Text
// is the expression between the delimiters with surrounding whitespace
// removed. Text is empty for [TokenElse], [TokenEndIf], and [TokenEndUnless].
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position // start of the token
	End  int      // byte offset just past the token
}

// Delimiters recognized by the scanner.
const (
	openDelim   = "{{"
	closeDelim  = "}}"
	interpSigil = '$'

	keywordIf    = "#if"
	keywordElse  = "else"
	keywordEndIf = "/if"

	keywordUnless    = "#unless"
	keywordEndUnless = "/unless"
)

// Scanner splits template text into tokens.
//
// A Scanner holds no state between iterations; every call to
// [Scanner.Tokens] starts over from the first byte.
type Scanner struct {
	src string
}

// NewScanner returns a Scanner over src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Tokens returns an iterator over the tokens of the template.
//
// Iteration stops after the first error, which is yielded with a zero Token.
// Errors derive from [ErrMalformedDirective].
func (s *Scanner) Tokens() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		c := cursor{src: s.src, line: 1, col: 1}

		for !c.eof() {
			tok, err := c.next()
			if err != nil {
				yield(Token{}, err)

				return
			}

			if !yield(tok, nil) {
				return
			}
		}
	}
}

// cursor tracks the scan position in bytes and in line/column terms.
type cursor struct {
	src  string
	off  int
	line int
	col  int
}

func (c *cursor) eof() bool { return c.off >= len(c.src) }

func (c *cursor) position() Position {
	return Position{Offset: c.off, Line: c.line, Column: c.col}
}

// advance moves the cursor to byte offset to.
func (c *cursor) advance(to int) {
	seg := c.src[c.off:to]

	if nl := strings.LastIndexByte(seg, '\n'); nl >= 0 {
		c.line += strings.Count(seg, "\n")
		c.col = utf8.RuneCountInString(seg[nl+1:]) + 1
	} else {
		c.col += utf8.RuneCountInString(seg)
	}

	c.off = to
}

// next returns the token starting at the cursor.
func (c *cursor) next() (Token, error) {
	search := c.off

	for {
		rel := strings.Index(c.src[search:], openDelim)
		if rel < 0 {
			return c.literal(len(c.src)), nil
		}

		at := search + rel
		body := at + len(openDelim)

		var (
			kind  TokenKind
			start = at
		)

		switch {
		case at > c.off && c.src[at-1] == interpSigil:
			kind, start = TokenInterpolation, at-1

		default:
			k, end, ok := directiveKeyword(c.src, body)
			if !ok {
				// Not ours; leave it in the literal run.
				search = at + 1

				continue
			}

			kind, body = k, end
		}

		if start > c.off {
			return c.literal(start), nil
		}

		return c.directive(kind, body)
	}
}

// literal emits the span from the cursor to end.
func (c *cursor) literal(end int) Token {
	tok := Token{
		Kind: TokenLiteral,
		Text: c.src[c.off:end],
		Pos:  c.position(),
		End:  end,
	}

	c.advance(end)

	return tok
}

// directive emits the directive or interpolation starting at the cursor whose
// content begins at byte offset body.
func (c *cursor) directive(kind TokenKind, body int) (Token, error) {
	pos := c.position()

	closeAt := findClose(c.src, body)
	if closeAt < 0 {
		return Token{}, ErrMalformedDirective.WithPosition(pos).
			With(slog.String("directive", kind.String())).
			Wrap(errMissingClose)
	}

	text := strings.TrimSpace(c.src[body:closeAt])
	end := closeAt + len(closeDelim)

	switch kind {
	case TokenElse, TokenEndIf, TokenEndUnless:
		if text != "" {
			return Token{}, ErrMalformedDirective.WithPosition(pos).
				With(
					slog.String("directive", kind.String()),
					slog.String("unexpected", text),
				).
				Wrap(errTrailingText)
		}
	}

	tok := Token{Kind: kind, Text: text, Pos: pos, End: end}

	c.advance(end)

	return tok, nil
}

var (
	errMissingClose = NewError("no closing " + closeDelim + " before end of input")
	errTrailingText = NewError("unexpected text before " + closeDelim)
)

// directiveKeyword reports whether a block directive keyword starts at or
// after i (following optional whitespace), returning its kind and the offset
// just past the keyword.
func directiveKeyword(src string, i int) (TokenKind, int, bool) {
	for i < len(src) && isSpace(src[i]) {
		i++
	}

	for _, kw := range []struct {
		text string
		kind TokenKind
	}{
		{keywordIf, TokenIfOpen},
		{keywordElse, TokenElse},
		{keywordEndIf, TokenEndIf},
		{keywordUnless, TokenUnlessOpen},
		{keywordEndUnless, TokenEndUnless},
	} {
		if !strings.HasPrefix(src[i:], kw.text) {
			continue
		}

		end := i + len(kw.text)
		if end == len(src) || isSpace(src[end]) || src[end] == '}' {
			return kw.kind, end, true
		}
	}

	return 0, 0, false
}

// findClose returns the offset of the first closing delimiter at or after i
// that is not inside a quoted string, or -1.
//
// A quote with no matching close quote is treated as an ordinary character.
func findClose(src string, i int) int {
	for i < len(src) {
		switch ch := src[i]; ch {
		case '"', '\'', '`':
			if end := skipQuoted(src, i); end > 0 {
				i = end

				continue
			}

		case '}':
			if strings.HasPrefix(src[i:], closeDelim) {
				return i
			}
		}

		i++
	}

	return -1
}

// skipQuoted returns the offset just past the string literal starting at i,
// or -1 if it is not terminated.
func skipQuoted(src string, i int) int {
	quote := src[i]

	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			if quote != '`' {
				j++
			}

		case quote:
			return j + 1
		}
	}

	return -1
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
