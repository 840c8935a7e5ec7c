// Package lexer implements the minic lexer (tokeniser).
//
// The lexer converts a C source buffer into a flat stream of [ast.Token]
// values. Call [New] to create a lexer over a byte buffer and then call
// [Lexer.Next] repeatedly; once the input is exhausted every further call
// returns a token with Type == [ast.EOS].
//
// Design notes:
//   - Single forward pass, byte-by-byte scanning using a read position
//     cursor; no token is ever re-emitted. To rescan, build a new Lexer over
//     the same buffer.
//   - The buffer is borrowed for the lexer's lifetime; token payloads are
//     copied out of it, so tokens never alias the buffer.
//   - Line and column numbers are tracked for every token (1-based).
//   - Comments (// ... and /* ... */) are consumed silently. An unterminated
//     block comment runs to the end of the input.
//   - A '#' starts a preprocessor token whose payload is the raw text up to
//     the end of the line, never interpreted.
//   - Identifiers are scanned first and then classified as keywords via
//     [ast.LookupKeyWord]; this keeps the main switch statement small.
//   - Multi-character operators (==, !=, <=, >=, &&, ||) require one byte of
//     look-ahead and are matched longest-first. A lone '&' or '|' is not part
//     of the grammar and produces an [Error].
package lexer

import (
	"fmt"

	"github.com/minic-lang/minic/ast"
)

// Error is a lexical error: an unrecognized byte at a known position.
// The lexer does not recover; repeating the failed call fails identically.
type Error struct {
	Byte byte
	Pos  ast.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error: unrecognized byte %q at %s", e.Byte, e.Pos)
}

// Lexer holds all state required to tokenise a single source buffer.
// Create one with [New]; never copy a Lexer after first use.
type Lexer struct {
	input   []byte // the borrowed source buffer
	pos     int    // current read position (index of ch)
	readPos int    // next read position (pos + 1)
	ch      byte   // current byte under examination; 0 at end of input

	line int // current 1-based line number
	col  int // 1-based column of ch
}

// New creates a [Lexer] over the given buffer. The buffer is borrowed for the
// lifetime of the lexer. The lexer is positioned at the first byte; call
// [Lexer.Next] immediately to begin scanning.
func New(input []byte) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar() // prime: set l.ch = input[0]
	return l
}

// Next returns the next token from the input.
//
// Whitespace and comments are skipped before each token. When the input is
// exhausted, Next returns an [ast.EOS] token on every subsequent call. An
// unrecognized byte yields a zero token and an [*Error]; the cursor is not
// advanced past the offending byte.
func (l *Lexer) Next() (ast.Token, error) {
	l.skipWhitespaceAndComments()

	pos := l.position()

	switch l.ch {
	case 0:
		return ast.Token{Type: ast.EOS, Pos: pos}, nil

	case '#':
		return l.readPreprocessor(), nil

	case '(':
		return l.emitBracket(ast.LeftParenthesis, pos), nil
	case ')':
		return l.emitBracket(ast.RightParenthesis, pos), nil
	case '{':
		return l.emitBracket(ast.LeftCurlyBracket, pos), nil
	case '}':
		return l.emitBracket(ast.RightCurlyBracket, pos), nil

	case ',':
		l.readChar()
		return ast.Token{Type: ast.COMMA, Pos: pos}, nil
	case ';':
		l.readChar()
		return ast.Token{Type: ast.SEMICOLON, Pos: pos}, nil

	case '+':
		return l.emitOperator(ast.Add, pos), nil
	case '-':
		return l.emitOperator(ast.Minus, pos), nil
	case '*':
		return l.emitOperator(ast.Mul, pos), nil
	case '/':
		// Comments were already skipped, so this is plain division.
		return l.emitOperator(ast.Division, pos), nil
	case '~':
		return l.emitOperator(ast.Not, pos), nil

	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			return l.emitOperator(ast.Equal, pos), nil
		}
		return l.emitOperator(ast.Assign, pos), nil
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			return l.emitOperator(ast.NotEqual, pos), nil
		}
		return l.emitOperator(ast.LogicNot, pos), nil
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			return l.emitOperator(ast.GreaterEqual, pos), nil
		}
		return l.emitOperator(ast.Greater, pos), nil
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			return l.emitOperator(ast.LessEqual, pos), nil
		}
		return l.emitOperator(ast.Less, pos), nil

	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			return l.emitOperator(ast.LogicAnd, pos), nil
		}
		return ast.Token{}, &Error{Byte: l.ch, Pos: pos}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			return l.emitOperator(ast.LogicOr, pos), nil
		}
		return ast.Token{}, &Error{Byte: l.ch, Pos: pos}

	default:
		if isLetter(l.ch) {
			return l.readIdentOrKeyWord(), nil
		}
		if isDigit(l.ch) {
			return l.readNumber(), nil
		}
		return ast.Token{}, &Error{Byte: l.ch, Pos: pos}
	}
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// readChar advances the lexer by one byte.
// When the input is exhausted l.ch is set to 0 (the null byte sentinel).
// Line and column counters are updated here; col is 1-based.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next byte without consuming it.
// Returns 0 when the end of input has been reached.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// position captures the source position of l.ch.
func (l *Lexer) position() ast.Position {
	return ast.Position{Offset: l.pos, Line: l.line, Col: l.col}
}

// emitOperator builds an operator token at pos and advances past l.ch.
// Two-byte operators must consume their first byte before calling this.
func (l *Lexer) emitOperator(op ast.Operator, pos ast.Position) ast.Token {
	l.readChar()
	return ast.Token{Type: ast.OPERATOR, Operator: op, Pos: pos}
}

// emitBracket builds a bracket token at pos and advances past l.ch.
func (l *Lexer) emitBracket(b ast.Bracket, pos ast.Position) ast.Token {
	l.readChar()
	return ast.Token{Type: ast.BRACKET, Bracket: b, Pos: pos}
}

// skipWhitespaceAndComments advances past all whitespace and any line or
// block comments before the next meaningful byte.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\n', '\f':
			l.readChar()
		case '/':
			switch l.peekChar() {
			case '/':
				for l.ch != '\n' && l.ch != 0 {
					l.readChar()
				}
			case '*':
				l.readChar() // consume '/'
				l.readChar() // consume '*'
				for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
					l.readChar()
				}
				if l.ch != 0 {
					l.readChar() // consume '*'
					l.readChar() // consume '/'
				}
			default:
				return // lone '/' is the division operator
			}
		default:
			return
		}
	}
}

// readPreprocessor scans a '#' line. The payload is the exact source text up
// to (not including) the line break, with a trailing '\r' stripped.
func (l *Lexer) readPreprocessor() ast.Token {
	pos := l.position()
	start := l.pos

	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}

	text := l.input[start:l.pos]
	if len(text) > 0 && text[len(text)-1] == '\r' {
		text = text[:len(text)-1]
	}
	return ast.Token{Type: ast.PREPROCESSOR, Text: string(text), Pos: pos}
}

// readIdentOrKeyWord scans a maximal identifier run and classifies it against
// the keyword table. The cursor is left on the first byte past the run, so
// the caller must not advance again.
func (l *Lexer) readIdentOrKeyWord() ast.Token {
	pos := l.position()
	start := l.pos

	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}

	text := string(l.input[start:l.pos])
	if k, ok := ast.LookupKeyWord(text); ok {
		return ast.Token{Type: ast.KEYWORD, KeyWord: k, Pos: pos}
	}
	return ast.Token{Type: ast.IDENT, Text: text, Pos: pos}
}

// readNumber scans a maximal run of decimal digits. The digits are kept as
// text; numeric conversion is deferred to later phases.
func (l *Lexer) readNumber() ast.Token {
	pos := l.position()
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	return ast.Token{Type: ast.NUMBER, Text: string(l.input[start:l.pos]), Pos: pos}
}

// isLetter reports whether b can start or continue an identifier.
// Identifiers follow the pattern [a-zA-Z_][a-zA-Z0-9_]*.
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b == '_'
}

// isDigit reports whether b is an ASCII decimal digit (0-9).
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
