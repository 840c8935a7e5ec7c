// Package ast defines the token model and the syntax-tree node model shared by
// the minic lexer and parser.
//
// Tokens are the smallest meaningful units of a C source buffer. Every token
// carries its category, the kind within that category (keyword, operator or
// bracket), the exact source text for the payload-bearing categories
// (preprocessor lines, identifiers, numbers), and its source position.
// Position is 1-based: the first byte of a buffer is Line 1, Col 1.
package ast

import "fmt"

// TokenType identifies the category of a scanned token.
type TokenType int

const (
	// EOS marks the end of the input stream. The lexer emits it once the
	// buffer is exhausted and keeps emitting it on every later call; the
	// parser stops when it sees EOS.
	EOS TokenType = iota
	// PREPROCESSOR is the raw text of a line beginning with '#'. The payload
	// is kept verbatim and never interpreted.
	PREPROCESSOR
	// KEYWORD is one of the reserved words; the kind is in Token.KeyWord.
	KEYWORD
	// IDENT is an identifier: [a-zA-Z_][a-zA-Z0-9_]* that is not a keyword.
	IDENT
	// NUMBER is a maximal run of decimal digits, stored as text. No numeric
	// conversion happens during lexing or parsing.
	NUMBER
	// OPERATOR is an arithmetic, assignment, comparison, equality, logical
	// or bitwise-unary operator; the kind is in Token.Operator.
	OPERATOR
	// BRACKET is one of ( ) { }; the kind is in Token.Bracket.
	BRACKET
	// COMMA is the list separator ','.
	COMMA
	// SEMICOLON is the statement and declaration terminator ';'.
	SEMICOLON
)

// KeyWord identifies a reserved word.
type KeyWord int

const (
	If KeyWord = iota
	Else
	For
	While
	Return
	Break
	Int
	Short
	Long
	Unsigned
	Signed
	Float
	Double
	Struct
)

var keyWordNames = [...]string{
	If:       "If",
	Else:     "Else",
	For:      "For",
	While:    "While",
	Return:   "Return",
	Break:    "Break",
	Int:      "Int",
	Short:    "Short",
	Long:     "Long",
	Unsigned: "Unsigned",
	Signed:   "Signed",
	Float:    "Float",
	Double:   "Double",
	Struct:   "Struct",
}

func (k KeyWord) String() string {
	if int(k) < len(keyWordNames) {
		return keyWordNames[k]
	}
	return "Unknown"
}

// IsType reports whether the keyword can appear in a variable type, i.e. one
// of int, short, long, unsigned, signed, float, double.
func (k KeyWord) IsType() bool {
	switch k {
	case Int, Short, Long, Unsigned, Signed, Float, Double:
		return true
	}
	return false
}

// keyWords maps the literal text of every reserved word to its KeyWord kind.
// The lexer consults this map when it finishes scanning an identifier.
var keyWords = map[string]KeyWord{
	"if":       If,
	"else":     Else,
	"for":      For,
	"while":    While,
	"return":   Return,
	"break":    Break,
	"int":      Int,
	"short":    Short,
	"long":     Long,
	"unsigned": Unsigned,
	"signed":   Signed,
	"float":    Float,
	"double":   Double,
	"struct":   Struct,
}

// LookupKeyWord checks whether ident is a reserved word and returns the
// corresponding kind. The second result is false for plain identifiers.
func LookupKeyWord(ident string) (KeyWord, bool) {
	k, ok := keyWords[ident]
	return k, ok
}

// Operator identifies an operator kind.
type Operator int

const (
	Add Operator = iota
	Minus
	Mul
	Division
	Assign
	Greater
	GreaterEqual
	Less
	LessEqual
	Equal
	NotEqual
	LogicAnd
	LogicOr
	LogicNot
	// Not is the bitwise complement '~'.
	Not
)

var operatorNames = [...]string{
	Add:          "Add",
	Minus:        "Minus",
	Mul:          "Mul",
	Division:     "Division",
	Assign:       "Assign",
	Greater:      "Greater",
	GreaterEqual: "GreaterEqual",
	Less:         "Less",
	LessEqual:    "LessEqual",
	Equal:        "Equal",
	NotEqual:     "NotEqual",
	LogicAnd:     "LogicAnd",
	LogicOr:      "LogicOr",
	LogicNot:     "LogicNot",
	Not:          "Not",
}

func (o Operator) String() string {
	if int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return "Unknown"
}

// Bracket identifies a bracket kind.
type Bracket int

const (
	LeftParenthesis Bracket = iota
	RightParenthesis
	LeftCurlyBracket
	RightCurlyBracket
)

var bracketNames = [...]string{
	LeftParenthesis:   "LeftParenthesis",
	RightParenthesis:  "RightParenthesis",
	LeftCurlyBracket:  "LeftCurlyBracket",
	RightCurlyBracket: "RightCurlyBracket",
}

func (b Bracket) String() string {
	if int(b) < len(bracketNames) {
		return bracketNames[b]
	}
	return "Unknown"
}

// Position describes where a token starts in the source buffer.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based line number
	Col    int // 1-based column of the first byte
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a single lexical unit produced by the lexer.
//
// Type selects the category. KeyWord, Operator and Bracket are meaningful
// only when Type is the matching category; Text holds the exact matched
// substring for PREPROCESSOR, IDENT and NUMBER tokens and is empty otherwise.
type Token struct {
	Type     TokenType
	KeyWord  KeyWord
	Operator Operator
	Bracket  Bracket
	Text     string
	Pos      Position
}

// String renders the token as variant name plus payload, e.g. KeyWord(Int),
// Operator(Assign), Number("1"). This form is part of the observable contract
// and is relied on by golden-output tests and the tree dump.
func (t Token) String() string {
	switch t.Type {
	case EOS:
		return "EndOfStream"
	case PREPROCESSOR:
		return fmt.Sprintf("Preprocessor(%q)", t.Text)
	case KEYWORD:
		return fmt.Sprintf("KeyWord(%s)", t.KeyWord)
	case IDENT:
		return fmt.Sprintf("Identifier(%q)", t.Text)
	case NUMBER:
		return fmt.Sprintf("Number(%q)", t.Text)
	case OPERATOR:
		return fmt.Sprintf("Operator(%s)", t.Operator)
	case BRACKET:
		return fmt.Sprintf("Bracket(%s)", t.Bracket)
	case COMMA:
		return "Comma"
	case SEMICOLON:
		return "Semicolon"
	}
	return "Unknown"
}
