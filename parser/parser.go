// Package parser implements the minic recursive-descent parser.
//
// The parser reads a token stream from a [lexer.Lexer] and builds an
// [ast.SyntaxTree] whose root is a TranslationUnit node. Each grammar
// production maps to one parse method; left-recursive productions
// (A -> A op B | B) are realised as a loop that parses one operand and then
// keeps consuming (operator, operand) pairs while the lookahead matches,
// which yields a single flat node per precedence level with children
// [B0, op1, B1, op2, B2, ...] and left associativity by construction.
//
// Usage:
//
//	l := lexer.New(src)
//	p := parser.New(l)
//	if err := p.Run(); err != nil { ... }
//	p.Dump(os.Stdout)
//
// Error handling is fail-fast: the first lexical or syntactic error aborts
// the whole parse and is returned from Run. There is no recovery and no
// partial tree. Internally errors unwind through the descent as a panic with
// a private breakout type, recovered at the top of Run; this keeps the parse
// methods free of error plumbing.
package parser

import (
	"fmt"
	"io"

	"github.com/minic-lang/minic/ast"
	"github.com/minic-lang/minic/lexer"
)

// Error is a syntax error: the current token does not match what the active
// production requires.
type Error struct {
	Expected string    // what the production required, e.g. "Semicolon"
	Found    ast.Token // the token actually seen
	Pos      ast.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error: expected %s, found %s at %s", e.Expected, e.Found, e.Pos)
}

// breakout carries the first error up through the descent.
type breakout struct {
	err error
}

// Parser holds all state needed to parse one token stream.
// Create one with [New] and call [Parser.Run] exactly once.
type Parser struct {
	l    *lexer.Lexer
	cur  ast.Token // current token (the one being examined)
	peek ast.Token // next token (one-token look-ahead)
	tree *ast.SyntaxTree
}

// New creates a Parser that reads tokens from l. The parser takes over the
// lexer; no other consumer may call its Next.
func New(l *lexer.Lexer) *Parser {
	return &Parser{l: l}
}

// Run drives the lexer to completion and builds the syntax tree, or stops at
// the first error. The returned error is a [*Error] for syntax errors or a
// [*lexer.Error] propagated unchanged from the lexer.
func (p *Parser) Run() (err error) {
	defer func() {
		if e := recover(); e != nil {
			b := e.(breakout) // re-panics if not a breakout
			err = b.err
		}
	}()

	// Prime the two-token lookahead.
	p.advance()
	p.advance()

	root := ast.NewNode(ast.TranslationUnit)
	for p.cur.Type != ast.EOS {
		root.Add(p.parseTopLevel())
	}
	p.tree = &ast.SyntaxTree{Root: root}
	return nil
}

// Tree returns the syntax tree built by a successful Run, or nil if Run has
// not completed successfully. The tree is not mutated afterwards.
func (p *Parser) Tree() *ast.SyntaxTree {
	return p.tree
}

// Dump writes the textual rendering of the tree built by a successful Run
// (one line per node, indented by depth). It writes nothing if Run failed or
// was never called.
func (p *Parser) Dump(w io.Writer) {
	p.tree.Dump(w)
}

// ── Internal token management ─────────────────────────────────────────────────

// advance consumes one token from the lexer, shifting peek into cur.
// A lexical error aborts the parse.
func (p *Parser) advance() {
	p.cur = p.peek
	tok, err := p.l.Next()
	if err != nil {
		panic(breakout{err})
	}
	p.peek = tok
}

// fail aborts the parse with an Error at the current token.
func (p *Parser) fail(expected string) {
	panic(breakout{&Error{Expected: expected, Found: p.cur, Pos: p.cur.Pos}})
}

func (p *Parser) curIsKeyWord(k ast.KeyWord) bool {
	return p.cur.Type == ast.KEYWORD && p.cur.KeyWord == k
}

func (p *Parser) curIsOperator(o ast.Operator) bool {
	return p.cur.Type == ast.OPERATOR && p.cur.Operator == o
}

func (p *Parser) curIsAnyOperator(ops ...ast.Operator) bool {
	if p.cur.Type != ast.OPERATOR {
		return false
	}
	for _, o := range ops {
		if p.cur.Operator == o {
			return true
		}
	}
	return false
}

func (p *Parser) curIsBracket(b ast.Bracket) bool {
	return p.cur.Type == ast.BRACKET && p.cur.Bracket == b
}

func (p *Parser) peekIsOperator(o ast.Operator) bool {
	return p.peek.Type == ast.OPERATOR && p.peek.Operator == o
}

// expectKeyWord checks that the current token is the given keyword and
// consumes it, or aborts.
func (p *Parser) expectKeyWord(k ast.KeyWord) {
	if !p.curIsKeyWord(k) {
		p.fail(fmt.Sprintf("KeyWord(%s)", k))
	}
	p.advance()
}

// expectOperator checks that the current token is the given operator and
// consumes it, or aborts.
func (p *Parser) expectOperator(o ast.Operator) {
	if !p.curIsOperator(o) {
		p.fail(fmt.Sprintf("Operator(%s)", o))
	}
	p.advance()
}

// expectBracket checks that the current token is the given bracket and
// consumes it, or aborts.
func (p *Parser) expectBracket(b ast.Bracket) {
	if !p.curIsBracket(b) {
		p.fail(fmt.Sprintf("Bracket(%s)", b))
	}
	p.advance()
}

// expectSemicolon checks that the current token is ';' and consumes it.
func (p *Parser) expectSemicolon() {
	if p.cur.Type != ast.SEMICOLON {
		p.fail("Semicolon")
	}
	p.advance()
}

// expectIdent checks that the current token is an identifier, consumes it
// and returns it as a terminal node.
func (p *Parser) expectIdent() *ast.Node {
	if p.cur.Type != ast.IDENT {
		p.fail("Identifier")
	}
	t := ast.NewTerminal(p.cur)
	p.advance()
	return t
}

// ── Declarations and definitions ──────────────────────────────────────────────

// parseTopLevel parses one translation-unit item: a preprocessor line (kept
// as an opaque terminal), a struct definition, a variable definition, or a
// function declaration/definition.
func (p *Parser) parseTopLevel() *ast.Node {
	switch {
	case p.cur.Type == ast.PREPROCESSOR:
		t := ast.NewTerminal(p.cur)
		p.advance()
		return t
	case p.curIsKeyWord(ast.Struct):
		return p.parseStructDefine()
	default:
		return p.parseDeclaration()
	}
}

// parseDeclaration parses `type name ...` and disambiguates on the token
// after the first name: '(' continues as a function declaration/definition,
// anything else as a variable definition list.
func (p *Parser) parseDeclaration() *ast.Node {
	typ := p.parseTypeSpec()
	name := p.expectIdent()

	if p.curIsBracket(ast.LeftParenthesis) {
		return p.parseFuncTail(typ, name)
	}
	return p.parseVariableTail(typ, name)
}

// parseTypeSpec parses a variable type: either a non-empty run of integer
// type keywords (`unsigned int`, `long long`) or a standalone `float` or
// `double`. Floating-point keywords never combine with a prefix run, so
// `signed double` is a syntax error here; which integer combinations are
// legal C is still left to later phases.
func (p *Parser) parseTypeSpec() []*ast.Node {
	var nodes []*ast.Node
	for p.cur.Type == ast.KEYWORD && p.cur.KeyWord.IsType() {
		fp := p.cur.KeyWord == ast.Float || p.cur.KeyWord == ast.Double
		if fp && len(nodes) > 0 {
			p.fail("Identifier")
		}
		nodes = append(nodes, ast.NewTerminal(p.cur))
		p.advance()
		if fp {
			// float/double complete the type on their own.
			break
		}
	}
	if len(nodes) == 0 {
		p.fail("type keyword")
	}
	return nodes
}

// parseVariableTail finishes a VariableDefine after the type and first name:
// a comma-separated list of further identifiers, terminated by ';'.
func (p *Parser) parseVariableTail(typ []*ast.Node, name *ast.Node) *ast.Node {
	node := ast.NewNode(ast.VariableDefine, typ...)
	node.Add(name)
	for p.cur.Type == ast.COMMA {
		p.advance()
		node.Add(p.expectIdent())
	}
	p.expectSemicolon()
	return node
}

// parseVariableDefine parses a full `type name [, name]* ;` declaration.
// Used for struct members, where the function alternative does not exist.
func (p *Parser) parseVariableDefine() *ast.Node {
	typ := p.parseTypeSpec()
	name := p.expectIdent()
	return p.parseVariableTail(typ, name)
}

// parseFuncTail finishes a function item after `type name`: the argument
// list, then either ';' (FuncDeclare) or a braced body (FuncDefine). The two
// forms share everything up to the closing ')' and are disambiguated by the
// single token after it.
func (p *Parser) parseFuncTail(typ []*ast.Node, name *ast.Node) *ast.Node {
	p.expectBracket(ast.LeftParenthesis)

	var args []*ast.Node
	if !p.curIsBracket(ast.RightParenthesis) {
		for {
			argType := p.parseTypeSpec()
			arg := ast.NewNode(ast.FuncArg, argType...)
			arg.Add(p.expectIdent())
			args = append(args, arg)
			if p.cur.Type != ast.COMMA {
				break
			}
			p.advance() // a comma must be followed by another argument
		}
	}
	p.expectBracket(ast.RightParenthesis)

	switch {
	case p.cur.Type == ast.SEMICOLON:
		p.advance()
		decl := ast.NewNode(ast.FuncDeclare, typ...)
		decl.Add(name)
		decl.Add(args...)
		return decl

	case p.curIsBracket(ast.LeftCurlyBracket):
		p.advance()
		def := ast.NewNode(ast.FuncDefine, typ...)
		def.Add(name)
		def.Add(args...)
		for !p.curIsBracket(ast.RightCurlyBracket) && p.cur.Type != ast.EOS {
			def.Add(p.parseStmt())
		}
		p.expectBracket(ast.RightCurlyBracket)
		return def
	}

	p.fail("Semicolon or Bracket(LeftCurlyBracket)")
	return nil
}

// parseStructDefine parses `struct [name] { variable_define... } ;`.
func (p *Parser) parseStructDefine() *ast.Node {
	p.expectKeyWord(ast.Struct)

	node := ast.NewNode(ast.StructDefine)
	if p.cur.Type == ast.IDENT {
		node.Add(ast.NewTerminal(p.cur))
		p.advance()
	}

	p.expectBracket(ast.LeftCurlyBracket)
	for !p.curIsBracket(ast.RightCurlyBracket) && p.cur.Type != ast.EOS {
		node.Add(p.parseVariableDefine())
	}
	p.expectBracket(ast.RightCurlyBracket)
	p.expectSemicolon()
	return node
}

// ── Statements ────────────────────────────────────────────────────────────────

// parseStmt dispatches on the current token to the matching statement
// production.
func (p *Parser) parseStmt() *ast.Node {
	switch {
	case p.curIsBracket(ast.LeftCurlyBracket):
		return p.parseStmtBlock()
	case p.curIsKeyWord(ast.If):
		return p.parseIfStmt()
	case p.curIsKeyWord(ast.While):
		return p.parseWhileLoop()
	case p.curIsKeyWord(ast.For):
		return p.parseForLoop()
	case p.curIsKeyWord(ast.Break):
		p.advance()
		p.expectSemicolon()
		return ast.NewNode(ast.BreakStmt)
	case p.curIsKeyWord(ast.Return):
		return p.parseReturnStmt()
	case p.cur.Type == ast.KEYWORD && p.cur.KeyWord.IsType():
		// Local variable definition, e.g. `int a, b;` at block scope.
		return p.parseVariableDefine()
	case p.cur.Type == ast.SEMICOLON:
		// Empty statement: a zero-child placeholder, not node absence.
		p.advance()
		return ast.NewNode(ast.StmtBlock)
	case p.cur.Type == ast.IDENT && p.peekIsOperator(ast.Assign):
		n := p.parseAssign()
		p.expectSemicolon()
		return n
	}

	p.fail("statement")
	return nil
}

// parseStmtBlock parses `{ stmt... }`; the closing brace must match or the
// parse fails.
func (p *Parser) parseStmtBlock() *ast.Node {
	p.expectBracket(ast.LeftCurlyBracket)
	block := ast.NewNode(ast.StmtBlock)
	for !p.curIsBracket(ast.RightCurlyBracket) && p.cur.Type != ast.EOS {
		block.Add(p.parseStmt())
	}
	p.expectBracket(ast.RightCurlyBracket)
	return block
}

// parseIfStmt parses `if ( bool_expr ) stmt else stmt`. The else branch is
// mandatory in this grammar; its absence is a syntax error, a deliberate
// deviation from standard C.
func (p *Parser) parseIfStmt() *ast.Node {
	p.expectKeyWord(ast.If)
	p.expectBracket(ast.LeftParenthesis)
	cond := p.parseBoolExpr()
	p.expectBracket(ast.RightParenthesis)
	then := p.parseStmt()
	p.expectKeyWord(ast.Else)
	els := p.parseStmt()
	return ast.NewNode(ast.IfStmt, cond, then, els)
}

// parseWhileLoop parses `while ( bool_expr ) stmt`.
func (p *Parser) parseWhileLoop() *ast.Node {
	p.expectKeyWord(ast.While)
	p.expectBracket(ast.LeftParenthesis)
	cond := p.parseBoolExpr()
	p.expectBracket(ast.RightParenthesis)
	body := p.parseStmt()
	return ast.NewNode(ast.WhileLoop, cond, body)
}

// parseForLoop parses `for ( clause ; clause ; clause ) stmt`.
func (p *Parser) parseForLoop() *ast.Node {
	p.expectKeyWord(ast.For)
	p.expectBracket(ast.LeftParenthesis)
	init := p.parseForClause()
	p.expectSemicolon()
	cond := p.parseForClause()
	p.expectSemicolon()
	step := p.parseForClause()
	p.expectBracket(ast.RightParenthesis)
	body := p.parseStmt()
	return ast.NewNode(ast.ForLoop, init, cond, step, body)
}

// parseForClause parses one of the three optional for-loop header clauses.
// An omitted clause (lookahead ';' or ')') yields an empty Expr node; a
// clause starting `identifier =` is an assignment (as in `for (a = 0; ...`);
// anything else is a boolean expression.
func (p *Parser) parseForClause() *ast.Node {
	if p.cur.Type == ast.SEMICOLON || p.curIsBracket(ast.RightParenthesis) {
		return ast.NewNode(ast.Expr)
	}
	if p.cur.Type == ast.IDENT && p.peekIsOperator(ast.Assign) {
		return p.parseAssign()
	}
	return p.parseBoolExpr()
}

// parseReturnStmt parses `return [bool_expr] ;`.
func (p *Parser) parseReturnStmt() *ast.Node {
	p.expectKeyWord(ast.Return)
	if p.cur.Type == ast.SEMICOLON {
		p.advance()
		return ast.NewNode(ast.ReturnStmt)
	}
	value := p.parseBoolExpr()
	p.expectSemicolon()
	return ast.NewNode(ast.ReturnStmt, value)
}

// parseAssign parses `identifier = bool_expr` without a terminator, so it
// serves both the assignment statement and the for-loop header clauses.
func (p *Parser) parseAssign() *ast.Node {
	target := ast.NewTerminal(p.cur)
	p.advance()
	p.expectOperator(ast.Assign)
	value := p.parseBoolExpr()
	return ast.NewNode(ast.AssignStmt, target, value)
}

// ── Expressions ───────────────────────────────────────────────────────────────

// chainFrom implements one precedence level of the left-recursion
// elimination: with left already parsed, it keeps consuming (op, operand)
// pairs while the lookahead is one of ops. If no operator follows, left is
// returned unchanged so single operands do not accumulate wrapper nodes.
func (p *Parser) chainFrom(left *ast.Node, kind ast.NodeKind, operand func() *ast.Node, ops ...ast.Operator) *ast.Node {
	if !p.curIsAnyOperator(ops...) {
		return left
	}
	node := ast.NewNode(kind, left)
	for p.curIsAnyOperator(ops...) {
		node.Add(ast.NewTerminal(p.cur))
		p.advance()
		node.Add(operand())
	}
	return node
}

// parseOpChain parses one full precedence level: first operand, then the
// (op, operand) chain.
func (p *Parser) parseOpChain(kind ast.NodeKind, operand func() *ast.Node, ops ...ast.Operator) *ast.Node {
	return p.chainFrom(operand(), kind, operand, ops...)
}

// parseExpr parses the additive level: expr_mul (('+'|'-') expr_mul)*.
func (p *Parser) parseExpr() *ast.Node {
	return p.parseOpChain(ast.Expr, p.parseExprMul, ast.Add, ast.Minus)
}

// parseExprMul parses the multiplicative level: factor (('*'|'/') factor)*.
func (p *Parser) parseExprMul() *ast.Node {
	return p.parseOpChain(ast.Expr, p.parseExprFactor, ast.Mul, ast.Division)
}

// parseExprFactor parses a parenthesized expression, an identifier or a
// number.
func (p *Parser) parseExprFactor() *ast.Node {
	switch {
	case p.curIsBracket(ast.LeftParenthesis):
		p.advance()
		e := p.parseExpr()
		p.expectBracket(ast.RightParenthesis)
		return e
	case p.cur.Type == ast.IDENT || p.cur.Type == ast.NUMBER:
		t := ast.NewTerminal(p.cur)
		p.advance()
		return t
	}

	p.fail("expression")
	return nil
}

// Boolean expressions form a second cascade below the arithmetic one,
// lowest to highest: '||', '&&', equality, comparison, factor. Every level
// uses the BoolExpr node kind; a bare arithmetic expression is also a valid
// boolean expression and passes through unwrapped, so the BoolExpr kind
// appears exactly where a boolean operator combines operands.

// parseBoolExpr parses the '||' level.
func (p *Parser) parseBoolExpr() *ast.Node {
	return p.parseOpChain(ast.BoolExpr, p.parseBoolExprAnd, ast.LogicOr)
}

// parseBoolExprAnd parses the '&&' level.
func (p *Parser) parseBoolExprAnd() *ast.Node {
	return p.parseOpChain(ast.BoolExpr, p.parseBoolExprEqual, ast.LogicAnd)
}

// parseBoolExprEqual parses the '=='/'!=' level.
func (p *Parser) parseBoolExprEqual() *ast.Node {
	return p.parseOpChain(ast.BoolExpr, p.parseBoolExprCmp, ast.Equal, ast.NotEqual)
}

// parseBoolExprCmp parses the relational level.
func (p *Parser) parseBoolExprCmp() *ast.Node {
	return p.parseOpChain(ast.BoolExpr, p.parseBoolExprFactor,
		ast.Greater, ast.GreaterEqual, ast.Less, ast.LessEqual)
}

// parseBoolExprFactor dispatches on one token of lookahead: '!' negates a
// full boolean expression, '(' groups one, and anything else must parse as a
// plain arithmetic expression. The three cases are prefix-disjoint, so no
// backtracking is needed.
func (p *Parser) parseBoolExprFactor() *ast.Node {
	switch {
	case p.curIsOperator(ast.LogicNot):
		not := ast.NewTerminal(p.cur)
		p.advance()
		return ast.NewNode(ast.BoolExpr, not, p.parseBoolExpr())

	case p.curIsBracket(ast.LeftParenthesis):
		p.advance()
		b := p.parseBoolExpr()
		p.expectBracket(ast.RightParenthesis)
		if b.Kind != ast.BoolExpr {
			// The parenthesized group turned out to be arithmetic, e.g. the
			// `(a + b)` in `(a + b) * c`; resume the arithmetic cascade so a
			// following '*' chains at the multiplication level.
			b = p.continueArithmetic(b)
		}
		return b

	default:
		return p.parseExpr()
	}
}

// continueArithmetic resumes the arithmetic cascade with seed as the
// leftmost operand: first the multiplicative chain, then the additive one,
// preserving precedence for input like `(a + b) * c + d`.
func (p *Parser) continueArithmetic(seed *ast.Node) *ast.Node {
	seed = p.chainFrom(seed, ast.Expr, p.parseExprFactor, ast.Mul, ast.Division)
	return p.chainFrom(seed, ast.Expr, p.parseExprMul, ast.Add, ast.Minus)
}
