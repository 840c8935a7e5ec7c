// Syntax-tree node model.
//
// The tree is homogeneous: every node is a *Node carrying a NodeKind tag and
// an ordered child list. Terminal nodes wrap exactly one Token and never have
// children; whether a node is a leaf is decided by its kind, not by an empty
// child list (several non-terminals legitimately have zero children, e.g. an
// empty statement block or an omitted for-loop clause).
//
// Child order is significant and mirrors the grammar production after
// left-recursion elimination: expression nodes store operands and operator
// terminals interleaved left-to-right, [B0, op1, B1, op2, B2, ...].
package ast

import (
	"fmt"
	"io"
	"strings"
)

// NodeKind identifies the grammar production a node was built from.
type NodeKind int

const (
	// Terminal wraps exactly one token.
	Terminal NodeKind = iota
	// TranslationUnit is the root: top-level declarations and definitions
	// in source order.
	TranslationUnit
	// FuncDefine is a function definition: return-type terminals, name
	// terminal, FuncArg nodes, then the body statements.
	FuncDefine
	// FuncDeclare is a function declaration: like FuncDefine without a body.
	FuncDeclare
	// FuncArg is one parameter: type terminals followed by the name terminal.
	FuncArg
	// VariableDefine is a declaration: type terminals followed by one or
	// more identifier terminals.
	VariableDefine
	// StructDefine is a struct: optional name terminal, then VariableDefine
	// members.
	StructDefine
	// StmtBlock is a brace-delimited statement list; it is also the
	// zero-child placeholder for the empty statement.
	StmtBlock
	// IfStmt holds condition, then-statement, else-statement.
	IfStmt
	// WhileLoop holds condition and body.
	WhileLoop
	// ForLoop holds init, condition, step and body; omitted clauses are
	// empty Expr nodes.
	ForLoop
	// AssignStmt holds the target identifier terminal and the value.
	AssignStmt
	// ReturnStmt holds the optional return value.
	ReturnStmt
	// BreakStmt has no children.
	BreakStmt
	// Expr is one arithmetic precedence level, operands and operator
	// terminals interleaved.
	Expr
	// BoolExpr is one boolean precedence level, same layout as Expr; a '!'
	// prefix yields a BoolExpr of [Terminal(LogicNot), operand].
	BoolExpr
)

var nodeKindNames = [...]string{
	Terminal:        "Terminal",
	TranslationUnit: "TranslationUnit",
	FuncDefine:      "FuncDefine",
	FuncDeclare:     "FuncDeclare",
	FuncArg:         "FuncArg",
	VariableDefine:  "VariableDefine",
	StructDefine:    "StructDefine",
	StmtBlock:       "StmtBlock",
	IfStmt:          "IfStmt",
	WhileLoop:       "WhileLoop",
	ForLoop:         "ForLoop",
	AssignStmt:      "AssignStmt",
	ReturnStmt:      "ReturnStmt",
	BreakStmt:       "BreakStmt",
	Expr:            "Expr",
	BoolExpr:        "BoolExpr",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// Node is one syntax-tree node. Token is meaningful only when Kind is
// Terminal; Children is always nil for terminals.
type Node struct {
	Kind     NodeKind
	Token    Token
	Children []*Node
}

// NewNode creates a non-terminal node with the given children.
func NewNode(kind NodeKind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// NewTerminal creates a leaf node wrapping tok.
func NewTerminal(tok Token) *Node {
	return &Node{Kind: Terminal, Token: tok}
}

// Add appends children in order.
func (n *Node) Add(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// IsTerminal reports whether the node is a leaf wrapping a token.
func (n *Node) IsTerminal() bool {
	return n.Kind == Terminal
}

// String renders a single node (not its subtree): the kind name for
// non-terminals, Terminal(<token>) for leaves.
func (n *Node) String() string {
	if n.Kind == Terminal {
		return fmt.Sprintf("Terminal(%s)", n.Token)
	}
	return n.Kind.String()
}

// SyntaxTree is the result of a successful parse: a single TranslationUnit
// root owning the forest of top-level items. The tree is not mutated after
// the parser hands it out.
type SyntaxTree struct {
	Root *Node
}

// Dump writes a depth-first textual rendering of the tree, one line per node,
// indented two spaces per depth level. The traversal is iterative with an
// explicit stack so that deeply nested input cannot exhaust the call stack
// here even when it strained the parser.
func (t *SyntaxTree) Dump(w io.Writer) {
	if t == nil || t.Root == nil {
		return
	}

	type frame struct {
		node  *Node
		depth int
	}
	stack := []frame{{t.Root, 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", f.depth), f.node)

		// Push children in reverse so the leftmost child is visited first.
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.node.Children[i], f.depth + 1})
		}
	}
}
