// Command minic reads a C source file, parses it and prints the resulting
// syntax tree. With -tokens it stops after lexing and prints the token
// stream instead, which is handy for debugging the scanner.
//
// Usage:
//
//	minic [-tokens] [file]
//
// When no file is given, source is read from standard input.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/minic-lang/minic/ast"
	"github.com/minic-lang/minic/lexer"
	"github.com/minic-lang/minic/parser"
)

func main() {
	tokensFlag := flag.Bool("tokens", false, "print the token stream instead of the syntax tree")
	flag.Parse()

	src, name, err := readSource(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "minic: %v\n", err)
		os.Exit(1)
	}

	if *tokensFlag {
		if err := dumpTokens(os.Stdout, src); err != nil {
			fmt.Fprintf(os.Stderr, "minic: %s: %v\n", name, err)
			os.Exit(1)
		}
		return
	}

	p := parser.New(lexer.New(src))
	if err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "minic: %s: %v\n", name, err)
		os.Exit(1)
	}
	p.Dump(os.Stdout)
}

// readSource loads the named file, or standard input when path is empty.
func readSource(path string) ([]byte, string, error) {
	if path == "" {
		src, err := io.ReadAll(os.Stdin)
		return src, "<stdin>", err
	}
	src, err := os.ReadFile(path)
	return src, path, err
}

// dumpTokens lexes src to exhaustion, printing one token per line with its
// position.
func dumpTokens(w io.Writer, src []byte) error {
	l := lexer.New(src)
	for {
		tok, err := l.Next()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", tok.Pos, tok)
		if tok.Type == ast.EOS {
			return nil
		}
	}
}
