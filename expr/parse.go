// Package expr parses and evaluates FRep expressions: a small fixed
// vocabulary of arithmetic, comparison and element-wise boolean
// operators over the free variables X, Y and Z, plus a family of
// transcendental functions that may be spelled with or without a
// "math." qualifier.
//
// The same expression text feeds two execution models. Parse/Eval give
// the vectorized in-process form with dynamically typed operands, and
// Translate produces the scalar C form compiled by the native backend.
package expr

import (
	"fmt"
	"strings"

	frep "github.com/IdeaLab-Design-Environments-Group/iFRep"
)

// syntaxErrf builds a parse-stage error. Syntax problems mean the text
// is outside the documented vocabulary, so they wrap
// frep.ErrUnsupportedExpression.
func syntaxErrf(format string, args ...any) error {
	return fmt.Errorf("expr: "+format+": %w", append(args, frep.ErrUnsupportedExpression)...)
}

// Expr is a parsed expression ready for repeated evaluation.
type Expr struct {
	root node
	src  string
}

// Source returns the original expression text.
func (e *Expr) Source() string { return e.src }

// AST node kinds. Evaluation walks these with a type switch.
type node interface{ isNode() }

type numberNode struct{ val Value }

type nameNode struct{ name string }

type callNode struct {
	fn   string
	args []node
}

type unaryNode struct {
	op      tokKind
	operand node
}

type binaryNode struct {
	op       tokKind
	lhs, rhs node
}

func (numberNode) isNode() {}
func (nameNode) isNode()   {}
func (callNode) isNode()   {}
func (unaryNode) isNode()  {}
func (binaryNode) isNode() {}

// Parse parses an expression over the documented vocabulary.
//
// The precedence ladder matches the array-evaluation language the
// expressions were written for (loosest to tightest): comparison, then
// |, then &, then + -, then * /, then unary - + ~, then right-
// associative **. Note that comparisons bind LOOSER than & and |, which
// is why FRep expressions parenthesize every comparison; a chained
// comparison (a < b < c) is rejected outright.
func Parse(src string) (*Expr, error) {
	p := &parser{lex: &lexer{src: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	root, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, syntaxErrf("unexpected %q at offset %d", p.tok.text, p.tok.pos)
	}
	return &Expr{root: root, src: src}, nil
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func isComparison(k tokKind) bool {
	switch k {
	case tokLT, tokLE, tokGT, tokGE, tokEQ, tokNE:
		return true
	}
	return false
}

func (p *parser) parseComparison() (node, error) {
	lhs, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	if !isComparison(p.tok.kind) {
		return lhs, nil
	}
	op := p.tok.kind
	if err := p.advance(); err != nil {
		return nil, err
	}
	rhs, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	if isComparison(p.tok.kind) {
		return nil, syntaxErrf("chained comparison at offset %d (parenthesize each comparison)", p.tok.pos)
	}
	return binaryNode{op: op, lhs: lhs, rhs: rhs}, nil
}

func (p *parser) parseBitOr() (node, error) {
	lhs, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		lhs = binaryNode{op: tokOr, lhs: lhs, rhs: rhs}
	}
	return lhs, nil
}

func (p *parser) parseBitAnd() (node, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		lhs = binaryNode{op: tokAnd, lhs: lhs, rhs: rhs}
	}
	return lhs, nil
}

func (p *parser) parseAdditive() (node, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := p.tok.kind
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = binaryNode{op: op, lhs: lhs, rhs: rhs}
	}
	return lhs, nil
}

func (p *parser) parseTerm() (node, error) {
	lhs, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokStar || p.tok.kind == tokSlash {
		op := p.tok.kind
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		lhs = binaryNode{op: op, lhs: lhs, rhs: rhs}
	}
	return lhs, nil
}

// parseFactor handles the unary prefixes. They bind looser than **, so
// -X**2 negates the square.
func (p *parser) parseFactor() (node, error) {
	switch p.tok.kind {
	case tokPlus, tokMinus, tokNot:
		op := p.tok.kind
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return unaryNode{op: op, operand: operand}, nil
	}
	return p.parsePower()
}

// parsePower parses atom ['**' factor]; taking a factor on the right
// makes chains like a**b**c associate to the right and admits a unary
// sign in the exponent.
func (p *parser) parsePower() (node, error) {
	lhs, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokPow {
		return lhs, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	rhs, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	return binaryNode{op: tokPow, lhs: lhs, rhs: rhs}, nil
}

func (p *parser) parseAtom() (node, error) {
	switch p.tok.kind {
	case tokNumber:
		t := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		if t.isInt {
			return numberNode{val: IntValue(t.i)}, nil
		}
		return numberNode{val: FloatValue(t.f)}, nil

	case tokIdent:
		// One qualifier level is accepted and stripped, so math.sqrt
		// and sqrt resolve identically.
		name := strings.TrimPrefix(p.tok.text, "math.")
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokLParen {
			return nameNode{name: name}, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		var args []node
		if p.tok.kind != tokRParen {
			for {
				arg, err := p.parseComparison()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.tok.kind != tokComma {
					break
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if p.tok.kind != tokRParen {
			return nil, syntaxErrf("missing ) in call to %s at offset %d", name, p.tok.pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return callNode{fn: name, args: args}, nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, syntaxErrf("missing ) at offset %d", p.tok.pos)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return inner, nil

	case tokEOF:
		return nil, syntaxErrf("unexpected end of expression at offset %d", p.tok.pos)

	default:
		return nil, syntaxErrf("unexpected %q at offset %d", p.tok.text, p.tok.pos)
	}
}
