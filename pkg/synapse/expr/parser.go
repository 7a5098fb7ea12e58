package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// parser is a recursive-descent parser over the lexed token stream, one
// function per precedence level. Assignment binds loosest and associates to
// the right, postfix access binds tightest.
type parser struct {
	tokens []token
	pos    int
	end    int
}

// parseSource lexes and parses a complete expression
func parseSource(source string) (Node, error) {
	tokens, err := lexExpression(source)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, end: len(source)}
	node, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.kind != tokenEOF {
		return nil, newEvalError(tok.pos, ParseError, "unexpected token %q after expression", tok.text)
	}
	return node, nil
}

func (p *parser) current() token {
	if p.pos >= len(p.tokens) {
		return token{kind: tokenEOF, pos: p.end}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// matchOp consumes the current token when it is one of the given operators
func (p *parser) matchOp(ops ...string) (token, bool) {
	tok := p.current()
	if tok.kind != "Op" {
		return token{}, false
	}
	for _, op := range ops {
		if tok.text == op {
			p.pos++
			return tok, true
		}
	}
	return token{}, false
}

func (p *parser) expectOp(op string) (token, error) {
	tok := p.current()
	if tok.kind != "Op" || tok.text != op {
		return token{}, newEvalError(tok.pos, ParseError, "expected %q, got %s", op, describeToken(tok))
	}
	p.pos++
	return tok, nil
}

func describeToken(tok token) string {
	if tok.kind == tokenEOF {
		return "end of expression"
	}
	return fmt.Sprintf("%q", tok.text)
}

func (p *parser) parseAssign() (Node, error) {
	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.matchOp("=", "+=", "-=", "*=", "/="); ok {
		value, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &assignNode{pos: tok.pos, op: tok.text, target: left, value: value}, nil
	}
	return left, nil
}

func (p *parser) parseTernary() (Node, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	tok, ok := p.matchOp("?")
	if !ok {
		return cond, nil
	}

	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectOp(":"); err != nil {
		return nil, err
	}
	els, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &ternaryNode{pos: tok.pos, cond: cond, then: then, els: els}, nil
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.matchOp("||")
		if !ok {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{pos: tok.pos, op: tok.text, left: left, right: right}
	}
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.matchOp("&&")
		if !ok {
			return left, nil
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{pos: tok.pos, op: tok.text, left: left, right: right}
	}
}

func (p *parser) parseEquality() (Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.matchOp("==", "!=")
		if !ok {
			return left, nil
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{pos: tok.pos, op: tok.text, left: left, right: right}
	}
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.matchOp("<", "<=", ">", ">=")
		if !ok {
			return left, nil
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{pos: tok.pos, op: tok.text, left: left, right: right}
	}
}

func (p *parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.matchOp("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{pos: tok.pos, op: tok.text, left: left, right: right}
	}
}

func (p *parser) parseMultiplicative() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.matchOp("*", "/", "%")
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{pos: tok.pos, op: tok.text, left: left, right: right}
	}
}

func (p *parser) parseUnary() (Node, error) {
	if tok, ok := p.matchOp("-", "!"); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{pos: tok.pos, op: tok.text, operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		if tok, ok := p.matchOp("."); ok {
			name := p.current()
			if name.kind != "Ident" {
				return nil, newEvalError(name.pos, ParseError, "expected property name after '.', got %s", describeToken(name))
			}
			p.advance()
			node = &propertyNode{pos: tok.pos, receiver: node, name: name.text}
			continue
		}
		if tok, ok := p.matchOp("["); ok {
			index, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectOp("]"); err != nil {
				return nil, err
			}
			node = &indexNode{pos: tok.pos, receiver: node, index: index}
			continue
		}
		return node, nil
	}
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.current()

	switch tok.kind {
	case "Int":
		p.advance()
		i, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, newEvalError(tok.pos, ParseError, "invalid integer literal %q", tok.text)
		}
		return &literalNode{pos: tok.pos, text: tok.text, value: TypedValueOf(i)}, nil

	case "Float":
		p.advance()
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, newEvalError(tok.pos, ParseError, "invalid float literal %q", tok.text)
		}
		return &literalNode{pos: tok.pos, text: tok.text, value: TypedValueOf(f)}, nil

	case "String":
		p.advance()
		return &literalNode{pos: tok.pos, text: tok.text, value: TypedValueOf(unquoteString(tok.text))}, nil

	case "Ident":
		p.advance()
		switch tok.text {
		case "true":
			return &literalNode{pos: tok.pos, text: tok.text, value: TypedValueOf(true)}, nil
		case "false":
			return &literalNode{pos: tok.pos, text: tok.text, value: TypedValueOf(false)}, nil
		case "null":
			return &literalNode{pos: tok.pos, text: tok.text, value: NullValue}, nil
		}
		return &variableNode{pos: tok.pos, name: tok.text}, nil

	case "Op":
		if tok.text == "(" {
			p.advance()
			node, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectOp(")"); err != nil {
				return nil, err
			}
			return node, nil
		}
	}

	return nil, newEvalError(tok.pos, ParseError, "unexpected %s", describeToken(tok))
}

// unquoteString strips the surrounding quotes from a string literal and
// resolves backslash escapes
func unquoteString(text string) string {
	if len(text) < 2 {
		return text
	}
	body := text[1 : len(text)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(body[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
