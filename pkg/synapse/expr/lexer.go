package expr

import (
	"errors"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// exprLexer tokenizes expression source. Multi-character operators must be
// listed before the single-character class so the regexp alternation picks
// them first.
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Float", Pattern: `[0-9]+\.[0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "String", Pattern: `"(\\.|[^"])*"|'(\\.|[^'])*'`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Op", Pattern: `&&|\|\||==|!=|<=|>=|\+=|-=|\*=|/=|[-+*/%<>!?:=.()\[\]]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var symbolNames = invertSymbols(exprLexer.Symbols())

// token is a single lexed token with its byte offset in the source
type token struct {
	kind string
	text string
	pos  int
}

const tokenEOF = "EOF"

// invertSymbols maps participle token types back to their rule names
func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	names := make(map[lexer.TokenType]string, len(symbols))
	for name, typ := range symbols {
		names[typ] = name
	}
	return names
}

// lexExpression tokenizes the source, dropping whitespace
func lexExpression(source string) ([]token, error) {
	lex, err := exprLexer.LexString("", source)
	if err != nil {
		return nil, lexErrorToEval(err)
	}

	var tokens []token
	for {
		raw, err := lex.Next()
		if err != nil {
			return nil, lexErrorToEval(err)
		}
		if raw.EOF() {
			break
		}

		kind := symbolNames[raw.Type]
		if kind == "Whitespace" {
			continue
		}

		tokens = append(tokens, token{
			kind: kind,
			text: raw.Value,
			pos:  raw.Pos.Offset,
		})
	}

	return tokens, nil
}

// lexErrorToEval converts a participle lexing failure into an EvalError,
// preserving the source offset when the underlying error carries one
func lexErrorToEval(err error) *EvalError {
	var perr participle.Error
	if errors.As(err, &perr) {
		return newEvalError(perr.Position().Offset, ParseError, "%s", perr.Message())
	}
	return newEvalError(0, ParseError, "%s", err.Error())
}
