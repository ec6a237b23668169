package dice

import (
	"fmt"
	"strconv"

	"github.com/sfines/sdd-process-example/internal/model"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenInt
	tokenDie // the 'd' separating count from sides
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLParen
	tokenRParen
)

type token struct {
	kind  tokenKind
	value int
	pos   int
}

func (t token) String() string {
	switch t.kind {
	case tokenEOF:
		return "end of formula"
	case tokenInt:
		return strconv.Itoa(t.value)
	case tokenDie:
		return "'d'"
	case tokenPlus:
		return "'+'"
	case tokenMinus:
		return "'-'"
	case tokenStar:
		return "'*'"
	case tokenSlash:
		return "'/'"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	}
	return "unknown token"
}

// tokenize splits a formula into tokens. Whitespace is dropped.
func tokenize(formula string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(formula); {
		c := formula[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9':
			start := i
			for i < len(formula) && formula[i] >= '0' && formula[i] <= '9' {
				i++
			}
			v, err := strconv.Atoi(formula[start:i])
			if err != nil {
				return nil, model.NewFormulaError(fmt.Sprintf("number too large at position %d", start+1))
			}
			tokens = append(tokens, token{kind: tokenInt, value: v, pos: start})
		default:
			kind, ok := punctuation[c]
			if !ok {
				return nil, model.NewFormulaError(fmt.Sprintf("unexpected character %q at position %d", c, i+1))
			}
			tokens = append(tokens, token{kind: kind, pos: i})
			i++
		}
	}
	return append(tokens, token{kind: tokenEOF, pos: len(formula)}), nil
}

var punctuation = map[byte]tokenKind{
	'd': tokenDie,
	'+': tokenPlus,
	'-': tokenMinus,
	'*': tokenStar,
	'/': tokenSlash,
	'(': tokenLParen,
	')': tokenRParen,
}
