package dice

import (
	"fmt"

	"github.com/sfines/sdd-process-example/internal/model"
)

// Limits on a single NdM term
const (
	MaxDiceCount = 100
	MaxDiceSides = 1000
)

// Limits on a whole formula
const (
	MaxFormulaLength = 200
	MaxTotalDice     = 1000
)

// node is an evaluable piece of a parsed formula
type node interface {
	eval(s *evalState) (int, error)
	// fold evaluates the node without rolling anything. constant is false
	// when the value depends on a die.
	fold() (value int, constant bool, err error)
}

type numberNode struct {
	value int
}

type diceNode struct {
	count int
	sides int
}

type binaryNode struct {
	op    tokenKind
	left  node
	right node
}

// Formula is a parsed dice expression, ready to be evaluated any number of times
type Formula struct {
	source string
	root   node
}

// String returns the formula text as given to Parse
func (f *Formula) String() string {
	return f.source
}

// Parse parses formula using the grammar
//
//	expr   := term (('+'|'-') term)*
//	term   := factor (('*'|'/') factor)*
//	factor := dice | number | '(' expr ')'
//	dice   := INT 'd' INT
//
// Dice terms outside 1..100 dice of 1..1000 sides are rejected here, before
// anything is rolled, as are formulas longer than MaxFormulaLength bytes or
// rolling more than MaxTotalDice dice in all.
func Parse(formula string) (*Formula, error) {
	if len(formula) > MaxFormulaLength {
		return nil, model.NewFormulaError(
			fmt.Sprintf("formula is limited to %d characters", MaxFormulaLength))
	}
	tokens, err := tokenize(formula)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 1 {
		return nil, model.NewFormulaError("formula is empty")
	}

	p := &parser{tokens: tokens}
	root, err := p.expr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, unexpected(tok)
	}
	return &Formula{source: formula, root: root}, nil
}

type parser struct {
	tokens []token
	pos    int
	dice   int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if op != tokenPlus && op != tokenMinus {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) term() (node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().kind
		if op != tokenStar && op != tokenSlash {
			return left, nil
		}
		p.next()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) factor() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenInt:
		if p.peek().kind != tokenDie {
			return &numberNode{value: tok.value}, nil
		}
		p.next()
		sides := p.next()
		if sides.kind != tokenInt {
			return nil, unexpected(sides)
		}
		return p.diceNode(tok.value, sides.value)
	case tokenLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, unexpected(closing)
		}
		return inner, nil
	default:
		return nil, unexpected(tok)
	}
}

func (p *parser) diceNode(count, sides int) (node, error) {
	if count > MaxDiceCount || sides > MaxDiceSides {
		return nil, model.NewFormulaError(
			fmt.Sprintf("dice count and sides are limited to %dd%d", MaxDiceCount, MaxDiceSides))
	}
	if count < 1 || sides < 1 {
		return nil, model.NewFormulaError(
			fmt.Sprintf("%dd%d: dice count and sides must be at least 1", count, sides))
	}
	p.dice += count
	if p.dice > MaxTotalDice {
		return nil, model.NewFormulaError(
			fmt.Sprintf("formula rolls more than %d dice", MaxTotalDice))
	}
	return &diceNode{count: count, sides: sides}, nil
}

func unexpected(tok token) error {
	if tok.kind == tokenEOF {
		return model.NewFormulaError("unexpected end of formula")
	}
	return model.NewFormulaError(fmt.Sprintf("unexpected %s at position %d", tok, tok.pos+1))
}
