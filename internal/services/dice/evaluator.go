package dice

import (
	"errors"
	"math"

	"github.com/sfines/sdd-process-example/internal/dependencies/random"
	"github.com/sfines/sdd-process-example/internal/model"
)

var (
	errDivisionByZero = model.NewFormulaError("division by zero")
	errOverflow       = model.NewFormulaError("result out of range")
)

// Result is the outcome of evaluating a formula
type Result struct {
	Total int
	// Rolls holds every die drawn, in evaluation order
	Rolls []int
}

// Sum of the individual dice, i.e. the total without modifiers
func (r *Result) Sum() int {
	sum := 0
	for _, v := range r.Rolls {
		sum += v
	}
	return sum
}

// Evaluator rolls dice formulas using an injected random source
type Evaluator struct {
	random random.Random
}

func New(rnd random.Random) *Evaluator {
	return &Evaluator{random: rnd}
}

// Evaluate parses and rolls formula
func (e *Evaluator) Evaluate(formula string) (*Result, error) {
	f, err := Parse(formula)
	if err != nil {
		return nil, err
	}
	return e.Roll(f)
}

// Roll evaluates an already parsed formula
func (e *Evaluator) Roll(f *Formula) (*Result, error) {
	s := &evalState{random: e.random}
	total, err := f.root.eval(s)
	if err != nil {
		return nil, err
	}
	rolls := s.rolls
	if rolls == nil {
		rolls = []int{}
	}
	return &Result{Total: total, Rolls: rolls}, nil
}

// Validate reports whether formula is well formed and within limits. Nothing
// is rolled. Division by a constant zero is rejected; a divisor that depends
// on dice can only fail when rolled. Overflow is likewise only caught by Roll
// when the operands depend on dice, so "100d1000*9223372036854775807"
// validates but always fails to roll.
func (e *Evaluator) Validate(formula string) bool {
	return Validate(formula)
}

// Validate is the package level form of Evaluator.Validate
func Validate(formula string) bool {
	f, err := Parse(formula)
	if err != nil {
		return false
	}
	_, _, err = f.root.fold()
	return err == nil
}

type evalState struct {
	random random.Random
	rolls  []int
}

func (n *numberNode) eval(*evalState) (int, error) {
	return n.value, nil
}

func (n *numberNode) fold() (int, bool, error) {
	return n.value, true, nil
}

func (n *diceNode) eval(s *evalState) (int, error) {
	total := 0
	for i := 0; i < n.count; i++ {
		v := s.random.IntRange(1, n.sides)
		s.rolls = append(s.rolls, v)
		total += v
	}
	return total, nil
}

// One sided dice always total their count
func (n *diceNode) fold() (int, bool, error) {
	if n.sides == 1 {
		return n.count, true, nil
	}
	return 0, false, nil
}

func (n *binaryNode) eval(s *evalState) (int, error) {
	left, err := n.left.eval(s)
	if err != nil {
		return 0, err
	}
	right, err := n.right.eval(s)
	if err != nil {
		return 0, err
	}
	return apply(n.op, left, right)
}

func (n *binaryNode) fold() (int, bool, error) {
	left, leftConst, err := n.left.fold()
	if err != nil {
		return 0, false, err
	}
	right, rightConst, err := n.right.fold()
	if err != nil {
		return 0, false, err
	}
	if !leftConst || !rightConst {
		if n.op == tokenSlash && rightConst && right == 0 {
			return 0, false, errDivisionByZero
		}
		return 0, false, nil
	}
	v, err := apply(n.op, left, right)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func apply(op tokenKind, a, b int) (int, error) {
	switch op {
	case tokenPlus:
		r := a + b
		if (b > 0 && r < a) || (b < 0 && r > a) {
			return 0, errOverflow
		}
		return r, nil
	case tokenMinus:
		r := a - b
		if (b > 0 && r > a) || (b < 0 && r < a) {
			return 0, errOverflow
		}
		return r, nil
	case tokenStar:
		if a == 0 || b == 0 {
			return 0, nil
		}
		r := a * b
		if r/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
			return 0, errOverflow
		}
		return r, nil
	case tokenSlash:
		return floorDiv(a, b)
	}
	return 0, errors.New("dice: unknown operator")
}

// floorDiv rounds toward negative infinity
func floorDiv(a, b int) (int, error) {
	if b == 0 {
		return 0, errDivisionByZero
	}
	if a == math.MinInt && b == -1 {
		return 0, errOverflow
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q, nil
}
