package expr

import (
	"fmt"
	"math"

	frep "github.com/IdeaLab-Design-Environments-Group/iFRep"
)

// evalErrf builds a runtime evaluation error (unbound name, operand
// type mismatch, math domain violation). These wrap frep.ErrEvaluation.
func evalErrf(format string, args ...any) error {
	return fmt.Errorf("expr: "+format+": %w", append(args, frep.ErrEvaluation)...)
}

// Kind is the dynamic type of an expression value.
type Kind uint8

const (
	// Bool values come from comparisons and boolean algebra on them.
	Bool Kind = iota
	// Int values come from integer literals and integer arithmetic.
	Int
	// Float values come from float literals, division, the coordinate
	// variables and the transcendental functions.
	Float
)

// Value is one evaluated sample. The kind ladder mirrors the array
// evaluation model the expressions were written against: comparisons
// yield Bool, `&`/`|`/`~` are logical on Bool and bitwise on Int but
// refuse Float, arithmetic promotes Bool to Int to Float, and division
// is always Float.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
}

// BoolValue returns a Bool-kinded value.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// IntValue returns an Int-kinded value.
func IntValue(i int64) Value { return Value{kind: Int, i: i} }

// FloatValue returns a Float-kinded value.
func FloatValue(f float64) Value { return Value{kind: Float, f: f} }

// Kind returns the value's dynamic type.
func (v Value) Kind() Kind { return v.kind }

// Float64 promotes the value to a float (true as 1, false as 0).
func (v Value) Float64() float64 {
	switch v.kind {
	case Float:
		return v.f
	case Int:
		return float64(v.i)
	default:
		if v.b {
			return 1
		}
		return 0
	}
}

// Int64 returns the value as an integer. Float values truncate toward
// zero; callers on the bitwise paths exclude Float before calling.
func (v Value) Int64() int64 {
	switch v.kind {
	case Int:
		return v.i
	case Bool:
		if v.b {
			return 1
		}
		return 0
	default:
		return int64(v.f)
	}
}

// Uint32 converts the value to a pixel accumulator entry: true is 1,
// integers and floats truncate toward zero and wrap to 32 bits.
func (v Value) Uint32() uint32 {
	switch v.kind {
	case Bool:
		if v.b {
			return 1
		}
		return 0
	case Int:
		return uint32(v.i)
	default:
		return uint32(int64(v.f))
	}
}

// Eval evaluates the expression at one sample point. X and Y bind to
// the grid coordinates and Z to the layer height; all three are floats,
// matching the scalar signature the native backend compiles to.
func (e *Expr) Eval(x, y, z float64) (Value, error) {
	return evalNode(e.root, x, y, z)
}

func evalNode(n node, x, y, z float64) (Value, error) {
	switch n := n.(type) {
	case numberNode:
		return n.val, nil

	case nameNode:
		switch n.name {
		case "X":
			return FloatValue(x), nil
		case "Y":
			return FloatValue(y), nil
		case "Z":
			return FloatValue(z), nil
		case "pi":
			return FloatValue(math.Pi), nil
		}
		return Value{}, evalErrf("name %q is not defined", n.name)

	case callNode:
		args := make([]Value, len(n.args))
		for i, a := range n.args {
			v, err := evalNode(a, x, y, z)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		return evalCall(n.fn, args)

	case unaryNode:
		v, err := evalNode(n.operand, x, y, z)
		if err != nil {
			return Value{}, err
		}
		return evalUnary(n.op, v)

	case binaryNode:
		l, err := evalNode(n.lhs, x, y, z)
		if err != nil {
			return Value{}, err
		}
		r, err := evalNode(n.rhs, x, y, z)
		if err != nil {
			return Value{}, err
		}
		return evalBinary(n.op, l, r)
	}
	return Value{}, evalErrf("internal: unknown node %T", n)
}

func evalUnary(op tokKind, v Value) (Value, error) {
	switch op {
	case tokMinus:
		switch v.kind {
		case Float:
			return FloatValue(-v.f), nil
		case Int:
			return IntValue(-v.i), nil
		}
		return Value{}, evalErrf("bad operand type for unary -: bool")

	case tokPlus:
		if v.kind == Bool {
			return Value{}, evalErrf("bad operand type for unary +: bool")
		}
		return v, nil

	default: // tokNot
		switch v.kind {
		case Bool:
			return BoolValue(!v.b), nil
		case Int:
			return IntValue(^v.i), nil
		}
		return Value{}, evalErrf("bad operand type for unary ~: float")
	}
}

func evalBinary(op tokKind, l, r Value) (Value, error) {
	switch op {
	case tokPlus, tokMinus, tokStar:
		return arith(op, l, r), nil
	case tokSlash:
		// True division: always float, and division by zero follows
		// IEEE (inf/nan values, not an error), as element-wise division
		// does.
		return FloatValue(l.Float64() / r.Float64()), nil
	case tokPow:
		return power(l, r), nil
	case tokAnd, tokOr:
		return bitop(op, l, r)
	default:
		return compare(op, l, r), nil
	}
}

// arith applies + - * with numeric promotion: any float operand makes
// the result float, otherwise integer arithmetic (bools as 0/1) with
// 64-bit wraparound.
func arith(op tokKind, l, r Value) Value {
	if l.kind == Float || r.kind == Float {
		a, b := l.Float64(), r.Float64()
		switch op {
		case tokPlus:
			return FloatValue(a + b)
		case tokMinus:
			return FloatValue(a - b)
		default:
			return FloatValue(a * b)
		}
	}
	a, b := l.Int64(), r.Int64()
	switch op {
	case tokPlus:
		return IntValue(a + b)
	case tokMinus:
		return IntValue(a - b)
	default:
		return IntValue(a * b)
	}
}

// power keeps integer semantics for integer operands so masks built
// from powers, like 2**24-1, stay usable with & and |. A negative
// exponent or any float operand switches to math.Pow.
func power(l, r Value) Value {
	if l.kind != Float && r.kind != Float && r.Int64() >= 0 {
		exp := r.Int64()
		base := l.Int64()
		out := int64(1)
		for exp > 0 {
			if exp&1 == 1 {
				out *= base
			}
			base *= base
			exp >>= 1
		}
		return IntValue(out)
	}
	return FloatValue(math.Pow(l.Float64(), r.Float64()))
}

// bitop applies & and |: logical on two bools, bitwise when an integer
// is involved, and an error on floats, which have no bit semantics.
func bitop(op tokKind, l, r Value) (Value, error) {
	if l.kind == Float || r.kind == Float {
		return Value{}, evalErrf("unsupported operand type for %s: float", opText(op))
	}
	if l.kind == Bool && r.kind == Bool {
		if op == tokAnd {
			return BoolValue(l.b && r.b), nil
		}
		return BoolValue(l.b || r.b), nil
	}
	a, b := l.Int64(), r.Int64()
	if op == tokAnd {
		return IntValue(a & b), nil
	}
	return IntValue(a | b), nil
}

func compare(op tokKind, l, r Value) Value {
	a, b := l.Float64(), r.Float64()
	switch op {
	case tokLT:
		return BoolValue(a < b)
	case tokLE:
		return BoolValue(a <= b)
	case tokGT:
		return BoolValue(a > b)
	case tokGE:
		return BoolValue(a >= b)
	case tokEQ:
		return BoolValue(a == b)
	default:
		return BoolValue(a != b)
	}
}

// pure wraps a total one-argument math function.
func pure(f func(float64) float64) func(Value) (Value, error) {
	return func(v Value) (Value, error) {
		return FloatValue(f(v.Float64())), nil
	}
}

// unaryFuncs holds the one-argument function vocabulary. Functions with
// a restricted domain check it explicitly and fail the evaluation
// rather than letting a NaN propagate silently into pixel data.
var unaryFuncs = map[string]func(Value) (Value, error){
	"sin":   pure(math.Sin),
	"cos":   pure(math.Cos),
	"tan":   pure(math.Tan),
	"atan":  pure(math.Atan),
	"sinh":  pure(math.Sinh),
	"cosh":  pure(math.Cosh),
	"tanh":  pure(math.Tanh),
	"exp":   pure(math.Exp),
	"floor": pure(math.Floor),
	"ceil":  pure(math.Ceil),
	"fabs":  pure(math.Abs),

	"sqrt": func(v Value) (Value, error) {
		f := v.Float64()
		if f < 0 {
			return Value{}, evalErrf("sqrt of negative value %g", f)
		}
		return FloatValue(math.Sqrt(f)), nil
	},
	"log": func(v Value) (Value, error) {
		f := v.Float64()
		if f <= 0 {
			return Value{}, evalErrf("log of non-positive value %g", f)
		}
		return FloatValue(math.Log(f)), nil
	},
	"log2": func(v Value) (Value, error) {
		f := v.Float64()
		if f <= 0 {
			return Value{}, evalErrf("log2 of non-positive value %g", f)
		}
		return FloatValue(math.Log2(f)), nil
	},
	"log10": func(v Value) (Value, error) {
		f := v.Float64()
		if f <= 0 {
			return Value{}, evalErrf("log10 of non-positive value %g", f)
		}
		return FloatValue(math.Log10(f)), nil
	},
	"asin": func(v Value) (Value, error) {
		f := v.Float64()
		if f < -1 || f > 1 {
			return Value{}, evalErrf("asin of out-of-range value %g", f)
		}
		return FloatValue(math.Asin(f)), nil
	},
	"acos": func(v Value) (Value, error) {
		f := v.Float64()
		if f < -1 || f > 1 {
			return Value{}, evalErrf("acos of out-of-range value %g", f)
		}
		return FloatValue(math.Acos(f)), nil
	},

	// abs preserves integer operands, unlike fabs.
	"abs": func(v Value) (Value, error) {
		switch v.kind {
		case Float:
			return FloatValue(math.Abs(v.f)), nil
		case Int:
			if v.i < 0 {
				return IntValue(-v.i), nil
			}
			return IntValue(v.i), nil
		default:
			return v, nil
		}
	},
}

// binaryFuncs holds the two-argument function vocabulary.
var binaryFuncs = map[string]func(Value, Value) (Value, error){
	"pow": func(a, b Value) (Value, error) {
		return FloatValue(math.Pow(a.Float64(), b.Float64())), nil
	},
	"atan2": func(a, b Value) (Value, error) {
		return FloatValue(math.Atan2(a.Float64(), b.Float64())), nil
	},
	"hypot": func(a, b Value) (Value, error) {
		return FloatValue(math.Hypot(a.Float64(), b.Float64())), nil
	},
	"fmod": func(a, b Value) (Value, error) {
		if b.Float64() == 0 {
			return Value{}, evalErrf("fmod by zero")
		}
		return FloatValue(math.Mod(a.Float64(), b.Float64())), nil
	},
}

func evalCall(name string, args []Value) (Value, error) {
	if fn, ok := unaryFuncs[name]; ok {
		if len(args) != 1 {
			return Value{}, evalErrf("%s() takes 1 argument (%d given)", name, len(args))
		}
		return fn(args[0])
	}
	if fn, ok := binaryFuncs[name]; ok {
		if len(args) != 2 {
			return Value{}, evalErrf("%s() takes 2 arguments (%d given)", name, len(args))
		}
		return fn(args[0], args[1])
	}
	return Value{}, evalErrf("name %q is not defined", name)
}
