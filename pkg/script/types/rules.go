package types

import "github.com/jensen-yan/compiler/pkg/script/token"

// CheckBinary returns the result type of left op right. ok is false when
// the operand types do not support op.
//
// Arithmetic needs two numbers and yields Float if either side is Float,
// else Int; '+' also joins two strings. Comparisons need two numbers or two
// equal kinds and yield Bool. && and || need two Bools. Unknown operands
// never fail: arithmetic yields Unknown, the other groups Bool.
func CheckBinary(left Type, op token.Kind, right Type) (Type, bool) {
	lk, lok := kindOf(left)
	rk, rok := kindOf(right)
	if !lok || !rok {
		return nil, false
	}
	unknown := lk == Unknown || rk == Unknown

	switch op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent:
		switch {
		case unknown:
			return UnknownType, true
		case IsNumeric(left) && IsNumeric(right):
			if lk == Float || rk == Float {
				return FloatType, true
			}
			return IntType, true
		case op == token.Plus && lk == String && rk == String:
			return StringType, true
		}

	case token.Equal, token.NotEqual, token.Less, token.Greater, token.LessEqual, token.GreaterEqual:
		if unknown || (IsNumeric(left) && IsNumeric(right)) || lk == rk {
			return BoolType, true
		}

	case token.And, token.Or:
		if unknown || (lk == Bool && rk == Bool) {
			return BoolType, true
		}
	}
	return nil, false
}

// CheckUnary returns the result type of op applied to operand. Negation
// keeps the numeric type; '!' needs a Bool and yields Bool.
func CheckUnary(op token.Kind, operand Type) (Type, bool) {
	k, ok := kindOf(operand)
	if !ok {
		return nil, false
	}

	switch op {
	case token.Minus:
		if k == Unknown {
			return UnknownType, true
		}
		if k == Int || k == Float {
			return operand, true
		}
	case token.Not:
		if k == Unknown || k == Bool {
			return BoolType, true
		}
	}
	return nil, false
}

// IsAssignable reports whether a value of type value may be stored in a
// binding of type target. Int widens to Float; Unknown on either side is
// always accepted.
func IsAssignable(target, value Type) bool {
	if IsUnknown(target) || IsUnknown(value) {
		return true
	}

	tk, tok := kindOf(target)
	vk, vok := kindOf(value)
	if tok && vok {
		return tk == vk || (tk == Float && vk == Int)
	}
	if _, ok := target.(*Function); ok {
		return IsCompatible(target, value)
	}
	return false
}

// IsCompatible is the symmetric relation used to reconcile two inferred
// types. Numbers are mutually compatible and Unknown is compatible with
// everything. Functions are compatible when their arities match and their
// parameter and return types are pairwise compatible.
func IsCompatible(a, b Type) bool {
	if IsUnknown(a) || IsUnknown(b) {
		return true
	}

	ak, aok := kindOf(a)
	bk, bok := kindOf(b)
	if aok && bok {
		return ak == bk || (IsNumeric(a) && IsNumeric(b))
	}

	fa, aFn := a.(*Function)
	fb, bFn := b.(*Function)
	if !aFn || !bFn || len(fa.Params) != len(fb.Params) {
		return false
	}
	for i := range fa.Params {
		if !IsCompatible(fa.Params[i], fb.Params[i]) {
			return false
		}
	}
	return IsCompatible(fa.Return, fb.Return)
}
