// seehuhn.de/go/pdfcolor - colour space conversion for PDF rendering
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package function

import (
	"math"

	"golang.org/x/exp/slices"
)

type opCode uint8

const (
	opPushInt opCode = iota
	opPushReal
	opPushBool

	// arithmetic
	opAbs
	opAdd
	opAtan
	opCeiling
	opCos
	opCvi
	opCvr
	opDiv
	opExp
	opFloor
	opIdiv
	opLn
	opLog
	opMod
	opMul
	opNeg
	opRound
	opSin
	opSqrt
	opSub
	opTruncate

	// relational, boolean and bitwise
	opAnd
	opBitshift
	opEq
	opGe
	opGt
	opLe
	opLt
	opNe
	opNot
	opOr
	opXor

	// stack
	opCopy
	opDup
	opExch
	opIndex
	opPop
	opRoll

	// control flow, ival is the relative jump distance
	opJumpIfFalse
	opJump
)

type instruction struct {
	op   opCode
	ival int
	fval float64
}

type valueTag uint8

const (
	tagInt valueTag = iota
	tagReal
	tagBool // ival is 0 or 1
)

// value is an element of the operand stack.
type value struct {
	tag  valueTag
	ival int
	fval float64
}

func intVal(n int) value      { return value{tag: tagInt, ival: n} }
func realVal(x float64) value { return value{tag: tagReal, fval: x} }

func boolVal(b bool) value {
	if b {
		return value{tag: tagBool, ival: 1}
	}
	return value{tag: tagBool}
}

func numTag(t valueTag) bool {
	return t == tagInt || t == tagReal
}

func (v value) asFloat() float64 {
	if v.tag == tagInt {
		return float64(v.ival)
	}
	return v.fval
}

// maxStackDepth limits the operand stack.
const maxStackDepth = 100

// arity gives the number of operands each operator takes from the stack.
// Operators not listed take one operand.
var arity = map[opCode]int{
	opPushInt: 0, opPushReal: 0, opPushBool: 0, opJump: 0,
	opAdd: 2, opAtan: 2, opDiv: 2, opExp: 2, opIdiv: 2, opMod: 2,
	opMul: 2, opSub: 2, opAnd: 2, opBitshift: 2, opEq: 2, opGe: 2,
	opGt: 2, opLe: 2, opLt: 2, opNe: 2, opOr: 2, opXor: 2,
	opExch: 2, opRoll: 2,
}

// execute runs the bytecode on the given operand stack and returns the
// final stack.
func execute(code []instruction, stack []value) ([]value, error) {
	for pc := 0; pc < len(code); {
		inst := code[pc]
		pc++

		n, ok := arity[inst.op]
		if !ok {
			n = 1
		}
		if len(stack) < n {
			return nil, errStackUnderflow
		}

		var err error
		switch inst.op {
		case opPushInt:
			stack = append(stack, intVal(inst.ival))
		case opPushReal:
			stack = append(stack, realVal(inst.fval))
		case opPushBool:
			stack = append(stack, boolVal(inst.ival != 0))

		case opJump:
			pc += inst.ival
		case opJumpIfFalse:
			cond := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if cond.tag != tagBool {
				return nil, errTypeMismatch
			}
			if cond.ival == 0 {
				pc += inst.ival
			}

		case opDup:
			stack = append(stack, stack[len(stack)-1])
		case opExch:
			k := len(stack)
			stack[k-1], stack[k-2] = stack[k-2], stack[k-1]
		case opPop:
			stack = stack[:len(stack)-1]
		case opIndex, opCopy:
			stack, err = stackCopy(inst.op, stack)
		case opRoll:
			stack, err = stackRoll(stack)

		default:
			if n == 2 {
				a, b := stack[len(stack)-2], stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				stack[len(stack)-1], err = binary(inst.op, a, b)
			} else {
				top := &stack[len(stack)-1]
				*top, err = unary(inst.op, *top)
			}
		}
		if err != nil {
			return nil, err
		}
		if len(stack) > maxStackDepth {
			return nil, errStackOverflow
		}
	}
	return stack, nil
}

// unary implements the operators which replace the top of the stack.
func unary(op opCode, v value) (value, error) {
	switch op {
	case opNot:
		switch v.tag {
		case tagBool:
			return boolVal(v.ival == 0), nil
		case tagInt:
			return intVal(^v.ival), nil
		}
		return value{}, errTypeMismatch
	}

	if !numTag(v.tag) {
		return value{}, errTypeMismatch
	}
	x := v.asFloat()

	switch op {
	case opAbs, opNeg:
		if v.tag == tagInt && v.ival != math.MinInt {
			if op == opNeg || v.ival < 0 {
				return intVal(-v.ival), nil
			}
			return v, nil
		}
		if op == opNeg {
			return realVal(-x), nil
		}
		return realVal(math.Abs(x)), nil

	case opCeiling, opFloor, opRound, opTruncate:
		if v.tag == tagInt {
			return v, nil
		}
		switch op {
		case opCeiling:
			x = math.Ceil(x)
		case opFloor:
			x = math.Floor(x)
		case opRound:
			// halfway values round up
			x = math.Floor(x + 0.5)
		default:
			x = math.Trunc(x)
		}
		return realVal(x), nil

	case opCvi:
		x = math.Trunc(x)
		if x >= math.MaxInt64 || x < math.MinInt64 || math.IsNaN(x) {
			return value{}, errRange
		}
		return intVal(int(x)), nil
	case opCvr:
		return realVal(x), nil

	case opSqrt:
		if x < 0 {
			return value{}, errRange
		}
		return realVal(math.Sqrt(x)), nil
	case opLn, opLog:
		if x <= 0 {
			return value{}, errRange
		}
		if op == opLn {
			return realVal(math.Log(x)), nil
		}
		return realVal(math.Log10(x)), nil

	// angles are in degrees
	case opSin:
		return realVal(math.Sin(x * math.Pi / 180)), nil
	case opCos:
		return realVal(math.Cos(x * math.Pi / 180)), nil
	}
	return value{}, errTypeMismatch
}

// binary implements the operators which replace the two topmost stack
// elements by a single result.
func binary(op opCode, a, b value) (value, error) {
	switch op {
	case opEq:
		return boolVal(equalValues(a, b)), nil
	case opNe:
		return boolVal(!equalValues(a, b)), nil

	case opAnd, opOr, opXor:
		if a.tag == tagBool && b.tag == tagBool {
			x, y := a.ival != 0, b.ival != 0
			switch op {
			case opAnd:
				return boolVal(x && y), nil
			case opOr:
				return boolVal(x || y), nil
			default:
				return boolVal(x != y), nil
			}
		}
		if a.tag == tagInt && b.tag == tagInt {
			switch op {
			case opAnd:
				return intVal(a.ival & b.ival), nil
			case opOr:
				return intVal(a.ival | b.ival), nil
			default:
				return intVal(a.ival ^ b.ival), nil
			}
		}
		return value{}, errTypeMismatch

	case opBitshift, opIdiv, opMod:
		if a.tag != tagInt || b.tag != tagInt {
			return value{}, errTypeMismatch
		}
		switch op {
		case opBitshift:
			if b.ival >= 0 {
				return intVal(a.ival << uint(b.ival)), nil
			}
			return intVal(a.ival >> uint(-b.ival)), nil
		case opIdiv:
			if b.ival == 0 {
				return value{}, errDivByZero
			}
			return intVal(a.ival / b.ival), nil
		default:
			if b.ival == 0 {
				return value{}, errDivByZero
			}
			return intVal(a.ival % b.ival), nil
		}
	}

	if !numTag(a.tag) || !numTag(b.tag) {
		return value{}, errTypeMismatch
	}
	x, y := a.asFloat(), b.asFloat()

	switch op {
	case opAdd, opSub, opMul:
		if a.tag == tagInt && b.tag == tagInt {
			if r, ok := intArith(op, a.ival, b.ival); ok {
				return intVal(r), nil
			}
		}
		switch op {
		case opAdd:
			return realVal(x + y), nil
		case opSub:
			return realVal(x - y), nil
		default:
			return realVal(x * y), nil
		}

	case opDiv:
		if y == 0 {
			return value{}, errDivByZero
		}
		return realVal(x / y), nil
	case opExp:
		return realVal(math.Pow(x, y)), nil
	case opAtan:
		if x == 0 && y == 0 {
			return value{}, errRange
		}
		deg := math.Atan2(x, y) * 180 / math.Pi
		if deg < 0 {
			deg += 360
		}
		return realVal(deg), nil

	case opGe:
		return boolVal(x >= y), nil
	case opGt:
		return boolVal(x > y), nil
	case opLe:
		return boolVal(x <= y), nil
	case opLt:
		return boolVal(x < y), nil
	}
	return value{}, errTypeMismatch
}

// intArith performs integer arithmetic.  The second return value is false
// if the result overflows.
func intArith(op opCode, a, b int) (int, bool) {
	switch op {
	case opAdd:
		c := a + b
		return c, (b >= 0) == (c >= a)
	case opSub:
		c := a - b
		return c, (b >= 0) == (c <= a)
	default:
		if a == 0 || b == 0 {
			return 0, true
		}
		c := a * b
		return c, c/a == b && !(a == -1 && b == math.MinInt)
	}
}

func equalValues(a, b value) bool {
	if numTag(a.tag) && numTag(b.tag) {
		return a.asFloat() == b.asFloat()
	}
	return a.tag == tagBool && b.tag == tagBool && a.ival == b.ival
}

// stackCopy implements "n index" and "n copy".
func stackCopy(op opCode, stack []value) ([]value, error) {
	top := stack[len(stack)-1]
	if top.tag != tagInt {
		return nil, errTypeMismatch
	}
	stack = stack[:len(stack)-1]
	k := top.ival
	if op == opIndex {
		if k < 0 || k >= len(stack) {
			return nil, errRange
		}
		return append(stack, stack[len(stack)-1-k]), nil
	}
	if k < 0 || k > len(stack) {
		return nil, errRange
	}
	return append(stack, stack[len(stack)-k:]...), nil
}

// stackRoll implements "n j roll".
func stackRoll(stack []value) ([]value, error) {
	nv, jv := stack[len(stack)-2], stack[len(stack)-1]
	if nv.tag != tagInt || jv.tag != tagInt {
		return nil, errTypeMismatch
	}
	stack = stack[:len(stack)-2]
	n, j := nv.ival, jv.ival
	if n < 0 || n > len(stack) {
		return nil, errRange
	}
	if n == 0 {
		return stack, nil
	}
	j %= n
	if j < 0 {
		j += n
	}
	data := stack[len(stack)-n:]
	rotated := append(slices.Clone(data[n-j:]), data[:n-j]...)
	copy(data, rotated)
	return stack, nil
}
