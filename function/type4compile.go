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
	"fmt"
	"strconv"
)

// opNames maps the operators allowed in calculator functions to opcodes.
// The control operators "if" and "ifelse" are handled by the compiler.
var opNames = map[string]opCode{
	"abs": opAbs, "add": opAdd, "atan": opAtan, "ceiling": opCeiling,
	"cos": opCos, "cvi": opCvi, "cvr": opCvr, "div": opDiv,
	"exp": opExp, "floor": opFloor, "idiv": opIdiv, "ln": opLn,
	"log": opLog, "mod": opMod, "mul": opMul, "neg": opNeg,
	"round": opRound, "sin": opSin, "sqrt": opSqrt, "sub": opSub,
	"truncate": opTruncate,

	"and": opAnd, "bitshift": opBitshift, "eq": opEq, "ge": opGe,
	"gt": opGt, "le": opLe, "lt": opLt, "ne": opNe, "not": opNot,
	"or": opOr, "xor": opXor,

	"copy": opCopy, "dup": opDup, "exch": opExch, "index": opIndex,
	"pop": opPop, "roll": opRoll,
}

type tokenType uint8

const (
	tokInt tokenType = iota
	tokReal
	tokBool
	tokName
	tokOpen
	tokClose
)

type token struct {
	typ  tokenType
	ival int
	fval float64
	name string
}

// compile translates a calculator program to bytecode.  A program which
// is wrapped in a single pair of braces is unwrapped first.
func compile(program string) ([]instruction, error) {
	tokens := tokenize(program)

	if len(tokens) >= 2 && tokens[0].typ == tokOpen {
		code, next, err := compileBlock(tokens, 1, true)
		if err == nil && next == len(tokens) {
			if code == nil {
				code = []instruction{}
			}
			return code, nil
		}
	}
	code, _, err := compileBlock(tokens, 0, false)
	if err != nil {
		return nil, err
	}
	if code == nil {
		code = []instruction{}
	}
	return code, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

// tokenize splits a program into tokens.  Comments are skipped.
func tokenize(src string) []token {
	var tokens []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case isSpace(c):
			i++
			continue
		case c == '%':
			for i < len(src) && src[i] != '\n' && src[i] != '\r' {
				i++
			}
			continue
		case c == '{':
			tokens = append(tokens, token{typ: tokOpen})
			i++
			continue
		case c == '}':
			tokens = append(tokens, token{typ: tokClose})
			i++
			continue
		}

		start := i
		for i < len(src) && !isSpace(src[i]) && src[i] != '{' && src[i] != '}' && src[i] != '%' {
			i++
		}
		word := src[start:i]

		if iv, err := strconv.ParseInt(word, 10, 64); err == nil {
			tokens = append(tokens, token{typ: tokInt, ival: int(iv)})
		} else if fv, err := strconv.ParseFloat(word, 64); err == nil {
			tokens = append(tokens, token{typ: tokReal, fval: fv})
		} else if word == "true" || word == "false" {
			tok := token{typ: tokBool}
			if word == "true" {
				tok.ival = 1
			}
			tokens = append(tokens, tok)
		} else {
			tokens = append(tokens, token{typ: tokName, name: word})
		}
	}
	return tokens
}

// compileBlock compiles the tokens starting at pos.  If inBlock is set,
// compilation stops after the matching '}'.  The compiled code and the
// position of the next token are returned.
//
// Procedure bodies are only allowed as the operands of "if" and "ifelse".
// Conditionals are compiled to forward jumps.
func compileBlock(tokens []token, pos int, inBlock bool) ([]instruction, int, error) {
	var code []instruction
	var bodies [][]instruction

	for pos < len(tokens) {
		tok := tokens[pos]
		pos++

		if len(bodies) > 0 && tok.typ <= tokBool {
			return nil, 0, fmt.Errorf("procedure body without if/ifelse")
		}

		switch tok.typ {
		case tokInt:
			code = append(code, instruction{op: opPushInt, ival: tok.ival})
		case tokReal:
			code = append(code, instruction{op: opPushReal, fval: tok.fval})
		case tokBool:
			code = append(code, instruction{op: opPushBool, ival: tok.ival})

		case tokOpen:
			body, next, err := compileBlock(tokens, pos, true)
			if err != nil {
				return nil, 0, err
			}
			pos = next
			bodies = append(bodies, body)

		case tokClose:
			if !inBlock {
				return nil, 0, fmt.Errorf("unexpected '}'")
			}
			if len(bodies) > 0 {
				return nil, 0, fmt.Errorf("procedure body without if/ifelse")
			}
			return code, pos, nil

		case tokName:
			switch tok.name {
			case "if":
				if len(bodies) != 1 {
					return nil, 0, fmt.Errorf("'if' needs one procedure body")
				}
				body := bodies[0]
				bodies = bodies[:0]
				code = append(code, instruction{op: opJumpIfFalse, ival: len(body)})
				code = append(code, body...)

			case "ifelse":
				if len(bodies) != 2 {
					return nil, 0, fmt.Errorf("'ifelse' needs two procedure bodies")
				}
				yes, no := bodies[0], bodies[1]
				bodies = bodies[:0]
				code = append(code, instruction{op: opJumpIfFalse, ival: len(yes) + 1})
				code = append(code, yes...)
				code = append(code, instruction{op: opJump, ival: len(no)})
				code = append(code, no...)

			default:
				if len(bodies) > 0 {
					return nil, 0, fmt.Errorf("procedure body before %q", tok.name)
				}
				op, ok := opNames[tok.name]
				if !ok {
					return nil, 0, fmt.Errorf("unknown operator %q", tok.name)
				}
				code = append(code, instruction{op: op})
			}
		}
	}

	if inBlock {
		return nil, 0, fmt.Errorf("missing '}'")
	}
	if len(bodies) > 0 {
		return nil, 0, fmt.Errorf("procedure body without if/ifelse")
	}
	return code, pos, nil
}
