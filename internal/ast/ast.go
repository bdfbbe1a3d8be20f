// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

// Package ast defines the tree produced by the imp frontend. All nodes are
// plain immutable values built bottom-up during parsing; they carry no
// source positions and no identity, so two parses of the same input
// produce structurally equal trees.
package ast

import "fmt"

// Term is an expression node.
type Term interface {
	term()
}

// Literal is a non-negative base-10 integer constant. Values are limited
// to what fits in an int64; literals beyond that range are parse failures.
type Literal struct {
	Value int64
}

// Var is a reference to a previously bound identifier.
type Var struct {
	Name string
}

// FunctionDescriptor names a function together with its arity. Arity is
// derived from the call site, never from a declaration table: two
// descriptors denote the same function only if both fields match.
type FunctionDescriptor struct {
	Name  string
	Arity int
}

// Call is a function invocation with an ordered argument list.
type Call struct {
	Function FunctionDescriptor
	Args     []Term
}

// Scope is a block used as an expression, opening a new lexical scope.
type Scope struct {
	Body Block
}

// While evaluates Cond before each iteration and runs Body while it is
// truthy. As an expression its value is the unit sentinel.
type While struct {
	Cond Term
	Body Block
}

// If evaluates Cond and then exactly one of the two branches.
type If struct {
	Cond Term
	Then Term
	Else Term
}

// Infix is a binary arithmetic operation.
type Infix struct {
	Left  Term
	Op    Operator
	Right Term
}

func (*Literal) term() {}
func (*Var) term()     {}
func (*Call) term()    {}
func (*Scope) term()   {}
func (*While) term()   {}
func (*If) term()      {}
func (*Infix) term()   {}

type Operator uint8

const (
	OperatorAdd Operator = iota + 1
	OperatorSub
	OperatorMul
	OperatorDiv
)

func (op Operator) String() string {
	switch op {
	case OperatorAdd:
		return "+"
	case OperatorSub:
		return "-"
	case OperatorMul:
		return "*"
	case OperatorDiv:
		return "/"
	default:
		return fmt.Sprintf("operator-%d", uint8(op))
	}
}

// Statement is a node evaluated for effect inside a block.
type Statement interface {
	statement()
}

// TermSemicolon evaluates Term and discards its value.
type TermSemicolon struct {
	Term Term
}

// Let introduces an immutable binding.
type Let struct {
	Name  string
	Value Term
}

// LetMut introduces a mutable binding.
type LetMut struct {
	Name  string
	Value Term
}

// Mutate reassigns an existing mutable binding. The parser accepts the
// syntax unconditionally; whether Name was declared mutable is a semantic
// question answered elsewhere.
type Mutate struct {
	Name  string
	Value Term
}

// Extern declares a foreign binding with an explicit type.
type Extern struct {
	Name string
	Type Type
}

func (*TermSemicolon) statement() {}
func (*Let) statement()           {}
func (*LetMut) statement()        {}
func (*Mutate) statement()        {}
func (*Extern) statement()        {}

// Block is zero or more statements followed by a mandatory trailing term,
// which is the block's value. The root of every parse is a Block.
type Block struct {
	Stmts []Statement
	Tail  Term
}

// Type is the type language used by extern declarations. The frontend
// parses types but performs no checking.
type Type interface {
	typeExpr()
}

// TypeI32 is the built-in 32-bit integer type.
type TypeI32 struct{}

// TypeNamed references a type by name, typically an enumeration.
type TypeNamed struct {
	Name string
}

// TypeFunction is a function type with ordered parameter types and a
// result type.
type TypeFunction struct {
	Params []Type
	Result Type
}

func (*TypeI32) typeExpr()      {}
func (*TypeNamed) typeExpr()    {}
func (*TypeFunction) typeExpr() {}
