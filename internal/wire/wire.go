// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

// Package wire is the serialization boundary between the frontend and the
// backend process that consumes its trees. The encoding is a versioned,
// self-describing YAML document with a kind tag on every node, so the
// backend never depends on in-process object identity.
package wire

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"gopkg.implang.org/impc/internal/ast"
)

// Version identifies the encoding. Decoders reject documents written with
// any other version.
const Version = 1

// Encode serializes a tree rooted at the given block.
func Encode(root *ast.Block) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("cannot encode a nil tree")
	}
	doc := map[string]any{
		"version": Version,
		"root":    encodeBlock(root),
	}
	return yaml.Marshal(doc)
}

// Decode reconstructs a tree from its encoded form.
func Decode(data []byte) (*ast.Block, error) {
	var doc struct {
		Version int `yaml:"version"`
		Root    any `yaml:"root"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("unsupported tree encoding version %d (expecting %d)", doc.Version, Version)
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("tree document has no root")
	}
	return decodeBlock(doc.Root)
}

func encodeBlock(b *ast.Block) map[string]any {
	stmts := make([]any, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		stmts = append(stmts, encodeStatement(s))
	}
	return map[string]any{
		"stmts": stmts,
		"tail":  encodeTerm(b.Tail),
	}
}

func encodeStatement(s ast.Statement) map[string]any {
	switch v := s.(type) {
	case *ast.TermSemicolon:
		return map[string]any{"kind": "term", "term": encodeTerm(v.Term)}
	case *ast.Let:
		return map[string]any{"kind": "let", "name": v.Name, "value": encodeTerm(v.Value)}
	case *ast.LetMut:
		return map[string]any{"kind": "let-mut", "name": v.Name, "value": encodeTerm(v.Value)}
	case *ast.Mutate:
		return map[string]any{"kind": "mutate", "name": v.Name, "value": encodeTerm(v.Value)}
	case *ast.Extern:
		return map[string]any{"kind": "extern", "name": v.Name, "type": encodeType(v.Type)}
	default:
		panic(fmt.Sprintf("unknown statement %T", s))
	}
}

func encodeTerm(t ast.Term) map[string]any {
	switch v := t.(type) {
	case *ast.Literal:
		return map[string]any{"kind": "literal", "value": v.Value}
	case *ast.Var:
		return map[string]any{"kind": "var", "name": v.Name}
	case *ast.Call:
		args := make([]any, 0, len(v.Args))
		for _, a := range v.Args {
			args = append(args, encodeTerm(a))
		}
		return map[string]any{
			"kind": "call",
			"function": map[string]any{
				"name":  v.Function.Name,
				"arity": v.Function.Arity,
			},
			"args": args,
		}
	case *ast.Scope:
		return map[string]any{"kind": "scope", "body": encodeBlock(&v.Body)}
	case *ast.While:
		return map[string]any{"kind": "while", "cond": encodeTerm(v.Cond), "body": encodeBlock(&v.Body)}
	case *ast.If:
		return map[string]any{"kind": "if", "cond": encodeTerm(v.Cond), "then": encodeTerm(v.Then), "else": encodeTerm(v.Else)}
	case *ast.Infix:
		return map[string]any{"kind": "infix", "left": encodeTerm(v.Left), "op": v.Op.String(), "right": encodeTerm(v.Right)}
	default:
		panic(fmt.Sprintf("unknown term %T", t))
	}
}

func encodeType(t ast.Type) map[string]any {
	switch v := t.(type) {
	case *ast.TypeI32:
		return map[string]any{"kind": "i32"}
	case *ast.TypeNamed:
		return map[string]any{"kind": "named", "name": v.Name}
	case *ast.TypeFunction:
		params := make([]any, 0, len(v.Params))
		for _, pt := range v.Params {
			params = append(params, encodeType(pt))
		}
		return map[string]any{"kind": "function", "params": params, "result": encodeType(v.Result)}
	default:
		panic(fmt.Sprintf("unknown type %T", t))
	}
}

func decodeBlock(v any) (*ast.Block, error) {
	m, err := asMap(v, "block")
	if err != nil {
		return nil, err
	}
	this := &ast.Block{}
	rawStmts, ok := m["stmts"].([]any)
	if !ok && m["stmts"] != nil {
		return nil, fmt.Errorf("block stmts is not a list")
	}
	for _, raw := range rawStmts {
		s, err := decodeStatement(raw)
		if err != nil {
			return nil, err
		}
		this.Stmts = append(this.Stmts, s)
	}
	if m["tail"] == nil {
		return nil, fmt.Errorf("block is missing its trailing term")
	}
	tail, err := decodeTerm(m["tail"])
	if err != nil {
		return nil, err
	}
	this.Tail = tail
	return this, nil
}

func decodeStatement(v any) (ast.Statement, error) {
	m, err := asMap(v, "statement")
	if err != nil {
		return nil, err
	}
	kind, _ := m["kind"].(string)
	switch kind {
	case "term":
		term, err := decodeTerm(m["term"])
		if err != nil {
			return nil, err
		}
		return &ast.TermSemicolon{Term: term}, nil
	case "let", "let-mut", "mutate":
		name, ok := m["name"].(string)
		if !ok {
			return nil, fmt.Errorf("%s statement is missing its name", kind)
		}
		value, err := decodeTerm(m["value"])
		if err != nil {
			return nil, err
		}
		switch kind {
		case "let":
			return &ast.Let{Name: name, Value: value}, nil
		case "let-mut":
			return &ast.LetMut{Name: name, Value: value}, nil
		default:
			return &ast.Mutate{Name: name, Value: value}, nil
		}
	case "extern":
		name, ok := m["name"].(string)
		if !ok {
			return nil, fmt.Errorf("extern statement is missing its name")
		}
		ty, err := decodeType(m["type"])
		if err != nil {
			return nil, err
		}
		return &ast.Extern{Name: name, Type: ty}, nil
	default:
		return nil, fmt.Errorf("unknown statement kind %q", kind)
	}
}

func decodeTerm(v any) (ast.Term, error) {
	m, err := asMap(v, "term")
	if err != nil {
		return nil, err
	}
	kind, _ := m["kind"].(string)
	switch kind {
	case "literal":
		value, ok := asInt(m["value"])
		if !ok {
			return nil, fmt.Errorf("literal value is not an integer")
		}
		return &ast.Literal{Value: value}, nil
	case "var":
		name, ok := m["name"].(string)
		if !ok {
			return nil, fmt.Errorf("var is missing its name")
		}
		return &ast.Var{Name: name}, nil
	case "call":
		fn, err := asMap(m["function"], "function descriptor")
		if err != nil {
			return nil, err
		}
		name, ok := fn["name"].(string)
		if !ok {
			return nil, fmt.Errorf("function descriptor is missing its name")
		}
		arity, ok := asInt(fn["arity"])
		if !ok {
			return nil, fmt.Errorf("function descriptor is missing its arity")
		}
		rawArgs, ok := m["args"].([]any)
		if !ok && m["args"] != nil {
			return nil, fmt.Errorf("call args is not a list")
		}
		args := make([]ast.Term, 0, len(rawArgs))
		for _, raw := range rawArgs {
			a, err := decodeTerm(raw)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		if int(arity) != len(args) {
			return nil, fmt.Errorf("call of %s declares arity %d but carries %d argument(s)", name, arity, len(args))
		}
		return &ast.Call{
			Function: ast.FunctionDescriptor{Name: name, Arity: len(args)},
			Args:     args,
		}, nil
	case "scope":
		body, err := decodeBlock(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.Scope{Body: *body}, nil
	case "while":
		cond, err := decodeTerm(m["cond"])
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(m["body"])
		if err != nil {
			return nil, err
		}
		return &ast.While{Cond: cond, Body: *body}, nil
	case "if":
		cond, err := decodeTerm(m["cond"])
		if err != nil {
			return nil, err
		}
		then, err := decodeTerm(m["then"])
		if err != nil {
			return nil, err
		}
		els, err := decodeTerm(m["else"])
		if err != nil {
			return nil, err
		}
		return &ast.If{Cond: cond, Then: then, Else: els}, nil
	case "infix":
		left, err := decodeTerm(m["left"])
		if err != nil {
			return nil, err
		}
		right, err := decodeTerm(m["right"])
		if err != nil {
			return nil, err
		}
		op, err := decodeOperator(m["op"])
		if err != nil {
			return nil, err
		}
		return &ast.Infix{Left: left, Op: op, Right: right}, nil
	default:
		return nil, fmt.Errorf("unknown term kind %q", kind)
	}
}

func decodeType(v any) (ast.Type, error) {
	m, err := asMap(v, "type")
	if err != nil {
		return nil, err
	}
	kind, _ := m["kind"].(string)
	switch kind {
	case "i32":
		return &ast.TypeI32{}, nil
	case "named":
		name, ok := m["name"].(string)
		if !ok {
			return nil, fmt.Errorf("named type is missing its name")
		}
		return &ast.TypeNamed{Name: name}, nil
	case "function":
		rawParams, ok := m["params"].([]any)
		if !ok && m["params"] != nil {
			return nil, fmt.Errorf("function type params is not a list")
		}
		params := make([]ast.Type, 0, len(rawParams))
		for _, raw := range rawParams {
			pt, err := decodeType(raw)
			if err != nil {
				return nil, err
			}
			params = append(params, pt)
		}
		result, err := decodeType(m["result"])
		if err != nil {
			return nil, err
		}
		return &ast.TypeFunction{Params: params, Result: result}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", kind)
	}
}

func decodeOperator(v any) (ast.Operator, error) {
	s, _ := v.(string)
	switch s {
	case "+":
		return ast.OperatorAdd, nil
	case "-":
		return ast.OperatorSub, nil
	case "*":
		return ast.OperatorMul, nil
	case "/":
		return ast.OperatorDiv, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", s)
	}
}

func asMap(v any, what string) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s is not a mapping", what)
	}
	return m, nil
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}
