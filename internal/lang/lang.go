// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

package lang

import (
	"context"
	"fmt"

	"gopkg.implang.org/impc/internal/ast"
	"gopkg.implang.org/impc/internal/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

type CodePoint uint32

type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

type Lookahead[T any] interface {
	Iterator[T]
	Lookahead(ctx context.Context, n uint8) optional.Optional[T]
}

type Filter[T any] interface {
	Keep(ctx context.Context, v T) bool
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindImp
	FileKindTree
)

func (k FileKind) String() string {
	switch k {
	case FileKindNone:
		return "none"
	case FileKindImp:
		return "imp"
	case FileKindTree:
		return "imp-tree"
	default:
		return fmt.Sprintf("unknown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}

type LexerFile interface {
	File
	Tokens(ctx context.Context) (Iterator[*Token], error)
}

type Lexer interface {
	Lex(ctx context.Context, f File) (LexerFile, error)
}

// Frontend is the public boundary of the parsing core: source files in,
// owned trees (or accumulated exceptions) out.
type Frontend interface {
	Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error)
}

type CompileRequest struct {
	Files      []string
	DumpTokens bool
}

type CompileResponse struct {
	Units []*Unit
}

// Unit is one compiled source file. The root of every successful parse is
// a block.
type Unit struct {
	URI  string
	Root *ast.Block
	// Tokens is only populated when CompileRequest.DumpTokens is set.
	Tokens []*Token
}

// Location is a position within a source file. Column and Line are
// 1-based, Offset is a 0-based byte offset.
type Location struct {
	Line   int32
	Column int32
	Offset int64
}

// Span covers the source text between two locations.
type Span struct {
	Start Location
	End   Location
}

type Token struct {
	Span  Span
	Type  TokenType
	Value string
}

type TokenType uint16

const (
	TokenTypeUnknown        TokenType = 0
	TokenTypeIdentifier     TokenType = 1
	TokenTypeIntegerDecimal TokenType = 2
	TokenTypeComment        TokenType = 3
	TokenTypeCurlyOpen      TokenType = 4
	TokenTypeCurlyClose     TokenType = 5
	TokenTypeParenOpen      TokenType = 6
	TokenTypeParenClose     TokenType = 7
	TokenTypeComma          TokenType = 8
	TokenTypeSemicolon      TokenType = 9
	TokenTypeEqual          TokenType = 10
	TokenTypePlus           TokenType = 11
	TokenTypeMinus          TokenType = 12
	TokenTypeStar           TokenType = 13
	TokenTypeSlash          TokenType = 14
	TokenTypeColon          TokenType = 15
	TokenTypeArrow          TokenType = 16
	TokenTypeKeywordLet     TokenType = 17
	TokenTypeKeywordMut     TokenType = 18
	TokenTypeKeywordWhile   TokenType = 19
	TokenTypeKeywordIf      TokenType = 20
	TokenTypeKeywordElse    TokenType = 21
	TokenTypeKeywordExtern  TokenType = 22
	TokenTypeNewline        TokenType = 23
)

var tokenTypeNames = map[TokenType]string{
	TokenTypeUnknown:        "unknown",
	TokenTypeIdentifier:     "identifier",
	TokenTypeIntegerDecimal: "integer",
	TokenTypeComment:        "comment",
	TokenTypeCurlyOpen:      "'{'",
	TokenTypeCurlyClose:     "'}'",
	TokenTypeParenOpen:      "'('",
	TokenTypeParenClose:     "')'",
	TokenTypeComma:          "','",
	TokenTypeSemicolon:      "';'",
	TokenTypeEqual:          "'='",
	TokenTypePlus:           "'+'",
	TokenTypeMinus:          "'-'",
	TokenTypeStar:           "'*'",
	TokenTypeSlash:          "'/'",
	TokenTypeColon:          "':'",
	TokenTypeArrow:          "'->'",
	TokenTypeKeywordLet:     "'let'",
	TokenTypeKeywordMut:     "'mut'",
	TokenTypeKeywordWhile:   "'while'",
	TokenTypeKeywordIf:      "'if'",
	TokenTypeKeywordElse:    "'else'",
	TokenTypeKeywordExtern:  "'extern'",
	TokenTypeNewline:        "newline",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token-%d", uint16(t))
}
