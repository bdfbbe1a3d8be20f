// © 2026 The imp authors
//
// SPDX-License-Identifier: Apache-2.0

package imp

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"gopkg.implang.org/impc/internal/exc"
	"gopkg.implang.org/impc/internal/iter"
	"gopkg.implang.org/impc/internal/lang"
	"gopkg.implang.org/impc/internal/optional"
)

const (
	lexerImpLookahead = 2
)

var keywords = map[string]lang.TokenType{
	"let":    lang.TokenTypeKeywordLet,
	"mut":    lang.TokenTypeKeywordMut,
	"while":  lang.TokenTypeKeywordWhile,
	"if":     lang.TokenTypeKeywordIf,
	"else":   lang.TokenTypeKeywordElse,
	"extern": lang.TokenTypeKeywordExtern,
}

// LexerImp implements a tokenizer for imp source text. Whitespace and
// comments are emitted as tokens so the grammar layer can decide what is
// insignificant; line comments start with "--" and block comments are
// delimited by "{-" and "-}" and nest.
type LexerImp struct {
	reporter exc.Reporter
}

func NewLexerImp(reporter exc.Reporter) *LexerImp {
	return &LexerImp{reporter: reporter}
}

func (l *LexerImp) Lex(ctx context.Context, f lang.File) (lang.LexerFile, error) {
	return &lexerFileImp{
		File:     f,
		reporter: l.reporter,
	}, nil
}

type lexerFileImp struct {
	lang.File
	reporter exc.Reporter
}

func (l *lexerFileImp) Tokens(ctx context.Context) (lang.Iterator[*lang.Token], error) {
	b, err := l.File.Body(ctx)
	if err != nil {
		return nil, err
	}
	points := iter.NewLookahead(iter.NewUnicodeFileBodyCtx(ctx, b), lexerImpLookahead)
	return &lexerFileImpTokens{
		uri:      l.File.Path(ctx),
		body:     points,
		reporter: l.reporter,
		line:     1,
		col:      0,
		offset:   0,
	}, nil
}

type lexerFileImpTokens struct {
	uri      string
	body     lang.Lookahead[lang.CodePoint]
	reporter exc.Reporter
	line     int32
	col      int32
	offset   int64
}

func (l *lexerFileImpTokens) Next(ctx context.Context) optional.Optional[*lang.Token] {
	for point := l.next(ctx); point.IsPresent(); point = l.next(ctx) {
		r := rune(point.Value())
		switch r {
		case 0x00:
			return optional.None[*lang.Token]() // Treat null byte as EOF as it's not allowed.
		case 0x0009, 0x0020:
			continue // Space and tab separate tokens but are never tokens themselves.
		case '\n':
			return l.newLineToken("\n", 1)
		case '\r':
			if n := l.body.Lookahead(ctx, 1); n.IsPresent() && n.Value() == '\n' {
				_ = l.next(ctx)
				return l.newLineToken("\r\n", 2)
			}
			return l.newLineToken("\r", 1)
		case '{':
			if n := l.body.Lookahead(ctx, 1); n.IsPresent() && n.Value() == '-' {
				startCol := l.col
				startOffset := l.offset - 1
				_ = l.next(ctx)
				return l.readCommentBlock(ctx, l.line, startCol, startOffset)
			}
			return optional.Some(l.token(lang.TokenTypeCurlyOpen, "{"))
		case '}':
			return optional.Some(l.token(lang.TokenTypeCurlyClose, "}"))
		case '(':
			return optional.Some(l.token(lang.TokenTypeParenOpen, "("))
		case ')':
			return optional.Some(l.token(lang.TokenTypeParenClose, ")"))
		case ',':
			return optional.Some(l.token(lang.TokenTypeComma, ","))
		case ';':
			return optional.Some(l.token(lang.TokenTypeSemicolon, ";"))
		case '=':
			return optional.Some(l.token(lang.TokenTypeEqual, "="))
		case '+':
			return optional.Some(l.token(lang.TokenTypePlus, "+"))
		case '*':
			return optional.Some(l.token(lang.TokenTypeStar, "*"))
		case '/':
			return optional.Some(l.token(lang.TokenTypeSlash, "/"))
		case ':':
			return optional.Some(l.token(lang.TokenTypeColon, ":"))
		case '-':
			n := l.body.Lookahead(ctx, 1)
			if n.IsPresent() {
				switch n.Value() {
				case '-':
					_ = l.next(ctx)
					return l.readCommentLine(ctx)
				case '>':
					_ = l.next(ctx)
					return optional.Some(newTokenLineSpan(l.line, l.col, l.offset, 2, lang.TokenTypeArrow, "->"))
				}
			}
			return optional.Some(l.token(lang.TokenTypeMinus, "-"))
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return l.readDecimal(ctx, string(r))
		case '_':
			return l.readIdentifier(ctx, string(r))
		default:
			if unicode.IsLetter(r) {
				tok := l.readIdentifier(ctx, string(r))
				if !tok.IsPresent() {
					return optional.None[*lang.Token]()
				}
				t := tok.Value()
				if kw, ok := keywords[t.Value]; ok {
					t.Type = kw
				}
				return optional.Some(t)
			}
			_ = l.reporter.Report(l.exc(exc.CodeInvalidCharacter, fmt.Sprintf("character %q cannot begin any token", r)))
			return optional.None[*lang.Token]()
		}
	}
	return optional.None[*lang.Token]()
}

func (l *lexerFileImpTokens) readIdentifier(ctx context.Context, prefix string) optional.Optional[*lang.Token] {
	var builder strings.Builder
	_, _ = builder.WriteString(prefix)
	for {
		n := l.body.Lookahead(ctx, 1)
		if !n.IsPresent() {
			break
		}
		if unicode.IsLetter(rune(n.Value())) || unicode.IsDigit(rune(n.Value())) || n.Value() == '_' {
			_ = l.next(ctx)
			_, _ = builder.WriteRune(rune(n.Value()))
			continue
		}
		break
	}
	t := newTokenLineSpan(l.line, l.col, l.offset, builder.Len(), lang.TokenTypeIdentifier, builder.String())
	return optional.Some(t)
}

func (l *lexerFileImpTokens) readDecimal(ctx context.Context, prefix string) optional.Optional[*lang.Token] {
	var builder strings.Builder
	_, _ = builder.WriteString(prefix)
	for {
		n := l.body.Lookahead(ctx, 1)
		if !n.IsPresent() {
			break
		}
		switch n.Value() {
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			_ = l.next(ctx)
			_, _ = builder.WriteRune(rune(n.Value()))
		default:
			t := newTokenLineSpan(l.line, l.col, l.offset, builder.Len(), lang.TokenTypeIntegerDecimal, builder.String())
			return optional.Some(t)
		}
	}
	t := newTokenLineSpan(l.line, l.col, l.offset, builder.Len(), lang.TokenTypeIntegerDecimal, builder.String())
	return optional.Some(t)
}

func (l *lexerFileImpTokens) readCommentLine(ctx context.Context) optional.Optional[*lang.Token] {
	var builder strings.Builder
	for {
		n := l.body.Lookahead(ctx, 1)
		if !n.IsPresent() || n.Value() == '\r' || n.Value() == '\n' {
			t := newTokenLineSpan(l.line, l.col, l.offset, builder.Len()+2, lang.TokenTypeComment, builder.String())
			return optional.Some(t)
		}
		_ = l.next(ctx)
		_, _ = builder.WriteRune(rune(n.Value()))
	}
}

// readCommentBlock is entered with the opening "{-" already consumed. An
// inner "{-" increments the nesting depth and must be matched by its own
// "-}" before the outer comment closes.
func (l *lexerFileImpTokens) readCommentBlock(ctx context.Context, startLine int32, startCol int32, startOffset int64) optional.Optional[*lang.Token] {
	var builder strings.Builder
	depth := 1
	for {
		n := l.body.Lookahead(ctx, 1)
		if !n.IsPresent() {
			_ = l.reporter.Report(l.exc(exc.CodeUnexpectedEOF, "a block comment is still open at end of input"))
			return optional.None[*lang.Token]()
		}
		switch n.Value() {
		case '\n':
			_ = l.next(ctx)
			_, _ = builder.WriteRune('\n')
			l.newLine()
		case '\r':
			_ = l.next(ctx)
			_, _ = builder.WriteRune('\r')
			nn := l.body.Lookahead(ctx, 1)
			if nn.IsPresent() && nn.Value() == '\n' {
				_ = l.next(ctx)
				_, _ = builder.WriteRune('\n')
			}
			l.newLine()
		case '{':
			_ = l.next(ctx)
			nn := l.body.Lookahead(ctx, 1)
			if nn.IsPresent() && nn.Value() == '-' {
				_ = l.next(ctx)
				depth = depth + 1
				_, _ = builder.WriteString("{-")
				continue
			}
			_, _ = builder.WriteRune('{')
		case '-':
			_ = l.next(ctx)
			nn := l.body.Lookahead(ctx, 1)
			if nn.IsPresent() && nn.Value() == '}' {
				_ = l.next(ctx)
				depth = depth - 1
				if depth == 0 {
					t := newToken(startLine, startCol, startOffset, l.line, l.col, l.offset, lang.TokenTypeComment, builder.String())
					return optional.Some(t)
				}
				_, _ = builder.WriteString("-}")
				continue
			}
			_, _ = builder.WriteRune('-')
		default:
			_ = l.next(ctx)
			_, _ = builder.WriteRune(rune(n.Value()))
		}
	}
}

func (l *lexerFileImpTokens) next(ctx context.Context) optional.Optional[lang.CodePoint] {
	n := l.body.Next(ctx)
	if n.IsPresent() {
		l.addCol(rune(n.Value()))
	}
	return n
}

func (l *lexerFileImpTokens) exc(code string, message string) exc.Exception {
	return exc.New(exc.Location{URI: l.uri, Location: lang.Location{Line: l.line, Column: l.col, Offset: l.offset}}, code, message)
}

func (l *lexerFileImpTokens) newLine() {
	l.line = l.line + 1
	l.col = 0
}

func (l *lexerFileImpTokens) newLineToken(v string, size int) optional.Optional[*lang.Token] {
	t := newTokenLineSpan(l.line, l.col, l.offset, size, lang.TokenTypeNewline, v)
	l.newLine()
	return optional.Some(t)
}

func (l *lexerFileImpTokens) addCol(r rune) {
	l.col = l.col + 1
	l.offset = l.offset + int64(len(string(r)))
}

// token builds a single-character token ending at the current position.
func (l *lexerFileImpTokens) token(kind lang.TokenType, value string) *lang.Token {
	return newTokenLineSpan(l.line, l.col, l.offset, 1, kind, value)
}

func (l *lexerFileImpTokens) Close(ctx context.Context) error {
	return l.body.Close(ctx)
}

func newTokenLineSpan(line int32, col int32, offset int64, size int, kind lang.TokenType, value string) *lang.Token {
	return &lang.Token{
		Span: lang.Span{
			Start: lang.Location{
				Line:   line,
				Column: col - int32(size) + 1,
				Offset: offset - int64(size),
			},
			End: lang.Location{
				Line:   line,
				Column: col,
				Offset: offset,
			},
		},
		Type:  kind,
		Value: value,
	}
}

func newToken(startLine int32, startCol int32, startOffset int64, endLine int32, endCol int32, endOffset int64, kind lang.TokenType, value string) *lang.Token {
	return &lang.Token{
		Span: lang.Span{
			Start: lang.Location{
				Line:   startLine,
				Column: startCol,
				Offset: startOffset,
			},
			End: lang.Location{
				Line:   endLine,
				Column: endCol,
				Offset: endOffset,
			},
		},
		Type:  kind,
		Value: value,
	}
}
