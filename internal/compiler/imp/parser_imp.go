package imp

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.implang.org/impc/internal/ast"
	"gopkg.implang.org/impc/internal/exc"
	"gopkg.implang.org/impc/internal/iter"
	"gopkg.implang.org/impc/internal/lang"
)

// ParserImp implements the imp grammar over the token stream produced by
// LexerImp. Alternatives that share a prefix (function call vs. variable,
// let vs. let mut, mutation vs. expression statement) are disambiguated by
// token lookahead instead of backtracking, which keeps rule priority
// structural rather than order-dependent.
type ParserImp struct {
	reporter exc.Reporter
}

func NewParserImp(reporter exc.Reporter) *ParserImp {
	return &ParserImp{reporter: reporter}
}

func (p *ParserImp) PrepareParse(ctx context.Context, f lang.LexerFile) (*parserImpTokens, error) {
	ft, err := f.Tokens(ctx)
	if err != nil {
		return nil, err
	}

	// newlines and comments are filler: they may appear between any two
	// tokens and never reach the grammar.
	filteredTokens := iter.NewIteratorFilter(ft, lang.Filter[*lang.Token](iter.FilterFunc[*lang.Token](func(ctx context.Context, t *lang.Token) bool {
		switch t.Type {
		case lang.TokenTypeNewline, lang.TokenTypeComment:
			return false
		default:
			return true
		}
	})))

	tokens := iter.NewLookahead(filteredTokens, 2)

	return &parserImpTokens{
		reporter: p.reporter,
		ctx:      ctx,
		tokens:   tokens,
		uri:      f.Path(ctx),
	}, nil
}

// Parse runs the top-level rule against the whole input. The root of a
// successful parse is always a block; failures are accumulated on the
// reporter and a nil tree is returned.
func (p *ParserImp) Parse(ctx context.Context, f lang.LexerFile) (*ast.Block, error) {
	pt, err := p.PrepareParse(ctx, f)
	if err != nil {
		return nil, err
	}
	return pt.ParseUnit(), nil
}

type parserImpTokens struct {
	reporter exc.Reporter
	ctx      context.Context
	uri      string
	// this is the .Span.End of the last successfully parsed token; we keep
	// track of it so that we can give a meaningful location to "unexpected
	// EOF" errors.
	loc    lang.Location
	tokens lang.Lookahead[*lang.Token]
}

func (p *parserImpTokens) report(code string, message string) {
	p.reportAt(p.loc, code, message)
}

func (p *parserImpTokens) reportAt(loc lang.Location, code string, message string) {
	_ = p.reporter.Report(exc.New(exc.Location{
		URI:      p.uri,
		Location: loc,
	}, code, message))
}

func (p *parserImpTokens) advance() {
	maybeToken := p.tokens.Lookahead(p.ctx, 0)
	if maybeToken.IsPresent() {
		p.loc = maybeToken.Value().Span.End
	}
	_ = p.tokens.Next(p.ctx)
}

func (p *parserImpTokens) peekN(n uint8) *lang.Token {
	maybeToken := p.tokens.Lookahead(p.ctx, n)
	if !maybeToken.IsPresent() {
		return nil
	}
	return maybeToken.Value()
}

func (p *parserImpTokens) peek() *lang.Token {
	return p.peekN(0)
}

// reports an error if there is no current token, or the current token isn't
// of the expected type. advances on success
func (p *parserImpTokens) expectOne(expectedType lang.TokenType) *lang.Token {
	return p.expectOneOf([]lang.TokenType{expectedType})
}

// reports an error if the current token isn't one of the given expected
// types. advances on success
func (p *parserImpTokens) expectOneOf(expectedTypes []lang.TokenType) *lang.Token {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, fmt.Sprintf("unexpected EOF (expecting %v)", expectedTypes))
		return nil
	}
	for _, expectedType := range expectedTypes {
		if maybeToken.Type == expectedType {
			p.advance()
			return maybeToken
		}
	}
	p.reportAt(maybeToken.Span.Start, exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting %v)", maybeToken.Value, expectedTypes))
	return nil
}

// generic application of parsing lists of zero or more comma-separated
// nodes, allowing an optional trailing comma. The parser callback reports
// its own failures and returns false on them; a nil slice is only returned
// on failure, an empty list parses as a non-nil empty slice.
func applyOverCommaSeparatedList[N any](p *parserImpTokens, tOpen lang.TokenType, parser func() (N, bool), tClose lang.TokenType) []N {
	if p.expectOne(tOpen) == nil {
		return nil
	}
	values := []N{}

	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, fmt.Sprintf("unexpected EOF (expecting a list of %T)", values))
		return nil
	}
	if maybeToken.Type != tClose {
		maybeValue, ok := parser()
		if !ok {
			return nil
		}
		values = append(values, maybeValue)

		for {
			maybeToken = p.peek()
			if maybeToken == nil {
				p.report(exc.CodeUnexpectedEOF, fmt.Sprintf("unexpected EOF (expecting a list of %T)", values))
				return nil
			}
			if maybeToken.Type == tClose {
				break
			}

			if p.expectOne(lang.TokenTypeComma) == nil {
				return nil
			}

			maybeToken = p.peek()
			if maybeToken == nil {
				p.report(exc.CodeUnexpectedEOF, fmt.Sprintf("unexpected EOF (expecting a list of %T)", values))
				return nil
			}
			if maybeToken.Type == tClose {
				break
			}

			maybeValue, ok = parser()
			if !ok {
				return nil
			}
			values = append(values, maybeValue)
		}
	}

	if p.expectOne(tClose) == nil {
		return nil
	}

	return values
}

// Unit = Block eof
func (p *parserImpTokens) ParseUnit() *ast.Block {
	block := p.ParseBlock()
	if block == nil {
		return nil
	}
	if maybeToken := p.peek(); maybeToken != nil {
		p.reportAt(maybeToken.Span.Start, exc.CodeTrailingInput, fmt.Sprintf("unexpected %s after the top-level block (expecting end of input)", maybeToken.Value))
		return nil
	}
	return block
}

// Block = curly_open {Statement} Term curly_close
//
// The trailing term is mandatory: it is the block's value. A term followed
// by a semicolon is a statement and the loop keeps going; a term followed
// by anything else must be the tail, and the next token must close the
// block.
func (p *parserImpTokens) ParseBlock() *ast.Block {
	if p.expectOne(lang.TokenTypeCurlyOpen) == nil {
		return nil
	}

	this := ast.Block{}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a statement or the block's trailing term)")
			return nil
		}

		switch maybeToken.Type {
		case lang.TokenTypeKeywordLet:
			maybeStatement := p.parseStatementLet()
			if maybeStatement == nil {
				return nil
			}
			this.Stmts = append(this.Stmts, maybeStatement)
			continue
		case lang.TokenTypeKeywordExtern:
			maybeStatement := p.parseStatementExtern()
			if maybeStatement == nil {
				return nil
			}
			this.Stmts = append(this.Stmts, maybeStatement)
			continue
		case lang.TokenTypeIdentifier:
			// an identifier followed by '=' is a mutation statement; any
			// other identifier begins a term.
			if n := p.peekN(1); n != nil && n.Type == lang.TokenTypeEqual {
				maybeStatement := p.parseStatementMutate()
				if maybeStatement == nil {
					return nil
				}
				this.Stmts = append(this.Stmts, maybeStatement)
				continue
			}
		}

		maybeTerm := p.parseTerm()
		if maybeTerm == nil {
			return nil
		}
		if maybeToken = p.peek(); maybeToken != nil && maybeToken.Type == lang.TokenTypeSemicolon {
			p.advance()
			this.Stmts = append(this.Stmts, &ast.TermSemicolon{Term: maybeTerm})
			continue
		}
		this.Tail = maybeTerm
		break
	}

	if p.expectOne(lang.TokenTypeCurlyClose) == nil {
		return nil
	}
	return &this
}

// StatementLet = let [mut] identifier equal Term semicolon
//
// The mut case is decided here, before the plain let shape, so the shared
// prefix can never be claimed by the wrong form.
func (p *parserImpTokens) parseStatementLet() ast.Statement {
	if p.expectOne(lang.TokenTypeKeywordLet) == nil {
		return nil
	}
	mutable := false
	if maybeToken := p.peek(); maybeToken != nil && maybeToken.Type == lang.TokenTypeKeywordMut {
		p.advance()
		mutable = true
	}
	maybeName := p.expectOne(lang.TokenTypeIdentifier)
	if maybeName == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeEqual) == nil {
		return nil
	}
	maybeValue := p.parseTerm()
	if maybeValue == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeSemicolon) == nil {
		return nil
	}
	if mutable {
		return &ast.LetMut{Name: maybeName.Value, Value: maybeValue}
	}
	return &ast.Let{Name: maybeName.Value, Value: maybeValue}
}

// StatementMutate = identifier equal Term semicolon
//
// Whether the name was declared mutable is a semantic question; the syntax
// is accepted unconditionally here.
func (p *parserImpTokens) parseStatementMutate() ast.Statement {
	maybeName := p.expectOne(lang.TokenTypeIdentifier)
	if maybeName == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeEqual) == nil {
		return nil
	}
	maybeValue := p.parseTerm()
	if maybeValue == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeSemicolon) == nil {
		return nil
	}
	return &ast.Mutate{Name: maybeName.Value, Value: maybeValue}
}

// StatementExtern = extern identifier colon Type semicolon
func (p *parserImpTokens) parseStatementExtern() ast.Statement {
	if p.expectOne(lang.TokenTypeKeywordExtern) == nil {
		return nil
	}
	maybeName := p.expectOne(lang.TokenTypeIdentifier)
	if maybeName == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeColon) == nil {
		return nil
	}
	maybeType := p.parseType()
	if maybeType == nil {
		return nil
	}
	if p.expectOne(lang.TokenTypeSemicolon) == nil {
		return nil
	}
	return &ast.Extern{Name: maybeName.Value, Type: maybeType}
}

// Type = "I32" | identifier | paren_open [Type {comma Type} [comma]] paren_close arrow Type
func (p *parserImpTokens) parseType() ast.Type {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a type)")
		return nil
	}
	switch maybeToken.Type {
	case lang.TokenTypeIdentifier:
		p.advance()
		if maybeToken.Value == "I32" {
			return &ast.TypeI32{}
		}
		return &ast.TypeNamed{Name: maybeToken.Value}
	case lang.TokenTypeParenOpen:
		params := applyOverCommaSeparatedList(p, lang.TokenTypeParenOpen, func() (ast.Type, bool) {
			t := p.parseType()
			return t, t != nil
		}, lang.TokenTypeParenClose)
		if params == nil {
			return nil
		}
		if p.expectOne(lang.TokenTypeArrow) == nil {
			return nil
		}
		maybeResult := p.parseType()
		if maybeResult == nil {
			return nil
		}
		return &ast.TypeFunction{Params: params, Result: maybeResult}
	default:
		p.reportAt(maybeToken.Span.Start, exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a type)", maybeToken.Value))
		return nil
	}
}

// Term = TermProduct {(plus | minus) TermProduct}
//
// Two left-associative precedence tiers: '*' and '/' bind tighter than '+'
// and '-'. Each tier folds as it parses, so `10 - 3 - 2` nests to the
// left.
func (p *parserImpTokens) parseTerm() ast.Term {
	left := p.parseTermProduct()
	if left == nil {
		return nil
	}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			return left
		}
		var op ast.Operator
		switch maybeToken.Type {
		case lang.TokenTypePlus:
			op = ast.OperatorAdd
		case lang.TokenTypeMinus:
			op = ast.OperatorSub
		default:
			return left
		}
		p.advance()
		right := p.parseTermProduct()
		if right == nil {
			return nil
		}
		left = &ast.Infix{Left: left, Op: op, Right: right}
	}
}

// TermProduct = TermBase {(star | slash) TermBase}
func (p *parserImpTokens) parseTermProduct() ast.Term {
	left := p.parseTermBase()
	if left == nil {
		return nil
	}
	for {
		maybeToken := p.peek()
		if maybeToken == nil {
			return left
		}
		var op ast.Operator
		switch maybeToken.Type {
		case lang.TokenTypeStar:
			op = ast.OperatorMul
		case lang.TokenTypeSlash:
			op = ast.OperatorDiv
		default:
			return left
		}
		p.advance()
		right := p.parseTermBase()
		if right == nil {
			return nil
		}
		left = &ast.Infix{Left: left, Op: op, Right: right}
	}
}

// TermBase = Call | identifier | Block | while Term Block
//
//	| if Term Block else Block | int_lit | paren_open Term paren_close
//
// Call must be decided before the plain identifier so that `foo(...)` is
// never read as the variable `foo` followed by a dangling '('. One token
// of lookahead settles it.
func (p *parserImpTokens) parseTermBase() ast.Term {
	maybeToken := p.peek()
	if maybeToken == nil {
		p.report(exc.CodeUnexpectedEOF, "unexpected EOF (expecting a term)")
		return nil
	}
	switch maybeToken.Type {
	case lang.TokenTypeIdentifier:
		if n := p.peekN(1); n != nil && n.Type == lang.TokenTypeParenOpen {
			return p.parseTermCall()
		}
		p.advance()
		return &ast.Var{Name: maybeToken.Value}
	case lang.TokenTypeIntegerDecimal:
		return p.parseTermLiteral()
	case lang.TokenTypeCurlyOpen:
		maybeBlock := p.ParseBlock()
		if maybeBlock == nil {
			return nil
		}
		return &ast.Scope{Body: *maybeBlock}
	case lang.TokenTypeKeywordWhile:
		p.advance()
		maybeCond := p.parseTerm()
		if maybeCond == nil {
			return nil
		}
		maybeBody := p.ParseBlock()
		if maybeBody == nil {
			return nil
		}
		return &ast.While{Cond: maybeCond, Body: *maybeBody}
	case lang.TokenTypeKeywordIf:
		p.advance()
		maybeCond := p.parseTerm()
		if maybeCond == nil {
			return nil
		}
		maybeThen := p.ParseBlock()
		if maybeThen == nil {
			return nil
		}
		if p.expectOne(lang.TokenTypeKeywordElse) == nil {
			return nil
		}
		maybeElse := p.ParseBlock()
		if maybeElse == nil {
			return nil
		}
		return &ast.If{
			Cond: maybeCond,
			Then: &ast.Scope{Body: *maybeThen},
			Else: &ast.Scope{Body: *maybeElse},
		}
	case lang.TokenTypeParenOpen:
		// grouping is transparent: no extra node.
		p.advance()
		maybeTerm := p.parseTerm()
		if maybeTerm == nil {
			return nil
		}
		if p.expectOne(lang.TokenTypeParenClose) == nil {
			return nil
		}
		return maybeTerm
	default:
		p.reportAt(maybeToken.Span.Start, exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s (expecting a term)", maybeToken.Value))
		return nil
	}
}

// TermCall = identifier paren_open [Term {comma Term} [comma]] paren_close
//
// The function descriptor's arity is the number of arguments that were
// actually parsed; there is no declaration table to consult.
func (p *parserImpTokens) parseTermCall() ast.Term {
	maybeName := p.expectOne(lang.TokenTypeIdentifier)
	if maybeName == nil {
		return nil
	}
	args := applyOverCommaSeparatedList(p, lang.TokenTypeParenOpen, func() (ast.Term, bool) {
		t := p.parseTerm()
		return t, t != nil
	}, lang.TokenTypeParenClose)
	if args == nil {
		return nil
	}
	return &ast.Call{
		Function: ast.FunctionDescriptor{Name: maybeName.Value, Arity: len(args)},
		Args:     args,
	}
}

// TermLiteral = int_lit
func (p *parserImpTokens) parseTermLiteral() ast.Term {
	maybeToken := p.expectOne(lang.TokenTypeIntegerDecimal)
	if maybeToken == nil {
		return nil
	}
	i, err := strconv.ParseInt(maybeToken.Value, 10, 64)
	if err != nil {
		p.reportAt(maybeToken.Span.Start, exc.CodeInvalidLiteral, fmt.Sprintf("integer literal %s does not fit in a 64-bit signed integer", maybeToken.Value))
		return nil
	}
	return &ast.Literal{Value: i}
}
