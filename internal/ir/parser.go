package ir

import (
	"fmt"

	"github.com/zkirc-project/zkirc/internal/diagnostic"
)

// Parser consumes a Lexer's token stream and produces a Module. The
// grammar is the LLVM-text subset described in spec.md §4.1-4.2.
type Parser struct {
	lex  *Lexer
	cur  Token
	peek Token
}

// Parse lexes and parses src into a Module. On any grammar violation it
// returns a *ParseError and no partial Module (spec.md §4.2: "Does not
// partially return on failure").
func Parse(src string) (*Module, error) {
	p := &Parser{lex: NewLexer(src)}
	if err := p.init(); err != nil {
		return nil, err
	}
	return p.parseModule()
}

func (p *Parser) init() error {
	t0, err := p.lex.Next()
	if err != nil {
		return lexErrToParse(err)
	}
	t1, err := p.lex.Next()
	if err != nil {
		return lexErrToParse(err)
	}
	p.cur, p.peek = t0, t1
	return nil
}

func lexErrToParse(err error) error {
	le := err.(*LexError)
	return &ParseError{
		Kind:    UnexpectedToken,
		Span:    diagnostic.Span{Start: le.Offset, End: le.Offset + 1},
		Message: err.Error(),
	}
}

func (p *Parser) advance() error {
	p.cur = p.peek
	if p.cur.Kind == TokEOF {
		return nil
	}
	t, err := p.lex.Next()
	if err != nil {
		return lexErrToParse(err)
	}
	p.peek = t
	return nil
}

func (p *Parser) span() diagnostic.Span {
	return diagnostic.Span{Start: p.cur.Start, End: p.cur.End}
}

func (p *Parser) unexpected(expected string) error {
	if p.cur.Kind == TokEOF {
		return &ParseError{Kind: UnexpectedEOF, Span: p.span(), Message: "unexpected end of input, expected " + expected}
	}
	return &ParseError{Kind: UnexpectedToken, Span: p.span(), Message: fmt.Sprintf("expected %s, got %s", expected, p.cur)}
}

func (p *Parser) expect(k TokenKind, what string) (Token, error) {
	if p.cur.Kind != k {
		return Token{}, p.unexpected(what)
	}
	t := p.cur
	return t, p.advance()
}

func (p *Parser) parseModule() (*Module, error) {
	m := &Module{}
	for p.cur.Kind != TokEOF {
		switch p.cur.Kind {
		case TokDefine:
			fn, err := p.parseDefine()
			if err != nil {
				return nil, err
			}
			m.Functions = append(m.Functions, *fn)
		case TokDeclare:
			fn, err := p.parseDeclare()
			if err != nil {
				return nil, err
			}
			m.Functions = append(m.Functions, *fn)
		default:
			return nil, p.unexpected("'define' or 'declare'")
		}
	}
	return m, nil
}

func (p *Parser) parseDeclare() (*Function, error) {
	if _, err := p.expect(TokDeclare, "declare"); err != nil {
		return nil, err
	}
	retTy, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TokGlobalIdent, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	var params []Param
	for p.cur.Kind != TokRParen {
		if p.cur.Kind == TokEllipsis {
			if err := p.advance(); err != nil {
				return nil, err
			}
			break
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, Param{Type: ty})
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	return &Function{Name: nameTok.Str[1:], RetType: retTy, Params: params, Declared: true}, nil
}

func (p *Parser) parseDefine() (*Function, error) {
	if _, err := p.expect(TokDefine, "define"); err != nil {
		return nil, err
	}
	retTy, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TokGlobalIdent, "function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLBrace, "{"); err != nil {
		return nil, err
	}

	fn := &Function{Name: nameTok.Str[1:], RetType: retTy, Params: params}
	seen := map[string]bool{}
	first := true
	for p.cur.Kind != TokRBrace {
		blk, err := p.parseBlock(first)
		if err != nil {
			return nil, err
		}
		first = false
		if seen[blk.Name] {
			return nil, &ParseError{Kind: DuplicateLabel, Span: p.span(), Message: "duplicate block label " + blk.Name}
		}
		seen[blk.Name] = true
		fn.Blocks = append(fn.Blocks, *blk)
	}
	if _, err := p.expect(TokRBrace, "}"); err != nil {
		return nil, err
	}
	if err := checkLabelReferences(fn); err != nil {
		return nil, err
	}
	return fn, nil
}

func (p *Parser) parseParamList() ([]Param, error) {
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	var params []Param
	for p.cur.Kind != TokRParen {
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		nameTok, err := p.expect(TokLocalIdent, "parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, Param{Name: nameTok.Str[1:], Type: ty})
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseBlock parses one labeled block. first indicates whether this is the
// first block in the function, which may omit its label (spec.md §4.2:
// "first block may be unnamed (implicit entry)").
func (p *Parser) parseBlock(first bool) (*Block, error) {
	name := "entry"
	if p.cur.Kind == TokIdent && p.peek.Kind == TokColon {
		name = p.cur.Str
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokColon, ":"); err != nil {
			return nil, err
		}
	} else if !first {
		return nil, p.unexpected("block label")
	}

	blk := &Block{Name: name}
	for {
		instr, err := p.parseInstruction()
		if err != nil {
			return nil, err
		}
		blk.Instructions = append(blk.Instructions, *instr)
		if instr.IsTerminator() {
			break
		}
		if p.cur.Kind == TokRBrace {
			return nil, p.unexpected("terminator instruction")
		}
	}
	return blk, nil
}

func checkLabelReferences(fn *Function) error {
	names := map[string]bool{}
	for _, b := range fn.Blocks {
		names[b.Name] = true
	}
	for _, b := range fn.Blocks {
		for i := range b.Instructions {
			in := &b.Instructions[i]
			switch in.Op {
			case OpBr:
				if !names[in.Dest] {
					return &ParseError{Kind: UnresolvedReference, Message: "br target " + in.Dest + " not defined"}
				}
			case OpCondBr:
				if !names[in.TrueDest] || !names[in.FalseDest] {
					return &ParseError{Kind: UnresolvedReference, Message: "condbr target not defined"}
				}
			case OpPhi:
				for _, inc := range in.Incoming {
					if !names[inc.Block] {
						return &ParseError{Kind: UnresolvedReference, Message: "phi predecessor " + inc.Block + " not defined"}
					}
				}
			}
		}
	}
	return nil
}

func (p *Parser) parseType() (Type, error) {
	switch p.cur.Kind {
	case TokVoid:
		if err := p.advance(); err != nil {
			return Type{}, err
		}
		return Void, nil
	case TokPtr:
		if err := p.advance(); err != nil {
			return Type{}, err
		}
		return Ptr, nil
	case TokIntType:
		w := p.cur.Int
		if err := p.advance(); err != nil {
			return Type{}, err
		}
		return IntType(w), nil
	case TokLBracket:
		return p.parseArrayType()
	case TokLBrace:
		return p.parseStructType()
	default:
		return Type{}, &ParseError{Kind: InvalidType, Span: p.span(), Message: "expected a type, got " + p.cur.String()}
	}
}

func (p *Parser) parseArrayType() (Type, error) {
	if _, err := p.expect(TokLBracket, "["); err != nil {
		return Type{}, err
	}
	countTok, err := p.expect(TokInteger, "array length")
	if err != nil {
		return Type{}, err
	}
	if p.cur.Kind != TokIdent || p.cur.Str != "x" {
		return Type{}, p.unexpected("'x'")
	}
	if err := p.advance(); err != nil {
		return Type{}, err
	}
	elem, err := p.parseType()
	if err != nil {
		return Type{}, err
	}
	if _, err := p.expect(TokRBracket, "]"); err != nil {
		return Type{}, err
	}
	return ArrayType(countTok.Int, elem), nil
}

func (p *Parser) parseStructType() (Type, error) {
	if _, err := p.expect(TokLBrace, "{"); err != nil {
		return Type{}, err
	}
	var fields []Type
	for p.cur.Kind != TokRBrace {
		f, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		fields = append(fields, f)
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return Type{}, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(TokRBrace, "}"); err != nil {
		return Type{}, err
	}
	return StructType(fields), nil
}
