package ir

import "github.com/zkirc-project/zkirc/internal/diagnostic"

// parseInstruction parses one instruction, which either starts with an SSA
// result binding (`%name = ...`) or is a bare statement (store, ret, br,
// condbr, call-without-result).
func (p *Parser) parseInstruction() (*Instruction, error) {
	start := p.cur.Start

	var result string
	if p.cur.Kind == TokLocalIdent || p.cur.Kind == TokNumericIdent {
		if p.peek.Kind == TokEquals {
			result = stripSigil(p.cur.Str)
			if err := p.advance(); err != nil {
				return nil, err
			}
			if _, err := p.expect(TokEquals, "="); err != nil {
				return nil, err
			}
		}
	}

	var (
		in  *Instruction
		err error
	)
	switch p.cur.Kind {
	case TokAdd, TokSub, TokMul, TokUDiv, TokSDiv, TokURem, TokSRem,
		TokAnd, TokOr, TokXor, TokShl, TokLShr, TokAShr:
		in, err = p.parseBinary(result)
	case TokICmp:
		in, err = p.parseICmp(result)
	case TokLoad:
		in, err = p.parseLoad(result)
	case TokStore:
		in, err = p.parseStore()
	case TokAlloca:
		in, err = p.parseAlloca(result)
	case TokRet:
		in, err = p.parseRet()
	case TokBr:
		in, err = p.parseBr()
	case TokCall:
		in, err = p.parseCall(result)
	case TokPhi:
		in, err = p.parsePhi(result)
	case TokGetElementPtr:
		in, err = p.parseGEP(result)
	default:
		return nil, p.unexpected("an instruction")
	}
	if err != nil {
		return nil, err
	}
	in.Span = diagnostic.Span{Start: start, End: p.cur.Start}
	return in, nil
}

func stripSigil(s string) string {
	if len(s) > 0 && (s[0] == '%' || s[0] == '@') {
		return s[1:]
	}
	return s
}

var binaryOps = map[TokenKind]Opcode{
	TokAdd: OpAdd, TokSub: OpSub, TokMul: OpMul, TokUDiv: OpUDiv, TokSDiv: OpSDiv,
	TokURem: OpURem, TokSRem: OpSRem, TokAnd: OpAnd, TokOr: OpOr, TokXor: OpXor,
	TokShl: OpShl, TokLShr: OpLShr, TokAShr: OpAShr,
}

func (p *Parser) parseBinary(result string) (*Instruction, error) {
	op := binaryOps[p.cur.Kind]
	if err := p.advance(); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	lhs, err := p.parseValue(ty)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma, ","); err != nil {
		return nil, err
	}
	rhs, err := p.parseValue(ty)
	if err != nil {
		return nil, err
	}
	return &Instruction{Op: op, Result: result, Type: ty, Lhs: lhs, Rhs: rhs}, nil
}

var predicateTokens = map[TokenKind]ICmpPredicate{
	TokEq: Eq, TokNe: Ne, TokSlt: Slt, TokSle: Sle, TokSgt: Sgt, TokSge: Sge,
	TokUlt: Ult, TokUle: Ule, TokUgt: Ugt, TokUge: Uge,
}

func (p *Parser) parseICmp(result string) (*Instruction, error) {
	if _, err := p.expect(TokICmp, "icmp"); err != nil {
		return nil, err
	}
	pred, ok := predicateTokens[p.cur.Kind]
	if !ok {
		return nil, p.unexpected("a compare predicate")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	lhs, err := p.parseValue(ty)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma, ","); err != nil {
		return nil, err
	}
	rhs, err := p.parseValue(ty)
	if err != nil {
		return nil, err
	}
	return &Instruction{Op: OpICmp, Result: result, Type: ty, Pred: pred, Lhs: lhs, Rhs: rhs}, nil
}

// parseLoad parses `load <ty>, ptr %ptr`.
func (p *Parser) parseLoad(result string) (*Instruction, error) {
	if _, err := p.expect(TokLoad, "load"); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma, ","); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokPtr, "ptr"); err != nil {
		return nil, err
	}
	ptr, err := p.parseValue(Ptr)
	if err != nil {
		return nil, err
	}
	return &Instruction{Op: OpLoad, Result: result, Type: ty, Ptr: ptr}, nil
}

// parseStore parses `store <ty> %val, ptr %ptr`.
func (p *Parser) parseStore() (*Instruction, error) {
	if _, err := p.expect(TokStore, "store"); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	val, err := p.parseValue(ty)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma, ","); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokPtr, "ptr"); err != nil {
		return nil, err
	}
	ptr, err := p.parseValue(Ptr)
	if err != nil {
		return nil, err
	}
	return &Instruction{Op: OpStore, Type: ty, Value: val, Ptr: ptr}, nil
}

func (p *Parser) parseAlloca(result string) (*Instruction, error) {
	if _, err := p.expect(TokAlloca, "alloca"); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &Instruction{Op: OpAlloca, Result: result, Type: ty}, nil
}

func (p *Parser) parseRet() (*Instruction, error) {
	if _, err := p.expect(TokRet, "ret"); err != nil {
		return nil, err
	}
	if p.cur.Kind == TokVoid {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Instruction{Op: OpRet}, nil
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	v, err := p.parseValue(ty)
	if err != nil {
		return nil, err
	}
	return &Instruction{Op: OpRet, Type: ty, Value: v, HasRetValue: true}, nil
}

// parseBr parses `br label %dest` or `br i1 %cond, label %t, label %f`.
func (p *Parser) parseBr() (*Instruction, error) {
	if _, err := p.expect(TokBr, "br"); err != nil {
		return nil, err
	}
	if p.cur.Kind == TokLabel {
		if err := p.advance(); err != nil {
			return nil, err
		}
		dest, err := p.parseLocalRef()
		if err != nil {
			return nil, err
		}
		return &Instruction{Op: OpBr, Dest: dest}, nil
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	cond, err := p.parseValue(ty)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma, ","); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLabel, "label"); err != nil {
		return nil, err
	}
	trueDest, err := p.parseLocalRef()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma, ","); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLabel, "label"); err != nil {
		return nil, err
	}
	falseDest, err := p.parseLocalRef()
	if err != nil {
		return nil, err
	}
	return &Instruction{Op: OpCondBr, Cond: cond, TrueDest: trueDest, FalseDest: falseDest}, nil
}

// parseLocalRef parses a `%name` reference used as a block label and
// returns the bare name.
func (p *Parser) parseLocalRef() (string, error) {
	t, err := p.expect(TokLocalIdent, "a block label reference")
	if err != nil {
		return "", err
	}
	return stripSigil(t.Str), nil
}

// parseCall parses `call <ty> @callee(<ty> %arg, ...)`.
func (p *Parser) parseCall(result string) (*Instruction, error) {
	if _, err := p.expect(TokCall, "call"); err != nil {
		return nil, err
	}
	retTy, err := p.parseType()
	if err != nil {
		return nil, err
	}
	calleeTok, err := p.expect(TokGlobalIdent, "callee name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	var args []Value
	for p.cur.Kind != TokRParen {
		argTy, err := p.parseType()
		if err != nil {
			return nil, err
		}
		v, err := p.parseValue(argTy)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
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
	return &Instruction{
		Op: OpCall, Result: result, RetType: retTy,
		Callee: stripSigil(calleeTok.Str), Args: args,
	}, nil
}

// parsePhi parses `phi <ty> [ %val, %blk ], [ %val2, %blk2 ]`.
func (p *Parser) parsePhi(result string) (*Instruction, error) {
	if _, err := p.expect(TokPhi, "phi"); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	var incoming []PhiIncoming
	for {
		if _, err := p.expect(TokLBracket, "["); err != nil {
			return nil, err
		}
		v, err := p.parseValue(ty)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokComma, ","); err != nil {
			return nil, err
		}
		blkTok, err := p.expect(TokLocalIdent, "predecessor block")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBracket, "]"); err != nil {
			return nil, err
		}
		incoming = append(incoming, PhiIncoming{Value: v, Block: stripSigil(blkTok.Str)})
		if p.cur.Kind == TokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return &Instruction{Op: OpPhi, Result: result, Type: ty, Incoming: incoming}, nil
}

// parseGEP parses `getelementptr <ty>, ptr %ptr, <ty> %idx, ...`.
func (p *Parser) parseGEP(result string) (*Instruction, error) {
	if _, err := p.expect(TokGetElementPtr, "getelementptr"); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokComma, ","); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokPtr, "ptr"); err != nil {
		return nil, err
	}
	ptr, err := p.parseValue(Ptr)
	if err != nil {
		return nil, err
	}
	var indices []Value
	for p.cur.Kind == TokComma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		idxTy, err := p.parseType()
		if err != nil {
			return nil, err
		}
		idx, err := p.parseValue(idxTy)
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}
	return &Instruction{Op: OpGetElementPtr, Result: result, Type: ty, Ptr: ptr, Indices: indices}, nil
}

// parseValue parses an operand value of the given (already-parsed) type:
// a local/global reference, an integer/bool literal, null, or undef
// (spec.md §3 "Value").
func (p *Parser) parseValue(ty Type) (Value, error) {
	switch p.cur.Kind {
	case TokLocalIdent, TokNumericIdent:
		name := stripSigil(p.cur.Str)
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Local(name, ty), nil
	case TokGlobalIdent:
		name := stripSigil(p.cur.Str)
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return Global(name, ty), nil
	case TokInteger:
		v := p.cur.Int
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return ConstInt(v, ty), nil
	case TokTrue:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return ConstBool(true), nil
	case TokFalse:
		if err := p.advance(); err != nil {
			return Value{}, err
		}
		return ConstBool(false), nil
	case TokIdent:
		switch p.cur.Str {
		case "null":
			if err := p.advance(); err != nil {
				return Value{}, err
			}
			return NullPtr(), nil
		case "undef":
			if err := p.advance(); err != nil {
				return Value{}, err
			}
			return Undef(ty), nil
		}
	}
	return Value{}, p.unexpected("a value")
}
