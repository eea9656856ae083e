package ir

import "fmt"

// TokenKind identifies the lexical category of a Token (spec.md §4.1).
type TokenKind int

const (
	TokEOF TokenKind = iota

	// Keywords.
	TokDefine
	TokDeclare
	TokRet
	TokBr
	TokSwitch
	TokCall
	TokLabel
	TokTo

	// Opcodes.
	TokAdd
	TokSub
	TokMul
	TokUDiv
	TokSDiv
	TokURem
	TokSRem
	TokAnd
	TokOr
	TokXor
	TokShl
	TokLShr
	TokAShr
	TokICmp
	TokLoad
	TokStore
	TokAlloca
	TokGetElementPtr
	TokPhi

	// Compare predicates.
	TokEq
	TokNe
	TokSlt
	TokSle
	TokSgt
	TokSge
	TokUlt
	TokUle
	TokUgt
	TokUge

	// Types.
	TokVoid
	TokIntType // carries Int = bit width
	TokPtr

	// Literals.
	TokInteger // carries Int
	TokTrue
	TokFalse
	TokString // carries Str

	// Identifiers.
	TokGlobalIdent // carries Str, includes leading '@'
	TokLocalIdent  // carries Str, includes leading '%'
	TokNumericIdent
	TokIdent // bare word, used for block label definitions

	// Punctuation.
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLBracket
	TokRBracket
	TokLAngle
	TokRAngle
	TokComma
	TokEquals
	TokStar
	TokColon
	TokEllipsis
)

var tokenKindNames = map[TokenKind]string{
	TokEOF: "EOF",
	TokDefine: "define", TokDeclare: "declare", TokRet: "ret", TokBr: "br",
	TokSwitch: "switch", TokCall: "call", TokLabel: "label", TokTo: "to",
	TokAdd: "add", TokSub: "sub", TokMul: "mul", TokUDiv: "udiv", TokSDiv: "sdiv",
	TokURem: "urem", TokSRem: "srem", TokAnd: "and", TokOr: "or", TokXor: "xor",
	TokShl: "shl", TokLShr: "lshr", TokAShr: "ashr", TokICmp: "icmp",
	TokLoad: "load", TokStore: "store", TokAlloca: "alloca",
	TokGetElementPtr: "getelementptr", TokPhi: "phi",
	TokEq: "eq", TokNe: "ne", TokSlt: "slt", TokSle: "sle", TokSgt: "sgt",
	TokSge: "sge", TokUlt: "ult", TokUle: "ule", TokUgt: "ugt", TokUge: "uge",
	TokVoid: "void", TokIntType: "int-type", TokPtr: "ptr",
	TokInteger: "integer", TokTrue: "true", TokFalse: "false", TokString: "string",
	TokGlobalIdent: "global-ident", TokLocalIdent: "local-ident", TokNumericIdent: "numeric-ident",
	TokIdent: "identifier",
	TokLParen: "(", TokRParen: ")", TokLBrace: "{", TokRBrace: "}",
	TokLBracket: "[", TokRBracket: "]", TokLAngle: "<", TokRAngle: ">",
	TokComma: ",", TokEquals: "=", TokStar: "*", TokColon: ":", TokEllipsis: "...",
}

// String implements fmt.Stringer.
func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// keywords maps the reserved words (and opcode/predicate mnemonics) to
// their token kind. Anything not in this table lexes as an identifier,
// number, or punctuation.
var keywords = map[string]TokenKind{
	"define": TokDefine, "declare": TokDeclare, "ret": TokRet, "br": TokBr,
	"switch": TokSwitch, "call": TokCall, "label": TokLabel, "to": TokTo,
	"add": TokAdd, "sub": TokSub, "mul": TokMul, "udiv": TokUDiv, "sdiv": TokSDiv,
	"urem": TokURem, "srem": TokSRem, "and": TokAnd, "or": TokOr, "xor": TokXor,
	"shl": TokShl, "lshr": TokLShr, "ashr": TokAShr, "icmp": TokICmp,
	"load": TokLoad, "store": TokStore, "alloca": TokAlloca,
	"getelementptr": TokGetElementPtr, "phi": TokPhi,
	"eq": TokEq, "ne": TokNe, "slt": TokSlt, "sle": TokSle, "sgt": TokSgt,
	"sge": TokSge, "ult": TokUlt, "ule": TokUle, "ugt": TokUgt, "uge": TokUge,
	"void": TokVoid, "ptr": TokPtr, "true": TokTrue, "false": TokFalse,
}

// Token is a single lexical token with its source span (spec.md §4.1: "a
// lazy sequence of (start_offset, token, end_offset) triples").
type Token struct {
	Kind  TokenKind
	Start int
	End   int

	Int int64
	Str string
}

// String implements fmt.Stringer for debugging.
func (t Token) String() string {
	switch t.Kind {
	case TokIntType:
		return fmt.Sprintf("i%d", t.Int)
	case TokInteger:
		return fmt.Sprintf("%d", t.Int)
	case TokGlobalIdent, TokLocalIdent, TokNumericIdent, TokString, TokIdent:
		return t.Str
	default:
		return t.Kind.String()
	}
}
