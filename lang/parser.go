package lang

import (
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/modu/internal/symbol"
)

// ParseErrors collects every syntax diagnostic found in one parse (§4.2:
// "multiple errors from one parse must all be surfaced").
type ParseErrors []*Diagnostic

func (pe ParseErrors) Error() string {
	if len(pe) == 0 {
		return "no parse errors"
	}
	return pe[0].Message
}

// parser turns a lexer's token stream into spanned statements via
// precedence-climbing (§4.2). It mirrors the teacher's parserState (a
// struct owning the lexer and accumulating errors) but is
// hand-written recursive descent rather than goyacc-generated: the
// precedence table §4.2 specifies (chainable left-assoc comparisons,
// non-assoc ranges, right-assoc **) and the postfix-chain-fold it
// requires don't map onto the teacher's LALR grammar without changing its
// shape, so this is new code written in the teacher's "lexer-owns-state,
// errors accumulate" idiom. Incomplete input is reported as an ordinary
// ParseErrors entry; there is no io.EOF sentinel.
type parser struct {
	lex *lexer
	src string

	tok    Token
	span   Span
	strVal string
	intVal int64
	fltVal float64

	errs ParseErrors
}

// tokenState snapshots enough of the parser to backtrack one identifier
// of lookahead, used to disambiguate "NAME op-assign expr ;" from a bare
// expression statement starting with an identifier.
type tokenState struct {
	lex    lexer
	tok    Token
	span   Span
	strVal string
	intVal int64
	fltVal float64
}

func newParser(src string) *parser {
	p := &parser{lex: newLexer(src), src: src}
	p.advance()
	return p
}

func (p *parser) save() tokenState {
	return tokenState{lex: *p.lex, tok: p.tok, span: p.span, strVal: p.strVal, intVal: p.intVal, fltVal: p.fltVal}
}

func (p *parser) restore(s tokenState) {
	*p.lex = s.lex
	p.tok, p.span, p.strVal, p.intVal, p.fltVal = s.tok, s.span, s.strVal, s.intVal, s.fltVal
}

func (p *parser) advance() {
	p.lex.next()
	p.tok, p.span, p.strVal, p.intVal, p.fltVal = p.lex.curTok, p.lex.curSpan, p.lex.curStr, p.lex.curInt, p.lex.curFlt
	if p.lex.err != nil {
		p.errs = append(p.errs, &Diagnostic{Message: p.lex.err.message, MessageShort: short(p.lex.err.message), Span: p.lex.err.span})
		p.lex.err = nil
	}
}

func (p *parser) errorf(span Span, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errs = append(p.errs, &Diagnostic{Message: msg, MessageShort: short(msg), Span: span})
}

// expect consumes tok, reporting an expected/found mismatch otherwise.
// Reports and returns the current span either way so callers can continue
// building a (possibly partial) node.
func (p *parser) expect(tok Token, context string) Span {
	span := p.span
	if p.tok != tok {
		p.errorf(p.span, "expected %v %s, found %v", tok, context, p.tok)
		return span
	}
	p.advance()
	return span
}

func (p *parser) at(tok Token) bool { return p.tok == tok }

// synchronize skips tokens until a statement boundary (';', '}', or EOF)
// so one syntax error doesn't cascade into spurious follow-on errors.
func (p *parser) synchronize() {
	for !p.at(tokEOF) && !p.at(tokRBrace) {
		if p.at(tokSemi) {
			p.advance()
			return
		}
		p.advance()
	}
}

// Parse parses src into a sequence of top-level statements. Parse errors
// (if any) are returned as ParseErrors; the caller should not proceed to
// validation/evaluation if err != nil (§2's "a diagnostic at any stage
// halts the run").
func Parse(src string) ([]Node, error) {
	p := newParser(src)
	stmts := p.parseStatements(tokEOF)
	if len(p.errs) > 0 {
		return stmts, p.errs
	}
	return stmts, nil
}

func (p *parser) parseStatements(end Token) []Node {
	var stmts []Node
	for !p.at(end) && !p.at(tokEOF) {
		before := p.span
		stmt, ok := p.parseStatement()
		if ok {
			stmts = append(stmts, stmt)
		} else {
			if p.span == before {
				p.advance() // guarantee forward progress
			}
			p.synchronize()
		}
	}
	return stmts
}

func (p *parser) parseBlock() Node {
	start := p.expect(tokLBrace, "to start a block")
	stmts := p.parseStatements(tokRBrace)
	end := p.span
	p.expect(tokRBrace, "to close block")
	return Node{Kind: KBlock, Span: start.Join(end), Elems: stmts}
}

func (p *parser) parseStatement() (Node, bool) {
	switch p.tok {
	case tokLet:
		return p.parseLet()
	case tokFn:
		return p.parseFn()
	case tokLoop:
		return p.parseLoop()
	case tokFor:
		return p.parseFor()
	case tokWhile:
		return p.parseWhile()
	case tokIf:
		return p.parseIf()
	case tokImport:
		return p.parseImport()
	case tokReturn:
		return p.parseReturn()
	case tokBreak:
		start := p.span
		p.advance()
		p.expect(tokSemi, "after break")
		return Node{Kind: KBreak, Span: start}, true
	case tokContinue:
		start := p.span
		p.advance()
		p.expect(tokSemi, "after continue")
		return Node{Kind: KContinue, Span: start}, true
	case tokLBrace:
		return p.parseBlock(), true
	case tokIdent:
		if stmt, ok, handled := p.tryParseAssignStatement(); handled {
			return stmt, ok
		}
		fallthrough
	default:
		expr := p.parseExpr()
		end := p.span
		p.expect(tokSemi, "after expression")
		expr.Span = expr.Span.Join(end)
		return expr, true
	}
}

func (p *parser) parseLet() (Node, bool) {
	start := p.expect(tokLet, "")
	if p.tok != tokIdent {
		p.errorf(p.span, "expected identifier after let, found %v", p.tok)
		return Node{}, false
	}
	name := symbol.Intern(p.strVal)
	p.advance()
	p.expect(tokAssign, "in let binding")
	value := p.parseExpr()
	end := p.span
	p.expect(tokSemi, "after let binding")
	return Node{Kind: KLet, Span: start.Join(end), Name: name, RHS: &value}, true
}

// tryParseAssignStatement looks ahead past a leading identifier to decide
// between "NAME op-assign expr ;" and an expression statement. handled is
// false when the identifier turned out to start a plain expression, in
// which case the parser state has been restored and the caller should
// fall through to normal expression-statement parsing.
func (p *parser) tryParseAssignStatement() (stmt Node, ok bool, handled bool) {
	saved := p.save()
	name := p.strVal
	start := p.span
	p.advance()
	if p.tok != tokAssign && assignOpFor(p.tok) == OpNone {
		p.restore(saved)
		return Node{}, false, false
	}
	op := assignOpFor(p.tok)
	p.advance()
	value := p.parseExpr()
	end := p.span
	p.expect(tokSemi, "after assignment")
	return Node{Kind: KAssign, Span: start.Join(end), Name: symbol.Intern(name), Op: op, RHS: &value}, true, true
}

func (p *parser) parseFn() (Node, bool) {
	start := p.expect(tokFn, "")
	if p.tok != tokIdent {
		p.errorf(p.span, "expected function name, found %v", p.tok)
		return Node{}, false
	}
	name := symbol.Intern(p.strVal)
	p.advance()
	params := p.parseParamList()
	body := p.parseBlock()
	return Node{Kind: KFunction, Span: start.Join(body.Span), Name: name, Params: params, Then: &body}, true
}

func (p *parser) parseParamList() []symbol.ID {
	p.expect(tokLParen, "to start parameter list")
	var params []symbol.ID
	for !p.at(tokRParen) && !p.at(tokEOF) {
		if p.tok != tokIdent {
			p.errorf(p.span, "expected parameter name, found %v", p.tok)
			break
		}
		params = append(params, symbol.Intern(p.strVal))
		p.advance()
		if p.at(tokComma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(tokRParen, "to close parameter list")
	return params
}

func (p *parser) parseLoop() (Node, bool) {
	start := p.expect(tokLoop, "")
	body := p.parseBlock()
	return Node{Kind: KInfiniteLoop, Span: start.Join(body.Span), Then: &body}, true
}

func (p *parser) parseWhile() (Node, bool) {
	start := p.expect(tokWhile, "")
	cond := p.parseExpr()
	body := p.parseBlock()
	return Node{Kind: KWhileLoop, Span: start.Join(body.Span), Cond: &cond, Then: &body}, true
}

func (p *parser) parseFor() (Node, bool) {
	start := p.expect(tokFor, "")
	if p.tok != tokIdent {
		p.errorf(p.span, "expected loop variable name, found %v", p.tok)
		return Node{}, false
	}
	name := symbol.Intern(p.strVal)
	p.advance()
	if p.at(tokAssign) {
		log.Printf("modu: deprecated `for %s = expr` syntax, use `for %s in expr`", name.Str(), name.Str())
		p.advance()
	} else {
		p.expect(tokIn, "in for loop")
	}
	rangeExpr := p.parseExpr()
	body := p.parseBlock()
	return Node{Kind: KForLoop, Span: start.Join(body.Span), Name: name, RHS: &rangeExpr, Then: &body}, true
}

func (p *parser) parseIf() (Node, bool) {
	start := p.expect(tokIf, "")
	cond := p.parseExpr()
	then := p.parseBlock()
	node := Node{Kind: KIf, Span: start.Join(then.Span), Cond: &cond, Then: &then}
	for p.at(tokElseIf) {
		p.advance()
		elseCond := p.parseExpr()
		elseBody := p.parseBlock()
		node.ElseIfs = append(node.ElseIfs, ElseIf{Cond: elseCond, Body: elseBody})
		node.Span = node.Span.Join(elseBody.Span)
	}
	if p.at(tokElse) {
		p.advance()
		elseBody := p.parseBlock()
		node.Else = &elseBody
		node.Span = node.Span.Join(elseBody.Span)
	}
	return node, true
}

func (p *parser) parseImport() (Node, bool) {
	start := p.expect(tokImport, "")
	if p.tok != tokString {
		p.errorf(p.span, "expected string after import, found %v", p.tok)
		return Node{}, false
	}
	path := p.strVal
	p.advance()
	node := Node{Kind: KImport, StrVal: path}
	if p.at(tokAs) {
		p.advance()
		if p.at(tokStar) {
			// "*" is always lexed as tokStar (the multiplicative operator);
			// after `as` that token is accepted as the splat sentinel.
			p.advance()
			node.BoolVal = true
		} else if p.tok == tokIdent {
			node.Name = symbol.Intern(p.strVal)
			p.advance()
		} else {
			p.errorf(p.span, "expected identifier or * after as, found %v", p.tok)
		}
	}
	end := p.span
	p.expect(tokSemi, "after import")
	node.Span = start.Join(end)
	return node, true
}

func (p *parser) parseReturn() (Node, bool) {
	start := p.expect(tokReturn, "")
	if p.at(tokSemi) {
		end := p.span
		p.advance()
		return Node{Kind: KReturn, Span: start.Join(end)}, true
	}
	value := p.parseExpr()
	end := p.span
	p.expect(tokSemi, "after return value")
	return Node{Kind: KReturn, Span: start.Join(end), RHS: &value}, true
}

// --- expressions: precedence climbing, §4.2, lowest to highest ---------

func (p *parser) parseExpr() Node { return p.parseComparison() }

var comparisonOps = map[Token]Op{
	tokEq: OpEqual, tokNeq: OpNotEqual,
	tokLt: OpLt, tokLe: OpLe, tokGt: OpGt, tokGe: OpGe,
	tokIn: OpIn, tokNotIn: OpNotIn,
}

func (p *parser) parseComparison() Node {
	left := p.parseRangeIncl()
	for {
		op, ok := comparisonOps[p.tok]
		if !ok {
			return left
		}
		p.advance()
		right := p.parseRangeIncl()
		left = Node{Kind: KBinaryOp, Span: left.Span.Join(right.Span), Op: op, LHS: &left, RHS: &right}
	}
}

func (p *parser) parseRangeIncl() Node {
	left := p.parseRangeExcl()
	if p.at(tokRangeIncl) {
		p.advance()
		right := p.parseRangeExcl()
		return Node{Kind: KInclusiveRange, Span: left.Span.Join(right.Span), RangeStart: &left, RangeEnd: &right}
	}
	return left
}

func (p *parser) parseRangeExcl() Node {
	left := p.parseAdditive()
	if p.at(tokRange) {
		p.advance()
		right := p.parseAdditive()
		return Node{Kind: KRange, Span: left.Span.Join(right.Span), RangeStart: &left, RangeEnd: &right}
	}
	return left
}

func (p *parser) parseAdditive() Node {
	left := p.parseMultiplicative()
	for p.at(tokPlus) || p.at(tokMinus) {
		op := OpAdd
		if p.tok == tokMinus {
			op = OpSub
		}
		p.advance()
		right := p.parseMultiplicative()
		left = Node{Kind: KBinaryOp, Span: left.Span.Join(right.Span), Op: op, LHS: &left, RHS: &right}
	}
	return left
}

func (p *parser) parseMultiplicative() Node {
	left := p.parsePower()
	for p.at(tokStar) || p.at(tokSlash) || p.at(tokPercent) {
		var op Op
		switch p.tok {
		case tokStar:
			op = OpMul
		case tokSlash:
			op = OpDiv
		case tokPercent:
			op = OpMod
		}
		p.advance()
		right := p.parsePower()
		left = Node{Kind: KBinaryOp, Span: left.Span.Join(right.Span), Op: op, LHS: &left, RHS: &right}
	}
	return left
}

// parsePower is right-associative: a**b**c == a**(b**c), so the
// recursive call is to parsePower itself rather than looping.
func (p *parser) parsePower() Node {
	left := p.parseUnary()
	if p.at(tokPow) {
		p.advance()
		right := p.parsePower()
		return Node{Kind: KBinaryOp, Span: left.Span.Join(right.Span), Op: OpPow, LHS: &left, RHS: &right}
	}
	return left
}

func (p *parser) parseUnary() Node {
	if p.at(tokMinus) {
		start := p.span
		p.advance()
		operand := p.parseUnary()
		return Node{Kind: KUnaryOp, Span: start.Join(operand.Span), Op: OpNeg, RHS: &operand}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() Node {
	node := p.parseAtom()
	for {
		switch p.tok {
		case tokDot:
			p.advance()
			if p.tok != tokIdent {
				p.errorf(p.span, "expected property name after '.', found %v", p.tok)
				return node
			}
			prop := symbol.Intern(p.strVal)
			end := p.span
			p.advance()
			node = Node{Kind: KPropertyAccess, Span: node.Span.Join(end), LHS: &node, Name: prop}
		case tokLParen:
			p.advance()
			var args []Node
			for !p.at(tokRParen) && !p.at(tokEOF) {
				args = append(args, p.parseExpr())
				if p.at(tokComma) {
					p.advance()
				} else {
					break
				}
			}
			end := p.span
			p.expect(tokRParen, "to close call arguments")
			node = Node{Kind: KCall, Span: node.Span.Join(end), LHS: &node, Elems: args}
		case tokLBracket:
			p.advance()
			index := p.parseExpr()
			end := p.span
			p.expect(tokRBracket, "to close index expression")
			// §4.2: IndexAccess's span deliberately extends one byte past the
			// index expression's end to include the closing ']'.
			node = Node{Kind: KIndexAccess, Span: Span{node.Span.Start, index.Span.End + 1}, LHS: &node, RHS: &index}
		default:
			return node
		}
	}
}

func (p *parser) parseAtom() Node {
	switch p.tok {
	case tokInt:
		n := Node{Kind: KInt, Span: p.span, IntVal: p.intVal}
		p.advance()
		return n
	case tokFloat:
		n := Node{Kind: KFloat, Span: p.span, FloatVal: p.fltVal}
		p.advance()
		return n
	case tokString:
		n := Node{Kind: KString, Span: p.span, StrVal: p.strVal}
		p.advance()
		return n
	case tokTrue:
		n := Node{Kind: KBool, Span: p.span, BoolVal: true}
		p.advance()
		return n
	case tokFalse:
		n := Node{Kind: KBool, Span: p.span, BoolVal: false}
		p.advance()
		return n
	case tokNull:
		n := Node{Kind: KNull, Span: p.span}
		p.advance()
		return n
	case tokIdent:
		n := Node{Kind: KIdentifier, Span: p.span, Name: symbol.Intern(p.strVal)}
		p.advance()
		return n
	case tokLParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(tokRParen, "to close parenthesized expression")
		return inner
	case tokLBracket:
		start := p.span
		p.advance()
		var elems []Node
		for !p.at(tokRBracket) && !p.at(tokEOF) {
			elems = append(elems, p.parseExpr())
			if p.at(tokComma) {
				p.advance()
			} else {
				break
			}
		}
		end := p.span
		p.expect(tokRBracket, "to close array literal")
		return Node{Kind: KArray, Span: start.Join(end), Elems: elems}
	default:
		span := p.span
		p.errorf(span, "unexpected token %v", p.tok)
		p.advance()
		return Node{Kind: KNull, Span: span}
	}
}
