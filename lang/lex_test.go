package lang

import "testing"

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	lex := newLexer(src)
	var toks []Token
	for {
		lex.next()
		toks = append(toks, lex.curTok)
		if lex.curTok == tokEOF {
			break
		}
	}
	if lex.err != nil {
		t.Fatalf("lex %q: %v", src, lex.err)
	}
	return toks
}

func TestLexOps(t *testing.T) {
	cases := []struct {
		src string
		tok Token
	}{
		{"+", tokPlus}, {"-", tokMinus}, {"*", tokStar}, {"/", tokSlash},
		{"%", tokPercent}, {"**", tokPow}, {"==", tokEq}, {"!=", tokNeq},
		{"<", tokLt}, {"<=", tokLe}, {">", tokGt}, {">=", tokGe},
		{"..", tokRange}, {"..=", tokRangeIncl}, {"+=", tokAddAssign},
		{"-=", tokSubAssign}, {"*=", tokMulAssign}, {"/=", tokDivAssign},
		{"%=", tokModAssign},
	}
	for _, c := range cases {
		lex := newLexer(c.src)
		lex.next()
		if lex.curTok != c.tok {
			t.Errorf("lex %q: got %s, want %s", c.src, lex.curTok, c.tok)
		}
	}
}

func TestLexNotInElseIf(t *testing.T) {
	toks := lexAll(t, "not in else if")
	want := []Token{tokNotIn, tokElseIf, tokEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %v, want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, toks[i], want[i])
		}
	}
}

func TestLexNotFollowedByIdentIsJustNot(t *testing.T) {
	lex := newLexer("notion")
	lex.next()
	if lex.curTok != tokIdent || lex.curStr != "notion" {
		t.Fatalf("got tok=%s str=%q, want ident notion", lex.curTok, lex.curStr)
	}
}

func TestLexNumbers(t *testing.T) {
	lex := newLexer("42")
	lex.next()
	if lex.curTok != tokInt || lex.curInt != 42 {
		t.Fatalf("got tok=%s int=%d, want int 42", lex.curTok, lex.curInt)
	}

	lex = newLexer("3.5")
	lex.next()
	if lex.curTok != tokFloat || lex.curFlt != 3.5 {
		t.Fatalf("got tok=%s flt=%v, want float 3.5", lex.curTok, lex.curFlt)
	}
}

func TestLexIntOverflow(t *testing.T) {
	lex := newLexer("99999999999999999999")
	lex.next()
	if lex.err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestLexString(t *testing.T) {
	lex := newLexer(`"hello\nworld"`)
	lex.next()
	if lex.curTok != tokString || lex.curStr != "hello\nworld" {
		t.Fatalf("got tok=%s str=%q", lex.curTok, lex.curStr)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	lex := newLexer(`"hello`)
	lex.next()
	if lex.err == nil {
		t.Fatal("expected unterminated string error")
	}
}

func TestLexComments(t *testing.T) {
	toks := lexAll(t, "1 // a comment\n+ /* block */ 2")
	want := []Token{tokInt, tokPlus, tokInt, tokEOF}
	if len(toks) != len(want) {
		t.Fatalf("got %v, want %v", toks, want)
	}
}

func TestLexKeywords(t *testing.T) {
	toks := lexAll(t, "let fn return break continue if else loop for while in import as true false null")
	want := []Token{
		tokLet, tokFn, tokReturn, tokBreak, tokContinue, tokIf, tokElse,
		tokLoop, tokFor, tokWhile, tokIn, tokImport, tokAs, tokTrue, tokFalse,
		tokNull, tokEOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %v, want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, toks[i], want[i])
		}
	}
}
