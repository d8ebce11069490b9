package lang_test

import (
	"testing"

	"github.com/grailbio/modu/lang/langtest"
)

func TestStringLenCountsRunesNotBytes(t *testing.T) {
	got := langtest.Run(t, `"héllo".len();`)
	if got.String() != "5" {
		t.Fatalf("got %q", got.String())
	}
}

func TestStringSplit(t *testing.T) {
	got := langtest.Run(t, `"a,b,c".split(",");`)
	if got.String() != `["a", "b", "c"]` {
		t.Fatalf("got %q", got.String())
	}
}

func TestStringSplitEmptyDelimiterSplitsIntoRunes(t *testing.T) {
	got := langtest.Run(t, `"abc".split("");`)
	if got.String() != `["a", "b", "c"]` {
		t.Fatalf("got %q", got.String())
	}
}

func TestStringReplace(t *testing.T) {
	got := langtest.Run(t, `"foo bar foo".replace("foo", "baz");`)
	if got.String() != "baz bar baz" {
		t.Fatalf("got %q", got.String())
	}
}

func TestStringTrim(t *testing.T) {
	got := langtest.Run(t, `"  hi  ".trim();`)
	if got.String() != "hi" {
		t.Fatalf("got %q", got.String())
	}
}

func TestStringCase(t *testing.T) {
	got := langtest.Run(t, `"MiXeD".to_upper();`)
	if got.String() != "MIXED" {
		t.Fatalf("got %q", got.String())
	}
	got = langtest.Run(t, `"MiXeD".to_lower();`)
	if got.String() != "mixed" {
		t.Fatalf("got %q", got.String())
	}
}

func TestStringStartsEndsWith(t *testing.T) {
	got := langtest.Run(t, `"hello".starts_with("he");`)
	if got.String() != "true" {
		t.Fatalf("got %q", got.String())
	}
	got = langtest.Run(t, `"hello".ends_with("lo");`)
	if got.String() != "true" {
		t.Fatalf("got %q", got.String())
	}
}

func TestStringChars(t *testing.T) {
	got := langtest.Run(t, `"abc".chars();`)
	if got.String() != `["a", "b", "c"]` {
		t.Fatalf("got %q", got.String())
	}
}

func TestStringReplaceRejectsNonStringArgs(t *testing.T) {
	msg := langtest.RunError(t, `"abc".replace(1, "x");`)
	if msg == "" {
		t.Fatal("expected error for non-string replace argument")
	}
}
