package lang_test

import (
	"testing"

	"github.com/grailbio/modu/lang"
)

func roundTrip(t *testing.T, src string) (orig, decoded []lang.Node) {
	t.Helper()
	stmts, err := lang.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	data := lang.EncodeModule(stmts)
	out, err := lang.DecodeModule(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return stmts, out
}

func evalBoth(t *testing.T, stmts []lang.Node) lang.Node {
	t.Helper()
	sess := lang.NewSession(noopHost{}, nil, "")
	result, err := sess.Run(stmts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return result
}

func TestNodecodecRoundTripPreservesEvaluation(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1 + 2;", "3"},
		{"3.5 * 2;", "7"},
		{`"a" + "b";`, "ab"},
		{"[1, 2, 3];", "[1, 2, 3]"},
		{`let x = 1; fn f(n) { return n + x; } f(5);`, "6"},
		{"for i in 0..3 { } 1;", "1"},
		{"if true { 1; } else { 2; }", "1"},
	}
	for _, c := range cases {
		_, decoded := roundTrip(t, c.src)
		got := evalBoth(t, decoded)
		if got.String() != c.want {
			t.Errorf("%s: got %q, want %q", c.src, got.String(), c.want)
		}
	}
}

func TestNodecodecPreservesFloatBits(t *testing.T) {
	_, decoded := roundTrip(t, "3.14159;")
	got := evalBoth(t, decoded)
	if got.String() != "3.14159" {
		t.Fatalf("got %q", got.String())
	}
}

func TestNodecodecRejectsCorruptData(t *testing.T) {
	_, err := lang.DecodeModule([]byte{0xff, 0xff, 0xff})
	if err == nil {
		t.Fatal("expected an error decoding corrupt data")
	}
}

func TestNodecodecRejectsWrongFormatVersion(t *testing.T) {
	stmts, err := lang.Parse("1;")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	data := lang.EncodeModule(stmts)
	// Flip the leading varint (format version byte) to something else.
	corrupted := append([]byte{}, data...)
	corrupted[0] ^= 0xff
	_, err = lang.DecodeModule(corrupted)
	if err == nil {
		t.Fatal("expected an error decoding a mismatched format version")
	}
}
