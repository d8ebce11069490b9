package lang

import (
	"fmt"
	"math"

	"github.com/grailbio/modu/internal/marshal"
	"github.com/grailbio/modu/internal/symbol"
)

// moduleCacheFormatVersion is bumped whenever EncodeModule/DecodeModule's
// wire shape changes, so a cache entry written by an older binary is never
// decoded by a newer one (internal/modcache keys also fold in the source
// hash, so an edited file is never served stale either).
const moduleCacheFormatVersion = 1

// EncodeModule serializes a parsed (pre-evaluation) statement list, the
// output of Parse, to a compact binary form internal/modcache persists.
// Only Kinds the parser itself produces are handled — runtime-only Kinds
// (KInternalFunction, KFile, KFFILibrary) never appear in Parse's output.
func EncodeModule(stmts []Node) []byte {
	enc := marshal.NewEncoder(nil)
	enc.PutVarint(moduleCacheFormatVersion)
	enc.PutVarint(int64(len(stmts)))
	for _, s := range stmts {
		encodeNode(enc, s)
	}
	return marshal.ReleaseEncoder(enc)
}

// DecodeModule is EncodeModule's inverse. It returns an error (rather than
// panicking) on any format mismatch, so a corrupt or foreign-version cache
// entry is treated as a cache miss, not a crash.
func DecodeModule(data []byte) (stmts []Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			stmts, err = nil, fmt.Errorf("modcache: corrupt module encoding: %v", r)
		}
	}()
	dec := marshal.NewDecoder(data)
	defer marshal.ReleaseDecoder(dec)
	if v := dec.Varint(); v != moduleCacheFormatVersion {
		return nil, fmt.Errorf("modcache: format version %d, want %d", v, moduleCacheFormatVersion)
	}
	n := int(dec.Varint())
	stmts = make([]Node, n)
	for i := range stmts {
		stmts[i] = decodeNode(dec)
	}
	return stmts, nil
}

func encodeOptNode(enc *marshal.Encoder, n *Node) {
	enc.PutBool(n != nil)
	if n != nil {
		encodeNode(enc, *n)
	}
}

func decodeOptNode(dec *marshal.Decoder) *Node {
	if !dec.Bool() {
		return nil
	}
	n := decodeNode(dec)
	return &n
}

func encodeNode(enc *marshal.Encoder, n Node) {
	enc.PutByte(byte(n.Kind))
	enc.PutVarint(int64(n.Span.Start))
	enc.PutVarint(int64(n.Span.End))

	switch n.Kind {
	case KInt:
		enc.PutVarint(n.IntVal)
	case KFloat:
		enc.PutVarint(int64(math.Float64bits(n.FloatVal)))
	case KString:
		enc.PutString(n.StrVal)
	case KBool:
		enc.PutBool(n.BoolVal)
	case KNull:
		// no payload
	case KIdentifier:
		enc.PutString(n.Name.Str())
	case KArray:
		encodeNodeSlice(enc, n.Elems)
	case KObject, KModule:
		enc.PutVarint(int64(len(n.Fields)))
		for _, f := range n.Fields {
			enc.PutString(f.Key.Str())
			encodeNode(enc, f.Value)
		}
	case KRange, KInclusiveRange:
		encodeOptNode(enc, n.RangeStart)
		encodeOptNode(enc, n.RangeEnd)
	case KUnaryOp, KBinaryOp:
		enc.PutByte(byte(n.Op))
		encodeOptNode(enc, n.LHS)
		encodeOptNode(enc, n.RHS)
	case KLet, KAssign:
		enc.PutString(n.Name.Str())
		enc.PutByte(byte(n.Op))
		encodeOptNode(enc, n.RHS)
	case KPropertyAccess:
		enc.PutString(n.Name.Str())
		encodeOptNode(enc, n.LHS)
	case KIndexAccess:
		encodeOptNode(enc, n.LHS)
		encodeOptNode(enc, n.RHS)
	case KCall:
		encodeOptNode(enc, n.LHS)
		encodeNodeSlice(enc, n.Elems)
	case KIf:
		encodeOptNode(enc, n.Cond)
		encodeOptNode(enc, n.Then)
		enc.PutVarint(int64(len(n.ElseIfs)))
		for _, ei := range n.ElseIfs {
			encodeNode(enc, ei.Cond)
			encodeNode(enc, ei.Body)
		}
		encodeOptNode(enc, n.Else)
	case KInfiniteLoop, KWhileLoop:
		encodeOptNode(enc, n.Cond)
		encodeOptNode(enc, n.Then)
	case KForLoop:
		enc.PutString(n.Name.Str())
		encodeOptNode(enc, n.RHS)
		encodeOptNode(enc, n.Then)
	case KReturn:
		encodeOptNode(enc, n.RHS)
	case KBreak, KContinue:
		// no payload
	case KBlock:
		encodeNodeSlice(enc, n.Elems)
	case KFunction:
		enc.PutString(n.Name.Str())
		enc.PutVarint(int64(len(n.Params)))
		for _, p := range n.Params {
			enc.PutString(p.Str())
		}
		encodeOptNode(enc, n.Then)
	case KImport:
		enc.PutString(n.StrVal)
		enc.PutBool(n.Name != symbol.Invalid)
		if n.Name != symbol.Invalid {
			enc.PutString(n.Name.Str())
		}
		enc.PutBool(n.BoolVal)
	default:
		panic(fmt.Sprintf("marshal: Kind %d cannot appear in parsed (pre-evaluation) output", n.Kind))
	}
}

func encodeNodeSlice(enc *marshal.Encoder, elems []Node) {
	enc.PutVarint(int64(len(elems)))
	for _, e := range elems {
		encodeNode(enc, e)
	}
}

func decodeNodeSlice(dec *marshal.Decoder) []Node {
	n := int(dec.Varint())
	if n == 0 {
		return nil
	}
	out := make([]Node, n)
	for i := range out {
		out[i] = decodeNode(dec)
	}
	return out
}

func decodeNode(dec *marshal.Decoder) Node {
	kind := Kind(dec.Byte())
	n := Node{Kind: kind}
	n.Span.Start = int(dec.Varint())
	n.Span.End = int(dec.Varint())

	switch kind {
	case KInt:
		n.IntVal = dec.Varint()
	case KFloat:
		n.FloatVal = math.Float64frombits(uint64(dec.Varint()))
	case KString:
		n.StrVal = dec.String()
	case KBool:
		n.BoolVal = dec.Bool()
	case KNull:
	case KIdentifier:
		n.Name = symbol.Intern(dec.String())
	case KArray:
		n.Elems = decodeNodeSlice(dec)
	case KObject, KModule:
		count := int(dec.Varint())
		n.Fields = make([]Field, count)
		for i := range n.Fields {
			n.Fields[i].Key = symbol.Intern(dec.String())
			n.Fields[i].Value = decodeNode(dec)
		}
	case KRange, KInclusiveRange:
		n.RangeStart = decodeOptNode(dec)
		n.RangeEnd = decodeOptNode(dec)
	case KUnaryOp, KBinaryOp:
		n.Op = Op(dec.Byte())
		n.LHS = decodeOptNode(dec)
		n.RHS = decodeOptNode(dec)
	case KLet, KAssign:
		n.Name = symbol.Intern(dec.String())
		n.Op = Op(dec.Byte())
		n.RHS = decodeOptNode(dec)
	case KPropertyAccess:
		n.Name = symbol.Intern(dec.String())
		n.LHS = decodeOptNode(dec)
	case KIndexAccess:
		n.LHS = decodeOptNode(dec)
		n.RHS = decodeOptNode(dec)
	case KCall:
		n.LHS = decodeOptNode(dec)
		n.Elems = decodeNodeSlice(dec)
	case KIf:
		n.Cond = decodeOptNode(dec)
		n.Then = decodeOptNode(dec)
		count := int(dec.Varint())
		n.ElseIfs = make([]ElseIf, count)
		for i := range n.ElseIfs {
			n.ElseIfs[i] = ElseIf{Cond: decodeNode(dec), Body: decodeNode(dec)}
		}
		n.Else = decodeOptNode(dec)
	case KInfiniteLoop, KWhileLoop:
		n.Cond = decodeOptNode(dec)
		n.Then = decodeOptNode(dec)
	case KForLoop:
		n.Name = symbol.Intern(dec.String())
		n.RHS = decodeOptNode(dec)
		n.Then = decodeOptNode(dec)
	case KReturn:
		n.RHS = decodeOptNode(dec)
	case KBreak, KContinue:
	case KBlock:
		n.Elems = decodeNodeSlice(dec)
	case KFunction:
		n.Name = symbol.Intern(dec.String())
		count := int(dec.Varint())
		n.Params = make([]symbol.ID, count)
		for i := range n.Params {
			n.Params[i] = symbol.Intern(dec.String())
		}
		n.Then = decodeOptNode(dec)
	case KImport:
		n.StrVal = dec.String()
		if dec.Bool() {
			n.Name = symbol.Intern(dec.String())
		}
		n.BoolVal = dec.Bool()
	default:
		panic(fmt.Sprintf("marshal: unknown Kind %d in cached module", kind))
	}
	return n
}
