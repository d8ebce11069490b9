package lang

import "fmt"

// Span is a half-open [Start, End) byte range into an originating source
// string. It is attached to every token and every Node and is the sole
// carrier of diagnostic position.
type Span struct {
	Start, End int
}

// synthetic is used for values constructed by built-ins with no source
// origin (e.g. the return value of str(x)).
var synthetic = Span{0, 0}

// Synthetic returns a span with no source origin.
func Synthetic() Span { return synthetic }

// IsSynthetic reports whether s has no real source origin.
func (s Span) IsSynthetic() bool { return s == synthetic }

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	start, end := s.Start, s.End
	if other.Start < start {
		start = other.Start
	}
	if other.End > end {
		end = other.End
	}
	return Span{start, end}
}

// Slice returns the substring of src covered by s. It is used by the
// diagnostics renderer and by tests checking the span round-trip property.
func (s Span) Slice(src string) string {
	if s.Start < 0 || s.End > len(src) || s.Start > s.End {
		return ""
	}
	return src[s.Start:s.End]
}

func (s Span) String() string { return fmt.Sprintf("%d..%d", s.Start, s.End) }
