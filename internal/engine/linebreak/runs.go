package linebreak

import "unicode/utf8"

// Break identifies the terminator ending a run of text.
type Break uint8

const (
	// BreakNone marks the final run, which has no terminator.
	BreakNone Break = iota

	// BreakCR is a lone carriage return.
	BreakCR

	// BreakLF is a lone line feed.
	BreakLF

	// BreakCRLF is a carriage return immediately followed by a line feed.
	BreakCRLF
)

// Len returns the terminator's length in characters.
func (b Break) Len() int64 {
	switch b {
	case BreakCR, BreakLF:
		return 1
	case BreakCRLF:
		return 2
	default:
		return 0
	}
}

// String returns the terminator's text.
func (b Break) String() string {
	switch b {
	case BreakCR:
		return "\r"
	case BreakLF:
		return "\n"
	case BreakCRLF:
		return "\r\n"
	default:
		return ""
	}
}

// Run is a span of consecutive non-break characters plus the terminator
// that ends it. The final run of an index always has BreakNone; every
// other run has a real terminator, so run k describes line k.
type Run struct {
	Chars int64
	Break Break
}

// Len returns the run's total width in characters, terminator included.
func (r Run) Len() int64 {
	return r.Chars + r.Break.Len()
}

// Summary implements sumtree.Item.
func (r Run) Summary() Tally {
	t := Tally{Chars: r.Len()}
	if r.Break != BreakNone {
		t.Breaks = 1
	}
	return t
}

// Tally aggregates runs: Chars counts every character including
// terminators, Breaks counts terminators.
type Tally struct {
	Chars  int64
	Breaks int64
}

// Add implements sumtree.Summary.
func (t Tally) Add(o Tally) Tally {
	return Tally{Chars: t.Chars + o.Chars, Breaks: t.Breaks + o.Breaks}
}

// scanRuns decomposes text into runs. The result always ends with a
// BreakNone run, possibly of zero characters.
func scanRuns(s string) []Run {
	runs := make([]Run, 0, 4)
	var chars int64
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch r {
		case '\r':
			if i+size < len(s) && s[i+size] == '\n' {
				runs = append(runs, Run{chars, BreakCRLF})
				i += size + 1
			} else {
				runs = append(runs, Run{chars, BreakCR})
				i += size
			}
			chars = 0
		case '\n':
			runs = append(runs, Run{chars, BreakLF})
			chars = 0
			i += size
		default:
			chars++
			i += size
		}
	}
	return append(runs, Run{chars, BreakNone})
}

// normalizeRuns coalesces a CR-terminated run directly followed by an
// empty LF run into one CRLF run. Splices around run boundaries can
// produce that adjacency, which would otherwise miscount "\r\n" as two
// breaks.
func normalizeRuns(runs []Run) []Run {
	out := runs[:0]
	for _, r := range runs {
		if n := len(out); n > 0 && out[n-1].Break == BreakCR && r.Chars == 0 && r.Break == BreakLF {
			out[n-1].Break = BreakCRLF
			continue
		}
		out = append(out, r)
	}
	return out
}

// DetectEnding returns the most frequent terminator in text, for choosing
// a document's default. Ties and break-free text resolve to BreakLF.
func DetectEnding(text string) Break {
	var cr, lf, crlf int
	for _, r := range scanRuns(text) {
		switch r.Break {
		case BreakCR:
			cr++
		case BreakLF:
			lf++
		case BreakCRLF:
			crlf++
		}
	}
	switch {
	case cr > lf && cr > crlf:
		return BreakCR
	case crlf > lf:
		return BreakCRLF
	default:
		return BreakLF
	}
}
