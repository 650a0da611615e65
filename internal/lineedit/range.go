package lineedit

import (
	"strconv"
	"strings"
)

// Mode selects how an update addresses the target file.
type Mode int

const (
	// ModeSpan replaces the 1-based inclusive line interval [Start, End].
	ModeSpan Mode = iota

	// ModeAppend adds content after the last line.
	ModeAppend

	// ModeOverwrite discards the file and writes the content verbatim.
	ModeOverwrite
)

// overwriteSentinel is the literal range the dashboard sends for a full
// file replacement. It bypasses per-line processing entirely.
const overwriteSentinel = "0-999999"

// Range is a parsed update address.
type Range struct {
	Mode  Mode
	Start int
	End   int
}

// ParseRange parses an update range spec. Empty input or "append"
// (case-insensitive) selects append mode; the overwrite sentinel selects
// full overwrite; otherwise the spec must be "start-end" or a single line
// number "n" meaning n-n.
func ParseRange(spec string) (Range, bool) {
	if spec == overwriteSentinel {
		return Range{Mode: ModeOverwrite}, true
	}
	if spec == "" || strings.EqualFold(spec, "append") {
		return Range{Mode: ModeAppend}, true
	}

	start, end, ok := parseSpan(spec)
	if !ok {
		return Range{}, false
	}
	return Range{Mode: ModeSpan, Start: start, End: end}, true
}

// parseSpan parses "start-end" or a bare line number.
func parseSpan(spec string) (start, end int, ok bool) {
	if before, after, found := strings.Cut(spec, "-"); found {
		start, err1 := strconv.Atoi(strings.TrimSpace(before))
		end, err2 := strconv.Atoi(strings.TrimSpace(after))
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return start, end, true
	}

	n, err := strconv.Atoi(strings.TrimSpace(spec))
	if err != nil {
		return 0, 0, false
	}
	return n, n, true
}

// splitKeepEnds splits text into lines, each retaining its terminator.
// The final line may lack one. Empty text yields no lines.
func splitKeepEnds(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// normalizeLines splits incoming content and terminates every resulting
// line, including the last, with exactly one newline.
func normalizeLines(content string) []string {
	if content == "" {
		return nil
	}
	raw := strings.Split(content, "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = line + "\n"
	}
	return lines
}

// clampSpan converts a 1-based inclusive interval to slice bounds over n
// lines. Out-of-range intervals clamp to whatever overlap exists; an empty
// overlap is valid and selects nothing.
func clampSpan(start, end, n int) (lo, hi int) {
	lo = start - 1
	if lo < 0 {
		lo = 0
	}
	if lo > n {
		lo = n
	}
	hi = end
	if hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
