package lineedit

import (
	"io"
	"os"
	"strings"
)

// MaxReadBytes caps every read at 5 MiB. Bytes past the cap are silently
// dropped; the caller sees the truncation flag, never an error.
const MaxReadBytes = 5 * 1024 * 1024

// Read returns up to MaxReadBytes of the file at path, decoded
// permissively: invalid UTF-8 sequences are dropped rather than reported.
// An empty rangeSpec returns the whole (possibly truncated) text; a
// "start-end" or single-line spec returns the clamped 1-based inclusive
// slice with line terminators kept. An out-of-range slice returns whatever
// overlap exists, possibly nothing.
func Read(path, rangeSpec string) (ok bool, text string, truncated bool) {
	f, err := os.Open(path)
	if err != nil {
		return false, MsgFileNotFound, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxReadBytes+1))
	if err != nil {
		return false, "Read error: " + err.Error(), false
	}
	if len(data) > MaxReadBytes {
		data = data[:MaxReadBytes]
		truncated = true
	}

	decoded := strings.ToValidUTF8(string(data), "")
	if rangeSpec == "" {
		return true, decoded, truncated
	}

	start, end, valid := parseSpan(rangeSpec)
	if !valid {
		return false, MsgBadReadRange, false
	}

	lines := splitKeepEnds(decoded)
	lo, hi := clampSpan(start, end, len(lines))
	return true, strings.Join(lines[lo:hi], ""), truncated
}
