// Package lineedit implements line-range-addressed file editing and
// binary-safe capped file reading for the executor's updateFile and
// readFile actions. Lines are 1-based and intervals are inclusive; every
// write preserves the invariant that each non-final line ends with exactly
// one newline.
package lineedit

import (
	"fmt"
	"os"
	"strings"
)

// Failure messages surfaced verbatim in results. The dashboard matches on
// these strings, so they are part of the wire contract.
const (
	MsgFileNotFound    = "File not found."
	MsgBadUpdateRange  = "Invalid line range. Use 'start-end' or 'append'."
	MsgBadReadRange    = "Invalid range format. Use 'start-end'."
	MsgOverwritten     = "File overwritten successfully."
	MsgAppended        = "Content successfully appended to end of file."
	msgLinesUpdatedFmt = "Lines %d-%d updated."
)

// Update applies a range-addressed mutation to the file at path. The file
// must already exist. Returns a human-readable message on success and the
// failure message otherwise.
func Update(path, rangeSpec, content string) (bool, string) {
	if _, err := os.Stat(path); err != nil {
		return false, MsgFileNotFound
	}

	r, ok := ParseRange(rangeSpec)
	if !ok {
		return false, MsgBadUpdateRange
	}

	// Full overwrite skips line normalization: the file becomes the
	// literal content bytes.
	if r.Mode == ModeOverwrite {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return false, fmt.Sprintf("Overwrite failed: %v", err)
		}
		return true, MsgOverwritten
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Sprintf("Update failed: %v", err)
	}
	lines := splitKeepEnds(string(data))
	newLines := normalizeLines(content)

	var msg string
	switch r.Mode {
	case ModeAppend:
		// Terminate the current final line first so the appended
		// content cannot concatenate onto it.
		if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
			lines[n-1] += "\n"
		}
		lines = append(lines, newLines...)
		msg = MsgAppended

	case ModeSpan:
		// Same repair for the line preceding the spliced interval.
		if r.Start > 1 && len(lines) >= r.Start-1 {
			if prev := r.Start - 2; !strings.HasSuffix(lines[prev], "\n") {
				lines[prev] += "\n"
			}
		}
		lo, hi := clampSpan(r.Start, r.End, len(lines))
		spliced := make([]string, 0, lo+len(newLines)+len(lines)-hi)
		spliced = append(spliced, lines[:lo]...)
		spliced = append(spliced, newLines...)
		spliced = append(spliced, lines[hi:]...)
		lines = spliced
		msg = fmt.Sprintf(msgLinesUpdatedFmt, r.Start, r.End)
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "")), 0644); err != nil {
		return false, fmt.Sprintf("Update failed: %v", err)
	}
	return true, msg
}
