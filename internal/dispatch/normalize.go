package dispatch

import "strings"

// reasoningCloseMarker delimits the end of an inline reasoning trace that some
// models emit ahead of their final answer.
const reasoningCloseMarker = "</think>"

// StripReasoning removes a leading reasoning-trace segment from raw model
// output. If the text contains the closing marker, everything up to and
// including the last occurrence is discarded and the remainder is trimmed of
// surrounding whitespace. Text without a marker is returned unchanged.
//
// This is a deliberate substring operation, not a parser: malformed or nested
// markers get no special handling beyond splitting on the last occurrence.
func StripReasoning(text string) string {
	idx := strings.LastIndex(text, reasoningCloseMarker)
	if idx < 0 {
		return text
	}
	return strings.TrimSpace(text[idx+len(reasoningCloseMarker):])
}
