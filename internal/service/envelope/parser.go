// Package envelope splits raw chat backend replies into the human-readable
// segment and the optional local vector data segment trailing it.
package envelope

import (
	"strings"

	"github.com/kevintang/slate-gateway/internal/model/chat"
)

const (
	// noiseLiteral is stripped from the vector data segment before display.
	noiseLiteral = `[{"}]`

	// diagnosticLimit caps the vector data segment shown to the user.
	diagnosticLimit = 250

	// truncationMarker is appended to the diagnostic segment regardless of
	// whether truncation actually occurred. Upstream consumers rely on the
	// marker being present, so it stays unconditional.
	truncationMarker = "\n......"
)

// Split parses a raw backend reply. It never fails: a reply without the
// delimiter yields only a trimmed primary segment, and an empty reply yields
// an empty one.
func Split(raw string) chat.Envelope {
	parts := strings.SplitN(raw, chat.EnvelopeDelimiter, 2)
	env := chat.Envelope{Primary: strings.TrimSpace(parts[0])}
	if len(parts) < 2 {
		return env
	}

	diag := strings.ReplaceAll(parts[1], noiseLiteral, "")
	diag = strings.TrimSpace(diag)
	if runes := []rune(diag); len(runes) > diagnosticLimit {
		diag = string(runes[:diagnosticLimit])
	}

	env.Diagnostic = diag + truncationMarker
	env.HasDiag = true
	return env
}
